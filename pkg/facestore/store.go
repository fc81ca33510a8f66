package facestore

import (
	"FaceIDGolang/pkg/face"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

const defaultStorageDir = "./known_faces"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// StoredEncoding is the persisted per-user face descriptor document.
type StoredEncoding struct {
	UserID     string        `json:"user_id"`
	Username   string        `json:"username"`
	Encoding   face.Encoding `json:"encoding"`
	CapturedAt time.Time     `json:"captured_at"`
}

type IFaceStore interface {
	Save(enc StoredEncoding) error
	Get(userID string) (StoredEncoding, bool)
	All() []StoredEncoding
	Nearest(enc face.Encoding, k int) []StoredEncoding
	Delete(userID string) error
	Reload() error
	Count() int
	SaveSnapshot(userID string, jpegData []byte) (string, error)
	EncodingPath(userID string) string
}

type faceStore struct {
	dir       string
	log       *logrus.Logger
	mu        sync.RWMutex
	encodings map[string]StoredEncoding
	index     *shortlistIndex
}

// New opens (creating when missing) the known-faces directory and loads every
// encoding document it holds. Corrupt documents are logged and skipped.
func New(log *logrus.Logger) (IFaceStore, error) {
	dir := os.Getenv("FACE_STORAGE_DIR")
	if dir == "" {
		dir = defaultStorageDir
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create face storage directory: %w", err)
	}

	store := &faceStore{
		dir:       dir,
		log:       log,
		encodings: make(map[string]StoredEncoding),
		index:     newShortlistIndex(),
	}

	if err := store.Reload(); err != nil {
		return nil, err
	}

	return store, nil
}

func (s *faceStore) Save(enc StoredEncoding) error {
	data, err := json.MarshalIndent(enc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal encoding for %s: %w", enc.UserID, err)
	}

	if err := os.WriteFile(s.EncodingPath(enc.UserID), data, 0o644); err != nil {
		return fmt.Errorf("failed to write encoding for %s: %w", enc.UserID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, replacing := s.encodings[enc.UserID]
	s.encodings[enc.UserID] = enc

	// Graph.Add panics when the key already exists, so a re-enrolled
	// encoding rebuilds the index instead.
	if replacing {
		s.rebuildIndexLocked()
	} else {
		s.index.add(enc.UserID, enc.Encoding.Vector())
	}

	return nil
}

func (s *faceStore) Get(userID string) (StoredEncoding, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	enc, ok := s.encodings[userID]
	return enc, ok
}

func (s *faceStore) All() []StoredEncoding {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]StoredEncoding, 0, len(s.encodings))
	for _, enc := range s.encodings {
		out = append(out, enc)
	}
	return out
}

// Nearest returns up to k shortlist candidates for the query encoding. With a
// small roster every stored encoding is returned; the exact matcher always
// verifies candidates, so the shortlist only prunes, never decides.
func (s *faceStore) Nearest(enc face.Encoding, k int) []StoredEncoding {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.encodings) <= k {
		out := make([]StoredEncoding, 0, len(s.encodings))
		for _, stored := range s.encodings {
			out = append(out, stored)
		}
		return out
	}

	ids := s.index.search(enc.Vector(), k)
	out := make([]StoredEncoding, 0, len(ids))
	for _, id := range ids {
		if stored, ok := s.encodings[id]; ok {
			out = append(out, stored)
		}
	}
	return out
}

func (s *faceStore) Delete(userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.encodings, userID)
	s.rebuildIndexLocked()

	for _, path := range []string{s.EncodingPath(userID), s.snapshotPath(userID)} {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove %s: %w", path, err)
		}
	}

	return nil
}

func (s *faceStore) Reload() error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("failed to read face storage directory: %w", err)
	}

	loaded := make(map[string]StoredEncoding)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		path := filepath.Join(s.dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			s.log.WithFields(logrus.Fields{
				"file":  path,
				"error": err.Error(),
			}).Warn("Failed to read face encoding, skipping")
			continue
		}

		var enc StoredEncoding
		if err := json.Unmarshal(data, &enc); err != nil {
			s.log.WithFields(logrus.Fields{
				"file":  path,
				"error": err.Error(),
			}).Warn("Failed to parse face encoding, skipping")
			continue
		}

		if enc.UserID == "" {
			enc.UserID = strings.TrimSuffix(entry.Name(), ".json")
		}

		loaded[enc.UserID] = enc
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.encodings = loaded
	s.rebuildIndexLocked()

	s.log.WithFields(logrus.Fields{
		"dir":   s.dir,
		"count": len(loaded),
	}).Info("Loaded known face encodings")

	return nil
}

func (s *faceStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.encodings)
}

// SaveSnapshot keeps the registration frame next to the encoding, the way the
// original register flow stored <name>.jpg beside <name>.pkl.
func (s *faceStore) SaveSnapshot(userID string, jpegData []byte) (string, error) {
	path := s.snapshotPath(userID)
	if err := os.WriteFile(path, jpegData, 0o644); err != nil {
		return "", fmt.Errorf("failed to write face snapshot for %s: %w", userID, err)
	}
	return path, nil
}

func (s *faceStore) EncodingPath(userID string) string {
	return filepath.Join(s.dir, userID+".json")
}

func (s *faceStore) snapshotPath(userID string) string {
	return filepath.Join(s.dir, userID+".jpg")
}

func (s *faceStore) rebuildIndexLocked() {
	s.index = newShortlistIndex()
	for id, enc := range s.encodings {
		s.index.add(id, enc.Encoding.Vector())
	}
}
