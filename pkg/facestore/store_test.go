package facestore

import (
	"FaceIDGolang/pkg/face"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func newTestStore(t *testing.T) IFaceStore {
	t.Helper()

	t.Setenv("FACE_STORAGE_DIR", t.TempDir())

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	store, err := New(logger)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return store
}

func testEncoding(seed float64) face.Encoding {
	pixels := make([]float64, 16)
	for i := range pixels {
		pixels[i] = seed * float64(i+1) / 16
	}
	return face.Encoding{
		Pixels:    pixels,
		LBP:       []float64{0.5, 0.25, 0.25, 0},
		Gradients: []float64{0.1, 0.2, 0.3, 0.4},
	}
}

func TestSaveAndGet(t *testing.T) {
	store := newTestStore(t)

	enc := StoredEncoding{
		UserID:     "01TESTULID",
		Username:   "alice",
		Encoding:   testEncoding(0.5),
		CapturedAt: time.Now(),
	}

	if err := store.Save(enc); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, ok := store.Get("01TESTULID")
	if !ok {
		t.Fatal("Get() did not find saved encoding")
	}
	if got.Username != "alice" {
		t.Errorf("Username = %q, want %q", got.Username, "alice")
	}
	if len(got.Encoding.Pixels) != 16 {
		t.Errorf("len(Pixels) = %d, want 16", len(got.Encoding.Pixels))
	}

	if _, err := os.Stat(store.EncodingPath("01TESTULID")); err != nil {
		t.Errorf("encoding file not written: %v", err)
	}

	if store.Count() != 1 {
		t.Errorf("Count() = %d, want 1", store.Count())
	}
}

func TestSaveSameUserReplacesEncoding(t *testing.T) {
	store := newTestStore(t)

	if err := store.Save(StoredEncoding{UserID: "01TESTULID", Username: "alice", Encoding: testEncoding(0.3)}); err != nil {
		t.Fatalf("first Save() error = %v", err)
	}

	// Re-enrollment writes the same user ID again.
	if err := store.Save(StoredEncoding{UserID: "01TESTULID", Username: "alice", Encoding: testEncoding(0.9)}); err != nil {
		t.Fatalf("second Save() error = %v", err)
	}

	got, ok := store.Get("01TESTULID")
	if !ok {
		t.Fatal("Get() did not find replaced encoding")
	}
	if got.Encoding.Pixels[15] != 0.9 {
		t.Errorf("Pixels[15] = %f, want the replacement encoding", got.Encoding.Pixels[15])
	}
	if store.Count() != 1 {
		t.Errorf("Count() = %d, want 1", store.Count())
	}
}

func TestSaveReplacementKeepsShortlistUsable(t *testing.T) {
	store := newTestStore(t)

	ids := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	for i, id := range ids {
		if err := store.Save(StoredEncoding{UserID: id, Encoding: testEncoding(float64(i+1) * 0.1)}); err != nil {
			t.Fatalf("Save(%q) error = %v", id, err)
		}
	}

	// Replace an indexed entry, then search the roster that still exceeds k.
	if err := store.Save(StoredEncoding{UserID: "d", Encoding: testEncoding(0.95)}); err != nil {
		t.Fatalf("replacement Save() error = %v", err)
	}

	got := store.Nearest(testEncoding(0.95), 3)
	if len(got) == 0 || len(got) > 3 {
		t.Fatalf("Nearest() returned %d candidates, want between 1 and 3", len(got))
	}

	found := false
	for _, enc := range got {
		if enc.UserID == "d" && enc.Encoding.Pixels[15] == 0.95 {
			found = true
		}
	}
	if !found {
		t.Error("shortlist does not surface the replaced encoding")
	}
}

func TestReloadRoundtrip(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("FACE_STORAGE_DIR", dir)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	first, err := New(logger)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := first.Save(StoredEncoding{UserID: "u1", Username: "bob", Encoding: testEncoding(0.3)}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	// A fresh store over the same directory must see the same data.
	second, err := New(logger)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	got, ok := second.Get("u1")
	if !ok {
		t.Fatal("reloaded store did not find saved encoding")
	}
	if got.Username != "bob" {
		t.Errorf("Username = %q, want %q", got.Username, "bob")
	}
}

func TestReloadSkipsCorruptFiles(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("FACE_STORAGE_DIR", dir)

	if err := os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	store, err := New(logger)
	if err != nil {
		t.Fatalf("New() should skip corrupt files, got error = %v", err)
	}
	if store.Count() != 0 {
		t.Errorf("Count() = %d, want 0", store.Count())
	}
}

func TestDeleteRemovesFiles(t *testing.T) {
	store := newTestStore(t)

	if err := store.Save(StoredEncoding{UserID: "gone", Username: "carol", Encoding: testEncoding(0.7)}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if _, err := store.SaveSnapshot("gone", []byte{0xff, 0xd8, 0xff}); err != nil {
		t.Fatalf("SaveSnapshot() error = %v", err)
	}

	if err := store.Delete("gone"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if _, ok := store.Get("gone"); ok {
		t.Error("Get() still finds deleted encoding")
	}
	if _, err := os.Stat(store.EncodingPath("gone")); !os.IsNotExist(err) {
		t.Error("encoding file still exists after Delete()")
	}
}

func TestDeleteMissingUserIsNoop(t *testing.T) {
	store := newTestStore(t)
	if err := store.Delete("never-existed"); err != nil {
		t.Errorf("Delete() of unknown user should be a no-op, got %v", err)
	}
}

func TestNearestReturnsAllForSmallRoster(t *testing.T) {
	store := newTestStore(t)

	for i, id := range []string{"a", "b", "c"} {
		if err := store.Save(StoredEncoding{UserID: id, Encoding: testEncoding(float64(i+1) * 0.2)}); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}

	got := store.Nearest(testEncoding(0.4), 5)
	if len(got) != 3 {
		t.Errorf("Nearest() returned %d candidates, want all 3", len(got))
	}
}

func TestNearestShortlistsLargeRoster(t *testing.T) {
	store := newTestStore(t)

	ids := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	for i, id := range ids {
		if err := store.Save(StoredEncoding{UserID: id, Encoding: testEncoding(float64(i+1) * 0.1)}); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}

	got := store.Nearest(testEncoding(0.35), 3)
	if len(got) == 0 || len(got) > 3 {
		t.Errorf("Nearest() returned %d candidates, want between 1 and 3", len(got))
	}
}

func TestAll(t *testing.T) {
	store := newTestStore(t)

	if got := store.All(); len(got) != 0 {
		t.Errorf("All() on empty store = %d entries, want 0", len(got))
	}

	if err := store.Save(StoredEncoding{UserID: "x", Encoding: testEncoding(0.9)}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if got := store.All(); len(got) != 1 {
		t.Errorf("All() = %d entries, want 1", len(got))
	}
}
