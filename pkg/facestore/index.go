package facestore

import (
	"github.com/coder/hnsw"
)

const indexMaxNeighbors = 16

// shortlistIndex is an HNSW graph over flattened encodings used to narrow the
// candidate set before exact correlation scoring.
type shortlistIndex struct {
	graph *hnsw.Graph[string]
}

func newShortlistIndex() *shortlistIndex {
	g := hnsw.NewGraph[string]()
	g.M = indexMaxNeighbors
	g.Ml = 1.0 / float64(indexMaxNeighbors)
	g.Distance = hnsw.CosineDistance

	return &shortlistIndex{graph: g}
}

func (i *shortlistIndex) add(id string, vector []float32) {
	if len(vector) == 0 {
		return
	}
	i.graph.Add(hnsw.MakeNode(id, vector))
}

func (i *shortlistIndex) search(vector []float32, k int) []string {
	if len(vector) == 0 || i.graph.Len() == 0 {
		return nil
	}

	neighbors := i.graph.Search(vector, k)
	ids := make([]string, 0, len(neighbors))
	for _, n := range neighbors {
		ids = append(ids, n.Key)
	}
	return ids
}
