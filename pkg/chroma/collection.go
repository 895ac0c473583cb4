package chroma

import (
	"context"
	"fmt"
)

// Collection is a handle to one named Chroma collection.
type Collection struct {
	client *Client
	id     string
	name   string
}

// Name returns the collection name.
func (col *Collection) Name() string { return col.name }

type addRequest struct {
	IDs        []string         `json:"ids"`
	Embeddings [][]float64      `json:"embeddings"`
	Metadatas  []map[string]any `json:"metadatas"`
	Documents  []string         `json:"documents"`
}

// Add stores a batch of records. All slices are parallel: one id, document,
// metadata map, and embedding per record.
func (col *Collection) Add(ctx context.Context, ids, documents []string, metadatas []map[string]any, embeddings [][]float64) error {
	if len(ids) == 0 {
		return nil
	}
	if len(documents) != len(ids) || len(metadatas) != len(ids) || len(embeddings) != len(ids) {
		return fmt.Errorf("add to %s: mismatched batch lengths", col.name)
	}

	body := addRequest{IDs: ids, Embeddings: embeddings, Metadatas: metadatas, Documents: documents}
	if err := col.client.post(ctx, "/api/v1/collections/"+col.id+"/add", body, nil); err != nil {
		return fmt.Errorf("add to %s: %w", col.name, err)
	}
	return nil
}

type queryRequest struct {
	QueryEmbeddings [][]float64 `json:"query_embeddings"`
	NResults        int         `json:"n_results"`
	Include         []string    `json:"include"`
}

// queryResponse mirrors Chroma's nested response: one inner slice per query
// embedding. Sentra always sends exactly one.
type queryResponse struct {
	IDs       [][]string         `json:"ids"`
	Documents [][]string         `json:"documents"`
	Metadatas [][]map[string]any `json:"metadatas"`
	Distances [][]float64        `json:"distances"`
}

// QueryResult is the flattened result of a single-vector query, ranked by
// ascending distance. Distances is nil when the server does not report them.
type QueryResult struct {
	IDs       []string
	Documents []string
	Metadatas []map[string]any
	Distances []float64
}

// Len returns the number of hits.
func (r *QueryResult) Len() int { return len(r.IDs) }

// Query runs a nearest-neighbor search for one embedding, returning up to k
// ranked hits.
func (col *Collection) Query(ctx context.Context, embedding []float64, k int) (*QueryResult, error) {
	body := queryRequest{
		QueryEmbeddings: [][]float64{embedding},
		NResults:        k,
		Include:         []string{"documents", "metadatas", "distances"},
	}

	var resp queryResponse
	if err := col.client.post(ctx, "/api/v1/collections/"+col.id+"/query", body, &resp); err != nil {
		return nil, fmt.Errorf("query %s: %w", col.name, err)
	}

	out := &QueryResult{}
	if len(resp.IDs) > 0 {
		out.IDs = resp.IDs[0]
	}
	if len(resp.Documents) > 0 {
		out.Documents = resp.Documents[0]
	}
	if len(resp.Metadatas) > 0 {
		out.Metadatas = resp.Metadatas[0]
	}
	if len(resp.Distances) > 0 {
		out.Distances = resp.Distances[0]
	}
	return out, nil
}
