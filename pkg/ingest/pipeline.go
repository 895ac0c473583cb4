// Package ingest turns batches of raw log lines into deduplicated, embedded
// evidence records and hands them to the vector store.
package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/sentra-ai/sentra/pkg/normalize"
)

// Embedder is the slice of the embedding collaborator the pipeline needs.
// Vectors come back in input order; a failed text yields a nil vector.
type Embedder interface {
	EmbedMany(ctx context.Context, texts []string) [][]float64
}

// Store receives the surviving batch. All slices are parallel.
type Store interface {
	Add(ctx context.Context, ids, documents []string, metadatas []map[string]any, embeddings [][]float64) error
}

// Report summarizes one ingest call.
type Report struct {
	// Stored is the number of records actually written to the store.
	Stored int `json:"ingested"`

	// Malformed counts lines that were not JSON objects.
	Malformed int `json:"malformed,omitempty"`

	// Duplicates counts lines collapsed by within-batch fingerprint dedup.
	Duplicates int `json:"duplicates,omitempty"`

	// EmbedFailed counts records excluded because their embedding failed.
	// Records without a vector are never stored: a null vector would
	// silently poison retrieval.
	EmbedFailed int `json:"embed_failed,omitempty"`
}

// Pipeline converts raw lines into stored evidence records. It holds no
// mutable state across calls; dedup is scoped to a single Run. Duplicates
// arriving in separate batches are stored as distinct records.
type Pipeline struct {
	embedder Embedder
	store    Store
	now      func() time.Time
}

// New creates a Pipeline.
func New(embedder Embedder, store Store) *Pipeline {
	return &Pipeline{embedder: embedder, store: store, now: time.Now}
}

// absenceMarker renders a nil field inside a fingerprint. It must stay
// stable forever: changing it re-fingerprints the whole corpus.
const absenceMarker = "-"

// Fingerprint derives the dedup surface of a normalized record: timestamp,
// event type, and message joined by single spaces. Deterministic given the
// record; this string is also the stored document text.
func Fingerprint(ev normalize.Evidence) string {
	ts := absenceMarker
	if ev.Timestamp != nil {
		ts = *ev.Timestamp
	}
	return ts + " " + ev.EventType + " " + ev.Message
}

// Run ingests a batch of raw items, each either a decoded JSON object or a
// string holding a JSON object. declaredSource, when valid, pins the
// normalizer for the whole batch; otherwise each line is auto-detected.
// Returns how many records were stored plus per-category skip counts.
// Malformed lines are skipped, never fatal; a store failure fails the batch.
func (p *Pipeline) Run(ctx context.Context, items []any, declaredSource string) (Report, error) {
	declared, declaredOK := normalize.ParseSource(declaredSource)

	var report Report
	seen := make(map[string]struct{}, len(items))

	var (
		texts []string
		metas []map[string]any
	)

	for _, item := range items {
		raw, ok := toRecord(item)
		if !ok {
			report.Malformed++
			log.Warn().
				Str("component", "ingest").
				Msg("Skipped unparseable log line")
			continue
		}

		source := declared
		if !declaredOK {
			source = normalize.Detect(raw)
		}
		ev := normalize.Normalize(raw, source)

		text := Fingerprint(ev)
		if _, dup := seen[text]; dup {
			report.Duplicates++
			continue
		}
		seen[text] = struct{}{}

		texts = append(texts, text)
		metas = append(metas, p.metadata(source, text, ev))
	}

	if len(texts) == 0 {
		return report, nil
	}

	vectors := p.embedder.EmbedMany(ctx, texts)

	// Keep only records that embedded successfully.
	var (
		ids      []string
		docs     []string
		outMetas []map[string]any
		outVecs  [][]float64
	)
	for i, vec := range vectors {
		if len(vec) == 0 {
			report.EmbedFailed++
			log.Warn().
				Str("component", "ingest").
				Str("text", shorten(texts[i])).
				Msg("Excluding record with failed embedding")
			continue
		}
		ids = append(ids, uuid.NewString())
		docs = append(docs, texts[i])
		outMetas = append(outMetas, metas[i])
		outVecs = append(outVecs, vec)
	}

	if len(ids) == 0 {
		return report, nil
	}

	if err := p.store.Add(ctx, ids, docs, outMetas, outVecs); err != nil {
		return report, fmt.Errorf("store batch: %w", err)
	}
	report.Stored = len(ids)

	log.Info().
		Str("component", "ingest").
		Int("stored", report.Stored).
		Int("malformed", report.Malformed).
		Int("duplicates", report.Duplicates).
		Int("embed_failed", report.EmbedFailed).
		Msg("Ingest batch complete")

	return report, nil
}

// metadata builds the stored metadata for one record: source tag, ingest
// time, content hash, and every non-null canonical field. The raw record is
// deliberately absent.
func (p *Pipeline) metadata(source normalize.Source, text string, ev normalize.Evidence) map[string]any {
	sum := sha256.Sum256([]byte(text))

	meta := map[string]any{
		"source":      string(source),
		"ingest_time": p.now().UTC().Format(time.RFC3339),
		"hash":        hex.EncodeToString(sum[:]),
		"event_type":  ev.EventType,
		"message":     ev.Message,
	}
	if ev.Timestamp != nil {
		meta["timestamp"] = *ev.Timestamp
	}
	if ev.SourceIP != nil {
		meta["src_ip"] = *ev.SourceIP
	}
	if ev.DestIP != nil {
		meta["dst_ip"] = *ev.DestIP
	}
	return meta
}

// toRecord coerces an ingest item into a raw record map. Strings are parsed
// as JSON text first; anything that is not a JSON object is rejected.
func toRecord(item any) (map[string]any, bool) {
	switch v := item.(type) {
	case map[string]any:
		return v, true
	case string:
		var raw map[string]any
		if err := json.Unmarshal([]byte(v), &raw); err != nil {
			return nil, false
		}
		return raw, true
	default:
		return nil, false
	}
}

func shorten(s string) string {
	if len(s) <= 80 {
		return s
	}
	return strings.TrimSpace(s[:80]) + "..."
}
