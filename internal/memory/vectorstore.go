// Package memory provides a concrete ports.MemoryFacade adapter: the
// reference implementation behind the opaque Memory/Indexing Facade
// interface. The Evaluator and Dispatcher only ever depend on
// ports.MemoryFacade; this package is the embedding host's choice of
// backend.
package memory

import (
	"context"
	"math"
	"sort"
	"strings"

	"github.com/philippgille/chromem-go"
	"golang.org/x/sync/errgroup"

	"github.com/sexpruntime/core/internal/logging"
	"github.com/sexpruntime/core/internal/ports"
)

// Document is one file excerpt indexed for later retrieval.
type Document struct {
	Path    string
	Content string
}

// VectorStore is a ports.MemoryFacade backed by a chromem-go in-memory
// collection for semantic similarity search, composed with a plain
// keyword-matching fallback. Both lookups run concurrently via
// errgroup and their results are merged, semantic hits first.
type VectorStore struct {
	db         *chromem.DB
	collection *chromem.Collection
	docs       map[string]Document
	logger     logging.Logger
}

// embeddingFunc produces a deterministic bag-of-hashed-terms vector.
// No real embedding provider is wired in — this is
// the reference double's stand-in, analogous to llmref.Client.
func embeddingFunc(dims int) chromem.EmbeddingFunc {
	return func(_ context.Context, text string) ([]float32, error) {
		vec := make([]float32, dims)
		for _, term := range tokenize(text) {
			h := fnv32(term)
			vec[int(h)%dims] += 1
		}
		return normalize(vec), nil
	}
}

// NewVectorStore builds an empty store. dims controls the toy
// embedding's dimensionality; 64 is a reasonable default for small
// in-process corpora.
func NewVectorStore(dims int, logger logging.Logger) (*VectorStore, error) {
	if dims <= 0 {
		dims = 64
	}
	db := chromem.NewDB()
	collection, err := db.CreateCollection("context", nil, embeddingFunc(dims))
	if err != nil {
		return nil, err
	}
	return &VectorStore{
		db:         db,
		collection: collection,
		docs:       make(map[string]Document),
		logger:     logging.OrNop(logger),
	}, nil
}

// Index adds or replaces a document in the store.
func (v *VectorStore) Index(ctx context.Context, doc Document) error {
	v.docs[doc.Path] = doc
	return v.collection.AddDocument(ctx, chromem.Document{
		ID:       doc.Path,
		Content:  doc.Content,
		Metadata: map[string]string{"path": doc.Path},
	})
}

// LookupContext implements ports.MemoryFacade: it runs the semantic
// and keyword searches concurrently, merges the two ranked lists
// (semantic first, keyword filling any remaining slots), and builds a
// summary capped by maxTokens (measured crudely in words, since the
// facade has no tokenizer dependency of its own).
func (v *VectorStore) LookupContext(ctx context.Context, queryFragments map[string]string, maxTokens int) (ports.ContextResult, error) {
	query := joinFragments(queryFragments)
	if strings.TrimSpace(query) == "" || v.collection.Count() == 0 {
		return ports.ContextResult{}, nil
	}

	var semantic, keyword []ports.ContextMatch
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		m, err := v.semanticSearch(gctx, query)
		if err != nil {
			v.logger.Warn("memory: semantic search failed: %v", err)
			return nil // keyword fallback still runs; not fatal
		}
		semantic = m
		return nil
	})
	g.Go(func() error {
		keyword = v.keywordSearch(query)
		return nil
	})
	_ = g.Wait() // both goroutines only ever return nil

	matches := mergeMatches(semantic, keyword, 5)
	return ports.ContextResult{
		Summary: summarize(matches, maxTokens),
		Matches: matches,
	}, nil
}

func (v *VectorStore) semanticSearch(ctx context.Context, query string) ([]ports.ContextMatch, error) {
	n := v.collection.Count()
	if n > 10 {
		n = 10
	}
	results, err := v.collection.Query(ctx, query, n, nil, nil)
	if err != nil {
		return nil, err
	}
	matches := make([]ports.ContextMatch, 0, len(results))
	for _, r := range results {
		matches = append(matches, ports.ContextMatch{
			Path:      r.Metadata["path"],
			Relevance: float64(r.Similarity),
			Excerpt:   excerpt(r.Content),
		})
	}
	return matches, nil
}

func (v *VectorStore) keywordSearch(query string) []ports.ContextMatch {
	terms := tokenize(query)
	type scored struct {
		doc   Document
		score int
	}
	var candidates []scored
	for _, doc := range v.docs {
		lower := strings.ToLower(doc.Content)
		score := 0
		for _, t := range terms {
			score += strings.Count(lower, strings.ToLower(t))
		}
		if score > 0 {
			candidates = append(candidates, scored{doc, score})
		}
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].score > candidates[j].score })

	matches := make([]ports.ContextMatch, 0, len(candidates))
	for _, c := range candidates {
		matches = append(matches, ports.ContextMatch{
			Path:      c.doc.Path,
			Relevance: float64(c.score),
			Excerpt:   excerpt(c.doc.Content),
		})
	}
	return matches
}

// mergeMatches takes the semantic ranking first, then fills any
// remaining slots (up to limit) with keyword hits not already present.
func mergeMatches(semantic, keyword []ports.ContextMatch, limit int) []ports.ContextMatch {
	seen := make(map[string]bool, len(semantic))
	merged := make([]ports.ContextMatch, 0, limit)
	for _, m := range semantic {
		if len(merged) >= limit {
			break
		}
		merged = append(merged, m)
		seen[m.Path] = true
	}
	for _, m := range keyword {
		if len(merged) >= limit {
			break
		}
		if seen[m.Path] {
			continue
		}
		merged = append(merged, m)
		seen[m.Path] = true
	}
	return merged
}

func summarize(matches []ports.ContextMatch, maxTokens int) string {
	if len(matches) == 0 {
		return ""
	}
	var b strings.Builder
	words := 0
	limit := maxTokens
	if limit <= 0 {
		limit = 512
	}
	for _, m := range matches {
		line := m.Path + ": " + m.Excerpt
		for _, w := range strings.Fields(line) {
			if words >= limit {
				return strings.TrimSpace(b.String())
			}
			b.WriteString(w)
			b.WriteByte(' ')
			words++
		}
		b.WriteByte('\n')
	}
	return strings.TrimSpace(b.String())
}

func excerpt(content string) string {
	const maxLen = 240
	if len(content) <= maxLen {
		return content
	}
	return content[:maxLen] + "..."
}

func joinFragments(fragments map[string]string) string {
	parts := make([]string, 0, len(fragments))
	for _, v := range fragments {
		if v != "" {
			parts = append(parts, v)
		}
	}
	sort.Strings(parts) // deterministic ordering across map iteration
	return strings.Join(parts, " ")
}

func tokenize(s string) []string {
	replacer := strings.NewReplacer(".", " ", "_", " ", "-", " ", "(", " ", ")", " ", ",", " ")
	fields := strings.Fields(replacer.Replace(strings.ToLower(s)))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) >= 2 {
			out = append(out, f)
		}
	}
	return out
}

func fnv32(s string) uint32 {
	var h uint32 = 2166136261
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= 16777619
	}
	return h
}

func normalize(vec []float32) []float32 {
	var sumSq float32
	for _, x := range vec {
		sumSq += x * x
	}
	if sumSq == 0 {
		return vec
	}
	norm := float32(math.Sqrt(float64(sumSq)))
	for i := range vec {
		vec[i] /= norm
	}
	return vec
}
