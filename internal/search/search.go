// Package search finds NEOs by approximate name or designation.
//
// Exact lookups stay on neo.Database; this package is for the cases where the
// caller only knows part of a name or has it slightly wrong.
package search

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"
	"github.com/gobwas/glob"
	"github.com/mvp-joe/project-neo/internal/neo"
)

// DefaultLimit caps results when the caller passes no limit.
const DefaultLimit = 10

var (
	// ErrEmptyQuery indicates a search without any text
	ErrEmptyQuery = errors.New("empty search query")

	// ErrInvalidPattern indicates a glob pattern that does not compile
	ErrInvalidPattern = errors.New("invalid glob pattern")
)

// Result is a NEO matched by a search with its relevance score.
// Glob matches all score 1.
type Result struct {
	NEO   *neo.NearEarthObject
	Score float64
}

// Index is an in-memory search index over the NEOs of one database.
// It is safe for concurrent use.
type Index struct {
	db    *neo.Database
	index bleve.Index
}

// NewIndex indexes the designation and name of every NEO reachable by
// designation. NEOs shadowed by a duplicate designation are left out.
func NewIndex(ctx context.Context, db *neo.Database) (*Index, error) {
	index, err := bleve.NewMemOnly(buildMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create bleve index: %w", err)
	}

	if err := indexNEOs(ctx, index, db); err != nil {
		index.Close()
		return nil, fmt.Errorf("failed to index NEOs: %w", err)
	}

	return &Index{db: db, index: index}, nil
}

// buildMapping indexes designation and name with the standard analyzer so
// that "2020 AB" is searchable by either token.
func buildMapping() *mapping.IndexMappingImpl {
	indexMapping := bleve.NewIndexMapping()

	designationMapping := bleve.NewTextFieldMapping()
	designationMapping.Analyzer = "standard"
	designationMapping.Store = false

	nameMapping := bleve.NewTextFieldMapping()
	nameMapping.Analyzer = "standard"
	nameMapping.Store = false

	docMapping := bleve.NewDocumentMapping()
	docMapping.AddFieldMappingsAt("designation", designationMapping)
	docMapping.AddFieldMappingsAt("name", nameMapping)

	indexMapping.DefaultMapping = docMapping
	return indexMapping
}

func indexNEOs(ctx context.Context, index bleve.Index, db *neo.Database) error {
	const batchSize = 1000

	batch := index.NewBatch()
	for i, n := range db.NEOs() {
		if i%batchSize == 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
		}

		if !canonical(db, n) {
			continue
		}

		doc := map[string]interface{}{"designation": n.Designation}
		if n.HasName() {
			doc["name"] = *n.Name
		}
		if err := batch.Index(n.Designation, doc); err != nil {
			return fmt.Errorf("failed to add NEO %s to batch: %w", n.Designation, err)
		}

		if batch.Size() >= batchSize {
			if err := index.Batch(batch); err != nil {
				return fmt.Errorf("failed to execute batch: %w", err)
			}
			batch = index.NewBatch()
		}
	}

	if batch.Size() > 0 {
		if err := index.Batch(batch); err != nil {
			return fmt.Errorf("failed to execute final batch: %w", err)
		}
	}

	return nil
}

// canonical reports whether n is the NEO its designation resolves to.
func canonical(db *neo.Database, n *neo.NearEarthObject) bool {
	found, ok := db.FindByDesignation(n.Designation)
	return ok && found == n
}

// Search returns NEOs whose name or designation matches text exactly, by
// prefix, or within one edit, best matches first.
func (s *Index) Search(ctx context.Context, text string, limit int) ([]Result, error) {
	terms := strings.Fields(strings.ToLower(text))
	if len(terms) == 0 {
		return nil, ErrEmptyQuery
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	var queries []query.Query
	for _, field := range []string{"name", "designation"} {
		match := bleve.NewMatchQuery(text)
		match.SetField(field)
		match.SetBoost(3)
		queries = append(queries, match)

		for _, term := range terms {
			prefix := bleve.NewPrefixQuery(term)
			prefix.SetField(field)
			prefix.SetBoost(2)
			queries = append(queries, prefix)
		}
	}
	for _, term := range terms {
		fuzzy := bleve.NewFuzzyQuery(term)
		fuzzy.SetField("name")
		fuzzy.SetFuzziness(1)
		queries = append(queries, fuzzy)
	}

	request := bleve.NewSearchRequestOptions(bleve.NewDisjunctionQuery(queries...), limit, 0, false)
	searchResult, err := s.index.SearchInContext(ctx, request)
	if err != nil {
		return nil, fmt.Errorf("bleve search failed: %w", err)
	}

	results := make([]Result, 0, len(searchResult.Hits))
	for _, hit := range searchResult.Hits {
		n, ok := s.db.FindByDesignation(hit.ID)
		if !ok {
			continue
		}
		results = append(results, Result{NEO: n, Score: hit.Score})
	}

	return results, nil
}

// Glob returns NEOs whose name or designation matches the pattern, in
// catalog order. Matching is case-sensitive; limit <= 0 means DefaultLimit.
func (s *Index) Glob(pattern string, limit int) ([]Result, error) {
	if strings.TrimSpace(pattern) == "" {
		return nil, ErrEmptyQuery
	}
	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalidPattern, pattern, err)
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	var results []Result
	for _, n := range s.db.NEOs() {
		if !canonical(s.db, n) {
			continue
		}
		if g.Match(n.Designation) || (n.HasName() && g.Match(*n.Name)) {
			results = append(results, Result{NEO: n, Score: 1})
			if len(results) >= limit {
				break
			}
		}
	}

	return results, nil
}

// Close releases the bleve index.
func (s *Index) Close() error {
	return s.index.Close()
}
