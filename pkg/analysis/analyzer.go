package analysis

import (
	"context"
	"fmt"
	"sync"

	"github.com/sentra-ai/sentra/pkg/rules"
)

// DefaultTopK is the evidence retrieval bound when the caller omits one.
const DefaultTopK = 6

// Analyzer runs one incident analysis: evidence retrieval, both technique
// matchers, fusion, and the narrative summary.
type Analyzer struct {
	retriever *Retriever
	semantic  *SemanticMatcher
	generator Generator
	ruleSet   *rules.Set
	semanticN int
}

// NewAnalyzer wires an Analyzer. semanticN <= 0 means DefaultSemanticN.
func NewAnalyzer(retriever *Retriever, semantic *SemanticMatcher, generator Generator, ruleSet *rules.Set, semanticN int) *Analyzer {
	if semanticN <= 0 {
		semanticN = DefaultSemanticN
	}
	return &Analyzer{
		retriever: retriever,
		semantic:  semantic,
		generator: generator,
		ruleSet:   ruleSet,
		semanticN: semanticN,
	}
}

// Result is the combined outcome of one analysis request.
type Result struct {
	Summary  string        `json:"summary"`
	Matches  []rules.Match `json:"technique_matches"`
	Evidence []Hit         `json:"evidence"`
}

// Analyze fuses technique matches and retrieved evidence for the incident
// text and returns them with a generated summary. The three legs (evidence
// retrieval feeding generation, keyword matching, and semantic matching)
// have no data dependency on each other and run concurrently. Retrieval and
// semantic matching degrade to empty results on failure; a generation
// failure fails the whole request, since a summary cannot be substituted.
func (a *Analyzer) Analyze(ctx context.Context, incident string, topK int) (*Result, error) {
	if topK <= 0 {
		topK = DefaultTopK
	}

	var (
		hits      []Hit
		summary   string
		genErr    error
		heuristic []rules.Match
		semantic  []rules.Match
	)

	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		hits = a.retriever.Retrieve(ctx, incident, topK)
		summary, genErr = a.generator.Generate(ctx, BuildPrompt(incident, hits))
	}()
	go func() {
		defer wg.Done()
		heuristic = a.ruleSet.Match(incident)
	}()
	go func() {
		defer wg.Done()
		semantic = a.semantic.Match(ctx, incident, a.semanticN)
	}()

	wg.Wait()

	if genErr != nil {
		return nil, fmt.Errorf("generate summary: %w", genErr)
	}

	return &Result{
		Summary:  summary,
		Matches:  Fuse(heuristic, semantic),
		Evidence: hits,
	}, nil
}
