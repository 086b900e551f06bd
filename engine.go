package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
)

var debugEnabled bool

// SetDebugMode enables or disables debug logging
func SetDebugMode(enabled bool) {
	debugEnabled = enabled
}

func debugLog(format string, args ...interface{}) {
	if debugEnabled {
		log.Printf("[DEBUG] "+format, args...)
	}
}

// ProgressFunc is notified synchronously after every state transition.
// A nil ProgressFunc is legal and has no effect on control flow.
type ProgressFunc func(label string, percent int, detail string)

type pipelineStep struct {
	kind    StepKind
	label   string
	percent int
	detail  string
}

// The step sequence is fixed. Generating always issues one gateway call;
// each validating step issues at most one repair call and never retries.
var pipelineSteps = []pipelineStep{
	{StepGenerate, "Step 1/6: Generating article...", 20, "Creating content from sources"},
	{StepTitle, "Step 2/6: Validating title...", 35, "Checking keyword in title"},
	{StepBacklink, "Step 3/6: Validating backlink...", 50, "Checking link placement"},
	{StepWordCount, "Step 4/6: Checking word count...", 65, "Ensuring minimum length"},
	{StepReadability, "Step 5/6: Optimizing readability...", 80, "Improving sentence structure"},
	{StepBrand, "Step 6/6: Adding brand mentions...", 95, "Integrating brand mentions"},
}

// Workflow runs the generate-then-validate pipeline for one request.
// Each run owns its article state exclusively; a Workflow value itself is
// safe to reuse across sequential runs.
type Workflow struct {
	gateway LLMGateway
	prompts *PromptBuilder
}

// NewWorkflow creates a workflow backed by the given gateway and config
func NewWorkflow(gateway LLMGateway, config *Config) *Workflow {
	return &Workflow{
		gateway: gateway,
		prompts: NewPromptBuilder(config),
	}
}

// Run executes the full step sequence. Any gateway failure aborts the run
// and discards the article state accumulated so far; validation rules are
// feed-forward and earlier rules are not re-checked after later repairs.
func (w *Workflow) Run(ctx context.Context, req *ArticleRequest, progress ProgressFunc) (*RunResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	report := func(label string, percent int, detail string) {
		if progress != nil {
			progress(label, percent, detail)
		}
	}

	var article string
	var repaired []StepKind

	for _, step := range pipelineSteps {
		report(step.label, step.percent, step.detail)
		log.Printf("→ %s", step.label)

		if err := ctx.Err(); err != nil {
			return nil, &WorkflowError{Step: step.kind, Err: err}
		}

		if step.kind == StepGenerate {
			prompt, err := w.prompts.BuildGenerate(req)
			if err != nil {
				return nil, err
			}
			article, err = w.gateway.Generate(ctx, prompt, stepTemperature(StepGenerate))
			if err != nil {
				return nil, &WorkflowError{Step: StepGenerate, Err: err}
			}
			continue
		}

		m := computeMetrics(article, req)
		if ruleSatisfied(step.kind, m, req) {
			continue
		}

		debugLog("repair %s: %s", step.kind, repairReason(step.kind, m, req))
		prompt, err := w.prompts.BuildRepair(step.kind, article, m, req)
		if err != nil {
			return nil, err
		}
		article, err = w.gateway.Generate(ctx, prompt, stepTemperature(step.kind))
		if err != nil {
			return nil, &WorkflowError{Step: step.kind, Err: err}
		}
		repaired = append(repaired, step.kind)
	}

	metrics := computeMetrics(article, req)
	outcome := evaluateOutcome(metrics, req)
	result := &RunResult{
		ID:            uuid.NewString(),
		FinalArticle:  article,
		Metrics:       metrics,
		Outcome:       outcome,
		Summary:       renderSummary(metrics, req),
		RepairedSteps: repaired,
		CreatedAt:     time.Now(),
	}

	report("Complete!", 100, "Article generated successfully")
	log.Printf("✓ Article generated (%d words, %d repairs)", metrics.WordCount, len(repaired))

	return result, nil
}

// renderSummary produces the end-of-run validation summary text.
func renderSummary(m Metrics, req *ArticleRequest) string {
	backlinkStatus := "Not Found"
	if m.BacklinkPresent {
		backlinkStatus = "Present"
	}

	brandLine := "Brand Mentions: Not Requested"
	if req.BrandName != "" && req.BrandMentionTarget > 0 {
		brandLine = fmt.Sprintf("Brand Mentions: %d / %d target", m.BrandMentions, req.BrandMentionTarget)
	}

	return fmt.Sprintf(`=== VALIDATION SUMMARY ===

✅ Content Generation: Complete
✅ Title Validation: Checked for %q
✅ Backlink Validation: %s
✅ Word Count: %d / %d+ target
✅ Readability: Optimized
✅ %s

=== METRICS ===
- Words: %d
- Sentences: %d
- Avg Words/Sentence: %.1f
- Backlink: %s
`,
		req.PrimaryKeyword,
		backlinkStatus,
		m.WordCount, req.TargetWordCount,
		brandLine,
		m.WordCount,
		m.SentenceCount,
		m.AvgWordsPerSentence,
		backlinkStatus,
	)
}
