package main

import "fmt"

// Default band for average words per sentence.
const (
	defaultBandMin = 8.0
	defaultBandMax = 15.0
)

// validationRules is the fixed rule order. Each rule is an independent
// predicate over the current metrics; rules never look at each other's
// outcomes. Fixing a later rule can in principle un-fix an earlier one —
// earlier rules are not re-checked after later repairs. That matches the
// observed pipeline and is kept as-is.
var validationRules = []StepKind{
	StepTitle,
	StepBacklink,
	StepWordCount,
	StepReadability,
	StepBrand,
}

// ruleSatisfied evaluates one rule against the current metrics.
func ruleSatisfied(kind StepKind, m Metrics, req *ArticleRequest) bool {
	switch kind {
	case StepTitle:
		return m.TitleHasKeyword
	case StepBacklink:
		return m.BacklinkPresent
	case StepWordCount:
		return m.WordCount >= req.TargetWordCount
	case StepReadability:
		// No sentences kept means nothing to optimize.
		if m.SentenceCount == 0 {
			return true
		}
		band := req.band()
		return m.AvgWordsPerSentence >= band.Min && m.AvgWordsPerSentence <= band.Max
	case StepBrand:
		if req.BrandName == "" || req.BrandMentionTarget <= 0 {
			return true
		}
		return m.BrandMentions >= req.BrandMentionTarget
	}
	return true
}

// repairReason describes why a rule failed, for logging and progress detail.
func repairReason(kind StepKind, m Metrics, req *ArticleRequest) string {
	switch kind {
	case StepTitle:
		return fmt.Sprintf("keyword %q missing from the first %d characters", req.PrimaryKeyword, titleRegion)
	case StepBacklink:
		return fmt.Sprintf("backlink %s not found", req.SourceURL)
	case StepWordCount:
		return fmt.Sprintf("%d words, target %d", m.WordCount, req.TargetWordCount)
	case StepReadability:
		band := req.band()
		return fmt.Sprintf("average %.1f words/sentence, band %.0f-%.0f", m.AvgWordsPerSentence, band.Min, band.Max)
	case StepBrand:
		return fmt.Sprintf("%d of %d mentions of %q", m.BrandMentions, req.BrandMentionTarget, req.BrandName)
	}
	return ""
}

// decideRepairs returns the repair steps needed for the current metrics,
// in fixed rule order. Empty when every rule is satisfied.
func decideRepairs(m Metrics, req *ArticleRequest) []RepairStep {
	var steps []RepairStep
	for _, kind := range validationRules {
		if !ruleSatisfied(kind, m, req) {
			steps = append(steps, RepairStep{Kind: kind, Reason: repairReason(kind, m, req)})
		}
	}
	return steps
}

// evaluateOutcome snapshots every rule for the final report.
func evaluateOutcome(m Metrics, req *ArticleRequest) ValidationOutcome {
	return ValidationOutcome{
		TitleHasKeyword:   ruleSatisfied(StepTitle, m, req),
		BacklinkPresent:   ruleSatisfied(StepBacklink, m, req),
		WordCountMet:      ruleSatisfied(StepWordCount, m, req),
		ReadabilityInBand: ruleSatisfied(StepReadability, m, req),
		BrandMentionsMet:  ruleSatisfied(StepBrand, m, req),
	}
}
