package main

import "time"

// Competitor is one competitor article. Content may be supplied directly;
// when empty and URL is set, the scraper fills it in before the run.
type Competitor struct {
	URL     string `yaml:"url" json:"url"`
	Content string `yaml:"content,omitempty" json:"content,omitempty"`
}

// SentenceBand is the acceptable range for average words per sentence.
type SentenceBand struct {
	Min float64 `yaml:"min" json:"min"`
	Max float64 `yaml:"max" json:"max"`
}

// ArticleRequest holds all inputs for one article generation run.
type ArticleRequest struct {
	PrimaryKeyword     string       `yaml:"primary_keyword" json:"primary_keyword"`
	LSIKeywords        []string     `yaml:"lsi_keywords,omitempty" json:"lsi_keywords,omitempty"`
	SourceContent      string       `yaml:"source_content,omitempty" json:"source_content"`
	SourceURL          string       `yaml:"source_url" json:"source_url"`
	Competitors        []Competitor `yaml:"competitors,omitempty" json:"competitors,omitempty"`
	TargetWordCount    int          `yaml:"target_word_count" json:"target_word_count"`
	BrandName          string       `yaml:"brand_name,omitempty" json:"brand_name,omitempty"`
	BrandLink          string       `yaml:"brand_link,omitempty" json:"brand_link,omitempty"`
	BrandMentionTarget int          `yaml:"brand_mentions,omitempty" json:"brand_mentions,omitempty"`
	Band               SentenceBand `yaml:"sentence_band,omitempty" json:"sentence_band,omitempty"`
}

// Validate checks required fields before any network call is made.
func (r *ArticleRequest) Validate() error {
	if r.PrimaryKeyword == "" {
		return &InvalidInputError{Field: "primary_keyword", Reason: "must not be empty"}
	}
	if r.SourceContent == "" {
		return &InvalidInputError{Field: "source_content", Reason: "must not be empty"}
	}
	if r.SourceURL == "" {
		return &InvalidInputError{Field: "source_url", Reason: "must not be empty"}
	}
	if r.TargetWordCount <= 0 {
		return &InvalidInputError{Field: "target_word_count", Reason: "must be positive"}
	}
	return nil
}

// band returns the sentence-length band, falling back to the 8-15 default.
func (r *ArticleRequest) band() SentenceBand {
	if r.Band.Min > 0 && r.Band.Max > 0 {
		return r.Band
	}
	return SentenceBand{Min: defaultBandMin, Max: defaultBandMax}
}

// KeywordStat reports occurrences and density for one tracked keyword.
type KeywordStat struct {
	Keyword string  `json:"keyword"`
	Count   int     `json:"count"`
	Density float64 `json:"density"`
}

// Metrics is derived from the current article text. It is recomputed after
// every repair step and never persisted.
type Metrics struct {
	WordCount           int           `json:"word_count"`
	SentenceCount       int           `json:"sentence_count"`
	AvgWordsPerSentence float64       `json:"avg_words_per_sentence"`
	KeywordCount        int           `json:"keyword_count"`
	KeywordDensity      float64       `json:"keyword_density"`
	LSIStats            []KeywordStat `json:"lsi_stats,omitempty"`
	BacklinkPresent     bool          `json:"backlink_present"`
	TitleHasKeyword     bool          `json:"title_has_keyword"`
	BrandMentions       int           `json:"brand_mentions"`
}

// StepKind identifies one workflow step.
type StepKind string

const (
	StepGenerate    StepKind = "generate"
	StepTitle       StepKind = "title"
	StepBacklink    StepKind = "backlink"
	StepWordCount   StepKind = "word_count"
	StepReadability StepKind = "readability"
	StepBrand       StepKind = "brand"
)

// RepairStep describes one pending repair: which rule failed and why.
// The prompt text is built separately by the prompt builder.
type RepairStep struct {
	Kind   StepKind
	Reason string
}

// ValidationOutcome records the final pass/fail state of every rule.
// Created once at the end of a run and never mutated.
type ValidationOutcome struct {
	TitleHasKeyword   bool `json:"title_has_keyword"`
	BacklinkPresent   bool `json:"backlink_present"`
	WordCountMet      bool `json:"word_count_met"`
	ReadabilityInBand bool `json:"readability_in_band"`
	BrandMentionsMet  bool `json:"brand_mentions_met"`
}

// RunResult is the output of one workflow run.
type RunResult struct {
	ID            string            `json:"id"`
	FinalArticle  string            `json:"final_article"`
	Metrics       Metrics           `json:"metrics"`
	Outcome       ValidationOutcome `json:"outcome"`
	Summary       string            `json:"summary"`
	RepairedSteps []StepKind        `json:"repaired_steps,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
}

// ProcessingStatus represents the outcome status of processing a batch item
type ProcessingStatus string

const (
	StatusSuccess ProcessingStatus = "success"
	StatusSkipped ProcessingStatus = "skipped"
	StatusError   ProcessingStatus = "error"
)

// ProcessingResult tracks the outcome of processing each batch item
type ProcessingResult struct {
	Keyword  string
	Status   ProcessingStatus
	Filename string
	Error    error
}
