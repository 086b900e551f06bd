package main

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// Competitor content is truncated so the synthesis prompt stays bounded.
	competitorContentLimit = 8000
	// Title repairs only need the head of the article.
	titleHeadLimit = 1000
)

// stepTemperatures are the sampling temperatures used per step.
var stepTemperatures = map[StepKind]float64{
	StepGenerate:    0.7,
	StepTitle:       0.5,
	StepBacklink:    0.5,
	StepWordCount:   0.7,
	StepReadability: 0.5,
	StepBrand:       0.6,
}

func stepTemperature(kind StepKind) float64 {
	if t, ok := stepTemperatures[kind]; ok {
		return t
	}
	return 0.7
}

// PromptBuilder renders generation and repair instructions from the
// configured templates. Rendering is deterministic; the only failure mode
// is a missing required field or template variable.
type PromptBuilder struct {
	config *Config
}

// NewPromptBuilder creates a builder backed by the given config
func NewPromptBuilder(config *Config) *PromptBuilder {
	return &PromptBuilder{config: config}
}

// renderPrompt validates that every variable marker exists in the
// template, then substitutes all of them.
func renderPrompt(name, tpl string, vars map[string]string) (string, error) {
	for k := range vars {
		marker := "{{." + k + "}}"
		if !strings.Contains(tpl, marker) {
			return "", fmt.Errorf("%s prompt template must contain %s variable", name, marker)
		}
	}
	for k, v := range vars {
		tpl = strings.ReplaceAll(tpl, "{{."+k+"}}", v)
	}
	return tpl, nil
}

// BuildGenerate renders the initial synthesis prompt. Competitors with
// empty content are omitted entirely.
func (pb *PromptBuilder) BuildGenerate(req *ArticleRequest) (string, error) {
	if req.PrimaryKeyword == "" {
		return "", &InvalidInputError{Field: "primary_keyword", Reason: "must not be empty"}
	}
	if req.SourceContent == "" {
		return "", &InvalidInputError{Field: "source_content", Reason: "must not be empty"}
	}

	var competitors strings.Builder
	n := 0
	for _, comp := range req.Competitors {
		if comp.Content == "" {
			continue
		}
		n++
		content := comp.Content
		if len(content) > competitorContentLimit {
			content = content[:competitorContentLimit]
		}
		fmt.Fprintf(&competitors, "\n\n=== COMPETITOR %d ===\n%s\n", n, content)
	}

	brandReq := ""
	if req.BrandName != "" && req.BrandMentionTarget > 0 {
		brandReq = fmt.Sprintf("- Mention %q %d times naturally\n  Link 2-3 mentions to: %s\n",
			req.BrandName, req.BrandMentionTarget, req.BrandLink)
	}

	return renderPrompt("generate", pb.config.GetGeneratePrompt(), map[string]string{
		"SourceContent":     req.SourceContent,
		"CompetitorContent": competitors.String(),
		"Keyword":           req.PrimaryKeyword,
		"TargetWords":       strconv.Itoa(req.TargetWordCount),
		"SourceURL":         req.SourceURL,
		"BrandRequirement":  brandReq,
	})
}

// BuildRepair renders the repair prompt for one failing rule against the
// current article state.
func (pb *PromptBuilder) BuildRepair(kind StepKind, article string, m Metrics, req *ArticleRequest) (string, error) {
	switch kind {
	case StepTitle:
		head := article
		if len(head) > titleHeadLimit {
			head = head[:titleHeadLimit]
		}
		return renderPrompt("title", pb.config.GetTitlePrompt(), map[string]string{
			"Keyword":     req.PrimaryKeyword,
			"ArticleHead": head,
		})

	case StepBacklink:
		return renderPrompt("backlink", pb.config.GetBacklinkPrompt(), map[string]string{
			"SourceURL": req.SourceURL,
			"Keyword":   req.PrimaryKeyword,
			"Article":   article,
		})

	case StepWordCount:
		return renderPrompt("wordcount", pb.config.GetWordCountPrompt(), map[string]string{
			"CurrentWords": strconv.Itoa(m.WordCount),
			"TargetWords":  strconv.Itoa(req.TargetWordCount),
			"Article":      article,
		})

	case StepReadability:
		band := req.band()
		return renderPrompt("readability", pb.config.GetReadabilityPrompt(), map[string]string{
			"Article": article,
			"BandMin": strconv.Itoa(int(band.Min)),
			"BandMax": strconv.Itoa(int(band.Max)),
		})

	case StepBrand:
		if req.BrandName == "" {
			return "", &InvalidInputError{Field: "brand_name", Reason: "must not be empty for brand repairs"}
		}
		missing := req.BrandMentionTarget - m.BrandMentions
		return renderPrompt("brand", pb.config.GetBrandPrompt(), map[string]string{
			"Missing":        strconv.Itoa(missing),
			"LinkedMentions": strconv.Itoa(req.BrandMentionTarget - 2),
			"BrandName":      req.BrandName,
			"BrandLink":      req.BrandLink,
			"Article":        article,
		})
	}

	return "", fmt.Errorf("no repair prompt for step %s", kind)
}
