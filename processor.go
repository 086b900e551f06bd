// processor.go
package main

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"text/template"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed config/article-template.md
var defaultArticleTemplate string

// RequestFile is the YAML batch file: a list of article requests.
type RequestFile struct {
	OutputDirectory string           `yaml:"output_directory,omitempty"`
	Items           []ArticleRequest `yaml:"items"`
}

// BatchProcessor runs the workflow for every item in a request file and
// writes the finished articles to the output directory.
type BatchProcessor struct {
	workflow  *Workflow
	scraper   *Scraper
	config    *Config
	overwrite bool
}

// NewBatchProcessor creates a processor around an existing workflow
func NewBatchProcessor(workflow *Workflow, scraper *Scraper, config *Config) *BatchProcessor {
	return &BatchProcessor{
		workflow: workflow,
		scraper:  scraper,
		config:   config,
	}
}

// SetOverwrite sets the overwrite flag
func (bp *BatchProcessor) SetOverwrite(overwrite bool) {
	bp.overwrite = overwrite
}

// ProcessFile processes all requests from a YAML file
func (bp *BatchProcessor) ProcessFile(ctx context.Context, path string) ([]ProcessingResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading request file: %w", err)
	}

	var file RequestFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing request file: %w", err)
	}
	if len(file.Items) == 0 {
		return nil, fmt.Errorf("request file %s has no items", path)
	}

	outputDir := file.OutputDirectory
	if outputDir == "" {
		outputDir = bp.config.Settings.OutputDirectory
	}

	results := make([]ProcessingResult, 0, len(file.Items))
	log.Printf("Processing %d articles...", len(file.Items))

	for i := range file.Items {
		item := &file.Items[i]
		log.Printf("[%d/%d] Processing: %s", i+1, len(file.Items), item.PrimaryKeyword)
		result := bp.ProcessItem(ctx, item, outputDir)
		results = append(results, result)

		switch result.Status {
		case StatusSuccess:
			log.Printf("✓ Generated: %s", result.Filename)
		case StatusSkipped:
			log.Printf("- Skipped: %s", result.Filename)
		default:
			log.Printf("✗ Failed %s: %v", result.Keyword, result.Error)
		}
	}

	return results, nil
}

// ProcessItem runs one request end to end: fill missing content, run the
// workflow, save the article.
func (bp *BatchProcessor) ProcessItem(ctx context.Context, req *ArticleRequest, outputDir string) ProcessingResult {
	bp.applyDefaults(req)

	filename := bp.generateFilename(outputDir, req.PrimaryKeyword)
	if !bp.overwrite && fileExists(filename) {
		return ProcessingResult{
			Keyword:  req.PrimaryKeyword,
			Status:   StatusSkipped,
			Filename: filename,
		}
	}

	if err := bp.scraper.FillSource(ctx, req); err != nil {
		return ProcessingResult{
			Keyword: req.PrimaryKeyword,
			Status:  StatusError,
			Error:   fmt.Errorf("fetching source: %w", err),
		}
	}
	bp.scraper.FillCompetitors(ctx, req)

	result, err := bp.workflow.Run(ctx, req, nil)
	if err != nil {
		return ProcessingResult{
			Keyword: req.PrimaryKeyword,
			Status:  StatusError,
			Error:   err,
		}
	}

	if err := bp.saveArticle(filename, req, result); err != nil {
		return ProcessingResult{
			Keyword: req.PrimaryKeyword,
			Status:  StatusError,
			Error:   fmt.Errorf("saving article: %w", err),
		}
	}

	return ProcessingResult{
		Keyword:  req.PrimaryKeyword,
		Status:   StatusSuccess,
		Filename: filename,
	}
}

// applyDefaults fills brand and band fields from settings when the item
// carries none of its own.
func (bp *BatchProcessor) applyDefaults(req *ArticleRequest) {
	s := bp.config.Settings
	if req.BrandName == "" && s.Brand.Name != "" {
		req.BrandName = s.Brand.Name
		req.BrandLink = s.Brand.Link
		req.BrandMentionTarget = s.Brand.Mentions
	}
	if req.Band.Min == 0 && req.Band.Max == 0 {
		req.Band = s.SentenceBand
	}
}

// generateFilename creates a dated output path from the keyword
func (bp *BatchProcessor) generateFilename(outputDir, keyword string) string {
	slug := generateSlug(keyword)
	currentDate := time.Now().Format("2006-01-02")
	return filepath.Join(outputDir, fmt.Sprintf("%s-%s.md", currentDate, slug))
}

// fileExists checks if a file already exists
func fileExists(filename string) bool {
	_, err := os.Stat(filename)
	return err == nil
}

// articleTemplateData is what the output template renders.
type articleTemplateData struct {
	Title     string
	Keyword   string
	SourceURL string
	Date      string
	WordCount int
	Content   string
}

// saveArticle writes the finished article as markdown with frontmatter.
func (bp *BatchProcessor) saveArticle(filename string, req *ArticleRequest, result *RunResult) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return err
	}

	tmpl, err := template.New("article").Parse(defaultArticleTemplate)
	if err != nil {
		return fmt.Errorf("parsing article template: %w", err)
	}

	var buf bytes.Buffer
	err = tmpl.Execute(&buf, articleTemplateData{
		Title:     extractTitle(result.FinalArticle, req.PrimaryKeyword),
		Keyword:   req.PrimaryKeyword,
		SourceURL: req.SourceURL,
		Date:      result.CreatedAt.Format("2006-01-02"),
		WordCount: result.Metrics.WordCount,
		Content:   result.FinalArticle,
	})
	if err != nil {
		return fmt.Errorf("executing article template: %w", err)
	}

	return os.WriteFile(filename, buf.Bytes(), 0644)
}

// extractTitle pulls the title out of the generated article. Articles are
// prompted to start with a "TITLE:" line; markdown headings are the
// fallback, then the keyword itself.
func extractTitle(content, fallback string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if after, ok := strings.CutPrefix(line, "TITLE:"); ok {
			if title := strings.TrimSpace(after); title != "" {
				return title
			}
		}
		if after, ok := strings.CutPrefix(line, "# "); ok {
			if title := strings.TrimSpace(after); title != "" {
				return title
			}
		}
	}
	return fallback
}

// generateSlug creates a filesystem slug from a keyword or title
func generateSlug(title string) string {
	if title == "" {
		return "article"
	}

	slug := strings.ToLower(title)
	slug = regexp.MustCompile(`[^a-z0-9]+`).ReplaceAllString(slug, "-")
	slug = regexp.MustCompile(`-+`).ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")

	// Limit length to avoid filesystem issues
	if len(slug) > 50 {
		slug = slug[:50]
		slug = strings.Trim(slug, "-")
	}

	if slug == "" {
		return "article"
	}

	return slug
}
