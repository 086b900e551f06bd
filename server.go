package main

import (
	"embed"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

// formValues echoes submitted values back into the form.
type formValues struct {
	PrimaryKeyword     string
	LSIKeywordsText    string
	SourceContent      string
	SourceURL          string
	CompetitorURLsText string
	TargetWordCount    int
	BrandName          string
	BrandLink          string
	BrandMentionTarget int
}

type indexPageData struct {
	Error string
	Form  formValues
}

type resultPageData struct {
	Result *RunResult
}

// Server is the browser-facing form around the workflow.
type Server struct {
	workflow  *Workflow
	scraper   *Scraper
	config    *Config
	templates *template.Template
}

// NewServer creates the web form server
func NewServer(workflow *Workflow, scraper *Scraper, config *Config) (*Server, error) {
	templates, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}

	return &Server{
		workflow:  workflow,
		scraper:   scraper,
		config:    config,
		templates: templates,
	}, nil
}

// Handler returns the route mux for the form and generation endpoint.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/generate", s.handleGenerate)
	return mux
}

// ListenAndServe blocks serving the form on addr.
func (s *Server) ListenAndServe(addr string) error {
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 10 * time.Minute, // a run blocks on several LLM calls
	}
	log.Printf("Serving on %s", addr)
	return httpServer.ListenAndServe()
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	s.renderIndex(w, indexPageData{
		Form: formValues{TargetWordCount: 1000},
	})
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form data", http.StatusBadRequest)
		return
	}

	form := readForm(r)
	req := form.toRequest()

	if err := req.Validate(); err != nil {
		s.renderIndex(w, indexPageData{Error: err.Error(), Form: form})
		return
	}

	ctx := r.Context()
	s.scraper.FillCompetitors(ctx, req)

	result, err := s.workflow.Run(ctx, req, func(label string, percent int, detail string) {
		log.Printf("  [%3d%%] %s %s", percent, label, detail)
	})
	if err != nil {
		s.renderIndex(w, indexPageData{Error: err.Error(), Form: form})
		return
	}

	if err := s.templates.ExecuteTemplate(w, "result.html", resultPageData{Result: result}); err != nil {
		log.Printf("✗ Rendering result: %v", err)
	}
}

func (s *Server) renderIndex(w http.ResponseWriter, data indexPageData) {
	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		log.Printf("✗ Rendering form: %v", err)
	}
}

func readForm(r *http.Request) formValues {
	targetWords, _ := strconv.Atoi(r.FormValue("target_word_count"))
	brandMentions, _ := strconv.Atoi(r.FormValue("brand_mentions"))

	return formValues{
		PrimaryKeyword:     strings.TrimSpace(r.FormValue("primary_keyword")),
		LSIKeywordsText:    r.FormValue("lsi_keywords"),
		SourceContent:      r.FormValue("source_content"),
		SourceURL:          strings.TrimSpace(r.FormValue("source_url")),
		CompetitorURLsText: r.FormValue("competitor_urls"),
		TargetWordCount:    targetWords,
		BrandName:          strings.TrimSpace(r.FormValue("brand_name")),
		BrandLink:          strings.TrimSpace(r.FormValue("brand_link")),
		BrandMentionTarget: brandMentions,
	}
}

func (f formValues) toRequest() *ArticleRequest {
	req := &ArticleRequest{
		PrimaryKeyword:     f.PrimaryKeyword,
		LSIKeywords:        splitLines(f.LSIKeywordsText),
		SourceContent:      f.SourceContent,
		SourceURL:          f.SourceURL,
		TargetWordCount:    f.TargetWordCount,
		BrandName:          f.BrandName,
		BrandLink:          f.BrandLink,
		BrandMentionTarget: f.BrandMentionTarget,
	}
	for _, u := range splitLines(f.CompetitorURLsText) {
		req.Competitors = append(req.Competitors, Competitor{URL: u})
	}
	return req
}

// splitLines splits textarea input into trimmed, non-empty lines.
func splitLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
