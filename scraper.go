package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"regexp"
	"strings"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
)

var (
	urlPattern     = regexp.MustCompile(`^https?://\S+$`)
	blankLineRuns  = regexp.MustCompile(`\n\s*\n`)
	repeatedSpaces = regexp.MustCompile(` +`)
)

// Containers tried in order; the first one with substantial text wins.
var contentSelectors = []string{
	"article",
	"main",
	"[role='main']",
	".content",
	".article",
	".post",
	".entry",
	"#content",
	"#article",
	"#post",
	"#entry",
}

// A container must yield more than this many characters to be accepted.
const minContainerChars = 100

// ScrapedArticle is the extracted text of one fetched page.
type ScrapedArticle struct {
	Title   string
	Content string
}

// Scraper fetches pages and extracts readable article text.
type Scraper struct {
	client    *http.Client
	converter *md.Converter
}

// NewScraper creates a scraper with the given request timeout
func NewScraper(timeout time.Duration) *Scraper {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Scraper{
		client:    &http.Client{Timeout: timeout},
		converter: md.NewConverter("", true, nil),
	}
}

// Fetch downloads the page and extracts its title and main text content.
func (s *Scraper) Fetch(ctx context.Context, pageURL string) (*ScrapedArticle, error) {
	pageURL = strings.TrimSpace(pageURL)
	if pageURL == "" {
		return nil, &FetchError{URL: pageURL, Err: fmt.Errorf("empty URL")}
	}
	if !strings.HasPrefix(pageURL, "http://") && !strings.HasPrefix(pageURL, "https://") {
		return nil, &FetchError{URL: pageURL, Err: fmt.Errorf("URL must start with http:// or https://")}
	}
	if !urlPattern.MatchString(pageURL) {
		return nil, &FetchError{URL: pageURL, Err: fmt.Errorf("malformed URL")}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, &FetchError{URL: pageURL, Err: err}
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: pageURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{URL: pageURL, Err: &HTTPError{StatusCode: resp.StatusCode, URL: pageURL}}
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, &FetchError{URL: pageURL, Err: fmt.Errorf("parsing HTML: %w", err)}
	}

	doc.Find("script, style, nav, header, footer, aside").Remove()

	title := strings.TrimSpace(doc.Find("h1").First().Text())
	if title == "" {
		title = strings.TrimSpace(doc.Find("title").First().Text())
	}

	content := s.extractContent(doc)
	if content == "" {
		return nil, &FetchError{URL: pageURL, Err: fmt.Errorf("could not extract content from the page")}
	}

	return &ScrapedArticle{Title: title, Content: content}, nil
}

// extractContent walks the container selectors and converts the first
// substantial one to markdown, falling back to the whole body.
func (s *Scraper) extractContent(doc *goquery.Document) string {
	for _, selector := range contentSelectors {
		sel := doc.Find(selector).First()
		if sel.Length() == 0 {
			continue
		}
		if len(strings.TrimSpace(sel.Text())) <= minContainerChars {
			continue
		}
		if text := s.selectionToText(sel); text != "" {
			return text
		}
	}

	body := doc.Find("body").First()
	if body.Length() == 0 {
		return ""
	}
	return s.selectionToText(body)
}

func (s *Scraper) selectionToText(sel *goquery.Selection) string {
	text := ""
	if html, err := goquery.OuterHtml(sel); err == nil {
		if markdown, err := s.converter.ConvertString(html); err == nil {
			text = markdown
		}
	}
	if text == "" {
		text = sel.Text()
	}
	return cleanText(text)
}

// cleanText collapses blank-line runs and repeated spaces.
func cleanText(text string) string {
	text = blankLineRuns.ReplaceAllString(text, "\n\n")
	text = repeatedSpaces.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// FillSource scrapes the source article when only its URL was supplied.
// A source fetch failure is fatal: the run cannot start without the seed.
func (s *Scraper) FillSource(ctx context.Context, req *ArticleRequest) error {
	if req.SourceContent != "" || req.SourceURL == "" {
		return nil
	}
	log.Printf("  → Fetching source: %s", req.SourceURL)
	article, err := s.Fetch(ctx, req.SourceURL)
	if err != nil {
		return err
	}
	req.SourceContent = article.Content
	return nil
}

// FillCompetitors scrapes competitor entries that carry a URL but no
// content. Failures are logged per competitor and leave the entry empty;
// directly supplied content is never re-fetched.
func (s *Scraper) FillCompetitors(ctx context.Context, req *ArticleRequest) {
	for i := range req.Competitors {
		comp := &req.Competitors[i]
		if comp.Content != "" || comp.URL == "" {
			continue
		}
		article, err := s.Fetch(ctx, comp.URL)
		if err != nil {
			log.Printf("✗ Skipping competitor %s: %v", comp.URL, err)
			continue
		}
		comp.Content = article.Content
	}
}
