package main

import (
	"math"
	"regexp"
	"strings"
)

// Sentence fragments at or below this trimmed length are treated as noise
// (headings, stray punctuation) and excluded from sentence statistics.
const minSentenceChars = 10

// titleRegion is how far into the article the title check looks.
const titleRegion = 200

var sentenceSplitRe = regexp.MustCompile(`[.!?]+`)

// wordCount counts whitespace-delimited tokens.
func wordCount(text string) int {
	return len(strings.Fields(text))
}

// splitSentences splits text on runs of sentence punctuation and drops
// fragments whose trimmed length is at most minSentenceChars.
func splitSentences(text string) []string {
	parts := sentenceSplitRe.Split(text, -1)
	sentences := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if len(p) > minSentenceChars {
			sentences = append(sentences, p)
		}
	}
	return sentences
}

// countOccurrences counts case-insensitive substring occurrences of needle.
// Deliberately not word-boundary-aware: a keyword that is a substring of
// another word still counts.
func countOccurrences(text, needle string) int {
	if needle == "" {
		return 0
	}
	return strings.Count(strings.ToLower(text), strings.ToLower(needle))
}

// backlinkPresent reports whether the exact URL occurs in the text.
// Case-sensitive, unlike keyword counting.
func backlinkPresent(text, url string) bool {
	if url == "" {
		return false
	}
	return strings.Contains(text, url)
}

// titleHasKeyword checks for the keyword, case-insensitively, within the
// first titleRegion bytes of the text. This approximates "in the title".
func titleHasKeyword(text, keyword string) bool {
	if keyword == "" {
		return false
	}
	head := text
	if len(head) > titleRegion {
		head = head[:titleRegion]
	}
	return strings.Contains(strings.ToLower(head), strings.ToLower(keyword))
}

// density is occurrences per word, as a percentage. Zero when there are
// no words so there is never a division by zero.
func density(count, words int) float64 {
	if words == 0 {
		return 0
	}
	return float64(count) / float64(words) * 100
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// computeMetrics derives all text metrics for the current article state.
// Pure: no side effects, no failure modes.
func computeMetrics(text string, req *ArticleRequest) Metrics {
	words := wordCount(text)
	sentences := splitSentences(text)

	avg := 0.0
	if len(sentences) > 0 {
		kept := 0
		for _, s := range sentences {
			kept += wordCount(s)
		}
		avg = round1(float64(kept) / float64(len(sentences)))
	}

	m := Metrics{
		WordCount:           words,
		SentenceCount:       len(sentences),
		AvgWordsPerSentence: avg,
		KeywordCount:        countOccurrences(text, req.PrimaryKeyword),
		BacklinkPresent:     backlinkPresent(text, req.SourceURL),
		TitleHasKeyword:     titleHasKeyword(text, req.PrimaryKeyword),
		BrandMentions:       countOccurrences(text, req.BrandName),
	}
	m.KeywordDensity = density(m.KeywordCount, words)

	for _, lsi := range req.LSIKeywords {
		count := countOccurrences(text, lsi)
		m.LSIStats = append(m.LSIStats, KeywordStat{
			Keyword: lsi,
			Count:   count,
			Density: density(count, words),
		})
	}

	return m
}
