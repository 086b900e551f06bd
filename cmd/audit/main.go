// Command audit re-checks previously generated articles against the
// values recorded in their frontmatter: keyword still present, backlink
// still in place, word count still at or above the recorded figure.
package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

var (
	keywordRe   = regexp.MustCompile(`(?m)^keyword: "(.*)"$`)
	sourceURLRe = regexp.MustCompile(`(?m)^source_url: "(.*)"$`)
	wordsRe     = regexp.MustCompile(`(?m)^words: (\d+)$`)
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: audit <articles-directory>")
	}

	articlesDir := os.Args[1]
	failures := 0

	err := filepath.WalkDir(articlesDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // Continue on errors
		}
		if d.IsDir() || !strings.HasSuffix(path, ".md") {
			return nil
		}
		if !auditFile(path) {
			failures++
		}
		return nil
	})
	if err != nil {
		log.Fatal(err)
	}

	if failures > 0 {
		log.Fatalf("%d articles failed the audit", failures)
	}
	log.Println("All articles passed")
}

func auditFile(path string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("✗ %s: %v", path, err)
		return false
	}
	content := string(data)

	ok := true
	report := func(format string, args ...interface{}) {
		log.Printf("✗ %s: %s", path, fmt.Sprintf(format, args...))
		ok = false
	}

	if m := keywordRe.FindStringSubmatch(content); m != nil && m[1] != "" {
		if !strings.Contains(strings.ToLower(content), strings.ToLower(m[1])) {
			report("keyword %q no longer present", m[1])
		}
	}

	if m := sourceURLRe.FindStringSubmatch(content); m != nil && m[1] != "" {
		body := content[strings.LastIndex(content, "---")+3:]
		if !strings.Contains(body, m[1]) {
			report("backlink %s missing from body", m[1])
		}
	}

	if m := wordsRe.FindStringSubmatch(content); m != nil {
		recorded, _ := strconv.Atoi(m[1])
		actual := len(strings.Fields(content))
		if actual < recorded {
			report("word count dropped: %d recorded, %d actual", recorded, actual)
		}
	}

	return ok
}
