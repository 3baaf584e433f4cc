// Package analyzer inspects a content document and emits structural reports
// and prioritized optimization suggestions. All analysis is pure with respect
// to its inputs; an Engine carries only injected collaborators and can be
// shared across concurrent callers.
package analyzer

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/seo-intel/backend/content"
	"github.com/seo-intel/backend/extract"
	"github.com/seo-intel/backend/stats"
)

// Structural thresholds. Tuned against editorial guidance; changing them
// changes which documents get flagged.
const (
	introWindowWords    = 100
	introMinChars       = 50
	longContentWords    = 500
	shortContentWords   = 300
	longParagraphWords  = 150
	shortParagraphWords = 20
)

// Engine performs content analysis.
type Engine struct {
	logger *slog.Logger
	stats  *stats.Storage
}

// New creates an analysis engine. logger and st may be nil.
func New(logger *slog.Logger, st *stats.Storage) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{logger: logger, stats: st}
}

// parseMarkup parses raw markup best-effort. goquery only fails on reader
// errors, which a strings.Reader never produces, so a parse failure just
// yields an empty selection set.
func parseMarkup(raw string) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		empty, _ := goquery.NewDocumentFromReader(strings.NewReader(""))
		return empty
	}
	return doc
}

// headingTexts returns the trimmed text of every H1-H3 heading in order.
func headingTexts(gq *goquery.Document) []string {
	var texts []string
	gq.Find("h1, h2, h3").Each(func(_ int, s *goquery.Selection) {
		if t := strings.TrimSpace(s.Text()); t != "" {
			texts = append(texts, t)
		}
	})
	return texts
}

// AnalyzeStructure parses the heading, paragraph and list shape of a
// document and flags structural defects.
func (e *Engine) AnalyzeStructure(doc *content.Document) StructureReport {
	gq := parseMarkup(doc.Raw)
	words := extract.Words(doc.PlainText())
	wordCount := len(words)

	report := StructureReport{WordCount: wordCount}

	report.Headings = e.analyzeHeadings(gq, wordCount)
	report.Paragraphs = e.analyzeParagraphs(doc.Raw, wordCount)

	report.HasIntroduction = windowExceeds(words, true)
	report.HasConclusion = windowExceeds(words, false)

	report.UsesLists = usesLists(gq, doc.Raw)
	if report.UsesLists {
		report.ListSuggestion = "Lists detected; keep them short and scannable"
	} else {
		report.ListSuggestion = "Consider bullet or numbered lists to break up dense passages"
	}

	return report
}

func (e *Engine) analyzeHeadings(gq *goquery.Document, wordCount int) HeadingStructure {
	h := HeadingStructure{
		H1Count: gq.Find("h1").Length(),
		H2Count: gq.Find("h2").Length(),
		H3Count: gq.Find("h3").Length(),
		Issues:  []string{},
	}
	h.HasH1 = h.H1Count > 0

	if h.H1Count == 0 {
		h.Issues = append(h.Issues, "missing H1 heading")
	} else if h.H1Count > 1 {
		h.Issues = append(h.Issues, "multiple H1 headings")
	}
	if wordCount > longContentWords && h.H2Count == 0 {
		h.Issues = append(h.Issues, "long content lacks H2 headings")
	}

	return h
}

func (e *Engine) analyzeParagraphs(raw string, wordCount int) ParagraphStructure {
	paragraphs := extract.Paragraphs(raw)
	p := ParagraphStructure{Count: len(paragraphs), Issues: []string{}}

	totalWords := 0
	for _, para := range paragraphs {
		n := extract.WordCount(para)
		totalWords += n
		if n > longParagraphWords {
			p.TooLong++
		}
		if n < shortParagraphWords {
			p.TooShort++
		}
	}
	if p.Count > 0 {
		p.AvgWords = totalWords / p.Count
	}

	if p.TooLong > 0 {
		p.Issues = append(p.Issues, fmt.Sprintf("%d paragraphs longer than %d words", p.TooLong, longParagraphWords))
	}
	// Short paragraphs are only a defect once there is enough content for
	// them to read as choppy.
	if wordCount > shortContentWords && p.TooShort > 0 {
		p.Issues = append(p.Issues, fmt.Sprintf("%d paragraphs shorter than %d words", p.TooShort, shortParagraphWords))
	}

	return p
}

// windowExceeds joins the first (or last) hundred words and checks the
// joined text clears the minimum character threshold.
func windowExceeds(words []string, fromStart bool) bool {
	if len(words) == 0 {
		return false
	}
	window := words
	if len(words) > introWindowWords {
		if fromStart {
			window = words[:introWindowWords]
		} else {
			window = words[len(words)-introWindowWords:]
		}
	}
	return len(strings.Join(window, " ")) > introMinChars
}

// usesLists checks for HTML list tags or markdown-style list markers.
func usesLists(gq *goquery.Document, raw string) bool {
	if gq.Find("ul, ol").Length() > 0 {
		return true
	}
	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "- ") ||
			strings.HasPrefix(trimmed, "* ") ||
			strings.HasPrefix(trimmed, "+ ") {
			return true
		}
	}
	return false
}
