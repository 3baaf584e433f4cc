package analyzer

import (
	"fmt"
	"log/slog"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/seo-intel/backend/content"
	"github.com/seo-intel/backend/extract"
)

// Keyword and readability thresholds. The density boundaries are inclusive
// on the spam side (3.0% flags) and exclusive on the low side (0.5% passes).
const (
	minWordCount        = 300
	goodWordCount       = 500
	greatWordCount      = 1000
	introCharWindow     = 200
	minKeywordDensity   = 0.5
	maxKeywordDensity   = 3.0
	longSentenceWords   = 20
	wordySentenceWords  = 15
	passiveMarkerLimit  = 10
	complexWordMinRunes = 7
	complexWordRatio    = 0.3
)

// passiveMarkers are function words that signal passive or indirect phrasing
// in the content languages we serve.
var passiveMarkers = []string{
	"được", "bị", "bởi",
	"was", "were", "been", "being", "is", "are", "by",
}

// Optimize composes length, keyword-placement, readability and structural
// analysis into a single flat list of prioritized suggestions. Keyword and
// readability checks only run when their inputs are supplied.
func (e *Engine) Optimize(doc *content.Document, opts Options) *OptimizationReport {
	report := &OptimizationReport{
		Suggestions:      []Suggestion{},
		KeywordPlacement: []PlacementCheck{},
	}

	wordCount := doc.WordCount()

	report.Suggestions = append(report.Suggestions, e.analyzeLength(wordCount)...)

	if kw := strings.TrimSpace(opts.Keyword); kw != "" {
		suggestions, placement := e.analyzeKeywordPlacement(doc, kw, wordCount)
		report.Suggestions = append(report.Suggestions, suggestions...)
		report.KeywordPlacement = placement
	}

	if opts.ReadabilityScore != nil {
		report.Suggestions = append(report.Suggestions, e.analyzeReadability(doc, wordCount)...)
	}

	report.Structure = e.AnalyzeStructure(doc)
	report.Suggestions = append(report.Suggestions, e.structureSuggestions(report.Structure, wordCount)...)

	if e.stats != nil {
		e.stats.RecordAnalysis()
	}
	e.logger.Debug("content optimization complete",
		slog.Int("wordCount", wordCount),
		slog.Int("suggestions", len(report.Suggestions)),
	)

	return report
}

func (e *Engine) analyzeLength(wordCount int) []Suggestion {
	var out []Suggestion

	if wordCount < minWordCount {
		out = append(out, Suggestion{
			Category:       CategoryLength,
			Priority:       PriorityHigh,
			Field:          "content",
			Message:        "Content is too short to rank well",
			Recommendation: fmt.Sprintf("Expand the content to at least %d words", minWordCount),
			CurrentValue:   wordCount,
			TargetValue:    minWordCount,
		})
	} else if wordCount < goodWordCount {
		out = append(out, Suggestion{
			Category:       CategoryLength,
			Priority:       PriorityMedium,
			Field:          "content",
			Message:        "Content could be longer",
			Recommendation: fmt.Sprintf("Consider expanding toward %d words for better coverage", goodWordCount),
			CurrentValue:   wordCount,
			TargetValue:    goodWordCount,
		})
	}

	if wordCount >= greatWordCount {
		out = append(out, Suggestion{
			Category:       CategoryLength,
			Priority:       PriorityLow,
			Field:          "content",
			Message:        "Content length is comprehensive",
			Recommendation: "Keep long-form content well structured with headings",
			CurrentValue:   wordCount,
			TargetValue:    greatWordCount,
		})
	}

	return out
}

func (e *Engine) analyzeKeywordPlacement(doc *content.Document, kw string, wordCount int) ([]Suggestion, []PlacementCheck) {
	var out []Suggestion
	placement := []PlacementCheck{}

	plain := doc.PlainText()
	lowerPlain := strings.ToLower(plain)
	lowerKw := strings.ToLower(kw)

	// Opening text check: the keyword should show up in the first 200
	// characters of the plain text.
	opening := lowerPlain
	if runes := []rune(lowerPlain); len(runes) > introCharWindow {
		opening = string(runes[:introCharWindow])
	}
	inOpening := strings.Contains(opening, lowerKw)
	placement = append(placement, PlacementCheck{Check: "keyword-in-opening", Passed: inOpening})
	if !inOpening {
		out = append(out, Suggestion{
			Category:       CategoryKeyword,
			Priority:       PriorityHigh,
			Field:          "introduction",
			Message:        "Target keyword does not appear near the beginning",
			Recommendation: "Mention the keyword within the first 200 characters",
		})
	}

	// Heading check: with no headings at all, the fix is to add one that
	// carries the keyword; with headings present, to work it into one.
	headings := headingTexts(parseMarkup(doc.Raw))
	inHeading := false
	for _, h := range headings {
		if strings.Contains(strings.ToLower(h), lowerKw) {
			inHeading = true
			break
		}
	}
	placement = append(placement, PlacementCheck{Check: "keyword-in-heading", Passed: inHeading})
	if len(headings) == 0 {
		out = append(out, Suggestion{
			Category:       CategoryKeyword,
			Priority:       PriorityHigh,
			Field:          "headings",
			Message:        "No headings contain the target keyword",
			Recommendation: "Add a heading that includes the keyword",
		})
	} else if !inHeading {
		out = append(out, Suggestion{
			Category:       CategoryKeyword,
			Priority:       PriorityHigh,
			Field:          "headings",
			Message:        "No heading contains the target keyword",
			Recommendation: "Include the keyword in at least one H1-H3 heading",
		})
	}

	// Density check.
	occurrences := countOccurrences(lowerPlain, lowerKw)
	density := 0.0
	if wordCount > 0 {
		density = float64(occurrences) / float64(wordCount) * 100
	}
	placement = append(placement, PlacementCheck{
		Check:  "keyword-density",
		Passed: density >= minKeywordDensity && density < maxKeywordDensity,
		Detail: fmt.Sprintf("%.2f%%", density),
	})
	if density < minKeywordDensity {
		out = append(out, Suggestion{
			Category:       CategoryKeyword,
			Priority:       PriorityMedium,
			Field:          "content",
			Message:        "Keyword density is low",
			Recommendation: fmt.Sprintf("Use the keyword more often (currently %.2f%%, aim for at least %.1f%%)", density, minKeywordDensity),
			CurrentValue:   density,
			TargetValue:    minKeywordDensity,
		})
	} else if density >= maxKeywordDensity {
		out = append(out, Suggestion{
			Category:       CategoryKeyword,
			Priority:       PriorityHigh,
			Field:          "content",
			Message:        "Keyword density is high enough to read as spam",
			Recommendation: fmt.Sprintf("Reduce keyword usage below %.1f%% (currently %.2f%%)", maxKeywordDensity, density),
			CurrentValue:   density,
			TargetValue:    maxKeywordDensity,
		})
	}

	return out, placement
}

func (e *Engine) analyzeReadability(doc *content.Document, wordCount int) []Suggestion {
	var out []Suggestion

	plain := doc.PlainText()
	words := extract.Words(plain)
	sentences := extract.Sentences(plain)

	if len(sentences) > 0 {
		avg := float64(wordCount) / float64(len(sentences))
		if avg > longSentenceWords {
			out = append(out, Suggestion{
				Category:       CategoryReadability,
				Priority:       PriorityHigh,
				Field:          "sentences",
				Message:        "Sentences are very long on average",
				Recommendation: fmt.Sprintf("Break up sentences; average is %.1f words, aim under %d", avg, longSentenceWords),
				CurrentValue:   avg,
				TargetValue:    longSentenceWords,
			})
		} else if avg > wordySentenceWords {
			out = append(out, Suggestion{
				Category:       CategoryReadability,
				Priority:       PriorityMedium,
				Field:          "sentences",
				Message:        "Sentences run a little long",
				Recommendation: fmt.Sprintf("Tighten sentences; average is %.1f words, aim under %d", avg, wordySentenceWords),
				CurrentValue:   avg,
				TargetValue:    wordySentenceWords,
			})
		}
	}

	markerCount := 0
	for _, w := range words {
		lw := strings.ToLower(strings.TrimFunc(w, unicode.IsPunct))
		for _, m := range passiveMarkers {
			if lw == m {
				markerCount++
				break
			}
		}
	}
	if markerCount > passiveMarkerLimit && wordCount < greatWordCount {
		out = append(out, Suggestion{
			Category:       CategoryReadability,
			Priority:       PriorityLow,
			Field:          "voice",
			Message:        "Passive or indirect phrasing appears frequently",
			Recommendation: "Rewrite passive constructions in active voice where natural",
			CurrentValue:   markerCount,
		})
	}

	if wordCount > 0 {
		complexCount := 0
		for _, w := range words {
			if utf8.RuneCountInString(w) >= complexWordMinRunes {
				complexCount++
			}
		}
		ratio := float64(complexCount) / float64(wordCount)
		if ratio > complexWordRatio {
			out = append(out, Suggestion{
				Category:       CategoryReadability,
				Priority:       PriorityLow,
				Field:          "vocabulary",
				Message:        "A large share of words are long",
				Recommendation: "Prefer shorter, simpler words where meaning allows",
				CurrentValue:   ratio,
				TargetValue:    complexWordRatio,
			})
		}
	}

	return out
}

func (e *Engine) structureSuggestions(structure StructureReport, wordCount int) []Suggestion {
	var out []Suggestion

	if !structure.HasIntroduction {
		out = append(out, Suggestion{
			Category:       CategoryStructure,
			Priority:       PriorityMedium,
			Field:          "introduction",
			Message:        "Content lacks a substantial introduction",
			Recommendation: "Open with a short paragraph framing the topic",
		})
	}
	if wordCount > longContentWords && !structure.HasConclusion {
		out = append(out, Suggestion{
			Category:       CategoryStructure,
			Priority:       PriorityMedium,
			Field:          "conclusion",
			Message:        "Content lacks a conclusion",
			Recommendation: "Close with a summary or call to action",
		})
	}

	for _, issue := range structure.Headings.Issues {
		out = append(out, Suggestion{
			Category:       CategoryStructure,
			Priority:       PriorityHigh,
			Field:          "headings",
			Message:        "Heading structure issue: " + issue,
			Recommendation: "Use exactly one H1 and break long content with H2 sections",
		})
	}
	for _, issue := range structure.Paragraphs.Issues {
		out = append(out, Suggestion{
			Category:       CategoryStructure,
			Priority:       PriorityMedium,
			Field:          "paragraphs",
			Message:        "Paragraph issue: " + issue,
			Recommendation: "Aim for paragraphs between 20 and 150 words",
		})
	}

	if wordCount > shortContentWords && !structure.UsesLists {
		out = append(out, Suggestion{
			Category:       CategoryStructure,
			Priority:       PriorityLow,
			Field:          "lists",
			Message:        "Content uses no lists",
			Recommendation: structure.ListSuggestion,
		})
	}

	return out
}

// countOccurrences counts non-overlapping occurrences of needle in haystack.
func countOccurrences(haystack, needle string) int {
	if needle == "" {
		return 0
	}
	count := 0
	for {
		i := strings.Index(haystack, needle)
		if i < 0 {
			return count
		}
		count++
		haystack = haystack[i+len(needle):]
	}
}
