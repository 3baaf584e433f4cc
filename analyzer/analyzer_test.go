package analyzer

import (
	"strings"
	"testing"

	"github.com/seo-intel/backend/content"
)

// para builds a paragraph of n filler words.
func para(n int) string {
	return "<p>" + strings.TrimSpace(strings.Repeat("từ ", n)) + "</p>"
}

func TestAnalyzeStructureHeadings(t *testing.T) {
	engine := New(nil, nil)

	t.Run("single H1 short content has no issues", func(t *testing.T) {
		doc := content.NewDocument("<h1>Tiêu đề</h1>" + para(100))
		report := engine.AnalyzeStructure(doc)

		if !report.Headings.HasH1 {
			t.Error("Expected HasH1")
		}
		if report.Headings.H1Count != 1 {
			t.Errorf("Expected 1 H1, got %d", report.Headings.H1Count)
		}
		if len(report.Headings.Issues) != 0 {
			t.Errorf("Expected no heading issues, got %v", report.Headings.Issues)
		}
	})

	t.Run("long content without H2 gets exactly one issue", func(t *testing.T) {
		doc := content.NewDocument("<h1>Tiêu đề</h1>" + para(600))
		report := engine.AnalyzeStructure(doc)

		if len(report.Headings.Issues) != 1 {
			t.Fatalf("Expected exactly one issue, got %v", report.Headings.Issues)
		}
		if !strings.Contains(report.Headings.Issues[0], "H2") {
			t.Errorf("Expected an H2 issue, got %q", report.Headings.Issues[0])
		}
	})

	t.Run("missing H1", func(t *testing.T) {
		doc := content.NewDocument(para(50))
		report := engine.AnalyzeStructure(doc)

		if report.Headings.HasH1 {
			t.Error("Expected HasH1 false")
		}
		if len(report.Headings.Issues) != 1 || !strings.Contains(report.Headings.Issues[0], "missing H1") {
			t.Errorf("Expected a missing-H1 issue, got %v", report.Headings.Issues)
		}
	})

	t.Run("multiple H1", func(t *testing.T) {
		doc := content.NewDocument("<h1>Một</h1><h1>Hai</h1>" + para(50))
		report := engine.AnalyzeStructure(doc)

		if len(report.Headings.Issues) != 1 || !strings.Contains(report.Headings.Issues[0], "multiple H1") {
			t.Errorf("Expected a multiple-H1 issue, got %v", report.Headings.Issues)
		}
	})
}

func TestAnalyzeStructureParagraphs(t *testing.T) {
	engine := New(nil, nil)

	t.Run("long paragraph flagged", func(t *testing.T) {
		doc := content.NewDocument("<h1>T</h1>" + para(200))
		report := engine.AnalyzeStructure(doc)

		if report.Paragraphs.TooLong != 1 {
			t.Errorf("Expected 1 too-long paragraph, got %d", report.Paragraphs.TooLong)
		}
		if len(report.Paragraphs.Issues) == 0 {
			t.Error("Expected a paragraph issue")
		}
	})

	t.Run("short paragraphs only flagged in long content", func(t *testing.T) {
		short := content.NewDocument("<h1>T</h1>" + para(10) + para(100))
		if report := engine.AnalyzeStructure(short); len(report.Paragraphs.Issues) != 0 {
			t.Errorf("Short content should not flag short paragraphs, got %v", report.Paragraphs.Issues)
		}

		long := content.NewDocument("<h1>T</h1>" + para(10) + para(140) + para(140) + para(140))
		report := engine.AnalyzeStructure(long)
		found := false
		for _, issue := range report.Paragraphs.Issues {
			if strings.Contains(issue, "shorter") {
				found = true
			}
		}
		if !found {
			t.Errorf("Expected a short-paragraph issue, got %v", report.Paragraphs.Issues)
		}
	})

	t.Run("counts and averages", func(t *testing.T) {
		doc := content.NewDocument(para(30) + para(50))
		report := engine.AnalyzeStructure(doc)

		if report.Paragraphs.Count != 2 {
			t.Errorf("Expected 2 paragraphs, got %d", report.Paragraphs.Count)
		}
		if report.Paragraphs.AvgWords != 40 {
			t.Errorf("Expected average 40 words, got %d", report.Paragraphs.AvgWords)
		}
	})
}

func TestAnalyzeStructureIntroductionConclusion(t *testing.T) {
	engine := New(nil, nil)

	t.Run("substantial text has both", func(t *testing.T) {
		doc := content.NewDocument(para(300))
		report := engine.AnalyzeStructure(doc)

		if !report.HasIntroduction {
			t.Error("Expected introduction")
		}
		if !report.HasConclusion {
			t.Error("Expected conclusion")
		}
	})

	t.Run("tiny text has neither", func(t *testing.T) {
		doc := content.NewDocument("<p>Ngắn quá.</p>")
		report := engine.AnalyzeStructure(doc)

		if report.HasIntroduction {
			t.Error("Expected no introduction for tiny text")
		}
		if report.HasConclusion {
			t.Error("Expected no conclusion for tiny text")
		}
	})

	t.Run("empty document", func(t *testing.T) {
		report := engine.AnalyzeStructure(content.NewDocument(""))
		if report.HasIntroduction || report.HasConclusion {
			t.Error("Empty document has no introduction or conclusion")
		}
		if report.WordCount != 0 {
			t.Errorf("Expected zero word count, got %d", report.WordCount)
		}
	})
}

func TestAnalyzeStructureLists(t *testing.T) {
	engine := New(nil, nil)

	tests := []struct {
		name   string
		markup string
		want   bool
	}{
		{"html list", "<ul><li>một</li></ul>", true},
		{"ordered list", "<ol><li>một</li></ol>", true},
		{"markdown dash", "text\n- item one\n- item two", true},
		{"markdown star", "text\n* item", true},
		{"no lists", "<p>just text</p>", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := engine.AnalyzeStructure(content.NewDocument(tt.markup))
			if report.UsesLists != tt.want {
				t.Errorf("UsesLists = %v, want %v", report.UsesLists, tt.want)
			}
			if report.ListSuggestion == "" {
				t.Error("ListSuggestion must always be set")
			}
		})
	}
}
