package links

import (
	"fmt"
	"strings"
	"testing"

	"github.com/seo-intel/backend/content"
)

func TestFindOpportunitiesTitleMatch(t *testing.T) {
	engine := New(nil, nil)

	doc := content.NewDocument("<p>Chúng tôi vừa nhập về Gấu Teddy 80cm mềm mịn cho bé.</p>")
	candidates := []Candidate{
		{Kind: KindProduct, Title: "Gấu Teddy 80cm", Slug: "gau-teddy-80cm", Keywords: []string{"gấu teddy"}},
	}

	ops := engine.FindOpportunities(doc, candidates)
	if len(ops) != 1 {
		t.Fatalf("Expected one opportunity, got %v", ops)
	}

	op := ops[0]
	if op.MatchedText != "Gấu Teddy 80cm" {
		t.Errorf("Expected original casing preserved, got %q", op.MatchedText)
	}
	if op.Relevance != 100 {
		t.Errorf("Title match in the lead should score 100, got %d", op.Relevance)
	}
	if op.Priority != PriorityHigh {
		t.Errorf("Expected high priority, got %s", op.Priority)
	}
	if op.Target.Slug != "gau-teddy-80cm" {
		t.Errorf("Opportunity should carry its candidate, got %+v", op.Target)
	}
	if !strings.Contains(op.Context, "Gấu Teddy 80cm") {
		t.Errorf("Context should surround the match, got %q", op.Context)
	}
}

func TestFindOpportunitiesSpanSeparation(t *testing.T) {
	engine := New(nil, nil)

	shared := []Candidate{
		{Kind: KindPost, Title: "Bài một", Keywords: []string{"teddy"}},
		{Kind: KindPost, Title: "Bài hai", Keywords: []string{"teddy"}},
	}

	t.Run("mentions too close yield one opportunity", func(t *testing.T) {
		doc := content.NewDocument("<p>teddy và ngay sau đó teddy lần nữa</p>")
		ops := engine.FindOpportunities(doc, shared)
		if len(ops) != 1 {
			t.Fatalf("Expected one opportunity, got %d", len(ops))
		}
	})

	t.Run("distant mentions yield disjoint spans", func(t *testing.T) {
		doc := content.NewDocument("<p>teddy " + strings.Repeat("x ", 40) + "teddy còn lại</p>")
		ops := engine.FindOpportunities(doc, shared)
		if len(ops) != 2 {
			t.Fatalf("Expected two opportunities, got %d", len(ops))
		}
		if ops[0].Position == ops[1].Position {
			t.Error("Opportunities must occupy different spans")
		}
		for _, op := range ops {
			// Keyword match inside the lead window: 70 + 10.
			if op.Relevance != 80 || op.Priority != PriorityMedium {
				t.Errorf("Expected relevance 80 medium, got %d %s", op.Relevance, op.Priority)
			}
		}
	})
}

func TestFindOpportunitiesSkipsExistingAnchors(t *testing.T) {
	engine := New(nil, nil)

	doc := content.NewDocument(`<p>Xem <a href="/products/gau-teddy">gấu teddy</a> tại cửa hàng.</p>`)
	candidates := []Candidate{
		{Kind: KindProduct, Title: "Gấu teddy", Keywords: []string{"gấu teddy"}},
	}

	if ops := engine.FindOpportunities(doc, candidates); len(ops) != 0 {
		t.Errorf("Text already serving as an anchor must not be re-proposed, got %v", ops)
	}
}

func TestFindOpportunitiesWholeWordOnly(t *testing.T) {
	engine := New(nil, nil)

	doc := content.NewDocument("<p>teddybear nhồi bông rất to</p>")
	candidates := []Candidate{{Kind: KindProduct, Title: "Teddy", Keywords: []string{"teddy"}}}

	if ops := engine.FindOpportunities(doc, candidates); len(ops) != 0 {
		t.Errorf("Partial-word mentions must not match, got %v", ops)
	}
}

func TestFindOpportunitiesShortTermsIgnored(t *testing.T) {
	engine := New(nil, nil)

	doc := content.NewDocument("<p>bé ăn no rồi ngủ</p>")
	candidates := []Candidate{{Kind: KindPage, Title: "ăn", Keywords: []string{"bé"}}}

	if ops := engine.FindOpportunities(doc, candidates); len(ops) != 0 {
		t.Errorf("Terms under three runes must not match, got %v", ops)
	}
}

func TestFindOpportunitiesOrderingAndCap(t *testing.T) {
	engine := New(nil, nil)

	t.Run("sorted by priority then relevance", func(t *testing.T) {
		var sb strings.Builder
		sb.WriteString("<p>danhmuc ")
		sb.WriteString(strings.Repeat("x ", 40))
		sb.WriteString("keywordone ")
		sb.WriteString(strings.Repeat("x ", 220))
		sb.WriteString("tenbaiviet dài</p>")
		doc := content.NewDocument(sb.String())

		candidates := []Candidate{
			{Kind: KindPage, Title: "không khớp", Category: "danhmuc"},
			{Kind: KindPost, Title: "cũng không", Keywords: []string{"keywordone"}},
			{Kind: KindPost, Title: "tenbaiviet"},
		}

		ops := engine.FindOpportunities(doc, candidates)
		if len(ops) != 3 {
			t.Fatalf("Expected three opportunities, got %d", len(ops))
		}
		for i := 1; i < len(ops); i++ {
			if priorityRank(ops[i-1].Priority) < priorityRank(ops[i].Priority) {
				t.Fatalf("Opportunities out of priority order: %v", ops)
			}
			if ops[i-1].Priority == ops[i].Priority && ops[i-1].Relevance < ops[i].Relevance {
				t.Fatalf("Opportunities out of relevance order: %v", ops)
			}
		}
	})

	t.Run("capped at ten", func(t *testing.T) {
		var sb strings.Builder
		var candidates []Candidate
		sb.WriteString("<p>")
		for i := 0; i < 12; i++ {
			word := fmt.Sprintf("sanpham%02d", i)
			sb.WriteString(word)
			sb.WriteString(" ")
			sb.WriteString(strings.Repeat("x ", 30))
			candidates = append(candidates, Candidate{Kind: KindProduct, Title: word})
		}
		sb.WriteString("</p>")

		ops := engine.FindOpportunities(content.NewDocument(sb.String()), candidates)
		if len(ops) != 10 {
			t.Errorf("Expected the ten best opportunities, got %d", len(ops))
		}
	})
}
