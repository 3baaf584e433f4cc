package links

import (
	"strings"
	"testing"

	"github.com/seo-intel/backend/content"
)

func filler(n int) string {
	return strings.TrimSpace(strings.Repeat("từ ", n))
}

func TestExtractLinks(t *testing.T) {
	engine := New(nil, nil)

	doc := content.NewDocument(`<p>Xem <a href="/products/gau-teddy">gấu teddy</a> và <a href="https://example.com/x">trang ngoài</a>.</p>`)
	links := engine.ExtractLinks(doc)
	if len(links) != 2 {
		t.Fatalf("Expected two links, got %v", links)
	}

	first := links[0]
	if !first.IsInternal {
		t.Error("Relative href should be internal")
	}
	if first.AnchorText != "gấu teddy" {
		t.Errorf("Unexpected anchor %q", first.AnchorText)
	}
	if first.Position != 4 {
		t.Errorf("Expected anchor at rune offset 4, got %d", first.Position)
	}

	second := links[1]
	if second.IsInternal {
		t.Error("Absolute http href should be external")
	}
	if second.Position != 17 {
		t.Errorf("Expected anchor at rune offset 17, got %d", second.Position)
	}
}

func TestExtractLinksUnlocatableAnchor(t *testing.T) {
	engine := New(nil, nil)

	doc := content.NewDocument(`<p><a href="/home"><img src="logo.png"/></a> chữ thường</p>`)
	links := engine.ExtractLinks(doc)
	if len(links) != 1 {
		t.Fatalf("Expected one link, got %v", links)
	}
	if links[0].Position != -1 {
		t.Errorf("Image-only anchors have no text position, got %d", links[0].Position)
	}
}

func TestAnalyzeDistribution(t *testing.T) {
	engine := New(nil, nil)

	doc := content.NewDocument(`<p>` +
		`<a href="/products/gau-teddy">gấu teddy</a> ` +
		`<a href="/blog/cach-giat-gau-bong">cách giặt</a> ` +
		`<a href="https://www.example.com/page">nguồn tham khảo</a> ` +
		filler(20) + `</p>`)

	report := engine.AnalyzeDistribution(doc)

	if report.InternalCount != 2 || report.ExternalCount != 1 {
		t.Fatalf("Expected 2 internal / 1 external, got %d / %d", report.InternalCount, report.ExternalCount)
	}
	if report.InternalByKind[KindProduct] != 1 || report.InternalByKind[KindPost] != 1 {
		t.Errorf("Unexpected kind buckets %v", report.InternalByKind)
	}
	if len(report.ExternalDomains) != 1 || report.ExternalDomains[0].Key != "example.com" {
		t.Errorf("Expected bare example.com domain, got %v", report.ExternalDomains)
	}
	if len(report.AnchorTexts) != 3 {
		t.Errorf("Expected three anchor entries, got %v", report.AnchorTexts)
	}
	if len(report.Issues) != 0 {
		t.Errorf("Short content should raise no issues, got %v", report.Issues)
	}
}

func TestAnalyzeDistributionIssues(t *testing.T) {
	engine := New(nil, nil)

	t.Run("no internal links in long content", func(t *testing.T) {
		doc := content.NewDocument("<p>" + filler(600) + ` <a href="https://example.com">nguồn</a></p>`)
		report := engine.AnalyzeDistribution(doc)

		if len(report.Issues) != 1 || !strings.Contains(report.Issues[0], "no internal links") {
			t.Errorf("Expected a no-internal-links issue, got %v", report.Issues)
		}
	})

	t.Run("too few internal links in very long content", func(t *testing.T) {
		doc := content.NewDocument("<p>" + filler(1100) + ` <a href="/blog/mot">bài một</a></p>`)
		report := engine.AnalyzeDistribution(doc)

		if len(report.Issues) != 1 || !strings.Contains(report.Issues[0], "only 1 internal links") {
			t.Errorf("Expected a too-few issue, got %v", report.Issues)
		}
	})

	t.Run("odd link count rounds the diversity threshold up", func(t *testing.T) {
		anchors := []string{"xem thêm", "xem thêm", "xem thêm", "tại đây", "tại đây", "chi tiết", "chi tiết"}
		var sb strings.Builder
		sb.WriteString("<p>")
		for _, a := range anchors {
			sb.WriteString(`<a href="/page">` + a + `</a> `)
		}
		sb.WriteString(filler(30))
		sb.WriteString("</p>")
		report := engine.AnalyzeDistribution(content.NewDocument(sb.String()))

		// 3 unique anchors across 7 links is under half.
		found := false
		for _, issue := range report.Issues {
			if strings.Contains(issue, "diversity") {
				found = true
			}
		}
		if !found {
			t.Errorf("7 internal links with 3 unique anchors must flag low diversity, got %v", report.Issues)
		}
	})

	t.Run("repeated anchor text", func(t *testing.T) {
		var sb strings.Builder
		sb.WriteString("<p>")
		for i := 0; i < 6; i++ {
			sb.WriteString(`<a href="/page">xem thêm</a> `)
		}
		sb.WriteString(filler(30))
		sb.WriteString("</p>")
		report := engine.AnalyzeDistribution(content.NewDocument(sb.String()))

		found := false
		for _, issue := range report.Issues {
			if strings.Contains(issue, "diversity") {
				found = true
			}
		}
		if !found {
			t.Errorf("Expected an anchor-diversity issue, got %v", report.Issues)
		}
		if len(report.AnchorTexts) != 1 || report.AnchorTexts[0].Count != 6 {
			t.Errorf("Expected one anchor entry with count 6, got %v", report.AnchorTexts)
		}
	})
}

func TestDetectBroken(t *testing.T) {
	engine := New(nil, nil)

	doc := content.NewDocument(`<p>Đọc <a href="/blog/cu">bài cũ</a> và <a href="https://het-han.vn/x">trang hết hạn</a> và <a href="/blog/moi">bài mới</a>.</p>`)
	blocked := []BlockedURL{
		{URL: "/blog/cu", Status: Broken404},
		{URL: "https://het-han.vn/x"},
	}

	broken := engine.DetectBroken(doc, blocked)
	if len(broken) != 2 {
		t.Fatalf("Expected two broken links, got %v", broken)
	}

	if broken[0].URL != "/blog/cu" || broken[0].Status != Broken404 {
		t.Errorf("Unexpected first broken link %+v", broken[0])
	}
	if broken[1].Status != BrokenError {
		t.Errorf("Blocked entries without a status default to error, got %s", broken[1].Status)
	}
	for _, b := range broken {
		if b.Position < 0 || b.Context == "" {
			t.Errorf("Expected located context for %+v", b)
		}
	}
}

func TestDetectBrokenNoneBlocked(t *testing.T) {
	engine := New(nil, nil)

	doc := content.NewDocument(`<p><a href="/blog/ok">bài ổn</a></p>`)
	if broken := engine.DetectBroken(doc, nil); len(broken) != 0 {
		t.Errorf("Expected no broken links, got %v", broken)
	}
}

func TestAnalyzeAnchorText(t *testing.T) {
	engine := New(nil, nil)

	t.Run("generic anchor", func(t *testing.T) {
		report := engine.AnalyzeAnchorText("click here", "https://shop.vn/blog/seo-tips")

		if len(report.Issues) != 1 || !strings.Contains(report.Issues[0], "generic") {
			t.Errorf("Expected a generic-anchor issue, got %v", report.Issues)
		}
		// Generic phrasing plus no slug-word overlap.
		if len(report.Suggestions) != 2 {
			t.Errorf("Expected two suggestions, got %v", report.Suggestions)
		}
	})

	t.Run("vietnamese generic anchor", func(t *testing.T) {
		report := engine.AnalyzeAnchorText("Xem thêm", "/blog/meo-vat")
		if len(report.Issues) != 1 || !strings.Contains(report.Issues[0], "generic") {
			t.Errorf("Expected a generic-anchor issue, got %v", report.Issues)
		}
	})

	t.Run("descriptive anchor aligned with slug", func(t *testing.T) {
		report := engine.AnalyzeAnchorText("hướng dẫn seo cho người mới", "https://shop.vn/blog/seo-tips")

		if len(report.Issues) != 0 {
			t.Errorf("Expected no issues, got %v", report.Issues)
		}
		if len(report.Suggestions) != 0 {
			t.Errorf("Anchor shares a slug word; expected no suggestions, got %v", report.Suggestions)
		}
	})

	t.Run("overlong anchor", func(t *testing.T) {
		report := engine.AnalyzeAnchorText(strings.Repeat("dài ", 30), "/blog/dai")

		found := false
		for _, issue := range report.Issues {
			if strings.Contains(issue, "over 100") {
				found = true
			}
		}
		if !found {
			t.Errorf("Expected an overlong issue, got %v", report.Issues)
		}
	})

	t.Run("too short anchor", func(t *testing.T) {
		report := engine.AnalyzeAnchorText("ok", "/blog/ok")
		found := false
		for _, issue := range report.Issues {
			if strings.Contains(issue, "under 3") {
				found = true
			}
		}
		if !found {
			t.Errorf("Expected an under-length issue, got %v", report.Issues)
		}
	})
}
