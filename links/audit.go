package links

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/seo-intel/backend/content"
)

// Distribution thresholds.
const (
	internalLinkWordFloor = 500  // documents past this should link internally
	internalLinkWordHigh  = 1000 // documents past this should link generously
	minInternalForLong    = 3
	diversityLinkFloor    = 5 // anchor diversity only judged past this many links
)

// genericAnchors are anchor phrases that carry no relevance signal.
var genericAnchors = []string{
	"click here",
	"here",
	"read more",
	"more",
	"link",
	"this",
	"xem thêm",
	"tại đây",
	"bấm vào đây",
	"xem ngay",
	"chi tiết",
}

// ExtractLinks pulls every anchor with an href out of the document, in
// order. Position is the anchor text's rune offset into the plain text, or
// -1 when the anchor has no locatable text (image links, duplicated chrome).
func (e *Engine) ExtractLinks(doc *content.Document) []ExistingLink {
	gq, err := goquery.NewDocumentFromReader(strings.NewReader(doc.Raw))
	if err != nil {
		return nil
	}

	plain := lowerRunes([]rune(doc.PlainText()))

	var links []ExistingLink
	searchFrom := 0
	gq.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href := strings.TrimSpace(s.AttrOr("href", ""))
		if href == "" {
			return
		}
		anchor := strings.TrimSpace(s.Text())

		position := -1
		if anchor != "" {
			needle := lowerRunes([]rune(anchor))
			if pos := runeIndex(plain, needle, searchFrom); pos >= 0 {
				position = pos
				searchFrom = pos + len(needle)
			}
		}

		links = append(links, ExistingLink{
			URL:        href,
			AnchorText: anchor,
			Position:   position,
			IsInternal: isInternalURL(href),
		})
	})

	return links
}

// isInternalURL treats relative, fragment and query URLs (anything not
// starting with http) as internal.
func isInternalURL(href string) bool {
	return !strings.HasPrefix(href, "http")
}

// kindOfInternal buckets an internal URL by its path shape.
func kindOfInternal(href string) Kind {
	switch {
	case strings.Contains(href, "/products/"):
		return KindProduct
	case strings.Contains(href, "/blog/"), strings.Contains(href, "/posts/"):
		return KindPost
	default:
		return KindPage
	}
}

// AnalyzeDistribution audits the document's existing links: internal versus
// external counts, internal links by kind, anchor-text and external-domain
// frequency tables, and coverage issues.
func (e *Engine) AnalyzeDistribution(doc *content.Document) DistributionReport {
	report := DistributionReport{
		InternalByKind: map[Kind]int{},
		Issues:         []string{},
	}

	anchorFreq := map[string]int{}
	domainFreq := map[string]int{}
	uniqueInternalAnchors := map[string]struct{}{}

	for _, link := range e.ExtractLinks(doc) {
		if link.IsInternal {
			report.InternalCount++
			report.InternalByKind[kindOfInternal(link.URL)]++
			uniqueInternalAnchors[strings.ToLower(link.AnchorText)] = struct{}{}
		} else {
			report.ExternalCount++
			domainFreq[domainOf(link.URL)]++
		}
		if link.AnchorText != "" {
			anchorFreq[strings.ToLower(link.AnchorText)]++
		}
	}

	report.AnchorTexts = sortedFrequency(anchorFreq)
	report.ExternalDomains = sortedFrequency(domainFreq)

	wordCount := doc.WordCount()
	if wordCount > internalLinkWordFloor && report.InternalCount == 0 {
		report.Issues = append(report.Issues, "no internal links; add 2-5 to related content")
	} else if wordCount > internalLinkWordHigh && report.InternalCount < minInternalForLong {
		report.Issues = append(report.Issues, fmt.Sprintf("only %d internal links for long content; add more", report.InternalCount))
	}

	if report.InternalCount > diversityLinkFloor && 2*len(uniqueInternalAnchors) < report.InternalCount {
		report.Issues = append(report.Issues, "low anchor-text diversity across internal links")
	}

	if e.stats != nil {
		e.stats.RecordLinkAudit()
	}

	return report
}

// DetectBroken flags existing links whose URL appears on the caller-supplied
// block-list. No liveness checking happens here; the block-list comes from
// an external crawler.
func (e *Engine) DetectBroken(doc *content.Document, blocked []BlockedURL) []BrokenLink {
	statusByURL := make(map[string]BrokenStatus, len(blocked))
	for _, b := range blocked {
		status := b.Status
		if status == "" {
			status = BrokenError
		}
		statusByURL[b.URL] = status
	}

	plain := []rune(doc.PlainText())

	broken := []BrokenLink{}
	for _, link := range e.ExtractLinks(doc) {
		status, dead := statusByURL[link.URL]
		if !dead {
			continue
		}
		context := ""
		if link.Position >= 0 {
			context = contextAround(plain, link.Position, link.Position+len([]rune(link.AnchorText)))
		}
		broken = append(broken, BrokenLink{
			URL:        link.URL,
			AnchorText: link.AnchorText,
			Position:   link.Position,
			Context:    context,
			Status:     status,
		})
	}

	return broken
}

// AnalyzeAnchorText assesses one anchor text against its target URL: generic
// phrasing, extreme lengths, and wording unrelated to the target's slug.
func (e *Engine) AnalyzeAnchorText(text, targetURL string) AnchorReport {
	report := AnchorReport{Issues: []string{}, Suggestions: []string{}}

	trimmed := strings.TrimSpace(text)
	lower := strings.ToLower(trimmed)
	runeLen := len([]rune(trimmed))

	for _, g := range genericAnchors {
		if lower == g {
			report.Issues = append(report.Issues, "generic anchor text carries no relevance signal")
			report.Suggestions = append(report.Suggestions, "Describe the target content in the anchor instead of \""+trimmed+"\"")
			break
		}
	}

	if runeLen > 100 {
		report.Issues = append(report.Issues, "anchor text is over 100 characters")
		report.Suggestions = append(report.Suggestions, "Shorten the anchor to a concise phrase")
	}
	if runeLen < 3 {
		report.Issues = append(report.Issues, "anchor text is under 3 characters")
		report.Suggestions = append(report.Suggestions, "Use a descriptive phrase as the anchor")
	}

	if slugTokens := slugWords(targetURL); len(slugTokens) > 0 {
		related := false
		for _, tok := range slugTokens {
			if len([]rune(tok)) >= minTermRunes && strings.Contains(lower, tok) {
				related = true
				break
			}
		}
		if !related {
			report.Suggestions = append(report.Suggestions,
				"Align the anchor wording with the target page (slug: "+strings.Join(slugTokens, " ")+")")
		}
	}

	return report
}

// slugWords extracts the hyphen-separated words of a URL's final path
// segment.
func slugWords(rawURL string) []string {
	path := rawURL
	if u, err := url.Parse(rawURL); err == nil && u.Path != "" {
		path = u.Path
	}
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	segments := strings.Split(path, "/")
	last := segments[len(segments)-1]
	if i := strings.IndexByte(last, '.'); i > 0 {
		last = last[:i]
	}
	var words []string
	for _, w := range strings.Split(strings.ToLower(last), "-") {
		if w != "" {
			words = append(words, w)
		}
	}
	return words
}

// domainOf extracts a bare hostname for the external-domain table.
func domainOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	return strings.TrimPrefix(u.Host, "www.")
}

// sortedFrequency flattens a frequency map into entries sorted descending by
// count, then alphabetically for determinism.
func sortedFrequency(freq map[string]int) []FrequencyEntry {
	entries := make([]FrequencyEntry, 0, len(freq))
	for k, v := range freq {
		entries = append(entries, FrequencyEntry{Key: k, Count: v})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Key < entries[j].Key
	})
	return entries
}
