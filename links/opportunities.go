// Package links discovers internal-linking opportunities in a content
// document against a catalog of linkable entities, and audits the links the
// document already has. Everything here is pure with respect to its inputs;
// broken-link detection is a lookup against a caller-supplied block-list and
// never touches the network.
package links

import (
	"log/slog"
	"sort"
	"strings"
	"unicode"

	"github.com/seo-intel/backend/content"
	"github.com/seo-intel/backend/stats"
)

const (
	minTermRunes     = 3
	spanBuffer       = 50  // runes of separation enforced around matched spans
	leadWindowRunes  = 500 // matches this early earn the lead-paragraph bonus
	contextRadius    = 50
	maxOpportunities = 10

	baseRelevance    = 50
	keywordRelevance = 70
	titleRelevance   = 90
	leadBonus        = 10
)

// Engine proposes and audits internal links.
type Engine struct {
	logger *slog.Logger
	stats  *stats.Storage
}

// New creates a link engine. logger and st may be nil.
func New(logger *slog.Logger, st *stats.Storage) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{logger: logger, stats: st}
}

// span is a reserved region of the document's plain text, in rune offsets.
type span struct {
	start, end int
}

// tooClose reports whether a new span [pos, pos+length) would fall within
// the buffer distance of this reserved span.
func (s span) tooClose(pos, length int) bool {
	return pos <= s.end+spanBuffer && pos+length >= s.start-spanBuffer
}

// FindOpportunities scans the document for mentions of catalog candidates
// and proposes anchor/target pairs. Each candidate yields at most one
// opportunity, matched spans are kept 50 characters apart from each other
// and from existing anchors, and the result is capped at the ten best.
func (e *Engine) FindOpportunities(doc *content.Document, candidates []Candidate) []Opportunity {
	plain := []rune(doc.PlainText())
	lower := lowerRunes(plain)

	// Text already serving as an anchor is off-limits for new suggestions.
	var reserved []span
	for _, link := range e.ExtractLinks(doc) {
		if link.Position >= 0 && link.AnchorText != "" {
			reserved = append(reserved, span{link.Position, link.Position + len([]rune(link.AnchorText))})
		}
	}

	opportunities := []Opportunity{}
	for _, cand := range candidates {
		op, matched := e.matchCandidate(plain, lower, reserved, cand)
		if !matched {
			continue
		}
		reserved = append(reserved, span{op.Position, op.Position + len([]rune(op.MatchedText))})
		opportunities = append(opportunities, op)
	}

	sort.SliceStable(opportunities, func(i, j int) bool {
		pi, pj := priorityRank(opportunities[i].Priority), priorityRank(opportunities[j].Priority)
		if pi != pj {
			return pi > pj
		}
		return opportunities[i].Relevance > opportunities[j].Relevance
	})
	if len(opportunities) > maxOpportunities {
		opportunities = opportunities[:maxOpportunities]
	}

	if e.stats != nil {
		e.stats.RecordLinkAudit()
	}
	e.logger.Debug("link opportunity scan complete",
		slog.Int("candidates", len(candidates)),
		slog.Int("opportunities", len(opportunities)),
	)

	return opportunities
}

// matchCandidate finds the first reservable whole-word mention of any of the
// candidate's search terms.
func (e *Engine) matchCandidate(plain, lower []rune, reserved []span, cand Candidate) (Opportunity, bool) {
	lowerTitle := strings.ToLower(strings.TrimSpace(cand.Title))

	type term struct {
		text      string
		relevance int
	}
	var terms []term
	for _, kw := range cand.Keywords {
		if kw = strings.ToLower(strings.TrimSpace(kw)); kw != "" {
			terms = append(terms, term{kw, keywordRelevance})
		}
	}
	if lowerTitle != "" {
		terms = append(terms, term{lowerTitle, titleRelevance})
	}
	if cat := strings.ToLower(strings.TrimSpace(cand.Category)); cat != "" {
		terms = append(terms, term{cat, baseRelevance})
	}

	best := Opportunity{}
	found := false
	for _, t := range terms {
		needle := []rune(t.text)
		if len(needle) < minTermRunes {
			continue
		}

		from := 0
		for {
			pos := runeIndex(lower, needle, from)
			if pos < 0 {
				break
			}
			from = pos + 1
			if !wholeWordAt(lower, pos, len(needle)) {
				continue
			}
			if conflicts(reserved, pos, len(needle)) {
				continue
			}

			relevance := t.relevance
			if lowerTitle != "" && t.text == lowerTitle {
				relevance = titleRelevance
			}
			if pos < leadWindowRunes {
				relevance += leadBonus
			}
			if relevance > 100 {
				relevance = 100
			}

			op := Opportunity{
				MatchedText: string(plain[pos : pos+len(needle)]),
				Position:    pos,
				Context:     contextAround(plain, pos, pos+len(needle)),
				Target:      cand,
				Relevance:   relevance,
				Priority:    priorityFor(relevance),
			}
			// Keep the strongest term match for this candidate.
			if !found || op.Relevance > best.Relevance {
				best = op
				found = true
			}
			break
		}
	}

	return best, found
}

func priorityFor(relevance int) Priority {
	switch {
	case relevance > 80:
		return PriorityHigh
	case relevance > 60:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

func priorityRank(p Priority) int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	default:
		return 1
	}
}

func conflicts(reserved []span, pos, length int) bool {
	for _, s := range reserved {
		if s.tooClose(pos, length) {
			return true
		}
	}
	return false
}

// wholeWordAt reports whether the match at pos..pos+length is bounded by
// non-word runes on both sides.
func wholeWordAt(text []rune, pos, length int) bool {
	if pos > 0 && isWordRune(text[pos-1]) {
		return false
	}
	end := pos + length
	if end < len(text) && isWordRune(text[end]) {
		return false
	}
	return true
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// runeIndex is a naive substring search over runes starting at from.
func runeIndex(haystack, needle []rune, from int) int {
	if from < 0 {
		from = 0
	}
	for i := from; i+len(needle) <= len(haystack); i++ {
		match := true
		for j := range needle {
			if haystack[i+j] != needle[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

// lowerRunes lowercases rune by rune so offsets into the original and the
// lowered text stay aligned.
func lowerRunes(rs []rune) []rune {
	out := make([]rune, len(rs))
	for i, r := range rs {
		out[i] = unicode.ToLower(r)
	}
	return out
}

// contextAround returns the text surrounding a span for display.
func contextAround(text []rune, start, end int) string {
	from := start - contextRadius
	if from < 0 {
		from = 0
	}
	to := end + contextRadius
	if to > len(text) {
		to = len(text)
	}
	return strings.TrimSpace(string(text[from:to]))
}
