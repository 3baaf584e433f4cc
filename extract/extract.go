// Package extract turns stored markup into plain text, word and sentence
// streams. Regex stripping is a deliberate approximation, the engine never
// needs a full DOM, and every analyzer goes through this package so a real
// parser could be swapped in behind the same functions.
package extract

import (
	"regexp"
	"strings"
)

var (
	scriptRe    = regexp.MustCompile(`(?is)<script\b[^>]*>.*?</script>`)
	styleRe     = regexp.MustCompile(`(?is)<style\b[^>]*>.*?</style>`)
	tagRe       = regexp.MustCompile(`<[^>]+>`)
	spaceRe     = regexp.MustCompile(`\s+`)
	blockRe     = regexp.MustCompile(`(?i)</(p|div|li|h[1-6]|blockquote|tr)>|<br\s*/?>`)
	blankLineRe = regexp.MustCompile(`\n\s*\n`)
	sentenceRe  = regexp.MustCompile(`[.!?]+`)
)

// entityReplacer decodes the five entities the editor emits. &amp; goes last
// so "&amp;nbsp;" decodes to the literal "&nbsp;" text in one pass.
var entityReplacer = strings.NewReplacer(
	"&nbsp;", " ",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&#39;", "'",
	"&amp;", "&",
)

// stripOnce performs a single strip/decode/collapse pass.
func stripOnce(markup string) string {
	s := scriptRe.ReplaceAllString(markup, " ")
	s = styleRe.ReplaceAllString(s, " ")
	s = tagRe.ReplaceAllString(s, " ")
	s = entityReplacer.Replace(s)
	s = spaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Text strips markup down to trimmed plain text. Passes are repeated until
// the output stops changing, so Text(Text(x)) == Text(x) holds for any input:
// entity decoding can surface new tag delimiters ("&lt;b&gt;" becomes "<b>"),
// and each changing pass strictly shrinks the string, so the loop terminates.
// Malformed markup is handled best-effort; Text never fails.
func Text(markup string) string {
	s := markup
	for {
		next := stripOnce(s)
		if next == s {
			return next
		}
		s = next
	}
}

// Words splits plain text into whitespace-delimited words.
func Words(text string) []string {
	return strings.Fields(text)
}

// WordCount reports the number of whitespace-delimited words in text.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// Sentences splits plain text on terminal punctuation, dropping empty parts.
func Sentences(text string) []string {
	parts := sentenceRe.Split(text, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Paragraphs splits markup into plain-text paragraphs. Block-closing tags and
// line breaks become paragraph boundaries before stripping, then the text is
// split on blank lines; stored content mixes HTML blocks and editor newlines,
// and both count as boundaries.
func Paragraphs(markup string) []string {
	s := blockRe.ReplaceAllString(markup, "\n\n")
	chunks := blankLineRe.Split(s, -1)
	out := make([]string, 0, len(chunks))
	for _, c := range chunks {
		if t := Text(c); t != "" {
			out = append(out, t)
		}
	}
	return out
}
