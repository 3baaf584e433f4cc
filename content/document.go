// Package content carries the document value the analyzers share.
package content

import "github.com/seo-intel/backend/extract"

// Document is a piece of stored content plus its derived plain text. The
// plain text is computed once at construction and never mutated, so a
// Document is safe to share across concurrent analyzers.
type Document struct {
	Raw  string
	text string
}

// NewDocument derives the plain text for raw markup up front.
func NewDocument(raw string) *Document {
	return &Document{Raw: raw, text: extract.Text(raw)}
}

// PlainText returns the tag-free text of the document.
func (d *Document) PlainText() string {
	return d.text
}

// WordCount reports the number of words in the plain text.
func (d *Document) WordCount() int {
	return extract.WordCount(d.text)
}
