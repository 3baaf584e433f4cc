package content

import "testing"

func TestNewDocument(t *testing.T) {
	doc := NewDocument("<h1>Tiêu đề</h1><p>Hai   từ &amp; nữa</p>")

	if doc.Raw == "" {
		t.Error("Raw markup must be retained")
	}
	if got := doc.PlainText(); got != "Tiêu đề Hai từ & nữa" {
		t.Errorf("PlainText() = %q", got)
	}
	if got := doc.WordCount(); got != 6 {
		t.Errorf("WordCount() = %d, want 6", got)
	}
}

func TestEmptyDocument(t *testing.T) {
	doc := NewDocument("")
	if doc.PlainText() != "" || doc.WordCount() != 0 {
		t.Errorf("Empty input: text %q count %d", doc.PlainText(), doc.WordCount())
	}
}
