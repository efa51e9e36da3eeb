package utils

import (
	"strings"
	"testing"
)

func TestSanitizeStripsScripts(t *testing.T) {
	in := `<p>hello</p><script>alert("x")</script>`
	out := Sanitize(in)
	if strings.Contains(out, "<script") {
		t.Errorf("Sanitize left a script tag: %q", out)
	}
	if !strings.Contains(out, "hello") {
		t.Errorf("Sanitize dropped safe content: %q", out)
	}
}

func TestSanitizeKeepsBasicMarkup(t *testing.T) {
	in := `<strong>bold</strong> and <a href="https://example.com">link</a>`
	out := Sanitize(in)
	if !strings.Contains(out, "<strong>bold</strong>") {
		t.Errorf("Sanitize dropped basic formatting: %q", out)
	}
}
