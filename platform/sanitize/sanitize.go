// Package sanitize provides text sanitization utilities to prevent XSS attacks.
package sanitize

import (
	"strings"

	"golang.org/x/net/html"
)

// skippedElements have their text content dropped along with the tags.
var skippedElements = map[string]struct{}{
	"script": {},
	"style":  {},
}

// StripHTML removes all markup from s and returns its text content with
// entities decoded and whitespace collapsed.
func StripHTML(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return collapseSpace(s)
	}

	tokenizer := html.NewTokenizer(strings.NewReader(s))
	var b strings.Builder
	skipDepth := 0

	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return collapseSpace(b.String())
		case html.StartTagToken:
			name, _ := tokenizer.TagName()
			if _, skip := skippedElements[string(name)]; skip {
				skipDepth++
			}
			b.WriteByte(' ')
		case html.EndTagToken:
			name, _ := tokenizer.TagName()
			if _, skip := skippedElements[string(name)]; skip && skipDepth > 0 {
				skipDepth--
			}
			b.WriteByte(' ')
		case html.SelfClosingTagToken:
			b.WriteByte(' ')
		case html.TextToken:
			if skipDepth == 0 {
				b.Write(tokenizer.Text())
			}
		}
	}
}

// Text sanitizes user-provided text such as descriptions, notes and messages.
func Text(s string) string {
	return StripHTML(s)
}

// TextPtr is a helper for optional string pointers
func TextPtr(s *string) *string {
	if s == nil {
		return nil
	}
	result := Text(*s)
	return &result
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
