package utils

import "github.com/microcosm-cc/bluemonday"

// User-generated question, answer and follow-up bodies routinely carry code
// snippets, so the policy keeps fenced code blocks and their highlighter
// class on top of the usual safe markup.
var sanitizer = func() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").Matching(bluemonday.SpaceSeparatedTokens).OnElements("code", "pre")
	return p
}()

// Sanitize strips unsafe HTML from user-supplied content before storage.
func Sanitize(input string) string {
	return sanitizer.Sanitize(input)
}
