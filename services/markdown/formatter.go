// Package markdown converts the model's markdown replies into the
// restricted HTML subset Telegram accepts.
package markdown

import (
	"html"
	"regexp"
)

var (
	h2Pattern        = regexp.MustCompile(`(?m)^##\s+(.*)$`)
	h1Pattern        = regexp.MustCompile(`(?m)^#\s+(.*)$`)
	boldPattern      = regexp.MustCompile(`\*\*(.*?)\*\*`)
	starPattern      = regexp.MustCompile(`\*(.*?)\*`)
	italicPattern    = regexp.MustCompile(`_(.*?)_`)
	codeBlockPattern = regexp.MustCompile(`(?s)` + "```" + `(.*?)` + "```")
	codePattern      = regexp.MustCompile("`(.*?)`")
	linkPattern      = regexp.MustCompile(`\[(.*?)\]\((.*?)\)`)
	bulletPattern    = regexp.MustCompile(`(?m)^-\s+(.*)$`)
)

// ToHTML rewrites markdown formatting into Telegram HTML. The second
// return value reports whether any formatting was applied; when false the
// caller should send the original text as plain text.
func ToHTML(text string) (string, bool) {
	escaped := html.EscapeString(text)
	converted := escaped

	converted = h2Pattern.ReplaceAllString(converted, "<b>$1</b>")
	converted = h1Pattern.ReplaceAllString(converted, "<b><u>$1</u></b>")

	converted = boldPattern.ReplaceAllString(converted, "<b>$1</b>")
	converted = starPattern.ReplaceAllString(converted, "<b>$1</b>")

	converted = italicPattern.ReplaceAllString(converted, "<i>$1</i>")

	converted = codeBlockPattern.ReplaceAllString(converted, "<pre>$1</pre>")
	converted = codePattern.ReplaceAllString(converted, "<code>$1</code>")

	converted = linkPattern.ReplaceAllString(converted, `<a href="$2">$1</a>`)

	converted = bulletPattern.ReplaceAllString(converted, "• $1")

	return converted, converted != escaped
}

// ToPlaintext strips markdown formatting.
func ToPlaintext(text string) string {
	out := boldPattern.ReplaceAllString(text, "$1")
	out = starPattern.ReplaceAllString(out, "$1")
	out = italicPattern.ReplaceAllString(out, "$1")
	out = codeBlockPattern.ReplaceAllString(out, "$1")
	out = codePattern.ReplaceAllString(out, "$1")
	out = linkPattern.ReplaceAllString(out, "$1 ($2)")
	return out
}
