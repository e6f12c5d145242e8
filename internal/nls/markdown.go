package nls

import (
	"regexp"
	"strings"

	"github.com/chuyenmonc1nhuhan/nls/internal/ai"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

const sourcesHeading = "\n\n---\n**🌐 Nguồn tham khảo:**\n"

var (
	leadingFence  = regexp.MustCompile("^```(?:markdown|md)?\n")
	trailingFence = regexp.MustCompile("\n```[ \t]*\n?$")
)

// StripMarkdownFence removes one echoed code fence around the whole text.
// A closing fence is only dropped together with its opening one, so a
// response that merely ends with a code block keeps it closed.
func StripMarkdownFence(text string) string {
	loc := leadingFence.FindStringIndex(text)
	if loc == nil {
		return text
	}
	return trailingFence.ReplaceAllString(text[loc[1]:], "")
}

// FormatSources keeps the first title seen for each URI, in first-seen order.
// Sources missing a URI or a title are skipped.
func FormatSources(sources []ai.Source) string {
	unique := orderedmap.New[string, string]()
	for _, source := range sources {
		if source.URI == "" || source.Title == "" {
			continue
		}
		if _, ok := unique.Get(source.URI); ok {
			continue
		}
		unique.Set(source.URI, source.Title)
	}
	if unique.Len() == 0 {
		return ""
	}

	lines := make([]string, 0, unique.Len())
	for pair := unique.Oldest(); pair != nil; pair = pair.Next() {
		lines = append(lines, "- ["+pair.Value+"]("+pair.Key+")")
	}
	return sourcesHeading + strings.Join(lines, "\n")
}
