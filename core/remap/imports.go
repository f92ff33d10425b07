package remap

import (
	"regexp"
	"strings"

	"github.com/tristendillon/importmend/core/models"
)

// space is any Unicode whitespace. Go's \s alone is ASCII-only and misses
// vertical tab, NEL and the Z categories.
const space = `[\s\v\x{1c}-\x{1f}\x{85}\p{Z}]`

// importPattern matches <keyword><quote><path><quote>. The keyword
// alternatives are tried in order, so "import (" is taken before "import ".
// This is a textual match: it also fires inside comments and string
// literals that look like imports.
var importPattern = regexp.MustCompile(
	`(from` + space + `+|import` + space + `*\(|require` + space + `*\(|import` + space + `+)` +
		`(?:'([^'"]+)'|"([^'"]+)")`)

// FindImports returns every import reference in content, in order.
func FindImports(content string) []models.ImportRef {
	matches := importPattern.FindAllStringSubmatchIndex(content, -1)
	refs := make([]models.ImportRef, 0, len(matches))
	for _, m := range matches {
		ref := models.ImportRef{
			Keyword: content[m[2]:m[3]],
			Start:   m[0],
			End:     m[1],
		}
		if m[4] >= 0 {
			ref.Quote = '\''
			ref.Path = content[m[4]:m[5]]
		} else {
			ref.Quote = '"'
			ref.Path = content[m[6]:m[7]]
		}
		refs = append(refs, ref)
	}
	return refs
}

// replaceImports rebuilds content with each reference's path replaced by
// fn's result. fn returning ok=false keeps the original match text.
func replaceImports(content string, fn func(ref models.ImportRef) (string, bool)) string {
	refs := FindImports(content)
	if len(refs) == 0 {
		return content
	}

	var b strings.Builder
	b.Grow(len(content))
	last := 0
	for _, ref := range refs {
		b.WriteString(content[last:ref.Start])
		if newPath, ok := fn(ref); ok {
			b.WriteString(ref.Keyword)
			b.WriteByte(ref.Quote)
			b.WriteString(newPath)
			b.WriteByte(ref.Quote)
		} else {
			b.WriteString(content[ref.Start:ref.End])
		}
		last = ref.End
	}
	b.WriteString(content[last:])
	return b.String()
}
