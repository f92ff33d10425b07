package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenameTable(t *testing.T) {
	t.Run("keeps rule order", func(t *testing.T) {
		table := NewRenameTable([]RenameRule{
			{New: "p/q", Old: "m"},
			{New: "p/r", Old: "n"},
		})
		rules := table.Rules()
		assert.Equal(t, 2, table.Len())
		assert.Equal(t, "p/q", rules[0].New)
		assert.Equal(t, "p/r", rules[1].New)
	})

	t.Run("inverse lookup", func(t *testing.T) {
		table := NewRenameTable([]RenameRule{{New: "presentation/pages", Old: "pages"}})
		newDir, ok := table.NewFor("pages")
		assert.True(t, ok)
		assert.Equal(t, "presentation/pages", newDir)

		_, ok = table.NewFor("components")
		assert.False(t, ok)
	})

	t.Run("duplicate old is last write wins", func(t *testing.T) {
		table := NewRenameTable([]RenameRule{
			{New: "a/lib", Old: "lib"},
			{New: "b/lib", Old: "lib"},
		})
		newDir, ok := table.NewFor("lib")
		assert.True(t, ok)
		assert.Equal(t, "b/lib", newDir)
		assert.Equal(t, []string{"lib"}, table.DuplicateOlds())
	})

	t.Run("rules are copied", func(t *testing.T) {
		rules := []RenameRule{{New: "x/y", Old: "z"}}
		table := NewRenameTable(rules)
		rules[0].New = "mutated"
		assert.Equal(t, "x/y", table.Rules()[0].New)
	})
}

func TestRuleSegments(t *testing.T) {
	rule := RenameRule{New: "infrastructure/external-services/email-templates", Old: "email-templates/"}
	assert.Equal(t, []string{"infrastructure", "external-services", "email-templates"}, rule.NewSegments())
	assert.Equal(t, []string{"email-templates"}, rule.OldSegments())
	assert.Nil(t, RenameRule{}.NewSegments())
}

func TestImportRefIsRelative(t *testing.T) {
	assert.True(t, ImportRef{Path: "./y"}.IsRelative())
	assert.True(t, ImportRef{Path: "../n/y"}.IsRelative())
	assert.False(t, ImportRef{Path: "react"}.IsRelative())
	assert.False(t, ImportRef{Path: "@/lib/utils"}.IsRelative())
	assert.False(t, ImportRef{}.IsRelative())
}

func TestSummary(t *testing.T) {
	var s Summary
	s.Add(FileResult{Path: "a.ts", Changed: true})
	s.Add(FileResult{Path: "b.ts"})
	s.Add(FileResult{Path: "c.ts", Err: errors.New("boom")})

	assert.Equal(t, 3, s.Scanned)
	assert.Equal(t, 1, s.Fixed)
	assert.Equal(t, 1, s.Failed())
	assert.Equal(t, "c.ts", s.Failures[0].Path)
}
