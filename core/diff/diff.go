// Package diff renders line diffs between a file's current content and the
// content the remapper would write.
package diff

import (
	"fmt"
	"io"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

type Op int

const (
	OpEqual Op = iota
	OpDelete
	OpInsert
)

// Line is one line of a diff. OldLine and NewLine are 1-based positions in
// the respective texts; the one that does not apply is 0.
type Line struct {
	Op      Op
	Text    string
	OldLine int
	NewLine int
}

// Lines diffs oldText to newText line by line.
func Lines(oldText, newText string) []Line {
	dmp := diffmatchpatch.New()
	rOld, rNew, lineArray := dmp.DiffLinesToRunes(oldText, newText)
	diffs := dmp.DiffMainRunes(rOld, rNew, false)
	diffs = dmp.DiffCleanupMerge(diffs)

	var out []Line
	oldLine, newLine := 1, 1
	for _, d := range diffs {
		for _, r := range d.Text {
			idx := int(r)
			if idx < 0 || idx >= len(lineArray) {
				continue
			}
			text := strings.TrimSuffix(lineArray[idx], "\n")
			switch d.Type {
			case diffmatchpatch.DiffEqual:
				out = append(out, Line{Op: OpEqual, Text: text, OldLine: oldLine, NewLine: newLine})
				oldLine++
				newLine++
			case diffmatchpatch.DiffDelete:
				out = append(out, Line{Op: OpDelete, Text: text, OldLine: oldLine})
				oldLine++
			case diffmatchpatch.DiffInsert:
				out = append(out, Line{Op: OpInsert, Text: text, NewLine: newLine})
				newLine++
			}
		}
	}
	return out
}

// Render writes the changed lines of a diff with a file header. Unchanged
// lines are omitted; each run of changes starts with an "@@ line N @@" marker.
func Render(w io.Writer, path, oldText, newText string) error {
	lines := Lines(oldText, newText)

	var b strings.Builder
	fmt.Fprintf(&b, "--- %s\n+++ %s\n", path, path)
	inRun := false
	for _, l := range lines {
		if l.Op == OpEqual {
			inRun = false
			continue
		}
		if !inRun {
			start := l.OldLine
			if start == 0 {
				start = l.NewLine
			}
			fmt.Fprintf(&b, "@@ line %d @@\n", start)
			inRun = true
		}
		if l.Op == OpDelete {
			fmt.Fprintf(&b, "-%s\n", l.Text)
		} else {
			fmt.Fprintf(&b, "+%s\n", l.Text)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}
