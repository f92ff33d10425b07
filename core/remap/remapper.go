package remap

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/tristendillon/importmend/core/diff"
	"github.com/tristendillon/importmend/core/logger"
	"github.com/tristendillon/importmend/core/models"
	"github.com/tristendillon/importmend/core/walker"
)

// ErrNotUTF8 is returned for files that cannot be decoded as UTF-8 text.
var ErrNotUTF8 = errors.New("file is not valid UTF-8")

type Option func(*Remapper)

// WithOutput sets where "Fixed <path>" lines go. Defaults to stdout.
func WithOutput(w io.Writer) Option {
	return func(r *Remapper) { r.out = w }
}

func WithExtensions(exts []string) Option {
	return func(r *Remapper) { r.extensions = exts }
}

func WithExcludes(exclude []string) Option {
	return func(r *Remapper) { r.exclude = exclude }
}

// WithDryRun reports what would change, with a diff, without writing.
func WithDryRun(dryRun bool) Option {
	return func(r *Remapper) { r.dryRun = dryRun }
}

// Remapper rewrites relative imports under a source root after directories
// were moved according to a rename table.
type Remapper struct {
	root       string
	table      *models.RenameTable
	out        io.Writer
	extensions []string
	exclude    []string
	dryRun     bool
	walker     *walker.SourceWalker
}

func New(root string, table *models.RenameTable, opts ...Option) (*Remapper, error) {
	if table == nil {
		return nil, errors.New("rename table is required")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve source root %s: %w", root, err)
	}

	r := &Remapper{
		root:       filepath.Clean(abs),
		table:      table,
		out:        os.Stdout,
		extensions: []string{".ts", ".tsx", ".js", ".jsx", ".css"},
	}
	for _, opt := range opts {
		opt(r)
	}
	r.walker = walker.NewSourceWalker(r.extensions, r.exclude)
	return r, nil
}

func (r *Remapper) Root() string {
	return r.root
}

func (r *Remapper) Walker() *walker.SourceWalker {
	return r.walker
}

// LocateOldPath returns where a file lived before the migration. The first
// rule (in table order) whose new directory is a leading-segment prefix of
// the file's root-relative path wins. Files no rule covers are returned
// unchanged.
func (r *Remapper) LocateOldPath(newFilePath string) string {
	abs := newFilePath
	if !filepath.IsAbs(abs) {
		var err error
		if abs, err = filepath.Abs(abs); err != nil {
			return newFilePath
		}
	}

	rel, ok := r.relToRoot(abs)
	if !ok {
		return newFilePath
	}
	parts := strings.Split(filepath.ToSlash(rel), "/")

	for _, rule := range r.table.Rules() {
		prefix := rule.NewSegments()
		if len(prefix) == 0 || !hasSegmentPrefix(parts, prefix) {
			continue
		}
		oldParts := append([]string{r.root}, rule.OldSegments()...)
		oldParts = append(oldParts, parts[len(prefix):]...)
		return filepath.Join(oldParts...)
	}

	return newFilePath
}

// RewriteContent returns content with every relative import of the file at
// filePath pointed at its target's post-migration location. Imports that are
// not relative, resolve outside the root, or resolve into a directory the
// table does not know are kept as written.
func (r *Remapper) RewriteContent(filePath, content string) string {
	newFileAbs, err := filepath.Abs(filePath)
	if err != nil {
		return content
	}
	oldFileDir := filepath.Dir(r.LocateOldPath(newFileAbs))
	newFileDir := filepath.Dir(newFileAbs)

	return replaceImports(content, func(ref models.ImportRef) (string, bool) {
		if !ref.IsRelative() {
			return "", false
		}
		return r.remapImport(ref.Path, oldFileDir, newFileDir)
	})
}

func (r *Remapper) remapImport(importPath, oldFileDir, newFileDir string) (string, bool) {
	// Assume the import was correct relative to the file's old location.
	oldTarget := filepath.Join(oldFileDir, filepath.FromSlash(importPath))

	rel, ok := r.relToRoot(oldTarget)
	if !ok {
		return "", false
	}
	parts := strings.Split(filepath.ToSlash(rel), "/")

	newTop, ok := r.table.NewFor(parts[0])
	if !ok {
		return "", false
	}

	newParts := append([]string{r.root, filepath.FromSlash(newTop)}, parts[1:]...)
	newTarget := filepath.Join(newParts...)

	newRel, err := filepath.Rel(newFileDir, newTarget)
	if err != nil {
		return "", false
	}
	newRel = filepath.ToSlash(newRel)
	if !strings.HasPrefix(newRel, ".") {
		newRel = "./" + newRel
	}
	return newRel, true
}

// RewriteFile rewrites the imports of one file in place. The file is only
// written when its content changes; permission bits are kept.
func (r *Remapper) RewriteFile(filePath string) (bool, error) {
	info, err := os.Stat(filePath)
	if err != nil {
		return false, fmt.Errorf("failed to stat %s: %w", filePath, err)
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", filePath, err)
	}
	if !utf8.Valid(data) {
		return false, fmt.Errorf("failed to decode %s: %w", filePath, ErrNotUTF8)
	}

	content := string(data)
	newContent := r.RewriteContent(filePath, content)
	if newContent == content {
		logger.Debug("No import changes in %s", filePath)
		return false, nil
	}

	if r.dryRun {
		fmt.Fprintf(r.out, "Would fix %s\n", filePath)
		if err := diff.Render(r.out, filePath, content, newContent); err != nil {
			return true, fmt.Errorf("failed to render diff for %s: %w", filePath, err)
		}
		return true, nil
	}

	if err := os.WriteFile(filePath, []byte(newContent), info.Mode().Perm()); err != nil {
		return false, fmt.Errorf("failed to write %s: %w", filePath, err)
	}
	fmt.Fprintf(r.out, "Fixed %s\n", filePath)
	return true, nil
}

// Run rewrites every eligible file under the root, one at a time in
// traversal order. A file that fails is logged and recorded in the summary;
// the walk carries on. The error is only non-nil when the traversal itself
// fails.
func (r *Remapper) Run() (*models.Summary, error) {
	summary := &models.Summary{}
	logger.Debug("Rewriting imports under %s (%d rename rules)", r.root, r.table.Len())

	err := r.walker.Walk(r.root, func(path string) error {
		changed, err := r.RewriteFile(path)
		if err != nil {
			logger.Error("Failed to rewrite %s: %v", path, err)
		}
		summary.Add(models.FileResult{Path: path, Changed: changed, Err: err})
		return nil
	})
	if err != nil {
		return summary, fmt.Errorf("failed to walk %s: %w", r.root, err)
	}

	logger.Debug("Scanned %d files, fixed %d, failed %d", summary.Scanned, summary.Fixed, summary.Failed())
	return summary, nil
}

// relToRoot returns target relative to the root, or false when target is
// outside it.
func (r *Remapper) relToRoot(target string) (string, bool) {
	rel, err := filepath.Rel(r.root, target)
	if err != nil {
		return "", false
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return rel, true
}

func hasSegmentPrefix(parts, prefix []string) bool {
	if len(parts) < len(prefix) {
		return false
	}
	for i, seg := range prefix {
		if parts[i] != seg {
			return false
		}
	}
	return true
}
