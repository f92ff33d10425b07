package models

// ImportRef is one quoted import path found in a source file.
type ImportRef struct {
	Keyword string // "from ", "import(", "require (" ... as written
	Quote   byte
	Path    string
	Start   int // byte offset of the whole match
	End     int
}

// IsRelative reports whether the import path is resolved against the
// importing file's directory.
func (r ImportRef) IsRelative() bool {
	return len(r.Path) > 0 && r.Path[0] == '.'
}

type FileResult struct {
	Path    string
	Changed bool
	Err     error
}

type Summary struct {
	Scanned  int
	Fixed    int
	Failures []FileResult
}

func (s *Summary) Add(result FileResult) {
	s.Scanned++
	if result.Err != nil {
		s.Failures = append(s.Failures, result)
		return
	}
	if result.Changed {
		s.Fixed++
	}
}

func (s *Summary) Failed() int {
	return len(s.Failures)
}
