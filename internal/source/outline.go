// Package source extracts lightweight declaration outlines from reviewed
// code. The coordinator uses outlines to relate finding locations to each
// other (same declaration, nested, adjacent) without understanding the
// code itself.
package source

import "strings"

// Excerpt returns the [startLine, endLine] slice of src (1-based, inclusive).
// Out-of-range lines are clamped; an empty or inverted range yields "".
func Excerpt(src string, startLine, endLine int) string {
	if startLine < 1 {
		startLine = 1
	}
	lines := strings.Split(src, "\n")
	if endLine > len(lines) {
		endLine = len(lines)
	}
	if startLine > endLine {
		return ""
	}
	return strings.Join(lines[startLine-1:endLine], "\n")
}

// Language identifies a programming language for outlining.
type Language string

const (
	LangGo         Language = "go"
	LangPython     Language = "python"
	LangRust       Language = "rust"
	LangTypeScript Language = "typescript"
)

// languageTags maps incoming language tags (as supplied by callers and role
// payloads) to canonical languages. Unknown tags yield "", which disables
// outline-based heuristics for the run.
var languageTags = map[string]Language{
	"go":         LangGo,
	"golang":     LangGo,
	"python":     LangPython,
	"py":         LangPython,
	"rust":       LangRust,
	"rs":         LangRust,
	"typescript": LangTypeScript,
	"ts":         LangTypeScript,
	"tsx":        LangTypeScript,
}

// FromTag resolves a free-form language tag to a supported Language.
func FromTag(tag string) (Language, bool) {
	l, ok := languageTags[tag]
	return l, ok
}

// DeclKind classifies outline declarations.
type DeclKind string

const (
	DeclFunction  DeclKind = "function"
	DeclMethod    DeclKind = "method"
	DeclType      DeclKind = "type"
	DeclClass     DeclKind = "class"
	DeclInterface DeclKind = "interface"
	DeclEnum      DeclKind = "enum"
)

// Decl is one named declaration span in the reviewed source.
type Decl struct {
	Name      string   `json:"name"`
	Kind      DeclKind `json:"kind"`
	StartLine int      `json:"startLine"`
	EndLine   int      `json:"endLine"`
}

// contains reports whether the declaration spans the whole [start, end] range.
func (d Decl) contains(start, end int) bool {
	return d.StartLine <= start && end <= d.EndLine
}

// Outline is the declaration structure of one source file.
type Outline struct {
	Language  Language `json:"language"`
	LineCount int      `json:"lineCount"`
	Decls     []Decl   `json:"decls"`
}

// DeclAt returns the smallest declaration containing the [start, end] line
// range, or nil when no declaration spans it.
func (o *Outline) DeclAt(start, end int) *Decl {
	if o == nil {
		return nil
	}
	var best *Decl
	for i := range o.Decls {
		d := &o.Decls[i]
		if !d.contains(start, end) {
			continue
		}
		if best == nil || (d.EndLine-d.StartLine) < (best.EndLine-best.StartLine) {
			best = d
		}
	}
	return best
}

// SameDecl reports whether two line ranges fall inside the same smallest
// declaration. Either range escaping every declaration yields false.
func (o *Outline) SameDecl(aStart, aEnd, bStart, bEnd int) bool {
	a := o.DeclAt(aStart, aEnd)
	if a == nil {
		return false
	}
	b := o.DeclAt(bStart, bEnd)
	return b != nil && *a == *b
}
