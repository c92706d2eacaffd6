package record

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Folder produces case-folded, NFC-normalized text for case-insensitive
// matching. A Folder is not safe for concurrent use; create one per goroutine.
type Folder struct {
	caser cases.Caser
}

// NewFolder creates a Folder.
func NewFolder() *Folder {
	return &Folder{caser: cases.Fold()}
}

// Fold returns the folded form of s.
func (f *Folder) Fold(s string) string {
	return f.caser.String(norm.NFC.String(s))
}

// Contains reports whether v's textual form contains the already-folded needle.
// Null values never contain a non-empty needle.
func (f *Folder) Contains(v Value, foldedNeedle string) bool {
	s, ok := Stringify(v)
	if !ok {
		return foldedNeedle == ""
	}
	return strings.Contains(f.Fold(s), foldedNeedle)
}

// Fold is a convenience for one-off folding.
func Fold(s string) string {
	return NewFolder().Fold(s)
}
