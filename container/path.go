// Package container implements the hierarchical named tree of frozen
// regions: PathElement/Path, the StructuredSerializer/StructuredReconstituter
// contracts, a ZIP-backed implementation of both, and the file:// mapping
// interface.
package container

import (
	"strings"
	"unicode/utf8"

	"github.com/frozenfs/frozenfs/errs"
)

// Element is one segment of a hierarchical name: a non-empty, NUL-free
// UTF-8 string.
type Element string

// NewElement validates s as an Element: non-empty, valid UTF-8, no NUL.
func NewElement(s string) (Element, error) {
	if s == "" {
		return "", errs.New(errs.KindInvalidPath, "path element must not be empty", nil)
	}
	if !utf8.ValidString(s) {
		return "", errs.New(errs.KindInvalidPath, "path element must be valid UTF-8", nil)
	}
	if strings.ContainsRune(s, 0) {
		return "", errs.New(errs.KindInvalidPath, "path element must not contain NUL", nil)
	}
	return Element(s), nil
}

// Raw returns the element's underlying text, unquoted.
func (e Element) Raw() string { return string(e) }

func (e Element) isBare() bool {
	for _, r := range string(e) {
		if r < 0x20 || r == '"' || r == '.' {
			return false
		}
	}
	return true
}

// Render renders e per the PathElement rendering rule: bare if every
// character is >= 0x20 and not '"' or '.'; otherwise double-quoted with
// internal '"' doubled.
func (e Element) Render() string {
	if e.isBare() {
		return string(e)
	}
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range string(e) {
		if r == '"' {
			b.WriteString(`""`)
		} else {
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// ParseElement is the inverse of Render.
func ParseElement(s string) (Element, error) {
	if s == "" {
		return "", errs.New(errs.KindInvalidPath, "path element must not be empty", nil)
	}
	if s[0] != '"' {
		return NewElement(s)
	}
	if len(s) < 2 || s[len(s)-1] != '"' {
		return "", errs.New(errs.KindInvalidPath, "unterminated quoted path element", nil)
	}
	inner := s[1 : len(s)-1]
	var b strings.Builder
	for i := 0; i < len(inner); i++ {
		if inner[i] == '"' {
			if i+1 < len(inner) && inner[i+1] == '"' {
				b.WriteByte('"')
				i++
				continue
			}
			return "", errs.New(errs.KindInvalidPath, "unescaped quote in quoted path element", nil)
		}
		b.WriteByte(inner[i])
	}
	return NewElement(b.String())
}

// Path is an ordered sequence of Elements, built by concatenating a
// parent path with a child element and never mutated after construction.
type Path []Element

// NewPath builds a Path from raw strings, validating each as an Element.
func NewPath(parts ...string) (Path, error) {
	p := make(Path, 0, len(parts))
	for _, s := range parts {
		e, err := NewElement(s)
		if err != nil {
			return nil, err
		}
		p = append(p, e)
	}
	return p, nil
}

// Child returns a new Path with name appended; the receiver is untouched.
func (p Path) Child(name Element) Path {
	child := make(Path, len(p)+1)
	copy(child, p)
	child[len(p)] = name
	return child
}

// String renders the path's canonical textual form: elements rendered
// per Element.Render and joined with '.', the character Render never
// leaves un-quoted so it is an unambiguous delimiter.
func (p Path) String() string {
	parts := make([]string, len(p))
	for i, e := range p {
		parts[i] = e.Render()
	}
	return strings.Join(parts, ".")
}

// EntryName joins the path's raw elements with '/' for use as a ZIP
// entry name, per the container format's slash-joined naming rule. No
// quoting is applied here; ZIP entry names carry the raw UTF-8 text.
func (p Path) EntryName() string {
	parts := make([]string, len(p))
	for i, e := range p {
		parts[i] = string(e)
	}
	return strings.Join(parts, "/")
}
