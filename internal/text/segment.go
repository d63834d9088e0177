// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package text segments pull-request descriptions written with loose
// markdown-like conventions into paragraphs and list entries.
//
// A description is scanned once, left to right, by a three-state machine.
// A single line break inside a paragraph folds into a space, a blank line
// ends the paragraph, and a line starting with '-' or '*' becomes a list
// entry. The decision about a line break is deferred to the character that
// follows it, so no lookahead is needed.
package text

import (
	"io"
	"strings"
	"unicode"
)

const newline = '\n'

func isMarker(r rune) bool { return r == '-' || r == '*' }

// state is one of initState, paragraphState or listEntryState.
type state interface {
	// next consumes r and returns the following state. A completed element,
	// if any, is appended to out.
	next(r rune, out *[]Element) state
	// flush returns the element still open at end of input, if any.
	flush() (Element, bool)
}

// initState is between elements: skipping blank lines and indentation.
type initState struct{}

// paragraphState accumulates prose. last is the previous character seen;
// a last of '\n' means a line break is pending.
type paragraphState struct {
	text strings.Builder
	last rune
}

// listEntryState accumulates one bullet line. started is set once the
// first non-whitespace character after the marker has been seen.
type listEntryState struct {
	text    strings.Builder
	started bool
}

func (initState) next(r rune, _ *[]Element) state {
	switch {
	case r == newline || r == ' ':
		return initState{}
	case isMarker(r):
		return &listEntryState{}
	default:
		p := &paragraphState{last: r}
		p.text.WriteRune(r)
		return p
	}
}

func (initState) flush() (Element, bool) { return nil, false }

func (p *paragraphState) next(r rune, out *[]Element) state {
	pending := p.last == newline
	switch {
	case r == newline && pending:
		*out = append(*out, Paragraph(p.text.String()))
		return initState{}
	case r == newline:
		p.last = newline
	case r == ' ' && pending:
		// Indentation after a folded line break.
	case isMarker(r) && pending:
		*out = append(*out, Paragraph(p.text.String()))
		return &listEntryState{}
	default:
		if pending {
			p.text.WriteByte(' ')
		}
		p.text.WriteRune(r)
		p.last = r
	}
	return p
}

func (p *paragraphState) flush() (Element, bool) {
	return Paragraph(p.text.String()), true
}

func (l *listEntryState) next(r rune, out *[]Element) state {
	switch {
	case r == newline:
		*out = append(*out, ListEntry(l.text.String()))
		return initState{}
	case l.started:
		l.text.WriteRune(r)
	case unicode.IsSpace(r):
	default:
		l.started = true
		l.text.WriteRune(r)
	}
	return l
}

func (l *listEntryState) flush() (Element, bool) {
	return ListEntry(l.text.String()), true
}

// Parse segments raw into paragraphs and list entries in source order.
// It accepts any input and never fails; an empty or blank input yields an
// empty result. raw is expected to use "\n" line breaks only; see
// NormalizeNewlines.
//
// An element still open at end of input is emitted as is, even when its
// text is empty (a lone "-" yields an empty ListEntry).
func Parse(raw string) []Element {
	var (
		out []Element
		st  state = initState{}
	)
	for _, r := range raw {
		st = st.next(r, &out)
	}
	if e, ok := st.flush(); ok {
		out = append(out, e)
	}
	return out
}

// ParseReader reads r to the end and segments its contents after
// normalizing line breaks.
func ParseReader(r io.Reader) ([]Element, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Parse(NormalizeNewlines(string(data))), nil
}

// NormalizeNewlines converts "\r\n" and lone "\r" line breaks to "\n".
func NormalizeNewlines(s string) string {
	if !strings.ContainsRune(s, '\r') {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
