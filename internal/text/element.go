// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package text

// Kind identifies the variant of an Element.
type Kind string

const (
	KindParagraph Kind = "paragraph"
	KindListEntry Kind = "list_entry"
)

// Element is one segment of a description: a Paragraph or a ListEntry.
// The set of implementations is closed; callers switch on the concrete type.
type Element interface {
	Kind() Kind
	Text() string
	element()
}

// Paragraph is a block of prose with internal line breaks folded into spaces.
type Paragraph string

// ListEntry is the content of one bullet line with its marker stripped.
type ListEntry string

func (Paragraph) Kind() Kind     { return KindParagraph }
func (p Paragraph) Text() string { return string(p) }
func (Paragraph) element()       {}

func (ListEntry) Kind() Kind     { return KindListEntry }
func (e ListEntry) Text() string { return string(e) }
func (ListEntry) element()       {}

// Record is the serialized form of an Element used by the JSON and YAML
// renderers and the history export.
type Record struct {
	Kind Kind   `json:"kind" yaml:"kind"`
	Text string `json:"text" yaml:"text"`
}

// Records converts elements to their serialized form.
func Records(elems []Element) []Record {
	out := make([]Record, len(elems))
	for i, e := range elems {
		out[i] = Record{Kind: e.Kind(), Text: e.Text()}
	}
	return out
}
