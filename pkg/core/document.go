package core

import (
	"encoding/json"
	"strings"
)

// Document is a rich-text document kept as raw JSON. The store never
// interprets it beyond text extraction for search, so any valid JSON value
// round-trips unchanged.
type Document json.RawMessage

// EmptyDocument is the content of a note created without any.
func EmptyDocument() Document {
	return Document(`{}`)
}

// TextDocument builds a document with one paragraph per line of text.
// Blank lines become empty paragraphs.
func TextDocument(text string) Document {
	type node struct {
		Type    string `json:"type"`
		Text    string `json:"text,omitempty"`
		Content []node `json:"content,omitempty"`
	}

	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	root := node{Type: "doc", Content: make([]node, 0, len(lines))}
	for _, line := range lines {
		p := node{Type: "paragraph"}
		if line != "" {
			p.Content = []node{{Type: "text", Text: line}}
		}
		root.Content = append(root.Content, p)
	}

	data, err := json.Marshal(root)
	if err != nil {
		return EmptyDocument()
	}
	return Document(data)
}

// MarshalJSON implements json.Marshaler.
func (d Document) MarshalJSON() ([]byte, error) {
	if d == nil {
		return []byte("null"), nil
	}
	return d, nil
}

// UnmarshalJSON implements json.Unmarshaler. A JSON null leaves d nil.
func (d *Document) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	*d = append((*d)[0:0], data...)
	return nil
}

// Valid reports whether d holds a syntactically valid JSON value.
func (d Document) Valid() bool {
	return json.Valid(d)
}

// Text returns the plain text of the document: the text payload of every
// text node, in document order, joined by single spaces.
func (d Document) Text() string {
	var parts []string
	ParseNode(d).Walk(func(n Node) {
		if n.Kind == NodeText {
			parts = append(parts, n.Text)
		}
	})
	return strings.TrimSpace(strings.Join(parts, " "))
}

// NodeKind is the tag of a document node.
type NodeKind int

const (
	// NodeOther is any node that is neither text nor a container.
	NodeOther NodeKind = iota
	// NodeText carries a text payload.
	NodeText
	// NodeContainer has an ordered list of children.
	NodeContainer
)

// Node is the decoded view of one document node. Unknown node types are
// kept as NodeOther and ignored by extraction.
type Node struct {
	Kind     NodeKind
	Type     string
	Text     string
	Children []Node
}

type rawNode struct {
	Type    string            `json:"type"`
	Text    string            `json:"text"`
	Content []json.RawMessage `json:"content"`
}

// ParseNode decodes raw into a Node tree. Malformed nodes, at any depth,
// decode as empty NodeOther values instead of failing the whole document.
func ParseNode(raw []byte) Node {
	var r rawNode
	if err := json.Unmarshal(raw, &r); err != nil {
		return Node{Kind: NodeOther}
	}

	n := Node{Type: r.Type, Text: r.Text}
	switch {
	case r.Type == "text":
		n.Kind = NodeText
	case r.Content != nil:
		n.Kind = NodeContainer
	default:
		n.Kind = NodeOther
	}

	if len(r.Content) > 0 {
		n.Children = make([]Node, 0, len(r.Content))
		for _, c := range r.Content {
			n.Children = append(n.Children, ParseNode(c))
		}
	}
	return n
}

// Walk visits n and its descendants depth-first, in order.
func (n Node) Walk(fn func(Node)) {
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
}
