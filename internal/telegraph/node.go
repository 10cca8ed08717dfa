package telegraph

// Node is one element of a Telegraph document: either Text or an Element.
type Node interface {
	isNode()
}

// Text is a plain text node. It encodes as a bare JSON string.
type Text string

func (Text) isNode() {}

// Element is a tagged node with optional attributes and children.
type Element struct {
	Tag      string            `json:"tag"`
	Attrs    map[string]string `json:"attrs,omitempty"`
	Children []Node            `json:"children,omitempty"`
}

func (Element) isNode() {}

// Paragraph returns a <p> block holding text.
func Paragraph(text string) Element {
	return Element{Tag: "p", Children: []Node{Text(text)}}
}

// Figure returns a <figure> block wrapping children.
func Figure(children ...Node) Element {
	return Element{Tag: "figure", Children: children}
}

// Image returns an <img> reference to src.
func Image(src string) Element {
	return Element{Tag: "img", Attrs: map[string]string{"src": src}}
}
