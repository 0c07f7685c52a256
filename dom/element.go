// Package dom provides element tree consumed by the layout engine together
// with adapters building it from HTML and XHTML sources.
package dom

// Element is a node of styled document tree.
type Element interface {
	Name() string
	Parent() Element
	Children() []Element
	Previous() Element
	Next() Element
	IsText() bool
	// Declarations is raw declaration text: semicolon separated name:value
	// list, empty when element has none.
	Declarations() string
	// Text is literal content of text nodes.
	Text() string
}

// Node is in-memory Element implementation.
type Node struct {
	name         string
	declarations string
	text         string
	isText       bool

	parent   *Node
	children []*Node
}

// NewElement creates element node with declarations and children.
func NewElement(name, declarations string, children ...*Node) *Node {
	n := &Node{name: name, declarations: declarations}
	n.Append(children...)
	return n
}

// NewText creates text node.
func NewText(text string) *Node {
	return &Node{name: "#text", text: text, isText: true}
}

// Append adds children to the node and returns it.
func (n *Node) Append(children ...*Node) *Node {
	for _, c := range children {
		c.parent = n
		n.children = append(n.children, c)
	}
	return n
}

func (n *Node) Name() string         { return n.name }
func (n *Node) IsText() bool         { return n.isText }
func (n *Node) Declarations() string { return n.declarations }
func (n *Node) Text() string         { return n.text }

func (n *Node) Parent() Element {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

func (n *Node) Children() []Element {
	out := make([]Element, len(n.children))
	for i, c := range n.children {
		out[i] = c
	}
	return out
}

func (n *Node) sibling(delta int) Element {
	if n.parent == nil {
		return nil
	}
	for i, c := range n.parent.children {
		if c == n {
			if j := i + delta; j >= 0 && j < len(n.parent.children) {
				return n.parent.children[j]
			}
			return nil
		}
	}
	return nil
}

func (n *Node) Previous() Element {
	return n.sibling(-1)
}

func (n *Node) Next() Element {
	return n.sibling(1)
}
