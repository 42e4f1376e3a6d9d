package rustache

import "io"

// Node is one element of a parsed template tree. Each concrete type
// below implements render by writing its contribution to w given the
// current context and render state.
type Node interface {
	execute(w io.Writer, ctx *Value, st *renderState) error
}

// TextNode is literal template text, written as-is.
type TextNode struct {
	Text string
}

// VariableNode looks up Identifier in the context and writes its
// string form, HTML-escaped unless Escaped is false.
type VariableNode struct {
	Identifier string
	Escaped    bool
}

// ImplicitNode writes the string form of the entire current context.
type ImplicitNode struct{}

// CommentNode is retained in the tree but renders nothing.
type CommentNode struct {
	Text string
}

// SectionNode renders Children once per Sequence element (non-inverted,
// Sequence value), once with the value itself as context (non-inverted,
// other truthy value), or once with the outer context (inverted,
// falsy/missing value).
type SectionNode struct {
	Identifier string
	Inverted   bool
	Children   []Node
}

// PartialNode includes another template by name, resolved statically
// or (if Dynamic) by looking Identifier up in the current context.
type PartialNode struct {
	Identifier string
	Dynamic    bool
}

// ParentNode renders a named template with Children's Block nodes
// overlaid as overrides of that template's own Block placeholders.
type ParentNode struct {
	Identifier string
	Dynamic    bool
	Children   []Node
}

// BlockNode is a named hole: as a direct child of a ParentNode it
// supplies the override content; rendered in place inside a template
// that is a Parent's target, it renders the registry overlay's
// same-named override if present, or its own Children otherwise.
type BlockNode struct {
	Identifier string
	Children   []Node
}
