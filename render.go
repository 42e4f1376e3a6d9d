package rustache

import "io"

// partialResolver is satisfied by a Registry: it answers "what node
// list is bound to this template name", which is what Partial/Parent
// name resolution needs.
type partialResolver interface {
	lookup(name string) ([]Node, bool)
}

// overlay is the Parent node's copy-on-write set of Block overrides for
// the duration of rendering one Parent subtree, per the design notes.
// It chains only to an enclosing overlay (from a nested Parent), never
// to the base Registry: a Block id with no override anywhere in the
// overlay chain must fall back to its own default children, not leak
// into the unrelated partial/parent template namespace that happens to
// share its identifier.
type overlay struct {
	blocks map[string][]Node
	parent *overlay
}

func (o *overlay) lookup(name string) ([]Node, bool) {
	if o == nil {
		return nil, false
	}
	if b, ok := o.blocks[name]; ok {
		return b, true
	}
	return o.parent.lookup(name)
}

// renderState is threaded through a render walk. registry resolves
// Partial/Parent names and is supplied once by the caller
// (Render/Registry.Render); blocks resolves Block overrides and is
// only ever non-nil while descending into a Parent subtree.
type renderState struct {
	registry partialResolver
	blocks   *overlay
	escape   EscapeFunc
}

// Render walks nodes against ctx, writing escaped/unescaped output to
// w. registry may be nil if the tree contains no Partial/Parent nodes;
// referencing one without a registry is a PartialDoesNotExist error.
func Render(w io.Writer, nodes []Node, ctx *Value, registry *Registry, escape EscapeFunc) error {
	if escape == nil {
		escape = DefaultEscape
	}
	var res partialResolver
	if registry != nil {
		res = registry
	}
	st := &renderState{registry: res, escape: escape}
	return renderNodes(w, nodes, ctx, st)
}

func renderNodes(w io.Writer, nodes []Node, ctx *Value, st *renderState) error {
	for _, n := range nodes {
		if err := n.execute(w, ctx, st); err != nil {
			return err
		}
	}
	return nil
}

func (n *TextNode) execute(w io.Writer, _ *Value, _ *renderState) error {
	_, err := io.WriteString(w, n.Text)
	return err
}

func (n *CommentNode) execute(io.Writer, *Value, *renderState) error {
	return nil
}

func (n *ImplicitNode) execute(w io.Writer, ctx *Value, st *renderState) error {
	s := ctx.String()
	if st.escape != nil {
		s = st.escape(s)
	}
	_, err := io.WriteString(w, s)
	return err
}

func (n *VariableNode) execute(w io.Writer, ctx *Value, st *renderState) error {
	val, ok := resolveIdentifier(ctx, n.Identifier)
	if !ok {
		return &RenderError{Kind: IdentifierDoesNotExist, Name: n.Identifier}
	}
	s := val.String()
	if n.Escaped {
		s = st.escape(s)
	}
	_, err := io.WriteString(w, s)
	return err
}

func (n *SectionNode) execute(w io.Writer, ctx *Value, st *renderState) error {
	val, ok := resolveIdentifier(ctx, n.Identifier)
	if !ok {
		if n.Inverted {
			return renderNodes(w, n.Children, ctx, st)
		}
		return &RenderError{Kind: IdentifierDoesNotExist, Name: n.Identifier}
	}

	truthy := val.IsTruthy()

	if n.Inverted {
		if !truthy {
			return renderNodes(w, n.Children, ctx, st)
		}
		return nil
	}

	if !truthy {
		return nil
	}

	if seq, ok := val.Sequence(); ok {
		for _, elem := range seq {
			if err := renderNodes(w, n.Children, elem, st); err != nil {
				return err
			}
		}
		return nil
	}

	return renderNodes(w, n.Children, val, st)
}

func (n *PartialNode) execute(w io.Writer, ctx *Value, st *renderState) error {
	if st.registry == nil {
		return &RenderError{Kind: PartialDoesNotExist, Name: n.Identifier}
	}
	name, err := resolveTemplateName(ctx, n.Identifier, n.Dynamic)
	if err != nil {
		return err
	}
	nodes, ok := st.registry.lookup(name)
	if !ok {
		return &RenderError{Kind: PartialDoesNotExist, Name: name}
	}
	return renderNodes(w, nodes, ctx, st)
}

func (n *ParentNode) execute(w io.Writer, ctx *Value, st *renderState) error {
	if st.registry == nil {
		return &RenderError{Kind: PartialDoesNotExist, Name: n.Identifier}
	}
	name, err := resolveTemplateName(ctx, n.Identifier, n.Dynamic)
	if err != nil {
		return err
	}
	parentNodes, ok := st.registry.lookup(name)
	if !ok {
		return &RenderError{Kind: PartialDoesNotExist, Name: name}
	}

	blocks := map[string][]Node{}
	for _, c := range n.Children {
		if b, ok := c.(*BlockNode); ok {
			blocks[b.Identifier] = b.Children
		}
	}

	augmented := &renderState{
		registry: st.registry,
		blocks:   &overlay{blocks: blocks, parent: st.blocks},
		escape:   st.escape,
	}
	return renderNodes(w, parentNodes, ctx, augmented)
}

func (n *BlockNode) execute(w io.Writer, ctx *Value, st *renderState) error {
	if override, ok := st.blocks.lookup(n.Identifier); ok {
		return renderNodes(w, override, ctx, st)
	}
	return renderNodes(w, n.Children, ctx, st)
}

// resolveIdentifier handles the Implicit-via-"." special case noted in
// spec 4.3 alongside ordinary dotted lookup. A Lambda found by lookup
// is called with the current context ctx.
func resolveIdentifier(ctx *Value, id string) (*Value, bool) {
	if id == "." {
		return ctx, true
	}
	val, ok := Lookup(ctx, id)
	if !ok {
		return nil, false
	}
	return val.resolveLambda(ctx), true
}

// resolveTemplateName resolves a Partial/Parent's target name: static
// names are used literally; dynamic names are looked up in ctx first
// and must resolve to a String.
func resolveTemplateName(ctx *Value, identifier string, dynamic bool) (string, error) {
	if !dynamic {
		return identifier, nil
	}
	val, ok := resolveIdentifier(ctx, identifier)
	if !ok {
		return "", &RenderError{Kind: IdentifierDoesNotExist, Name: identifier}
	}
	return val.String(), nil
}
