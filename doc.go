// Package rustache implements a Mustache-syntax template engine.
//
// The engine is a three-stage pipeline: a streaming state-machine lexer
// turns template source into a token stream, a buffering parser turns
// that token stream into a node tree, and a renderer walks the tree
// against a dynamically-typed Value to produce output bytes. A Registry
// loads a directory of templates in parallel and lets any template
// reference any other by name, as a partial or as a parent in a
// block-inheritance relationship.
//
// A tiny example with a single in-memory template:
//
//	tokens := StartLexer("greeting", strings.NewReader("Hello {{name}}"))
//	nodes, err := ParseTokens("greeting", tokens)
//	if err != nil {
//	    panic(err)
//	}
//	ctx := NewObject(map[string]*Value{"name": NewString("world")})
//	var buf bytes.Buffer
//	if err := Render(&buf, nodes, ctx, nil, DefaultEscape); err != nil {
//	    panic(err)
//	}
//	fmt.Println(buf.String()) // Output: Hello world
//
// Loading a directory of templates that reference each other as
// partials or parents goes through Registry:
//
//	reg, err := Open("views", "*.mustache")
//	if err != nil {
//	    panic(err)
//	}
//	err = reg.Render("a/b", os.Stdout, ctx)
package rustache

// Version is the package version string.
const Version = "v1"
