package rustache

import "strings"

// ValueKind discriminates the variant held by a Value.
type ValueKind int

const (
	KindNone ValueKind = iota
	KindString
	KindBool
	KindSequence
	KindObject
	KindLambda
)

// LambdaFunc is a render-time callback: given the current context, it
// returns a Value that is itself recursively resolved (its string form
// and truthiness are computed by calling through, not by treating the
// function as opaque).
type LambdaFunc func(ctx *Value) *Value

// Value is the tagged union used as render context and as the result
// of identifier lookup. It deliberately does not wrap reflect.Value:
// the variant set is closed and explicit, per the engine's data model.
type Value struct {
	kind ValueKind

	str    string
	b      bool
	seq    []*Value
	obj    map[string]*Value
	lambda LambdaFunc
}

// NewNone returns the None value. String form "", truthiness false.
func NewNone() *Value { return &Value{kind: KindNone} }

// NewString wraps a string. Truthiness is non-empty.
func NewString(s string) *Value { return &Value{kind: KindString, str: s} }

// NewBool wraps a bool. String form is "true"/"false".
func NewBool(b bool) *Value { return &Value{kind: KindBool, b: b} }

// NewSequence wraps a slice of Values. Truthiness is non-empty;
// sections iterate over it.
func NewSequence(items []*Value) *Value { return &Value{kind: KindSequence, seq: items} }

// NewObject wraps a string-keyed map of Values, addressable by dotted
// path. Always truthy.
func NewObject(fields map[string]*Value) *Value { return &Value{kind: KindObject, obj: fields} }

// NewLambda wraps a function resolved recursively at render time.
func NewLambda(fn LambdaFunc) *Value { return &Value{kind: KindLambda, lambda: fn} }

// Kind reports which variant v holds.
func (v *Value) Kind() ValueKind {
	if v == nil {
		return KindNone
	}
	return v.kind
}

// resolveLambda calls through a chain of Lambda values (against ctx)
// until it reaches a non-Lambda Value.
func (v *Value) resolveLambda(ctx *Value) *Value {
	cur := v
	for cur != nil && cur.kind == KindLambda {
		cur = cur.lambda(ctx)
	}
	if cur == nil {
		return NewNone()
	}
	return cur
}

// String returns v's string form, per spec 3.3: String as-is, Bool as
// "true"/"false", Sequence/Object stringify to "" (they have no scalar
// form; Implicit against one of these is the caller's concern, not
// this method's), Lambda resolved recursively, None as "". String has
// no render context, so a Lambda reached through it is called with v
// itself; the renderer resolves looked-up Lambdas against the current
// context before calling String.
func (v *Value) String() string {
	return v.resolveLambda(v).string0()
}

func (v *Value) string0() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindBool:
		if v.b {
			return "true"
		}
		return "false"
	default:
		return ""
	}
}

// IsTruthy reports v's truthiness: Bool is the boolean itself,
// non-empty String, non-empty Sequence, and any Object are truthy,
// Lambda resolves recursively, everything else (None) is falsy.
func (v *Value) IsTruthy() bool {
	return v.resolveLambda(v).truthy0()
}

func (v *Value) truthy0() bool {
	switch v.kind {
	case KindBool:
		return v.b
	case KindString:
		return v.str != ""
	case KindSequence:
		return len(v.seq) > 0
	case KindObject:
		return true
	default:
		return false
	}
}

// Sequence returns v's elements and whether v is a Sequence at all
// (after resolving any Lambda chain).
func (v *Value) Sequence() ([]*Value, bool) {
	r := v.resolveLambda(v)
	if r.kind != KindSequence {
		return nil, false
	}
	return r.seq, true
}

// Field looks up a single path segment on an Object. Non-objects (and
// missing keys) report ok=false.
func (v *Value) Field(name string) (*Value, bool) {
	r := v.resolveLambda(v)
	if r.kind != KindObject {
		return nil, false
	}
	f, ok := r.obj[name]
	return f, ok
}

// Lookup resolves a dotted path ("a.b.c") against v, per spec 4.3: at
// each step the current value must be an Object; the final segment's
// value is returned. A bare "." always means the Implicit self
// reference and is handled by the callers in render.go (ImplicitNode
// and resolveIdentifier), not here.
func Lookup(ctx *Value, path string) (*Value, bool) {
	if ctx == nil {
		return nil, false
	}
	parts := strings.Split(path, ".")
	cur := ctx
	for _, part := range parts {
		f, ok := cur.Field(part)
		if !ok {
			return nil, false
		}
		cur = f
	}
	return cur, true
}
