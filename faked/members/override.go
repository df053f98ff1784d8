package members

import (
	"github.com/teranos/faked/faked/diag"
	"github.com/teranos/faked/syntax"
)

// overrideLabel marks a string argument holding expression text.
const overrideLabel = "exp"

// Override extracts the @FakeDefault value attached to a var or func.
// It returns nil when the member carries no annotation.
func Override(decl syntax.Decl) (syntax.Expr, error) {
	a := syntax.FindAttribute(decl.Attributes(), FakeDefaultAttribute)
	if a == nil {
		return nil, nil
	}
	return OverrideValue(a, decl)
}

// OverrideValue validates a @FakeDefault annotation and returns the value
// to emit. exp: "..." is taken verbatim; any other first argument must be
// a literal or an identifier chain.
func OverrideValue(a *syntax.Attribute, decl syntax.Decl) (syntax.Expr, error) {
	var rep diag.Reporter
	invalid := func(detail string) error {
		return rep.Report(diag.New(diag.InvalidDefault, a.Pos, detail).In(decl))
	}

	if len(a.Args) == 0 {
		return nil, invalid("missing value")
	}
	arg := a.Args[0]
	if arg.Label == overrideLabel {
		s, ok := arg.Value.(*syntax.StringLiteral)
		if !ok || s.Value == "" {
			return nil, invalid("exp must be a non-empty string literal")
		}
		return &syntax.RawExpr{Text: s.Value}, nil
	}
	if !syntax.IsLiteral(arg.Value) && !syntax.IsIdentifierChain(arg.Value) {
		return nil, invalid(arg.Value.String())
	}
	return arg.Value, nil
}
