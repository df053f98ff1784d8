package options

import (
	"github.com/teranos/faked/faked/diag"
	"github.com/teranos/faked/syntax"
)

// Decode reads @Faked arguments into a Raw configuration, starting from
// defs. Arguments are literal-shape checked only.
func Decode(args []*syntax.Argument, defs Defaults) (*Raw, error) {
	var rep diag.Reporter
	raw := &Raw{
		Inherit:    append([]string(nil), defs.Inherit...),
		AnyObject:  defs.AnyObject,
		CreateNull: defs.CreateNull,
	}

	for _, arg := range args {
		var err error
		switch arg.Label {
		case LabelTypes:
			raw.Bindings, err = decodeBindings(arg, &rep)
		case LabelInherit:
			raw.Inherit, err = decodeStrings(arg, &rep)
		case LabelSkip:
			raw.Skip, err = decodeStrings(arg, &rep)
		case LabelAnyObject:
			raw.AnyObject, err = decodeBool(arg, &rep)
		case LabelCreateNull:
			raw.CreateNull, err = decodeBool(arg, &rep)
		default:
			label := arg.Label
			if label == "" {
				label = "unlabelled argument"
			}
			err = rep.Report(diag.Newf(diag.InvalidArgument, arg.Pos, "unknown argument %s", label))
		}
		if err != nil {
			return nil, err
		}
	}
	return raw, nil
}

func decodeBindings(arg *syntax.Argument, rep *diag.Reporter) ([]TypeBinding, error) {
	var entries []*syntax.DictEntry
	switch v := arg.Value.(type) {
	case *syntax.DictLiteral:
		entries = v.Entries
	case *syntax.ArrayLiteral:
		if len(v.Elems) > 0 {
			return nil, rep.Report(diag.New(diag.WrongTypeSpecifier, arg.Pos, v.String()))
		}
		return nil, nil
	default:
		return nil, rep.Report(diag.New(diag.WrongTypeSpecifier, arg.Pos, arg.Value.String()))
	}

	seen := make(map[string]bool, len(entries))
	bindings := make([]TypeBinding, 0, len(entries))
	for _, e := range entries {
		pos := e.Pos
		if !pos.IsValid() {
			pos = arg.Pos
		}
		key, ok := e.Key.(*syntax.StringLiteral)
		if !ok || key.Value == "" {
			return nil, rep.Report(diag.Newf(diag.WrongTypeSpecifier, pos, "key %s", e.Key))
		}
		if seen[key.Value] {
			return nil, rep.Report(diag.Newf(diag.WrongTypeSpecifier, pos, "duplicate key %q", key.Value))
		}
		seen[key.Value] = true

		concrete, ok := typeReference(e.Value)
		if !ok {
			return nil, rep.Report(diag.Newf(diag.WrongTypeSpecifier, pos, "value %s", e.Value))
		}
		bindings = append(bindings, TypeBinding{Pos: pos, Name: key.Value, Concrete: concrete})
	}
	return bindings, nil
}

// typeReference accepts `T.self` or a string literal holding a type name.
func typeReference(e syntax.Expr) (string, bool) {
	if name, ok := syntax.SelfType(e); ok {
		return name, true
	}
	if s, ok := e.(*syntax.StringLiteral); ok && syntax.IsTypeName(s.Value) {
		return syntax.ParseType(s.Value).String(), true
	}
	return "", false
}

func decodeStrings(arg *syntax.Argument, rep *diag.Reporter) ([]string, error) {
	arr, ok := arg.Value.(*syntax.ArrayLiteral)
	if !ok {
		return nil, rep.Report(diag.Newf(diag.InvalidArgument, arg.Pos, "%s must be an array of strings", arg.Label))
	}
	out := make([]string, 0, len(arr.Elems))
	for _, el := range arr.Elems {
		s, ok := el.(*syntax.StringLiteral)
		if !ok {
			return nil, rep.Report(diag.Newf(diag.InvalidArgument, arg.Pos, "%s entry %s is not a string", arg.Label, el))
		}
		out = append(out, s.Value)
	}
	return out, nil
}

func decodeBool(arg *syntax.Argument, rep *diag.Reporter) (bool, error) {
	b, ok := arg.Value.(*syntax.BooleanLiteral)
	if !ok {
		return false, rep.Report(diag.Newf(diag.InvalidArgument, arg.Pos, "%s must be true or false", arg.Label))
	}
	return b.Value, nil
}
