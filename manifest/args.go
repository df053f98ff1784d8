package manifest

import (
	"sort"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/teranos/faked/errors"
	"github.com/teranos/faked/syntax"
)

// Args is an attribute argument list. A mapping gives labelled arguments,
// a sequence gives positional ones and a lone scalar is one positional
// argument.
type Args []*syntax.Argument

// UnmarshalYAML keeps the literal shape of every node: quoted scalars are
// string literals, plain scalars are parsed as expressions.
func (a *Args) UnmarshalYAML(node *yaml.Node) error {
	node = resolveAlias(node)
	switch node.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(node.Content); i += 2 {
			key, val := node.Content[i], node.Content[i+1]
			e, err := yamlExpr(val)
			if err != nil {
				return err
			}
			*a = append(*a, &syntax.Argument{Pos: nodePos(key), Label: key.Value, Value: e})
		}
	case yaml.SequenceNode:
		for _, item := range node.Content {
			e, err := yamlExpr(item)
			if err != nil {
				return err
			}
			*a = append(*a, &syntax.Argument{Pos: nodePos(item), Value: e})
		}
	case yaml.ScalarNode:
		e, err := yamlExpr(node)
		if err != nil {
			return err
		}
		*a = Args{{Pos: nodePos(node), Value: e}}
	default:
		return errors.Newf("line %d: unsupported argument list", node.Line)
	}
	return nil
}

// UnmarshalTOML receives the generic decoded value. Strings are parsed as
// expressions; write a string literal as '"text"'. Table keys are taken in
// sorted order.
func (a *Args) UnmarshalTOML(data interface{}) error {
	switch v := data.(type) {
	case map[string]interface{}:
		for _, k := range sortedKeys(v) {
			e, err := tomlExpr(v[k])
			if err != nil {
				return errors.Wrapf(err, "argument %s", k)
			}
			*a = append(*a, &syntax.Argument{Label: k, Value: e})
		}
	case []interface{}:
		for _, item := range v {
			e, err := tomlExpr(item)
			if err != nil {
				return err
			}
			*a = append(*a, &syntax.Argument{Value: e})
		}
	default:
		e, err := tomlExpr(v)
		if err != nil {
			return err
		}
		*a = Args{{Value: e}}
	}
	return nil
}

func yamlExpr(node *yaml.Node) (syntax.Expr, error) {
	node = resolveAlias(node)
	switch node.Kind {
	case yaml.SequenceNode:
		arr := &syntax.ArrayLiteral{}
		for _, item := range node.Content {
			e, err := yamlExpr(item)
			if err != nil {
				return nil, err
			}
			arr.Elems = append(arr.Elems, e)
		}
		return arr, nil

	case yaml.MappingNode:
		dict := &syntax.DictLiteral{}
		for i := 0; i+1 < len(node.Content); i += 2 {
			k, v := node.Content[i], node.Content[i+1]
			key, err := yamlKey(k)
			if err != nil {
				return nil, err
			}
			val, err := yamlExpr(v)
			if err != nil {
				return nil, err
			}
			dict.Entries = append(dict.Entries, &syntax.DictEntry{Pos: nodePos(k), Key: key, Value: val})
		}
		return dict, nil

	case yaml.ScalarNode:
		return yamlScalar(node)
	}
	return nil, errors.Newf("line %d: unsupported value", node.Line)
}

func yamlKey(node *yaml.Node) (syntax.Expr, error) {
	if node.Kind == yaml.ScalarNode && node.ShortTag() == "!!str" {
		return &syntax.StringLiteral{Value: node.Value}, nil
	}
	return yamlExpr(node)
}

func yamlScalar(node *yaml.Node) (syntax.Expr, error) {
	switch node.ShortTag() {
	case "!!null":
		return &syntax.NilLiteral{}, nil
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return nil, err
		}
		return &syntax.BooleanLiteral{Value: b}, nil
	case "!!int":
		return &syntax.IntegerLiteral{Text: node.Value}, nil
	case "!!float":
		return &syntax.FloatLiteral{Text: node.Value}, nil
	case "!!str":
		if node.Style&(yaml.DoubleQuotedStyle|yaml.SingleQuotedStyle|yaml.LiteralStyle|yaml.FoldedStyle) != 0 {
			return &syntax.StringLiteral{Value: node.Value}, nil
		}
		return exprFromString(node.Value), nil
	}
	return nil, errors.Newf("line %d: unsupported scalar tag %s", node.Line, node.ShortTag())
}

func tomlExpr(v interface{}) (syntax.Expr, error) {
	switch v := v.(type) {
	case string:
		return exprFromString(v), nil
	case bool:
		return &syntax.BooleanLiteral{Value: v}, nil
	case int64:
		return &syntax.IntegerLiteral{Text: strconv.FormatInt(v, 10)}, nil
	case float64:
		return &syntax.FloatLiteral{Text: strconv.FormatFloat(v, 'g', -1, 64)}, nil
	case []interface{}:
		arr := &syntax.ArrayLiteral{}
		for _, item := range v {
			e, err := tomlExpr(item)
			if err != nil {
				return nil, err
			}
			arr.Elems = append(arr.Elems, e)
		}
		return arr, nil
	case map[string]interface{}:
		dict := &syntax.DictLiteral{}
		for _, k := range sortedKeys(v) {
			val, err := tomlExpr(v[k])
			if err != nil {
				return nil, err
			}
			dict.Entries = append(dict.Entries, &syntax.DictEntry{Key: &syntax.StringLiteral{Value: k}, Value: val})
		}
		return dict, nil
	}
	return nil, errors.Newf("unsupported value of type %T", v)
}

// exprFromString parses text as an expression. Text the expression parser
// does not accept is kept verbatim so the engine can report it.
func exprFromString(text string) syntax.Expr {
	if e, err := syntax.ParseExpr(text); err == nil {
		return e
	}
	return &syntax.RawExpr{Text: text}
}

func resolveAlias(node *yaml.Node) *yaml.Node {
	for node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	return node
}

func nodePos(node *yaml.Node) syntax.Pos {
	return syntax.Pos{Line: node.Line, Column: node.Column}
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
