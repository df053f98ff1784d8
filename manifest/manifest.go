// Package manifest reads declaration manifests: YAML, JSON or TOML
// documents describing annotated Swift declarations. A manifest decodes to
// a syntax.File that the host pipeline can expand.
package manifest

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/teranos/faked/errors"
	"github.com/teranos/faked/syntax"
)

// Format identifies a manifest encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// Document is the top level of a manifest.
type Document struct {
	// File names the Swift source the declarations belong to. Defaults to
	// the manifest path.
	File         string  `yaml:"file" toml:"file"`
	Declarations []*Decl `yaml:"declarations" toml:"declarations"`
}

// Decl describes one declaration. Which fields apply depends on Kind.
type Decl struct {
	Kind       string       `yaml:"kind" toml:"kind"`
	Name       string       `yaml:"name" toml:"name"`
	Doc        []string     `yaml:"doc" toml:"doc"`
	Modifiers  []string     `yaml:"modifiers" toml:"modifiers"`
	Inherits   []string     `yaml:"inherits" toml:"inherits"`
	Attributes []*Attribute `yaml:"attributes" toml:"attributes"`
	Members    []*Decl      `yaml:"members" toml:"members"`

	// var / let / subscript
	Type      string     `yaml:"type" toml:"type"`
	Accessors []string   `yaml:"accessors" toml:"accessors"`
	Bindings  []*Binding `yaml:"bindings" toml:"bindings"`

	// func / init / subscript
	Generics string   `yaml:"generics" toml:"generics"`
	Params   []*Param `yaml:"params" toml:"params"`
	Effects  []string `yaml:"effects" toml:"effects"`
	Returns  string   `yaml:"returns" toml:"returns"`
	Failable bool     `yaml:"failable" toml:"failable"`

	// associatedtype / typealias
	Default string `yaml:"default" toml:"default"`
	Target  string `yaml:"target" toml:"target"`

	line, column int
}

// UnmarshalYAML records the node position alongside the decoded fields.
func (d *Decl) UnmarshalYAML(node *yaml.Node) error {
	type alias Decl
	if err := node.Decode((*alias)(d)); err != nil {
		return err
	}
	d.line, d.column = node.Line, node.Column
	return nil
}

// Binding is one name: Type pair of a var declaration.
type Binding struct {
	Name      string   `yaml:"name" toml:"name"`
	Type      string   `yaml:"type" toml:"type"`
	Accessors []string `yaml:"accessors" toml:"accessors"`
}

// Param is one function or subscript parameter.
type Param struct {
	Label   string `yaml:"label" toml:"label"`
	Name    string `yaml:"name" toml:"name"`
	Type    string `yaml:"type" toml:"type"`
	Default string `yaml:"default" toml:"default"`
}

// Attribute is an annotation such as @Faked(...).
type Attribute struct {
	Name string `yaml:"name" toml:"name"`
	Args Args   `yaml:"args" toml:"args"`

	line, column int
}

// UnmarshalYAML records the node position alongside the decoded fields.
func (a *Attribute) UnmarshalYAML(node *yaml.Node) error {
	type alias Attribute
	if err := node.Decode((*alias)(a)); err != nil {
		return err
	}
	a.line, a.column = node.Line, node.Column
	return nil
}

// DetectFormat picks the decoder from the file extension.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", errors.WithHint(
		errors.Wrapf(errors.ErrUnsupportedFormat, "manifest %s", path),
		"use a .yaml, .yml, .json or .toml manifest")
}

// IsManifest reports whether path has a manifest extension.
func IsManifest(path string) bool {
	_, err := DetectFormat(path)
	return err == nil
}

// Load reads and converts the manifest at path.
func Load(path string) (*syntax.File, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read manifest %s", path)
	}
	return Parse(path, format, data)
}

// Parse decodes data in the given format and converts it. name is used for
// positions when the document does not set file.
func Parse(name string, format Format, data []byte) (*syntax.File, error) {
	doc, err := Decode(format, data)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode manifest %s", name)
	}
	return doc.Convert(name)
}

// Decode decodes data without converting it.
func Decode(format Format, data []byte) (*Document, error) {
	var doc Document
	switch format {
	case FormatYAML, FormatJSON:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
	case FormatTOML:
		if _, err := toml.Decode(string(data), &doc); err != nil {
			return nil, err
		}
	default:
		return nil, errors.Wrapf(errors.ErrUnsupportedFormat, "format %q", format)
	}
	return &doc, nil
}
