package source

import (
	"bytes"
	"context"
	"fmt"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_go "github.com/tree-sitter/tree-sitter-go/bindings/go"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
	tree_sitter_rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// declKinds maps tree-sitter node kinds to outline declaration kinds, per
// language. Node kinds absent from the table are skipped during the walk.
var declKinds = map[Language]map[string]DeclKind{
	LangGo: {
		"function_declaration": DeclFunction,
		"method_declaration":   DeclMethod,
		"type_spec":            DeclType,
	},
	LangPython: {
		"function_definition": DeclFunction,
		"class_definition":    DeclClass,
	},
	LangRust: {
		"function_item": DeclFunction,
		"struct_item":   DeclType,
		"enum_item":     DeclEnum,
		"trait_item":    DeclInterface,
	},
	LangTypeScript: {
		"function_declaration":  DeclFunction,
		"method_definition":     DeclMethod,
		"class_declaration":     DeclClass,
		"interface_declaration": DeclInterface,
		"enum_declaration":      DeclEnum,
	},
}

// Outliner produces declaration outlines using tree-sitter grammars. A new
// tree-sitter parser is created per Outline call, so a single Outliner is
// safe for concurrent use.
type Outliner struct {
	languages map[Language]*tree_sitter.Language
}

// NewOutliner creates an Outliner with Go, Python, Rust, and TypeScript
// grammars registered.
func NewOutliner() *Outliner {
	return &Outliner{
		languages: map[Language]*tree_sitter.Language{
			LangGo:         tree_sitter.NewLanguage(tree_sitter_go.Language()),
			LangPython:     tree_sitter.NewLanguage(tree_sitter_python.Language()),
			LangRust:       tree_sitter.NewLanguage(tree_sitter_rust.Language()),
			LangTypeScript: tree_sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript()),
		},
	}
}

// Supports reports whether the language has a registered grammar.
func (o *Outliner) Supports(lang Language) bool {
	_, ok := o.languages[lang]
	return ok
}

// Outline parses the source and returns its declaration outline.
func (o *Outliner) Outline(_ context.Context, src []byte, lang Language) (*Outline, error) {
	tsLang, ok := o.languages[lang]
	if !ok {
		return nil, fmt.Errorf("source: unsupported language: %s", lang)
	}

	parser := tree_sitter.NewParser()
	defer parser.Close()

	if err := parser.SetLanguage(tsLang); err != nil {
		return nil, fmt.Errorf("source: set language %s: %w", lang, err)
	}

	tree := parser.Parse(src, nil)
	if tree == nil {
		return nil, fmt.Errorf("source: tree-sitter returned nil tree")
	}
	defer tree.Close()

	out := &Outline{
		Language:  lang,
		LineCount: countLines(src),
	}

	kinds := declKinds[lang]
	cursor := tree.RootNode().Walk()
	defer cursor.Close()
	collectDecls(cursor, src, kinds, &out.Decls)

	return out, nil
}

// collectDecls walks the syntax tree depth-first and appends a Decl for
// every node whose kind appears in the kinds table.
func collectDecls(cursor *tree_sitter.TreeCursor, src []byte, kinds map[string]DeclKind, decls *[]Decl) {
	node := cursor.Node()

	if kind, ok := kinds[node.Kind()]; ok {
		if d := declFromNode(node, src, kind); d != nil {
			*decls = append(*decls, *d)
		}
	}

	if cursor.GotoFirstChild() {
		collectDecls(cursor, src, kinds, decls)
		for cursor.GotoNextSibling() {
			collectDecls(cursor, src, kinds, decls)
		}
		cursor.GotoParent()
	}
}

// declFromNode builds a Decl from a declaration node, or nil when the node
// has no name field (e.g. anonymous functions).
func declFromNode(node *tree_sitter.Node, src []byte, kind DeclKind) *Decl {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}
	return &Decl{
		Name:      nameNode.Utf8Text(src),
		Kind:      kind,
		StartLine: int(node.StartPosition().Row) + 1,
		EndLine:   int(node.EndPosition().Row) + 1,
	}
}

// countLines counts source lines: newline count plus one for a non-empty
// final line.
func countLines(src []byte) int {
	if len(src) == 0 {
		return 0
	}
	return bytes.Count(src, []byte{'\n'}) + 1
}
