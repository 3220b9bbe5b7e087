// Package parser turns Lua source text into the ast node contract the
// verifier consumes. Parsing proper is delegated to tree-sitter with the
// Lua grammar; this package only adapts the concrete syntax tree into the
// closed node set, failing loudly on anything outside it.
package parser

import (
	tree_sitter_lua "github.com/tree-sitter-grammars/tree-sitter-lua/bindings/go"
	sitter "github.com/tree-sitter/go-tree-sitter"

	"localint/internal/ast"
	"localint/internal/errors"
)

type Frontend struct {
	lang *sitter.Language
}

func NewFrontend() *Frontend {
	return &Frontend{lang: sitter.NewLanguage(tree_sitter_lua.Language())}
}

// ParseFile parses one Lua file into a chunk. The returned tree is fully
// detached from tree-sitter memory, so callers can hold on to it after the
// parser resources are released.
func (f *Frontend) ParseFile(path string, content []byte) (*ast.Chunk, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	if err := parser.SetLanguage(f.lang); err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "set language")
	}

	tree := parser.Parse(content, nil)
	if tree == nil {
		return nil, errors.Newf(errors.CodeParseError, "parse failed for %s", path)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, errors.Newf(errors.CodeParseError, "syntax error in %s", path)
	}

	c := &converter{source: content, path: path}
	return c.chunk(root)
}
