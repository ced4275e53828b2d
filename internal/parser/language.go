package parser

import (
	"path/filepath"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// NewTypeScript creates a parser for .ts sources.
func NewTypeScript() *Parser {
	return &Parser{
		language: sitter.NewLanguage(typescript.LanguageTypescript()),
		lang:     "typescript",
	}
}

// NewTSX creates a parser for .tsx sources.
func NewTSX() *Parser {
	return &Parser{
		language: sitter.NewLanguage(typescript.LanguageTSX()),
		lang:     "tsx",
	}
}

// NewJavaScript creates a parser for .js sources. JavaScript shares the
// TypeScript tree shape for everything the engines look at.
func NewJavaScript() *Parser {
	return &Parser{
		language: sitter.NewLanguage(javascript.Language()),
		lang:     "javascript",
	}
}

// ForFile returns a parser for the file's extension, or false when the
// extension is not supported.
func ForFile(path string) (*Parser, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ts", ".mts", ".cts":
		return NewTypeScript(), true
	case ".tsx":
		return NewTSX(), true
	case ".js", ".jsx", ".mjs", ".cjs":
		return NewJavaScript(), true
	}
	return nil, false
}

// SupportedExtensions lists the file extensions ForFile accepts.
func SupportedExtensions() []string {
	return []string{".ts", ".mts", ".cts", ".tsx", ".js", ".jsx", ".mjs", ".cjs"}
}
