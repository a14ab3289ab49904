package extract

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_c "github.com/tree-sitter/tree-sitter-c/bindings/go"
	tree_sitter_cpp "github.com/tree-sitter/tree-sitter-cpp/bindings/go"
	tree_sitter_go "github.com/tree-sitter/tree-sitter-go/bindings/go"
	tree_sitter_java "github.com/tree-sitter/tree-sitter-java/bindings/go"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
	tree_sitter_ruby "github.com/tree-sitter/tree-sitter-ruby/bindings/go"
	tree_sitter_rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"github.com/standardbeagle/tldrs/internal/types"
)

// languageSpec describes how one grammar maps onto the closed symbol model:
// the query used to find top-level productions, and which node kinds count
// as "container" (class-like) ancestors for qualified-name construction.
type languageSpec struct {
	lang          types.Language
	grammar       func() *tree_sitter.Language
	query         string
	containerKind     map[string]bool   // node Kind() -> true if it qualifies child names
	containerNameField map[string]string // node Kind() -> field name holding its identifier, default "name"
	callKinds         map[string]bool   // node Kind() for call-site expressions
	callFnField       string            // field name on a call node holding the callee expression
}

// GrammarFor exposes a language's tree-sitter grammar constructor to callers
// outside this package (the Block Compressor reuses it for AST-aware
// segmentation rather than shipping its own copy of the grammar table).
func GrammarFor(lang types.Language) (func() *tree_sitter.Language, bool) {
	s, ok := specs[lang]
	if !ok {
		return nil, false
	}
	return s.grammar, true
}

// nameFieldFor returns the tree-sitter field name holding a container node's
// identifier, defaulting to "name".
func (s *languageSpec) nameFieldFor(kind string) string {
	if s.containerNameField != nil {
		if f, ok := s.containerNameField[kind]; ok {
			return f
		}
	}
	return "name"
}

var specs = map[types.Language]*languageSpec{
	types.LangGo: {
		lang:    types.LangGo,
		grammar: func() *tree_sitter.Language { return tree_sitter.NewLanguage(tree_sitter_go.Language()) },
		query: `
			(function_declaration name: (identifier) @function.name) @function
			(method_declaration name: (field_identifier) @method.name) @method
			(import_spec path: (interpreted_string_literal) @import.source) @import
		`,
		callKinds:   map[string]bool{"call_expression": true},
		callFnField: "function",
	},
	types.LangPython: {
		lang:    types.LangPython,
		grammar: func() *tree_sitter.Language { return tree_sitter.NewLanguage(tree_sitter_python.Language()) },
		query: `
			(function_definition name: (identifier) @function.name) @function
			(class_definition name: (identifier) @class.name) @class
			(import_statement) @import
			(import_from_statement) @import
		`,
		containerKind: map[string]bool{"class_definition": true},
		callKinds:     map[string]bool{"call": true},
		callFnField:   "function",
	},
	types.LangJavaScript: {
		lang:    types.LangJavaScript,
		grammar: func() *tree_sitter.Language { return tree_sitter.NewLanguage(tree_sitter_javascript.Language()) },
		query: `
			(function_declaration name: (identifier) @function.name) @function
			(method_definition name: (property_identifier) @method.name) @method
			(class_declaration name: (identifier) @class.name) @class
			(import_statement source: (string) @import.source) @import
		`,
		containerKind: map[string]bool{"class_declaration": true, "class": true},
		callKinds:     map[string]bool{"call_expression": true},
		callFnField:   "function",
	},
	types.LangTypeScript: {
		lang: types.LangTypeScript,
		grammar: func() *tree_sitter.Language {
			return tree_sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript())
		},
		query: `
			(function_declaration name: (identifier) @function.name) @function
			(method_definition name: (property_identifier) @method.name) @method
			(class_declaration name: (type_identifier) @class.name) @class
			(import_statement source: (string) @import.source) @import
		`,
		containerKind: map[string]bool{"class_declaration": true, "class": true},
		callKinds:     map[string]bool{"call_expression": true},
		callFnField:   "function",
	},
	types.LangRust: {
		lang:    types.LangRust,
		grammar: func() *tree_sitter.Language { return tree_sitter.NewLanguage(tree_sitter_rust.Language()) },
		query: `
			(function_item name: (identifier) @function.name) @function
			(impl_item type: (type_identifier) @class.name) @class
			(use_declaration) @import
		`,
		containerKind:       map[string]bool{"impl_item": true, "trait_item": true},
		containerNameField: map[string]string{"impl_item": "type"},
		callKinds:           map[string]bool{"call_expression": true},
		callFnField:         "function",
	},
	types.LangJava: {
		lang:    types.LangJava,
		grammar: func() *tree_sitter.Language { return tree_sitter.NewLanguage(tree_sitter_java.Language()) },
		query: `
			(method_declaration name: (identifier) @method.name) @method
			(class_declaration name: (identifier) @class.name) @class
			(interface_declaration name: (identifier) @class.name) @class
			(import_declaration) @import
		`,
		containerKind: map[string]bool{"class_declaration": true, "interface_declaration": true},
		callKinds:     map[string]bool{"method_invocation": true},
		callFnField:   "name",
	},
	types.LangC: {
		lang:    types.LangC,
		grammar: func() *tree_sitter.Language { return tree_sitter.NewLanguage(tree_sitter_c.Language()) },
		query: `
			(function_definition declarator: (function_declarator declarator: (identifier) @function.name)) @function
			(preproc_include) @import
		`,
		callKinds:   map[string]bool{"call_expression": true},
		callFnField: "function",
	},
	types.LangCpp: {
		lang:    types.LangCpp,
		grammar: func() *tree_sitter.Language { return tree_sitter.NewLanguage(tree_sitter_cpp.Language()) },
		query: `
			(function_definition declarator: (function_declarator declarator: (identifier) @function.name)) @function
			(function_definition declarator: (function_declarator declarator: (field_identifier) @method.name)) @method
			(class_specifier name: (type_identifier) @class.name) @class
			(struct_specifier name: (type_identifier) @class.name) @class
			(preproc_include) @import
		`,
		containerKind: map[string]bool{"class_specifier": true, "struct_specifier": true},
		callKinds:     map[string]bool{"call_expression": true},
		callFnField:   "function",
	},
	types.LangRuby: {
		lang:    types.LangRuby,
		grammar: func() *tree_sitter.Language { return tree_sitter.NewLanguage(tree_sitter_ruby.Language()) },
		query: `
			(method name: (identifier) @function.name) @function
			(singleton_method name: (identifier) @method.name) @method
			(class name: (constant) @class.name) @class
			(module name: (constant) @class.name) @class
		`,
		containerKind: map[string]bool{"class": true, "module": true},
		callKinds:     map[string]bool{"call": true, "method_call": true},
		callFnField:   "method",
	},
}
