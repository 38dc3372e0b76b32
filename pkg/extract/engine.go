// Package extract converts annotated React component declarations into
// serializable type descriptions of their props.
package extract

import (
	"fmt"
	"log/slog"

	"github.com/gnana997/reacttypes/pkg/kinds"
	"github.com/gnana997/reacttypes/pkg/loader"
	"github.com/gnana997/reacttypes/pkg/syntax"
)

// converter turns one syntax node into a Kind.
type converter func(e *Engine, n *syntax.Node, ctx Context) (kinds.Kind, error)

// Config configures an Engine.
type Config struct {
	// Loader is required.
	Loader *loader.Loader
	Logger *slog.Logger
}

// Engine runs extractions. The converter table is built once and never
// modified, so one Engine may serve concurrent extractions.
type Engine struct {
	loader     *loader.Loader
	logger     *slog.Logger
	converters map[string]converter
}

// NewEngine creates an Engine.
func NewEngine(cfg Config) (*Engine, error) {
	if cfg.Loader == nil {
		return nil, fmt.Errorf("extract: loader is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		loader:     cfg.Loader,
		logger:     logger,
		converters: converterTable(),
	}, nil
}

// Loader returns the loader the engine reads modules through.
func (e *Engine) Loader() *loader.Loader { return e.loader }

func converterTable() map[string]converter {
	return map[string]converter{
		// identifiers
		"identifier":                            (*Engine).convertIdentifier,
		"property_identifier":                   (*Engine).convertIdentifier,
		"private_property_identifier":           (*Engine).convertIdentifier,
		"shorthand_property_identifier":         (*Engine).convertShorthandProperty,
		"shorthand_property_identifier_pattern": (*Engine).convertIdentifier,
		"type_identifier":                       (*Engine).convertTypeIdentifier,
		"nested_type_identifier":                (*Engine).convertNestedTypeIdentifier,
		"this":                                  (*Engine).convertThis,

		// type annotations
		"type_annotation":            (*Engine).convertTypeAnnotation,
		"predefined_type":            (*Engine).convertPredefinedType,
		"literal_type":               (*Engine).convertLiteralType,
		"union_type":                 (*Engine).convertUnionType,
		"intersection_type":          (*Engine).convertIntersectionType,
		"array_type":                 (*Engine).convertArrayType,
		"tuple_type":                 (*Engine).convertTupleType,
		"optional_type":              (*Engine).convertInnerType,
		"rest_type":                  (*Engine).convertInnerType,
		"parenthesized_type":         (*Engine).convertInnerType,
		"readonly_type":              (*Engine).convertInnerType,
		"function_type":              (*Engine).convertFunctionType,
		"generic_type":               (*Engine).convertGenericType,
		"type_arguments":             (*Engine).convertTypeArguments,
		"type_query":                 (*Engine).convertTypeQuery,
		"this_type":                  (*Engine).convertThisType,
		"existential_type":           (*Engine).convertExistentialType,
		"flow_maybe_type":            (*Engine).convertMaybeType,
		"object_type":                (*Engine).convertObjectType,
		"interface_body":             (*Engine).convertObjectType,
		"property_signature":         (*Engine).convertPropertySignature,
		"method_signature":           (*Engine).convertMethodSignature,
		"call_signature":             (*Engine).convertCallSignature,
		"construct_signature":        (*Engine).convertConstructSignature,
		"index_signature":            (*Engine).convertIndexSignature,
		"type_alias_declaration":     (*Engine).convertTypeAlias,
		"interface_declaration":      (*Engine).convertInterface,
		"enum_declaration":           (*Engine).convertEnum,
		"class_declaration":          (*Engine).convertClass,
		"abstract_class_declaration": (*Engine).convertClass,
		"class":                      (*Engine).convertClass,

		// modules
		"import_statement": (*Engine).convertImportStatement,
		"import_clause":    (*Engine).convertDefaultImport,
		"import_specifier": (*Engine).convertImportSpecifier,
		"namespace_import": (*Engine).convertNamespaceImport,
		"export_statement": (*Engine).convertExportStatement,

		// values
		"string":                         (*Engine).convertString,
		"template_string":                (*Engine).convertTemplateString,
		"number":                         (*Engine).convertNumber,
		"true":                           (*Engine).convertBoolean,
		"false":                          (*Engine).convertBoolean,
		"null":                           (*Engine).convertNull,
		"undefined":                      (*Engine).convertUndefined,
		"object":                         (*Engine).convertObjectValue,
		"pair":                           (*Engine).convertPair,
		"spread_element":                 (*Engine).convertSpread,
		"method_definition":              (*Engine).convertMethodDefinition,
		"array":                          (*Engine).convertArray,
		"call_expression":                (*Engine).convertCall,
		"new_expression":                 (*Engine).convertNew,
		"member_expression":              (*Engine).convertMember,
		"binary_expression":              (*Engine).convertBinary,
		"unary_expression":               (*Engine).convertUnary,
		"parenthesized_expression":       (*Engine).convertInnerValue,
		"as_expression":                  (*Engine).convertInnerValue,
		"satisfies_expression":           (*Engine).convertInnerValue,
		"non_null_expression":            (*Engine).convertInnerValue,
		"arrow_function":                 (*Engine).convertFunction,
		"function_expression":            (*Engine).convertFunction,
		"function":                       (*Engine).convertFunction,
		"generator_function":             (*Engine).convertFunction,
		"function_declaration":           (*Engine).convertFunction,
		"generator_function_declaration": (*Engine).convertFunction,
		"lexical_declaration":            (*Engine).convertVariable,
		"variable_declaration":           (*Engine).convertVariable,
		"variable_declarator":            (*Engine).convertDeclarator,
		"required_parameter":             (*Engine).convertParameter,
		"optional_parameter":             (*Engine).convertParameter,
		"object_pattern":                 (*Engine).convertObjectPattern,
		"pair_pattern":                   (*Engine).convertPairPattern,
		"assignment_pattern":             (*Engine).convertAssignmentPattern,
		"object_assignment_pattern":      (*Engine).convertAssignmentPattern,
		"rest_pattern":                   (*Engine).convertRest,

		// JSX
		"jsx_element":              (*Engine).convertJSXElement,
		"jsx_self_closing_element": (*Engine).convertJSXElement,
		"jsx_opening_element":      (*Engine).convertJSXOpening,
		"jsx_attribute":            (*Engine).convertJSXAttribute,
		"jsx_expression":           (*Engine).convertJSXExpression,
	}
}

// convert dispatches n to its converter and attaches n's documentation
// comments to the result. A nil node converts to any.
func (e *Engine) convert(n *syntax.Node, ctx Context) (kinds.Kind, error) {
	if n == nil {
		return &kinds.Any{}, nil
	}
	conv, ok := e.converters[n.Kind()]
	if !ok {
		return nil, &MissingConverterError{Kind: n.Kind(), Position: n.Position()}
	}
	k, err := conv(e, n, ctx)
	if err != nil {
		return nil, err
	}
	attachComments(n, k)
	return k, nil
}

// convertAll converts nodes in order.
func (e *Engine) convertAll(nodes []*syntax.Node, ctx Context) ([]kinds.Kind, error) {
	out := make([]kinds.Kind, 0, len(nodes))
	for _, n := range nodes {
		k, err := e.convert(n, ctx)
		if err != nil {
			return nil, err
		}
		out = append(out, k)
	}
	return out, nil
}

// convertOptional converts n, or returns nil when n is absent.
func (e *Engine) convertOptional(n *syntax.Node, ctx Context) (kinds.Kind, error) {
	if n == nil {
		return nil, nil
	}
	return e.convert(n, ctx)
}

func attachComments(n *syntax.Node, k kinds.Kind) {
	m := k.Annotations()
	m.LeadingComments = appendDocComments(m.LeadingComments, n.LeadingComments())
	m.TrailingComments = appendDocComments(m.TrailingComments, n.TrailingComments())
	m.InnerComments = appendDocComments(m.InnerComments, n.InnerComments())
}

func appendDocComments(dst []kinds.Comment, src []syntax.Comment) []kinds.Comment {
	for _, c := range src {
		if !c.IsDoc() {
			continue
		}
		dst = append(dst, kinds.Comment{
			Type:  kinds.CommentBlock,
			Value: syntax.NormalizeComment(c),
			Raw:   c.Text,
		})
	}
	return dst
}
