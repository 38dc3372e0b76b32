package extract

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gnana997/reacttypes/pkg/kinds"
)

// Sentinels for errors.Is. Every fatal extraction error matches one of them.
var (
	ErrMissingConverter      = errors.New("missing converter")
	ErrUnresolvedBinding     = errors.New("unresolved binding")
	ErrSpreadOfNonObject     = errors.New("spread of non-object")
	ErrMissingDefaultTarget  = errors.New("default value for unknown prop")
	ErrUnsupportedImportKind = errors.New("unsupported import kind")
	ErrDefaultProps          = errors.New("could not resolve default props")
	ErrCyclicExport          = errors.New("cyclic export")
)

// MissingConverterError reports a syntax construct with no conversion rule.
type MissingConverterError struct {
	Kind     string
	Position string
}

func (e *MissingConverterError) Error() string {
	return fmt.Sprintf("%s: no converter for %q", e.Position, e.Kind)
}

func (e *MissingConverterError) Is(target error) bool { return target == ErrMissingConverter }

// UnresolvedBindingError reports a value reference with no declaration in scope.
type UnresolvedBindingError struct {
	Name     string
	Position string
}

func (e *UnresolvedBindingError) Error() string {
	return fmt.Sprintf("%s: cannot resolve %q", e.Position, e.Name)
}

func (e *UnresolvedBindingError) Is(target error) bool { return target == ErrUnresolvedBinding }

// SpreadOfNonObjectError reports a spread whose argument is not an object.
type SpreadOfNonObjectError struct {
	Kind     kinds.Tag
	Position string
}

func (e *SpreadOfNonObjectError) Error() string {
	return fmt.Sprintf("%s: cannot spread a %s into an object", e.Position, e.Kind)
}

func (e *SpreadOfNonObjectError) Is(target error) bool { return target == ErrSpreadOfNonObject }

// MissingDefaultTargetError reports a default value for a prop the component
// does not declare.
type MissingDefaultTargetError struct {
	Prop      string
	Component string
}

func (e *MissingDefaultTargetError) Error() string {
	return fmt.Sprintf("%s: default value for %q does not match a declared prop", e.Component, e.Prop)
}

func (e *MissingDefaultTargetError) Is(target error) bool { return target == ErrMissingDefaultTarget }

// UnsupportedImportKindError reports an import form that cannot be followed.
type UnsupportedImportKindError struct {
	ImportKind string
	Specifier  string
	Position   string
}

func (e *UnsupportedImportKindError) Error() string {
	return fmt.Sprintf("%s: unsupported %q import from %q", e.Position, e.ImportKind, e.Specifier)
}

func (e *UnsupportedImportKindError) Is(target error) bool {
	return target == ErrUnsupportedImportKind
}

// DefaultPropsError reports a class defaultProps that is not an object.
type DefaultPropsError struct {
	Kind      kinds.Tag
	Component string
	Position  string
}

func (e *DefaultPropsError) Error() string {
	return fmt.Sprintf("%s: defaultProps of %s resolved to %s, not an object", e.Position, e.Component, e.Kind)
}

func (e *DefaultPropsError) Is(target error) bool { return target == ErrDefaultProps }

// CyclicExportError reports re-exports that lead back to a module and name
// already being searched.
type CyclicExportError struct {
	Name  string
	Chain []string
}

func (e *CyclicExportError) Error() string {
	return fmt.Sprintf("cyclic export of %q: %s", e.Name, strings.Join(e.Chain, " -> "))
}

func (e *CyclicExportError) Is(target error) bool { return target == ErrCyclicExport }
