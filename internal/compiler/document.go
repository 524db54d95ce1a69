package compiler

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/critnf/internal/criteria"
	"github.com/roach88/critnf/internal/ir"
)

// Document is a compiled criteria document.
type Document struct {
	Name     string
	Columns  map[string]ir.Type // Declared column types, keyed by lower-case name
	Criteria criteria.Criteria
}

// CompileDocument parses a CUE value into a Document.
// Uses CUE SDK's Go API directly (not CLI subprocess).
//
// The value must have a criteria field; name and columns are optional.
// opts are passed to every criteria constructor, so correlation ids come
// from the generator given with criteria.WithCorrelationIDs.
func CompileDocument(v cue.Value, opts ...criteria.Option) (*Document, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	doc := &Document{Columns: map[string]ir.Type{}}

	if nameVal := v.LookupPath(cue.ParsePath("name")); nameVal.Exists() {
		name, err := nameVal.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		doc.Name = name
	}

	columns, err := parseColumns(v)
	if err != nil {
		return nil, err
	}
	doc.Columns = columns

	critVal := v.LookupPath(cue.ParsePath("criteria"))
	if !critVal.Exists() {
		return nil, &CompileError{
			Field:   "criteria",
			Message: "criteria is required",
			Pos:     v.Pos(),
		}
	}

	c := &nodeCompiler{columns: columns, opts: opts}
	doc.Criteria, err = c.compileNode(critVal, "criteria")
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// CompileString compiles CUE source text. filename is used only in error
// positions.
func CompileString(src, filename string, opts ...criteria.Option) (*Document, error) {
	ctx := cuecontext.New()
	v := ctx.CompileString(src, cue.Filename(filename))
	return CompileDocument(v, opts...)
}

// CompileCriteria parses a single predicate node. Bare-string columns get
// their type from columns, or TypeUnknown when absent.
func CompileCriteria(v cue.Value, columns map[string]ir.Type, opts ...criteria.Option) (criteria.Criteria, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	if columns == nil {
		columns = map[string]ir.Type{}
	}
	c := &nodeCompiler{columns: columns, opts: opts}
	return c.compileNode(v, "criteria")
}

// parseColumns reads the optional column type table.
func parseColumns(v cue.Value) (map[string]ir.Type, error) {
	columns := map[string]ir.Type{}

	colVal := v.LookupPath(cue.ParsePath("columns"))
	if !colVal.Exists() {
		return columns, nil // columns is optional
	}

	iter, err := colVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}
	for iter.Next() {
		name := iter.Label()
		typeName, err := iter.Value().String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		typ, err := ir.ParseType(typeName)
		if err != nil || typ == ir.TypeUnknown || typ == ir.TypeNull {
			return nil, &CompileError{
				Field:   "columns." + name,
				Message: fmt.Sprintf("invalid column type %q (must be integer, string, boolean, array, or object)", typeName),
				Pos:     iter.Value().Pos(),
			}
		}
		columns[lower(name)] = typ
	}
	return columns, nil
}

// CompileError is a compilation failure with the CUE source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	// CUE errors may contain multiple errors
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	// Return first error with position info
	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
