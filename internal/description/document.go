// Package description implements the parsed representation of an FMU's
// modelDescription.xml: an ordered sequence of ScalarVariables plus the
// verbatim bytes of everything else in the document.
//
// The document keeps the original serialized form and the byte span of
// every ScalarVariable element. Serialization splices regenerated bytes
// only for variables that were mutated or deleted; all other content is
// emitted exactly as it was read. Parsing and immediately serializing an
// unmutated document therefore yields byte-identical XML.
package description

import (
	"github.com/vvka-141/fmured/internal/model"
	"github.com/vvka-141/fmured/internal/schema"
	"github.com/vvka-141/fmured/pkg/fmured"
)

// span is a half-open byte range [start, end) into Document.raw.
type span struct {
	start int64
	end   int64
}

func (s span) empty() bool { return s.end <= s.start }

// entry tracks one ScalarVariable and where its element lives in the
// original bytes. lead covers the whitespace-only character data directly
// before the element, so deletions take the indentation with them.
type entry struct {
	v       *model.ScalarVariable
	lead    span
	elem    span
	deleted bool
}

// Document is the parsed model description. It is owned by exactly one
// archive adapter at a time and is not safe for concurrent mutation.
type Document struct {
	raw     []byte
	entries []*entry
	index   map[string]int // live variable name -> entries position

	// rootTag spans the root element's start tag, used for guid rewrites.
	rootTag span
	// guidValue, when non-empty, replaces the root guid attribute on
	// serialization.
	guidValue string
}

// Len returns the number of live (not deleted) variables.
func (d *Document) Len() int { return len(d.index) }

// Names returns the live variable names in declaration order.
func (d *Document) Names() []string {
	names := make([]string, 0, len(d.index))
	for _, e := range d.entries {
		if !e.deleted {
			names = append(names, e.v.Name())
		}
	}
	return names
}

// Variable returns a snapshot of the named variable.
// Fails with ErrVariableNotFound when absent.
func (d *Document) Variable(name string) (fmured.Variable, error) {
	e, err := d.lookup(name)
	if err != nil {
		return fmured.Variable{}, err
	}
	return e.v.Snapshot(), nil
}

// Query returns snapshots of all variables matching the query, in
// declaration order. An empty query matches everything.
func (d *Document) Query(q fmured.Query) []fmured.Variable {
	var out []fmured.Variable
	for _, e := range d.entries {
		if !e.deleted && e.v.Matches(q) {
			out = append(out, e.v.Snapshot())
		}
	}
	return out
}

// SetStart replaces the start value of the named variable after checking
// the value against the declared type. Fails with ErrVariableNotFound or
// ErrInvalidValue.
func (d *Document) SetStart(name string, value any) error {
	e, err := d.lookup(name)
	if err != nil {
		return err
	}
	return e.v.SetStart(value)
}

// Delete removes the named variable and its element from the document.
// A second delete of the same name fails with ErrVariableNotFound, not a
// silent no-op. Elements elsewhere in the document that reference the
// variable by valueReference are deliberately left alone.
func (d *Document) Delete(name string) error {
	e, err := d.lookup(name)
	if err != nil {
		return err
	}
	e.deleted = true
	delete(d.index, name)
	return nil
}

// Validate serializes the current state and runs the bundled FMI 2.0
// schema over it. Invalidity is a reportable result, never an error; the
// error return covers only a serialized form that is not well-formed,
// which the document invariants rule out.
func (d *Document) Validate() (fmured.ValidationResult, error) {
	return schema.NewValidator().Validate(d.XML())
}

func (d *Document) lookup(name string) (*entry, error) {
	i, ok := d.index[name]
	if !ok {
		return nil, &fmured.NotFoundError{Name: name}
	}
	return d.entries[i], nil
}
