// Package model holds the typed in-memory representation of one
// <ScalarVariable> element of an FMI 2.0 model description.
//
// A ScalarVariable preserves every attribute it reads, in source order,
// including attributes it does not semantically interpret (unit, min, max,
// declaredType, ...). Unmodeled child elements such as <Annotations> are
// carried as verbatim XML fragments. This pass-through is what allows the
// document layer to round-trip content the model does not own.
package model

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"

	"github.com/vvka-141/fmured/pkg/fmured"
)

// Attr is one XML attribute with its source order preserved by position
// in the enclosing slice.
type Attr struct {
	Name  string
	Value string
}

// findAttr returns the index of the named attribute, or -1.
func findAttr(attrs []Attr, name string) int {
	for i, a := range attrs {
		if a.Name == name {
			return i
		}
	}
	return -1
}

// ScalarVariable is one declared model variable and its single typed value
// child. Instances are created by the description parser or by NewVariable;
// mutation goes through SetStart so the owning document can track dirtiness.
type ScalarVariable struct {
	attrs     []Attr // ScalarVariable element attributes, source order
	valueType fmured.ValueType
	typeAttrs []Attr   // value child attributes, source order
	extraXML  []string // verbatim fragments of unmodeled children (Annotations, ...)
	dirty     bool

	// decoded semantic fields, derived from attrs at construction
	name           string
	valueReference uint32
	causality      fmured.Causality
	variability    fmured.Variability
	initial        fmured.Initial
}

// New constructs a ScalarVariable from a parsed element: its attributes,
// the name of its typed value child, that child's attributes, and the raw
// XML of any further children. Fails with ErrParse when name or
// valueReference is missing or unparseable, the value child is
// unrecognized, or an enum attribute carries an unknown value. A declared
// start value that does not parse as the declared type fails with
// ErrInvalidValue.
func New(attrs []Attr, valueChild string, typeAttrs []Attr, extraXML []string) (*ScalarVariable, error) {
	vt, err := fmured.ParseValueType(valueChild)
	if err != nil {
		return nil, err
	}

	v := &ScalarVariable{
		attrs:     attrs,
		valueType: vt,
		typeAttrs: typeAttrs,
		extraXML:  extraXML,
	}

	i := findAttr(attrs, "name")
	if i < 0 || attrs[i].Value == "" {
		return nil, fmt.Errorf("%w: ScalarVariable without name attribute", fmured.ErrParse)
	}
	v.name = attrs[i].Value

	i = findAttr(attrs, "valueReference")
	if i < 0 {
		return nil, fmt.Errorf("%w: ScalarVariable %q without valueReference attribute", fmured.ErrParse, v.name)
	}
	vr, err := strconv.ParseUint(attrs[i].Value, 10, 32)
	if err != nil {
		return nil, fmt.Errorf("%w: ScalarVariable %q has non-integer valueReference %q",
			fmured.ErrParse, v.name, attrs[i].Value)
	}
	v.valueReference = uint32(vr)

	if i = findAttr(attrs, "causality"); i >= 0 {
		if v.causality, err = fmured.ParseCausality(attrs[i].Value); err != nil {
			return nil, fmt.Errorf("ScalarVariable %q: %w", v.name, err)
		}
	}
	if i = findAttr(attrs, "variability"); i >= 0 {
		if v.variability, err = fmured.ParseVariability(attrs[i].Value); err != nil {
			return nil, fmt.Errorf("ScalarVariable %q: %w", v.name, err)
		}
	}
	if i = findAttr(attrs, "initial"); i >= 0 {
		if v.initial, err = fmured.ParseInitial(attrs[i].Value); err != nil {
			return nil, fmt.Errorf("ScalarVariable %q: %w", v.name, err)
		}
	}

	// A declared start value must be lexically valid for the declared type.
	if i = findAttr(typeAttrs, "start"); i >= 0 {
		if _, err := ParseStart(vt, typeAttrs[i].Value); err != nil {
			return nil, &fmured.ValueError{Name: v.name, ValueType: vt, Value: typeAttrs[i].Value}
		}
	}

	return v, nil
}

// Name returns the unique variable name.
func (v *ScalarVariable) Name() string { return v.name }

// ValueReference returns the FMI handle of the variable.
func (v *ScalarVariable) ValueReference() uint32 { return v.valueReference }

// ValueType names the typed value child.
func (v *ScalarVariable) ValueType() fmured.ValueType { return v.valueType }

// Causality is empty when not declared in the source XML.
func (v *ScalarVariable) Causality() fmured.Causality { return v.causality }

// Variability is empty when not declared in the source XML.
func (v *ScalarVariable) Variability() fmured.Variability { return v.variability }

// Initial is empty when not declared in the source XML.
func (v *ScalarVariable) Initial() fmured.Initial { return v.initial }

// Description returns the description attribute, or "".
func (v *ScalarVariable) Description() string { return v.attr("description") }

// Unit returns the unit attribute of the value child, or "".
func (v *ScalarVariable) Unit() string { return v.typeAttr("unit") }

// HasStart reports whether the value child declares a start attribute.
func (v *ScalarVariable) HasStart() bool { return findAttr(v.typeAttrs, "start") >= 0 }

// Start returns the typed start value (float64, int32, bool or string per
// the declared type), or nil when none is declared. The stored lexical
// form was checked at construction, so parsing cannot fail here.
func (v *ScalarVariable) Start() any {
	i := findAttr(v.typeAttrs, "start")
	if i < 0 {
		return nil
	}
	val, _ := ParseStart(v.valueType, v.typeAttrs[i].Value)
	return val
}

// Dirty reports whether the variable was mutated since parsing.
func (v *ScalarVariable) Dirty() bool { return v.dirty }

// Equal compares variables by name, the document-wide identity.
func (v *ScalarVariable) Equal(other *ScalarVariable) bool {
	return other != nil && v.name == other.name
}

func (v *ScalarVariable) attr(name string) string {
	if i := findAttr(v.attrs, name); i >= 0 {
		return v.attrs[i].Value
	}
	return ""
}

func (v *ScalarVariable) typeAttr(name string) string {
	if i := findAttr(v.typeAttrs, name); i >= 0 {
		return v.typeAttrs[i].Value
	}
	return ""
}

// SetStart replaces the start value after type-checking it against the
// declared value type. Accepted inputs per type:
//
//	Real:                float64, float32, int, int32, int64, numeric string
//	Integer/Enumeration: int, int32, int64, integer string
//	Boolean:             bool, "true"/"false"/"1"/"0"
//	String:              string
//
// Anything else fails with a *fmured.ValueError (no silent truncation:
// floats are rejected for Integer variables). When the source XML declared
// no start attribute the attribute is appended.
func (v *ScalarVariable) SetStart(value any) error {
	text, err := FormatStart(v.valueType, value)
	if err != nil {
		return &fmured.ValueError{Name: v.name, ValueType: v.valueType, Value: fmt.Sprintf("%v", value)}
	}
	if i := findAttr(v.typeAttrs, "start"); i >= 0 {
		v.typeAttrs[i].Value = text
	} else {
		v.typeAttrs = append(v.typeAttrs, Attr{Name: "start", Value: text})
	}
	v.dirty = true
	return nil
}

// Snapshot converts the variable to its immutable public form.
func (v *ScalarVariable) Snapshot() fmured.Variable {
	return fmured.Variable{
		Name:           v.name,
		ValueReference: v.valueReference,
		Description:    v.Description(),
		Causality:      v.causality,
		Variability:    v.variability,
		Initial:        v.initial,
		ValueType:      v.valueType,
		Unit:           v.Unit(),
		Start:          v.Start(),
	}
}

// Matches reports whether the variable satisfies every set field of the
// query. Zero-valued query fields are ignored.
func (v *ScalarVariable) Matches(q fmured.Query) bool {
	if q.Name != "" && v.name != q.Name {
		return false
	}
	if q.NamePattern != "" {
		if ok, err := matchPattern(q.NamePattern, v.name); err != nil || !ok {
			return false
		}
	}
	if q.ValueReference != nil && v.valueReference != *q.ValueReference {
		return false
	}
	if q.Causality != "" && v.causality != q.Causality {
		return false
	}
	if q.Variability != "" && v.variability != q.Variability {
		return false
	}
	if q.Initial != "" && v.initial != q.Initial {
		return false
	}
	if q.ValueType != "" && v.valueType != q.ValueType {
		return false
	}
	if q.Unit != "" && v.Unit() != q.Unit {
		return false
	}
	return true
}

// AppendXML regenerates the element into b. indent is the indentation of
// the <ScalarVariable> start tag, childIndent of its children. Attribute
// order is the source order; unmodeled children are emitted verbatim.
// The output is deterministic for a given variable state.
func (v *ScalarVariable) AppendXML(b *bytes.Buffer, indent, childIndent string) {
	b.WriteString("<ScalarVariable")
	appendAttrs(b, v.attrs)
	b.WriteString(">\n")

	b.WriteString(childIndent)
	b.WriteString("<")
	b.WriteString(string(v.valueType))
	appendAttrs(b, v.typeAttrs)
	b.WriteString("/>")

	for _, raw := range v.extraXML {
		b.WriteString("\n")
		b.WriteString(childIndent)
		b.WriteString(raw)
	}

	b.WriteString("\n")
	b.WriteString(indent)
	b.WriteString("</ScalarVariable>")
}

// appendAttrs writes attributes in stored order with standard escaping.
func appendAttrs(b *bytes.Buffer, attrs []Attr) {
	for _, a := range attrs {
		b.WriteString(" ")
		b.WriteString(a.Name)
		b.WriteString(`="`)
		// xml.EscapeText also escapes quotes, which is what attribute
		// values need.
		_ = xml.EscapeText(b, []byte(a.Value))
		b.WriteString(`"`)
	}
}
