package schema

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/vvka-141/fmured/pkg/fmured"
)

// Validator checks serialized model descriptions against the bundled
// FMI 2.0 schema. It is stateless; the compiled schema is a process-wide
// memoized constant, so constructing validators is free and every
// instance shares one schema load.
type Validator struct{}

// NewValidator returns a validator backed by the shared compiled schema.
func NewValidator() Validator {
	return Validator{}
}

// Validate checks one serialized document. A well-formed but invalid
// document yields Valid=false with line-positioned diagnostics and a nil
// error; the error return is reserved for input that is not well-formed
// XML (ErrMalformedXML) or a broken bundled schema.
func (Validator) Validate(data []byte) (fmured.ValidationResult, error) {
	r, err := load()
	if err != nil {
		return fmured.ValidationResult{}, err
	}

	result := fmured.ValidationResult{Valid: true}
	v := &docValidator{rules: r, data: data, result: &result}
	if err := v.run(); err != nil {
		return fmured.ValidationResult{}, err
	}
	return result, nil
}

// docValidator walks one document token stream. line numbers are derived
// from byte offsets as tokens are consumed.
type docValidator struct {
	rules  *rules
	data   []byte
	result *fmured.ValidationResult

	lineOffset int64 // bytes already counted
	line       int   // 1-based line of lineOffset
}

func (v *docValidator) run() error {
	dec := xml.NewDecoder(bytes.NewReader(v.data))
	v.line = 1

	var (
		path      []string // local names of open elements
		rootSeen  bool
		seenNames = make(map[string]int) // variable name -> first line
	)

	for {
		prev := dec.InputOffset()
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("%w: %v", fmured.ErrMalformedXML, err)
		}
		line := v.lineAt(prev)

		start, ok := tok.(xml.StartElement)
		if !ok {
			if _, end := tok.(xml.EndElement); end {
				path = path[:len(path)-1]
			}
			continue
		}

		switch {
		case !rootSeen:
			rootSeen = true
			v.checkRoot(start, line)
		case len(path) == 1:
			if !v.rules.rootChildren[start.Name.Local] {
				v.result.AddError(line, "unexpected element <%s> under <%s>", start.Name.Local, v.rules.rootName)
			}
		case len(path) == 2 && path[1] == "ModelVariables":
			if start.Name.Local == "ScalarVariable" {
				v.checkVariable(dec, start, line, seenNames)
			} else {
				v.result.AddError(line, "unexpected element <%s> under <ModelVariables>", start.Name.Local)
				_ = dec.Skip()
			}
			continue // the element was fully consumed
		}
		path = append(path, start.Name.Local)
	}

	if !rootSeen {
		v.result.AddError(0, "document has no root element")
	}
	return nil
}

// checkRoot validates the root element name and its attribute set.
func (v *docValidator) checkRoot(start xml.StartElement, line int) {
	if start.Name.Local != v.rules.rootName {
		v.result.AddError(line, "root element is <%s>, expected <%s>", start.Name.Local, v.rules.rootName)
		return
	}
	v.checkAttrs(start, line, fmt.Sprintf("<%s>", v.rules.rootName), v.rules.rootAttrs)
}

// checkVariable validates one ScalarVariable element and consumes it.
func (v *docValidator) checkVariable(dec *xml.Decoder, start xml.StartElement, line int, seenNames map[string]int) {
	name := attrByName(start, "name")
	label := "<ScalarVariable>"
	if name != "" {
		label = fmt.Sprintf("ScalarVariable %q", name)
	}

	v.checkAttrs(start, line, label, v.rules.varAttrs)

	if name != "" {
		if firstLine, dup := seenNames[name]; dup {
			v.result.AddError(line, "%s: duplicate variable name (first declared at line %d)", label, firstLine)
		} else {
			seenNames[name] = line
		}
	}

	// Children: exactly one value child from the schema's choice, plus
	// optionally Annotations.
	var valueChildren int
	for {
		prev := dec.InputOffset()
		tok, err := dec.Token()
		if err != nil {
			// Well-formedness errors were ruled out by the caller's
			// decode pass reaching this element; treat as end.
			return
		}
		childLine := v.lineAt(prev)

		switch t := tok.(type) {
		case xml.StartElement:
			if attrs, known := v.rules.valueChildren[t.Name.Local]; known {
				valueChildren++
				if valueChildren > 1 {
					v.result.AddError(childLine, "%s: more than one value child (<%s>)", label, t.Name.Local)
				}
				v.checkAttrs(t, childLine, fmt.Sprintf("%s <%s>", label, t.Name.Local), attrs)
			} else if t.Name.Local != "Annotations" {
				v.result.AddError(childLine, "%s: unexpected child element <%s>", label, t.Name.Local)
			}
			_ = dec.Skip()
		case xml.EndElement:
			if valueChildren == 0 {
				v.result.AddError(line, "%s: missing value child (Real, Integer, Boolean, String or Enumeration)", label)
			}
			return
		}
	}
}

// checkAttrs validates one element's attributes against the compiled
// declarations: unknown attributes, missing required ones, fixed values
// and lexical validity per XSD type.
func (v *docValidator) checkAttrs(start xml.StartElement, line int, label string, decls map[string]attrRule) {
	present := make(map[string]bool, len(start.Attr))
	for _, a := range start.Attr {
		if a.Name.Space == "xmlns" || a.Name.Local == "xmlns" {
			continue
		}
		rule, known := decls[a.Name.Local]
		if !known {
			v.result.AddError(line, "%s: unexpected attribute %q", label, a.Name.Local)
			continue
		}
		present[a.Name.Local] = true
		if rule.fixed != "" && a.Value != rule.fixed {
			v.result.AddError(line, "%s: attribute %q must be %q, got %q", label, a.Name.Local, rule.fixed, a.Value)
			continue
		}
		if msg := v.checkLexical(rule.xsdType, a.Value); msg != "" {
			v.result.AddError(line, "%s: attribute %q %s", label, a.Name.Local, msg)
		}
	}
	for name, rule := range decls {
		if rule.required && !present[name] {
			v.result.AddError(line, "%s: missing required attribute %q", label, name)
		}
	}
}

// checkLexical validates a value against an XSD type name, returning an
// empty string when valid. Enumeration types resolve through the schema's
// simple types.
func (v *docValidator) checkLexical(xsdType, value string) string {
	switch xsdType {
	case "", "xs:string", "xs:normalizedString", "xs:dateTime":
		return ""
	case "xs:double":
		if value == "INF" || value == "-INF" || value == "NaN" {
			return ""
		}
		if _, err := strconv.ParseFloat(value, 64); err != nil {
			return fmt.Sprintf("is not a valid double: %q", value)
		}
		return ""
	case "xs:int":
		if _, err := strconv.ParseInt(value, 10, 32); err != nil {
			return fmt.Sprintf("is not a valid int: %q", value)
		}
		return ""
	case "xs:unsignedInt":
		if _, err := strconv.ParseUint(value, 10, 32); err != nil {
			return fmt.Sprintf("is not a valid unsignedInt: %q", value)
		}
		return ""
	case "xs:boolean":
		switch value {
		case "true", "false", "1", "0":
			return ""
		}
		return fmt.Sprintf("is not a valid boolean: %q", value)
	}

	if values, ok := v.rules.enums[xsdType]; ok {
		if !values[value] {
			return fmt.Sprintf("has value %q, expected one of %s", value, enumList(values))
		}
		return ""
	}
	return ""
}

func attrByName(start xml.StartElement, name string) string {
	for _, a := range start.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

// lineAt returns the 1-based line of a byte offset. Offsets are consumed
// in increasing order, so counting is incremental.
func (v *docValidator) lineAt(offset int64) int {
	if offset > int64(len(v.data)) {
		offset = int64(len(v.data))
	}
	if offset > v.lineOffset {
		v.line += bytes.Count(v.data[v.lineOffset:offset], []byte{'\n'})
		v.lineOffset = offset
	}
	return v.line
}

func enumList(values map[string]bool) string {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	// Deterministic diagnostics.
	sort.Strings(names)
	return strings.Join(names, ", ")
}
