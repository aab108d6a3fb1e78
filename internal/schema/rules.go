package schema

import (
	_ "embed"
	"encoding/xml"
	"fmt"
	"sync"
)

// The schema is fixed for the life of the process; see doc.go.
//
//go:embed fmi2ModelDescription.xsd
var schemaXSD []byte

// attrRule is the compiled constraint for one declared attribute.
type attrRule struct {
	xsdType  string // xs:double, xs:int, causalityType, ...
	required bool
	fixed    string // non-empty when the XSD pins the value
}

// rules is the constraint table compiled from the embedded XSD. Immutable
// after load, safe for concurrent read-only use.
type rules struct {
	rootName      string
	rootAttrs     map[string]attrRule
	varAttrs      map[string]attrRule
	rootChildren  map[string]bool            // admitted children of the root
	valueChildren map[string]map[string]attrRule // Real/Integer/... -> attrs
	enums         map[string]map[string]bool // simpleType name -> values
}

var (
	loadOnce    sync.Once
	loadedRules *rules
	loadErr     error
)

// load compiles the embedded schema exactly once per process. The schema
// ships with the binary, so a load failure is a programming error surfaced
// on first validation rather than a panic at import time.
func load() (*rules, error) {
	loadOnce.Do(func() {
		loadedRules, loadErr = compile(schemaXSD)
	})
	return loadedRules, loadErr
}

// Minimal mirror of the XSD structure; local names only, the xs namespace
// is implied by the document.
type xsdSchema struct {
	SimpleTypes []xsdSimpleType `xml:"simpleType"`
	Elements    []xsdElement    `xml:"element"`
}

type xsdSimpleType struct {
	Name        string `xml:"name,attr"`
	Restriction struct {
		Base         string `xml:"base,attr"`
		Enumerations []struct {
			Value string `xml:"value,attr"`
		} `xml:"enumeration"`
	} `xml:"restriction"`
}

type xsdElement struct {
	Name        string          `xml:"name,attr"`
	Type        string          `xml:"type,attr"`
	MinOccurs   string          `xml:"minOccurs,attr"`
	ComplexType *xsdComplexType `xml:"complexType"`
}

type xsdComplexType struct {
	Sequence   []xsdElement   `xml:"sequence>element"`
	Choice     []xsdElement   `xml:"sequence>choice>element"`
	Attributes []xsdAttribute `xml:"attribute"`
}

type xsdAttribute struct {
	Name  string `xml:"name,attr"`
	Type  string `xml:"type,attr"`
	Use   string `xml:"use,attr"`
	Fixed string `xml:"fixed,attr"`
}

func compile(data []byte) (*rules, error) {
	var s xsdSchema
	if err := xml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing bundled schema: %w", err)
	}
	if len(s.Elements) == 0 || s.Elements[0].ComplexType == nil {
		return nil, fmt.Errorf("bundled schema declares no root element")
	}

	r := &rules{
		rootAttrs:     make(map[string]attrRule),
		varAttrs:      make(map[string]attrRule),
		rootChildren:  make(map[string]bool),
		valueChildren: make(map[string]map[string]attrRule),
		enums:         make(map[string]map[string]bool),
	}

	for _, st := range s.SimpleTypes {
		values := make(map[string]bool, len(st.Restriction.Enumerations))
		for _, e := range st.Restriction.Enumerations {
			values[e.Value] = true
		}
		r.enums[st.Name] = values
	}

	root := s.Elements[0]
	r.rootName = root.Name
	for _, a := range root.ComplexType.Attributes {
		r.rootAttrs[a.Name] = compileAttr(a)
	}

	var modelVariables *xsdElement
	for i := range root.ComplexType.Sequence {
		child := &root.ComplexType.Sequence[i]
		r.rootChildren[child.Name] = true
		if child.Name == "ModelVariables" {
			modelVariables = child
		}
	}
	if modelVariables == nil || modelVariables.ComplexType == nil {
		return nil, fmt.Errorf("bundled schema lacks a ModelVariables declaration")
	}

	var scalarVariable *xsdElement
	for i := range modelVariables.ComplexType.Sequence {
		if modelVariables.ComplexType.Sequence[i].Name == "ScalarVariable" {
			scalarVariable = &modelVariables.ComplexType.Sequence[i]
		}
	}
	if scalarVariable == nil || scalarVariable.ComplexType == nil {
		return nil, fmt.Errorf("bundled schema lacks a ScalarVariable declaration")
	}

	for _, a := range scalarVariable.ComplexType.Attributes {
		r.varAttrs[a.Name] = compileAttr(a)
	}
	for _, child := range scalarVariable.ComplexType.Choice {
		if child.ComplexType == nil {
			continue
		}
		attrs := make(map[string]attrRule, len(child.ComplexType.Attributes))
		for _, a := range child.ComplexType.Attributes {
			attrs[a.Name] = compileAttr(a)
		}
		r.valueChildren[child.Name] = attrs
	}
	if len(r.valueChildren) == 0 {
		return nil, fmt.Errorf("bundled schema declares no value children for ScalarVariable")
	}

	return r, nil
}

func compileAttr(a xsdAttribute) attrRule {
	return attrRule{
		xsdType:  a.Type,
		required: a.Use == "required",
		fixed:    a.Fixed,
	}
}
