package description

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"

	"github.com/vvka-141/fmured/internal/model"
	"github.com/vvka-141/fmured/pkg/fmured"
)

// Parse reads a complete modelDescription.xml. Non-well-formed input fails
// with ErrMalformedXML; well-formed input without ScalarVariable elements,
// or with duplicate variable names, fails with ErrParse. Duplicates are a
// hard error because every lookup in the document assumes name uniqueness.
func Parse(data []byte) (*Document, error) {
	doc := &Document{
		raw:   data,
		index: make(map[string]int),
	}

	dec := xml.NewDecoder(bytes.NewReader(data))
	var (
		path     []string // local names of open elements
		lastWS   span     // span of the preceding whitespace-only char data
		rootSeen bool
	)

	prev := dec.InputOffset()
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, wrapXMLError(err)
		}
		cur := dec.InputOffset()

		switch t := tok.(type) {
		case xml.StartElement:
			if !rootSeen {
				rootSeen = true
				doc.rootTag = span{prev, cur}
			}
			if t.Name.Local == "ScalarVariable" && insideModelVariables(path) {
				lead := span{prev, prev}
				if lastWS.end == prev {
					lead = lastWS
				}
				if err := doc.parseVariable(dec, data, t, prev, lead); err != nil {
					return nil, err
				}
				cur = dec.InputOffset()
			} else {
				path = append(path, t.Name.Local)
			}
		case xml.EndElement:
			path = path[:len(path)-1]
		}

		if cd, ok := tok.(xml.CharData); ok && len(bytes.TrimSpace(cd)) == 0 {
			lastWS = span{prev, cur}
		} else {
			lastWS = span{cur, cur}
		}
		prev = cur
	}

	if len(doc.entries) == 0 {
		return nil, fmt.Errorf("%w: no ScalarVariable elements found", fmured.ErrParse)
	}
	return doc, nil
}

// insideModelVariables reports whether the open-element path is exactly
// root/ModelVariables, the only place ScalarVariables are declared.
func insideModelVariables(path []string) bool {
	return len(path) == 2 && path[1] == "ModelVariables"
}

// parseVariable consumes one ScalarVariable element, through its end tag.
// startOff is the byte offset of the start tag.
func (d *Document) parseVariable(dec *xml.Decoder, data []byte, start xml.StartElement, startOff int64, lead span) error {
	attrs := make([]model.Attr, 0, len(start.Attr))
	for _, a := range start.Attr {
		attrs = append(attrs, model.Attr{Name: a.Name.Local, Value: a.Value})
	}

	var (
		valueChild string
		typeAttrs  []model.Attr
		extraXML   []string
	)

	childStart := dec.InputOffset()
	for {
		tok, err := dec.Token()
		if err != nil {
			return wrapXMLError(err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if _, typeErr := fmured.ParseValueType(t.Name.Local); typeErr == nil {
				if valueChild != "" {
					return fmt.Errorf("%w: ScalarVariable %q has more than one value child",
						fmured.ErrParse, attrValue(attrs, "name"))
				}
				valueChild = t.Name.Local
				typeAttrs = make([]model.Attr, 0, len(t.Attr))
				for _, a := range t.Attr {
					typeAttrs = append(typeAttrs, model.Attr{Name: a.Name.Local, Value: a.Value})
				}
				if err := dec.Skip(); err != nil {
					return wrapXMLError(err)
				}
			} else {
				// Unmodeled child (Annotations, ...): keep verbatim.
				if err := dec.Skip(); err != nil {
					return wrapXMLError(err)
				}
				extraXML = append(extraXML, string(data[childStart:dec.InputOffset()]))
			}

		case xml.EndElement:
			// The variable's own end tag: children were fully consumed.
			if valueChild == "" {
				return fmt.Errorf("%w: ScalarVariable %q has no recognized value child",
					fmured.ErrParse, attrValue(attrs, "name"))
			}
			v, err := model.New(attrs, valueChild, typeAttrs, extraXML)
			if err != nil {
				return err
			}
			if _, dup := d.index[v.Name()]; dup {
				return fmt.Errorf("%w: duplicate ScalarVariable name %q", fmured.ErrParse, v.Name())
			}
			d.index[v.Name()] = len(d.entries)
			d.entries = append(d.entries, &entry{
				v:    v,
				lead: lead,
				elem: span{startOff, dec.InputOffset()},
			})
			return nil
		}

		childStart = dec.InputOffset()
	}
}

func attrValue(attrs []model.Attr, name string) string {
	for _, a := range attrs {
		if a.Name == name {
			return a.Value
		}
	}
	return ""
}

// wrapXMLError maps xml package errors onto ErrMalformedXML, carrying the
// line number when the decoder provides one.
func wrapXMLError(err error) error {
	var syntaxErr *xml.SyntaxError
	if errors.As(err, &syntaxErr) {
		return fmt.Errorf("%w: line %d: %s", fmured.ErrMalformedXML, syntaxErr.Line, syntaxErr.Msg)
	}
	return fmt.Errorf("%w: %v", fmured.ErrMalformedXML, err)
}
