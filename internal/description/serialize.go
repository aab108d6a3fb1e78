package description

import (
	"bytes"
)

// splice is a pending byte-range replacement in the original document.
type splice struct {
	at          span
	replacement []byte
}

// XML serializes the current document state. When nothing was mutated the
// result is the original bytes, unchanged. Otherwise only the spans of
// mutated or deleted variables (and a refreshed guid attribute) are
// regenerated; everything else is spliced through verbatim, so repeated
// calls without intervening mutation are byte-identical.
func (d *Document) XML() []byte {
	splices := d.pendingSplices()
	if len(splices) == 0 {
		return append([]byte(nil), d.raw...)
	}

	var b bytes.Buffer
	b.Grow(len(d.raw))
	var pos int64
	for _, s := range splices {
		b.Write(d.raw[pos:s.at.start])
		b.Write(s.replacement)
		pos = s.at.end
	}
	b.Write(d.raw[pos:])
	return b.Bytes()
}

// pendingSplices collects replacements in document order. The guid splice
// sits inside the root start tag, which precedes every variable span, so
// appending in iteration order keeps the list sorted.
func (d *Document) pendingSplices() []splice {
	var splices []splice

	if d.guidValue != "" {
		splices = append(splices, d.guidSplice())
	}

	for _, e := range d.entries {
		switch {
		case e.deleted:
			at := e.elem
			if !e.lead.empty() {
				at.start = e.lead.start
			}
			splices = append(splices, splice{at: at})
		case e.v.Dirty():
			indent := d.leadIndent(e)
			var buf bytes.Buffer
			e.v.AppendXML(&buf, indent, childIndent(d.raw[e.elem.start:e.elem.end], indent))
			splices = append(splices, splice{at: e.elem, replacement: buf.Bytes()})
		}
	}
	return splices
}

// leadIndent extracts the indentation of a variable's start tag: the text
// after the last newline in its leading whitespace.
func (d *Document) leadIndent(e *entry) string {
	if e.lead.empty() {
		return ""
	}
	ws := d.raw[e.lead.start:e.lead.end]
	if i := bytes.LastIndexByte(ws, '\n'); i >= 0 {
		return string(ws[i+1:])
	}
	return string(ws)
}

// childIndent infers the indentation used inside the original element so a
// regenerated element keeps the file's style. Falls back to two spaces
// past the element's own indentation.
func childIndent(elem []byte, indent string) string {
	if i := bytes.IndexByte(elem, '\n'); i >= 0 {
		j := i + 1
		for j < len(elem) && (elem[j] == ' ' || elem[j] == '\t') {
			j++
		}
		if j > i+1 {
			return string(elem[i+1 : j])
		}
	}
	return indent + "  "
}

// guidSplice rewrites (or inserts) the guid attribute of the root start
// tag with the refreshed value.
func (d *Document) guidSplice() splice {
	tag := d.raw[d.rootTag.start:d.rootTag.end]
	if vs, ve, ok := attrValueSpan(tag, "guid"); ok {
		return splice{
			at:          span{d.rootTag.start + vs, d.rootTag.start + ve},
			replacement: []byte(d.guidValue),
		}
	}

	// No guid attribute: insert one before the closing bracket.
	insert := d.rootTag.end - 1
	if len(tag) >= 2 && tag[len(tag)-2] == '/' {
		insert--
	}
	return splice{
		at:          span{insert, insert},
		replacement: []byte(` guid="` + d.guidValue + `"`),
	}
}

// attrValueSpan scans a well-formed start tag for the named attribute and
// returns the byte range of its value (excluding quotes). A lexical scan
// that honors quoting, so attribute values containing the needle cannot
// produce a false match.
func attrValueSpan(tag []byte, name string) (start, end int64, ok bool) {
	i := 1 // past '<'
	// Skip the element name.
	for i < len(tag) && !isXMLSpace(tag[i]) && tag[i] != '>' && tag[i] != '/' {
		i++
	}
	for i < len(tag) {
		for i < len(tag) && isXMLSpace(tag[i]) {
			i++
		}
		if i >= len(tag) || tag[i] == '>' || tag[i] == '/' {
			return 0, 0, false
		}
		nameStart := i
		for i < len(tag) && !isXMLSpace(tag[i]) && tag[i] != '=' {
			i++
		}
		attrName := string(tag[nameStart:i])
		for i < len(tag) && isXMLSpace(tag[i]) {
			i++
		}
		if i >= len(tag) || tag[i] != '=' {
			return 0, 0, false
		}
		i++
		for i < len(tag) && isXMLSpace(tag[i]) {
			i++
		}
		if i >= len(tag) || (tag[i] != '"' && tag[i] != '\'') {
			return 0, 0, false
		}
		quote := tag[i]
		i++
		valStart := i
		for i < len(tag) && tag[i] != quote {
			i++
		}
		if i >= len(tag) {
			return 0, 0, false
		}
		if attrName == name {
			return int64(valStart), int64(i), true
		}
		i++ // closing quote
	}
	return 0, 0, false
}

func isXMLSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
