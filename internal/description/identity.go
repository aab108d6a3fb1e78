package description

import (
	"bytes"

	"github.com/google/uuid"
)

// namespaceGUID is the fixed UUID namespace for deriving model description
// guids. Derived from a canonical string under the standard URL namespace,
// so the same document content always yields the same guid, independently
// verifiable by callers.
var namespaceGUID = uuid.NewSHA1(uuid.NameSpaceURL, []byte("fmured/model-description-guid/v1"))

// RefreshGUID recomputes the root guid attribute as a deterministic
// UUID v5 of the serialized document with the guid value itself blanked
// out. Calling it again without further mutation yields the same guid.
// Returns the new guid value.
func (d *Document) RefreshGUID() string {
	serialized := d.XML()

	canonical := serialized
	if tagStart, tagEnd, ok := rootTagSpan(serialized); ok {
		if vs, ve, found := attrValueSpan(serialized[tagStart:tagEnd], "guid"); found {
			canonical = make([]byte, 0, len(serialized))
			canonical = append(canonical, serialized[:tagStart+vs]...)
			canonical = append(canonical, serialized[tagStart+ve:]...)
		}
	}

	d.guidValue = uuid.NewSHA1(namespaceGUID, canonical).String()
	return d.guidValue
}

// GUID returns the current guid attribute value, accounting for a pending
// refresh. Empty when the root element declares none.
func (d *Document) GUID() string {
	if d.guidValue != "" {
		return d.guidValue
	}
	return d.rootAttr("guid")
}

// ModelName returns the root modelName attribute value.
func (d *Document) ModelName() string { return d.rootAttr("modelName") }

// FMIVersion returns the root fmiVersion attribute value.
func (d *Document) FMIVersion() string { return d.rootAttr("fmiVersion") }

func (d *Document) rootAttr(name string) string {
	tag := d.raw[d.rootTag.start:d.rootTag.end]
	if vs, ve, ok := attrValueSpan(tag, name); ok {
		return string(tag[vs:ve])
	}
	return ""
}

// rootTagSpan locates the start tag of the root element in serialized
// bytes, skipping the XML declaration, comments and doctype lexically.
func rootTagSpan(data []byte) (start, end int64, ok bool) {
	i := 0
	for i < len(data) {
		j := bytes.IndexByte(data[i:], '<')
		if j < 0 {
			return 0, 0, false
		}
		i += j
		switch {
		case bytes.HasPrefix(data[i:], []byte("<?")):
			k := bytes.Index(data[i:], []byte("?>"))
			if k < 0 {
				return 0, 0, false
			}
			i += k + 2
		case bytes.HasPrefix(data[i:], []byte("<!--")):
			k := bytes.Index(data[i:], []byte("-->"))
			if k < 0 {
				return 0, 0, false
			}
			i += k + 3
		case bytes.HasPrefix(data[i:], []byte("<!")):
			k := bytes.IndexByte(data[i:], '>')
			if k < 0 {
				return 0, 0, false
			}
			i += k + 1
		default:
			// Root start tag: runs to the first '>' outside quotes.
			for k := i; k < len(data); k++ {
				switch data[k] {
				case '"', '\'':
					quote := data[k]
					k++
					for k < len(data) && data[k] != quote {
						k++
					}
				case '>':
					return int64(i), int64(k + 1), true
				}
			}
			return 0, 0, false
		}
	}
	return 0, 0, false
}
