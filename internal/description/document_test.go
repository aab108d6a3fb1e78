package description

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/vvka-141/fmured/pkg/fmured"
)

// A document with deliberate texture: XML declaration, comment, sections
// the tool passes through, an annotation child and mixed start values.
const testDoc = `<?xml version="1.0" encoding="UTF-8"?>
<!-- exported by test tooling -->
<fmiModelDescription fmiVersion="2.0" modelName="plant" guid="{11111111-2222-3333-4444-555555555555}" generationTool="fmured-test">
  <ModelExchange modelIdentifier="plant"/>
  <UnitDefinitions>
    <Unit name="m/s"/>
  </UnitDefinitions>
  <ModelVariables>
    <ScalarVariable name="gain" valueReference="0" causality="parameter" variability="tunable">
      <Real unit="m/s" start="1.5"/>
    </ScalarVariable>
    <ScalarVariable name="debug_trace" valueReference="1" causality="parameter" variability="tunable">
      <Boolean start="false"/>
      <Annotations><Tool name="vendor"/></Annotations>
    </ScalarVariable>
    <ScalarVariable name="debug_out" valueReference="2" causality="output">
      <Real/>
    </ScalarVariable>
  </ModelVariables>
  <ModelStructure/>
</fmiModelDescription>
`

func parseTestDoc(t *testing.T) *Document {
	t.Helper()
	doc, err := Parse([]byte(testDoc))
	if err != nil {
		t.Fatalf("parsing fixture: %v", err)
	}
	return doc
}

func TestParse_RoundTripIsByteIdentical(t *testing.T) {
	doc := parseTestDoc(t)

	out := doc.XML()
	if !bytes.Equal(out, []byte(testDoc)) {
		t.Errorf("unmutated serialization must be byte-identical to the input:\n%s", out)
	}

	// Reading accessors must not disturb the round trip.
	_, _ = doc.Variable("gain")
	_ = doc.Query(fmured.Query{Causality: fmured.CausalityParameter})
	_ = doc.GUID()
	if !bytes.Equal(doc.XML(), []byte(testDoc)) {
		t.Error("read-only access changed the serialized form")
	}
}

func TestParse_Malformed(t *testing.T) {
	_, err := Parse([]byte("<fmiModelDescription><ModelVariables>"))
	if !errors.Is(err, fmured.ErrMalformedXML) {
		t.Errorf("expected ErrMalformedXML, got: %v", err)
	}
}

func TestParse_NoVariables(t *testing.T) {
	_, err := Parse([]byte(`<fmiModelDescription fmiVersion="2.0" modelName="m" guid="g"><ModelVariables/></fmiModelDescription>`))
	if !errors.Is(err, fmured.ErrParse) {
		t.Errorf("expected ErrParse, got: %v", err)
	}
}

func TestParse_DuplicateNames(t *testing.T) {
	_, err := Parse([]byte(`<fmiModelDescription fmiVersion="2.0" modelName="m" guid="g">
  <ModelVariables>
    <ScalarVariable name="x" valueReference="0"><Real start="1"/></ScalarVariable>
    <ScalarVariable name="x" valueReference="1"><Real start="2"/></ScalarVariable>
  </ModelVariables>
</fmiModelDescription>`))
	if !errors.Is(err, fmured.ErrParse) {
		t.Errorf("expected ErrParse for duplicate names, got: %v", err)
	}
	if err == nil || !strings.Contains(err.Error(), `"x"`) {
		t.Errorf("error should name the duplicate, got: %v", err)
	}
}

func TestDocument_Accessors(t *testing.T) {
	doc := parseTestDoc(t)

	if doc.Len() != 3 {
		t.Errorf("Len = %d, expected 3", doc.Len())
	}

	names := doc.Names()
	expected := []string{"gain", "debug_trace", "debug_out"}
	if len(names) != len(expected) {
		t.Fatalf("Names = %v", names)
	}
	for i, name := range expected {
		if names[i] != name {
			t.Errorf("Names[%d] = %q, expected %q (declaration order)", i, names[i], name)
		}
	}

	if doc.ModelName() != "plant" {
		t.Errorf("ModelName = %q", doc.ModelName())
	}
	if doc.FMIVersion() != "2.0" {
		t.Errorf("FMIVersion = %q", doc.FMIVersion())
	}
	if doc.GUID() != "{11111111-2222-3333-4444-555555555555}" {
		t.Errorf("GUID = %q", doc.GUID())
	}

	v, err := doc.Variable("gain")
	if err != nil {
		t.Fatalf("Variable(gain): %v", err)
	}
	if v.Start != 1.5 || v.Unit != "m/s" {
		t.Errorf("unexpected snapshot: %+v", v)
	}

	if _, err := doc.Variable("missing"); !errors.Is(err, fmured.ErrVariableNotFound) {
		t.Errorf("expected ErrVariableNotFound, got: %v", err)
	}
}

func TestDocument_Query(t *testing.T) {
	doc := parseTestDoc(t)

	params := doc.Query(fmured.Query{Causality: fmured.CausalityParameter})
	if len(params) != 2 {
		t.Fatalf("expected 2 parameters, got %d", len(params))
	}
	if params[0].Name != "gain" || params[1].Name != "debug_trace" {
		t.Errorf("query must preserve declaration order: %v", params)
	}

	globbed := doc.Query(fmured.Query{NamePattern: "debug_*"})
	if len(globbed) != 2 {
		t.Errorf("expected 2 debug_* variables, got %d", len(globbed))
	}

	if all := doc.Query(fmured.Query{}); len(all) != 3 {
		t.Errorf("empty query should match everything, got %d", len(all))
	}
}

func TestDocument_SetStartSplicesOnlyThatElement(t *testing.T) {
	doc := parseTestDoc(t)

	if err := doc.SetStart("gain", 2.5); err != nil {
		t.Fatalf("SetStart failed: %v", err)
	}

	out := string(doc.XML())
	if !strings.Contains(out, `start="2.5"`) {
		t.Errorf("new start value missing:\n%s", out)
	}
	if strings.Contains(out, `start="1.5"`) {
		t.Errorf("old start value still present:\n%s", out)
	}

	// Everything outside the mutated element survives verbatim.
	for _, fragment := range []string{
		"<!-- exported by test tooling -->",
		`<ModelExchange modelIdentifier="plant"/>`,
		`<Unit name="m/s"/>`,
		`<Boolean start="false"/>`,
		`<Annotations><Tool name="vendor"/></Annotations>`,
		"<ModelStructure/>",
	} {
		if !strings.Contains(out, fragment) {
			t.Errorf("fragment lost during splice: %s", fragment)
		}
	}

	// Serialization is deterministic.
	if !bytes.Equal(doc.XML(), []byte(out)) {
		t.Error("repeated serialization differs")
	}

	// The result must reparse to the same variables.
	again, err := Parse(doc.XML())
	if err != nil {
		t.Fatalf("reparsing mutated document: %v", err)
	}
	v, err := again.Variable("gain")
	if err != nil {
		t.Fatal(err)
	}
	if v.Start != 2.5 {
		t.Errorf("reparsed start = %v", v.Start)
	}
}

func TestDocument_SetStart_InvalidValue(t *testing.T) {
	doc := parseTestDoc(t)

	if err := doc.SetStart("gain", "not-a-number"); !errors.Is(err, fmured.ErrInvalidValue) {
		t.Errorf("expected ErrInvalidValue, got: %v", err)
	}
	if err := doc.SetStart("missing", 1.0); !errors.Is(err, fmured.ErrVariableNotFound) {
		t.Errorf("expected ErrVariableNotFound, got: %v", err)
	}

	// Failed mutations leave the document untouched.
	if !bytes.Equal(doc.XML(), []byte(testDoc)) {
		t.Error("failed SetStart changed the serialized form")
	}
}

func TestDocument_Delete(t *testing.T) {
	doc := parseTestDoc(t)

	if err := doc.Delete("debug_trace"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if doc.Len() != 2 {
		t.Errorf("Len = %d after delete", doc.Len())
	}

	out := string(doc.XML())
	if strings.Contains(out, "debug_trace") {
		t.Errorf("deleted element still serialized:\n%s", out)
	}
	if strings.Contains(out, "\n\n    <ScalarVariable") {
		t.Errorf("deletion left a blank line behind:\n%s", out)
	}

	// Neighbors survive untouched.
	if !strings.Contains(out, `name="gain"`) || !strings.Contains(out, `name="debug_out"`) {
		t.Errorf("deletion disturbed neighboring variables:\n%s", out)
	}

	if _, err := Parse(doc.XML()); err != nil {
		t.Errorf("document no longer parses after delete: %v", err)
	}
}

func TestDocument_DeleteTwice(t *testing.T) {
	doc := parseTestDoc(t)

	if err := doc.Delete("gain"); err != nil {
		t.Fatal(err)
	}
	if err := doc.Delete("gain"); !errors.Is(err, fmured.ErrVariableNotFound) {
		t.Errorf("second delete must fail with ErrVariableNotFound, got: %v", err)
	}
}

func TestDocument_RefreshGUID(t *testing.T) {
	doc := parseTestDoc(t)
	original := doc.GUID()

	guid := doc.RefreshGUID()
	if guid == "" || guid == original {
		t.Fatalf("RefreshGUID returned %q", guid)
	}
	if doc.GUID() != guid {
		t.Errorf("GUID() = %q, expected the refreshed value %q", doc.GUID(), guid)
	}

	out := string(doc.XML())
	if !strings.Contains(out, `guid="`+guid+`"`) {
		t.Errorf("refreshed guid missing from serialization:\n%s", out)
	}
	if strings.Contains(out, original) {
		t.Errorf("original guid still present:\n%s", out)
	}

	// Deterministic: refreshing again without mutation yields the same guid.
	if again := doc.RefreshGUID(); again != guid {
		t.Errorf("second refresh produced %q, expected %q", again, guid)
	}
}

func TestDocument_RefreshGUID_TracksContent(t *testing.T) {
	docA := parseTestDoc(t)
	docB := parseTestDoc(t)

	guidA := docA.RefreshGUID()

	if err := docB.SetStart("gain", 2.5); err != nil {
		t.Fatal(err)
	}
	guidB := docB.RefreshGUID()

	if guidA == guidB {
		t.Error("different content must derive different guids")
	}
}

func TestDocument_Validate(t *testing.T) {
	doc := parseTestDoc(t)

	result, err := doc.Validate()
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if !result.Valid {
		t.Errorf("fixture should be schema-valid, diagnostics: %v", result.Diagnostics)
	}
}
