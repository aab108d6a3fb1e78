package reducer

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/fmured/internal/archive"
	"github.com/vvka-141/fmured/internal/logging"
	"github.com/vvka-141/fmured/pkg/fmured"
)

const testDescription = `<?xml version="1.0" encoding="UTF-8"?>
<fmiModelDescription fmiVersion="2.0" modelName="plant" guid="{11111111-2222-3333-4444-555555555555}">
  <ModelVariables>
    <ScalarVariable name="gain" valueReference="0" causality="parameter" variability="tunable">
      <Real start="1.5"/>
    </ScalarVariable>
    <ScalarVariable name="debug_trace" valueReference="1" causality="parameter" variability="tunable">
      <Boolean start="false"/>
    </ScalarVariable>
    <ScalarVariable name="debug_level" valueReference="2" causality="parameter" variability="tunable">
      <Integer start="2"/>
    </ScalarVariable>
    <ScalarVariable name="debug_out" valueReference="3" causality="output">
      <Real/>
    </ScalarVariable>
  </ModelVariables>
</fmiModelDescription>
`

// writeFMU builds a minimal archive with the given description and a
// binary payload member, and writes it into dir.
func writeFMU(t *testing.T, dir, name, descXML string) string {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	w, err := zw.Create("modelDescription.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(descXML))
	require.NoError(t, err)

	w, err = zw.Create("binaries/linux64/plant.so")
	require.NoError(t, err)
	_, err = w.Write([]byte{0x7f, 'E', 'L', 'F', 0x00, 0x01})
	require.NoError(t, err)

	require.NoError(t, zw.Close())

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, fmured.ConfigFileName), []byte(content), 0o644))
}

// stubApprover records calls and returns a fixed verdict.
type stubApprover struct {
	approve bool
	err     error
	called  bool
}

func (a *stubApprover) RequestApproval(_ context.Context, _ string) (bool, error) {
	a.called = true
	return a.approve, a.err
}

func newTestService(approve bool) (*Service, *stubApprover, *stubApprover) {
	interactive := &stubApprover{approve: approve}
	forced := &stubApprover{approve: true}
	return NewService(interactive, forced, logging.NewNullLogger()), interactive, forced
}

func variableNames(t *testing.T, path string) []string {
	t.Helper()
	fmu, err := archive.Open(path)
	require.NoError(t, err)
	defer fmu.Close()

	vars, err := fmu.Variables()
	require.NoError(t, err)

	names := make([]string, 0, len(vars))
	for _, v := range vars {
		names = append(names, v.Name)
	}
	return names
}

func TestNewService_NilDependencies(t *testing.T) {
	a := &stubApprover{}
	logger := logging.NewNullLogger()

	tests := []struct {
		name string
		fn   func()
	}{
		{"nil interactive", func() { NewService(nil, a, logger) }},
		{"nil forced", func() { NewService(a, nil, logger) }},
		{"nil logger", func() { NewService(a, a, nil) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("expected panic")
				}
			}()
			tt.fn()
		})
	}
}

func TestRun_ReducesToOutputDir(t *testing.T) {
	dir := t.TempDir()
	writeFMU(t, dir, "plant.fmu", testDescription)
	writeConfig(t, dir, `causality: parameter
delete:
  - "debug_*"
output_dir: ./reduced
`)

	svc, interactive, _ := newTestService(true)
	result, err := svc.Run(context.Background(), dir, false)
	require.NoError(t, err)

	assert.False(t, interactive.called, "output-dir runs need no approval")
	assert.Equal(t, 1, result.Reduced)
	assert.Equal(t, 0, result.Unchanged)
	assert.Equal(t, 0, result.Failed)
	require.Len(t, result.Files, 1)

	fr := result.Files[0]
	assert.Equal(t, fmured.OutcomeReduced, fr.Outcome)
	assert.Equal(t, []string{"debug_trace", "debug_level"}, fr.Deleted)
	assert.NotEmpty(t, fr.SourceDigest)
	assert.NotEmpty(t, fr.TargetDigest)
	assert.NotEqual(t, fr.SourceDigest, fr.TargetDigest)

	target := filepath.Join(dir, "reduced", "plant.fmu")
	assert.Equal(t, target, fr.Target)

	// debug_out has output causality and stays; the source is untouched.
	assert.Equal(t, []string{"gain", "debug_out"}, variableNames(t, target))
	assert.Equal(t, []string{"gain", "debug_trace", "debug_level", "debug_out"},
		variableNames(t, filepath.Join(dir, "plant.fmu")))
}

func TestRun_KeepWinsOverDelete(t *testing.T) {
	dir := t.TempDir()
	writeFMU(t, dir, "plant.fmu", testDescription)
	writeConfig(t, dir, `delete:
  - "debug_*"
keep:
  - "debug_level"
suffix: _reduced
`)

	svc, _, _ := newTestService(true)
	result, err := svc.Run(context.Background(), dir, false)
	require.NoError(t, err)
	require.Len(t, result.Files, 1)
	assert.Equal(t, []string{"debug_trace"}, result.Files[0].Deleted)

	target := filepath.Join(dir, "plant_reduced.fmu")
	assert.Equal(t, []string{"gain", "debug_level", "debug_out"}, variableNames(t, target))
}

func TestRun_InPlace(t *testing.T) {
	dir := t.TempDir()
	source := writeFMU(t, dir, "plant.fmu", testDescription)
	writeConfig(t, dir, `delete:
  - "debug_*"
`)

	svc, interactive, _ := newTestService(true)
	result, err := svc.Run(context.Background(), dir, false)
	require.NoError(t, err)

	assert.True(t, interactive.called, "in-place runs require approval")
	assert.Equal(t, 1, result.Reduced)
	assert.Equal(t, []string{"gain", "debug_out"}, variableNames(t, source))
}

func TestRun_InPlaceDenied(t *testing.T) {
	dir := t.TempDir()
	source := writeFMU(t, dir, "plant.fmu", testDescription)
	before, err := os.ReadFile(source)
	require.NoError(t, err)
	writeConfig(t, dir, `delete:
  - "debug_*"
`)

	svc, _, _ := newTestService(false)
	_, err = svc.Run(context.Background(), dir, false)
	require.True(t, errors.Is(err, fmured.ErrApprovalDenied), "expected ErrApprovalDenied, got: %v", err)

	after, err := os.ReadFile(source)
	require.NoError(t, err)
	assert.Equal(t, before, after, "denied run must not touch sources")
}

func TestRun_ForceUsesCountdownApprover(t *testing.T) {
	dir := t.TempDir()
	writeFMU(t, dir, "plant.fmu", testDescription)
	writeConfig(t, dir, `delete:
  - "debug_*"
`)

	svc, interactive, forced := newTestService(false)
	_, err := svc.Run(context.Background(), dir, true)
	require.NoError(t, err)

	assert.False(t, interactive.called)
	assert.True(t, forced.called)
}

func TestRun_UnchangedInPlaceSkipsWrite(t *testing.T) {
	dir := t.TempDir()
	source := writeFMU(t, dir, "plant.fmu", testDescription)
	before, err := os.ReadFile(source)
	require.NoError(t, err)
	writeConfig(t, dir, `delete:
  - "no_such_variable_*"
`)

	svc, _, _ := newTestService(true)
	result, err := svc.Run(context.Background(), dir, true)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Unchanged)
	require.Len(t, result.Files, 1)
	assert.Equal(t, fmured.OutcomeUnchanged, result.Files[0].Outcome)
	assert.Equal(t, result.Files[0].SourceDigest, result.Files[0].TargetDigest)

	after, err := os.ReadFile(source)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestRun_UnchangedToOutputDirStillCopies(t *testing.T) {
	dir := t.TempDir()
	writeFMU(t, dir, "plant.fmu", testDescription)
	writeConfig(t, dir, `delete:
  - "no_such_variable_*"
output_dir: ./reduced
`)

	svc, _, _ := newTestService(true)
	result, err := svc.Run(context.Background(), dir, false)
	require.NoError(t, err)

	require.Len(t, result.Files, 1)
	assert.Equal(t, fmured.OutcomeUnchanged, result.Files[0].Outcome)
	assert.FileExists(t, filepath.Join(dir, "reduced", "plant.fmu"))
}

func TestRun_ContinuesPastFailedFile(t *testing.T) {
	dir := t.TempDir()
	// Sorted order puts the broken archive first.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.fmu"), []byte("not a zip"), 0o644))
	writeFMU(t, dir, "plant.fmu", testDescription)
	writeConfig(t, dir, `delete:
  - "debug_*"
output_dir: ./reduced
`)

	svc, _, _ := newTestService(true)
	result, err := svc.Run(context.Background(), dir, false)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 1, result.Reduced)
	require.Len(t, result.Files, 2)
	assert.Equal(t, fmured.OutcomeFailed, result.Files[0].Outcome)
	assert.NotEmpty(t, result.Files[0].Error)
	assert.True(t, errors.Is(result.Files[0].Err, fmured.ErrArchiveFormat))
	assert.Equal(t, fmured.OutcomeReduced, result.Files[1].Outcome)
}

func TestRun_MissingConfig(t *testing.T) {
	dir := t.TempDir()
	writeFMU(t, dir, "plant.fmu", testDescription)

	svc, _, _ := newTestService(true)
	_, err := svc.Run(context.Background(), dir, false)
	assert.True(t, errors.Is(err, fmured.ErrConfigNotFound), "expected ErrConfigNotFound, got: %v", err)
}

func TestRun_NoArchives(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `delete:
  - "debug_*"
`)

	svc, _, _ := newTestService(true)
	_, err := svc.Run(context.Background(), dir, false)
	assert.Error(t, err)
}

func TestRun_EnvSuffixOverride(t *testing.T) {
	dir := t.TempDir()
	writeFMU(t, dir, "plant.fmu", testDescription)
	writeConfig(t, dir, `delete:
  - "debug_*"
suffix: _from_config
`)
	t.Setenv("FMURED_SUFFIX", "_from_env")

	svc, _, _ := newTestService(true)
	result, err := svc.Run(context.Background(), dir, false)
	require.NoError(t, err)

	require.Len(t, result.Files, 1)
	assert.Equal(t, filepath.Join(dir, "plant_from_env.fmu"), result.Files[0].Target)
	assert.FileExists(t, result.Files[0].Target)
}

func TestRun_RefreshGUID(t *testing.T) {
	dir := t.TempDir()
	writeFMU(t, dir, "plant.fmu", testDescription)
	writeConfig(t, dir, `delete:
  - "debug_*"
suffix: _reduced
refresh_guid: true
`)

	svc, _, _ := newTestService(true)
	_, err := svc.Run(context.Background(), dir, false)
	require.NoError(t, err)

	fmu, err := archive.Open(filepath.Join(dir, "plant_reduced.fmu"))
	require.NoError(t, err)
	defer fmu.Close()

	doc, err := fmu.Document()
	require.NoError(t, err)
	assert.NotEqual(t, "{11111111-2222-3333-4444-555555555555}", doc.GUID())
	assert.NotEmpty(t, doc.GUID())
}

func TestVerifyCarryOver(t *testing.T) {
	dir := t.TempDir()
	source := writeFMU(t, dir, "plant.fmu", testDescription)
	svc, _, _ := newTestService(true)

	content, err := os.ReadFile(source)
	require.NoError(t, err)
	assert.NoError(t, svc.verifyCarryOver(source, content))

	// Same member names, altered payload bytes.
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("modelDescription.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(testDescription))
	require.NoError(t, err)
	w, err = zw.Create("binaries/linux64/plant.so")
	require.NoError(t, err)
	_, err = w.Write([]byte("not the shared object"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	err = svc.verifyCarryOver(source, buf.Bytes())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "binaries/linux64/plant.so")
}
