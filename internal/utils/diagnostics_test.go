package utils

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/simpl/internal/errors"
)

func newTestDiagnostics(level DiagnosticLevel) (*DiagnosticSystem, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	return NewDiagnosticSystem(level).WithWriters(&out, &errOut), &out, &errOut
}

func TestDiagnosticSystem_Levels(t *testing.T) {
	tests := []struct {
		name  string
		level DiagnosticLevel
		want  string
	}{
		{"silent", DiagnosticSilent, ""},
		{"error", DiagnosticError, "[ERROR] e\n"},
		{"warn", DiagnosticWarn, "[ERROR] e\n[WARN] w\n"},
		{"info", DiagnosticInfo, "[ERROR] e\n[WARN] w\n[INFO] i\n[SUCCESS] s\n"},
		{"verbose", DiagnosticVerbose, "[ERROR] e\n[WARN] w\n[INFO] i\n[SUCCESS] s\n[VERBOSE] v\n"},
		{"debug", DiagnosticDebug, "[ERROR] e\n[WARN] w\n[INFO] i\n[SUCCESS] s\n[VERBOSE] v\n[DEBUG] d\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, out, errOut := newTestDiagnostics(tt.level)
			d.Error("e")
			d.Warn("w")
			d.Info("i")
			d.Success("s")
			d.Verbose("v")
			d.Debug("d")

			assert.Equal(t, tt.want, errOut.String())
			assert.Empty(t, out.String())
		})
	}
}

func TestDiagnosticSystem_PrintIgnoresLevel(t *testing.T) {
	d, out, _ := newTestDiagnostics(DiagnosticError)
	d.Print("%s/%d", "a", 1)
	assert.Equal(t, "a/1\n", out.String())
}

func TestDiagnosticSystem_Structure(t *testing.T) {
	d, _, errOut := newTestDiagnostics(DiagnosticInfo)

	d.Section("Files")
	d.Indent()
	d.List("hdl/%s.vhd", "a")
	d.Info("nested")
	d.Unindent()
	d.Unindent()
	d.Subsection("Next")
	d.Summary("Done", map[string]interface{}{"b": 2, "a": 1})

	expected := "Files\n" +
		"  - hdl/a.vhd\n" +
		"  [INFO] nested\n" +
		"\nNext:\n" +
		"\nDone\n" +
		"   a: 1\n" +
		"   b: 2\n"
	assert.Equal(t, expected, errOut.String())
}

func TestDiagnosticSystem_Progress(t *testing.T) {
	d, _, errOut := newTestDiagnostics(DiagnosticVerbose)
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	d.now = func() time.Time { return clock }

	d.StartProgress("resolve")
	clock = clock.Add(1500 * time.Millisecond)
	d.EndProgress("resolve")
	d.EndProgress("never started")

	assert.Equal(t, "[VERBOSE] resolve...\n[VERBOSE] resolve done in 1.5s\n", errOut.String())
}

func TestDiagnosticConstructors(t *testing.T) {
	assert.Equal(t, DiagnosticError, NewQuietDiagnostics().Level())
	assert.Equal(t, DiagnosticVerbose, NewVerboseDiagnostics().Level())
	assert.Equal(t, os.Stdout, NewQuietDiagnostics().Out())
	assert.Equal(t, os.Stderr, NewQuietDiagnostics().ErrOut())
}

func TestShouldUseColors(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	assert.False(t, shouldUseColors())

	t.Setenv("NO_COLOR", "")
	t.Setenv("FORCE_COLOR", "1")
	assert.True(t, shouldUseColors())

	t.Setenv("FORCE_COLOR", "")
	t.Setenv("TERM", "dumb")
	assert.False(t, shouldUseColors())
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "syn", "_syntax", "check.tcl")

	require.NoError(t, WriteFile(target, []byte("exit\n")))
	data, err := ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "exit\n", string(data))

	_, err = ReadFile(filepath.Join(dir, "missing"))
	assert.True(t, errors.HasCode(err, errors.FileSystemErrorCode))

	// a regular file cannot act as a parent directory
	err = WriteFile(filepath.Join(target, "child"), nil)
	assert.True(t, errors.HasCode(err, errors.FileSystemErrorCode))
}
