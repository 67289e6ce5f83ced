package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/simpl/internal/errors"
)

func fakeFinder(env map[string]string, wd string) *RootFinder {
	return NewRootFinderFunc(
		func(key string) string { return env[key] },
		func() (string, error) { return wd, nil },
	)
}

func TestFindRoot(t *testing.T) {
	flagDir := t.TempDir()
	envDir := t.TempDir()

	configured := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(configured, ConfigFileName), nil, 0o644))
	nested := filepath.Join(configured, "cores", "adder")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	plain := t.TempDir()

	tests := []struct {
		name     string
		flag     string
		env      map[string]string
		wd       string
		expected string
	}{
		{"flag wins", flagDir, map[string]string{ProjectRootEnv: envDir}, nested, flagDir},
		{"environment", "", map[string]string{ProjectRootEnv: envDir}, nested, envDir},
		{"nearest config", "", nil, nested, configured},
		{"working directory", "", nil, plain, plain},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, err := fakeFinder(tt.env, tt.wd).FindRoot(tt.flag)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, root)
		})
	}
}

func TestFindRoot_InvalidFlag(t *testing.T) {
	dir := t.TempDir()
	regular := filepath.Join(dir, "file.txt")
	require.NoError(t, os.WriteFile(regular, []byte("x"), 0o644))

	_, err := fakeFinder(nil, dir).FindRoot(regular)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.UsageErrorCode))

	_, err = fakeFinder(nil, dir).FindRoot(filepath.Join(dir, "missing"))
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ConfigurationErrorCode))
}

func TestWorkspace_Project(t *testing.T) {
	ws, err := NewWorkspace(t.TempDir(), DefaultConfig())
	require.NoError(t, err)

	p, err := ws.Project("adder/")
	require.NoError(t, err)
	assert.Equal(t, "adder", p.Name)
	assert.Equal(t, "cores/adder", p.Dir)
	assert.Equal(t, "cores/adder/adder.yml", p.ManifestPath)
	assert.Equal(t, "cores/adder/hdl/adder.vhd", p.Rel("hdl", "adder.vhd"))

	for _, name := range []string{"", ".", "..", "a/b", "/"} {
		_, err := ws.Project(name)
		require.Error(t, err, name)
		assert.True(t, errors.HasCode(err, errors.UsageErrorCode), name)
	}
}

func TestWorkspace_Abs(t *testing.T) {
	root := t.TempDir()
	ws, err := NewWorkspace(root, DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, "cores", "adder"), ws.Abs("cores/adder"))
	abs := filepath.Join(root, "elsewhere")
	assert.Equal(t, abs, ws.Abs(filepath.ToSlash(abs)))
}

func TestOpenWorkspace_ExplicitConfig(t *testing.T) {
	root := t.TempDir()
	cfgPath := filepath.Join(t.TempDir(), "other.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("coresDir: ip\n"), 0o644))

	ws, err := OpenWorkspace(root, cfgPath)
	require.NoError(t, err)
	assert.Equal(t, "ip", ws.Config.CoresDir)

	_, err = OpenWorkspace(root, filepath.Join(root, "missing.yaml"))
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ConfigurationErrorCode))
}

func TestNewWorkspace_MissingTemplate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Templates.Testbench = "templates/tb.tmpl"

	_, err := NewWorkspace(t.TempDir(), cfg)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.FileSystemErrorCode))
}
