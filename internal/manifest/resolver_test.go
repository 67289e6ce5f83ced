package manifest

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/simpl/internal/errors"
)

func file(s string) *fstest.MapFile {
	return &fstest.MapFile{Data: []byte(s)}
}

func adderSystemFS() fstest.MapFS {
	return fstest.MapFS{
		"cores/adder/adder.yml": file("#%SimplAPI=1.0\nfiles:\n- hdl/adder.vhd\n"),
		"cores/system/system.yml": file("#%SimplAPI=1.0\n" +
			"dependencies:\n- ../adder/adder.yml\n" +
			"files:\n- hdl/system.vhd\n"),
	}
}

func TestResolver_AdderSystem(t *testing.T) {
	r := NewResolver(adderSystemFS())

	set, err := r.Resolve("cores/adder/adder.yml")
	require.NoError(t, err)
	assert.Equal(t, []string{"hdl/adder.vhd"}, set.Paths())

	set, err = r.Resolve("cores/system/system.yml")
	require.NoError(t, err)
	assert.Equal(t, []string{"../adder/hdl/adder.vhd", "hdl/system.vhd"}, set.Paths())
	assert.Equal(t, "cores/adder/hdl/adder.vhd", set.Files[0].FSPath)
	assert.Equal(t, "cores/adder/adder.yml", set.Files[0].Manifest)
	assert.Equal(t, []string{"cores/system/system.yml", "cores/adder/adder.yml"}, set.Manifests)
	assert.Equal(t, 2, set.Len())
}

func TestResolver_DependencyFirstOrder(t *testing.T) {
	fsys := fstest.MapFS{
		"a/a.yml": file("dependencies:\n- ../b/b.yml\nfiles:\n- a1.vhd\n- a2.vhd\n"),
		"b/b.yml": file("dependencies:\n- ../c/c.yml\nfiles:\n- b.vhd\n"),
		"c/c.yml": file("files:\n- c.vhd\n"),
	}

	set, err := NewResolver(fsys).Resolve("a/a.yml")
	require.NoError(t, err)
	assert.Equal(t, []string{"../c/c.vhd", "../b/b.vhd", "a1.vhd", "a2.vhd"}, set.Paths())
}

func TestResolver_Idempotent(t *testing.T) {
	r := NewResolver(adderSystemFS())

	first, err := r.Resolve("cores/system/system.yml")
	require.NoError(t, err)
	second, err := r.Resolve("cores/system/system.yml")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestResolver_DiamondDeduplicates(t *testing.T) {
	fsys := fstest.MapFS{
		"top/top.yml":   file("dependencies:\n- ../l/l.yml\n- ../r/r.yml\nfiles:\n- top.vhd\n"),
		"l/l.yml":       file("dependencies:\n- ../base/base.yml\nfiles:\n- l.vhd\n"),
		"r/r.yml":       file("dependencies:\n- ../base/base.yml\nfiles:\n- r.vhd\n- ../base/./pkg.vhd\n"),
		"base/base.yml": file("files:\n- pkg.vhd\n"),
	}

	set, err := NewResolver(fsys).Resolve("top/top.yml")
	require.NoError(t, err)
	assert.Equal(t, []string{"../base/pkg.vhd", "../l/l.vhd", "../r/r.vhd", "top.vhd"}, set.Paths())
	assert.Equal(t, []string{"top/top.yml", "l/l.yml", "base/base.yml", "r/r.yml"}, set.Manifests)
}

func TestResolver_Cycles(t *testing.T) {
	t.Run("two manifests", func(t *testing.T) {
		fsys := fstest.MapFS{
			"a/a.yml": file("dependencies:\n- ../b/b.yml\nfiles:\n"),
			"b/b.yml": file("dependencies:\n- ../a/a.yml\nfiles:\n"),
		}
		_, err := NewResolver(fsys).Resolve("a/a.yml")
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrCyclicDependency)
		assert.Contains(t, err.Error(), "a/a.yml -> b/b.yml -> a/a.yml")
	})

	t.Run("self dependency", func(t *testing.T) {
		fsys := fstest.MapFS{
			"a/a.yml": file("dependencies:\n- a.yml\nfiles:\n"),
		}
		_, err := NewResolver(fsys).Resolve("a/a.yml")
		assert.ErrorIs(t, err, errors.ErrCyclicDependency)
	})
}

func TestResolver_NotFound(t *testing.T) {
	fsys := fstest.MapFS{
		"a/a.yml": file("dependencies:\n- ../missing/missing.yml\nfiles:\n"),
	}

	_, err := NewResolver(fsys).Resolve("nope/nope.yml")
	assert.ErrorIs(t, err, errors.ErrManifestNotFound)

	_, err = NewResolver(fsys).Resolve("a/a.yml")
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrManifestNotFound)
	assert.Contains(t, err.Error(), "missing/missing.yml")
}

func TestResolver_EscapingPaths(t *testing.T) {
	t.Run("dependency", func(t *testing.T) {
		fsys := fstest.MapFS{"a.yml": file("dependencies:\n- ../outside.yml\nfiles:\n")}
		_, err := NewResolver(fsys).Resolve("a.yml")
		assert.ErrorIs(t, err, errors.ErrManifestNotFound)
	})

	t.Run("source file", func(t *testing.T) {
		fsys := fstest.MapFS{"a.yml": file("files:\n- ../outside.vhd\n")}
		_, err := NewResolver(fsys).Resolve("a.yml")
		assert.ErrorIs(t, err, errors.ErrMalformedManifest)
	})

	t.Run("absolute source file passes through", func(t *testing.T) {
		fsys := fstest.MapFS{"a.yml": file("files:\n- /opt/ip/fifo.vhd\n")}
		set, err := NewResolver(fsys).Resolve("a.yml")
		require.NoError(t, err)
		assert.Equal(t, []string{"/opt/ip/fifo.vhd"}, set.Paths())
		assert.Equal(t, []string{"/opt/ip/fifo.vhd"}, set.Absolute("/work"))
	})
}

func TestResolver_MalformedDependency(t *testing.T) {
	fsys := fstest.MapFS{
		"a/a.yml": file("dependencies:\n- ../b/b.yml\nfiles:\n"),
		"b/b.yml": file("dependencies:\n"),
	}
	_, err := NewResolver(fsys).Resolve("a/a.yml")
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrMalformedManifest)
	assert.Contains(t, err.Error(), "b/b.yml")
}

func TestResolver_DepthLimit(t *testing.T) {
	fsys := fstest.MapFS{
		"m0.yml": file("dependencies:\n- m1.yml\nfiles:\n"),
		"m1.yml": file("dependencies:\n- m2.yml\nfiles:\n"),
		"m2.yml": file("dependencies:\n- m3.yml\nfiles:\n"),
		"m3.yml": file("files:\n- leaf.vhd\n"),
	}

	_, err := NewResolver(fsys, WithMaxDepth(2)).Resolve("m0.yml")
	assert.ErrorIs(t, err, errors.ErrDependencyDepthExceeded)

	set, err := NewResolver(fsys, WithMaxDepth(3)).Resolve("m0.yml")
	require.NoError(t, err)
	assert.Equal(t, []string{"leaf.vhd"}, set.Paths())
}

func TestResolver_APIVersionOption(t *testing.T) {
	fsys := fstest.MapFS{"a.yml": file("#%SimplAPI=2.1\nfiles:\n")}

	_, err := NewResolver(fsys).Resolve("a.yml")
	assert.ErrorIs(t, err, errors.ErrMalformedManifest)

	_, err = NewResolver(fsys, WithAPIVersion("2.0")).Resolve("a.yml")
	assert.NoError(t, err)
}

func TestResolvedFileSet_Absolute(t *testing.T) {
	set, err := NewResolver(adderSystemFS()).Resolve("cores/system/system.yml")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"/work/cores/adder/hdl/adder.vhd",
		"/work/cores/system/hdl/system.vhd",
	}, set.Absolute("/work"))
}
