package models

import (
	"path"
	"path/filepath"
)

// ManifestEntry is one parsed manifest file. Paths are slash-separated;
// SourceFiles and DependencyPaths are kept as written, relative to the
// manifest's own directory.
type ManifestEntry struct {
	Path             string            // location of the manifest, relative to the workspace root
	APIVersion       string            // value of the #%SimplAPI header, empty when absent
	Properties       map[string]string // key: value lines such as project, part, top
	SourceFiles      []string          // files: entries in declaration order
	DependencyPaths  []string          // dependencies: entries in declaration order
	FilesLine        int               // 1-based line of the files: header
	DependenciesLine int               // 1-based line of the dependencies: header, 0 when absent
}

// Dir returns the directory the manifest's relative entries are resolved
// against.
func (m *ManifestEntry) Dir() string {
	return path.Dir(m.Path)
}

// Property returns a key: value property, or "" when unset.
func (m *ManifestEntry) Property(key string) string {
	if m.Properties == nil {
		return ""
	}
	return m.Properties[key]
}

// ResolvedFile is one entry of a flattened file set.
type ResolvedFile struct {
	Path     string // relative to the root manifest's directory, e.g. ../adder/hdl/adder.vhd
	FSPath   string // canonical path relative to the workspace root
	Manifest string // workspace path of the manifest that declared it
}

// ResolvedFileSet is the dependency-first transitive closure of a root
// manifest's source files.
type ResolvedFileSet struct {
	Root      string         // workspace path of the root manifest
	Files     []ResolvedFile // dependency files first, root files last
	Manifests []string       // manifests visited, in resolution order
}

// Paths returns the file paths relative to the root manifest's directory.
func (s *ResolvedFileSet) Paths() []string {
	paths := make([]string, 0, len(s.Files))
	for _, f := range s.Files {
		paths = append(paths, f.Path)
	}
	return paths
}

// Absolute joins every file's workspace path onto base, an OS directory.
// Files declared with an absolute path are returned unchanged.
func (s *ResolvedFileSet) Absolute(base string) []string {
	paths := make([]string, 0, len(s.Files))
	for _, f := range s.Files {
		p := filepath.FromSlash(f.FSPath)
		if !filepath.IsAbs(p) {
			p = filepath.Join(base, p)
		}
		paths = append(paths, p)
	}
	return paths
}

// Len returns the number of files in the set.
func (s *ResolvedFileSet) Len() int {
	return len(s.Files)
}
