package manifest

import (
	"io/fs"
	"path"
	"path/filepath"
	"strings"

	"github.com/toyz/simpl/internal/errors"
	"github.com/toyz/simpl/internal/models"
)

// DefaultMaxDepth bounds the length of a dependency chain.
const DefaultMaxDepth = 64

// Resolver flattens a manifest dependency graph stored in an fs.FS. All
// paths handed to it are slash-separated and relative to the root of fsys.
type Resolver struct {
	fsys     fs.FS
	parser   *Parser
	maxDepth int
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithAPIVersion sets the manifest API version the resolver accepts.
func WithAPIVersion(version string) Option {
	return func(r *Resolver) {
		r.parser = NewParser(version)
	}
}

// WithMaxDepth sets the dependency depth limit. Values below 1 restore the
// default.
func WithMaxDepth(depth int) Option {
	return func(r *Resolver) {
		if depth < 1 {
			depth = DefaultMaxDepth
		}
		r.maxDepth = depth
	}
}

// NewResolver creates a resolver reading manifests from fsys.
func NewResolver(fsys fs.FS, opts ...Option) *Resolver {
	r := &Resolver{
		fsys:     fsys,
		parser:   NewParser(DefaultAPIVersion),
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Load reads and parses a single manifest.
func (r *Resolver) Load(manifestPath string) (*models.ManifestEntry, error) {
	clean := path.Clean(filepath.ToSlash(manifestPath))
	if !fs.ValidPath(clean) {
		return nil, errors.NewManifestNotFound(manifestPath, fs.ErrInvalid).
			WithSuggestion("Manifest paths must stay inside the workspace root")
	}
	data, err := fs.ReadFile(r.fsys, clean)
	if err != nil {
		return nil, errors.NewManifestNotFound(clean, err)
	}
	return r.parser.Parse(clean, data)
}

// Resolve returns the dependency-first, deduplicated file list of the
// manifest at rootPath. Every call reads the manifests again.
func (r *Resolver) Resolve(rootPath string) (*models.ResolvedFileSet, error) {
	root := path.Clean(filepath.ToSlash(rootPath))
	res := &resolution{
		resolver: r,
		rootDir:  path.Dir(root),
		set:      &models.ResolvedFileSet{Root: root},
		visited:  make(map[string]bool),
		onStack:  make(map[string]bool),
		files:    make(map[string]bool),
	}
	if err := res.visit(root, 0); err != nil {
		return nil, err
	}
	return res.set, nil
}

// resolution holds the state of one Resolve call.
type resolution struct {
	resolver *Resolver
	rootDir  string
	set      *models.ResolvedFileSet
	visited  map[string]bool // manifests already flattened
	stack    []string        // manifests being flattened, outermost first
	onStack  map[string]bool
	files    map[string]bool // canonical file paths already emitted
}

func (s *resolution) visit(manifestPath string, depth int) error {
	if s.onStack[manifestPath] {
		return errors.NewCyclicDependency(s.cycle(manifestPath))
	}
	if s.visited[manifestPath] {
		return nil
	}
	if depth > s.resolver.maxDepth {
		return errors.NewDependencyDepthExceeded(manifestPath, s.resolver.maxDepth)
	}

	entry, err := s.resolver.Load(manifestPath)
	if err != nil {
		return err
	}
	s.set.Manifests = append(s.set.Manifests, manifestPath)

	s.stack = append(s.stack, manifestPath)
	s.onStack[manifestPath] = true

	dir := entry.Dir()
	for _, dep := range entry.DependencyPaths {
		depPath, ok := joinInside(dir, dep)
		if !ok {
			return errors.NewManifestNotFound(dep, fs.ErrInvalid).
				WithLocation(errors.SourceLocation{File: manifestPath, Line: entry.DependenciesLine}).
				WithSuggestion("Dependency manifests must stay inside the workspace root")
		}
		if err := s.visit(depPath, depth+1); err != nil {
			return err
		}
	}

	for _, file := range entry.SourceFiles {
		if err := s.addFile(entry, dir, file); err != nil {
			return err
		}
	}

	s.stack = s.stack[:len(s.stack)-1]
	delete(s.onStack, manifestPath)
	s.visited[manifestPath] = true
	return nil
}

func (s *resolution) addFile(entry *models.ManifestEntry, dir, file string) error {
	file = filepath.ToSlash(file)

	var fsPath, rel string
	if path.IsAbs(file) {
		fsPath = path.Clean(file)
		rel = fsPath
	} else {
		p, ok := joinInside(dir, file)
		if !ok {
			return errors.NewMalformedManifest(entry.Path, entry.FilesLine,
				"file "+file+" escapes the workspace root")
		}
		fsPath = p
		rel = relativeTo(s.rootDir, fsPath)
	}

	if s.files[fsPath] {
		return nil
	}
	s.files[fsPath] = true
	s.set.Files = append(s.set.Files, models.ResolvedFile{
		Path:     rel,
		FSPath:   fsPath,
		Manifest: entry.Path,
	})
	return nil
}

// cycle returns the stack slice that closes on manifestPath.
func (s *resolution) cycle(manifestPath string) []string {
	for i, p := range s.stack {
		if p == manifestPath {
			chain := append([]string{}, s.stack[i:]...)
			return append(chain, manifestPath)
		}
	}
	return []string{manifestPath, manifestPath}
}

// joinInside joins rel onto dir and reports whether the result stays inside
// the file system root.
func joinInside(dir, rel string) (string, bool) {
	rel = filepath.ToSlash(rel)
	if path.IsAbs(rel) {
		return "", false
	}
	p := path.Join(dir, rel)
	if p == ".." || strings.HasPrefix(p, "../") || path.IsAbs(p) {
		return "", false
	}
	return p, true
}

// relativeTo expresses target, a root-relative path, relative to dir.
func relativeTo(dir, target string) string {
	rel, err := filepath.Rel(filepath.FromSlash(dir), filepath.FromSlash(target))
	if err != nil {
		return target
	}
	return filepath.ToSlash(rel)
}
