package cli

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/toyz/simpl/internal/errors"
	"github.com/toyz/simpl/internal/generator"
	"github.com/toyz/simpl/internal/manifest"
	"github.com/toyz/simpl/internal/parser"
	"github.com/toyz/simpl/internal/templates"
	"github.com/toyz/simpl/internal/utils"
)

// ProjectRootEnv names the environment variable holding the workspace root.
const ProjectRootEnv = "PROJECT_ROOT"

// RootFinder locates the workspace root
type RootFinder struct {
	getenv func(string) string
	getwd  func() (string, error)
}

// NewRootFinder creates a root finder using the process environment
func NewRootFinder() *RootFinder {
	return NewRootFinderFunc(os.Getenv, os.Getwd)
}

// NewRootFinderFunc creates a root finder reading the environment and the
// working directory through the given functions
func NewRootFinderFunc(getenv func(string) string, getwd func() (string, error)) *RootFinder {
	return &RootFinder{getenv: getenv, getwd: getwd}
}

// FindRoot returns the workspace root. flagRoot wins, then $PROJECT_ROOT,
// then the nearest ancestor of the working directory containing
// simpl.yaml, then the working directory itself.
func (r *RootFinder) FindRoot(flagRoot string) (string, error) {
	if flagRoot != "" {
		return absDir(flagRoot)
	}
	if env := r.getenv(ProjectRootEnv); env != "" {
		return absDir(env)
	}

	currentDir, err := r.getwd()
	if err != nil {
		return "", errors.WrapFileSystemError("determine working directory", ".", err)
	}

	for dir := currentDir; ; {
		if _, err := os.Stat(filepath.Join(dir, ConfigFileName)); err == nil {
			return dir, nil
		}

		// Move to parent directory
		parentDir := filepath.Dir(dir)
		if parentDir == dir {
			// Reached root directory
			break
		}
		dir = parentDir
	}

	return currentDir, nil
}

func absDir(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", errors.WrapFileSystemError("resolve", dir, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", errors.WrapConfigurationError(abs, "open workspace root", err)
	}
	if !info.IsDir() {
		return "", errors.NewUsageError("workspace root %s is not a directory", abs)
	}
	return abs, nil
}

// Workspace is an opened workspace: its root, configuration and the
// components configured from it.
type Workspace struct {
	Root   string
	Config *Config
	FS     fs.FS

	resolver  *manifest.Resolver
	extractor parser.InterfaceExtractor
	generator *generator.Generator
}

// OpenWorkspace loads the configuration of the workspace at root. An empty
// configPath means root/simpl.yaml, which may be absent.
func OpenWorkspace(root, configPath string) (*Workspace, error) {
	var (
		cfg *Config
		err error
	)
	if configPath != "" {
		cfg, err = LoadConfigFile(configPath)
	} else {
		cfg, err = LoadConfig(root)
	}
	if err != nil {
		return nil, err
	}
	return NewWorkspace(root, cfg)
}

// NewWorkspace wires the components for root using cfg.
func NewWorkspace(root string, cfg *Config) (*Workspace, error) {
	fsys := os.DirFS(root)

	registry := templates.NewTemplateRegistry()
	if cfg.Templates.Testbench != "" {
		data, err := utils.ReadFile(filepath.Join(root, filepath.FromSlash(cfg.Templates.Testbench)))
		if err != nil {
			return nil, err
		}
		if err := registry.Register(templates.TestbenchName, string(data)); err != nil {
			return nil, err
		}
	}

	return &Workspace{
		Root:      root,
		Config:    cfg,
		FS:        fsys,
		resolver:  manifest.NewResolver(fsys, cfg.ResolverOptions()...),
		extractor: parser.NewExtractor(fsys),
		generator: generator.NewGeneratorWithTemplates(cfg.GeneratorOptions(), registry),
	}, nil
}

// Project is one directory under the cores directory.
type Project struct {
	Name         string
	Dir          string // slash path relative to the workspace root
	ManifestPath string // Dir/<name>.yml
}

// Project returns the layout of the named project. Trailing slashes are
// accepted so shell completion of the directory works.
func (w *Workspace) Project(name string) (*Project, error) {
	name = strings.TrimRight(filepath.ToSlash(name), "/")
	if name == "" || name == "." || name == ".." || strings.Contains(name, "/") {
		return nil, errors.NewUsageError("invalid project name %q", name).
			WithSuggestion("Pass the name of a directory under " + w.Config.CoresDir)
	}
	dir := path.Join(filepath.ToSlash(w.Config.CoresDir), name)
	return &Project{
		Name:         name,
		Dir:          dir,
		ManifestPath: path.Join(dir, name+".yml"),
	}, nil
}

// Rel joins slash path elements onto the project directory.
func (p *Project) Rel(elem ...string) string {
	return path.Join(append([]string{p.Dir}, elem...)...)
}

// Abs returns the OS path of a workspace relative slash path.
func (w *Workspace) Abs(rel string) string {
	if filepath.IsAbs(filepath.FromSlash(rel)) {
		return filepath.FromSlash(rel)
	}
	return filepath.Join(w.Root, filepath.FromSlash(rel))
}
