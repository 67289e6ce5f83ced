package cli

import (
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/toyz/simpl/internal/errors"
	"github.com/toyz/simpl/internal/manifest"
	"github.com/toyz/simpl/internal/models"
	"github.com/toyz/simpl/internal/templates"
	"github.com/toyz/simpl/internal/utils"
)

// Layout of a project directory.
const (
	HDLDir       = "hdl"
	SimDir       = "sim"
	SyntaxDir    = "syn/_syntax"
	SyntaxScript = "syntax_check.tcl"
)

// ResolveFiles returns the dependency-first source list of a project.
func (w *Workspace) ResolveFiles(project *Project) (*models.ResolvedFileSet, error) {
	return w.resolver.Resolve(project.ManifestPath)
}

// SyntaxCheckResult describes a written syntax-check script.
type SyntaxCheckResult struct {
	ScriptPath string   // OS path of the script
	WorkDir    string   // directory the tool must run in
	Command    []string // tool invocation, relative to WorkDir
	Files      []string // absolute source paths in compile order
}

// WriteSyntaxCheck resolves the project and writes the Vivado
// syntax-check script into its syn/_syntax directory. The tool is not run.
func (w *Workspace) WriteSyntaxCheck(project *Project) (*SyntaxCheckResult, error) {
	set, err := w.ResolveFiles(project)
	if err != nil {
		return nil, err
	}

	files := set.Absolute(w.Root)
	for i, f := range files {
		files[i] = filepath.ToSlash(f)
	}

	script, err := templates.SyntaxCheckScript{
		Files:    files,
		FileType: w.Config.FileType,
	}.Render()
	if err != nil {
		return nil, err
	}

	workDir := w.Abs(project.Rel(SyntaxDir))
	scriptPath := filepath.Join(workDir, SyntaxScript)
	if err := utils.WriteFile(scriptPath, []byte(script)); err != nil {
		return nil, err
	}

	return &SyntaxCheckResult{
		ScriptPath: scriptPath,
		WorkDir:    workDir,
		Command:    []string{w.Config.Vivado.Command, "-mode", "tcl", "-source", SyntaxScript},
		Files:      files,
	}, nil
}

// GenerateTestbench extracts entity from the project sources and renders
// its testbench. An empty entity means the project name. The artifact
// path is relative to the workspace root.
func (w *Workspace) GenerateTestbench(project *Project, entity string) (*models.GeneratedArtifact, error) {
	if entity == "" {
		entity = project.Name
	}

	entry, err := w.resolver.Load(project.ManifestPath)
	if err != nil {
		return nil, err
	}

	model, err := w.findInterface(entry, entity)
	if err != nil {
		return nil, err
	}

	artifact, err := w.generator.Testbench(model)
	if err != nil {
		return nil, err
	}
	artifact.FilePath = project.Rel(artifact.FilePath)
	return artifact, nil
}

// WriteArtifact writes a generated artifact below the workspace root and
// returns its OS path.
func (w *Workspace) WriteArtifact(artifact *models.GeneratedArtifact) (string, error) {
	target := w.Abs(artifact.FilePath)
	if err := utils.WriteFile(target, []byte(artifact.Content)); err != nil {
		return "", err
	}
	return target, nil
}

// DependencyComponents renders the component declarations of the direct
// dependencies of a project, in declaration order. A dependency's entity
// is its manifest's top property, or the manifest's base name.
func (w *Workspace) DependencyComponents(project *Project) (string, []*models.InterfaceModel, error) {
	entry, err := w.resolver.Load(project.ManifestPath)
	if err != nil {
		return "", nil, err
	}

	var interfaces []*models.InterfaceModel
	for _, dep := range entry.DependencyPaths {
		depEntry, err := w.resolver.Load(path.Join(entry.Dir(), filepath.ToSlash(dep)))
		if err != nil {
			return "", nil, err
		}

		entity := depEntry.Property("top")
		if entity == "" {
			entity = strings.TrimSuffix(path.Base(depEntry.Path), path.Ext(depEntry.Path))
		}

		model, err := w.findInterface(depEntry, entity)
		if err != nil {
			return "", nil, err
		}
		interfaces = append(interfaces, model)
	}

	return w.generator.Components(interfaces), interfaces, nil
}

// AddHDLFiles lists the project's hdl/*.vhd files in its manifest and
// returns the entries that were added.
func (w *Workspace) AddHDLFiles(project *Project) ([]string, error) {
	matches, err := fs.Glob(w.FS, project.Rel(HDLDir, "*.vhd"))
	if err != nil {
		return nil, errors.WrapFileSystemError("list", project.Rel(HDLDir), err)
	}
	sort.Strings(matches)

	files := make([]string, 0, len(matches))
	for _, m := range matches {
		files = append(files, path.Join(HDLDir, path.Base(m)))
	}

	data, err := fs.ReadFile(w.FS, project.ManifestPath)
	if err != nil {
		return nil, errors.NewManifestNotFound(project.ManifestPath, err)
	}

	updated, added, err := manifest.AddSourceFiles(project.ManifestPath, data, files)
	if err != nil {
		return nil, err
	}
	if len(added) == 0 {
		return nil, nil
	}

	if err := utils.WriteFile(w.Abs(project.ManifestPath), updated); err != nil {
		return nil, err
	}
	return added, nil
}

// findInterface looks for entity in the manifest's sources, trying the
// conventional hdl/<entity>.vhd first.
func (w *Workspace) findInterface(entry *models.ManifestEntry, entity string) (*models.InterfaceModel, error) {
	candidates := []string{path.Join(entry.Dir(), HDLDir, entity+".vhd")}
	for _, f := range entry.SourceFiles {
		f = filepath.ToSlash(f)
		if path.IsAbs(f) {
			continue
		}
		candidates = append(candidates, path.Join(entry.Dir(), f))
	}

	seen := make(map[string]bool)
	for _, c := range candidates {
		if seen[c] || !fs.ValidPath(c) {
			continue
		}
		seen[c] = true

		model, err := w.extractor.ExtractFile(c, entity)
		switch {
		case err == nil:
			return model, nil
		case errors.HasCode(err, errors.EntityNotFoundCode), errors.HasCode(err, errors.FileSystemErrorCode):
			continue
		default:
			return nil, err
		}
	}

	return nil, errors.NewEntityNotFound(entry.Path, entity, "no source file of the manifest declares it").
		WithSuggestion("Set top: <entity> in the manifest or pass --entity")
}
