package manifest

import (
	"fmt"

	"golang.org/x/mod/semver"

	"github.com/toyz/simpl/internal/errors"
	"github.com/toyz/simpl/internal/models"
)

const (
	// APIHeader is the name used in the #%SimplAPI=<version> header.
	APIHeader = "SimplAPI"
	// DefaultAPIVersion is the manifest API this tool reads.
	DefaultAPIVersion = "1.0"

	sectionDependencies = "dependencies"
	sectionFiles        = "files"
)

// Parser turns manifest text into a models.ManifestEntry.
type Parser struct {
	apiVersion string
}

// NewParser creates a parser accepting manifests whose API header has the
// same major version as apiVersion. An empty apiVersion accepts any valid
// version.
func NewParser(apiVersion string) *Parser {
	return &Parser{apiVersion: apiVersion}
}

// Parse parses one manifest. path is only used for the entry and for
// error locations.
func (p *Parser) Parse(path string, data []byte) (*models.ManifestEntry, error) {
	entry := &models.ManifestEntry{
		Path:       path,
		Properties: make(map[string]string),
	}

	section := ""
	for _, line := range Tokenize(string(data)) {
		switch line.Kind {
		case LineItem:
			if line.Value == "" {
				return nil, errors.NewMalformedManifest(path, line.Number, "empty list entry")
			}
			switch section {
			case sectionDependencies:
				entry.DependencyPaths = append(entry.DependencyPaths, line.Value)
			case sectionFiles:
				entry.SourceFiles = append(entry.SourceFiles, line.Value)
			}
			continue

		case LineSection:
			switch line.Key {
			case sectionDependencies:
				if entry.DependenciesLine != 0 {
					return nil, errors.NewMalformedManifest(path, line.Number,
						fmt.Sprintf("duplicate dependencies: section (first on line %d)", entry.DependenciesLine))
				}
				entry.DependenciesLine = line.Number
			case sectionFiles:
				if entry.FilesLine != 0 {
					return nil, errors.NewMalformedManifest(path, line.Number,
						fmt.Sprintf("duplicate files: section (first on line %d)", entry.FilesLine))
				}
				entry.FilesLine = line.Number
			}
			section = line.Key
			continue

		case LineHeader:
			if line.Key == APIHeader {
				if err := p.checkAPI(path, line); err != nil {
					return nil, err
				}
				entry.APIVersion = line.Value
			}

		case LineProperty:
			entry.Properties[line.Key] = line.Value
		}

		// Any line that is neither an item nor a header ends the run.
		section = ""
	}

	if entry.FilesLine == 0 {
		return nil, errors.NewMalformedManifest(path, 0, "missing files: section").
			WithSuggestion("Declare at least an empty files: section")
	}

	return entry, nil
}

func (p *Parser) checkAPI(path string, line Line) error {
	version := "v" + line.Value
	if !semver.IsValid(version) {
		return errors.NewMalformedManifest(path, line.Number,
			fmt.Sprintf("invalid %s version %q", APIHeader, line.Value))
	}
	if p.apiVersion == "" {
		return nil
	}
	if semver.Major(version) != semver.Major("v"+p.apiVersion) {
		return errors.NewMalformedManifest(path, line.Number,
			fmt.Sprintf("unsupported %s version %s, this tool reads %s", APIHeader, line.Value, p.apiVersion))
	}
	return nil
}
