package models

// GeneratedArtifact is a rendered text file ready to be written.
type GeneratedArtifact struct {
	Name     string // short artifact kind, e.g. "testbench"
	FilePath string // path where the artifact should be written
	Content  string // rendered text
}
