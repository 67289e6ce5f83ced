package parser

import "github.com/toyz/simpl/internal/models"

// InterfaceExtractor defines the interface for reading entity interfaces
// out of source files
type InterfaceExtractor interface {
	ExtractFile(name, entityName string) (*models.InterfaceModel, error)
}

var _ InterfaceExtractor = (*Extractor)(nil)
