package generator

import "github.com/toyz/simpl/internal/models"

// ScaffoldGenerator defines the interface for rendering testbench and
// component scaffolding from entity interfaces
type ScaffoldGenerator interface {
	Testbench(model *models.InterfaceModel) (*models.GeneratedArtifact, error)
	Components(interfaces []*models.InterfaceModel) string
}

var _ ScaffoldGenerator = (*Generator)(nil)
