// Package generator builds testbench scaffolding from an extracted entity
// interface.
package generator

import (
	"fmt"
	"path"
	"strings"

	"github.com/toyz/simpl/internal/models"
	"github.com/toyz/simpl/internal/templates"
)

// DUTLabel is the instance label of the design under test.
const DUTLabel = "DUT"

// Options controls naming and clock generation.
type Options struct {
	InputSuffix     string   // port name suffix marking inputs, stripped before _in_s
	OutputSuffix    string   // port name suffix marking outputs, stripped before _out_s
	ClockIndicators []string // substrings that mark a clock input
	HalfPeriod      string   // delay between clock edges, a VHDL time literal
}

// DefaultOptions returns the conventional naming and a 100 MHz clock.
func DefaultOptions() Options {
	return Options{
		InputSuffix:     "_i",
		OutputSuffix:    "_o",
		ClockIndicators: []string{"clk", "clock"},
		HalfPeriod:      "5 ns",
	}
}

// Generator implements the ScaffoldGenerator interface
type Generator struct {
	opts      Options
	templates *templates.TemplateRegistry
}

// NewGenerator creates a generator using the built-in templates
func NewGenerator(opts Options) *Generator {
	return NewGeneratorWithTemplates(opts, templates.NewTemplateRegistry())
}

// NewGeneratorWithTemplates creates a generator rendering with registry
func NewGeneratorWithTemplates(opts Options, registry *templates.TemplateRegistry) *Generator {
	if opts.HalfPeriod == "" {
		opts.HalfPeriod = DefaultOptions().HalfPeriod
	}
	return &Generator{opts: opts, templates: registry}
}

// Options returns the generator's options.
func (g *Generator) Options() Options {
	return g.opts
}

// Testbench renders the complete testbench for model. The artifact path is
// relative to the project directory.
func (g *Generator) Testbench(model *models.InterfaceModel) (*models.GeneratedArtifact, error) {
	if model == nil {
		return nil, fmt.Errorf("model cannot be nil")
	}

	clock, err := g.ClockProcess(model)
	if err != nil {
		return nil, err
	}

	content, err := g.templates.Render(templates.TestbenchName, templates.TestbenchData{
		Entity:        model.EntityName,
		Component:     g.ComponentDeclaration(model, "\t"),
		Signals:       g.SignalDeclarations(model),
		Instantiation: g.Instantiation(model, DUTLabel),
		ClockProcess:  clock,
	})
	if err != nil {
		return nil, err
	}

	return &models.GeneratedArtifact{
		Name:     "testbench",
		FilePath: path.Join("sim", model.EntityName+"_tb.vhd"),
		Content:  content,
	}, nil
}

// ComponentDeclaration re-emits the entity's generic and port clauses
// verbatim inside a component declaration. Each line is prefixed with
// indent. Clauses without declarations are left out.
func (g *Generator) ComponentDeclaration(model *models.InterfaceModel, indent string) string {
	var b strings.Builder
	b.WriteString(indent + "component " + model.EntityName + " is\n")

	if model.HasGenerics() {
		b.WriteString(indent + "generic (\n")
		for _, line := range model.GenericLines {
			b.WriteString(indent + line + "\n")
		}
		b.WriteString(indent + ");\n")
	}

	if len(model.SignalPorts()) > 0 {
		b.WriteString(indent + "port (\n")
		for _, line := range model.PortLines {
			b.WriteString(indent + line + "\n")
		}
		b.WriteString(indent + ");\n")
	}

	b.WriteString(indent + "end component;\n")
	return b.String()
}

// Components renders the component declarations of several entities,
// separated by blank lines.
func (g *Generator) Components(interfaces []*models.InterfaceModel) string {
	parts := make([]string, 0, len(interfaces))
	for _, model := range interfaces {
		parts = append(parts, g.ComponentDeclaration(model, "\t"))
	}
	return strings.Join(parts, "\n")
}

// SignalDeclarations declares one signal per port, in port order.
func (g *Generator) SignalDeclarations(model *models.InterfaceModel) string {
	var b strings.Builder
	for _, sig := range g.DeriveSignals(model) {
		fmt.Fprintf(&b, "\tsignal %s: %s;\n", sig.SignalName, sig.SignalType)
	}
	return b.String()
}

// Instantiation associates every port with its signal by name. The last
// association carries no trailing comma. An entity without ports is
// instantiated without a port map.
func (g *Generator) Instantiation(model *models.InterfaceModel, label string) string {
	signals := g.DeriveSignals(model)
	if len(signals) == 0 {
		return fmt.Sprintf("\t%s: %s;\n", label, model.EntityName)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\t%s: %s port map (\n", label, model.EntityName)
	for i, sig := range signals {
		sep := ","
		if i == len(signals)-1 {
			sep = ""
		}
		fmt.Fprintf(&b, "\t\t%s => %s%s\n", sig.PortName, sig.SignalName, sep)
	}
	b.WriteString("\t);\n")
	return b.String()
}
