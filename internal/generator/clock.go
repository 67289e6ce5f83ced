package generator

import (
	"fmt"
	"strings"

	"github.com/toyz/simpl/internal/errors"
	"github.com/toyz/simpl/internal/models"
)

// ClockCandidates returns the input ports whose name contains one of the
// clock indicators.
func (g *Generator) ClockCandidates(model *models.InterfaceModel) []models.PortDeclaration {
	var candidates []models.PortDeclaration
	for _, port := range model.SignalPorts() {
		if port.Direction != models.DirectionIn {
			continue
		}
		name := strings.ToLower(port.Name)
		for _, indicator := range g.opts.ClockIndicators {
			if indicator != "" && strings.Contains(name, strings.ToLower(indicator)) {
				candidates = append(candidates, port)
				break
			}
		}
	}
	return candidates
}

// ClockProcess returns a free-running process toggling the clock signal,
// or "" when the entity has no clock input. More than one candidate is an
// AmbiguousClockPort error.
func (g *Generator) ClockProcess(model *models.InterfaceModel) (string, error) {
	candidates := g.ClockCandidates(model)
	switch len(candidates) {
	case 0:
		return "", nil
	case 1:
	default:
		names := make([]string, len(candidates))
		for i, c := range candidates {
			names[i] = c.Name
		}
		return "", errors.NewAmbiguousClockPort(model.EntityName, names).
			WithLocation(errors.SourceLocation{File: model.SourceFile, Line: candidates[1].Line})
	}

	signal := g.SignalName(candidates[0])
	var b strings.Builder
	b.WriteString("\tclk_process: process\n")
	b.WriteString("\tbegin\n")
	fmt.Fprintf(&b, "\t\t%s <= '0';\n", signal)
	fmt.Fprintf(&b, "\t\twait for %s;\n", g.opts.HalfPeriod)
	fmt.Fprintf(&b, "\t\t%s <= '1';\n", signal)
	fmt.Fprintf(&b, "\t\twait for %s;\n", g.opts.HalfPeriod)
	b.WriteString("\tend process;\n\n")
	return b.String(), nil
}
