package generator

import (
	"strings"

	"github.com/toyz/simpl/internal/models"
)

// Suffixes appended to derived signal names.
const (
	InputSignalSuffix  = "_in_s"
	OutputSignalSuffix = "_out_s"
)

// DeriveSignals returns one signal per non pass-through port, in order.
func (g *Generator) DeriveSignals(model *models.InterfaceModel) []models.DerivedSignal {
	ports := model.SignalPorts()
	signals := make([]models.DerivedSignal, 0, len(ports))
	for _, port := range ports {
		signals = append(signals, models.DerivedSignal{
			PortName:   port.Name,
			SignalName: g.SignalName(port),
			SignalType: port.TypeExpression,
			Direction:  port.Direction,
		})
	}
	return signals
}

// SignalName replaces the port's direction suffix with _in_s or _out_s.
// A name without the suffix keeps its full text.
func (g *Generator) SignalName(port models.PortDeclaration) string {
	suffix, replacement := g.opts.OutputSuffix, OutputSignalSuffix
	if port.Direction == models.DirectionIn {
		suffix, replacement = g.opts.InputSuffix, InputSignalSuffix
	}
	return trimSuffixFold(port.Name, suffix) + replacement
}

// trimSuffixFold removes suffix from s, ignoring case, unless nothing
// would be left.
func trimSuffixFold(s, suffix string) string {
	if suffix == "" || len(s) <= len(suffix) {
		return s
	}
	if strings.EqualFold(s[len(s)-len(suffix):], suffix) {
		return s[:len(s)-len(suffix)]
	}
	return s
}
