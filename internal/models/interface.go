package models

import "strings"

// Direction is the mode of a port. Only two modes are modelled.
type Direction int

const (
	DirectionNone Direction = iota // pass-through entries carry no direction
	DirectionIn
	DirectionOut
)

// String returns the VHDL keyword style name of the direction
func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "IN"
	case DirectionOut:
		return "OUT"
	default:
		return "NONE"
	}
}

// PortDeclaration is one entry of a port clause. Comment-only and blank
// lines are kept as pass-through entries so their position survives.
type PortDeclaration struct {
	Name           string    // port identifier as written
	Direction      Direction // IN or OUT, DirectionNone for pass-through entries
	TypeExpression string    // raw type text with the direction keyword removed
	IsComment      bool      // comment-only line
	IsBlank        bool      // empty line
	Raw            string    // source text: the whole line for pass-through entries, the entry otherwise
	Line           int       // 1-based line within the source file
}

// IsPassThrough reports whether the entry is a comment or blank line.
func (p PortDeclaration) IsPassThrough() bool {
	return p.IsComment || p.IsBlank
}

// InterfaceModel is the extracted interface of one entity.
type InterfaceModel struct {
	EntityName   string            // declared identifier
	SourceFile   string            // file the declaration was read from, may be empty
	GenericLines []string          // raw lines of the generic clause body, verbatim
	PortLines    []string          // raw lines of the port clause body, verbatim
	Ports        []PortDeclaration // port entries and pass-through lines in order
}

// HasGenerics reports whether the generic clause declares anything besides
// comments and blank lines.
func (m *InterfaceModel) HasGenerics() bool {
	for _, line := range m.GenericLines {
		code := line
		if i := strings.Index(code, "--"); i >= 0 {
			code = code[:i]
		}
		if strings.TrimSpace(code) != "" {
			return true
		}
	}
	return false
}

// SignalPorts returns the ports that are not pass-through entries.
func (m *InterfaceModel) SignalPorts() []PortDeclaration {
	var ports []PortDeclaration
	for _, p := range m.Ports {
		if !p.IsPassThrough() {
			ports = append(ports, p)
		}
	}
	return ports
}

// DerivedSignal is the testbench signal paired with one port.
type DerivedSignal struct {
	PortName   string    // port the signal is associated with
	SignalName string    // port name with its direction suffix replaced by _in_s / _out_s
	SignalType string    // the port's type expression
	Direction  Direction // direction of the port
}
