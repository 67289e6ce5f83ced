package generator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/simpl/internal/errors"
	"github.com/toyz/simpl/internal/models"
	"github.com/toyz/simpl/internal/parser"
	"github.com/toyz/simpl/internal/templates"
)

func port(name string, dir models.Direction, typ string) models.PortDeclaration {
	return models.PortDeclaration{Name: name, Direction: dir, TypeExpression: typ}
}

func TestSignalName(t *testing.T) {
	g := NewGenerator(DefaultOptions())

	tests := []struct {
		port models.PortDeclaration
		want string
	}{
		{port("data_o", models.DirectionOut, "bit"), "data_out_s"},
		{port("clk_i", models.DirectionIn, "bit"), "clk_in_s"},
		{port("RST_I", models.DirectionIn, "bit"), "RST_in_s"},
		{port("enable", models.DirectionIn, "bit"), "enable_in_s"},
		{port("ready_i", models.DirectionOut, "bit"), "ready_i_out_s"},
		{port("_o", models.DirectionOut, "bit"), "_o_out_s"},
	}

	for _, tt := range tests {
		t.Run(tt.port.Name, func(t *testing.T) {
			assert.Equal(t, tt.want, g.SignalName(tt.port))
		})
	}
}

func TestSignalName_CustomSuffix(t *testing.T) {
	g := NewGenerator(Options{InputSuffix: "_in", OutputSuffix: "_out"})
	assert.Equal(t, "a_in_s", g.SignalName(port("a_in", models.DirectionIn, "bit")))
	assert.Equal(t, "b_out_s", g.SignalName(port("b_out", models.DirectionOut, "bit")))
}

func TestDeriveSignals_SkipsPassThrough(t *testing.T) {
	model := &models.InterfaceModel{
		EntityName: "e",
		Ports: []models.PortDeclaration{
			{IsComment: true, Raw: "-- inputs"},
			port("a_i", models.DirectionIn, "std_logic"),
			{IsBlank: true},
			port("y_o", models.DirectionOut, "unsigned(3 downto 0)"),
		},
	}

	signals := NewGenerator(DefaultOptions()).DeriveSignals(model)
	assert.Equal(t, []models.DerivedSignal{
		{PortName: "a_i", SignalName: "a_in_s", SignalType: "std_logic", Direction: models.DirectionIn},
		{PortName: "y_o", SignalName: "y_out_s", SignalType: "unsigned(3 downto 0)", Direction: models.DirectionOut},
	}, signals)
}

func TestInstantiation_Terminator(t *testing.T) {
	g := NewGenerator(DefaultOptions())

	for n := 1; n <= 4; n++ {
		model := &models.InterfaceModel{EntityName: "e"}
		for i := 0; i < n; i++ {
			model.Ports = append(model.Ports, port("p"+string(rune('a'+i))+"_i", models.DirectionIn, "bit"))
		}
		// a trailing comment must not shift the terminator
		model.Ports = append(model.Ports, models.PortDeclaration{IsComment: true})

		lines := strings.Split(strings.TrimSuffix(g.Instantiation(model, DUTLabel), "\n"), "\n")
		require.Len(t, lines, n+2)
		assoc := lines[1 : len(lines)-1]

		withComma := 0
		for _, l := range assoc {
			if strings.HasSuffix(l, ",") {
				withComma++
			}
		}
		assert.Equal(t, n-1, withComma)
		assert.False(t, strings.HasSuffix(assoc[len(assoc)-1], ","))
		assert.Equal(t, "\t);", lines[len(lines)-1])
	}
}

func TestInstantiation_NoPorts(t *testing.T) {
	got := NewGenerator(DefaultOptions()).Instantiation(&models.InterfaceModel{EntityName: "e"}, "U1")
	assert.Equal(t, "\tU1: e;\n", got)
}

func TestComponentDeclaration(t *testing.T) {
	g := NewGenerator(DefaultOptions())

	t.Run("generics and ports", func(t *testing.T) {
		model := &models.InterfaceModel{
			EntityName:   "fifo",
			GenericLines: []string{"\tDEPTH : natural := 16"},
			PortLines:    []string{"\tclk_i : in std_logic;", "\tempty_o : out std_logic"},
			Ports: []models.PortDeclaration{
				port("clk_i", models.DirectionIn, "std_logic"),
				port("empty_o", models.DirectionOut, "std_logic"),
			},
		}
		want := "\tcomponent fifo is\n" +
			"\tgeneric (\n" +
			"\t\tDEPTH : natural := 16\n" +
			"\t);\n" +
			"\tport (\n" +
			"\t\tclk_i : in std_logic;\n" +
			"\t\tempty_o : out std_logic\n" +
			"\t);\n" +
			"\tend component;\n"
		assert.Equal(t, want, g.ComponentDeclaration(model, "\t"))
	})

	t.Run("placeholder clauses are dropped", func(t *testing.T) {
		model := &models.InterfaceModel{
			EntityName:   "blank",
			GenericLines: []string{"\t-- INSERT_GENERIC_HERE"},
			PortLines:    []string{"\t-- INSERT_PORTS_HERE"},
			Ports:        []models.PortDeclaration{{IsComment: true}},
		}
		assert.Equal(t, "component blank is\nend component;\n", g.ComponentDeclaration(model, ""))
	})
}

func TestComponents(t *testing.T) {
	g := NewGenerator(DefaultOptions())
	out := g.Components([]*models.InterfaceModel{{EntityName: "a"}, {EntityName: "b"}})
	assert.Equal(t, "\tcomponent a is\n\tend component;\n\n\tcomponent b is\n\tend component;\n", out)
	assert.Empty(t, g.Components(nil))
}

func TestClockProcess(t *testing.T) {
	g := NewGenerator(DefaultOptions())

	t.Run("single clock", func(t *testing.T) {
		model := &models.InterfaceModel{EntityName: "e", Ports: []models.PortDeclaration{
			port("clk_i", models.DirectionIn, "std_logic"),
			port("q_o", models.DirectionOut, "std_logic"),
		}}
		out, err := g.ClockProcess(model)
		require.NoError(t, err)
		assert.Equal(t, 1, strings.Count(out, "process\n"))
		assert.Contains(t, out, "\t\tclk_in_s <= '0';\n\t\twait for 5 ns;\n\t\tclk_in_s <= '1';\n")
	})

	t.Run("no clock", func(t *testing.T) {
		model := &models.InterfaceModel{EntityName: "e", Ports: []models.PortDeclaration{
			port("a_i", models.DirectionIn, "std_logic"),
		}}
		out, err := g.ClockProcess(model)
		require.NoError(t, err)
		assert.Empty(t, out)
	})

	t.Run("clock outputs are not candidates", func(t *testing.T) {
		model := &models.InterfaceModel{EntityName: "e", Ports: []models.PortDeclaration{
			port("clk_i", models.DirectionIn, "std_logic"),
			port("clk_div_o", models.DirectionOut, "std_logic"),
		}}
		assert.Len(t, g.ClockCandidates(model), 1)
	})

	t.Run("ambiguous", func(t *testing.T) {
		model := &models.InterfaceModel{EntityName: "e", Ports: []models.PortDeclaration{
			port("sys_CLK_i", models.DirectionIn, "std_logic"),
			port("ref_clock_i", models.DirectionIn, "std_logic"),
		}}
		_, err := g.ClockProcess(model)
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrAmbiguousClockPort)
		assert.Contains(t, err.Error(), "sys_CLK_i, ref_clock_i")
	})

	t.Run("custom half period", func(t *testing.T) {
		g := NewGenerator(Options{ClockIndicators: []string{"tick"}, HalfPeriod: "10 ns"})
		model := &models.InterfaceModel{EntityName: "e", Ports: []models.PortDeclaration{
			port("tick", models.DirectionIn, "bit"),
		}}
		out, err := g.ClockProcess(model)
		require.NoError(t, err)
		assert.Contains(t, out, "tick_in_s <= '1';\n\t\twait for 10 ns;\n")
	})
}

const dutSource = `library ieee;
use ieee.std_logic_1164.all;

entity dut is
port (
	clk_i : in std_logic;
	data_o : out std_logic_vector(7 downto 0)
);
end entity;
`

func TestTestbench(t *testing.T) {
	model, err := parser.Extract(dutSource, "dut")
	require.NoError(t, err)

	artifact, err := NewGenerator(DefaultOptions()).Testbench(model)
	require.NoError(t, err)

	assert.Equal(t, "testbench", artifact.Name)
	assert.Equal(t, "sim/dut_tb.vhd", artifact.FilePath)

	want := "library ieee;\n" +
		"use ieee.std_logic_1164.all;\n" +
		"use ieee.numeric_std.all;\n" +
		"\n" +
		"entity dut_tb is\n" +
		"end entity;\n" +
		"\n" +
		"architecture rtl of dut_tb is\n" +
		"\n" +
		"\tcomponent dut is\n" +
		"\tport (\n" +
		"\t\tclk_i : in std_logic;\n" +
		"\t\tdata_o : out std_logic_vector(7 downto 0)\n" +
		"\t);\n" +
		"\tend component;\n" +
		"\n" +
		"\tsignal clk_in_s: std_logic;\n" +
		"\tsignal data_out_s: std_logic_vector(7 downto 0);\n" +
		"\n" +
		"begin\n" +
		"\n" +
		"\tDUT: dut port map (\n" +
		"\t\tclk_i => clk_in_s,\n" +
		"\t\tdata_o => data_out_s\n" +
		"\t);\n" +
		"\n" +
		"\tclk_process: process\n" +
		"\tbegin\n" +
		"\t\tclk_in_s <= '0';\n" +
		"\t\twait for 5 ns;\n" +
		"\t\tclk_in_s <= '1';\n" +
		"\t\twait for 5 ns;\n" +
		"\tend process;\n" +
		"\n" +
		"end architecture;\n"
	assert.Equal(t, want, artifact.Content)
}

func TestTestbench_Errors(t *testing.T) {
	g := NewGenerator(DefaultOptions())

	_, err := g.Testbench(nil)
	assert.Error(t, err)

	model := &models.InterfaceModel{EntityName: "e", Ports: []models.PortDeclaration{
		port("clk_a_i", models.DirectionIn, "bit"),
		port("clk_b_i", models.DirectionIn, "bit"),
	}}
	_, err = g.Testbench(model)
	assert.ErrorIs(t, err, errors.ErrAmbiguousClockPort)
}

func TestTestbench_CustomTemplate(t *testing.T) {
	registry := templates.NewTemplateRegistry()
	require.NoError(t, registry.Register(templates.TestbenchName, "{{.Entity}}|{{.Signals}}"))

	g := NewGeneratorWithTemplates(DefaultOptions(), registry)
	artifact, err := g.Testbench(&models.InterfaceModel{EntityName: "e", Ports: []models.PortDeclaration{
		port("a_i", models.DirectionIn, "bit"),
	}})
	require.NoError(t, err)
	assert.Equal(t, "e|\tsignal a_in_s: bit;\n", artifact.Content)
}
