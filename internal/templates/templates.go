// Package templates renders the text artifacts written by simpl: the
// testbench skeleton and the Vivado syntax-check script.
package templates

import (
	"bytes"
	"text/template"

	"github.com/toyz/simpl/internal/errors"
)

// TestbenchTemplate wraps the generated fragments into a testbench file.
// Every fragment is expected to end with a newline.
const TestbenchTemplate = `library ieee;
use ieee.std_logic_1164.all;
use ieee.numeric_std.all;

entity {{.Entity}}_tb is
end entity;

architecture rtl of {{.Entity}}_tb is

{{.Component}}
{{.Signals}}
begin

{{.Instantiation}}
{{.ClockProcess}}end architecture;
`

// SyntaxCheckTemplate is the TCL script fed to vivado -mode tcl. Files are
// added in resolution order.
const SyntaxCheckTemplate = `create_project -force -name {{.Project}}
{{range .Files}}add_files "{{.}}"
{{end}}set_property FILE_TYPE {{"{"}}{{.FileType}}{{"}"}} [get_files *.vhd]
check_syntax
exit
`

// TestbenchData holds the rendered fragments of one testbench.
type TestbenchData struct {
	Entity        string
	Component     string
	Signals       string
	Instantiation string
	ClockProcess  string // may be empty
}

// SyntaxCheckScript describes one syntax-check run.
type SyntaxCheckScript struct {
	Project  string   // vivado project name
	Files    []string // source files in compile order
	FileType string   // e.g. VHDL 2008
}

// DefaultSyntaxCheckProject names the throwaway project of a syntax check.
const DefaultSyntaxCheckProject = "syntax_check"

// Render returns the TCL script text.
func (s SyntaxCheckScript) Render() (string, error) {
	if s.Project == "" {
		s.Project = DefaultSyntaxCheckProject
	}
	if s.FileType == "" {
		s.FileType = "VHDL 2008"
	}
	return executeTemplate(SyntaxCheckName, SyntaxCheckTemplate, s)
}

// executeTemplate executes a text template with the given data
func executeTemplate(name, templateStr string, data interface{}) (string, error) {
	tmpl, err := parseTemplate(name, templateStr)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", errors.WrapTemplateError(name, "execute", err)
	}

	return buf.String(), nil
}

func parseTemplate(name, templateStr string) (*template.Template, error) {
	tmpl, err := template.New(name).Option("missingkey=error").Parse(templateStr)
	if err != nil {
		return nil, errors.WrapTemplateError(name, "parse", err)
	}
	return tmpl, nil
}
