package main

import (
	stderrors "errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/toyz/simpl/internal/cli"
	"github.com/toyz/simpl/internal/errors"
	"github.com/toyz/simpl/internal/utils"
)

// Exit codes
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// command describes a CLI subcommand.
type command struct {
	name  string
	short string
	usage string
	long  string
	run   func(s *session, args []string) error
}

var commands []command

func init() {
	commands = []command{
		{
			name:  "files",
			short: "Print the resolved source file list of a project",
			usage: "simpl files [--absolute] <project>",
			long: `Resolve the project manifest and its dependencies and print every
source file, dependency files first, one per line.

Paths are relative to the project directory unless --absolute is given.
`,
			run: runFiles,
		},
		{
			name:  "check",
			short: "Write the Vivado syntax-check script of a project",
			usage: "simpl check <project>",
			long: `Resolve the project and write <project>/syn/_syntax/syntax_check.tcl.

The script adds every resolved file in compile order and runs
check_syntax. The Vivado invocation is printed, not executed.
`,
			run: runCheck,
		},
		{
			name:  "testbench",
			short: "Generate a testbench skeleton for a project entity",
			usage: "simpl testbench [--stdout] [--entity <name>] <project>",
			long: `Extract the port clause of the project's top entity and write
<project>/sim/<entity>_tb.vhd with a component declaration, one signal per
port, a DUT instantiation and a clock process when a clock port is found.

The entity defaults to the project name. --stdout prints the testbench
instead of writing it.
`,
			run: runTestbench,
		},
		{
			name:  "components",
			short: "Print component declarations of a project's dependencies",
			usage: "simpl components <project>",
			long: `Print a component declaration for the top entity of every direct
dependency of the project, in manifest order. A dependency's top entity is
its top: property, or the name of its manifest file.
`,
			run: runComponents,
		},
		{
			name:  "add-files",
			short: "List the project's hdl/*.vhd files in its manifest",
			usage: "simpl add-files <project>",
			long: `Append every hdl/*.vhd file of the project that its manifest does not
list yet to the manifest's files: section. Files already listed are left
alone.
`,
			run: runAddFiles,
		},
		{
			name:  "help",
			short: "Show usage, or the long help of one command",
			usage: "simpl help [command]",
			long:  "Show usage, or the long help of one command.\n",
			run:   runHelp,
		},
	}
}

// session carries the state shared by one invocation.
type session struct {
	stdout      io.Writer
	stderr      io.Writer
	getenv      func(string) string
	getwd       func() (string, error)
	diagnostics *utils.DiagnosticSystem
	reporter    *cli.DiagnosticReporter

	root    string
	config  string
	verbose bool
	quiet   bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr, os.Getenv, os.Getwd))
}

// run executes one invocation and returns the process exit code.
func run(args []string, stdout, stderr io.Writer, getenv func(string) string, getwd func() (string, error)) int {
	s := &session{stdout: stdout, stderr: stderr, getenv: getenv, getwd: getwd}
	s.reporter = cli.NewDiagnosticReporter(stderr, false)

	global := flag.NewFlagSet("simpl", flag.ContinueOnError)
	global.SetOutput(io.Discard)
	global.StringVar(&s.root, "root", "", "Workspace root (defaults to $PROJECT_ROOT or the nearest directory with simpl.yaml)")
	global.StringVar(&s.config, "config", "", "Configuration file (defaults to <root>/simpl.yaml)")
	global.BoolVar(&s.verbose, "verbose", false, "Enable verbose output and detailed error reporting")
	global.BoolVar(&s.quiet, "quiet", false, "Only show errors and command results")

	if err := global.Parse(args); err != nil {
		if stderrors.Is(err, flag.ErrHelp) {
			printUsage(stdout, global)
			return exitOK
		}
		s.reporter.ReportError(errors.NewUsageError("%s", err.Error()).
			WithSuggestion("Run 'simpl help' for usage"))
		return exitUsage
	}

	s.reporter = cli.NewDiagnosticReporter(stderr, s.verbose)
	switch {
	case s.quiet:
		s.diagnostics = utils.NewQuietDiagnostics()
	case s.verbose:
		s.diagnostics = utils.NewVerboseDiagnostics()
	default:
		s.diagnostics = utils.NewDiagnosticSystem(utils.DiagnosticInfo)
	}
	if stdout != io.Writer(os.Stdout) || stderr != io.Writer(os.Stderr) {
		s.diagnostics.WithWriters(stdout, stderr)
	}

	rest := global.Args()
	if len(rest) == 0 {
		printUsage(stdout, global)
		return exitUsage
	}

	cmd, ok := findCommand(rest[0])
	if !ok {
		s.reporter.ReportError(errors.NewUsageError("unknown command %q", rest[0]).
			WithSuggestion("Run 'simpl help' for usage"))
		return exitUsage
	}

	if err := cmd.run(s, rest[1:]); err != nil {
		s.reporter.ReportError(err)
		return exitCode(err)
	}
	return exitOK
}

// exitCode maps an error to the process exit code.
func exitCode(err error) int {
	switch errors.CodeOf(err) {
	case errors.UsageErrorCode, errors.ConfigurationErrorCode:
		return exitUsage
	default:
		return exitError
	}
}

func findCommand(name string) (command, bool) {
	for _, cmd := range commands {
		if cmd.name == name {
			return cmd, true
		}
	}
	return command{}, false
}

func printUsage(w io.Writer, global *flag.FlagSet) {
	fmt.Fprintf(w, "simpl - VHDL project helper\n\n")
	fmt.Fprintf(w, "Usage:\n  simpl [global flags] <command> [flags] <project>\n\n")
	fmt.Fprintf(w, "Commands:\n")
	for _, cmd := range commands {
		fmt.Fprintf(w, "  %-11s %s\n", cmd.name, cmd.short)
	}
	fmt.Fprintf(w, "\nGlobal flags:\n")
	global.SetOutput(w)
	global.PrintDefaults()
	global.SetOutput(io.Discard)
	fmt.Fprintf(w, "\nRun 'simpl help <command>' for details on a specific command.\n")
}

func printCommandHelp(w io.Writer, cmd command, flags *flag.FlagSet) {
	fmt.Fprintf(w, "Usage: %s\n\n%s", cmd.usage, cmd.long)
	if flags != nil && hasFlags(flags) {
		fmt.Fprintf(w, "\nFlags:\n")
		flags.SetOutput(w)
		flags.PrintDefaults()
	}
}

func hasFlags(flags *flag.FlagSet) bool {
	n := 0
	flags.VisitAll(func(*flag.Flag) { n++ })
	return n > 0
}

// parseCommand parses the flags of cmd and returns its single project
// argument. done is true when help was requested and printed.
func (s *session) parseCommand(name string, flags *flag.FlagSet, args []string) (project string, done bool, err error) {
	cmd, _ := findCommand(name)
	flags.SetOutput(io.Discard)
	if err := flags.Parse(args); err != nil {
		if stderrors.Is(err, flag.ErrHelp) {
			printCommandHelp(s.stdout, cmd, flags)
			return "", true, nil
		}
		return "", false, errors.NewUsageError("%s: %s", name, err.Error()).
			WithSuggestion("Usage: " + cmd.usage)
	}
	if flags.NArg() != 1 {
		return "", false, errors.NewUsageError("%s expects exactly one project, got %d", name, flags.NArg()).
			WithSuggestion("Usage: " + cmd.usage)
	}
	return flags.Arg(0), false, nil
}

// open locates and loads the workspace and the named project.
func (s *session) open(name string) (*cli.Workspace, *cli.Project, error) {
	root, err := cli.NewRootFinderFunc(s.getenv, s.getwd).FindRoot(s.root)
	if err != nil {
		return nil, nil, err
	}
	s.diagnostics.Verbose("workspace root: %s", root)

	ws, err := cli.OpenWorkspace(root, s.config)
	if err != nil {
		return nil, nil, err
	}

	project, err := ws.Project(name)
	if err != nil {
		return nil, nil, err
	}
	s.diagnostics.Debug("manifest: %s", project.ManifestPath)
	return ws, project, nil
}

func runFiles(s *session, args []string) error {
	flags := flag.NewFlagSet("files", flag.ContinueOnError)
	absolute := flags.Bool("absolute", false, "Print absolute paths")

	name, done, err := s.parseCommand("files", flags, args)
	if err != nil || done {
		return err
	}

	ws, project, err := s.open(name)
	if err != nil {
		return err
	}

	s.diagnostics.StartProgress("Resolving " + project.ManifestPath)
	set, err := ws.ResolveFiles(project)
	if err != nil {
		return err
	}
	s.diagnostics.EndProgress("Resolving " + project.ManifestPath)

	paths := set.Paths()
	if *absolute {
		paths = set.Absolute(ws.Root)
	}
	for _, p := range paths {
		s.diagnostics.Print("%s", p)
	}

	s.diagnostics.Summary("Resolved "+project.Name, map[string]interface{}{
		"Files":     set.Len(),
		"Manifests": len(set.Manifests),
	})
	return nil
}

func runCheck(s *session, args []string) error {
	flags := flag.NewFlagSet("check", flag.ContinueOnError)

	name, done, err := s.parseCommand("check", flags, args)
	if err != nil || done {
		return err
	}

	ws, project, err := s.open(name)
	if err != nil {
		return err
	}

	result, err := ws.WriteSyntaxCheck(project)
	if err != nil {
		return err
	}

	if s.diagnostics.Level() >= utils.DiagnosticVerbose {
		s.diagnostics.Subsection("Files")
		for _, f := range result.Files {
			s.diagnostics.List("%s", f)
		}
	}

	s.diagnostics.Print("%s", result.ScriptPath)
	s.diagnostics.Info("run: cd %s && %s", result.WorkDir, strings.Join(result.Command, " "))
	return nil
}

func runTestbench(s *session, args []string) error {
	flags := flag.NewFlagSet("testbench", flag.ContinueOnError)
	toStdout := flags.Bool("stdout", false, "Print the testbench instead of writing it")
	entity := flags.String("entity", "", "Entity to generate for (defaults to the project name)")

	name, done, err := s.parseCommand("testbench", flags, args)
	if err != nil || done {
		return err
	}

	ws, project, err := s.open(name)
	if err != nil {
		return err
	}

	artifact, err := ws.GenerateTestbench(project, *entity)
	if err != nil {
		return err
	}

	if *toStdout {
		fmt.Fprint(s.stdout, artifact.Content)
		return nil
	}

	target, err := ws.WriteArtifact(artifact)
	if err != nil {
		return err
	}
	s.diagnostics.Print("%s", target)
	s.diagnostics.Success("testbench written")
	return nil
}

func runComponents(s *session, args []string) error {
	flags := flag.NewFlagSet("components", flag.ContinueOnError)

	name, done, err := s.parseCommand("components", flags, args)
	if err != nil || done {
		return err
	}

	ws, project, err := s.open(name)
	if err != nil {
		return err
	}

	text, interfaces, err := ws.DependencyComponents(project)
	if err != nil {
		return err
	}
	if len(interfaces) == 0 {
		s.reporter.ReportWarning(fmt.Sprintf("%s has no dependencies", project.Name))
		return nil
	}

	fmt.Fprint(s.stdout, text)
	for _, model := range interfaces {
		s.diagnostics.Verbose("%s from %s", model.EntityName, model.SourceFile)
	}
	return nil
}

func runAddFiles(s *session, args []string) error {
	flags := flag.NewFlagSet("add-files", flag.ContinueOnError)

	name, done, err := s.parseCommand("add-files", flags, args)
	if err != nil || done {
		return err
	}

	ws, project, err := s.open(name)
	if err != nil {
		return err
	}

	added, err := ws.AddHDLFiles(project)
	if err != nil {
		return err
	}
	if len(added) == 0 {
		s.diagnostics.Info("%s already lists every %s/*.vhd file", project.ManifestPath, cli.HDLDir)
		return nil
	}

	for _, f := range added {
		s.diagnostics.Print("%s", f)
	}
	s.diagnostics.Success("added %d file(s) to %s", len(added), project.ManifestPath)
	return nil
}

func runHelp(s *session, args []string) error {
	if len(args) == 0 {
		fmt.Fprintf(s.stdout, "Run 'simpl help <command>' for details on a specific command.\n\nCommands:\n")
		for _, cmd := range commands {
			fmt.Fprintf(s.stdout, "  %-11s %s\n", cmd.name, cmd.short)
		}
		return nil
	}

	cmd, ok := findCommand(args[0])
	if !ok {
		return errors.NewUsageError("unknown command %q", args[0]).
			WithSuggestion("Run 'simpl help' for usage")
	}
	printCommandHelp(s.stdout, cmd, nil)
	return nil
}
