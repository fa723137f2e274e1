// Package cli exposes the record store as subcommands.
package cli

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/zatekoja/hospitalrecords/internal/app"
	apperrors "github.com/zatekoja/hospitalrecords/pkg/errors"
)

// Exit codes
const (
	ExitOK         = 0
	ExitValidation = 1
	ExitNotFound   = 2
	ExitFailure    = 3
)

// OpenFunc opens the record store at dbPath. An empty dbPath means the
// configured default.
type OpenFunc func(ctx context.Context, dbPath string) (*app.App, error)

// Runner parses arguments and dispatches to a command
type Runner struct {
	Open   OpenFunc
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	in *bufio.Reader
}

type command struct {
	usage string
	run   func(ctx context.Context, r *Runner, a *app.App, args []string) error
}

var commands = map[string]map[string]command{
	"patient": {
		"add":    {"-name N -age A -address ADDR -contact C", patientAdd},
		"list":   {"", patientList},
		"search": {"-name TERM", patientSearch},
		"show":   {"-id ID", patientShow},
		"edit":   {"-id ID [-name N] [-age A] [-address ADDR] [-contact C]", patientEdit},
		"delete": {"-id ID [-yes]", patientDelete},
	},
	"doctor": {
		"add":    {"-name N -specialty S -schedule S", doctorAdd},
		"list":   {"", doctorList},
		"show":   {"-id ID", doctorShow},
		"edit":   {"-id ID [-name N] [-specialty S] [-schedule S]", doctorEdit},
		"delete": {"-id ID [-yes]", doctorDelete},
	},
	"appointment": {
		"add":    {"-patient ID -doctor ID -date DD/MM/YYYY -time HH:MM", appointmentAdd},
		"list":   {"", appointmentList},
		"show":   {"-id ID", appointmentShow},
		"delete": {"-id ID [-yes]", appointmentDelete},
	},
}

var topLevel = map[string]command{
	"export":  {"-out FILE|-", exportCmd},
	"backup":  {"-out FILE", backupCmd},
	"restore": {"-from FILE [-yes]", restoreCmd},
	"login":   {"-user U -password P", loginCmd},
}

// Run executes args (without the program name) and returns the exit code
func (r *Runner) Run(ctx context.Context, args []string) int {
	r.in = bufio.NewReader(r.Stdin)

	global := flag.NewFlagSet("hospital", flag.ContinueOnError)
	global.SetOutput(r.Stderr)
	dbPath := global.String("db", "", "database file (overrides HOSPITAL_DB_PATH)")
	global.Usage = r.usage
	if err := global.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitOK
		}
		return ExitValidation
	}

	rest := global.Args()
	if len(rest) == 0 {
		r.usage()
		return ExitValidation
	}

	cmd, cmdArgs, err := lookup(rest)
	if err != nil {
		return r.fail(err)
	}

	a, err := r.Open(ctx, *dbPath)
	if err != nil {
		return r.fail(err)
	}
	defer a.Close()

	if err := cmd.run(ctx, r, a, cmdArgs); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitOK
		}
		return r.fail(err)
	}
	return ExitOK
}

func lookup(args []string) (command, []string, error) {
	if cmd, ok := topLevel[args[0]]; ok {
		return cmd, args[1:], nil
	}

	group, ok := commands[args[0]]
	if !ok {
		return command{}, nil, apperrors.NewValidationError(fmt.Sprintf("unknown command %q", args[0]))
	}
	if len(args) < 2 {
		return command{}, nil, apperrors.NewValidationError(fmt.Sprintf("%s needs one of: %s", args[0], strings.Join(sortedKeys(group), ", ")))
	}
	cmd, ok := group[args[1]]
	if !ok {
		return command{}, nil, apperrors.NewValidationError(fmt.Sprintf("unknown command %q %q", args[0], args[1]))
	}
	return cmd, args[2:], nil
}

func (r *Runner) usage() {
	fmt.Fprintln(r.Stderr, "usage: hospital [-db path] <command> [flags]")
	for _, group := range sortedKeys(commands) {
		for _, sub := range sortedKeys(commands[group]) {
			fmt.Fprintf(r.Stderr, "  %s %s %s\n", group, sub, commands[group][sub].usage)
		}
	}
	for _, name := range sortedKeys(topLevel) {
		fmt.Fprintf(r.Stderr, "  %s %s\n", name, topLevel[name].usage)
	}
}

// fail prints err as one line and maps it to an exit code
func (r *Runner) fail(err error) int {
	fmt.Fprintf(r.Stderr, "error: %s\n", apperrors.UserMessage(err))
	return ExitCode(err)
}

// ExitCode maps an error to the process exit status
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	switch apperrors.TypeOf(err) {
	case apperrors.ErrorTypeValidation:
		return ExitValidation
	case apperrors.ErrorTypeNotFound, apperrors.ErrorTypeUnauthorized:
		return ExitNotFound
	default:
		return ExitFailure
	}
}

// confirm asks a yes/no question on stdin. Anything but y or yes declines.
func (r *Runner) confirm(prompt string) bool {
	fmt.Fprintf(r.Stdout, "%s [y/N] ", prompt)
	line, err := r.in.ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(r.Stdout)
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

func (r *Runner) table(header ...string) *tabwriter.Writer {
	tw := tabwriter.NewWriter(r.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	return tw
}

// newFlags returns a flag set whose parse errors are validation errors
func (r *Runner) newFlags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(r.Stderr)
	return fs
}

func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return apperrors.NewValidationError(err.Error())
	}
	if fs.NArg() > 0 {
		return apperrors.NewValidationError(fmt.Sprintf("unexpected argument %q", fs.Arg(0)))
	}
	return nil
}

func requireID(id int64) error {
	if id <= 0 {
		return apperrors.NewValidationError("-id is required")
	}
	return nil
}

// visited returns the names of flags set on the command line
func visited(fs *flag.FlagSet) map[string]bool {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
