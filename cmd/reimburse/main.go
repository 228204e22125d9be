// Command reimburse is a terminal client for the reimbursement engine: it
// submits invoices, shows outcomes and balances, and manages categories.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	flag "github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/garyjia/benefit-reimbursement/internal/config"
	"github.com/garyjia/benefit-reimbursement/internal/infrastructure/engine"
	"github.com/garyjia/benefit-reimbursement/internal/presenter"
	"github.com/garyjia/benefit-reimbursement/pkg/utils"
)

const usage = `Usage: reimburse [global flags] <command> [flags]

Commands:
  employees                 list employees
  submit                    submit an invoice for an employee
  show <request-id>         show a submitted reimbursement
  balances                  show an employee's remaining balances
  categories <action>       list, add, update, delete categories and keywords
  history                   list locally journaled submissions

Global flags:
`

// errUsage marks a bad invocation; the usage text has already been printed
var errUsage = errors.New("usage")

type app struct {
	cfg       *config.Config
	logger    *zap.Logger
	client    *engine.Client
	presenter *presenter.Presenter
	out       io.Writer
	errOut    io.Writer
}

type command func(ctx context.Context, a *app, args []string) error

var commands = map[string]command{
	"employees":  runEmployees,
	"submit":     runSubmit,
	"show":       runShow,
	"balances":   runBalances,
	"categories": runCategories,
	"history":    runHistory,
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, out, errOut io.Writer) int {
	fs := flag.NewFlagSet("reimburse", flag.ContinueOnError)
	fs.SetOutput(errOut)
	fs.SetInterspersed(false)
	configPath := fs.String("config", "", "path to the YAML configuration file")
	engineURL := fs.String("engine", "", "decision engine base URL (overrides config)")
	verbose := fs.BoolP("verbose", "v", false, "log debug output to stderr")
	fs.Usage = func() {
		fmt.Fprint(errOut, usage)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	name := fs.Arg(0)
	cmd, ok := commands[name]
	if !ok {
		fmt.Fprintf(errOut, "unknown command %q\n\n", name)
		fs.Usage()
		return 2
	}

	if err := config.LoadDotEnv(".env"); err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	if *engineURL != "" {
		cfg.Engine.BaseURL = *engineURL
		if err := cfg.Validate(); err != nil {
			fmt.Fprintln(errOut, err)
			return 1
		}
	}

	logger, err := utils.NewCLILogger(*verbose)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	defer logger.Sync()

	a := &app{
		cfg:       cfg,
		logger:    logger,
		client:    engine.NewClient(cfg.EngineConfig(), logger),
		presenter: presenter.New(),
		out:       out,
		errOut:    errOut,
	}

	if err := cmd(ctx, a, fs.Args()[1:]); err != nil {
		if errors.Is(err, errUsage) {
			return 2
		}
		fmt.Fprintf(errOut, "Error: %v\n", err)
		return 1
	}
	return 0
}

// newFlagSet creates a subcommand flag set that reports to the app's stderr
func (a *app) newFlagSet(name, synopsis string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	fs.Usage = func() {
		fmt.Fprintf(a.errOut, "Usage: reimburse %s %s\n", name, synopsis)
		fs.PrintDefaults()
	}
	return fs
}

func (a *app) parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	return nil
}
