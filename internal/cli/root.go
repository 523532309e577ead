package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"ledger/internal/account"
	"ledger/internal/backend"
	"ledger/internal/category"
	"ledger/internal/config"
	"ledger/internal/ledger"
	applog "ledger/internal/log"
	"ledger/internal/prompt"
)

// UserEnvVar supplies --user when the flag is not given.
const UserEnvVar = "LEDGER_USER"

var ErrNoUser = errors.New("no user selected: pass --user or set " + UserEnvVar)

// app carries the state shared by every command of one invocation.
type app struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer
	now    func() time.Time

	configPath string
	userID     string
	verbose    bool

	cfg      *config.Config
	logger   *applog.Logger
	accounts *account.Store
	backend  *backend.BackendResult
	factory  backend.Factory
}

// NewRootCommand builds the command tree reading from in and printing to out.
// Log lines go to errOut.
func NewRootCommand(in io.Reader, out, errOut io.Writer) *cobra.Command {
	return newRootCommand(&app{in: in, out: out, errOut: errOut, now: time.Now})
}

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "ledger",
		Short: "Personal income and expense ledger",
		Long: `ledger records income and expense transactions per user, summarises them
by day, month and category, and exports filtered selections.

Example Usage:
  ledger user signup alice
  ledger --user u001 add expense 12.50 Food --description lunch
  ledger --user u001 summary monthly 2024-01
  ledger --user u001 export --format csv --format xlsx --month 2024-01`,
		SilenceUsage:       true,
		SilenceErrors:      true,
		PersistentPreRunE:  func(cmd *cobra.Command, _ []string) error { return a.setup(cmd) },
		PersistentPostRunE: func(*cobra.Command, []string) error { return a.close() },
	}
	root.SetIn(a.in)
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "Path to a TOML configuration file (default $"+config.ConfigEnvVar+")")
	root.PersistentFlags().StringVarP(&a.userID, "user", "u", "", "User id to operate on (default $"+UserEnvVar+")")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(
		a.userCommand(),
		a.addCommand(),
		a.updateCommand(),
		a.deleteCommand(),
		a.listCommand(),
		a.summaryCommand(),
		a.breakdownCommand(),
		a.topCommand(),
		a.categoriesCommand(),
		a.exportCommand(),
		a.workerCommand(),
	)
	return root
}

// setup loads configuration and stores the logger on the command context.
func (a *app) setup(cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := LoadAndValidateConfig(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = SetupLogger(cfg, a.verbose, a.errOut)
	a.accounts = account.NewStore(cfg.UsersFile)
	if a.userID == "" {
		a.userID = os.Getenv(UserEnvVar)
	}
	if a.factory == nil {
		a.factory = backend.NewFactory(a.logger.Logger)
	}

	a.logger.DebugContext(ctx, "Configuration loaded",
		applog.FieldBackend, cfg.DataBackend,
		"data_dir", cfg.DataDir,
		"users_file", cfg.UsersFile)
	cmd.SetContext(applog.NewContext(ctx, a.logger))
	return nil
}

func (a *app) close() error {
	if a.backend == nil {
		return nil
	}
	err := a.backend.Close()
	a.backend = nil
	return err
}

// currentUser returns the selected user id after checking it exists.
func (a *app) currentUser() (string, error) {
	if a.userID == "" {
		return "", ErrNoUser
	}
	ok, err := a.accounts.Exists(a.userID)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("%w: %s", account.ErrUserNotFound, a.userID)
	}
	return a.userID, nil
}

// openLedger creates the configured backend on first use and loads the
// current user's ledger from it.
func (a *app) openLedger(ctx context.Context) (*ledger.Ledger, error) {
	userID, err := a.currentUser()
	if err != nil {
		return nil, err
	}
	res, err := a.openBackend(ctx)
	if err != nil {
		return nil, err
	}
	return ledger.New(ctx, res.Stores.ForUser(userID),
		ledger.WithUser(userID),
		ledger.WithNotifier(res.Notifier)), nil
}

// openBackend creates the configured backend once per invocation.
func (a *app) openBackend(ctx context.Context) (*backend.BackendResult, error) {
	if a.backend != nil {
		return a.backend, nil
	}
	bc, err := backend.FromAppConfig(a.cfg)
	if err != nil {
		return nil, err
	}
	res, err := a.factory.CreateBackend(ctx, bc)
	if err != nil {
		return nil, fmt.Errorf("open %s backend: %w", bc.Type, err)
	}
	a.backend = res
	return res, nil
}

func (a *app) registry(ctx context.Context) (*category.Registry, error) {
	userID, err := a.currentUser()
	if err != nil {
		return nil, err
	}
	return category.Load(ctx, a.accounts, userID)
}

func (a *app) prompter() *prompt.Prompter {
	return prompt.New(a.in, a.out)
}
