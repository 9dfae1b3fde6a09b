// Package cli provides the Cobra-based CLI for storefront.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"storefront/catalog"
	"storefront/domain"
	"storefront/insight"
	"storefront/logx"
	"storefront/state"
	"storefront/store"
)

var (
	rootCmd = &cobra.Command{
		Use:           "storefront",
		Short:         "Browse the product catalog and manage a shopping cart",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setup(cmd)
		},
	}

	// set by setup, or injected by tests
	kv       domain.KVStore
	fetcher  *catalog.Fetcher
	insights *insight.Service
	appState *state.Store
	currency = domain.CurrencyUSD

	// colorScheme overrides the terminal probe used to seed the theme.
	colorScheme func() bool
	logFile     *os.File
)

func setup(cmd *cobra.Command) error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("load .env: %w", err)
	}

	if cfg := viper.GetString("config"); cfg != "" {
		viper.SetConfigFile(cfg)
		if err := viper.ReadInConfig(); err != nil {
			return err
		}
	}

	if err := initLogging(cmd); err != nil {
		return err
	}

	c, err := domain.ParseCurrency(viper.GetString("currency"))
	if err != nil {
		return err
	}
	currency = c

	ctx := cmd.Context()
	if kv == nil {
		kv, err = store.NewStore(ctx, viper.GetString("store"), viper.GetString("store-path"))
		if err != nil {
			return err
		}
	}
	if fetcher == nil {
		fetcher = catalog.NewFetcher(catalog.Options{
			BaseURL:    viper.GetString("catalog-url"),
			Limit:      viper.GetInt("catalog-limit"),
			GuardStale: viper.GetBool("guard-stale"),
		})
	}
	if insights == nil {
		insights, err = insight.NewFromEnv(ctx)
		if err != nil {
			return err
		}
	}
	if appState == nil {
		appState = state.New(context.WithoutCancel(ctx), kv, state.Options{ColorScheme: colorScheme})
	}
	return nil
}

// initLogging sends logs to stderr, except for the browser which owns the
// terminal and logs to --log-file or nowhere.
func initLogging(cmd *cobra.Command) error {
	level := viper.GetString("log-level")
	path := viper.GetString("log-file")
	if path != "" && logFile == nil {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		logFile = f
	}
	switch {
	case logFile != nil:
		logx.Init(logx.Options{Level: level, Writer: logFile})
	case cmd.Name() == "browse":
		logx.Disable()
	default:
		logx.Init(logx.Options{Level: level, Writer: os.Stderr, Console: true})
	}
	return nil
}

func init() {
	// shell
	shellCmd := &cobra.Command{
		Use:   "shell",
		Short: "Interactive shell mode",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShell(cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	rootCmd.AddCommand(shellCmd)

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file")
	flags.String("log-level", "info", "log level: debug|info|warn|error")
	flags.String("log-file", "", "write logs to this file")
	flags.String("store", "file", "store backend: memory|file|sqlite|redis")
	flags.String("store-path", "data/storefront.json", "file or sqlite path, or redis URL")
	flags.String("catalog-url", catalog.DefaultBaseURL, "catalog service base URL")
	flags.Int("catalog-limit", catalog.DefaultLimit, "products requested per fetch")
	flags.Bool("guard-stale", false, "discard responses of superseded fetches")
	flags.String("currency", domain.CurrencyUSD, "display currency: USD|INR")

	for _, name := range []string{
		"config", "log-level", "log-file", "store", "store-path",
		"catalog-url", "catalog-limit", "guard-stale", "currency",
	} {
		_ = viper.BindPFlag(name, flags.Lookup(name))
	}
	viper.SetEnvPrefix("STOREFRONT")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

// runShell re-dispatches each input line as a command until exit or EOF.
func runShell(in io.Reader, out, errOut io.Writer) error {
	r := bufio.NewReader(in)
	for {
		fmt.Fprint(out, "storefront> ")
		line, err := r.ReadString('\n')
		line = strings.TrimSpace(line)
		if line == "exit" || line == "quit" {
			return nil
		}
		if line != "" {
			args := strings.Fields(line)
			if args[0] == "shell" {
				fmt.Fprintln(errOut, "already in shell")
			} else {
				resetCommandFlags(rootCmd)
				rootCmd.SetArgs(args)
				if err := rootCmd.Execute(); err != nil {
					fmt.Fprintln(errOut, domain.UserMessage(err))
				}
				rootCmd.SetArgs(nil)
			}
		}
		if err != nil {
			return nil
		}
	}
}

// resetCommandFlags restores the flags of every subcommand to their defaults
// so one shell line does not leak into the next. Root persistent flags keep
// the values the shell was started with.
func resetCommandFlags(cmd *cobra.Command) {
	for _, c := range cmd.Commands() {
		c.LocalFlags().VisitAll(func(f *pflag.Flag) {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		})
		resetCommandFlags(c)
	}
}

func teardown() {
	if appState != nil {
		appState.Close()
	}
	if kv != nil {
		if err := store.Close(kv); err != nil {
			logx.Warn().Err(err).Msg("failed to close store")
		}
	}
	if logFile != nil {
		_ = logFile.Close()
	}
	appState, kv, fetcher, insights, logFile = nil, nil, nil, nil, nil
}

func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer teardown()
	return rootCmd.ExecuteContext(ctx)
}
