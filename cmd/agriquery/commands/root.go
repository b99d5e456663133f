package commands

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/limoonouo/Haoshi-Fruits/config"
	"github.com/limoonouo/Haoshi-Fruits/internal/app"
	"github.com/limoonouo/Haoshi-Fruits/internal/domain/entity"
	"github.com/limoonouo/Haoshi-Fruits/internal/usecase"
	"github.com/limoonouo/Haoshi-Fruits/pkg/logger"
)

// rootFlags override the matching environment variables
type rootFlags struct {
	priceTable  string
	seasonTable string
	aliasesFile string
	encoding    string
	logLevel    string
}

// env everything a subcommand needs, built once in PersistentPreRunE
type env struct {
	cfg     *config.Config
	aliases entity.AliasConfig
	tables  *app.Tables
	log     zerolog.Logger
}

func (e *env) engine(ctx context.Context) (usecase.QueryUseCase, func() error, error) {
	sessions, closeFn, err := app.NewSessionStore(ctx, e.cfg)
	if err != nil {
		return nil, nil, err
	}
	return app.NewEngine(e.cfg, e.aliases, e.tables, sessions, nil, e.log), closeFn, nil
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	e := &env{}

	root := &cobra.Command{
		Use:   "agriquery",
		Short: "Query agricultural prices and seasons from the command line",
		Long: `agriquery runs the same query engine as the chat bot against local or remote
price and seasonality tables, without any messaging transport.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadForCLI()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			applyFlags(cfg, flags)

			e.log = logger.InitWithWriter(cfg.LogLevel, "console", cmd.ErrOrStderr())
			e.cfg = cfg
			if e.aliases, err = config.LoadAliases(cfg.AliasesFile); err != nil {
				return err
			}
			e.tables = app.LoadTables(cmd.Context(), cfg, nil, e.log)
			return nil
		},
	}

	root.PersistentFlags().StringVar(&flags.priceTable, "price", "", "price table path or URL (overrides PRICE_TABLE)")
	root.PersistentFlags().StringVar(&flags.seasonTable, "season", "", "seasonality table path or URL (overrides SEASON_TABLE)")
	root.PersistentFlags().StringVar(&flags.aliasesFile, "aliases", "", "alias YAML file (overrides ALIASES_FILE)")
	root.PersistentFlags().StringVar(&flags.encoding, "encoding", "", "CSV encoding: utf-8 or big5")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "warn", "log level")

	root.AddCommand(newAskCmd(e), newChatCmd(e), newTablesCmd(e))
	return root
}

func applyFlags(cfg *config.Config, f *rootFlags) {
	if f.priceTable != "" {
		cfg.PriceTable = f.priceTable
	}
	if f.seasonTable != "" {
		cfg.SeasonTable = f.seasonTable
	}
	if f.aliasesFile != "" {
		cfg.AliasesFile = f.aliasesFile
	}
	if f.encoding != "" {
		cfg.TableEncoding = f.encoding
	}
	if f.logLevel != "" {
		cfg.LogLevel = f.logLevel
	}
	// the CLI never shares sessions with a running bot
	cfg.SessionStore = config.SessionStoreMemory
}

// Execute runs the root command.
func Execute() error {
	return newRootCmd().ExecuteContext(context.Background())
}
