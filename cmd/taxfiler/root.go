package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/taxportal/filing-engine/internal/adapters/pdf"
	"github.com/taxportal/filing-engine/internal/adapters/sqlite"
	"github.com/taxportal/filing-engine/internal/calculation"
	"github.com/taxportal/filing-engine/internal/config"
	"github.com/taxportal/filing-engine/internal/domain"
	"github.com/taxportal/filing-engine/internal/lifecycle"
	"github.com/taxportal/filing-engine/internal/logging"
	"github.com/taxportal/filing-engine/internal/output"
	"github.com/taxportal/filing-engine/internal/service"
	money "github.com/taxportal/filing-engine/pkg/decimal"
)

// app holds the flags shared by every command and the components built
// from them in PersistentPreRunE.
type app struct {
	configFile string
	tablesPath string
	dbPath     string
	format     string
	verbose    bool

	settings *config.Settings
	logger   *zap.Logger
	engine   *calculation.Engine
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "taxfiler",
		Short:         "Income tax and GST computation with filing lifecycle tracking",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configFile, "config", "", "settings file (default ./taxfiler.yaml)")
	pf.StringVar(&a.tablesPath, "tables", "", "regime tables YAML (default built-in tables)")
	pf.StringVar(&a.dbPath, "db", "", "SQLite database path (overrides settings)")
	pf.StringVarP(&a.format, "format", "f", "console",
		fmt.Sprintf("output format: %s", strings.Join(output.AvailableFormatterNames(), ", ")))
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(newIncomeCmd(a), newGSTCmd(a), newFilingCmd(a), newServeCmd(a))
	return root
}

func (a *app) init() error {
	settings, err := config.LoadSettings(a.configFile)
	if err != nil {
		return err
	}
	if a.dbPath != "" {
		settings.DBPath = a.dbPath
	}
	if a.tablesPath != "" {
		settings.TablesPath = a.tablesPath
	}
	if a.verbose {
		settings.Log.Level = "debug"
	}
	a.settings = settings

	logger, err := logging.New(settings.Log)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	a.logger = logger

	var tables domain.RegimeTables
	if settings.TablesPath != "" {
		tables, err = config.NewTableLoader().LoadFromFile(settings.TablesPath)
		if err != nil {
			return err
		}
		logger.Debug("regime tables loaded", zap.String("path", settings.TablesPath), zap.Int("count", len(tables)))
	}
	a.engine = calculation.NewEngine(tables, logger.Sugar())
	return nil
}

// filingService opens the repository and wires the lifecycle. The returned
// func closes the database.
func (a *app) filingService(ctx context.Context, recorder service.TransitionRecorder) (*service.FilingService, func(), error) {
	repo, err := sqlite.New(ctx, a.settings.DBPath)
	if err != nil {
		return nil, nil, err
	}
	acks, err := lifecycle.NewSnowflakeIssuer(a.settings.NodeID)
	if err != nil {
		repo.Close()
		return nil, nil, err
	}
	sugar := a.logger.Sugar()
	machine := lifecycle.NewMachine(a.engine, acks, sugar)
	svc := service.NewFilingService(repo, machine, pdf.NewGenerator(), recorder, sugar)
	return svc, func() { repo.Close() }, nil
}

func (a *app) write(cmd *cobra.Command, r *output.Report) error {
	return output.Write(cmd.OutOrStdout(), a.format, r)
}

func parseAmount(flag, value string) (money.Money, error) {
	if value == "" {
		return money.Zero(), nil
	}
	m, err := money.NewMoneyFromString(value)
	if err != nil {
		return money.Money{}, domain.Newf(domain.CodeInvalidInput, "--%s: invalid amount %q", flag, value)
	}
	return m, nil
}

// parseItems reads key=amount pairs.
func parseItems(pairs []string) (domain.LineItems, error) {
	items := domain.LineItems{}
	for _, p := range pairs {
		key, value, ok := strings.Cut(p, "=")
		if !ok || key == "" {
			return nil, domain.Newf(domain.CodeInvalidInput, "line item %q must be key=amount", p)
		}
		m, err := parseAmount("item", value)
		if err != nil {
			return nil, err
		}
		items[strings.TrimSpace(key)] = m
	}
	return items, nil
}
