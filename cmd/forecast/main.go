package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"StockPulse/internal/di"
	"StockPulse/internal/domain/models"
	"StockPulse/pkg/config"
	applogger "StockPulse/pkg/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	configFile string
	verbose    bool
	filePath   string
	company    string
	symbol     string
)

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "forecast",
		Short: "Evaluate next-day close regressions over historical prices",
		Long: `Fits a linear model of the next trading day's close on OHLCV and rolling-window
features, then reports RMSE, MAPE and R² on the chronologically last 20% of rows.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCLI(cmd.Context(), func(ctx context.Context, cli *di.CLI) error {
				return runMenu(ctx, cli.Forecasts, os.Stdin, os.Stdout)
			})
		},
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "config/config.yaml", "Path to config file")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable debug logging")

	menuCmd := &cobra.Command{
		Use:   "menu",
		Short: "Pick a catalog company interactively",
		RunE:  rootCmd.RunE,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog companies",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadWithEnv(configFile)
			if err != nil {
				return err
			}
			for _, co := range cfg.Forecast.Companies {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\t%s\n", co.Choice, co.Symbol, co.Name, co.Source)
			}
			return nil
		},
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze",
		Short: "Evaluate one price file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCLI(cmd.Context(), func(ctx context.Context, cli *di.CLI) error {
				name := company
				if name == "" {
					name = strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))
				}
				co := models.Company{Symbol: strings.ToUpper(name), Name: name, Source: filePath}
				res, err := cli.Forecasts.RunCompany(ctx, co, models.TriggerCLI, "")
				if err != nil {
					return err
				}
				printReport(cmd.OutOrStdout(), res)
				return nil
			})
		},
	}
	analyzeCmd.Flags().StringVar(&filePath, "file", "", "Price file, relative to forecast.data_dir or absolute")
	analyzeCmd.Flags().StringVar(&company, "company", "", "Display name (defaults to the file name)")
	_ = analyzeCmd.MarkFlagRequired("file")

	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Copy a price file into the ClickHouse bar table",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCLI(cmd.Context(), func(ctx context.Context, cli *di.CLI) error {
				if cli.Import == nil {
					return fmt.Errorf("clickhouse.enabled is false")
				}
				n, err := cli.Import.Import(ctx, filePath, symbol)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "imported %d bars for %s\n", n, strings.ToUpper(symbol))
				return nil
			})
		},
	}
	importCmd.Flags().StringVar(&filePath, "file", "", "Price file, relative to forecast.data_dir or absolute")
	importCmd.Flags().StringVar(&symbol, "symbol", "", "Ticker to store the bars under")
	_ = importCmd.MarkFlagRequired("file")
	_ = importCmd.MarkFlagRequired("symbol")

	rootCmd.AddCommand(menuCmd, listCmd, analyzeCmd, importCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// withCLI loads config, wires the forecasting core and releases it after fn.
func withCLI(ctx context.Context, fn func(context.Context, *di.CLI) error) error {
	cfg, err := config.LoadWithEnv(configFile)
	if err != nil {
		return err
	}
	level := "warn"
	if verbose {
		level = "debug"
	}
	l := applogger.NewWriter(os.Stderr, level)

	cli, err := di.InitializeCLI(cfg, l)
	if err != nil {
		return err
	}
	defer cli.Close()
	return fn(ctx, cli)
}
