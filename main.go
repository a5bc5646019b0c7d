package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	verbose     bool
	configFile  string
	catalogFile string

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "inventory-report",
	Short: "Device inventory PDF reports for the irrigation district",
	Long: `inventory-report renders the district's IoT device inventory as a
paginated PDF: a filter summary, the device detail table, per-type totals and
a grouped bar chart of active and inactive devices.

Input is the JSON the device listing screen produces:

  {"records": [{"iot_id": "...", "name": "...", "device_type": "05",
                "id_plot": "...", "is_active": true,
                "registration_date": "2024-03-05"}],
   "filters": {"iot_id": "", "name": "", "plotId": "", "isActive": "true",
               "startDate": "2024-01-01", "endDate": ""}}`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Initialize logger
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// generateCmd renders one report from a JSON file
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Render a PDF report (and optionally a CSV export) from a JSON file",
	RunE:  runGenerate,
}

// serveCmd starts the HTTP download service
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve report downloads over HTTP",
	RunE:  runServe,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write the default configuration to path (default config.yaml)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigInit,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to YAML configuration file (default: built-in)")
	rootCmd.PersistentFlags().StringVar(&catalogFile, "catalog", "", "YAML file with device categories (default: built-in)")

	generateCmd.Flags().StringP("input", "i", "-", "JSON input file, - for stdin")
	generateCmd.Flags().StringP("out", "o", "", "PDF output path (default: inventario-dispositivos-D-M-YYYY.pdf)")
	generateCmd.Flags().String("csv", "", "Also write the CSV export to this path")

	serveCmd.Flags().String("addr", "", "Listen address (overrides server.addr)")

	configInitCmd.Flags().Bool("force", false, "Overwrite an existing file")

	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadSettings resolves the configuration and the category catalog from the
// global flags.
func loadSettings() (*Config, CategoryCatalog, error) {
	var config *Config
	var err error
	if configFile == "" {
		config, err = LoadDefaultConfig()
	} else {
		config, err = LoadConfig(configFile)
	}
	if err != nil {
		return nil, CategoryCatalog{}, fmt.Errorf("error loading config: %w", err)
	}

	catalog := DefaultCatalog()
	if catalogFile != "" {
		if catalog, err = LoadCatalog(catalogFile); err != nil {
			return nil, CategoryCatalog{}, err
		}
	}
	return config, catalog, nil
}

// readReportRequest decodes the JSON input; "-" reads stdin.
func readReportRequest(path string, stdin io.Reader) (*ReportRequest, error) {
	var r io.Reader = stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	var req ReportRequest
	if err := json.NewDecoder(r).Decode(&req); err != nil {
		return nil, fmt.Errorf("invalid input %s: %w", path, err)
	}
	return &req, nil
}

func runGenerate(cmd *cobra.Command, args []string) error {
	input, _ := cmd.Flags().GetString("input")
	out, _ := cmd.Flags().GetString("out")
	csvPath, _ := cmd.Flags().GetString("csv")

	config, catalog, err := loadSettings()
	if err != nil {
		return err
	}
	req, err := readReportRequest(input, cmd.InOrStdin())
	if err != nil {
		return err
	}

	generator := NewReportGenerator(config, WithLogger(logger), WithCatalog(catalog))
	now := time.Now()
	report, err := generator.Generate(req.Records, req.Filters, now)
	if err != nil {
		return err
	}

	if out == "" {
		out = report.FileName
	}
	if err := os.WriteFile(out, report.PDF, 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Report saved to %s (%d pages, %d devices)\n", out, report.Pages, len(req.Records))

	if csvPath != "" {
		f, err := os.Create(csvPath)
		if err != nil {
			return fmt.Errorf("write export: %w", err)
		}
		if err := generator.ExportCSV(f, req.Records, req.Filters, now); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("write export: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Export saved to %s\n", csvPath)
	}
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	config, catalog, err := loadSettings()
	if err != nil {
		return err
	}
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		config.Server.Addr = addr
	}

	ctx, stop := signal.NotifyContext(contextOrBackground(cmd.Context()), os.Interrupt, syscall.SIGTERM)
	defer stop()

	generator := NewReportGenerator(config, WithLogger(logger), WithCatalog(catalog))
	return NewWebServer(config, generator, logger).Start(ctx)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := "config.yaml"
	if len(args) == 1 {
		path = args[0]
	}
	force, _ := cmd.Flags().GetBool("force")
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	config, err := LoadDefaultConfig()
	if err != nil {
		return err
	}
	if err := SaveConfig(config, path); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Configuration written to %s\n", path)
	return nil
}

// contextOrBackground is used by commands invoked without a context, as in tests.
func contextOrBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
