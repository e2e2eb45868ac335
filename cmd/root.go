package cmd

import (
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Agents-Store/openclaw-deepsearch/internal/config"
	"github.com/Agents-Store/openclaw-deepsearch/internal/research"
	"github.com/Agents-Store/openclaw-deepsearch/internal/tools"
)

// ServerVersion is the MCP server version advertised to hosts.
const ServerVersion = "1.0.0"

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "deepsearch",
	Short: "Multi-provider web research tools over MCP",
	Long: `deepsearch serves eight research tools over MCP stdio, fanning each
query out to Exa, Firecrawl and Perplexity in parallel and merging the
results into a single deduplicated, cross-ranked report.

Credentials come from EXA_API_KEY, FIRECRAWL_API_KEY and PERPLEXITY_API_KEY
or from .deepsearch.yaml next to the binary. A missing key degrades that
provider gracefully; the tools stay available.`,
	RunE: runServe,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "info",
		"Log level: debug, info, warn, error")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := buildLogger(resolveLogLevel(cmd.Flags().Changed("log"), logLevel, cfg.Logging.Level))
	if err != nil {
		return err
	}
	defer logger.Sync()

	service := research.NewService(cfg, logger.Named("research"))
	registry, err := tools.NewRegistry(service, logger.Named("tools"))
	if err != nil {
		return err
	}

	s := server.NewMCPServer("deepsearch", ServerVersion, server.WithToolCapabilities(false))
	registry.Install(s)

	logger.Info("serving MCP over stdio", zap.String("version", ServerVersion))
	return server.ServeStdio(s)
}

// resolveLogLevel prefers an explicit --log flag, then the config file's
// logging level, then the flag default.
func resolveLogLevel(flagSet bool, flagLevel, configLevel string) string {
	if !flagSet && configLevel != "" {
		return configLevel
	}
	return flagLevel
}

// buildLogger writes to stderr only; stdout belongs to the stdio transport.
func buildLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	return cfg.Build()
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
