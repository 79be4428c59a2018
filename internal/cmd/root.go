package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/filinglens/filinglens/internal/config"
	"github.com/filinglens/filinglens/internal/edgar"
	"github.com/filinglens/filinglens/internal/observability"
	"github.com/filinglens/filinglens/internal/output"
	"github.com/filinglens/filinglens/internal/secgov"
)

var (
	cfgFile      string
	verbose      bool
	outputFormat string
	noCache      bool
	userAgent    string

	cfg    *config.Config
	logger *zap.Logger

	// Version info set by main package via ldflags.
	versionInfo = struct {
		Version   string
		Commit    string
		BuildDate string
	}{"dev", "unknown", "unknown"}
)

// SetVersionInfo is called by the main package to set build metadata.
func SetVersionInfo(version, commit, buildDate string) {
	versionInfo.Version = version
	versionInfo.Commit = commit
	versionInfo.BuildDate = buildDate
}

var rootCmd = &cobra.Command{
	Use:   "filinglens",
	Short: "Query SEC EDGAR filings and XBRL financial data",
	Long: `filinglens queries SEC EDGAR: company profiles, filing histories,
XBRL financial facts, full-text index files, and filing documents.

All requests respect the SEC fair-access policy (rate limited,
identified User-Agent, cached responses).`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = observability.NewCLILogger(verbose)

		loaded, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = loaded

		logger.Debug("config loaded",
			zap.String("user_agent", cfg.UserAgent),
			zap.Int("rate_limit", cfg.RateLimit),
			zap.Bool("cache_enabled", cfg.Cache.Enabled),
		)
		return nil
	},
}

// Execute runs the root command. Called once from main.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/filinglens/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (sets log level to debug)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table", "output format: table, json, yaml")
	rootCmd.PersistentFlags().BoolVar(&noCache, "no-cache", false, "bypass the response cache")
	rootCmd.PersistentFlags().StringVar(&userAgent, "user-agent", "", "override the User-Agent sent to SEC servers")
}

// newService builds an EDGAR service from the loaded config with flag
// overrides applied.
func newService() (*edgar.Service, error) {
	clientCfg := cfg.ClientConfig()
	if userAgent != "" {
		clientCfg.UserAgent = userAgent
	}
	if noCache {
		clientCfg.CacheEnabled = false
	}

	client, err := secgov.NewClient(clientCfg)
	if err != nil {
		return nil, fmt.Errorf("build client: %w", err)
	}
	return edgar.NewService(client), nil
}

// render writes an envelope to stdout in the requested format.
func render(cmd *cobra.Command, env *edgar.Envelope) error {
	format, err := output.ParseFormat(outputFormat)
	if err != nil {
		return err
	}

	rendered, err := output.NewFormatter(format).FormatEnvelope(env)
	if err != nil {
		return err
	}

	cmd.Println(rendered)
	return nil
}
