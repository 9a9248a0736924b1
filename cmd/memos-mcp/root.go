// ABOUTME: Root command, global flags, and per-invocation wiring.
// ABOUTME: Loads settings, then builds the logger, metrics, and Memos client every command shares.

package main

import (
	"github.com/harper/memos-mcp/internal/config"
	"github.com/harper/memos-mcp/internal/logging"
	"github.com/harper/memos-mcp/internal/memos"
	"github.com/harper/memos-mcp/internal/telemetry"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// skipSetup marks commands that run without Memos settings.
const skipSetup = "skip-setup"

var (
	cfgFile string
	vp      = config.NewViper()

	settings config.Settings
	logger   = zap.NewNop()
	registry = prometheus.NewRegistry()
	metrics  telemetry.Metrics = telemetry.NewNoopMetrics()
	client   *memos.Client
)

var rootCmd = &cobra.Command{
	Use:   "memos-mcp",
	Short: "MCP server for a Memos instance",
	Long: `memos-mcp exposes a self-hosted Memos instance to AI assistants over the
Model Context Protocol on stdio. Run without a subcommand to start the server.

Settings come from flags, MEMOS_* environment variables, and an optional
config file at $XDG_CONFIG_HOME/memos-mcp/config.yaml, in that order of priority.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Annotations[skipSetup] == "true" {
			return nil
		}
		return setup()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
	RunE: runServe,
}

func Execute() error {
	return rootCmd.Execute()
}

// setup validates settings before anything touches the network. A bad
// configuration fails here and the process exits 1.
func setup() error {
	s, err := config.Load(vp, cfgFile)
	if err != nil {
		return err
	}

	log, err := logging.New(s.LogLevel)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	settings = s
	logger = log
	registry = reg
	metrics = telemetry.NewPrometheusMetrics(reg)
	client = memos.NewClient(s,
		memos.WithLogger(log.Named("memos")),
		memos.WithMetrics(metrics),
		memos.WithUserAgent("memos-mcp/"+version),
	)

	logger.Debug("configuration loaded",
		zap.String("api_url", s.APIURL()),
		zap.Duration("timeout", s.Timeout),
		zap.String("tools", s.Tools),
	)
	return nil
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default $XDG_CONFIG_HOME/memos-mcp/config.yaml)")
	pf.String("base-url", "", "Memos instance URL (env MEMOS_BASE_URL)")
	pf.String("api-prefix", config.DefaultAPIPrefix, "API path prefix (env MEMOS_API_PREFIX)")
	pf.String("timeout", "30", "request timeout in seconds or as a duration (env MEMOS_TIMEOUT)")
	pf.String("log-level", logging.DefaultLevel, "log level: DEBUG, INFO, WARNING, ERROR (env LOG_LEVEL)")
	pf.String("tools", "all", "tools to expose: all, read, write, or tool names (env MEMOS_TOOLS)")
	pf.String("metrics-addr", "", "serve Prometheus metrics on this address (env MEMOS_METRICS_ADDR)")

	if err := config.BindFlags(vp, pf); err != nil {
		panic(err)
	}
}
