package cmd

import (
	"fmt"
	"net/http"
	"net/url"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/selimozcann/linktracer/internal/banner"
	"github.com/selimozcann/linktracer/internal/config"
	"github.com/selimozcann/linktracer/internal/httpclient"
	"github.com/selimozcann/linktracer/internal/observability"
	"github.com/selimozcann/linktracer/internal/trace"
)

// app carries the state shared by subcommands once the root pre-run has
// loaded configuration.
type app struct {
	v        *viper.Viper
	cfgFile  string
	noBanner bool
	cfg      *config.Config
	logger   *zap.Logger
}

// NewRootCommand builds a fresh command tree.
func NewRootCommand() *cobra.Command {
	a := &app{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:           "linktracer",
		Short:         "Trace redirect chains and classify where links lead",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.v, a.cfgFile)
			if err != nil {
				return err
			}
			logger, err := observability.New(cfg.Logger, zapcoreWriter(cmd))
			if err != nil {
				return fmt.Errorf("failed to build logger: %w", err)
			}
			a.cfg = cfg
			a.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&a.cfgFile, "config", "c", "", "config file (default is ./config.yaml)")
	pf.BoolVar(&a.noBanner, "no-banner", false, "Do not print the banner")
	pf.String("log-level", "info", "Log level (debug, info, warn, error)")
	pf.String("log-format", "console", "Log format (console or json)")
	pf.Int("max-redirects", trace.DefaultMaxRedirects, "Maximum hops per trace")
	pf.Duration("timeout", trace.DefaultTimeout, "Per-request timeout")
	pf.StringArrayP("header", "H", nil, "Extra HTTP header (repeatable)")
	pf.String("proxy", "", "HTTP(S) proxy URL")
	pf.Bool("insecure", false, "Skip TLS verification")
	pf.String("user-agent", httpclient.DefaultUserAgent, "User-Agent sent with every request")

	bindFlags(a.v, pf.Lookup, map[string]string{
		"logger.level":        "log-level",
		"logger.format":       "log-format",
		"trace.max_redirects": "max-redirects",
		"trace.timeout":       "timeout",
		"trace.headers":       "header",
		"trace.proxy":         "proxy",
		"trace.insecure":      "insecure",
		"trace.user_agent":    "user-agent",
	})

	rootCmd.AddCommand(newTraceCommand(a), newClassifyCommand(a), newServeCommand(a))
	return rootCmd
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "[-] Error: %v\n", err)
		os.Exit(1)
	}
}

func (a *app) printBanner(cmd *cobra.Command) {
	if !a.noBanner {
		banner.PrintBanner(cmd.ErrOrStderr())
	}
}

// newTracer builds the HTTP client and tracer from the loaded configuration.
func (a *app) newTracer() (*trace.Tracer, error) {
	tc := a.cfg.Trace
	headers, err := httpclient.ParseHeaders(tc.Headers)
	if err != nil {
		return nil, err
	}

	var proxyFunc func(*http.Request) (*url.URL, error)
	if tc.Proxy != "" {
		proxyURL, perr := url.Parse(tc.Proxy)
		if perr != nil {
			return nil, fmt.Errorf("invalid proxy URL: %w", perr)
		}
		proxyFunc = http.ProxyURL(proxyURL)
	}

	client := httpclient.New(httpclient.Config{
		Timeout:   tc.Timeout,
		Proxy:     proxyFunc,
		Headers:   headers,
		UserAgent: tc.UserAgent,
		Insecure:  tc.Insecure,
	})
	return trace.New(client, trace.Config{
		MaxRedirects: tc.MaxRedirects,
		Timeout:      tc.Timeout,
		MaxBodyBytes: tc.MaxBodyBytes,
	}, a.logger), nil
}
