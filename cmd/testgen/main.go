package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nbenliogludev/go-testcase-generator/internal/browser"
	"github.com/nbenliogludev/go-testcase-generator/internal/config"
	"github.com/nbenliogludev/go-testcase-generator/internal/formatter"
	"github.com/nbenliogludev/go-testcase-generator/internal/generator"
	"github.com/nbenliogludev/go-testcase-generator/internal/logger"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:   "testgen",
	Short: "Generate Java Selenium test cases from plain-language scenarios",
	Long: `testgen turns a scenario description into numbered test steps and a
complete Java Selenium/TestNG class, then formats the class.

Commands:
  serve    - run the HTTP API
  generate - generate one test case from the terminal
  format   - format a Java file with the formatter chain`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before the environment")
	rootCmd.AddCommand(serveCmd, generateCmd, formatCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// app holds everything a command needs.
type app struct {
	cfg       *config.Config
	log       *zap.Logger
	generator *generator.Generator
	chain     *formatter.Chain
	local     *formatter.JavaFormatter
	pages     browser.Snapshotter
}

// loadBase reads the config and builds the logger. Terminal commands pass
// "console" so logs go to stderr and stay out of the generated output.
func loadBase(encoding string) (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	logCfg := logger.Config{Level: cfg.LogLevel, Encoding: cfg.LogEncoding}
	if encoding != "" {
		logCfg.Encoding = encoding
		logCfg.OutputPath = "stderr"
	}
	log, err := logger.New(logCfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

func newChain(cfg *config.Config, local formatter.Formatter, log *zap.Logger) *formatter.Chain {
	var remote formatter.Formatter
	if cfg.FormatterRemoteURL != "" {
		remote = formatter.NewRemoteFormatter(cfg.FormatterRemoteURL, cfg.FormatterRemoteTimeout)
	}
	return formatter.NewChain(local, remote, log)
}

// bootstrap builds everything serve and generate need.
func bootstrap(ctx context.Context, encoding string) (*app, error) {
	cfg, log, err := loadBase(encoding)
	if err != nil {
		return nil, err
	}

	tmpl, err := generator.LoadTemplate(cfg.PromptTemplatePath)
	if err != nil {
		return nil, fmt.Errorf("load prompt template: %w", err)
	}

	a := &app{cfg: cfg, log: log, local: formatter.NewJavaFormatter()}

	var opts []generator.Option
	if cfg.BrowserEnabled {
		pages, err := browser.NewSnapshotter(browser.Options{
			Driver:    cfg.BrowserDriver,
			Timeout:   cfg.BrowserTimeout,
			MaxTree:   cfg.BrowserMaxTree,
			RemoteURL: cfg.BrowserRemoteURL,
		}, log)
		if err != nil {
			// page context is optional
			log.Warn("browser unavailable, generating without page context", zap.Error(err))
		} else {
			a.pages = pages
			opts = append(opts, generator.WithSnapshotter(pages))
		}
	}

	a.generator = generator.NewFromConfig(ctx, cfg, tmpl, log, opts...)
	a.chain = newChain(cfg, a.local, log)
	return a, nil
}

func (a *app) Close() {
	if a.pages != nil {
		if err := a.pages.Close(); err != nil {
			a.log.Warn("failed to close browser", zap.Error(err))
		}
	}
	_ = a.log.Sync()
}
