package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-courseform/internal/config"
	"github.com/goliatone/go-courseform/internal/logging"
)

// CLI flags
var (
	configFlag   string
	logLevelFlag string
	gatewayFlag  string
	apiURLFlag   string
	uploadFlag   string
)

// cfg is resolved once per invocation before any subcommand runs.
var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "courseform",
	Short: "Author and publish courses from the terminal",
	Long: `courseform walks an instructor through the course landing page, the
curriculum and the course thumbnail, then publishes the course once every
section is complete.

Configuration comes from an optional YAML file, COURSEFORM_* environment
variables and the flags below, in that order.

Examples:
  courseform new
  courseform new --from draft.yaml --yes
  courseform edit 65f1c0ffee --gateway http --api-url https://api.example.com
  courseform check draft.yaml
  courseform render draft.yaml --format html -o landing.html
  courseform schema`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configFlag, "config", "c", os.Getenv("COURSEFORM_CONFIG"), "Path to a YAML config file")
	flags.StringVar(&logLevelFlag, "log-level", "", "Log level (debug, info, warn, error, disabled)")
	flags.StringVar(&gatewayFlag, "gateway", "", "Course gateway (memory, http, dynamo)")
	flags.StringVar(&apiURLFlag, "api-url", "", "Base URL of the course API for the http gateway")
	flags.StringVar(&uploadFlag, "upload", "", "Upload transport (none, http, s3)")

	rootCmd.AddCommand(newCmd, editCmd, checkCmd, schemaCmd, renderCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func loadConfig(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load(configFlag)
	if err != nil {
		return err
	}
	if logLevelFlag != "" {
		loaded.LogLevel = logLevelFlag
	}
	if gatewayFlag != "" {
		loaded.Gateway.Kind = gatewayFlag
	}
	if apiURLFlag != "" {
		loaded.Gateway.BaseURL = apiURLFlag
	}
	if uploadFlag != "" {
		loaded.Upload.Kind = uploadFlag
	}
	if err := loaded.Validate(); err != nil {
		return err
	}
	logging.Init(loaded.LogLevel)
	cfg = loaded
	return nil
}
