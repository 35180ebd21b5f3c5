package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/iho/ctacte/internal/adapter/http/middleware"
	"github.com/iho/ctacte/internal/infrastructure/logger"
)

type options struct {
	baseURL      string
	tenant       string
	tenantHeader string
	timeout      time.Duration
	logLevel     string
	jsonOutput   bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "ctacte-cli",
		Short:         "Customer running-account CLI",
		Long:          `A command line interface for importing delivery notes and inspecting customer balances through the ctacte API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.baseURL, "url", envOr("CTACTE_URL", "http://localhost:8080"), "Base URL of the ctacte API")
	rootCmd.PersistentFlags().StringVar(&opts.tenant, "tenant", os.Getenv("CTACTE_TENANT"), "Tenant id sent with every request")
	rootCmd.PersistentFlags().StringVar(&opts.tenantHeader, "tenant-header", middleware.DefaultTenantHeader, "Header carrying the tenant id")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "Request timeout")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&opts.jsonOutput, "json", false, "Print raw JSON responses")

	rootCmd.AddCommand(
		importCmd(opts),
		balanceCmd(opts),
		balancesCmd(opts),
		pendingCmd(opts),
		migrateCmd(),
	)

	return wrapErrors(rootCmd)
}

// wrapErrors logs command failures once, on stderr.
func wrapErrors(rootCmd *cobra.Command) *cobra.Command {
	for _, cmd := range allCommands(rootCmd) {
		if cmd.RunE == nil {
			continue
		}
		run := cmd.RunE
		cmd.RunE = func(cmd *cobra.Command, args []string) error {
			err := run(cmd, args)
			if err != nil {
				log := cliLogger(cmd)
				log.Error().Err(err).Msg(cmd.CommandPath() + " failed")
			}
			return err
		}
	}

	return rootCmd
}

func allCommands(cmd *cobra.Command) []*cobra.Command {
	cmds := []*cobra.Command{cmd}
	for _, child := range cmd.Commands() {
		cmds = append(cmds, allCommands(child)...)
	}
	return cmds
}

func cliLogger(cmd *cobra.Command) zerolog.Logger {
	level, _ := cmd.Flags().GetString("log-level")
	return logger.New(logger.Config{Level: level, Format: "console", Output: cmd.ErrOrStderr()})
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func (o *options) client() *apiClient {
	return newAPIClient(o.baseURL, o.tenantHeader, o.tenant, o.timeout)
}

func (o *options) print(cmd *cobra.Command, raw any, human func(w io.Writer) error) error {
	if o.jsonOutput {
		return printJSON(cmd.OutOrStdout(), raw)
	}
	return human(cmd.OutOrStdout())
}

func printLine(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, format+"\n", args...)
}
