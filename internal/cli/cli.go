package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/recovibe/pupcal/internal/logger"
	"github.com/recovibe/pupcal/internal/scraper"
	"github.com/recovibe/pupcal/internal/service"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

// FetcherFactory creates the calendar source used by the events and serve commands
type FetcherFactory func() service.Fetcher

func defaultFetcher() service.Fetcher {
	return scraper.New()
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	return newRootCmd(defaultFetcher)
}

func newRootCmd(newFetcher FetcherFactory) *cobra.Command {
	var logLevel string

	cmd := &cobra.Command{
		Use:   "pupcal",
		Short: "Scrape the PUP academic calendar",
		Long: `A tool to scrape the Polytechnic University of the Philippines academic
calendar into structured events, one per calendar day.

Events can be listed from the live site or a saved page, exported as JSON,
YAML or iCalendar, or served over HTTP with an in-memory cache.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := logger.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			logger.SetDefault(logger.New(level, cmd.ErrOrStderr()))
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level: debug, info, warn or error")

	cmd.AddCommand(
		newEventsCmd(newFetcher),
		newParseCmd(),
		newServeCmd(newFetcher),
	)

	return cmd
}

// Execute runs the CLI
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
	os.Exit(ExitSuccess)
}
