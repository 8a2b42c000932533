package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/recovibe/pupcal/internal/event"
	"github.com/recovibe/pupcal/internal/logger"
	"github.com/recovibe/pupcal/internal/scraper"
	"github.com/recovibe/pupcal/internal/service"
)

const monthLayout = "2006-01"

// queryOptions holds the flags shared by the events and parse commands
type queryOptions struct {
	from       string
	to         string
	month      string
	categories []string
	sortOrder  string
	format     string
	upcoming   bool
	verbose    bool
}

func (o *queryOptions) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&o.from, "from", "", "First date to include (YYYY-MM-DD), requires --to")
	flags.StringVar(&o.to, "to", "", "Last date to include (YYYY-MM-DD), requires --from")
	flags.StringVar(&o.month, "month", "", "Only events in this month (YYYY-MM)")
	flags.StringSliceVar(&o.categories, "category", nil, "Only events in these categories (repeatable)")
	flags.StringVar(&o.sortOrder, "sort", string(SortByDate), "Sort order: date, title or category")
	flags.StringVarP(&o.format, "format", "f", string(FormatText), "Output format: text, json, yaml or ics")
	flags.BoolVar(&o.upcoming, "upcoming", false, "Hide events whose day has passed")
	flags.BoolVarP(&o.verbose, "verbose", "v", false, "Show event details and enable info logging")

	cmd.MarkFlagsRequiredTogether("from", "to")
	cmd.MarkFlagsMutuallyExclusive("month", "from")
}

// validated is a checked form of queryOptions
type validated struct {
	start      string
	end        string
	year       int
	monthIndex int
	byMonth    bool
	categories []event.Category
	sortOrder  SortOrder
	format     OutputFormat
}

func (o *queryOptions) validate() (validated, error) {
	var v validated

	format, err := ParseOutputFormat(o.format)
	if err != nil {
		return v, err
	}
	v.format = format

	sortOrder, err := ParseSortOrder(o.sortOrder)
	if err != nil {
		return v, err
	}
	v.sortOrder = sortOrder

	for _, name := range o.categories {
		c, err := event.ParseCategory(name)
		if err != nil {
			return v, err
		}
		v.categories = append(v.categories, c)
	}

	if o.month != "" {
		m, err := time.Parse(monthLayout, strings.TrimSpace(o.month))
		if err != nil {
			return v, fmt.Errorf("invalid --month %q (want YYYY-MM)", o.month)
		}
		v.byMonth = true
		v.year = m.Year()
		v.monthIndex = int(m.Month()) - 1
	}

	if o.from != "" {
		from, err := event.ParseISODate(o.from)
		if err != nil {
			return v, fmt.Errorf("invalid --from: %w", err)
		}
		to, err := event.ParseISODate(o.to)
		if err != nil {
			return v, fmt.Errorf("invalid --to: %w", err)
		}
		if to.Before(from) {
			return v, fmt.Errorf("--to %s is before --from %s", o.to, o.from)
		}
		v.start, v.end = o.from, o.to
	}

	return v, nil
}

// run queries svc, filters and sorts the result, and writes it to cmd's output
func (o *queryOptions) run(cmd *cobra.Command, svc *service.Service, source string) error {
	v, err := o.validate()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var events []*event.Event
	switch {
	case v.byMonth:
		events, err = svc.EventsByMonth(ctx, v.year, v.monthIndex)
	case v.start != "":
		events, err = svc.EventsByDateRange(ctx, v.start, v.end)
	default:
		events, err = svc.Fetch(ctx)
	}
	if err != nil {
		return fmt.Errorf("fetching events: %w", err)
	}

	events = event.FilterByCategory(events, v.categories...)
	if o.upcoming {
		events = upcoming(events, time.Now())
	}
	sortEvents(events, v.sortOrder)

	result := &OutputResult{
		GeneratedAt: time.Now().UTC(),
		Source:      source,
		Start:       v.start,
		End:         v.end,
		EventCount:  len(events),
		Events:      events,
	}
	if v.byMonth {
		result.Start, result.End, _ = event.MonthRange(v.year, v.monthIndex)
	}

	if err := WriteOutput(cmd.OutOrStdout(), result, v.format, o.verbose); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}

// raiseLogLevel enables info logging for --verbose unless --log-level was set
func (o *queryOptions) raiseLogLevel(cmd *cobra.Command) {
	if o.verbose && !cmd.Flags().Changed("log-level") {
		logger.SetDefault(logger.New(logger.LevelInfo, cmd.ErrOrStderr()))
	}
}

func upcoming(events []*event.Event, now time.Time) []*event.Event {
	kept := make([]*event.Event, 0, len(events))
	for _, evt := range events {
		if !evt.IsPast(now) {
			kept = append(kept, evt)
		}
	}
	return kept
}

func newEventsCmd(newFetcher FetcherFactory) *cobra.Command {
	opts := &queryOptions{}

	cmd := &cobra.Command{
		Use:   "events",
		Short: "List events from the live PUP calendar",
		Example: `  pupcal events --month 2025-12
  pupcal events --from 2025-08-01 --to 2025-08-31 --category examination
  pupcal events --upcoming --format ics > pup.ics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.raiseLogLevel(cmd)
			svc := service.New(newFetcher(), nil)
			return opts.run(cmd, svc, scraper.CalendarURL)
		},
	}
	opts.register(cmd)

	return cmd
}

func newParseCmd() *cobra.Command {
	opts := &queryOptions{}

	cmd := &cobra.Command{
		Use:   "parse FILE",
		Short: "List events from a saved calendar page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.raiseLogLevel(cmd)

			page, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading page: %w", err)
			}

			svc := service.New(pageFetcher(page), nil)
			return opts.run(cmd, svc, args[0])
		},
	}
	opts.register(cmd)

	return cmd
}

// pageFetcher parses a page already in memory
type pageFetcher []byte

func (p pageFetcher) FetchCalendar(ctx context.Context) ([]*event.Event, error) {
	return scraper.ParseCalendar(p)
}
