package agegate

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mynextid/zk-agegate/events"
	"github.com/mynextid/zk-agegate/models"
	"github.com/mynextid/zk-agegate/session"
)

const (
	defaultCountry = events.DefaultCountry
	sourceStatic   = "static"
	sourceServer   = "server"
)

type eventsConfig struct {
	query    string
	category string
	country  string
	source   string
	featured bool
}

func NewEventsCmd(app *App) *cobra.Command {
	cfg := &eventsConfig{}

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Browse Web3 events",
		Long:  `List, search and filter the event directory. Requires a verified session.`,
		Example: `  agegate events
  agegate events --search workshop --category DAO
  agegate events --source server`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showEvents(cmd.Context(), cmd.OutOrStdout(), app, cfg)
		},
	}

	cmd.Flags().StringVarP(&cfg.query, "search", "s", "", "Search title, description and organizer")
	cmd.Flags().StringVarP(&cfg.category, "category", "c", events.AllCategories,
		fmt.Sprintf("Category filter (%s)", strings.Join(events.Categories(), ", ")))
	cmd.Flags().StringVar(&cfg.country, "country", defaultCountry, "Country of the events")
	cmd.Flags().StringVar(&cfg.source, "source", sourceStatic, "Event source (static, server)")
	cmd.Flags().BoolVar(&cfg.featured, "featured", false, "Show featured events only")

	return cmd
}

// openDirectory resolves the gate and loads the directory of cfg.country
func openDirectory(ctx context.Context, app *App, cfg *eventsConfig) (*events.Directory, error) {
	sess, err := app.Session()
	if err != nil {
		return nil, err
	}
	if sess.Gate().Resolve(session.Events) != session.Events {
		return nil, errNotVerified
	}

	var provider events.Provider
	switch cfg.source {
	case "", sourceStatic:
		provider = events.NewStaticProvider()
	case sourceServer:
		provider = events.NewHTTPProvider(app.ServerURL, sess.Marker().Attestation)
	default:
		return nil, fmt.Errorf("unknown event source: %s", cfg.source)
	}

	return events.Load(ctx, provider, cfg.country)
}

func showEvents(ctx context.Context, out io.Writer, app *App, cfg *eventsConfig) error {
	dir, err := openDirectory(ctx, app, cfg)
	if err != nil {
		return err
	}

	filter := events.Filter{Query: cfg.query, Category: cfg.category}
	list := dir.Search(filter)
	if cfg.featured {
		list = events.Featured(list)
	}

	fmt.Fprintf(out, "Web3 Events in %s\n\n", dir.Country())

	if featured := events.Featured(dir.All()); filter.IsZero() && !cfg.featured && len(featured) > 0 {
		fmt.Fprintln(out, "Featured:")
		for _, e := range featured {
			fmt.Fprintf(out, "  * %s (%s, %s)\n", e.Title, e.Date, e.Location)
		}
		fmt.Fprintln(out)
	}

	if len(list) == 0 {
		writeLines(out, "No events found", "Try adjusting your search or filter criteria")
		return nil
	}

	printEvents(out, list)
	fmt.Fprintf(out, "\n%d event(s)\n", len(list))
	return nil
}

func printEvents(out io.Writer, list []models.Event) {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tDATE\tLOCATION\tCATEGORY\tPRICE\tORGANIZER\tATTENDEES\tRATING")
	for _, e := range list {
		fmt.Fprintf(tw, "%d\t%s\t%s %s\t%s\t%s\t%s\t%s\t%d/%d (%.0f%%)\t%.1f\n",
			e.ID, e.Title, e.Date, e.Time, e.Location, e.Category, e.Price, e.Organizer,
			e.Attendees, e.MaxAttendees, e.AttendancePercent(), e.Rating)
	}
	tw.Flush()
}
