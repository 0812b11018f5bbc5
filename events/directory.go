package events

import (
	"context"
	"fmt"
	"strings"

	"github.com/mynextid/zk-agegate/models"
)

const (
	DefaultCountry = "United States"
	AllCategories  = "all"
	featuredLimit  = 2
)

var categories = []string{AllCategories, "DeFi", "NFT", "Development", "Gaming", "Startup", "DAO"}

// Categories lists the selectable categories, "all" first
func Categories() []string {
	out := make([]string, len(categories))
	copy(out, categories)
	return out
}

// Filter is combined as a logical AND. Empty fields match everything.
type Filter struct {
	Query    string
	Category string
}

// IsZero reports whether no filter is active
func (f Filter) IsZero() bool {
	return strings.TrimSpace(f.Query) == "" && (f.Category == "" || strings.EqualFold(f.Category, AllCategories))
}

// Directory is an in-memory view over the events of one country
type Directory struct {
	country string
	events  []models.Event
}

// Load reads the provider once and keeps the events of country
func Load(ctx context.Context, p Provider, country string) (*Directory, error) {
	if country == "" {
		country = DefaultCountry
	}
	all, err := p.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load events: %w", err)
	}

	d := &Directory{country: country}
	for _, e := range all {
		if e.Country == country {
			d.events = append(d.events, e)
		}
	}
	return d, nil
}

func (d *Directory) Country() string { return d.country }

// All returns every event of the directory
func (d *Directory) All() []models.Event {
	out := make([]models.Event, len(d.events))
	copy(out, d.events)
	return out
}

// Search applies the filter. The query is a case-insensitive substring match
// over title, description and organizer.
func (d *Directory) Search(f Filter) []models.Event {
	query := strings.ToLower(strings.TrimSpace(f.Query))
	category := strings.TrimSpace(f.Category)
	if strings.EqualFold(category, AllCategories) {
		category = ""
	}

	out := make([]models.Event, 0, len(d.events))
	for _, e := range d.events {
		if query != "" && !matchesQuery(e, query) {
			continue
		}
		if category != "" && !strings.EqualFold(e.Category, category) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// ByID finds an event of the directory
func (d *Directory) ByID(id int) (models.Event, bool) {
	for _, e := range d.events {
		if e.ID == id {
			return e, true
		}
	}
	return models.Event{}, false
}

func matchesQuery(e models.Event, query string) bool {
	return strings.Contains(strings.ToLower(e.Title), query) ||
		strings.Contains(strings.ToLower(e.Description), query) ||
		strings.Contains(strings.ToLower(e.Organizer), query)
}

// Featured returns the first two featured events of list
func Featured(list []models.Event) []models.Event {
	var out []models.Event
	for _, e := range list {
		if !e.Featured {
			continue
		}
		out = append(out, e)
		if len(out) == featuredLimit {
			break
		}
	}
	return out
}
