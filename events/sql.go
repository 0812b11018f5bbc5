package events

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/mynextid/zk-agegate/models"
)

const eventDateLayout = "2006-01-02"

// Supported SQL drivers
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "pgx"
)

const listEventsQuery = `SELECT id, title, description, event_date, event_time, location, country,
	attendees, max_attendees, category, price, organizer, image, featured, rating
	FROM events ORDER BY id`

// SQLConfig holds database connection configuration
type SQLConfig struct {
	Driver          string
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DefaultSQLConfig returns pool defaults for driver and dsn
func DefaultSQLConfig(driver, dsn string) SQLConfig {
	return SQLConfig{
		Driver:          driver,
		DSN:             dsn,
		MaxOpenConns:    25,
		MaxIdleConns:    5,
		ConnMaxLifetime: 5 * time.Minute,
	}
}

// SQLProvider reads the events table
type SQLProvider struct {
	db *sql.DB
}

// OpenSQL opens and pings the database
func OpenSQL(ctx context.Context, cfg SQLConfig) (*SQLProvider, error) {
	switch cfg.Driver {
	case DriverMySQL, DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported events driver %q", cfg.Driver)
	}
	if cfg.DSN == "" {
		return nil, fmt.Errorf("events dsn is required for driver %s", cfg.Driver)
	}

	db, err := sql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close() //nolint:errcheck
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return NewSQLProvider(db), nil
}

// NewSQLProvider wraps an already opened database
func NewSQLProvider(db *sql.DB) *SQLProvider {
	return &SQLProvider{db: db}
}

func (p *SQLProvider) List(ctx context.Context) ([]models.Event, error) {
	rows, err := p.db.QueryContext(ctx, listEventsQuery)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var out []models.Event
	for rows.Next() {
		var e models.Event
		var date any
		if err := rows.Scan(&e.ID, &e.Title, &e.Description, &date, &e.Time, &e.Location, &e.Country,
			&e.Attendees, &e.MaxAttendees, &e.Category, &e.Price, &e.Organizer, &e.Image, &e.Featured, &e.Rating); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		d, err := formatDate(date)
		if err != nil {
			return nil, fmt.Errorf("scan event %d: %w", e.ID, err)
		}
		e.Date = d
		out = append(out, e)
	}
	return out, rows.Err()
}

// formatDate normalizes event_date to YYYY-MM-DD. pgx returns DATE columns
// as time.Time; mysql returns them as bytes unless parseTime is set.
func formatDate(v any) (string, error) {
	var raw string
	switch d := v.(type) {
	case time.Time:
		return d.Format(eventDateLayout), nil
	case []byte:
		raw = string(d)
	case string:
		raw = d
	default:
		return "", fmt.Errorf("unsupported event_date type %T", v)
	}

	if t, err := time.Parse(eventDateLayout, raw); err == nil {
		return t.Format(eventDateLayout), nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return "", fmt.Errorf("invalid event_date %q", raw)
	}
	return t.Format(eventDateLayout), nil
}

func (p *SQLProvider) Close() error {
	if p == nil || p.db == nil {
		return nil
	}
	return p.db.Close()
}
