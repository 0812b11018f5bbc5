package session

import "fmt"

// View is a navigable screen of the client
type View string

const (
	Landing   View = "landing"
	VerifyAge View = "verify-age"
	Events    View = "events"
)

// ParseView maps a view name to a View
func ParseView(s string) (View, error) {
	switch v := View(s); v {
	case Landing, VerifyAge, Events:
		return v, nil
	}
	return "", fmt.Errorf("unknown view %q", s)
}

// Context is the session state loaded once at startup and handed to every
// command
type Context struct {
	store  Store
	marker Marker
}

// NewContext loads the marker from store
func NewContext(store Store) (*Context, error) {
	m, err := store.Load()
	if err != nil {
		return nil, err
	}
	return &Context{store: store, marker: m}, nil
}

func (c *Context) Marker() Marker { return c.marker }

func (c *Context) Verified() bool { return c.marker.Verified() }

// Commit persists m and makes it the current marker
func (c *Context) Commit(m Marker) error {
	if err := c.store.Commit(m); err != nil {
		return err
	}
	m.Version = Version
	c.marker = m
	return nil
}

// SignOut clears every marker field and returns the view to show next
func (c *Context) SignOut() (View, error) {
	if err := c.store.Clear(); err != nil {
		return "", err
	}
	c.marker = Marker{}
	return Landing, nil
}

// Gate resolves the view to show for a requested one
func (c *Context) Gate() Gate {
	return Gate{Verified: c.Verified()}
}

// Gate routes between views based on the verification state
type Gate struct {
	Verified bool
}

// Resolve returns the view to show when requested is asked for. Verified
// sessions always land on Events; unverified sessions cannot reach Events.
func (g Gate) Resolve(requested View) View {
	if g.Verified {
		return Events
	}
	if requested == Events {
		return Landing
	}
	return requested
}
