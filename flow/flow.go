// Package flow drives a single age verification from date-of-birth entry to
// a committed session marker.
//
//	CollectingInput --submit--> Verifying --eligible--> Complete
//	       ^                        |
//	       +----underage / fault----+
package flow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mynextid/zk-agegate/client"
	"github.com/mynextid/zk-agegate/session"
)

// State of the flow
type State int

const (
	CollectingInput State = iota
	Verifying
	Complete
)

func (s State) String() string {
	switch s {
	case CollectingInput:
		return "collecting_input"
	case Verifying:
		return "verifying"
	case Complete:
		return "complete"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// User facing messages
const (
	MsgMissingDate  = "Please enter your date of birth"
	MsgInvalidDate  = "Please enter a valid date of birth"
	MsgUnderage     = "You must be 18 or older to access Web3 events"
	MsgVerifyFailed = "Verification failed. Please try again."
)

const (
	// CompleteDelay is how long the caller shows the success state before
	// navigating to the event directory
	CompleteDelay = 1500 * time.Millisecond

	progressStep     = 10
	progressInterval = 100 * time.Millisecond
)

var (
	ErrBusy     = errors.New("verification already in progress")
	ErrComplete = errors.New("verification already complete")
)

// Committer persists the marker of an eligible verification
type Committer interface {
	Commit(m session.Marker) error
}

// Snapshot is a consistent view of the flow
type Snapshot struct {
	State    State
	Message  string
	Progress int
	// Failure is the kind of the last faulted call, KindOK when none
	Failure client.Kind
}

// Flow is safe for concurrent use. Only one verification runs at a time.
type Flow struct {
	verifier  client.Verifier
	committer Committer

	now      func() time.Time
	interval time.Duration
	observer func(progress int)

	mu       sync.Mutex
	state    State
	message  string
	progress int
	failure  client.Kind
}

type Option func(*Flow)

// WithClock sets the clock used for date validation and the marker timestamp
func WithClock(now func() time.Time) Option {
	return func(f *Flow) {
		if now != nil {
			f.now = now
		}
	}
}

// WithProgress reports the cosmetic progress while verifying
func WithProgress(observer func(progress int)) Option {
	return func(f *Flow) { f.observer = observer }
}

// WithProgressInterval sets the delay between progress steps. A
// non-positive interval disables the animation.
func WithProgressInterval(d time.Duration) Option {
	return func(f *Flow) { f.interval = d }
}

func New(v client.Verifier, c Committer, opts ...Option) *Flow {
	f := &Flow{
		verifier:  v,
		committer: c,
		now:       time.Now,
		interval:  progressInterval,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Flow) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return Snapshot{State: f.state, Message: f.message, Progress: f.progress, Failure: f.failure}
}

// Submit validates dob (YYYY-MM-DD) and, when valid, runs the verification.
// Input errors leave the flow in CollectingInput with a message and make no
// network call. The outcome is read with Snapshot.
func (f *Flow) Submit(ctx context.Context, dob string) error {
	f.mu.Lock()
	switch f.state {
	case Verifying:
		f.mu.Unlock()
		return ErrBusy
	case Complete:
		f.mu.Unlock()
		return ErrComplete
	}

	birth, msg := f.parseDate(dob)
	if msg != "" {
		f.message = msg
		f.mu.Unlock()
		return nil
	}

	f.state = Verifying
	f.message = ""
	f.progress = 0
	f.failure = client.KindOK
	f.mu.Unlock()

	res := f.verify(ctx, birth.Year())

	f.mu.Lock()
	defer f.mu.Unlock()
	f.apply(res, birth)
	return nil
}

func (f *Flow) parseDate(dob string) (time.Time, string) {
	dob = strings.TrimSpace(dob)
	if dob == "" {
		return time.Time{}, MsgMissingDate
	}
	birth, err := time.Parse(session.DateLayout, dob)
	if err != nil {
		return time.Time{}, MsgInvalidDate
	}
	now := f.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if birth.After(today) {
		return time.Time{}, MsgInvalidDate
	}
	return birth, ""
}

// verify runs the call alongside the progress animation. The animation stops
// as soon as the call returns. A result that arrives after ctx ended is
// dropped as a transport failure, so a cancelled verification never commits.
func (f *Flow) verify(ctx context.Context, birthYear int) client.Result {
	animCtx, stop := context.WithCancel(ctx)
	defer stop()

	var res client.Result
	var g errgroup.Group
	g.Go(func() error {
		defer stop()
		res = f.verifier.Verify(ctx, birthYear)
		return ctx.Err()
	})
	g.Go(func() error {
		f.animate(animCtx)
		return nil
	})
	if err := g.Wait(); err != nil {
		return client.Result{Kind: client.KindTransportFailed, Err: fmt.Errorf("verification cancelled: %w", err)}
	}
	return res
}

func (f *Flow) animate(ctx context.Context) {
	if f.interval <= 0 {
		return
	}
	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	for p := progressStep; p <= 100; p += progressStep {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		f.mu.Lock()
		if f.state != Verifying {
			f.mu.Unlock()
			return
		}
		f.progress = p
		f.mu.Unlock()
		if f.observer != nil {
			f.observer(p)
		}
	}
}

// apply transitions out of Verifying. Callers hold f.mu.
func (f *Flow) apply(res client.Result, birth time.Time) {
	if res.Kind == client.KindOK && res.Eligible {
		marker := session.NewMarker(birth, f.now(), res.Attestation)
		if err := f.committer.Commit(marker); err != nil {
			f.fail(client.KindServerFault)
			return
		}
		f.state = Complete
		f.progress = 100
		return
	}

	if res.Kind == client.KindOK {
		f.state = CollectingInput
		f.message = MsgUnderage
		f.progress = 0
		return
	}

	f.fail(res.Kind)
}

func (f *Flow) fail(kind client.Kind) {
	f.state = CollectingInput
	f.message = MsgVerifyFailed
	f.progress = 0
	f.failure = kind
}
