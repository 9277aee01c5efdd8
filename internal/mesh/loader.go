package mesh

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"
)

type State int

const (
	Pending State = iota
	Ready
	Failed
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Loader fetches and parses a mesh in the background. The mesh is only
// handed out while the loader is Ready; callers skip drawing otherwise.
type Loader struct {
	source string
	client *http.Client
	logger *slog.Logger

	mu      sync.Mutex
	state   State
	mesh    *Mesh
	err     error
	loads   int
	gen     uint64 // bumped by every Reload call
	applied uint64 // generation of the committed outcome
	started bool
	done    chan struct{}
}

type LoaderOption func(*Loader)

func WithHTTPClient(c *http.Client) LoaderOption {
	return func(l *Loader) { l.client = c }
}

func WithLogger(logger *slog.Logger) LoaderOption {
	return func(l *Loader) { l.logger = logger }
}

// NewLoader creates a loader for a file path or an http(s) URL.
func NewLoader(source string, opts ...LoaderOption) *Loader {
	l := &Loader{
		source: source,
		client: http.DefaultClient,
		logger: slog.Default(),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Loader) Source() string { return l.source }

func (l *Loader) isRemote() bool {
	return strings.HasPrefix(l.source, "http://") || strings.HasPrefix(l.source, "https://")
}

// Start begins the first fetch. Later calls are no-ops.
func (l *Loader) Start(ctx context.Context) {
	l.mu.Lock()
	if l.started {
		l.mu.Unlock()
		return
	}
	l.started = true
	l.mu.Unlock()

	go func() {
		defer close(l.done)
		_ = l.Reload(ctx)
	}()
}

// Wait blocks until the first fetch finished and returns the current
// outcome. It fails with ErrNotStarted if Start was never called.
func (l *Loader) Wait(ctx context.Context) (*Mesh, error) {
	l.mu.Lock()
	started := l.started
	l.mu.Unlock()
	if !started {
		return nil, ErrNotStarted
	}
	select {
	case <-l.done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state != Ready {
		return nil, l.err
	}
	return l.mesh, nil
}

// Reload fetches the source again synchronously. Failures are kept and
// logged; they are never retried without another call. When reloads
// overlap, an older fetch finishing late never replaces a newer outcome.
func (l *Loader) Reload(ctx context.Context) error {
	l.mu.Lock()
	l.gen++
	gen := l.gen
	l.mu.Unlock()

	l.logger.Debug("loading mesh", "source", l.source, "gen", gen)
	m, err := l.fetch(ctx)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.loads++
	if gen < l.applied {
		l.logger.Debug("dropping stale mesh load", "source", l.source, "gen", gen)
		if err != nil {
			return fmt.Errorf("load %s: %w", l.source, err)
		}
		return nil
	}
	l.applied = gen
	if err != nil {
		l.state = Failed
		l.mesh = nil
		l.err = fmt.Errorf("load %s: %w", l.source, err)
		l.logger.Error("mesh load failed", "source", l.source, "err", err)
		return l.err
	}
	l.state = Ready
	l.mesh = m
	l.err = nil
	l.logger.Info("mesh loaded", "source", l.source,
		"vertices", len(m.Vertices), "faces", len(m.Faces))
	return nil
}

func (l *Loader) fetch(ctx context.Context) (*Mesh, error) {
	rc, err := l.open(ctx)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return Parse(rc)
}

func (l *Loader) open(ctx context.Context) (io.ReadCloser, error) {
	if !l.isRemote() {
		return os.Open(l.source)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.source, nil)
	if err != nil {
		return nil, err
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return resp.Body, nil
}

func (l *Loader) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Ready gates drawing.
func (l *Loader) Ready() bool {
	return l.State() == Ready
}

// Mesh returns the loaded mesh, or nil unless the loader is Ready.
func (l *Loader) Mesh() *Mesh {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state != Ready {
		return nil
	}
	return l.mesh
}

func (l *Loader) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

// Loads returns how many fetch attempts have completed.
func (l *Loader) Loads() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loads
}
