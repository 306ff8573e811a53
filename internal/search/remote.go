package search

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"go.uber.org/atomic"

	"github.com/ruminaider/vselect/internal/source"
)

// DefaultTimeout bounds one remote request.
const DefaultTimeout = 10 * time.Second

// Result is what the dropdown sees of a remote search. The raw error never
// reaches the adapter; failures arrive as Success=false with a message.
type Result struct {
	Success bool
	Message string
	Items   []source.Descriptor
}

// FetchError describes a failed remote request.
type FetchError struct {
	Status int // HTTP status, 0 when the request never completed
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("remote search: status %d: %v", e.Status, e.Err)
	}
	return fmt.Sprintf("remote search: %v", e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Fetcher performs one remote query.
type Fetcher interface {
	Fetch(ctx context.Context, query string) ([]source.Descriptor, error)
}

// Client fetches results with GET <URL>?<Param>=<query>.
type Client struct {
	URL   string
	Param string
	HTTP  *http.Client
}

type response struct {
	Success *bool               `json:"success,omitempty"`
	Message string              `json:"message,omitempty"`
	Items   []source.Descriptor `json:"items"`
}

// Fetch implements Fetcher.
func (c *Client) Fetch(ctx context.Context, query string) ([]source.Descriptor, error) {
	u, err := url.Parse(c.URL)
	if err != nil {
		return nil, &FetchError{Err: fmt.Errorf("parsing url: %w", err)}
	}
	param := c.Param
	if param == "" {
		param = "q"
	}
	qs := u.Query()
	qs.Set(param, query)
	u.RawQuery = qs.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, &FetchError{Err: err}
	}
	req.Header.Set("Accept", "application/json")

	hc := c.HTTP
	if hc == nil {
		hc = &http.Client{Timeout: DefaultTimeout}
	}
	resp, err := hc.Do(req)
	if err != nil {
		return nil, &FetchError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, &FetchError{Status: resp.StatusCode, Err: fmt.Errorf("reading body: %w", err)}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{Status: resp.StatusCode, Err: errors.New(http.StatusText(resp.StatusCode))}
	}

	var r response
	if err := json.Unmarshal(body, &r); err != nil {
		return nil, &FetchError{Status: resp.StatusCode, Err: fmt.Errorf("decoding body: %w", err)}
	}
	if r.Success != nil && !*r.Success {
		msg := r.Message
		if msg == "" {
			msg = "server reported failure"
		}
		return nil, &FetchError{Status: resp.StatusCode, Err: errors.New(msg)}
	}
	return source.Normalize(r.Items), nil
}

// Response pairs a Result with the sequence number of its request.
type Response struct {
	Seq    uint64
	Query  string
	Result Result
}

// Controller runs remote searches so that at most one result is ever
// applied: starting a search cancels the one in flight, and Accept only
// admits the latest sequence.
type Controller struct {
	fetcher Fetcher
	log     *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	seq    atomic.Uint64
}

// NewController wraps f.
func NewController(f Fetcher, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Controller{fetcher: f, log: logger}
}

// Begin cancels any in-flight search and reserves a sequence number for a
// new one. Call it on the UI goroutine, then Run the returned request.
func (c *Controller) Begin(ctx context.Context) (context.Context, uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	return ctx, c.seq.Inc()
}

// Run executes the search reserved by Begin. It blocks and may run on any
// goroutine.
func (c *Controller) Run(ctx context.Context, seq uint64, query string) Response {
	items, err := c.fetcher.Fetch(ctx, query)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			c.log.Debug("remote search canceled", "seq", seq, "query", query)
		} else {
			c.log.Warn("remote search failed", "seq", seq, "query", query, "error", err)
		}
		return Response{Seq: seq, Query: query, Result: Result{Success: false, Message: err.Error()}}
	}
	return Response{Seq: seq, Query: query, Result: Result{Success: true, Items: items}}
}

// Search is Begin followed by Run.
func (c *Controller) Search(ctx context.Context, query string) Response {
	ctx, seq := c.Begin(ctx)
	return c.Run(ctx, seq, query)
}

// Accept reports whether seq is the latest request.
func (c *Controller) Accept(seq uint64) bool {
	return seq != 0 && seq == c.seq.Load()
}

// Cancel aborts the in-flight search, if any, and invalidates its result.
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.seq.Inc()
}
