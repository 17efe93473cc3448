package apiclient

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"github.com/oscarfh/bizdesk/internal/analytics"
)

// Subscription is a live feed of analytics events. Events is closed
// when the stream ends for any reason; there is no automatic
// reconnect, so a consumer that wants to stay live resubscribes
// itself. After the channel closes, Err reports what happened (nil
// for a clean shutdown).
type Subscription struct {
	Events <-chan analytics.Event

	cancel context.CancelFunc

	mu  sync.Mutex
	err error
}

func (s *Subscription) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.err
}

// Close tears the stream down. The Events channel closes shortly
// after.
func (s *Subscription) Close() {
	s.cancel()
}

func (s *Subscription) setErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.err = err
}

// Subscribe opens the server's event stream. The token travels as a
// query parameter because browser EventSource clients cannot set
// headers, and the server accepts both forms.
func (c *Client) Subscribe(ctx context.Context) (*Subscription, error) {
	ctx, cancel := context.WithCancel(ctx)

	endpoint := c.baseURL + "/api/v1/analytics/events?token=" + url.QueryEscape(c.token)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.stream.Do(req)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("opening stream: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		cancel()

		return nil, decodeError(resp)
	}

	events := make(chan analytics.Event)
	sub := &Subscription{Events: events, cancel: cancel}

	go sub.consume(ctx, resp, events)

	return sub, nil
}

func (s *Subscription) consume(ctx context.Context, resp *http.Response, events chan<- analytics.Event) {
	defer close(events)
	defer resp.Body.Close()

	scanner := bufio.NewScanner(resp.Body)

	var (
		eventName string
		data      []byte
	)

	for scanner.Scan() {
		line := scanner.Bytes()

		switch {
		case len(bytes.TrimSpace(line)) == 0:
			// Blank line ends a frame.
			if eventName != "" || len(data) > 0 {
				s.dispatch(ctx, eventName, data, events)
			}

			eventName, data = "", nil
		case bytes.HasPrefix(line, []byte("event:")):
			eventName = string(bytes.TrimSpace(line[len("event:"):]))
		case bytes.HasPrefix(line, []byte("data:")):
			data = append(data, bytes.TrimSpace(line[len("data:"):])...)
		}
	}

	if err := scanner.Err(); err != nil && ctx.Err() == nil {
		s.setErr(fmt.Errorf("reading stream: %w", err))
	}
}

func (s *Subscription) dispatch(ctx context.Context, eventName string, data []byte, events chan<- analytics.Event) {
	var event analytics.Event
	if len(data) > 0 {
		if err := json.Unmarshal(data, &event); err != nil {
			// Skip frames that do not decode rather than killing
			// the whole stream.
			return
		}
	}

	if event.Type == "" {
		event.Type = analytics.EventType(eventName)
	}

	select {
	case events <- event:
	case <-ctx.Done():
	}
}
