package tui

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"strings"
)

// streamEvent is one parsed server-sent event.
type streamEvent struct {
	Event string
	Data  string
}

// openStream connects to the live event endpoint and feeds parsed events
// into the returned channel until the stream or ctx ends. The channel is
// closed on exit; a non-nil error is delivered on errc first.
func openStream(ctx context.Context, baseURL, cookieName, token string) (<-chan streamEvent, <-chan error) {
	events := make(chan streamEvent, 16)
	errc := make(chan error, 1)

	go func() {
		defer close(events)

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(baseURL, "/")+"/api/events", nil)
		if err != nil {
			errc <- err
			return
		}
		req.AddCookie(&http.Cookie{Name: cookieName, Value: token})

		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			errc <- err
			return
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			errc <- fmt.Errorf("event stream: HTTP %d", resp.StatusCode)
			return
		}

		var ev streamEvent
		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			line := scanner.Text()
			switch {
			case strings.HasPrefix(line, "event:"):
				ev.Event = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
			case strings.HasPrefix(line, "data:"):
				ev.Data = strings.TrimSpace(strings.TrimPrefix(line, "data:"))
			case line == "":
				if ev.Event != "" {
					select {
					case events <- ev:
					case <-ctx.Done():
						return
					}
				}
				ev = streamEvent{}
			}
			// Comment lines (keepalives) fall through untouched.
		}
		if err := scanner.Err(); err != nil && ctx.Err() == nil {
			errc <- err
		}
	}()

	return events, errc
}
