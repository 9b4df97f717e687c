package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/starfederation/datastar-go/datastar"
)

// DefaultEventName is used for events sent without a Name.
const DefaultEventName = "message"

// Event is one server-sent event. Data is JSON-encoded unless it is a string
// or []byte; a nil Data sends the event with no data lines.
type Event struct {
	ID   string
	Name string
	Data any
}

// StreamContext extends Context with Server-Sent Events output.
type StreamContext interface {
	Context

	// Send writes ev and flushes it to the client.
	Send(ev Event) error

	// Ping sends an event with no data. Browsers do not dispatch it, so it
	// only keeps intermediaries from closing an idle stream.
	Ping(name string) error
}

// SSEHandler runs for the lifetime of an event stream. The stream ends when
// the handler returns or the client disconnects (ctx.Done()).
//
// Example:
//
//	handler.SSE(func(stream handler.StreamContext) error {
//		sub := deliverer.Subscribe(stream, userID)
//		defer sub.Close()
//		for msg := range sub.Receive(stream) {
//			if err := stream.Send(handler.Event{Name: "notification", Data: msg.Data}); err != nil {
//				return err
//			}
//		}
//		return nil
//	})
type SSEHandler func(ctx StreamContext) error

type sseResponse struct {
	handler SSEHandler
}

// SSE creates a response that streams events produced by h.
func SSE(h SSEHandler) Response {
	return sseResponse{handler: h}
}

func (s sseResponse) Render(w http.ResponseWriter, r *http.Request) error {
	// Streams outlive the server write timeout.
	rc := http.NewResponseController(w)
	if err := rc.SetWriteDeadline(time.Time{}); err != nil && !errors.Is(err, http.ErrNotSupported) {
		return err
	}
	w.Header().Set("X-Accel-Buffering", "no")

	sse, err := newSSE(w, r)
	if err != nil {
		return err
	}

	return s.handler(&streamContext{
		Context: NewContext(w, r),
		sse:     sse,
	})
}

// newSSE sends the stream headers. datastar panics when the writer cannot
// flush; that is reported as ErrStreamingUnsupported.
func newSSE(w http.ResponseWriter, r *http.Request) (sse *datastar.ServerSentEventGenerator, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: %v", ErrStreamingUnsupported, p)
		}
	}()
	return datastar.NewSSE(w, r), nil
}

type streamContext struct {
	Context
	sse *datastar.ServerSentEventGenerator
}

func (c *streamContext) Send(ev Event) error {
	lines, err := dataLines(ev.Data)
	if err != nil {
		return err
	}

	name := ev.Name
	if name == "" {
		name = DefaultEventName
	}

	var opts []datastar.SSEEventOption
	if ev.ID != "" {
		opts = append(opts, datastar.WithSSEEventId(ev.ID))
	}
	return c.sse.Send(datastar.EventType(name), lines, opts...)
}

func (c *streamContext) Ping(name string) error {
	return c.sse.Send(datastar.EventType(name), nil)
}

func dataLines(data any) ([]string, error) {
	var payload string
	switch v := data.(type) {
	case nil:
		return nil, nil
	case string:
		payload = v
	case []byte:
		payload = string(v)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode event data: %w", err)
		}
		payload = string(b)
	}
	return strings.Split(payload, "\n"), nil
}
