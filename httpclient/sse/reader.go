// Package sse reads Server-Sent Events streams, such as the daemon's
// /events endpoint.
package sse

import (
	"bufio"
	"encoding/json"
	"io"
	"strings"
)

// Event is a single server-sent event.
type Event struct {
	// Event is the event type; empty for the default "message" type.
	Event string
	// Data is the payload. Multi-line data is joined with newlines.
	Data string
	ID   string
}

// Decode unmarshals the JSON payload of the event into v.
func (e *Event) Decode(v any) error {
	return json.Unmarshal([]byte(e.Data), v)
}

// Reader reads server-sent events from a stream.
type Reader interface {
	// Next returns the next event, or io.EOF when the stream ends.
	Next() (*Event, error)
	Close() error
}

type reader struct {
	scanner *bufio.Scanner
	body    io.ReadCloser
}

// NewReader creates an SSE reader over body.
func NewReader(body io.ReadCloser) Reader {
	return &reader{scanner: bufio.NewScanner(body), body: body}
}

func (r *reader) Next() (*Event, error) {
	var (
		event   Event
		data    []string
		hasData bool
	)

	for r.scanner.Scan() {
		line := r.scanner.Text()
		if line == "" {
			if hasData {
				event.Data = strings.Join(data, "\n")
				return &event, nil
			}
			event = Event{}
			continue
		}
		if strings.HasPrefix(line, ":") {
			continue
		}

		field, value := parseLine(line)
		switch field {
		case "data":
			data = append(data, value)
			hasData = true
		case "event":
			event.Event = value
		case "id":
			event.ID = value
		}
	}

	if err := r.scanner.Err(); err != nil {
		return nil, err
	}
	if hasData {
		event.Data = strings.Join(data, "\n")
		return &event, nil
	}
	return nil, io.EOF
}

func (r *reader) Close() error {
	return r.body.Close()
}

// parseLine splits "field: value", dropping one leading space of the value.
func parseLine(line string) (field, value string) {
	field, value, found := strings.Cut(line, ":")
	if !found {
		return line, ""
	}
	return field, strings.TrimPrefix(value, " ")
}
