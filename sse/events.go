package sse

// Event types sent on the stream.
const (
	// EventTypeConnected is sent once when a client connects.
	EventTypeConnected = "connected"

	// EventTypeKeepAlive is used for keep-alive comments.
	EventTypeKeepAlive = "keepalive"

	// EventTypeIndicator carries a host.IndicatorState.
	EventTypeIndicator = "indicator"

	// EventTypeNotice carries a host.Notice.
	EventTypeNotice = "notice"

	// EventTypeError is sent when an error occurs.
	EventTypeError = "error"
)
