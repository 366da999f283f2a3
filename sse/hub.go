package sse

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/kbukum/voicenotes/logger"
)

// clientBuffer is the number of frames queued per client before frames are
// dropped.
const clientBuffer = 64

// Client represents a connected SSE client.
type Client struct {
	id       string
	metadata map[string]string
	events   chan []byte
	initial  [][]byte
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithMetadata adds a metadata key-value pair to the client.
func WithMetadata(key, value string) ClientOption {
	return func(c *Client) {
		c.metadata[key] = value
	}
}

// WithInitialEvent queues an event written right after the connected event,
// typically a snapshot of the current state.
func WithInitialEvent(eventType string, v any) ClientOption {
	return func(c *Client) {
		frame, err := Frame(eventType, v)
		if err != nil {
			return
		}
		c.initial = append(c.initial, frame)
	}
}

// NewClient creates a new SSE client.
func NewClient(id string, opts ...ClientOption) *Client {
	c := &Client{
		id:       id,
		metadata: make(map[string]string),
		events:   make(chan []byte, clientBuffer),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ID returns the client's unique identifier.
func (c *Client) ID() string { return c.id }

// Metadata returns all client metadata.
func (c *Client) Metadata() map[string]string { return c.metadata }

// Events returns the channel of rendered frames.
func (c *Client) Events() <-chan []byte { return c.events }

// Send queues a frame. Returns false if the client is too slow.
func (c *Client) Send(frame []byte) bool {
	select {
	case c.events <- frame:
		return true
	default:
		return false
	}
}

// Close closes the client's event channel.
func (c *Client) Close() {
	close(c.events)
}

// Frame renders one event in wire format.
func Frame(eventType string, v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode %s event: %w", eventType, err)
	}
	return []byte(fmt.Sprintf("event: %s\ndata: %s\n\n", eventType, data)), nil
}

// Broadcaster publishes events to clients.
type Broadcaster interface {
	// Publish sends an event to every client.
	Publish(eventType string, v any) error
	// BroadcastToPattern sends a rendered frame to clients whose id matches
	// the glob pattern.
	BroadcastToPattern(pattern string, frame []byte)
}

type message struct {
	pattern string
	frame   []byte
}

// Hub manages SSE client connections and message broadcasting.
type Hub struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	broadcast  chan message
	done       chan struct{}
	stopped    bool
	mu         sync.RWMutex
	log        *logger.Logger
}

// NewHub creates a new SSE hub.
func NewHub(log *logger.Logger) *Hub {
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan message, 256),
		done:       make(chan struct{}),
		log:        log.WithComponent("sse"),
	}
}

// Run is the hub's event loop. It blocks until Stop is called.
func (h *Hub) Run() {
	for {
		select {
		case <-h.done:
			h.closeAllClients()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.id] = client
			total := len(h.clients)
			h.mu.Unlock()
			h.log.Debug("client registered", logger.Fields(logger.FieldClientID, client.id, "total_clients", total))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.id]; ok {
				delete(h.clients, client.id)
				client.Close()
			}
			total := len(h.clients)
			h.mu.Unlock()
			h.log.Debug("client unregistered", logger.Fields(logger.FieldClientID, client.id, "total_clients", total))

		case msg := <-h.broadcast:
			h.broadcastWithPattern(msg.pattern, msg.frame)
		}
	}
}

// Stop shuts the hub down, closing every client. Safe to call multiple times.
func (h *Hub) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.stopped {
		h.stopped = true
		close(h.done)
	}
}

func (h *Hub) closeAllClients() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, client := range h.clients {
		client.Close()
		delete(h.clients, id)
	}
	h.log.Debug("all clients closed")
}

// Register adds a client. It returns false if the hub is stopped.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes a client.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Publish renders v as an event of eventType and sends it to every client.
func (h *Hub) Publish(eventType string, v any) error {
	frame, err := Frame(eventType, v)
	if err != nil {
		return err
	}
	h.BroadcastToPattern("*", frame)
	return nil
}

// BroadcastToPattern sends frame to all clients whose id matches pattern.
func (h *Hub) BroadcastToPattern(pattern string, frame []byte) {
	select {
	case h.broadcast <- message{pattern: pattern, frame: frame}:
	case <-h.done:
	}
}

func (h *Hub) broadcastWithPattern(pattern string, frame []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	sent := 0
	for id, client := range h.clients {
		matched, err := filepath.Match(pattern, id)
		if err != nil {
			h.log.Error("pattern match failed", logger.Fields("pattern", pattern, logger.FieldError, err.Error()))
			return
		}
		if !matched {
			continue
		}
		if client.Send(frame) {
			sent++
		} else {
			h.log.Warn("client too slow, dropping event", logger.Fields(logger.FieldClientID, id))
		}
	}
	h.log.Debug("broadcast", logger.Fields("pattern", pattern, "sent", sent, "bytes", len(frame)))
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

var _ Broadcaster = (*Hub)(nil)
