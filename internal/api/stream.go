package api

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// AnalysisEvent describes websocket payloads emitted after each completed analysis.
type AnalysisEvent struct {
	Type       string    `json:"type"`
	ID         string    `json:"id"`
	Modality   string    `json:"modality"`
	Verdict    string    `json:"verdict"`
	Confidence int       `json:"confidence"`
	Timestamp  time.Time `json:"timestamp"`
}

// clientBuffer is the number of events queued per websocket client before new events are dropped.
const clientBuffer = 16

// wsClient wraps a websocket connection with a queue drained by its own writer goroutine.
type wsClient struct {
	conn *websocket.Conn
	send chan AnalysisEvent
}

// AnalysisNotifier keeps track of active websocket clients and broadcasts analysis events.
type AnalysisNotifier struct {
	mu        sync.Mutex
	clients   map[*wsClient]struct{}
	lastEvent *AnalysisEvent
}

// NewAnalysisNotifier constructs a notifier instance.
func NewAnalysisNotifier() *AnalysisNotifier {
	return &AnalysisNotifier{clients: make(map[*wsClient]struct{})}
}

// Register attaches a websocket connection and replays the most recent event to it.
func (n *AnalysisNotifier) Register(conn *websocket.Conn) *wsClient {
	client := &wsClient{conn: conn, send: make(chan AnalysisEvent, clientBuffer)}
	n.mu.Lock()
	n.clients[client] = struct{}{}
	if n.lastEvent != nil {
		client.send <- *n.lastEvent
	}
	n.mu.Unlock()

	go n.writeLoop(client)
	return client
}

// Unregister removes the websocket client from the notifier and closes the socket.
func (n *AnalysisNotifier) Unregister(client *wsClient) {
	if client == nil {
		return
	}
	n.mu.Lock()
	_, ok := n.clients[client]
	if ok {
		delete(n.clients, client)
		close(client.send)
	}
	n.mu.Unlock()
	if ok {
		_ = client.conn.Close()
	}
}

// Broadcast queues the supplied event for all registered websocket clients without waiting on
// their sockets. Clients whose queue is full miss the event.
func (n *AnalysisNotifier) Broadcast(event AnalysisEvent) {
	event.Timestamp = time.Now().UTC()

	n.mu.Lock()
	defer n.mu.Unlock()
	snapshot := event
	n.lastEvent = &snapshot

	for client := range n.clients {
		select {
		case client.send <- event:
		default:
			logrus.WithField("event", event.ID).Warn("analysis websocket client lagging, dropping event")
		}
	}
}

// LastEvent returns a copy of the most recent event, if any.
func (n *AnalysisNotifier) LastEvent() *AnalysisEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.lastEvent == nil {
		return nil
	}
	copy := *n.lastEvent
	return &copy
}

func (n *AnalysisNotifier) writeLoop(client *wsClient) {
	for event := range client.send {
		if err := client.writeJSON(event); err != nil {
			n.Unregister(client)
			return
		}
	}
}

func (c *wsClient) writeJSON(payload interface{}) error {
	if c.conn == nil {
		return nil
	}
	c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return c.conn.WriteJSON(payload)
}
