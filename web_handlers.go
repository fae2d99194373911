package main

import (
	"encoding/json"
	"net/http"
	"time"

	. "github.com/elijahnyp/dash_display/util"
	"github.com/gorilla/websocket"

	"github.com/elijahnyp/dash_display/dash"
	"github.com/elijahnyp/dash_display/feed"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for now
	},
}

// WebSocketMessage represents a message sent over WebSocket
type WebSocketMessage struct {
	Data interface{} `json:"data"`
	Type string      `json:"type"`
}

// WSClient represents a connected WebSocket client
type WSClient struct {
	conn *websocket.Conn
	send chan WebSocketMessage
	hub  *WSHub
}

// WSHub maintains the set of active clients and broadcasts messages
type WSHub struct {
	clients    map[*WSClient]bool
	broadcast  chan WebSocketMessage
	register   chan *WSClient
	unregister chan *WSClient
}

// RowUpdate is broadcast whenever a row re-renders.
type RowUpdate struct {
	Text string `json:"text"`
	Row  int    `json:"row"`
}

// RowStatus describes one dashboard row for the status endpoint.
type RowStatus struct {
	Key      string `json:"key"`
	Text     string `json:"text"`
	Row      int    `json:"row"`
	Editable bool   `json:"editable"`
}

// DashStatus is the whole dashboard for the status endpoint.
type DashStatus struct {
	Rows      []RowStatus `json:"rows"`
	Mode      string      `json:"mode"`
	Cursor    int         `json:"cursor"`
	Timestamp int64       `json:"timestamp"`
}

var wsHub *WSHub

func init() {
	wsHub = NewWSHub()
	go wsHub.Run()
}

// NewWSHub creates a new WebSocket hub
func NewWSHub() *WSHub {
	return &WSHub{
		clients:    make(map[*WSClient]bool),
		broadcast:  make(chan WebSocketMessage),
		register:   make(chan *WSClient),
		unregister: make(chan *WSClient),
	}
}

// Run starts the WebSocket hub
func (h *WSHub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			Logger.Info().Msg("Client connected to WebSocket")

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				Logger.Info().Msg("Client disconnected from WebSocket")
			}

		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}
		}
	}
}

// BroadcastUpdate sends an update to all connected clients
func (h *WSHub) BroadcastUpdate(messageType string, data interface{}) {
	select {
	case h.broadcast <- WebSocketMessage{Type: messageType, Data: data}:
	default:
		// Channel is full, skip this update
	}
}

// readPump pumps messages from the websocket connection to the hub
func (c *WSClient) readPump() {
	defer func() {
		c.hub.unregister <- c
		if err := c.conn.Close(); err != nil {
			Logger.Error().Err(err).Msg("Error closing WebSocket connection")
		}
	}()

	for {
		_, _, err := c.conn.ReadMessage()
		if err != nil {
			break
		}
	}
}

// writePump pumps messages from the hub to the websocket connection
func (c *WSClient) writePump() {
	defer func() {
		if err := c.conn.Close(); err != nil {
			Logger.Error().Err(err).Msg("Error closing WebSocket connection")
		}
	}()

	for message := range c.send {
		if err := c.conn.WriteJSON(message); err != nil {
			return
		}
	}
	if err := c.conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
		Logger.Error().Err(err).Msg("Error writing close message")
	}
}

// ServeWebSocket handles websocket requests from the peer
func ServeWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		Logger.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	client := &WSClient{
		conn: conn,
		send: make(chan WebSocketMessage, 256),
		hub:  wsHub,
	}

	client.hub.register <- client

	go client.writePump()
	go client.readPump()
}

func modeName(mode int) string {
	if mode == dash.EDIT {
		return "edit"
	}
	return "browse"
}

// APIStatus returns the dashboard state as JSON
func APIStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	registry := hub.Registry()
	status := DashStatus{
		Rows:      []RowStatus{},
		Cursor:    hub.CurrentIndex(),
		Mode:      modeName(hub.Mode()),
		Timestamp: time.Now().Unix(),
	}
	for i := 0; i < registry.Len(); i++ {
		d := registry.At(i)
		status.Rows = append(status.Rows, RowStatus{
			Row:      i,
			Key:      d.Key,
			Text:     d.Text(),
			Editable: d.Editable(),
		})
	}

	if err := json.NewEncoder(w).Encode(status); err != nil {
		Logger.Error().Err(err).Msg("Error encoding dashboard status")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// ScreenHandler serves the framebuffer as PNG
func ScreenHandler(w http.ResponseWriter, r *http.Request) {
	data, err := frame.Snapshot()
	if err != nil {
		Logger.Error().Err(err).Msg("Error encoding screen snapshot")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	if _, err := w.Write(data); err != nil {
		Logger.Error().Err(err).Msg("Error writing screen snapshot")
	}
}

// PressHandler pulses a button channel, e.g. /press?btn=down. The pulse is
// held long enough to clear the debounce window at the configured tick rate.
func PressHandler(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("btn")
	channel, ok := feed.ChannelByName(name)
	if !ok {
		http.Error(w, "unknown button", http.StatusBadRequest)
		return
	}
	hold := time.Duration((Config.GetInt("debounce_samples")+2)*Config.GetInt("tick_ms")) * time.Millisecond
	buttons.Pulse(channel, hold)
	w.WriteHeader(http.StatusNoContent)
}
