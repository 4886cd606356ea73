// Package preview serves a live HTML preview of the document to a
// browser. Every render is pushed over a WebSocket.
package preview

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/studiowebux/mdpad/internal/logging"
	"github.com/studiowebux/mdpad/internal/render"
	"github.com/studiowebux/mdpad/internal/theme"
)

const (
	// DefaultAddr is used when no address is configured
	DefaultAddr = "localhost:8787"

	writeTimeout    = 5 * time.Second
	shutdownTimeout = 5 * time.Second
)

// Message is pushed to browsers after every render and theme change
type Message struct {
	Seq      uint64 `json:"seq"`
	HTML     string `json:"html"`
	Words    int    `json:"words"`
	Error    string `json:"error,omitempty"`
	ThemeCSS string `json:"theme_css,omitempty"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Server is the browser preview HTTP server
type Server struct {
	addr       string
	title      string
	httpServer *http.Server
	listener   net.Listener
	upgrader   websocket.Upgrader

	mu      sync.RWMutex
	latest  Message
	theme   theme.Theme
	clients map[*client]struct{}
}

// NewServer creates a preview server for addr using th for page colors
func NewServer(addr string, th theme.Theme) *Server {
	if addr == "" {
		addr = DefaultAddr
	}
	return &Server{
		addr:    addr,
		title:   "mdpad",
		theme:   th,
		clients: make(map[*client]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// SetTitle sets the browser tab title
func (s *Server) SetTitle(title string) {
	s.mu.Lock()
	s.title = title
	s.mu.Unlock()
}

// Handler returns the HTTP routes of the preview
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handlePage)
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/highlight.css", s.handleHighlightCSS)
	return mux
}

// Start listens on the configured address and serves in the background
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	s.listener = ln

	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("preview server stopped", err, "addr", s.addr)
		}
	}()

	logging.L().Info("preview server started", "addr", ln.Addr().String())
	return nil
}

// Addr returns the address being served, or the configured one before Start
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}

// URL returns the page address for a browser
func (s *Server) URL() string {
	return "http://" + s.Addr() + "/"
}

// Stop closes every client and shuts the server down
func (s *Server) Stop() error {
	s.mu.Lock()
	for c := range s.clients {
		s.removeLocked(c)
	}
	s.mu.Unlock()

	if s.httpServer == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return s.httpServer.Shutdown(ctx)
}

// Publish is a render.Sink: it stores out and pushes it to every browser
func (s *Server) Publish(out render.Output) {
	msg := Message{Seq: out.Seq, HTML: out.HTML, Words: out.Words}
	if out.Err != nil {
		msg.Error = out.Err.Error()
	}

	s.mu.Lock()
	s.latest = msg
	s.mu.Unlock()

	s.broadcast(msg)
}

// SetTheme recolors the page in every connected browser
func (s *Server) SetTheme(th theme.Theme) {
	s.mu.Lock()
	s.theme = th
	msg := s.latest
	s.mu.Unlock()

	msg.ThemeCSS = th.CSS()
	s.broadcast(msg)
}

// Latest returns the last published message
func (s *Server) Latest() Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}

// ClientCount returns the number of connected browsers
func (s *Server) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

func (s *Server) broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		logging.Error("failed to encode preview message", err)
		return
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	for c := range s.clients {
		offer(c.send, data)
	}
}

// offer queues data without blocking. Each message carries the full
// document, so a slow client only needs the newest one.
func offer(ch chan []byte, data []byte) {
	for {
		select {
		case ch <- data:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Error("websocket upgrade failed", err, "remote", r.RemoteAddr)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, 1)}

	s.mu.Lock()
	s.clients[c] = struct{}{}
	latest := s.latest
	latest.ThemeCSS = s.theme.CSS()
	if data, err := json.Marshal(latest); err == nil {
		offer(c.send, data)
	}
	s.mu.Unlock()

	go s.writeLoop(c)
	s.readLoop(c)
}

// readLoop discards incoming messages and unregisters the client when the
// connection closes
func (s *Server) readLoop(c *client) {
	defer func() {
		s.mu.Lock()
		s.removeLocked(c)
		s.mu.Unlock()
	}()

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logging.L().Debug("preview client disconnected", "error", err)
			}
			return
		}
	}
}

func (s *Server) writeLoop(c *client) {
	for data := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			c.conn.Close()
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	c.conn.Close()
}

// removeLocked must be called with s.mu held
func (s *Server) removeLocked(c *client) {
	if _, ok := s.clients[c]; !ok {
		return
	}
	delete(s.clients, c)
	close(c.send)
}

func (s *Server) handleHighlightCSS(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	style := s.theme.Highlight
	s.mu.RUnlock()
	if style == "" {
		style = render.DefaultHighlightStyle
	}

	css, err := render.HighlightCSS(style)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Write([]byte(css))
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	s.mu.RLock()
	data := pageData{
		Title:    s.title,
		ThemeCSS: template.CSS(s.theme.CSS()),
		Content:  template.HTML(s.latest.HTML),
		Words:    s.latest.Words,
	}
	s.mu.RUnlock()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, data); err != nil {
		logging.Error("failed to render preview page", err)
	}
}
