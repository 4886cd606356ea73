package preview

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/studiowebux/mdpad/internal/render"
	"github.com/studiowebux/mdpad/internal/theme"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	s := NewServer("", theme.Builtin().Lookup("dracula"))
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		s.Stop()
		ts.Close()
	})
	return s, ts
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("failed to dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var msg Message
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("failed to read message: %v", err)
	}
	return msg
}

func waitForClients(t *testing.T, s *Server, n int) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for s.ClientCount() != n {
		if time.Now().After(deadline) {
			t.Fatalf("expected %d clients, have %d", n, s.ClientCount())
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestWebSocket_ReceivesLatestOnConnect(t *testing.T) {
	s, ts := newTestServer(t)
	s.Publish(render.Output{Seq: 1, HTML: "<h1>Hi</h1>\n", Words: 2})

	conn := dial(t, ts)
	msg := readMessage(t, conn)

	if msg.Seq != 1 || msg.HTML != "<h1>Hi</h1>\n" || msg.Words != 2 {
		t.Errorf("initial message = %+v", msg)
	}
	if !strings.Contains(msg.ThemeCSS, "#44475A") {
		t.Errorf("initial message should carry theme CSS, got %q", msg.ThemeCSS)
	}
}

func TestWebSocket_PushesEveryRender(t *testing.T) {
	s, ts := newTestServer(t)
	conn := dial(t, ts)
	readMessage(t, conn)
	waitForClients(t, s, 1)

	s.Publish(render.Output{Seq: 2, HTML: "<p>two</p>\n", Words: 1})
	msg := readMessage(t, conn)
	if msg.Seq != 2 || msg.HTML != "<p>two</p>\n" {
		t.Errorf("message = %+v", msg)
	}
	if msg.ThemeCSS != "" {
		t.Errorf("render messages should not repeat theme CSS")
	}

	s.Publish(render.Output{Seq: 3, HTML: "<p>two</p>\n", Words: 1, Err: errors.New("boom")})
	msg = readMessage(t, conn)
	if msg.Error != "boom" || msg.HTML != "<p>two</p>\n" {
		t.Errorf("error message = %+v", msg)
	}
}

func TestSetTheme_Broadcasts(t *testing.T) {
	s, ts := newTestServer(t)
	conn := dial(t, ts)
	readMessage(t, conn)
	waitForClients(t, s, 1)

	s.SetTheme(theme.Builtin().Lookup("retro"))
	msg := readMessage(t, conn)
	if !strings.Contains(msg.ThemeCSS, "#00FF00") {
		t.Errorf("theme message = %+v", msg)
	}
}

func TestClientDisconnect(t *testing.T) {
	s, ts := newTestServer(t)
	conn := dial(t, ts)
	readMessage(t, conn)
	waitForClients(t, s, 1)

	conn.Close()
	waitForClients(t, s, 0)

	// Publishing with no clients must not block
	s.Publish(render.Output{Seq: 9})
	if s.Latest().Seq != 9 {
		t.Errorf("Latest().Seq = %d", s.Latest().Seq)
	}
}

func TestPage(t *testing.T) {
	s, ts := newTestServer(t)
	s.SetTitle("notes.md")
	s.Publish(render.Output{Seq: 1, HTML: "<h1>Page</h1>", Words: 1})

	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	for _, want := range []string{"<title>notes.md</title>", "<h1>Page</h1>", "#44475A", "/highlight.css", "/ws"} {
		if !strings.Contains(string(body), want) {
			t.Errorf("page missing %q", want)
		}
	}

	resp, err = http.Get(ts.URL + "/nope")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestHighlightCSS(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/highlight.css")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if !strings.HasPrefix(resp.Header.Get("Content-Type"), "text/css") {
		t.Errorf("Content-Type = %q", resp.Header.Get("Content-Type"))
	}
	if !strings.Contains(string(body), ".chroma") {
		t.Errorf("expected chroma CSS, got:\n%s", body)
	}
}

func TestStartStop(t *testing.T) {
	s := NewServer("127.0.0.1:0", theme.Builtin().Lookup("light"))
	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	resp, err := http.Get(s.URL())
	if err != nil {
		t.Fatalf("GET %s: %v", s.URL(), err)
	}
	resp.Body.Close()

	if err := s.Stop(); err != nil {
		t.Errorf("Stop() error = %v", err)
	}
}

func TestOffer_KeepsNewest(t *testing.T) {
	ch := make(chan []byte, 1)
	offer(ch, []byte("old"))
	offer(ch, []byte("new"))

	if got := string(<-ch); got != "new" {
		t.Errorf("got %q, want new", got)
	}
}
