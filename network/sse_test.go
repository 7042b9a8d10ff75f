package network

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSSEConnection_Frames(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, RouteEvents, nil)

	conn, err := NewSSEConnection(rec, req)
	if err != nil {
		t.Fatalf("NewSSEConnection failed: %v", err)
	}
	if err := conn.Open(); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if got := rec.Header().Get("Content-Type"); got != ContentTypeEventStream {
		t.Errorf("Expected content type %s, got %s", ContentTypeEventStream, got)
	}

	if err := conn.Send([]byte(`{"a":1}`)); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if err := conn.Ping(); err != nil {
		t.Fatalf("Ping failed: %v", err)
	}

	want := "\ndata: {\"a\":1}\n\n: ping\n\n"
	if rec.Body.String() != want {
		t.Errorf("Expected body %q, got %q", want, rec.Body.String())
	}
	if !rec.Flushed {
		t.Error("Expected frames to be flushed")
	}
}

func TestSSEConnection_OpensLazily(t *testing.T) {
	rec := httptest.NewRecorder()
	conn, err := NewSSEConnection(rec, httptest.NewRequest(http.MethodGet, RouteEvents, nil))
	if err != nil {
		t.Fatal(err)
	}
	if rec.Body.Len() != 0 || rec.Header().Get("Content-Type") != "" {
		t.Fatal("nothing should be written before Open or the first frame")
	}
	if err := conn.Send([]byte("{}")); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if rec.Body.String() != "\ndata: {}\n\n" {
		t.Errorf("unexpected body %q", rec.Body.String())
	}
}

func TestSSEConnection_SendAfterClose(t *testing.T) {
	rec := httptest.NewRecorder()
	conn, err := NewSSEConnection(rec, httptest.NewRequest(http.MethodGet, RouteEvents, nil))
	if err != nil {
		t.Fatal(err)
	}
	conn.Close()
	if err := conn.Send([]byte("{}")); !errors.Is(err, ErrConnectionClosed) {
		t.Errorf("Expected ErrConnectionClosed, got %v", err)
	}
}

type plainWriter struct {
	header http.Header
}

func (w *plainWriter) Header() http.Header         { return w.header }
func (w *plainWriter) Write(b []byte) (int, error) { return len(b), nil }
func (w *plainWriter) WriteHeader(int)             {}

func TestSSEConnection_RequiresFlusher(t *testing.T) {
	w := &plainWriter{header: http.Header{}}
	_, err := NewSSEConnection(w, httptest.NewRequest(http.MethodGet, RouteEvents, nil))
	if !errors.Is(err, ErrStreamingUnsupported) {
		t.Errorf("Expected ErrStreamingUnsupported, got %v", err)
	}
}
