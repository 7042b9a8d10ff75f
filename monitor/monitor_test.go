package monitor

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMonitor_Gauges(t *testing.T) {
	m := NewMonitor("galaxy_test")
	m.SetOnlinePlayers(3)
	m.SetQueuedPlayers(1)
	m.SetActiveRooms(2)

	if got := testutil.ToFloat64(m.metrics.OnlinePlayers); got != 3 {
		t.Errorf("Expected 3 online players, got %v", got)
	}
	if got := testutil.ToFloat64(m.metrics.QueuedPlayers); got != 1 {
		t.Errorf("Expected 1 queued player, got %v", got)
	}
	if got := testutil.ToFloat64(m.metrics.ActiveRooms); got != 2 {
		t.Errorf("Expected 2 active rooms, got %v", got)
	}
}

func TestMonitor_ObserveAction(t *testing.T) {
	m := NewMonitor("galaxy_test")
	m.ObserveAction("player-explore-action", "ok", time.Millisecond)
	m.ObserveAction("player-explore-action", "ok", time.Millisecond)
	m.ObserveAction("player-explore-action", "NOT_PLAYERS_TURN", time.Millisecond)

	if got := testutil.ToFloat64(m.metrics.Actions.WithLabelValues("player-explore-action", "ok")); got != 2 {
		t.Errorf("Expected 2 ok explores, got %v", got)
	}
	if got := m.actionCount.Load(); got != 3 {
		t.Errorf("Expected 3 actions counted, got %d", got)
	}
}

func TestMonitor_Handler(t *testing.T) {
	m := NewMonitor("galaxy_test")
	m.SetActiveRooms(1)
	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	for path, want := range map[string]string{
		"/metrics":    "galaxy_test_active_rooms 1",
		"/debug/vars": "uptime",
	} {
		resp, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatalf("GET %s failed: %v", path, err)
		}
		body := new(strings.Builder)
		_, _ = io.Copy(body, resp.Body)
		resp.Body.Close()
		if !strings.Contains(body.String(), want) {
			t.Errorf("GET %s: body does not contain %q", path, want)
		}
	}
}

func TestMonitor_ObserveArchiveDrop(t *testing.T) {
	m := NewMonitor("galaxy_test")
	m.ObserveArchiveDrop()
	m.ObserveArchiveDrop()

	if got := testutil.ToFloat64(m.metrics.ArchiveDrops); got != 2 {
		t.Errorf("Expected 2 dropped archive jobs, got %v", got)
	}
}
