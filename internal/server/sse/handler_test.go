package sse

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/verdantlabs/verdant/internal/content"
	"github.com/verdantlabs/verdant/internal/server/events"
)

func testHandler(heartbeat time.Duration) (*Handler, *events.Bus) {
	logger := zerolog.Nop()
	bus := events.NewBus(&logger)
	return NewHandler(bus, heartbeat, &logger), bus
}

func TestHandler_RejectsNonGET(t *testing.T) {
	h, _ := testHandler(0)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/events", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestHandler_StreamHandshake(t *testing.T) {
	h, bus := testHandler(time.Hour)
	srv := httptest.NewServer(h)
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/events", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("content type = %q", ct)
	}
	if cc := resp.Header.Get("Cache-Control"); cc != "no-cache" {
		t.Errorf("cache control = %q", cc)
	}
	if origin := resp.Header.Get("Access-Control-Allow-Origin"); origin != "*" {
		t.Errorf("cors origin = %q", origin)
	}

	reader := bufio.NewReader(resp.Body)
	line, err := reader.ReadString('\n')
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(line, "data: ") {
		t.Fatalf("first frame = %q", line)
	}

	var env events.Envelope
	if err := json.Unmarshal([]byte(strings.TrimPrefix(strings.TrimSpace(line), "data: ")), &env); err != nil {
		t.Fatal(err)
	}
	if env.Type != events.MessageConnected {
		t.Errorf("first message type = %s", env.Type)
	}
	if env.Timestamp.IsZero() {
		t.Error("connected message missing timestamp")
	}

	// The connection is now a registered subscriber.
	waitFor(t, func() bool { return bus.SubscriberCount() == 1 })

	// A broadcast update reaches the stream.
	bus.Broadcast(events.Update(content.NewChange(content.KindProduct, content.ActionUpdated, content.Product{ID: "p1"})))

	// Skip the blank separator line, read the update frame.
	var update events.Envelope
	for {
		line, err = reader.ReadString('\n')
		if err != nil {
			t.Fatal(err)
		}
		if strings.HasPrefix(line, "data: ") {
			if err := json.Unmarshal([]byte(strings.TrimPrefix(strings.TrimSpace(line), "data: ")), &update); err != nil {
				t.Fatal(err)
			}
			break
		}
	}
	if update.Type != events.MessageUpdate {
		t.Errorf("update type = %s", update.Type)
	}
	if update.Data == nil || update.Data.Kind != content.KindProduct {
		t.Errorf("update data = %+v", update.Data)
	}
}

func TestHandler_DisconnectUnregisters(t *testing.T) {
	h, bus := testHandler(time.Hour)
	srv := httptest.NewServer(h)
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/events", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}

	buf := make([]byte, 64)
	if _, err := resp.Body.Read(buf); err != nil {
		t.Fatal(err)
	}
	waitFor(t, func() bool { return bus.SubscriberCount() == 1 })

	// Client goes away; subscriber must be deregistered.
	cancel()
	resp.Body.Close()
	waitFor(t, func() bool { return bus.SubscriberCount() == 0 })
}

func TestHandler_Heartbeat(t *testing.T) {
	h, _ := testHandler(20 * time.Millisecond)
	srv := httptest.NewServer(h)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/events", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	scanner := bufio.NewScanner(resp.Body)
	var pings int
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		var env events.Envelope
		if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &env); err != nil {
			t.Fatal(err)
		}
		if env.Type == events.MessagePing {
			pings++
			if pings >= 2 {
				return
			}
		}
	}
	t.Fatalf("saw %d pings before stream ended", pings)
}

func TestSubscriber_SendAfterFullBufferFails(t *testing.T) {
	sub := newSubscriber()
	for i := 0; i < subscriberBuffer; i++ {
		if err := sub.Send(events.Ping()); err != nil {
			t.Fatalf("send %d failed early: %v", i, err)
		}
	}
	if err := sub.Send(events.Ping()); err == nil {
		t.Error("expected failure once buffer is full")
	}
}

func TestSubscriber_CloseTwice(t *testing.T) {
	sub := newSubscriber()
	if err := sub.Close(); err != nil {
		t.Fatal(err)
	}
	if err := sub.Close(); err != nil {
		t.Fatal(err)
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met within deadline")
}
