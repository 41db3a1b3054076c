package server

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdantlabs/verdant/internal/content"
	"github.com/verdantlabs/verdant/internal/store"
	"github.com/verdantlabs/verdant/pkg/logging"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()

	logger := logging.NewNopLogger()
	srv := New(store.New(), DefaultConfig(), logger)
	srv.Prefetcher().SetExecFunc(func(_, _ string) (string, string, error) {
		return "", "", nil
	})
	srv.Start()

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		ts.Close()
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	})
	return srv, ts
}

func decodeData(t *testing.T, body []byte, out any) {
	t.Helper()
	var envelope struct {
		Data  json.RawMessage `json:"data"`
		Error any             `json:"error"`
	}
	require.NoError(t, json.Unmarshal(body, &envelope))
	require.Empty(t, envelope.Error, "unexpected error in response: %s", body)
	require.NoError(t, json.Unmarshal(envelope.Data, out))
}

func TestServerInitialization(t *testing.T) {
	done := make(chan *Server)
	go func() {
		done <- New(store.New(), DefaultConfig(), logging.NewNopLogger())
	}()

	select {
	case srv := <-done:
		require.NotNil(t, srv)
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		require.NoError(t, srv.Shutdown(ctx))
	case <-time.After(5 * time.Second):
		t.Fatal("server.New() did not complete within 5 seconds")
	}
}

func TestHealthEndpoint(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/_health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestProductCRUDOverHTTP(t *testing.T) {
	_, ts := newTestServer(t)

	body, _ := json.Marshal(content.Product{
		Name:  "Секатор садовий",
		Price: 849,
	})
	resp, err := http.Post(ts.URL+"/api/products", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	raw := readAll(t, resp)
	require.Equal(t, http.StatusCreated, resp.StatusCode, "body: %s", raw)

	var created content.Product
	decodeData(t, raw, &created)
	require.NotEmpty(t, created.ID)

	// Read it back through the list endpoint.
	resp, err = http.Get(ts.URL + "/api/products")
	require.NoError(t, err)
	raw = readAll(t, resp)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var products []content.Product
	decodeData(t, raw, &products)
	require.Len(t, products, 1)
	assert.Equal(t, "Секатор садовий", products[0].Name)

	// Update.
	created.Price = 799
	updateBody, _ := json.Marshal(created)
	req, _ := http.NewRequest(http.MethodPut, ts.URL+"/api/products/"+created.ID, bytes.NewReader(updateBody))
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	raw = readAll(t, resp)
	require.Equal(t, http.StatusOK, resp.StatusCode, "body: %s", raw)

	// Delete.
	req, _ = http.NewRequest(http.MethodDelete, ts.URL+"/api/products/"+created.ID, nil)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	readAll(t, resp)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/api/products/" + created.ID)
	require.NoError(t, err)
	readAll(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestMutationBroadcastsToEventStream(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/events")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)

	// First frame is the connection handshake.
	env := readEnvelope(t, reader)
	require.Equal(t, "connected", env["type"])

	body, _ := json.Marshal(content.Feature{Title: "Доставка по всій Україні"})
	createResp, err := http.Post(ts.URL+"/api/features", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	readAll(t, createResp)
	require.Equal(t, http.StatusCreated, createResp.StatusCode)

	env = readEnvelope(t, reader)
	require.Equal(t, "update", env["type"])
	data, ok := env["data"].(map[string]any)
	require.True(t, ok, "update envelope missing data: %v", env)
	assert.Equal(t, "feature", data["type"])
	assert.Equal(t, "created", data["action"])
}

func TestMutationTriggersPrefetch(t *testing.T) {
	var runs atomic.Int32

	logger := logging.NewNopLogger()
	srv := New(store.New(), DefaultConfig(), logger)
	srv.Prefetcher().SetExecFunc(func(_, _ string) (string, string, error) {
		runs.Add(1)
		return "", "", nil
	})
	srv.Start()

	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}()

	body, _ := json.Marshal(content.Testimonial{Author: "Оксана", Quote: "Чудовий магазин"})
	resp, err := http.Post(ts.URL+"/api/testimonials", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	readAll(t, resp)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	require.Eventually(t, func() bool {
		return runs.Load() >= 1
	}, 2*time.Second, 10*time.Millisecond, "prefetch command never ran")
}

func TestBrandPopulateQuery(t *testing.T) {
	srv, ts := newTestServer(t)

	cat, err := srv.store.CreateCategory(content.Category{Name: "Поливальні системи"})
	require.NoError(t, err)
	_, err = srv.store.CreateBrand(content.Brand{Name: "Gardena", CategoryIDs: []string{cat.ID}})
	require.NoError(t, err)

	resp, err := http.Get(ts.URL + "/api/brands?populate=categories")
	require.NoError(t, err)
	raw := readAll(t, resp)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var brands []content.Brand
	decodeData(t, raw, &brands)
	require.Len(t, brands, 1)
	require.Len(t, brands[0].Categories, 1)
	assert.Equal(t, "Поливальні системи", brands[0].Categories[0].Name)
}

func TestMethodNotAllowed(t *testing.T) {
	_, ts := newTestServer(t)

	req, _ := http.NewRequest(http.MethodPatch, ts.URL+"/api/products", nil)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	readAll(t, resp)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestCORSHeadersPresent(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/products")
	require.NoError(t, err)
	readAll(t, resp)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

// readEnvelope reads SSE frames until a data line arrives, then decodes it.
func readEnvelope(t *testing.T, reader *bufio.Reader) map[string]any {
	t.Helper()
	deadline := time.After(3 * time.Second)
	lines := make(chan string, 1)
	errs := make(chan error, 1)
	go func() {
		for {
			line, err := reader.ReadString('\n')
			if err != nil {
				errs <- err
				return
			}
			line = strings.TrimSpace(line)
			if strings.HasPrefix(line, "data:") {
				lines <- strings.TrimSpace(strings.TrimPrefix(line, "data:"))
				return
			}
		}
	}()

	select {
	case line := <-lines:
		var env map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &env))
		return env
	case err := <-errs:
		t.Fatalf("reading event stream: %v", err)
	case <-deadline:
		t.Fatal("timed out waiting for event frame")
	}
	return nil
}

func readAll(t *testing.T, resp *http.Response) []byte {
	t.Helper()
	defer resp.Body.Close()
	var buf bytes.Buffer
	_, err := buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	return buf.Bytes()
}
