package verdant

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdantlabs/verdant/internal/content"
	"github.com/verdantlabs/verdant/pkg/logging"
)

var seedYAML = []byte(`
siteSetting:
  siteName: "Зелений Сад"
products:
  - id: p1
    name: "Граблі віялові"
    price: 329
`)

func newTestVerdant(t *testing.T, opts ...Option) Verdant {
	t.Helper()
	opts = append(opts, WithLogger(logging.NewNopLogger()))
	v, err := New(opts...)
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = v.Shutdown(ctx)
	})
	return v
}

func TestNewWithSeedData(t *testing.T) {
	v := newTestVerdant(t, WithSeedData(seedYAML))

	assert.Equal(t, "Зелений Сад", v.Store().SiteSetting().SiteName)
	products := v.Store().Products()
	require.Len(t, products, 1)
	assert.Equal(t, "Граблі віялові", products[0].Name)
}

func TestHooksFirePerAction(t *testing.T) {
	v := newTestVerdant(t)

	var created, updated, deleted []content.Change
	v.OnContentCreated(func(c content.Change) { created = append(created, c) })
	v.OnContentUpdated(func(c content.Change) { updated = append(updated, c) })
	v.OnContentDeleted(func(c content.Change) { deleted = append(deleted, c) })

	p, err := v.Store().CreateProduct(content.Product{Name: "Шланг 20м", Price: 1199})
	require.NoError(t, err)

	p.Price = 999
	_, err = v.Store().UpdateProduct(p.ID, p)
	require.NoError(t, err)

	require.NoError(t, v.Store().DeleteProduct(p.ID))

	require.Len(t, created, 1)
	require.Len(t, updated, 1)
	require.Len(t, deleted, 1)
	assert.Equal(t, content.KindProduct, created[0].Kind)
	assert.Equal(t, content.ActionDeleted, deleted[0].Action)
}

func TestHandlerServesContentAPI(t *testing.T) {
	v := newTestVerdant(t, WithSeedData(seedYAML))
	v.Start()

	ts := httptest.NewServer(v.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/products")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSeedDoesNotFireHooks(t *testing.T) {
	fired := 0
	v, err := New(
		WithLogger(logging.NewNopLogger()),
		WithSeedData(seedYAML),
	)
	require.NoError(t, err)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = v.Shutdown(ctx)
	}()

	v.OnContentCreated(func(content.Change) { fired++ })
	assert.Zero(t, fired)
	require.Len(t, v.Store().Products(), 1)
}
