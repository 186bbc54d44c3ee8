package shopify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopsync/internal/logger"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient("test-shop", "secret", logger.NewWithWriter("error", io.Discard),
		WithBaseURL(srv.URL), WithRateLimit(1000, 1000))
}

func TestProductsSendsQueryAndToken(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products.json", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("X-Shopify-Access-Token"))
		assert.Equal(t, "250", r.URL.Query().Get("limit"))
		assert.Equal(t, "10", r.URL.Query().Get("since_id"))
		assert.Equal(t, "1,2", r.URL.Query().Get("ids"))
		assert.Equal(t, "global", r.URL.Query().Get("published_scope"))

		w.Write([]byte(`{"products":[{"id":12345678901234,"title":"Shirt","variants":[{"id":1,"price":"9.99"}]}]}`))
	})

	products, err := client.Products(context.Background(), Query{
		Limit:          250,
		SinceID:        "10",
		IDs:            []string{"1", "2"},
		PublishedScope: PublishedScopeGlobal,
	})
	require.NoError(t, err)
	require.Len(t, products, 1)

	assert.Equal(t, "12345678901234", products[0].ID())
	assert.Equal(t, json.Number("12345678901234"), products[0]["id"])
	assert.Len(t, products[0].Objects("variants"), 1)
}

func TestCollectionsAndCollectsUseTheirEnvelopes(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/custom_collections.json":
			w.Write([]byte(`{"custom_collections":[{"id":1},{"id":2}]}`))
		case "/collects.json":
			w.Write([]byte(`{"collects":[]}`))
		default:
			http.NotFound(w, r)
		}
	})

	collections, err := client.Collections(context.Background(), Query{})
	require.NoError(t, err)
	assert.Len(t, collections, 2)

	collects, err := client.Collects(context.Background(), Query{SinceID: "2"})
	require.NoError(t, err)
	assert.Empty(t, collects)
}

func TestProductListingIDs(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/product_listings/product_ids.json", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		w.Write([]byte(`{"product_ids":[921728736,632910392]}`))
	})

	ids, err := client.ProductListingIDs(context.Background(), 2, 250)
	require.NoError(t, err)
	assert.Equal(t, []string{"921728736", "632910392"}, ids)
}

func TestFailuresAreTransportErrors(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/products.json":
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"errors":"Invalid API key or access token"}`))
		case "/collects.json":
			w.Write([]byte(`{"collects": nope`))
		default:
			w.Write([]byte(`{"something_else":[]}`))
		}
	})

	_, err := client.Products(context.Background(), Query{})
	te, ok := AsTransportError(err)
	require.True(t, ok)
	assert.True(t, te.IsAuth())
	assert.Equal(t, http.StatusUnauthorized, te.StatusCode)
	assert.Contains(t, err.Error(), "Invalid API key")

	_, err = client.Collects(context.Background(), Query{})
	_, ok = AsTransportError(err)
	assert.True(t, ok)

	_, err = client.Collections(context.Background(), Query{})
	_, ok = AsTransportError(err)
	assert.True(t, ok)
}

func TestQueryClampsLimit(t *testing.T) {
	assert.Equal(t, "250", Query{Limit: 1000}.values().Get("limit"))
	assert.Equal(t, "50", Query{Limit: 50}.values().Get("limit"))
	assert.False(t, Query{}.values().Has("since_id"))
}

func TestShopHost(t *testing.T) {
	assert.Equal(t, "my-shop.myshopify.com", shopHost("my-shop"))
	assert.Equal(t, "shop.example.com", shopHost("shop.example.com"))
}
