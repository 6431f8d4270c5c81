package boxhero

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetAllItemsFollowsCursor(t *testing.T) {
	var authHeaders []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeaders = append(authHeaders, r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Query().Get("cursor") {
		case "":
			fmt.Fprint(w, `{"items":[{"id":"bh-1","name":"Machine Bolt 1/4","sku":"BOLT-14-MACHINE","price":"1.25","unit":"ea","quantity":100}],"next_cursor":"page2"}`)
		case "page2":
			fmt.Fprint(w, `{"items":[{"id":"bh-2","name":"Zip Tie 400mm","sku":"ZIP-TIE-400","price":"0.10","unit":"ea","quantity":500}],"next_cursor":""}`)
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
	defer server.Close()

	client := &Client{
		baseURL:    server.URL,
		token:      "test-token",
		httpClient: server.Client(),
	}

	items, err := client.GetAllItems()

	assert.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, "bh-1", items[0].ID)
	assert.Equal(t, "ZIP-TIE-400", items[1].SKU)
	assert.Equal(t, 500, items[1].Quantity)
	for _, header := range authHeaders {
		assert.Equal(t, "Bearer test-token", header)
	}
}

func TestGetAllItemsUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := &Client{
		baseURL:    server.URL,
		token:      "bad-token",
		httpClient: server.Client(),
	}

	_, err := client.GetAllItems()

	assert.Error(t, err)
}
