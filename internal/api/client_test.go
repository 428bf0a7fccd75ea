package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	host := strings.TrimPrefix(srv.URL, "http://")
	return NewClient(host, false, 2*time.Second, func() (string, error) { return "tok-1", nil })
}

func TestFetchHistory_BareArray(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/notifications/", r.URL.Path)
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		w.Write([]byte(`[
			{"id":1,"title":"a","type":"order","read":false,"created_at":"2024-05-01T10:00:00Z"},
			{"id":2,"title":"b","type":"stock","read":true,"created_at":"2024-05-01T12:00:00Z"}
		]`))
	})

	got, err := c.FetchHistory(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	// Sorted newest first regardless of response order.
	assert.Equal(t, int64(2), got[0].ID)
	assert.Equal(t, int64(1), got[1].ID)
}

func TestFetchHistory_PaginatedEnvelope(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"count":1,"next":null,"results":[
			{"id":3,"title":"c","type":"payment","read":false,"created_at":"2024-05-01T12:00:00Z"}
		]}`))
	})

	got, err := c.FetchHistory(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(3), got[0].ID)
}

func TestFetchHistory_UnexpectedShapeIsEmpty(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"object without results", `{"detail":"throttled"}`},
		{"scalar", `42`},
		{"null", `null`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			})
			got, err := c.FetchHistory(context.Background())
			require.NoError(t, err)
			assert.Empty(t, got)
		})
	}
}

func TestFetchHistory_SkipsInvalidRecords(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"id":0,"title":"bad id","created_at":"2024-05-01T10:00:00Z"},
			{"id":4,"title":"good","created_at":"2024-05-01T10:00:00Z"}
		]`))
	})

	got, err := c.FetchHistory(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(4), got[0].ID)
}

func TestFetchHistory_ServerError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	_, err := c.FetchHistory(context.Background())
	assert.Error(t, err)
}

func TestMarkAsRead(t *testing.T) {
	var gotPath, gotMethod string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		w.WriteHeader(http.StatusOK)
	})

	require.NoError(t, c.MarkAsRead(context.Background(), 42))
	assert.Equal(t, "/notifications/42/mark_as_read/", gotPath)
	assert.Equal(t, http.MethodPost, gotMethod)
}

func TestMarkAllAsRead(t *testing.T) {
	var gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, c.MarkAllAsRead(context.Background()))
	assert.Equal(t, "/notifications/mark_all_as_read/", gotPath)
}

func TestMark_FailureSurfacesError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	assert.Error(t, c.MarkAsRead(context.Background(), 1))
	assert.Error(t, c.MarkAllAsRead(context.Background()))
}
