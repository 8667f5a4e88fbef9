package postgrest

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dhima/guild-log-viewer/internal/backend"
	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelect_WhenNoFilter_ThenRequestsAllColumnsWithKeyHeaders(t *testing.T) {
	// Arrange
	var gotPath, gotQuery, gotKey, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotKey = r.Header.Get("apikey")
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":1,"event_type":"Member Join"},{"id":2,"event_type":"Member Leave"}]`))
	}))
	defer srv.Close()
	client := New(srv.URL+"/", "anon-key")

	// Act
	rows, err := client.Select(context.Background(), backend.Query{Table: "event_logs"})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "/rest/v1/event_logs", gotPath)
	assert.Equal(t, "select=*", gotQuery)
	assert.Equal(t, "anon-key", gotKey)
	assert.Equal(t, "Bearer anon-key", gotAuth)
	require.Len(t, rows, 2)
	assert.JSONEq(t, `{"id":1,"event_type":"Member Join"}`, string(rows[0]))
	assert.JSONEq(t, `{"id":2,"event_type":"Member Leave"}`, string(rows[1]))
}

func TestSelect_WhenFiltered_ThenAddsEqualityConstraint(t *testing.T) {
	// Arrange
	var gotFilter string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotFilter = r.URL.Query().Get("event_type")
		assert.NotContains(t, r.URL.RawQuery, "+")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()
	client := New(srv.URL, "k")

	// Act
	rows, err := client.Select(context.Background(), backend.Query{Table: "event_logs"}.Where("event_type", "Voice Channel Join"))

	// Assert
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.Equal(t, "eq.Voice Channel Join", gotFilter)
}

func TestSelect_WhenResponseGzipped_ThenDecompresses(t *testing.T) {
	// Arrange
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "gzip", r.Header.Get("Accept-Encoding"))
		w.Header().Set("Content-Encoding", "gzip")
		zw := gzip.NewWriter(w)
		_, _ = zw.Write([]byte(`[{"id":7,"user":"alice","content":"hi"}]`))
		_ = zw.Close()
	}))
	defer srv.Close()

	// Act
	rows, err := New(srv.URL, "k").Select(context.Background(), backend.Query{Table: "message_logs"})

	// Assert
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.JSONEq(t, `{"id":7,"user":"alice","content":"hi"}`, string(rows[0]))
}

func TestSelect_WhenBackendReportsError_ThenReturnsAPIError(t *testing.T) {
	// Arrange
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code":"42703","message":"column message_logs.event_type does not exist","details":null,"hint":"Perhaps you meant channel"}`))
	}))
	defer srv.Close()

	// Act
	_, err := New(srv.URL, "k").Select(context.Background(), backend.Query{Table: "message_logs"})

	// Assert
	var apiErr *backend.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "42703", apiErr.Code)
	assert.Equal(t, "column message_logs.event_type does not exist", apiErr.Message)
	assert.Equal(t, "Perhaps you meant channel", apiErr.Details)
}

func TestSelect_WhenErrorBodyIsNotJSON_ThenUsesRawText(t *testing.T) {
	// Arrange
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
	}))
	defer srv.Close()

	// Act
	_, err := New(srv.URL, "k").Select(context.Background(), backend.Query{Table: "event_logs"})

	// Assert
	var apiErr *backend.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Equal(t, "upstream unavailable", apiErr.Message)
}

func TestSelect_WhenBodyIsNotArray_ThenReturnsError(t *testing.T) {
	// Arrange
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":1}`))
	}))
	defer srv.Close()

	// Act
	_, err := New(srv.URL, "k").Select(context.Background(), backend.Query{Table: "event_logs"})

	// Assert
	assert.ErrorContains(t, err, "expected a JSON array")
}

func TestSelect_WhenServerUnreachable_ThenReturnsTransportError(t *testing.T) {
	// Arrange
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	// Act
	_, err := New(url, "k").Select(context.Background(), backend.Query{Table: "event_logs"})

	// Assert
	assert.ErrorContains(t, err, "request event_logs")
}

func TestSelect_WhenContextCancelled_ThenFails(t *testing.T) {
	// Arrange
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Act
	_, err := New(srv.URL, "k", WithHTTPClient(srv.Client())).Select(ctx, backend.Query{Table: "event_logs"})

	// Assert
	assert.ErrorIs(t, err, context.Canceled)
}
