package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dhima/guild-log-viewer/internal/diagnostics"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type seenIDs struct {
	gin     string
	request string
}

func serveWithRequestID(t *testing.T, header string) (*httptest.ResponseRecorder, seenIDs) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID())

	var seen seenIDs
	router.GET("/test", func(c *gin.Context) {
		id, exists := c.Get(RequestIDKey)
		require.True(t, exists)
		seen.gin = id.(string)
		seen.request = diagnostics.RequestIDFrom(c.Request.Context())
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	if header != "" {
		req.Header.Set(RequestIDHeader, header)
	}
	router.ServeHTTP(w, req)
	return w, seen
}

func TestRequestID_WhenClientProvidesRequestID_ThenUsesProvidedID(t *testing.T) {
	// Act
	w, seen := serveWithRequestID(t, "client-provided-request-id")

	// Assert
	assert.Equal(t, "client-provided-request-id", seen.gin)
	assert.Equal(t, "client-provided-request-id", w.Header().Get(RequestIDHeader))
}

func TestRequestID_WhenClientDoesNotProvideRequestID_ThenGeneratesNewID(t *testing.T) {
	// Act
	w, seen := serveWithRequestID(t, "")

	// Assert
	assert.NotEmpty(t, seen.gin)
	assert.Equal(t, seen.gin, w.Header().Get(RequestIDHeader))
}

func TestRequestID_WhenHandled_ThenRequestContextCarriesID(t *testing.T) {
	// Act
	_, seen := serveWithRequestID(t, "ctx-id")

	// Assert
	assert.Equal(t, "ctx-id", seen.request)
}

func TestRequestID_WhenMultipleRequests_ThenEachGetsDifferentID(t *testing.T) {
	// Arrange
	ids := make(map[string]struct{})

	// Act
	for i := 0; i < 3; i++ {
		_, seen := serveWithRequestID(t, "")
		ids[seen.gin] = struct{}{}
	}

	// Assert
	assert.Len(t, ids, 3)
}
