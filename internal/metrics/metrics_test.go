package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareExposesRouteTemplates(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware())
	r.GET("/api/projects/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/metrics", gin.WrapH(Handler()))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/projects/abc", nil))
	require.Equal(t, http.StatusNoContent, w.Code)

	TrackContentOperation("projects", "create")
	TrackUsageCache(true)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)

	body, err := io.ReadAll(w.Body)
	require.NoError(t, err)
	text := string(body)
	assert.Contains(t, text, `posta_http_requests_total{method="GET",path="/api/projects/:id",status="204"}`)
	assert.NotContains(t, text, "/api/projects/abc")
	assert.Contains(t, text, `posta_content_operations_total{kind="projects",operation="create"}`)
	assert.Contains(t, text, `posta_tag_usage_cache_lookups_total{result="hit"}`)
}
