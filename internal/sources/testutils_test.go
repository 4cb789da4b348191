package sources

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/campusweb/content-server/internal/entity"
)

func testSchema(t *testing.T, name string) *entity.Schema {
	t.Helper()
	def, ok := entity.Builtin(name)
	require.True(t, ok)
	s, err := entity.NewSchema(name, def)
	require.NoError(t, err)
	return s
}

func newTestServer(t *testing.T, handler http.Handler) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(handler)
	server.Config.SetKeepAlivesEnabled(false)
	t.Cleanup(server.Close)
	return server
}
