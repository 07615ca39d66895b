package providers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func namedHandler(name string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(name))
	})
}

func serve(route http.Handler, method string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/x", nil)
	rr := httptest.NewRecorder()
	route.ServeHTTP(rr, req)
	return rr
}

func TestRouterProvider_GetAddsRoute(t *testing.T) {
	rp := NewRouterProvider()
	rp.Get("/courses", namedHandler("list"))

	routes := rp.GetRoutes()
	require.Len(t, routes, 1)
	assert.Equal(t, "/courses", routes[0].Url)
}

func TestRouterProvider_MethodsShareUrl(t *testing.T) {
	rp := NewRouterProvider()
	rp.Get("/course", namedHandler("get"))
	rp.Delete("/course", namedHandler("delete"))
	rp.Post("/progress", namedHandler("progress"))

	routes := rp.GetRoutes()
	require.Len(t, routes, 2)
	assert.Equal(t, "/course", routes[0].Url)
	assert.Equal(t, "/progress", routes[1].Url)

	assert.Equal(t, "get", serve(routes[0].Handler, http.MethodGet).Body.String())
	assert.Equal(t, "delete", serve(routes[0].Handler, http.MethodDelete).Body.String())
	assert.Equal(t, http.StatusMethodNotAllowed, serve(routes[0].Handler, http.MethodPost).Code)
}

func TestRouterProvider_PostRouteRejectsGet(t *testing.T) {
	rp := NewRouterProvider()
	rp.Post("/progress", namedHandler("progress"))

	rr := serve(rp.GetRoutes()[0].Handler, http.MethodGet)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}
