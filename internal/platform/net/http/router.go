package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Router is the routing surface modules mount against. Only the chi adapter implements it.
type Router interface {
	Get(path string, h http.HandlerFunc)
	Post(path string, h http.HandlerFunc)
	Put(path string, h http.HandlerFunc)
	Delete(path string, h http.HandlerFunc)
	Handle(path string, h http.Handler)
	Use(mw ...func(http.Handler) http.Handler)
	Group(fn func(Router))
	Route(prefix string, fn func(Router))
}

// chiRouter gets the method and middleware registrars from chi and rewraps subrouters
type chiRouter struct{ chi.Router }

// AdaptChi exposes a chi mux or subrouter as a Router
func AdaptChi(r chi.Router) Router { return chiRouter{r} }

func (c chiRouter) Group(fn func(Router)) {
	c.Router.Group(func(sub chi.Router) { fn(chiRouter{sub}) })
}

func (c chiRouter) Route(prefix string, fn func(Router)) {
	c.Router.Route(prefix, func(sub chi.Router) { fn(chiRouter{sub}) })
}

// Param returns a path parameter matched by the router
func Param(r *http.Request, name string) string { return chi.URLParam(r, name) }
