package server

import (
	"net/http"

	"github.com/NYTimes/gziphandler"
	"github.com/gorilla/mux"

	"github.com/hseworks/picatrack/pkg/application"
)

type HTTPServer struct {
	controllers []application.Controller
	middleware  []mux.MiddlewareFunc
}

func NewHTTPServer(app application.Application) *HTTPServer {
	return &HTTPServer{
		controllers: app.Controllers(),
		middleware:  app.Middleware(),
	}
}

func (s *HTTPServer) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.middleware...)
	for _, controller := range s.controllers {
		controller.Register(r)
	}
	return r
}

func (s *HTTPServer) Handler() http.Handler {
	return gziphandler.GzipHandler(s.Router())
}

func (s *HTTPServer) Start(socketAddress string) error {
	return http.ListenAndServe(socketAddress, s.Handler())
}
