package bot

import (
	"crypto/subtle"
	"net/http"
)

// Server exposes the message handler as an HTTP webhook
type Server struct {
	service   *Service
	basicAuth BasicAuth
	mux       *http.ServeMux
}

// BasicAuth holds basic authentication credentials
type BasicAuth struct {
	Username string
	Password string
}

// NewServer builds the webhook server on a fresh mux
func NewServer(service *Service, basicAuth BasicAuth) *Server {
	return NewServerWithMux(service, basicAuth, http.NewServeMux())
}

// NewServerWithMux registers the webhook routes on mux
func NewServerWithMux(service *Service, basicAuth BasicAuth, mux *http.ServeMux) *Server {
	s := &Server{service: service, basicAuth: basicAuth, mux: mux}
	s.registerRoutes()
	return s
}

func (a BasicAuth) enabled() bool {
	return a.Username != "" || a.Password != ""
}

// matches compares both fields in constant time
func (a BasicAuth) matches(r *http.Request) bool {
	user, pass, ok := r.BasicAuth()
	if !ok {
		return false
	}
	userOK := subtle.ConstantTimeCompare([]byte(user), []byte(a.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(pass), []byte(a.Password)) == 1
	return userOK && passOK
}

func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	if !s.basicAuth.enabled() {
		return next
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.basicAuth.matches(r) {
			w.Header().Set("WWW-Authenticate", `Basic realm="Invoice Bot"`)
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next(w, r)
	}
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("POST /api/messages", s.requireAuth(s.handleMessage))
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}
