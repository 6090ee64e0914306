package adminapi

import (
	"net/http"
	"strings"
)

const bearerPrefix = "Bearer "

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, bearerPrefix) {
		return ""
	}
	return strings.TrimPrefix(h, bearerPrefix)
}

// requireAdmin gates h behind the admin bearer token. With no
// AdminToken configured, auth is disabled and h runs unconditionally.
func (s *Server) requireAdmin(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.AdminToken == "" || bearerToken(r) == s.AdminToken {
			h(w, r)
			return
		}
		writeError(w, http.StatusUnauthorized, "admin token required")
	}
}

// requireAdminOrOwner additionally accepts the target account's own
// incoming token, for the admin-or-owner endpoints.
func (s *Server) requireAdminOrOwner(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.AdminToken == "" || bearerToken(r) == s.AdminToken || s.isOwner(r) {
			h(w, r)
			return
		}
		writeError(w, http.StatusUnauthorized, "admin or account token required")
	}
}

// requireOwner accepts only the target account's own incoming token.
func (s *Server) requireOwner(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.AdminToken == "" || s.isOwner(r) {
			h(w, r)
			return
		}
		writeError(w, http.StatusUnauthorized, "account token required")
	}
}

func (s *Server) isOwner(r *http.Request) bool {
	tok := bearerToken(r)
	if tok == "" {
		return false
	}
	a, err := s.Accounts.GetByIncomingHTTPToken(r.Context(), tok)
	if err != nil {
		return false
	}
	return a.ID.String() == r.PathValue("id")
}
