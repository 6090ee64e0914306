package adminapi

import (
	"net/http"

	"github.com/google/uuid"
)

type ratesBody struct {
	Rates  map[string]float64 `json:"rates"`
	Spread float64            `json:"spread"`
}

func (s *Server) putRates(w http.ResponseWriter, r *http.Request) {
	var body ratesBody
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "malformed rates body")
		return
	}
	if err := s.Rates.SetRates(r.Context(), body.Rates); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := s.Rates.SetSpread(r.Context(), body.Spread); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, nil)
}

func (s *Server) listRoutes(w http.ResponseWriter, r *http.Request) {
	table, err := s.Routes.Snapshot(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, table)
}

type routeBody struct {
	NextHop uuid.UUID `json:"next_hop"`
}

func (s *Server) putRoute(w http.ResponseWriter, r *http.Request) {
	prefix := r.PathValue("prefix")
	if prefix == "" {
		writeError(w, http.StatusBadRequest, "prefix is required")
		return
	}
	var body routeBody
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "malformed route body")
		return
	}
	if err := s.Routes.UpsertStaticRoute(r.Context(), prefix, body.NextHop); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, nil)
}

type staticRoutesBody struct {
	// Routes maps address prefix to next-hop account id.
	Routes map[string]uuid.UUID `json:"routes"`
}

// putStaticRoutes bulk-upserts static routes in one request.
func (s *Server) putStaticRoutes(w http.ResponseWriter, r *http.Request) {
	var body staticRoutesBody
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "malformed routes body")
		return
	}
	for prefix, nextHop := range body.Routes {
		if err := s.Routes.UpsertStaticRoute(r.Context(), prefix, nextHop); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}
	writeJSON(w, http.StatusOK, nil)
}

func (s *Server) deleteRoute(w http.ResponseWriter, r *http.Request) {
	prefix := r.PathValue("prefix")
	if err := s.Routes.RemoveStaticRoute(r.Context(), prefix); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
