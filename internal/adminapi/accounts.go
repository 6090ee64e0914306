package adminapi

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/LeJamon/ilpconnectord/internal/account"
	"github.com/LeJamon/ilpconnectord/internal/store"
)

func (s *Server) createAccount(w http.ResponseWriter, r *http.Request) {
	var a account.Account
	if err := decodeJSON(r, &a); err != nil {
		writeError(w, http.StatusBadRequest, "malformed account body")
		return
	}
	if a.Username == "" {
		writeError(w, http.StatusBadRequest, "username is required")
		return
	}
	if err := s.Accounts.Create(r.Context(), &a); err != nil {
		if err == store.ErrAlreadyExists {
			writeError(w, http.StatusConflict, "account already exists")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, &a)
}

func (s *Server) listAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := s.Accounts.ListAll(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, accounts)
}

func (s *Server) getAccount(w http.ResponseWriter, r *http.Request) {
	id, ok := parseAccountID(w, r)
	if !ok {
		return
	}
	a, err := s.Accounts.GetByID(r.Context(), id)
	if err != nil {
		writeStoreErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) updateAccount(w http.ResponseWriter, r *http.Request) {
	id, ok := parseAccountID(w, r)
	if !ok {
		return
	}
	var a account.Account
	if err := decodeJSON(r, &a); err != nil {
		writeError(w, http.StatusBadRequest, "malformed account body")
		return
	}
	a.ID = id
	if err := s.Accounts.Update(r.Context(), &a); err != nil {
		writeStoreErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, &a)
}

func (s *Server) deleteAccount(w http.ResponseWriter, r *http.Request) {
	id, ok := parseAccountID(w, r)
	if !ok {
		return
	}
	if err := s.Accounts.Delete(r.Context(), id); err != nil {
		writeStoreErr(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) getBalance(w http.ResponseWriter, r *http.Request) {
	id, ok := parseAccountID(w, r)
	if !ok {
		return
	}
	bal, err := s.Balances.GetBalance(r.Context(), id)
	if err != nil {
		writeStoreErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bal)
}

func parseAccountID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed account id")
		return uuid.Nil, false
	}
	return id, true
}

func writeStoreErr(w http.ResponseWriter, err error) {
	if err == store.ErrNotFound {
		writeError(w, http.StatusNotFound, "account not found")
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}
