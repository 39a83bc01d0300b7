package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/hseworks/picatrack/modules/pica/domain/aggregates/pica"
	"github.com/hseworks/picatrack/modules/pica/services"
	"github.com/hseworks/picatrack/pkg/application"
)

type PicaAPIController struct {
	picas    *services.PicaService
	history  *services.HistoryService
	basePath string
}

func NewPicaAPIController(picas *services.PicaService, history *services.HistoryService) application.Controller {
	return &PicaAPIController{
		picas:    picas,
		history:  history,
		basePath: "/api",
	}
}

func (c *PicaAPIController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.HandleFunc("/picas", c.List).Methods(http.MethodGet)
	router.HandleFunc("/picas", c.Create).Methods(http.MethodPost)
	router.HandleFunc("/picas/{id:[0-9]+}", c.GetByID).Methods(http.MethodGet)
	router.HandleFunc("/picas/{id:[0-9]+}", c.Update).Methods(http.MethodPatch)
	router.HandleFunc("/picas/{id:[0-9]+}", c.Delete).Methods(http.MethodDelete)
	router.HandleFunc("/picas/{id:[0-9]+}/history", c.History).Methods(http.MethodGet)
	router.HandleFunc("/picas/by-key/{key}", c.GetByBusinessKey).Methods(http.MethodGet)
}

func recordID(r *http.Request) uint {
	id, _ := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	return uint(id)
}

func (c *PicaAPIController) List(w http.ResponseWriter, r *http.Request) {
	params := &pica.FindParams{}
	if v := strings.TrimSpace(r.URL.Query().Get("status")); v != "" {
		params.Status = pica.Status(v)
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			params.Limit = parsed
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			params.Offset = parsed
		}
	}

	records, err := c.picas.List(r.Context(), params)
	if err != nil {
		writeError(w, err)
		return
	}

	items := make([]picaResponse, 0, len(records))
	for _, p := range records {
		items = append(items, toPicaResponse(p))
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (c *PicaAPIController) GetByID(w http.ResponseWriter, r *http.Request) {
	p, err := c.picas.GetByID(r.Context(), recordID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPicaResponse(p))
}

func (c *PicaAPIController) GetByBusinessKey(w http.ResponseWriter, r *http.Request) {
	p, err := c.picas.GetByBusinessKey(r.Context(), mux.Vars(r)["key"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPicaResponse(p))
}

func (c *PicaAPIController) Create(w http.ResponseWriter, r *http.Request) {
	var dto pica.CreateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Code: "INVALID_BODY", Message: "malformed JSON body"})
		return
	}

	created, err := c.picas.Create(r.Context(), &dto)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toPicaResponse(created))
}

func (c *PicaAPIController) Update(w http.ResponseWriter, r *http.Request) {
	var dto pica.UpdateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Code: "INVALID_BODY", Message: "malformed JSON body"})
		return
	}

	updated, err := c.picas.Update(r.Context(), recordID(r), &dto)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPicaResponse(updated))
}

func (c *PicaAPIController) Delete(w http.ResponseWriter, r *http.Request) {
	deleted, err := c.picas.Delete(r.Context(), recordID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	if !deleted {
		writeJSON(w, http.StatusNotFound, apiError{Code: "PICA_NOT_FOUND", Message: "pica not found"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c *PicaAPIController) History(w http.ResponseWriter, r *http.Request) {
	entries, err := c.history.ListForRecord(r.Context(), recordID(r))
	if err != nil {
		writeError(w, err)
		return
	}

	items := make([]historyResponse, 0, len(entries))
	for _, e := range entries {
		items = append(items, toHistoryResponse(e))
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}
