package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/gestaozabele/campanha/internal/schema"
)

type validator[T any] interface {
	*T
	Validate() error
}

func listEntities[Out any](list func(context.Context) ([]Out, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := list(r.Context())
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		WriteJSON(w, http.StatusOK, items)
	}
}

func createEntity[In any, PIn validator[In], Out any](create func(context.Context, In) (Out, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in In
		if !decodeJSON(w, r, &in) {
			return
		}
		if err := PIn(&in).Validate(); err != nil {
			writeServiceError(w, r, err)
			return
		}
		out, err := create(r.Context(), in)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		WriteJSON(w, http.StatusCreated, out)
	}
}

func updateEntity[In any, PIn validator[In], Out any](update func(context.Context, int64, In) (Out, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		var in In
		if !decodeJSON(w, r, &in) {
			return
		}
		if err := PIn(&in).Validate(); err != nil {
			writeServiceError(w, r, err)
			return
		}
		out, err := update(r.Context(), id, in)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		WriteJSON(w, http.StatusOK, out)
	}
}

func deleteEntity(remove func(context.Context, int64) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		if err := remove(r.Context(), id); err != nil {
			writeServiceError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		WriteError(w, http.StatusBadRequest, "ID inválido", "id")
		return 0, false
	}
	return id, true
}

func (h *Handler) ListActivities(w http.ResponseWriter, r *http.Request) {
	listEntities(h.store.ListActivities)(w, r)
}

func (h *Handler) CreateActivity(w http.ResponseWriter, r *http.Request) {
	createEntity[schema.ActivityInput](h.store.CreateActivity)(w, r)
}

func (h *Handler) UpdateActivity(w http.ResponseWriter, r *http.Request) {
	updateEntity[schema.ActivityInput](h.store.UpdateActivity)(w, r)
}

func (h *Handler) DeleteActivity(w http.ResponseWriter, r *http.Request) {
	deleteEntity(h.store.DeleteActivity)(w, r)
}

func (h *Handler) ListNews(w http.ResponseWriter, r *http.Request) {
	listEntities(h.store.ListNews)(w, r)
}

func (h *Handler) CreateNews(w http.ResponseWriter, r *http.Request) {
	createEntity[schema.NewsInput](h.store.CreateNews)(w, r)
}

func (h *Handler) UpdateNews(w http.ResponseWriter, r *http.Request) {
	updateEntity[schema.NewsInput](h.store.UpdateNews)(w, r)
}

func (h *Handler) DeleteNews(w http.ResponseWriter, r *http.Request) {
	deleteEntity(h.store.DeleteNews)(w, r)
}

func (h *Handler) ListProposals(w http.ResponseWriter, r *http.Request) {
	listEntities(h.store.ListProposals)(w, r)
}

func (h *Handler) CreateProposal(w http.ResponseWriter, r *http.Request) {
	createEntity[schema.ProposalInput](h.store.CreateProposal)(w, r)
}

func (h *Handler) UpdateProposal(w http.ResponseWriter, r *http.Request) {
	updateEntity[schema.ProposalInput](h.store.UpdateProposal)(w, r)
}

func (h *Handler) DeleteProposal(w http.ResponseWriter, r *http.Request) {
	deleteEntity(h.store.DeleteProposal)(w, r)
}

func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	listEntities(h.store.ListEvents)(w, r)
}

func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	createEntity[schema.EventInput](h.store.CreateEvent)(w, r)
}

func (h *Handler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	updateEntity[schema.EventInput](h.store.UpdateEvent)(w, r)
}

func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	deleteEntity(h.store.DeleteEvent)(w, r)
}
