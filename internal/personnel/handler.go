package personnel

import (
	"context"
	"net/http"

	"github.com/frahmantamala/asset-custody/internal/core/deletion"
	"github.com/frahmantamala/asset-custody/internal/transport"
)

type ServiceAPI interface {
	Create(ctx context.Context, actingUserID int64, dto CreatePersonnelDTO) (*Personnel, error)
	Update(ctx context.Context, actingUserID, id int64, dto UpdatePersonnelDTO) (*Personnel, error)
	Delete(ctx context.Context, actingUserID, id int64) (*deletion.Result, error)
	GetByID(ctx context.Context, id int64) (*Personnel, error)
	List(ctx context.Context, filter ListPersonnelFilter) (*ListPersonnelResult, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

func (h *Handler) CreatePersonnel(w http.ResponseWriter, r *http.Request) {
	actingUserID, ok := h.ActingUser(w, r)
	if !ok {
		return
	}

	var dto CreatePersonnelDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	p, err := h.Service.Create(r.Context(), actingUserID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, p)
}

func (h *Handler) UpdatePersonnel(w http.ResponseWriter, r *http.Request) {
	actingUserID, ok := h.ActingUser(w, r)
	if !ok {
		return
	}
	id, ok := h.PathID(w, r)
	if !ok {
		return
	}

	var dto UpdatePersonnelDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	p, err := h.Service.Update(r.Context(), actingUserID, id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) DeletePersonnel(w http.ResponseWriter, r *http.Request) {
	actingUserID, ok := h.ActingUser(w, r)
	if !ok {
		return
	}
	id, ok := h.PathID(w, r)
	if !ok {
		return
	}

	result, err := h.Service.Delete(r.Context(), actingUserID, id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) GetPersonnel(w http.ResponseWriter, r *http.Request) {
	id, ok := h.PathID(w, r)
	if !ok {
		return
	}

	p, err := h.Service.GetByID(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, p)
}

// ListPersonnel handles GET /personnel?search=&department_id=&active=&limit=&offset=
func (h *Handler) ListPersonnel(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := ListPersonnelFilter{
		Search:       q.Get("search"),
		DepartmentID: transport.QueryInt64(q, "department_id"),
		Active:       transport.QueryBool(q, "active"),
		Limit:        int(transport.QueryInt64(q, "limit")),
		Offset:       int(transport.QueryInt64(q, "offset")),
	}

	result, err := h.Service.List(r.Context(), filter)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, result)
}
