package item

import (
	"context"
	"net/http"

	"github.com/frahmantamala/asset-custody/internal/core/deletion"
	"github.com/frahmantamala/asset-custody/internal/transport"
)

type ServiceAPI interface {
	Create(ctx context.Context, actingUserID int64, dto ItemDTO) (*Item, error)
	Update(ctx context.Context, actingUserID, id int64, dto ItemDTO) (*Item, error)
	Delete(ctx context.Context, actingUserID, id int64) (*deletion.Result, error)
	GetByID(ctx context.Context, id int64) (*Item, error)
	List(ctx context.Context, filter ListItemsFilter) (*ListItemsResult, error)
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

func (h *Handler) CreateItem(w http.ResponseWriter, r *http.Request) {
	actingUserID, ok := h.ActingUser(w, r)
	if !ok {
		return
	}

	var dto ItemDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	it, err := h.Service.Create(r.Context(), actingUserID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, it)
}

func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	actingUserID, ok := h.ActingUser(w, r)
	if !ok {
		return
	}
	id, ok := h.PathID(w, r)
	if !ok {
		return
	}

	var dto ItemDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	it, err := h.Service.Update(r.Context(), actingUserID, id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, it)
}

func (h *Handler) DeleteItem(w http.ResponseWriter, r *http.Request) {
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

func (h *Handler) GetItem(w http.ResponseWriter, r *http.Request) {
	id, ok := h.PathID(w, r)
	if !ok {
		return
	}

	it, err := h.Service.GetByID(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, it)
}

// ListItems handles GET /items?search=&category_id=&status=&limit=&offset=
func (h *Handler) ListItems(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := ListItemsFilter{
		Search:     q.Get("search"),
		CategoryID: transport.QueryInt64(q, "category_id"),
		Status:     q.Get("status"),
		Limit:      int(transport.QueryInt64(q, "limit")),
		Offset:     int(transport.QueryInt64(q, "offset")),
	}

	result, err := h.Service.List(r.Context(), filter)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, result)
}
