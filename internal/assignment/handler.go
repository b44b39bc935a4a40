package assignment

import (
	"context"
	"net/http"

	"github.com/frahmantamala/asset-custody/internal/transport"
)

type ServiceAPI interface {
	Issue(ctx context.Context, actingUserID int64, dto IssueAssignmentDTO) (*Assignment, error)
	Close(ctx context.Context, actingUserID, id int64, dto CloseAssignmentDTO) (*Assignment, error)
	GetByID(ctx context.Context, id int64) (*Assignment, error)
	List(ctx context.Context, filter ListAssignmentsFilter) (*ListAssignmentsResult, error)
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

// IssueAssignment handles POST /assignments
func (h *Handler) IssueAssignment(w http.ResponseWriter, r *http.Request) {
	actingUserID, ok := h.ActingUser(w, r)
	if !ok {
		return
	}

	var dto IssueAssignmentDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	a, err := h.Service.Issue(r.Context(), actingUserID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, a)
}

// CloseAssignment handles POST /assignments/{id}/close
func (h *Handler) CloseAssignment(w http.ResponseWriter, r *http.Request) {
	actingUserID, ok := h.ActingUser(w, r)
	if !ok {
		return
	}
	id, ok := h.PathID(w, r)
	if !ok {
		return
	}

	var dto CloseAssignmentDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	a, err := h.Service.Close(r.Context(), actingUserID, id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, a)
}

// GetAssignment handles GET /assignments/{id}
func (h *Handler) GetAssignment(w http.ResponseWriter, r *http.Request) {
	id, ok := h.PathID(w, r)
	if !ok {
		return
	}

	a, err := h.Service.GetByID(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, a)
}

// ListAssignments handles GET /assignments?status=&personnel_id=&item_id=&search=&limit=&offset=
func (h *Handler) ListAssignments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := ListAssignmentsFilter{
		Status:      q.Get("status"),
		PersonnelID: transport.QueryInt64(q, "personnel_id"),
		ItemID:      transport.QueryInt64(q, "item_id"),
		Search:      q.Get("search"),
		Limit:       int(transport.QueryInt64(q, "limit")),
		Offset:      int(transport.QueryInt64(q, "offset")),
	}

	result, err := h.Service.List(r.Context(), filter)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, result)
}
