package report

import (
	"context"
	"net/http"

	"github.com/frahmantamala/asset-custody/internal/transport"
)

type ServiceAPI interface {
	GetTotals(ctx context.Context) (*Totals, error)
	GetRecentAssignments(ctx context.Context, limit int) ([]*RecentAssignment, error)
	GetCategoryDistribution(ctx context.Context) ([]*CategoryDistribution, error)
	GetDepartmentDistribution(ctx context.Context) ([]*DepartmentDistribution, error)
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

// GetTotals handles GET /dashboard/totals
func (h *Handler) GetTotals(w http.ResponseWriter, r *http.Request) {
	totals, err := h.Service.GetTotals(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, totals)
}

// GetRecent handles GET /dashboard/recent?limit=
func (h *Handler) GetRecent(w http.ResponseWriter, r *http.Request) {
	limit := int(transport.QueryInt64(r.URL.Query(), "limit"))

	rows, err := h.Service.GetRecentAssignments(r.Context(), limit)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"assignments": rows})
}

// GetCategories handles GET /dashboard/categories
func (h *Handler) GetCategories(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Service.GetCategoryDistribution(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"categories": rows})
}

// GetDepartments handles GET /dashboard/departments
func (h *Handler) GetDepartments(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Service.GetDepartmentDistribution(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"departments": rows})
}
