package audit

import (
	"context"
	"net/http"

	"github.com/frahmantamala/asset-custody/internal/transport"
)

type ServiceAPI interface {
	List(ctx context.Context, filter ListFilter) ([]*Entry, error)
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

// ListEntries handles GET /audit-logs?entity=&entity_id=&limit=&offset=
func (h *Handler) ListEntries(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := ListFilter{
		Entity:   q.Get("entity"),
		EntityID: transport.QueryInt64(q, "entity_id"),
		Limit:    int(transport.QueryInt64(q, "limit")),
		Offset:   int(transport.QueryInt64(q, "offset")),
	}

	entries, err := h.Service.List(r.Context(), filter)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"entries": entries})
}
