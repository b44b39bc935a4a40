package auth

import (
	"log/slog"
	"net/http"
	"slices"

	errors "github.com/frahmantamala/asset-custody/internal"
	"github.com/frahmantamala/asset-custody/internal/transport"
	"github.com/frahmantamala/asset-custody/internal/user"
)

// RBACAuthorization gates routes on the caller's role. It runs after the token middleware.
type RBACAuthorization struct {
	*transport.BaseHandler
}

func NewRBACAuthorization(logger *slog.Logger) *RBACAuthorization {
	return &RBACAuthorization{BaseHandler: transport.NewBaseHandler(logger)}
}

func (ra *RBACAuthorization) RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := errors.ActingUserFromContext(r.Context())
			if !ok {
				ra.HandleServiceError(w, errors.ErrInvalidToken)
				return
			}

			role := errors.RoleFromContext(r.Context())
			if !slices.Contains(roles, role) {
				ra.Logger.WarnContext(r.Context(), "access denied: insufficient role",
					"user_id", userID,
					"role", role,
					"required_roles", roles)
				ra.HandleServiceError(w, errors.ErrInsufficientRole)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin guards user administration and the audit trail.
func (ra *RBACAuthorization) RequireAdmin() func(http.Handler) http.Handler {
	return ra.RequireRole(user.RoleAdmin)
}

// RequireMutator guards directory and ledger writes.
func (ra *RBACAuthorization) RequireMutator() func(http.Handler) http.Handler {
	return ra.RequireRole(user.RoleAdmin, user.RoleManager)
}
