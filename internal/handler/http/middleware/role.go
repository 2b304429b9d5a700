package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"

	"github.com/shiftwise-hq/workforce-backend-go/internal/domain/tenant"
	"github.com/shiftwise-hq/workforce-backend-go/internal/handler/http/response"
)

// RequireSupervisor requires manager or owner role
func RequireSupervisor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.HandleError(w, tenant.ErrForbiddenTarget)
			return
		}

		roleStr, ok := claims["role"].(string)
		if !ok {
			response.HandleError(w, tenant.ErrForbiddenTarget)
			return
		}

		role := tenant.Role(roleStr)
		if role != tenant.RoleManager && role != tenant.RoleOwner {
			response.HandleError(w, tenant.ErrForbiddenTarget)
			return
		}

		next.ServeHTTP(w, r)
	})
}
