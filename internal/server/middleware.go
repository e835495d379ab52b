package server

import (
	"context"
	"net/http"
)

type contextKey string

const (
	ctxKeyUsername contextKey = "username"
	ctxKeyRole     contextKey = "role"
)

// Roles known to the auth layer. The core trusts the caller-supplied
// user/seller ids; roles only gate which lifecycle actions a caller
// may drive.
const (
	RoleAdmin    = "admin"
	RoleSeller   = "seller"
	RoleEmployee = "employee"
	RoleUser     = "user"
)

func (s *Server) basicAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username, password, ok := r.BasicAuth()
		if !ok {
			w.Header().Set("WWW-Authenticate", `Basic realm="Restricted"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		role, err := s.userRepo.ValidateUser(r.Context(), username, password)
		if err != nil {
			w.Header().Set("WWW-Authenticate", `Basic realm="Restricted"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), ctxKeyUsername, username)
		ctx = context.WithValue(ctx, ctxKeyRole, role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func roleFrom(ctx context.Context) string {
	role, _ := ctx.Value(ctxKeyRole).(string)
	return role
}

func usernameFrom(ctx context.Context) string {
	username, _ := ctx.Value(ctxKeyUsername).(string)
	return username
}

// sellerSideRole reports whether the role may drive fulfillment
// actions; admins and shop employees act with seller privileges.
func sellerSideRole(role string) bool {
	return role == RoleSeller || role == RoleAdmin || role == RoleEmployee
}

func customerSideRole(role string) bool {
	return role == RoleUser || role == RoleAdmin
}
