package auth

import "errors"

var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("insufficient role")
)

// RequireRole is the explicit authorization verdict handlers invoke before
// calling into the engine. It distinguishes a missing identity from a role
// mismatch so the API layer can answer 401 vs 403.
func RequireRole(identity *Identity, role string) error {
	if identity == nil {
		return ErrUnauthenticated
	}
	if identity.Role != role {
		return ErrForbidden
	}
	return nil
}
