package policy

import (
	"errors"
	"net/http"
)

// Sentinel errors for every policy decision. Handlers wrap nothing on top:
// the message carried by the wrapping fmt.Errorf is the user-facing reason.
var (
	// ErrNotFound means a referenced entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized means the actor lacks the required privilege or the
	// actor's identity itself fails (bad credentials, banned).
	ErrUnauthorized = errors.New("unauthorized")
	// ErrConflict means the request contradicts existing state: duplicate
	// membership, duplicate pending report, malformed report target,
	// action on a terminal-state entity.
	ErrConflict = errors.New("conflict")
	// ErrPolicyViolation means the action is forbidden by a structural rule:
	// banning or deleting an admin, kicking a group creator.
	ErrPolicyViolation = errors.New("policy violation")
)

// StatusCode maps a policy error to an HTTP status for handler responses.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrPolicyViolation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
