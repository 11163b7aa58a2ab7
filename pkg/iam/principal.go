package iam

import (
	"net/http"

	"github.com/matchbox-hr/matchbox/pkg/errx"
	"github.com/matchbox-hr/matchbox/pkg/kernel"
)

// Role is the closed set of actor roles known to the platform
type Role string

const (
	RoleCandidate  Role = "candidate"
	RoleEmployer   Role = "employer"
	RoleHRAdmin    Role = "hr-admin"
	RoleSuperadmin Role = "superadmin"
)

// IsValid reports whether the role is one of the four known values
func (r Role) IsValid() bool {
	switch r {
	case RoleCandidate, RoleEmployer, RoleHRAdmin, RoleSuperadmin:
		return true
	}
	return false
}

// IsEmployerLike reports whether the role may act on job postings
func (r Role) IsEmployerLike() bool {
	return r == RoleEmployer || r == RoleHRAdmin || r == RoleSuperadmin
}

func (r Role) String() string { return string(r) }

// ParseRole validates a raw role string against the closed set
func ParseRole(raw string) (Role, error) {
	r := Role(raw)
	if !r.IsValid() {
		return "", ErrInvalidRole().WithDetail("role", raw)
	}
	return r, nil
}

// Principal is the authenticated actor for a single request. It is built
// from a validated token by the auth middleware and never persisted.
// EmployerIDs is populated only for hr-admins: the set of employer
// accounts the admin has been delegated authority over.
type Principal struct {
	ID          kernel.UserID       `json:"id"`
	Role        Role                `json:"role"`
	EmployerIDs []kernel.EmployerID `json:"employer_ids,omitempty"`
}

// HasEmployer reports whether the employer is in the assignment set
func (p Principal) HasEmployer(id kernel.EmployerID) bool {
	for _, e := range p.EmployerIDs {
		if e == id {
			return true
		}
	}
	return false
}

// Validate checks the structural invariants of a principal
func (p Principal) Validate() error {
	if p.ID.IsEmpty() {
		return ErrInvalidPrincipal().WithDetail("field", "id")
	}
	if !p.Role.IsValid() {
		return ErrInvalidRole().WithDetail("role", p.Role.String())
	}
	if len(p.EmployerIDs) > 0 && p.Role != RoleHRAdmin {
		return ErrInvalidPrincipal().
			WithDetail("field", "employer_ids").
			WithDetail("role", p.Role.String())
	}
	return nil
}

// Error Registry
var ErrRegistry = errx.NewRegistry("IAM")

var (
	CodeInvalidRole      = ErrRegistry.Register("INVALID_ROLE", errx.TypeValidation, http.StatusBadRequest, "Role is not one of the known roles")
	CodeInvalidPrincipal = ErrRegistry.Register("INVALID_PRINCIPAL", errx.TypeValidation, http.StatusBadRequest, "Principal is structurally invalid")
	CodeUnauthenticated  = ErrRegistry.Register("UNAUTHENTICATED", errx.TypeAuthentication, http.StatusUnauthorized, "Missing or invalid credentials")
	CodePermissionDenied = ErrRegistry.Register("PERMISSION_DENIED", errx.TypeAuthorization, http.StatusForbidden, "Insufficient permissions")
)

func ErrInvalidRole() *errx.Error {
	return ErrRegistry.New(CodeInvalidRole)
}

func ErrInvalidPrincipal() *errx.Error {
	return ErrRegistry.New(CodeInvalidPrincipal)
}

func ErrUnauthenticated() *errx.Error {
	return ErrRegistry.New(CodeUnauthenticated)
}

// ErrPermissionDenied is returned whenever an authorization check fails.
// The message never reveals whether the resource exists.
func ErrPermissionDenied() *errx.Error {
	return ErrRegistry.New(CodePermissionDenied)
}
