package authz

import (
	"fmt"

	"github.com/lib/pq"
	"github.com/matchbox-hr/matchbox/pkg/iam"
	"github.com/matchbox-hr/matchbox/pkg/kernel"
)

// Subject is any resource owned by an employer account. Job postings
// satisfy it; so does anything else whose visibility follows the
// employer-assignment rule.
type Subject interface {
	OwnerEmployer() kernel.EmployerID
}

// CanManage decides whether a principal may manage a subject (view its
// applications, edit it, close it). It is the single source of truth for
// the employer-assignment rule; services must not re-derive it inline.
//
// Rules:
//   - superadmin: always
//   - employer: subject is owned by the principal's own employer account
//   - hr-admin: subject's owner is in the principal's assignment set
//   - everything else, including a nil subject: denied
func CanManage(subject Subject, p iam.Principal) bool {
	if p.Role == iam.RoleSuperadmin {
		return subject != nil
	}
	if subject == nil {
		return false
	}
	owner := subject.OwnerEmployer()
	if owner.IsEmpty() {
		return false
	}
	switch p.Role {
	case iam.RoleEmployer:
		return !p.ID.IsEmpty() && owner == kernel.EmployerID(p.ID)
	case iam.RoleHRAdmin:
		return p.HasEmployer(owner)
	}
	return false
}

// OwnsOrAdmin is the self-service sibling rule: plain identity equality
// on the resource owner, with a superadmin override. A candidate deleting
// their own profile uses this, never the employer-assignment rule.
func OwnsOrAdmin(owner kernel.UserID, p iam.Principal) bool {
	if p.Role == iam.RoleSuperadmin {
		return true
	}
	return !owner.IsEmpty() && owner == p.ID
}

// ScopeKind enumerates the shapes a visibility scope can take
type ScopeKind int

const (
	// ScopeNothing matches no rows. It is the zero value so that an
	// uninitialized scope fails closed.
	ScopeNothing ScopeKind = iota
	ScopeUnrestricted
	ScopeEmployerEquals
	ScopeEmployerIn
)

// Scope is the query-filter equivalent of CanManage, used to build list
// queries without loading every row first. For any subject s and
// principal p, CanManage(s, p) == ScopeFor(p).MatchesOwner(s.OwnerEmployer()).
type Scope struct {
	Kind        ScopeKind
	EmployerIDs []kernel.EmployerID
}

// ScopeFor builds the visibility scope for a principal. Unknown roles and
// candidates get a scope that matches nothing, never an unrestricted one.
func ScopeFor(p iam.Principal) Scope {
	switch p.Role {
	case iam.RoleSuperadmin:
		return Scope{Kind: ScopeUnrestricted}
	case iam.RoleEmployer:
		if p.ID.IsEmpty() {
			return Scope{Kind: ScopeNothing}
		}
		return Scope{
			Kind:        ScopeEmployerEquals,
			EmployerIDs: []kernel.EmployerID{kernel.EmployerID(p.ID)},
		}
	case iam.RoleHRAdmin:
		if len(p.EmployerIDs) == 0 {
			return Scope{Kind: ScopeNothing}
		}
		return Scope{Kind: ScopeEmployerIn, EmployerIDs: p.EmployerIDs}
	}
	return Scope{Kind: ScopeNothing}
}

// MatchesOwner is the in-memory predicate form of the scope
func (s Scope) MatchesOwner(owner kernel.EmployerID) bool {
	switch s.Kind {
	case ScopeUnrestricted:
		return true
	case ScopeEmployerEquals, ScopeEmployerIn:
		if owner.IsEmpty() {
			return false
		}
		for _, e := range s.EmployerIDs {
			if e == owner {
				return true
			}
		}
	}
	return false
}

// IsUnrestricted reports whether the scope matches everything
func (s Scope) IsUnrestricted() bool { return s.Kind == ScopeUnrestricted }

// IsNothing reports whether the scope can never match
func (s Scope) IsNothing() bool {
	switch s.Kind {
	case ScopeUnrestricted:
		return false
	case ScopeEmployerEquals, ScopeEmployerIn:
		return len(s.EmployerIDs) == 0
	}
	return true
}

// Where renders the scope as a SQL predicate on the given column,
// numbering placeholders from argPos. The caller appends the returned
// args to its own argument list.
func (s Scope) Where(column string, argPos int) (string, []any) {
	switch s.Kind {
	case ScopeUnrestricted:
		return "TRUE", nil
	case ScopeEmployerEquals:
		if len(s.EmployerIDs) != 1 {
			return "FALSE", nil
		}
		return fmt.Sprintf("%s = $%d", column, argPos), []any{s.EmployerIDs[0].String()}
	case ScopeEmployerIn:
		if len(s.EmployerIDs) == 0 {
			return "FALSE", nil
		}
		ids := make([]string, 0, len(s.EmployerIDs))
		for _, e := range s.EmployerIDs {
			ids = append(ids, e.String())
		}
		return fmt.Sprintf("%s = ANY($%d)", column, argPos), []any{pq.Array(ids)}
	}
	return "FALSE", nil
}
