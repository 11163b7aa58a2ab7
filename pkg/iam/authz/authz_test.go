package authz_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matchbox-hr/matchbox/pkg/iam"
	"github.com/matchbox-hr/matchbox/pkg/iam/authz"
	"github.com/matchbox-hr/matchbox/pkg/kernel"
)

type fakeSubject struct {
	owner kernel.EmployerID
}

func (f fakeSubject) OwnerEmployer() kernel.EmployerID { return f.owner }

func employers(ids ...string) []kernel.EmployerID {
	out := make([]kernel.EmployerID, 0, len(ids))
	for _, id := range ids {
		out = append(out, kernel.EmployerID(id))
	}
	return out
}

func TestCanManage_Superadmin(t *testing.T) {
	p := iam.Principal{ID: "root", Role: iam.RoleSuperadmin}

	for _, owner := range []string{"emp-1", "emp-2", ""} {
		assert.True(t, authz.CanManage(fakeSubject{kernel.EmployerID(owner)}, p),
			"superadmin must manage any subject (owner=%q)", owner)
	}
}

func TestCanManage_NilSubject(t *testing.T) {
	roles := []iam.Role{iam.RoleCandidate, iam.RoleEmployer, iam.RoleHRAdmin, iam.RoleSuperadmin}
	for _, r := range roles {
		p := iam.Principal{ID: "u-1", Role: r, EmployerIDs: employers("emp-1")}
		assert.False(t, authz.CanManage(nil, p), "nil subject must never be manageable (role=%s)", r)
	}
}

func TestCanManage_EmployerOwnership(t *testing.T) {
	p := iam.Principal{ID: "emp-1", Role: iam.RoleEmployer}

	assert.True(t, authz.CanManage(fakeSubject{"emp-1"}, p))
	assert.False(t, authz.CanManage(fakeSubject{"emp-2"}, p))
	assert.False(t, authz.CanManage(fakeSubject{""}, p))
}

func TestCanManage_HRAdminScoping(t *testing.T) {
	p := iam.Principal{
		ID:          "admin-1",
		Role:        iam.RoleHRAdmin,
		EmployerIDs: employers("emp-a", "emp-b"),
	}

	assert.True(t, authz.CanManage(fakeSubject{"emp-a"}, p))
	assert.True(t, authz.CanManage(fakeSubject{"emp-b"}, p))
	assert.False(t, authz.CanManage(fakeSubject{"emp-c"}, p))
	// posting on an employer's behalf does not change ownership: the
	// assignment set is checked against the owner, nothing else
	assert.False(t, authz.CanManage(fakeSubject{"admin-1"}, p))
}

func TestCanManage_FailClosed(t *testing.T) {
	subjects := []fakeSubject{{"emp-1"}, {""}}

	for _, role := range []iam.Role{iam.RoleCandidate, iam.Role("auditor"), iam.Role("")} {
		p := iam.Principal{ID: "emp-1", Role: role}
		for _, s := range subjects {
			assert.False(t, authz.CanManage(s, p), "role %q must be denied", role)
		}
		assert.True(t, authz.ScopeFor(p).IsNothing(), "role %q must scope to nothing", role)
	}
}

func TestScopeFor_Shapes(t *testing.T) {
	assert.True(t, authz.ScopeFor(iam.Principal{ID: "root", Role: iam.RoleSuperadmin}).IsUnrestricted())

	emp := authz.ScopeFor(iam.Principal{ID: "emp-1", Role: iam.RoleEmployer})
	require.Equal(t, authz.ScopeEmployerEquals, emp.Kind)
	assert.Equal(t, employers("emp-1"), emp.EmployerIDs)

	hr := authz.ScopeFor(iam.Principal{ID: "admin-1", Role: iam.RoleHRAdmin, EmployerIDs: employers("emp-a", "emp-b")})
	require.Equal(t, authz.ScopeEmployerIn, hr.Kind)

	// an hr-admin with no assignments sees nothing, not everything
	assert.True(t, authz.ScopeFor(iam.Principal{ID: "admin-2", Role: iam.RoleHRAdmin}).IsNothing())
}

// TestScopeEquivalence exercises the primary correctness property: the
// boolean decision and the list filter must agree on every (subject,
// principal) pair.
func TestScopeEquivalence(t *testing.T) {
	owners := []kernel.EmployerID{"", "emp-1", "emp-2", "emp-3", "admin-1", "cand-1"}

	principals := []iam.Principal{
		{ID: "root", Role: iam.RoleSuperadmin},
		{ID: "emp-1", Role: iam.RoleEmployer},
		{ID: "emp-2", Role: iam.RoleEmployer},
		{ID: "", Role: iam.RoleEmployer},
		{ID: "admin-1", Role: iam.RoleHRAdmin, EmployerIDs: employers("emp-1", "emp-3")},
		{ID: "admin-2", Role: iam.RoleHRAdmin, EmployerIDs: employers("emp-2")},
		{ID: "admin-3", Role: iam.RoleHRAdmin},
		{ID: "cand-1", Role: iam.RoleCandidate},
		{ID: "ghost", Role: iam.Role("support")},
		{ID: "ghost", Role: iam.Role("")},
	}

	for _, p := range principals {
		scope := authz.ScopeFor(p)
		for _, owner := range owners {
			name := fmt.Sprintf("%s/%s/owner=%s", p.Role, p.ID, owner)
			t.Run(name, func(t *testing.T) {
				decision := authz.CanManage(fakeSubject{owner}, p)
				filtered := scope.MatchesOwner(owner)
				assert.Equal(t, decision, filtered,
					"CanManage and ScopeFor disagree for principal %+v, owner %q", p, owner)
			})
		}
	}
}

func TestScopeWhere(t *testing.T) {
	clause, args := authz.ScopeFor(iam.Principal{ID: "root", Role: iam.RoleSuperadmin}).Where("employer_id", 1)
	assert.Equal(t, "TRUE", clause)
	assert.Empty(t, args)

	clause, args = authz.ScopeFor(iam.Principal{ID: "emp-1", Role: iam.RoleEmployer}).Where("employer_id", 3)
	assert.Equal(t, "employer_id = $3", clause)
	require.Len(t, args, 1)
	assert.Equal(t, "emp-1", args[0])

	clause, args = authz.ScopeFor(iam.Principal{ID: "admin-1", Role: iam.RoleHRAdmin, EmployerIDs: employers("emp-a", "emp-b")}).Where("employer_id", 2)
	assert.Equal(t, "employer_id = ANY($2)", clause)
	require.Len(t, args, 1)

	clause, args = authz.ScopeFor(iam.Principal{ID: "cand-1", Role: iam.RoleCandidate}).Where("employer_id", 1)
	assert.Equal(t, "FALSE", clause)
	assert.Empty(t, args)
}

func TestOwnsOrAdmin(t *testing.T) {
	assert.True(t, authz.OwnsOrAdmin("cand-1", iam.Principal{ID: "cand-1", Role: iam.RoleCandidate}))
	assert.False(t, authz.OwnsOrAdmin("cand-1", iam.Principal{ID: "cand-2", Role: iam.RoleCandidate}))
	assert.True(t, authz.OwnsOrAdmin("cand-1", iam.Principal{ID: "root", Role: iam.RoleSuperadmin}))

	// an hr-admin's assignment set grants nothing here: the self-service
	// rule is identity equality only
	p := iam.Principal{ID: "admin-1", Role: iam.RoleHRAdmin, EmployerIDs: employers("cand-1")}
	assert.False(t, authz.OwnsOrAdmin("cand-1", p))

	assert.False(t, authz.OwnsOrAdmin("", iam.Principal{ID: "", Role: iam.RoleCandidate}))
}
