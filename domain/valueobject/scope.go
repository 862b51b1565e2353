package valueobject

import (
	"fmt"
)

// QueryIntent is a tenant-scoped read as the caller meant it, before
// access scoping has been applied. Data-access code must never run an
// intent directly; it goes through the tenant filter guard first.
type QueryIntent struct {
	Resource string
	Limit    int
}

// ScopedQuery is an intent after access scoping. Exactly one of three
// shapes: unrestricted (admin visibility), tenant-equality constrained
// (partner visibility), or match-nothing (deny by default).
type ScopedQuery struct {
	Resource  string
	Limit     int
	TenantEq  *string
	MatchNone bool
}

// Unrestricted reports whether the scope applies no tenant constraint.
func (q ScopedQuery) Unrestricted() bool {
	return !q.MatchNone && q.TenantEq == nil
}

// MatchesTenant reports whether a row with the given tenant id is
// visible under this scope. A nil row tenant only matches an
// unrestricted scope.
func (q ScopedQuery) MatchesTenant(tenantID *string) bool {
	if q.MatchNone {
		return false
	}
	if q.TenantEq == nil {
		return true
	}
	return tenantID != nil && *tenantID == *q.TenantEq
}

// Predicate renders the scope as a SQL condition on the given column.
// argIndex is the positional index of the first placeholder. The
// match-nothing scope renders a condition no row satisfies rather than
// an empty one.
func (q ScopedQuery) Predicate(column string, argIndex int) (string, []interface{}) {
	if q.MatchNone {
		return "1 = 0", nil
	}
	if q.TenantEq == nil {
		return "1 = 1", nil
	}
	return fmt.Sprintf("%s = $%d", column, argIndex), []interface{}{*q.TenantEq}
}
