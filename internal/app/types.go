package app

import (
	"time"

	"portfolio-cms/internal/rbac"
)

// PurgePageViewsRequest selects raw page views older than OlderThan.
type PurgePageViewsRequest struct {
	OlderThan time.Duration
}

// PurgePageViewsResponse reports what a purge removed
type PurgePageViewsResponse struct {
	Cutoff  time.Time
	Deleted int64
}

// MemberReport is one registry row with its resolved predicates.
type MemberReport struct {
	Member  rbac.Member
	CanView bool
	CanEdit bool
	IsAdmin bool
}

// Grant is one role/resource pair and the actions it allows.
type Grant struct {
	Role     rbac.Role
	Resource rbac.Resource
	Actions  []rbac.Action
}

// RoleReport describes the loaded registry and permission table.
type RoleReport struct {
	Members []MemberReport
	Grants  []Grant
}
