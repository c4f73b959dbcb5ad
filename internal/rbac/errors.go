package rbac

import "errors"

var (
	ErrDenied        = errors.New("authorization denied")
	ErrInvalidRole   = errors.New("invalid role")
	ErrInvalidEntry  = errors.New("invalid registry entry")
	ErrNotRegistered = errors.New("email is not in the role registry")
)

const (
	errConfigRolesEmpty                   = "rbac config: roles must not be empty"
	errConfigResourcesEmpty               = "rbac config: resources must not be empty"
	errConfigActionsEmpty                 = "rbac config: actions must not be empty"
	errConfigCapabilitiesEmpty            = "rbac config: capabilities must not be empty"
	errConfigRoleNameEmpty                = "rbac config: role name must not be empty"
	errConfigDuplicateRoleNameFmt         = "rbac config: duplicate role name: %s"
	errConfigDuplicateRoleLevelFmt        = "rbac config: duplicate role level %d (roles %s and %s)"
	errConfigResourceEmpty                = "rbac config: resource must not be empty"
	errConfigDuplicateResourceFmt         = "rbac config: duplicate resource: %s"
	errConfigActionEmpty                  = "rbac config: action must not be empty"
	errConfigDuplicateActionFmt           = "rbac config: duplicate action: %s"
	errConfigCapabilityUnknownRoleFmt     = "rbac config: capability references unknown role: %s"
	errConfigCapabilityUnknownResourceFmt = "rbac config: capability for role %s references unknown resource: %s"
	errConfigCapabilityUnknownActionFmt   = "rbac config: capability for role %s on resource %s references unknown action: %s"
	errConfigNotMonotonicFmt              = "rbac config: role %s may %s %s but higher role %s may not"

	errDeniedRoleEmpty                  = "role is empty"
	errDeniedRoleCannotPerformActionFmt = "role '%s' cannot perform action '%s' on resource '%s'"

	errEntryEmailInvalidFmt = "%w: email %q is not a valid address"
	errEntryDuplicateFmt    = "%w: email %q is listed more than once"
	errEntryRoleFmt         = "%w: email %q: %w"
	errRegistryReadFmt      = "failed to read role registry %s: %w"
	errRegistryParseFmt     = "failed to parse role registry: %w"
	errRegistryEmptyEntries = "role registry has no entries"
)
