package rbac

import (
	"fmt"
	"sort"
)

// Checker answers role-capability questions from a validated Config
type Checker struct {
	config       Config
	roleIndex    map[Role]int
	capabilities map[Role]map[Resource]map[Action]bool
}

// New creates a Checker from a validated Config
func New(cfg Config) (*Checker, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	rc := &Checker{config: cfg}
	rc.buildLookups()
	return rc, nil
}

func (rc *Checker) buildLookups() {
	cfg := rc.config

	rc.roleIndex = make(map[Role]int, len(cfg.Roles))
	for _, rd := range cfg.Roles {
		rc.roleIndex[rd.Name] = rd.Level
	}

	rc.capabilities = make(map[Role]map[Resource]map[Action]bool, len(cfg.Capabilities))
	for role, resources := range cfg.Capabilities {
		rc.capabilities[role] = make(map[Resource]map[Action]bool, len(resources))
		for res, actions := range resources {
			rc.capabilities[role][res] = make(map[Action]bool, len(actions))
			for _, act := range actions {
				rc.capabilities[role][res][act] = true
			}
		}
	}
}

// Authorize checks if the role can perform an action on a resource
func (rc *Checker) Authorize(role Role, resource Resource, action Action) error {
	if role == "" {
		return fmt.Errorf("%w: %s", ErrDenied, errDeniedRoleEmpty)
	}
	if !rc.canRolePerformAction(role, resource, action) {
		return fmt.Errorf("%w: "+errDeniedRoleCannotPerformActionFmt, ErrDenied, role, action, resource)
	}
	return nil
}

// IsAuthorized returns a boolean version of Authorize
func (rc *Checker) IsAuthorized(role Role, resource Resource, action Action) bool {
	return rc.Authorize(role, resource, action) == nil
}

func (rc *Checker) canRolePerformAction(role Role, resource Resource, action Action) bool {
	resources, ok := rc.capabilities[role]
	if !ok {
		return false
	}
	actions, ok := resources[resource]
	if !ok {
		return false
	}
	return actions[action]
}

// IsRoleElevated checks if role1 has equal or higher privilege than role2
func (rc *Checker) IsRoleElevated(role1, role2 Role) bool {
	level1, exists1 := rc.roleIndex[role1]
	level2, exists2 := rc.roleIndex[role2]
	if !exists1 || !exists2 {
		return false
	}
	return level1 >= level2
}

// ValidateRole validates a role string against configured roles
func (rc *Checker) ValidateRole(role string) (Role, error) {
	r := Role(role)
	if _, ok := rc.roleIndex[r]; ok {
		return r, nil
	}
	return "", fmt.Errorf("%w: %s", ErrInvalidRole, role)
}

// Roles returns the configured roles, highest level first.
func (rc *Checker) Roles() []RoleDefinition {
	roles := append([]RoleDefinition(nil), rc.config.Roles...)
	sort.Slice(roles, func(i, j int) bool { return roles[i].Level > roles[j].Level })
	return roles
}

// Resources returns the configured resources in declaration order.
func (rc *Checker) Resources() []Resource {
	return append([]Resource(nil), rc.config.Resources...)
}

// Actions returns the configured actions in declaration order.
func (rc *Checker) Actions() []Action {
	return append([]Action(nil), rc.config.Actions...)
}
