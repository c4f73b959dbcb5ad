package rbac

import "fmt"

// Config holds the role hierarchy and the role-capability table.
type Config struct {
	Roles        []RoleDefinition
	Resources    []Resource
	Actions      []Action
	Capabilities map[Role]map[Resource][]Action
}

// Validate checks internal consistency of the Config. Capabilities must be
// monotonic: a higher role may do everything a lower role may.
func (c *Config) Validate() error {
	if len(c.Roles) == 0 {
		return fmt.Errorf(errConfigRolesEmpty)
	}
	if len(c.Resources) == 0 {
		return fmt.Errorf(errConfigResourcesEmpty)
	}
	if len(c.Actions) == 0 {
		return fmt.Errorf(errConfigActionsEmpty)
	}
	if len(c.Capabilities) == 0 {
		return fmt.Errorf(errConfigCapabilitiesEmpty)
	}

	roleNames := make(map[Role]int, len(c.Roles))
	roleLevels := make(map[int]Role, len(c.Roles))
	for _, rd := range c.Roles {
		if rd.Name == "" {
			return fmt.Errorf(errConfigRoleNameEmpty)
		}
		if _, dup := roleNames[rd.Name]; dup {
			return fmt.Errorf(errConfigDuplicateRoleNameFmt, rd.Name)
		}
		if existing, dup := roleLevels[rd.Level]; dup {
			return fmt.Errorf(errConfigDuplicateRoleLevelFmt, rd.Level, existing, rd.Name)
		}
		roleNames[rd.Name] = rd.Level
		roleLevels[rd.Level] = rd.Name
	}

	resSet := make(map[Resource]bool, len(c.Resources))
	for _, r := range c.Resources {
		if r == "" {
			return fmt.Errorf(errConfigResourceEmpty)
		}
		if resSet[r] {
			return fmt.Errorf(errConfigDuplicateResourceFmt, r)
		}
		resSet[r] = true
	}

	actSet := make(map[Action]bool, len(c.Actions))
	for _, a := range c.Actions {
		if a == "" {
			return fmt.Errorf(errConfigActionEmpty)
		}
		if actSet[a] {
			return fmt.Errorf(errConfigDuplicateActionFmt, a)
		}
		actSet[a] = true
	}

	for role, resources := range c.Capabilities {
		if _, ok := roleNames[role]; !ok {
			return fmt.Errorf(errConfigCapabilityUnknownRoleFmt, role)
		}
		for res, actions := range resources {
			if !resSet[res] {
				return fmt.Errorf(errConfigCapabilityUnknownResourceFmt, role, res)
			}
			for _, act := range actions {
				if !actSet[act] {
					return fmt.Errorf(errConfigCapabilityUnknownActionFmt, role, res, act)
				}
			}
		}
	}

	for lower, resources := range c.Capabilities {
		for res, actions := range resources {
			for _, act := range actions {
				for higher, level := range roleNames {
					if level <= roleNames[lower] {
						continue
					}
					if !hasAction(c.Capabilities[higher][res], act) {
						return fmt.Errorf(errConfigNotMonotonicFmt, lower, act, res, higher)
					}
				}
			}
		}
	}

	return nil
}

func hasAction(actions []Action, want Action) bool {
	for _, a := range actions {
		if a == want {
			return true
		}
	}
	return false
}
