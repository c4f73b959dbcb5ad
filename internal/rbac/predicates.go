package rbac

import "fmt"

// Predicates combines the role registry with the capability table. Every
// method is a pure function of its arguments and the two injected values.
type Predicates struct {
	checker  *Checker
	registry *Registry
	viewer   Role
	editor   Role
	admin    Role
}

// NewPredicates wires the three predicate tiers to concrete roles.
func NewPredicates(checker *Checker, registry *Registry, admin, editor, viewer Role) *Predicates {
	return &Predicates{
		checker:  checker,
		registry: registry,
		viewer:   viewer,
		editor:   editor,
		admin:    admin,
	}
}

// RoleOf returns the registered role for email.
func (p *Predicates) RoleOf(email string) (Role, bool) {
	return p.registry.RoleOf(email)
}

// Member returns the registry record for email.
func (p *Predicates) Member(email string) (Member, bool) {
	return p.registry.Lookup(email)
}

// CanView is true for any registered email.
func (p *Predicates) CanView(email string) bool {
	role, ok := p.registry.RoleOf(email)
	return ok && p.checker.IsRoleElevated(role, p.viewer)
}

// CanEdit is true for editors and admins.
func (p *Predicates) CanEdit(email string) bool {
	role, ok := p.registry.RoleOf(email)
	return ok && p.checker.IsRoleElevated(role, p.editor)
}

// IsAdmin is true for admins only.
func (p *Predicates) IsAdmin(email string) bool {
	role, ok := p.registry.RoleOf(email)
	return ok && p.checker.IsRoleElevated(role, p.admin)
}

// Authorize resolves email to a role and checks the capability table.
// Denials wrap ErrDenied.
func (p *Predicates) Authorize(email string, resource Resource, action Action) error {
	role, ok := p.registry.RoleOf(email)
	if !ok {
		return fmt.Errorf("%w: %w", ErrDenied, ErrNotRegistered)
	}
	return p.checker.Authorize(role, resource, action)
}

// Allowed is the boolean form of Authorize.
func (p *Predicates) Allowed(email string, resource Resource, action Action) bool {
	return p.Authorize(email, resource, action) == nil
}

// Checker exposes the capability table for listings.
func (p *Predicates) Checker() *Checker {
	return p.checker
}

// Registry exposes the injected registry for listings.
func (p *Predicates) Registry() *Registry {
	return p.registry
}
