package presets

import (
	_ "embed"

	"portfolio-cms/internal/rbac"
)

const (
	RoleAdmin  rbac.Role = "admin"
	RoleEditor rbac.Role = "editor"
	RoleViewer rbac.Role = "viewer"

	ResourcePost      rbac.Resource = "post"
	ResourceContact   rbac.Resource = "contact"
	ResourceMedia     rbac.Resource = "media"
	ResourceSetting   rbac.Resource = "setting"
	ResourceAnalytics rbac.Resource = "analytics"
	ResourceAudit     rbac.Resource = "audit"
	ResourceSystem    rbac.Resource = "system"

	ActionView   rbac.Action = "view"
	ActionCreate rbac.Action = "create"
	ActionEdit   rbac.Action = "edit"
	ActionDelete rbac.Action = "delete"
)

//go:embed registry.yaml
var defaultRegistry []byte

// DefaultRegistry is the registry compiled into the binary. Deployments
// normally replace it with ROLE_REGISTRY_FILE.
func DefaultRegistry() []byte {
	return defaultRegistry
}

// Portfolio returns the capability table for the admin CMS: viewing needs
// any role, creating and editing need editor, deleting and changing site
// settings need admin.
func Portfolio() rbac.Config {
	return rbac.Config{
		Roles: []rbac.RoleDefinition{
			{Name: RoleAdmin, Level: 3},
			{Name: RoleEditor, Level: 2},
			{Name: RoleViewer, Level: 1},
		},
		Resources: []rbac.Resource{
			ResourcePost,
			ResourceContact,
			ResourceMedia,
			ResourceSetting,
			ResourceAnalytics,
			ResourceAudit,
			ResourceSystem,
		},
		Actions: []rbac.Action{
			ActionView,
			ActionCreate,
			ActionEdit,
			ActionDelete,
		},
		Capabilities: map[rbac.Role]map[rbac.Resource][]rbac.Action{
			RoleAdmin: {
				ResourcePost:      {ActionView, ActionCreate, ActionEdit, ActionDelete},
				ResourceContact:   {ActionView, ActionEdit, ActionDelete},
				ResourceMedia:     {ActionView, ActionCreate, ActionEdit, ActionDelete},
				ResourceSetting:   {ActionView, ActionEdit},
				ResourceAnalytics: {ActionView},
				ResourceAudit:     {ActionView},
				ResourceSystem:    {ActionView},
			},
			RoleEditor: {
				ResourcePost:      {ActionView, ActionCreate, ActionEdit},
				ResourceContact:   {ActionView, ActionEdit},
				ResourceMedia:     {ActionView, ActionCreate, ActionEdit},
				ResourceSetting:   {ActionView},
				ResourceAnalytics: {ActionView},
			},
			RoleViewer: {
				ResourcePost:      {ActionView},
				ResourceContact:   {ActionView},
				ResourceMedia:     {ActionView},
				ResourceSetting:   {ActionView},
				ResourceAnalytics: {ActionView},
			},
		},
	}
}

// NewPredicates builds the checker and registry and wires the predicate tiers.
func NewPredicates(registryFile string) (*rbac.Predicates, error) {
	checker, err := rbac.New(Portfolio())
	if err != nil {
		return nil, err
	}
	registry, err := rbac.LoadRegistry(checker, registryFile, DefaultRegistry())
	if err != nil {
		return nil, err
	}
	return rbac.NewPredicates(checker, registry, RoleAdmin, RoleEditor, RoleViewer), nil
}

// PredicatesFor builds predicates over an in-memory registry, mostly for tests.
func PredicatesFor(entries ...rbac.RegistryEntry) (*rbac.Predicates, error) {
	checker, err := rbac.New(Portfolio())
	if err != nil {
		return nil, err
	}
	registry, err := rbac.NewRegistry(checker, entries)
	if err != nil {
		return nil, err
	}
	return rbac.NewPredicates(checker, registry, RoleAdmin, RoleEditor, RoleViewer), nil
}
