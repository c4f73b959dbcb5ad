package rbac

// Role represents an operator's role in the admin area (hierarchical)
type Role string

// Resource represents a type of content the admin area manages
type Resource string

// Action represents an operation on a resource
type Action string

// RoleDefinition defines a role and its privilege level
type RoleDefinition struct {
	Name  Role
	Level int
}

// RegistryEntry is one operator allowed into the admin area.
type RegistryEntry struct {
	Email       string `yaml:"email"`
	Role        Role   `yaml:"role"`
	DisplayName string `yaml:"display_name"`
}

// Member is the resolved registry record for an email.
type Member struct {
	Email       string
	Role        Role
	DisplayName string
}
