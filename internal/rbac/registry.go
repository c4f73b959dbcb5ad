package rbac

import (
	"fmt"
	"os"
	"sort"

	"portfolio-cms/pkg/validator"

	"gopkg.in/yaml.v3"
)

// Registry is the immutable email to role table. It is built once at startup
// and passed explicitly to whatever needs it.
type Registry struct {
	members map[string]Member
}

// NewRegistry validates entries against the checker's roles. Emails are
// matched case-insensitively and must be unique.
func NewRegistry(checker *Checker, entries []RegistryEntry) (*Registry, error) {
	members := make(map[string]Member, len(entries))
	for _, entry := range entries {
		email := validator.NormalizeEmail(entry.Email)
		if err := validator.Email(email); err != nil {
			return nil, fmt.Errorf(errEntryEmailInvalidFmt, ErrInvalidEntry, entry.Email)
		}
		if _, dup := members[email]; dup {
			return nil, fmt.Errorf(errEntryDuplicateFmt, ErrInvalidEntry, email)
		}
		role, err := checker.ValidateRole(string(entry.Role))
		if err != nil {
			return nil, fmt.Errorf(errEntryRoleFmt, ErrInvalidEntry, email, err)
		}
		members[email] = Member{
			Email:       email,
			Role:        role,
			DisplayName: entry.DisplayName,
		}
	}
	return &Registry{members: members}, nil
}

// Lookup returns the member registered for email, if any.
func (r *Registry) Lookup(email string) (Member, bool) {
	if r == nil {
		return Member{}, false
	}
	m, ok := r.members[validator.NormalizeEmail(email)]
	return m, ok
}

// RoleOf returns the role registered for email.
func (r *Registry) RoleOf(email string) (Role, bool) {
	m, ok := r.Lookup(email)
	return m.Role, ok
}

// Members lists every entry sorted by email.
func (r *Registry) Members() []Member {
	if r == nil {
		return nil
	}
	out := make([]Member, 0, len(r.members))
	for _, m := range r.members {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out
}

// Len reports how many operators are registered.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.members)
}

type registryFile struct {
	Members []RegistryEntry `yaml:"members"`
}

// ParseRegistry decodes the YAML registry format:
//
//	members:
//	  - email: owner@example.com
//	    role: admin
//	    display_name: Owner
func ParseRegistry(data []byte) ([]RegistryEntry, error) {
	var f registryFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf(errRegistryParseFmt, err)
	}
	if len(f.Members) == 0 {
		return nil, fmt.Errorf(errRegistryParseFmt, fmt.Errorf(errRegistryEmptyEntries))
	}
	return f.Members, nil
}

// LoadRegistry reads entries from path, or from fallback when path is empty.
func LoadRegistry(checker *Checker, path string, fallback []byte) (*Registry, error) {
	data := fallback
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf(errRegistryReadFmt, path, err)
		}
		data = b
	}

	entries, err := ParseRegistry(data)
	if err != nil {
		return nil, err
	}
	return NewRegistry(checker, entries)
}
