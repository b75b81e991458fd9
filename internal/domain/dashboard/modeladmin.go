package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/cms/dashboard/internal/domain/shared"
)

// ModelRecord is one listed record of a managed model
type ModelRecord struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	EditLink   string    `json:"edit_link"`
	LastEdited time.Time `json:"last_edited"`
}

// RecordLister fetches the most recently edited records of a managed
// model, newest first.
type RecordLister func(ctx context.Context, limit int) ([]ModelRecord, error)

// ManagedModel is one record type administered under a section
type ManagedModel struct {
	Name     string
	Singular string
	Plural   string
	List     RecordLister
}

// AdminSection is one administration area and the models it manages
type AdminSection struct {
	Name       string
	Title      string
	URLSegment string
	Models     []ManagedModel
}

// Model returns the managed model with the given name
func (s *AdminSection) Model(name string) (*ManagedModel, bool) {
	for i := range s.Models {
		if s.Models[i].Name == name {
			return &s.Models[i], true
		}
	}
	return nil, false
}

// ModelAdminDirectory indexes the administration sections registered in
// this deployment so model-browser panels can enumerate and query them.
// Registration happens during startup wiring; reads afterwards are
// lock-free.
type ModelAdminDirectory struct {
	byName  map[string]*AdminSection
	ordered []*AdminSection
}

// NewModelAdminDirectory creates an empty directory
func NewModelAdminDirectory() *ModelAdminDirectory {
	return &ModelAdminDirectory{byName: make(map[string]*AdminSection)}
}

// Register installs a section. Registering an empty or duplicate name
// is an error.
func (d *ModelAdminDirectory) Register(section AdminSection) error {
	if section.Name == "" {
		return shared.NewDomainError("INVALID_SECTION", "section name must not be empty")
	}
	if _, exists := d.byName[section.Name]; exists {
		return shared.NewDomainError("DUPLICATE_SECTION", fmt.Sprintf("section %q is already registered", section.Name))
	}
	s := section
	d.byName[section.Name] = &s
	d.ordered = append(d.ordered, &s)
	return nil
}

// Sections returns all registered sections in registration order
func (d *ModelAdminDirectory) Sections() []*AdminSection {
	return d.ordered
}

// Section returns the section with the given name
func (d *ModelAdminDirectory) Section(name string) (*AdminSection, bool) {
	s, ok := d.byName[name]
	return s, ok
}
