package dashboard

import (
	"context"
	"strconv"

	"github.com/cms/dashboard/internal/domain/dashboard"
	"github.com/cms/dashboard/internal/domain/shared"
)

const defaultRecordCount = 10

// ModelAdminContent is the body of a model-browser panel. CreateLink
// and ViewAllLink back the panel's primary and secondary actions.
type ModelAdminContent struct {
	Section     string                  `json:"section"`
	Model       string                  `json:"model"`
	Records     []dashboard.ModelRecord `json:"records"`
	CreateLink  string                  `json:"create_link"`
	ViewAllLink string                  `json:"view_all_link"`
}

// ModelOption is one model of a section, returned by the
// modelsforpanel action for dependent form fields.
type ModelOption struct {
	Name   string `json:"name"`
	Plural string `json:"plural"`
}

// ModelAdminProvider renders model-browser panels from the registered
// administration sections.
type ModelAdminProvider struct {
	directory *dashboard.ModelAdminDirectory
}

// NewModelAdminProvider creates a model-browser content provider
func NewModelAdminProvider(directory *dashboard.ModelAdminDirectory) *ModelAdminProvider {
	return &ModelAdminProvider{directory: directory}
}

func (p *ModelAdminProvider) VariantType() string { return VariantModelAdmin }

// Content lists the most recently edited records of the panel's
// configured model.
func (p *ModelAdminProvider) Content(ctx context.Context, panel *dashboard.Panel) (any, error) {
	sectionName := panel.Settings[SettingSection]
	modelName := panel.Settings[SettingModel]
	if sectionName == "" || modelName == "" {
		return nil, shared.NewDomainError("NOT_CONFIGURED", "Model browser panel has no model configured")
	}

	section, ok := p.directory.Section(sectionName)
	if !ok {
		return nil, shared.ErrNotFound
	}
	model, ok := section.Model(modelName)
	if !ok {
		return nil, shared.ErrNotFound
	}

	limit := defaultRecordCount
	if n, err := strconv.Atoi(panel.Settings[SettingCount]); err == nil && n > 0 {
		limit = n
	}

	records, err := model.List(ctx, limit)
	if err != nil {
		return nil, err
	}
	return &ModelAdminContent{
		Section:     sectionName,
		Model:       modelName,
		Records:     records,
		CreateLink:  "/admin/" + section.URLSegment + "/" + model.Name + "/new",
		ViewAllLink: "/admin/" + section.URLSegment + "/" + model.Name,
	}, nil
}

// Action handles modelsforpanel: the models of a given section, used to
// populate the dependent model dropdown on the configuration form.
func (p *ModelAdminProvider) Action(ctx context.Context, panel *dashboard.Panel, action string, params map[string]string) (any, error) {
	if action != "modelsforpanel" {
		return nil, ErrUnknownAction
	}

	sectionName := params[SettingSection]
	if sectionName == "" {
		sectionName = panel.Settings[SettingSection]
	}
	section, ok := p.directory.Section(sectionName)
	if !ok {
		return nil, shared.ErrNotFound
	}

	options := make([]ModelOption, 0, len(section.Models))
	for _, m := range section.Models {
		options = append(options, ModelOption{Name: m.Name, Plural: m.Plural})
	}
	return options, nil
}
