package dashboard

import (
	"github.com/cms/dashboard/internal/domain/dashboard"
)

// Variant type identifiers of the built-in panels
const (
	VariantModelAdmin = "modeladmin"
	VariantWeather    = "weather"
	VariantTodo       = "todo"
	VariantActivity   = "activity"
)

// Settings keys of the built-in variants
const (
	SettingSection      = "section"
	SettingModel        = "model"
	SettingCount        = "count"
	SettingLocation     = "location"
	SettingLocationType = "location_type"
	SettingUnits        = "units"
	SettingDays         = "days"
)

// BuiltinVariants returns the descriptors of the panels shipped with
// this service. The model-browser section options are derived from the
// registered administration sections.
func BuiltinVariants(directory *dashboard.ModelAdminDirectory) []dashboard.VariantDescriptor {
	sections := directory.Sections()
	sectionOptions := make([]dashboard.Option, 0, len(sections))
	for _, s := range sections {
		sectionOptions = append(sectionOptions, dashboard.Option{Value: s.Name, Label: s.Title})
	}

	return []dashboard.VariantDescriptor{
		{
			Type:              VariantModelAdmin,
			Label:             "Model Browser",
			Description:       "Lists the most recently edited records of a managed model",
			Icon:              "list",
			Priority:          10,
			DefaultSize:       dashboard.PanelSizeNormal,
			ConfigureOnCreate: true,
			Fields: []dashboard.ConfigField{
				{Name: SettingSection, Label: "Section", Kind: dashboard.FieldOptions, Options: sectionOptions},
				// Model choices depend on the selected section; clients
				// load them through the modelsforpanel action.
				{Name: SettingModel, Label: "Model", Kind: dashboard.FieldText},
				{Name: SettingCount, Label: "Records shown", Kind: dashboard.FieldNumber, Default: "10"},
			},
		},
		{
			Type:        VariantWeather,
			Label:       "Weather",
			Description: "Current conditions for a configured location",
			Icon:        "cloud",
			Priority:    20,
			DefaultSize: dashboard.PanelSizeSmall,
			Fields: []dashboard.ConfigField{
				{Name: SettingLocation, Label: "Location", Kind: dashboard.FieldText, MaxLen: 100},
				{Name: SettingLocationType, Label: "Location type", Kind: dashboard.FieldOptions, Default: "city", Options: []dashboard.Option{
					{Value: "city", Label: "City name"},
					{Value: "code", Label: "Location code"},
				}},
				{Name: SettingUnits, Label: "Units", Kind: dashboard.FieldOptions, Default: "c", Options: []dashboard.Option{
					{Value: "c", Label: "Celsius"},
					{Value: "f", Label: "Fahrenheit"},
				}},
			},
		},
		{
			Type:        VariantTodo,
			Label:       "To-do List",
			Description: "A private checklist",
			Icon:        "check",
			Priority:    30,
			DefaultSize: dashboard.PanelSizeSmall,
			ItemFields: []dashboard.ConfigField{
				{Name: "text", Label: "Text", Kind: dashboard.FieldText, MaxLen: 200},
				{Name: "done", Label: "Done", Kind: dashboard.FieldOptions, Default: "false", Options: []dashboard.Option{
					{Value: "false", Label: "Open"},
					{Value: "true", Label: "Done"},
				}},
			},
		},
		{
			Type:        VariantActivity,
			Label:       "Recent Activity",
			Description: "A chart of content edits across all managed models",
			Icon:        "chart",
			Priority:    40,
			DefaultSize: dashboard.PanelSizeLarge,
			Fields: []dashboard.ConfigField{
				{Name: SettingDays, Label: "Days shown", Kind: dashboard.FieldNumber, Default: "7"},
			},
		},
	}
}

// RegisterBuiltinVariants installs the built-in descriptors into a
// registry.
func RegisterBuiltinVariants(registry *dashboard.Registry, directory *dashboard.ModelAdminDirectory) error {
	for _, v := range BuiltinVariants(directory) {
		if err := registry.Register(v); err != nil {
			return err
		}
	}
	return nil
}
