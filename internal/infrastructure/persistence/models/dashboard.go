package models

import (
	"encoding/json"

	"github.com/cms/dashboard/internal/domain/dashboard"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var modelLogger = zap.L().Named("persistence.models")

// PanelModel is the persistence model for the Panel aggregate
type PanelModel struct {
	AggregateModel
	Title        string     `gorm:"type:varchar(50);not null"`
	Size         string     `gorm:"type:varchar(10);not null;default:'normal'"`
	SortOrder    int        `gorm:"not null;default:0;index"`
	VariantType  string     `gorm:"type:varchar(50);not null;index"`
	OwnerID      *uuid.UUID `gorm:"type:uuid;index"`
	SiteDefault  bool       `gorm:"not null;default:false;index"`
	SettingsJSON string     `gorm:"column:settings;type:jsonb;default:'{}'"`
}

// TableName returns the table name for GORM
func (PanelModel) TableName() string {
	return "dashboard_panels"
}

// ToDomain converts the persistence model to a domain Panel
func (m *PanelModel) ToDomain() *dashboard.Panel {
	panel := &dashboard.Panel{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Title:             m.Title,
		Size:              dashboard.PanelSize(m.Size),
		SortOrder:         m.SortOrder,
		VariantType:       m.VariantType,
		OwnerID:           m.OwnerID,
		SiteDefault:       m.SiteDefault,
		Settings:          make(map[string]string),
	}
	if m.SettingsJSON != "" && m.SettingsJSON != "{}" {
		if err := json.Unmarshal([]byte(m.SettingsJSON), &panel.Settings); err != nil {
			modelLogger.Warn("failed to parse panel settings JSON",
				zap.String("panel_id", m.ID.String()),
				zap.Error(err))
		}
	}
	return panel
}

// FromDomain populates the persistence model from a domain Panel
func (m *PanelModel) FromDomain(p *dashboard.Panel) {
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.Title = p.Title
	m.Size = string(p.Size)
	m.SortOrder = p.SortOrder
	m.VariantType = p.VariantType
	m.OwnerID = p.OwnerID
	m.SiteDefault = p.SiteDefault
	if raw, err := json.Marshal(p.Settings); err == nil {
		m.SettingsJSON = string(raw)
	} else {
		m.SettingsJSON = "{}"
	}
}

// PanelItemModel is the persistence model for panel child records
type PanelItemModel struct {
	BaseModel
	PanelID    uuid.UUID `gorm:"type:uuid;not null;index"`
	SortOrder  int       `gorm:"not null;default:0"`
	FieldsJSON string    `gorm:"column:fields;type:jsonb;default:'{}'"`
}

// TableName returns the table name for GORM
func (PanelItemModel) TableName() string {
	return "dashboard_panel_items"
}

// ToDomain converts the persistence model to a domain PanelItem
func (m *PanelItemModel) ToDomain() *dashboard.PanelItem {
	item := &dashboard.PanelItem{
		BaseEntity: m.BaseModel.ToDomain(),
		PanelID:    m.PanelID,
		SortOrder:  m.SortOrder,
		Fields:     make(map[string]string),
	}
	if m.FieldsJSON != "" && m.FieldsJSON != "{}" {
		if err := json.Unmarshal([]byte(m.FieldsJSON), &item.Fields); err != nil {
			modelLogger.Warn("failed to parse panel item fields JSON",
				zap.String("item_id", m.ID.String()),
				zap.Error(err))
		}
	}
	return item
}

// FromDomain populates the persistence model from a domain PanelItem
func (m *PanelItemModel) FromDomain(item *dashboard.PanelItem) {
	m.FromDomainBaseEntity(item.BaseEntity)
	m.PanelID = item.PanelID
	m.SortOrder = item.SortOrder
	if raw, err := json.Marshal(item.Fields); err == nil {
		m.FieldsJSON = string(raw)
	} else {
		m.FieldsJSON = "{}"
	}
}
