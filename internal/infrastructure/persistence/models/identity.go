package models

import (
	"encoding/json"
	"time"

	"github.com/cms/dashboard/internal/domain/identity"
	"go.uber.org/zap"
)

// MemberModel is the persistence model for the Member aggregate
type MemberModel struct {
	AggregateModel
	Email                  string `gorm:"type:varchar(200);not null;uniqueIndex"`
	DisplayName            string `gorm:"type:varchar(200)"`
	PasswordHash           string `gorm:"type:varchar(255);not null"`
	PermissionsJSON        string `gorm:"column:permissions;type:jsonb;default:'[]'"`
	HasConfiguredDashboard bool   `gorm:"not null;default:false"`
	LastLoginAt            *time.Time
}

// TableName returns the table name for GORM
func (MemberModel) TableName() string {
	return "members"
}

// ToDomain converts the persistence model to a domain Member
func (m *MemberModel) ToDomain() *identity.Member {
	member := &identity.Member{
		BaseAggregateRoot:      m.ToDomainAggregateRoot(),
		Email:                  m.Email,
		DisplayName:            m.DisplayName,
		PasswordHash:           m.PasswordHash,
		Permissions:            make([]string, 0),
		HasConfiguredDashboard: m.HasConfiguredDashboard,
		LastLoginAt:            m.LastLoginAt,
	}
	if m.PermissionsJSON != "" && m.PermissionsJSON != "[]" {
		if err := json.Unmarshal([]byte(m.PermissionsJSON), &member.Permissions); err != nil {
			modelLogger.Warn("failed to parse member permissions JSON",
				zap.String("member_id", m.ID.String()),
				zap.Error(err))
		}
	}
	return member
}

// FromDomain populates the persistence model from a domain Member
func (m *MemberModel) FromDomain(member *identity.Member) {
	m.FromDomainAggregateRoot(member.BaseAggregateRoot)
	m.Email = member.Email
	m.DisplayName = member.DisplayName
	m.PasswordHash = member.PasswordHash
	m.HasConfiguredDashboard = member.HasConfiguredDashboard
	m.LastLoginAt = member.LastLoginAt
	if raw, err := json.Marshal(member.Permissions); err == nil {
		m.PermissionsJSON = string(raw)
	} else {
		m.PermissionsJSON = "[]"
	}
}
