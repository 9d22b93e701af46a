// Package entity defines the domain entities for the enterprise feature.
package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Enterprise is a company registered by a user.
type Enterprise struct {
	// ID is generated on insert.
	ID uuid.UUID `gorm:"type:char(36);primaryKey" json:"id"`

	Name        string `gorm:"uniqueIndex;size:64;not null" json:"name"`
	Description string `gorm:"size:140;not null" json:"description"`

	// Symbol is the ticker, unique and outside the exchange directory.
	Symbol string `gorm:"uniqueIndex;size:10;not null" json:"symbol"`

	// Timestamp is the creation time; listings are ordered by it.
	Timestamp time.Time `gorm:"index;autoCreateTime" json:"timestamp"`

	// OwnerID references users.id and is fixed at creation.
	OwnerID uint `gorm:"index;not null;<-:create" json:"owner_id"`

	Values []Value `gorm:"many2many:values_enterprises;" json:"values"`
}

// BeforeCreate assigns a random UUID when none is set.
func (e *Enterprise) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// ValueNames returns the names of the enterprise's values.
func (e *Enterprise) ValueNames() []string {
	names := make([]string, 0, len(e.Values))
	for _, v := range e.Values {
		names = append(names, v.Name)
	}
	return names
}

// Value is a tag shared between enterprises. Values are never deleted.
type Value struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;size:64;not null" json:"name"`
	Timestamp time.Time `gorm:"index;autoCreateTime" json:"timestamp"`
}

// TableName avoids the reserved word VALUES.
func (Value) TableName() string {
	return "values_table"
}

// EnterpriseInput carries the fields of the create and edit forms.
// Values is the raw comma-separated list and is ignored on edit.
type EnterpriseInput struct {
	Name        string
	Description string
	Symbol      string
	Values      string
}
