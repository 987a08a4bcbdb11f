package models

import (
	"strings"
	"time"
)

// Order is a customer's request for a cocktail. CocktailName is captured at
// order time and never follows later renames.
type Order struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CustomerName string    `gorm:"not null" json:"customer_name"`
	CocktailID   uint      `gorm:"not null;index" json:"cocktail_id"`
	Cocktail     *Cocktail `gorm:"foreignKey:CocktailID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	CocktailName string    `gorm:"not null" json:"cocktail_name"`
	Note         string    `gorm:"type:text" json:"note,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// HasNote reports whether the customer left a note.
func (o Order) HasNote() bool {
	return strings.TrimSpace(o.Note) != ""
}
