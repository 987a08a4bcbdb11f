package models

import (
	"strings"
	"time"
)

// Cocktail is a menu item managed from the admin dashboard.
type Cocktail struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"not null" json:"name"`
	Ingredients  string    `gorm:"type:text;not null" json:"ingredients"`
	Instructions string    `gorm:"type:text;not null;default:''" json:"instructions"`
	ImagePath    string    `json:"image_path,omitempty"`
	Strength     string    `json:"strength,omitempty"`
	GlassType    string    `json:"glass_type,omitempty"`
	Garnish      string    `json:"garnish,omitempty"`
	Tags         string    `json:"tags,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// HasImage reports whether the cocktail references a stored upload.
func (c Cocktail) HasImage() bool {
	return strings.TrimSpace(c.ImagePath) != ""
}

// TagList splits the comma separated tags column.
func (c Cocktail) TagList() []string {
	if strings.TrimSpace(c.Tags) == "" {
		return nil
	}
	parts := strings.Split(c.Tags, ",")
	tags := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, part := range parts {
		tag := strings.TrimSpace(part)
		if tag == "" {
			continue
		}
		key := strings.ToLower(tag)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		tags = append(tags, tag)
	}
	return tags
}
