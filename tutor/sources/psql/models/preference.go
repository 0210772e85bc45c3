// historytutor/tutor/sources/psql/models/preference.go
package models

import "time"

// Preference is the stored display preference of one client.
type Preference struct {
	ClientID   string    `json:"client_id" gorm:"type:varchar(64);primaryKey"`
	Language   string    `json:"language" gorm:"type:varchar(8);not null;default:'en'"`
	FontSize   string    `json:"font_size" gorm:"type:varchar(16);not null;default:'small'"`
	FontFamily string    `json:"font_family" gorm:"type:varchar(16);not null;default:'garamond'"`
	UpdatedAt  time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Preference) TableName() string {
	return "preferences"
}
