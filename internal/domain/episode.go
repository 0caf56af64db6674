package domain

import "time"

// Episode эпизод, принадлежащий одному сезону.
type Episode struct {
	Base
	Name            string     `gorm:"column:name;size:128;not null" json:"name"`
	AirDate         *time.Time `gorm:"column:air_date;type:date" json:"air_date,omitempty"`
	Duration        *int       `gorm:"column:duration" json:"duration,omitempty"`
	ProductionCode  *string    `gorm:"column:production_code;size:8" json:"production_code,omitempty"`
	BroadcastNumber *int       `gorm:"column:broadcast_number" json:"broadcast_number,omitempty"`
	SeasonID        int64      `gorm:"column:season_id;not null;index" json:"season_id"`

	// Relationships
	Season     *Season     `gorm:"foreignKey:SeasonID" json:"season,omitempty"`
	Characters []Character `gorm:"many2many:episode_character_association;" json:"characters,omitempty"`
}

// TableName возвращает название таблицы для GORM
func (Episode) TableName() string {
	return "episodes"
}
