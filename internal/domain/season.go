package domain

// Season сезон; владеет привязкой эпизодов.
type Season struct {
	Base

	// Relationships
	Episodes []Episode `gorm:"foreignKey:SeasonID" json:"episodes,omitempty"`
}

// TableName возвращает название таблицы для GORM
func (Season) TableName() string {
	return "seasons"
}
