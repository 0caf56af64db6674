package domain

// Character персонаж сериала.
type Character struct {
	Base
	Name    string           `gorm:"column:name;size:128;not null" json:"name"`
	Status  CharacterStatus  `gorm:"column:status;size:16;not null;default:unknown" json:"status"`
	Gender  CharacterGender  `gorm:"column:gender;size:16;not null;default:unknown" json:"gender"`
	Species CharacterSpecies `gorm:"column:species;size:16;not null;default:unknown" json:"species"`
	Image   *string          `gorm:"column:image;size:256" json:"image,omitempty"`

	// Relationships
	Episodes []Episode `gorm:"many2many:episode_character_association;" json:"episodes,omitempty"`
}

// TableName возвращает название таблицы для GORM
func (Character) TableName() string {
	return "characters"
}
