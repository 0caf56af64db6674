package domain

// FavoriteCharacter связь пользователя с избранным персонажем (уникальна по паре).
type FavoriteCharacter struct {
	Base
	UserID      int64 `gorm:"column:user_id;not null;uniqueIndex:uq_favorite_user_character" json:"user_id"`
	CharacterID int64 `gorm:"column:character_id;not null;uniqueIndex:uq_favorite_user_character" json:"character_id"`

	// Relationships
	Character *Character `gorm:"foreignKey:CharacterID" json:"character,omitempty"`
}

// TableName возвращает название таблицы для GORM
func (FavoriteCharacter) TableName() string {
	return "favorite_characters"
}
