package domain

// Link короткая ссылка пользователя.
type Link struct {
	Base
	URL       string `gorm:"column:url;size:4096;not null" json:"url"`
	Shortened string `gorm:"column:shortened;size:128;uniqueIndex;not null" json:"shortened"`
	Counter   int64  `gorm:"column:counter;not null;default:0" json:"counter"`
	UserID    int64  `gorm:"column:user_id;not null;index" json:"user_id"`

	// Relationships
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName возвращает название таблицы для GORM
func (Link) TableName() string {
	return "links"
}
