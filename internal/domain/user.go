package domain

import "gorm.io/gorm"

// User представляет пользователя сервиса.
type User struct {
	Base
	Name         string  `gorm:"column:name;size:64;not null" json:"name"`
	Surname      string  `gorm:"column:surname;size:64;not null" json:"surname"`
	MiddleName   *string `gorm:"column:middle_name;size:64" json:"middle_name,omitempty"`
	Email        string  `gorm:"column:email;size:320;uniqueIndex;not null" json:"email"`
	Username     string  `gorm:"column:username;size:64;uniqueIndex;not null" json:"username"`
	PasswordHash string  `gorm:"column:password;size:256;not null" json:"-"` // скрываем пароль в JSON
	IsConfirmed  bool    `gorm:"column:is_confirmed;not null;default:false" json:"is_confirmed"`
	IsSubscribed bool    `gorm:"column:is_subscribed;not null;default:true" json:"is_subscribed"`

	// удаление мягкое: имя и почта остаются занятыми
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`

	// Relationships
	Links []Link `gorm:"foreignKey:UserID" json:"links,omitempty"`
}

// TableName возвращает название таблицы для GORM
func (User) TableName() string {
	return "users"
}

// FullName собирает имя пользователя для писем и приветствий.
func (u *User) FullName() string {
	if u.MiddleName != nil && *u.MiddleName != "" {
		return u.Name + " " + *u.MiddleName + " " + u.Surname
	}
	return u.Name + " " + u.Surname
}
