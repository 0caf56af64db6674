package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base общие поля всех сущностей: первичный ключ, время создания и публичный UUID.
type Base struct {
	ID        int64     `gorm:"primaryKey;column:id" json:"id"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UUID      uuid.UUID `gorm:"column:uuid;type:uuid;uniqueIndex;not null" json:"uuid"`
}

// BeforeCreate проставляет UUID, если он не задан.
func (b *Base) BeforeCreate(_ *gorm.DB) error {
	if b.UUID == uuid.Nil {
		b.UUID = uuid.New()
	}
	return nil
}
