package domain

// AuthSession серверная сессия для cookie-авторизации.
type AuthSession struct {
	Base
	Key        string `gorm:"column:session_key;size:64;uniqueIndex;not null" json:"-"`
	UserID     int64  `gorm:"column:user_id;not null;index" json:"user_id"`
	IPAddress  string `gorm:"column:ip_address;size:64;not null" json:"ip_address"`
	DeviceType string `gorm:"column:device_type;size:16;not null;default:unknown" json:"device_type"`
	Expired    bool   `gorm:"column:expired;not null;default:false" json:"expired"`

	// Relationships
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName возвращает название таблицы для GORM
func (AuthSession) TableName() string {
	return "auth_sessions"
}

// IsValid проверяет, является ли сессия валидной
func (s *AuthSession) IsValid() bool {
	return s != nil && !s.Expired && s.Key != ""
}
