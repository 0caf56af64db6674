package domain

// RequestsCounter счетчик обращений к маршруту.
type RequestsCounter struct {
	Base
	URL     string `gorm:"column:url;size:256;uniqueIndex;not null" json:"url"`
	Counter int64  `gorm:"column:counter;not null;default:0" json:"counter"`
}

// TableName возвращает название таблицы для GORM
func (RequestsCounter) TableName() string {
	return "requests_counter"
}

// SystemMessage сообщение для главной страницы.
type SystemMessage struct {
	Base
	Name    string `gorm:"column:name;size:64;uniqueIndex;not null" json:"name"`
	Message string `gorm:"column:message;type:text;not null" json:"message"`
}

// TableName возвращает название таблицы для GORM
func (SystemMessage) TableName() string {
	return "system_messages"
}
