package domain

// SecretMessage одноразовое сообщение; после первого чтения текст заменяется случайным.
type SecretMessage struct {
	Base
	Text         []byte  `gorm:"column:text;type:bytea;not null" json:"-"` // шифротекст
	VisitCounter int64   `gorm:"column:visit_counter;not null;default:0" json:"visit_counter"`
	IPAddress    *string `gorm:"column:ip_address;size:64" json:"ip_address,omitempty"`
	URL          string  `gorm:"column:url;size:128;uniqueIndex;not null" json:"url"`
}

// TableName возвращает название таблицы для GORM
func (SecretMessage) TableName() string {
	return "secret_messages"
}

// SecretMessageRead результат атомарного чтения: строка после обновления
// плюс значения до него.
type SecretMessageRead struct {
	SecretMessage
	PreviousCounter int64  `gorm:"column:previous_counter"`
	OriginalText    []byte `gorm:"column:original_text"`
}

// FirstRead сообщает, было ли это чтение первым.
func (r *SecretMessageRead) FirstRead() bool {
	return r.PreviousCounter < 1
}
