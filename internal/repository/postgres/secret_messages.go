package postgres

import (
	"context"
	"fmt"

	"futurama-api/internal/domain"
	"futurama-api/internal/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// readSecretMessageSQL блокирует строку, увеличивает счетчик и при первом
// чтении подменяет текст одним выражением. previous_counter и original_text
// отдают состояние до обновления.
const readSecretMessageSQL = `
WITH target AS (
	SELECT id, visit_counter, text
	FROM secret_messages
	WHERE url = @url
	FOR UPDATE
)
UPDATE secret_messages AS sm
SET visit_counter = target.visit_counter + 1,
	text = CASE WHEN target.visit_counter < 1 THEN @filler ELSE target.text END,
	ip_address = CASE WHEN target.visit_counter < 1 THEN @ip ELSE sm.ip_address END
FROM target
WHERE sm.id = target.id
RETURNING sm.id, sm.created_at, sm.uuid, sm.text, sm.visit_counter, sm.ip_address, sm.url,
	target.visit_counter AS previous_counter,
	target.text AS original_text`

// SecretMessageRepository хранилище одноразовых сообщений.
type SecretMessageRepository struct {
	*Repository[domain.SecretMessage]
}

// NewSecretMessageRepository создает хранилище сообщений.
func NewSecretMessageRepository(db *gorm.DB, log *zap.Logger) *SecretMessageRepository {
	return &SecretMessageRepository{Repository: NewRepository[domain.SecretMessage](db, log)}
}

// Read выполняет атомарное чтение сообщения по его URL.
func (r *SecretMessageRepository) Read(ctx context.Context, url string, filler []byte, ip string) (*domain.SecretMessageRead, error) {
	var read domain.SecretMessageRead

	res := r.db.WithContext(ctx).Raw(readSecretMessageSQL, map[string]any{
		"url":    url,
		"filler": filler,
		"ip":     ip,
	}).Scan(&read)
	if res.Error != nil {
		r.log.Error("failed to read secret message", zap.Error(res.Error))
		return nil, fmt.Errorf("failed to read secret message: %w", mapError(res.Error))
	}
	if res.RowsAffected == 0 {
		return nil, repository.ErrNotFound
	}

	return &read, nil
}
