package service

import (
	"context"
	"fmt"
	"strings"

	"futurama-api/internal/domain"
	"futurama-api/internal/metrics"
	"futurama-api/internal/repository"
	"futurama-api/pkg/random"
	"futurama-api/pkg/secretbox"

	"github.com/brianvoe/gofakeit/v7"
	"go.uber.org/zap"
)

const (
	secretURLLength = 32
	fillerMinWords  = 8
	fillerMaxWords  = 24
)

// SecretMessageService одноразовые сообщения.
type SecretMessageService struct {
	messages repository.SecretMessageStore
	box      *secretbox.Box
	baseURL  string
	log      *zap.Logger
}

// NewSecretMessageService создает сервис сообщений.
func NewSecretMessageService(messages repository.SecretMessageStore, box *secretbox.Box, baseURL string, log *zap.Logger) *SecretMessageService {
	return &SecretMessageService{
		messages: messages,
		box:      box,
		baseURL:  strings.TrimRight(baseURL, "/"),
		log:      log,
	}
}

// Create шифрует текст и сохраняет сообщение под случайным URL.
func (s *SecretMessageService) Create(ctx context.Context, req *SecretMessageCreateRequest) (*SecretMessageCreated, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	sealed, err := s.box.Seal([]byte(req.Text))
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt message: %w", err)
	}

	var message *domain.SecretMessage
	for i := 0; i < maxRetries; i++ {
		slug, err := random.NewRandomString(secretURLLength)
		if err != nil {
			return nil, fmt.Errorf("failed to generate url: %w", err)
		}

		message = &domain.SecretMessage{Text: sealed, URL: slug}
		err = s.messages.Create(ctx, message)
		if err == nil {
			break
		}
		if !isAlreadyExists(err) {
			return nil, translate(err, "Secret message")
		}
		message = nil
	}
	if message == nil {
		return nil, ErrNoFreeCode
	}

	s.log.Info("secret message created", zap.Int64("id", message.ID))
	return &SecretMessageCreated{
		URL:       message.URL,
		AccessURL: s.baseURL + "/api/crypto/secret_message/" + message.URL,
		CreatedAt: message.CreatedAt,
	}, nil
}

// Read читает сообщение. Первое чтение получает исходный текст, а в базе
// он атомарно заменяется случайным; последующие чтения видят замену.
func (s *SecretMessageService) Read(ctx context.Context, url, ip string) (*SecretMessageResponse, error) {
	filler, err := s.box.Seal([]byte(fillerText()))
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt filler: %w", err)
	}

	read, err := s.messages.Read(ctx, url, filler, ip)
	if err != nil {
		return nil, translate(err, "Secret message")
	}

	sealed := read.Text
	if read.FirstRead() {
		sealed = read.OriginalText
		metrics.SecretMessageReads.WithLabelValues("first").Inc()
		s.log.Info("secret message revealed", zap.Int64("id", read.ID))
	} else {
		metrics.SecretMessageReads.WithLabelValues("repeat").Inc()
	}

	text, err := s.box.Open(sealed)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt message %d: %w", read.ID, err)
	}

	return &SecretMessageResponse{
		Text:         string(text),
		VisitCounter: read.VisitCounter,
		CreatedAt:    read.CreatedAt,
	}, nil
}

func fillerText() string {
	n, err := random.IntBetween(fillerMinWords, fillerMaxWords)
	if err != nil {
		n = fillerMinWords
	}
	words := make([]string, n)
	for i := range words {
		words[i] = gofakeit.Word()
	}
	return strings.Join(words, " ")
}
