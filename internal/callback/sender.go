package callback

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
	"golang.org/x/net/http2"
)

// ErrDeliveryFailed получатель ответил ошибкой.
var ErrDeliveryFailed = errors.New("callback delivery failed")

// Sender доставляет тело колбэка на URL.
type Sender interface {
	Send(ctx context.Context, target string, body []byte) error
}

// HTTPSender отправка по HTTP/2: h2 поверх TLS для https и h2c для http.
// Для каждого хоста свой circuit breaker, чтобы недоступный получатель
// не занимал воркеры.
type HTTPSender struct {
	tls   *http.Client
	plain *http.Client
	log   *zap.Logger

	mu       sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker[struct{}]
}

// NewHTTPSender создает отправителя с таймаутом на один запрос.
func NewHTTPSender(timeout time.Duration, log *zap.Logger) *HTTPSender {
	h2c := &http2.Transport{
		AllowHTTP: true,
		DialTLSContext: func(ctx context.Context, network, addr string, _ *tls.Config) (net.Conn, error) {
			var d net.Dialer
			return d.DialContext(ctx, network, addr)
		},
	}

	return &HTTPSender{
		tls:      &http.Client{Timeout: timeout, Transport: &http2.Transport{}},
		plain:    &http.Client{Timeout: timeout, Transport: h2c},
		log:      log,
		breakers: make(map[string]*gobreaker.CircuitBreaker[struct{}]),
	}
}

func (s *HTTPSender) breaker(host string) *gobreaker.CircuitBreaker[struct{}] {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cb, ok := s.breakers[host]; ok {
		return cb
	}

	cb := gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        host,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			s.log.Warn("callback circuit breaker state changed",
				zap.String("host", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})
	s.breakers[host] = cb
	return cb
}

// Send выполняет один POST без повторов.
func (s *HTTPSender) Send(ctx context.Context, target string, body []byte) error {
	u, err := url.Parse(target)
	if err != nil {
		return fmt.Errorf("invalid callback url: %w", err)
	}

	client := s.plain
	switch u.Scheme {
	case "https":
		client = s.tls
	case "http":
	default:
		return fmt.Errorf("unsupported callback scheme %q", u.Scheme)
	}

	_, err = s.breaker(u.Host).Execute(func() (struct{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
		if err != nil {
			return struct{}{}, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("User-Agent", "futurama-api-callback/1.0")

		resp, err := client.Do(req)
		if err != nil {
			return struct{}{}, err
		}
		defer resp.Body.Close()
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

		if resp.StatusCode >= http.StatusInternalServerError {
			return struct{}{}, fmt.Errorf("%w: status %d", ErrDeliveryFailed, resp.StatusCode)
		}
		return struct{}{}, nil
	})
	return err
}
