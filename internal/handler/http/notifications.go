package http

import (
	"context"
	"net/http"

	"futurama-api/internal/service"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

// CharacterStreamer поток позиций персонажа.
type CharacterStreamer interface {
	StreamCharacter(ctx context.Context, id int64, emit func(*service.CharacterPosition) error) error
}

// NotificationsHandler SSE обработчик.
type NotificationsHandler struct {
	streamer CharacterStreamer
	log      *zap.Logger
}

// NewNotificationsHandler создает SSE обработчик.
func NewNotificationsHandler(streamer CharacterStreamer, log *zap.Logger) *NotificationsHandler {
	return &NotificationsHandler{streamer: streamer, log: log}
}

// CharacterStream отдает text/event-stream с координатами персонажа
//
//	@Summary	Character position stream
//	@Tags		Notifications
//	@Produce	text/event-stream
//	@Param		id	path	int	true	"Character ID"
//	@Success	200
//	@Failure	404	{object}	ErrorResponse
//	@Router		/api/notifications/sse/characters/{id} [get]
func (h *NotificationsHandler) CharacterStream(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	started := false
	err := h.streamer.StreamCharacter(r.Context(), id, func(event *service.CharacterPosition) error {
		if !started {
			w.Header().Set("Content-Type", "text/event-stream")
			w.Header().Set("Cache-Control", "no-cache")
			w.Header().Set("Connection", "keep-alive")
			w.Header().Set("X-Accel-Buffering", "no")
			w.WriteHeader(http.StatusOK)
			started = true
		}

		data, err := json.Marshal(event)
		if err != nil {
			return err
		}
		if _, err := w.Write([]byte("data: ")); err != nil {
			return err
		}
		if _, err := w.Write(data); err != nil {
			return err
		}
		if _, err := w.Write([]byte("\n\n")); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	})

	if err != nil && !started {
		fail(w, r, h.log, err)
		return
	}
	if err != nil {
		h.log.Debug("character stream closed", zap.Int64("character_id", id), zap.Error(err))
	}
}
