package telegram

import (
	"context"
	"time"

	"github.com/abhisek/chebot/internal/logging"
)

// LoggingSender is a decorator that logs every API call.
type LoggingSender struct {
	inner Sender
	log   *logging.Logger
}

// WithLogging wraps a Sender with call logging.
func WithLogging(s Sender, log *logging.Logger) Sender {
	return &LoggingSender{inner: s, log: log.With("component", "telegram")}
}

func (l *LoggingSender) SendPhoto(ctx context.Context, caption, photoPath string) (*Message, error) {
	start := time.Now()
	msg, err := l.inner.SendPhoto(ctx, caption, photoPath)
	l.record("sendPhoto", start, msg, err, "photo", photoPath, "caption_len", len([]rune(caption)))
	return msg, err
}

func (l *LoggingSender) SendPoll(ctx context.Context, question string, options []string) (*Message, error) {
	start := time.Now()
	msg, err := l.inner.SendPoll(ctx, question, options)
	l.record("sendPoll", start, msg, err, "question", question, "options", len(options))
	return msg, err
}

func (l *LoggingSender) record(method string, start time.Time, msg *Message, err error, kv ...any) {
	kv = append(kv, "method", method, "latency_ms", time.Since(start).Milliseconds())
	if err != nil {
		l.log.Error("telegram call failed", append(kv, "error", err)...)
		return
	}
	if msg != nil {
		kv = append(kv, "message_id", msg.MessageID)
	}
	l.log.Info("telegram call ok", kv...)
}
