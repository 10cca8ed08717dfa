package relay

import (
	"context"
	"errors"
	"log/slog"
)

// MessageRef identifies a sent message so it can be edited later.
type MessageRef struct {
	ChatID    int64
	MessageID int
}

// Conversation is the chat a request came from.
type Conversation interface {
	Send(ctx context.Context, text string) (MessageRef, error)
	Edit(ctx context.Context, ref MessageRef, text string, preview bool) error
}

var errTerminal = errors.New("status already terminal")

// statusMessage is the single message a request reports through. The first
// update sends it; later updates edit it in place.
type statusMessage struct {
	conv    Conversation
	logger  *slog.Logger
	ref     MessageRef
	sent    bool
	current Status
}

func (m *statusMessage) update(ctx context.Context, st Status) error {
	if m.sent && m.current.Terminal() {
		return errTerminal
	}
	ctx = context.WithoutCancel(ctx)
	if !m.sent {
		ref, err := m.conv.Send(ctx, st.Text())
		if err != nil {
			return err
		}
		m.ref = ref
		m.sent = true
		m.current = st
		return nil
	}
	m.current = st
	if err := m.conv.Edit(ctx, m.ref, st.Text(), st.Preview()); err != nil {
		m.logger.Warn("status edit failed", slog.String("stage", st.Stage.String()), slog.Any("error", err))
	}
	return nil
}

func (m *statusMessage) terminal() bool {
	return m.sent && m.current.Terminal()
}
