package telegram

import (
	"context"
	"log/slog"
	"time"

	"github.com/taskpilot/taskpilot/pkg/clog"
	"github.com/taskpilot/taskpilot/pkg/panicerr"
)

// genericErrorReply is sent when update handling itself blows up. Specific
// failure modes (provider outage, bad input) are already absorbed further
// down; this is the last line.
const genericErrorReply = "Sorry, an error occurred. Please try again later."

const pollErrorBackoff = 5 * time.Second

// Handler processes one inbound text message and returns the reply body.
type Handler interface {
	HandleMessage(ctx context.Context, userID int64, text string) string
}

// Poller drives the long-poll loop: fetch updates, route each text message
// through the handler, send the reply. Updates are processed sequentially;
// panic containment around each one keeps a single bad update from killing
// the loop.
type Poller struct {
	client      *Client
	handler     Handler
	pollTimeout int
}

func NewPoller(client *Client, handler Handler, pollTimeout int) *Poller {
	return &Poller{
		client:      client,
		handler:     handler,
		pollTimeout: pollTimeout,
	}
}

// Run blocks until ctx is cancelled.
func (p *Poller) Run(ctx context.Context) error {
	slog.InfoContext(ctx, "telegram poller started", "poll_timeout", p.pollTimeout)
	offset := 0

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		updates, err := p.client.GetUpdates(ctx, offset, p.pollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			slog.ErrorContext(ctx, "telegram poll failed", "error", err)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(pollErrorBackoff):
			}
			continue
		}

		for _, u := range updates {
			offset = u.UpdateID + 1
			p.handleUpdate(ctx, u)
		}
	}
}

func (p *Poller) handleUpdate(ctx context.Context, u Update) {
	if u.Message == nil || u.Message.Text == "" {
		return
	}
	msg := u.Message

	// Telegram user id is the store key; direct chats have From set, but the
	// chat id is a serviceable stand-in if it ever is not.
	userID := msg.Chat.ID
	if msg.From != nil {
		userID = msg.From.ID
	}

	ctx = clog.ContextWithSlog(ctx)
	clog.AddAttribute(ctx, "update_id", u.UpdateID)
	clog.AddAttribute(ctx, "user_id", userID)

	var reply string
	err := panicerr.SafeContext(func(ctx context.Context) error {
		reply = p.handler.HandleMessage(ctx, userID, msg.Text)
		return nil
	})(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "update handling failed", "error", err)
		reply = genericErrorReply
	}

	if err := p.client.SendMessage(ctx, msg.Chat.ID, reply); err != nil {
		slog.ErrorContext(ctx, "failed to send reply", "error", err)
	}
}
