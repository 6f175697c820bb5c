package bot

import (
	"context"
	"strings"
)

const unknownCommandReply = "Unknown command. Use /help to see available commands."

// Router maps inbound message text onto orchestrator operations. Commands
// start with "/"; everything else goes to Chat. Every input yields a reply,
// never silence.
type Router struct {
	orchestrator *Orchestrator
}

func NewRouter(o *Orchestrator) *Router {
	return &Router{orchestrator: o}
}

// HandleMessage routes one inbound message for one user and returns the
// reply text.
func (r *Router) HandleMessage(ctx context.Context, userID int64, text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return r.orchestrator.Chat(ctx, userID, text)
	}

	command, args := splitCommand(text)
	switch command {
	case "/start":
		return r.orchestrator.Start()
	case "/help":
		return r.orchestrator.Help()
	case "/add":
		return r.orchestrator.Add(ctx, userID, args)
	case "/list":
		return r.orchestrator.List(userID)
	case "/priority":
		return r.orchestrator.Prioritize(ctx, userID)
	case "/complete":
		return r.orchestrator.Complete(userID, args)
	case "/summary":
		return r.orchestrator.Summary(ctx, userID)
	}
	return unknownCommandReply
}

// splitCommand separates "/cmd rest of line" and strips the @botname suffix
// Telegram appends in group chats.
func splitCommand(text string) (command, args string) {
	command, args, _ = strings.Cut(text, " ")
	if at := strings.Index(command, "@"); at > 0 {
		command = command[:at]
	}
	return command, strings.TrimSpace(args)
}
