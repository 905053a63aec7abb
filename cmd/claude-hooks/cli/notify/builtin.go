package notify

import (
	"context"

	"github.com/claudehooks/cli/cmd/claude-hooks/cli/runner"
)

// Builtin adapts the notifier to the hook protocol for hooks declared with
// script "builtin:notify". It always allows; its effect is the side channel.
//
// Config keys: title, message, priority (number).
func Builtin(n *Notifier) runner.BuiltinFunc {
	return func(ctx context.Context, payload []byte, config map[string]any) (*runner.Decision, error) {
		p, err := runner.ParsePayload(payload)
		if err != nil {
			return nil, err
		}

		title, _ := config["title"].(string)
		if title == "" {
			title = defaultTitle(p.HookEventName)
		}
		message, _ := config["message"].(string)
		if message == "" {
			message = "Event from session " + p.SessionID
		}
		priority := PriorityHigh
		if v, ok := config["priority"].(float64); ok {
			priority = int(v)
		}

		n.Send(ctx, title, message, priority)
		return nil, nil
	}
}

func defaultTitle(event string) string {
	switch event {
	case "Stop":
		return "Session finished"
	case "PreToolUse", "PostToolUse":
		return "Tool activity"
	default:
		return "Notification"
	}
}
