package runner

import (
	"encoding/json"
	"fmt"

	"github.com/claudehooks/cli/cmd/claude-hooks/cli/hookcfg"
)

// Payload is the event the assistant delivers on stdin. Unknown fields are
// ignored so payload format additions never break dispatch.
type Payload struct {
	HookEventName string    `json:"hook_event_name"`
	SessionID     string    `json:"session_id,omitempty"`
	ToolName      string    `json:"tool_name,omitempty"`
	ToolInput     ToolInput `json:"tool_input,omitempty"`
}

// ToolInput carries the tool-specific arguments of the event. Only the
// fields hooks care about are modeled.
type ToolInput struct {
	FilePath  string `json:"file_path,omitempty"`
	Content   string `json:"content,omitempty"`
	NewString string `json:"new_string,omitempty"`
	Edits     []Edit `json:"edits,omitempty"`
	Command   string `json:"command,omitempty"`
}

// Edit is one entry of a MultiEdit tool input.
type Edit struct {
	NewString string `json:"new_string,omitempty"`
}

// ParsePayload decodes an event payload.
func ParsePayload(data []byte) (*Payload, error) {
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing event payload: %w", err)
	}
	return &p, nil
}

// Phase maps the assistant's event name to a hook phase. ok is false for
// events no hooks are defined on.
func (p *Payload) Phase() (hookcfg.Phase, bool) {
	switch p.HookEventName {
	case "PreToolUse":
		return hookcfg.PhasePreTool, true
	case "PostToolUse":
		return hookcfg.PhasePostTool, true
	case "Stop":
		return hookcfg.PhaseStop, true
	}
	return "", false
}

// WrittenContent returns the content a Write/Edit/MultiEdit event is about
// to put (or has put) into the file. MultiEdit contributions are returned
// individually.
func (p *Payload) WrittenContent() []string {
	switch p.ToolName {
	case "Write":
		if p.ToolInput.Content != "" {
			return []string{p.ToolInput.Content}
		}
	case "Edit":
		if p.ToolInput.NewString != "" {
			return []string{p.ToolInput.NewString}
		}
	case "MultiEdit":
		var out []string
		for _, e := range p.ToolInput.Edits {
			if e.NewString != "" {
				out = append(out, e.NewString)
			}
		}
		return out
	}
	return nil
}

// IsFileMutation reports whether the event's tool writes file content.
func (p *Payload) IsFileMutation() bool {
	switch p.ToolName {
	case "Write", "Edit", "MultiEdit":
		return true
	}
	return false
}
