// Package notify delivers desktop and push notifications from hooks:
// Pushover over HTTP plus the platform notifier (osascript on darwin,
// notify-send on linux). Delivery is best effort; a failed notification
// never fails the hook that sent it.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/claudehooks/cli/cmd/claude-hooks/cli/logging"
)

// Priority levels follow the Pushover scale.
const (
	PriorityNormal    = 0
	PriorityHigh      = 1
	PriorityEmergency = 2
)

// PushoverURL is the Pushover message endpoint.
const PushoverURL = "https://api.pushover.net/1/messages.json"

// Credentials are the Pushover API keys.
type Credentials struct {
	UserKey  string
	AppToken string
}

// Valid reports whether both keys are present.
func (c Credentials) Valid() bool {
	return c.UserKey != "" && c.AppToken != ""
}

// Notifier sends notifications for one project.
type Notifier struct {
	Root        string
	PushoverURL string
	HTTPClient  *http.Client

	// Platform overrides the runtime OS in tests.
	Platform string
}

// New creates a notifier for a project root.
func New(root string) *Notifier {
	return &Notifier{
		Root:        root,
		PushoverURL: PushoverURL,
		HTTPClient:  &http.Client{Timeout: 5 * time.Second},
		Platform:    runtime.GOOS,
	}
}

// Send delivers the notification through every available channel.
func (n *Notifier) Send(ctx context.Context, title, message string, priority int) {
	ctx = logging.WithComponent(ctx, "notify")

	if creds := n.loadCredentials(); creds.Valid() {
		if err := n.sendPushover(ctx, creds, title, message, priority); err != nil {
			logging.Debug(ctx, "pushover delivery failed", slog.String("error", err.Error()))
		}
	} else {
		logging.Debug(ctx, "pushover skipped, credentials not configured")
	}

	n.sendDesktop(ctx, title, message)
}

// loadCredentials resolves the Pushover keys: process environment first,
// then project and home env files.
func (n *Notifier) loadCredentials() Credentials {
	creds := Credentials{
		UserKey:  os.Getenv("PUSHOVER_USER_KEY"),
		AppToken: os.Getenv("PUSHOVER_APP_TOKEN"),
	}
	if creds.Valid() {
		return creds
	}

	candidates := []string{
		filepath.Join(n.Root, ".env"),
		filepath.Join(n.Root, ".claude", "pushover.env"),
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".claude", "pushover.env"))
	}

	for _, path := range candidates {
		fromFile := parseEnvFile(path)
		if creds.UserKey == "" {
			creds.UserKey = fromFile["PUSHOVER_USER_KEY"]
		}
		if creds.AppToken == "" {
			creds.AppToken = fromFile["PUSHOVER_APP_TOKEN"]
		}
		if creds.Valid() {
			break
		}
	}
	return creds
}

// parseEnvFile reads KEY=value lines, ignoring comments and blanks.
// Surrounding quotes on values are stripped.
func parseEnvFile(path string) map[string]string {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	out := make(map[string]string)
	for line := range strings.Lines(string(data)) {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		value = strings.Trim(value, `"'`)
		out[strings.TrimSpace(key)] = value
	}
	return out
}

// sendPushover posts the message as a form. Emergency priority carries the
// retry/expire parameters Pushover requires.
func (n *Notifier) sendPushover(ctx context.Context, creds Credentials, title, message string, priority int) error {
	form := url.Values{
		"token":    {creds.AppToken},
		"user":     {creds.UserKey},
		"title":    {"Claude Code: " + filepath.Base(n.Root)},
		"message":  {title + " - " + message},
		"priority": {fmt.Sprint(priority)},
	}
	if priority == PriorityEmergency {
		form.Set("retry", "30")
		form.Set("expire", "300")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.PushoverURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := n.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("pushover returned %d", resp.StatusCode)
	}
	return nil
}

// sendDesktop invokes the platform notifier, if one exists.
func (n *Notifier) sendDesktop(ctx context.Context, title, message string) {
	var cmd *exec.Cmd
	switch n.Platform {
	case "darwin":
		script := fmt.Sprintf("display notification %q with title \"Claude Code\" subtitle %q",
			message, title)
		cmd = exec.CommandContext(ctx, "osascript", "-e", script)
	case "linux":
		cmd = exec.CommandContext(ctx, "notify-send", "Claude Code: "+title, message,
			"--icon=dialog-information")
	default:
		return
	}

	if err := cmd.Run(); err != nil {
		logging.Debug(ctx, "desktop notification failed", slog.String("error", err.Error()))
	}
}
