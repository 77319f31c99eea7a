package timecard

import (
	"bytes"
	"errors"
	"os/exec"
	"strings"
)

type Notificator interface {
	Notify(title, message string) error
}

// MacNotificator posts a notification center banner through osascript.
type MacNotificator struct{}

func (no *MacNotificator) Notify(title string, message string) error {
	script := "display notification " + appleScriptString(message) +
		" with title " + appleScriptString("timecard") +
		" subtitle " + appleScriptString(title) +
		` sound name "Blow"`

	var stderr bytes.Buffer
	cmd := exec.Command("osascript", "-e", script)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return errors.New(msg)
		}
		return err
	}
	return nil
}

var appleScriptEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func appleScriptString(s string) string {
	return `"` + appleScriptEscaper.Replace(s) + `"`
}

// NopNotificator is used when notifications are disabled or unsupported.
type NopNotificator struct{}

func (NopNotificator) Notify(string, string) error { return nil }
