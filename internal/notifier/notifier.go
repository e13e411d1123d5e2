// Package notifier defines the Notifier interface, the notification
// Format registry, and the reference Log and Webhook implementations.
package notifier

import (
	"context"
	"fmt"

	"github.com/rathix/command-center/internal/proberesult"
)

// Notifier delivers a formatted probe result to an external system.
type Notifier interface {
	Kind() string
	Name() string
	Notify(ctx context.Context, result proberesult.Result) error
}

// Format selects how a Notifier renders a Result's title/message pair
// before delivery.
type Format int

const (
	FormatUnknown Format = iota
	FormatText
	FormatMarkdown
	FormatMarkdownSocial
	FormatHTML
	FormatJSON
	FormatLog
	FormatSlack
	FormatDiscord
	FormatLark
	FormatSMS
	FormatShell
)

// Renderer turns a Result into a title and body string under one Format.
type Renderer func(result proberesult.Result, timeFormat string) (title, body string)

// registry maps each Format to its Renderer. Only Text and Log are
// implemented; the richer chat/voice formats are registered with a
// renderer that falls back to plain text until a dedicated adapter
// exists for that channel.
var registry = map[Format]Renderer{
	FormatText: renderText,
	FormatLog:  renderText,
}

func init() {
	for _, f := range []Format{FormatMarkdown, FormatMarkdownSocial, FormatHTML, FormatJSON, FormatSlack, FormatDiscord, FormatLark, FormatSMS, FormatShell, FormatUnknown} {
		registry[f] = renderText
	}
}

// RenderFor looks up the Renderer for f, defaulting to plain text for an
// unregistered format rather than failing the send.
func RenderFor(f Format) Renderer {
	if r, ok := registry[f]; ok {
		return r
	}
	return renderText
}

// Footer is the process-identity signature line appended to every
// rendered notification body. The CLI entry point overwrites it from
// the configuration document's settings.name/settings.pid once at
// startup; a nil/zero-value process leaves it at this package default.
var Footer = "probe @ localhost"

func renderText(result proberesult.Result, timeFormat string) (string, string) {
	title := result.Title()
	body := fmt.Sprintf("[%s] %s\n%s - ⏱ %dms\n%s\n%s at %s",
		title, result.Status.Emoji(), result.Endpoint, result.RoundTripTime.Milliseconds(),
		result.Message, Footer, result.StartTime.Format(timeFormat))
	return title, body
}
