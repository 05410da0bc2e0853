// internal/notify/embed.go
package notify

import (
	"fmt"
	"strings"
	"time"
)

const defaultEmbedColor = 0x2e8b57

// EmbedField is one field of a Discord embed.
type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

// Embed is the Discord embed structure, limited to the fields the
// status display uses.
type Embed struct {
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Color       int          `json:"color"`
	Fields      []EmbedField `json:"fields,omitempty"`
	Timestamp   string       `json:"timestamp,omitempty"`
}

// BuildStatusEmbed renders the full per-server status display.
func BuildStatusEmbed(view ServerView) Embed {
	state := "Offline"
	if view.Online {
		state = "Online"
	}

	capacity := "?"
	if view.Capacity > 0 {
		capacity = fmt.Sprintf("%d", view.Capacity)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "**Map:** %s\n", view.Map)
	fmt.Fprintf(&b, "**Status:** %s\n", state)
	fmt.Fprintf(&b, "**Mods Link:** %s\n", view.ModsURL)
	fmt.Fprintf(&b, "**Players Online:** %d/%s\n", len(view.Players), capacity)
	b.WriteString("**Players:**")
	if len(view.Players) == 0 {
		b.WriteString(" (none)")
	} else {
		for _, p := range view.Players {
			fmt.Fprintf(&b, "\n- %s (%d min)", p.Name, p.OnlineMinutes)
			if p.IsAdmin {
				b.WriteString(" [admin]")
			}
		}
	}

	color := view.Color
	if color == 0 {
		color = defaultEmbedColor
	}

	return Embed{
		Title:       view.Name,
		Description: b.String(),
		Color:       color,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		Fields: []EmbedField{
			{Name: "Last Update", Value: time.Now().Format("2006-01-02 15:04:05")},
		},
	}
}
