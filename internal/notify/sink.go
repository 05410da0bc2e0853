// internal/notify/sink.go
package notify

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"time"

	"farmwatch/internal/status"
)

// ServerView is the display context handed to the sink alongside an
// event or a status refresh. It is built from the committed snapshot;
// the sink never sees credentials.
type ServerView struct {
	Name     string
	Map      string
	Online   bool
	Capacity int // 0 means unknown
	Players  []status.PlayerRecord
	ModsURL  string
	Color    int
}

// NewServerView flattens a snapshot for display. Players come out
// name-sorted.
func NewServerView(snap status.ServerSnapshot, modsURL string, color int) ServerView {
	view := ServerView{
		Name:     snap.Name,
		Map:      snap.Map,
		Online:   snap.Online,
		Capacity: snap.Capacity,
		Players:  make([]status.PlayerRecord, 0, len(snap.Players)),
		ModsURL:  modsURL,
		Color:    color,
	}
	for _, rec := range snap.Players {
		view.Players = append(view.Players, rec)
	}
	sort.Slice(view.Players, func(i, j int) bool {
		return view.Players[i].Name < view.Players[j].Name
	})
	return view
}

// Sink is the exact delivery contract the poll loop uses. Failures are
// logged by the caller and never abort a cycle.
type Sink interface {
	// NotifyEvent posts one lifecycle event to the member-log channel.
	NotifyEvent(ctx context.Context, webhookURL string, ev status.Event, view ServerView) error

	// UpdateStatusDisplay rewrites the status embed message in place.
	UpdateStatusDisplay(ctx context.Context, webhookURL, messageID string, view ServerView) error

	// CreateStatusDisplay posts the initial placeholder embed and
	// returns the message id for later updates.
	CreateStatusDisplay(ctx context.Context, webhookURL string) (messageID string, err error)
}

// Discord delivers through Discord webhooks.
type Discord struct {
	http     *http.Client
	username string
}

// NewDiscord creates the webhook sink. username overrides the webhook's
// display name on every post; empty keeps the webhook default.
func NewDiscord(username string) *Discord {
	return &Discord{
		http:     &http.Client{Timeout: 15 * time.Second},
		username: username,
	}
}

// EventMessage renders the member-log line for one event.
func EventMessage(ev status.Event, serverName string) string {
	switch ev.Kind {
	case status.PlayerLoggedIn:
		return fmt.Sprintf("%s is now online on %s", ev.Player, serverName)
	case status.PlayerLoggedOut:
		return fmt.Sprintf("%s signed out of %s", ev.Player, serverName)
	case status.PlayerPromotedToAdmin:
		return fmt.Sprintf("%s is now an admin on %s", ev.Player, serverName)
	case status.ServerWentOnline:
		return fmt.Sprintf("%s is back online", serverName)
	case status.ServerWentOffline:
		return fmt.Sprintf("%s went offline", serverName)
	default:
		return fmt.Sprintf("unexpected event on %s", serverName)
	}
}

func (d *Discord) NotifyEvent(ctx context.Context, webhookURL string, ev status.Event, view ServerView) error {
	payload := webhookPayload{
		Content:  EventMessage(ev, view.Name),
		Username: d.username,
	}
	return d.execute(ctx, webhookURL, payload, nil)
}

func (d *Discord) UpdateStatusDisplay(ctx context.Context, webhookURL, messageID string, view ServerView) error {
	payload := webhookPayload{
		Embeds: []Embed{BuildStatusEmbed(view)},
	}
	return d.editMessage(ctx, webhookURL, messageID, payload)
}

func (d *Discord) CreateStatusDisplay(ctx context.Context, webhookURL string) (string, error) {
	payload := webhookPayload{
		Embeds:   []Embed{{Title: "Pending...", Color: defaultEmbedColor}},
		Username: d.username,
	}

	var created struct {
		ID string `json:"id"`
	}
	if err := d.execute(ctx, webhookURL+"?wait=true", payload, &created); err != nil {
		return "", err
	}
	if created.ID == "" {
		return "", fmt.Errorf("notify: webhook returned no message id")
	}
	return created.ID, nil
}
