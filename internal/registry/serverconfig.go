// internal/registry/serverconfig.go
package registry

import (
	"encoding/json"
	"fmt"
	"time"
)

// ServerConfig describes one tracked server. The poll loop treats it as
// immutable per cycle and re-reads it from the registry at the start of
// each server's processing, so admin changes apply without a restart.
type ServerConfig struct {
	IP   string
	Port string
	Code string // access code for the status feed

	Color int // status embed color

	// Optional member-log channel: receives one message per lifecycle
	// event.
	MemberLogWebhookURL string

	// Optional secondary display: a webhook-owned embed message that is
	// refreshed with the full server status.
	StatusWebhookURL string
	StatusMessageID  string

	AddedAt time.Time
}

// BuildIdentifier derives the stable server key from its address.
func BuildIdentifier(ip, port string) string {
	return ip + ":" + port
}

// Identifier returns the stable key for this server.
func (c ServerConfig) Identifier() string {
	return BuildIdentifier(c.IP, c.Port)
}

// FeedURL is the XML status feed endpoint of the dedicated server.
func (c ServerConfig) FeedURL() string {
	return fmt.Sprintf("http://%s:%s/feed/dedicated-server-stats.xml?code=%s", c.IP, c.Port, c.Code)
}

// ModsURL is the server's mods page.
func (c ServerConfig) ModsURL() string {
	return fmt.Sprintf("http://%s:%s/mods.html", c.IP, c.Port)
}

// HasMemberLog reports whether event notifications are configured.
func (c ServerConfig) HasMemberLog() bool {
	return c.MemberLogWebhookURL != ""
}

// HasStatusDisplay reports whether the secondary display is configured.
func (c ServerConfig) HasStatusDisplay() bool {
	return c.StatusWebhookURL != "" && c.StatusMessageID != ""
}

type persistedServerConfig struct {
	IP                  string    `json:"ip"`
	Port                string    `json:"port"`
	Code                string    `json:"code"`
	Color               int       `json:"color"`
	MemberLogWebhookURL string    `json:"memberLogWebhookUrl,omitempty"`
	StatusWebhookURL    string    `json:"statusWebhookUrl,omitempty"`
	StatusMessageID     string    `json:"statusMessageId,omitempty"`
	AddedAt             time.Time `json:"addedAt"`
}

func encodeConfig(c ServerConfig) ([]byte, error) {
	blob, err := json.Marshal(persistedServerConfig(c))
	if err != nil {
		return nil, fmt.Errorf("registry: encode %s: %w", c.Identifier(), err)
	}
	return blob, nil
}

func decodeConfig(blob []byte) (ServerConfig, error) {
	var p persistedServerConfig
	if err := json.Unmarshal(blob, &p); err != nil {
		return ServerConfig{}, fmt.Errorf("registry: decode config: %w", err)
	}
	if p.IP == "" || p.Port == "" {
		return ServerConfig{}, fmt.Errorf("registry: decode config: missing address fields")
	}
	return ServerConfig(p), nil
}
