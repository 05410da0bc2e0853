// internal/fetch/client.go
package fetch

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"farmwatch/internal/status"
)

// The two transient flavors. Both leave cached state untouched; they
// are distinguished for logging and metrics only.
var (
	ErrTransport = errors.New("fetch: transport failure")
	ErrMalformed = errors.New("fetch: malformed body")
)

// maxFeedBytes bounds the response body read. Real feeds are a few KB.
const maxFeedBytes = 1 << 20

// Client fetches one server's status feed and classifies the outcome.
type Client struct {
	http *http.Client
}

// New creates a client. The timeout bounds the whole request.
func New(timeout time.Duration) *Client {
	return &Client{
		http: &http.Client{Timeout: timeout},
	}
}

// Fetch retrieves one observation for feedURL. The returned kind
// already encodes the three-way classification the diff expects:
// transport error or timeout -> transient, unparseable body ->
// transient, parsed but nameless -> confirmed-offline, otherwise
// reporting. err is non-nil only alongside a transient observation.
func (c *Client) Fetch(ctx context.Context, feedURL string) (status.Observation, error) {
	transient := status.Observation{Kind: status.ObservationTransient}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return transient, fmt.Errorf("%w: %v", ErrTransport, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return transient, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return transient, fmt.Errorf("%w: unexpected status %d", ErrTransport, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedBytes))
	if err != nil {
		return transient, fmt.Errorf("%w: %v", ErrTransport, err)
	}

	var doc Document
	if err := xml.Unmarshal(body, &doc); err != nil {
		return transient, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	if doc.Name == "" {
		// Host answered with a well-formed but attribute-less document:
		// the game server itself is not listening.
		return status.Observation{Kind: status.ObservationConfirmedOffline}, nil
	}

	return observationOf(doc), nil
}

// observationOf maps a parsed document onto the diff's input type.
func observationOf(doc Document) status.Observation {
	obs := status.Observation{
		Kind: status.ObservationReporting,
		Name: doc.Name,
		Map:  doc.MapName,
	}

	if n, err := strconv.Atoi(doc.Slots.Capacity); err == nil && n > 0 {
		obs.Capacity = n
	}

	obs.Slots = make([]status.SlotEntry, 0, len(doc.Slots.Players))
	for _, p := range doc.Slots.Players {
		name := strings.TrimSpace(p.Name)
		entry := status.SlotEntry{
			Used:    p.IsUsed == "true" && name != "",
			Name:    name,
			IsAdmin: p.IsAdmin == "true",
		}
		if m, err := strconv.Atoi(strings.TrimSpace(p.Uptime)); err == nil && m >= 0 {
			entry.OnlineMinutes = m
		}
		obs.Slots = append(obs.Slots, entry)
	}

	return obs
}
