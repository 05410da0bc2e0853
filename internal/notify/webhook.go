// internal/notify/webhook.go
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// webhookPayload is the Discord webhook body for both execute and edit.
type webhookPayload struct {
	Content  string  `json:"content,omitempty"`
	Embeds   []Embed `json:"embeds,omitempty"`
	Username string  `json:"username,omitempty"`
}

// execute POSTs a webhook. With "?wait=true" on the URL Discord returns
// the created message, decoded into out when non-nil.
func (d *Discord) execute(ctx context.Context, url string, payload webhookPayload, out any) error {
	return d.call(ctx, http.MethodPost, url, payload, out)
}

// editMessage PATCHes an existing webhook-owned message.
func (d *Discord) editMessage(ctx context.Context, webhookURL, messageID string, payload webhookPayload) error {
	return d.call(ctx, http.MethodPatch, webhookURL+"/messages/"+messageID, payload, nil)
}

func (d *Discord) call(ctx context.Context, method, url string, payload webhookPayload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("notify: marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("notify: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.http.Do(req)
	if err != nil {
		return fmt.Errorf("notify: %s webhook: %w", method, err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("notify: webhook returned %d: %s", resp.StatusCode, respBody)
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("notify: decode webhook response: %w", err)
		}
	}
	return nil
}
