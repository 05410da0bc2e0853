// internal/httpapi/handlers_test.go
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"farmwatch/internal/notify"
	"farmwatch/internal/poller"
	"farmwatch/internal/registry"
	"farmwatch/internal/status"
	"farmwatch/internal/statuscache"
	"farmwatch/internal/store"
)

type stubSink struct {
	createdFor []string
	createErr  error
}

func (s *stubSink) NotifyEvent(context.Context, string, status.Event, notify.ServerView) error {
	return nil
}

func (s *stubSink) UpdateStatusDisplay(context.Context, string, string, notify.ServerView) error {
	return nil
}

func (s *stubSink) CreateStatusDisplay(_ context.Context, webhookURL string) (string, error) {
	if s.createErr != nil {
		return "", s.createErr
	}
	s.createdFor = append(s.createdFor, webhookURL)
	return "msg-42", nil
}

type apiHarness struct {
	app  *fiber.App
	reg  *registry.Registry
	sink *stubSink
}

func newAPI(t *testing.T, token string) *apiHarness {
	t.Helper()
	st := store.NewMemory()
	h := &apiHarness{
		reg:  registry.New(st),
		sink: &stubSink{},
	}
	h.app = NewApp(Deps{
		Registry:   h.reg,
		Cache:      statuscache.New(st),
		Sink:       h.sink,
		Throttle:   poller.NewRenameThrottle(0),
		AdminToken: token,
	})
	return h
}

func (h *apiHarness) request(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		blob, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(blob)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := h.app.Test(req, int(5*time.Second/time.Millisecond))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return out
}

func TestHealth(t *testing.T) {
	h := newAPI(t, "")
	resp := h.request(t, http.MethodGet, "/health", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: got %d", resp.StatusCode)
	}
	body := decodeBody[map[string]any](t, resp)
	if body["status"] != "ok" {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestAddServer_CreatesAndLists(t *testing.T) {
	h := newAPI(t, "tok")

	resp := h.request(t, http.MethodPost, "/servers/", "tok", addServerRequest{
		IP: "10.0.0.1", Port: "8080", Code: "secret",
		StatusWebhookURL: "https://hooks.example/s",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status: got %d", resp.StatusCode)
	}
	created := decodeBody[serverResponse](t, resp)
	if created.ID != "10.0.0.1:8080" || !created.HasStatusDisplay {
		t.Fatalf("unexpected response: %+v", created)
	}
	if len(h.sink.createdFor) != 1 {
		t.Fatalf("status display not created: %v", h.sink.createdFor)
	}

	listResp := h.request(t, http.MethodGet, "/servers/", "tok", nil)
	list := decodeBody[[]serverResponse](t, listResp)
	if len(list) != 1 || list[0].ID != "10.0.0.1:8080" {
		t.Fatalf("unexpected list: %+v", list)
	}
}

func TestAddServer_DuplicateConflicts(t *testing.T) {
	h := newAPI(t, "tok")
	body := addServerRequest{IP: "10.0.0.1", Port: "8080", Code: "c"}

	if resp := h.request(t, http.MethodPost, "/servers/", "tok", body); resp.StatusCode != http.StatusCreated {
		t.Fatalf("first add: got %d", resp.StatusCode)
	}
	if resp := h.request(t, http.MethodPost, "/servers/", "tok", body); resp.StatusCode != http.StatusConflict {
		t.Fatalf("duplicate add: got %d, want 409", resp.StatusCode)
	}
}

func TestAddServer_MissingFields(t *testing.T) {
	h := newAPI(t, "tok")
	resp := h.request(t, http.MethodPost, "/servers/", "tok", addServerRequest{IP: "10.0.0.1"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", resp.StatusCode)
	}
}

func TestAuth_RejectsMissingToken(t *testing.T) {
	h := newAPI(t, "tok")
	if resp := h.request(t, http.MethodGet, "/servers/", "", nil); resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("no token: got %d, want 401", resp.StatusCode)
	}
	if resp := h.request(t, http.MethodGet, "/servers/", "wrong", nil); resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("wrong token: got %d, want 401", resp.StatusCode)
	}
	// Health stays open.
	if resp := h.request(t, http.MethodGet, "/health", "", nil); resp.StatusCode != http.StatusOK {
		t.Fatalf("health: got %d", resp.StatusCode)
	}
}

func TestRemoveServer(t *testing.T) {
	h := newAPI(t, "tok")
	h.request(t, http.MethodPost, "/servers/", "tok", addServerRequest{IP: "10.0.0.1", Port: "8080", Code: "c"})

	if resp := h.request(t, http.MethodDelete, "/servers/10.0.0.1:8080", "tok", nil); resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete: got %d", resp.StatusCode)
	}
	if h.reg.Len() != 0 {
		t.Fatalf("server still tracked after delete")
	}
	if resp := h.request(t, http.MethodDelete, "/servers/10.0.0.1:8080", "tok", nil); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("second delete: got %d, want 404", resp.StatusCode)
	}
}

func TestSetMemberLog(t *testing.T) {
	h := newAPI(t, "tok")
	h.request(t, http.MethodPost, "/servers/", "tok", addServerRequest{IP: "10.0.0.1", Port: "8080", Code: "c"})

	resp := h.request(t, http.MethodPut, "/servers/10.0.0.1:8080/memberlog", "tok",
		memberLogRequest{WebhookURL: "https://hooks.example/m"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: got %d", resp.StatusCode)
	}
	updated := decodeBody[serverResponse](t, resp)
	if !updated.HasMemberLog {
		t.Fatalf("member log not set: %+v", updated)
	}

	cfg, _ := h.reg.Get("10.0.0.1:8080")
	if cfg.MemberLogWebhookURL != "https://hooks.example/m" {
		t.Fatalf("registry not updated: %+v", cfg)
	}
}

func TestServerStatus(t *testing.T) {
	h := newAPI(t, "tok")
	h.request(t, http.MethodPost, "/servers/", "tok", addServerRequest{IP: "10.0.0.1", Port: "8080", Code: "c"})

	resp := h.request(t, http.MethodGet, "/servers/10.0.0.1:8080/status", "tok", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: got %d", resp.StatusCode)
	}
	body := decodeBody[statusResponse](t, resp)
	if body.Online || body.Name != status.UnknownLabel {
		t.Fatalf("expected fresh offline snapshot, got %+v", body)
	}

	if resp := h.request(t, http.MethodGet, "/servers/1.2.3.4:1/status", "tok", nil); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("untracked status: got %d, want 404", resp.StatusCode)
	}
}
