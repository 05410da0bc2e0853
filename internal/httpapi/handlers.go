// internal/httpapi/handlers.go
package httpapi

import (
	"errors"
	"log"
	"sort"

	"github.com/gofiber/fiber/v2"

	"farmwatch/internal/registry"
)

type handlers struct {
	deps Deps
}

func (h *handlers) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"servers": h.deps.Registry.Len(),
	})
}

// serverResponse is the wire form of one tracked server. The feed
// access code never leaves the process.
type serverResponse struct {
	ID               string `json:"id"`
	IP               string `json:"ip"`
	Port             string `json:"port"`
	Color            int    `json:"color"`
	HasMemberLog     bool   `json:"hasMemberLog"`
	HasStatusDisplay bool   `json:"hasStatusDisplay"`
	AddedAt          string `json:"addedAt"`
}

func toResponse(cfg registry.ServerConfig) serverResponse {
	return serverResponse{
		ID:               cfg.Identifier(),
		IP:               cfg.IP,
		Port:             cfg.Port,
		Color:            cfg.Color,
		HasMemberLog:     cfg.HasMemberLog(),
		HasStatusDisplay: cfg.HasStatusDisplay(),
		AddedAt:          cfg.AddedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}

func (h *handlers) listServers(c *fiber.Ctx) error {
	out := make([]serverResponse, 0, h.deps.Registry.Len())
	for _, id := range h.deps.Registry.Identifiers() {
		if cfg, ok := h.deps.Registry.Get(id); ok {
			out = append(out, toResponse(cfg))
		}
	}
	return c.JSON(out)
}

type addServerRequest struct {
	IP                  string `json:"ip"`
	Port                string `json:"port"`
	Code                string `json:"code"`
	Color               int    `json:"color"`
	MemberLogWebhookURL string `json:"memberLogWebhookUrl"`
	StatusWebhookURL    string `json:"statusWebhookUrl"`
}

func (h *handlers) addServer(c *fiber.Ctx) error {
	var req addServerRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if req.IP == "" || req.Port == "" || req.Code == "" {
		return badRequest(c, "ip, port and code are required")
	}

	cfg := registry.ServerConfig{
		IP:                  req.IP,
		Port:                req.Port,
		Code:                req.Code,
		Color:               req.Color,
		MemberLogWebhookURL: req.MemberLogWebhookURL,
		StatusWebhookURL:    req.StatusWebhookURL,
	}

	// The placeholder message is created up front so the next poll
	// cycle has something to edit.
	if req.StatusWebhookURL != "" {
		msgID, err := h.deps.Sink.CreateStatusDisplay(c.Context(), req.StatusWebhookURL)
		if err != nil {
			log.Printf("httpapi: create status display for %s: %v", cfg.Identifier(), err)
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"error": "could not create status display message",
			})
		}
		cfg.StatusMessageID = msgID
	}

	if err := h.deps.Registry.Add(c.Context(), cfg); err != nil {
		if errors.Is(err, registry.ErrExists) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "server already tracked",
			})
		}
		return serverError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(toResponse(cfg))
}

func (h *handlers) removeServer(c *fiber.Ctx) error {
	id := c.Params("id")

	if err := h.deps.Registry.Remove(c.Context(), id); err != nil {
		if errors.Is(err, registry.ErrNotFound) {
			return notFound(c)
		}
		return serverError(c, err)
	}
	if err := h.deps.Cache.Forget(c.Context(), id); err != nil {
		log.Printf("httpapi: forget snapshot %s: %v", id, err)
	}
	h.deps.Throttle.Forget(id)

	return c.SendStatus(fiber.StatusNoContent)
}

type memberLogRequest struct {
	WebhookURL string `json:"webhookUrl"`
}

// setMemberLog points the member log at a new webhook. An empty URL
// turns event notifications off.
func (h *handlers) setMemberLog(c *fiber.Ctx) error {
	var req memberLogRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	cfg, err := h.deps.Registry.Update(c.Context(), c.Params("id"), func(cfg *registry.ServerConfig) {
		cfg.MemberLogWebhookURL = req.WebhookURL
	})
	if err != nil {
		if errors.Is(err, registry.ErrNotFound) {
			return notFound(c)
		}
		return serverError(c, err)
	}
	return c.JSON(toResponse(cfg))
}

type playerResponse struct {
	Name          string `json:"name"`
	OnlineMinutes int    `json:"onlineMinutes"`
	IsAdmin       bool   `json:"isAdmin"`
}

type statusResponse struct {
	ID       string           `json:"id"`
	Name     string           `json:"name"`
	Map      string           `json:"map"`
	Online   bool             `json:"online"`
	Capacity int              `json:"capacity"`
	Players  []playerResponse `json:"players"`
}

func (h *handlers) serverStatus(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, ok := h.deps.Registry.Get(id); !ok {
		return notFound(c)
	}

	snap := h.deps.Cache.Get(id)
	resp := statusResponse{
		ID:       id,
		Name:     snap.Name,
		Map:      snap.Map,
		Online:   snap.Online,
		Capacity: snap.Capacity,
		Players:  make([]playerResponse, 0, len(snap.Players)),
	}
	for _, rec := range snap.Players {
		resp.Players = append(resp.Players, playerResponse(rec))
	}
	sort.Slice(resp.Players, func(i, j int) bool {
		return resp.Players[i].Name < resp.Players[j].Name
	})
	return c.JSON(resp)
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}

func notFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "server not tracked"})
}

func serverError(c *fiber.Ctx, err error) error {
	log.Printf("httpapi: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
}
