package controller

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"offeralert_backend/pkg/livesync"

	"github.com/gofiber/fiber/v2"
)

var streamHub *livesync.Hub

func InitStreamController(hub *livesync.Hub) {
	streamHub = hub
}

// parseScope validates the client-requested watch scope.
func parseScope(raw string) (string, error) {
	switch {
	case raw == "" || raw == livesync.ScopeAll:
		return livesync.ScopeAll, nil
	case strings.HasPrefix(raw, "influencer:"):
		id, err := strconv.ParseUint(strings.TrimPrefix(raw, "influencer:"), 10, 32)
		if err != nil {
			return "", fmt.Errorf("invalid influencer scope")
		}
		return livesync.ScopeInfluencer(uint(id)), nil
	case strings.HasPrefix(raw, "brand:"):
		slug := strings.TrimPrefix(raw, "brand:")
		if slug == "" {
			return "", fmt.Errorf("invalid brand scope")
		}
		return livesync.ScopeBrand(slug), nil
	}
	return "", fmt.Errorf("unknown scope")
}

// StreamOffers pushes promo-code change events for one scope over SSE.
// The watch is torn down when the client disconnects; clients fetch the
// initial list over the regular list endpoints before connecting.
func StreamOffers(c *fiber.Ctx) error {
	scope, err := parseScope(c.Query("scope"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	sub, err := streamHub.Subscribe(scope)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not open live feed",
		})
	}

	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer sub.Close()

		heartbeat := time.NewTicker(15 * time.Second)
		defer heartbeat.Stop()

		for {
			select {
			case event := <-sub.Events():
				payload, err := json.Marshal(event)
				if err != nil {
					log.Printf("Could not marshal live event: %v", err)
					continue
				}
				fmt.Fprintf(w, "event: change\ndata: %s\n\n", payload)
			case <-heartbeat.C:
				fmt.Fprint(w, ": keep-alive\n\n")
			}

			// A failed flush means the client went away.
			if err := w.Flush(); err != nil {
				return
			}
		}
	})

	return nil
}
