package http

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/nats-io/nats.go"

	natsadapter "github.com/samirrijal/fieldmap/internal/adapters/nats"
	"github.com/samirrijal/fieldmap/internal/core/domain"
	"github.com/samirrijal/fieldmap/internal/pkg/metrics"
)

// wsMessage is sent from client to pause or resume the feed.
type wsMessage struct {
	Action string `json:"action"` // "subscribe" | "unsubscribe"
}

// WebSocketUpgrade rejects plain HTTP requests and resolves the caller's
// namespace before the upgrade.
func WebSocketUpgrade() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		ns, err := requestNamespace(c)
		if err != nil {
			return errBadRequest(c, err.Error())
		}
		c.Locals("namespace", ns)
		return c.Next()
	}
}

// WebSocketHandler relays record-saved events of the caller's namespace.
// The feed starts subscribed; clients send {"action":"unsubscribe"} or
// {"action":"subscribe"} to pause and resume it.
func WebSocketHandler(nc *nats.Conn) func(*websocket.Conn) {
	return func(c *websocket.Conn) {
		defer c.Close()

		ns, _ := c.Locals("namespace").(domain.Namespace)
		remoteAddr := c.RemoteAddr().String()
		slog.Info("ws client connected", "remote", remoteAddr, "namespace", string(ns))
		metrics.ActiveWebSockets.Inc()
		defer metrics.ActiveWebSockets.Dec()

		var mu sync.Mutex

		// Helper: thread-safe write
		writeJSON := func(v interface{}) error {
			data, err := json.Marshal(v)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			return c.WriteMessage(websocket.TextMessage, data)
		}

		if nc == nil {
			_ = writeJSON(map[string]string{"error": "live feed unavailable"})
			return
		}

		relay := func(msg *nats.Msg) {
			var event domain.RecordSaved
			if err := json.Unmarshal(msg.Data, &event); err != nil {
				return
			}
			if event.Namespace != ns {
				return
			}
			_ = writeJSON(event)
		}

		sub, err := nc.Subscribe(natsadapter.SubjectRecordSaved, relay)
		if err != nil {
			slog.Error("ws subscribe failed", "error", err)
			return
		}

		// Keep-alive ping
		done := make(chan struct{})
		go func() {
			ticker := time.NewTicker(30 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					mu.Lock()
					err := c.WriteMessage(websocket.PingMessage, nil)
					mu.Unlock()
					if err != nil {
						return
					}
				case <-done:
					return
				}
			}
		}()

		// Read client messages for subscribe/unsubscribe
		for {
			_, msg, err := c.ReadMessage()
			if err != nil {
				break
			}

			var m wsMessage
			if err := json.Unmarshal(msg, &m); err != nil {
				_ = writeJSON(map[string]string{"error": "invalid JSON"})
				continue
			}

			switch m.Action {
			case "subscribe":
				if sub != nil {
					_ = writeJSON(map[string]string{"status": "already subscribed"})
					continue
				}
				sub, err = nc.Subscribe(natsadapter.SubjectRecordSaved, relay)
				if err != nil {
					_ = writeJSON(map[string]string{"error": "subscribe failed: " + err.Error()})
					continue
				}
				_ = writeJSON(map[string]string{"status": "subscribed"})

			case "unsubscribe":
				if sub == nil {
					_ = writeJSON(map[string]string{"error": "not subscribed"})
					continue
				}
				_ = sub.Unsubscribe()
				sub = nil
				_ = writeJSON(map[string]string{"status": "unsubscribed"})

			default:
				_ = writeJSON(map[string]string{"error": "unknown action: " + m.Action})
			}
		}

		// Cleanup
		close(done)
		if sub != nil {
			_ = sub.Unsubscribe()
		}
		slog.Info("ws client disconnected", "remote", remoteAddr)
	}
}
