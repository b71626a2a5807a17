/*
Package handler provides the HTTP handler for WebSocket connection upgrading.

A connection arrives unjoined: room membership is established later through the
join-room event on the socket itself, and a connection that never joins simply
stays idle until it disconnects.
*/
package handler

import (
	"net"
	"net/http"

	"github.com/gorilla/websocket"

	"scenesync/internal/app/scene"
	"scenesync/internal/pkg/errs"
	"scenesync/internal/pkg/limiter"
	"scenesync/internal/pkg/logx"
	"scenesync/internal/pkg/resp"
)

// HandleWebSocket creates an HTTP HandlerFunc that upgrades the connection and
// starts the client's message loops.
func HandleWebSocket(upgrader websocket.Upgrader, rateLimiter *limiter.IPRateLimiter, deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}

		if ip == "" {
			ip = "unknown_ip"
		}

		if !rateLimiter.GetLimiter(ip).Allow() {
			logx.Warn("WebSocket connection rejected: Rate limit exceeded.", "ip", ip)
			resp.RespondError(w, r, errs.NewError(errs.ErrRateLimitExceeded))
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logx.Error(err, "Failed to upgrade connection to WebSocket")
			return
		}

		client := scene.NewClient(deps.Registry, conn)

		logx.Info("WebSocket connection established", "conn_id", client.ID())

		go client.WritePump()

		client.ReadPump()
	}
}
