package controllers

import (
	"net/http"
	"strings"

	"github.com/fruitify/fruitify-backend/api/responses"
	"github.com/fruitify/fruitify-backend/internal/realtime"
	pkgauth "github.com/fruitify/fruitify-backend/pkg/auth"
	"github.com/fruitify/fruitify-backend/pkg/config"
	pkgerrors "github.com/fruitify/fruitify-backend/pkg/errors"
	"github.com/fruitify/fruitify-backend/pkg/logger"
	"github.com/gorilla/websocket"
)

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browsers cannot set Authorization headers on websocket dials, so the
	// token arrives in the query string and origin checks stay permissive.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Websocket authenticates the handshake, upgrades the connection, and parks
// it in the caller's per-user room until either side closes.
func Websocket(cfg config.JWTConfig, hub *realtime.Hub, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("token")
		if token == "" {
			if header := r.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
				token = strings.TrimPrefix(header, "Bearer ")
			}
		}
		if token == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing token"))
			return
		}

		claims, err := pkgauth.ParseAccessToken(cfg, token)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
			return
		}

		conn, err := wsUpgrader.Upgrade(w, r, nil)
		if err != nil {
			// Upgrade already wrote the handshake failure to the client.
			logg.Warn(logg.WithUserID(r.Context(), claims.UserID.String()), "websocket upgrade failed")
			return
		}

		ctx := logg.WithUserID(r.Context(), claims.UserID.String())
		logg.Info(ctx, "websocket connected")

		client := realtime.NewClient(conn)
		hub.Register(claims.UserID, client)
		go client.WritePump()

		client.ReadPump()

		hub.Unregister(claims.UserID, client)
		logg.Info(ctx, "websocket disconnected")
	}
}
