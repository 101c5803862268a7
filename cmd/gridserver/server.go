package main

import (
	_ "embed"
	"log"
	"net"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gorilla/websocket"
	"github.com/skip2/go-qrcode"
)

//go:embed index.html
var indexHTML []byte

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true // Non-browser clients don't send Origin
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return u.Host == r.Host
	},
}

func extractIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// SetupRoutes configures HTTP routes.
func SetupRoutes(hub *Hub, sim *Simulation, auth *Auth) *http.ServeMux {
	mux := http.NewServeMux()

	// Embedded viewer page
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache")
		w.Write(indexHTML)
	})

	// Viewer token for the WebSocket handshake
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		token, err := auth.IssueToken()
		if err != nil {
			http.Error(w, "token error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"token":"` + token + `"}`))
	})

	// QR code of the viewer URL, for opening the page on a phone
	mux.HandleFunc("/qr.png", func(w http.ResponseWriter, r *http.Request) {
		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}
		png, err := qrcode.Encode(scheme+"://"+r.Host+"/", qrcode.Medium, 256)
		if err != nil {
			http.Error(w, "qr error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write(png)
	})

	// Admin control: pause/resume/reset the simulation
	mux.HandleFunc("/control", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if !auth.CheckAdmin(r.FormValue("password")) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		switch r.FormValue("action") {
		case "pause":
			sim.SetPaused(true)
			hub.BroadcastJSON(Envelope{T: MsgPaused})
		case "resume":
			sim.SetPaused(false)
			hub.BroadcastJSON(Envelope{T: MsgResumed})
		case "reset":
			count := sim.EntityCount()
			if n, err := strconv.Atoi(r.FormValue("count")); err == nil && n > 0 {
				count = n
			}
			sim.Reset(count)
			hub.BroadcastJSON(Envelope{T: MsgReset, Data: ResetInfo{Count: count}})
		default:
			http.Error(w, "unknown action", http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	// WebSocket endpoint
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		if err := auth.ValidateToken(r.URL.Query().Get("token")); err != nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		ip := extractIP(r)
		if !hub.CanAccept(ip) {
			http.Error(w, "too many connections", http.StatusServiceUnavailable)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("upgrade error: %v", err)
			return
		}

		hub.TrackConnect(ip)

		client := NewClient(hub, conn, ip)
		hub.register <- client

		go client.WritePump()
		go client.ReadPump()

		client.SendJSON(Envelope{T: MsgWelcome, Data: sim.Info()})
	})

	return mux
}
