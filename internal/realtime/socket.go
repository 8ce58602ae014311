package realtime

import (
	"fmt"
	"log"
	"net/http"
	"sync"

	socketio "github.com/googollee/go-socket.io"
	"github.com/googollee/go-socket.io/engineio"
	"github.com/googollee/go-socket.io/engineio/transport"
	"github.com/googollee/go-socket.io/engineio/transport/polling"
	"github.com/googollee/go-socket.io/engineio/transport/websocket"
)

var SocketServer *socketio.Server

// Presence tracking
var (
	onlineUsers   = make(map[string]string) // userId -> socketId
	onlineUsersMu sync.RWMutex
)

// Per-socket hub subscriptions, released on disconnect so delivery callbacks
// never outlive the connection.
var (
	socketSubs   = make(map[string][]*Subscription) // socketId -> subs
	socketSubsMu sync.Mutex
)

// IsUserOnline checks if a user has an active socket
func IsUserOnline(userID string) bool {
	onlineUsersMu.RLock()
	defer onlineUsersMu.RUnlock()
	_, exists := onlineUsers[userID]
	return exists
}

// PushToUser sends a realtime event to a specific user's room. Users without
// an active socket are skipped; they catch up from the REST endpoints.
func PushToUser(userID string, event string, data interface{}) {
	if SocketServer != nil && IsUserOnline(userID) {
		SocketServer.BroadcastToRoom("/", userID, event, data)
	}
}

// InitSocketServer wires the socket.io bridge: each browser client joins a
// personal room; hub snapshots for the client's paths are forwarded as
// "snapshot" events carrying the full value, never a diff.
func InitSocketServer() *socketio.Server {
	server := socketio.NewServer(&engineio.Options{
		Transports: []transport.Transport{
			&websocket.Transport{
				CheckOrigin: func(r *http.Request) bool { return true },
			},
			&polling.Transport{
				CheckOrigin: func(r *http.Request) bool { return true },
			},
		},
	})

	server.OnConnect("/", func(s socketio.Conn) error {
		url := s.URL()

		// Identity is established upstream by the auth gateway; the
		// handshake carries the already-authenticated user id.
		userID := url.Query().Get("userId")
		if userID == "" {
			log.Println("Socket Connection Rejected: no user identity", s.ID())
			return fmt.Errorf("identity required")
		}

		s.SetContext(userID)

		onlineUsersMu.Lock()
		onlineUsers[userID] = s.ID()
		onlineUsersMu.Unlock()

		// Join personal room for pushes
		s.Join(userID)
		return nil
	})

	// Client subscribes to a fan-out path; every write under it redelivers
	// the full current snapshot.
	server.OnEvent("/", "subscribe", func(s socketio.Conn, path string) {
		userID, _ := s.Context().(string)
		if userID == "" || !pathVisibleTo(path, userID) {
			return
		}

		sub := Bus.Subscribe(path)
		socketSubsMu.Lock()
		socketSubs[s.ID()] = append(socketSubs[s.ID()], sub)
		socketSubsMu.Unlock()

		go func(room string) {
			for snap := range sub.C {
				server.BroadcastToRoom("/", room, "snapshot", map[string]interface{}{
					"path":  snap.Path,
					"value": snap.Value,
				})
			}
		}(userID)
	})

	server.OnDisconnect("/", func(s socketio.Conn, reason string) {
		log.Println("closed", reason)

		onlineUsersMu.Lock()
		for userID, socketID := range onlineUsers {
			if socketID == s.ID() {
				delete(onlineUsers, userID)
				break
			}
		}
		onlineUsersMu.Unlock()

		socketSubsMu.Lock()
		for _, sub := range socketSubs[s.ID()] {
			sub.Unsubscribe()
		}
		delete(socketSubs, s.ID())
		socketSubsMu.Unlock()
	})

	server.OnError("/", func(s socketio.Conn, e error) {
		log.Println("socket error:", e)
	})

	SocketServer = server
	return server
}

// pathVisibleTo guards per-user paths: a client may watch catalog paths and
// its own progress/notifications/user record, nothing belonging to others.
func pathVisibleTo(path, userID string) bool {
	switch {
	case path == "tasks" || path == "badges":
		return true
	case path == "users/"+userID,
		path == "progress/"+userID,
		path == "notifications/"+userID:
		return true
	}
	return false
}
