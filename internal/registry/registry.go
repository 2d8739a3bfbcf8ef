// Package registry is the in-memory connection registry mapping user_id
// to live duplex channels, grounded in
// services/user_management_service/src/PartnerDashboardService.go's
// websocket client map and services/api_gateway/src/registry's
// mutex-guarded service map. Preserves the source's "acquire, snapshot,
// release, send" discipline: the mutex is never held across a network
// send.
package registry

import (
	"sync"

	"github.com/gorilla/websocket"

	"github.com/iaros/concierge/internal/logging"
)

// AnonKey is the reserved bucket for unauthenticated channels.
const AnonKey = "anon"

// Registry guards a user_id → set-of-connections mapping under a single
// mutex.
type Registry struct {
	mu      sync.Mutex
	byUser  map[string]map[*websocket.Conn]struct{}
	log     *logging.Logger
}

// New builds an empty Registry.
func New(log *logging.Logger) *Registry {
	return &Registry{
		byUser: make(map[string]map[*websocket.Conn]struct{}),
		log:    log,
	}
}

// Connect inserts conn into the mapping under userID, or AnonKey if empty.
func (r *Registry) Connect(conn *websocket.Conn, userID string) {
	if userID == "" {
		userID = AnonKey
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	set, ok := r.byUser[userID]
	if !ok {
		set = make(map[*websocket.Conn]struct{})
		r.byUser[userID] = set
	}
	set[conn] = struct{}{}
}

// Disconnect removes conn from userID's set, dropping the key entirely if
// the set becomes empty.
func (r *Registry) Disconnect(conn *websocket.Conn, userID string) {
	if userID == "" {
		userID = AnonKey
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	set, ok := r.byUser[userID]
	if !ok {
		return
	}
	delete(set, conn)
	if len(set) == 0 {
		delete(r.byUser, userID)
	}
}

// Broadcast snapshots target channels under the mutex, then sends outside
// it — the mutex must never be held across I/O. If userID is empty, every
// channel in every bucket is targeted. A send failure on one channel is
// logged and does not abort delivery to its siblings.
func (r *Registry) Broadcast(payload interface{}, userID string) {
	targets := r.snapshot(userID)
	for _, conn := range targets {
		if err := conn.WriteJSON(payload); err != nil {
			r.log.WithError(err).Warn("connection registry send failed, skipping channel")
		}
	}
}

func (r *Registry) snapshot(userID string) []*websocket.Conn {
	r.mu.Lock()
	defer r.mu.Unlock()

	var targets []*websocket.Conn
	if userID == "" {
		for _, set := range r.byUser {
			for conn := range set {
				targets = append(targets, conn)
			}
		}
		return targets
	}
	for conn := range r.byUser[userID] {
		targets = append(targets, conn)
	}
	return targets
}

// ConnectionCount reports the number of live channels under userID, for
// diagnostics and tests.
func (r *Registry) ConnectionCount(userID string) int {
	if userID == "" {
		userID = AnonKey
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byUser[userID])
}
