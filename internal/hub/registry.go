package hub

import (
	"sync"
)

// Connection is the transport-owned handle the registry routes sends
// through. The registry never closes a Connection; it only holds a
// reference while the socket is open. Send must not block.
type Connection interface {
	Send(msg *ServerMessage) error
}

// DeliveryFailure records a failed best-effort send to a single member
// during a broadcast.
type DeliveryFailure struct {
	UserId int
	Err    error
}

// Registry is the process-wide table of live rooms: conversation id to
// user id to connection. Rooms are created on first join and removed when
// the last member leaves. All operations serialize behind one lock.
type Registry struct {
	mu    sync.RWMutex
	rooms map[int]map[int]Connection
}

func NewRegistry() *Registry {
	return &Registry{
		rooms: make(map[int]map[int]Connection),
	}
}

// Join registers conn for userId in the conversation's room, creating the
// room if needed. A previous connection registered for the same user is
// replaced; closing the superseded socket is the transport's concern.
func (r *Registry) Join(chatId, userId int, conn Connection) {
	if conn == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[chatId]
	if !ok {
		room = make(map[int]Connection)
		r.rooms[chatId] = room
	}
	room[userId] = conn
}

// Leave removes the entry in the conversation's room whose registered
// connection is conn. No-op if the room doesn't exist or conn isn't in it.
func (r *Registry) Leave(chatId int, conn Connection) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.removeConn(chatId, conn)
}

// LeaveAll removes conn from every room it joined. This is the cleanup
// invoked on transport close and is safe to call more than once.
func (r *Registry) LeaveAll(conn Connection) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for chatId := range r.rooms {
		r.removeConn(chatId, conn)
	}
}

// removeConn must be called with r.mu held.
func (r *Registry) removeConn(chatId int, conn Connection) {
	room, ok := r.rooms[chatId]
	if !ok {
		return
	}

	for userId, c := range room {
		if c == conn {
			delete(room, userId)
		}
	}

	if len(room) == 0 {
		delete(r.rooms, chatId)
	}
}

// Broadcast sends msg to every current member of the conversation's room
// except excludeUserId. Send failures are collected and returned; they
// never abort delivery to the remaining members and never remove the
// failing entry, since cleanup is driven by the transport's own close
// signal.
func (r *Registry) Broadcast(chatId, excludeUserId int, msg *ServerMessage) []DeliveryFailure {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var failures []DeliveryFailure
	for userId, conn := range r.rooms[chatId] {
		if userId == excludeUserId {
			continue
		}

		if err := conn.Send(msg); err != nil {
			failures = append(failures, DeliveryFailure{UserId: userId, Err: err})
		}
	}

	return failures
}

// Members returns the user ids currently registered in the conversation's
// room.
func (r *Registry) Members(chatId int) []int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members := make([]int, 0, len(r.rooms[chatId]))
	for userId := range r.rooms[chatId] {
		members = append(members, userId)
	}

	return members
}

// RoomCount returns the number of rooms with at least one live connection.
func (r *Registry) RoomCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.rooms)
}
