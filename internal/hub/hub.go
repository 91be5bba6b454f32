package hub

import (
	"context"
	"log"
	"sync"

	"github.com/sociable/chathub/internal/stats"
)

// Hub owns the room registry, the frame dispatcher and the set of live
// clients. The registry is the only state shared across connections; the
// hub itself only tracks clients for shutdown.
type Hub struct {
	log         *log.Logger
	registry    *Registry
	dispatcher  *Dispatcher
	stats       stats.StatsProvider
	clients     map[*Client]struct{}
	clientsLock sync.Mutex
	clientsWg   sync.WaitGroup
}

func NewHub(logger *log.Logger, verifier TokenVerifier, store ConversationStore,
	statsProvider stats.StatsProvider, maxContentBytes int) *Hub {
	h := &Hub{
		log:      logger,
		registry: NewRegistry(),
		stats:    statsProvider,
		clients:  make(map[*Client]struct{}),
	}
	h.dispatcher = NewDispatcher(h.registry, verifier, store, statsProvider, logger, maxContentBytes)

	statsProvider.RegisterMetric(stats.ActiveConnections)
	statsProvider.RegisterMetric(stats.MessagesSent)
	statsProvider.RegisterMetric(stats.DeliveryFailures)

	return h
}

func (h *Hub) Registry() *Registry {
	return h.registry
}

func (h *Hub) RegisterClient(c *Client) {
	h.log.Printf("adding connection from %q", c.user.Username)

	h.clientsLock.Lock()
	defer h.clientsLock.Unlock()
	h.clients[c] = struct{}{}
	h.clientsWg.Add(1)
	h.stats.Incr(stats.ActiveConnections)
}

func (h *Hub) DeregisterClient(c *Client) {
	h.clientsLock.Lock()
	defer h.clientsLock.Unlock()

	if _, ok := h.clients[c]; !ok {
		return
	}

	h.log.Printf("removing connection from %q", c.user.Username)
	delete(h.clients, c)
	h.clientsWg.Done()
	h.stats.Decr(stats.ActiveConnections)
}

// Shutdown stops every client and waits for their read loops to finish
// cleanup, or until ctx expires.
func (h *Hub) Shutdown(ctx context.Context) error {
	h.log.Println("shutting down hub")

	h.clientsLock.Lock()
	for c := range h.clients {
		c.stopClient()
	}
	h.clientsLock.Unlock()

	done := make(chan struct{})
	go func() {
		h.clientsWg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
