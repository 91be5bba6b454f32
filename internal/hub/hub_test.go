package hub

import (
	"context"
	"testing"
	"time"

	"github.com/sociable/chathub/internal/database"
	"github.com/sociable/chathub/internal/testutil"
	"github.com/sociable/chathub/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newTestHub(t *testing.T) *Hub {
	st := newTestStats()
	st.On("RegisterMetric", mock.Anything).Maybe()

	repo := &database.MockRepository{}
	return NewHub(testutil.TestLogger(t), nil, repo, st, 1024)
}

func TestRegisterAndDeregisterClient(t *testing.T) {
	h := newTestHub(t)

	c := NewClient(types.User{Id: 1, Username: "testuser"}, nil, h, testutil.TestLogger(t), newTestStats())

	h.RegisterClient(c)
	assert.Contains(t, h.clients, c, "expected client to be tracked after registration")

	h.DeregisterClient(c)
	assert.NotContains(t, h.clients, c, "expected client to be removed after deregistration")

	// deregistering twice is a no-op
	h.DeregisterClient(c)
}

func TestShutdown(t *testing.T) {
	t.Run("no clients", func(t *testing.T) {
		h := newTestHub(t)

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()

		assert.NoError(t, h.Shutdown(ctx), "expected shutdown with no clients to return immediately")
	})

	t.Run("waits for clients", func(t *testing.T) {
		h := newTestHub(t)
		c := NewClient(types.User{Id: 1, Username: "testuser"}, nil, h, testutil.TestLogger(t), newTestStats())
		h.RegisterClient(c)

		done := make(chan error, 1)
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			done <- h.Shutdown(ctx)
		}()

		// the stop signal reaches the client, whose cleanup deregisters it
		select {
		case <-c.stop:
		case <-time.After(time.Second):
			t.Fatal("timeout: client was not signalled to stop")
		}
		c.cleanup()

		select {
		case err := <-done:
			assert.NoError(t, err, "expected shutdown to finish once clients cleaned up")
		case <-time.After(time.Second):
			t.Fatal("timeout: shutdown did not complete")
		}
	})

	t.Run("context expires", func(t *testing.T) {
		h := newTestHub(t)
		c := NewClient(types.User{Id: 1, Username: "testuser"}, nil, h, testutil.TestLogger(t), newTestStats())
		h.RegisterClient(c)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()

		// the client never cleans up, so shutdown must give up with the context
		assert.ErrorIs(t, h.Shutdown(ctx), context.DeadlineExceeded)
	})
}
