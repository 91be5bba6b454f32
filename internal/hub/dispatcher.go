package hub

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"slices"

	"github.com/sociable/chathub/internal/database"
	"github.com/sociable/chathub/internal/stats"
	"github.com/sociable/chathub/internal/types"
)

// TokenVerifier resolves a per-frame credential to a user id.
type TokenVerifier interface {
	VerifyToken(token string) (int, error)
}

// ConversationStore is the slice of the repository the dispatcher needs:
// authoritative membership and durable message persistence.
type ConversationStore interface {
	GetConversation(conversationId int) (database.Conversation, error)
	CreateMessage(conversationId, senderId int, content string) (database.Message, error)
}

// Dispatcher runs the per-frame pipeline: decode, verify the credential,
// re-check membership against the store, then act. Membership is looked up
// on every JOIN and MSG so revocation takes effect without forcing a
// disconnect.
type Dispatcher struct {
	registry        *Registry
	verifier        TokenVerifier
	store           ConversationStore
	stats           stats.StatsProvider
	log             *log.Logger
	maxContentBytes int
}

func NewDispatcher(registry *Registry, verifier TokenVerifier, store ConversationStore,
	statsProvider stats.StatsProvider, logger *log.Logger, maxContentBytes int) *Dispatcher {
	return &Dispatcher{
		registry:        registry,
		verifier:        verifier,
		store:           store,
		stats:           statsProvider,
		log:             logger,
		maxContentBytes: maxContentBytes,
	}
}

func (d *Dispatcher) HandleFrame(c *Client, raw []byte) {
	var frame ClientFrame
	if err := json.Unmarshal(raw, &frame); err != nil {
		d.log.Println("error parsing frame:", err)
		c.queueMessage(ErrBadFrame())
		return
	}

	switch frame.Type {
	case FrameJoin, FrameMsg:
	default:
		// unknown frame types are dropped without a reply
		return
	}

	if !d.validFrame(frame) {
		c.queueMessage(ErrBadFrame())
		return
	}

	userId, err := d.verifier.VerifyToken(frame.Token)
	if err != nil {
		c.queueMessage(ErrInvalidCredential())
		return
	}

	conv, err := d.store.GetConversation(frame.ChatId)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.queueMessage(ErrConversationNotFound())
		} else {
			d.log.Println("get conversation:", err)
			c.queueMessage(ErrInternalError())
		}
		return
	}

	if !slices.Contains(conv.MemberIds, userId) {
		c.queueMessage(ErrNotAMember())
		return
	}

	switch frame.Type {
	case FrameJoin:
		d.registry.Join(frame.ChatId, userId, c)
	case FrameMsg:
		d.persistAndBroadcast(c, frame, userId)
	}
}

func (d *Dispatcher) validFrame(frame ClientFrame) bool {
	if frame.ChatId <= 0 || frame.Token == "" {
		return false
	}

	if frame.Type == FrameMsg {
		if frame.Content == "" || len(frame.Content) > d.maxContentBytes {
			return false
		}
	}

	return true
}

func (d *Dispatcher) persistAndBroadcast(c *Client, frame ClientFrame, userId int) {
	msg, err := d.store.CreateMessage(frame.ChatId, userId, frame.Content)
	if err != nil {
		// never fan out a message that wasn't durably recorded
		d.log.Println("error saving message:", err)
		c.queueMessage(ErrInternalError())
		return
	}

	failures := d.registry.Broadcast(frame.ChatId, userId, &ServerMessage{
		Message: &types.Message{
			Id:             msg.Id,
			ConversationId: msg.ConversationId,
			SenderId:       msg.SenderId,
			Content:        msg.Content,
			CreatedAt:      msg.CreatedAt,
		},
	})

	// best-effort fan-out: stale peers self-heal via the transport's own
	// close detection, the sender is not informed
	for _, f := range failures {
		d.log.Printf("delivery to user %d in conversation %d failed: %v", f.UserId, frame.ChatId, f.Err)
		d.stats.Incr(stats.DeliveryFailures)
	}

	d.stats.Incr(stats.MessagesSent)
}
