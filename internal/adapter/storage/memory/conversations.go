package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/seu-repo/sms-assistant/internal/domain"
	"github.com/seu-repo/sms-assistant/internal/ports"
)

// Conversations keeps message history in process for the console and for
// deployments without a database.
type Conversations struct {
	mu      sync.RWMutex
	history map[string][]domain.Conversation
}

func NewConversations() ports.ConversationRepository {
	return &Conversations{history: make(map[string][]domain.Conversation)}
}

func (c *Conversations) Save(ctx context.Context, conv *domain.Conversation) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	list := c.history[conv.UserID]
	for i := range list {
		if list[i].ID == conv.ID {
			list[i] = *conv
			return nil
		}
	}
	list = append(list, *conv)
	sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	c.history[conv.UserID] = list
	return nil
}

func (c *Conversations) Recent(ctx context.Context, userID string, limit int) ([]domain.Conversation, error) {
	return c.newest(userID, limit, nil), nil
}

func (c *Conversations) ByIntent(ctx context.Context, userID string, intent domain.Domain, limit int) ([]domain.Conversation, error) {
	return c.newest(userID, limit, func(conv domain.Conversation) bool { return conv.Intent == intent }), nil
}

func (c *Conversations) All(ctx context.Context, userID string) ([]domain.Conversation, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]domain.Conversation(nil), c.history[userID]...), nil
}

func (c *Conversations) newest(userID string, limit int, match func(domain.Conversation) bool) []domain.Conversation {
	c.mu.RLock()
	defer c.mu.RUnlock()

	list := c.history[userID]
	out := make([]domain.Conversation, 0, limit)
	for i := len(list) - 1; i >= 0 && len(out) < limit; i-- {
		if match == nil || match(list[i]) {
			out = append(out, list[i])
		}
	}
	return out
}
