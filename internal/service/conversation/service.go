// Package conversation keeps message history, learns user preferences from it
// and assembles the context sent to the assistant.
package conversation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/seu-repo/sms-assistant/internal/adapter/queue"
	"github.com/seu-repo/sms-assistant/internal/domain"
	"github.com/seu-repo/sms-assistant/internal/observability/telemetry"
	"github.com/seu-repo/sms-assistant/internal/ports"
)

const (
	recentLimit          = 5
	relatedLimit         = 5
	defaultPreferenceTTL = time.Hour
)

// Context is what the assistant is told about the user besides the message.
type Context struct {
	Recent      []domain.Conversation
	Related     []domain.Conversation
	Preferences domain.Preferences
}

type Options struct {
	PreferencesTTL time.Duration
	Now            func() time.Time
}

type Service struct {
	repo   ports.ConversationRepository
	cache  ports.Cache
	events ports.MessageQueue
	opts   Options
	log    *zap.Logger
}

// NewService creates the history service. cache and events may be nil; without
// events, conversations are saved inline.
func NewService(repo ports.ConversationRepository, cache ports.Cache, events ports.MessageQueue, opts Options, log *zap.Logger) *Service {
	if opts.PreferencesTTL <= 0 {
		opts.PreferencesTTL = defaultPreferenceTTL
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{repo: repo, cache: cache, events: events, opts: opts, log: log}
}

// Record stores one exchange. Slots are kept as JSON so preferences can be
// learned from them later.
func (s *Service) Record(ctx context.Context, userID, body, response string, intent domain.Intent) error {
	c := &domain.Conversation{
		ID:        uuid.NewString(),
		UserID:    userID,
		Body:      body,
		Response:  response,
		Intent:    intent.Domain,
		CreatedAt: s.opts.Now().UTC(),
	}
	if len(intent.Slots) > 0 {
		raw, err := json.Marshal(intent.Slots)
		if err != nil {
			return fmt.Errorf("conversation: encode slots: %w", err)
		}
		c.Slots = string(raw)
	}

	if s.events == nil {
		return s.save(ctx, c)
	}

	data, err := queue.Encode(queue.SubjectConversationRecorded, c)
	if err != nil {
		return err
	}
	if err := s.events.Publish(ctx, queue.SubjectConversationRecorded, data); err != nil {
		return fmt.Errorf("conversation: publish: %w", err)
	}
	telemetry.QueueEvents.WithLabelValues(queue.SubjectConversationRecorded, "published").Inc()
	return nil
}

// Subscribe registers the worker that persists recorded conversations.
func (s *Service) Subscribe(q ports.MessageQueue) error {
	return q.Subscribe(queue.SubjectConversationRecorded, func(ctx context.Context, data []byte) error {
		var c domain.Conversation
		if _, err := queue.Decode(data, &c); err != nil {
			return err
		}
		telemetry.QueueEvents.WithLabelValues(queue.SubjectConversationRecorded, "consumed").Inc()
		return s.save(ctx, &c)
	})
}

func (s *Service) save(ctx context.Context, c *domain.Conversation) error {
	if err := s.repo.Save(ctx, c); err != nil {
		return fmt.Errorf("conversation: save: %w", err)
	}
	s.forget(ctx, c.UserID)
	s.log.Debug("Conversation stored", zap.String("user_id", c.UserID), zap.String("intent", string(c.Intent)))
	return nil
}

// Context loads recent history, history for the same intent and learned
// preferences concurrently. A part that fails to load is left empty.
func (s *Service) Context(ctx context.Context, userID string, intent domain.Domain) Context {
	var cc Context
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		recent, err := s.repo.Recent(gctx, userID, recentLimit)
		if err != nil {
			s.log.Error("Error getting recent conversations", zap.Error(err))
			return nil
		}
		cc.Recent = recent
		return nil
	})
	g.Go(func() error {
		related, err := s.repo.ByIntent(gctx, userID, intent, relatedLimit)
		if err != nil {
			s.log.Error("Error getting intent conversations", zap.Error(err))
			return nil
		}
		cc.Related = related
		return nil
	})
	g.Go(func() error {
		prefs, err := s.Preferences(gctx, userID)
		if err != nil {
			s.log.Error("Error extracting preferences", zap.Error(err))
			return nil
		}
		cc.Preferences = prefs
		return nil
	})

	_ = g.Wait()
	return cc
}
