package postgres

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/seu-repo/sms-assistant/internal/domain"
	"github.com/seu-repo/sms-assistant/internal/ports"
)

type ConversationRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewConversationRepository(db *gorm.DB, log *zap.Logger) ports.ConversationRepository {
	return &ConversationRepository{
		db:  db,
		log: log,
	}
}

func (r *ConversationRepository) Save(ctx context.Context, c *domain.Conversation) error {
	result := r.db.WithContext(ctx).Save(c)
	if result.Error != nil {
		r.log.Error("Failed to save conversation", zap.String("user_id", c.UserID), zap.Error(result.Error))
		return result.Error
	}
	return nil
}

// Recent returns the latest conversations, newest first.
func (r *ConversationRepository) Recent(ctx context.Context, userID string, limit int) ([]domain.Conversation, error) {
	var out []domain.Conversation
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&out)
	if result.Error != nil {
		return nil, result.Error
	}
	return out, nil
}

func (r *ConversationRepository) ByIntent(ctx context.Context, userID string, intent domain.Domain, limit int) ([]domain.Conversation, error) {
	var out []domain.Conversation
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND intent = ?", userID, intent).
		Order("created_at DESC").
		Limit(limit).
		Find(&out)
	if result.Error != nil {
		return nil, result.Error
	}
	return out, nil
}

// All returns the whole history oldest first.
func (r *ConversationRepository) All(ctx context.Context, userID string) ([]domain.Conversation, error) {
	var out []domain.Conversation
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&out)
	if result.Error != nil {
		return nil, result.Error
	}
	return out, nil
}
