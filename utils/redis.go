package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/sampark-ai/sampark-backend/models"
)

const (
	chatMemoryTurns = 10
	chatMemoryTTL   = 24 * time.Hour
)

// ChatMemory keeps the rolling conversation history per chat session in
// Redis, so the orchestrator has context when the client sends none.
// A nil ChatMemory is valid and remembers nothing.
type ChatMemory struct {
	client *redis.Client
	logger *zap.Logger
}

func NewChatMemory(client *redis.Client) *ChatMemory {
	if client == nil {
		return nil
	}
	return &ChatMemory{
		client: client,
		logger: zap.L().Named("chat_memory"),
	}
}

func (m *ChatMemory) key(sessionID string) string {
	return fmt.Sprintf("sampark:history:%s", sessionID)
}

// AppendTurn records one conversation turn, trimming to the rolling window.
func (m *ChatMemory) AppendTurn(ctx context.Context, sessionID, role, content string) {
	if m == nil || sessionID == "" {
		return
	}

	turn, err := json.Marshal(models.ChatTurn{Role: role, Content: content})
	if err != nil {
		return
	}

	key := m.key(sessionID)
	pipe := m.client.Pipeline()
	pipe.RPush(ctx, key, turn)
	pipe.LTrim(ctx, key, -chatMemoryTurns, -1)
	pipe.Expire(ctx, key, chatMemoryTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		m.logger.Warn("Failed to append chat turn", zap.Error(err))
	}
}

// RecentTurns returns up to the last 10 turns for a session, oldest first.
func (m *ChatMemory) RecentTurns(ctx context.Context, sessionID string) []models.ChatTurn {
	if m == nil || sessionID == "" {
		return nil
	}

	raw, err := m.client.LRange(ctx, m.key(sessionID), -chatMemoryTurns, -1).Result()
	if err != nil {
		m.logger.Warn("Failed to load chat history", zap.Error(err))
		return nil
	}

	turns := make([]models.ChatTurn, 0, len(raw))
	for _, item := range raw {
		var turn models.ChatTurn
		if err := json.Unmarshal([]byte(item), &turn); err != nil {
			continue
		}
		turns = append(turns, turn)
	}
	return turns
}
