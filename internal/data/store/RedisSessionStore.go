package store

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/akolanti/ragops/internal/config"
	"github.com/akolanti/ragops/internal/data/redisStore"
	"github.com/akolanti/ragops/internal/domain/commonModels"
	"github.com/akolanti/ragops/pkg/logger_i"
	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "session:"

var ErrUnknownSession = errors.New("unknown chat session")

type RedisSessionStore struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

func NewRedisSessionStore(rs *redisStore.Store) *RedisSessionStore {
	if rs == nil {
		return nil
	}
	return &RedisSessionStore{
		store:  rs,
		logger: logger_i.NewLogger("SessionStore"),
	}
}

func (s *RedisSessionStore) ValidateChatId(ctx context.Context, chatId string) bool {
	found, err := s.store.Exists(ctx, sessionKeyPrefix+chatId)
	if err != nil {
		s.logger.WithTrace(ctx, config.TRACE_ID_KEY).Error("Failed to check if chatId exists", "chatId", chatId, "err", err)
		return false
	}
	return found
}

// InitNewChat writes an empty marker so the session exists before its first answer.
func (s *RedisSessionStore) InitNewChat(ctx context.Context, id string) error {
	key := sessionKeyPrefix + id
	return s.store.Atomic(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.RPush(ctx, key, "")
		pipe.Expire(ctx, key, config.RedisMessageStoreTTL)
		return nil
	})
}

func (s *RedisSessionStore) AppendMessages(ctx context.Context, id string, messages ...commonModels.ChatMessage) error {
	log := s.logger.WithTrace(ctx, config.TRACE_ID_KEY).With("chatId", id)
	if !s.ValidateChatId(ctx, id) {
		log.Error("Failed validation before saving")
		return ErrUnknownSession
	}
	values := make([]interface{}, 0, len(messages))
	for _, m := range messages {
		data, err := json.Marshal(m)
		if err != nil {
			return err
		}
		values = append(values, data)
	}
	if len(values) == 0 {
		return nil
	}
	if err := s.store.ListPush(ctx, sessionKeyPrefix+id, values...); err != nil {
		log.Error("error saving chat", "error", err)
		return err
	}
	return nil
}

func (s *RedisSessionStore) GetMessageHistory(ctx context.Context, chatId string, limit int) ([]commonModels.ChatMessage, error) {
	raw, err := s.store.ListGetLast(ctx, sessionKeyPrefix+chatId, int64(limit))
	if err != nil {
		return nil, err
	}
	history := make([]commonModels.ChatMessage, 0, len(raw))
	for _, r := range raw {
		if r == "" {
			continue
		}
		var m commonModels.ChatMessage
		if err := json.Unmarshal([]byte(r), &m); err != nil {
			s.logger.Warn("Skipping undecodable chat message", "chatId", chatId, "error", err)
			continue
		}
		history = append(history, m)
	}
	return history, nil
}
