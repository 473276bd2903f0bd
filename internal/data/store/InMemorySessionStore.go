package store

import (
	"context"
	"sync"

	"github.com/akolanti/ragops/internal/domain/commonModels"
)

type InMemorySessionStore struct {
	chatLock *sync.RWMutex
	chatMap  map[string][]commonModels.ChatMessage
}

func InitInMemorySessionStore() *InMemorySessionStore {
	return &InMemorySessionStore{
		chatLock: new(sync.RWMutex),
		chatMap:  make(map[string][]commonModels.ChatMessage),
	}
}

func (store *InMemorySessionStore) ValidateChatId(ctx context.Context, chatId string) bool {
	store.chatLock.RLock()
	defer store.chatLock.RUnlock()
	_, ok := store.chatMap[chatId]
	return ok
}

func (store *InMemorySessionStore) InitNewChat(ctx context.Context, id string) error {
	store.chatLock.Lock()
	defer store.chatLock.Unlock()
	store.chatMap[id] = make([]commonModels.ChatMessage, 0)
	return nil
}

func (store *InMemorySessionStore) AppendMessages(ctx context.Context, id string, messages ...commonModels.ChatMessage) error {
	store.chatLock.Lock()
	defer store.chatLock.Unlock()
	if _, ok := store.chatMap[id]; !ok {
		return ErrUnknownSession
	}
	store.chatMap[id] = append(store.chatMap[id], messages...)
	return nil
}

func (store *InMemorySessionStore) GetMessageHistory(ctx context.Context, chatId string, limit int) ([]commonModels.ChatMessage, error) {
	store.chatLock.RLock()
	defer store.chatLock.RUnlock()
	history := store.chatMap[chatId]
	if limit > 0 && len(history) > limit {
		history = history[len(history)-limit:]
	}
	out := make([]commonModels.ChatMessage, len(history))
	copy(out, history)
	return out, nil
}
