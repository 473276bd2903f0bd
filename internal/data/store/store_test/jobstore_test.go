package store_test

import (
	"context"
	"sync"
	"testing"

	"github.com/akolanti/ragops/internal/config"
	"github.com/akolanti/ragops/internal/data/redisStore"
	"github.com/akolanti/ragops/internal/data/store"
	"github.com/akolanti/ragops/internal/domain/commonModels"
	"github.com/akolanti/ragops/internal/domain/jobModel"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newMiniRedis(t *testing.T) (*miniredis.Miniredis, *redisStore.Store) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, redisStore.NewTestStore(client)
}

func traceCtx(trace string) context.Context {
	return context.WithValue(context.Background(), config.TRACE_ID_KEY, trace)
}

func TestRedisJobStore_Lifecycle(t *testing.T) {
	mr, rs := newMiniRedis(t)
	jobStore := store.NewRedisJobStore(rs)

	ctx := traceCtx("test-trace")
	jobID := "job_abc_123"

	testJob := jobModel.Job{
		Id:      jobID,
		Status:  jobModel.JobStatusRunning,
		JobType: jobModel.JobTypeQuery,
		JobPayload: jobModel.JobPayload{
			Question: "How many PTO days do I get?",
			Response: &commonModels.AgentResponse{Content: "15 days [1].", Citations: []commonModels.Citation{{ChunkId: "c1"}}},
		},
	}

	t.Run("Save and Get Roundtrip", func(t *testing.T) {
		if err := jobStore.SaveJob(ctx, testJob); err != nil {
			t.Fatalf("SaveJob failed: %v", err)
		}

		retrievedJob, found := jobStore.GetJob(ctx, jobID)
		if !found {
			t.Fatal("Job was saved but not found in Redis")
		}
		if retrievedJob.JobPayload.Question != testJob.JobPayload.Question {
			t.Errorf("Data mismatch! Got %s, want %s", retrievedJob.JobPayload.Question, testJob.JobPayload.Question)
		}
		if retrievedJob.JobPayload.Response == nil || len(retrievedJob.JobPayload.Response.Citations) != 1 {
			t.Errorf("agent response not preserved: %+v", retrievedJob.JobPayload.Response)
		}
	})

	t.Run("Get Non-Existent Job", func(t *testing.T) {
		if _, found := jobStore.GetJob(ctx, "ghost-id"); found {
			t.Error("Expected found=false for non-existent key")
		}
	})

	t.Run("Delete Job", func(t *testing.T) {
		jobStore.DeleteJob(ctx, jobID)
		if mr.Exists("job:" + jobID) {
			t.Error("Job still exists in Redis after DeleteJob call")
		}
	})
}

func TestRedisJobStore_Race(t *testing.T) {
	_, rs := newMiniRedis(t)
	jobStore := store.NewRedisJobStore(rs)

	ctx := traceCtx("race-trace")
	job := jobModel.Job{Id: "race-job"}

	const workers = 50
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = jobStore.SaveJob(ctx, job)
			_, _ = jobStore.GetJob(ctx, "race-job")
		}()
	}
	wg.Wait()

	if _, found := jobStore.GetJob(ctx, "race-job"); !found {
		t.Error("job missing after concurrent writes")
	}
}

func TestNewRedisStores_NilWhenOffline(t *testing.T) {
	if store.NewRedisJobStore(nil) != nil || store.NewRedisDocumentStore(nil) != nil ||
		store.NewRedisEvalStore(nil) != nil || store.NewRedisSessionStore(nil) != nil {
		t.Error("constructors must return nil for an offline store")
	}
}

func TestSessionStores(t *testing.T) {
	_, rs := newMiniRedis(t)
	impls := map[string]jobModel.MessageStore{
		"redis":    store.NewRedisSessionStore(rs),
		"inmemory": store.InitInMemorySessionStore(),
	}

	for name, s := range impls {
		t.Run(name, func(t *testing.T) {
			ctx := traceCtx("session-trace")
			if s.ValidateChatId(ctx, "chat-1") {
				t.Fatal("unknown session validated")
			}
			if err := s.AppendMessages(ctx, "chat-1", commonModels.ChatMessage{Content: "x"}); err == nil {
				t.Error("append to unknown session should fail")
			}
			if err := s.InitNewChat(ctx, "chat-1"); err != nil {
				t.Fatalf("InitNewChat: %v", err)
			}
			if !s.ValidateChatId(ctx, "chat-1") {
				t.Fatal("initialised session not valid")
			}
			for i := 0; i < 4; i++ {
				err := s.AppendMessages(ctx, "chat-1",
					commonModels.ChatMessage{Role: commonModels.RoleUser, Content: "q"},
					commonModels.ChatMessage{Role: commonModels.RoleAssistant, Content: "a"},
				)
				if err != nil {
					t.Fatalf("AppendMessages: %v", err)
				}
			}
			history, err := s.GetMessageHistory(ctx, "chat-1", 3)
			if err != nil {
				t.Fatalf("GetMessageHistory: %v", err)
			}
			if len(history) != 3 {
				t.Fatalf("history len got %d, want 3", len(history))
			}
			if history[2].Role != commonModels.RoleAssistant {
				t.Errorf("newest message should be last, got %+v", history[2])
			}
		})
	}
}
