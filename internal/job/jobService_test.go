package job

import (
	"context"
	"testing"
	"time"

	"github.com/akolanti/ragops/internal/data/store"
	"github.com/akolanti/ragops/internal/domain/commonModels"
	"github.com/akolanti/ragops/internal/domain/jobModel"
)

func newTestService(buffer int) *Service {
	return InitJobService(ServiceConfig{
		JobChannel:        make(chan jobModel.Job, buffer),
		DispatcherChannel: make(chan bool, 1),
		JobStore:          store.InitInMemoryJobStore(),
		MessageStore:      store.InitInMemorySessionStore(),
	})
}

func TestSubmit_QueuesAndStores(t *testing.T) {
	tests := []struct {
		jobType    jobModel.JobType
		wantStep   jobModel.InternalStatus
		wantSignal bool
	}{
		{jobType: jobModel.JobTypeQuery, wantStep: jobModel.UserQueryInit},
		{jobType: jobModel.JobTypeIngest, wantStep: jobModel.IngestInit, wantSignal: true},
		{jobType: jobModel.JobTypeReprocess, wantStep: jobModel.IngestInit, wantSignal: true},
		{jobType: jobModel.JobTypeEval, wantStep: jobModel.EvalInit, wantSignal: true},
	}

	for _, tt := range tests {
		t.Run(string(tt.jobType), func(t *testing.T) {
			s := newTestService(1)
			queued, err := s.Submit(context.Background(), jobModel.Job{Id: "j1", JobType: tt.jobType})
			if err != nil {
				t.Fatalf("Submit: %v", err)
			}
			if queued.Status != jobModel.JobStatusQueued || queued.CurrentStep != tt.wantStep {
				t.Errorf("unexpected job %+v", queued)
			}

			got := <-s.JobChannel
			if got.Id != "j1" {
				t.Errorf("channel got %s", got.Id)
			}
			stored, ok := s.GetJob(context.Background(), "j1")
			if !ok || stored.Status != jobModel.JobStatusQueued {
				t.Errorf("stored job %+v found=%v", stored, ok)
			}

			select {
			case <-s.DispatcherChannel:
				if !tt.wantSignal {
					t.Error("unexpected dispatcher signal")
				}
			default:
				if tt.wantSignal {
					t.Error("expected dispatcher signal")
				}
			}
		})
	}
}

func TestSubmit_FullQueueRespectsContext(t *testing.T) {
	s := newTestService(0)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, err := s.Submit(ctx, jobModel.Job{Id: "blocked", JobType: jobModel.JobTypeQuery}); err != ErrQueueFull {
		t.Fatalf("err = %v, want ErrQueueFull", err)
	}
	if _, ok := s.GetJob(context.Background(), "blocked"); ok {
		t.Error("unqueued job should not remain in the store")
	}
}

func TestGetJob_EmptyId(t *testing.T) {
	if _, ok := newTestService(1).GetJob(context.Background(), ""); ok {
		t.Error("empty id should not be found")
	}
}

func TestStartChat(t *testing.T) {
	s := newTestService(1)
	ctx := context.Background()

	id, err := s.StartChat(ctx, "")
	if err != nil || id == "" {
		t.Fatalf("new session: id=%q err=%v", id, err)
	}
	if again, err := s.StartChat(ctx, id); err != nil || again != id {
		t.Errorf("existing session: id=%q err=%v", again, err)
	}
	if _, err := s.StartChat(ctx, "nope"); err != ErrUnknownSession {
		t.Errorf("unknown session err = %v", err)
	}
}

func TestRecordExchange_AppendsBothTurns(t *testing.T) {
	s := newTestService(1)
	ctx := context.Background()
	id, _ := s.StartChat(ctx, "")

	s.RecordExchange(ctx, jobModel.Job{
		ChatId: id,
		JobPayload: jobModel.JobPayload{
			Question: "How many PTO days?",
			Response: &commonModels.AgentResponse{Content: "15 days [1].", Citations: []commonModels.Citation{{ChunkId: "c1"}}},
		},
	})
	// no response, nothing recorded
	s.RecordExchange(ctx, jobModel.Job{ChatId: id, JobPayload: jobModel.JobPayload{Question: "lost"}})

	history := s.LoadHistory(ctx, id, 10)
	if len(history) != 2 {
		t.Fatalf("history len = %d, want 2", len(history))
	}
	if history[0].Role != commonModels.RoleUser || history[1].Role != commonModels.RoleAssistant {
		t.Errorf("unexpected roles %s, %s", history[0].Role, history[1].Role)
	}
	if len(history[1].Citations) != 1 {
		t.Errorf("assistant citations not kept")
	}
}
