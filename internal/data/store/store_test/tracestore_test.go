package store_test

import (
	"errors"
	"testing"
	"time"

	"github.com/akolanti/ragops/internal/data/store"
	"github.com/akolanti/ragops/internal/domain/commonModels"
	"github.com/akolanti/ragops/internal/domain/traceModel"
)

func traceStores(t *testing.T) map[string]traceModel.TraceStore {
	_, rs := newMiniRedis(t)
	return map[string]traceModel.TraceStore{
		"redis":    store.NewRedisTraceStore(rs),
		"inmemory": store.InitInMemoryTraceStore(),
	}
}

var traceBase = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func sampleTrace(runId, sessionId string, at time.Duration, failed bool) traceModel.Trace {
	events := []traceModel.Event{
		{Type: traceModel.EventRetrieval, Name: "vector_search", DurationMs: 40, Status: traceModel.StatusSuccess, Timestamp: traceBase.Add(at)},
		{Type: traceModel.EventModelCall, Name: "gpt-4o-mini", DurationMs: 900, TokensIn: 1000, TokensOut: 200, CostUSD: 0.5, Status: traceModel.StatusSuccess, Timestamp: traceBase.Add(at + time.Second)},
	}
	if failed {
		events = append(events, traceModel.Event{Type: traceModel.EventError, Name: "llm", Status: traceModel.StatusError, ErrorMessage: "timeout", Timestamp: traceBase.Add(at + 2*time.Second)})
	}
	return traceModel.Trace{RunId: runId, SessionId: sessionId, Events: events}
}

func TestTraceStore_SaveGetDelete(t *testing.T) {
	for name, s := range traceStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := traceCtx("traces")
			if err := s.SaveTrace(ctx, sampleTrace("run-1", "chat-1", 0, true)); err != nil {
				t.Fatalf("SaveTrace: %v", err)
			}

			got, err := s.GetTrace(ctx, "run-1")
			if err != nil {
				t.Fatalf("GetTrace: %v", err)
			}
			if got.SessionId != "chat-1" || len(got.Events) != 3 {
				t.Fatalf("unexpected trace %+v", got)
			}
			if got.Events[0].Type != traceModel.EventRetrieval || got.Events[2].ErrorMessage != "timeout" {
				t.Errorf("events out of order: %+v", got.Events)
			}

			// a second flush under the same run replaces the first
			if err := s.SaveTrace(ctx, sampleTrace("run-1", "chat-1", time.Minute, false)); err != nil {
				t.Fatalf("SaveTrace again: %v", err)
			}
			got, _ = s.GetTrace(ctx, "run-1")
			if len(got.Events) != 2 {
				t.Errorf("events after replace = %d, want 2", len(got.Events))
			}

			if _, err := s.GetTrace(ctx, "ghost"); !errors.Is(err, commonModels.ErrNotFound) {
				t.Errorf("expected ErrNotFound, got %v", err)
			}
			if err := s.DeleteTrace(ctx, "run-1"); err != nil {
				t.Fatalf("DeleteTrace: %v", err)
			}
			if _, err := s.GetTrace(ctx, "run-1"); !errors.Is(err, commonModels.ErrNotFound) {
				t.Errorf("deleted trace still readable: %v", err)
			}
			if err := s.DeleteTrace(ctx, "run-1"); !errors.Is(err, commonModels.ErrNotFound) {
				t.Errorf("second delete should be ErrNotFound, got %v", err)
			}
			if _, total, _ := s.ListTraces(ctx, traceModel.ListFilter{}); total != 0 {
				t.Errorf("deleted trace still listed, total = %d", total)
			}
		})
	}
}

func TestTraceStore_ListFiltersAndRollUp(t *testing.T) {
	for name, s := range traceStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := traceCtx("traces-list")
			for _, tr := range []traceModel.Trace{
				sampleTrace("run-old", "chat-1", 0, false),
				sampleTrace("run-mid", "chat-2", time.Minute, true),
				sampleTrace("run-new", "chat-1", 2*time.Minute, false),
			} {
				if err := s.SaveTrace(ctx, tr); err != nil {
					t.Fatalf("SaveTrace %s: %v", tr.RunId, err)
				}
			}

			tests := []struct {
				name   string
				filter traceModel.ListFilter
				want   []string
				total  int
			}{
				{name: "all newest first", want: []string{"run-new", "run-mid", "run-old"}, total: 3},
				{name: "by session", filter: traceModel.ListFilter{SessionId: "chat-1"}, want: []string{"run-new", "run-old"}, total: 2},
				{name: "by event type", filter: traceModel.ListFilter{EventType: traceModel.EventError}, want: []string{"run-mid"}, total: 1},
				{name: "no match", filter: traceModel.ListFilter{SessionId: "chat-9"}, want: []string{}, total: 0},
				{name: "second page", filter: traceModel.ListFilter{Page: commonModels.Page{Number: 2, Size: 2}}, want: []string{"run-old"}, total: 3},
			}
			for _, tt := range tests {
				t.Run(tt.name, func(t *testing.T) {
					got, total, err := s.ListTraces(ctx, tt.filter)
					if err != nil {
						t.Fatalf("ListTraces: %v", err)
					}
					if total != tt.total || len(got) != len(tt.want) {
						t.Fatalf("got %d of %d, want %d of %d", len(got), total, len(tt.want), tt.total)
					}
					for i, id := range tt.want {
						if got[i].RunId != id {
							t.Errorf("position %d = %s, want %s", i, got[i].RunId, id)
						}
					}
				})
			}

			got, _, _ := s.ListTraces(ctx, traceModel.ListFilter{EventType: traceModel.EventError})
			mid := got[0]
			if mid.Status != traceModel.StatusError || !mid.HasErrors {
				t.Errorf("error not rolled up: %+v", mid)
			}
			if mid.EventCount != 3 || mid.TotalTokens != 1200 || mid.TotalDurationMs != 940 || mid.TotalCostUSD != 0.5 {
				t.Errorf("totals = %+v", mid)
			}
			if !mid.FirstEventAt.Equal(traceBase.Add(time.Minute)) || !mid.LastEventAt.Equal(traceBase.Add(time.Minute+2*time.Second)) {
				t.Errorf("event window = %v..%v", mid.FirstEventAt, mid.LastEventAt)
			}
		})
	}
}

func TestRedisTraceStore_ExpiredTracesLeaveTheIndex(t *testing.T) {
	mr, rs := newMiniRedis(t)
	s := store.NewRedisTraceStore(rs)
	ctx := traceCtx("traces-ttl")

	if err := s.SaveTrace(ctx, sampleTrace("run-1", "chat-1", 0, false)); err != nil {
		t.Fatalf("SaveTrace: %v", err)
	}
	mr.FastForward(8 * 24 * time.Hour)

	got, total, err := s.ListTraces(ctx, traceModel.ListFilter{})
	if err != nil || total != 0 || len(got) != 0 {
		t.Fatalf("expired trace listed: %v %d %v", got, total, err)
	}
	if members, _ := mr.ZMembers("traces"); len(members) != 0 {
		t.Errorf("index still holds %v", members)
	}
	if _, err := s.GetTrace(ctx, "run-1"); !errors.Is(err, commonModels.ErrNotFound) {
		t.Errorf("expected ErrNotFound after expiry, got %v", err)
	}
}
