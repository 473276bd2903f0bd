package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/akolanti/ragops/internal/config"
	"github.com/akolanti/ragops/internal/data/redisStore"
	"github.com/akolanti/ragops/internal/domain/commonModels"
	"github.com/akolanti/ragops/internal/domain/traceModel"
	"github.com/akolanti/ragops/pkg/logger_i"
	"github.com/redis/go-redis/v9"
)

const traceIndexKey = "traces"

func traceKey(runId string) string       { return "trace:" + runId }
func traceEventsKey(runId string) string { return "trace:" + runId + ":events" }

// RedisTraceStore keeps a summary and an event list per run. Both expire after
// RedisTraceStoreTTL; index entries that outlive them are pruned on list.
type RedisTraceStore struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

func NewRedisTraceStore(rs *redisStore.Store) *RedisTraceStore {
	if rs == nil {
		return nil
	}
	return &RedisTraceStore{
		store:  rs,
		logger: logger_i.NewLogger("TraceStore"),
	}
}

func (s *RedisTraceStore) SaveTrace(ctx context.Context, trace traceModel.Trace) error {
	rollup := traceModel.Summarize(trace)
	summary, err := json.Marshal(rollup)
	if err != nil {
		return err
	}
	events := make([]interface{}, len(trace.Events))
	for i, e := range trace.Events {
		data, err := json.Marshal(e)
		if err != nil {
			return err
		}
		events[i] = data
	}
	score := float64(rollup.LastEventAt.UnixNano())

	return s.store.Atomic(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, traceEventsKey(trace.RunId))
		pipe.Set(ctx, traceKey(trace.RunId), summary, config.RedisTraceStoreTTL)
		if len(events) > 0 {
			pipe.RPush(ctx, traceEventsKey(trace.RunId), events...)
			pipe.Expire(ctx, traceEventsKey(trace.RunId), config.RedisTraceStoreTTL)
		}
		pipe.ZAdd(ctx, traceIndexKey, redis.Z{Score: score, Member: trace.RunId})
		return nil
	})
}

func (s *RedisTraceStore) GetTrace(ctx context.Context, runId string) (traceModel.Trace, error) {
	var summary traceModel.Summary
	val, err := s.store.Get(ctx, traceKey(runId))
	if s.store.IsNil(err) {
		return traceModel.Trace{}, fmt.Errorf("trace %s: %w", runId, commonModels.ErrNotFound)
	} else if err != nil {
		return traceModel.Trace{}, err
	}
	if err := json.Unmarshal([]byte(val), &summary); err != nil {
		return traceModel.Trace{}, fmt.Errorf("decoding trace summary: %w", err)
	}

	raw, err := s.store.ListGetAll(ctx, traceEventsKey(runId))
	if err != nil && !s.store.IsNil(err) {
		return traceModel.Trace{}, err
	}
	trace := traceModel.Trace{RunId: runId, SessionId: summary.SessionId, Events: make([]traceModel.Event, 0, len(raw))}
	for _, r := range raw {
		var e traceModel.Event
		if err := json.Unmarshal([]byte(r), &e); err != nil {
			return traceModel.Trace{}, fmt.Errorf("decoding trace event: %w", err)
		}
		trace.Events = append(trace.Events, e)
	}
	return trace, nil
}

func (s *RedisTraceStore) ListTraces(ctx context.Context, filter traceModel.ListFilter) ([]traceModel.Summary, int, error) {
	ids, err := s.store.IndexMembers(ctx, traceIndexKey)
	if err != nil {
		return nil, 0, err
	}
	if len(ids) == 0 {
		return []traceModel.Summary{}, 0, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = traceKey(id)
	}
	values, err := s.store.MGet(ctx, keys...)
	if err != nil {
		return nil, 0, err
	}

	var expired []interface{}
	summaries := make([]traceModel.Summary, 0, len(values))
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			expired = append(expired, ids[i])
			continue
		}
		var summary traceModel.Summary
		if err := json.Unmarshal([]byte(raw), &summary); err != nil {
			s.logger.Warn("Skipping undecodable trace summary", "runId", ids[i], "error", err)
			continue
		}
		if summary.Matches(filter) {
			summaries = append(summaries, summary)
		}
	}
	s.prune(ctx, expired)

	start, end := filter.Page.Bounds(len(summaries))
	return summaries[start:end], len(summaries), nil
}

func (s *RedisTraceStore) prune(ctx context.Context, runIds []interface{}) {
	if len(runIds) == 0 {
		return
	}
	err := s.store.Atomic(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZRem(ctx, traceIndexKey, runIds...)
		return nil
	})
	if err != nil {
		s.logger.Warn("Could not prune expired traces from the index", "count", len(runIds), "error", err)
	}
}

func (s *RedisTraceStore) DeleteTrace(ctx context.Context, runId string) error {
	exists, err := s.store.Exists(ctx, traceKey(runId))
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("trace %s: %w", runId, commonModels.ErrNotFound)
	}
	return s.store.Atomic(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, traceKey(runId), traceEventsKey(runId))
		pipe.ZRem(ctx, traceIndexKey, runId)
		return nil
	})
}
