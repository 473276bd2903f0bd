package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/akolanti/ragops/internal/data/redisStore"
	"github.com/akolanti/ragops/internal/domain/commonModels"
	"github.com/akolanti/ragops/internal/domain/evalModel"
	"github.com/akolanti/ragops/pkg/logger_i"
	"github.com/redis/go-redis/v9"
)

const evalRunIndexKey = "eval_runs"

func evalRunKey(id string) string     { return "eval_run:" + id }
func evalResultsKey(id string) string { return "eval_run:" + id + ":results" }

type RedisEvalStore struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

func NewRedisEvalStore(rs *redisStore.Store) *RedisEvalStore {
	if rs == nil {
		return nil
	}
	return &RedisEvalStore{
		store:  rs,
		logger: logger_i.NewLogger("EvalStore"),
	}
}

func (s *RedisEvalStore) SaveRun(ctx context.Context, run evalModel.EvalRun) error {
	data, err := json.Marshal(run)
	if err != nil {
		return err
	}
	return s.store.Atomic(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, evalRunKey(run.Id), data, 0)
		pipe.ZAdd(ctx, evalRunIndexKey, redis.Z{Score: float64(run.CreatedAt.UnixNano()), Member: run.Id})
		return nil
	})
}

func (s *RedisEvalStore) GetRun(ctx context.Context, id string) (evalModel.EvalRun, error) {
	var run evalModel.EvalRun
	val, err := s.store.Get(ctx, evalRunKey(id))
	if s.store.IsNil(err) {
		return run, fmt.Errorf("eval run %s: %w", id, commonModels.ErrNotFound)
	} else if err != nil {
		return run, err
	}
	err = json.Unmarshal([]byte(val), &run)
	return run, err
}

func (s *RedisEvalStore) ListRuns(ctx context.Context, filter evalModel.ListFilter) ([]evalModel.EvalRun, int, error) {
	ids, err := s.store.IndexMembers(ctx, evalRunIndexKey)
	if err != nil {
		return nil, 0, err
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = evalRunKey(id)
	}
	values, err := s.store.MGet(ctx, keys...)
	if err != nil {
		return nil, 0, err
	}
	runs := make([]evalModel.EvalRun, 0, len(values))
	for _, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		var run evalModel.EvalRun
		if err := json.Unmarshal([]byte(raw), &run); err != nil {
			s.logger.Warn("Skipping undecodable eval run", "error", err)
			continue
		}
		if filter.Status != "" && run.Status != filter.Status {
			continue
		}
		runs = append(runs, run)
	}
	start, end := filter.Page.Bounds(len(runs))
	return runs[start:end], len(runs), nil
}

func (s *RedisEvalStore) DeleteRun(ctx context.Context, id string) error {
	exists, err := s.store.Exists(ctx, evalRunKey(id))
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("eval run %s: %w", id, commonModels.ErrNotFound)
	}
	return s.store.Atomic(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, evalRunKey(id), evalResultsKey(id))
		pipe.ZRem(ctx, evalRunIndexKey, id)
		return nil
	})
}

func (s *RedisEvalStore) UpdateRun(ctx context.Context, id string, mutate func(run *evalModel.EvalRun) error) (evalModel.EvalRun, error) {
	var updated evalModel.EvalRun
	err := s.store.Update(ctx, evalRunKey(id), func(current string) (string, error) {
		var run evalModel.EvalRun
		if err := json.Unmarshal([]byte(current), &run); err != nil {
			return "", err
		}
		updated = run
		if err := mutate(&run); err != nil {
			return "", err
		}
		data, err := json.Marshal(run)
		if err != nil {
			return "", err
		}
		updated = run
		return string(data), nil
	})
	if errors.Is(err, redis.Nil) {
		return updated, fmt.Errorf("eval run %s: %w", id, commonModels.ErrNotFound)
	}
	return updated, err
}

func (s *RedisEvalStore) AddResult(ctx context.Context, result evalModel.EvalResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}
	err = s.store.ListPushOwned(ctx, evalRunKey(result.EvalRunId), evalResultsKey(result.EvalRunId), data)
	if errors.Is(err, redisStore.ErrOwnerMissing) {
		return fmt.Errorf("eval run %s: %w", result.EvalRunId, commonModels.ErrNotFound)
	}
	return err
}

func (s *RedisEvalStore) GetResults(ctx context.Context, runId string) ([]evalModel.EvalResult, error) {
	raw, err := s.store.ListGetAll(ctx, evalResultsKey(runId))
	if err != nil && !s.store.IsNil(err) {
		return nil, err
	}
	results := make([]evalModel.EvalResult, 0, len(raw))
	for _, r := range raw {
		var res evalModel.EvalResult
		if err := json.Unmarshal([]byte(r), &res); err != nil {
			return nil, fmt.Errorf("decoding eval result: %w", err)
		}
		results = append(results, res)
	}
	return results, nil
}
