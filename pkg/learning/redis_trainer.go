package learning

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// RedisConfig holds settings for accumulating frequency tables in Redis
type RedisConfig struct {
	RedisURL    string `json:"redis_url" yaml:"redis_url"`
	KeyPrefix   string `json:"key_prefix" yaml:"key_prefix"`
	DatabaseNum int    `json:"database_num" yaml:"database_num"`

	// Records buffered in one pipeline before it is sent
	BatchSize int `json:"batch_size" yaml:"batch_size"`

	// Expiry applied to run keys in case Close is never reached
	KeyTTL time.Duration `json:"key_ttl" yaml:"key_ttl"`
}

// DefaultRedisConfig returns default Redis configuration
func DefaultRedisConfig() *RedisConfig {
	return &RedisConfig{
		RedisURL:    "redis://localhost:6379",
		KeyPrefix:   "sentiment:train",
		DatabaseNum: 0,
		BatchSize:   500,
		KeyTTL:      time.Hour,
	}
}

// RedisTrainer accumulates frequency tables as Redis hashes. All keys belong
// to a single run id and are removed by Close, so nothing is kept between runs.
type RedisTrainer struct {
	client *redis.Client
	config *RedisConfig
	opts   trainerOptions
	runID  string

	pipe    redis.Pipeliner
	pending int

	positiveRecords int
	negativeRecords int
	skipped         int
	positiveWords   int
	negativeWords   int
	lastTrained     time.Time
}

// NewRedisTrainer connects to Redis and starts a new training run
func NewRedisTrainer(ctx context.Context, config *RedisConfig, opts ...TrainerOption) (*RedisTrainer, error) {
	if config == nil {
		config = DefaultRedisConfig()
	}

	opt, err := redis.ParseURL(config.RedisURL)
	if err != nil {
		return nil, errors.Wrap(err, "invalid Redis URL")
	}

	opt.DB = config.DatabaseNum
	client := redis.NewClient(opt)

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, errors.Wrap(err, "Redis connection failed")
	}

	rt := &RedisTrainer{
		client: client,
		config: config,
		opts:   buildOptions(opts),
		runID:  uuid.NewString(),
	}
	rt.pipe = client.Pipeline()

	return rt, nil
}

// RunID returns the identifier scoping this run's keys
func (rt *RedisTrainer) RunID() string {
	return rt.runID
}

// Learn queues the token increments for one record. Unrecognized labels are
// skipped.
func (rt *RedisTrainer) Learn(ctx context.Context, rec Record) (bool, error) {
	if !rec.Label.Valid() {
		rt.skipped++
		return false, nil
	}

	tokens := rt.opts.tokenize(rec.Text)
	tableKey := rt.tableKey(rec.Label)

	for _, token := range tokens {
		rt.pipe.HIncrBy(ctx, tableKey, token, 1)
	}
	if len(tokens) > 0 {
		rt.pipe.HIncrBy(ctx, rt.totalsKey(), totalsField(rec.Label), int64(len(tokens)))
	}

	if rec.Label == Positive {
		rt.positiveRecords++
		rt.positiveWords += len(tokens)
	} else {
		rt.negativeRecords++
		rt.negativeWords += len(tokens)
	}
	rt.lastTrained = rt.opts.now()

	rt.pending++
	if rt.pending >= rt.batchSize() {
		if err := rt.flush(ctx); err != nil {
			return true, err
		}
	}

	return true, nil
}

// Model flushes pending increments and reads both tables back into an
// immutable Model.
func (rt *RedisTrainer) Model(ctx context.Context) (*Model, error) {
	if err := rt.flush(ctx); err != nil {
		return nil, err
	}

	positive, err := rt.loadTable(ctx, Positive)
	if err != nil {
		return nil, err
	}
	negative, err := rt.loadTable(ctx, Negative)
	if err != nil {
		return nil, err
	}

	totals, err := rt.client.HGetAll(ctx, rt.totalsKey()).Result()
	if err != nil {
		return nil, errors.Wrap(err, "reading word totals")
	}
	for label, table := range map[Label]*FrequencyTable{Positive: positive, Negative: negative} {
		if err := checkStoredTotal(totals, label, table); err != nil {
			return nil, err
		}
	}

	return newModel(rt.opts.tokenize, positive, negative, rt.Stats(), rt.lastTrained), nil
}

// Stats returns the current training counters
func (rt *RedisTrainer) Stats() TrainingStats {
	return TrainingStats{
		PositiveRecords: rt.positiveRecords,
		NegativeRecords: rt.negativeRecords,
		SkippedRecords:  rt.skipped,
		PositiveWords:   rt.positiveWords,
		NegativeWords:   rt.negativeWords,
	}
}

// Close removes the run's keys and closes the connection
func (rt *RedisTrainer) Close(ctx context.Context) error {
	rt.pipe.Discard()

	delErr := rt.client.Del(ctx, rt.tableKey(Positive), rt.tableKey(Negative), rt.totalsKey()).Err()
	closeErr := rt.client.Close()

	if delErr != nil {
		return errors.Wrap(delErr, "deleting run keys")
	}
	return closeErr
}

func (rt *RedisTrainer) flush(ctx context.Context) error {
	if rt.pending == 0 {
		return nil
	}

	if rt.config.KeyTTL > 0 {
		for _, key := range []string{rt.tableKey(Positive), rt.tableKey(Negative), rt.totalsKey()} {
			rt.pipe.Expire(ctx, key, rt.config.KeyTTL)
		}
	}

	_, err := rt.pipe.Exec(ctx)
	rt.pending = 0
	if err != nil {
		return errors.Wrap(err, "training pipeline failed")
	}

	return nil
}

func (rt *RedisTrainer) loadTable(ctx context.Context, label Label) (*FrequencyTable, error) {
	fields, err := rt.client.HGetAll(ctx, rt.tableKey(label)).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s table", label)
	}

	table := NewFrequencyTable()
	for token, value := range fields {
		count, err := strconv.Atoi(value)
		if err != nil {
			return nil, errors.Wrapf(err, "bad count for %q in %s table", token, label)
		}
		table.addN(token, count)
	}

	return table, nil
}

// checkStoredTotal compares a table against the running total kept in the
// totals hash. A missing field means no tokens were learned for label.
func checkStoredTotal(totals map[string]string, label Label, table *FrequencyTable) error {
	stored := 0
	if value, ok := totals[totalsField(label)]; ok {
		n, err := strconv.Atoi(value)
		if err != nil {
			return errors.Wrapf(err, "bad stored total for %s", label)
		}
		stored = n
	}

	if stored != table.Total() {
		return fmt.Errorf("%s table total %d does not match stored total %d", label, table.Total(), stored)
	}
	return nil
}

func (rt *RedisTrainer) batchSize() int {
	if rt.config.BatchSize <= 0 {
		return 1
	}
	return rt.config.BatchSize
}

// Helper methods
func (rt *RedisTrainer) tableKey(label Label) string {
	return fmt.Sprintf("%s:%s:%s", rt.config.KeyPrefix, rt.runID, label)
}

func (rt *RedisTrainer) totalsKey() string {
	return fmt.Sprintf("%s:%s:totals", rt.config.KeyPrefix, rt.runID)
}

func totalsField(label Label) string {
	return label.String() + "_words"
}
