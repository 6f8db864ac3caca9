// Package scorestate persists per-ticket score state in Redis so the ranked
// backlog survives restarts and can be queried without rescoring.
package scorestate

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/markotrapani/impact-score-calculator/pkg/models"
)

// RedisConfig configures Redis access for score-state persistence.
type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// Entry is the compact per-ticket score record held in Redis.
type Entry struct {
	IssueKey      string    `json:"issue_key"`
	Summary       string    `json:"summary,omitempty"`
	PriorityLevel string    `json:"priority_level"`
	FinalScore    float64   `json:"final_score"`
	BaseScore     int       `json:"base_score"`
	FirstScoredAt time.Time `json:"first_scored_at,omitempty"`
	UpdatedAt     time.Time `json:"updated_at,omitempty"`
}

// RedisStore manages writer/reader operations over score-state keys.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore constructs a Redis-backed score-state store.
func NewRedisStore(cfg RedisConfig) (*RedisStore, error) {
	if strings.TrimSpace(cfg.Addr) == "" {
		cfg.Addr = "127.0.0.1:6379"
	}
	if strings.TrimSpace(cfg.KeyPrefix) == "" {
		cfg.KeyPrefix = "impactscore:ticket_state"
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis score-state: %w", err)
	}

	return &RedisStore{client: client, prefix: strings.TrimSpace(cfg.KeyPrefix)}, nil
}

// WriteResults updates score state for a batch of results. The ranked set
// always carries the latest score; first-scored timestamps only move down.
func (s *RedisStore) WriteResults(results []*models.Result) error {
	if len(results) == 0 {
		return nil
	}
	ctx := context.Background()
	pipe := s.client.Pipeline()

	nowUnix := time.Now().Unix()
	for _, result := range results {
		if result == nil {
			continue
		}
		key := strings.TrimSpace(result.IssueKey)
		if key == "" {
			continue
		}

		stateKey := s.ticketKey(key)
		pipe.HSet(ctx, stateKey,
			"issue_key", key,
			"summary", result.Summary,
			"priority_level", result.PriorityLevel,
			"final_score", strconv.FormatFloat(result.FinalScore, 'f', 1, 64),
			"base_score", strconv.Itoa(result.BaseScore),
			"updated_at", strconv.FormatInt(nowUnix, 10),
		)

		pipe.ZAdd(ctx, s.rankedSetKey(), redis.Z{Score: result.FinalScore, Member: key})
		pipe.ZAddArgs(ctx, s.firstScoredSetKey(), redis.ZAddArgs{
			LT:      true,
			Members: []redis.Z{{Score: float64(nowUnix), Member: key}},
		})
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("update score-state redis keys: %w", err)
	}
	return nil
}

// FetchTop returns the n highest-scored tickets, best first.
func (s *RedisStore) FetchTop(ctx context.Context, n int64) ([]Entry, error) {
	if n <= 0 {
		n = 20
	}
	members, err := s.client.ZRevRangeWithScores(ctx, s.rankedSetKey(), 0, n-1).Result()
	if err != nil {
		return nil, fmt.Errorf("read ranked score members: %w", err)
	}
	if len(members) == 0 {
		return nil, nil
	}

	entries := make([]Entry, 0, len(members))
	for _, z := range members {
		key, ok := z.Member.(string)
		if !ok || key == "" {
			continue
		}

		hash, err := s.client.HGetAll(ctx, s.ticketKey(key)).Result()
		if err != nil {
			return nil, fmt.Errorf("read score state for %s: %w", key, err)
		}

		entry := Entry{IssueKey: key, FinalScore: z.Score}
		entry.Summary = hash["summary"]
		entry.PriorityLevel = hash["priority_level"]
		if v, err := strconv.Atoi(hash["base_score"]); err == nil {
			entry.BaseScore = v
		}
		if v, err := strconv.ParseInt(hash["updated_at"], 10, 64); err == nil {
			entry.UpdatedAt = time.Unix(v, 0).UTC()
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// FirstScoredAt returns when a ticket was first scored, or zero time when
// the ticket is unknown.
func (s *RedisStore) FirstScoredAt(ctx context.Context, issueKey string) (time.Time, error) {
	score, err := s.client.ZScore(ctx, s.firstScoredSetKey(), issueKey).Result()
	if err == redis.Nil {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("read first-scored timestamp: %w", err)
	}
	return time.Unix(int64(score), 0).UTC(), nil
}

// Close releases the Redis client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) ticketKey(issueKey string) string {
	return s.prefix + ":ticket:" + issueKey
}

func (s *RedisStore) rankedSetKey() string {
	return s.prefix + ":ranked"
}

func (s *RedisStore) firstScoredSetKey() string {
	return s.prefix + ":first_scored"
}
