package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrMatchNotFound = errors.New("match not found")

const matchSeqKey = "match:seq"

// MatchRecord is the outcome of one finished game. Live games are never
// persisted; only their results are.
type MatchRecord struct {
	ID         int64     `json:"id"`
	RoomID     int       `json:"room_id"`
	Winner     string    `json:"winner"`
	Reason     string    `json:"reason"`
	Moves      int       `json:"moves"`
	FinishedAt time.Time `json:"finished_at"`
}

type MatchRepository interface {
	Record(ctx context.Context, match *MatchRecord) error
	GetByID(ctx context.Context, id int64) (*MatchRecord, error)
	Count(ctx context.Context) (int64, error)
}

type dbMatch struct {
	client *redis.Client
}

func NewMatchRepository(client *redis.Client) MatchRepository {
	return &dbMatch{
		client: client,
	}
}

// Record - assigns the next sequence number to the record and stores it.
func (that *dbMatch) Record(ctx context.Context, match *MatchRecord) error {
	id, err := that.client.Incr(ctx, matchSeqKey).Result()
	if err != nil {
		return fmt.Errorf("failed to increment match sequence: %w", err)
	}

	match.ID = id

	matchJSON, err := json.Marshal(match)
	if err != nil {
		return fmt.Errorf("could not marshal match: %w", err)
	}

	matchKey := fmt.Sprintf("match:%d", id)
	if err = that.client.Set(ctx, matchKey, matchJSON, 0).Err(); err != nil {
		return fmt.Errorf("failed to set match: %w", err)
	}

	return nil
}

func (that *dbMatch) GetByID(ctx context.Context, id int64) (*MatchRecord, error) {
	matchKey := fmt.Sprintf("match:%d", id)

	response, err := that.client.Get(ctx, matchKey).Result()

	if errors.Is(err, redis.Nil) {
		return &MatchRecord{}, ErrMatchNotFound
	}

	if err != nil {
		return &MatchRecord{}, fmt.Errorf("failed to get match by id: %w", err)
	}

	var existingMatch MatchRecord
	if err = json.Unmarshal([]byte(response), &existingMatch); err != nil {
		return &MatchRecord{}, fmt.Errorf("failed to unmarshal match: %w", err)
	}

	return &existingMatch, nil
}

// Count - returns how many matches have been recorded so far.
func (that *dbMatch) Count(ctx context.Context) (int64, error) {
	count, err := that.client.Get(ctx, matchSeqKey).Int64()

	if errors.Is(err, redis.Nil) {
		return 0, nil
	}

	if err != nil {
		return 0, fmt.Errorf("failed to get match count: %w", err)
	}

	return count, nil
}
