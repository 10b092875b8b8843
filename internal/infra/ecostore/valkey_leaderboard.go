package ecostore

import (
	"context"
	"strconv"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/aerosense/internal/domain/ecoaction"
)

const defaultTopN = 10

// ValkeyLeaderboard ranks users by total CO2 saved in a sorted set at
// "<prefix>:eco:leaderboard". Members are decimal user ids.
type ValkeyLeaderboard struct {
	client valkey.Client
	key    string
}

func NewValkeyLeaderboard(client valkey.Client, prefix string) *ValkeyLeaderboard {
	if prefix == "" {
		prefix = "aerosense"
	}
	return &ValkeyLeaderboard{client: client, key: prefix + ":eco:leaderboard"}
}

func (b *ValkeyLeaderboard) AddScore(ctx context.Context, userID int64, delta float64) error {
	if userID <= 0 {
		return nil
	}
	member := strconv.FormatInt(userID, 10)
	return b.client.Do(ctx, b.client.B().Zincrby().Key(b.key).Increment(delta).Member(member).Build()).Error()
}

// Top reads the highest totals. AsZScores accepts both the RESP2 flat reply
// and the RESP3 pair reply.
func (b *ValkeyLeaderboard) Top(ctx context.Context, limit int) ([]ecoaction.Score, error) {
	if limit <= 0 {
		limit = defaultTopN
	}
	cmd := b.client.B().Zrevrange().Key(b.key).Start(0).Stop(int64(limit - 1)).Withscores().Build()
	entries, err := b.client.Do(ctx, cmd).AsZScores()
	if valkey.IsValkeyNil(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	scores := make([]ecoaction.Score, 0, len(entries))
	for _, entry := range entries {
		id, err := strconv.ParseInt(entry.Member, 10, 64)
		if err != nil {
			continue
		}
		scores = append(scores, ecoaction.Score{UserID: id, Value: entry.Score})
	}
	return scores, nil
}

var _ ecoaction.Leaderboard = (*ValkeyLeaderboard)(nil)
