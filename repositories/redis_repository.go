package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/Dosada05/swiss-tournament/brackets"
	"github.com/Dosada05/swiss-tournament/models"
)

const DefaultRedisKeyPrefix = "swiss"

// maxTxRetries bounds optimistic-lock retries when a watched key changes.
const maxTxRetries = 5

var errPlayerNotRegistered = errors.New("player not registered")

// redisTournamentRepository keeps one hash per player (name, wins, played),
// a sorted set of player ids scored by id, and a list of JSON match records.
type redisTournamentRepository struct {
	client *redis.Client
	prefix string
}

func NewRedisTournamentRepository(client *redis.Client, prefix string) TournamentRepository {
	if prefix == "" {
		prefix = DefaultRedisKeyPrefix
	}
	return &redisTournamentRepository{client: client, prefix: prefix}
}

func (r *redisTournamentRepository) playerKey(id int) string {
	return fmt.Sprintf("%s:player:%d", r.prefix, id)
}

func (r *redisTournamentRepository) playersKey() string { return r.prefix + ":players" }

func (r *redisTournamentRepository) playerSeqKey() string { return r.prefix + ":seq:player" }

func (r *redisTournamentRepository) matchesKey() string { return r.prefix + ":matches" }

func (r *redisTournamentRepository) matchSeqKey() string { return r.prefix + ":seq:match" }

// watch runs fn under WATCH on keys, retrying when another client touched them.
func (r *redisTournamentRepository) watch(ctx context.Context, fn func(tx *redis.Tx) error, keys ...string) error {
	var err error
	for i := 0; i < maxTxRetries; i++ {
		err = r.client.Watch(ctx, fn, keys...)
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
	}
	return err
}

// zRanger is the one command playerIDs needs; both *redis.Client and *redis.Tx have it.
type zRanger interface {
	ZRange(ctx context.Context, key string, start, stop int64) *redis.StringSliceCmd
}

func (r *redisTournamentRepository) playerIDs(ctx context.Context, c zRanger) ([]int, error) {
	members, err := c.ZRange(ctx, r.playersKey(), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	ids := make([]int, 0, len(members))
	for _, m := range members {
		id, err := strconv.Atoi(m)
		if err != nil {
			return nil, fmt.Errorf("corrupt player id %q: %w", m, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (r *redisTournamentRepository) ClearMatches(ctx context.Context) error {
	err := r.watch(ctx, func(tx *redis.Tx) error {
		ids, err := r.playerIDs(ctx, tx)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, r.matchesKey())
			for _, id := range ids {
				pipe.HSet(ctx, r.playerKey(id), "wins", 0, "played", 0)
			}
			return nil
		})
		return err
	}, r.playersKey())
	return classify("clear matches", err)
}

func (r *redisTournamentRepository) ClearPlayers(ctx context.Context) error {
	err := r.watch(ctx, func(tx *redis.Tx) error {
		ids, err := r.playerIDs(ctx, tx)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			for _, id := range ids {
				pipe.Del(ctx, r.playerKey(id))
			}
			pipe.Del(ctx, r.playersKey(), r.matchesKey())
			return nil
		})
		return err
	}, r.playersKey())
	return classify("clear players", err)
}

func (r *redisTournamentRepository) CountPlayers(ctx context.Context) (int, error) {
	n, err := r.client.ZCard(ctx, r.playersKey()).Result()
	if err != nil {
		return 0, classify("count players", err)
	}
	return int(n), nil
}

func (r *redisTournamentRepository) RegisterPlayer(ctx context.Context, name string) (*models.Player, error) {
	seq, err := r.client.Incr(ctx, r.playerSeqKey()).Result()
	if err != nil {
		return nil, classify("register player", err)
	}
	id := int(seq)

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, r.playerKey(id), "name", name, "wins", 0, "played", 0)
		pipe.ZAdd(ctx, r.playersKey(), redis.Z{Score: float64(id), Member: strconv.Itoa(id)})
		return nil
	})
	if err != nil {
		return nil, classify("register player", err)
	}
	return &models.Player{ID: id, Name: name}, nil
}

func (r *redisTournamentRepository) Standings(ctx context.Context) ([]models.StandingsEntry, error) {
	ids, err := r.playerIDs(ctx, r.client)
	if err != nil {
		return nil, classify("standings", err)
	}

	cmds := make([]*redis.MapStringStringCmd, len(ids))
	_, err = r.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, id := range ids {
			cmds[i] = pipe.HGetAll(ctx, r.playerKey(id))
		}
		return nil
	})
	if err != nil {
		return nil, classify("standings", err)
	}

	standings := make([]models.StandingsEntry, 0, len(ids))
	for i, cmd := range cmds {
		fields := cmd.Val()
		if len(fields) == 0 {
			// removed between ZRANGE and HGETALL
			continue
		}
		wins, err := strconv.Atoi(fields["wins"])
		if err != nil {
			return nil, classify("standings", fmt.Errorf("corrupt wins for player %d: %w", ids[i], err))
		}
		played, err := strconv.Atoi(fields["played"])
		if err != nil {
			return nil, classify("standings", fmt.Errorf("corrupt played for player %d: %w", ids[i], err))
		}
		standings = append(standings, models.StandingsEntry{
			ID:            ids[i],
			Name:          fields["name"],
			Wins:          wins,
			MatchesPlayed: played,
		})
	}

	brackets.RankStandings(standings)
	return standings, nil
}

// RecordMatch checks both players exist and then appends the match and
// updates the counters in one MULTI/EXEC, all under WATCH on the player keys.
func (r *redisTournamentRepository) RecordMatch(ctx context.Context, winnerID, loserID int) (*models.Match, error) {
	winnerKey, loserKey := r.playerKey(winnerID), r.playerKey(loserID)
	var match *models.Match

	err := r.watch(ctx, func(tx *redis.Tx) error {
		// EXISTS counts a repeated key twice, so 2 holds even when winner == loser.
		n, err := tx.Exists(ctx, winnerKey, loserKey).Result()
		if err != nil {
			return err
		}
		if n != 2 {
			return fmt.Errorf("%w: winner %d, loser %d", errPlayerNotRegistered, winnerID, loserID)
		}

		seq, err := tx.Incr(ctx, r.matchSeqKey()).Result()
		if err != nil {
			return err
		}
		m := &models.Match{ID: int(seq), WinnerID: winnerID, LoserID: loserID}
		data, err := json.Marshal(m)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.RPush(ctx, r.matchesKey(), data)
			pipe.HIncrBy(ctx, winnerKey, "wins", 1)
			pipe.HIncrBy(ctx, winnerKey, "played", 1)
			if loserID != winnerID {
				pipe.HIncrBy(ctx, loserKey, "played", 1)
			}
			return nil
		})
		if err == nil {
			match = m
		}
		return err
	}, winnerKey, loserKey)
	if err != nil {
		return nil, classify("record match", err)
	}
	return match, nil
}

func (r *redisTournamentRepository) ListMatches(ctx context.Context) ([]models.Match, error) {
	records, err := r.client.LRange(ctx, r.matchesKey(), 0, -1).Result()
	if err != nil {
		return nil, classify("list matches", err)
	}
	matches := make([]models.Match, 0, len(records))
	for _, rec := range records {
		var m models.Match
		if err := json.Unmarshal([]byte(rec), &m); err != nil {
			return nil, classify("list matches", fmt.Errorf("corrupt match record: %w", err))
		}
		matches = append(matches, m)
	}
	return matches, nil
}
