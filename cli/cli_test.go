package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Dosada05/swiss-tournament/models"
)

func setupStore(t *testing.T) {
	t.Helper()
	t.Setenv("STORE_BACKEND", "sqlite")
	t.Setenv("DATABASE_URL", filepath.Join(t.TempDir(), "swiss.db"))
	t.Setenv("PAIRING_STRATEGY", "")
	run(t, "schema")
}

func run(t *testing.T, args ...string) string {
	t.Helper()
	out, err := execute(args...)
	require.NoError(t, err, "swissctl %s", strings.Join(args, " "))
	return out
}

func execute(args ...string) (string, error) {
	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), err
}

func TestPlayersCommands(t *testing.T) {
	setupStore(t)

	out := run(t, "players", "register", "Ann", "Lee")
	assert.Contains(t, out, "Ann Lee")
	run(t, "players", "register", "Bob")

	assert.Equal(t, "2\n", run(t, "players", "count"))

	var count struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal([]byte(run(t, "players", "count", "-o", "json")), &count))
	assert.Equal(t, 2, count.Count)

	run(t, "players", "clear")
	assert.Equal(t, "0\n", run(t, "players", "count"))
}

func TestMatchesAndPairings(t *testing.T) {
	setupStore(t)

	var ids []int
	for _, name := range []string{"Ann", "Bob", "Cid", "Dee"} {
		var p models.Player
		require.NoError(t, json.Unmarshal([]byte(run(t, "players", "register", name, "-o", "json")), &p))
		ids = append(ids, p.ID)
	}

	out := run(t, "matches", "report", strconv.Itoa(ids[2]), strconv.Itoa(ids[0]))
	assert.Contains(t, out, "Recorded match")

	var standings []models.StandingsEntry
	require.NoError(t, json.Unmarshal([]byte(run(t, "standings", "-o", "json")), &standings))
	require.Len(t, standings, 4)
	assert.Equal(t, ids[2], standings[0].ID)
	assert.Equal(t, 1, standings[0].Wins)

	text := run(t, "standings")
	assert.True(t, strings.HasPrefix(text, "RANK"))
	assert.Contains(t, text, "Cid")

	var pairings []models.Pairing
	require.NoError(t, json.Unmarshal([]byte(run(t, "pairings", "-o", "json")), &pairings))
	assert.Equal(t, []models.Pairing{
		{ID1: ids[2], Name1: "Cid", ID2: ids[0], Name2: "Ann"},
		{ID1: ids[1], Name1: "Bob", ID2: ids[3], Name2: "Dee"},
	}, pairings)

	var matches []models.Match
	require.NoError(t, json.Unmarshal([]byte(run(t, "matches", "list", "-o", "json")), &matches))
	assert.Len(t, matches, 1)

	run(t, "matches", "clear")
	require.NoError(t, json.Unmarshal([]byte(run(t, "standings", "-o", "json")), &standings))
	for _, e := range standings {
		assert.Zero(t, e.Wins)
	}
}

func TestCommandErrors(t *testing.T) {
	setupStore(t)

	_, err := execute("matches", "report", "one", "2")
	assert.Error(t, err)

	_, err = execute("matches", "report", "1", "2")
	assert.Error(t, err, "unknown players are rejected by the store")

	_, err = execute("players", "count", "-o", "yaml")
	assert.Error(t, err)

	_, err = execute("pairings", "--strategy", "dutch")
	assert.Error(t, err)
}

func TestHashPassword(t *testing.T) {
	out := run(t, "hash-password", "s3cret")
	hash := strings.TrimSpace(out)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("s3cret")))
}

// unsetEnv removes key for the rest of the test so a .env file can supply it.
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
}

func TestPairingStrategyFromDotEnv(t *testing.T) {
	dir := t.TempDir()
	dotenv := fmt.Sprintf("STORE_BACKEND=sqlite\nDATABASE_URL=%s\nPAIRING_STRATEGY=score_group\n",
		filepath.Join(dir, "swiss.db"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(dotenv), 0o600))
	for _, key := range []string{"STORE_BACKEND", "DATABASE_URL", "PAIRING_STRATEGY"} {
		unsetEnv(t, key)
	}
	t.Chdir(dir)

	run(t, "schema")
	var ids []int
	for _, name := range []string{"A", "B", "C", "D"} {
		var p models.Player
		require.NoError(t, json.Unmarshal([]byte(run(t, "players", "register", name, "-o", "json")), &p))
		ids = append(ids, p.ID)
	}
	run(t, "matches", "report", strconv.Itoa(ids[0]), strconv.Itoa(ids[1]))
	run(t, "matches", "report", strconv.Itoa(ids[2]), strconv.Itoa(ids[3]))
	run(t, "matches", "report", strconv.Itoa(ids[0]), strconv.Itoa(ids[3]))

	// A 2, C 1, B 0, D 0: only the zero-win group can be paired.
	var pairings []models.Pairing
	require.NoError(t, json.Unmarshal([]byte(run(t, "pairings", "-o", "json")), &pairings))
	assert.Equal(t, []models.Pairing{{ID1: ids[1], Name1: "B", ID2: ids[3], Name2: "D"}}, pairings)

	// An explicit flag still wins over the environment.
	require.NoError(t, json.Unmarshal([]byte(run(t, "pairings", "--strategy", "adjacent", "-o", "json")), &pairings))
	assert.Len(t, pairings, 2)
}

func TestSchemaOnRedis(t *testing.T) {
	mini := miniredis.RunT(t)
	t.Setenv("STORE_BACKEND", "redis")
	t.Setenv("REDIS_URL", "redis://"+mini.Addr())

	out := run(t, "schema")
	assert.Contains(t, out, "no schema")
	assert.NotContains(t, out, "schema ready")
}
