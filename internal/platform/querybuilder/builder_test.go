package querybuilder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectBuilder(t *testing.T) {
	t.Run("where and order", func(t *testing.T) {
		sql, args, err := Select("id", "name").
			From("teams").
			Where(Eq("id", int64(7))).
			OrderBy("name ASC").
			ToSQL()
		require.NoError(t, err)
		assert.Equal(t, "SELECT id, name FROM teams WHERE id = $1 ORDER BY name ASC", sql)
		assert.Equal(t, []any{int64(7)}, args)
	})

	t.Run("gt condition", func(t *testing.T) {
		sql, args, err := Select("COUNT(*)").
			From("events").
			Where(Eq("match_id", int64(42)), Gt("x", 66.6)).
			ToSQL()
		require.NoError(t, err)
		assert.Equal(t, "SELECT COUNT(*) FROM events WHERE match_id = $1 AND x > $2", sql)
		assert.Equal(t, []any{int64(42), 66.6}, args)
	})

	t.Run("group by having limit", func(t *testing.T) {
		sql, args, err := Select("player_id", "SUM(xt) AS total_xt").
			From("events").
			GroupBy("player_id").
			Having(Expr("SUM(xt) > ?", 0.0)).
			OrderBy("total_xt DESC").
			Limit(100).
			ToSQL()
		require.NoError(t, err)
		assert.Equal(t, "SELECT player_id, SUM(xt) AS total_xt FROM events GROUP BY player_id HAVING SUM(xt) > $1 ORDER BY total_xt DESC LIMIT 100", sql)
		assert.Equal(t, []any{0.0}, args)
	})

	t.Run("in with empty values never matches", func(t *testing.T) {
		sql, args, err := Select("id").From("events").Where(In("type", nil)).ToSQL()
		require.NoError(t, err)
		assert.Equal(t, "SELECT id FROM events WHERE 1=0", sql)
		assert.Empty(t, args)
	})

	t.Run("missing table", func(t *testing.T) {
		_, _, err := Select("id").ToSQL()
		require.Error(t, err)
	})
}

func TestInsertBuilder(t *testing.T) {
	t.Run("multi row with conflict suffix", func(t *testing.T) {
		sql, args, err := InsertInto("teams").
			Columns("id", "name").
			Values(int64(1), "Arsenal").
			Values(int64(2), "Chelsea").
			Suffix("ON CONFLICT (id) DO NOTHING").
			ToSQL()
		require.NoError(t, err)
		assert.Equal(t, "INSERT INTO teams (id, name) VALUES ($1, $2), ($3, $4) ON CONFLICT (id) DO NOTHING", sql)
		assert.Equal(t, []any{int64(1), "Arsenal", int64(2), "Chelsea"}, args)
	})

	t.Run("row width mismatch", func(t *testing.T) {
		_, _, err := InsertInto("teams").Columns("id", "name").Values(int64(1)).ToSQL()
		require.Error(t, err)
	})
}

func TestUpdateBuilder(t *testing.T) {
	sql, args, err := Update("matches").
		Set("home_score", 2).
		Set("away_score", 0).
		Where(Eq("id", int64(42))).
		ToSQL()
	require.NoError(t, err)
	assert.Equal(t, "UPDATE matches SET home_score = $1, away_score = $2 WHERE id = $3", sql)
	assert.Equal(t, []any{2, 0, int64(42)}, args)
}

func TestInsertModel(t *testing.T) {
	type row struct {
		ID      int64  `db:"id"`
		Name    string `db:"name"`
		Skipped string `db:"-"`
	}

	sql, args, err := InsertModel("players", row{ID: 9, Name: "Saka"}, "ON CONFLICT (id) DO NOTHING")
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO players (id, name) VALUES ($1, $2) ON CONFLICT (id) DO NOTHING", sql)
	assert.Equal(t, []any{int64(9), "Saka"}, args)
}
