package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/beka-birhanu/vinom-qmaze/maze"
	"github.com/beka-birhanu/vinom-qmaze/qtable"
	"github.com/beka-birhanu/vinom-qmaze/service/i"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
	})
	return mr, client
}

func TestRedisTableStore(t *testing.T) {
	ctx := context.Background()
	states := []maze.State{{Row: 1, Col: 1}, {Row: 1, Col: 2}, {Row: 2, Col: 1}}

	t.Run("missing key is not found", func(t *testing.T) {
		_, client := newTestClient(t)
		store := NewRedisTableStore(client, "qmaze", "mazeEnv")

		_, found, err := store.Load(ctx)
		require.NoError(t, err)
		assert.False(t, found)
		assert.Equal(t, "qmaze:qtable:mazeEnv", store.Key())
	})

	t.Run("save and load round trip", func(t *testing.T) {
		mr, client := newTestClient(t)
		store := NewRedisTableStore(client, "qmaze", "mazeEnv")

		table := qtable.New(states)
		require.NoError(t, table.SetValueOf(states[1], maze.Right, 42.5))
		require.NoError(t, store.Save(ctx, table))

		raw, err := mr.Get(store.Key())
		require.NoError(t, err)
		want, err := qtable.Encode(table)
		require.NoError(t, err)
		assert.Equal(t, string(want), raw)

		loaded, found, err := store.Load(ctx)
		require.NoError(t, err)
		require.True(t, found)
		v, err := loaded.ValueOf(states[1], maze.Right)
		require.NoError(t, err)
		assert.Equal(t, 42.5, v)
		assert.Equal(t, 3, loaded.Len())

		assert.False(t, mr.Exists(store.LockKey()))
	})

	t.Run("corrupt value", func(t *testing.T) {
		mr, client := newTestClient(t)
		store := NewRedisTableStore(client, "qmaze", "mazeEnv")
		require.NoError(t, mr.Set(store.Key(), `{"1 1": "nope"}`))

		_, _, err := store.Load(ctx)
		assert.ErrorIs(t, err, qtable.ErrCorruptState)
	})

	t.Run("open creates the table once", func(t *testing.T) {
		_, client := newTestClient(t)
		store := NewRedisTableStore(client, "qmaze", "corridor")
		g, err := maze.FromRows([][]int{{1, 1, 1}, {5, 0, 4}})
		require.NoError(t, err)

		_, created, err := qtable.Open(ctx, store, g)
		require.NoError(t, err)
		assert.True(t, created)

		_, created, err = qtable.Open(ctx, store, g)
		require.NoError(t, err)
		assert.False(t, created)
	})
}

func TestRedisTableLease(t *testing.T) {
	ctx := context.Background()
	corridor, err := maze.FromRows([][]int{{5, 0, 0, 4}})
	require.NoError(t, err)
	first, second := maze.State{Row: 0, Col: 1}, maze.State{Row: 0, Col: 2}

	t.Run("a leased table keeps the learning of both runs", func(t *testing.T) {
		mr, client := newTestClient(t)
		a := NewRedisTableStore(client, "qmaze", "corridor")
		b := NewRedisTableStore(client, "qmaze", "corridor")

		releaseA, err := a.Lock(ctx)
		require.NoError(t, err)
		tableA, _, err := qtable.Open(ctx, a, corridor)
		require.NoError(t, err)

		_, err = b.Lock(ctx)
		assert.ErrorIs(t, err, ErrTableLocked)
		assert.ErrorIs(t, b.Save(ctx, qtable.New(corridor.TraversableStates())), ErrTableLocked)

		require.NoError(t, tableA.SetValueOf(first, maze.Right, 11))
		require.NoError(t, a.Save(ctx, tableA))
		releaseA()
		releaseA()
		assert.False(t, mr.Exists(a.LockKey()))

		releaseB, err := b.Lock(ctx)
		require.NoError(t, err)
		tableB, created, err := qtable.Open(ctx, b, corridor)
		require.NoError(t, err)
		assert.False(t, created)
		require.NoError(t, tableB.SetValueOf(second, maze.Left, 22))
		require.NoError(t, b.Save(ctx, tableB))
		releaseB()

		stored, found, err := a.Load(ctx)
		require.NoError(t, err)
		require.True(t, found)
		v, err := stored.ValueOf(first, maze.Right)
		require.NoError(t, err)
		assert.Equal(t, 11.0, v)
		v, err = stored.ValueOf(second, maze.Left)
		require.NoError(t, err)
		assert.Equal(t, 22.0, v)
	})

	t.Run("save fails once the lease is lost", func(t *testing.T) {
		mr, client := newTestClient(t)
		store := NewRedisTableStore(client, "qmaze", "corridor")

		release, err := store.Lock(ctx)
		require.NoError(t, err)
		defer release()
		require.True(t, mr.Exists(store.LockKey()))

		mr.Del(store.LockKey())
		err = store.Save(ctx, qtable.New(corridor.TraversableStates()))
		assert.ErrorIs(t, err, ErrTableLocked)
		assert.False(t, mr.Exists(store.Key()))
	})

	t.Run("lease is extended while held", func(t *testing.T) {
		mr, client := newTestClient(t)
		store := NewRedisTableStore(client, "qmaze", "corridor")
		store.expiry = 300 * time.Millisecond

		release, err := store.Lock(ctx)
		require.NoError(t, err)
		defer release()

		// Drop the TTL below one extension period; the keep alive restores it.
		mr.SetTTL(store.LockKey(), 10*time.Millisecond)
		assert.Eventually(t, func() bool {
			return mr.TTL(store.LockKey()) > 100*time.Millisecond
		}, time.Second, 10*time.Millisecond)
	})
}

func TestRedisRunBoard(t *testing.T) {
	ctx := context.Background()

	newRun := func(steps int) i.Run {
		return i.Run{
			ID:         uuid.New(),
			Maze:       "mazeEnv",
			Status:     "won",
			Steps:      steps,
			Reward:     10000 - float64(steps),
			FinishedAt: time.Date(2025, 2, 8, 12, 0, steps, 0, time.UTC),
		}
	}

	t.Run("best runs are ordered by steps", func(t *testing.T) {
		_, client := newTestClient(t)
		board := NewRedisRunBoard(client, "qmaze", 0)

		slow, fast, medium := newRun(900), newRun(40), newRun(300)
		for _, run := range []i.Run{slow, fast, medium} {
			require.NoError(t, board.Record(ctx, run))
		}
		count, err := board.Count(ctx, "mazeEnv")
		require.NoError(t, err)
		assert.Equal(t, int64(3), count)

		best, err := board.Best(ctx, "mazeEnv", 2)
		require.NoError(t, err)
		require.Len(t, best, 2)
		assert.Equal(t, fast.ID, best[0].ID)
		assert.Equal(t, medium.ID, best[1].ID)
		assert.Equal(t, 40, best[0].Steps)
		assert.True(t, fast.FinishedAt.Equal(best[0].FinishedAt))
	})

	t.Run("unknown maze is empty", func(t *testing.T) {
		_, client := newTestClient(t)
		board := NewRedisRunBoard(client, "qmaze", 0)

		best, err := board.Best(ctx, "nowhere", 5)
		require.NoError(t, err)
		assert.Empty(t, best)

		count, err := board.Count(ctx, "nowhere")
		require.NoError(t, err)
		assert.Zero(t, count)

		best, err = board.Best(ctx, "nowhere", 0)
		require.NoError(t, err)
		assert.Empty(t, best)
	})

	t.Run("expiration is set once", func(t *testing.T) {
		mr, client := newTestClient(t)
		board := NewRedisRunBoard(client, "qmaze", 60)

		require.NoError(t, board.Record(ctx, newRun(10)))
		assert.Equal(t, time.Minute, mr.TTL("qmaze:runs:mazeEnv"))

		mr.FastForward(30 * time.Second)
		require.NoError(t, board.Record(ctx, newRun(20)))
		assert.Equal(t, 30*time.Second, mr.TTL("qmaze:runs:mazeEnv"))
	})
}
