package solver

import (
	"testing"

	"github.com/beka-birhanu/vinom-qmaze/maze"
	"github.com/beka-birhanu/vinom-qmaze/qtable"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAgent(t *testing.T, rows [][]int) (*Agent, *maze.Grid, *qtable.Table) {
	t.Helper()
	g, err := maze.FromRows(rows)
	require.NoError(t, err)
	table := qtable.New(g.TraversableStates())
	agent, err := NewAgent(g, table, DefaultRewards)
	require.NoError(t, err)
	return agent, g, table
}

func TestAgentScanActions(t *testing.T) {
	t.Run("one bump per walled direction", func(t *testing.T) {
		agent, _, _ := newTestAgent(t, [][]int{
			{1, 1, 1, 1},
			{1, 5, 0, 4},
			{1, 1, 1, 1},
		})
		available, err := agent.ScanActions()
		require.NoError(t, err)
		assert.Equal(t, []maze.Action{maze.Right}, available)
		assert.InDelta(t, 3*DefaultRewards.WallBump, agent.Reward(), 1e-9)
	})

	t.Run("grid border counts as a wall", func(t *testing.T) {
		agent, _, _ := newTestAgent(t, [][]int{
			{5, 0},
			{0, 1},
		})
		available, err := agent.ScanActions()
		require.NoError(t, err)
		assert.Equal(t, []maze.Action{maze.Down, maze.Right}, available)
		assert.InDelta(t, 2*DefaultRewards.WallBump, agent.Reward(), 1e-9)
	})

	t.Run("start and end cells are not available", func(t *testing.T) {
		agent, _, _ := newTestAgent(t, [][]int{
			{1, 0, 1},
			{3, 5, 4},
			{1, 1, 1},
		})
		available, err := agent.ScanActions()
		require.NoError(t, err)
		assert.Equal(t, []maze.Action{maze.Up}, available)
		assert.InDelta(t, 3*DefaultRewards.WallBump, agent.Reward(), 1e-9)
	})

	t.Run("every scan bumps again", func(t *testing.T) {
		agent, _, _ := newTestAgent(t, [][]int{
			{1, 1, 1},
			{1, 5, 0},
			{1, 1, 1},
		})
		for i := 0; i < 3; i++ {
			_, err := agent.ScanActions()
			require.NoError(t, err)
		}
		assert.InDelta(t, 9*DefaultRewards.WallBump, agent.Reward(), 1e-9)
	})
}

func TestAgentMove(t *testing.T) {
	t.Run("moves the agent marker", func(t *testing.T) {
		agent, g, _ := newTestAgent(t, [][]int{
			{1, 1, 1, 1},
			{1, 5, 0, 0},
			{1, 1, 1, 1},
		})
		require.NoError(t, agent.Move(maze.Right))

		assert.Equal(t, maze.State{Row: 1, Col: 2}, agent.Position())
		assert.Equal(t, maze.State{Row: 1, Col: 1}, agent.Previous())
		assert.Equal(t, maze.Right, agent.LastAction())
		assert.InDelta(t, DefaultRewards.Step, agent.Reward(), 1e-9)

		vacated, err := g.CellKindAt(1, 1)
		require.NoError(t, err)
		assert.Equal(t, maze.Empty, vacated)
		occupied, err := g.CellKindAt(1, 2)
		require.NoError(t, err)
		assert.Equal(t, maze.Agent, occupied)
	})

	t.Run("blocked move", func(t *testing.T) {
		agent, g, _ := newTestAgent(t, [][]int{
			{1, 1, 1},
			{1, 5, 4},
			{1, 1, 1},
		})
		assert.ErrorIs(t, agent.Move(maze.Right), ErrBlockedMove)
		assert.ErrorIs(t, agent.Move(maze.Up), ErrBlockedMove)

		end, err := g.CellKindAt(1, 2)
		require.NoError(t, err)
		assert.Equal(t, maze.End, end)
		assert.Zero(t, agent.Reward())
	})

	t.Run("out of the grid", func(t *testing.T) {
		agent, _, _ := newTestAgent(t, [][]int{{5, 0}})
		assert.ErrorIs(t, agent.Move(maze.Left), maze.ErrOutOfBounds)
	})
}

func TestAgentCheckIfWon(t *testing.T) {
	t.Run("end to the right", func(t *testing.T) {
		agent, _, _ := newTestAgent(t, [][]int{{5, 4}})
		assert.True(t, agent.CheckIfWon())
		assert.InDelta(t, DefaultRewards.Win, agent.Reward(), 1e-9)
	})

	t.Run("end in another direction", func(t *testing.T) {
		agent, _, _ := newTestAgent(t, [][]int{
			{4, 0},
			{5, 0},
		})
		assert.False(t, agent.CheckIfWon())
		assert.Zero(t, agent.Reward())
	})

	t.Run("right border", func(t *testing.T) {
		agent, _, _ := newTestAgent(t, [][]int{{4, 5}})
		assert.False(t, agent.CheckIfWon())
	})
}

func TestAgentLearnResetsReward(t *testing.T) {
	agent, _, table := newTestAgent(t, [][]int{
		{1, 1, 1, 1},
		{1, 5, 0, 1},
		{1, 1, 1, 1},
	})
	_, err := agent.ScanActions()
	require.NoError(t, err)
	require.NoError(t, agent.Move(maze.Right))
	_, err = agent.ScanActions()
	require.NoError(t, err)

	reward := agent.Reward()
	require.NoError(t, agent.Learn(DefaultDiscountFactor))
	assert.Zero(t, agent.Reward())

	q, err := table.ValueOf(maze.State{Row: 1, Col: 1}, maze.Right)
	require.NoError(t, err)
	assert.InDelta(t, DefaultDiscountFactor*reward, q, 1e-9)
}
