package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/jack-chaudier/fr-ocean-engine/internal/scripting"
)

// matchFixture loads the shipped MatchGrid behavior and seeds a known board:
//
//	1 1 3 2
//	3 2 1 4
//	2 3 4 1
//	4 1 2 3
//
// Swapping (3,1)<->(3,2) turns row 1 into 1 1 1 2: a valid 3-match.
// Swapping (4,1)<->(4,2) produces no run anywhere: an invalid swap.
type matchFixture struct {
	host *scripting.Host
	inst *scripting.Instance
}

func newMatchFixture(t *testing.T) *matchFixture {
	t.Helper()
	host := scripting.NewHost("../../resources", zap.NewNop())
	t.Cleanup(host.Close)

	// Event.Publish is the only native the grid logic touches.
	host.RegisterModule("Event", map[string]lua.LGFunction{
		"Publish": func(L *lua.LState) int { return 0 },
	})

	inst, err := host.NewInstance("MatchGrid", "grid")
	require.NoError(t, err)

	host.SetGlobal("grid_under_test", inst.Table())
	require.NoError(t, host.State().DoString(`
		local g = grid_under_test
		g.width = 4
		g.height = 4
		g.grid = {
			{1, 1, 3, 2},
			{3, 2, 1, 4},
			{2, 3, 4, 1},
			{4, 1, 2, 3},
		}
	`))
	return &matchFixture{host: host, inst: inst}
}

func (f *matchFixture) swap(t *testing.T, x1, y1, x2, y2 int) int {
	t.Helper()
	L := f.host.State()
	fn := L.GetField(f.inst.Table(), "Swap")
	require.NoError(t, L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true},
		f.inst.Table(), lua.LNumber(x1), lua.LNumber(y1), lua.LNumber(x2), lua.LNumber(y2)))
	matched := int(lua.LVAsNumber(L.Get(-1)))
	L.Pop(1)
	return matched
}

// number reads a numeric field with prototype delegation, so defaults the
// instance never wrote (moves, score) resolve too.
func (f *matchFixture) number(field string) float64 {
	return float64(lua.LVAsNumber(f.host.State().GetField(f.inst.Table(), field)))
}

func (f *matchFixture) cell(t *testing.T, x, y int) int {
	t.Helper()
	L := f.host.State()
	fn := L.GetField(f.inst.Table(), "CellAt")
	require.NoError(t, L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true},
		f.inst.Table(), lua.LNumber(x), lua.LNumber(y)))
	v := int(lua.LVAsNumber(L.Get(-1)))
	L.Pop(1)
	return v
}

func TestValidSwapScoresAndSpendsMove(t *testing.T) {
	f := newMatchFixture(t)

	movesBefore := f.number("moves")

	matched := f.swap(t, 3, 1, 3, 2)
	assert.Equal(t, 3, matched)
	assert.Equal(t, 3*10.0, f.number("score"),
		"score is matched cells times points_per_cell")
	assert.Equal(t, movesBefore-1, f.number("moves"))

	// Matched cells are cleared; the swapped-down value remains.
	assert.Equal(t, 0, f.cell(t, 1, 1))
	assert.Equal(t, 0, f.cell(t, 2, 1))
	assert.Equal(t, 0, f.cell(t, 3, 1))
	assert.Equal(t, 3, f.cell(t, 3, 2))
}

func TestInvalidSwapRestoresBoard(t *testing.T) {
	f := newMatchFixture(t)

	matched := f.swap(t, 4, 1, 4, 2)
	assert.Equal(t, 0, matched)
	assert.Equal(t, 0.0, f.number("score"))
	assert.Equal(t, 20.0, f.number("moves"), "invalid swap must not spend a move")
	assert.Equal(t, 2, f.cell(t, 4, 1), "board restored")
	assert.Equal(t, 4, f.cell(t, 4, 2))
}

func TestNonAdjacentSwapRejected(t *testing.T) {
	f := newMatchFixture(t)

	assert.Equal(t, 0, f.swap(t, 1, 1, 3, 1))
	assert.Equal(t, 1, f.cell(t, 1, 1))
	assert.Equal(t, 3, f.cell(t, 3, 1))
	assert.Equal(t, 0.0, f.number("score"))
}

func TestSwapWithNoMovesLeftRejected(t *testing.T) {
	f := newMatchFixture(t)
	require.NoError(t, f.host.State().DoString(`grid_under_test.moves = 0`))

	assert.Equal(t, 0, f.swap(t, 3, 1, 3, 2))
	assert.Equal(t, 0.0, f.number("score"))
	assert.Equal(t, 1, f.cell(t, 1, 1), "board untouched")
}
