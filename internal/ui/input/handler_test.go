package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/ThroneStar/internal/game/core"
	gameinput "github.com/mitchelldurbincs/ThroneStar/internal/game/input"
	"github.com/mitchelldurbincs/ThroneStar/internal/testutil"
)

type call struct {
	kind string
	id   int // -1 for nil
	mods gameinput.Modifier
}

// recorder mimics the FSM for gesture tests. A tap on an owned star selects
// it, and a tap on any other star while selected commands from the selection.
type recorder struct {
	calls    []call
	commands [][2]int
	selected *core.Territory
	owner    int
}

func idOf(t *core.Territory) int {
	if t == nil {
		return -1
	}
	return t.ID
}

func (r *recorder) Tap(t *core.Territory, mods gameinput.Modifier) {
	r.calls = append(r.calls, call{"tap", idOf(t), mods})
	switch {
	case t == nil:
		r.selected = nil
	case r.selected == nil:
		if t.OwnerID == r.owner {
			r.selected = t
		}
	case t != r.selected:
		r.commands = append(r.commands, [2]int{r.selected.ID, t.ID})
	}
}

func (r *recorder) Inspect(t *core.Territory) {
	r.calls = append(r.calls, call{kind: "inspect", id: idOf(t)})
}

func (r *recorder) Key(k gameinput.Key) {
	r.calls = append(r.calls, call{kind: "key", id: int(k)})
	if k == gameinput.KeyEscape {
		r.selected = nil
	}
}

func (r *recorder) Selected() *core.Territory { return r.selected }

func at(t *core.Territory) Frame { return Frame{X: t.X, Y: t.Y} }

func setup(t *testing.T) (*core.World, *Handler, *recorder) {
	t.Helper()
	// Stars at (0,0) (40,40) (80,0) (120,40) (160,0)
	return testutil.CreateSimpleTestSetup(t), NewHandler(15), &recorder{owner: 0}
}

func mustTerritory(t *testing.T, w *core.World, id int) *core.Territory {
	t.Helper()
	tr, ok := w.Territory(id)
	require.True(t, ok)
	return tr
}

func TestPick(t *testing.T) {
	w, h, _ := setup(t)

	assert.Equal(t, 1, idOf(h.Pick(w, 3, 4)))
	assert.Equal(t, 2, idOf(h.Pick(w, 40, 52)))
	assert.Nil(t, h.Pick(w, 20, 20), "between stars")

	wide := NewHandler(60)
	assert.Equal(t, 2, idOf(wide.Pick(w, 35, 35)), "closest center wins on overlap")
}

func TestModifiers(t *testing.T) {
	tests := []struct {
		shift, ctrl bool
		want        gameinput.Modifier
	}{
		{false, false, gameinput.ModNone},
		{true, false, gameinput.ModFull},
		{false, true, gameinput.ModQuarter},
		{true, true, gameinput.ModFull | gameinput.ModQuarter},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Modifiers(tt.shift, tt.ctrl))
	}
}

func TestClickTapsStarUnderPointer(t *testing.T) {
	w, h, r := setup(t)
	star := mustTerritory(t, w, 3)

	f := at(star)
	f.LeftPressed = true
	h.Apply(f, w, r)
	assert.Empty(t, r.calls, "taps fire on release")
	assert.Same(t, star, h.Hovered())

	f = at(star)
	f.LeftReleased = true
	f.Ctrl = true
	h.Apply(f, w, r)
	assert.Equal(t, []call{{"tap", 3, gameinput.ModQuarter}}, r.calls)
}

func TestClickOnEmptySpaceTapsNil(t *testing.T) {
	w, h, r := setup(t)
	h.Apply(Frame{X: 500, Y: 500, LeftPressed: true, LeftReleased: true}, w, r)
	assert.Equal(t, []call{{"tap", -1, gameinput.ModNone}}, r.calls)
}

func TestDragSelectsSourceThenCommands(t *testing.T) {
	w, h, r := setup(t)
	src, dst := mustTerritory(t, w, 2), mustTerritory(t, w, 3)

	f := at(src)
	f.LeftPressed = true
	h.Apply(f, w, r)
	f = at(dst)
	f.LeftReleased = true
	f.Shift = true
	h.Apply(f, w, r)

	assert.Equal(t, []call{
		{"tap", 2, gameinput.ModNone},
		{"tap", 3, gameinput.ModFull},
	}, r.calls)
	assert.Equal(t, [][2]int{{2, 3}}, r.commands)
}

func TestDragFromSelectedSourceSkipsReselect(t *testing.T) {
	w, h, r := setup(t)
	src, dst := mustTerritory(t, w, 2), mustTerritory(t, w, 3)
	r.selected = src

	f := at(src)
	f.LeftPressed = true
	h.Apply(f, w, r)
	f = at(dst)
	f.LeftReleased = true
	h.Apply(f, w, r)

	assert.Equal(t, []call{{"tap", 3, gameinput.ModNone}}, r.calls)
	assert.Equal(t, [][2]int{{2, 3}}, r.commands)
}

func TestDragWhileAnotherStarIsSelected(t *testing.T) {
	w, h, r := setup(t)
	other, src, dst := mustTerritory(t, w, 1), mustTerritory(t, w, 2), mustTerritory(t, w, 3)
	r.selected = other

	f := at(src)
	f.LeftPressed = true
	h.Apply(f, w, r)
	f = at(dst)
	f.LeftReleased = true
	h.Apply(f, w, r)

	assert.Equal(t, []call{
		{kind: "key", id: int(gameinput.KeyEscape)},
		{"tap", 2, gameinput.ModNone},
		{"tap", 3, gameinput.ModNone},
	}, r.calls)
	assert.Equal(t, [][2]int{{2, 3}}, r.commands, "nothing leaves the earlier selection")
	assert.Same(t, src, r.selected)
}

func TestDragFromEnemyStarIsDropped(t *testing.T) {
	w, h, r := setup(t)
	src, dst := mustTerritory(t, w, 4), mustTerritory(t, w, 3)

	f := at(src)
	f.LeftPressed = true
	h.Apply(f, w, r)
	f = at(dst)
	f.LeftReleased = true
	h.Apply(f, w, r)

	assert.Equal(t, []call{{"tap", 4, gameinput.ModNone}}, r.calls)
	assert.Nil(t, r.selected)
	assert.Empty(t, r.commands)
}

func TestInspectAndEscape(t *testing.T) {
	w, h, r := setup(t)
	f := at(mustTerritory(t, w, 5))
	f.RightPressed = true
	f.Escape = true
	h.Apply(f, w, r)

	assert.Equal(t, []call{
		{kind: "key", id: int(gameinput.KeyEscape)},
		{kind: "inspect", id: 5},
	}, r.calls)
}
