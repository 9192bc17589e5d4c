package reconcile

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/colorpick/internal/slots"
)

func fill(t *testing.T, mgr *slots.Manager, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		_, _, err := mgr.Assign(fmt.Sprintf("color-%d", i), fmt.Sprintf("#00000%d", i))
		require.NoError(t, err)
	}
}

func TestRebindToSmallerIllustrationKeepsHiddenEntries(t *testing.T) {
	t.Parallel()

	mgr := slots.New(5)
	fill(t, mgr, 5)
	r := New(5)

	res := r.Rebind(mgr, 3)
	require.Equal(t, 3, res.ShapeCount)
	require.Equal(t, 5, res.Capacity)
	require.Len(t, res.Visible, 3)
	require.Len(t, res.Hidden, 2)
	require.Equal(t, 3, res.Hidden[0].Index)
	require.True(t, mgr.Has("color-4"), "hidden entries stay in the registry")
	require.True(t, mgr.FilledThrough(res.ShapeCount))
	require.NoError(t, mgr.Check())

	back := r.Rebind(mgr, 5)
	require.Len(t, back.Visible, 5)
	require.Empty(t, back.Hidden)
}

func TestRebindGrowsForLargerIllustration(t *testing.T) {
	t.Parallel()

	mgr := slots.New(5)
	fill(t, mgr, 2)
	r := New(5)

	res := r.Rebind(mgr, 8)
	require.Equal(t, 8, res.Capacity)
	require.Equal(t, 8, r.TrackedMax())
	require.Len(t, res.Visible, 2)

	res = r.Rebind(mgr, 4)
	require.Equal(t, 8, res.Capacity, "capacity is monotonic")
}

func TestRebindZeroShapesFallsBackToDefault(t *testing.T) {
	t.Parallel()

	mgr := slots.New(5)
	fill(t, mgr, 5)
	r := New(5)

	res := r.Rebind(mgr, 0)
	require.Equal(t, 0, res.Detected)
	require.Equal(t, 5, res.ShapeCount)
	require.Len(t, res.Visible, 5)
}

func TestRebindPaintsMinOfShapesAndSnapshot(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		snapshot, shapes, visible int
	}{
		{snapshot: 5, shapes: 3, visible: 3},
		{snapshot: 2, shapes: 6, visible: 2},
		{snapshot: 0, shapes: 4, visible: 0},
		{snapshot: 4, shapes: 4, visible: 4},
	} {
		t.Run(fmt.Sprintf("%d_into_%d", tc.snapshot, tc.shapes), func(t *testing.T) {
			mgr := slots.New(5)
			fill(t, mgr, tc.snapshot)
			res := New(5).Rebind(mgr, tc.shapes)
			require.Len(t, res.Visible, tc.visible)
			require.Len(t, res.Hidden, tc.snapshot-tc.visible)
			require.Equal(t, tc.snapshot, mgr.Occupied())
		})
	}
}

func TestCapacityIsMonotonicAcrossSwitches(t *testing.T) {
	t.Parallel()

	mgr := slots.New(5)
	r := New(5)
	prev := mgr.Capacity()
	for _, count := range []int{3, 9, 0, 2, 7, 12, 1} {
		res := r.Rebind(mgr, count)
		require.GreaterOrEqual(t, res.Capacity, prev)
		prev = res.Capacity
	}
	require.Equal(t, 12, prev)
}
