package picker

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/alexisbeaulieu97/colorpick/internal/illustration"
	"github.com/alexisbeaulieu97/colorpick/internal/loader"
	"github.com/alexisbeaulieu97/colorpick/internal/ports"
	colorpickerrors "github.com/alexisbeaulieu97/colorpick/pkg/errors"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func svgWithShapes(n int) string {
	var b strings.Builder
	b.WriteString(`<svg xmlns="http://www.w3.org/2000/svg">`)
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, `<rect id="c%d" fill="white" stroke="black" stroke-width="2"/>`, i+1)
	}
	b.WriteString(`<path stroke="black" d="M0 0"/></svg>`)
	return b.String()
}

type assetMap map[string]string

func (a assetMap) Fetch(_ context.Context, ref string) ([]byte, error) {
	body, ok := a[ref]
	if !ok {
		return nil, colorpickerrors.NewFetchError(ref, 404, nil)
	}
	return []byte(body), nil
}

var models = assetMap{
	"a.svg":     svgWithShapes(5),
	"b.svg":     svgWithShapes(3),
	"wide.svg":  svgWithShapes(7),
	"blank.svg": `<svg><path stroke="red" d="M0 0"/></svg>`,
}

var palette = []struct{ id, color string }{
	{"red", "#ff0000"},
	{"green", "#00ff00"},
	{"blue", "#0000ff"},
	{"yellow", "#ffff00"},
	{"purple", "#800080"},
	{"orange", "#ffa500"},
}

func controlIDs() []string {
	ids := make([]string, 0, len(palette))
	for _, p := range palette {
		ids = append(ids, p.id)
	}
	return ids
}

func newService(t *testing.T, fetcher ports.Fetcher) (*Service, *MemoryHost) {
	t.Helper()
	host := NewMemoryHost()
	svc, err := New(Options{Fetcher: fetcher, Host: host, Controls: controlIDs()})
	require.NoError(t, err)
	return svc, host
}

func fills(t *testing.T, doc *illustration.Document) []string {
	t.Helper()
	var out []string
	for _, s := range illustration.ColorableShapes(doc) {
		fill, _ := s.Fill()
		out = append(out, fill)
	}
	return out
}

func hasShadow(doc *illustration.Document) bool {
	_, ok := doc.RootStyle("filter")
	return ok
}

func TestNewValidatesDependencies(t *testing.T) {
	_, err := New(Options{Host: NewMemoryHost()})
	require.Error(t, err)
	_, err = New(Options{Fetcher: models})
	require.Error(t, err)
}

func TestFillSwitchAndRestoreScenario(t *testing.T) {
	ctx := context.Background()
	svc, host := newService(t, models)

	require.NoError(t, svc.SelectModel(ctx, "a.svg"))
	for _, p := range palette[:5] {
		outcome, err := svc.Toggle(ctx, p.id, p.color, true)
		require.NoError(t, err)
		require.Equal(t, OutcomeAssigned, outcome)
	}

	docA, ref := svc.Active()
	require.Equal(t, "a.svg", ref)
	require.Equal(t, []string{"#ff0000", "#00ff00", "#0000ff", "#ffff00", "#800080"}, fills(t, docA))
	require.True(t, hasShadow(docA))
	require.True(t, svc.State().Complete)

	require.NoError(t, svc.SelectModel(ctx, "b.svg"))
	docB, _ := svc.Active()
	require.Same(t, docB, host.Mounted())
	require.Equal(t, []string{"#ff0000", "#00ff00", "#0000ff"}, fills(t, docB))
	require.True(t, hasShadow(docB))

	st := svc.State()
	require.Equal(t, 3, st.ShapeCount)
	require.Equal(t, 5, st.Capacity)
	require.True(t, st.Slots[4].Filled)
	require.False(t, st.Slots[4].Visible)

	require.NoError(t, svc.SelectModel(ctx, "a.svg"))
	docA2, _ := svc.Active()
	require.NotSame(t, docA, docA2)
	require.Equal(t, []string{"#ff0000", "#00ff00", "#0000ff", "#ffff00", "#800080"}, fills(t, docA2))
	require.True(t, hasShadow(docA2))
	require.NoError(t, svc.Check())
}

func TestSixthColourIsRevertedWhenFull(t *testing.T) {
	ctx := context.Background()
	svc, host := newService(t, models)
	require.NoError(t, svc.SelectModel(ctx, "a.svg"))

	for _, p := range palette[:5] {
		_, err := svc.Toggle(ctx, p.id, p.color, true)
		require.NoError(t, err)
	}
	before := svc.State()
	assert.False(t, host.Available("orange"), "unselected controls are disabled once full")
	assert.True(t, host.Available("red"))

	outcome, err := svc.Toggle(ctx, "orange", "#ffa500", true)
	require.NoError(t, err)
	require.Equal(t, OutcomeRejected, outcome)

	checked, written := host.Checked("orange")
	require.True(t, written)
	require.False(t, checked)
	require.Equal(t, before.Slots, svc.State().Slots)

	outcome, err = svc.Toggle(ctx, "green", "", false)
	require.NoError(t, err)
	require.Equal(t, OutcomeReleased, outcome)
	assert.True(t, host.Available("orange"), "controls re-enable as soon as a slot frees")

	doc, _ := svc.Active()
	shape := illustration.ColorableShapes(doc)[1]
	fill, _ := shape.Fill()
	stroke, _ := shape.Stroke()
	require.Equal(t, "white", fill)
	require.Equal(t, "black", stroke)
	require.False(t, hasShadow(doc))

	outcome, err = svc.Toggle(ctx, "orange", "#ffa500", true)
	require.NoError(t, err)
	require.Equal(t, OutcomeAssigned, outcome)
	idx, ok := svc.SlotOf("orange")
	require.True(t, ok)
	require.Equal(t, 1, idx)
}

func TestToggleEdgeCases(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t, models)

	outcome, err := svc.Toggle(ctx, "red", "", true)
	require.NoError(t, err)
	require.Equal(t, OutcomeSkipped, outcome)

	outcome, err = svc.Toggle(ctx, "red", "#f00", false)
	require.NoError(t, err)
	require.Equal(t, OutcomeUnchanged, outcome)

	outcome, err = svc.Toggle(ctx, "red", "#f00", true)
	require.NoError(t, err)
	require.Equal(t, OutcomeAssigned, outcome, "colours can be picked before any model is loaded")

	outcome, err = svc.Toggle(ctx, "red", "#f00", true)
	require.NoError(t, err)
	require.Equal(t, OutcomeUnchanged, outcome)

	outcome, err = svc.Toggle(ctx, "", "#f00", true)
	require.NoError(t, err)
	require.Equal(t, OutcomeSkipped, outcome)

	require.NoError(t, svc.SelectModel(ctx, "a.svg"))
	doc, _ := svc.Active()
	require.Equal(t, "#f00", fills(t, doc)[0], "selections made before loading are replayed")
}

func TestFailedFetchLeavesIllustrationUntouched(t *testing.T) {
	ctx := context.Background()
	svc, host := newService(t, models)
	require.NoError(t, svc.SelectModel(ctx, "a.svg"))
	_, err := svc.Toggle(ctx, "red", "#ff0000", true)
	require.NoError(t, err)

	before, _ := svc.Active()
	beforeMarkup := before.String()

	err = svc.SelectModel(ctx, "missing.svg")
	var fetchErr *colorpickerrors.FetchError
	require.ErrorAs(t, err, &fetchErr)

	after, ref := svc.Active()
	require.Same(t, before, after)
	require.Equal(t, "a.svg", ref)
	require.Equal(t, beforeMarkup, after.String())
	require.Equal(t, 1, host.Mounts())
}

func TestZeroShapeIllustrationFallsBackToDefault(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t, models)

	require.NoError(t, svc.SelectModel(ctx, "blank.svg"))
	st := svc.State()
	require.Equal(t, 5, st.ShapeCount)
	require.Equal(t, 5, st.Capacity)
}

func TestCapacityGrowsButNeverShrinks(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t, models)

	caps := []int{}
	for _, ref := range []string{"a.svg", "wide.svg", "b.svg", "a.svg"} {
		require.NoError(t, svc.SelectModel(ctx, ref))
		caps = append(caps, svc.State().Capacity)
	}
	require.Equal(t, []int{5, 7, 7, 7}, caps)

	for _, p := range palette {
		_, err := svc.Toggle(ctx, p.id, p.color, true)
		require.NoError(t, err)
	}
	st := svc.State()
	require.False(t, st.Full, "7 slots hold 6 colours")
	require.True(t, st.Complete, "all 5 visible shapes are filled")
}

type gatedFetcher struct {
	assets  assetMap
	mu      sync.Mutex
	gates   map[string]chan struct{}
	started chan string
}

func (g *gatedFetcher) Fetch(ctx context.Context, ref string) ([]byte, error) {
	g.mu.Lock()
	gate := g.gates[ref]
	g.mu.Unlock()
	g.started <- ref
	if gate != nil {
		<-gate
	}
	return g.assets.Fetch(ctx, ref)
}

func TestLastRequestedModelWins(t *testing.T) {
	ctx := context.Background()
	fetcher := &gatedFetcher{
		assets:  models,
		gates:   map[string]chan struct{}{"wide.svg": make(chan struct{})},
		started: make(chan string, 4),
	}
	svc, _ := newService(t, fetcher)

	slow := make(chan error, 1)
	go func() { slow <- svc.SelectModel(ctx, "wide.svg") }()
	require.Equal(t, "wide.svg", <-fetcher.started)

	require.NoError(t, svc.SelectModel(ctx, "b.svg"))
	<-fetcher.started

	close(fetcher.gates["wide.svg"])
	require.ErrorIs(t, <-slow, loader.ErrStaleLoad)

	_, ref := svc.Active()
	require.Equal(t, "b.svg", ref)
	require.Equal(t, 3, svc.State().ShapeCount)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []string
}

func (r *recordingPublisher) Publish(_ context.Context, e ports.DomainEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e.EventType())
	return nil
}

func (r *recordingPublisher) Subscribe(string, ports.EventHandler) (ports.Subscription, error) {
	return nil, nil
}

func TestServicePublishesEvents(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{}
	svc, err := New(Options{Capacity: 3, Fetcher: models, Host: NewMemoryHost(), Events: pub})
	require.NoError(t, err)

	require.NoError(t, svc.SelectModel(ctx, "b.svg"))
	for _, p := range palette[:4] {
		_, err := svc.Toggle(ctx, p.id, p.color, true)
		require.NoError(t, err)
	}
	_, err = svc.Toggle(ctx, "red", "", false)
	require.NoError(t, err)
	require.Error(t, svc.SelectModel(ctx, "nope.svg"))

	require.Equal(t, []string{
		ports.EventModelSwitched,
		ports.EventSlotAssigned,
		ports.EventSlotAssigned,
		ports.EventSlotAssigned,
		ports.EventSelectionCompleted,
		ports.EventSlotRejected,
		ports.EventSlotReleased,
		ports.EventModelLoadFailed,
	}, pub.events)
}
