// Package picker wires the slot manager, loader, reconciler and paint rules
// into the colour picker that a page or terminal UI drives.
package picker

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/alexisbeaulieu97/colorpick/internal/illustration"
	"github.com/alexisbeaulieu97/colorpick/internal/infrastructure/logging"
	"github.com/alexisbeaulieu97/colorpick/internal/loader"
	"github.com/alexisbeaulieu97/colorpick/internal/paint"
	"github.com/alexisbeaulieu97/colorpick/internal/ports"
	"github.com/alexisbeaulieu97/colorpick/internal/reconcile"
	"github.com/alexisbeaulieu97/colorpick/internal/slots"
)

// Host is the surface the picker renders into.
type Host interface {
	loader.Mount
	SetChecked(id string, checked bool) bool
	SetAvailable(id string, available bool) bool
}

// Outcome describes what a Toggle did.
type Outcome int

const (
	// OutcomeUnchanged means the control already had the requested state.
	OutcomeUnchanged Outcome = iota
	// OutcomeAssigned means the control claimed a slot.
	OutcomeAssigned
	// OutcomeReleased means the control freed its slot.
	OutcomeReleased
	// OutcomeRejected means every slot was taken and the control was reverted.
	OutcomeRejected
	// OutcomeSkipped means the control had no colour value.
	OutcomeSkipped
)

func (o Outcome) String() string {
	switch o {
	case OutcomeUnchanged:
		return "unchanged"
	case OutcomeAssigned:
		return "assigned"
	case OutcomeReleased:
		return "released"
	case OutcomeRejected:
		return "rejected"
	case OutcomeSkipped:
		return "skipped"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Options configures a Service.
type Options struct {
	// Capacity is the initial slot count. Defaults to slots.DefaultCapacity.
	Capacity int
	Fetcher  ports.Fetcher
	Host     Host
	// Controls lists every colour control id, in display order. It drives the
	// availability refresh.
	Controls []string
	Logger   ports.Logger
	Events   ports.EventPublisher
}

// SlotView is a read-only view of one slot.
type SlotView struct {
	Index     int
	ControlID string
	Color     string
	Filled    bool
	Visible   bool
}

// State is a snapshot of the picker for rendering.
type State struct {
	ActiveRef  string
	Capacity   int
	ShapeCount int
	Complete   bool
	Full       bool
	Slots      []SlotView
	Controls   []paint.ControlState
}

// Service is the colour picker. All methods are safe for concurrent use;
// model fetches run outside the lock so the current illustration stays
// interactive while a new one loads.
type Service struct {
	host   Host
	logger ports.Logger
	events ports.EventPublisher
	loader *loader.Loader

	mu         sync.Mutex
	slots      *slots.Manager
	reconciler *reconcile.Reconciler
	controls   []string
	shapeCount int
	complete   bool
}

// New constructs a Service.
func New(opts Options) (*Service, error) {
	if opts.Fetcher == nil {
		return nil, errors.New("picker: fetcher is required")
	}
	if opts.Host == nil {
		return nil, errors.New("picker: host is required")
	}
	capacity := opts.Capacity
	if capacity <= 0 {
		capacity = slots.DefaultCapacity
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNoOpLogger()
	}

	return &Service{
		host:       opts.Host,
		logger:     logger.With("component", "picker"),
		events:     opts.Events,
		loader:     loader.New(opts.Fetcher, opts.Host, logger),
		slots:      slots.New(capacity),
		reconciler: reconcile.New(capacity),
		controls:   append([]string(nil), opts.Controls...),
		shapeCount: capacity,
	}, nil
}

// SetControls replaces the list of colour control ids and refreshes their
// availability.
func (s *Service) SetControls(ids []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.controls = append([]string(nil), ids...)
	s.refreshAvailability()
}

// Toggle reacts to a colour control changing state. A checked control claims
// the first empty slot; when none is left the control is unchecked on the
// host and OutcomeRejected is returned. An unchecked control frees its slot.
// A checked control without a colour is skipped.
func (s *Service) Toggle(ctx context.Context, controlID, color string, checked bool) (Outcome, error) {
	if controlID == "" {
		return OutcomeSkipped, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !checked {
		idx, changed := s.slots.Release(controlID)
		if !changed {
			return OutcomeUnchanged, nil
		}
		s.repaint(paint.SlotOp(idx, paint.EmptyColor))
		s.publish(ctx, ports.EventSlotReleased, map[string]interface{}{"control_id": controlID, "slot": idx})
		s.settle(ctx)
		s.logger.Debug(ctx, "slot released", "control_id", controlID, "slot", idx)
		return OutcomeReleased, nil
	}

	if color == "" {
		s.logger.Debug(ctx, "colour control without colour value", "control_id", controlID)
		return OutcomeSkipped, nil
	}

	idx, changed, err := s.slots.Assign(controlID, color)
	if errors.Is(err, slots.ErrCapacityExceeded) {
		s.host.SetChecked(controlID, false)
		s.publish(ctx, ports.EventSlotRejected, map[string]interface{}{"control_id": controlID, "capacity": s.slots.Capacity()})
		s.logger.Debug(ctx, "selection reverted, no free slot", "control_id", controlID, "capacity", s.slots.Capacity())
		return OutcomeRejected, nil
	}
	if err != nil {
		return OutcomeUnchanged, err
	}
	if !changed {
		return OutcomeUnchanged, nil
	}

	s.repaint(paint.SlotOp(idx, color))
	s.publish(ctx, ports.EventSlotAssigned, map[string]interface{}{"control_id": controlID, "slot": idx, "color": color})
	s.settle(ctx)
	s.logger.Debug(ctx, "slot assigned", "control_id", controlID, "slot", idx, "color", color)
	return OutcomeAssigned, nil
}

// SelectModel switches to the illustration at ref and replays the chosen
// colours onto it. Selecting the active model is a no-op. When the fetch or
// parse fails, or a newer selection supersedes this one, the active
// illustration and its colours stay as they were; the error is returned for
// the caller to log.
func (s *Service) SelectModel(ctx context.Context, ref string) error {
	ticket, needed := s.loader.Begin(ref)
	if !needed {
		return nil
	}

	doc, err := s.loader.Fetch(ctx, ticket)
	if err != nil {
		s.publish(ctx, ports.EventModelLoadFailed, map[string]interface{}{"ref": ref, "error": err.Error()})
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loader.Commit(ctx, ticket, doc); err != nil {
		if errors.Is(err, loader.ErrStaleLoad) {
			s.publish(ctx, ports.EventModelLoadStale, map[string]interface{}{"ref": ref})
		} else {
			s.publish(ctx, ports.EventModelLoadFailed, map[string]interface{}{"ref": ref, "error": err.Error()})
		}
		return err
	}

	detected := illustration.CountColorable(doc)
	res := s.reconciler.Rebind(s.slots, detected)
	s.shapeCount = res.ShapeCount
	if detected == 0 {
		s.logger.Warn(ctx, "no colourable shapes detected, using default capacity", "ref", ref, "capacity", res.ShapeCount)
	}

	painted := paint.Apply(doc, paint.Replay(res.Visible)...)
	s.settle(ctx)

	s.publish(ctx, ports.EventModelSwitched, map[string]interface{}{
		"ref":      ref,
		"shapes":   detected,
		"capacity": res.Capacity,
		"painted":  painted,
		"hidden":   len(res.Hidden),
	})
	s.logger.Info(ctx, "model switched", "ref", ref, "shapes", detected, "capacity", res.Capacity, "painted", painted)
	return nil
}

// Active returns the active illustration and its reference.
func (s *Service) Active() (*illustration.Document, string) {
	return s.loader.Active()
}

// State returns a snapshot for rendering.
func (s *Service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ref := s.loader.Active()
	st := State{
		ActiveRef:  ref,
		Capacity:   s.slots.Capacity(),
		ShapeCount: s.shapeCount,
		Complete:   s.complete,
		Full:       s.slots.Full(),
		Controls:   paint.Availability(s.slots, s.controls),
	}
	for i := 0; i < s.slots.Capacity(); i++ {
		a, ok := s.slots.At(i)
		st.Slots = append(st.Slots, SlotView{
			Index:     i,
			ControlID: a.ControlID,
			Color:     a.Color,
			Filled:    ok,
			Visible:   i < s.shapeCount,
		})
	}
	return st
}

// SlotOf returns the slot held by a control.
func (s *Service) SlotOf(controlID string) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.slots.SlotOf(controlID)
}

// Check verifies the slot invariants.
func (s *Service) Check() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.slots.Check()
}

func (s *Service) repaint(ops ...paint.Op) {
	doc, _ := s.loader.Active()
	paint.Apply(doc, ops...)
}

// settle recomputes the completion shadow and control availability. Callers
// hold s.mu.
func (s *Service) settle(ctx context.Context) {
	doc, _ := s.loader.Active()
	shapes := s.shapeCount
	if doc != nil {
		if n := illustration.CountColorable(doc); n > 0 {
			shapes = n
		}
	}

	op := paint.CompletionOp(s.slots, shapes)
	paint.Apply(doc, op)

	complete := op.Kind == paint.KindShadowOn
	if complete && !s.complete {
		s.publish(ctx, ports.EventSelectionCompleted, map[string]interface{}{"shapes": shapes})
	}
	s.complete = complete
	s.refreshAvailability()
}

func (s *Service) refreshAvailability() {
	for _, st := range paint.Availability(s.slots, s.controls) {
		s.host.SetAvailable(st.ID, st.Available)
	}
}

func (s *Service) publish(ctx context.Context, eventType string, payload map[string]interface{}) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, event{eventType: eventType, payload: payload}); err != nil {
		s.logger.Warn(ctx, "event publish failed", "event_type", eventType, "error", err)
	}
}

type event struct {
	eventType string
	payload   map[string]interface{}
}

func (e event) EventType() string    { return e.eventType }
func (e event) Payload() interface{} { return e.payload }
