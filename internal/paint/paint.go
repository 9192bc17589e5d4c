// Package paint turns slot state into paint instructions and applies them to
// an illustration. Deciding what to paint is pure; only Apply touches the
// document.
package paint

import (
	"fmt"
	"strings"

	"github.com/alexisbeaulieu97/colorpick/internal/illustration"
	"github.com/alexisbeaulieu97/colorpick/internal/slots"
)

const (
	// EmptyColor is the fill used for a slot without a colour.
	EmptyColor = "white"
	// OutlineColor and OutlineWidth mark an empty shape as selectable.
	OutlineColor = "black"
	OutlineWidth = "2"
	// ShadowFilter is applied to the whole illustration once it is complete.
	ShadowFilter = "drop-shadow(0 4px 6px rgba(0, 0, 0, 0.35))"
)

// Kind enumerates paint instructions.
type Kind int

const (
	// KindFill paints a shape with a colour and drops its outline.
	KindFill Kind = iota
	// KindClear resets a shape to the empty colour with an outline.
	KindClear
	// KindShadowOn applies the completion shadow.
	KindShadowOn
	// KindShadowOff removes the completion shadow.
	KindShadowOff
)

func (k Kind) String() string {
	switch k {
	case KindFill:
		return "fill"
	case KindClear:
		return "clear"
	case KindShadowOn:
		return "shadow-on"
	case KindShadowOff:
		return "shadow-off"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Op is a single paint instruction. Index and Color are only meaningful for
// KindFill and KindClear.
type Op struct {
	Kind  Kind
	Index int
	Color string
}

// IsEmpty reports whether color is the empty sentinel.
func IsEmpty(color string) bool {
	c := strings.TrimSpace(color)
	return c == "" || strings.EqualFold(c, EmptyColor)
}

// SlotOp returns the instruction for painting slot index with color.
func SlotOp(index int, color string) Op {
	if IsEmpty(color) {
		return Op{Kind: KindClear, Index: index, Color: EmptyColor}
	}
	return Op{Kind: KindFill, Index: index, Color: color}
}

// Replay returns fill instructions for the given entries.
func Replay(entries []slots.Entry) []Op {
	ops := make([]Op, 0, len(entries))
	for _, e := range entries {
		ops = append(ops, SlotOp(e.Index, e.Color))
	}
	return ops
}

// Complete reports whether every slot in [0, shapeCount) is filled.
func Complete(mgr *slots.Manager, shapeCount int) bool {
	return shapeCount > 0 && mgr.FilledThrough(shapeCount)
}

// CompletionOp returns the shadow instruction for the current state.
func CompletionOp(mgr *slots.Manager, shapeCount int) Op {
	if Complete(mgr, shapeCount) {
		return Op{Kind: KindShadowOn}
	}
	return Op{Kind: KindShadowOff}
}

// ControlState is the visual availability of one colour control.
type ControlState struct {
	ID        string
	Selected  bool
	Available bool
}

// Availability disables every unselected control once the whole capacity is
// filled, and re-enables them as soon as a slot frees up.
func Availability(mgr *slots.Manager, controlIDs []string) []ControlState {
	full := mgr.Full()
	states := make([]ControlState, 0, len(controlIDs))
	for _, id := range controlIDs {
		selected := mgr.Has(id)
		states = append(states, ControlState{
			ID:        id,
			Selected:  selected,
			Available: selected || !full,
		})
	}
	return states
}

// Apply executes ops against doc and returns how many shape instructions
// found a shape. Shapes are re-enumerated for every instruction because each
// one mutates the attributes classification depends on.
func Apply(doc *illustration.Document, ops ...Op) int {
	if doc == nil {
		return 0
	}

	painted := 0
	for _, op := range ops {
		switch op.Kind {
		case KindShadowOn:
			doc.SetRootStyle("filter", ShadowFilter)
		case KindShadowOff:
			doc.RemoveRootStyle("filter")
		case KindFill, KindClear:
			shapes := illustration.ColorableShapes(doc)
			if op.Index < 0 || op.Index >= len(shapes) {
				continue
			}
			if op.Kind == KindFill {
				fillShape(shapes[op.Index], op.Color)
			} else {
				clearShape(shapes[op.Index])
			}
			painted++
		}
	}
	return painted
}

func fillShape(s illustration.Shape, color string) {
	s.RemoveStyle("fill")
	s.SetAttr("fill", color)
	s.SetStyle("fill-opacity", "1")
	s.RemoveAttr("stroke")
	s.RemoveAttr("stroke-width")
	s.RemoveStyle("stroke")
	s.RemoveStyle("stroke-width")
}

func clearShape(s illustration.Shape) {
	s.RemoveStyle("fill")
	s.RemoveStyle("stroke")
	s.RemoveStyle("stroke-width")
	s.SetAttr("fill", EmptyColor)
	s.SetAttr("stroke", OutlineColor)
	s.SetAttr("stroke-width", OutlineWidth)
}
