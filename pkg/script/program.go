package script

import (
	"fmt"

	"github.com/chazu/pushpull/pkg/extrude"
	"github.com/chazu/pushpull/pkg/view"
)

// CommandKind enumerates gesture script commands.
type CommandKind int

const (
	CmdDown  CommandKind = iota // pointer pressed
	CmdMove                     // pointer moved
	CmdReset                    // reset button clicked
)

func (k CommandKind) String() string {
	switch k {
	case CmdDown:
		return "down"
	case CmdMove:
		return "move"
	case CmdReset:
		return "reset"
	default:
		return "unknown"
	}
}

// Command is one recorded UI event. Pointer commands carry the camera that
// was current when the script issued them.
type Command struct {
	Kind   CommandKind
	X, Y   float64
	Camera view.Camera
}

func (c Command) String() string {
	if c.Kind == CmdReset {
		return c.Kind.String()
	}
	return fmt.Sprintf("%s %.1f %.1f", c.Kind, c.X, c.Y)
}

// Program is the command list a script evaluates to.
type Program struct {
	Commands []Command
}

// Target receives replayed commands. *extrude.Controller satisfies it.
type Target interface {
	PointerDown(ev extrude.PointerEvent)
	PointerMove(ev extrude.PointerEvent)
	Reset()
}

var _ Target = (*extrude.Controller)(nil)

// Apply replays the program against t in order.
func (p *Program) Apply(t Target) {
	for _, c := range p.Commands {
		ev := extrude.PointerEvent{X: c.X, Y: c.Y, Camera: c.Camera}
		switch c.Kind {
		case CmdDown:
			t.PointerDown(ev)
		case CmdMove:
			t.PointerMove(ev)
		case CmdReset:
			t.Reset()
		}
	}
}

// builder accumulates commands while a script runs.
type builder struct {
	camera view.Camera
	prog   *Program
}

func newBuilder() *builder {
	return &builder{camera: view.DefaultCamera(), prog: &Program{}}
}

func (b *builder) pointer(kind CommandKind, x, y float64) {
	b.prog.Commands = append(b.prog.Commands, Command{Kind: kind, X: x, Y: y, Camera: b.camera})
}

func (b *builder) reset() {
	b.prog.Commands = append(b.prog.Commands, Command{Kind: CmdReset})
}
