package terminal

import (
	"fmt"
	"time"

	"github.com/nsf/termbox-go"
	"github.com/sirupsen/logrus"

	lbm "github.com/UnwiseGiraffeX86/Air-Tunnel/lbm-solver"
)

// Terminal renders the velocity field as a termbox heatmap and owns the
// fixed-cadence driver loop. Left mouse paints obstacles, right mouse
// clears them, space pauses, Esc or q quits.
type Terminal struct {
	solver   *lbm.Solver
	backbuf  []termbox.Cell
	bbw, bbh int

	// StepsPerFrame solver steps run per rendered frame at FrameRate fps.
	StepsPerFrame int
	FrameRate     int

	paused bool
}

// speedRamp maps normalized flow speed to increasingly dense glyphs.
var speedRamp = []rune(" .:-=+*#%@")

func New(solver *lbm.Solver) *Terminal {
	return &Terminal{
		solver:        solver,
		StepsPerFrame: 5,
		FrameRate:     30,
	}
}

// Render runs the interactive loop until the user quits.
func (t *Terminal) Render() error {
	if err := termbox.Init(); err != nil {
		return err
	}
	defer termbox.Close()
	termbox.SetInputMode(termbox.InputEsc | termbox.InputMouse)
	t.reallocBackBuffer(termbox.Size())

	events := make(chan termbox.Event)
	go func() {
		for {
			events <- termbox.PollEvent()
		}
	}()

	ticker := time.NewTicker(time.Second / time.Duration(t.FrameRate))
	defer ticker.Stop()

	for {
		select {
		case ev := <-events:
			switch ev.Type {
			case termbox.EventKey:
				if ev.Key == termbox.KeyEsc || ev.Ch == 'q' {
					return nil
				}
				if ev.Key == termbox.KeySpace {
					t.paused = !t.paused
				}
			case termbox.EventMouse:
				if ev.Key == termbox.MouseLeft {
					t.paint(ev.MouseX, ev.MouseY, true)
				}
				if ev.Key == termbox.MouseRight {
					t.paint(ev.MouseX, ev.MouseY, false)
				}
			case termbox.EventResize:
				t.reallocBackBuffer(ev.Width, ev.Height)
			}
		case <-ticker.C:
			if !t.paused {
				for i := 0; i < t.StepsPerFrame; i++ {
					t.solver.Step()
				}
				if t.solver.Unstable() {
					logrus.Warn("simulation unstable, pausing")
					t.paused = true
				}
			}
			t.redraw()
		}
	}
}

func (t *Terminal) reallocBackBuffer(w, h int) {
	t.bbw, t.bbh = w, h
	t.backbuf = make([]termbox.Cell, w*h)
}

// paint maps a terminal coordinate to a grid cell and toggles it. A brush
// of one cell is enough at terminal resolutions.
func (t *Terminal) paint(mx, my int, solid bool) {
	gx, gy := t.toGrid(mx, my)
	t.solver.SetObstacle(gx, gy, solid)
}

func (t *Terminal) toGrid(mx, my int) (int, int) {
	if t.bbw == 0 || t.bbh == 0 {
		return -1, -1
	}
	gx := mx * t.solver.Width() / t.bbw
	gy := my * t.solver.Height() / t.bbh
	return gx, gy
}

func (t *Terminal) redraw() {
	termbox.Clear(termbox.ColorDefault, termbox.ColorDefault)

	for ty := 0; ty < t.bbh; ty++ {
		for tx := 0; tx < t.bbw; tx++ {
			gx, gy := t.toGrid(tx, ty)
			if t.solver.IsObstacle(gx, gy) {
				termbox.SetCell(tx, ty, '█', termbox.ColorWhite, termbox.ColorDefault)
				continue
			}
			speed2 := t.solver.Speed2(gx, gy)
			termbox.SetCell(tx, ty, t.glyph(speed2), t.color(speed2), termbox.ColorDefault)
		}
	}

	for _, p := range t.solver.Particles() {
		tx := int(p.X) * t.bbw / t.solver.Width()
		ty := int(p.Y) * t.bbh / t.solver.Height()
		if tx >= 0 && tx < t.bbw && ty >= 0 && ty < t.bbh {
			termbox.SetCell(tx, ty, '•', termbox.ColorWhite, termbox.ColorDefault)
		}
	}

	status := fmt.Sprintf(" step %d  drag %.5f  lift %.5f ", t.solver.StepCount(), t.solver.DragForce(), t.solver.LiftForce())
	if t.paused {
		status += "[paused] "
	}
	for i, r := range status {
		if i >= t.bbw {
			break
		}
		termbox.SetCell(i, 0, r, termbox.ColorBlack, termbox.ColorWhite)
	}

	termbox.Flush()
}

// glyph picks a ramp character for a squared speed, saturating around the
// default inlet magnitude.
func (t *Terminal) glyph(speed2 float64) rune {
	n := speed2 / 0.01 // |u| ~ 0.1 maps to full scale
	if n > 1 {
		n = 1
	}
	i := int(n * float64(len(speedRamp)-1))
	return speedRamp[i]
}

func (t *Terminal) color(speed2 float64) termbox.Attribute {
	switch {
	case speed2 > 0.0075:
		return termbox.ColorRed
	case speed2 > 0.005:
		return termbox.ColorYellow
	case speed2 > 0.0025:
		return termbox.ColorGreen
	default:
		return termbox.ColorBlue
	}
}
