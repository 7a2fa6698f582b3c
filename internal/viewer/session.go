// Package viewer owns one load/view session: the window, renderer, camera,
// loaded robot model, and the interaction wiring between them, constructed
// and torn down as a unit.
package viewer

import (
	"context"
	"fmt"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/armlab/robotview/internal/assets"
	"github.com/armlab/robotview/internal/config"
	"github.com/armlab/robotview/internal/engine/camera"
	"github.com/armlab/robotview/internal/engine/highlight"
	"github.com/armlab/robotview/internal/engine/input"
	"github.com/armlab/robotview/internal/engine/interact"
	"github.com/armlab/robotview/internal/engine/renderer"
	"github.com/armlab/robotview/internal/engine/window"
	"github.com/armlab/robotview/internal/logger"
	"github.com/armlab/robotview/internal/robot"
)

// Events are optional notifications a host can observe. All fields may be
// nil.
type Events struct {
	JointChanged       func(name string, value float64)
	OrientationChanged func(axis robot.UpAxis)
	PoseReset          func()
}

// Session is the single active viewer session. All mutation happens on the
// frame-loop goroutine; nothing here is safe for concurrent use.
type Session struct {
	cfg    *config.Config
	events Events

	win  *window.Window
	rend *renderer.Renderer
	cam  *camera.Orbit
	in   *input.Input

	model       *robot.Model
	highlighter *highlight.Highlighter
	ctrl        *interact.Controller

	orbiting bool
	lastX    int
	lastY    int
	closed   bool
}

// New creates the window, GL context, and renderer for one session.
func New(cfg *config.Config, events Events) (*Session, error) {
	s := &Session{cfg: cfg, events: events}

	var err error
	s.win, err = window.New(window.Config{
		Title:  "robotview",
		Width:  cfg.Graphics.Width,
		Height: cfg.Graphics.Height,
		VSync:  cfg.Graphics.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("creating window: %w", err)
	}

	s.rend, err = renderer.New(renderer.Config{
		Width:  cfg.Graphics.Width,
		Height: cfg.Graphics.Height,
	})
	if err != nil {
		s.win.Close()
		return nil, fmt.Errorf("creating renderer: %w", err)
	}

	s.cam = camera.NewOrbit(float32(cfg.Graphics.Width) / float32(cfg.Graphics.Height))
	s.in = input.New()
	return s, nil
}

// LoadRobot replaces any current model with one built from the description
// and bundle. The previous model is fully torn down first.
func (s *Session) LoadRobot(doc []byte, bundle *assets.Bundle) error {
	s.teardownModel()

	m, err := robot.Load(doc, bundle, robot.Options{Logger: logger.Log})
	if err != nil {
		return err
	}
	s.model = m
	s.highlighter = highlight.New()
	s.ctrl = interact.New(m, interact.Callbacks{
		OnHover:       s.highlighter.Highlight,
		OnUnhover:     s.highlighter.Unhighlight,
		OnJointChange: s.events.JointChanged,
		RequestRender: s.renderNow,
	})
	w, h := s.win.Size()
	s.ctrl.SetViewport(w, h)

	s.setUpAxis(s.cfg.Viewer.ParsedUpAxis())
	return nil
}

// Model returns the loaded model, nil before the first successful load.
func (s *Session) Model() *robot.Model {
	return s.model
}

// Run drives the frame loop until the window closes or the context is
// canceled. Input, state mutation, and rendering all happen here, strictly
// ordered within each frame.
func (s *Session) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if quit := s.in.Update(); quit {
			return nil
		}
		for _, e := range s.in.Events() {
			s.handleEvent(e)
		}
		s.renderNow()
	}
}

func (s *Session) handleEvent(e input.Event) {
	switch e.Type {
	case input.EventWindowResize:
		s.rend.Resize(e.Width, e.Height)
		s.cam.SetAspect(float32(e.Width) / float32(e.Height))
		if s.ctrl != nil {
			s.ctrl.SetViewport(e.Width, e.Height)
		}

	case input.EventMouseMove:
		if s.orbiting {
			s.cam.HandleDrag(float32(e.MouseX-s.lastX), float32(e.MouseY-s.lastY))
		} else if s.ctrl != nil {
			s.ctrl.PointerMove(float32(e.MouseX), float32(e.MouseY), s.cam.InverseViewProjection())
		}
		s.lastX, s.lastY = e.MouseX, e.MouseY

	case input.EventMouseDown:
		switch e.Button {
		case sdl.BUTTON_LEFT:
			if s.ctrl != nil {
				s.ctrl.PointerDown(float32(e.MouseX), float32(e.MouseY))
			}
		case sdl.BUTTON_RIGHT:
			s.orbiting = true
			s.lastX, s.lastY = e.MouseX, e.MouseY
		}

	case input.EventMouseUp:
		switch e.Button {
		case sdl.BUTTON_LEFT:
			if s.ctrl != nil {
				s.ctrl.PointerUp()
			}
		case sdl.BUTTON_RIGHT:
			s.orbiting = false
		}

	case input.EventMouseWheel:
		s.cam.HandleZoom(e.Wheel)

	case input.EventMouseLeave:
		if s.ctrl != nil {
			s.ctrl.PointerLeave()
		}

	case input.EventKeyDown:
		s.handleKey(e.Key)
	}
}

func (s *Session) handleKey(key sdl.Scancode) {
	if s.model == nil {
		return
	}
	switch key {
	case sdl.SCANCODE_R:
		s.model.ResetAll()
		logger.Info("joint pose reset")
		if s.events.PoseReset != nil {
			s.events.PoseReset()
		}
	case sdl.SCANCODE_X:
		s.setUpAxis(robot.XUp)
	case sdl.SCANCODE_Y:
		s.setUpAxis(robot.YUp)
	case sdl.SCANCODE_Z:
		s.setUpAxis(robot.ZUp)
	}
}

func (s *Session) setUpAxis(axis robot.UpAxis) {
	s.model.SetUpAxis(axis)
	logger.Info("up axis set", zap.Stringer("axis", axis))
	if s.events.OrientationChanged != nil {
		s.events.OrientationChanged(axis)
	}
}

// renderNow draws and presents a frame immediately. Hover and drag changes
// call this through the interaction controller so feedback never waits for
// the next scheduled frame.
func (s *Session) renderNow() {
	if s.model != nil {
		s.rend.DrawScene(s.model.Root, s.cam.ViewMatrix(), s.cam.ProjectionMatrix(), s.cam.Position())
	}
	s.win.SwapBuffers()
}

// teardownModel releases the current model: any live hover highlight is
// undone and the orientation reverted so nothing leaks into the next load.
func (s *Session) teardownModel() {
	if s.model == nil {
		return
	}
	if s.ctrl != nil {
		s.ctrl.PointerLeave()
	}
	s.model.SetUpAxis(robot.ZUp)
	s.model = nil
	s.highlighter = nil
	s.ctrl = nil
}

// Close tears the session down unconditionally: model, GPU resources, then
// the window. Safe to call after a failed Run.
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.closed = true

	s.teardownModel()
	s.rend.Destroy()
	s.win.Close()
}
