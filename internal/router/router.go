package router

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/persona/internal/screen"
)

// PushScreenMsg requests the router to push a new screen onto the stack.
type PushScreenMsg struct {
	Screen screen.Screen
}

// PopScreenMsg requests the router to pop the current screen off the stack.
type PopScreenMsg struct{}

// ReplaceScreenMsg requests the router to swap the top screen.
type ReplaceScreenMsg struct {
	Screen screen.Screen
}

// NavigateMsg requests navigation to a registered path. Data is handed to
// the route's constructor.
type NavigateMsg struct {
	Path string
	Data any
}

// Navigate returns a command that emits a NavigateMsg.
func Navigate(path string, data any) tea.Cmd {
	return func() tea.Msg { return NavigateMsg{Path: path, Data: data} }
}

// Route builds the screen for a path.
type Route func(data any) screen.Screen

// Disposer is implemented by screens that hold timers or other work that
// must stop when they leave the stack.
type Disposer interface {
	Dispose()
}

// Router manages a stack of screens.
type Router struct {
	stack  []screen.Screen
	routes map[string]Route
}

// New creates a new Router with the given initial screen.
func New(initial screen.Screen) *Router {
	return &Router{
		stack:  []screen.Screen{initial},
		routes: make(map[string]Route),
	}
}

// Handle registers the constructor for path.
func (r *Router) Handle(path string, route Route) {
	r.routes[path] = route
}

// Push adds a screen on top of the stack and calls its Init().
func (r *Router) Push(s screen.Screen) tea.Cmd {
	r.stack = append(r.stack, s)
	return s.Init()
}

// Pop removes the top screen. No-op if stack depth would become 0.
func (r *Router) Pop() tea.Cmd {
	if len(r.stack) <= 1 {
		return nil
	}
	dispose(r.stack[len(r.stack)-1])
	r.stack = r.stack[:len(r.stack)-1]
	return nil
}

// Replace swaps the top screen for s and calls its Init().
func (r *Router) Replace(s screen.Screen) tea.Cmd {
	if len(r.stack) == 0 {
		r.stack = append(r.stack, s)
		return s.Init()
	}
	dispose(r.stack[len(r.stack)-1])
	r.stack[len(r.stack)-1] = s
	return s.Init()
}

// Navigate resolves path and makes its screen the only one on the stack.
// Unknown paths are ignored.
func (r *Router) Navigate(path string, data any) tea.Cmd {
	route, ok := r.routes[path]
	if !ok {
		return nil
	}
	for _, s := range r.stack {
		dispose(s)
	}
	s := route(data)
	r.stack = []screen.Screen{s}
	return s.Init()
}

// Active returns the top screen on the stack.
func (r *Router) Active() screen.Screen {
	if len(r.stack) == 0 {
		return nil
	}
	return r.stack[len(r.stack)-1]
}

// Depth returns the number of screens on the stack.
func (r *Router) Depth() int {
	return len(r.stack)
}

// Update forwards a message to the active screen and handles navigation messages.
func (r *Router) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case PushScreenMsg:
		return r.Push(msg.Screen)
	case PopScreenMsg:
		return r.Pop()
	case ReplaceScreenMsg:
		return r.Replace(msg.Screen)
	case NavigateMsg:
		return r.Navigate(msg.Path, msg.Data)
	}

	active := r.Active()
	if active == nil {
		return nil
	}

	updated, cmd := active.Update(msg)
	r.stack[len(r.stack)-1] = updated
	return cmd
}

// View renders the active screen.
func (r *Router) View(width, height int) string {
	active := r.Active()
	if active == nil {
		return ""
	}
	return active.View(width, height)
}

func dispose(s screen.Screen) {
	if d, ok := s.(Disposer); ok {
		d.Dispose()
	}
}
