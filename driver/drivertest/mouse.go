package drivertest

import (
	"sync"

	"github.com/tecla-dev/tecla"
	"github.com/tecla-dev/tecla/mouse"
)

// ButtonEmission is one button transition captured by the fake mouse.
type ButtonEmission struct {
	Button mouse.Button
	Press  bool
}

// Mouse records synthesized pointer events and tracks a virtual cursor.
type Mouse struct {
	mu      sync.Mutex
	x, y    int
	buttons []ButtonEmission
	scrolls [][2]int
}

func NewMouse() *Mouse {
	return &Mouse{}
}

func (m *Mouse) Position() (int, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.x, m.y, nil
}

func (m *Mouse) MoveTo(x, y int) error {
	m.mu.Lock()
	m.x, m.y = x, y
	m.mu.Unlock()
	return nil
}

func (m *Mouse) MoveBy(dx, dy int) error {
	m.mu.Lock()
	m.x += dx
	m.y += dy
	m.mu.Unlock()
	return nil
}

func (m *Mouse) EmitButton(b mouse.Button, press bool) error {
	m.mu.Lock()
	m.buttons = append(m.buttons, ButtonEmission{Button: b, Press: press})
	m.mu.Unlock()
	return nil
}

func (m *Mouse) EmitScroll(dx, dy int) error {
	m.mu.Lock()
	m.scrolls = append(m.scrolls, [2]int{dx, dy})
	m.mu.Unlock()
	return nil
}

func (m *Mouse) Buttons() []ButtonEmission {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ButtonEmission{}, m.buttons...)
}

func (m *Mouse) Scrolls() [][2]int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][2]int{}, m.scrolls...)
}

//----------

// MouseSource bundles a Source with the deliver func captured from the
// listener, so tests can feed synthetic pointer events.
type MouseSource struct {
	*Source
	mu      sync.Mutex
	deliver func(mouse.Event)
}

func NewMouseSource() *MouseSource {
	return &MouseSource{Source: NewSource()}
}

// Opener is plugged into mouse.ListenerConfig.Source.
func (s *MouseSource) Opener(cfg mouse.SourceConfig) (tecla.Source, error) {
	s.mu.Lock()
	s.deliver = cfg.Deliver
	s.mu.Unlock()
	return s.Source, nil
}

// Send delivers one event as if it came from the native pump.
func (s *MouseSource) Send(ev mouse.Event) {
	s.mu.Lock()
	deliver := s.deliver
	s.mu.Unlock()
	if deliver != nil {
		deliver(ev)
	}
}
