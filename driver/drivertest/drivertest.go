// Package drivertest provides in-memory stand-ins for the native driver
// collaborators: a recording keyboard emitter, a scriptable event source
// and a fake X11 layout for borrow-table tests.
package drivertest

import (
	"strings"
	"sync"

	"github.com/tecla-dev/tecla"
	"github.com/tecla-dev/tecla/keyboard"
)

// Emission is one key event captured by the fake emitter.
type Emission struct {
	Code  keyboard.KeyCode
	Press bool
	Mods  keyboard.Modifiers
}

// Keyboard records emitted key events. FailFor makes specific codes
// unresolvable, which exercises the controller's dead-key fallback.
type Keyboard struct {
	mu      sync.Mutex
	events  []Emission
	failFor map[string]bool // by Char
}

func NewKeyboard() *Keyboard {
	return &Keyboard{failFor: map[string]bool{}}
}

// FailFor marks a character as unresolvable.
func (k *Keyboard) FailFor(char string) {
	k.mu.Lock()
	k.failFor[char] = true
	k.mu.Unlock()
}

func (k *Keyboard) EmitKey(code keyboard.KeyCode, press bool, mods keyboard.Modifiers) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	if code.Char != "" && k.failFor[code.Char] {
		return &keyboard.InvalidKeyError{Code: code}
	}
	k.events = append(k.events, Emission{Code: code, Press: press, Mods: mods})
	return nil
}

// Events returns a copy of the captured emissions.
func (k *Keyboard) Events() []Emission {
	k.mu.Lock()
	defer k.mu.Unlock()
	return append([]Emission{}, k.events...)
}

// Reset drops the captured emissions.
func (k *Keyboard) Reset() {
	k.mu.Lock()
	k.events = nil
	k.mu.Unlock()
}

// Text reconstructs typed text from the captured press events: the inverse
// mapping of Controller.Type. Enter and tab map back to their control
// codes; other symbolic keys are skipped.
func (k *Keyboard) Text() string {
	b := strings.Builder{}
	for _, e := range k.Events() {
		if !e.Press {
			continue
		}
		switch {
		case e.Code.Key == keyboard.KeyEnter:
			b.WriteByte('\n')
		case e.Code.Key == keyboard.KeyTab:
			b.WriteByte('\t')
		case e.Code.Char != "" && !e.Code.IsDead:
			b.WriteString(e.Code.Char)
		}
	}
	return b.String()
}

//----------

// Source is a scriptable tecla.Source. Run blocks on the optional install
// gate before signaling readiness, then blocks until Close.
type Source struct {
	// Gate, when set, delays installation until it is closed.
	Gate chan struct{}

	done     chan struct{}
	stopOnce sync.Once
}

func NewSource() *Source {
	return &Source{done: make(chan struct{})}
}

func (s *Source) Run(ready func()) error {
	if s.Gate != nil {
		<-s.Gate
	}
	ready()
	<-s.done
	return nil
}

func (s *Source) Close() error {
	s.stopOnce.Do(func() { close(s.done) })
	return nil
}

//----------

// KeySource bundles a Source with the deliver func captured from the
// listener, so tests can feed synthetic key events.
type KeySource struct {
	*Source
	mu      sync.Mutex
	deliver func(keyboard.Event)
}

func NewKeySource() *KeySource {
	return &KeySource{Source: NewSource()}
}

// Opener is plugged into keyboard.ListenerConfig.Source.
func (s *KeySource) Opener(cfg keyboard.SourceConfig) (tecla.Source, error) {
	s.mu.Lock()
	s.deliver = cfg.Deliver
	s.mu.Unlock()
	return s.Source, nil
}

// Send delivers one event as if it came from the native pump.
func (s *KeySource) Send(ev keyboard.Event) {
	s.mu.Lock()
	deliver := s.deliver
	s.mu.Unlock()
	if deliver != nil {
		deliver(ev)
	}
}

// PressKey/ReleaseKey feed symbolic key transitions.
func (s *KeySource) PressKey(k keyboard.Key) {
	s.Send(keyboard.Event{Code: k.Code(), Press: true})
}

func (s *KeySource) ReleaseKey(k keyboard.Key) {
	s.Send(keyboard.Event{Code: k.Code(), Press: false})
}

// PressChar/ReleaseChar feed character key transitions.
func (s *KeySource) PressChar(r rune) {
	s.Send(keyboard.Event{Code: keyboard.FromChar(r), Press: true})
}

func (s *KeySource) ReleaseChar(r rune) {
	s.Send(keyboard.Event{Code: keyboard.FromChar(r), Press: false})
}
