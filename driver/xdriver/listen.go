package xdriver

import (
	"encoding/binary"
	"sync"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/record"
	"github.com/jezek/xgb/xproto"
	"github.com/pkg/errors"

	"github.com/tecla-dev/tecla"
	"github.com/tecla-dev/tecla/keyboard"
	"github.com/tecla-dev/tecla/mouse"
)

// rawEvent is one core protocol event as carried in a RECORD data reply:
// a fixed 32-byte wire block.
type rawEvent struct {
	code   byte
	detail byte
	state  uint16
	rootX  int16
	rootY  int16
}

const rawEventSize = 32

func parseRawEvent(b []byte) rawEvent {
	return rawEvent{
		code:   b[0] & 0x7f,
		detail: b[1],
		state:  binary.LittleEndian.Uint16(b[28:30]),
		rootX:  int16(binary.LittleEndian.Uint16(b[20:22])),
		rootY:  int16(binary.LittleEndian.Uint16(b[22:24])),
	}
}

//----------

// recordSource runs a RECORD context over two connections: the context is
// created and torn down on the control connection while the data
// connection blocks delivering intercepted events. Closing disables the
// context from the control connection, which wakes the data stream up.
type recordSource struct {
	firstEvent byte
	lastEvent  byte

	// onStart runs on the control connection before readiness.
	onStart func(control *xgb.Conn) error
	onEvent func(ev rawEvent)

	// suppress installs a grab so observed events stop reaching clients.
	suppress bool
	grab     func(control *xgb.Conn, root xproto.Window) error
	ungrab   func(control *xgb.Conn)

	mu      sync.Mutex
	closed  bool
	control *xgb.Conn
	ctx     record.Context
}

func (s *recordSource) Run(ready func()) error {
	control, err := xgb.NewConnDisplay("")
	if err != nil {
		return errors.Wrap(err, "record control conn")
	}
	defer control.Close()
	data, err := xgb.NewConnDisplay("")
	if err != nil {
		return errors.Wrap(err, "record data conn")
	}
	defer data.Close()
	if err := record.Init(control); err != nil {
		return errors.Wrap(err, "record init")
	}
	if err := record.Init(data); err != nil {
		return errors.Wrap(err, "record init")
	}

	ctx, err := record.NewContextId(control)
	if err != nil {
		return errors.Wrap(err, "record context id")
	}
	ranges := []record.Range{{
		DeviceEvents: record.Range8{First: s.firstEvent, Last: s.lastEvent},
	}}
	specs := []record.ClientSpec{record.CsAllClients}
	err = record.CreateContextChecked(control, ctx, 0,
		uint32(len(specs)), uint32(len(ranges)), specs, ranges).Check()
	if err != nil {
		return errors.Wrap(err, "record create context")
	}

	root := xproto.Setup(control).DefaultScreen(control).Root

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		record.FreeContext(control, ctx)
		return nil
	}
	s.control = control
	s.ctx = ctx
	s.mu.Unlock()

	if s.onStart != nil {
		if err := s.onStart(control); err != nil {
			return err
		}
	}
	if s.suppress && s.grab != nil {
		if err := s.grab(control, root); err != nil {
			return errors.Wrap(err, "grab")
		}
	}

	ready()

	cookie := record.EnableContext(data, ctx)
	var loopErr error
	for {
		reply, err := cookie.Reply()
		if err != nil {
			if !s.isClosed() {
				loopErr = errors.Wrap(err, "record enable context")
			}
			break
		}
		if reply == nil || reply.Category == 5 { // EndOfData
			break
		}
		if reply.Category != 0 { // only FromServer carries device events
			continue
		}
		for buf := reply.Data; len(buf) >= rawEventSize; buf = buf[rawEventSize:] {
			ev := parseRawEvent(buf)
			if ev.code >= s.firstEvent && ev.code <= s.lastEvent {
				s.onEvent(ev)
			}
		}
	}

	if s.suppress && s.ungrab != nil {
		s.ungrab(control)
	}
	record.FreeContext(control, ctx)
	return loopErr
}

func (s *recordSource) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *recordSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if s.control != nil {
		// disable from the control connection; the data stream sees
		// EndOfData and the pump loop exits
		record.DisableContext(s.control, s.ctx)
		_, _ = xproto.GetInputFocus(s.control).Reply()
	}
	return nil
}

//----------

// NewKeyboardSource opens a RECORD source translating key events. Plugged
// into keyboard.ListenerConfig.Source.
func NewKeyboardSource(cfg keyboard.SourceConfig) (tecla.Source, error) {
	s := &keyboardSource{deliver: cfg.Deliver}
	s.recordSource = recordSource{
		firstEvent: xproto.KeyPress,
		lastEvent:  xproto.KeyRelease,
		suppress:   cfg.Suppress,
		onStart:    s.start,
		onEvent:    s.handle,
		grab: func(control *xgb.Conn, root xproto.Window) error {
			_, err := xproto.GrabKeyboard(control, true, root,
				xproto.TimeCurrentTime, xproto.GrabModeAsync, xproto.GrabModeAsync).Reply()
			return err
		},
		ungrab: func(control *xgb.Conn) {
			xproto.UngrabKeyboard(control, xproto.TimeCurrentTime)
		},
	}
	return s, nil
}

type keyboardSource struct {
	recordSource
	deliver func(keyboard.Event)

	kmap *KMap
}

func (s *keyboardSource) start(control *xgb.Conn) error {
	kmap, err := NewKMap(control)
	if err != nil {
		return err
	}
	s.kmap = kmap
	return nil
}

func (s *keyboardSource) handle(ev rawEvent) {
	code := s.translate(xproto.Keycode(ev.detail), ev.state)
	s.deliver(keyboard.Event{Code: code, Press: ev.code == xproto.KeyPress})
}

// keypad keysyms that observation folds back to their plain equivalents.
var keypadChars = map[xproto.Keysym]rune{
	0xffaa: '*', // KP_Multiply
	0xffab: '+', // KP_Add
	0xffad: '-', // KP_Subtract
	0xffae: ',', // KP_Decimal
	0xffaf: '/', // KP_Divide
}

// translate converts an observed (keycode, state) pair to a KeyCode:
// symbolic keys first, then dead keys, keypad keys, characters, and
// finally the bare keysym as a virtual code.
func (s *keyboardSource) translate(kc xproto.Keycode, state uint16) keyboard.KeyCode {
	index := s.kmap.ShiftToIndex(state)
	// num-lock inverts the shift level on keys whose shifted keysym is a
	// keypad symbol: KP_7 over KP_Home and the like
	if s.kmap.NumLockActive(state) && isKeypad(s.kmap.KeysymAt(kc, index|1)) {
		index ^= 1
	}
	ks := s.kmap.KeysymAt(kc, index)

	if key, ok := keysymKeys[ks]; ok {
		return key.Code()
	}
	if comb, ok := keysymDead[ks]; ok {
		return keyboard.KeyCode{
			Char:      string(deadChars[comb]),
			IsDead:    true,
			Combining: comb,
		}
	}
	if ks >= 0xffb0 && ks <= 0xffb9 { // KP_0..KP_9
		return keyboard.FromChar(rune('0' + ks - 0xffb0))
	}
	if r, ok := keypadChars[ks]; ok {
		return keyboard.FromChar(r)
	}
	if ks == 0xff8d { // KP_Enter
		return keyboard.KeyEnter.Code()
	}
	if r := keysymToRune(ks); r != 0 {
		return keyboard.KeyCode{VK: int(ks), Char: string(r)}
	}
	return keyboard.FromVK(int(ks))
}

//----------

// NewMouseSource opens a RECORD source translating pointer events. Plugged
// into mouse.ListenerConfig.Source.
func NewMouseSource(cfg mouse.SourceConfig) (tecla.Source, error) {
	s := &mouseSource{deliver: cfg.Deliver}
	s.recordSource = recordSource{
		firstEvent: xproto.ButtonPress,
		lastEvent:  xproto.MotionNotify,
		suppress:   cfg.Suppress,
		onEvent:    s.handle,
		grab: func(control *xgb.Conn, root xproto.Window) error {
			mask := uint16(xproto.EventMaskButtonPress |
				xproto.EventMaskButtonRelease |
				xproto.EventMaskPointerMotion)
			_, err := xproto.GrabPointer(control, true, root, mask,
				xproto.GrabModeAsync, xproto.GrabModeAsync,
				xproto.WindowNone, xproto.CursorNone, xproto.TimeCurrentTime).Reply()
			return err
		},
		ungrab: func(control *xgb.Conn) {
			xproto.UngrabPointer(control, xproto.TimeCurrentTime)
		},
	}
	return s, nil
}

type mouseSource struct {
	recordSource
	deliver func(mouse.Event)
}

func (s *mouseSource) handle(ev rawEvent) {
	x, y := int(ev.rootX), int(ev.rootY)
	switch ev.code {
	case xproto.MotionNotify:
		s.deliver(mouse.Event{Kind: mouse.KindMove, X: x, Y: y})
	case xproto.ButtonPress, xproto.ButtonRelease:
		b := detailButtons[ev.detail]
		if b.IsScroll() {
			// wheel motion arrives as pseudo-button taps; one scroll
			// event per press, releases are dropped
			if ev.code != xproto.ButtonPress {
				return
			}
			dx, dy := 0, 0
			switch b {
			case mouse.ScrollUp:
				dy = 1
			case mouse.ScrollDown:
				dy = -1
			case mouse.ScrollLeft:
				dx = -1
			case mouse.ScrollRight:
				dx = 1
			}
			s.deliver(mouse.Event{Kind: mouse.KindScroll, X: x, Y: y, DX: dx, DY: dy})
			return
		}
		s.deliver(mouse.Event{
			Kind:   mouse.KindClick,
			X:      x,
			Y:      y,
			Button: b,
			Press:  ev.code == xproto.ButtonPress,
		})
	}
}
