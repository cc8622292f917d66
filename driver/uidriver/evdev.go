//go:build linux

package uidriver

import (
	"encoding/binary"
	"log"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"

	"github.com/tecla-dev/tecla"
	"github.com/tecla-dev/tecla/keyboard"
	"github.com/tecla-dev/tecla/mouse"
)

// EVIOCGRAB, from linux/input.h; grabbing a device makes the kernel stop
// routing its events to other consumers.
const eviocGrab = 0x40044590

// inputEvent is one evdev record.
type inputEvent struct {
	typ   uint16
	code  uint16
	value int32
}

// evdevSource pumps input events from every /dev/input/event* device into
// a handler, rescanning on fsnotify hotplug events. It implements
// tecla.Source. Devices are opened nonblocking and each reader polls its
// fd together with a wake pipe; Close closes the pipe's write end, which
// wakes every reader regardless of device traffic. close(2) alone would
// not unblock a read parked on a quiet device.
type evdevSource struct {
	handle   func(ev inputEvent)
	suppress bool

	mu      sync.Mutex
	closed  bool
	fds     map[string]int
	events  chan inputEvent
	done    chan struct{}
	wakeR   int
	wakeW   int
	readers sync.WaitGroup
}

func newEvdevSource(suppress bool, handle func(inputEvent)) *evdevSource {
	return &evdevSource{
		handle:   handle,
		suppress: suppress,
		fds:      map[string]int{},
		events:   make(chan inputEvent, 256),
		done:     make(chan struct{}),
		wakeR:    -1,
		wakeW:    -1,
	}
}

func (s *evdevSource) Run(ready func()) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	var pipe [2]int
	if err := unix.Pipe2(pipe[:], unix.O_CLOEXEC); err != nil {
		s.mu.Unlock()
		return errors.Wrap(err, "wake pipe")
	}
	s.wakeR, s.wakeW = pipe[0], pipe[1]
	s.mu.Unlock()
	defer unix.Close(s.wakeR)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "input watcher")
	}
	defer watcher.Close()
	if err := watcher.Add("/dev/input"); err != nil {
		return errors.Wrap(err, "watch /dev/input")
	}

	if err := s.scan(); err != nil {
		return err
	}
	s.mu.Lock()
	n := len(s.fds)
	s.mu.Unlock()
	if n == 0 {
		return errors.New("uidriver: no readable input devices")
	}

	ready()

	for {
		select {
		case <-s.done:
			s.readers.Wait()
			return nil
		case ev := <-s.events:
			s.handle(ev)
		case wev := <-watcher.Events:
			if wev.Op&fsnotify.Create != 0 && eventDevice(wev.Name) {
				// device nodes need a moment before they are readable;
				// opening may still fail and is retried on the next event
				if err := s.open(wev.Name); err != nil {
					log.Printf("uidriver: open %s: %v", wev.Name, err)
				}
			}
			// removal needs no handling here: the kernel flags a removed
			// device's fd in the reader's poll and the reader retires itself
		case err := <-watcher.Errors:
			log.Printf("uidriver: watch: %v", err)
		}
	}
}

func (s *evdevSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	close(s.done)
	// closing the write end makes the wake fd readable in every reader's
	// poll; each reader closes its own device fd on the way out, so a fd
	// number is never reused while a read on it is still possible
	if s.wakeW >= 0 {
		_ = unix.Close(s.wakeW)
		s.wakeW = -1
	}
	return nil
}

//----------

func eventDevice(path string) bool {
	return strings.HasPrefix(filepath.Base(path), "event")
}

func (s *evdevSource) scan() error {
	paths, err := filepath.Glob("/dev/input/event*")
	if err != nil {
		return err
	}
	for _, p := range paths {
		if err := s.open(p); err != nil {
			// devices come and go; unreadable ones are skipped
			log.Printf("uidriver: open %s: %v", p, err)
		}
	}
	return nil
}

func (s *evdevSource) open(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	if _, ok := s.fds[path]; ok {
		return nil
	}
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		return err
	}
	if s.suppress {
		if err := unix.IoctlSetInt(fd, eviocGrab, 1); err != nil {
			_ = unix.Close(fd)
			return errors.Wrap(err, "grab")
		}
	}
	s.fds[path] = fd
	s.readers.Add(1)
	go s.read(path, fd)
	return nil
}

// forget retires one device: the reader owns its fd and closes it here.
func (s *evdevSource) forget(path string, fd int) {
	s.mu.Lock()
	if cur, ok := s.fds[path]; ok && cur == fd {
		delete(s.fds, path)
	}
	s.mu.Unlock()
	_ = unix.Close(fd)
}

// read pumps one device until the device goes away or Close wakes it
// through the wake pipe.
func (s *evdevSource) read(path string, fd int) {
	defer s.readers.Done()
	defer s.forget(path, fd)
	buf := make([]byte, inputEventSize*64)
	pfds := []unix.PollFd{
		{Fd: int32(fd), Events: unix.POLLIN},
		{Fd: int32(s.wakeR), Events: unix.POLLIN},
	}
	for {
		pfds[0].Revents, pfds[1].Revents = 0, 0
		if _, err := unix.Poll(pfds, -1); err != nil {
			if err == unix.EINTR {
				continue
			}
			return
		}
		if pfds[1].Revents != 0 {
			return // woken by Close
		}
		if pfds[0].Revents&(unix.POLLERR|unix.POLLHUP|unix.POLLNVAL) != 0 {
			return // device unplugged
		}
		n, err := unix.Read(fd, buf)
		if err == unix.EAGAIN {
			continue
		}
		if err != nil || n < inputEventSize {
			return
		}
		for off := 0; off+inputEventSize <= n; off += inputEventSize {
			b := buf[off:]
			ev := inputEvent{
				typ:   binary.LittleEndian.Uint16(b[16:18]),
				code:  binary.LittleEndian.Uint16(b[18:20]),
				value: int32(binary.LittleEndian.Uint32(b[20:24])),
			}
			select {
			case s.events <- ev:
			case <-s.done:
				return
			}
		}
	}
}

//----------

// NewKeyboardSource opens an evdev source translating key events. Plugged
// into keyboard.ListenerConfig.Source.
func NewKeyboardSource(cfg keyboard.SourceConfig) (tecla.Source, error) {
	layout, err := LoadLayout()
	if err != nil {
		return nil, err
	}
	t := &keyTranslator{layout: layout, deliver: cfg.Deliver}
	return newEvdevSource(cfg.Suppress, t.handle), nil
}

// keyTranslator tracks the modifier state needed to pick the right layout
// column for observed key codes.
type keyTranslator struct {
	layout  *Layout
	deliver func(keyboard.Event)
	mods    keyboard.Modifiers
}

func (t *keyTranslator) handle(ev inputEvent) {
	if ev.typ != evKey || ev.code >= 0x100 {
		return
	}
	press := ev.value == keyDown || ev.value == keyHold

	if mod, ok := modifierCodes[ev.code]; ok {
		if press {
			t.mods = t.mods.With(mod)
		} else {
			t.mods = t.mods.Without(mod)
		}
	}

	code, ok := t.layout.ForCode(ev.code, t.mods)
	if !ok {
		if k, found := codeKeys[ev.code]; found {
			code = k.Code()
		} else {
			code = keyboard.FromVK(int(ev.code))
		}
	} else if code.Key == keyboard.KeyNone {
		// symbolic keys win over layout characters for the well-known codes
		if k, found := codeKeys[ev.code]; found {
			code = k.Code()
		}
	}
	t.deliver(keyboard.Event{Code: code, Press: press})
}

//----------

// NewMouseSource opens an evdev source translating pointer events.
// Positions are tracked relative to the session origin, as the console has
// no pointer to query.
func NewMouseSource(cfg mouse.SourceConfig) (tecla.Source, error) {
	t := &mouseTranslator{deliver: cfg.Deliver}
	return newEvdevSource(cfg.Suppress, t.handle), nil
}

var buttonCodes = map[uint16]mouse.Button{
	btnLeft:   mouse.Left,
	btnMiddle: mouse.Middle,
	btnRight:  mouse.Right,
	btnSide:   mouse.X1,
	btnExtra:  mouse.X2,
}

type mouseTranslator struct {
	deliver func(mouse.Event)
	x, y    int
}

func (t *mouseTranslator) handle(ev inputEvent) {
	switch ev.typ {
	case evKey:
		b, ok := buttonCodes[ev.code]
		if !ok {
			return
		}
		t.deliver(mouse.Event{
			Kind:   mouse.KindClick,
			X:      t.x,
			Y:      t.y,
			Button: b,
			Press:  ev.value != keyUp,
		})
	case evRel:
		switch ev.code {
		case relX:
			t.x += int(ev.value)
			t.deliver(mouse.Event{Kind: mouse.KindMove, X: t.x, Y: t.y})
		case relY:
			t.y += int(ev.value)
			t.deliver(mouse.Event{Kind: mouse.KindMove, X: t.x, Y: t.y})
		case relWheel:
			t.deliver(mouse.Event{Kind: mouse.KindScroll, X: t.x, Y: t.y, DY: int(ev.value)})
		case relHWheel:
			t.deliver(mouse.Event{Kind: mouse.KindScroll, X: t.x, Y: t.y, DX: int(ev.value)})
		}
	}
}
