package keyboard_test

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tecla-dev/tecla"
	"github.com/tecla-dev/tecla/driver/drivertest"
	"github.com/tecla-dev/tecla/keyboard"
)

func waitJoin(t *testing.T, join func() error) error {
	t.Helper()
	ch := make(chan error, 1)
	go func() { ch <- join() }()
	select {
	case err := <-ch:
		return err
	case <-time.After(3 * time.Second):
		t.Fatal("join timeout")
		return nil
	}
}

func TestListenerDispatch(t *testing.T) {
	src := drivertest.NewKeySource()
	presses := make(chan keyboard.Event, 8)
	releases := make(chan keyboard.Event, 8)
	l, err := keyboard.NewListener(keyboard.ListenerConfig{
		OnPress: func(ev keyboard.Event) (tecla.Action, error) {
			presses <- ev
			return tecla.Continue, nil
		},
		OnRelease: func(ev keyboard.Event) (tecla.Action, error) {
			releases <- ev
			return tecla.Continue, nil
		},
		Source: src.Opener,
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := l.Start(); err != nil {
		t.Fatal(err)
	}
	l.Wait()

	src.PressChar('a')
	src.ReleaseChar('a')
	src.PressKey(keyboard.KeyEsc)

	ev := <-presses
	if ev.Code.Char != "a" {
		t.Fatalf("press %v", ev)
	}
	ev = <-releases
	if ev.Code.Char != "a" {
		t.Fatalf("release %v", ev)
	}
	ev = <-presses
	if ev.Code.Key != keyboard.KeyEsc {
		t.Fatalf("press %v", ev)
	}

	l.Stop()
	if err := waitJoin(t, l.Join); err != nil {
		t.Fatal(err)
	}
}

func TestListenerStopAction(t *testing.T) {
	src := drivertest.NewKeySource()
	l, err := keyboard.NewListener(keyboard.ListenerConfig{
		OnPress: func(ev keyboard.Event) (tecla.Action, error) {
			return tecla.Stop, nil
		},
		Source: src.Opener,
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := l.Start(); err != nil {
		t.Fatal(err)
	}
	l.Wait()
	src.PressChar('q')
	if err := waitJoin(t, l.Join); err != nil {
		t.Fatal(err)
	}
}

func TestListenerNotifierEcho(t *testing.T) {
	// controller-injected events reach the listener through the notifier
	// on backends without native echo
	notify := tecla.NewNotifier()
	fk := drivertest.NewKeyboard()
	ctrl := keyboard.NewController(fk, notify)

	src := drivertest.NewKeySource()
	presses := make(chan keyboard.Event, 8)
	l, err := keyboard.NewListener(keyboard.ListenerConfig{
		OnPress: func(ev keyboard.Event) (tecla.Action, error) {
			presses <- ev
			return tecla.Continue, nil
		},
		Source:   src.Opener,
		Notifier: notify,
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := l.Start(); err != nil {
		t.Fatal(err)
	}
	l.Wait()

	if err := ctrl.Tap(keyboard.Char('z')); err != nil {
		t.Fatal(err)
	}
	select {
	case ev := <-presses:
		if ev.Code.Char != "z" {
			t.Fatalf("press %v", ev)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("no echoed event")
	}

	l.Stop()
	if err := waitJoin(t, l.Join); err != nil {
		t.Fatal(err)
	}
	// after Stop the listener is detached
	if err := ctrl.Tap(keyboard.Char('z')); err != nil {
		t.Fatal(err)
	}
}

func TestListenerSerializedCallbacks(t *testing.T) {
	// source-pumped and notifier-echoed events arrive on different
	// goroutines; the listener must never run two callbacks at once
	notify := tecla.NewNotifier()
	src := drivertest.NewKeySource()

	const n = 200
	var inFlight, overlaps, calls int32
	l, err := keyboard.NewListener(keyboard.ListenerConfig{
		OnPress: func(ev keyboard.Event) (tecla.Action, error) {
			if atomic.AddInt32(&inFlight, 1) != 1 {
				atomic.AddInt32(&overlaps, 1)
			}
			atomic.AddInt32(&calls, 1)
			atomic.AddInt32(&inFlight, -1)
			return tecla.Continue, nil
		},
		Source:   src.Opener,
		Notifier: notify,
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := l.Start(); err != nil {
		t.Fatal(err)
	}
	l.Wait()

	wg := sync.WaitGroup{}
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			src.PressChar('a')
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			notify.Notify(keyboard.Event{Code: keyboard.FromChar('b'), Press: true})
		}
	}()
	wg.Wait()

	if got := atomic.LoadInt32(&overlaps); got != 0 {
		t.Fatalf("%d overlapping callback invocations", got)
	}
	if got := atomic.LoadInt32(&calls); got != 2*n {
		t.Fatalf("calls: %d", got)
	}

	l.Stop()
	if err := waitJoin(t, l.Join); err != nil {
		t.Fatal(err)
	}
}

func TestGlobalHotKeysConcurrentSources(t *testing.T) {
	// hammering the hotkey state from the pump and the notifier at once;
	// unserialized dispatch would corrupt the pressed set
	notify := tecla.NewNotifier()
	src := drivertest.NewKeySource()
	fired := make(chan struct{}, 1024)
	g, err := keyboard.NewGlobalHotKeys(map[string]func(){
		"<ctrl>+h": func() { fired <- struct{}{} },
	}, keyboard.ListenerConfig{Source: src.Opener, Notifier: notify})
	if err != nil {
		t.Fatal(err)
	}
	if err := g.Start(); err != nil {
		t.Fatal(err)
	}
	g.Wait()

	wg := sync.WaitGroup{}
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			src.PressKey(keyboard.KeyCtrlL)
			src.PressChar('h')
			src.ReleaseChar('h')
			src.ReleaseKey(keyboard.KeyCtrlL)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			notify.Notify(keyboard.Event{Code: keyboard.FromChar('h'), Press: true})
			notify.Notify(keyboard.Event{Code: keyboard.FromChar('h'), Press: false})
		}
	}()
	wg.Wait()

	for len(fired) > 0 {
		<-fired
	}
	// a clean sequence still fires exactly once
	src.ReleaseChar('h')
	src.ReleaseKey(keyboard.KeyCtrlL)
	src.PressKey(keyboard.KeyCtrlL)
	src.PressChar('h')
	select {
	case <-fired:
	case <-time.After(3 * time.Second):
		t.Fatal("hotkey did not fire")
	}
	if len(fired) != 0 {
		t.Fatalf("fired %d extra times", len(fired)+1)
	}

	g.Stop()
	if err := waitJoin(t, g.Join); err != nil {
		t.Fatal(err)
	}
}

func TestGlobalHotKeys(t *testing.T) {
	src := drivertest.NewKeySource()
	fired := make(chan string, 8)
	g, err := keyboard.NewGlobalHotKeys(map[string]func(){
		"<ctrl>+<shift>+h": func() { fired <- "h" },
		"<esc>":            func() { fired <- "esc" },
	}, keyboard.ListenerConfig{Source: src.Opener})
	if err != nil {
		t.Fatal(err)
	}
	if err := g.Start(); err != nil {
		t.Fatal(err)
	}
	g.Wait()

	src.PressKey(keyboard.KeyCtrlL) // sided press matches the generic binding
	src.PressKey(keyboard.KeyShift)
	src.PressChar('H') // uppercase from shift, folds back to 'h'

	select {
	case got := <-fired:
		if got != "h" {
			t.Fatalf("fired %q", got)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("hotkey did not fire")
	}

	src.ReleaseChar('H')
	src.ReleaseKey(keyboard.KeyShift)
	src.ReleaseKey(keyboard.KeyCtrlL)

	src.PressKey(keyboard.KeyEsc)
	select {
	case got := <-fired:
		if got != "esc" {
			t.Fatalf("fired %q", got)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("hotkey did not fire")
	}

	g.Stop()
	if err := waitJoin(t, g.Join); err != nil {
		t.Fatal(err)
	}
}
