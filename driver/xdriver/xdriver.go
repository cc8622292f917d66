// Package xdriver implements the X11 backend: synthesis through XTEST and
// XSendEvent, observation through the RECORD extension, and temporary
// keyboard-layout remapping for characters absent from the active layout.
package xdriver

import (
	"os"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
	"github.com/jezek/xgb/xtest"
	"github.com/pkg/errors"
)

// https://tronche.com/gui/x/xlib/input/XGetKeyboardMapping.html
// https://www.x.org/releases/X11R7.7/doc/xextproto/record.html

// Display is one X connection plus the setup data the backend needs.
type Display struct {
	Conn   *xgb.Conn
	Setup  *xproto.SetupInfo
	Screen *xproto.ScreenInfo
	Root   xproto.Window
}

// Open connects to the display named by $DISPLAY when display is empty.
func Open(display string) (*Display, error) {
	if display == "" {
		display = os.Getenv("DISPLAY")
	}
	conn, err := xgb.NewConnDisplay(display)
	if err != nil {
		return nil, errors.Wrap(err, "x conn")
	}
	if err := xtest.Init(conn); err != nil {
		conn.Close()
		return nil, errors.Wrap(err, "xtest init")
	}
	si := xproto.Setup(conn)
	screen := si.DefaultScreen(conn)
	return &Display{
		Conn:   conn,
		Setup:  si,
		Screen: screen,
		Root:   screen.Root,
	}, nil
}

func (d *Display) Close() error {
	d.Conn.Close()
	return nil
}

// Sync forces a round trip, flushing buffered requests and making prior
// unchecked errors surface on the server side.
func (d *Display) Sync() {
	_, _ = xproto.GetInputFocus(d.Conn).Reply()
}

// focus returns the window keyboard events should be sent to.
func (d *Display) focus() (xproto.Window, error) {
	reply, err := xproto.GetInputFocus(d.Conn).Reply()
	if err != nil {
		return 0, errors.Wrap(err, "get input focus")
	}
	w := reply.Focus
	// PointerRoot and None are not real windows
	if w == xproto.InputFocusPointerRoot || w == xproto.InputFocusNone {
		w = d.Root
	}
	return w, nil
}
