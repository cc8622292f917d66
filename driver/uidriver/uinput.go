//go:build linux

package uidriver

import (
	"encoding/binary"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"

	"github.com/tecla-dev/tecla/keyboard"
	"github.com/tecla-dev/tecla/mouse"
)

// uinput ioctls, from linux/uinput.h
const (
	uiSetEvBit   = 0x40045564
	uiSetKeyBit  = 0x40045565
	uiSetRelBit  = 0x40045566
	uiDevCreate  = 0x5501
	uiDevDestroy = 0x5502
)

const (
	// legacy uinput_user_dev: name[80], input_id (4 u16), ff_effects_max
	// u32, four abs arrays of 64 i32
	userDevSize = 80 + 8 + 4 + 4*64*4

	inputEventSize = 24 // 64-bit timeval + type + code + value
)

// device is one virtual uinput device.
type device struct {
	fd int
}

func openDevice(name string, withRel bool) (*device, error) {
	fd, err := unix.Open("/dev/uinput", unix.O_WRONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		return nil, errors.Wrap(err, "open /dev/uinput")
	}
	d := &device{fd: fd}

	setBit := func(req uint, value int) error {
		return unix.IoctlSetInt(fd, req, value)
	}
	if err := setBit(uiSetEvBit, evKey); err != nil {
		d.destroy()
		return nil, errors.Wrap(err, "set ev bit")
	}
	for code := 1; code < 0x100; code++ {
		if err := setBit(uiSetKeyBit, code); err != nil {
			d.destroy()
			return nil, errors.Wrap(err, "set key bit")
		}
	}
	if withRel {
		for _, btn := range []int{btnLeft, btnRight, btnMiddle, btnSide, btnExtra} {
			if err := setBit(uiSetKeyBit, btn); err != nil {
				d.destroy()
				return nil, errors.Wrap(err, "set button bit")
			}
		}
		if err := setBit(uiSetEvBit, evRel); err != nil {
			d.destroy()
			return nil, errors.Wrap(err, "set rel ev bit")
		}
		for _, rel := range []int{relX, relY, relWheel, relHWheel} {
			if err := setBit(uiSetRelBit, rel); err != nil {
				d.destroy()
				return nil, errors.Wrap(err, "set rel bit")
			}
		}
	}

	// legacy setup record, accepted by every kernel with uinput
	buf := make([]byte, userDevSize)
	copy(buf, name)
	binary.LittleEndian.PutUint16(buf[80:], 0x03)   // BUS_USB
	binary.LittleEndian.PutUint16(buf[82:], 0x1)    // vendor
	binary.LittleEndian.PutUint16(buf[84:], 0x1)    // product
	binary.LittleEndian.PutUint16(buf[86:], 0x1)    // version
	if _, err := unix.Write(fd, buf); err != nil {
		d.destroy()
		return nil, errors.Wrap(err, "write device setup")
	}
	if err := unix.IoctlSetInt(fd, uiDevCreate, 0); err != nil {
		d.destroy()
		return nil, errors.Wrap(err, "create device")
	}
	return d, nil
}

func (d *device) emit(typ, code uint16, value int32) error {
	buf := make([]byte, inputEventSize)
	binary.LittleEndian.PutUint16(buf[16:], typ)
	binary.LittleEndian.PutUint16(buf[18:], code)
	binary.LittleEndian.PutUint32(buf[20:], uint32(value))
	_, err := unix.Write(d.fd, buf)
	return errors.Wrap(err, "write input event")
}

func (d *device) key(code uint16, press bool) error {
	v := int32(keyUp)
	if press {
		v = keyDown
	}
	return d.emit(evKey, code, v)
}

func (d *device) syn() error {
	return d.emit(evSyn, synReport, 0)
}

func (d *device) destroy() {
	_ = unix.IoctlSetInt(d.fd, uiDevDestroy, 0)
	_ = unix.Close(d.fd)
}

//----------

// Keyboard implements keyboard.Emitter over a uinput device. Characters
// resolve through the console layout; missing shift or AltGr state is
// pressed around the key and restored afterwards.
type Keyboard struct {
	mu     sync.Mutex
	dev    *device
	layout *Layout
}

func NewKeyboard() (*Keyboard, error) {
	layout, err := LoadLayout()
	if err != nil {
		return nil, err
	}
	dev, err := openDevice("tecla virtual keyboard", false)
	if err != nil {
		return nil, err
	}
	return &Keyboard{dev: dev, layout: layout}, nil
}

func (k *Keyboard) Close() error {
	k.dev.destroy()
	return nil
}

func (k *Keyboard) EmitKey(code keyboard.KeyCode, press bool, mods keyboard.Modifiers) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	defer k.dev.syn()

	if kc, ok := keyCodes[code.Key]; ok {
		return k.dev.key(kc, press)
	}
	if code.VK != 0 {
		return k.dev.key(uint16(code.VK), press)
	}

	// dead keys type their standalone character when the layout holds it
	rs := []rune(code.Char)
	if len(rs) != 1 {
		return &keyboard.InvalidKeyError{Code: code}
	}
	slot, ok := k.layout.ForChar(rs[0])
	if !ok {
		return &keyboard.InvalidKeyError{Code: code}
	}

	var restore []func()
	adjust := func(kc uint16, want, have bool) error {
		if want == have {
			return nil
		}
		if err := k.dev.key(kc, want); err != nil {
			return err
		}
		restore = append(restore, func() { _ = k.dev.key(kc, have) })
		return nil
	}
	if press {
		if err := adjust(keyCodes[keyboard.KeyShift], slot.shift, mods.Has(keyboard.ModShift)); err != nil {
			return err
		}
		if err := adjust(keyCodes[keyboard.KeyAltGr], slot.altGr, mods.Has(keyboard.ModAltGr)); err != nil {
			return err
		}
	}
	err := k.dev.key(slot.code, press)
	for i := len(restore) - 1; i >= 0; i-- {
		restore[i]()
	}
	return err
}

//----------

// Mouse implements mouse.Emitter over a uinput device. uinput has no
// global pointer query, so the position is tracked per device starting at
// the origin; MoveTo degrades to a tracked-relative move.
type Mouse struct {
	mu   sync.Mutex
	dev  *device
	x, y int
}

func NewMouse() (*Mouse, error) {
	dev, err := openDevice("tecla virtual mouse", true)
	if err != nil {
		return nil, err
	}
	return &Mouse{dev: dev}, nil
}

func (m *Mouse) Close() error {
	m.dev.destroy()
	return nil
}

func (m *Mouse) Position() (int, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.x, m.y, nil
}

func (m *Mouse) MoveTo(x, y int) error {
	m.mu.Lock()
	dx, dy := x-m.x, y-m.y
	m.mu.Unlock()
	return m.MoveBy(dx, dy)
}

func (m *Mouse) MoveBy(dx, dy int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.dev.emit(evRel, relX, int32(dx)); err != nil {
		return err
	}
	if err := m.dev.emit(evRel, relY, int32(dy)); err != nil {
		return err
	}
	m.x += dx
	m.y += dy
	return m.dev.syn()
}

var mouseButtons = map[mouse.Button]uint16{
	mouse.Left:   btnLeft,
	mouse.Middle: btnMiddle,
	mouse.Right:  btnRight,
	mouse.X1:     btnSide,
	mouse.X2:     btnExtra,
}

func (m *Mouse) EmitButton(b mouse.Button, press bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	code, ok := mouseButtons[b]
	if !ok {
		return errors.Errorf("uidriver: no button code for %v", b)
	}
	if err := m.dev.key(code, press); err != nil {
		return err
	}
	return m.dev.syn()
}

func (m *Mouse) EmitScroll(dx, dy int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if dy != 0 {
		if err := m.dev.emit(evRel, relWheel, int32(dy)); err != nil {
			return err
		}
	}
	if dx != 0 {
		if err := m.dev.emit(evRel, relHWheel, int32(dx)); err != nil {
			return err
		}
	}
	return m.dev.syn()
}
