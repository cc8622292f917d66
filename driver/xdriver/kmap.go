package xdriver

import (
	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
	"github.com/pkg/errors"
)

// https://tronche.com/gui/x/xlib/input/keyboard-encoding.html
//
// xproto.Keycode is a physical key, xproto.Keysym the symbol on one of its
// caps. Each keycode owns a stride of keysyms; the first four are the ones
// addressable through the shift and group (AltGr) modifiers.

// layoutSlot locates one keysym on the layout: the keycode plus the
// modifier state that selects it.
type layoutSlot struct {
	keycode xproto.Keycode
	state   uint16
}

// KMap holds the keyboard and modifier mappings of a display and the
// derived reverse index from keysym to layout slot.
type KMap struct {
	conn *xgb.Conn

	minKeycode xproto.Keycode
	count      int
	stride     int
	keysyms    []xproto.Keysym

	// modifier masks detected from the modifier mapping
	altMask     uint16
	altGrMask   uint16
	numLockMask uint16

	layout map[xproto.Keysym]layoutSlot
}

func NewKMap(conn *xgb.Conn) (*KMap, error) {
	km := &KMap{conn: conn}
	if err := km.ReadMapping(); err != nil {
		return nil, err
	}
	return km, nil
}

// ReadMapping refreshes both mappings from the server. Called again after
// the layout was mutated by the borrow engine.
func (km *KMap) ReadMapping() error {
	if err := km.readKeyboardMapping(); err != nil {
		return err
	}
	if err := km.readModifierMapping(); err != nil {
		return err
	}
	km.layout = buildLayout(km.keysyms, km.stride, km.minKeycode, km.altGrMask)
	return nil
}

func (km *KMap) readKeyboardMapping() error {
	si := xproto.Setup(km.conn)
	count := byte(si.MaxKeycode - si.MinKeycode + 1)
	if count == 0 {
		return errors.New("empty keycode range")
	}
	reply, err := xproto.GetKeyboardMapping(km.conn, si.MinKeycode, count).Reply()
	if err != nil {
		return errors.Wrap(err, "get keyboard mapping")
	}
	if reply.KeysymsPerKeycode < 2 {
		return errors.Errorf("keysyms per keycode: %d", reply.KeysymsPerKeycode)
	}
	km.minKeycode = si.MinKeycode
	km.count = int(count)
	km.stride = int(reply.KeysymsPerKeycode)
	km.keysyms = reply.Keysyms
	return nil
}

// readModifierMapping finds which of the Mod1..Mod5 rows carry alt, AltGr
// and num-lock, by looking for their keysyms on the mapped keycodes.
func (km *KMap) readModifierMapping() error {
	reply, err := xproto.GetModifierMapping(km.conn).Reply()
	if err != nil {
		return errors.Wrap(err, "get modifier mapping")
	}

	km.altMask = xproto.KeyButMaskMod1
	km.altGrMask = 0
	km.numLockMask = 0

	find := func(wanted ...xproto.Keysym) uint16 {
		stride := int(reply.KeycodesPerModifier)
		for row := 3; row < 8; row++ { // Mod1..Mod5
			for _, kc := range reply.Keycodes[row*stride : (row+1)*stride] {
				for _, ks := range km.keycodeKeysyms(kc) {
					for _, w := range wanted {
						if ks == w {
							return 1 << uint(row)
						}
					}
				}
			}
		}
		return 0
	}

	if m := find(xkAltL, xkAltR); m != 0 {
		km.altMask = m
	}
	km.altGrMask = find(xkLevel3Shift, xkLevel5Shift, xkGroupShift)
	km.numLockMask = find(xkNumLock)
	return nil
}

//----------

func (km *KMap) keycodeKeysyms(kc xproto.Keycode) []xproto.Keysym {
	i := int(kc) - int(km.minKeycode)
	if i < 0 || i >= km.count {
		return nil
	}
	return km.keysyms[i*km.stride : (i+1)*km.stride]
}

// Lookup finds the layout slot producing a keysym.
func (km *KMap) Lookup(ks xproto.Keysym) (layoutSlot, bool) {
	slot, ok := km.layout[ks]
	return slot, ok
}

// KeycodeFor finds any keycode producing a keysym, for the XTEST path.
func (km *KMap) KeycodeFor(ks xproto.Keysym) (xproto.Keycode, bool) {
	slot, ok := km.layout[ks]
	return slot.keycode, ok
}

// KeysymAt resolves (keycode, index) to a keysym, falling back to lower
// indices the way the core protocol does for empty slots.
func (km *KMap) KeysymAt(kc xproto.Keycode, index int) xproto.Keysym {
	kss := km.keycodeKeysyms(kc)
	if index >= 0 && index < len(kss) && kss[index] != noSymbol {
		return kss[index]
	}
	if index&0x2 != 0 {
		return km.KeysymAt(kc, index&^0x2)
	}
	if index&0x1 != 0 {
		return km.KeysymAt(kc, index&^0x1)
	}
	return noSymbol
}

// IndexToShift converts a keysym list index to the modifier state
// selecting it.
func (km *KMap) IndexToShift(index int) uint16 {
	s := uint16(0)
	if index&1 != 0 {
		s |= xproto.KeyButMaskShift
	}
	if index&2 != 0 {
		s |= km.altGrMask
	}
	return s
}

// ShiftToIndex is the inverse of IndexToShift, for observed event state.
func (km *KMap) ShiftToIndex(state uint16) int {
	i := 0
	if state&xproto.KeyButMaskShift != 0 {
		i |= 1
	}
	if km.altGrMask != 0 && state&km.altGrMask != 0 {
		i |= 2
	}
	return i
}

// NumLockActive reports whether the observed event state carries the
// detected num-lock modifier.
func (km *KMap) NumLockActive(state uint16) bool {
	return km.numLockMask != 0 && state&km.numLockMask != 0
}

//----------

// keysymGroup normalizes one (keysym, keysym) group: a missing second
// element repeats the first, except for latin letters where the pair is
// completed with the lower and upper case forms.
func keysymGroup(ks1, ks2 xproto.Keysym) (xproto.Keysym, xproto.Keysym) {
	if ks2 != noSymbol {
		return ks1, ks2
	}
	switch {
	case isLatinUpper(ks1):
		return ks1 + 'a' - 'A', ks1
	case isLatinLower(ks1):
		return ks1, ks1 + 'A' - 'a'
	}
	return ks1, ks1
}

// normalizeKeysyms reduces one keycode's keysym list to its two effective
// groups, following the core protocol completion rules.
func normalizeKeysyms(kss []xproto.Keysym) ([2]xproto.Keysym, [2]xproto.Keysym, bool) {
	n := len(kss)
	for n > 0 && kss[n-1] == noSymbol {
		n--
	}
	var g1, g2 [2]xproto.Keysym
	switch {
	case n == 0:
		return g1, g2, false
	case n == 1:
		g1[0], g1[1] = keysymGroup(kss[0], noSymbol)
		g2 = g1
	case n == 2:
		g1[0], g1[1] = keysymGroup(kss[0], kss[1])
		g2 = g1
	case n == 3:
		g1[0], g1[1] = keysymGroup(kss[0], kss[1])
		g2[0], g2[1] = keysymGroup(kss[2], noSymbol)
	case n >= 6:
		// layouts with more groups keep the effective AltGr pair at 4,5
		g1[0], g1[1] = keysymGroup(kss[0], kss[1])
		g2[0], g2[1] = keysymGroup(kss[4], kss[5])
	default:
		g1[0], g1[1] = keysymGroup(kss[0], kss[1])
		g2[0], g2[1] = keysymGroup(kss[2], kss[3])
	}
	return g1, g2, true
}

// buildLayout indexes every reachable keysym by the slot producing it,
// keeping the slot with the strictly smallest modifier state.
func buildLayout(keysyms []xproto.Keysym, stride int, min xproto.Keycode, altGrMask uint16) map[xproto.Keysym]layoutSlot {
	layout := map[xproto.Keysym]layoutSlot{}
	count := len(keysyms) / stride
	for i := 0; i < count; i++ {
		kc := min + xproto.Keycode(i)
		g1, g2, ok := normalizeKeysyms(keysyms[i*stride : (i+1)*stride])
		if !ok {
			continue
		}
		for gi, group := range [2][2]xproto.Keysym{g1, g2} {
			for si, ks := range group {
				if ks == noSymbol {
					continue
				}
				state := uint16(0)
				if si == 1 {
					state |= xproto.KeyButMaskShift
				}
				if gi == 1 {
					state |= altGrMask
				}
				if prev, ok := layout[ks]; ok && prev.state <= state {
					continue
				}
				layout[ks] = layoutSlot{keycode: kc, state: state}
			}
		}
	}
	return layout
}
