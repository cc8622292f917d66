package xdriver

import (
	"sort"
	"unicode"

	"github.com/jezek/xgb/xproto"
)

// The borrow engine types characters absent from the active layout by
// temporarily registering their keysyms on unused layout slots via
// ChangeKeyboardMapping. Only the first four keysyms of a keycode are
// addressable (plain, shift, AltGr, shift+AltGr), so each keycode offers
// four slots. Entries are reference counted by in-flight presses so a held
// key is never remapped under the user.

type borrowEntry struct {
	keycode xproto.Keycode
	index   int
	count   int
}

// layoutMutator is the server surface the borrow engine needs; the fake in
// the tests implements it over a plain slice.
type layoutMutator interface {
	// mapping returns the current keyboard mapping.
	mapping() (first xproto.Keycode, stride int, keysyms []xproto.Keysym, err error)
	// apply rewrites the keysym row of one keycode.
	apply(kc xproto.Keycode, row []xproto.Keysym) error
}

type borrower struct {
	lm      layoutMutator
	entries map[xproto.Keysym]*borrowEntry
}

func newBorrower(lm layoutMutator) *borrower {
	return &borrower{lm: lm, entries: map[xproto.Keysym]*borrowEntry{}}
}

// lookup finds an already borrowed keysym.
func (b *borrower) lookup(ks xproto.Keysym) (*borrowEntry, bool) {
	e, ok := b.entries[ks]
	return e, ok
}

// touch adjusts the in-flight press count of an entry.
func (b *borrower) touch(e *borrowEntry, press bool) {
	if press {
		e.count++
		return
	}
	if e.count > 0 {
		e.count--
	}
}

// sortedEntries returns the live entries in (keycode, index) order, so
// slot selection does not depend on map iteration order.
func (b *borrower) sortedEntries() []*borrowEntry {
	es := make([]*borrowEntry, 0, len(b.entries))
	for _, e := range b.entries {
		es = append(es, e)
	}
	sort.Slice(es, func(i, j int) bool {
		if es[i].keycode != es[j].keycode {
			return es[i].keycode < es[j].keycode
		}
		return es[i].index < es[j].index
	})
	return es
}

// acquire borrows a layout slot for keysym ks, the keysym of char. Slot
// selection tries, in order: a free index on an already borrowed keycode,
// a fully unused keycode, and reclaiming an entry with no in-flight
// presses. ok is false when every slot is exhausted.
func (b *borrower) acquire(ks xproto.Keysym, char string) (*borrowEntry, bool, error) {
	first, stride, keysyms, err := b.lm.mapping()
	if err != nil {
		return nil, false, err
	}
	count := len(keysyms) / stride
	row := func(kc xproto.Keycode) []xproto.Keysym {
		i := int(kc) - int(first)
		return keysyms[i*stride : (i+1)*stride]
	}

	reuse := func() (xproto.Keycode, int, bool) {
		for _, e := range b.sortedEntries() {
			r := row(e.keycode)
			for index := 0; index < 4 && index < stride; index++ {
				if r[index] == noSymbol {
					return e.keycode, index, true
				}
			}
		}
		return 0, 0, false
	}

	borrow := func() (xproto.Keycode, int, bool) {
		for i := 0; i < count; i++ {
			kc := first + xproto.Keycode(i)
			empty := true
			for _, s := range row(kc) {
				if s != noSymbol {
					empty = false
					break
				}
			}
			if empty {
				return kc, 0, true
			}
		}
		return 0, 0, false
	}

	overwrite := func() (xproto.Keycode, int, bool) {
		for _, e := range b.sortedEntries() {
			if e.count < 1 {
				for ks2, e2 := range b.entries {
					if e2 == e {
						delete(b.entries, ks2)
					}
				}
				return e.keycode, e.index, true
			}
		}
		return 0, 0, false
	}

	kc, index, ok := reuse()
	if !ok {
		kc, index, ok = borrow()
	}
	if !ok {
		kc, index, ok = overwrite()
	}
	if !ok {
		return nil, false, nil
	}

	// On a fully empty row, a cased character registers its lower and
	// upper forms as the unshifted and shifted slots in one go.
	r := row(kc)
	lower, upper, cased := casePair(char)
	if cased && rowEmpty(r) {
		r[0] = charToKeysym(lower)
		r[1] = charToKeysym(upper)
		b.entries[r[0]] = &borrowEntry{keycode: kc, index: 0}
		b.entries[r[1]] = &borrowEntry{keycode: kc, index: 1}
	} else {
		r[index] = ks
		b.entries[ks] = &borrowEntry{keycode: kc, index: index}
	}
	if err := b.lm.apply(kc, r); err != nil {
		return nil, false, err
	}

	e, ok := b.entries[ks]
	return e, ok, nil
}

func rowEmpty(r []xproto.Keysym) bool {
	for _, s := range r {
		if s != noSymbol {
			return false
		}
	}
	return true
}

// casePair returns the lower and upper forms of a one-rune character when
// they differ.
func casePair(char string) (lower, upper rune, ok bool) {
	rs := []rune(char)
	if len(rs) != 1 {
		return 0, 0, false
	}
	lower = unicode.ToLower(rs[0])
	upper = unicode.ToUpper(rs[0])
	return lower, upper, lower != upper
}
