//go:build windows

package windriver

import (
	"testing"

	"github.com/tecla-dev/tecla/keyboard"
	"github.com/tecla-dev/tecla/mouse"
)

func TestVKTables(t *testing.T) {
	// every observable virtual key is emittable with the same code
	for vk, key := range vkKeys {
		vk2, ok := keyVKs[key]
		if !ok {
			t.Fatalf("key %v observed from %#x but not emittable", key, vk)
		}
		if vk2 != vk {
			t.Fatalf("key %v: emit %#x, observe %#x", key, vk2, vk)
		}
	}

	// the aliases resolve to their sided keys on observation
	pairs := []struct {
		vk  uint16
		key keyboard.Key
	}{
		{_VK_LWIN, keyboard.KeyCmdL},
		{_VK_RMENU, keyboard.KeyAltR},
		{_VK_SHIFT, keyboard.KeyShift},
		{_VK_LSHIFT, keyboard.KeyShiftL},
	}
	for _, p := range pairs {
		if vkKeys[p.vk] != p.key {
			t.Fatalf("vk %#x observes as %v, expected %v", p.vk, vkKeys[p.vk], p.key)
		}
	}
}

func TestExtendedVKs(t *testing.T) {
	for vk := range extendedVKs {
		if _, ok := vkKeys[vk]; !ok {
			t.Fatalf("extended vk %#x not in the key table", vk)
		}
	}
}

func TestMouseEventTranslation(t *testing.T) {
	ms := &_msllhookstruct{pt: _point{x: 10, y: 20}}

	ev, ok := mouseEvent(_WM_LBUTTONDOWN, ms)
	if !ok || ev.Kind != mouse.KindClick || ev.X != 10 || ev.Y != 20 || !ev.Press {
		t.Fatal(ev, ok)
	}

	ms.mouseData = uint32(uint16(-240)) << 16 // two notches down
	ev, ok = mouseEvent(_WM_MOUSEWHEEL, ms)
	if !ok || ev.DY != -2 {
		t.Fatal(ev, ok)
	}

	if _, ok := mouseEvent(0x9999, ms); ok {
		t.Fatal("unexpected translation")
	}
}
