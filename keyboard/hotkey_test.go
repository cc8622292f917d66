package keyboard

import "testing"

func TestParseHotKey(t *testing.T) {
	codes, err := ParseHotKey("<ctrl>+<shift>+a")
	if err != nil {
		t.Fatal(err)
	}
	want := []KeyCode{{Key: KeyCtrl}, {Key: KeyShift}, {Char: "a"}}
	if len(codes) != len(want) {
		t.Fatalf("got %v", codes)
	}
	for i := range want {
		if codes[i] != want[i] {
			t.Fatalf("%d: got %v, want %v", i, codes[i], want[i])
		}
	}
}

func TestParseHotKeyParts(t *testing.T) {
	type row struct {
		spec string
		want KeyCode
	}
	rows := []row{
		{"a", KeyCode{Char: "a"}},
		{"A", KeyCode{Char: "a"}}, // chars fold to lowercase
		{"<f1>", KeyCode{Key: KeyF1}},
		{"<ctrl_l>", KeyCode{Key: KeyCtrl}}, // sided modifiers canonicalize
		{"<65>", KeyCode{VK: 65}},
	}
	for i, r := range rows {
		codes, err := ParseHotKey(r.spec)
		if err != nil {
			t.Fatalf("%d: %v", i, err)
		}
		if len(codes) != 1 || codes[0] != r.want {
			t.Fatalf("%d: got %v, want %v", i, codes, r.want)
		}
	}
}

func TestParseHotKeyErrors(t *testing.T) {
	for _, spec := range []string{
		"",
		"ab",
		"<nosuch>",
		"a+a",
		"a+A", // duplicate after folding
		"<ctrl>+<ctrl_l>",
		"<>+a",
	} {
		if _, err := ParseHotKey(spec); err == nil {
			t.Fatalf("expecting error for %q", spec)
		}
	}
}

//----------

func TestHotKeyFiresOnce(t *testing.T) {
	codes, err := ParseHotKey("<ctrl>+a")
	if err != nil {
		t.Fatal(err)
	}
	fired := 0
	h := NewHotKey(codes, func() { fired++ })

	ctrl := KeyCode{Key: KeyCtrl}
	a := KeyCode{Char: "a"}

	h.Press(ctrl)
	if fired != 0 {
		t.Fatal("fired early")
	}
	h.Press(a)
	if fired != 1 {
		t.Fatalf("fired %d", fired)
	}
	// auto-repeat of a held key must not re-fire
	h.Press(a)
	if fired != 1 {
		t.Fatalf("fired %d after repeat", fired)
	}
	// releasing one key re-arms the combination
	h.Release(a)
	h.Press(a)
	if fired != 2 {
		t.Fatalf("fired %d after re-press", fired)
	}
}

func TestHotKeyIgnoresOthers(t *testing.T) {
	codes, _ := ParseHotKey("<ctrl>+a")
	fired := 0
	h := NewHotKey(codes, func() { fired++ })
	h.Press(KeyCode{Char: "b"})
	h.Press(KeyCode{Key: KeyShift})
	if fired != 0 {
		t.Fatalf("fired %d", fired)
	}
}

func TestCanonicalHotKeyCode(t *testing.T) {
	type pair struct {
		in, out KeyCode
	}
	pairs := []pair{
		{KeyCode{Key: KeyCtrlR}, KeyCode{Key: KeyCtrl}},
		{KeyCode{Char: "A"}, KeyCode{Char: "a"}},
		{KeyCode{Char: "a", VK: 38}, KeyCode{Char: "a"}},
		{KeyF1.Code(), KeyCode{Key: KeyF1}},
		{KeyCode{VK: 255}, KeyCode{VK: 255}},
	}
	for i, p := range pairs {
		if got := canonicalHotKeyCode(p.in); got != p.out {
			t.Fatalf("%d: got %v, want %v", i, got, p.out)
		}
	}
}
