package mouse_test

import (
	"testing"

	"github.com/davecgh/go-spew/spew"

	"github.com/tecla-dev/tecla/driver/drivertest"
	"github.com/tecla-dev/tecla/mouse"
)

func TestPositionMove(t *testing.T) {
	fm := drivertest.NewMouse()
	c := mouse.NewController(fm, nil)

	if err := c.SetPosition(100, 200); err != nil {
		t.Fatal(err)
	}
	x, y, err := c.Position()
	if err != nil {
		t.Fatal(err)
	}
	if x != 100 || y != 200 {
		t.Fatalf("position %d,%d", x, y)
	}

	if err := c.Move(-10, 5); err != nil {
		t.Fatal(err)
	}
	x, y, _ = c.Position()
	if x != 90 || y != 205 {
		t.Fatalf("position %d,%d", x, y)
	}
}

func TestClick(t *testing.T) {
	fm := drivertest.NewMouse()
	c := mouse.NewController(fm, nil)

	if err := c.Click(mouse.Left, 2); err != nil {
		t.Fatal(err)
	}
	bs := fm.Buttons()
	if len(bs) != 4 {
		t.Fatalf("buttons: %s", spew.Sdump(bs))
	}
	for i, b := range bs {
		if b.Button != mouse.Left {
			t.Fatalf("%d: button %v", i, b.Button)
		}
		if b.Press != (i%2 == 0) {
			t.Fatalf("%d: press %v", i, b.Press)
		}
	}
}

func TestScroll(t *testing.T) {
	fm := drivertest.NewMouse()
	c := mouse.NewController(fm, nil)
	if err := c.Scroll(0, -3); err != nil {
		t.Fatal(err)
	}
	ss := fm.Scrolls()
	if len(ss) != 1 || ss[0] != [2]int{0, -3} {
		t.Fatalf("scrolls: %v", ss)
	}
}

func TestButtonString(t *testing.T) {
	type pair struct {
		b mouse.Button
		s string
	}
	pairs := []pair{
		{mouse.Left, "left"},
		{mouse.ScrollDown, "scroll_down"},
		{mouse.Button(99), "unknown"},
	}
	for i, p := range pairs {
		if got := p.b.String(); got != p.s {
			t.Fatalf("%d: got %q", i, got)
		}
	}
	if mouse.Left.IsScroll() || !mouse.ScrollLeft.IsScroll() {
		t.Fatal("IsScroll")
	}
}
