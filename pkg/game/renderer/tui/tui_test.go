package tui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/gookit/color"

	"dreadhall/pkg/game/renderer"
)

func newTestRenderer(t *testing.T) (*TUIRenderer, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	r := New(&buf).WithWidth(60)
	r.Init()
	return r, &buf
}

func TestRenderFrame(t *testing.T) {
	r, buf := newTestRenderer(t)
	r.RenderFrame(renderer.Frame{
		Room:      "Morgue",
		Lines:     []string{"You pick up the ITEM{scalpel}."},
		Exits:     []string{"west"},
		Items:     []string{"morgue drawer"},
		Inventory: []string{"scalpel"},
		Fear:      0.25,
		Score:     10,
		Turn:      3,
	})

	out := color.ClearCode(buf.String())
	for _, want := range []string{
		"You pick up the scalpel.",
		"Morgue",
		"You see: morgue drawer",
		"Exits: west",
		"Inventory: scalpel",
		"Fear 25%  Score 10  Turn 3",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderFrame() output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "ITEM{") || strings.Contains(out, "[h]") {
		t.Errorf("RenderFrame() left markup in output:\n%s", out)
	}
}

func TestRenderFrame_EmptyInventory(t *testing.T) {
	r, buf := newTestRenderer(t)
	r.RenderFrame(renderer.Frame{})
	if out := color.ClearCode(buf.String()); !strings.Contains(out, "Inventory: ") || strings.Contains(out, "Exits") {
		t.Errorf("RenderFrame(empty) = %q", out)
	}
}

func TestShowPopup(t *testing.T) {
	r, buf := newTestRenderer(t)
	r.ShowPopup("Gas Leak", "Gas pours from the stove.")
	out := color.ClearCode(buf.String())
	if !strings.Contains(out, "GAS LEAK") || !strings.Contains(out, "Gas pours from the stove.") {
		t.Errorf("ShowPopup() = %q", out)
	}
}

func TestFormatText_Wraps(t *testing.T) {
	r, _ := newTestRenderer(t)
	got := color.ClearCode(r.FormatText(strings.Repeat("dread ", 20)))
	for _, line := range strings.Split(got, "\n") {
		if len(line) > 60 {
			t.Errorf("FormatText() line %q longer than 60", line)
		}
	}
}
