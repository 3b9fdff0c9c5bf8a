package testing

import (
	"strings"
	"testing"

	"github.com/go-drift/vdom/pkg/core"
	"github.com/go-drift/vdom/pkg/testing/internal/testbed"
)

func TestTap_Counter(t *testing.T) {
	tester := NewTesterWithT(t)
	var tapped []int
	tester.PumpNode(core.H(testbed.Counter.Type(), core.Props{
		"initial": 0,
		"onTap":   func(n int) { tapped = append(tapped, n) },
	}))

	if err := tester.Tap(ByText("0")); err != nil {
		t.Fatal(err)
	}
	tester.Pump()
	if !tester.Find(ByText("1")).Exists() {
		t.Errorf("expected '1' after tap, got %q", tester.HTML())
	}

	tester.Tap(ByType(testbed.Counter.Type()))
	tester.Pump()
	if len(tapped) != 2 || tapped[1] != 2 {
		t.Errorf("expected onTap with 1 then 2, got %v", tapped)
	}
}

func TestTap_Errors(t *testing.T) {
	tester := NewTesterWithT(t)
	tester.PumpNode(core.El("p", nil, "inert"))

	if err := tester.Tap(ByText("missing")); err == nil {
		t.Error("expected error for unmatched finder")
	}
	if err := tester.Tap(ByText("inert")); err == nil {
		t.Error("expected error when no click listener exists")
	}
}

func TestEnterTextAndToggle(t *testing.T) {
	tester := NewTesterWithT(t)
	tester.PumpNode(core.H(testbed.Field.Type(), nil))

	output := func() string { return tester.Find(ByTag("output")).DOM().Text() }
	if got := output(); got != "/off" {
		t.Fatalf("expected '/off', got %q", got)
	}

	if err := tester.EnterText(ByID("text"), "hi"); err != nil {
		t.Fatal(err)
	}
	if err := tester.Toggle(ByID("flag"), true); err != nil {
		t.Fatal(err)
	}
	tester.Pump()

	if got := output(); got != "hi/on" {
		t.Errorf("expected 'hi/on', got %q", got)
	}
	if v := tester.Find(ByID("text")).DOM().Value(); v != "hi" {
		t.Errorf("expected live value 'hi', got %v", v)
	}
}

func TestTap_PanickingListener(t *testing.T) {
	tester := NewTesterWithT(t)
	tester.PumpNode(core.El("button", core.Props{"onClick": func() { panic("broken") }}, "go"))

	err := tester.Tap(ByText("go"))
	if err == nil || !strings.Contains(err.Error(), "panicked: broken") {
		t.Errorf("expected the listener panic as an error, got %v", err)
	}
}
