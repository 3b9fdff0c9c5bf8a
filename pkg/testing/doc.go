// Package testing provides a component testing harness for vdom.
//
// # Quick Start
//
// Create a tester, pump a tree, and make assertions:
//
//	func TestCounter(t *testing.T) {
//	    tester := vdomtest.NewTesterWithT(t)
//	    tester.PumpNode(core.H(counter.Type(), nil))
//
//	    // Find descriptors
//	    label := tester.Find(vdomtest.ByText("0")).First()
//
//	    // Simulate interaction
//	    tester.Tap(vdomtest.ByText("0"))
//	    tester.Pump()
//
//	    // Assert state
//	    if !tester.Find(vdomtest.ByText("1")).Exists() {
//	        t.Error("expected '1'")
//	    }
//	}
//
// # Snapshot Testing
//
// Capture the bound descriptor tree and markup and compare them with a
// golden file under testdata/snapshots:
//
//	tester.CaptureSnapshot().MatchesGolden(t, "counter")
//
// Update snapshots with:
//
//	go test ./... -update
//
// # Import Alias
//
// Since this package has the same name as the standard library testing
// package, import it with an alias:
//
//	import vdomtest "github.com/go-drift/vdom/pkg/testing"
package testing
