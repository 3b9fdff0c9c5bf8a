package trace

import (
	"context"
	"fmt"

	"github.com/go-drift/vdom/pkg/core"
	"github.com/go-drift/vdom/pkg/dom"
)

// EventKind classifies a recorded event.
type EventKind string

const (
	KindDiff     EventKind = "diff"
	KindRender   EventKind = "render"
	KindCommit   EventKind = "commit"
	KindUnmount  EventKind = "unmount"
	KindMutation EventKind = "mutation"
)

// Event is one instrumentation observation.
type Event struct {
	Seq    int
	Step   int
	Kind   EventKind
	Target string
	Detail string
}

func (e Event) String() string {
	if e.Detail == "" {
		return fmt.Sprintf("%4d [%d] %-8s %s", e.Seq, e.Step, e.Kind, e.Target)
	}
	return fmt.Sprintf("%4d [%d] %-8s %s %s", e.Seq, e.Step, e.Kind, e.Target, e.Detail)
}

// Recorder collects events from a renderer's hooks and a document's
// mutation observer. Not thread-safe; it runs on the rendering goroutine.
type Recorder struct {
	step   int
	seq    int
	events []Event
}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Hooks returns renderer hooks feeding the recorder.
func (r *Recorder) Hooks() core.Hooks {
	return core.Hooks{
		AfterDiff: func(n *core.Node) {
			r.add(KindDiff, n.Type.Name(), keyDetail(n))
		},
		BeforeRender: func(rec *core.Record) {
			r.add(KindRender, rec.Type().Name(), rec.Flags().String())
		},
		Commit: func(rec *core.Record, hook string) {
			r.add(KindCommit, rec.Type().Name(), hook)
		},
		Unmount: func(n *core.Node) {
			r.add(KindUnmount, n.Type.Name(), keyDetail(n))
		},
	}
}

// Observe attaches the recorder to doc's mutation log.
func (r *Recorder) Observe(doc *dom.Document) {
	doc.OnMutation = func(m dom.Mutation) {
		detail := m.Value
		if m.Name != "" {
			detail = m.Name + "=" + m.Value
		}
		r.add(KindMutation, m.Target, m.Kind.String()+" "+detail)
	}
}

// SetStep tags subsequent events with a scene step index.
func (r *Recorder) SetStep(step int) {
	r.step = step
}

// Events returns everything recorded so far.
func (r *Recorder) Events() []Event {
	return r.events
}

// Flush writes the pending events to store under runID and clears them.
// Sequence numbers keep increasing across flushes.
func (r *Recorder) Flush(ctx context.Context, store *Store, runID string) error {
	if len(r.events) == 0 {
		return nil
	}
	if err := store.Append(ctx, runID, r.events); err != nil {
		return err
	}
	r.events = r.events[:0]
	return nil
}

func (r *Recorder) add(kind EventKind, target, detail string) {
	r.seq++
	r.events = append(r.events, Event{
		Seq:    r.seq,
		Step:   r.step,
		Kind:   kind,
		Target: target,
		Detail: detail,
	})
}

func keyDetail(n *core.Node) string {
	if n.Key == nil {
		return ""
	}
	return fmt.Sprintf("key=%v", n.Key)
}
