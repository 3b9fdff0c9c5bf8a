package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockDisposable struct {
	disposed bool
}

func (m *mockDisposable) Dispose() {
	m.disposed = true
}

type todo struct {
	ComponentBase
	items *Managed[[]string]
	ctrl  *mockDisposable
}

func (c *todo) Render(Props, State, any) *Node {
	return Text(strings.Join(c.items.Value(), ","))
}

func TestUseControllerAndManaged(t *testing.T) {
	var inst *todo
	cls := &Class{Name: "Todo", New: func(Props, any) Component {
		inst = &todo{}
		inst.items = NewManaged(inst, []string{"a"})
		inst.ctrl = UseController(inst, func() *mockDisposable { return &mockDisposable{} })
		return inst
	}}
	r, doc := newTestRenderer(t, Options{})
	require.NoError(t, r.Render(H(cls.Type(), nil), nil))
	assert.Equal(t, "a", doc.String())

	inst.items.Update(func(items []string) []string { return append(items, "b") })
	assert.True(t, r.Owner().NeedsWork())
	require.NoError(t, r.Flush())
	assert.Equal(t, "a,b", doc.String())

	assert.False(t, inst.ctrl.disposed)
	require.NoError(t, r.Render(nil, nil))
	assert.True(t, inst.ctrl.disposed, "controllers are disposed on unmount")
}
