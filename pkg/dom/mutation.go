package dom

import "fmt"

// MutationKind identifies what a mutation changed.
type MutationKind int

const (
	MutationInsert MutationKind = iota
	MutationRemove
	MutationSetAttr
	MutationRemoveAttr
	MutationProperty
	MutationStyle
	MutationListener
	MutationInnerHTML
	MutationText
)

func (k MutationKind) String() string {
	switch k {
	case MutationInsert:
		return "insert"
	case MutationRemove:
		return "remove"
	case MutationSetAttr:
		return "set-attr"
	case MutationRemoveAttr:
		return "remove-attr"
	case MutationProperty:
		return "property"
	case MutationStyle:
		return "style"
	case MutationListener:
		return "listener"
	case MutationInnerHTML:
		return "inner-html"
	case MutationText:
		return "text"
	default:
		return fmt.Sprintf("MutationKind(%d)", int(k))
	}
}

// Mutation records one change applied to the document.
type Mutation struct {
	Kind MutationKind
	// Target is the tag of the mutated node, or "#text".
	Target string
	// Name is the attribute, property, style or event name, if any.
	Name string
	// Value is the new value rendered as text.
	Value string
}

func (m Mutation) String() string {
	if m.Name == "" {
		return fmt.Sprintf("%s %s %q", m.Kind, m.Target, m.Value)
	}
	return fmt.Sprintf("%s %s.%s=%q", m.Kind, m.Target, m.Name, m.Value)
}
