package ui

// Binding is a two-way reference to a boolean owned by the host. The
// component reads it on every update and never keeps its own copy as the
// source of truth.
type Binding struct {
	Get func() bool
	Set func(bool)
}

// BindBool binds to a bool the host owns.
func BindBool(v *bool) Binding {
	return Binding{
		Get: func() bool { return *v },
		Set: func(b bool) { *v = b },
	}
}

// Constant is a read-only binding; Set is a no-op.
func Constant(v bool) Binding {
	return Binding{
		Get: func() bool { return v },
		Set: func(bool) {},
	}
}

// Value returns the bound value. A zero Binding reads as false.
func (b Binding) Value() bool {
	if b.Get == nil {
		return false
	}
	return b.Get()
}

// Toggle flips the bound value.
func (b Binding) Toggle() {
	if b.Set == nil {
		return
	}
	b.Set(!b.Value())
}
