package enums

// ComboSelectionState describes how far a combo-offer selection has progressed
// toward its required item count.
type ComboSelectionState string

const (
	ComboStateIdle      ComboSelectionState = "idle"
	ComboStateSelecting ComboSelectionState = "selecting"
	ComboStateReady     ComboSelectionState = "combo_ready"
	ComboStateExceeded  ComboSelectionState = "combo_exceeded"
)

// String implements fmt.Stringer.
func (c ComboSelectionState) String() string {
	return string(c)
}

// AllowsCheckout reports whether add-to-cart is enabled in this state.
// Only a complete or overflowing selection may be added.
func (c ComboSelectionState) AllowsCheckout() bool {
	return c == ComboStateReady || c == ComboStateExceeded
}
