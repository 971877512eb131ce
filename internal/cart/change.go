package cart

// ChangeKind says what a mutation did.
type ChangeKind string

const (
	Added       ChangeKind = "added"
	Incremented ChangeKind = "incremented"
	Updated     ChangeKind = "updated"
	Removed     ChangeKind = "removed"
	Cleared     ChangeKind = "cleared"
	Unchanged   ChangeKind = "unchanged"
)

// Change reports the outcome of a mutation so the caller can re-render and
// notify. Item is the affected line after the change, or the removed line.
type Change struct {
	Kind ChangeKind `json:"kind"`
	Item LineItem   `json:"item"`
}

// Notice is the shopper-facing confirmation for the change, or "" when
// nothing should be shown.
func (c Change) Notice() string {
	switch c.Kind {
	case Added, Incremented:
		return c.Item.Name + " added to cart!"
	case Removed:
		return c.Item.Name + " removed from cart"
	case Cleared:
		return "Cart cleared"
	default:
		return ""
	}
}
