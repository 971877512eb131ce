package harness

import "github.com/roach88/storefront/internal/session"

// CaseOK is the trace case for an accepted command. Rejected commands use
// their session error code.
const CaseOK = "ok"

// TraceEvent records one flow step and the state it left behind.
type TraceEvent struct {
	Seq    int          `json:"seq"`
	Intent string       `json:"intent"`
	Args   session.Args `json:"args"`
	Case   string       `json:"case"`
	Notice string       `json:"notice,omitempty"`
	Cart   CartSnapshot `json:"cart"`
	View   ViewSnapshot `json:"view"`
}

// CartSnapshot is the cart after a step. Amounts are fixed to two
// decimals.
type CartSnapshot struct {
	Lines     []LineSnapshot `json:"lines"`
	ItemCount int            `json:"item_count"`
	Total     string         `json:"total"`
}

// LineSnapshot is one cart line.
type LineSnapshot struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
	Subtotal string `json:"subtotal"`
}

// ViewSnapshot is the visible catalog page after a step.
type ViewSnapshot struct {
	Total      int      `json:"total"`
	Page       int      `json:"page"`
	TotalPages int      `json:"total_pages"`
	Items      []string `json:"items"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every expect clause and assertion held.
	Pass bool `json:"pass"`

	Trace  []TraceEvent `json:"trace"`
	Errors []string     `json:"errors,omitempty"`

	// Final is the state after the last flow step.
	Final State `json:"final"`
}

// State is the final cart and view.
type State struct {
	Cart CartSnapshot `json:"cart"`
	View ViewSnapshot `json:"view"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
