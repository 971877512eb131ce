package harness

import (
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
	Trace    []TraceEvent
}

func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for _, event := range e.Trace {
			fmt.Fprintf(&buf, "  [%d] %s -> %s\n", event.Seq, event.Intent, event.Case)
		}
	}
	return buf.String()
}

// EvaluateAssertions checks every assertion and returns the failure
// messages.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errs []string
	for i, a := range assertions {
		if err := evaluate(result, a); err != nil {
			errs = append(errs, fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
	return errs
}

func evaluate(result *Result, a Assertion) error {
	switch a.Type {
	case AssertTraceContains:
		return assertTraceContains(result.Trace, a)
	case AssertTraceOrder:
		return assertTraceOrder(result.Trace, a)
	case AssertTraceCount:
		return assertTraceCount(result.Trace, a)
	case AssertCartTotal:
		return assertCartTotal(result.Final, a)
	case AssertCartLines:
		return assertCartLines(result.Final, a)
	case AssertCartContains:
		return assertCartContains(result.Final, a)
	case AssertViewTotal:
		return assertViewTotal(result.Final, a)
	case AssertViewItems:
		return assertViewItems(result.Final, a)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

// assertTraceContains checks for a step with the intent, and the case when
// one is given.
func assertTraceContains(trace []TraceEvent, a Assertion) error {
	for _, event := range trace {
		if event.Intent == a.Intent && (a.Case == "" || event.Case == a.Case) {
			return nil
		}
	}

	expected := "intent " + a.Intent
	if a.Case != "" {
		expected += " with case " + a.Case
	}
	return &AssertionError{
		Type:     AssertTraceContains,
		Expected: expected,
		Actual:   "not found in trace",
		Trace:    trace,
	}
}

// assertTraceOrder checks that the first occurrences of the intents appear
// in the given order. Other steps may come between them.
func assertTraceOrder(trace []TraceEvent, a Assertion) error {
	positions := make(map[string]int)
	for i, event := range trace {
		if _, seen := positions[event.Intent]; !seen {
			positions[event.Intent] = i + 1
		}
	}

	for _, intent := range a.Intents {
		if positions[intent] == 0 {
			return &AssertionError{
				Type:     AssertTraceOrder,
				Expected: fmt.Sprintf("all intents present: %v", a.Intents),
				Actual:   fmt.Sprintf("missing intent: %s", intent),
				Trace:    trace,
			}
		}
	}

	for i := 1; i < len(a.Intents); i++ {
		prev, curr := a.Intents[i-1], a.Intents[i]
		if positions[prev] >= positions[curr] {
			return &AssertionError{
				Type:     AssertTraceOrder,
				Expected: fmt.Sprintf("intents in order: %v", a.Intents),
				Actual: fmt.Sprintf("%s (pos %d) should be before %s (pos %d)",
					prev, positions[prev], curr, positions[curr]),
				Trace: trace,
			}
		}
	}
	return nil
}

func assertTraceCount(trace []TraceEvent, a Assertion) error {
	count := 0
	for _, event := range trace {
		if event.Intent == a.Intent {
			count++
		}
	}

	if count != a.Count {
		return &AssertionError{
			Type:     AssertTraceCount,
			Expected: fmt.Sprintf("%d occurrences of %s", a.Count, a.Intent),
			Actual:   fmt.Sprintf("%d occurrences", count),
			Trace:    trace,
		}
	}
	return nil
}

func assertCartTotal(final State, a Assertion) error {
	if !amountEqual(a.Total, final.Cart.Total) {
		return &AssertionError{
			Type:     AssertCartTotal,
			Expected: "total " + a.Total,
			Actual:   "total " + final.Cart.Total,
		}
	}
	return nil
}

func assertCartLines(final State, a Assertion) error {
	if len(final.Cart.Lines) != a.Lines {
		return &AssertionError{
			Type:     AssertCartLines,
			Expected: fmt.Sprintf("%d lines", a.Lines),
			Actual:   fmt.Sprintf("%d lines", len(final.Cart.Lines)),
		}
	}
	return nil
}

// assertCartContains checks for a line with the product, and its quantity
// when one is given.
func assertCartContains(final State, a Assertion) error {
	for _, line := range final.Cart.Lines {
		if line.ID != a.ProductID {
			continue
		}
		if a.Quantity != 0 && line.Quantity != a.Quantity {
			return &AssertionError{
				Type:     AssertCartContains,
				Expected: fmt.Sprintf("%s with quantity %d", a.ProductID, a.Quantity),
				Actual:   fmt.Sprintf("quantity %d", line.Quantity),
			}
		}
		return nil
	}
	return &AssertionError{
		Type:     AssertCartContains,
		Expected: "line for " + a.ProductID,
		Actual:   "not in cart",
	}
}

func assertViewTotal(final State, a Assertion) error {
	if final.View.Total != a.Count {
		return &AssertionError{
			Type:     AssertViewTotal,
			Expected: fmt.Sprintf("%d matching products", a.Count),
			Actual:   fmt.Sprintf("%d matching products", final.View.Total),
		}
	}
	return nil
}

func assertViewItems(final State, a Assertion) error {
	want := a.Items
	if want == nil {
		want = []string{}
	}
	if !slices.Equal(final.View.Items, want) {
		return &AssertionError{
			Type:     AssertViewItems,
			Expected: fmt.Sprintf("items %v", want),
			Actual:   fmt.Sprintf("items %v", final.View.Items),
		}
	}
	return nil
}

// amountEqual compares decimal strings by value, so "14.5" matches "14.50".
func amountEqual(want, got string) bool {
	w, err := decimal.NewFromString(want)
	if err != nil {
		return false
	}
	g, err := decimal.NewFromString(got)
	if err != nil {
		return false
	}
	return w.Equal(g)
}
