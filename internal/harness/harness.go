package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"golang.org/x/text/language"

	"github.com/roach88/storefront/internal/cart"
	"github.com/roach88/storefront/internal/catalog"
	"github.com/roach88/storefront/internal/money"
	"github.com/roach88/storefront/internal/session"
	"github.com/roach88/storefront/internal/store"
)

// DefaultLocale is used when a scenario does not name one.
var DefaultLocale = language.BritishEnglish

// Harness drives one scenario through a session loop.
type Harness struct {
	loop   *session.Loop
	logger *slog.Logger
}

// Run executes a scenario and returns the result.
//
// Each scenario runs against fresh in-memory backends:
//  1. Seed the stored catalog and cart from the fixtures
//  2. Open the cart and session, start the loop
//  3. Execute setup steps (all must succeed)
//  4. Execute flow steps, tracing each and checking expect clauses
//  5. Evaluate assertions against the trace and final state
func Run(scenario *Scenario) (*Result, error) {
	return RunContext(context.Background(), scenario)
}

// RunContext is Run with a caller supplied context.
func RunContext(ctx context.Context, scenario *Scenario) (*Result, error) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	productsBackend := store.NewMemory("products")
	cartBackend := store.NewMemory("cart")

	if len(scenario.Catalog) > 0 {
		err := store.NewList[catalog.Product](productsBackend, logger).
			Save(ctx, catalog.ProductsKey, scenario.products())
		if err != nil {
			return nil, fmt.Errorf("failed to seed catalog: %w", err)
		}
	}
	cartList := store.NewList[cart.LineItem](cartBackend, logger)
	if len(scenario.Cart) > 0 {
		if err := cartList.Save(ctx, cart.StorageKey, scenario.lines()); err != nil {
			return nil, fmt.Errorf("failed to seed cart: %w", err)
		}
	}

	locale := DefaultLocale
	if scenario.Locale != "" {
		tag, err := language.Parse(scenario.Locale)
		if err != nil {
			return nil, fmt.Errorf("invalid locale %q: %w", scenario.Locale, err)
		}
		locale = tag
	}

	engine := cart.Open(ctx, cartList, cart.WithLogger(logger))
	source := catalog.NewSource(productsBackend, scenario.SampleSeed, logger)
	sess := session.New(ctx, engine, source, session.Config{
		PageSize: scenario.PageSize,
		Locale:   locale,
		Logger:   logger,
	})

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	loop := session.NewLoop(sess, 0)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = loop.Run(runCtx)
	}()
	defer func() {
		loop.Stop()
		<-done
	}()

	h := &Harness{loop: loop, logger: logger}
	result := NewResult()

	if err := h.executeSetup(ctx, scenario.Setup); err != nil {
		return nil, fmt.Errorf("failed to execute setup: %w", err)
	}
	if err := h.executeFlow(ctx, scenario.Flow, result); err != nil {
		return nil, fmt.Errorf("failed to execute flow: %w", err)
	}

	final, err := h.snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read final state: %w", err)
	}
	result.Final = final

	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}

func (h *Harness) executeSetup(ctx context.Context, setup []Step) error {
	for i, step := range setup {
		if _, err := h.loop.Submit(ctx, session.Command{Intent: step.Invoke, Args: step.Args}); err != nil {
			return fmt.Errorf("setup step %d (%s): %w", i, step.Invoke, err)
		}
		h.logger.Debug("setup step completed", "step", i, "intent", step.Invoke)
	}
	return nil
}

// executeFlow runs each step through the loop. A rejected command is a
// traced outcome, not an execution error.
func (h *Harness) executeFlow(ctx context.Context, flow []FlowStep, result *Result) error {
	for i, step := range flow {
		res, err := h.loop.Submit(ctx, session.Command{Intent: step.Invoke, Args: step.Args})
		outcome := CaseOK
		if err != nil {
			var se *session.Error
			if !errors.As(err, &se) {
				return fmt.Errorf("flow step %d (%s): %w", i, step.Invoke, err)
			}
			outcome = string(se.Code)
		}

		state, err := h.snapshot(ctx)
		if err != nil {
			return fmt.Errorf("flow step %d: %w", i, err)
		}

		event := TraceEvent{
			Seq:    i + 1,
			Intent: string(step.Invoke),
			Args:   step.Args,
			Case:   outcome,
			Notice: res.Notice,
			Cart:   state.Cart,
			View:   state.View,
		}
		result.Trace = append(result.Trace, event)

		if step.Expect != nil {
			for _, msg := range checkExpect(i, step.Expect, event) {
				result.AddError(msg)
			}
		}
		h.logger.Debug("flow step completed", "step", i, "intent", step.Invoke, "case", outcome)
	}
	return nil
}

// snapshot reads the cart and view on the loop goroutine.
func (h *Harness) snapshot(ctx context.Context) (State, error) {
	var state State
	err := h.loop.Inspect(ctx, func(s *session.Session) {
		state = State{
			Cart: cartSnapshot(s.Cart()),
			View: viewSnapshot(s.View()),
		}
	})
	return state, err
}

func cartSnapshot(e *cart.Engine) CartSnapshot {
	lines := e.Lines()
	snap := CartSnapshot{
		Lines:     make([]LineSnapshot, 0, len(lines)),
		ItemCount: e.ItemCount(),
		Total:     money.Fixed(e.Total()),
	}
	for _, l := range lines {
		snap.Lines = append(snap.Lines, LineSnapshot{
			ID:       l.ID,
			Quantity: l.Quantity,
			Subtotal: money.Fixed(l.Subtotal()),
		})
	}
	return snap
}

func viewSnapshot(v session.View) ViewSnapshot {
	snap := ViewSnapshot{
		Total:      v.Total,
		Page:       v.Page,
		TotalPages: v.TotalPages,
		Items:      make([]string, 0, len(v.Items)),
	}
	for _, p := range v.Items {
		snap.Items = append(snap.Items, p.ID)
	}
	return snap
}

func checkExpect(index int, want *ExpectClause, got TraceEvent) []string {
	var errs []string
	prefix := fmt.Sprintf("flow[%d] %s", index, got.Intent)

	expectedCase := want.Case
	if expectedCase == "" {
		expectedCase = CaseOK
	}
	if got.Case != expectedCase {
		errs = append(errs, fmt.Sprintf("%s: expected case %q, got %q", prefix, expectedCase, got.Case))
	}
	if want.Notice != "" && got.Notice != want.Notice {
		errs = append(errs, fmt.Sprintf("%s: expected notice %q, got %q", prefix, want.Notice, got.Notice))
	}
	if want.CartTotal != "" && !amountEqual(want.CartTotal, got.Cart.Total) {
		errs = append(errs, fmt.Sprintf("%s: expected cart total %s, got %s", prefix, want.CartTotal, got.Cart.Total))
	}
	if want.ItemCount != nil && got.Cart.ItemCount != *want.ItemCount {
		errs = append(errs, fmt.Sprintf("%s: expected item count %d, got %d", prefix, *want.ItemCount, got.Cart.ItemCount))
	}
	if want.ViewTotal != nil && got.View.Total != *want.ViewTotal {
		errs = append(errs, fmt.Sprintf("%s: expected %d matching products, got %d", prefix, *want.ViewTotal, got.View.Total))
	}
	if want.Page != nil && got.View.Page != *want.Page {
		errs = append(errs, fmt.Sprintf("%s: expected page %d, got %d", prefix, *want.Page, got.View.Page))
	}
	return errs
}
