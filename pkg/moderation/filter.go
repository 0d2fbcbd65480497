package moderation

import (
	"fmt"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/marketctl/marketctl/pkg/marketplace"
)

// Filter is a compiled saved-filter expression evaluated against queue
// items, e.g. `status == "pending" && price > 100`.
type Filter struct {
	source  string
	program *vm.Program
}

// filterEnv is the variable set a filter expression may reference. Compile
// checks expressions against it so typos fail at save time, not per row.
func filterEnv() map[string]interface{} {
	return map[string]interface{}{
		"id":       "",
		"title":    "",
		"status":   "",
		"category": "",
		"owner":    "",
		"price":    float64(0),
		"popular":  false,
		"ageHours": float64(0),
	}
}

// CompileFilter compiles a saved-filter expression. The expression must
// evaluate to a boolean.
func CompileFilter(source string) (*Filter, error) {
	program, err := expr.Compile(source, expr.Env(filterEnv()), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compile filter %q: %w", source, err)
	}
	return &Filter{source: source, program: program}, nil
}

// Source returns the original expression text.
func (f *Filter) Source() string { return f.source }

// Match evaluates the filter against one service.
func (f *Filter) Match(svc marketplace.Service) (bool, error) {
	env := map[string]interface{}{
		"id":       svc.ID,
		"title":    svc.Title,
		"status":   string(svc.Status),
		"category": svc.CategoryID,
		"owner":    svc.SubmittedBy.Label(),
		"price":    svc.Price,
		"popular":  svc.Popular,
		"ageHours": time.Since(svc.CreatedAt).Hours(),
	}

	out, err := expr.Run(f.program, env)
	if err != nil {
		return false, fmt.Errorf("eval filter %q: %w", f.source, err)
	}
	matched, ok := out.(bool)
	if !ok {
		return false, fmt.Errorf("filter %q did not yield a boolean", f.source)
	}
	return matched, nil
}

// Matching returns the queue items the filter accepts, in server order.
// Rows the filter fails to evaluate against are skipped.
func (q *Queue) Matching(f *Filter) []marketplace.Service {
	state := q.services.State()
	matched := make([]marketplace.Service, 0, len(state.Items))
	for _, svc := range state.Items {
		ok, err := f.Match(svc)
		if err != nil {
			q.logger.Warn("filter evaluation failed", "id", svc.ID, "error", err)
			continue
		}
		if ok {
			matched = append(matched, svc)
		}
	}
	return matched
}
