package flow

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/aretw0/beetflow/pkg/domain"
	"github.com/aretw0/beetflow/pkg/ecs"
)

// Condition evaluates a boolean expression against the blackboard and ends
// with Pass when it holds. Evaluation errors are logged and end with Fail.
type Condition struct {
	Expr    string `mapstructure:"expr"`
	program *vm.Program
}

// NewCondition compiles src eagerly so syntax errors surface at build time.
func NewCondition(src string) (*Condition, error) {
	c := &Condition{Expr: src}
	if _, err := c.compile(); err != nil {
		return nil, err
	}
	return c, nil
}

func (*Condition) ActionKind() ActionKind { return "condition" }

func (*Condition) Handlers() Handlers {
	return Handlers{OnRun: conditionRun}
}

func (c *Condition) compile() (*vm.Program, error) {
	if c.program != nil {
		return c.program, nil
	}
	program, err := expr.Compile(c.Expr,
		expr.Env(map[string]any{}),
		expr.AsBool(),
		expr.AllowUndefinedVariables(),
	)
	if err != nil {
		return nil, fmt.Errorf("compile condition %q: %w", c.Expr, err)
	}
	c.program = program
	return program, nil
}

// Eval evaluates the condition against env.
func (c *Condition) Eval(env map[string]any) (bool, error) {
	program, err := c.compile()
	if err != nil {
		return false, err
	}
	out, err := expr.Run(program, env)
	if err != nil {
		return false, fmt.Errorf("eval condition %q: %w", c.Expr, err)
	}
	ok, _ := out.(bool)
	return ok, nil
}

func conditionRun(t *ecs.Trigger, ev domain.Run) error {
	w := t.World
	c, ok := ecs.Get[*Condition](w, t.Target)
	if !ok {
		return nil
	}
	pass, err := c.Eval(BlackboardOf(w).Snapshot())
	if err != nil {
		Logger(w).Warn("condition failed to evaluate", "action", t.Target, "name", w.Name(t.Target), "err", err)
	}
	return TriggerEnd(t.Context(), w, t.Target, ev.EndWith(domain.OutcomeOf(pass)))
}

// ExprScore answers score requests with a numeric expression evaluated
// against the blackboard. Errors are logged and score zero.
type ExprScore struct {
	Expr    string `mapstructure:"expr"`
	program *vm.Program
}

func (*ExprScore) ActionKind() ActionKind { return "expr_score" }

func (*ExprScore) Handlers() Handlers {
	return Handlers{OnRequestScore: exprScoreRequest}
}

// Eval evaluates the score expression against env.
func (s *ExprScore) Eval(env map[string]any) (domain.Score, error) {
	if s.program == nil {
		program, err := expr.Compile(s.Expr,
			expr.Env(map[string]any{}),
			expr.AsFloat64(),
			expr.AllowUndefinedVariables(),
		)
		if err != nil {
			return 0, fmt.Errorf("compile score %q: %w", s.Expr, err)
		}
		s.program = program
	}
	out, err := expr.Run(s.program, env)
	if err != nil {
		return 0, fmt.Errorf("eval score %q: %w", s.Expr, err)
	}
	f, _ := out.(float64)
	return domain.Score(f), nil
}

func exprScoreRequest(t *ecs.Trigger, ev domain.RequestScore) error {
	w := t.World
	s, ok := ecs.Get[*ExprScore](w, t.Target)
	if !ok {
		return nil
	}
	score, err := s.Eval(BlackboardOf(w).Snapshot())
	if err != nil {
		Logger(w).Warn("score failed to evaluate", "action", t.Target, "name", w.Name(t.Target), "err", err)
	}
	return TriggerScore(t, ev.Parent, t.Target, score)
}
