package domain

import "github.com/aretw0/beetflow/pkg/ecs"

// Entity is a node of the action graph.
type Entity = ecs.Entity

// Event kinds dispatched by the runtime.
const (
	KindRun          ecs.EventKind = "run"
	KindEnd          ecs.EventKind = "end"
	KindChildEnd     ecs.EventKind = "child_end"
	KindInterrupted  ecs.EventKind = "interrupted"
	KindRequestScore ecs.EventKind = "request_score"
	KindChildScore   ecs.EventKind = "child_score"
)

// Run asks Action to start. Origin is the entity that started the whole
// chain and is carried unchanged to every descendant.
type Run struct {
	Action  Entity
	Origin  Entity
	Payload any
}

func (Run) EventKind() ecs.EventKind { return KindRun }

// Resolve replaces a Placeholder action with target. A missing origin means
// the run starts its own chain.
func (r Run) Resolve(target Entity) Run {
	r.Action = r.Action.Or(target)
	r.Origin = r.Origin.Or(r.Action)
	return r
}

// Forward returns the same run addressed to child.
func (r Run) Forward(child Entity) Run {
	return Run{Action: child, Origin: r.Origin, Payload: r.Payload}
}

// EndWith returns the End answering this run.
func (r Run) EndWith(o Outcome) End {
	return End{Action: r.Action, Origin: r.Origin, Outcome: o}
}

// End reports that Action finished.
type End struct {
	Action  Entity
	Origin  Entity
	Outcome Outcome
}

func (End) EventKind() ecs.EventKind { return KindEnd }

// Resolve replaces a Placeholder action with target.
func (e End) Resolve(target Entity) End {
	e.Action = e.Action.Or(target)
	e.Origin = e.Origin.Or(e.Action)
	return e
}

// ChildEnd is an End of Child delivered to Parent.
type ChildEnd struct {
	Parent  Entity
	Child   Entity
	Origin  Entity
	Outcome Outcome
}

func (ChildEnd) EventKind() ecs.EventKind { return KindChildEnd }

// End returns the same result as the parent's own End.
func (c ChildEnd) End() End {
	return End{Action: c.Parent, Origin: c.Origin, Outcome: c.Outcome}
}

// EndWith returns an End of the parent with a different outcome.
func (c ChildEnd) EndWith(o Outcome) End {
	return End{Action: c.Parent, Origin: c.Origin, Outcome: o}
}

// Interrupted tells Action it stopped running because By was run again.
type Interrupted struct {
	Action Entity
	By     Entity
}

func (Interrupted) EventKind() ecs.EventKind { return KindInterrupted }

// Score is a utility value reported to a ScoreFlow.
type Score float64

// RequestScore asks a child of Parent for its score.
type RequestScore struct {
	Parent Entity
	Origin Entity
}

func (RequestScore) EventKind() ecs.EventKind { return KindRequestScore }

// ChildScore answers a RequestScore.
type ChildScore struct {
	Parent Entity
	Child  Entity
	Score  Score
}

func (ChildScore) EventKind() ecs.EventKind { return KindChildScore }
