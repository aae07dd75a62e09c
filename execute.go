package govern

import (
	"context"
	"fmt"
	"time"

	"github.com/common-fate/clio"
	"github.com/common-fate/govern/pkg/approval"
	"github.com/common-fate/govern/pkg/definition"
	"github.com/common-fate/govern/pkg/entity"
	"github.com/common-fate/govern/pkg/node"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var (
	ErrEntityNotTriggered = errors.New("workflow is not triggered for this entity type")
	ErrNotWaiting         = errors.New("workflow instance is not waiting on this node")
)

// State of a node in a workflow instance.
type State int

const (
	Inactive State = iota
	Complete
	Active
	Errored
)

func (s State) String() string {
	switch s {
	case Complete:
		return "complete"
	case Active:
		return "active"
	case Inactive:
		return "inactive"
	case Errored:
		return "errored"
	}
	return "unknown"
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *State) UnmarshalText(b []byte) error {
	switch string(b) {
	case "complete":
		*s = Complete
	case "active":
		*s = Active
	case "inactive":
		*s = Inactive
	case "errored":
		*s = Errored
	default:
		return fmt.Errorf("unknown node state %q", string(b))
	}
	return nil
}

// Status of a workflow instance.
type Status string

const (
	StatusRunning  Status = "running"
	StatusWaiting  Status = "waiting"
	StatusFinished Status = "finished"
	StatusFailed   Status = "failed"
)

// Change is an entity field change made by a node.
type Change struct {
	Node string `json:"node"`
	entity.FieldChange
}

// Instance is a single run of a workflow against an entity.
type Instance struct {
	ID       string         `json:"id"`
	Workflow string         `json:"workflow"`
	Entity   *entity.Entity `json:"entity"`
	Status   Status         `json:"status"`

	// A map of node names to their corresponding state.
	State map[string]State `json:"state"`

	// Results of boolean nodes which have completed, "true" or "false".
	Results map[string]string `json:"results,omitempty"`

	// Approvals are the approval requests raised by
	// USER_APPROVAL_TASK nodes, by node name.
	Approvals map[string]*approval.Request `json:"approvals,omitempty"`

	// Delegations are the automations which nodes handed
	// off to an external executor, by node name.
	Delegations map[string]string `json:"delegations,omitempty"`

	Changes []Change `json:"changes,omitempty"`

	// Outcome is the name of the highest priority end event reached.
	// If empty, the workflow has not reached an end event.
	Outcome string `json:"outcome,omitempty"`

	// Error is set if the instance failed.
	Error string `json:"error,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// initMaps allocates any maps which are nil, such as
// those omitted from an instance's saved JSON.
func (i *Instance) initMaps() {
	if i.State == nil {
		i.State = map[string]State{}
	}
	if i.Results == nil {
		i.Results = map[string]string{}
	}
	if i.Approvals == nil {
		i.Approvals = map[string]*approval.Request{}
	}
	if i.Delegations == nil {
		i.Delegations = map[string]string{}
	}
}

// Waiting returns the names of nodes which are waiting on a signal.
func (i *Instance) Waiting() []string {
	var names []string
	for name, s := range i.State {
		if s == Active {
			names = append(names, name)
		}
	}
	return names
}

// Start a new workflow instance for an entity.
//
// Execution begins at every start event and continues until the
// workflow finishes or every remaining branch is waiting on an approval.
// If a node fails the instance is returned with StatusFailed,
// along with the error.
func (g *Graph) Start(ctx context.Context, e *entity.Entity) (*Instance, error) {
	if e == nil {
		return nil, node.ErrNoEntity
	}
	if !g.Triggers(e.Type) {
		return nil, errors.Wrapf(ErrEntityNotTriggered, "workflow %s, entity type %s", g.Workflow.Name, e.Type)
	}

	// the instance owns its own copy of the entity.
	cp := *e

	now := g.now()
	inst := &Instance{
		ID:        uuid.NewString(),
		Workflow:  g.Workflow.Name,
		Entity:    &cp,
		Status:    StatusRunning,
		CreatedAt: now,
		UpdatedAt: now,
	}
	inst.initMaps()
	for name := range g.nodes {
		inst.State[name] = Inactive
	}

	clio.Debugf("starting workflow %s instance %s for entity %s", inst.Workflow, inst.ID, e.FullyQualifiedName)

	err := g.advance(ctx, inst, g.starts)
	return inst, err
}

// Triggers returns true if the workflow runs for the entity type.
func (g *Graph) Triggers(entityType string) bool {
	types := g.Workflow.Trigger.EntityTypes
	if len(types) == 0 {
		return true
	}
	for _, t := range types {
		if t == entityType {
			return true
		}
	}
	return false
}

// Signal records an approval decision against a node which is
// waiting in the instance. If the decision resolves the approval
// request, execution continues from the node.
func (g *Graph) Signal(ctx context.Context, inst *Instance, nodeName string, d approval.Decision) error {
	if inst == nil {
		return errors.New("instance is nil")
	}
	inst.initMaps()
	if inst.Workflow != g.Workflow.Name {
		return fmt.Errorf("instance %s belongs to workflow %s", inst.ID, inst.Workflow)
	}
	if inst.Status != StatusWaiting || inst.State[nodeName] != Active {
		return errors.Wrapf(ErrNotWaiting, "instance %s, node %s", inst.ID, nodeName)
	}

	n, ok := g.nodes[nodeName].(node.Resumer)
	if !ok {
		return errors.Wrapf(ErrNotWaiting, "node %s cannot be resumed", nodeName)
	}
	req := inst.Approvals[nodeName]
	if req == nil {
		return fmt.Errorf("instance %s has no approval request for node %s", inst.ID, nodeName)
	}

	now := g.now()
	err := req.Record(d, now)
	if err != nil {
		return err
	}
	inst.UpdatedAt = now

	clio.Debugf("recorded decision from %s on %s (instance %s, approved=%v): request is %s", d.User, nodeName, inst.ID, d.Approved, req.Status)

	if !req.Status.Terminal() {
		return nil
	}

	out, err := n.Resume(ctx, g.execution(inst), req)
	if err != nil {
		return g.fail(inst, nodeName, err)
	}

	inst.Status = StatusRunning
	next := g.complete(inst, nodeName, out)
	return g.advance(ctx, inst, next)
}

// advance executes nodes breadth-first, starting from the ready nodes.
// Each node is executed at most once per instance.
func (g *Graph) advance(ctx context.Context, inst *Instance, ready []string) error {
	queue := append([]string{}, ready...)

	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]

		// a node reached by more than one branch runs once.
		if inst.State[name] != Inactive {
			continue
		}

		err := ctx.Err()
		if err != nil {
			return g.fail(inst, name, err)
		}

		n := g.nodes[name]
		clio.Debugf("executing %s node %s (instance %s)", n.SubType(), name, inst.ID)

		out, err := n.Execute(ctx, g.execution(inst))
		if err != nil {
			return g.fail(inst, name, err)
		}

		queue = append(queue, g.complete(inst, name, out)...)
	}

	inst.Status = StatusFinished
	if len(inst.Waiting()) > 0 {
		inst.Status = StatusWaiting
	}
	inst.UpdatedAt = g.now()

	switch inst.Status {
	case StatusWaiting:
		clio.Infof("workflow %s instance %s is waiting on %v", inst.Workflow, inst.ID, inst.Waiting())
	case StatusFinished:
		clio.Infof("workflow %s instance %s finished with outcome %s", inst.Workflow, inst.ID, inst.Outcome)
	}

	return nil
}

// complete applies a node's outcome to the instance and
// returns the nodes which should be executed next.
func (g *Graph) complete(inst *Instance, name string, out node.Outcome) []string {
	for _, c := range out.Changes {
		inst.Changes = append(inst.Changes, Change{Node: name, FieldChange: c})
	}
	if out.Delegated != "" {
		inst.Delegations[name] = out.Delegated
	}

	if out.Status == node.Pending {
		inst.State[name] = Active
		inst.Approvals[name] = out.Approval
		if out.Approval != nil {
			clio.Infof("%s", out.Approval)
		}
		return nil
	}

	inst.State[name] = Complete
	if out.Result != node.NoResult {
		inst.Results[name] = out.Result.String()
	}

	if g.nodes[name].SubType() == definition.EndEventType {
		if inst.Outcome == "" || g.priority[inst.Outcome] < g.priority[name] {
			inst.Outcome = name
		}
		return nil
	}

	var next []string
	for _, e := range g.out[name] {
		if e.Condition == "" || string(e.Condition) == out.Result.String() {
			next = append(next, e.To)
		}
	}
	return next
}

// execution builds the context a node executes against.
// The results of completed boolean nodes are available as variables.
func (g *Graph) execution(inst *Instance) *node.Execution {
	vars := map[string]any{}
	for name, r := range inst.Results {
		vars[name] = r == "true"
	}
	return &node.Execution{
		InstanceID: inst.ID,
		Entity:     inst.Entity,
		Variables:  vars,
	}
}

func (g *Graph) fail(inst *Instance, name string, err error) error {
	inst.State[name] = Errored
	inst.Status = StatusFailed
	inst.Error = err.Error()
	inst.UpdatedAt = g.now()
	clio.Errorf("workflow %s instance %s failed at node %s: %s", inst.Workflow, inst.ID, name, err)
	return err
}
