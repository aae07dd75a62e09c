package node

import (
	"context"
	"fmt"
	"time"

	"github.com/common-fate/govern/pkg/approval"
	"github.com/common-fate/govern/pkg/definition"
	"github.com/pkg/errors"
)

// UserApprovalTask suspends the workflow until the entity is
// approved or rejected.
//
// Execute never produces a terminal outcome: it returns a Pending
// outcome along with an approval request. The workflow engine
// persists the request and calls Resume once it has been decided.
type UserApprovalTask struct {
	base
	policy       approval.Policy
	addReviewers bool
	now          func() time.Time
}

var _ Resumer = &UserApprovalTask{}

// newUserApprovalTask doesn't bound the thresholds by the number of
// approvers: an approver may be a team, and every member of the team
// votes once towards the threshold.
func newUserApprovalTask(f Factory, def definition.Definition) (Node, error) {
	d, err := cast[definition.UserApprovalTask](def)
	if err != nil {
		return nil, err
	}
	if len(d.Approvers) == 0 && !d.AddReviewers {
		return nil, errors.Wrapf(ErrInvalidNodeDefinition, "%s: approvers must be provided if addReviewers is false", d.SubType())
	}

	return &UserApprovalTask{
		base: newBase(d),
		policy: approval.Policy{
			Approvers:          append([]string{}, d.Approvers...),
			ApprovalThreshold:  d.ApprovalThreshold,
			RejectionThreshold: d.RejectionThreshold,
		},
		addReviewers: d.AddReviewers,
		now:          f.now,
	}, nil
}

func (n *UserApprovalTask) Execute(ctx context.Context, exec *Execution) (Outcome, error) {
	if exec == nil || exec.Entity == nil {
		return Outcome{}, failed(n, ErrNoEntity)
	}

	var reviewers []string
	if n.addReviewers {
		for _, r := range exec.Entity.Reviewers {
			reviewers = append(reviewers, r.Name)
		}
	}

	req := approval.NewRequest(exec.InstanceID, n.name, n.policy, reviewers, n.now())
	if len(req.Assignees) == 0 {
		return Outcome{}, failed(n, errors.New("approval request has no assignees"))
	}

	return Outcome{Status: Pending, Approval: req}, nil
}

func (n *UserApprovalTask) Resume(ctx context.Context, exec *Execution, req *approval.Request) (Outcome, error) {
	if req == nil {
		return Outcome{}, failed(n, errors.New("no approval request to resume from"))
	}
	if req.Node != n.name {
		return Outcome{}, failed(n, fmt.Errorf("approval request belongs to node %s", req.Node))
	}

	switch req.Status {
	case approval.Approved:
		return Outcome{Status: Succeeded, Result: True}, nil
	case approval.Rejected:
		return Outcome{Status: Succeeded, Result: False}, nil
	}

	// still waiting on a decision
	return Outcome{Status: Pending, Approval: req}, nil
}
