// Package approval implements the human approval step
// of governance workflows.
//
// An approval Request moves through a small state machine:
//
//	pending -> approved
//	pending -> rejected
//
// Requests are plain data so that they can be persisted with the
// workflow instance which is waiting on them.
package approval

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
)

var (
	ErrRequestResolved = errors.New("approval request is already resolved")
	ErrNotAssignee     = errors.New("user is not an assignee of the approval request")
	ErrAlreadyVoted    = errors.New("user has already voted on the approval request")
)

type Status string

const (
	Pending  Status = "pending"
	Approved Status = "approved"
	Rejected Status = "rejected"
)

// CanTransition returns true if a request may move from one status to another.
func (s Status) CanTransition(to Status) bool {
	return s == Pending && (to == Approved || to == Rejected)
}

// Terminal returns true if the status is final.
func (s Status) Terminal() bool {
	return s == Approved || s == Rejected
}

// Policy configures who may decide on a request
// and how many votes are needed.
type Policy struct {
	// Approvers are users or teams.
	Approvers []string `json:"approvers,omitempty"`
	// ApprovalThreshold defaults to 1 if not set.
	ApprovalThreshold int `json:"approvalThreshold,omitempty"`
	// RejectionThreshold defaults to 1 if not set.
	RejectionThreshold int `json:"rejectionThreshold,omitempty"`
}

// Decision is a single approve or reject vote.
type Decision struct {
	User     string   `json:"user" mapstructure:"user"`
	Groups   []string `json:"groups,omitempty" mapstructure:"groups"`
	Approved bool     `json:"approved" mapstructure:"approved"`
	Comment  string   `json:"comment,omitempty" mapstructure:"comment"`
}

// DecodeDecision decodes a decision from loosely typed input, such
// as an approval event received from the catalog.
func DecodeDecision(input any) (Decision, error) {
	var d Decision
	err := mapstructure.Decode(input, &d)
	if err != nil {
		return Decision{}, err
	}
	if d.User == "" {
		return Decision{}, errors.New("decision must have a user")
	}
	return d, nil
}

type Vote struct {
	Decision
	At time.Time `json:"at"`
}

// Request is a pending or resolved approval for a workflow node.
type Request struct {
	ID       string `json:"id"`
	Instance string `json:"instance"`
	Node     string `json:"node"`
	Policy   Policy `json:"policy"`
	// Assignees are the users and teams allowed to vote.
	Assignees  []string   `json:"assignees"`
	Status     Status     `json:"status"`
	Votes      []Vote     `json:"votes,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	ResolvedAt *time.Time `json:"resolvedAt,omitempty"`
}

// NewRequest creates a pending approval request. The assignees are the
// policy's approvers plus any additional reviewers, without duplicates.
func NewRequest(instance, node string, p Policy, reviewers []string, now time.Time) *Request {
	seen := map[string]bool{}
	var assignees []string
	for _, a := range append(append([]string{}, p.Approvers...), reviewers...) {
		if a == "" || seen[a] {
			continue
		}
		seen[a] = true
		assignees = append(assignees, a)
	}

	return &Request{
		ID:        uuid.NewString(),
		Instance:  instance,
		Node:      node,
		Policy:    p,
		Assignees: assignees,
		Status:    Pending,
		CreatedAt: now,
	}
}

// Record a decision on the request. The request resolves
// when the approval or rejection threshold is reached.
func (r *Request) Record(d Decision, now time.Time) error {
	if r.Status != Pending {
		return errors.Wrapf(ErrRequestResolved, "request %s is %s", r.ID, r.Status)
	}
	if !r.isAssignee(d) {
		return errors.Wrapf(ErrNotAssignee, "user %s", d.User)
	}
	for _, v := range r.Votes {
		if v.User == d.User {
			return errors.Wrapf(ErrAlreadyVoted, "user %s", d.User)
		}
	}

	r.Votes = append(r.Votes, Vote{Decision: d, At: now})

	var approvals, rejections int
	for _, v := range r.Votes {
		if v.Approved {
			approvals++
		} else {
			rejections++
		}
	}

	switch {
	case rejections >= threshold(r.Policy.RejectionThreshold):
		return r.transition(Rejected, now)
	case approvals >= threshold(r.Policy.ApprovalThreshold):
		return r.transition(Approved, now)
	}

	// not resolved yet
	return nil
}

func (r *Request) transition(to Status, now time.Time) error {
	if !r.Status.CanTransition(to) {
		return fmt.Errorf("cannot move approval request from %s to %s", r.Status, to)
	}
	r.Status = to
	r.ResolvedAt = &now
	return nil
}

// isAssignee returns true if the user, or one of their groups,
// is assigned to the request.
func (r *Request) isAssignee(d Decision) bool {
	for _, a := range r.Assignees {
		if a == d.User {
			return true
		}
		for _, g := range d.Groups {
			if g == a {
				// someone from a required group has voted
				return true
			}
		}
	}
	return false
}

func (r *Request) String() string {
	return fmt.Sprintf("notifying %s for approval of %s", strings.Join(r.Assignees, ", "), r.Node)
}

func threshold(n int) int {
	if n <= 0 {
		return 1
	}
	return n
}
