package entity

import (
	"time"

	"github.com/pkg/errors"
)

var (
	ErrCertificationNotSupported = errors.New("entity type does not support certification")
	ErrNotGlossaryTerm           = errors.New("entity is not a glossary term")
	ErrTransitionNotAllowed      = errors.New("glossary term status transition is not allowed")
)

// certifiable contains the entity types which can be certified.
var certifiable = map[string]bool{
	"apiCollection":      true,
	"apiEndpoint":        true,
	"chart":              true,
	"container":          true,
	"dashboard":          true,
	"dashboardDataModel": true,
	"database":           true,
	"databaseSchema":     true,
	"metric":             true,
	"mlmodel":            true,
	"pipeline":           true,
	"searchIndex":        true,
	"storedProcedure":    true,
	"table":              true,
	"topic":              true,
}

// SupportsCertification returns true if entities of the given
// type can carry a certification.
func SupportsCertification(entityType string) bool {
	return certifiable[entityType]
}

// SetCertification applies a certification tag to the entity.
// An empty tagFQN removes the existing certification.
func (e *Entity) SetCertification(tagFQN string, now time.Time) (FieldChange, error) {
	if !SupportsCertification(e.Type) {
		return FieldChange{}, errors.Wrapf(ErrCertificationNotSupported, "entity type %q", e.Type)
	}

	change := FieldChange{Name: "certification"}
	if e.Certification != nil {
		change.OldValue = e.Certification.TagLabel.TagFQN
	}

	if tagFQN == "" {
		e.Certification = nil
		return change, nil
	}

	e.Certification = &Certification{
		TagLabel:    TagLabel{TagFQN: tagFQN, Source: "Classification"},
		AppliedDate: now,
	}
	change.NewValue = tagFQN
	return change, nil
}

// Status is the lifecycle status of a glossary term.
type Status string

const (
	Draft      Status = "Draft"
	InReview   Status = "In Review"
	Approved   Status = "Approved"
	Deprecated Status = "Deprecated"
	Rejected   Status = "Rejected"
)

// transitions maps a status to the statuses it may move to.
var transitions = map[Status][]Status{
	Draft:      {InReview, Approved, Rejected},
	InReview:   {Draft, Approved, Rejected},
	Approved:   {InReview, Deprecated},
	Deprecated: {Approved, Draft},
	Rejected:   {Draft, InReview},
}

// ParseStatus parses a glossary term status, e.g. "In Review".
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if _, ok := transitions[st]; !ok {
		return "", errors.Errorf("unknown glossary term status %q", s)
	}
	return st, nil
}

// CanTransition returns true if a glossary term may move
// from one status to another.
func CanTransition(from, to Status) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// SetStatus moves a glossary term to the target status.
// Terms without a status are treated as drafts.
func (e *Entity) SetStatus(target Status) (FieldChange, error) {
	if e.Type != GlossaryTermType {
		return FieldChange{}, errors.Wrapf(ErrNotGlossaryTerm, "entity type %q", e.Type)
	}

	current := e.Status
	if current == "" {
		current = Draft
	}

	if !CanTransition(current, target) {
		return FieldChange{}, errors.Wrapf(ErrTransitionNotAllowed, "%q to %q", current, target)
	}

	e.Status = target
	return FieldChange{Name: "status", OldValue: string(current), NewValue: string(target)}, nil
}
