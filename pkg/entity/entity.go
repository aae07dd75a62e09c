// Package entity models the catalog entities which governance
// workflows run against.
package entity

import (
	"strings"
	"time"
)

// GlossaryTermType is the entity type of glossary terms.
const GlossaryTermType = "glossaryTerm"

// Reference points to another entity, such as an owning user or team.
type Reference struct {
	ID   string `json:"id,omitempty"`
	Type string `json:"type,omitempty"`
	Name string `json:"name"`
}

// TagLabel is a tag or glossary term applied to an entity.
type TagLabel struct {
	TagFQN string `json:"tagFQN"`
	Source string `json:"source,omitempty"`
}

// Certification is the certification currently applied to an entity.
type Certification struct {
	TagLabel    TagLabel  `json:"tagLabel"`
	AppliedDate time.Time `json:"appliedDate"`
}

// Entity is a catalog entity being processed by a workflow.
type Entity struct {
	ID                 string         `json:"id"`
	Type               string         `json:"entityType"`
	Name               string         `json:"name"`
	FullyQualifiedName string         `json:"fullyQualifiedName,omitempty"`
	DisplayName        string         `json:"displayName,omitempty"`
	Description        string         `json:"description,omitempty"`
	Owners             []Reference    `json:"owners,omitempty"`
	Reviewers          []Reference    `json:"reviewers,omitempty"`
	Tags               []TagLabel     `json:"tags,omitempty"`
	Domain             string         `json:"domain,omitempty"`
	Certification      *Certification `json:"certification,omitempty"`

	// Status is only set for glossary terms.
	Status Status `json:"status,omitempty"`

	// Extension contains custom properties.
	Extension map[string]any `json:"extension,omitempty"`
}

// AttributeNames are the attributes exposed by Attributes.
var AttributeNames = []string{
	"id",
	"entityType",
	"name",
	"fullyQualifiedName",
	"displayName",
	"description",
	"owner",
	"owners",
	"reviewers",
	"tags",
	"tier",
	"domain",
	"certification",
	"status",
	"extension",
}

// Attributes flattens the entity into a map used as the input
// to predicates. Every name in AttributeNames is present in the map;
// unset optional attributes are nil.
func (e *Entity) Attributes() map[string]any {
	attrs := map[string]any{
		"id":                 e.ID,
		"entityType":         e.Type,
		"name":               e.Name,
		"fullyQualifiedName": e.FullyQualifiedName,
		"displayName":        e.DisplayName,
		"description":        e.Description,
		"owner":              nil,
		"owners":             names(e.Owners),
		"reviewers":          names(e.Reviewers),
		"tags":               e.TagFQNs(),
		"tier":               nil,
		"domain":             nil,
		"certification":      nil,
		"status":             nil,
		"extension":          map[string]any{},
	}

	if len(e.Owners) > 0 {
		attrs["owner"] = e.Owners[0].Name
	}
	if tier := e.Tier(); tier != "" {
		attrs["tier"] = tier
	}
	if e.Domain != "" {
		attrs["domain"] = e.Domain
	}
	if e.Certification != nil {
		attrs["certification"] = e.Certification.TagLabel.TagFQN
	}
	if e.Status != "" {
		attrs["status"] = string(e.Status)
	}
	for k, v := range e.Extension {
		attrs["extension"].(map[string]any)[k] = v
	}

	return attrs
}

// TagFQNs returns the fully qualified names of the entity's tags.
func (e *Entity) TagFQNs() []string {
	fqns := make([]string, 0, len(e.Tags))
	for _, t := range e.Tags {
		fqns = append(fqns, t.TagFQN)
	}
	return fqns
}

// Tier returns the entity's tier tag, e.g. 'Tier.Tier1'.
func (e *Entity) Tier() string {
	for _, t := range e.Tags {
		if strings.HasPrefix(t.TagFQN, "Tier.") {
			return t.TagFQN
		}
	}
	return ""
}

func names(refs []Reference) []string {
	out := make([]string, 0, len(refs))
	for _, r := range refs {
		out = append(out, r.Name)
	}
	return out
}

// FieldChange describes an update a workflow node made to an entity.
type FieldChange struct {
	Name     string `json:"name"`
	OldValue any    `json:"oldValue,omitempty"`
	NewValue any    `json:"newValue,omitempty"`
}
