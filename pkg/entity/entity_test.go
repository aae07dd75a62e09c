package entity

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestAttributes(t *testing.T) {
	e := Entity{
		ID:     "1",
		Type:   "table",
		Name:   "orders",
		Owners: []Reference{{Name: "alice"}, {Name: "bob"}},
		Tags:   []TagLabel{{TagFQN: "PII.Sensitive"}, {TagFQN: "Tier.Tier1"}},
		Extension: map[string]any{
			"retention": "30d",
		},
	}

	got := e.Attributes()

	for _, name := range AttributeNames {
		assert.Contains(t, got, name)
	}
	assert.Equal(t, "alice", got["owner"])
	assert.Equal(t, []string{"alice", "bob"}, got["owners"])
	assert.Equal(t, []string{"PII.Sensitive", "Tier.Tier1"}, got["tags"])
	assert.Equal(t, "Tier.Tier1", got["tier"])
	assert.Nil(t, got["certification"])
	assert.Nil(t, got["status"])
	assert.Equal(t, map[string]any{"retention": "30d"}, got["extension"])

	noOwner := Entity{Type: "table"}
	assert.Nil(t, noOwner.Attributes()["owner"])
}

func TestSetCertification(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	table := Entity{Type: "table"}
	change, err := table.SetCertification("Certification.Gold", now)
	assert.NoError(t, err)
	assert.Equal(t, FieldChange{Name: "certification", NewValue: "Certification.Gold"}, change)
	assert.Equal(t, "Certification.Gold", table.Certification.TagLabel.TagFQN)
	assert.Equal(t, now, table.Certification.AppliedDate)

	change, err = table.SetCertification("", now)
	assert.NoError(t, err)
	assert.Equal(t, FieldChange{Name: "certification", OldValue: "Certification.Gold"}, change)
	assert.Nil(t, table.Certification)

	term := Entity{Type: GlossaryTermType}
	_, err = term.SetCertification("Certification.Gold", now)
	assert.True(t, errors.Is(err, ErrCertificationNotSupported))
	assert.Nil(t, term.Certification)
}

func TestSetStatus(t *testing.T) {
	tests := []struct {
		name    string
		entity  Entity
		target  Status
		want    Status
		wantErr error
	}{
		{
			name:   "in review to approved",
			entity: Entity{Type: GlossaryTermType, Status: InReview},
			target: Approved,
			want:   Approved,
		},
		{
			name:   "no status is treated as draft",
			entity: Entity{Type: GlossaryTermType},
			target: InReview,
			want:   InReview,
		},
		{
			name:    "approved to approved",
			entity:  Entity{Type: GlossaryTermType, Status: Approved},
			target:  Approved,
			want:    Approved,
			wantErr: ErrTransitionNotAllowed,
		},
		{
			name:    "deprecated to rejected",
			entity:  Entity{Type: GlossaryTermType, Status: Deprecated},
			target:  Rejected,
			want:    Deprecated,
			wantErr: ErrTransitionNotAllowed,
		},
		{
			name:    "not a glossary term",
			entity:  Entity{Type: "table"},
			target:  Approved,
			wantErr: ErrNotGlossaryTerm,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.entity.SetStatus(tt.target)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got error %v", err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, tt.entity.Status)
		})
	}
}

func TestParseStatus(t *testing.T) {
	got, err := ParseStatus("In Review")
	assert.NoError(t, err)
	assert.Equal(t, InReview, got)

	_, err = ParseStatus("Published")
	assert.Error(t, err)
}
