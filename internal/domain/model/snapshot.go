// Package model contains domain models passed between layers.
package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/okian/natal/internal/domain/astro"
	"github.com/okian/natal/internal/domain/brief"
	"github.com/okian/natal/internal/domain/chart"
	"github.com/okian/natal/internal/domain/scoring"
	"github.com/okian/natal/internal/domain/vocation"
)

// Snapshot is the persisted record of one chart request. Snapshots are
// written once under a fresh ID and never updated.
type Snapshot struct {
	ID        string           `json:"id"`
	CreatedAt time.Time        `json:"createdAt"`
	Input     astro.BirthInput `json:"input"`
	Chart     *chart.Chart     `json:"chart"`
	Profile   *scoring.Profile `json:"profile,omitempty"`
	Vocation  *vocation.Result `json:"vocation,omitempty"`
	Brief     *brief.Brief     `json:"brief,omitempty"`
}

// NewSnapshot stamps ch with a fresh random ID and the current UTC time.
func NewSnapshot(ch *chart.Chart) Snapshot {
	return Snapshot{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
		Input:     ch.Input,
		Chart:     ch,
	}
}

// ValidID reports whether id has the shape NewSnapshot produces.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// SnapshotSummary is the listing view of a snapshot.
type SnapshotSummary struct {
	ID              string                  `json:"id"`
	CreatedAt       time.Time               `json:"createdAt"`
	Name            string                  `json:"name,omitempty"`
	Sun             astro.Sign              `json:"sun"`
	Moon            astro.Sign              `json:"moon"`
	Ascendant       astro.Sign              `json:"asc"`
	CareerArchetype scoring.CareerArchetype `json:"careerArchetype,omitempty"`
	Degraded        bool                    `json:"degraded"`
}

// Summary condenses s for listings and logs.
func (s Snapshot) Summary() SnapshotSummary {
	out := SnapshotSummary{ID: s.ID, CreatedAt: s.CreatedAt, Name: s.Input.Name}
	if s.Chart != nil {
		sign := func(b astro.Body) astro.Sign {
			p, _ := s.Chart.Placement(b)
			return p.Sign
		}
		out.Sun, out.Moon, out.Ascendant = sign(astro.Sun), sign(astro.Moon), sign(astro.ASC)
		out.Degraded = s.Chart.Degraded()
	}
	if s.Profile != nil {
		out.CareerArchetype = s.Profile.CareerArchetype
	}
	return out
}
