package model

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validPackage() *Package {
	return &Package{
		SchemaVersion: SchemaVersion,
		Routes: []Route{
			{ID: "a", LayoutID: 1, Embedding: []float32{1, 2}},
			{ID: "b", LayoutID: 2, Embedding: []float32{3, 4}},
		},
		Holds: []Hold{
			{RouteID: "a", Pos: Point{1, 1}, Role: RoleStart},
			{RouteID: "b", Pos: Point{2, 2}, Role: RoleFinish},
		},
		Layouts: []BoardLayout{{ID: 1}, {ID: 2}},
	}
}

func TestPackage_Validate(t *testing.T) {
	require.NoError(t, validPackage().Validate())

	tests := []struct {
		name   string
		mutate func(p *Package)
		want   string
	}{
		{"orphan hold", func(p *Package) { p.Holds[0].RouteID = "zzz" }, "unknown route"},
		{"duplicate route", func(p *Package) { p.Routes[1].ID = "a" }, "duplicate route"},
		{"unused layout", func(p *Package) { p.Layouts = append(p.Layouts, BoardLayout{ID: 9}) }, "not referenced"},
		{"missing layout", func(p *Package) { p.Layouts = p.Layouts[:1] }, "missing"},
		{"invalid role", func(p *Package) { p.Holds[1].Role = 0 }, "invalid role"},
		{"dimension", func(p *Package) { p.Routes[1].Embedding = []float32{1} }, "dimension"},
		{"empty id", func(p *Package) { p.Routes[0].ID = "" }, "empty id"},
		{"negative ascents", func(p *Package) { p.Routes[0].Ascents = -1 }, "ascents"},
		{"angle overflow", func(p *Package) { p.Routes[1].Angle = int(int64(math.MaxInt32) + 1) }, "angle"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validPackage()
			tt.mutate(p)
			err := p.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLayoutIDs(t *testing.T) {
	ids := LayoutIDs([]Route{{LayoutID: 3}, {LayoutID: 1}, {LayoutID: 3}, {LayoutID: 2}})
	assert.Equal(t, []int64{1, 2, 3}, ids)
}

func TestHoldRole(t *testing.T) {
	for _, r := range Roles {
		parsed, err := ParseHoldRole(r.String())
		require.NoError(t, err)
		assert.Equal(t, r, parsed)
		assert.True(t, r.Valid())
	}
	_, err := ParseHoldRole("toe")
	assert.Error(t, err)
	assert.False(t, HoldRole(0).Valid())
}

func TestErrors_Is(t *testing.T) {
	cause := errors.New("boom")
	tests := []struct {
		err      error
		sentinel error
	}{
		{NewMissingSourceFileError("dataset", "/x", cause), ErrMissingSourceFile},
		{&EmptyResultError{Threshold: 3}, ErrEmptyResult},
		{&InsufficientDataError{N: 1}, ErrInsufficientData},
		{&SizeBudgetExceededError{Budget: 10}, ErrSizeBudgetExceeded},
		{NewCorruptPackageError(cause, "bad %s", "magic"), ErrCorruptPackage},
		{&NotFoundError{RouteID: "x"}, ErrNotFound},
		{&InvalidDatasetError{Reason: "dup"}, ErrInvalidDataset},
	}
	for _, tt := range tests {
		wrapped := fmt.Errorf("stage: %w", tt.err)
		assert.ErrorIs(t, wrapped, tt.sentinel)
		assert.NotEmpty(t, tt.err.Error())
	}

	corrupt := NewCorruptPackageError(cause, "section %d", 2)
	assert.ErrorIs(t, corrupt, cause)
	assert.Equal(t, "section 2", corrupt.Reason)
}

func TestRoute_CloneIsDeep(t *testing.T) {
	r := Route{ID: "a", Embedding: []float32{1, 2}}
	c := r.Clone()
	c.Embedding[0] = 9
	assert.Equal(t, float32(1), r.Embedding[0])
}
