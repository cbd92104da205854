package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"garagy/internal/entities"
	apperrors "garagy/internal/errors"
	"garagy/internal/layout"
)

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }

func TestEditorModes(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	ed, err := env.layouts.Editor(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, entities.ModeCreate, ed.Mode)
	assert.Equal(t, layout.DefaultConfiguration(), ed.Configuration)
	assert.Nil(t, ed.Layout)

	saved := env.seedLayout(t, "g1")
	ed, err = env.layouts.Editor(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, entities.ModeEdit, ed.Mode)
	assert.Equal(t, []int{2, 3}, ed.Configuration.SectionSlots)
	assert.True(t, ed.Emergency)
	require.NotNil(t, ed.Layout)
	assert.Equal(t, saved, *ed.Layout)
}

func TestEditConfiguration(t *testing.T) {
	env := newTestEnv(t)
	cfg := env.layouts.EditConfiguration(entities.ConfigurationEditRequest{
		Configuration: layout.Configuration{SectionCount: 2, SectionSlots: []int{4, 4}},
		SectionCount:  intPtr(3),
		Slot:          &entities.SlotEdit{Index: 2, Value: 99},
	})
	assert.Equal(t, layout.Configuration{SectionCount: 3, SectionSlots: []int{4, 4, layout.MaxSlotsPerSection}}, cfg)

	// A malformed incoming configuration is reconciled first.
	cfg = env.layouts.EditConfiguration(entities.ConfigurationEditRequest{
		Configuration: layout.Configuration{SectionCount: 2, SectionSlots: []int{5}},
	})
	assert.Equal(t, []int{5, 1}, cfg.SectionSlots)
}

func TestGenerateValidatesConfiguration(t *testing.T) {
	env := newTestEnv(t)
	tests := map[string]layout.Configuration{
		"zero sections":    {SectionCount: 0, SectionSlots: []int{}},
		"too many slots":   {SectionCount: 1, SectionSlots: []int{51}},
		"zero slots":       {SectionCount: 2, SectionSlots: []int{1, 0}},
		"length mismatch":  {SectionCount: 2, SectionSlots: []int{1}},
		"missing slots":    {SectionCount: 1},
		"too many section": {SectionCount: 21, SectionSlots: make([]int, 21)},
	}
	for name, cfg := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := env.layouts.Generate(context.Background(), "g1", entities.GenerateRequest{Configuration: cfg})
			assert.True(t, apperrors.Is(err, apperrors.CodeInvalidInput), "got %v", err)
		})
	}
}

func TestGenerateIsNotPersisted(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	l, err := env.layouts.Generate(ctx, "g1", entities.GenerateRequest{
		Configuration: layout.Configuration{SectionCount: 1, SectionSlots: []int{3}},
		Emergency:     boolPtr(false),
	})
	require.NoError(t, err)
	assert.Len(t, l.Sections, 1)

	_, err = env.layouts.Current(ctx, "g1")
	assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))
}

func TestResizeKeepsPersistedSlots(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.seedLayout(t, "g1")
	_, err := env.layouts.Toggle(ctx, "g1", "slot-1")
	require.NoError(t, err)

	draft, err := env.layouts.Resize(ctx, "g1", entities.GenerateRequest{
		Configuration: layout.Configuration{SectionCount: 1, SectionSlots: []int{3}},
	})
	require.NoError(t, err)
	require.Len(t, draft.Sections, 2)
	assert.Equal(t, layout.Slot{ID: "slot-1", Status: layout.StatusUnavailable}, draft.Sections[0].Slots[0])
	assert.Equal(t, "slot-2", draft.Sections[0].Slots[1].ID)
	assert.True(t, draft.Sections[1].IsEmergency)
	assert.Equal(t, "slot-6", draft.Sections[1].Slots[0].ID)
}

func TestSaveStampsAndValidates(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	saved := env.seedLayout(t, "g1")
	assert.Equal(t, env.clock, saved.LastUpdated)

	bad := saved.Clone()
	bad.Sections[0].Slots[1].ID = bad.Sections[0].Slots[0].ID
	_, err := env.layouts.Save(ctx, "g1", bad)
	assert.True(t, apperrors.Is(err, apperrors.CodeDataShape))

	cur, err := env.layouts.Current(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, saved, cur.Layout)
	assert.Equal(t, layout.Counts{Total: 10, Available: 10}, cur.Counts)
}

func TestToggleIsPersisted(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.seedLayout(t, "g1")

	resp, err := env.layouts.Toggle(ctx, "g1", "slot-3")
	require.NoError(t, err)
	assert.Equal(t, layout.StatusUnavailable, resp.Slot.Status)
	assert.Equal(t, 1, resp.Counts.Unavailable)

	cur, err := env.layouts.Current(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, layout.StatusUnavailable, cur.Layout.Sections[1].Slots[0].Status)

	_, err = env.layouts.Toggle(ctx, "g1", "nope")
	assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))
	_, err = env.layouts.Toggle(ctx, "other", "slot-3")
	assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))
}

func TestToggleWriteFailureLeavesLayoutUnchanged(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	before := env.seedLayout(t, "g1")

	env.store.setFailWrites(true)
	_, err := env.layouts.Toggle(ctx, "g1", "slot-1")
	assert.True(t, apperrors.Is(err, apperrors.CodeRemoteIO))
	env.store.setFailWrites(false)

	cur, err := env.layouts.Current(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, before, cur.Layout)
}
