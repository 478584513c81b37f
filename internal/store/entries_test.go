package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/solia/internal/foundation/errors"
)

func TestOpenCloseRoundTrip(t *testing.T) {
	s, now := testStore(t)
	ctx := t.Context()

	p, err := s.CreateProfile(ctx, Profile{Name: "Acme"})
	require.NoError(t, err)

	entry, err := s.OpenEntry(ctx, p.ID, nil, "morning work", "billable")
	require.NoError(t, err)
	assert.True(t, entry.Open())
	assert.Equal(t, now.Unix(), entry.StartTS)

	end := now.Unix() + 90
	closed, err := s.CloseEntry(ctx, entry.ID, end)
	require.NoError(t, err)
	require.NotNil(t, closed.EndTS)
	assert.Equal(t, end, *closed.EndTS)
	assert.Equal(t, int64(90), closed.DurationSeconds(end))

	open, err := s.FindOpenEntry(ctx)
	require.NoError(t, err)
	assert.Nil(t, open)
}

func TestOpenEntryEnforcesSingleOpen(t *testing.T) {
	s, _ := testStore(t)
	ctx := t.Context()

	acme, err := s.CreateProfile(ctx, Profile{Name: "Acme"})
	require.NoError(t, err)
	beta, err := s.CreateProfile(ctx, Profile{Name: "Beta"})
	require.NoError(t, err)

	first, err := s.OpenEntry(ctx, acme.ID, nil, "", "")
	require.NoError(t, err)

	_, err = s.OpenEntry(ctx, beta.ID, nil, "", "")
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConflict))

	// Exactly one entry is open and it belongs to Acme.
	open, err := s.FindOpenEntry(ctx)
	require.NoError(t, err)
	require.NotNil(t, open)
	assert.Equal(t, first.ID, open.ID)
	assert.Equal(t, acme.ID, open.ProfileID)
}

func TestOpenEntryUnknownProfile(t *testing.T) {
	s, _ := testStore(t)

	_, err := s.OpenEntry(t.Context(), 77, nil, "", "")
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryNotFound))
}

func TestOpenEntryUnknownProject(t *testing.T) {
	s, _ := testStore(t)
	ctx := t.Context()

	p, err := s.CreateProfile(ctx, Profile{Name: "Acme"})
	require.NoError(t, err)

	bogus := int64(1234)
	_, err = s.OpenEntry(ctx, p.ID, &bogus, "", "")
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryNotFound))
}

func TestCloseEntryErrors(t *testing.T) {
	s, now := testStore(t)
	ctx := t.Context()

	p, err := s.CreateProfile(ctx, Profile{Name: "Acme"})
	require.NoError(t, err)

	_, err = s.CloseEntry(ctx, 999, now.Unix())
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryNotFound))

	entry, err := s.OpenEntry(ctx, p.ID, nil, "", "")
	require.NoError(t, err)

	_, err = s.CloseEntry(ctx, entry.ID, entry.StartTS-1)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryValidation))

	_, err = s.CloseEntry(ctx, entry.ID, entry.StartTS+10)
	require.NoError(t, err)

	_, err = s.CloseEntry(ctx, entry.ID, entry.StartTS+20)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryInvalidState))
}

func TestProjectDeletionNullsEntryReference(t *testing.T) {
	s, now := testStore(t)
	ctx := t.Context()

	p, err := s.CreateProfile(ctx, Profile{Name: "Acme"})
	require.NoError(t, err)
	proj, err := s.CreateProject(ctx, Project{ProfileID: p.ID, Name: "Website"})
	require.NoError(t, err)

	entry, err := s.OpenEntry(ctx, p.ID, &proj.ID, "", "")
	require.NoError(t, err)
	_, err = s.CloseEntry(ctx, entry.ID, now.Unix()+5)
	require.NoError(t, err)

	require.NoError(t, s.DeleteProject(ctx, proj.ID))

	got, err := s.GetEntry(ctx, entry.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ProjectID)
}

func TestListEntriesFilterAndJoin(t *testing.T) {
	s, now := testStore(t)
	ctx := t.Context()

	acme, err := s.CreateProfile(ctx, Profile{Name: "Acme"})
	require.NoError(t, err)
	beta, err := s.CreateProfile(ctx, Profile{Name: "Beta"})
	require.NoError(t, err)
	proj, err := s.CreateProject(ctx, Project{ProfileID: acme.ID, Name: "Website"})
	require.NoError(t, err)

	e1, err := s.OpenEntry(ctx, acme.ID, &proj.ID, "a", "")
	require.NoError(t, err)
	_, err = s.CloseEntry(ctx, e1.ID, now.Unix()+10)
	require.NoError(t, err)

	*now = now.Add(time.Hour)
	e2, err := s.OpenEntry(ctx, beta.ID, nil, "b", "")
	require.NoError(t, err)
	_, err = s.CloseEntry(ctx, e2.ID, now.Unix()+10)
	require.NoError(t, err)

	all, err := s.ListEntries(ctx, EntryFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	// Newest first.
	assert.Equal(t, "Beta", all[0].ProfileName)
	assert.Equal(t, "", all[0].ProjectName)
	assert.Equal(t, "Acme", all[1].ProfileName)
	assert.Equal(t, "Website", all[1].ProjectName)

	onlyAcme, err := s.ListEntries(ctx, EntryFilter{ProfileID: &acme.ID})
	require.NoError(t, err)
	require.Len(t, onlyAcme, 1)
	assert.Equal(t, e1.ID, onlyAcme[0].ID)

	from := now.Unix() - 60
	recent, err := s.ListEntries(ctx, EntryFilter{From: &from})
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, e2.ID, recent[0].ID)
}

func TestDeleteEntries(t *testing.T) {
	s, now := testStore(t)
	ctx := t.Context()

	p, err := s.CreateProfile(ctx, Profile{Name: "Acme"})
	require.NoError(t, err)

	var ids []int64
	for i := 0; i < 3; i++ {
		e, err := s.OpenEntry(ctx, p.ID, nil, "", "")
		require.NoError(t, err)
		_, err = s.CloseEntry(ctx, e.ID, now.Unix()+1)
		require.NoError(t, err)
		ids = append(ids, e.ID)
	}

	require.NoError(t, s.DeleteEntries(ctx, nil))
	require.NoError(t, s.DeleteEntries(ctx, ids[:2]))

	rows, err := s.ListEntries(ctx, EntryFilter{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, ids[2], rows[0].ID)
}

func TestUpdateEntryNoteAndTags(t *testing.T) {
	s, now := testStore(t)
	ctx := t.Context()

	p, err := s.CreateProfile(ctx, Profile{Name: "Acme"})
	require.NoError(t, err)
	e, err := s.OpenEntry(ctx, p.ID, nil, "draft", "")
	require.NoError(t, err)
	_, err = s.CloseEntry(ctx, e.ID, now.Unix()+1)
	require.NoError(t, err)

	require.NoError(t, s.UpdateEntry(ctx, e.ID, "final", "billable,review"))
	got, err := s.GetEntry(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, "final", got.Note)
	assert.Equal(t, "billable,review", got.Tags)
}
