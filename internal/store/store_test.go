package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/solia/internal/foundation/errors"
)

// testStore opens an in-memory store with a controllable clock.
func testStore(t *testing.T) (*Store, *time.Time) {
	t.Helper()
	now := time.Unix(1_700_000_000, 0)
	s, err := Open(":memory:", WithNow(func() time.Time { return now }))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, &now
}

func TestFreshDatabaseMigratesToCurrentVersion(t *testing.T) {
	s, _ := testStore(t)

	v, err := s.schemaVersion(t.Context())
	require.NoError(t, err)
	assert.Equal(t, SchemaVersion, v)
}

func TestMigrateIsIdempotent(t *testing.T) {
	s, _ := testStore(t)
	require.NoError(t, s.migrate(t.Context()))

	v, err := s.schemaVersion(t.Context())
	require.NoError(t, err)
	assert.Equal(t, SchemaVersion, v)
}

func TestProfileCRUD(t *testing.T) {
	s, _ := testStore(t)
	ctx := t.Context()

	p, err := s.CreateProfile(ctx, Profile{Name: "Acme", Color: "#ff0000"})
	require.NoError(t, err)
	require.NotZero(t, p.ID)

	got, err := s.GetProfile(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme", got.Name)
	assert.Equal(t, "#ff0000", got.Color)
	assert.False(t, got.Archived)
	assert.Nil(t, got.TargetSeconds)

	require.NoError(t, s.RenameProfile(ctx, p.ID, "Acme Corp"))
	target := int64(3600)
	require.NoError(t, s.SetProfileTargetSeconds(ctx, p.ID, &target))
	require.NoError(t, s.UpdateProfileContacts(ctx, p.ID, "Acme Corp GmbH", "J. Doe", "j@acme.example", "+49 30 1", "Alexanderplatz 1"))
	require.NoError(t, s.SetProfileNotes(ctx, p.ID, "net 30"))

	got, err = s.GetProfile(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", got.Name)
	require.NotNil(t, got.TargetSeconds)
	assert.Equal(t, int64(3600), *got.TargetSeconds)
	assert.Equal(t, "Acme Corp GmbH", got.Company)
	assert.Equal(t, "net 30", got.Notes)
}

func TestProfileValidation(t *testing.T) {
	s, _ := testStore(t)
	ctx := t.Context()

	_, err := s.CreateProfile(ctx, Profile{Name: "  "})
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryValidation))

	_, err = s.GetProfile(ctx, 999)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryNotFound))

	_, err = s.CreateProfile(ctx, Profile{Name: "Acme"})
	require.NoError(t, err)
	_, err = s.CreateProfile(ctx, Profile{Name: "Acme"})
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryAlreadyExists))
}

func TestListProfilesSkipsArchivedByDefault(t *testing.T) {
	s, _ := testStore(t)
	ctx := t.Context()

	a, err := s.CreateProfile(ctx, Profile{Name: "Active"})
	require.NoError(t, err)
	b, err := s.CreateProfile(ctx, Profile{Name: "Dormant"})
	require.NoError(t, err)
	require.NoError(t, s.SetProfileArchived(ctx, b.ID, true))

	visible, err := s.ListProfiles(ctx, false)
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, a.ID, visible[0].ID)

	all, err := s.ListProfiles(ctx, true)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestServiceCatalog(t *testing.T) {
	s, _ := testStore(t)
	ctx := t.Context()

	svc, err := s.CreateService(ctx, Service{Name: "Consulting", RateCents: 15000})
	require.NoError(t, err)

	_, err = s.CreateService(ctx, Service{Name: "Consulting", RateCents: 1})
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryAlreadyExists))

	_, err = s.CreateService(ctx, Service{Name: "Free", RateCents: -1})
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryValidation))

	svc.RateCents = 17500
	require.NoError(t, s.UpdateService(ctx, *svc))

	list, err := s.ListServices(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, int64(17500), list[0].RateCents)
}

func TestProfileServiceDetailLookup(t *testing.T) {
	s, _ := testStore(t)
	ctx := t.Context()

	p, err := s.CreateProfile(ctx, Profile{Name: "Acme"})
	require.NoError(t, err)
	svc, err := s.CreateService(ctx, Service{Name: "Consulting", RateCents: 15000})
	require.NoError(t, err)

	ps, err := s.AttachService(ctx, p.ID, svc.ID, "retainer")
	require.NoError(t, err)

	detail, err := s.GetProfileService(ctx, ps.ID)
	require.NoError(t, err)
	assert.Equal(t, "Consulting", detail.ServiceName)
	assert.Equal(t, int64(15000), detail.RateCents)
	assert.Equal(t, "retainer", detail.Notes)

	require.NoError(t, s.UpdateProfileServiceNotes(ctx, ps.ID, "monthly"))
	detail, err = s.GetProfileService(ctx, ps.ID)
	require.NoError(t, err)
	assert.Equal(t, "monthly", detail.Notes)

	require.NoError(t, s.DetachService(ctx, ps.ID))
	_, err = s.GetProfileService(ctx, ps.ID)
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryNotFound))
}

func TestProjectLifecycle(t *testing.T) {
	s, _ := testStore(t)
	ctx := t.Context()

	p, err := s.CreateProfile(ctx, Profile{Name: "Acme"})
	require.NoError(t, err)
	svc, err := s.CreateService(ctx, Service{Name: "Dev", RateCents: 12000})
	require.NoError(t, err)

	proj, err := s.CreateProject(ctx, Project{ProfileID: p.ID, Name: "Website", ServiceID: &svc.ID})
	require.NoError(t, err)

	require.NoError(t, s.SetProjectInvoiceFlags(ctx, proj.ID, true, false))
	got, err := s.GetProject(ctx, proj.ID)
	require.NoError(t, err)
	assert.True(t, got.InvoiceSent)
	assert.False(t, got.InvoicePaid)

	// Deleting the referenced service keeps the project, nulls the link.
	require.NoError(t, s.DeleteService(ctx, svc.ID))
	got, err = s.GetProject(ctx, proj.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ServiceID)
}

func TestProjectRequiresExistingProfile(t *testing.T) {
	s, _ := testStore(t)

	_, err := s.CreateProject(t.Context(), Project{ProfileID: 42, Name: "Orphan"})
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryNotFound))
}

func TestProfileDeletionCascades(t *testing.T) {
	s, now := testStore(t)
	ctx := t.Context()

	p, err := s.CreateProfile(ctx, Profile{Name: "Acme"})
	require.NoError(t, err)
	proj, err := s.CreateProject(ctx, Project{ProfileID: p.ID, Name: "Website"})
	require.NoError(t, err)
	svc, err := s.CreateService(ctx, Service{Name: "Dev", RateCents: 100})
	require.NoError(t, err)
	ps, err := s.AttachService(ctx, p.ID, svc.ID, "")
	require.NoError(t, err)
	_, err = s.AddTodo(ctx, TodoProfile, p.ID, "send invoice")
	require.NoError(t, err)
	_, err = s.AddTodo(ctx, TodoProject, proj.ID, "deploy")
	require.NoError(t, err)
	_, err = s.AddTodo(ctx, TodoProfileService, ps.ID, "agree rate")
	require.NoError(t, err)

	entry, err := s.OpenEntry(ctx, p.ID, &proj.ID, "work", "")
	require.NoError(t, err)
	_, err = s.CloseEntry(ctx, entry.ID, now.Unix()+60)
	require.NoError(t, err)

	require.NoError(t, s.DeleteProfile(ctx, p.ID))

	_, err = s.GetProject(ctx, proj.ID)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryNotFound))
	rows, err := s.ListEntries(ctx, EntryFilter{})
	require.NoError(t, err)
	assert.Empty(t, rows)
	todos, err := s.ListTodos(ctx, TodoProfile, p.ID)
	require.NoError(t, err)
	assert.Empty(t, todos)
	attached, err := s.ListProfileServices(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, attached)

	// The catalog itself is untouched.
	_, err = s.GetService(ctx, svc.ID)
	assert.NoError(t, err)
}

func TestTodoFlow(t *testing.T) {
	s, _ := testStore(t)
	ctx := t.Context()

	p, err := s.CreateProfile(ctx, Profile{Name: "Acme"})
	require.NoError(t, err)

	todo, err := s.AddTodo(ctx, TodoProfile, p.ID, "call back")
	require.NoError(t, err)

	_, err = s.AddTodo(ctx, TodoProfile, p.ID, " ")
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryValidation))

	require.NoError(t, s.SetTodoCompleted(ctx, TodoProfile, todo.ID, true))
	list, err := s.ListTodos(ctx, TodoProfile, p.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].Completed)

	require.NoError(t, s.DeleteTodo(ctx, TodoProfile, todo.ID))
	assert.True(t, ferrors.HasCategory(
		s.SetTodoCompleted(ctx, TodoProfile, todo.ID, false),
		ferrors.CategoryNotFound))
}

func TestAddTodoUnknownParent(t *testing.T) {
	s, _ := testStore(t)

	_, err := s.AddTodo(t.Context(), TodoProfile, 12345, "ghost")
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryNotFound))
}
