package portal_test

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/anandbhagyawant/messconnect-backend/internal/portal"
	"github.com/anandbhagyawant/messconnect-backend/internal/records"
	"github.com/anandbhagyawant/messconnect-backend/internal/store"
	"github.com/anandbhagyawant/messconnect-backend/pkg/db/models"
	pkgerrors "github.com/anandbhagyawant/messconnect-backend/pkg/errors"
	"github.com/anandbhagyawant/messconnect-backend/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var noon = time.Date(2026, time.August, 15, 12, 0, 0, 0, time.UTC)

func newService(t *testing.T) *portal.Service {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(&models.EntityRecord{}, &models.EntityIndexEntry{}))

	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	catalog := records.NewCatalog(store.New(gdb))
	return portal.NewService(catalog, logg, func() time.Time { return noon })
}

func student() records.UserRecord {
	return records.UserRecord{ID: "asha@example.com", Name: "Asha"}
}

func TestMenuEmptyBeforeFirstWrite(t *testing.T) {
	svc := newService(t)

	menu, err := svc.Menu(context.Background())
	require.NoError(t, err)
	assert.Empty(t, menu.Days)
}

func TestUpdateMenuReplacesWholesale(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.UpdateMenu(ctx, []records.MenuDay{
		{Day: "Monday", Breakfast: "Poha", Lunch: "Dal rice", Dinner: "Roti sabzi"},
		{Day: "Tuesday", Breakfast: "Upma", Lunch: "Rajma rice", Dinner: "Khichdi"},
	})
	require.NoError(t, err)

	updated, err := svc.UpdateMenu(ctx, []records.MenuDay{
		{Day: "Monday", Breakfast: "Idli", Lunch: "Sambar rice", Dinner: "Paratha"},
	})
	require.NoError(t, err)
	require.Len(t, updated.Days, 1)
	assert.Equal(t, "Idli", updated.Days[0].Breakfast)

	menu, err := svc.Menu(ctx)
	require.NoError(t, err)
	assert.Len(t, menu.Days, 1)
	assert.Equal(t, noon.UnixMilli(), menu.UpdatedAt)
}

func TestComplaintLifecycle(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	complaint, err := svc.CreateComplaint(ctx, student(), "dal was cold")
	require.NoError(t, err)
	assert.NotEmpty(t, complaint.ID)
	assert.Equal(t, "Asha", complaint.StudentName)

	replied, err := svc.ReplyToComplaint(ctx, complaint.ID, "we will fix it")
	require.NoError(t, err)
	assert.Equal(t, "we will fix it", replied.Reply)
	assert.Equal(t, "dal was cold", replied.Text)
}

func TestListComplaintsScopesByStudent(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.CreateComplaint(ctx, student(), "first")
	require.NoError(t, err)
	other := records.UserRecord{ID: "ravi@example.com", Name: "Ravi"}
	_, err = svc.CreateComplaint(ctx, other, "second")
	require.NoError(t, err)

	all, err := svc.ListComplaints(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	own, err := svc.ListComplaints(ctx, "asha@example.com")
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, "first", own[0].Text)
}

func TestSuggestionLifecycle(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	suggestion, err := svc.CreateSuggestion(ctx, student(), "add fruit on fridays")
	require.NoError(t, err)

	replied, err := svc.ReplyToSuggestion(ctx, suggestion.ID, "good idea")
	require.NoError(t, err)
	assert.Equal(t, "good idea", replied.Reply)
}

func TestBroadcasts(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.CreateBroadcast(ctx, "Holiday", "mess closed on the 20th")
	require.NoError(t, err)
	_, err = svc.CreateBroadcast(ctx, "Fee reminder", "pay before month end")
	require.NoError(t, err)

	all, err := svc.ListBroadcasts(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Holiday", all[0].Title)
}

func TestNotesAreOwnerScoped(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	note, err := svc.CreateNote(ctx, "manager@messconnect.com", "order rice")
	require.NoError(t, err)

	own, err := svc.ListNotes(ctx, "manager@messconnect.com")
	require.NoError(t, err)
	assert.Len(t, own, 1)

	others, err := svc.ListNotes(ctx, "admin@messconnect.com")
	require.NoError(t, err)
	assert.Empty(t, others)

	toggled, err := svc.ToggleNote(ctx, "manager@messconnect.com", note.ID)
	require.NoError(t, err)
	assert.True(t, toggled.Done)

	_, err = svc.ToggleNote(ctx, "admin@messconnect.com", note.ID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeForbidden, typed.Code())
}

func TestDeleteNote(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	note, err := svc.CreateNote(ctx, "manager@messconnect.com", "order rice")
	require.NoError(t, err)

	err = svc.DeleteNote(ctx, "admin@messconnect.com", note.ID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeForbidden, typed.Code())

	require.NoError(t, svc.DeleteNote(ctx, "manager@messconnect.com", note.ID))

	remaining, err := svc.ListNotes(ctx, "manager@messconnect.com")
	require.NoError(t, err)
	assert.Empty(t, remaining)
}
