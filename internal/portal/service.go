// Package portal covers the non-financial portal features: the weekly menu,
// complaints, suggestions, broadcasts, and manager notes.
package portal

import (
	"context"
	"time"

	"github.com/anandbhagyawant/messconnect-backend/internal/records"
	"github.com/anandbhagyawant/messconnect-backend/internal/store"
	pkgerrors "github.com/anandbhagyawant/messconnect-backend/pkg/errors"
	"github.com/anandbhagyawant/messconnect-backend/pkg/logger"
	"github.com/google/uuid"
)

type Service struct {
	catalog *records.Catalog
	logg    *logger.Logger
	nowFn   func() time.Time
}

func NewService(catalog *records.Catalog, logg *logger.Logger, nowFn func() time.Time) *Service {
	if nowFn == nil {
		nowFn = time.Now
	}
	return &Service{catalog: catalog, logg: logg, nowFn: nowFn}
}

// Menu returns the current weekly menu, empty before the first write.
func (s *Service) Menu(ctx context.Context) (records.WeeklyMenuRecord, error) {
	menu, err := s.catalog.Menus.Get(ctx, records.MenuKey)
	if err != nil {
		if store.IsNotFound(err) {
			return records.WeeklyMenuRecord{Days: []records.MenuDay{}}, nil
		}
		return records.WeeklyMenuRecord{}, err
	}
	return menu, nil
}

// UpdateMenu replaces the weekly menu wholesale.
func (s *Service) UpdateMenu(ctx context.Context, days []records.MenuDay) (records.WeeklyMenuRecord, error) {
	menu := records.WeeklyMenuRecord{
		Days:      days,
		UpdatedAt: s.nowFn().UTC().UnixMilli(),
	}
	err := s.catalog.Menus.Create(ctx, menu)
	if err == nil {
		return menu, nil
	}
	if !store.IsAlreadyExists(err) {
		return records.WeeklyMenuRecord{}, err
	}
	return s.catalog.Menus.Patch(ctx, records.MenuKey, map[string]any{
		"days":      menu.Days,
		"updatedAt": menu.UpdatedAt,
	})
}

// CreateComplaint files a complaint on behalf of the student.
func (s *Service) CreateComplaint(ctx context.Context, student records.UserRecord, text string) (records.ComplaintRecord, error) {
	if text == "" {
		return records.ComplaintRecord{}, pkgerrors.New(pkgerrors.CodeValidation, "complaint text is required")
	}
	complaint := records.ComplaintRecord{
		ID:          uuid.NewString(),
		StudentID:   student.ID,
		StudentName: student.Name,
		Text:        text,
		CreatedAt:   s.nowFn().UTC().UnixMilli(),
	}
	if err := s.catalog.Complaints.Create(ctx, complaint); err != nil {
		return records.ComplaintRecord{}, err
	}
	return complaint, nil
}

// ListComplaints returns every complaint, or only the student's own when
// studentID is non-empty.
func (s *Service) ListComplaints(ctx context.Context, studentID string) ([]records.ComplaintRecord, error) {
	all, err := s.catalog.Complaints.List(ctx)
	if err != nil {
		return nil, err
	}
	if studentID == "" {
		return all, nil
	}
	own := make([]records.ComplaintRecord, 0, len(all))
	for _, c := range all {
		if c.StudentID == studentID {
			own = append(own, c)
		}
	}
	return own, nil
}

// ReplyToComplaint attaches the manager's reply.
func (s *Service) ReplyToComplaint(ctx context.Context, complaintID, reply string) (records.ComplaintRecord, error) {
	if reply == "" {
		return records.ComplaintRecord{}, pkgerrors.New(pkgerrors.CodeValidation, "reply text is required")
	}
	return s.catalog.Complaints.Patch(ctx, complaintID, map[string]any{"reply": reply})
}

// CreateSuggestion files a suggestion on behalf of the student.
func (s *Service) CreateSuggestion(ctx context.Context, student records.UserRecord, text string) (records.SuggestionRecord, error) {
	if text == "" {
		return records.SuggestionRecord{}, pkgerrors.New(pkgerrors.CodeValidation, "suggestion text is required")
	}
	suggestion := records.SuggestionRecord{
		ID:          uuid.NewString(),
		StudentID:   student.ID,
		StudentName: student.Name,
		Text:        text,
		CreatedAt:   s.nowFn().UTC().UnixMilli(),
	}
	if err := s.catalog.Suggestions.Create(ctx, suggestion); err != nil {
		return records.SuggestionRecord{}, err
	}
	return suggestion, nil
}

// ListSuggestions mirrors ListComplaints.
func (s *Service) ListSuggestions(ctx context.Context, studentID string) ([]records.SuggestionRecord, error) {
	all, err := s.catalog.Suggestions.List(ctx)
	if err != nil {
		return nil, err
	}
	if studentID == "" {
		return all, nil
	}
	own := make([]records.SuggestionRecord, 0, len(all))
	for _, sg := range all {
		if sg.StudentID == studentID {
			own = append(own, sg)
		}
	}
	return own, nil
}

// ReplyToSuggestion attaches the manager's reply.
func (s *Service) ReplyToSuggestion(ctx context.Context, suggestionID, reply string) (records.SuggestionRecord, error) {
	if reply == "" {
		return records.SuggestionRecord{}, pkgerrors.New(pkgerrors.CodeValidation, "reply text is required")
	}
	return s.catalog.Suggestions.Patch(ctx, suggestionID, map[string]any{"reply": reply})
}

// CreateBroadcast publishes an announcement.
func (s *Service) CreateBroadcast(ctx context.Context, title, message string) (records.BroadcastRecord, error) {
	if title == "" || message == "" {
		return records.BroadcastRecord{}, pkgerrors.New(pkgerrors.CodeValidation, "title and message are required")
	}
	broadcast := records.BroadcastRecord{
		ID:        uuid.NewString(),
		Title:     title,
		Message:   message,
		CreatedAt: s.nowFn().UTC().UnixMilli(),
	}
	if err := s.catalog.Broadcasts.Create(ctx, broadcast); err != nil {
		return records.BroadcastRecord{}, err
	}
	return broadcast, nil
}

// ListBroadcasts returns every announcement in publication order.
func (s *Service) ListBroadcasts(ctx context.Context) ([]records.BroadcastRecord, error) {
	return s.catalog.Broadcasts.List(ctx)
}

// CreateNote adds a checklist item for the owner.
func (s *Service) CreateNote(ctx context.Context, ownerID, text string) (records.NoteRecord, error) {
	if text == "" {
		return records.NoteRecord{}, pkgerrors.New(pkgerrors.CodeValidation, "note text is required")
	}
	note := records.NoteRecord{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Text:      text,
		CreatedAt: s.nowFn().UTC().UnixMilli(),
	}
	if err := s.catalog.Notes.Create(ctx, note); err != nil {
		return records.NoteRecord{}, err
	}
	return note, nil
}

// ListNotes returns the owner's notes only.
func (s *Service) ListNotes(ctx context.Context, ownerID string) ([]records.NoteRecord, error) {
	all, err := s.catalog.Notes.List(ctx)
	if err != nil {
		return nil, err
	}
	own := make([]records.NoteRecord, 0, len(all))
	for _, n := range all {
		if n.OwnerID == ownerID {
			own = append(own, n)
		}
	}
	return own, nil
}

// ToggleNote flips an item's done flag. Only the owner may touch it.
func (s *Service) ToggleNote(ctx context.Context, ownerID, noteID string) (records.NoteRecord, error) {
	note, err := s.catalog.Notes.Get(ctx, noteID)
	if err != nil {
		return records.NoteRecord{}, err
	}
	if note.OwnerID != ownerID {
		return records.NoteRecord{}, pkgerrors.New(pkgerrors.CodeForbidden, "note belongs to another account")
	}
	return s.catalog.Notes.Patch(ctx, noteID, map[string]any{"done": !note.Done})
}

// DeleteNote removes an item. Only the owner may delete it.
func (s *Service) DeleteNote(ctx context.Context, ownerID, noteID string) error {
	note, err := s.catalog.Notes.Get(ctx, noteID)
	if err != nil {
		return err
	}
	if note.OwnerID != ownerID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "note belongs to another account")
	}
	return s.catalog.Notes.Delete(ctx, noteID)
}
