// Package directory manages student accounts and their registration status.
package directory

import (
	"context"
	"fmt"

	"github.com/anandbhagyawant/messconnect-backend/internal/records"
	"github.com/anandbhagyawant/messconnect-backend/pkg/enums"
	pkgerrors "github.com/anandbhagyawant/messconnect-backend/pkg/errors"
	"github.com/anandbhagyawant/messconnect-backend/pkg/logger"
)

type Service struct {
	catalog *records.Catalog
	logg    *logger.Logger
}

func NewService(catalog *records.Catalog, logg *logger.Logger) *Service {
	return &Service{catalog: catalog, logg: logg}
}

// GetUser loads any account by id.
func (s *Service) GetUser(ctx context.Context, id string) (records.UserRecord, error) {
	return s.catalog.Users.Get(ctx, id)
}

// ListStudents returns every student account in registration order.
func (s *Service) ListStudents(ctx context.Context) ([]records.PublicUser, error) {
	users, err := s.catalog.Users.List(ctx)
	if err != nil {
		return nil, err
	}
	students := make([]records.PublicUser, 0, len(users))
	for _, u := range users {
		if u.Role == enums.UserRoleStudent {
			students = append(students, u.Public())
		}
	}
	return students, nil
}

// Approve moves a pending student to approved. Approval is what makes the
// student eligible for due seeding.
func (s *Service) Approve(ctx context.Context, studentID string) (records.PublicUser, error) {
	return s.transition(ctx, studentID, enums.UserStatusApproved)
}

// Reject moves a pending student to rejected.
func (s *Service) Reject(ctx context.Context, studentID string) (records.PublicUser, error) {
	return s.transition(ctx, studentID, enums.UserStatusRejected)
}

// transition enforces the one-way status rule: only pending registrations
// move, and repeating a settled transition is a no-op.
func (s *Service) transition(ctx context.Context, studentID string, to enums.UserStatus) (records.PublicUser, error) {
	user, err := s.catalog.Users.Get(ctx, studentID)
	if err != nil {
		return records.PublicUser{}, err
	}
	if user.Role != enums.UserRoleStudent {
		return records.PublicUser{}, pkgerrors.New(pkgerrors.CodeValidation, "account is not a student registration")
	}
	if user.Status == to {
		return user.Public(), nil
	}
	if user.Status != enums.UserStatusPending {
		return records.PublicUser{}, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("registration already %s", user.Status))
	}

	updated, err := s.catalog.Users.Patch(ctx, studentID, map[string]any{"status": to})
	if err != nil {
		return records.PublicUser{}, err
	}

	ctx = s.logg.WithFields(ctx, map[string]any{"student_id": studentID, "status": to.String()})
	s.logg.Info(ctx, "student registration settled")
	return updated.Public(), nil
}
