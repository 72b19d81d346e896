// Package ledger owns the monthly due ledger and the guest payment log.
package ledger

import (
	"context"
	"time"

	"github.com/anandbhagyawant/messconnect-backend/internal/records"
	"github.com/anandbhagyawant/messconnect-backend/internal/settings"
	"github.com/anandbhagyawant/messconnect-backend/internal/store"
	"github.com/anandbhagyawant/messconnect-backend/pkg/enums"
	pkgerrors "github.com/anandbhagyawant/messconnect-backend/pkg/errors"
	"github.com/anandbhagyawant/messconnect-backend/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const monthLayout = "2006-01"

type Service struct {
	catalog  *records.Catalog
	settings *settings.Service
	logg     *logger.Logger
	nowFn    func() time.Time
}

// NewService wires the ledger. nowFn may be nil, in which case time.Now is
// used; tests inject a fixed clock to pin the billing month.
func NewService(catalog *records.Catalog, settingsSvc *settings.Service, logg *logger.Logger, nowFn func() time.Time) *Service {
	if nowFn == nil {
		nowFn = time.Now
	}
	return &Service{catalog: catalog, settings: settingsSvc, logg: logg, nowFn: nowFn}
}

// EnsureCurrentDue lazily seeds the student's due for the current month.
// Idempotent: an existing due, or losing a concurrent create race, is
// success. Only approved students are billed. An unpaid previous month is
// carried forward into the new amount; the previous due itself is left
// untouched.
func (s *Service) EnsureCurrentDue(ctx context.Context, student records.UserRecord) error {
	if student.Status != enums.UserStatusApproved || student.Role != enums.UserRoleStudent {
		return nil
	}

	now := s.nowFn().UTC()
	month := now.Format(monthLayout)
	key := records.DueKey(student.ID, month)

	exists, err := s.catalog.Dues.Exists(ctx, key)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	carried := decimal.Zero
	prev, err := s.catalog.Dues.Get(ctx, records.DueKey(student.ID, previousMonth(now)))
	if err != nil && !store.IsNotFound(err) {
		return err
	}
	if err == nil && prev.Status == enums.DueStatusDue {
		carried = prev.Amount
	}

	cfg, err := s.settings.Get(ctx)
	if err != nil {
		return err
	}

	due := records.MonthlyDueRecord{
		ID:        key,
		StudentID: student.ID,
		Month:     month,
		Amount:    cfg.MonthlyFee.Add(carried),
		Status:    enums.DueStatusDue,
	}
	if carried.IsPositive() {
		due.CarriedOverAmount = &carried
	}

	if err := s.catalog.Dues.Create(ctx, due); err != nil {
		if store.IsAlreadyExists(err) {
			return nil
		}
		return err
	}

	ctx = s.logg.WithFields(ctx, map[string]any{
		"student_id": student.ID,
		"month":      month,
		"amount":     due.Amount.String(),
	})
	s.logg.Info(ctx, "monthly due seeded")
	return nil
}

// StudentDues seeds the current month and returns the student's dues in
// billing order.
func (s *Service) StudentDues(ctx context.Context, student records.UserRecord) ([]records.MonthlyDueRecord, error) {
	if err := s.EnsureCurrentDue(ctx, student); err != nil {
		return nil, err
	}
	all, err := s.catalog.Dues.List(ctx)
	if err != nil {
		return nil, err
	}
	dues := make([]records.MonthlyDueRecord, 0, len(all))
	for _, due := range all {
		if due.StudentID == student.ID {
			dues = append(dues, due)
		}
	}
	return dues, nil
}

// MarkDuePaid settles a due. Already-paid dues are a no-op so a gateway
// callback replay cannot double-settle; paymentID is empty for manager
// overrides.
func (s *Service) MarkDuePaid(ctx context.Context, dueID, paymentID string) (records.MonthlyDueRecord, error) {
	due, err := s.catalog.Dues.Get(ctx, dueID)
	if err != nil {
		return records.MonthlyDueRecord{}, err
	}
	if due.Status == enums.DueStatusPaid {
		return due, nil
	}

	partial := map[string]any{
		"status": enums.DueStatusPaid,
		"paidAt": s.nowFn().UTC().UnixMilli(),
	}
	if paymentID != "" {
		partial["paymentId"] = paymentID
	}
	updated, err := s.catalog.Dues.Patch(ctx, dueID, partial)
	if err != nil {
		return records.MonthlyDueRecord{}, err
	}

	s.logg.Info(s.logg.WithField(ctx, "due_id", dueID), "due settled")
	return updated, nil
}

// GuestPaymentInput describes a verified one-off payment to record.
type GuestPaymentInput struct {
	Name      string
	Phone     string
	Amount    decimal.Decimal
	PaymentID string
	OrderID   string
}

// RecordGuestPayment appends to the guest payment log. Every call writes a
// fresh record; replay protection is deliberately not a ledger concern.
func (s *Service) RecordGuestPayment(ctx context.Context, in GuestPaymentInput) (records.GuestPaymentRecord, error) {
	if in.Name == "" {
		return records.GuestPaymentRecord{}, pkgerrors.New(pkgerrors.CodeValidation, "guest name is required")
	}
	if !in.Amount.IsPositive() {
		return records.GuestPaymentRecord{}, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}

	payment := records.GuestPaymentRecord{
		ID:        uuid.NewString(),
		Name:      in.Name,
		Phone:     in.Phone,
		Amount:    in.Amount,
		PaymentID: in.PaymentID,
		OrderID:   in.OrderID,
		CreatedAt: s.nowFn().UTC().UnixMilli(),
	}
	if err := s.catalog.GuestPayments.Create(ctx, payment); err != nil {
		return records.GuestPaymentRecord{}, err
	}

	s.logg.Info(s.logg.WithField(ctx, "guest_payment_id", payment.ID), "guest payment recorded")
	return payment, nil
}

// Financials is the manager's combined money view.
type Financials struct {
	Dues          []records.MonthlyDueRecord   `json:"dues"`
	GuestPayments []records.GuestPaymentRecord `json:"guestPayments"`
}

// Financials seeds the current month for every approved student, then
// fetches all dues and all guest payments concurrently. Seeding here keeps
// the manager view complete in a fresh month before any student has queried.
func (s *Service) Financials(ctx context.Context) (Financials, error) {
	users, err := s.catalog.Users.List(ctx)
	if err != nil {
		return Financials{}, err
	}
	for _, user := range users {
		if err := s.EnsureCurrentDue(ctx, user); err != nil {
			return Financials{}, err
		}
	}

	var view Financials
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		dues, err := s.catalog.Dues.List(gctx)
		if err != nil {
			return err
		}
		view.Dues = dues
		return nil
	})
	g.Go(func() error {
		payments, err := s.catalog.GuestPayments.List(gctx)
		if err != nil {
			return err
		}
		view.GuestPayments = payments
		return nil
	})
	if err := g.Wait(); err != nil {
		return Financials{}, err
	}
	return view, nil
}

func previousMonth(t time.Time) string {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0).Format(monthLayout)
}
