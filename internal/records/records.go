// Package records declares the portal's record shapes and their collections
// on the entity store. Each collection pairs a type name with the key the
// record is filed under; services never touch raw store keys directly.
package records

import (
	"github.com/anandbhagyawant/messconnect-backend/internal/store"
	"github.com/anandbhagyawant/messconnect-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// Singleton keys for records that exist at most once per type.
const (
	SettingsKey = "settings"
	MenuKey     = "current"
)

// UserRecord is a portal account. The email doubles as the id and the
// storage key.
type UserRecord struct {
	ID           string           `json:"id"`
	Email        string           `json:"email"`
	Name         string           `json:"name"`
	Phone        string           `json:"phone,omitempty"`
	PasswordHash string           `json:"passwordHash"`
	Role         enums.UserRole   `json:"role"`
	Status       enums.UserStatus `json:"status"`
	CreatedAt    int64            `json:"createdAt"`
}

// PublicUser is the account shape handed to API clients, without the
// password hash.
type PublicUser struct {
	ID        string           `json:"id"`
	Email     string           `json:"email"`
	Name      string           `json:"name"`
	Phone     string           `json:"phone,omitempty"`
	Role      enums.UserRole   `json:"role"`
	Status    enums.UserStatus `json:"status"`
	CreatedAt int64            `json:"createdAt"`
}

// Public strips the credential material from a user record.
func (u UserRecord) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Phone:     u.Phone,
		Role:      u.Role,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
	}
}

// SettingsRecord holds the mess-wide billing settings. Read through the
// settings service, which substitutes a zero default before the first write.
type SettingsRecord struct {
	MonthlyFee decimal.Decimal `json:"monthlyFee"`
	Rules      string          `json:"rules"`
}

// MonthlyDueRecord is one student's bill for one month, keyed
// `studentId:YYYY-MM` so a month can be billed at most once per student.
// Amount is fixed at creation; only Status and the settlement fields change.
type MonthlyDueRecord struct {
	ID                string           `json:"id"`
	StudentID         string           `json:"studentId"`
	Month             string           `json:"month"`
	Amount            decimal.Decimal  `json:"amount"`
	Status            enums.DueStatus  `json:"status"`
	CarriedOverAmount *decimal.Decimal `json:"carriedOverAmount,omitempty"`
	PaidAt            *int64           `json:"paidAt,omitempty"`
	PaymentID         string           `json:"paymentId,omitempty"`
}

// GuestPaymentRecord logs a one-off payment by someone without an account.
// Append-only; written only after the gateway callback verifies.
type GuestPaymentRecord struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Phone     string          `json:"phone,omitempty"`
	Amount    decimal.Decimal `json:"amount"`
	PaymentID string          `json:"paymentId"`
	OrderID   string          `json:"orderId"`
	CreatedAt int64           `json:"createdAt"`
}

// MenuDay is one day's plan in the weekly menu.
type MenuDay struct {
	Day       string `json:"day"`
	Breakfast string `json:"breakfast"`
	Lunch     string `json:"lunch"`
	Dinner    string `json:"dinner"`
}

// WeeklyMenuRecord is the singleton weekly menu, keyed "current".
type WeeklyMenuRecord struct {
	Days      []MenuDay `json:"days"`
	UpdatedAt int64     `json:"updatedAt"`
}

// ComplaintRecord is a student complaint with an optional manager reply.
type ComplaintRecord struct {
	ID          string `json:"id"`
	StudentID   string `json:"studentId"`
	StudentName string `json:"studentName"`
	Text        string `json:"text"`
	Reply       string `json:"reply,omitempty"`
	CreatedAt   int64  `json:"createdAt"`
}

// SuggestionRecord mirrors ComplaintRecord for suggestions.
type SuggestionRecord struct {
	ID          string `json:"id"`
	StudentID   string `json:"studentId"`
	StudentName string `json:"studentName"`
	Text        string `json:"text"`
	Reply       string `json:"reply,omitempty"`
	CreatedAt   int64  `json:"createdAt"`
}

// BroadcastRecord is a manager announcement visible to every account.
type BroadcastRecord struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	CreatedAt int64  `json:"createdAt"`
}

// NoteRecord is a private manager checklist item.
type NoteRecord struct {
	ID        string `json:"id"`
	OwnerID   string `json:"ownerId"`
	Text      string `json:"text"`
	Done      bool   `json:"done"`
	CreatedAt int64  `json:"createdAt"`
}

// Catalog bundles every collection the portal stores. Constructed once at
// startup and shared by the services.
type Catalog struct {
	Users         store.Collection[UserRecord]
	Settings      store.Collection[SettingsRecord]
	Dues          store.Collection[MonthlyDueRecord]
	GuestPayments store.Collection[GuestPaymentRecord]
	Menus         store.Collection[WeeklyMenuRecord]
	Complaints    store.Collection[ComplaintRecord]
	Suggestions   store.Collection[SuggestionRecord]
	Broadcasts    store.Collection[BroadcastRecord]
	Notes         store.Collection[NoteRecord]
}

// NewCatalog declares every record type on the store.
func NewCatalog(s *store.Store) *Catalog {
	return &Catalog{
		Users: store.NewCollection(s, "user", func(u UserRecord) string {
			return u.ID
		}),
		Settings: store.NewCollection(s, "settings", func(SettingsRecord) string {
			return SettingsKey
		}),
		Dues: store.NewCollection(s, "monthly_due", func(d MonthlyDueRecord) string {
			return DueKey(d.StudentID, d.Month)
		}),
		GuestPayments: store.NewCollection(s, "guest_payment", func(g GuestPaymentRecord) string {
			return g.ID
		}),
		Menus: store.NewCollection(s, "weekly_menu", func(WeeklyMenuRecord) string {
			return MenuKey
		}),
		Complaints: store.NewCollection(s, "complaint", func(c ComplaintRecord) string {
			return c.ID
		}),
		Suggestions: store.NewCollection(s, "suggestion", func(sg SuggestionRecord) string {
			return sg.ID
		}),
		Broadcasts: store.NewCollection(s, "broadcast", func(b BroadcastRecord) string {
			return b.ID
		}),
		Notes: store.NewCollection(s, "note", func(n NoteRecord) string {
			return n.ID
		}),
	}
}

// DueKey builds the composite due key for a student and YYYY-MM month.
func DueKey(studentID, month string) string {
	return studentID + ":" + month
}
