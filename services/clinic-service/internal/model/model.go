package model

import "time"

// Role is the closed set of caller roles supplied by the identity provider.
type Role int

const (
	RoleClient Role = iota + 1
	RolePractitioner
	RoleAdministrator
)

func ParseRole(s string) (Role, bool) {
	switch s {
	case "client":
		return RoleClient, true
	case "practitioner":
		return RolePractitioner, true
	case "administrator":
		return RoleAdministrator, true
	default:
		return 0, false
	}
}

func (r Role) String() string {
	switch r {
	case RoleClient:
		return "client"
	case RolePractitioner:
		return "practitioner"
	case RoleAdministrator:
		return "administrator"
	default:
		return "unknown"
	}
}

// Actor is the authenticated caller of an operation.
type Actor struct {
	UserID string
	Role   Role
}

type Practitioner struct {
	ID            string
	UserID        string
	FirstName     string
	LastName      string
	Specialty     string
	LicenseNumber string
	CreatedAt     time.Time
}

type Client struct {
	ID          string
	UserID      string
	FirstName   string
	LastName    string
	DateOfBirth *time.Time
	CreatedAt   time.Time
}

// Slot is a bookable time interval owned by a practitioner. The slot's
// calendar date is the UTC date of Start.
type Slot struct {
	ID             string
	PractitionerID string
	Start          time.Time
	End            time.Time
	Available      bool
	CreatedAt      time.Time
}

type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCancelled AppointmentStatus = "cancelled"
)

type Appointment struct {
	ID        string
	ClientID  string
	SlotID    string
	Status    AppointmentStatus
	CreatedAt time.Time
}

type NotificationKind string

const (
	NotificationBooked    NotificationKind = "booked"
	NotificationConfirmed NotificationKind = "confirmed"
	NotificationCancelled NotificationKind = "cancelled"
)

type Notification struct {
	ID            string
	UserID        string
	Message       string
	Kind          NotificationKind
	AppointmentID string
	Read          bool
	CreatedAt     time.Time
}
