package clinic

import (
	"context"
	"time"

	"github.com/clinicdesk/clinicdesk/services/clinic-service/internal/model"
	"github.com/clinicdesk/clinicdesk/services/clinic-service/internal/outbox"
)

// Store is the persistence surface the service operates on within one
// transaction. Implementations return apperr kinds for missing rows and
// constraint violations so the service can surface them unchanged.
type Store interface {
	PractitionerByID(ctx context.Context, id string) (model.Practitioner, error)
	PractitionerByUserID(ctx context.Context, userID string) (model.Practitioner, error)
	ListPractitioners(ctx context.Context, specialty string) ([]model.Practitioner, error)
	UpdatePractitioner(ctx context.Context, p model.Practitioner) error

	ClientByID(ctx context.Context, id string) (model.Client, error)
	ClientByUserID(ctx context.Context, userID string) (model.Client, error)
	CreateClient(ctx context.Context, c model.Client) error

	CreateSlot(ctx context.Context, s model.Slot) error
	SlotForUpdate(ctx context.Context, id string) (model.Slot, error)
	DeleteSlot(ctx context.Context, id string) error
	SetSlotAvailability(ctx context.Context, id string, available bool) error
	ListAvailableSlots(ctx context.Context, practitionerID string, day time.Time) ([]model.Slot, error)
	ListSlotsByPractitioner(ctx context.Context, practitionerID string) ([]model.Slot, error)
	ListSlots(ctx context.Context) ([]model.Slot, error)

	CreateAppointment(ctx context.Context, a model.Appointment) error
	SlotHasLiveAppointment(ctx context.Context, slotID string) (bool, error)
	AppointmentForUpdate(ctx context.Context, id string) (model.Appointment, error)
	SetAppointmentStatus(ctx context.Context, id string, status model.AppointmentStatus) error
	ListAppointmentsByClient(ctx context.Context, clientID string) ([]model.Appointment, error)
	ListAppointmentsByPractitioner(ctx context.Context, practitionerID string, day *time.Time) ([]model.Appointment, error)
	ListAppointments(ctx context.Context) ([]model.Appointment, error)

	AddNotification(ctx context.Context, n model.Notification) error
	NotificationForUpdate(ctx context.Context, id string) (model.Notification, error)
	MarkNotificationRead(ctx context.Context, id string) error
	ListNotificationsByUser(ctx context.Context, userID string) ([]model.Notification, error)

	AppendEvent(ctx context.Context, evt outbox.Event) error
}

// DB runs fn against a Store inside a single transaction. The transaction
// commits iff fn returns nil; on error every side effect is rolled back.
type DB interface {
	InTx(ctx context.Context, fn func(Store) error) error
}
