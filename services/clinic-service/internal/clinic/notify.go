package clinic

import (
	"context"
	"strings"

	"github.com/clinicdesk/clinicdesk/libs/apperr"
	"github.com/clinicdesk/clinicdesk/services/clinic-service/internal/model"
)

func (s *Service) notify(ctx context.Context, st Store, userID string, kind model.NotificationKind, appointmentID, message string) error {
	return st.AddNotification(ctx, model.Notification{
		ID:            s.newID(),
		UserID:        userID,
		Message:       message,
		Kind:          kind,
		AppointmentID: appointmentID,
		Read:          false,
		CreatedAt:     s.now(),
	})
}

// ListNotifications returns the actor's notifications, newest first.
func (s *Service) ListNotifications(ctx context.Context, actor model.Actor) ([]model.Notification, error) {
	var notifications []model.Notification
	err := s.db.InTx(ctx, func(st Store) error {
		var err error
		notifications, err = st.ListNotificationsByUser(ctx, actor.UserID)
		return err
	})
	return notifications, err
}

// MarkNotificationRead flips the read flag. Marking an already-read
// notification is a no-op, not an error. Callers only see their own
// notifications; anything else reads as not found.
func (s *Service) MarkNotificationRead(ctx context.Context, actor model.Actor, notificationID string) (model.Notification, error) {
	var notification model.Notification
	err := s.db.InTx(ctx, func(st Store) error {
		var err error
		notification, err = st.NotificationForUpdate(ctx, notificationID)
		if err != nil {
			return err
		}
		if notification.UserID != actor.UserID {
			return apperr.NotFound("notification not found")
		}
		if notification.Read {
			return nil
		}
		if err := st.MarkNotificationRead(ctx, notification.ID); err != nil {
			return err
		}
		notification.Read = true
		return nil
	})
	if err != nil {
		return model.Notification{}, err
	}
	return notification, nil
}

// practitionerName renders a practitioner's display name; an absent or
// incomplete profile is a modeled absence, shown as "N/A".
func practitionerName(p model.Practitioner) string {
	return displayName(p.FirstName, p.LastName)
}

func clientName(c model.Client) string {
	return displayName(c.FirstName, c.LastName)
}

func displayName(first, last string) string {
	name := strings.TrimSpace(strings.TrimSpace(first) + " " + strings.TrimSpace(last))
	if name == "" {
		return "N/A"
	}
	return name
}

func slotDate(slot model.Slot) string {
	return slot.Start.UTC().Format("2006-01-02")
}

func slotTime(slot model.Slot) string {
	return slot.Start.UTC().Format("15:04")
}
