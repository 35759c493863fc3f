package handlers

import (
	"time"

	"github.com/clinicdesk/clinicdesk/services/clinic-service/internal/model"
)

type practitionerItem struct {
	ID            string `json:"id"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Specialty     string `json:"specialty"`
	LicenseNumber string `json:"license_number,omitempty"`
}

type slotItem struct {
	ID             string `json:"id"`
	PractitionerID string `json:"practitioner_id"`
	Date           string `json:"date"`
	StartTime      string `json:"start_time"`
	EndTime        string `json:"end_time"`
	Available      bool   `json:"available"`
}

type appointmentItem struct {
	ID        string `json:"id"`
	ClientID  string `json:"client_id"`
	SlotID    string `json:"slot_id"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

type notificationItem struct {
	ID            string `json:"id"`
	Message       string `json:"message"`
	Kind          string `json:"kind"`
	AppointmentID string `json:"appointment_id,omitempty"`
	Read          bool   `json:"read"`
	CreatedAt     string `json:"created_at"`
}

func renderPractitioner(p model.Practitioner) practitionerItem {
	return practitionerItem{
		ID:            p.ID,
		FirstName:     p.FirstName,
		LastName:      p.LastName,
		Specialty:     p.Specialty,
		LicenseNumber: p.LicenseNumber,
	}
}

func renderSlot(s model.Slot) slotItem {
	return slotItem{
		ID:             s.ID,
		PractitionerID: s.PractitionerID,
		Date:           s.Start.UTC().Format("2006-01-02"),
		StartTime:      s.Start.UTC().Format("15:04"),
		EndTime:        s.End.UTC().Format("15:04"),
		Available:      s.Available,
	}
}

func renderSlots(slots []model.Slot) []slotItem {
	items := make([]slotItem, 0, len(slots))
	for _, s := range slots {
		items = append(items, renderSlot(s))
	}
	return items
}

func renderAppointment(a model.Appointment) appointmentItem {
	return appointmentItem{
		ID:        a.ID,
		ClientID:  a.ClientID,
		SlotID:    a.SlotID,
		Status:    string(a.Status),
		CreatedAt: a.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func renderNotification(n model.Notification) notificationItem {
	return notificationItem{
		ID:            n.ID,
		Message:       n.Message,
		Kind:          string(n.Kind),
		AppointmentID: n.AppointmentID,
		Read:          n.Read,
		CreatedAt:     n.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// parseDay reads a 2006-01-02 date as a UTC day.
func parseDay(s string) (time.Time, bool) {
	day, err := time.ParseInLocation("2006-01-02", s, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return day, true
}

// combineDayClock merges a 2006-01-02 date with a 15:04 clock into one UTC
// timestamp.
func combineDayClock(day time.Time, clock string) (time.Time, bool) {
	c, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(day.Year(), day.Month(), day.Day(), c.Hour(), c.Minute(), 0, 0, time.UTC), true
}
