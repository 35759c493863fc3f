package clinic

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/clinicdesk/clinicdesk/libs/apperr"
	"github.com/clinicdesk/clinicdesk/services/clinic-service/internal/model"
	"github.com/clinicdesk/clinicdesk/services/clinic-service/internal/outbox"
)

// memStore is an in-memory Store used to exercise the service without
// Postgres. It mirrors the storage package's constraint behavior: unique
// (practitioner, start) on slots, at most one live appointment per slot,
// apperr kinds for missing rows.
type memStore struct {
	practitioners map[string]model.Practitioner
	clients       map[string]model.Client
	slots         map[string]model.Slot
	appointments  map[string]model.Appointment
	notifications map[string]model.Notification
	events        []outbox.Event

	seq     int
	created map[string]int // entity id -> insertion order
}

func newMemStore() *memStore {
	return &memStore{
		practitioners: map[string]model.Practitioner{},
		clients:       map[string]model.Client{},
		slots:         map[string]model.Slot{},
		appointments:  map[string]model.Appointment{},
		notifications: map[string]model.Notification{},
		created:       map[string]int{},
	}
}

func (m *memStore) track(id string) {
	m.seq++
	m.created[id] = m.seq
}

func (m *memStore) clone() *memStore {
	c := newMemStore()
	for k, v := range m.practitioners {
		c.practitioners[k] = v
	}
	for k, v := range m.clients {
		c.clients[k] = v
	}
	for k, v := range m.slots {
		c.slots[k] = v
	}
	for k, v := range m.appointments {
		c.appointments[k] = v
	}
	for k, v := range m.notifications {
		c.notifications[k] = v
	}
	c.events = append(c.events, m.events...)
	for k, v := range m.created {
		c.created[k] = v
	}
	c.seq = m.seq
	return c
}

// memDB rolls the store back when fn fails, matching transaction semantics.
type memDB struct {
	st *memStore
}

func (d *memDB) InTx(_ context.Context, fn func(Store) error) error {
	snapshot := d.st.clone()
	if err := fn(d.st); err != nil {
		*d.st = *snapshot
		return err
	}
	return nil
}

func (m *memStore) PractitionerByID(_ context.Context, id string) (model.Practitioner, error) {
	p, ok := m.practitioners[id]
	if !ok {
		return model.Practitioner{}, apperr.NotFound("practitioner not found")
	}
	return p, nil
}

func (m *memStore) PractitionerByUserID(_ context.Context, userID string) (model.Practitioner, error) {
	for _, p := range m.practitioners {
		if p.UserID == userID {
			return p, nil
		}
	}
	return model.Practitioner{}, apperr.NotFound("practitioner profile not found")
}

func (m *memStore) ListPractitioners(_ context.Context, specialty string) ([]model.Practitioner, error) {
	var out []model.Practitioner
	for _, p := range m.practitioners {
		if specialty == "" || strings.Contains(strings.ToLower(p.Specialty), strings.ToLower(specialty)) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return m.created[out[i].ID] < m.created[out[j].ID] })
	return out, nil
}

func (m *memStore) UpdatePractitioner(_ context.Context, p model.Practitioner) error {
	if _, ok := m.practitioners[p.ID]; !ok {
		return apperr.NotFound("practitioner not found")
	}
	for _, other := range m.practitioners {
		if other.ID != p.ID && other.LicenseNumber == p.LicenseNumber {
			return apperr.Conflict("license number already registered")
		}
	}
	m.practitioners[p.ID] = p
	return nil
}

func (m *memStore) ClientByID(_ context.Context, id string) (model.Client, error) {
	c, ok := m.clients[id]
	if !ok {
		return model.Client{}, apperr.NotFound("client not found")
	}
	return c, nil
}

func (m *memStore) ClientByUserID(_ context.Context, userID string) (model.Client, error) {
	for _, c := range m.clients {
		if c.UserID == userID {
			return c, nil
		}
	}
	return model.Client{}, apperr.NotFound("client profile not found")
}

func (m *memStore) CreateClient(_ context.Context, c model.Client) error {
	m.clients[c.ID] = c
	m.track(c.ID)
	return nil
}

func (m *memStore) CreateSlot(_ context.Context, s model.Slot) error {
	for _, existing := range m.slots {
		if existing.PractitionerID == s.PractitionerID && existing.Start.Equal(s.Start) {
			return apperr.Conflict("a slot for this practitioner already starts at this time")
		}
	}
	m.slots[s.ID] = s
	m.track(s.ID)
	return nil
}

func (m *memStore) SlotForUpdate(_ context.Context, id string) (model.Slot, error) {
	s, ok := m.slots[id]
	if !ok {
		return model.Slot{}, apperr.NotFound("slot not found")
	}
	return s, nil
}

func (m *memStore) DeleteSlot(_ context.Context, id string) error {
	if _, ok := m.slots[id]; !ok {
		return apperr.NotFound("slot not found")
	}
	delete(m.slots, id)
	return nil
}

func (m *memStore) SetSlotAvailability(_ context.Context, id string, available bool) error {
	s, ok := m.slots[id]
	if !ok {
		return apperr.NotFound("slot not found")
	}
	s.Available = available
	m.slots[id] = s
	return nil
}

func (m *memStore) ListAvailableSlots(_ context.Context, practitionerID string, day time.Time) ([]model.Slot, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.AddDate(0, 0, 1)
	var out []model.Slot
	for _, s := range m.slots {
		if s.PractitionerID != practitionerID || !s.Available {
			continue
		}
		if s.Start.Before(dayStart) || !s.Start.Before(dayEnd) {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out, nil
}

func (m *memStore) ListSlotsByPractitioner(_ context.Context, practitionerID string) ([]model.Slot, error) {
	var out []model.Slot
	for _, s := range m.slots {
		if s.PractitionerID == practitionerID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out, nil
}

func (m *memStore) ListSlots(_ context.Context) ([]model.Slot, error) {
	var out []model.Slot
	for _, s := range m.slots {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out, nil
}

func (m *memStore) CreateAppointment(_ context.Context, a model.Appointment) error {
	for _, existing := range m.appointments {
		if existing.SlotID == a.SlotID && existing.Status != model.StatusCancelled {
			return apperr.Conflict("slot already booked")
		}
	}
	m.appointments[a.ID] = a
	m.track(a.ID)
	return nil
}

func (m *memStore) SlotHasLiveAppointment(_ context.Context, slotID string) (bool, error) {
	for _, a := range m.appointments {
		if a.SlotID == slotID && a.Status != model.StatusCancelled {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) AppointmentForUpdate(_ context.Context, id string) (model.Appointment, error) {
	a, ok := m.appointments[id]
	if !ok {
		return model.Appointment{}, apperr.NotFound("appointment not found")
	}
	return a, nil
}

func (m *memStore) SetAppointmentStatus(_ context.Context, id string, status model.AppointmentStatus) error {
	a, ok := m.appointments[id]
	if !ok {
		return apperr.NotFound("appointment not found")
	}
	a.Status = status
	m.appointments[id] = a
	return nil
}

func (m *memStore) ListAppointmentsByClient(_ context.Context, clientID string) ([]model.Appointment, error) {
	var out []model.Appointment
	for _, a := range m.appointments {
		if a.ClientID == clientID {
			out = append(out, a)
		}
	}
	m.sortAppointments(out)
	return out, nil
}

func (m *memStore) ListAppointmentsByPractitioner(_ context.Context, practitionerID string, day *time.Time) ([]model.Appointment, error) {
	var out []model.Appointment
	for _, a := range m.appointments {
		slot, ok := m.slots[a.SlotID]
		if !ok || slot.PractitionerID != practitionerID {
			continue
		}
		if day != nil {
			dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
			if slot.Start.Before(dayStart) || !slot.Start.Before(dayStart.AddDate(0, 0, 1)) {
				continue
			}
		}
		out = append(out, a)
	}
	m.sortAppointments(out)
	return out, nil
}

func (m *memStore) ListAppointments(_ context.Context) ([]model.Appointment, error) {
	var out []model.Appointment
	for _, a := range m.appointments {
		out = append(out, a)
	}
	m.sortAppointments(out)
	return out, nil
}

func (m *memStore) sortAppointments(appts []model.Appointment) {
	sort.Slice(appts, func(i, j int) bool { return m.created[appts[i].ID] > m.created[appts[j].ID] })
}

func (m *memStore) AddNotification(_ context.Context, n model.Notification) error {
	m.notifications[n.ID] = n
	m.track(n.ID)
	return nil
}

func (m *memStore) NotificationForUpdate(_ context.Context, id string) (model.Notification, error) {
	n, ok := m.notifications[id]
	if !ok {
		return model.Notification{}, apperr.NotFound("notification not found")
	}
	return n, nil
}

func (m *memStore) MarkNotificationRead(_ context.Context, id string) error {
	n, ok := m.notifications[id]
	if !ok {
		return apperr.NotFound("notification not found")
	}
	n.Read = true
	m.notifications[id] = n
	return nil
}

func (m *memStore) ListNotificationsByUser(_ context.Context, userID string) ([]model.Notification, error) {
	var out []model.Notification
	for _, n := range m.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return m.created[out[i].ID] > m.created[out[j].ID] })
	return out, nil
}

func (m *memStore) AppendEvent(_ context.Context, evt outbox.Event) error {
	m.events = append(m.events, evt)
	return nil
}

var _ Store = (*memStore)(nil)
