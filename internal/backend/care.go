package backend

import (
	"context"
	"net/http"

	"github.com/medisure/portal/internal/domain"
)

// DoctorsAPI covers /doctor.
type DoctorsAPI struct{ c *Client }

func (d DoctorsAPI) All(ctx context.Context) ([]domain.Doctor, error) {
	var out []domain.Doctor
	err := d.c.doJSON(ctx, http.MethodGet, "/doctor/all", nil, &out)
	return out, err
}

func (d DoctorsAPI) Register(ctx context.Context, in domain.DoctorRequest) (domain.Doctor, error) {
	var out domain.Doctor
	err := d.c.doJSON(ctx, http.MethodPost, "/doctor/register", in, &out)
	return out, err
}

// MyAppointments lists the appointments assigned to the bearer doctor.
func (d DoctorsAPI) MyAppointments(ctx context.Context) ([]domain.Appointment, error) {
	var out []domain.Appointment
	err := d.c.doJSON(ctx, http.MethodGet, "/doctor/my-appointments", nil, &out)
	return out, err
}

func (d DoctorsAPI) TodayAppointments(ctx context.Context) ([]domain.Appointment, error) {
	var out []domain.Appointment
	err := d.c.doJSON(ctx, http.MethodGet, "/doctor/today-appointments", nil, &out)
	return out, err
}

func (d DoctorsAPI) UpdateAppointmentStatus(ctx context.Context, id int64, status domain.AppointmentStatus) (domain.Appointment, error) {
	var out domain.Appointment
	body := map[string]domain.AppointmentStatus{"status": status}
	err := d.c.doJSON(ctx, http.MethodPut, idPath("/doctor/appointment/%d/status", id), body, &out)
	return out, err
}

// AppointmentsAPI covers /appointments.
type AppointmentsAPI struct{ c *Client }

func (a AppointmentsAPI) Book(ctx context.Context, in domain.AppointmentRequest) (domain.Appointment, error) {
	var out domain.Appointment
	err := a.c.doJSON(ctx, http.MethodPost, "/appointments", in, &out)
	return out, err
}

func (a AppointmentsAPI) Mine(ctx context.Context) ([]domain.Appointment, error) {
	var out []domain.Appointment
	err := a.c.doJSON(ctx, http.MethodGet, "/appointments/my-appointments", nil, &out)
	return out, err
}

func (a AppointmentsAPI) Get(ctx context.Context, id int64) (domain.Appointment, error) {
	var out domain.Appointment
	err := a.c.doJSON(ctx, http.MethodGet, idPath("/appointments/%d", id), nil, &out)
	return out, err
}
