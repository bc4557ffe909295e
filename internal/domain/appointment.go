package domain

// AppointmentStatus tracks a booking through the doctor's workflow.
type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "PENDING"
	AppointmentStatusScheduled AppointmentStatus = "SCHEDULED"
	AppointmentStatusConfirmed AppointmentStatus = "CONFIRMED"
	AppointmentStatusCompleted AppointmentStatus = "COMPLETED"
	AppointmentStatusCancelled AppointmentStatus = "CANCELLED"
	AppointmentStatusRejected  AppointmentStatus = "REJECTED"
	AppointmentStatusNoShow    AppointmentStatus = "NO_SHOW"
)

// Appointment is a consultation between a policy holder and a doctor.
type Appointment struct {
	ID              int64             `json:"id"`
	PolicyHolder    *PolicyHolder     `json:"policyHolder,omitempty"`
	Doctor          *Doctor           `json:"doctor,omitempty"`
	AppointmentDate string            `json:"appointmentDate"`
	AppointmentTime string            `json:"appointmentTime"`
	Status          AppointmentStatus `json:"status"`
	Reason          string            `json:"reason,omitempty"`
	Notes           string            `json:"notes,omitempty"`
	RejectionReason string            `json:"rejectionReason,omitempty"`
}

// AppointmentRequest books a new appointment.
type AppointmentRequest struct {
	DoctorID        int64  `json:"doctorId"`
	AppointmentDate string `json:"appointmentDate"`
	AppointmentTime string `json:"appointmentTime"`
	Reason          string `json:"reason"`
	Notes           string `json:"notes,omitempty"`
}

// Doctor is a registered practitioner.
type Doctor struct {
	ID             int64     `json:"id"`
	User           *Identity `json:"user,omitempty"`
	Specialization string    `json:"specialization"`
	RegistrationNo string    `json:"registrationNo"`
	IsAvailable    bool      `json:"isAvailable"`
}

// DoctorRequest registers an existing user as a doctor.
type DoctorRequest struct {
	UserID         int64  `json:"userId"`
	Specialization string `json:"specialization"`
	RegistrationNo string `json:"registrationNo"`
}
