package hospitalv1

import "time"

// Ids travel as canonical UUID strings. Optional timestamps are pointers so
// that a missing field can be told apart from the zero time.

type Appointment struct {
	ID          string    `json:"id"`
	PatientID   string    `json:"patient_id"`
	DoctorID    string    `json:"doctor_id"`
	StartTime   time.Time `json:"start_time"`
	Reason      string    `json:"reason"`
	Status      string    `json:"status"`
	DoctorName  string    `json:"doctor_name,omitempty"`
	PatientName string    `json:"patient_name,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Conflict struct {
	Dimension      string    `json:"dimension"`
	AppointmentID  string    `json:"appointment_id"`
	StartTime      time.Time `json:"start_time"`
	PartyName      string    `json:"party_name,omitempty"`
	OtherPartyName string    `json:"other_party_name,omitempty"`
	Message        string    `json:"message"`
}

type CreateAppointmentRequest struct {
	PatientID string     `json:"patient_id"`
	DoctorID  string     `json:"doctor_id,omitempty"`
	StartTime *time.Time `json:"start_time"`
	Reason    string     `json:"reason"`
	Status    string     `json:"status,omitempty"`
}

type CreateAppointmentResponse struct {
	Appointment *Appointment `json:"appointment"`
}

type UpdateAppointmentRequest struct {
	ID        string     `json:"id"`
	PatientID string     `json:"patient_id"`
	DoctorID  string     `json:"doctor_id,omitempty"`
	StartTime *time.Time `json:"start_time"`
	Reason    string     `json:"reason"`
	Status    string     `json:"status,omitempty"`
}

type UpdateAppointmentResponse struct {
	Appointment *Appointment `json:"appointment"`
}

type DeleteAppointmentRequest struct {
	ID string `json:"id"`
}

type DeleteAppointmentResponse struct{}

type GetAppointmentRequest struct {
	ID string `json:"id"`
}

type GetAppointmentResponse struct {
	Appointment *Appointment `json:"appointment"`
}

type ListAppointmentsRequest struct {
	DoctorID  string     `json:"doctor_id,omitempty"`
	PatientID string     `json:"patient_id,omitempty"`
	From      *time.Time `json:"from,omitempty"`
	To        *time.Time `json:"to,omitempty"`
	Limit     int32      `json:"limit,omitempty"`
}

type ListAppointmentsResponse struct {
	Appointments []*Appointment `json:"appointments"`
}

type CheckConflictRequest struct {
	ExcludeID string     `json:"exclude_id,omitempty"`
	PatientID string     `json:"patient_id"`
	DoctorID  string     `json:"doctor_id,omitempty"`
	StartTime *time.Time `json:"start_time"`
}

type CheckConflictResponse struct {
	HasConflict bool        `json:"has_conflict"`
	Conflicts   []*Conflict `json:"conflicts"`
}
