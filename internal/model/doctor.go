package model

type Doctor struct {
	Base
	Name              string  `db:"name" json:"name"`
	Specialty         string  `db:"specialty" json:"specialty"`
	Location          string  `db:"location" json:"location"`
	CalendarReference *string `db:"calendar_reference" json:"calendar_reference,omitempty"`
}

// DoctorSchedule is a doctor with the daily slot template, as shown to admins.
type DoctorSchedule struct {
	*Doctor
	Slots []string `json:"slots"`
}
