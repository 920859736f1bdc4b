package model

import (
	"time"
)

type PatientType string

const (
	PatientTypeNew       PatientType = "new"
	PatientTypeReturning PatientType = "returning"
)

// Patient shares its id with the identity provider subject.
type Patient struct {
	Base
	Email            string      `db:"email" json:"email"`
	FirstName        string      `db:"first_name" json:"first_name"`
	LastName         string      `db:"last_name" json:"last_name"`
	DOB              *time.Time  `db:"dob" json:"dob,omitempty"`
	Phone            string      `db:"phone" json:"phone"`
	Address          string      `db:"address" json:"address"`
	InsuranceCarrier string      `db:"insurance_carrier" json:"insurance_carrier"`
	MemberID         string      `db:"member_id" json:"member_id"`
	GroupID          string      `db:"group_id" json:"group_id"`
	PatientType      PatientType `db:"patient_type" json:"patient_type"`
}

func (p *Patient) FullName() string {
	switch {
	case p.FirstName != "" && p.LastName != "":
		return p.FirstName + " " + p.LastName
	case p.FirstName != "":
		return p.FirstName
	default:
		return p.LastName
	}
}

type UpsertPatientRequest struct {
	FirstName        string      `json:"first_name" binding:"required,max=100"`
	LastName         string      `json:"last_name" binding:"required,max=100"`
	DOB              string      `json:"dob" binding:"omitempty,datetime=2006-01-02"`
	Phone            string      `json:"phone" binding:"omitempty,max=32"`
	Address          string      `json:"address" binding:"omitempty,max=255"`
	InsuranceCarrier string      `json:"insurance_carrier" binding:"omitempty,max=100"`
	MemberID         string      `json:"member_id" binding:"omitempty,max=64"`
	GroupID          string      `json:"group_id" binding:"omitempty,max=64"`
	PatientType      PatientType `json:"patient_type" binding:"omitempty,oneof=new returning"`
}

type PatientFilters struct {
	Search string
	Pagination
}
