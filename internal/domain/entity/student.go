package entity

import "time"

// Student aluno sendo matriculado. Pertence a uma única Enrollment durante o fluxo.
type Student struct {
	ID                    string
	EnrollmentID          string
	Name                  string
	Gender                string
	BirthDate             *time.Time
	Birthplace            string
	Nationality           string
	CPF                   string
	MaritalStatus         string
	Phone                 string
	Email                 string
	AddressID             string
	LivesWithGuardian     bool
	LivesWithGuardianName string
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// StudentPatch atualização parcial do aluno.
type StudentPatch struct {
	Name                  *string
	Gender                *string
	BirthDate             *time.Time
	Birthplace            *string
	Nationality           *string
	CPF                   *string
	MaritalStatus         *string
	Phone                 *string
	Email                 *string
	LivesWithGuardian     *bool
	LivesWithGuardianName *string
}

func (p StudentPatch) IsEmpty() bool {
	return p == StudentPatch{}
}

func (p StudentPatch) Apply(s *Student) {
	setString(&s.Name, p.Name)
	setString(&s.Gender, p.Gender)
	if p.BirthDate != nil {
		d := *p.BirthDate
		s.BirthDate = &d
	}
	setString(&s.Birthplace, p.Birthplace)
	setString(&s.Nationality, p.Nationality)
	setString(&s.CPF, p.CPF)
	setString(&s.MaritalStatus, p.MaritalStatus)
	setString(&s.Phone, p.Phone)
	setString(&s.Email, p.Email)
	if p.LivesWithGuardian != nil {
		s.LivesWithGuardian = *p.LivesWithGuardian
	}
	setString(&s.LivesWithGuardianName, p.LivesWithGuardianName)
}
