package entity

import "time"

// ContactSnapshot endereço e contato gravados só na matrícula quando o responsável é
// compartilhado com outra matrícula e não pode ser alterado no lugar.
type ContactSnapshot struct {
	Address Address `json:"address"`
	Phone   string  `json:"phone,omitempty"`
	Email   string  `json:"email,omitempty"`
}

// Enrollment pré-matrícula (raiz do agregado). Nunca é apagada; Completed encerra o fluxo.
type Enrollment struct {
	ID        string
	Code      string
	UserEmail string

	Stage                        int
	HasSecondGuardian            bool
	PendingSecondGuardianData    bool
	PendingSecondGuardianAddress bool
	PendingStudentAddress        bool
	Completed                    bool

	PrimaryGuardianID string
	SecondGuardianID  string
	StudentID         string

	// Dados do responsável principal congelados na conclusão (não recalculados).
	PrimaryGuardianName     string
	PrimaryGuardianDocument string
	PrimaryGuardianEmail    string

	PrimaryContact *ContactSnapshot
	SecondContact  *ContactSnapshot

	RemoteStudentID *int
	IntegratedAt    *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// SnapshotCaptured indica se os dados do responsável principal já foram congelados.
func (e *Enrollment) SnapshotCaptured() bool {
	return e.PrimaryGuardianName != "" || e.PrimaryGuardianDocument != ""
}

// ContactFor snapshot local do responsável, se ele for o principal ou o segundo desta matrícula.
func (e *Enrollment) ContactFor(guardianID string) *ContactSnapshot {
	switch {
	case guardianID == "":
		return nil
	case guardianID == e.PrimaryGuardianID:
		return e.PrimaryContact
	case guardianID == e.SecondGuardianID:
		return e.SecondContact
	}
	return nil
}
