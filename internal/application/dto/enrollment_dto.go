package dto

import "time"

// ── Entradas das etapas ──────────────────────────────────────────────────────
// Campos ponteiro: nil = não informado (nunca apaga dado gravado).

// StartEnrollmentRequest etapa 1: identificação do responsável principal.
type StartEnrollmentRequest struct {
	Name          string  `json:"name" validate:"required,max=150"`
	CPF           string  `json:"cpf" validate:"required_without=RG,max=20"`
	RG            string  `json:"rg" validate:"required_without=CPF,max=20"`
	Gender        *string `json:"gender,omitempty" validate:"omitempty,max=30"`
	BirthDate     *string `json:"birth_date,omitempty" validate:"omitempty,max=30"`
	MaritalStatus *string `json:"marital_status,omitempty" validate:"omitempty,max=30"`
	LegalEntity   *bool   `json:"legal_entity,omitempty"`
	Phone         *string `json:"phone,omitempty" validate:"omitempty,max=30"`
	Email         *string `json:"email,omitempty" validate:"omitempty,email,max=150"`
}

// AddressRequest endereço parcial.
type AddressRequest struct {
	PostalCode   *string `json:"postal_code,omitempty" validate:"omitempty,max=10"`
	Street       *string `json:"street,omitempty" validate:"omitempty,max=200"`
	Number       *string `json:"number,omitempty" validate:"omitempty,max=20"`
	Complement   *string `json:"complement,omitempty" validate:"omitempty,max=100"`
	Neighborhood *string `json:"neighborhood,omitempty" validate:"omitempty,max=100"`
	City         *string `json:"city,omitempty" validate:"omitempty,max=100"`
	State        *string `json:"state,omitempty" validate:"omitempty,len=2"`
}

// PrimaryAddressRequest etapa 2: endereço e contato do responsável principal.
type PrimaryAddressRequest struct {
	Address                AddressRequest `json:"address"`
	Phone                  *string        `json:"phone,omitempty" validate:"omitempty,max=30"`
	Email                  *string        `json:"email,omitempty" validate:"omitempty,email,max=150"`
	Gender                 *string        `json:"gender,omitempty" validate:"omitempty,max=30"`
	BirthDate              *string        `json:"birth_date,omitempty" validate:"omitempty,max=30"`
	MaritalStatus          *string        `json:"marital_status,omitempty" validate:"omitempty,max=30"`
	FinancialResponsible   *bool          `json:"financial_responsible,omitempty"`
	PedagogicalResponsible *bool          `json:"pedagogical_responsible,omitempty"`
	HasSecondGuardian      bool           `json:"has_second_guardian"`
}

// SecondGuardianRequest etapa 1b: identificação do segundo responsável.
type SecondGuardianRequest struct {
	Name                   string  `json:"name" validate:"required,max=150"`
	CPF                    string  `json:"cpf" validate:"required_without=RG,max=20"`
	RG                     string  `json:"rg" validate:"required_without=CPF,max=20"`
	Gender                 *string `json:"gender,omitempty" validate:"omitempty,max=30"`
	BirthDate              *string `json:"birth_date,omitempty" validate:"omitempty,max=30"`
	MaritalStatus          *string `json:"marital_status,omitempty" validate:"omitempty,max=30"`
	LegalEntity            *bool   `json:"legal_entity,omitempty"`
	Kinship                string  `json:"kinship" validate:"omitempty,oneof=pai mae responsavel_legal outro"`
	FinancialResponsible   *bool   `json:"financial_responsible,omitempty"`
	PedagogicalResponsible *bool   `json:"pedagogical_responsible,omitempty"`
}

// SecondGuardianAddressRequest etapa 2b. CopyFromPrimary ignora Address.
type SecondGuardianAddressRequest struct {
	CopyFromPrimary bool            `json:"copy_from_primary"`
	Address         *AddressRequest `json:"address,omitempty"`
	Phone           *string         `json:"phone,omitempty" validate:"omitempty,max=30"`
	Email           *string         `json:"email,omitempty" validate:"omitempty,email,max=150"`
}

// StudentRequest etapa 3: dados do aluno.
type StudentRequest struct {
	Name          *string `json:"name,omitempty" validate:"omitempty,max=150"`
	Gender        *string `json:"gender,omitempty" validate:"omitempty,max=30"`
	BirthDate     *string `json:"birth_date,omitempty" validate:"omitempty,max=30"`
	Birthplace    *string `json:"birthplace,omitempty" validate:"omitempty,max=100"`
	Nationality   *string `json:"nationality,omitempty" validate:"omitempty,max=60"`
	CPF           *string `json:"cpf,omitempty" validate:"omitempty,max=20"`
	MaritalStatus *string `json:"marital_status,omitempty" validate:"omitempty,max=30"`
	Phone         *string `json:"phone,omitempty" validate:"omitempty,max=30"`
	Email         *string `json:"email,omitempty" validate:"omitempty,email,max=150"`
}

// StudentAddressRequest etapa 3b. Com LivesWithGuardian, GuardianName escolhe o responsável
// vinculado cujo endereço é copiado; senão Address é obrigatório.
type StudentAddressRequest struct {
	LivesWithGuardian bool            `json:"lives_with_guardian"`
	GuardianName      string          `json:"guardian_name,omitempty" validate:"required_if=LivesWithGuardian true,max=150"`
	Address           *AddressRequest `json:"address,omitempty"`
}

// ── Respostas ────────────────────────────────────────────────────────────────

// EnrollmentStatusResponse resumo devolvido por toda operação de etapa.
type EnrollmentStatusResponse struct {
	EnrollmentID                 string `json:"enrollment_id"`
	Code                         string `json:"code"`
	PrimaryGuardianID            string `json:"primary_guardian_id"`
	StudentID                    string `json:"student_id"`
	Stage                        int    `json:"stage"`
	NextStage                    string `json:"next_stage"`
	Completed                    bool   `json:"completed"`
	HasSecondGuardian            bool   `json:"has_second_guardian"`
	PendingSecondGuardianData    bool   `json:"pending_second_guardian_data"`
	PendingSecondGuardianAddress bool   `json:"pending_second_guardian_address"`
	PendingStudentAddress        bool   `json:"pending_student_address"`
}

// AddressResponse endereço.
type AddressResponse struct {
	PostalCode   string `json:"postal_code"`
	Street       string `json:"street"`
	Number       string `json:"number"`
	Complement   string `json:"complement,omitempty"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
}

// GuardianResponse responsável como visto pela matrícula (com o snapshot local, se houver).
type GuardianResponse struct {
	ID                     string           `json:"id"`
	Name                   string           `json:"name"`
	CPF                    string           `json:"cpf,omitempty"`
	RG                     string           `json:"rg,omitempty"`
	Phone                  string           `json:"phone,omitempty"`
	Email                  string           `json:"email,omitempty"`
	Kinship                string           `json:"kinship,omitempty"`
	FinancialResponsible   bool             `json:"financial_responsible"`
	PedagogicalResponsible bool             `json:"pedagogical_responsible"`
	Address                *AddressResponse `json:"address,omitempty"`
	Shared                 bool             `json:"shared"`
}

// StudentResponse aluno.
type StudentResponse struct {
	ID                    string           `json:"id"`
	Name                  string           `json:"name"`
	BirthDate             *time.Time       `json:"birth_date,omitempty"`
	CPF                   string           `json:"cpf,omitempty"`
	LivesWithGuardian     bool             `json:"lives_with_guardian"`
	LivesWithGuardianName string           `json:"lives_with_guardian_name,omitempty"`
	Address               *AddressResponse `json:"address,omitempty"`
}

// EnrollmentDetailResponse leitura completa da pré-matrícula.
type EnrollmentDetailResponse struct {
	EnrollmentStatusResponse
	UserEmail       string            `json:"user_email,omitempty"`
	PrimaryGuardian *GuardianResponse `json:"primary_guardian,omitempty"`
	SecondGuardian  *GuardianResponse `json:"second_guardian,omitempty"`
	Student         *StudentResponse  `json:"student,omitempty"`
	RemoteStudentID *int              `json:"remote_student_id,omitempty"`
	IntegratedAt    *time.Time        `json:"integrated_at,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// ── Integração ───────────────────────────────────────────────────────────────

// OperationResultResponse resultado de uma operação remota.
type OperationResultResponse struct {
	Operation      string   `json:"operation"`
	EntityID       string   `json:"entity_id"`
	Success        bool     `json:"success"`
	StatusCode     int      `json:"status_code"`
	Decoded        bool     `json:"decoded"`
	Message        string   `json:"message"`
	RawResponse    string   `json:"raw_response"`
	EnvelopeDigest string   `json:"envelope_digest,omitempty"`
	TransportError string   `json:"transport_error,omitempty"`
	Warnings       []string `json:"warnings,omitempty"`
}

// IntegrationResponse resultado da integração (sucesso parcial é dado, não erro).
type IntegrationResponse struct {
	EnrollmentID    string                    `json:"enrollment_id"`
	RemoteStudentID *int                      `json:"remote_student_id,omitempty"`
	Student         OperationResultResponse   `json:"student"`
	Guardians       []OperationResultResponse `json:"guardians"`
	GuardianSuccess int                       `json:"guardian_success"`
	GuardianFailure int                       `json:"guardian_failure"`
}
