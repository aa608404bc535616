package entity

import "time"

// Operações remotas registradas.
const (
	OperationInsertStudent  = "InsertStudent"
	OperationInsertGuardian = "InsertGuardian"
)

// IntegrationAttempt resultado de uma operação remota (sucesso ou falha), guardado para diagnóstico.
type IntegrationAttempt struct {
	ID             string
	EnrollmentID   string
	Operation      string
	EntityID       string // aluno ou responsável enviado
	StatusCode     int    // 0 quando o texto não pôde ser decodificado
	Message        string
	RawResponse    string
	EnvelopeDigest string
	Success        bool
	TransportError string
	Warnings       []string // campos descartados no envio (ex.: telefone longo demais)
	CreatedAt      time.Time
}
