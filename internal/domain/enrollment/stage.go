// Package enrollment contém as regras puras do fluxo de pré-matrícula: máquina de etapas,
// comparação de campos (diff) e sentinelas de "ainda não informado". Nada aqui acessa storage.
package enrollment

import "github.com/mari-machado/projeto-pre-matricula-jp-sub000/internal/domain/entity"

// StageLabel rótulo derivado da próxima etapa exigida (não é persistido).
type StageLabel string

const (
	LabelPrimaryAddress StageLabel = "2"
	LabelSecondGuardian StageLabel = "1b"
	LabelSecondAddress  StageLabel = "2b"
	LabelStudent        StageLabel = "3"
	LabelStudentAddress StageLabel = "3b"
	LabelDone           StageLabel = "done"
)

// Etapas numéricas persistidas.
const (
	StageStarted        = 1
	StagePrimaryAddress = 2
	StageStudent        = 3
)

// State recorte da matrícula usado pela máquina de etapas.
type State struct {
	Stage                        int
	HasSecondGuardian            bool
	PendingSecondGuardianData    bool
	PendingSecondGuardianAddress bool
	PendingStudentAddress        bool
}

// StateOf extrai o estado da matrícula.
func StateOf(e *entity.Enrollment) State {
	return State{
		Stage:                        e.Stage,
		HasSecondGuardian:            e.HasSecondGuardian,
		PendingSecondGuardianData:    e.PendingSecondGuardianData,
		PendingSecondGuardianAddress: e.PendingSecondGuardianAddress,
		PendingStudentAddress:        e.PendingStudentAddress,
	}
}

// secondGuardianDone segundo responsável inexistente ou com as duas subetapas resolvidas.
func (s State) secondGuardianDone() bool {
	return !s.HasSecondGuardian || (!s.PendingSecondGuardianData && !s.PendingSecondGuardianAddress)
}

// IsComplete etapa ≥ 3, endereço do aluno registrado e segundo responsável resolvido.
func (s State) IsComplete() bool {
	return s.Stage >= StageStudent && !s.PendingStudentAddress && s.secondGuardianDone()
}

// NextStage próxima etapa exigida.
//
//	etapa ≤ 1                         → 2
//	etapa 2 com dados do 2º pendentes → 1b
//	etapa 2 com endereço do 2º pend.  → 2b
//	etapa 2                           → 3
//	etapa ≥ 3                         → 3b
//
// Na etapa ≥ 3 com o endereço do aluno já gravado, as subetapas do segundo responsável que
// faltarem (1b, 2b) são devolvidas antes de done.
func NextStage(s State) StageLabel {
	if s.IsComplete() {
		return LabelDone
	}
	switch {
	case s.Stage <= StageStarted:
		return LabelPrimaryAddress
	case s.Stage == StagePrimaryAddress:
		if s.PendingSecondGuardianData {
			return LabelSecondGuardian
		}
		if s.PendingSecondGuardianAddress {
			return LabelSecondAddress
		}
		return LabelStudent
	}
	if !s.PendingStudentAddress {
		if s.PendingSecondGuardianData {
			return LabelSecondGuardian
		}
		if s.PendingSecondGuardianAddress {
			return LabelSecondAddress
		}
	}
	return LabelStudentAddress
}

// Advance devolve a maior etapa entre a atual e a pedida; a matrícula nunca regride.
func Advance(current, target int) int {
	if target > current {
		return target
	}
	return current
}
