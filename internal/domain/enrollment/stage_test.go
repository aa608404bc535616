package enrollment_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mari-machado/projeto-pre-matricula-jp-sub000/internal/domain/enrollment"
)

func TestNextStage_TabelaDeTransicoes(t *testing.T) {
	cases := []struct {
		name  string
		state enrollment.State
		want  enrollment.StageLabel
	}{
		{"inicio", enrollment.State{Stage: 1}, enrollment.LabelPrimaryAddress},
		{"etapa zero", enrollment.State{Stage: 0}, enrollment.LabelPrimaryAddress},
		{"segundo sem dados", enrollment.State{Stage: 2, HasSecondGuardian: true, PendingSecondGuardianData: true, PendingSecondGuardianAddress: true}, enrollment.LabelSecondGuardian},
		{"segundo sem endereço", enrollment.State{Stage: 2, HasSecondGuardian: true, PendingSecondGuardianAddress: true}, enrollment.LabelSecondAddress},
		{"etapa 2 sem segundo", enrollment.State{Stage: 2}, enrollment.LabelStudent},
		{"aluno sem endereço", enrollment.State{Stage: 3, PendingStudentAddress: true}, enrollment.LabelStudentAddress},
		{"aluno pronto, segundo pendente", enrollment.State{Stage: 3, HasSecondGuardian: true, PendingSecondGuardianAddress: true}, enrollment.LabelSecondAddress},
		{"concluída", enrollment.State{Stage: 3}, enrollment.LabelDone},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, enrollment.NextStage(tc.state))
		})
	}
}

func TestIsComplete_SegundoResponsavel(t *testing.T) {
	s := enrollment.State{Stage: 3, HasSecondGuardian: true, PendingSecondGuardianData: true}
	assert.False(t, s.IsComplete())

	s.PendingSecondGuardianData = false
	s.PendingSecondGuardianAddress = true
	assert.False(t, s.IsComplete())

	s.PendingSecondGuardianAddress = false
	assert.True(t, s.IsComplete())

	s.PendingStudentAddress = true
	assert.False(t, s.IsComplete(), "endereço do aluno pendente impede conclusão")
}

func TestAdvance_NuncaRegride(t *testing.T) {
	assert.Equal(t, 3, enrollment.Advance(3, 2))
	assert.Equal(t, 2, enrollment.Advance(1, 2))
	assert.Equal(t, 2, enrollment.Advance(2, 2))
}
