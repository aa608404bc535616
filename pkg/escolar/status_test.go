package escolar_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mari-machado/projeto-pre-matricula-jp-sub000/pkg/escolar"
)

func TestDecodeStatus_CodigoConhecido(t *testing.T) {
	st := escolar.DecodeStatus("29 - CPF already associated")
	assert.True(t, st.Decoded)
	assert.Equal(t, escolar.StatusCPFAlreadyAssociated, st.Code)
	assert.Equal(t, escolar.StatusCPFAlreadyAssociated.Description(), st.Message)
	assert.Equal(t, "29 - CPF already associated", st.Raw)
	assert.False(t, st.Success())
	assert.True(t, st.Code.IsDuplicate())
}

func TestDecodeStatus_Sucesso(t *testing.T) {
	st := escolar.DecodeStatus("  1 - Success ")
	assert.True(t, st.Success())
	assert.Equal(t, escolar.StatusSuccess, st.Code)
}

func TestDecodeStatus_CodigoForaDaTabelaMantemTextoRemoto(t *testing.T) {
	st := escolar.DecodeStatus("77: erro novo do fornecedor")
	assert.True(t, st.Decoded)
	assert.Equal(t, escolar.StatusCode(77), st.Code)
	assert.False(t, st.Code.Known())
	assert.Equal(t, "erro novo do fornecedor", st.Message)
}

func TestDecodeStatus_PalavraChaveSucesso(t *testing.T) {
	st := escolar.DecodeStatus("Operação realizada com SUCESSO")
	assert.True(t, st.Success())
}

func TestDecodeStatus_TextoNaoDecodificado(t *testing.T) {
	st := escolar.DecodeStatus("Object reference not set to an instance of an object.")
	assert.False(t, st.Decoded)
	assert.Equal(t, escolar.StatusUnknown, st.Code)
	assert.Equal(t, "Object reference not set to an instance of an object.", st.Message)
}

func TestDecodeStatus_NumeroSemSeparadorNaoEhCodigo(t *testing.T) {
	st := escolar.DecodeStatus("2024 alunos processados")
	assert.False(t, st.Decoded)
}

func TestStatusCode_Categorias(t *testing.T) {
	assert.True(t, escolar.StatusInvalidDate.IsValidationFailure())
	assert.True(t, escolar.StatusInvalidCity.IsValidationFailure())
	assert.False(t, escolar.StatusRateLimited.IsValidationFailure())
	assert.True(t, escolar.StatusRateLimited.IsRateLimited())
}
