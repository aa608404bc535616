package escolar

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/mari-machado/projeto-pre-matricula-jp-sub000/internal/application/integration"
	"github.com/mari-machado/projeto-pre-matricula-jp-sub000/internal/domain"
	"github.com/mari-machado/projeto-pre-matricula-jp-sub000/internal/domain/entity"
	"github.com/mari-machado/projeto-pre-matricula-jp-sub000/pkg/config"
	"github.com/mari-machado/projeto-pre-matricula-jp-sub000/pkg/escolar"
	"github.com/mari-machado/projeto-pre-matricula-jp-sub000/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Servidor falso
// ──────────────────────────────────────────────────────────────────────────────

type captured struct {
	action      string
	contentType string
	body        string
}

// fakeService responde por operação; reply recebe o corpo enviado e devolve (status HTTP, XML).
type fakeService struct {
	mu       sync.Mutex
	requests []captured
	reply    func(operation, body string) (int, string)
}

func (f *fakeService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.requests = append(f.requests, captured{
		action:      r.Header.Get("SOAPAction"),
		contentType: r.Header.Get("Content-Type"),
		body:        string(raw),
	})
	f.mu.Unlock()

	op := strings.TrimPrefix(r.Header.Get("SOAPAction"), serviceNS)
	code, payload := f.reply(op, string(raw))
	w.Header().Set("Content-Type", "text/xml; charset=utf-8")
	w.WriteHeader(code)
	_, _ = io.WriteString(w, payload)
}

func (f *fakeService) byOperation(op string) []captured {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []captured
	for _, c := range f.requests {
		if c.action == serviceNS+op {
			out = append(out, c)
		}
	}
	return out
}

func soapReply(operation, inner string) string {
	return `<?xml version="1.0" encoding="utf-8"?>` +
		`<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/"><soap:Body>` +
		`<` + operation + `Response xmlns="http://tempuri.org/">` + inner + `</` + operation + `Response>` +
		`</soap:Body></soap:Envelope>`
}

func resultReply(operation, text string) string {
	return soapReply(operation, `<`+operation+`Result>`+text+`</`+operation+`Result>`)
}

func newTestClient(t *testing.T, svc http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewTLSServer(svc)
	t.Cleanup(srv.Close)
	c, err := NewClient(config.EscolarConfig{
		AccountCode:  4321,
		Token:        "tok-secreto",
		EndpointHost: strings.TrimPrefix(srv.URL, "https://"),
		Timeout:      5 * time.Second,
	}, srv.Client(), logger.Nop())
	require.NoError(t, err)
	return c, srv
}

// ──────────────────────────────────────────────────────────────────────────────
// Fixtures
// ──────────────────────────────────────────────────────────────────────────────

func birth(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func paulista() entity.Address {
	return entity.Address{
		PostalCode: "01310-100", Street: "Av. Paulista", Number: "1000",
		Neighborhood: "Bela Vista", City: "São Paulo", State: "sp",
	}
}

func submission() integration.Submission {
	maria := integration.GuardianLink{
		Guardian: entity.Guardian{
			ID: "g-maria", Name: "Maria Souza", Gender: "Feminino", BirthDate: birth(1985, time.March, 4),
			CPF: "123.456.789-09", RG: "12.345.678-9", Phone: "(11) 98765-4321", Email: "maria@example.com",
		},
		Address:     paulista(),
		Kinship:     "principal",
		Financial:   true,
		Pedagogical: true,
	}
	joao := integration.GuardianLink{
		Guardian: entity.Guardian{
			ID: "g-joao", Name: "João Souza", Gender: "M", CPF: "987.654.321-00",
		},
		Address: paulista(),
		Kinship: "pai",
	}
	return integration.Submission{
		EnrollmentID: "enr-1",
		Student: entity.Student{
			ID: "s-1", Name: "Ana Souza", Gender: "F", BirthDate: birth(2015, time.July, 20),
			Nationality: "Brasileira", Phone: "--",
		},
		StudentAddress: paulista(),
		Primary:        maria,
		Guardians:      []integration.GuardianLink{maria, joao},
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Configuração
// ──────────────────────────────────────────────────────────────────────────────

func TestNewClient_SemCredenciais(t *testing.T) {
	_, err := NewClient(config.EscolarConfig{EndpointHost: "escolar.example.com"}, nil, logger.Nop())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrIntegrationConfig))
	assert.Contains(t, err.Error(), "ESCOLAR_TOKEN")
}

func TestNewClient_Endpoint(t *testing.T) {
	c, err := NewClient(config.EscolarConfig{AccountCode: 1, Token: "x", EndpointHost: "https://escolar.example.com/"}, nil, logger.Nop())
	require.NoError(t, err)
	assert.Equal(t, "https://escolar.example.com/WSAPIEdu.asmx", c.endpoint)
	assert.Equal(t, defaultTimeout, c.httpClient.Timeout)
}

// ──────────────────────────────────────────────────────────────────────────────
// Integração
// ──────────────────────────────────────────────────────────────────────────────

// Aluno aceito com código 9001; o segundo responsável é rejeitado e o principal não.
func TestIntegrate_SucessoParcial(t *testing.T) {
	svc := &fakeService{reply: func(op, body string) (int, string) {
		switch op {
		case entity.OperationInsertStudent:
			return http.StatusOK, soapReply(op, `<InsertStudentResult>1 - Sucesso</InsertStudentResult><nCodigoAluno>9001</nCodigoAluno>`)
		case entity.OperationInsertGuardian:
			if strings.Contains(body, "<sCPF>98765432100</sCPF>") {
				return http.StatusOK, resultReply(op, "29 - CPF já associado")
			}
			return http.StatusOK, resultReply(op, "1 - Sucesso")
		}
		return http.StatusNotFound, ""
	}}
	c, _ := newTestClient(t, svc)

	res, err := c.Integrate(t.Context(), submission())
	require.NoError(t, err)

	assert.Equal(t, 9001, res.RemoteStudentID)
	assert.True(t, res.Student.Success())
	assert.NotEmpty(t, res.Student.EnvelopeDigest)

	// principal uma vez só, mesmo aparecendo também nos vínculos
	require.Len(t, res.Guardians, 2)
	assert.Equal(t, "g-maria", res.Guardians[0].EntityID)
	assert.True(t, res.Guardians[0].Success())
	assert.Equal(t, "g-joao", res.Guardians[1].EntityID)
	assert.False(t, res.Guardians[1].Success())
	assert.Equal(t, escolar.StatusCPFAlreadyAssociated, res.Guardians[1].Status.Code)
	assert.Equal(t, "29 - CPF já associado", res.Guardians[1].Status.Raw)

	ok, failed := res.GuardianCounts()
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, failed)

	guardians := svc.byOperation(entity.OperationInsertGuardian)
	require.Len(t, guardians, 2)
	for _, g := range guardians {
		assert.Contains(t, g.body, "<nCodigoAluno>9001</nCodigoAluno>")
		assert.Contains(t, g.body, "<nCodigoCliente>4321</nCodigoCliente>")
		assert.Equal(t, "text/xml; charset=utf-8", g.contentType)
	}
	assert.Contains(t, guardians[0].body, "<nParentesco>-3</nParentesco>")
	assert.Contains(t, guardians[0].body, "<bResponsavelFinanceiro>1</bResponsavelFinanceiro>")
	assert.Contains(t, guardians[1].body, "<nParentesco>-1</nParentesco>")
	assert.Contains(t, guardians[1].body, "<bResponsavelPedagogico>0</bResponsavelPedagogico>")
}

func TestIntegrate_AlunoRejeitadoNaoEnviaResponsaveis(t *testing.T) {
	svc := &fakeService{reply: func(op, _ string) (int, string) {
		return http.StatusOK, resultReply(op, "21 - CPF do aluno duplicado")
	}}
	c, _ := newTestClient(t, svc)

	res, err := c.Integrate(t.Context(), submission())
	require.NoError(t, err)
	assert.Zero(t, res.RemoteStudentID)
	assert.Equal(t, escolar.StatusStudentCPFDuplicated, res.Student.Status.Code)
	assert.Empty(t, res.Guardians)
	assert.Empty(t, svc.byOperation(entity.OperationInsertGuardian))
}

func TestIntegrate_SucessoSemCodigo(t *testing.T) {
	svc := &fakeService{reply: func(op, _ string) (int, string) {
		return http.StatusOK, resultReply(op, "Operação realizada com sucesso")
	}}
	c, _ := newTestClient(t, svc)

	res, err := c.Integrate(t.Context(), submission())
	require.NoError(t, err)
	assert.True(t, res.Student.Success())
	assert.Zero(t, res.RemoteStudentID)
	assert.Empty(t, res.Guardians)
}

func TestIntegrate_CodigoNoTexto(t *testing.T) {
	svc := &fakeService{reply: func(op, _ string) (int, string) {
		if op == entity.OperationInsertStudent {
			return http.StatusOK, resultReply(op, "1 - Aluno cadastrado. Código: 9001")
		}
		return http.StatusOK, resultReply(op, "1 - Sucesso")
	}}
	c, _ := newTestClient(t, svc)

	res, err := c.Integrate(t.Context(), submission())
	require.NoError(t, err)
	assert.Equal(t, 9001, res.RemoteStudentID)
	assert.Len(t, res.Guardians, 2)
}

func TestIntegrate_HTTPNao2xx(t *testing.T) {
	svc := &fakeService{reply: func(string, string) (int, string) {
		return http.StatusInternalServerError, "boom"
	}}
	c, _ := newTestClient(t, svc)

	res, err := c.Integrate(t.Context(), submission())
	require.Error(t, err)
	var te *domain.TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, http.StatusInternalServerError, te.StatusCode)
	assert.Equal(t, entity.OperationInsertStudent, te.Operation)
	assert.True(t, errors.Is(err, domain.ErrTransport))

	require.NotNil(t, res)
	assert.Error(t, res.Student.TransportErr)
	assert.False(t, res.Student.Success())
	assert.Empty(t, res.Guardians)
}

func TestIntegrate_FalhaDeTransporteNoResponsavel(t *testing.T) {
	svc := &fakeService{reply: func(op, body string) (int, string) {
		if op == entity.OperationInsertStudent {
			return http.StatusOK, resultReply(op, "1 - Sucesso. Código 77")
		}
		if strings.Contains(body, "Maria") {
			return http.StatusBadGateway, ""
		}
		return http.StatusOK, resultReply(op, "1 - Sucesso")
	}}
	c, _ := newTestClient(t, svc)

	res, err := c.Integrate(t.Context(), submission())
	require.NoError(t, err)
	require.Len(t, res.Guardians, 2)
	assert.Error(t, res.Guardians[0].TransportErr)
	assert.True(t, res.Guardians[1].Success())
}

func TestIntegrate_ContextoCancelado(t *testing.T) {
	svc := &fakeService{reply: func(op, _ string) (int, string) {
		return http.StatusOK, resultReply(op, "1 - Sucesso")
	}}
	c, _ := newTestClient(t, svc)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	_, err := c.Integrate(ctx, submission())
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.True(t, errors.Is(err, domain.ErrTransport))
}

// ──────────────────────────────────────────────────────────────────────────────
// Campos enviados
// ──────────────────────────────────────────────────────────────────────────────

func TestInsertStudent_Campos(t *testing.T) {
	svc := &fakeService{reply: func(op, _ string) (int, string) {
		return http.StatusOK, resultReply(op, "1 - Sucesso")
	}}
	c, _ := newTestClient(t, svc)

	s := submission().Student
	s.Name = `Ana & <Bia> "Souza"`
	s.Phone = "+55 (11) 98765-4321 ramal 12345"
	r, err := c.InsertStudent(t.Context(), s, paulista())
	require.NoError(t, err)

	sent := svc.byOperation(entity.OperationInsertStudent)
	require.Len(t, sent, 1)
	body := sent[0].body

	assert.Contains(t, body, `<InsertStudent xmlns="http://tempuri.org/">`)
	assert.Contains(t, body, "<sToken>tok-secreto</sToken>")
	assert.Contains(t, body, "Ana &amp; &lt;Bia&gt;")
	assert.NotContains(t, body, "<Bia>")
	assert.Contains(t, body, "<sSexo>F</sSexo>")
	assert.Contains(t, body, "<dDataNascimento>20/07/2015</dDataNascimento>")
	assert.Contains(t, body, "<sCidade>São Paulo|SP</sCidade>")
	assert.Contains(t, body, "<sCEP>01310100</sCEP>")
	assert.Contains(t, body, "<sTelefone></sTelefone>")

	require.Len(t, r.Warnings, 1)
	assert.Contains(t, r.Warnings[0], "sTelefone")
}

func TestInsertStudent_PlaceholdersViramVazio(t *testing.T) {
	svc := &fakeService{reply: func(op, _ string) (int, string) {
		return http.StatusOK, resultReply(op, "1 - Sucesso")
	}}
	c, _ := newTestClient(t, svc)

	s := submission().Student
	s.Birthplace = "A INFORMAR"
	_, err := c.InsertStudent(t.Context(), s, entity.Address{City: "Campinas"})
	require.NoError(t, err)

	body := svc.byOperation(entity.OperationInsertStudent)[0].body
	assert.Contains(t, body, "<sNaturalidade></sNaturalidade>")
	assert.Contains(t, body, "<sTelefone></sTelefone>")
	assert.Contains(t, body, "<sCidade>Campinas</sCidade>")
}

// ──────────────────────────────────────────────────────────────────────────────
// Respostas
// ──────────────────────────────────────────────────────────────────────────────

func TestParseResponse_Latin1(t *testing.T) {
	utf := `<?xml version="1.0" encoding="ISO-8859-1"?>` + soapReply("InsertGuardian",
		`<InsertGuardianResult>29 - CPF já associado</InsertGuardianResult>`)[len(`<?xml version="1.0" encoding="utf-8"?>`):]
	latin, err := charmap.ISO8859_1.NewEncoder().Bytes([]byte(utf))
	require.NoError(t, err)

	r := parseResponse("InsertGuardian", latin, "text/xml")
	assert.Equal(t, escolar.StatusCPFAlreadyAssociated, r.status.Code)
	assert.Equal(t, "29 - CPF já associado", r.status.Raw)
}

func TestParseResponse_Latin1SoNoCabecalho(t *testing.T) {
	plain := soapReply("InsertStudent", `<InsertStudentResult>Código inválido</InsertStudentResult>`)
	plain = plain[len(`<?xml version="1.0" encoding="utf-8"?>`):]
	latin, err := charmap.ISO8859_1.NewEncoder().Bytes([]byte(plain))
	require.NoError(t, err)

	r := parseResponse("InsertStudent", latin, "text/xml; charset=ISO-8859-1")
	assert.False(t, r.status.Decoded)
	assert.Equal(t, "Código inválido", r.status.Raw)
}

func TestParseResponse_Fault(t *testing.T) {
	raw := soapReply("x", "")
	raw = strings.Replace(raw, `<xResponse xmlns="http://tempuri.org/"></xResponse>`,
		`<soap:Fault><faultcode>soap:Server</faultcode><faultstring>Token expirado</faultstring></soap:Fault>`, 1)

	r := parseResponse("InsertStudent", []byte(raw), "text/xml")
	assert.False(t, r.status.Decoded)
	assert.Equal(t, "Token expirado", r.status.Message)
	assert.Zero(t, r.remoteID)
}

func TestParseResponse_NaoXML(t *testing.T) {
	r := parseResponse("InsertStudent", []byte("<html>erro"), "text/html")
	assert.False(t, r.status.Decoded)
	assert.Equal(t, "<html>erro", r.status.Raw)
}

func TestParseResponse_SemResultado(t *testing.T) {
	r := parseResponse("InsertStudent", []byte(soapReply("InsertStudent", "")), "text/xml")
	assert.False(t, r.status.Decoded)
	assert.Contains(t, r.status.Message, "InsertStudentResult")
}

func TestRemoteIDFromText(t *testing.T) {
	cases := map[string]int{
		"1 - Sucesso. Código: 9001":                      9001,
		"1 - Aluno cadastrado. codigo do aluno = 77":     77,
		"1 - Sucesso (ID: 12)":                           12,
		"1 - Sucesso. Código 77":                         77,
		"1 - 9001":                                       9001,
		"1 - Sucesso":                                    0,
		"1":                                              0,
		"Aluno 55 criado":                                0,
		"1 - Aluno cadastrado com sucesso em 15/03/2026": 0,
		"1 - Sucesso, 3 registros processados":           0,
	}
	for in, want := range cases {
		assert.Equal(t, want, remoteIDFromText(in), in)
	}
}

func TestIntegrate_DataNoTextoNaoViraCodigo(t *testing.T) {
	svc := &fakeService{reply: func(op, _ string) (int, string) {
		return http.StatusOK, resultReply(op, "1 - Aluno cadastrado com sucesso em 15/03/2026")
	}}
	c, _ := newTestClient(t, svc)

	res, err := c.Integrate(t.Context(), submission())
	require.NoError(t, err)
	assert.Zero(t, res.RemoteStudentID)
	assert.Empty(t, res.Guardians, "sem código do aluno nenhum responsável é enviado")
	assert.Empty(t, svc.byOperation(entity.OperationInsertGuardian))
}

// ──────────────────────────────────────────────────────────────────────────────
// Envelope
// ──────────────────────────────────────────────────────────────────────────────

func TestBuildEnvelope_DigestEstavel(t *testing.T) {
	fields := []field{{"sNome", "Ana"}, {"sCPF", "12345678909"}}

	a, err := buildEnvelope("InsertStudent", fields)
	require.NoError(t, err)
	b, err := buildEnvelope("InsertStudent", fields)
	require.NoError(t, err)
	assert.Equal(t, a.digest, b.digest)
	assert.Len(t, a.digest, 64)

	c, err := buildEnvelope("InsertStudent", []field{{"sNome", "Ana "}, {"sCPF", "12345678909"}})
	require.NoError(t, err)
	assert.NotEqual(t, a.digest, c.digest)

	assert.True(t, strings.HasPrefix(string(a.body), "<?xml"))
	assert.Equal(t, serviceNS+"InsertStudent", a.action)
}

func TestCleanText_RemoveRunasInvalidas(t *testing.T) {
	assert.Equal(t, "AnaBia", cleanText("Ana\x00\x1bBia"))
	assert.Equal(t, "", cleanText(" -- "))
	assert.Equal(t, "Olá", cleanText(" Olá "))
}

func TestCleanPhone(t *testing.T) {
	d, w := cleanPhone("sTelefone", "+55 (11) 98765-4321")
	assert.Equal(t, "5511987654321", d)
	assert.Empty(t, w)

	d, w = cleanPhone("sTelefone", "1234567890123456")
	assert.Empty(t, d)
	assert.Equal(t, fmt.Sprintf("sTelefone descartado: 16 dígitos (máximo %d)", maxPhoneDigits), w)
}
