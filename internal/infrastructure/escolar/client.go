// Package escolar implementa o adaptador SOAP para o sistema escolar legado (WSAPIEdu):
// monta os envelopes, envia, e interpreta o texto de status de cada operação.
package escolar

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/mari-machado/projeto-pre-matricula-jp-sub000/internal/application/integration"
	"github.com/mari-machado/projeto-pre-matricula-jp-sub000/internal/domain"
	"github.com/mari-machado/projeto-pre-matricula-jp-sub000/internal/domain/entity"
	"github.com/mari-machado/projeto-pre-matricula-jp-sub000/pkg/config"
	"github.com/mari-machado/projeto-pre-matricula-jp-sub000/pkg/escolar"
	"github.com/mari-machado/projeto-pre-matricula-jp-sub000/pkg/logger"
)

const (
	defaultTimeout = 60 * time.Second
	maxBodyBytes   = 1 << 20 // 1 MB
)

// Client cliente SOAP do web service escolar. Sem retry: inserções remotas não são idempotentes.
type Client struct {
	cfg        config.EscolarConfig
	endpoint   string
	httpClient *http.Client
	log        *logger.Logger
}

// NewClient valida as credenciais antes de qualquer chamada; ausência é domain.ErrIntegrationConfig.
// httpClient nil usa um cliente com o timeout da configuração (teto; o ctx de cada chamada manda).
func NewClient(cfg config.EscolarConfig, httpClient *http.Client, log *logger.Logger) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrIntegrationConfig, err)
	}
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	host := strings.TrimSuffix(strings.TrimPrefix(strings.TrimSpace(cfg.EndpointHost), "https://"), "/")
	return &Client{
		cfg:        cfg,
		endpoint:   "https://" + host + servicePath,
		httpClient: httpClient,
		log:        log,
	}, nil
}

// ── Integração completa ──────────────────────────────────────────────────────

// Integrate envia o aluno e, com o código remoto em mãos, cada responsável (principal primeiro,
// repetidos ignorados). Falha de um responsável não impede os demais. Se o aluno não gerar
// código utilizável, nenhum responsável é enviado.
func (c *Client) Integrate(ctx context.Context, sub integration.Submission) (*integration.Result, error) {
	res := &integration.Result{}

	stu, err := c.InsertStudent(ctx, sub.Student, sub.StudentAddress)
	res.Student = stu
	if err != nil {
		return res, err
	}
	if !stu.Success() || stu.RemoteID <= 0 {
		c.log.Warn().
			Str("enrollment_id", sub.EnrollmentID).
			Int("code", int(stu.Status.Code)).
			Str("message", stu.Status.Message).
			Msg("aluno não aceito pelo sistema escolar; responsáveis não enviados")
		return res, nil
	}
	res.RemoteStudentID = stu.RemoteID

	for _, gl := range orderGuardians(sub) {
		r, err := c.InsertGuardian(ctx, res.RemoteStudentID, gl)
		if err != nil {
			c.log.Warn().Err(err).Str("guardian_id", gl.Guardian.ID).Msg("falha de transporte ao enviar responsável")
		}
		res.Guardians = append(res.Guardians, r)
	}
	return res, nil
}

// orderGuardians principal primeiro, depois os vínculos na ordem recebida, sem repetir.
func orderGuardians(sub integration.Submission) []integration.GuardianLink {
	seen := map[string]bool{}
	out := make([]integration.GuardianLink, 0, len(sub.Guardians)+1)
	for _, gl := range append([]integration.GuardianLink{sub.Primary}, sub.Guardians...) {
		if gl.Guardian.ID == "" || seen[gl.Guardian.ID] {
			continue
		}
		seen[gl.Guardian.ID] = true
		out = append(out, gl)
	}
	return out
}

// ── Operações ────────────────────────────────────────────────────────────────

// InsertStudent operação InsertStudent.
func (c *Client) InsertStudent(ctx context.Context, s entity.Student, addr entity.Address) (integration.OperationResult, error) {
	var warnings []string
	phone, w := cleanPhone("sTelefone", s.Phone)
	warnings = appendWarning(warnings, w)

	fields := []field{
		{"nCodigoCliente", strconv.Itoa(c.cfg.AccountCode)},
		{"sToken", c.cfg.Token},
		{"sNome", cleanText(s.Name)},
		{"sSexo", string(escolar.ParseGender(s.Gender))},
		{"dDataNascimento", formatDate(s.BirthDate)},
		{"sNaturalidade", cleanText(s.Birthplace)},
		{"sNacionalidade", cleanText(s.Nationality)},
		{"sCPF", cleanDocument(s.CPF)},
		{"sEstadoCivil", cleanText(s.MaritalStatus)},
		{"sTelefone", phone},
		{"sEmail", cleanText(s.Email)},
	}
	fields = append(fields, addressFields(addr)...)
	return c.call(ctx, entity.OperationInsertStudent, s.ID, fields, warnings)
}

// InsertGuardian operação InsertGuardian, vinculando o responsável ao aluno remoto.
func (c *Client) InsertGuardian(ctx context.Context, remoteStudentID int, gl integration.GuardianLink) (integration.OperationResult, error) {
	g := gl.Guardian
	var warnings []string
	phone, w := cleanPhone("sTelefone", g.Phone)
	warnings = appendWarning(warnings, w)

	fields := []field{
		{"nCodigoCliente", strconv.Itoa(c.cfg.AccountCode)},
		{"sToken", c.cfg.Token},
		{"nCodigoAluno", strconv.Itoa(remoteStudentID)},
		{"sNome", cleanText(g.Name)},
		{"sSexo", string(escolar.ParseGender(g.Gender))},
		{"dDataNascimento", formatDate(g.BirthDate)},
		{"sEstadoCivil", cleanText(g.MaritalStatus)},
		{"sRG", cleanDocument(g.RG)},
		{"sCPF", cleanDocument(g.CPF)},
		{"bPessoaJuridica", formatBool(g.LegalEntity)},
		{"sTelefone", phone},
		{"sEmail", cleanText(g.Email)},
	}
	fields = append(fields, addressFields(gl.Address)...)
	fields = append(fields,
		field{"nParentesco", strconv.Itoa(int(escolar.ParseKinship(gl.Kinship)))},
		field{"bResponsavelFinanceiro", formatBool(gl.Financial)},
		field{"bResponsavelPedagogico", formatBool(gl.Pedagogical)},
	)
	return c.call(ctx, entity.OperationInsertGuardian, g.ID, fields, warnings)
}

func addressFields(a entity.Address) []field {
	return []field{
		{"sCEP", cleanDocument(a.PostalCode)},
		{"sEndereco", cleanText(a.Street)},
		{"sNumero", cleanText(a.Number)},
		{"sComplemento", cleanText(a.Complement)},
		{"sBairro", cleanText(a.Neighborhood)},
		{"sCidade", cityField(a)},
	}
}

func appendWarning(list []string, w string) []string {
	if w == "" {
		return list
	}
	return append(list, w)
}

// call monta, envia e interpreta uma operação. Erro só para falha de transporte; o resultado
// volta preenchido mesmo assim.
func (c *Client) call(ctx context.Context, operation, entityID string, fields []field, warnings []string) (integration.OperationResult, error) {
	out := integration.OperationResult{Operation: operation, EntityID: entityID, Warnings: warnings}

	env, err := buildEnvelope(operation, fields)
	if err != nil {
		return out, err
	}
	out.EnvelopeDigest = env.digest

	resp, err := c.send(ctx, env)
	if err != nil {
		out.TransportErr = err
		out.Status = escolar.Status{Message: err.Error()}
		return out, err
	}
	out.Status = resp.status
	out.RemoteID = resp.remoteID

	c.log.Info().
		Str("operation", operation).
		Str("entity_id", entityID).
		Str("digest", env.digest).
		Int("code", int(resp.status.Code)).
		Bool("decoded", resp.status.Decoded).
		Msg("resposta do sistema escolar")
	return out, nil
}

// send POST do envelope. Não-2xx e erro de conexão viram *domain.TransportError.
func (c *Client) send(ctx context.Context, env *envelope) (response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(env.body))
	if err != nil {
		return response{}, &domain.TransportError{Operation: env.operation, Err: err}
	}
	req.Header.Set("Content-Type", "text/xml; charset=utf-8")
	req.Header.Set("SOAPAction", env.action)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			err = ctx.Err()
		}
		return response{}, &domain.TransportError{Operation: env.operation, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return response{}, &domain.TransportError{Operation: env.operation, StatusCode: resp.StatusCode, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return response{}, &domain.TransportError{
			Operation:  env.operation,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("corpo: %s", truncate(string(raw), 512)),
		}
	}
	return parseResponse(env.operation, raw, resp.Header.Get("Content-Type")), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

var _ integration.Gateway = (*Client)(nil)
