package escolar

import (
	"bytes"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/mari-machado/projeto-pre-matricula-jp-sub000/pkg/escolar"
)

// remoteIDTags elementos que, na resposta, carregam o código do aluno criado.
var remoteIDTags = []string{"nCodigoAluno", "CodigoAluno", "nIdAluno"}

// response resposta interpretada de uma operação.
type response struct {
	status   escolar.Status
	remoteID int
}

// charsetReader o web service legado responde em ISO-8859-1 na maioria das instalações.
func charsetReader(label string, input io.Reader) (io.Reader, error) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "iso-8859-1", "iso8859-1", "latin1", "latin-1", "windows-1252", "cp1252":
		return transform.NewReader(input, charmap.ISO8859_1.NewDecoder()), nil
	}
	return input, nil
}

// decodeBody converte para UTF-8 quando só o cabeçalho HTTP declara Latin-1
// (sem declaração XML o etree assumiria UTF-8).
func decodeBody(raw []byte, contentType string) []byte {
	if bytes.HasPrefix(bytes.TrimSpace(raw), []byte("<?xml")) {
		return raw
	}
	ct := strings.ToLower(contentType)
	if !strings.Contains(ct, "iso-8859-1") && !strings.Contains(ct, "latin1") {
		return raw
	}
	out, _, err := transform.Bytes(charmap.ISO8859_1.NewDecoder(), raw)
	if err != nil {
		return raw
	}
	return out
}

// parseResponse extrai o texto de <Operação>Result e o código remoto.
// Corpo ilegível ou sem o elemento não é erro: o texto bruto volta sem decodificar.
func parseResponse(operation string, raw []byte, contentType string) response {
	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = charsetReader
	if err := doc.ReadFromBytes(decodeBody(raw, contentType)); err != nil {
		return response{status: escolar.Status{Message: "resposta não é XML válido", Raw: string(raw)}}
	}

	if fault := findLocal(doc.Root(), "Fault"); fault != nil {
		text := "SOAP Fault"
		if fs := findLocal(fault, "faultstring"); fs != nil {
			text = strings.TrimSpace(fs.Text())
		}
		return response{status: escolar.Status{Message: text, Raw: text}}
	}

	result := findLocal(doc.Root(), operation+"Result")
	if result == nil {
		return response{status: escolar.Status{Message: "resposta sem " + operation + "Result", Raw: string(raw)}}
	}
	text := result.Text()
	out := response{status: escolar.DecodeStatus(text)}

	for _, tag := range remoteIDTags {
		if el := findLocal(doc.Root(), tag); el != nil {
			if n, err := strconv.Atoi(strings.TrimSpace(el.Text())); err == nil && n > 0 {
				out.remoteID = n
				return out
			}
		}
	}
	if out.status.Success() {
		out.remoteID = remoteIDFromText(text)
	}
	return out
}

// findLocal busca em profundidade pelo nome local, ignorando prefixo de namespace.
func findLocal(el *etree.Element, local string) *etree.Element {
	if el == nil {
		return nil
	}
	if el.Tag == local {
		return el
	}
	for _, c := range el.ChildElements() {
		if found := findLocal(c, local); found != nil {
			return found
		}
	}
	return nil
}

var (
	// "Código: 9001", "Código do aluno = 9001", "ID: 9001"
	labeledID = regexp.MustCompile(`(?i)\b(?:c[óo]digo|id)(?:\s+do\s+aluno)?\s*[:=]?\s*(\d+)\b`)
	// "1 - 9001": depois do separador só o número
	bareID = regexp.MustCompile(`^\d+\s*[-:|]\s*(\d+)\s*\.?$`)
)

// remoteIDFromText código do aluno no texto de sucesso. Só vale número rotulado ou texto que
// seja apenas o número após o status; datas e contagens soltas dão 0.
func remoteIDFromText(text string) int {
	s := strings.TrimSpace(text)
	m := labeledID.FindStringSubmatch(s)
	if m == nil {
		m = bareID.FindStringSubmatch(s)
	}
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}
