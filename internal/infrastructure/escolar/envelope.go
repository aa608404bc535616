package escolar

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/xml"
	"fmt"

	"github.com/beevik/etree"
	"github.com/ucarion/c14n"
)

// ── Constantes do protocolo ──────────────────────────────────────────────────

const (
	soapNS      = "http://schemas.xmlsoap.org/soap/envelope/"
	xsiNS       = "http://www.w3.org/2001/XMLSchema-instance"
	xsdNS       = "http://www.w3.org/2001/XMLSchema"
	serviceNS   = "http://tempuri.org/"
	servicePath = "/WSAPIEdu.asmx"
)

// field par nome/valor de um parâmetro da operação, na ordem do WSDL.
type field struct {
	name  string
	value string
}

// envelope requisição SOAP 1.1 pronta para envio.
type envelope struct {
	operation string
	action    string
	body      []byte
	digest    string // SHA-256 (hex) da forma canônica
}

// buildEnvelope monta o envelope com etree (que escapa o texto) e calcula o digest canônico.
func buildEnvelope(operation string, fields []field) (*envelope, error) {
	doc := etree.NewDocument()
	doc.WriteSettings.CanonicalEndTags = true
	env := doc.CreateElement("soap:Envelope")
	env.CreateAttr("xmlns:xsi", xsiNS)
	env.CreateAttr("xmlns:xsd", xsdNS)
	env.CreateAttr("xmlns:soap", soapNS)

	body := env.CreateElement("soap:Body")
	op := body.CreateElement(operation)
	op.CreateAttr("xmlns", serviceNS)
	for _, f := range fields {
		op.CreateElement(f.name).SetText(f.value)
	}

	raw, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("escolar: serializar envelope %s: %w", operation, err)
	}
	digest, err := canonicalDigest(raw)
	if err != nil {
		return nil, err
	}
	return &envelope{
		operation: operation,
		action:    serviceNS + operation,
		body:      append([]byte(xml.Header), raw...),
		digest:    digest,
	}, nil
}

// canonicalDigest SHA-256 da forma C14N: dois envelopes com o mesmo conteúdo lógico
// têm o mesmo digest, independentemente de formatação.
func canonicalDigest(raw []byte) (string, error) {
	dec := xml.NewDecoder(bytes.NewReader(raw))
	dec.Entity = map[string]string{}
	canon, err := c14n.Canonicalize(dec)
	if err != nil {
		return "", fmt.Errorf("escolar: canonicalizar envelope: %w", err)
	}
	sum := sha256.Sum256(canon)
	return hex.EncodeToString(sum[:]), nil
}
