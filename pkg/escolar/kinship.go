package escolar

import "github.com/mari-machado/projeto-pre-matricula-jp-sub000/pkg/text"

// =============================================================================
// Parentesco (campo nParentesco). Códigos negativos fixos do sistema legado.
// =============================================================================

// KinshipCode código remoto de parentesco.
type KinshipCode int

const (
	KinshipFather KinshipCode = -1
	KinshipMother KinshipCode = -2
	KinshipOther  KinshipCode = -3
)

var kinshipNames = map[KinshipCode]string{
	KinshipFather: "pai",
	KinshipMother: "mae",
	KinshipOther:  "outro",
}

// kinshipAliases termos aceitos (já sem acento e em minúsculas) → código.
var kinshipAliases = map[string]KinshipCode{
	"pai":      KinshipFather,
	"father":   KinshipFather,
	"genitor":  KinshipFather,
	"mae":      KinshipMother,
	"mother":   KinshipMother,
	"genitora": KinshipMother,
}

// String nome canônico do código.
func (k KinshipCode) String() string {
	if n, ok := kinshipNames[k]; ok {
		return n
	}
	return kinshipNames[KinshipOther]
}

// KinshipFromCode devolve o código se ele for conhecido; qualquer outro valor vira "outro".
func KinshipFromCode(code int) KinshipCode {
	k := KinshipCode(code)
	if _, ok := kinshipNames[k]; ok {
		return k
	}
	return KinshipOther
}

// ParseKinship normaliza o texto (acentos, caixa, espaços) e mapeia para o código remoto.
// Qualquer termo não reconhecido ("avó", "responsável legal", "principal") é "outro".
func ParseKinship(raw string) KinshipCode {
	if k, ok := kinshipAliases[text.Fold(raw)]; ok {
		return k
	}
	return KinshipOther
}
