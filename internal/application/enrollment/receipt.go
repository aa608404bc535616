package enrollment

import (
	"context"
	"fmt"

	"github.com/mari-machado/projeto-pre-matricula-jp-sub000/internal/application/dto"
	"github.com/mari-machado/projeto-pre-matricula-jp-sub000/internal/domain"
)

// ReceiptGenerator porta de saída que desenha o comprovante da pré-matrícula.
type ReceiptGenerator interface {
	EnrollmentReceipt(ctx context.Context, d *dto.EnrollmentDetailResponse) ([]byte, error)
}

// WithReceipts habilita o comprovante em PDF.
func WithReceipts(g ReceiptGenerator) Option {
	return func(uc *UseCase) { uc.receipts = g }
}

// Receipt comprovante da pré-matrícula concluída.
//
// Retorna:
//   - (pdf, nome do arquivo, nil)  se tudo sair bem.
//   - domain.ErrNotFound           se a matrícula não existe.
//   - *domain.PreconditionError    se ainda não foi concluída.
func (uc *UseCase) Receipt(ctx context.Context, enrollmentID string) ([]byte, string, error) {
	if uc.receipts == nil {
		return nil, "", fmt.Errorf("comprovante: gerador não configurado")
	}
	d, err := uc.Get(ctx, enrollmentID)
	if err != nil {
		return nil, "", err
	}
	if !d.Completed {
		return nil, "", domain.Precondition("pré-matrícula %s ainda não concluída", d.Code)
	}
	pdf, err := uc.receipts.EnrollmentReceipt(ctx, d)
	if err != nil {
		return nil, "", fmt.Errorf("comprovante: gerar pdf: %w", err)
	}
	return pdf, fmt.Sprintf("pre-matricula-%s.pdf", d.Code), nil
}
