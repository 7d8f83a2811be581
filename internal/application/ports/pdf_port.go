package ports

import (
	"context"

	"github.com/jhoicas/rentmojo-api/internal/domain/entity"
)

// AgreementPDFGenerator genera el contrato de alquiler en PDF a partir de la copia del pedido.
type AgreementPDFGenerator interface {
	RentalAgreementPDF(ctx context.Context, rental *entity.Rental) ([]byte, error)
}
