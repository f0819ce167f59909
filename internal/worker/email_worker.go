package worker

// email_worker.go
// Processes JobEnvioFactura: renders the invoice PDF, archives a copy under
// PDF_STORAGE_PATH and mails it through the SMTP circuit breaker.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"facturas/internal/dto"
	"facturas/internal/errs"
	"facturas/internal/infra"
	"facturas/internal/repository"

	"github.com/rs/zerolog/log"
)

// FacturaMailer is satisfied by *infra.Mailer.
type FacturaMailer interface {
	SendFactura(to, subject, body, filename string, pdf []byte) error
}

type EmailWorker struct {
	facturas repository.FacturaRepository
	empresas repository.EmpresaRepository
	mailer   FacturaMailer
	cb       *infra.CircuitBreaker
	pdfDir   string
}

// NewEmailWorker builds the worker. pdfDir may be empty to skip archiving.
func NewEmailWorker(
	facturas repository.FacturaRepository,
	empresas repository.EmpresaRepository,
	mailer FacturaMailer,
	cb *infra.CircuitBreaker,
	pdfDir string,
) *EmailWorker {
	return &EmailWorker{facturas: facturas, empresas: empresas, mailer: mailer, cb: cb, pdfDir: pdfDir}
}

func (w *EmailWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var p dto.EnvioFacturaPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return Permanent(fmt.Errorf("email_worker: payload invalido: %w", err))
	}
	if p.Destinatario == "" {
		return Permanent(errors.New("email_worker: destinatario vacio"))
	}

	f, err := w.facturas.FindByID(ctx, p.FacturaID, p.UsuarioID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return Permanent(fmt.Errorf("email_worker: factura %d: %w", p.FacturaID, err))
		}
		return err
	}
	empresa, err := w.empresas.FindByUsuario(ctx, p.UsuarioID)
	if err != nil && !errors.Is(err, errs.ErrNotFound) {
		return err
	}

	pdf, err := infra.GenerateFacturaPDF(f, empresa)
	if err != nil {
		return Permanent(err)
	}
	filename := f.Numero + ".pdf"
	if w.pdfDir != "" {
		if _, err := infra.GuardarPDF(w.pdfDir, filename, pdf); err != nil {
			log.Warn().Err(err).Str("numero", f.Numero).Msg("email_worker: no se pudo archivar el PDF")
		}
	}

	emisor := "nosotros"
	if empresa != nil {
		emisor = empresa.Nombre
	}
	subject := fmt.Sprintf("Factura %s", f.Numero)
	body := fmt.Sprintf("Adjuntamos la factura %s por un total de %s.\n\nGracias por confiar en %s.",
		f.Numero, infra.FormatEuros(f.Total), emisor)

	err = w.cb.Execute(func() error {
		return w.mailer.SendFactura(p.Destinatario, subject, body, filename, pdf)
	})
	if err != nil {
		return fmt.Errorf("email_worker: envio a %s: %w", p.Destinatario, err)
	}
	log.Info().Str("to", p.Destinatario).Str("numero", f.Numero).Msg("email_worker: factura enviada")
	return nil
}
