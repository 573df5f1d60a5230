package report

import (
	"bufio"
	"io"
	"strings"
	"time"

	"mr3x-notificacoes/internal/domain"
	"mr3x-notificacoes/internal/pkg/i18n"
)

const csvBOM = "\ufeff"

var Columns = []string{
	"Token",
	"Credor",
	"CPF/CNPJ Credor",
	"Devedor",
	"CPF/CNPJ Devedor",
	"Valor",
	"Data Vencimento",
	"Status",
	"Data Emissão",
	"Data Aceite",
	"IP Aceite",
	"Hash Aceite",
	"Endereço Imóvel",
	"Descrição",
}

func StatusLabel(n *domain.Notice) string {
	return i18n.T("status." + string(n.DerivedStatus()))
}

// Row renders one notice in column order with raw, unformatted values.
func Row(n *domain.Notice) []string {
	acceptedAt := ""
	if n.AcceptedAt != nil {
		acceptedAt = n.AcceptedAt.Format(time.RFC3339)
	}
	return []string{
		n.Token,
		n.CreditorName,
		n.CreditorDocument,
		n.DebtorName,
		n.DebtorDocument,
		n.DebtAmount.StringFixed(2),
		n.DueDate.Format(domain.DateLayout),
		StatusLabel(n),
		n.CreatedAt.Format(time.RFC3339),
		acceptedAt,
		deref(n.AcceptanceIP),
		deref(n.AcceptanceHash),
		n.PropertyAddress,
		n.DebtDescription,
	}
}

// WriteCSV writes a BOM-prefixed, semicolon separated file in which every
// field is quoted, so spreadsheet tools open it as UTF-8.
func WriteCSV(w io.Writer, records []domain.Notice) error {
	bw := bufio.NewWriter(w)

	if _, err := bw.WriteString(csvBOM); err != nil {
		return err
	}
	if _, err := bw.WriteString(strings.Join(Columns, ";")); err != nil {
		return err
	}

	for i := range records {
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
		for j, field := range Row(&records[i]) {
			if j > 0 {
				if err := bw.WriteByte(';'); err != nil {
					return err
				}
			}
			if _, err := bw.WriteString(quote(field)); err != nil {
				return err
			}
		}
	}

	return bw.Flush()
}

func quote(field string) string {
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
