package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/samukadias/contract-management-system/model"
)

// csvColumns is the canonical column set for contract import/export,
// matching the persisted schema field names.
var csvColumns = []string{
	"cliente",
	"grupo_cliente",
	"contrato",
	"termo",
	"analista_responsavel",
	"secao_responsavel",
	"status",
	"tipo_tratativa",
	"tipo_aditamento",
	"etapa",
	"objeto",
	"observacao",
	"data_inicio_efetividade",
	"data_fim_efetividade",
	"data_limite_andamento",
	"valor_contrato",
	"valor_faturado",
	"valor_cancelado",
	"valor_a_faturar",
	"valor_novo_contrato",
	"numero_processo_sei_nosso",
	"numero_processo_sei_cliente",
	"contrato_cliente",
	"contrato_anterior",
	"numero_pnpp_crm",
	"sei",
	"contrato_novo",
	"termo_novo",
	"esp",
	"created_by",
}

const csvDateLayout = "2006-01-02"

// utf8BOM makes exported files open cleanly in Excel
const utf8BOM = "\xef\xbb\xbf"

// ImportResult reports the outcome of a CSV import
type ImportResult struct {
	Contracts []model.Contract `json:"-"`
	Total     int              `json:"total"`
	Accepted  int              `json:"accepted"`
	Skipped   int              `json:"skipped"`
}

// ExportContractsCSV writes the contracts as CSV, BOM and header
// included, in the canonical column order.
func ExportContractsCSV(w io.Writer, contracts []model.Contract) error {
	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return fmt.Errorf("failed to write BOM: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvColumns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, c := range contracts {
		record := []string{
			c.Cliente,
			c.GrupoCliente,
			c.Contrato,
			c.Termo,
			c.AnalistaResponsavel,
			c.SecaoResponsavel,
			c.Status,
			c.TipoTratativa,
			c.TipoAditamento,
			c.Etapa,
			c.Objeto,
			c.Observacao,
			formatDate(c.DataInicioEfetividade),
			formatDate(c.DataFimEfetividade),
			formatDate(c.DataLimiteAndamento),
			formatAmount(c.ValorContrato),
			formatAmount(c.ValorFaturado),
			formatAmount(c.ValorCancelado),
			formatAmount(c.ValorAFaturar),
			formatAmount(c.ValorNovoContrato),
			c.NumeroProcessoSEINosso,
			c.NumeroProcessoSEICliente,
			c.ContratoCliente,
			c.ContratoAnterior,
			c.NumeroPNPPCRM,
			c.SEI,
			c.ContratoNovo,
			c.TermoNovo,
			c.ESP,
			c.CreatedBy,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// TemplateCSV returns the import template: header row only
func TemplateCSV() string {
	return utf8BOM + strings.Join(csvColumns, ",") + "\n"
}

// ParseContractsCSV reads a contract CSV and coerces each row into a
// contract record. Numeric fields tolerate currency symbols and the
// Brazilian comma decimal separator; unparseable amounts become 0.
// Dates accept ISO (2006-01-02) and DD/MM/YYYY; unparseable dates
// become null. Rows missing cliente, contrato or analista_responsavel
// are skipped, never rejected wholesale.
func ParseContractsCSV(r io.Reader) (*ImportResult, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty file")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimPrefix(name, utf8BOM)
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}

	field := func(record []string, name string) string {
		i, ok := index[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	result := &ImportResult{}
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record: %w", err)
		}

		result.Total++

		c := model.Contract{
			Cliente:             field(record, "cliente"),
			GrupoCliente:        field(record, "grupo_cliente"),
			Contrato:            field(record, "contrato"),
			Termo:               field(record, "termo"),
			AnalistaResponsavel: field(record, "analista_responsavel"),
			SecaoResponsavel:    field(record, "secao_responsavel"),
			Status:              field(record, "status"),
			TipoTratativa:       field(record, "tipo_tratativa"),
			TipoAditamento:      field(record, "tipo_aditamento"),
			Etapa:               field(record, "etapa"),
			Objeto:              field(record, "objeto"),
			Observacao:          field(record, "observacao"),

			DataInicioEfetividade: parseDate(field(record, "data_inicio_efetividade")),
			DataFimEfetividade:    parseDate(field(record, "data_fim_efetividade")),
			DataLimiteAndamento:   parseDate(field(record, "data_limite_andamento")),

			ValorContrato:     parseAmount(field(record, "valor_contrato")),
			ValorFaturado:     parseAmount(field(record, "valor_faturado")),
			ValorCancelado:    parseAmount(field(record, "valor_cancelado")),
			ValorAFaturar:     parseAmount(field(record, "valor_a_faturar")),
			ValorNovoContrato: parseAmount(field(record, "valor_novo_contrato")),

			NumeroProcessoSEINosso:   field(record, "numero_processo_sei_nosso"),
			NumeroProcessoSEICliente: field(record, "numero_processo_sei_cliente"),
			ContratoCliente:          field(record, "contrato_cliente"),
			ContratoAnterior:         field(record, "contrato_anterior"),
			NumeroPNPPCRM:            field(record, "numero_pnpp_crm"),
			SEI:                      field(record, "sei"),
			ContratoNovo:             field(record, "contrato_novo"),
			TermoNovo:                field(record, "termo_novo"),
			ESP:                      field(record, "esp"),
			CreatedBy:                field(record, "created_by"),
		}

		if c.Cliente == "" || c.Contrato == "" || c.AnalistaResponsavel == "" {
			result.Skipped++
			continue
		}

		result.Contracts = append(result.Contracts, c)
		result.Accepted++
	}

	return result, nil
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(csvDateLayout)
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// parseAmount coerces a currency string to a float. Currency symbols
// and thousand separators are stripped; a comma decimal separator is
// normalized. Anything unparseable coerces to 0, never an error.
func parseAmount(s string) float64 {
	if s == "" {
		return 0
	}

	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' || r == '.' || r == ',' || r == '-' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()

	if strings.Contains(cleaned, ",") {
		// Brazilian format: dots are thousand separators, comma is decimal
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	}

	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return v
}

// parseDate accepts ISO dates, RFC3339 timestamps and the Brazilian
// DD/MM/YYYY (or DD-MM-YYYY) format. Returns nil when unparseable.
func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}

	for _, layout := range []string{csvDateLayout, time.RFC3339, "02/01/2006", "02-01-2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			return &t
		}
	}
	return nil
}
