package model

import (
	"time"
)

// Contract represents one commercial agreement under management.
// Derived fields (days until expiry, expiry bucket, expected stage) are
// computed by the analytics package and never persisted here.
type Contract struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Cliente             string `gorm:"not null" json:"cliente"`
	GrupoCliente        string `json:"grupo_cliente"`
	Contrato            string `gorm:"not null" json:"contrato"`
	Termo               string `json:"termo"`
	AnalistaResponsavel string `gorm:"not null" json:"analista_responsavel"`
	SecaoResponsavel    string `json:"secao_responsavel"`
	Objeto              string `json:"objeto"`
	Observacao          string `json:"observacao"`

	Status         string `gorm:"default:Ativo" json:"status"`
	TipoTratativa  string `json:"tipo_tratativa"`
	TipoAditamento string `json:"tipo_aditamento"`
	Etapa          string `json:"etapa"`

	DataInicioEfetividade *time.Time `gorm:"type:date" json:"data_inicio_efetividade"`
	DataFimEfetividade    *time.Time `gorm:"type:date" json:"data_fim_efetividade"`
	DataLimiteAndamento   *time.Time `gorm:"type:date" json:"data_limite_andamento"`

	ValorContrato     float64 `gorm:"default:0" json:"valor_contrato"`
	ValorFaturado     float64 `gorm:"default:0" json:"valor_faturado"`
	ValorCancelado    float64 `gorm:"default:0" json:"valor_cancelado"`
	ValorAFaturar     float64 `gorm:"default:0" json:"valor_a_faturar"`
	ValorNovoContrato float64 `gorm:"default:0" json:"valor_novo_contrato"`

	NumeroProcessoSEINosso   string `json:"numero_processo_sei_nosso"`
	NumeroProcessoSEICliente string `json:"numero_processo_sei_cliente"`
	ContratoCliente          string `json:"contrato_cliente"`
	ContratoAnterior         string `json:"contrato_anterior"`
	NumeroPNPPCRM            string `json:"numero_pnpp_crm"`
	SEI                      string `json:"sei"`
	ContratoNovo             string `json:"contrato_novo"`
	TermoNovo                string `json:"termo_novo"`
	ESP                      string `json:"esp"`

	CreatedBy string `json:"created_by"`
}

// TableName keeps the table name aligned with the hosted database schema
func (Contract) TableName() string {
	return "contracts"
}

// Contract status constants
const (
	StatusAtivo     = "Ativo"
	StatusRenovado  = "Renovado"
	StatusEncerrado = "Encerrado"
	StatusExpirado  = "Expirado"
)

// Negotiation type (tipo de tratativa) constants
const (
	TratativaProrrogacao     = "PRORROGAÇÃO"
	TratativaRenovacao       = "RENOVAÇÃO"
	TratativaAditamento      = "ADITAMENTO"
	TratativaCancelamento    = "CANCELAMENTO"
	TratativaSemTratativa    = "SEM TRATATIVA"
	TratativaFinalizada      = "FINALIZADA"
	TratativaDescontinuidade = "DESCONTINUIDADE"
)

// ValidStatus reports whether s is one of the closed status values
func ValidStatus(s string) bool {
	switch s {
	case StatusAtivo, StatusRenovado, StatusEncerrado, StatusExpirado:
		return true
	}
	return false
}

// ValidTratativa reports whether t is one of the closed negotiation types
func ValidTratativa(t string) bool {
	switch t {
	case TratativaProrrogacao, TratativaRenovacao, TratativaAditamento,
		TratativaCancelamento, TratativaSemTratativa, TratativaFinalizada,
		TratativaDescontinuidade:
		return true
	}
	return false
}

// IsActive reports whether the contract counts toward active-only aggregates
func (c *Contract) IsActive() bool {
	return c.Status == StatusAtivo
}
