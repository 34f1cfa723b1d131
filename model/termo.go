package model

import (
	"time"
)

// TermoConfirmacao is a confirmation-term record tied to a contract.
// Plain CRUD entity, not involved in derivation logic.
type TermoConfirmacao struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	NumeroTC            string     `gorm:"not null" json:"numero_tc"`
	ContratoAssociadoPD string     `json:"contrato_associado_pd"`
	NumeroProcesso      string     `json:"numero_processo"`
	DataInicioVigencia  *time.Time `gorm:"type:date" json:"data_inicio_vigencia"`
	DataFimVigencia     *time.Time `gorm:"type:date" json:"data_fim_vigencia"`
	ValorTotal          float64    `gorm:"default:0" json:"valor_total"`
	Objeto              string     `json:"objeto"`
	AreaDemandante      string     `json:"area_demandante"`
	FiscalContrato      string     `json:"fiscal_contrato"`
	GestorContrato      string     `json:"gestor_contrato"`
	CreatedBy           string     `json:"created_by"`
}

func (TermoConfirmacao) TableName() string {
	return "termos_confirmacao"
}
