package analytics

import (
	"github.com/samukadias/contract-management-system/model"
)

// stageWindow maps a day range to its workflow stage. A window applies
// when daysUntilExpiry > Floor and no earlier window matched, so each
// table reads as contiguous, strictly decreasing ranges. Days at or
// below zero fall through to the terminal stage.
type stageWindow struct {
	Floor int
	Stage string
}

var prorrogacaoStages = []stageWindow{
	{120, "0. Sem Status (<120)"},
	{90, "1. Abordagem do Cliente (120 a 90)"},
	{87, "2. Abertura de Demanda (PNPP/CRM) (90 a 87)"},
	{80, "3. Elaboração do Kit Proposta (87 a 80)"},
	{75, "4. Assinatura da ESP / Solicitação de Alçada / Entrega da Proposta ao Cliente (80 a 75)"},
	{60, "5. Aguardando \"De Acordo\" do Cliente (75 a 60)"},
	{30, "6. Aguardo Recebimento da Minuta Contratual do Cliente (60 a 30)"},
	{15, "7. Análise Jurídica da Prodesp da Minuta do Cliente (30 a 15)"},
	{5, "8. Solicitação de Atualização da Minuta Contratual (15 a 5)"},
	{3, "9. Assinatura do Contrato (5 a 3)"},
	{2, "10. Cadastro no ERP (3 a 2)"},
	{0, "11. Reunião de Kickoff (2 a 0)"},
}

const prorrogacaoFinalStage = "12. Finalizado (0)"

var renovacaoStages = []stageWindow{
	{190, "0. Sem Status (<190)"},
	{180, "1. Notificação a equipe de vendas (190 a 180)"},
	{120, "2. Abordagem do Cliente e Retorno para COCR (Renovação ou Prorrogação)(180 a 120)"},
	{90, "3. Tratativas comerciais (120 a 90)"},
	{87, "4. Recebimento do TR / Abertura de Demanda (PNPP/CRM) (90 a 87)"},
	{80, "5. Elaboração do Kit Proposta (87 a 80)"},
	{75, "6. Assinatura da ESP / Solicitação de Alçada / Entrega da Proposta ao Cliente (80 a 75)"},
	{65, "7. Aguardando \"De Acordo\" do Cliente (75 a 65)"},
	{60, "8. Aguardando o \"De Acordo\" do TR do Cliente pelo Delivery (65 a 60)"},
	{30, "9. Aguardo Recebimento da Minuta Contratual do Cliente (60 a 30)"},
	{15, "10. Análise Jurídica da Prodesp da Minuta do Cliente (30 a 15)"},
	{5, "11. Solicitação de Atualização da Minuta Contratual (15 a 5)"},
	{3, "12. Assinatura do Contrato (5 a 3)"},
	{2, "13. Cadastro no ERP (3 a 2)"},
	{0, "14. Reunião de Kickoff (2 a 0)"},
}

const renovacaoFinalStage = "15. Finalizado (0)"

// HasStageTable reports whether a negotiation type has an expected-stage
// progression. Only prorrogação and renovação do; for every other type
// conformance is not applicable.
func HasStageTable(tipoTratativa string) bool {
	return tipoTratativa == model.TratativaProrrogacao ||
		tipoTratativa == model.TratativaRenovacao
}

// StageOptions returns the ordered stage labels for a negotiation type,
// or nil when the type has no stage progression. Used to validate the
// etapa recorded on a contract.
func StageOptions(tipoTratativa string) []string {
	var windows []stageWindow
	var final string
	switch tipoTratativa {
	case model.TratativaProrrogacao:
		windows, final = prorrogacaoStages, prorrogacaoFinalStage
	case model.TratativaRenovacao:
		windows, final = renovacaoStages, renovacaoFinalStage
	default:
		return nil
	}

	options := make([]string, 0, len(windows)+1)
	for _, w := range windows {
		options = append(options, w.Stage)
	}
	return append(options, final)
}

// ValidStage reports whether etapa is a known stage for the negotiation
// type. The empty etapa is always accepted.
func ValidStage(tipoTratativa, etapa string) bool {
	if etapa == "" {
		return true
	}
	for _, s := range StageOptions(tipoTratativa) {
		if s == etapa {
			return true
		}
	}
	return false
}

// ExpectedStage returns the stage a contract should be at given its
// negotiation type and days until expiry. The second return is false
// when no expectation is computable: unknown negotiation type or no end
// date.
func ExpectedStage(tipoTratativa string, days *int) (string, bool) {
	if days == nil {
		return "", false
	}

	var windows []stageWindow
	var final string
	switch tipoTratativa {
	case model.TratativaProrrogacao:
		windows, final = prorrogacaoStages, prorrogacaoFinalStage
	case model.TratativaRenovacao:
		windows, final = renovacaoStages, renovacaoFinalStage
	default:
		return "", false
	}

	for _, w := range windows {
		if *days > w.Floor {
			return w.Stage, true
		}
	}
	return final, true
}

// StageConformance compares the recorded etapa against the expected
// stage. onTime is nil when no expectation is computable, true/false
// otherwise (exact string match).
func StageConformance(c model.Contract, days *int) (expected string, onTime *bool) {
	expected, ok := ExpectedStage(c.TipoTratativa, days)
	if !ok {
		return "", nil
	}
	match := c.Etapa == expected
	return expected, &match
}
