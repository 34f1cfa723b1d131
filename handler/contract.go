package handler

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samukadias/contract-management-system/analytics"
	"github.com/samukadias/contract-management-system/middleware"
	"github.com/samukadias/contract-management-system/model"
	"github.com/samukadias/contract-management-system/pkg/logger"
	"github.com/samukadias/contract-management-system/service"
)

// ContractHandler serves the contract portfolio. Every read is enriched
// with the derived expiry and stage fields; CLIENTE accounts only ever
// see their own client's records.
type ContractHandler struct {
	store   *service.ContractStore
	storage *service.ObjectStorage // nil when archiving is disabled
}

func NewContractHandler(store *service.ContractStore, storage *service.ObjectStorage) *ContractHandler {
	return &ContractHandler{
		store:   store,
		storage: storage,
	}
}

// scopedList returns the contracts visible to the requesting user
func (h *ContractHandler) scopedList(c *gin.Context) ([]model.Contract, error) {
	if middleware.GetPerfil(c) == model.PerfilCliente {
		return h.store.ListByCliente(c.Request.Context(), middleware.GetNomeCliente(c))
	}
	return h.store.List(c.Request.Context())
}

func (h *ContractHandler) visible(c *gin.Context, contract *model.Contract) bool {
	if middleware.GetPerfil(c) != model.PerfilCliente {
		return true
	}
	return contract.Cliente == middleware.GetNomeCliente(c)
}

// List returns the visible contracts with derived fields, optionally
// filtered by status, analista, vencimento bucket or a free-text search
// over cliente, contrato, analista and objeto.
func (h *ContractHandler) List(c *gin.Context) {
	contracts, err := h.scopedList(c)
	if err != nil {
		logger.Error(c.Request.Context(), "failed to list contracts", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list contracts"})
		return
	}

	if status := c.Query("status"); status != "" {
		filtered := contracts[:0]
		for _, ct := range contracts {
			if ct.Status == status {
				filtered = append(filtered, ct)
			}
		}
		contracts = filtered
	}

	if analista := c.Query("analista"); analista != "" {
		filtered := contracts[:0]
		for _, ct := range contracts {
			if ct.AnalistaResponsavel == analista {
				filtered = append(filtered, ct)
			}
		}
		contracts = filtered
	}

	if search := strings.ToLower(c.Query("search")); search != "" {
		filtered := contracts[:0]
		for _, ct := range contracts {
			haystack := strings.ToLower(strings.Join([]string{
				ct.Cliente, ct.Contrato, ct.AnalistaResponsavel, ct.Objeto,
			}, " "))
			if strings.Contains(haystack, search) {
				filtered = append(filtered, ct)
			}
		}
		contracts = filtered
	}

	enriched := analytics.EnrichAll(contracts, time.Now())

	if bucket := c.Query("vencimento"); bucket != "" {
		filtered := enriched[:0]
		for _, e := range enriched {
			if e.StatusVencimento == bucket {
				filtered = append(filtered, e)
			}
		}
		enriched = filtered
	}

	c.JSON(http.StatusOK, gin.H{
		"contracts": enriched,
		"total":     len(enriched),
	})
}

// Get returns a single contract with derived fields
func (h *ContractHandler) Get(c *gin.Context) {
	contract, err := h.store.Get(c.Request.Context(), c.Param("id"))
	if errors.Is(err, service.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Contract not found"})
		return
	}
	if err != nil {
		logger.Error(c.Request.Context(), "failed to get contract", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get contract"})
		return
	}
	if !h.visible(c, contract) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Contract not found"})
		return
	}

	c.JSON(http.StatusOK, analytics.Enrich(*contract, time.Now()))
}

// validateContract checks the closed-set fields and normalizes the
// aditamento type, which only makes sense on ADITAMENTO negotiations
func validateContract(contract *model.Contract) error {
	if contract.Status != "" && !model.ValidStatus(contract.Status) {
		return fmt.Errorf("invalid status '%s'", contract.Status)
	}
	if contract.TipoTratativa != "" && !model.ValidTratativa(contract.TipoTratativa) {
		return fmt.Errorf("invalid tipo_tratativa '%s'", contract.TipoTratativa)
	}
	if contract.TipoTratativa != model.TratativaAditamento {
		contract.TipoAditamento = ""
	}
	if !analytics.ValidStage(contract.TipoTratativa, contract.Etapa) {
		return fmt.Errorf("invalid etapa '%s' for tipo_tratativa '%s'", contract.Etapa, contract.TipoTratativa)
	}
	return nil
}

// Create registers a new contract
func (h *ContractHandler) Create(c *gin.Context) {
	var contract model.Contract
	if err := c.ShouldBindJSON(&contract); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if contract.Cliente == "" || contract.Contrato == "" || contract.AnalistaResponsavel == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cliente, contrato and analista_responsavel are required"})
		return
	}
	if err := validateContract(&contract); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	contract.ID = ""
	contract.CreatedBy = middleware.GetEmail(c)

	if err := h.store.Create(c.Request.Context(), &contract); err != nil {
		logger.Error(c.Request.Context(), "failed to create contract", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create contract"})
		return
	}

	logger.Info(c.Request.Context(), "contract created",
		"id", contract.ID, "cliente", contract.Cliente, "contrato", contract.Contrato)

	c.JSON(http.StatusCreated, analytics.Enrich(contract, time.Now()))
}

// UpdateContractRequest lists the fields that stay editable after
// creation: the negotiation workflow, financial amounts, references to
// the successor contract and free text. Descriptive identity fields
// (cliente, contrato, termo, analista, objeto, SEI process numbers) and
// the effectivity dates are fixed once the record exists, since the
// expiry and conformance derivations hang off them. Pointer fields
// distinguish "absent" from "set to zero".
type UpdateContractRequest struct {
	SecaoResponsavel *string `json:"secao_responsavel"`
	Observacao       *string `json:"observacao"`

	TipoTratativa  *string `json:"tipo_tratativa"`
	TipoAditamento *string `json:"tipo_aditamento"`
	Etapa          *string `json:"etapa"`

	ValorContrato     *float64 `json:"valor_contrato"`
	ValorFaturado     *float64 `json:"valor_faturado"`
	ValorCancelado    *float64 `json:"valor_cancelado"`
	ValorAFaturar     *float64 `json:"valor_a_faturar"`
	ValorNovoContrato *float64 `json:"valor_novo_contrato"`

	NumeroPNPPCRM    *string `json:"numero_pnpp_crm"`
	SEI              *string `json:"sei"`
	ContratoCliente  *string `json:"contrato_cliente"`
	ContratoAnterior *string `json:"contrato_anterior"`
	ContratoNovo     *string `json:"contrato_novo"`
	TermoNovo        *string `json:"termo_novo"`
	ESP              *string `json:"esp"`
}

func (req *UpdateContractRequest) apply(contract *model.Contract) {
	setStr := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	setStr(&contract.SecaoResponsavel, req.SecaoResponsavel)
	setStr(&contract.Observacao, req.Observacao)
	setStr(&contract.TipoTratativa, req.TipoTratativa)
	setStr(&contract.TipoAditamento, req.TipoAditamento)
	setStr(&contract.Etapa, req.Etapa)
	setStr(&contract.NumeroPNPPCRM, req.NumeroPNPPCRM)
	setStr(&contract.SEI, req.SEI)
	setStr(&contract.ContratoCliente, req.ContratoCliente)
	setStr(&contract.ContratoAnterior, req.ContratoAnterior)
	setStr(&contract.ContratoNovo, req.ContratoNovo)
	setStr(&contract.TermoNovo, req.TermoNovo)
	setStr(&contract.ESP, req.ESP)

	setF := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}
	setF(&contract.ValorContrato, req.ValorContrato)
	setF(&contract.ValorFaturado, req.ValorFaturado)
	setF(&contract.ValorCancelado, req.ValorCancelado)
	setF(&contract.ValorAFaturar, req.ValorAFaturar)
	setF(&contract.ValorNovoContrato, req.ValorNovoContrato)
}

// Update changes the editable fields of a contract
func (h *ContractHandler) Update(c *gin.Context) {
	contract, err := h.store.Get(c.Request.Context(), c.Param("id"))
	if errors.Is(err, service.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Contract not found"})
		return
	}
	if err != nil {
		logger.Error(c.Request.Context(), "failed to get contract", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get contract"})
		return
	}

	var req UpdateContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	req.apply(contract)
	if err := validateContract(contract); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.store.Update(c.Request.Context(), contract); err != nil {
		logger.Error(c.Request.Context(), "failed to update contract", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update contract"})
		return
	}

	c.JSON(http.StatusOK, analytics.Enrich(*contract, time.Now()))
}

// Delete removes a contract
func (h *ContractHandler) Delete(c *gin.Context) {
	err := h.store.Delete(c.Request.Context(), c.Param("id"))
	if errors.Is(err, service.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Contract not found"})
		return
	}
	if err != nil {
		logger.Error(c.Request.Context(), "failed to delete contract", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete contract"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Contract deleted"})
}

// StageOptions returns the valid etapa values for a negotiation type
func (h *ContractHandler) StageOptions(c *gin.Context) {
	tipo := c.Query("tipo_tratativa")
	options := analytics.StageOptions(tipo)
	if options == nil {
		c.JSON(http.StatusOK, gin.H{"tipo_tratativa": tipo, "stages": []string{}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"tipo_tratativa": tipo, "stages": options})
}

// Import bulk-loads contracts from an uploaded CSV file. Rows missing
// required fields are skipped and counted, never fail the whole upload.
func (h *ContractHandler) Import(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	}
	defer file.Close()

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".csv") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only CSV files are allowed"})
		return
	}

	var raw bytes.Buffer
	result, err := service.ParseContractsCSV(io.TeeReader(file, &raw))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to parse CSV: " + err.Error()})
		return
	}

	createdBy := middleware.GetEmail(c)
	for i := range result.Contracts {
		result.Contracts[i].CreatedBy = createdBy
	}

	inserted, err := h.store.BulkCreate(c.Request.Context(), result.Contracts)
	if err != nil {
		logger.Error(c.Request.Context(), "failed to import contracts", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to import contracts"})
		return
	}

	// Keep the source file for audit when archiving is configured
	if h.storage != nil {
		objectName := service.ImportObjectName(header.Filename, time.Now())
		if err := h.storage.ArchiveCSV(c.Request.Context(), objectName, &raw, int64(raw.Len())); err != nil {
			logger.Warn(c.Request.Context(), "failed to archive import file",
				"error", err, "object", objectName)
		}
	}

	logger.Info(c.Request.Context(), "contracts imported",
		"total", result.Total, "accepted", inserted, "skipped", result.Skipped)

	c.JSON(http.StatusOK, gin.H{
		"total":    result.Total,
		"accepted": inserted,
		"skipped":  result.Skipped,
	})
}

// Export streams the visible contracts as a CSV attachment
func (h *ContractHandler) Export(c *gin.Context) {
	contracts, err := h.scopedList(c)
	if err != nil {
		logger.Error(c.Request.Context(), "failed to export contracts", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export contracts"})
		return
	}

	var buf bytes.Buffer
	if err := service.ExportContractsCSV(&buf, contracts); err != nil {
		logger.Error(c.Request.Context(), "failed to render CSV", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export contracts"})
		return
	}

	if h.storage != nil {
		objectName := service.ExportObjectName(time.Now())
		snapshot := bytes.NewReader(buf.Bytes())
		if err := h.storage.ArchiveCSV(c.Request.Context(), objectName, snapshot, int64(buf.Len())); err != nil {
			logger.Warn(c.Request.Context(), "failed to archive export snapshot",
				"error", err, "object", objectName)
		}
	}

	filename := fmt.Sprintf("contratos_%s.csv", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// Template returns the import template header
func (h *ContractHandler) Template(c *gin.Context) {
	c.Header("Content-Disposition", `attachment; filename="modelo_importacao.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(service.TemplateCSV()))
}
