package handler

import (
	"strconv"
	"time"

	"digital-wallet-backend/internal/adapter/http/dto"
	"digital-wallet-backend/internal/core/domain"
	"digital-wallet-backend/internal/core/ports"
	"digital-wallet-backend/pkg/apperror"
	"digital-wallet-backend/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TransferHandler handles transfer and transaction endpoints.
type TransferHandler struct {
	transferSvc  ports.TransferService
	reportingSvc ports.ReportingService
}

// NewTransferHandler creates a new TransferHandler.
func NewTransferHandler(transferSvc ports.TransferService, reportingSvc ports.ReportingService) *TransferHandler {
	return &TransferHandler{transferSvc: transferSvc, reportingSvc: reportingSvc}
}

// Validate handles POST /api/v1/transfers/validate.
func (h *TransferHandler) Validate(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.ValidateTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	senderID, err := uuid.Parse(req.SenderAccountID)
	if err != nil {
		response.Error(c, apperror.Validation("invalid sender_account_id"))
		return
	}
	var recipientID *uuid.UUID
	if req.RecipientAccountID != nil {
		id, err := uuid.Parse(*req.RecipientAccountID)
		if err != nil {
			response.Error(c, apperror.Validation("invalid recipient_account_id"))
			return
		}
		recipientID = &id
	}
	var beneficiary *domain.BeneficiaryDetails
	if req.Beneficiary != nil {
		beneficiary = &domain.BeneficiaryDetails{
			AccountNumber: req.Beneficiary.AccountNumber,
			BankCode:      req.Beneficiary.BankCode,
			AccountName:   req.Beneficiary.AccountName,
		}
	}

	result, err := h.transferSvc.Validate(c.Request.Context(), ports.ValidateTransferRequest{
		UserID:             userID,
		Type:               domain.TransferType(req.Type),
		Amount:             req.Amount,
		SenderAccountID:    senderID,
		RecipientAccountID: recipientID,
		Beneficiary:        beneficiary,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.ValidateTransferResponse{
		ValidationCode: result.ValidationCode,
		Fee:            result.Fee,
		ExpiresIn:      int64(result.ExpiresIn.Seconds()),
	})
}

// Transfer handles POST /api/v1/transfers.
func (h *TransferHandler) Transfer(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	entry, err := h.transferSvc.Transfer(c.Request.Context(), ports.TransferRequest{
		UserID:         userID,
		ValidationCode: req.ValidationCode,
		Type:           domain.TransferType(req.Type),
		Amount:         req.Amount,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toLedgerEntryResponse(entry))
}

// Verify handles POST /api/v1/transfers/:reference/verify.
func (h *TransferHandler) Verify(c *gin.Context) {
	if _, ok := callerID(c); !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	entry, err := h.transferSvc.Verify(c.Request.Context(), c.Param("reference"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toLedgerEntryResponse(entry))
}

// ListTransactions handles GET /api/v1/transactions.
func (h *TransferHandler) ListTransactions(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	params := ports.LedgerListParams{
		UserID:   &userID,
		Page:     page,
		PageSize: pageSize,
	}
	if s := c.Query("status"); s != "" {
		status := domain.EntryStatus(s)
		params.Status = &status
	}
	if et := c.Query("type"); et != "" {
		entryType := domain.EntryType(et)
		params.Type = &entryType
	}
	if a := c.Query("account_id"); a != "" {
		accountID, err := uuid.Parse(a)
		if err != nil {
			response.Error(c, apperror.Validation("invalid account_id"))
			return
		}
		params.AccountID = &accountID
	}

	entries, total, err := h.reportingSvc.ListEntries(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.LedgerEntryResponse, 0, len(entries))
	for i := range entries {
		items = append(items, toLedgerEntryResponse(&entries[i]))
	}

	totalPages := int(total) / pageSize
	if int(total)%pageSize != 0 {
		totalPages++
	}
	response.OK(c, dto.LedgerListResponse{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	})
}

func toLedgerEntryResponse(e *domain.LedgerEntry) dto.LedgerEntryResponse {
	resp := dto.LedgerEntryResponse{
		ID:              e.ID.String(),
		Reference:       e.Reference,
		Amount:          e.Amount,
		Fee:             e.Fee,
		PreviousBalance: e.PreviousBalance,
		NewBalance:      e.NewBalance,
		Currency:        e.Currency,
		Status:          string(e.Status),
		EntryType:       string(e.EntryType),
		Description:     e.Description,
		CreatedAt:       e.CreatedAt.Format(time.RFC3339),
	}
	if e.SenderAccountID != nil {
		s := e.SenderAccountID.String()
		resp.SenderAccountID = &s
	}
	if e.ReceiverAccountID != nil {
		s := e.ReceiverAccountID.String()
		resp.ReceiverAccountID = &s
	}
	return resp
}
