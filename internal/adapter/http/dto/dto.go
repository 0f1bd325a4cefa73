package dto

import (
	"math"
	"time"

	"fincore/internal/core/domain"
)

// CreateWalletRequest is the request body for opening a wallet.
// OwnerID is admin-only; regular callers always open their own.
type CreateWalletRequest struct {
	OwnerID  *string `json:"owner_id,omitempty" binding:"omitempty,uuid"`
	Currency string  `json:"currency" binding:"required,currency"`
	Purpose  string  `json:"purpose,omitempty" binding:"omitempty,wallet_purpose"`
}

// DepositRequest is the request body for an agent cash-in.
type DepositRequest struct {
	UserID          string  `json:"user_id" binding:"required,uuid"`
	Amount          string  `json:"amount" binding:"required,money"`
	Currency        string  `json:"currency" binding:"required,currency"`
	ClientReference string  `json:"client_reference" binding:"required,max=100,safe_id"`
	Note            *string `json:"note,omitempty" binding:"omitempty,max=255"`
}

// WithdrawRequest is the request body for a user cash-out at an agent.
type WithdrawRequest struct {
	AgentID         string  `json:"agent_id" binding:"required,uuid"`
	Amount          string  `json:"amount" binding:"required,money"`
	Currency        string  `json:"currency" binding:"required,currency"`
	ClientReference string  `json:"client_reference" binding:"required,max=100,safe_id"`
	Note            *string `json:"note,omitempty" binding:"omitempty,max=255"`
}

// TransferInitiateRequest starts an OTP-gated wallet-to-wallet transfer.
type TransferInitiateRequest struct {
	RecipientID     string  `json:"recipient_id" binding:"required,uuid"`
	Amount          string  `json:"amount" binding:"required,money"`
	Currency        string  `json:"currency" binding:"required,currency"`
	ClientReference string  `json:"client_reference" binding:"required,max=100,safe_id"`
	Note            *string `json:"note,omitempty" binding:"omitempty,max=255"`
}

// TransferConfirmRequest submits the OTP code for the caller's pending
// transfer.
type TransferConfirmRequest struct {
	Code string `json:"code" binding:"required,len=6,numeric"`
}

// QRPaymentRequest is the request body for an immediate merchant payment.
type QRPaymentRequest struct {
	MerchantID      string  `json:"merchant_id" binding:"required,uuid"`
	Amount          string  `json:"amount" binding:"required,money"`
	Currency        string  `json:"currency" binding:"required,currency"`
	ClientReference string  `json:"client_reference" binding:"required,max=100,safe_id"`
	Note            *string `json:"note,omitempty" binding:"omitempty,max=255"`
}

// ServicePurchaseRequest is the request body for a merchant service
// purchase; funds park in suspense until the merchant resolves it.
type ServicePurchaseRequest struct {
	MerchantID      string  `json:"merchant_id" binding:"required,uuid"`
	Amount          string  `json:"amount" binding:"required,money"`
	Currency        string  `json:"currency" binding:"required,currency"`
	ClientReference string  `json:"client_reference" binding:"required,max=100,safe_id"`
	Note            *string `json:"note,omitempty" binding:"omitempty,max=255"`
}

// CreditGrantRequest loans e-float to an agent from the system reserve.
type CreditGrantRequest struct {
	AgentID  string  `json:"agent_id" binding:"required,uuid"`
	Amount   string  `json:"amount" binding:"required,money"`
	Currency string  `json:"currency" binding:"required,currency"`
	Note     *string `json:"note,omitempty" binding:"omitempty,max=255"`
}

// SettlementRequest declares agent cash to be returned to the reserve.
type SettlementRequest struct {
	AgentID         string `json:"agent_id" binding:"required,uuid"`
	Amount          string `json:"amount" binding:"required,money"`
	Currency        string `json:"currency" binding:"required,currency"`
	ClientReference string `json:"client_reference" binding:"required,max=100,safe_id"`
}

// ProfitDistributionRequest moves accumulated platform fees into a
// business wallet.
type ProfitDistributionRequest struct {
	MerchantID string  `json:"merchant_id" binding:"required,uuid"`
	Amount     string  `json:"amount" binding:"required,money"`
	Currency   string  `json:"currency" binding:"required,currency"`
	Note       *string `json:"note,omitempty" binding:"omitempty,max=255"`
}

// ReviewAlertRequest records an admin verdict on a pending risk alert.
type ReviewAlertRequest struct {
	Verdict string `json:"verdict" binding:"required,oneof=APPROVED BLOCKED DISMISSED"`
}

// CreateProfileRequest registers a platform participant.
type CreateProfileRequest struct {
	Kind        string `json:"kind" binding:"required,oneof=USER AGENT MERCHANT"`
	DisplayName string `json:"display_name" binding:"required,min=1,max=100"`
}

// SetProfileStatusRequest changes a participant's status.
type SetProfileStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=ACTIVE SUSPENDED CLOSED"`
}

// SetWalletActiveRequest freezes or unfreezes a wallet.
type SetWalletActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// CreateSnapshotRequest captures a balance snapshot for a period bucket.
type CreateSnapshotRequest struct {
	Period string `json:"period" binding:"required,oneof=HOURLY DAILY"`
}

// TransactionResponse is the wire form of a transaction. Monetary
// amounts travel as decimal strings.
type TransactionResponse struct {
	ID                string  `json:"id"`
	ReferenceNumber   string  `json:"reference_number"`
	ClientReference   string  `json:"client_reference"`
	Type              string  `json:"type"`
	Amount            string  `json:"amount"`
	PlatformFee       string  `json:"platform_fee"`
	AgentFee          string  `json:"agent_fee"`
	NetAmount         string  `json:"net_amount"`
	Currency          string  `json:"currency"`
	Status            string  `json:"status"`
	SenderWalletID    *string `json:"sender_wallet_id,omitempty"`
	RecipientWalletID *string `json:"recipient_wallet_id,omitempty"`
	InitiatorID       string  `json:"initiator_id"`
	CounterpartyID    *string `json:"counterparty_id,omitempty"`
	Note              *string `json:"note,omitempty"`
	CreatedAt         string  `json:"created_at"`
	CompletedAt       *string `json:"completed_at,omitempty"`
}

// FromTransaction converts a domain transaction to its wire form.
func FromTransaction(tx *domain.Transaction) TransactionResponse {
	resp := TransactionResponse{
		ID:              tx.ID.String(),
		ReferenceNumber: tx.ReferenceNumber,
		ClientReference: tx.ClientReference,
		Type:            string(tx.Type),
		Amount:          tx.Amount.String(),
		PlatformFee:     tx.PlatformFee.String(),
		AgentFee:        tx.AgentFee.String(),
		NetAmount:       tx.NetAmount.String(),
		Currency:        string(tx.Currency),
		Status:          string(tx.Status),
		InitiatorID:     tx.InitiatorID.String(),
		Note:            tx.Note,
		CreatedAt:       tx.CreatedAt.Format(time.RFC3339),
	}
	if tx.SenderWalletID != nil {
		s := tx.SenderWalletID.String()
		resp.SenderWalletID = &s
	}
	if tx.RecipientWalletID != nil {
		s := tx.RecipientWalletID.String()
		resp.RecipientWalletID = &s
	}
	if tx.CounterpartyID != nil {
		s := tx.CounterpartyID.String()
		resp.CounterpartyID = &s
	}
	if tx.CompletedAt != nil {
		s := tx.CompletedAt.Format(time.RFC3339)
		resp.CompletedAt = &s
	}
	return resp
}

// Paged wraps any paginated list response.
type Paged struct {
	Items      interface{} `json:"items"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	TotalPages int         `json:"total_pages"`
}

// NewPaged assembles a Paged envelope, deriving the page count.
func NewPaged(items interface{}, total int64, page, pageSize int) Paged {
	totalPages := 0
	if pageSize > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(pageSize)))
	}
	return Paged{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}
