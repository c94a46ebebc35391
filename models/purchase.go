package models

import "math/big"

// Purchase attempt states
const (
	AttemptAwaitingCompliance = "AWAITING_COMPLIANCE"
	AttemptEventCreation      = "EVENT_CREATION"
	AttemptMinting            = "MINTING"
	AttemptRecording          = "RECORDING"
	AttemptDone               = "DONE"
	AttemptError              = "ERROR"
)

// PurchaseAttempt tracks one run of the purchase orchestrator. Transaction
// hashes are kept even on failure since gas may already have been spent.
type PurchaseAttempt struct {
	ID            string     `json:"id"`
	State         string     `json:"state"`
	EventID       *big.Int   `json:"event_id,omitempty"`
	EventTxHash   string     `json:"event_tx_hash,omitempty"`
	MintTxHash    string     `json:"mint_tx_hash,omitempty"`
	TokenIDs      []*big.Int `json:"token_ids,omitempty"`
	TokenURIs     []string   `json:"token_uris,omitempty"`
	UsedFallback  bool       `json:"used_fallback,omitempty"`
	Error         string     `json:"error,omitempty"`
	StartedAt     int64      `json:"started_at"`
}

// EventInput describes the event a purchase targets. Template events do not
// yet exist at the contract level and require an event-creation transaction
// before minting.
type EventInput struct {
	EventID      int64  `json:"event_id"`
	Template     bool   `json:"template"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	EventDate    int64  `json:"event_date"`
	Location     string `json:"location"`
	TotalTickets int64  `json:"total_tickets"`
	MetadataURI  string `json:"metadata_uri"`
}

// PurchaseRequest is the body of the single write entry point.
type PurchaseRequest struct {
	Buyer          string            `json:"buyer" binding:"required"`
	Event          EventInput        `json:"event" binding:"required"`
	Quantity       int               `json:"quantity" binding:"required"`
	TicketType     string            `json:"ticket_type"`
	PriceWei       string            `json:"price_wei" binding:"required"`
	Benefits       []string          `json:"benefits"`
	IsTransferable bool              `json:"is_transferable"`
	BaseTokenURI   string            `json:"base_token_uri" binding:"required"`
	Compliance     CompliancePayload `json:"compliance"`
}
