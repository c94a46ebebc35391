package models

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Ticket type constants, mirroring the contract's uint8 ticket type codes
const (
	TicketTypeGeneral   = "General"
	TicketTypeVIP       = "VIP"
	TicketTypePremium   = "Premium"
	TicketTypeExecutive = "Executive"
	TicketTypeWorkshop  = "Workshop"
)

// Provenance of a ticket record
const (
	OriginOnChainConfirmed = "ONCHAIN_CONFIRMED"
	OriginLocalOptimistic  = "LOCAL_OPTIMISTIC"
)

var ticketTypeByCode = []string{
	TicketTypeGeneral,
	TicketTypeVIP,
	TicketTypePremium,
	TicketTypeExecutive,
	TicketTypeWorkshop,
}

// TicketTypeFromCode maps the contract's uint8 ticket type to its name.
// Unknown codes map to General rather than failing the whole record.
func TicketTypeFromCode(code uint8) string {
	if int(code) < len(ticketTypeByCode) {
		return ticketTypeByCode[code]
	}
	return TicketTypeGeneral
}

// TicketTypeCode is the inverse mapping, used when packing mint calls.
func TicketTypeCode(name string) uint8 {
	for i, t := range ticketTypeByCode {
		if t == name {
			return uint8(i)
		}
	}
	return 0
}

// Session carries the wallet context injected into every component call
// instead of living in ambient globals.
type Session struct {
	Address common.Address `json:"address"`
	ChainID *big.Int       `json:"chain_id"`
}

// TicketRecord is the canonical unit assembled from on-chain reads or
// inserted optimistically after a mint.
type TicketRecord struct {
	TokenID           *big.Int     `json:"token_id"`
	EventID           *big.Int     `json:"event_id"`
	TicketType        string       `json:"ticket_type"`
	PriceWei          *big.Int     `json:"price_wei"`
	PurchaseTimestamp int64        `json:"purchase_timestamp"`
	Benefits          []string     `json:"benefits"`
	IsTransferable    bool         `json:"is_transferable"`
	Owner             string       `json:"owner"`
	IsValid           bool         `json:"is_valid"`
	TokenURI          string       `json:"token_uri"`
	Origin            string       `json:"origin"`
	TransactionHash   string       `json:"transaction_hash,omitempty"`
	Event             *EventRecord `json:"event,omitempty"`
}

// EventRecord is the denormalized per-ticket event view read through the
// contract. soldTickets <= totalTickets is enforced on-chain, never assumed
// here.
type EventRecord struct {
	EventID      *big.Int `json:"event_id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	EventDate    int64    `json:"event_date"`
	Location     string   `json:"location"`
	Organizer    string   `json:"organizer"`
	TotalTickets *big.Int `json:"total_tickets"`
	SoldTickets  *big.Int `json:"sold_tickets"`
	IsActive     bool     `json:"is_active"`
	MetadataURI  string   `json:"metadata_uri"`
}

// EventDisplay is the display payload the purchase flow hands to the
// optimistic ledger so a just-minted ticket renders before the chain
// confirms it.
type EventDisplay struct {
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	EventDate      int64    `json:"event_date"`
	Location       string   `json:"location"`
	TicketType     string   `json:"ticket_type"`
	Benefits       []string `json:"benefits"`
	IsTransferable bool     `json:"is_transferable"`
	TokenURI       string   `json:"token_uri"`
}
