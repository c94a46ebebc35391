package chain

import (
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/Vaios0x/TickMini-sub000/models"
)

// Ledger is the in-memory append-only store of tickets minted during the
// current session. It papers over the window between a mint confirming and
// the scanner being able to see it. Entries never expire; they are
// superseded in merge output once the same token id arrives on-chain
// confirmed.
//
// Handlers run on per-request goroutines, so unlike a single event loop the
// ledger needs a lock around its map.
type Ledger struct {
	mu      sync.RWMutex
	order   []string
	entries map[string]*models.TicketRecord
}

func NewLedger() *Ledger {
	return &Ledger{entries: make(map[string]*models.TicketRecord)}
}

// Insert records one minted ticket for its buyer. Idempotent by token id:
// re-inserting a token already present is a no-op, which guards against
// double-adding when a batch mint result is applied in a loop.
func (l *Ledger) Insert(tokenID, eventID, priceWei *big.Int, owner common.Address, txHash string, display models.EventDisplay) {
	if tokenID == nil {
		return
	}
	key := tokenID.String()

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.entries[key]; exists {
		return
	}

	record := &models.TicketRecord{
		TokenID:           new(big.Int).Set(tokenID),
		EventID:           eventID,
		TicketType:        display.TicketType,
		PriceWei:          priceWei,
		PurchaseTimestamp: time.Now().Unix(),
		Benefits:          display.Benefits,
		IsTransferable:    display.IsTransferable,
		Owner:             owner.Hex(),
		IsValid:           true,
		TokenURI:          display.TokenURI,
		Origin:            models.OriginLocalOptimistic,
		TransactionHash:   txHash,
		Event: &models.EventRecord{
			EventID:     eventID,
			Name:        display.Name,
			Description: display.Description,
			EventDate:   display.EventDate,
			Location:    display.Location,
		},
	}

	l.entries[key] = record
	l.order = append(l.order, key)
}

// All returns the ledger entries in insertion order.
func (l *Ledger) All() []*models.TicketRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()

	records := make([]*models.TicketRecord, 0, len(l.order))
	for _, key := range l.order {
		records = append(records, l.entries[key])
	}
	return records
}

// ForOwner returns the entries bought by one address, in insertion order.
// The ledger holds every buyer's optimistic purchases; a wallet's merged
// view must only ever see its own.
func (l *Ledger) ForOwner(owner common.Address) []*models.TicketRecord {
	hex := owner.Hex()

	l.mu.RLock()
	defer l.mu.RUnlock()

	var records []*models.TicketRecord
	for _, key := range l.order {
		if record := l.entries[key]; record.Owner == hex {
			records = append(records, record)
		}
	}
	return records
}

// Size returns the number of entries.
func (l *Ledger) Size() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}
