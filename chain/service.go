package chain

import (
	"context"
	"fmt"
	"sync"

	"github.com/Vaios0x/TickMini-sub000/logger"
	"github.com/Vaios0x/TickMini-sub000/models"
)

// Service ties the scanner, aggregator, ledger and merger into the read
// path. It holds the last merged snapshot per wallet so reads between
// refreshes do not hit the chain; it carries no timing policy of its own,
// an external scheduler (or the user) calls Refresh.
type Service struct {
	reader     ContractReader
	scanner    *Scanner
	aggregator *Aggregator
	ledger     *Ledger

	mu        sync.RWMutex
	snapshots map[string][]*models.TicketRecord
}

func NewService(reader ContractReader, scanner *Scanner, aggregator *Aggregator, ledger *Ledger) *Service {
	return &Service{
		reader:     reader,
		scanner:    scanner,
		aggregator: aggregator,
		ledger:     ledger,
		snapshots:  make(map[string][]*models.TicketRecord),
	}
}

// Ledger exposes the optimistic ledger to the purchase path, which is its
// only writer.
func (s *Service) Ledger() *Ledger {
	return s.ledger
}

// Refresh reconstructs the ticket collection from the chain: balance →
// enumeration scan → per-token aggregation → merge with the optimistic
// ledger. The merged view becomes the snapshot returned by Tickets until
// the next refresh.
func (s *Service) Refresh(ctx context.Context, session models.Session) ([]*models.TicketRecord, error) {
	balance, err := s.reader.BalanceOf(ctx, session.Address)
	if err != nil {
		return nil, fmt.Errorf("refresh: failed to read balance of %s: %w", session.Address.Hex(), err)
	}

	expected := int64(0)
	if balance.IsInt64() {
		expected = balance.Int64()
	}

	tokenIDs, err := s.scanner.Scan(ctx, session, expected)
	if err != nil {
		return nil, fmt.Errorf("refresh: %w", err)
	}

	confirmed := s.aggregator.FetchAll(ctx, tokenIDs)
	merged := MergeTickets(confirmed, s.ledger.ForOwner(session.Address))

	s.mu.Lock()
	s.snapshots[session.Address.Hex()] = merged
	s.mu.Unlock()

	logger.Infof("refresh %s: %d confirmed, %d merged", session.Address.Hex(), len(confirmed), len(merged))
	return merged, nil
}

// Tickets returns the current merged view for the session's wallet,
// refreshing first if that wallet has no snapshot yet.
func (s *Service) Tickets(ctx context.Context, session models.Session) ([]*models.TicketRecord, error) {
	s.mu.RLock()
	snap, ok := s.snapshots[session.Address.Hex()]
	s.mu.RUnlock()

	if ok {
		// Re-merge so optimistic inserts made since the last refresh show up.
		return MergeTickets(snap, s.ledger.ForOwner(session.Address)), nil
	}
	return s.Refresh(ctx, session)
}
