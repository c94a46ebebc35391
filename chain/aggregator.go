package chain

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/Vaios0x/TickMini-sub000/contracts"
	"github.com/Vaios0x/TickMini-sub000/logger"
	"github.com/Vaios0x/TickMini-sub000/models"
)

// Aggregator assembles one consistent TicketRecord per token id from five
// contract reads. All five must succeed for the token to be included; a
// token with an incomplete read set is dropped from the round and picked up
// by a later refresh.
type Aggregator struct {
	reader    ContractReader
	batchSize int
}

func NewAggregator(reader ContractReader, batchSize int) *Aggregator {
	if batchSize <= 0 {
		batchSize = 5
	}
	return &Aggregator{reader: reader, batchSize: batchSize}
}

// Fetch issues the ticket struct, validity, owner and token URI reads
// concurrently. The event struct read depends on the eventId inside the
// ticket struct, so it runs after getTicket resolves rather than alongside
// it.
func (a *Aggregator) Fetch(ctx context.Context, tokenID *big.Int) (*models.TicketRecord, error) {
	var (
		wg sync.WaitGroup

		ticket    *ticketReads
		ticketErr error

		valid    bool
		validErr error

		owner    string
		ownerErr error

		uri    string
		uriErr error
	)

	wg.Add(4)
	go func() {
		defer wg.Done()
		ticket, ticketErr = a.readTicketAndEvent(ctx, tokenID)
	}()
	go func() {
		defer wg.Done()
		valid, validErr = a.reader.IsTicketValid(ctx, tokenID)
	}()
	go func() {
		defer wg.Done()
		addr, err := a.reader.OwnerOf(ctx, tokenID)
		owner, ownerErr = addr.Hex(), err
	}()
	go func() {
		defer wg.Done()
		uri, uriErr = a.reader.TokenURI(ctx, tokenID)
	}()
	wg.Wait()

	for _, err := range []error{ticketErr, validErr, ownerErr, uriErr} {
		if err != nil {
			return nil, fmt.Errorf("fetch token %s: %w", tokenID.String(), err)
		}
	}

	// Every numeric field must have decoded to a real integer; a record
	// with a hole in it is worse than a missing record.
	if ticket.data.EventID == nil || ticket.data.PriceWei == nil || ticket.data.PurchaseDate == nil {
		return nil, fmt.Errorf("fetch token %s: ticket struct has unparsed numeric field", tokenID.String())
	}

	return &models.TicketRecord{
		TokenID:           new(big.Int).Set(tokenID),
		EventID:           ticket.data.EventID,
		TicketType:        models.TicketTypeFromCode(ticket.data.TicketType),
		PriceWei:          ticket.data.PriceWei,
		PurchaseTimestamp: ticket.data.PurchaseDate.Int64(),
		Benefits:          ticket.data.Benefits,
		IsTransferable:    ticket.data.IsTransferable,
		Owner:             owner,
		IsValid:           valid,
		TokenURI:          uri,
		Origin:            models.OriginOnChainConfirmed,
		Event:             ticket.event,
	}, nil
}

type ticketReads struct {
	data  *contracts.TicketData
	event *models.EventRecord
}

func (a *Aggregator) readTicketAndEvent(ctx context.Context, tokenID *big.Int) (*ticketReads, error) {
	ticket, err := a.reader.GetTicket(ctx, tokenID)
	if err != nil {
		return nil, err
	}
	if ticket.EventID == nil {
		return nil, fmt.Errorf("getTicket: missing event id")
	}

	event, err := a.reader.GetEvent(ctx, ticket.EventID)
	if err != nil {
		return nil, err
	}

	return &ticketReads{
		data: ticket,
		event: &models.EventRecord{
			EventID:      event.EventID,
			Name:         event.Name,
			Description:  event.Description,
			EventDate:    bigToInt64(event.EventDate),
			Location:     event.Location,
			Organizer:    event.Organizer.Hex(),
			TotalTickets: event.TotalTickets,
			SoldTickets:  event.SoldTickets,
			IsActive:     event.IsActive,
			MetadataURI:  event.MetadataURI,
		},
	}, nil
}

// FetchAll resolves records in scanner discovery order, batching the
// per-token fan-out to keep the provider from rate-limiting us. Dropped
// tokens leave no gap in the slice.
func (a *Aggregator) FetchAll(ctx context.Context, tokenIDs []*big.Int) []*models.TicketRecord {
	results := make([]*models.TicketRecord, len(tokenIDs))

	for start := 0; start < len(tokenIDs); start += a.batchSize {
		end := start + a.batchSize
		if end > len(tokenIDs) {
			end = len(tokenIDs)
		}

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				record, err := a.Fetch(ctx, tokenIDs[i])
				if err != nil {
					logger.Warnf("aggregator: dropping token %s this round: %v", tokenIDs[i].String(), err)
					return
				}
				results[i] = record
			}(i)
		}
		wg.Wait()
	}

	records := make([]*models.TicketRecord, 0, len(tokenIDs))
	for _, r := range results {
		if r != nil {
			records = append(records, r)
		}
	}
	return records
}

func bigToInt64(v *big.Int) int64 {
	if v == nil || !v.IsInt64() {
		return 0
	}
	return v.Int64()
}
