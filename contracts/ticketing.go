package contracts

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Ticketing ABI - only the functions and events this client consumes
const ticketingABI = `[
{"inputs":[{"internalType":"address","name":"owner","type":"address"}],"name":"balanceOf","outputs":[{"internalType":"uint256","name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
{"inputs":[{"internalType":"address","name":"owner","type":"address"},{"internalType":"uint256","name":"index","type":"uint256"}],"name":"tokenOfOwnerByIndex","outputs":[{"internalType":"uint256","name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
{"inputs":[{"internalType":"uint256","name":"tokenId","type":"uint256"}],"name":"getTicket","outputs":[{"internalType":"uint256","name":"eventId","type":"uint256"},{"internalType":"uint8","name":"ticketType","type":"uint8"},{"internalType":"uint256","name":"price","type":"uint256"},{"internalType":"uint256","name":"purchaseDate","type":"uint256"},{"internalType":"string[]","name":"benefits","type":"string[]"},{"internalType":"bool","name":"isTransferable","type":"bool"}],"stateMutability":"view","type":"function"},
{"inputs":[{"internalType":"uint256","name":"eventId","type":"uint256"}],"name":"getEvent","outputs":[{"internalType":"string","name":"name","type":"string"},{"internalType":"string","name":"description","type":"string"},{"internalType":"uint256","name":"eventDate","type":"uint256"},{"internalType":"string","name":"location","type":"string"},{"internalType":"address","name":"organizer","type":"address"},{"internalType":"uint256","name":"totalTickets","type":"uint256"},{"internalType":"uint256","name":"soldTickets","type":"uint256"},{"internalType":"bool","name":"isActive","type":"bool"},{"internalType":"string","name":"metadataURI","type":"string"}],"stateMutability":"view","type":"function"},
{"inputs":[{"internalType":"uint256","name":"tokenId","type":"uint256"}],"name":"isTicketValid","outputs":[{"internalType":"bool","name":"","type":"bool"}],"stateMutability":"view","type":"function"},
{"inputs":[{"internalType":"uint256","name":"tokenId","type":"uint256"}],"name":"ownerOf","outputs":[{"internalType":"address","name":"","type":"address"}],"stateMutability":"view","type":"function"},
{"inputs":[{"internalType":"uint256","name":"tokenId","type":"uint256"}],"name":"tokenURI","outputs":[{"internalType":"string","name":"","type":"string"}],"stateMutability":"view","type":"function"},
{"inputs":[{"internalType":"string","name":"name","type":"string"},{"internalType":"string","name":"description","type":"string"},{"internalType":"uint256","name":"eventDate","type":"uint256"},{"internalType":"string","name":"location","type":"string"},{"internalType":"uint256","name":"totalTickets","type":"uint256"},{"internalType":"string","name":"metadataURI","type":"string"}],"name":"createEvent","outputs":[{"internalType":"uint256","name":"","type":"uint256"}],"stateMutability":"nonpayable","type":"function"},
{"inputs":[{"internalType":"address","name":"to","type":"address"},{"internalType":"uint256","name":"eventId","type":"uint256"},{"internalType":"uint8","name":"ticketType","type":"uint8"},{"internalType":"uint256","name":"price","type":"uint256"},{"internalType":"string[]","name":"benefits","type":"string[]"},{"internalType":"bool","name":"isTransferable","type":"bool"},{"internalType":"string","name":"uri","type":"string"}],"name":"mintTicket","outputs":[{"internalType":"uint256","name":"","type":"uint256"}],"stateMutability":"payable","type":"function"},
{"inputs":[{"internalType":"address","name":"to","type":"address"},{"internalType":"uint256","name":"eventId","type":"uint256"},{"internalType":"uint8","name":"ticketType","type":"uint8"},{"internalType":"uint256","name":"price","type":"uint256"},{"internalType":"string[]","name":"benefits","type":"string[]"},{"internalType":"bool","name":"isTransferable","type":"bool"},{"internalType":"string[]","name":"uris","type":"string[]"}],"name":"batchMintTickets","outputs":[{"internalType":"uint256[]","name":"","type":"uint256[]"}],"stateMutability":"payable","type":"function"},
{"inputs":[{"internalType":"uint256","name":"tokenId","type":"uint256"}],"name":"useTicket","outputs":[],"stateMutability":"nonpayable","type":"function"},
{"inputs":[{"internalType":"address","name":"from","type":"address"},{"internalType":"address","name":"to","type":"address"},{"internalType":"uint256","name":"tokenId","type":"uint256"}],"name":"safeTransferFrom","outputs":[],"stateMutability":"nonpayable","type":"function"},
{"anonymous":false,"inputs":[{"indexed":true,"internalType":"address","name":"from","type":"address"},{"indexed":true,"internalType":"address","name":"to","type":"address"},{"indexed":true,"internalType":"uint256","name":"tokenId","type":"uint256"}],"name":"Transfer","type":"event"},
{"anonymous":false,"inputs":[{"indexed":true,"internalType":"uint256","name":"eventId","type":"uint256"},{"indexed":true,"internalType":"address","name":"organizer","type":"address"}],"name":"EventCreated","type":"event"}
]`

// TicketData is the decoded getTicket tuple.
type TicketData struct {
	EventID        *big.Int
	TicketType     uint8
	PriceWei       *big.Int
	PurchaseDate   *big.Int
	Benefits       []string
	IsTransferable bool
}

// EventData is the decoded getEvent tuple.
type EventData struct {
	EventID      *big.Int
	Name         string
	Description  string
	EventDate    *big.Int
	Location     string
	Organizer    common.Address
	TotalTickets *big.Int
	SoldTickets  *big.Int
	IsActive     bool
	MetadataURI  string
}

// Ticketing wraps the ticketing smart contract interactions. Reads go
// through the gateway; write calldata is packed here and submitted by the
// purchase path.
type Ticketing struct {
	gateway *Gateway
	abi     abi.ABI
	address common.Address
}

// NewTicketing parses the ticketing ABI and builds the read gateway around
// the given backend.
func NewTicketing(client CallBackend, address string, timeout time.Duration, retries int) (*Ticketing, error) {
	parsedABI, err := abi.JSON(strings.NewReader(ticketingABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ticketing ABI: %w", err)
	}

	addr := common.HexToAddress(address)
	return &Ticketing{
		gateway: NewGateway(client, addr, parsedABI, timeout, retries),
		abi:     parsedABI,
		address: addr,
	}, nil
}

// ContractAddress returns the deployed ticketing contract address.
func (t *Ticketing) ContractAddress() common.Address {
	return t.address
}

// BalanceOf returns the number of tickets owned by the address.
func (t *Ticketing) BalanceOf(ctx context.Context, owner common.Address) (*big.Int, error) {
	values, err := t.gateway.Call(ctx, "balanceOf", owner)
	if err != nil {
		return nil, err
	}
	return asBigInt("balanceOf", values, 0)
}

// TokenOfOwnerByIndex returns the token id at the given enumeration index.
// An out-of-bounds index comes back as a revert-kind error, which callers
// use to detect enumeration gaps and ends.
func (t *Ticketing) TokenOfOwnerByIndex(ctx context.Context, owner common.Address, index int64) (*big.Int, error) {
	values, err := t.gateway.Call(ctx, "tokenOfOwnerByIndex", owner, big.NewInt(index))
	if err != nil {
		return nil, err
	}
	return asBigInt("tokenOfOwnerByIndex", values, 0)
}

// GetTicket returns the on-chain ticket struct for a token id.
func (t *Ticketing) GetTicket(ctx context.Context, tokenID *big.Int) (*TicketData, error) {
	values, err := t.gateway.Call(ctx, "getTicket", tokenID)
	if err != nil {
		return nil, err
	}
	if len(values) != 6 {
		return nil, &ChainCallError{Method: "getTicket", Kind: KindIntegrity, Reason: fmt.Sprintf("expected 6 outputs, got %d", len(values))}
	}

	ticket := &TicketData{}
	if ticket.EventID, err = asBigInt("getTicket", values, 0); err != nil {
		return nil, err
	}
	if ticket.TicketType, err = asUint8("getTicket", values, 1); err != nil {
		return nil, err
	}
	if ticket.PriceWei, err = asBigInt("getTicket", values, 2); err != nil {
		return nil, err
	}
	if ticket.PurchaseDate, err = asBigInt("getTicket", values, 3); err != nil {
		return nil, err
	}
	if ticket.Benefits, err = asStrings("getTicket", values, 4); err != nil {
		return nil, err
	}
	if ticket.IsTransferable, err = asBool("getTicket", values, 5); err != nil {
		return nil, err
	}
	return ticket, nil
}

// GetEvent returns the on-chain event struct for an event id.
func (t *Ticketing) GetEvent(ctx context.Context, eventID *big.Int) (*EventData, error) {
	values, err := t.gateway.Call(ctx, "getEvent", eventID)
	if err != nil {
		return nil, err
	}
	if len(values) != 9 {
		return nil, &ChainCallError{Method: "getEvent", Kind: KindIntegrity, Reason: fmt.Sprintf("expected 9 outputs, got %d", len(values))}
	}

	event := &EventData{EventID: new(big.Int).Set(eventID)}
	if event.Name, err = asString("getEvent", values, 0); err != nil {
		return nil, err
	}
	if event.Description, err = asString("getEvent", values, 1); err != nil {
		return nil, err
	}
	if event.EventDate, err = asBigInt("getEvent", values, 2); err != nil {
		return nil, err
	}
	if event.Location, err = asString("getEvent", values, 3); err != nil {
		return nil, err
	}
	if event.Organizer, err = asAddress("getEvent", values, 4); err != nil {
		return nil, err
	}
	if event.TotalTickets, err = asBigInt("getEvent", values, 5); err != nil {
		return nil, err
	}
	if event.SoldTickets, err = asBigInt("getEvent", values, 6); err != nil {
		return nil, err
	}
	if event.IsActive, err = asBool("getEvent", values, 7); err != nil {
		return nil, err
	}
	if event.MetadataURI, err = asString("getEvent", values, 8); err != nil {
		return nil, err
	}
	return event, nil
}

// IsTicketValid reports whether the ticket has not been used yet.
func (t *Ticketing) IsTicketValid(ctx context.Context, tokenID *big.Int) (bool, error) {
	values, err := t.gateway.Call(ctx, "isTicketValid", tokenID)
	if err != nil {
		return false, err
	}
	return asBool("isTicketValid", values, 0)
}

// OwnerOf returns the current owner of a token.
func (t *Ticketing) OwnerOf(ctx context.Context, tokenID *big.Int) (common.Address, error) {
	values, err := t.gateway.Call(ctx, "ownerOf", tokenID)
	if err != nil {
		return common.Address{}, err
	}
	return asAddress("ownerOf", values, 0)
}

// TokenURI returns the metadata pointer of a token.
func (t *Ticketing) TokenURI(ctx context.Context, tokenID *big.Int) (string, error) {
	values, err := t.gateway.Call(ctx, "tokenURI", tokenID)
	if err != nil {
		return "", err
	}
	return asString("tokenURI", values, 0)
}

// PackCreateEvent builds the calldata for createEvent.
func (t *Ticketing) PackCreateEvent(name, description string, eventDate int64, location string, totalTickets *big.Int, metadataURI string) ([]byte, error) {
	data, err := t.abi.Pack("createEvent", name, description, big.NewInt(eventDate), location, totalTickets, metadataURI)
	if err != nil {
		return nil, fmt.Errorf("failed to pack createEvent call data: %w", err)
	}
	return data, nil
}

// PackMintTicket builds the calldata for a single-ticket mint.
func (t *Ticketing) PackMintTicket(to common.Address, eventID *big.Int, ticketType uint8, price *big.Int, benefits []string, isTransferable bool, uri string) ([]byte, error) {
	if benefits == nil {
		benefits = []string{}
	}
	data, err := t.abi.Pack("mintTicket", to, eventID, ticketType, price, benefits, isTransferable, uri)
	if err != nil {
		return nil, fmt.Errorf("failed to pack mintTicket call data: %w", err)
	}
	return data, nil
}

// PackBatchMintTickets builds the calldata for a batch mint. The batch is
// one transaction: either every ticket mints or none do.
func (t *Ticketing) PackBatchMintTickets(to common.Address, eventID *big.Int, ticketType uint8, price *big.Int, benefits []string, isTransferable bool, uris []string) ([]byte, error) {
	if benefits == nil {
		benefits = []string{}
	}
	data, err := t.abi.Pack("batchMintTickets", to, eventID, ticketType, price, benefits, isTransferable, uris)
	if err != nil {
		return nil, fmt.Errorf("failed to pack batchMintTickets call data: %w", err)
	}
	return data, nil
}

// MintedTokenIDs extracts the token ids minted in a transaction from its
// ERC-721 Transfer logs (transfers from the zero address).
func (t *Ticketing) MintedTokenIDs(receipt *types.Receipt) []*big.Int {
	transferID := t.abi.Events["Transfer"].ID
	var zero common.Hash

	var ids []*big.Int
	for _, lg := range receipt.Logs {
		if lg.Address != t.address || len(lg.Topics) != 4 {
			continue
		}
		if lg.Topics[0] != transferID || lg.Topics[1] != zero {
			continue
		}
		ids = append(ids, lg.Topics[3].Big())
	}
	return ids
}

// CreatedEventID extracts the event id from the EventCreated log of a
// createEvent transaction.
func (t *Ticketing) CreatedEventID(receipt *types.Receipt) (*big.Int, error) {
	createdID := t.abi.Events["EventCreated"].ID
	for _, lg := range receipt.Logs {
		if lg.Address != t.address || len(lg.Topics) < 2 {
			continue
		}
		if lg.Topics[0] == createdID {
			return lg.Topics[1].Big(), nil
		}
	}
	return nil, fmt.Errorf("createEvent receipt %s contains no EventCreated log", receipt.TxHash.Hex())
}
