package chain

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/Vaios0x/TickMini-sub000/contracts"
)

// fakeReader scripts the contract read surface for scanner, aggregator and
// service tests.
type fakeReader struct {
	balance    *big.Int
	balanceErr error

	// enumeration index space; missing indices revert
	tokensByIndex    map[int64]*big.Int
	transportIndexes map[int64]bool

	tickets    map[string]*contracts.TicketData
	events     map[string]*contracts.EventData
	valid      map[string]bool
	owners     map[string]common.Address
	uris       map[string]string
	uriErrs    map[string]error
	ticketErrs map[string]error

	indexCalls    int
	getEventCalls []*big.Int
}

func newFakeReader() *fakeReader {
	return &fakeReader{
		tokensByIndex:    make(map[int64]*big.Int),
		transportIndexes: make(map[int64]bool),
		tickets:          make(map[string]*contracts.TicketData),
		events:           make(map[string]*contracts.EventData),
		valid:            make(map[string]bool),
		owners:           make(map[string]common.Address),
		uris:             make(map[string]string),
		uriErrs:          make(map[string]error),
		ticketErrs:       make(map[string]error),
	}
}

func revertErr(method string) error {
	return &contracts.ChainCallError{Method: method, Kind: contracts.KindRevert, Reason: "execution reverted"}
}

func transportErr(method string) error {
	return &contracts.ChainCallError{Method: method, Kind: contracts.KindTransport, Reason: "connection refused"}
}

func (f *fakeReader) BalanceOf(ctx context.Context, owner common.Address) (*big.Int, error) {
	if f.balanceErr != nil {
		return nil, f.balanceErr
	}
	return f.balance, nil
}

func (f *fakeReader) TokenOfOwnerByIndex(ctx context.Context, owner common.Address, index int64) (*big.Int, error) {
	f.indexCalls++
	if f.transportIndexes[index] {
		return nil, transportErr("tokenOfOwnerByIndex")
	}
	token, ok := f.tokensByIndex[index]
	if !ok {
		return nil, revertErr("tokenOfOwnerByIndex")
	}
	return token, nil
}

func (f *fakeReader) GetTicket(ctx context.Context, tokenID *big.Int) (*contracts.TicketData, error) {
	if err, ok := f.ticketErrs[tokenID.String()]; ok {
		return nil, err
	}
	ticket, ok := f.tickets[tokenID.String()]
	if !ok {
		return nil, revertErr("getTicket")
	}
	return ticket, nil
}

func (f *fakeReader) GetEvent(ctx context.Context, eventID *big.Int) (*contracts.EventData, error) {
	f.getEventCalls = append(f.getEventCalls, eventID)
	event, ok := f.events[eventID.String()]
	if !ok {
		return nil, revertErr("getEvent")
	}
	return event, nil
}

func (f *fakeReader) IsTicketValid(ctx context.Context, tokenID *big.Int) (bool, error) {
	return f.valid[tokenID.String()], nil
}

func (f *fakeReader) OwnerOf(ctx context.Context, tokenID *big.Int) (common.Address, error) {
	owner, ok := f.owners[tokenID.String()]
	if !ok {
		return common.Address{}, revertErr("ownerOf")
	}
	return owner, nil
}

func (f *fakeReader) TokenURI(ctx context.Context, tokenID *big.Int) (string, error) {
	if err, ok := f.uriErrs[tokenID.String()]; ok {
		return "", err
	}
	return f.uris[tokenID.String()], nil
}

// addToken wires a fully readable token into the fake.
func (f *fakeReader) addToken(tokenID int64, eventID int64, owner common.Address) {
	id := big.NewInt(tokenID)
	key := id.String()
	f.tickets[key] = &contracts.TicketData{
		EventID:        big.NewInt(eventID),
		TicketType:     1,
		PriceWei:       big.NewInt(50000000000000000),
		PurchaseDate:   big.NewInt(1756600000),
		Benefits:       []string{"entry"},
		IsTransferable: true,
	}
	f.valid[key] = true
	f.owners[key] = owner
	f.uris[key] = "ipfs://ticket-" + key
	eventKey := big.NewInt(eventID).String()
	if _, ok := f.events[eventKey]; !ok {
		f.events[eventKey] = &contracts.EventData{
			EventID:      big.NewInt(eventID),
			Name:         "Event " + eventKey,
			EventDate:    big.NewInt(1767225600),
			Organizer:    owner,
			TotalTickets: big.NewInt(100),
			SoldTickets:  big.NewInt(10),
			IsActive:     true,
		}
	}
}
