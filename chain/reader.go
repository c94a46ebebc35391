package chain

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/Vaios0x/TickMini-sub000/contracts"
)

// ContractReader is the read surface of the ticketing contract this package
// consumes. *contracts.Ticketing implements it; tests substitute fakes.
type ContractReader interface {
	BalanceOf(ctx context.Context, owner common.Address) (*big.Int, error)
	TokenOfOwnerByIndex(ctx context.Context, owner common.Address, index int64) (*big.Int, error)
	GetTicket(ctx context.Context, tokenID *big.Int) (*contracts.TicketData, error)
	GetEvent(ctx context.Context, eventID *big.Int) (*contracts.EventData, error)
	IsTicketValid(ctx context.Context, tokenID *big.Int) (bool, error)
	OwnerOf(ctx context.Context, tokenID *big.Int) (common.Address, error)
	TokenURI(ctx context.Context, tokenID *big.Int) (string, error)
}
