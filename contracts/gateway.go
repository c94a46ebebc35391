package contracts

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/Vaios0x/TickMini-sub000/logger"
	"github.com/Vaios0x/TickMini-sub000/monitoring"
)

// CallBackend is the read surface the gateway needs from an Ethereum client.
type CallBackend interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// TxBackend is the write surface used by the purchase path.
type TxBackend interface {
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasTipCap(ctx context.Context) (*big.Int, error)
	HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

// Gateway performs single contract read calls with a bounded timeout and
// retries transport failures. Reverts come back immediately as negative
// results. No caching: every call reflects chain state at call time.
type Gateway struct {
	client  CallBackend
	address common.Address
	abi     abi.ABI
	timeout time.Duration
	retries int
}

func NewGateway(client CallBackend, address common.Address, parsedABI abi.ABI, timeout time.Duration, retries int) *Gateway {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if retries < 0 {
		retries = 0
	}
	return &Gateway{
		client:  client,
		address: address,
		abi:     parsedABI,
		timeout: timeout,
		retries: retries,
	}
}

// Call packs a single view call, executes it and unpacks the raw outputs.
func (g *Gateway) Call(ctx context.Context, method string, args ...interface{}) ([]interface{}, error) {
	callData, err := g.abi.Pack(method, args...)
	if err != nil {
		return nil, &ChainCallError{Method: method, Kind: KindRevert, Reason: "failed to pack call data", Err: err}
	}

	raw, err := g.callWithRetry(ctx, method, callData)
	if err != nil {
		return nil, err
	}

	// Empty returndata for a call that should return something means the
	// target rejected the call without a reason string.
	if len(raw) == 0 {
		return nil, &ChainCallError{Method: method, Kind: KindRevert, Reason: "empty result from contract call"}
	}

	values, err := g.abi.Unpack(method, raw)
	if err != nil {
		return nil, &ChainCallError{Method: method, Kind: KindRevert, Reason: "failed to unpack result", Err: err}
	}
	return values, nil
}

func (g *Gateway) callWithRetry(ctx context.Context, method string, callData []byte) ([]byte, error) {
	var lastErr *ChainCallError
	for attempt := 0; attempt <= g.retries; attempt++ {
		raw, err := g.callOnce(ctx, method, callData)
		if err == nil {
			monitoring.TrackChainCall(method, "ok")
			return raw, nil
		}

		lastErr = classify(method, err)
		if !lastErr.Retryable() {
			monitoring.TrackChainCall(method, "revert")
			return nil, lastErr
		}

		monitoring.TrackChainCall(method, "transport_error")
		logger.Warnf("chain call %s transport failure (attempt %d/%d): %v", method, attempt+1, g.retries+1, err)
		if attempt < g.retries {
			select {
			case <-time.After(time.Duration(attempt+1) * 250 * time.Millisecond):
			case <-ctx.Done():
				return nil, classify(method, ctx.Err())
			}
		}
	}
	return nil, lastErr
}

func (g *Gateway) callOnce(ctx context.Context, method string, callData []byte) ([]byte, error) {
	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	start := time.Now()
	raw, err := g.client.CallContract(callCtx, ethereum.CallMsg{
		To:   &g.address,
		Data: callData,
	}, nil)
	monitoring.ObserveChainCallDuration(method, time.Since(start))
	return raw, err
}

// Address returns the contract address the gateway targets.
func (g *Gateway) Address() common.Address {
	return g.address
}
