package chain

import (
	"context"
	"fmt"
	"math/big"

	"github.com/Vaios0x/TickMini-sub000/contracts"
	"github.com/Vaios0x/TickMini-sub000/logger"
	"github.com/Vaios0x/TickMini-sub000/models"
	"github.com/Vaios0x/TickMini-sub000/monitoring"
)

// Scanner recovers the set of token ids owned by an address by walking the
// owner's enumeration index space. Prior transfers can leave that space
// sparse or reordered, so the scan probes past the expected count instead
// of trusting it as a stop condition.
type Scanner struct {
	reader           ContractReader
	maxTokens        int64
	failureThreshold int
}

func NewScanner(reader ContractReader, maxTokens int64, failureThreshold int) *Scanner {
	if maxTokens <= 0 {
		maxTokens = 256
	}
	if failureThreshold <= 0 {
		failureThreshold = 3
	}
	return &Scanner{
		reader:           reader,
		maxTokens:        maxTokens,
		failureThreshold: failureThreshold,
	}
}

// Scan probes tokenOfOwnerByIndex from 0 up to min(3x expectedCount, the
// absolute ceiling). A revert at an index is a normal miss (gap or end of
// enumeration); a transport failure is a miss too but is logged as
// actionable. Both feed one consecutive-failure counter, and the scan stops
// early once that counter hits the threshold with at least one token in
// hand. The result is best effort: returning fewer than expectedCount ids
// is not an error.
func (s *Scanner) Scan(ctx context.Context, session models.Session, expectedCount int64) ([]*big.Int, error) {
	if expectedCount <= 0 {
		return nil, nil
	}

	ceiling := expectedCount * 3
	if ceiling > s.maxTokens {
		ceiling = s.maxTokens
	}

	var (
		found         []*big.Int
		consecutive   int
		transportOnly = true
		lastErr       error
	)

	for index := int64(0); index < ceiling; index++ {
		if int64(len(found)) >= expectedCount {
			break
		}
		if err := ctx.Err(); err != nil {
			monitoring.TrackScan("cancelled", len(found))
			return found, err
		}

		tokenID, err := s.reader.TokenOfOwnerByIndex(ctx, session.Address, index)
		if err != nil {
			consecutive++
			lastErr = err
			if contracts.IsTransport(err) {
				logger.Warnf("scan %s: transport failure at index %d: %v", session.Address.Hex(), index, err)
			} else {
				transportOnly = false
				logger.Debugf("scan %s: no token at index %d", session.Address.Hex(), index)
			}
			if consecutive >= s.failureThreshold && len(found) > 0 {
				logger.Infof("scan %s: stopping after %d consecutive misses with %d tokens found", session.Address.Hex(), consecutive, len(found))
				break
			}
			continue
		}

		consecutive = 0
		found = append(found, tokenID)
	}

	if len(found) == 0 && transportOnly && lastErr != nil {
		monitoring.TrackScan("transport_error", 0)
		return nil, fmt.Errorf("scan: no tokens recovered for %s: %w", session.Address.Hex(), lastErr)
	}

	monitoring.TrackScan("ok", len(found))
	logger.Infof("scan %s: found %d of %d expected tokens", session.Address.Hex(), len(found), expectedCount)
	return found, nil
}
