package chain

import "github.com/Vaios0x/TickMini-sub000/models"

// MergeTickets unions on-chain confirmed records with local optimistic ones,
// de-duplicating by token id. When both carry the same token the on-chain
// copy wins in full: chain state is always more current than the optimistic
// guess (isValid may have flipped, the ticket may have been transferred).
//
// Ordering is stable: on-chain records first in their input (discovery)
// order, then local-only records in insertion order. Callers wanting a
// different sort apply it themselves.
func MergeTickets(onChain, local []*models.TicketRecord) []*models.TicketRecord {
	merged := make([]*models.TicketRecord, 0, len(onChain)+len(local))
	seen := make(map[string]bool, len(onChain))

	for _, record := range onChain {
		if record == nil || record.TokenID == nil {
			continue
		}
		key := record.TokenID.String()
		if seen[key] {
			continue
		}
		seen[key] = true
		merged = append(merged, record)
	}

	for _, record := range local {
		if record == nil || record.TokenID == nil {
			continue
		}
		key := record.TokenID.String()
		if seen[key] {
			continue
		}
		seen[key] = true
		merged = append(merged, record)
	}

	return merged
}
