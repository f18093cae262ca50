package recon

import "github.com/hearthdata/housing-etl/internal/model"

// Dedup removes duplicate sales within one fetched batch, keeping the first
// occurrence per matching key. Records missing a key field are kept
// unconditionally. Returns the surviving sales in their original order plus
// the number of duplicates removed.
//
// One linear pass; order of the input is significant and preserved.
func Dedup(sales []model.Sale) ([]model.Sale, int) {
	if len(sales) == 0 {
		return nil, 0
	}

	seen := make(map[Key]struct{}, len(sales))
	kept := make([]model.Sale, 0, len(sales))
	removed := 0

	for _, s := range sales {
		k, ok := KeyOf(s)
		if !ok {
			// Incomplete key: never deduplicated against.
			kept = append(kept, s)
			continue
		}
		if _, dup := seen[k]; dup {
			removed++
			continue
		}
		seen[k] = struct{}{}
		kept = append(kept, s)
	}

	return kept, removed
}
