package catalog

// Merge combines two track lists into a unique-by-id catalog.
//
// On duplicate ids the primary copy wins, so provenance reflects the
// first-seen source. Order is all of primary in original order, then unseen
// members of secondary in original order. Runs in O(n) and is idempotent:
// merging the result with secondary again changes nothing.
func Merge(primary, secondary []Track) []Track {
	seen := make(map[string]struct{}, len(primary)+len(secondary))
	merged := make([]Track, 0, len(primary)+len(secondary))

	for _, list := range [][]Track{primary, secondary} {
		for _, track := range list {
			if _, ok := seen[track.ID]; ok {
				continue
			}
			seen[track.ID] = struct{}{}
			merged = append(merged, track)
		}
	}

	return merged
}
