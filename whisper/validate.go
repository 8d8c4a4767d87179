package whisper

import "sort"

type bySecondsPerPoint []ArchiveInfo

func (a bySecondsPerPoint) Len() int           { return len(a) }
func (a bySecondsPerPoint) Swap(i, j int)      { a[i], a[j] = a[j], a[i] }
func (a bySecondsPerPoint) Less(i, j int) bool { return a[i].SecondsPerPoint < a[j].SecondsPerPoint }

// ValidateArchiveList checks archives against the five structural rules
// that make cross-archive propagation well-defined:
//
//  1. the list is non-empty.
//  2. no two archives share the same precision.
//  3. each archive's precision evenly divides the next coarser one.
//  4. retention strictly increases from finest to coarsest.
//  5. each archive holds at least one aggregation window of the next
//     coarser archive.
//
// archives is sorted ascending by SecondsPerPoint as a side effect, the
// same order Create writes descriptors in.
func ValidateArchiveList(archives []ArchiveInfo) error {
	sort.Sort(bySecondsPerPoint(archives))

	if len(archives) == 0 {
		return errf("ValidateArchiveList", InvalidConfiguration, "archive list cannot have 0 length")
	}

	for i := 0; i < len(archives)-1; i++ {
		archive := archives[i]
		next := archives[i+1]

		if archive.SecondsPerPoint >= next.SecondsPerPoint {
			return errf("ValidateArchiveList", InvalidConfiguration,
				"archive %v and %v have the same or out-of-order precision", archive, next)
		}

		if next.SecondsPerPoint%archive.SecondsPerPoint != 0 {
			return errf("ValidateArchiveList", InvalidConfiguration,
				"higher precision archive %v must evenly divide into lower precision archive %v", archive, next)
		}

		if !(next.Retention() > archive.Retention()) {
			return errf("ValidateArchiveList", InvalidConfiguration,
				"lower precision archive %v must cover a larger time interval than higher precision archive %v", next, archive)
		}

		if archive.Points < next.SecondsPerPoint/archive.SecondsPerPoint {
			return errf("ValidateArchiveList", InvalidConfiguration,
				"archive %v cannot consolidate into archive %v: not enough points", archive, next)
		}
	}

	return nil
}
