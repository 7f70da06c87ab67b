package classify

import "haigoo-engine/internal/domain"

// ClassifyRegion maps a resolved location string into the region enum using
// the same keyword buckets location extraction uses. Pure function of its
// input, so reclassifying an already-classified location is a no-op.
//
// Known quirk carried over on purpose: region "both" satisfies either a
// domestic-only or an overseas-only filter downstream; it is never excluded
// by a single-sided region filter.
func ClassifyRegion(location string) domain.Region {
	if location == "" {
		return domain.RegionUnclassified
	}
	hits := bucketHits(location)

	domestic := hits[bucketMainland] + hits[bucketGreaterChina]
	overseas := hits[bucketOverseas] + hits[bucketAPAC]

	switch {
	case domestic > 0 && overseas > 0:
		return domain.RegionBoth
	case hits[bucketGlobal] > 0 && domestic > 0:
		return domain.RegionBoth
	case hits[bucketGlobal] > 0:
		return domain.RegionGlobal
	case domestic > 0:
		return domain.RegionDomestic
	case overseas > 0:
		return domain.RegionOverseas
	default:
		return domain.RegionUnclassified
	}
}

// DeriveTimezone attaches a coarse display timezone for facet grouping.
// Best effort only; unknown stays empty.
func DeriveTimezone(location string, region domain.Region) string {
	hits := bucketHits(location)
	switch {
	case hits[bucketMainland] > 0 || hits[bucketGreaterChina] > 0:
		return "UTC+8"
	case hits[bucketAPAC] > 0:
		return "UTC+9"
	case hits[bucketOverseas] > 0:
		return "UTC-5"
	case region == domain.RegionGlobal:
		return "flexible"
	default:
		return ""
	}
}
