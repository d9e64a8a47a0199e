package featureflag

type Flag string

const (
	// FlagStrictRootQuery switches the range-query root fallback from
	// the conservative inner-grandchildren/quadrant scan to scanning
	// every quadrant the query circle overlaps.
	FlagStrictRootQuery Flag = "STRICT_ROOT_QUERY"

	// FlagDisableLOSFilter ignores the line-of-sight filter on range
	// queries.
	FlagDisableLOSFilter Flag = "DISABLE_LOS_FILTER"
)
