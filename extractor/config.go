package extractor

// Config holds the matching options consulted at every comparison.
type Config struct {
	// MatchRelativePaths re-seeds every search path at each container, so a
	// path can start matching at any depth.
	MatchRelativePaths bool

	// CaseInsensitive compares field names and annotations ignoring case.
	CaseInsensitive bool
}

// DefaultConfig matches absolute paths, case-sensitively.
func DefaultConfig() Config {
	return Config{}
}
