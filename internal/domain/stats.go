package domain

// MappingStats accumulates per-batch counters for one MapBatch call.
// The engine fills a fresh value per batch; the caller owns merging
// across batches.
type MappingStats struct {
	TransactionsReceived int
	TransactionsFailed   int // carried an error marker, skipped wholesale
	TransactionsErrored  int // processing fault, legs discarded
	TransactionsMapped   int

	NativeLegs int
	TokenLegs  int

	TierHits              map[AttributionTier]int
	DuplicatesSuppressed  int
	SmallFeeSuppressed    int
	RedistributedGroups   int
	ZeroBaseGroups        int // redistribution skipped on a zero distribution base
	AmbiguousEventMatches int

	LiquiditySkips  int
	WsolRowsDropped int
	DustRowsDropped int
	LowValueDropped int

	InteractionTypes map[string]int
}

// NewMappingStats creates an empty stats accumulator.
func NewMappingStats() *MappingStats {
	return &MappingStats{
		TierHits:         make(map[AttributionTier]int),
		InteractionTypes: make(map[string]int),
	}
}

// Merge folds other into s. Used by callers that map several batches.
func (s *MappingStats) Merge(other *MappingStats) {
	if other == nil {
		return
	}
	s.TransactionsReceived += other.TransactionsReceived
	s.TransactionsFailed += other.TransactionsFailed
	s.TransactionsErrored += other.TransactionsErrored
	s.TransactionsMapped += other.TransactionsMapped
	s.NativeLegs += other.NativeLegs
	s.TokenLegs += other.TokenLegs
	for tier, n := range other.TierHits {
		s.TierHits[tier] += n
	}
	s.DuplicatesSuppressed += other.DuplicatesSuppressed
	s.SmallFeeSuppressed += other.SmallFeeSuppressed
	s.RedistributedGroups += other.RedistributedGroups
	s.ZeroBaseGroups += other.ZeroBaseGroups
	s.AmbiguousEventMatches += other.AmbiguousEventMatches
	s.LiquiditySkips += other.LiquiditySkips
	s.WsolRowsDropped += other.WsolRowsDropped
	s.DustRowsDropped += other.DustRowsDropped
	s.LowValueDropped += other.LowValueDropped
	for typ, n := range other.InteractionTypes {
		s.InteractionTypes[typ] += n
	}
}

// ActivityLogEntry is one appended record of a completed mapping batch.
type ActivityLogEntry struct {
	ID            int64
	WalletAddress string
	BatchAt       int64 // Unix seconds
	Stats         *MappingStats
}
