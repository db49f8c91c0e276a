package domain

// Direction is the side of a leg relative to the observed wallet.
type Direction string

const (
	DirectionIn  Direction = "in"
	DirectionOut Direction = "out"
)

// String returns the string representation of Direction.
func (d Direction) String() string {
	return string(d)
}

// IsValid checks if the direction is a valid value.
func (d Direction) IsValid() bool {
	return d == DirectionIn || d == DirectionOut
}

// AttributionTier identifies which heuristic produced a leg's value.
type AttributionTier string

const (
	TierIndirectSwap  AttributionTier = "INDIRECT_SWAP"
	TierEventMatch    AttributionTier = "EVENT_MATCH"
	TierTotalMovement AttributionTier = "TOTAL_MOVEMENT_FALLBACK"
	TierNetChange     AttributionTier = "NET_CHANGE_FALLBACK"
	TierFeeSuppressed AttributionTier = "FEE_SUPPRESSED"
	TierUnresolved    AttributionTier = "UNRESOLVED"
)

// String returns the string representation of AttributionTier.
func (t AttributionTier) String() string {
	return string(t)
}

// InteractionTypeFeePayerSwap tags legs reattributed to the wallet because
// it only paid the network fee for a swap executed by other accounts.
const InteractionTypeFeePayerSwap = "FEE_PAYER_SWAP"

// AttributedLeg is one directional asset movement of the observed wallet
// with its reconstructed economic value. Corresponds to the
// swap_analysis_inputs table.
type AttributedLeg struct {
	WalletAddress string
	Signature     string
	Timestamp     int64 // Unix seconds
	Mint          string
	Amount        float64 // absolute, UI units
	Direction     Direction

	// Exactly one of the two associated values may be non-zero.
	AssociatedSolValue  float64
	AssociatedUsdcValue float64

	InteractionType string // source-reported type, or FEE_PAYER_SWAP
	Tier            AttributionTier

	// Fee skim detected in this leg's (mint, direction) group. Populated
	// only on non-reference legs, and only on the group's largest leg.
	FeeAmount     *float64
	FeePercentage *float64

	// Transfer endpoints, kept for the output uniqueness constraint.
	FromAccount string
	ToAccount   string
}

// IsReferenceCurrency reports whether the leg moves SOL/WSOL.
func (l *AttributedLeg) IsReferenceCurrency() bool {
	return l.Mint == WSOLMint
}

// IsStablecoin reports whether the leg moves the stablecoin denominator.
func (l *AttributedLeg) IsStablecoin() bool {
	return l.Mint == USDCMint
}
