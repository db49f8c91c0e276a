package mapper

// Config holds the engine thresholds. Values are fixed for the lifetime of
// a Mapper; a batch never re-reads configuration mid-flight.
type Config struct {
	// NativeDustThreshold is the SOL amount below which native transfers
	// are discarded before classification.
	NativeDustThreshold float64

	// SmallFeeRatio classifies an outgoing chunk as a router/platform fee
	// skim when it is below this fraction of the mint's largest transfer
	// in the transaction.
	SmallFeeRatio float64

	// RoundTripTolerance is the allowed deviation of |net SOL change| from
	// twice the largest WSOL transfer when detecting indirect swaps.
	RoundTripTolerance float64

	// SimpleSwapMaxMints is the per-direction distinct-mint ceiling for
	// the indirect-swap simple-swap heuristic.
	SimpleSwapMaxMints int

	// EventMatchTolerance is the maximum relative difference between the
	// sell-side and buy-side totals of an inner-swap scan.
	EventMatchTolerance float64

	// EventSignificanceFloor ignores inner-swap amounts below this value.
	EventSignificanceFloor float64

	// FeePayerSolFloor and FeePayerUsdcFloor are the minimum significant
	// swap values for fee-payer reattribution.
	FeePayerSolFloor  float64
	FeePayerUsdcFloor float64

	// MinSolValue and MinUsdcValue are the output floors of the low-value
	// filter: a token whose attributed value clears neither is dropped.
	MinSolValue  float64
	MinUsdcValue float64

	// LiquidityFilterEnabled toggles the one-sided-flow pre-filter for
	// UNKNOWN-typed transactions.
	LiquidityFilterEnabled bool
}

// DefaultConfig returns the production thresholds.
//
// RoundTripTolerance (20%) and EventMatchTolerance (1%) are inherited
// calibrations; treat them as defaults to tune against labeled data, not
// derived constants.
func DefaultConfig() Config {
	return Config{
		NativeDustThreshold:    0.0001,
		SmallFeeRatio:          0.05,
		RoundTripTolerance:     0.20,
		SimpleSwapMaxMints:     3,
		EventMatchTolerance:    0.01,
		EventSignificanceFloor: 1e-5,
		FeePayerSolFloor:       0.1,
		FeePayerUsdcFloor:      1.0,
		MinSolValue:            0.001,
		MinUsdcValue:           0.01,
		LiquidityFilterEnabled: true,
	}
}
