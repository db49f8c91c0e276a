package domain

// MintPosition is the per-mint ledger built from a wallet's attributed legs.
type MintPosition struct {
	WalletAddress string
	Mint          string

	AmountIn  float64 // total tokens received
	AmountOut float64 // total tokens sent

	SolSpent      float64 // SOL value paid for incoming tokens
	SolReceived   float64 // SOL value obtained for outgoing tokens
	UsdcSpent     float64
	UsdcReceived  float64
	LegCount      int
	FirstActivity int64 // Unix seconds
	LastActivity  int64
}

// NetAmount returns tokens still held (received minus sent).
func (p *MintPosition) NetAmount() float64 {
	return p.AmountIn - p.AmountOut
}

// RealizedSolPnl returns SOL obtained minus SOL spent for this mint.
func (p *MintPosition) RealizedSolPnl() float64 {
	return p.SolReceived - p.SolSpent
}

// RealizedUsdcPnl returns USDC obtained minus USDC spent for this mint.
func (p *MintPosition) RealizedUsdcPnl() float64 {
	return p.UsdcReceived - p.UsdcSpent
}

// WalletPnlSummary aggregates a wallet's positions.
type WalletPnlSummary struct {
	WalletAddress   string
	Positions       []*MintPosition // sorted by mint
	TotalSolPnl     float64
	TotalUsdcPnl    float64
	MintsTraded     int
	ProfitableMints int
	LegCount        int
	GeneratedAt     int64 // Unix seconds
}
