package domain

import (
	"encoding/json"
	"math"
	"strconv"
)

// Well-known mints and units.
const (
	// WSOLMint is the wrapped SOL mint. Native SOL legs are reported under
	// this mint so that wrapped and unwrapped movements share one key.
	WSOLMint = "So11111111111111111111111111111111111111112"

	// USDCMint is the USDC stablecoin mint.
	USDCMint = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"

	LamportsPerSOL = 1_000_000_000
)

// HeliusTransaction is one enriched transaction as returned by the Helius
// parsed-transaction API. Read-only input to the mapper.
type HeliusTransaction struct {
	Signature        string            `json:"signature"`
	Timestamp        int64             `json:"timestamp"`
	Fee              int64             `json:"fee"` // lamports
	FeePayer         string            `json:"feePayer"`
	Type             string            `json:"type"`   // "SWAP" | "TRANSFER" | "UNKNOWN" | ...
	Source           string            `json:"source"` // reporting program/aggregator
	Description      string            `json:"description"`
	TokenTransfers   []TokenTransfer   `json:"tokenTransfers"`
	NativeTransfers  []NativeTransfer  `json:"nativeTransfers"`
	AccountData      []AccountData     `json:"accountData"`
	TransactionError *json.RawMessage  `json:"transactionError"`
	Events           TransactionEvents `json:"events"`
}

// Failed reports whether the transaction carries an error marker.
func (t *HeliusTransaction) Failed() bool {
	return t.TransactionError != nil && string(*t.TransactionError) != "null"
}

// TokenTransfer is one SPL token movement. TokenAmount is already scaled to
// UI units by the API.
type TokenTransfer struct {
	FromUserAccount  string  `json:"fromUserAccount"`
	ToUserAccount    string  `json:"toUserAccount"`
	FromTokenAccount string  `json:"fromTokenAccount"`
	ToTokenAccount   string  `json:"toTokenAccount"`
	Mint             string  `json:"mint"`
	TokenAmount      float64 `json:"tokenAmount"`
	TokenStandard    string  `json:"tokenStandard,omitempty"`
}

// NativeTransfer is one lamport movement between user accounts.
type NativeTransfer struct {
	FromUserAccount string `json:"fromUserAccount"`
	ToUserAccount   string `json:"toUserAccount"`
	Amount          int64  `json:"amount"` // lamports
}

// AccountData is a per-account balance-change snapshot.
type AccountData struct {
	Account             string               `json:"account"`
	NativeBalanceChange int64                `json:"nativeBalanceChange"` // lamports
	TokenBalanceChanges []TokenBalanceChange `json:"tokenBalanceChanges"`
}

// TokenBalanceChange is one token-account delta inside a snapshot.
type TokenBalanceChange struct {
	UserAccount    string         `json:"userAccount"`
	TokenAccount   string         `json:"tokenAccount"`
	Mint           string         `json:"mint"`
	RawTokenAmount RawTokenAmount `json:"rawTokenAmount"`
}

// RawTokenAmount is an unscaled amount with its decimals.
type RawTokenAmount struct {
	TokenAmount string `json:"tokenAmount"`
	Decimals    int    `json:"decimals"`
}

// UIAmount returns the amount scaled to UI units.
func (r RawTokenAmount) UIAmount() float64 {
	v, err := strconv.ParseFloat(r.TokenAmount, 64)
	if err != nil {
		return 0
	}
	return v / math.Pow10(r.Decimals)
}

// TransactionEvents holds structured event payloads attached by the API.
type TransactionEvents struct {
	Swap *SwapEvent `json:"swap"`
}

// SwapEvent is the structured swap payload, including per-route inner swaps.
type SwapEvent struct {
	NativeInput  *NativeSwapAmount  `json:"nativeInput"`
	NativeOutput *NativeSwapAmount  `json:"nativeOutput"`
	TokenInputs  []SwapTokenAmount  `json:"tokenInputs"`
	TokenOutputs []SwapTokenAmount  `json:"tokenOutputs"`
	NativeFees   []NativeSwapAmount `json:"nativeFees"`
	TokenFees    []SwapTokenAmount  `json:"tokenFees"`
	InnerSwaps   []InnerSwap        `json:"innerSwaps"`
}

// NativeSwapAmount is a native-currency side of a swap event. Amount is
// lamports, serialized as a string by the API.
type NativeSwapAmount struct {
	Account string `json:"account"`
	Amount  string `json:"amount"`
}

// SOL returns the amount in SOL units.
func (n *NativeSwapAmount) SOL() float64 {
	if n == nil {
		return 0
	}
	v, err := strconv.ParseFloat(n.Amount, 64)
	if err != nil {
		return 0
	}
	return v / LamportsPerSOL
}

// SwapTokenAmount is a token side of a swap event.
type SwapTokenAmount struct {
	UserAccount    string         `json:"userAccount"`
	TokenAccount   string         `json:"tokenAccount"`
	Mint           string         `json:"mint"`
	RawTokenAmount RawTokenAmount `json:"rawTokenAmount"`
}

// InnerSwap is one hop of a routed swap. Transfer legs carry UI-scaled
// amounts like top-level token transfers.
type InnerSwap struct {
	TokenInputs  []TokenTransfer  `json:"tokenInputs"`
	TokenOutputs []TokenTransfer  `json:"tokenOutputs"`
	TokenFees    []TokenTransfer  `json:"tokenFees"`
	NativeFees   []NativeTransfer `json:"nativeFees"`
	ProgramInfo  *ProgramInfo     `json:"programInfo"`
}

// ProgramInfo identifies the program that produced an inner swap.
type ProgramInfo struct {
	Source          string `json:"source"`
	Account         string `json:"account"`
	ProgramName     string `json:"programName"`
	InstructionName string `json:"instructionName"`
}

// CachedTransaction is a raw transaction as held by the fetch cache:
// the original JSON plus the fields the cache indexes on.
type CachedTransaction struct {
	Signature string          // PRIMARY KEY
	Timestamp int64           // Unix seconds
	RawData   json.RawMessage // original Helius JSON
	FetchedAt int64           // Unix seconds
}

// Decode unmarshals the cached raw JSON into a HeliusTransaction.
func (c *CachedTransaction) Decode() (*HeliusTransaction, error) {
	var tx HeliusTransaction
	if err := json.Unmarshal(c.RawData, &tx); err != nil {
		return nil, err
	}
	return &tx, nil
}
