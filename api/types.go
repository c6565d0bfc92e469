package api

import (
	"fmt"
	"strings"
)

// Chain is the SDK-facing blockchain name
type Chain string

// supported chains
const (
	ChainEthereum Chain = "ethereum"
	ChainCelo     Chain = "celo"
	ChainKCC      Chain = "kcc"
	ChainBSC      Chain = "bsc"
	ChainPolygon  Chain = "polygon"
	ChainTron     Chain = "tron"
	ChainBitcoin  Chain = "bitcoin"
	ChainSolana   Chain = "solana"
	ChainAlgorand Chain = "algorand"
)

// ChainMap translates SDK chain names to the codes the remote API expects
var ChainMap = map[Chain]string{
	ChainEthereum: "ETH",
	ChainCelo:     "CELO",
	ChainKCC:      "KCS",
	ChainBSC:      "BSC",
	ChainPolygon:  "MATIC",
	ChainTron:     "TRON",
	ChainBitcoin:  "BTC",
	ChainSolana:   "SOL",
	ChainAlgorand: "ALGO",
}

// ChainMapInverse translates remote chain codes back to SDK chain names
var ChainMapInverse = func() map[string]Chain {
	inv := make(map[string]Chain, len(ChainMap))
	for chain, code := range ChainMap {
		inv[code] = chain
	}
	return inv
}()

// REST path segment per chain
var chainPaths = map[Chain]string{
	ChainEthereum: "ethereum",
	ChainCelo:     "celo",
	ChainKCC:      "kcs",
	ChainBSC:      "bsc",
	ChainPolygon:  "polygon",
	ChainTron:     "tron",
	ChainBitcoin:  "bitcoin",
	ChainSolana:   "solana",
	ChainAlgorand: "algorand",
}

// Code returns the remote chain code (ETH, KCS, ...)
func (c Chain) Code() (string, error) {
	code, ok := ChainMap[c]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedChain, c)
	}
	return code, nil
}

// Path returns the REST path segment for the chain
func (c Chain) Path() (string, error) {
	path, ok := chainPaths[c]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedChain, c)
	}
	return path, nil
}

// IsEVM reports whether the chain speaks the Ethereum JSON-RPC dialect
func (c Chain) IsEVM() bool {
	switch c {
	case ChainEthereum, ChainCelo, ChainKCC, ChainBSC, ChainPolygon:
		return true
	}
	return false
}

// ParseChain accepts either an SDK name ("kcc") or a remote code ("KCS")
func ParseChain(s string) (Chain, error) {
	s = strings.TrimSpace(s)
	if chain, ok := ChainMapInverse[strings.ToUpper(s)]; ok {
		return chain, nil
	}
	chain := Chain(strings.ToLower(s))
	if _, ok := ChainMap[chain]; ok {
		return chain, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedChain, s)
}

// Currency is a coin or token symbol
type Currency string

// native coins
const (
	CurrencyBTC   Currency = "BTC"
	CurrencyETH   Currency = "ETH"
	CurrencyCELO  Currency = "CELO"
	CurrencyCUSD  Currency = "CUSD"
	CurrencyCEUR  Currency = "CEUR"
	CurrencyKCS   Currency = "KCS"
	CurrencyBSC   Currency = "BSC"
	CurrencyMATIC Currency = "MATIC"
	CurrencyTRON  Currency = "TRON"
	CurrencySOL   Currency = "SOL"
	CurrencyALGO  Currency = "ALGO"
)

// tokens with well-known contracts
const (
	CurrencyUSDT      Currency = "USDT"
	CurrencyLEO       Currency = "LEO"
	CurrencyUNI       Currency = "UNI"
	CurrencyLINK      Currency = "LINK"
	CurrencyWBTC      Currency = "WBTC"
	CurrencyFREE      Currency = "FREE"
	CurrencyMKR       Currency = "MKR"
	CurrencyUSDC      Currency = "USDC"
	CurrencyBAT       Currency = "BAT"
	CurrencyUSDTMatic Currency = "USDT_MATIC"
	CurrencyLATOKEN   Currency = "LATOKEN"
	CurrencyTUSD      Currency = "TUSD"
	CurrencyPAX       Currency = "PAX"
	CurrencyCOIIN     Currency = "COIIN"
	CurrencyGMC       Currency = "GMC"
	CurrencyPAXG      Currency = "PAXG"
	CurrencyHAG       Currency = "HAG"
	CurrencyPLTC      Currency = "PLTC"
	CurrencyMMY       Currency = "MMY"
	CurrencyXCON      Currency = "XCON"
	CurrencyREVV      Currency = "REVV"
	CurrencyMaticEth  Currency = "MATIC_ETH"
	CurrencySAND      Currency = "SAND"
	CurrencyUSDTTron  Currency = "USDT_TRON"
	CurrencyINRTTron  Currency = "INRT_TRON"
	CurrencyUSDCMatic Currency = "USDC_MATIC"
	CurrencyUSDCBsc   Currency = "USDC_BSC"
	CurrencyB2UBsc    Currency = "B2U_BSC"
	CurrencyBUSD      Currency = "BUSD"
	CurrencyBETH      Currency = "BETH"
	CurrencyBBTC      Currency = "BBTC"
	CurrencyBADA      Currency = "BADA"
	CurrencyRMD       Currency = "RMD"
	CurrencyWBNB      Currency = "WBNB"
	CurrencyBDOT      Currency = "BDOT"
	CurrencyBXRP      Currency = "BXRP"
	CurrencyBLTC      Currency = "BLTC"
	CurrencyBBCH      Currency = "BBCH"
	CurrencyCAKE      Currency = "CAKE"
	CurrencyBUSDBsc   Currency = "BUSD_BSC"
	CurrencyUSDTBsc   Currency = "USDT_BSC"
	CurrencyGMCBsc    Currency = "GMC_BSC"
)

// FiatOrCryptoCurrency is the base pair a virtual currency is pegged to
type FiatOrCryptoCurrency string

// common base pairs
const (
	BasePairUSD FiatOrCryptoCurrency = "USD"
	BasePairEUR FiatOrCryptoCurrency = "EUR"
	BasePairBTC FiatOrCryptoCurrency = "BTC"
	BasePairETH FiatOrCryptoCurrency = "ETH"
)

// Sort orders list results
type Sort string

const (
	SortAsc  Sort = "asc"
	SortDesc Sort = "desc"
)

// CustomerRegistration attaches a ledger customer to an account
type CustomerRegistration struct {
	ExternalID         string `json:"externalId" validate:"required,min=1,max=100"`
	AccountingCurrency string `json:"accountingCurrency,omitempty" validate:"omitempty,min=3,max=3"`
	CustomerCountry    string `json:"customerCountry,omitempty" validate:"omitempty,len=2"`
	ProviderCountry    string `json:"providerCountry,omitempty" validate:"omitempty,len=2"`
}

// Fee overrides gas parameters of an EVM transaction; GasPrice is in gwei
type Fee struct {
	GasLimit string `json:"gasLimit" validate:"required,numeric"`
	GasPrice string `json:"gasPrice" validate:"required,numeric"`
}

// TransactionHash is returned by a broadcast
type TransactionHash struct {
	TxID   string `json:"txId"`
	Failed bool   `json:"failed,omitempty"`
}

// SignatureID is returned when a transaction was handed to the key management system
type SignatureID struct {
	SignatureID string `json:"signatureId"`
}

// BroadcastKMS is the body of a broadcast call
type BroadcastKMS struct {
	TxData      string `json:"txData" validate:"required,min=1"`
	SignatureID string `json:"signatureId,omitempty" validate:"omitempty,uuid"`
}
