package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// Erc20Transaction is one token transfer in an address history
type Erc20Transaction struct {
	BlockNumber     int64  `json:"blockNumber"`
	TxID            string `json:"txId"`
	ContractAddress string `json:"contractAddress"`
	From            string `json:"from"`
	To              string `json:"to"`
	Amount          string `json:"amount"`
	Timestamp       int64  `json:"timestamp,omitempty"`
}

// Erc20TransactionsQuery filters an ERC20 history lookup
type Erc20TransactionsQuery struct {
	TokenAddress string
	PageSize     int
	Offset       int
	From         string // block number
	To           string // block number
	Sort         Sort
}

// UTXO is an unspent bitcoin output as reported by the remote API
type UTXO struct {
	Version  int     `json:"version"`
	Height   int64   `json:"height"`
	Value    float64 `json:"value"` // BTC
	Script   string  `json:"script"`
	Address  string  `json:"address"`
	Coinbase bool    `json:"coinbase"`
	Hash     string  `json:"hash"`
	Index    uint32  `json:"index"`
}

// Broadcast submits a signed transaction; signatureID completes a pending KMS signature
func (c *Client) Broadcast(ctx context.Context, chain Chain, txData, signatureID string) (*TransactionHash, error) {
	path, err := chain.Path()
	if err != nil {
		return nil, err
	}
	body := &BroadcastKMS{TxData: txData, SignatureID: signatureID}
	if err := Validate("broadcast", body); err != nil {
		return nil, err
	}

	var out TransactionHash
	if err := c.post(ctx, path+"/broadcast", body, &out); err != nil {
		return nil, fmt.Errorf("failed to broadcast %s transaction: %w", chain, err)
	}
	return &out, nil
}

// GetErc20Transactions fetches token transfers touching address
func (c *Client) GetErc20Transactions(ctx context.Context, chain Chain, address string, query Erc20TransactionsQuery) ([]Erc20Transaction, error) {
	path, err := chain.Path()
	if err != nil {
		return nil, err
	}
	if address == "" {
		return nil, &ValidationError{Op: "erc20 transactions", Fields: []string{"address"}, Err: errNilBody}
	}

	pageSize := query.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	params := url.Values{}
	params.Set("pageSize", strconv.Itoa(pageSize))
	params.Set("offset", strconv.Itoa(query.Offset))
	params.Set("tokenAddress", query.TokenAddress)
	if query.From != "" {
		params.Set("from", query.From)
	}
	if query.To != "" {
		params.Set("to", query.To)
	}
	if query.Sort != "" {
		params.Set("sort", string(query.Sort))
	}

	var out []Erc20Transaction
	endpoint := fmt.Sprintf("%s/account/transaction/erc20/%s", path, url.PathEscape(address))
	if err := c.get(ctx, endpoint, params, &out); err != nil {
		return nil, fmt.Errorf("failed to get erc20 transactions: %w", err)
	}
	return out, nil
}

// GetBitcoinUTXO looks up one output; a spent output yields a 404 *Error
func (c *Client) GetBitcoinUTXO(ctx context.Context, hash string, index uint32) (*UTXO, error) {
	var out UTXO
	endpoint := fmt.Sprintf("bitcoin/utxo/%s/%d", url.PathEscape(hash), index)
	if err := c.get(ctx, endpoint, nil, &out); err != nil {
		return nil, fmt.Errorf("failed to get utxo %s:%d: %w", hash, index, err)
	}
	return &out, nil
}
