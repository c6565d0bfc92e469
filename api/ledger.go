package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// BlockAmount reserves an amount on a ledger account so it cannot be spent
type BlockAmount struct {
	// Amount to be blocked on the account
	Amount string `json:"amount" validate:"required,numeric,max=38"`
	// Type of blockage (free text, e.g. DEBIT_CARD_OP)
	Type string `json:"type" validate:"required,min=1,max=100"`
	// Description of the blockage
	Description string `json:"description,omitempty" validate:"omitempty,min=1,max=300"`
}

// Blockage is an existing block on a ledger account
type Blockage struct {
	ID          string `json:"id"`
	AccountID   string `json:"accountId"`
	Amount      string `json:"amount"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
}

// ID wraps the identifier returned by create endpoints
type ID struct {
	ID string `json:"id"`
}

// BlockAmount blocks an amount on a ledger account and returns the blockage id
func (c *Client) BlockAmount(ctx context.Context, accountID string, body *BlockAmount) (*ID, error) {
	if accountID == "" {
		return nil, &ValidationError{Op: "block amount", Fields: []string{"accountId"}, Err: errNilBody}
	}
	if err := Validate("block amount", body); err != nil {
		return nil, err
	}

	var out ID
	if err := c.post(ctx, "ledger/account/block/"+url.PathEscape(accountID), body, &out); err != nil {
		return nil, fmt.Errorf("failed to block amount: %w", err)
	}
	return &out, nil
}

// DeleteBlockedAmount removes a single blockage
func (c *Client) DeleteBlockedAmount(ctx context.Context, blockageID string) error {
	if err := c.delete(ctx, "ledger/account/block/"+url.PathEscape(blockageID)); err != nil {
		return fmt.Errorf("failed to unblock amount: %w", err)
	}
	return nil
}

// GetBlockedAmounts lists blockages of a ledger account
func (c *Client) GetBlockedAmounts(ctx context.Context, accountID string, pageSize, offset int) ([]Blockage, error) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	params := url.Values{}
	params.Set("pageSize", strconv.Itoa(pageSize))
	if offset > 0 {
		params.Set("offset", strconv.Itoa(offset))
	}

	var out []Blockage
	if err := c.get(ctx, "ledger/account/block/"+url.PathEscape(accountID), params, &out); err != nil {
		return nil, fmt.Errorf("failed to get blocked amounts: %w", err)
	}
	return out, nil
}
