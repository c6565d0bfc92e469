package api

// API Client-
//
// Files:
//   config.go        - base URL, header names and network constants
//   errors.go        - error kinds (remote error, validation error, unsupported chain)
//   types.go         - chain/currency enums and shared records (fee, tx hash, customer, ...)
//   base.go          - core client functionality (Client, NewClient, JSON request helpers)
//   subscription.go  - notification subscriptions and executed webhooks
//   ledger.go        - blocking/unblocking amounts on ledger accounts
//   offchain.go      - off-chain token deployment (TRC10/TRC20, Algorand)
//   blockchain.go    - broadcast, ERC20 history, UTXO lookups, web3/node gateway URLs
//
// Usage:
//   client := api.NewClient(api.Options{APIKey: key})           // from base.go
//   subs, err := client.GetSubscriptions(ctx, nil)               // from subscription.go
//   hash, err := client.Broadcast(ctx, api.ChainCelo, txData, "") // from blockchain.go
