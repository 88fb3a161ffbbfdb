package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/go-resty/resty/v2"
)

var (
	ErrTxNotFound     = errors.New("transaction not found")
	ErrWrongRecipient = errors.New("transaction not sent to contract address")
	ErrTxPending      = errors.New("transaction not mined yet")
)

// RPCTransaction mirrors the fields of eth_getTransactionByHash we consume
type RPCTransaction struct {
	Hash        string  `json:"hash"`
	From        string  `json:"from"`
	To          *string `json:"to"`
	Value       string  `json:"value"` // hex base units
	BlockNumber *string `json:"blockNumber"`
}

// PaymentInfo is the verified result of a payment transaction lookup
type PaymentInfo struct {
	From   string  // sender, lowercased
	Amount float64 // native currency, chain-derived
	TxHash string
}

// ChainClient reads payment transactions from the chain RPC endpoint.
// It never signs anything: the owner's wallet holds custody of payouts,
// the server only verifies and records.
type ChainClient struct {
	rpcURL string
	sink   string // payment sink contract address, lowercased
	client *resty.Client
}

// Chain is the process-wide client, assigned once by InitChain at startup
var Chain *ChainClient

// InitChain builds the global chain client from configuration
func InitChain(rpcURL, contractAddress string) {
	Chain = NewChainClient(rpcURL, contractAddress)
	log.Printf("Chain RPC client initialized (rpc=%s, sink=%s)", rpcURL, Chain.sink)
}

func NewChainClient(rpcURL, contractAddress string) *ChainClient {
	return &ChainClient{
		rpcURL: rpcURL,
		sink:   NormalizeAddress(contractAddress),
		client: resty.New(),
	}
}

// SinkAddress returns the configured payment sink address (lowercase)
func (cc *ChainClient) SinkAddress() string {
	return cc.sink
}

// GetTransaction fetches a transaction by hash from the RPC endpoint.
// Returns ErrTxNotFound when the node does not know the hash, which also
// covers hashes submitted before the transaction propagated.
func (cc *ChainClient) GetTransaction(txHash string) (*RPCTransaction, error) {
	reqBody := map[string]interface{}{
		"jsonrpc": "2.0",
		"method":  "eth_getTransactionByHash",
		"params":  []string{txHash},
		"id":      1,
	}

	resp, err := cc.client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(reqBody).
		Post(cc.rpcURL)
	if err != nil {
		log.Printf("RPC request failed: %v", err)
		return nil, fmt.Errorf("rpc request failed: %w", err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("rpc returned status %d: %s", resp.StatusCode(), resp.String())
	}

	var rpcResp struct {
		Result *RPCTransaction `json:"result"`
		Error  *struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(resp.Body(), &rpcResp); err != nil {
		return nil, fmt.Errorf("invalid rpc response: %w", err)
	}
	if rpcResp.Error != nil {
		return nil, fmt.Errorf("rpc error %d: %s", rpcResp.Error.Code, rpcResp.Error.Message)
	}
	if rpcResp.Result == nil {
		return nil, ErrTxNotFound
	}

	return rpcResp.Result, nil
}

// VerifyPayment confirms that txHash carries a mined native-currency
// transfer to the payment sink and extracts the chain-derived amount. The
// recipient check is case-insensitive; transactions still in the mempool
// are rejected with ErrTxPending so nothing reconciles against a value
// that could be dropped or replaced.
func (cc *ChainClient) VerifyPayment(txHash string) (*PaymentInfo, error) {
	tx, err := cc.GetTransaction(txHash)
	if err != nil {
		return nil, err
	}

	if tx.BlockNumber == nil {
		return nil, ErrTxPending
	}
	if tx.To == nil || NormalizeAddress(*tx.To) != cc.sink {
		return nil, ErrWrongRecipient
	}

	amount, err := WeiToNative(tx.Value)
	if err != nil {
		return nil, fmt.Errorf("invalid transaction value: %w", err)
	}

	return &PaymentInfo{
		From:   NormalizeAddress(tx.From),
		Amount: amount,
		TxHash: tx.Hash,
	}, nil
}
