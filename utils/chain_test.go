package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSink = "0x0BC8dCb2c6F6AA1dFD236c985241dad86C6593DF"

// fakeRPC serves eth_getTransactionByHash from a fixed result payload
func fakeRPC(t *testing.T, result interface{}) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Method string   `json:"method"`
			Params []string `json:"params"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "eth_getTransactionByHash", req.Method)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"jsonrpc": "2.0",
			"id":      1,
			"result":  result,
		})
	}))
}

func TestVerifyPaymentSuccess(t *testing.T) {
	// Recipient comes back checksum-cased; sink configured lowercase
	server := fakeRPC(t, map[string]interface{}{
		"hash":        "0xtx1",
		"from":        "0xAAA111",
		"to":          testSink,
		"value":       "0xde0b6b3a7640000", // 1.0
		"blockNumber": "0x10",
	})
	defer server.Close()

	chain := NewChainClient(server.URL, testSink)

	info, err := chain.VerifyPayment("0xtx1")
	require.NoError(t, err)
	assert.Equal(t, "0xaaa111", info.From)
	assert.Equal(t, 1.0, info.Amount)
	assert.Equal(t, "0xtx1", info.TxHash)
}

func TestVerifyPaymentWrongRecipient(t *testing.T) {
	server := fakeRPC(t, map[string]interface{}{
		"hash":        "0xtx1",
		"from":        "0xaaa",
		"to":          "0x1111111111111111111111111111111111111111",
		"value":       "0x1",
		"blockNumber": "0x10",
	})
	defer server.Close()

	chain := NewChainClient(server.URL, testSink)

	_, err := chain.VerifyPayment("0xtx1")
	assert.ErrorIs(t, err, ErrWrongRecipient)
}

func TestVerifyPaymentContractCreation(t *testing.T) {
	// A contract-creation transaction has no recipient
	server := fakeRPC(t, map[string]interface{}{
		"hash":        "0xtx1",
		"from":        "0xaaa",
		"to":          nil,
		"value":       "0x1",
		"blockNumber": "0x10",
	})
	defer server.Close()

	chain := NewChainClient(server.URL, testSink)

	_, err := chain.VerifyPayment("0xtx1")
	assert.ErrorIs(t, err, ErrWrongRecipient)
}

func TestVerifyPaymentNotFound(t *testing.T) {
	server := fakeRPC(t, nil)
	defer server.Close()

	chain := NewChainClient(server.URL, testSink)

	_, err := chain.VerifyPayment("0xmissing")
	assert.ErrorIs(t, err, ErrTxNotFound)
}

func TestGetTransactionRPCError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":1,"error":{"code":-32000,"message":"upstream down"}}`))
	}))
	defer server.Close()

	chain := NewChainClient(server.URL, testSink)

	_, err := chain.GetTransaction("0xtx1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upstream down")
}

func TestVerifyPaymentUnmined(t *testing.T) {
	// Still in the mempool: no block number yet
	server := fakeRPC(t, map[string]interface{}{
		"hash":        "0xtx1",
		"from":        "0xaaa",
		"to":          testSink,
		"value":       "0x1",
		"blockNumber": nil,
	})
	defer server.Close()

	chain := NewChainClient(server.URL, testSink)

	_, err := chain.VerifyPayment("0xtx1")
	assert.ErrorIs(t, err, ErrTxPending)
}
