// Package verifier defines the Verifier interface used by Verify (C12)
// and a default set of blockchain-explorer-backed implementations.
package verifier

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/chronoseal/ots/leaf"
	"github.com/chronoseal/ots/utils"
)

// DefaultTimeout is the recommended per-request timeout for verifier
// lookups (spec §5: "10s for verifiers").
const DefaultTimeout = 10 * time.Second

// Verifier resolves a (message, leaf) pair to the UNIX timestamp of the
// block whose Merkle root equals message at leaf's height, on the
// verifier's own chain. A verifier declines by returning (0, false, nil)
// when leaf is not on its chain, and fails by returning a non-nil error.
type Verifier func(ctx context.Context, message []byte, l leaf.Leaf) (unixTimestamp int64, ok bool, err error)

var (
	// ErrorNetworkError is returned when the explorer's HTTP request
	// itself fails.
	ErrorNetworkError = utils.NewNetworkError("VERIFIER_NETWORK_ERROR", "blockchain explorer request failed")
	// ErrorBadResponse is returned when the explorer's response body could
	// not be parsed into the expected shape.
	ErrorBadResponse = utils.NewVerifierError("VERIFIER_BAD_RESPONSE", "blockchain explorer response was not understood")
)

func getJSON(ctx context.Context, client *http.Client, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return ErrorNetworkError.AddDetails(err.Error())
	}
	resp, err := client.Do(req)
	if err != nil {
		return ErrorNetworkError.AddDetails(url + ": " + err.Error())
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return ErrorNetworkError.AddDetails(url + ": " + err.Error())
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return utils.HTTPError{Status: resp.StatusCode, URL: url, Method: http.MethodGet, Raw: string(body)}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return ErrorBadResponse.AddDetails(fmt.Sprintf("%s: %s", url, err))
	}
	return nil
}

type blockHeader struct {
	MerkleRoot string `json:"merkleRoot"`
	Time       int64  `json:"time"`
}

func lookupAt(ctx context.Context, client *http.Client, url string, message []byte) (int64, bool, error) {
	var block blockHeader
	if err := getJSON(ctx, client, url, &block); err != nil {
		return 0, false, err
	}
	if block.MerkleRoot != utils.HexLower(message) {
		return 0, false, nil
	}
	return block.Time, true, nil
}

// NewBlockchainInfoVerifier returns a Verifier backed by blockchain.info,
// for Bitcoin leaves.
func NewBlockchainInfoVerifier(client *http.Client) Verifier {
	return func(ctx context.Context, message []byte, l leaf.Leaf) (int64, bool, error) {
		if !l.IsChain(leaf.KindBitcoin) {
			return 0, false, nil
		}
		url := fmt.Sprintf("https://blockchain.info/block-height/%d?format=json", l.Height)
		return lookupAt(ctx, client, url, message)
	}
}

// NewBlockstreamVerifier returns a Verifier backed by blockstream.info,
// for Bitcoin leaves.
func NewBlockstreamVerifier(client *http.Client) Verifier {
	return func(ctx context.Context, message []byte, l leaf.Leaf) (int64, bool, error) {
		if !l.IsChain(leaf.KindBitcoin) {
			return 0, false, nil
		}
		url := fmt.Sprintf("https://blockstream.info/api/block-height-info/%d", l.Height)
		return lookupAt(ctx, client, url, message)
	}
}

// NewBlockCypherLTCVerifier returns a Verifier backed by BlockCypher, for
// Litecoin leaves.
func NewBlockCypherLTCVerifier(client *http.Client) Verifier {
	return func(ctx context.Context, message []byte, l leaf.Leaf) (int64, bool, error) {
		if !l.IsChain(leaf.KindLitecoin) {
			return 0, false, nil
		}
		url := fmt.Sprintf("https://api.blockcypher.com/v1/ltc/main/blocks/%d", l.Height)
		return lookupAt(ctx, client, url, message)
	}
}

// NewEtherscanVerifier returns a Verifier backed by Etherscan, for
// Ethereum leaves.
func NewEtherscanVerifier(client *http.Client, apiKey string) Verifier {
	return func(ctx context.Context, message []byte, l leaf.Leaf) (int64, bool, error) {
		if !l.IsChain(leaf.KindEthereum) {
			return 0, false, nil
		}
		url := fmt.Sprintf("https://api.etherscan.io/api?module=block&action=getblockdetails&blockno=%d&apikey=%s", l.Height, apiKey)
		return lookupAt(ctx, client, url, message)
	}
}

// DefaultSet returns the named default verifiers this module ships,
// keyed the way Verify's aggregate output reports them by name.
func DefaultSet(client *http.Client, etherscanAPIKey string) map[string]Verifier {
	return map[string]Verifier{
		"verifyViaBlockchainInfo": NewBlockchainInfoVerifier(client),
		"verifyViaBlockstream":    NewBlockstreamVerifier(client),
		"verifyViaBlockCypherLTC": NewBlockCypherLTCVerifier(client),
		"verifyViaEtherscan":      NewEtherscanVerifier(client, etherscanAPIKey),
	}
}
