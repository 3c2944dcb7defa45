// Package worldid talks to the World ID Developer Portal to verify
// proof-of-personhood proofs submitted by the mini app.
package worldid

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"
)

const DefaultEndpoint = "https://developer.worldcoin.org"

// Payload is the zero-knowledge proof as produced by IDKit.
type Payload struct {
	NullifierHash     string `json:"nullifier_hash"`
	MerkleRoot        string `json:"merkle_root"`
	Proof             string `json:"proof"`
	VerificationLevel string `json:"verification_level"`
}

// Result is the portal's verdict. A rejected proof is not an error: Success
// is false and Code/Detail say why (e.g. max_verifications_reached).
type Result struct {
	Success bool   `json:"success"`
	Code    string `json:"code,omitempty"`
	Detail  string `json:"detail,omitempty"`
}

type Client struct {
	AppID    string
	Endpoint string
	Client   *http.Client
}

func NewClient(appID string) *Client {
	return &Client{
		AppID:    appID,
		Endpoint: DefaultEndpoint,
		Client:   &http.Client{Timeout: 15 * time.Second},
	}
}

type verifyRequest struct {
	Payload
	Action string `json:"action"`
	Signal string `json:"signal"`
}

// Verify submits the proof for the given action and signal. err is non-nil
// only for transport-level failures or unusable responses.
func (c *Client) Verify(ctx context.Context, payload Payload, action, signal string) (*Result, error) {
	body, err := jsoniter.Marshal(&verifyRequest{
		Payload: payload,
		Action:  action,
		Signal:  signal,
	})
	if err != nil {
		return nil, err
	}
	u := fmt.Sprintf("%v/api/v2/verify/%v", c.Endpoint, c.AppID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, fmt.Errorf("developer portal: status %v", resp.StatusCode)
	}
	var res Result
	if err := jsoniter.Unmarshal(b, &res); err != nil {
		return nil, fmt.Errorf("developer portal: unexpected response: %w", err)
	}
	res.Success = resp.StatusCode == http.StatusOK
	return &res, nil
}
