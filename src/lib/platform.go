package lib

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/Klubit-Develop/k-microsites-sub001/src/types"
)

// PlatformClient talks to the platform transaction API, the backend that
// actually owns transactions. This service only consumes its contract.
type PlatformClient struct {
	baseURL string
	client  *http.Client
}

var platformClient *PlatformClient

func GetPlatformClient() *PlatformClient {
	if platformClient != nil {
		return platformClient
	}
	pc := &PlatformClient{
		baseURL: os.Getenv("PLATFORM_API_URL"),
		client:  &http.Client{Timeout: 30 * time.Second},
	}
	platformClient = pc
	return pc
}

// NewPlatformClient Replace the platform client with a custom implementation
func NewPlatformClient(baseURL string, client *http.Client) *PlatformClient {
	platformClient = &PlatformClient{baseURL: baseURL, client: client}
	return platformClient
}

// PlatformError carries the structured error payload the platform API
// returned, when there was one.
type PlatformError struct {
	StatusCode int    `json:"-"`
	Message    string `json:"message"`
}

func (e *PlatformError) Error() string {
	return e.Message
}

func (p *PlatformClient) do(ctx context.Context, method, path, token string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, p.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	res, err := p.client.Do(req)
	if err != nil {
		log.Printf("[platform] %s %s failed: %s\n", method, path, err.Error())
		return err
	}
	defer res.Body.Close()
	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return err
	}
	if res.StatusCode >= 400 {
		perr := &PlatformError{StatusCode: res.StatusCode}
		if err := json.Unmarshal(raw, perr); err != nil || perr.Message == "" {
			// Older platform deployments answer {"error": "..."} instead.
			var alt struct {
				Error string `json:"error"`
			}
			if err := json.Unmarshal(raw, &alt); err == nil && alt.Error != "" {
				perr.Message = alt.Error
			}
		}
		if perr.Message == "" {
			return fmt.Errorf("platform API returned status %d", res.StatusCode)
		}
		return perr
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(raw, out)
}

// CreateTransaction submits the cart as a transaction-creation request.
func (p *PlatformClient) CreateTransaction(ctx context.Context, token string, body *types.CreateTransactionRequestBody) (*types.PlatformTransaction, error) {
	var txn types.PlatformTransaction
	if err := p.do(ctx, http.MethodPost, "/transactions", token, body, &txn); err != nil {
		return nil, err
	}
	return &txn, nil
}

// CancelTransaction voids a pending transaction on the platform side.
func (p *PlatformClient) CancelTransaction(ctx context.Context, token, id string) error {
	return p.do(ctx, http.MethodPost, fmt.Sprintf("/transactions/%s/cancel", id), token, nil, nil)
}
