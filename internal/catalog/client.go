// Package catalog provides the HTTP client for the document-catalog
// service: file upload and asynchronous processing triggers.
package catalog

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/meridian-labs/catsync-cli/internal/core/domain"
	"github.com/meridian-labs/catsync-cli/internal/core/ports/driven"
)

// Ensure Client implements the interface.
var _ driven.CatalogClient = (*Client)(nil)

// DefaultTimeout bounds every catalog HTTP call.
const DefaultTimeout = 60 * time.Second

// Config holds the catalog endpoint coordinates.
type Config struct {
	// BaseURL is the catalog API origin, e.g. "https://api.instill.tech".
	BaseURL string

	// NamespaceID is the namespace owning the catalog.
	NamespaceID string

	// CatalogID is the target catalog (knowledge base).
	CatalogID string

	// Timeout bounds each HTTP call; DefaultTimeout when zero.
	Timeout time.Duration
}

// Client talks to the catalog's upload and processAsync endpoints.
type Client struct {
	cfg    Config
	tokens driven.TokenProvider
	http   *http.Client
}

// NewClient creates a catalog client. The token provider supplies the
// bearer token attached to every request.
func NewClient(cfg Config, tokens driven.TokenProvider) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		cfg:    cfg,
		tokens: tokens,
		http:   &http.Client{Timeout: timeout},
	}
}

// uploadRequest is the JSON body for the upload endpoint.
type uploadRequest struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Content string `json:"content"`
}

// uploadResponse is the JSON shape of an upload confirmation.
type uploadResponse struct {
	File struct {
		FileUID string `json:"fileUid"`
	} `json:"file"`
}

// processRequest is the JSON body for the processAsync endpoint.
type processRequest struct {
	FileUids []string `json:"fileUids"`
}

// processResponse is the JSON shape of a processing acknowledgement.
type processResponse struct {
	Files []struct {
		ProcessStatus string `json:"processStatus"`
	} `json:"files"`
}

// Upload encodes the local file and submits it to the catalog.
// A 2xx response without a file UID maps to domain.ErrNoUploadConfirmation:
// the catalog accepted the request but did not confirm the upload.
func (c *Client) Upload(ctx context.Context, localPath string, fileType domain.CatalogFileType) (string, error) {
	raw, err := os.ReadFile(localPath)
	if err != nil {
		return "", fmt.Errorf("read local file: %w", err)
	}

	req := uploadRequest{
		Name:    filepath.Base(localPath),
		Type:    string(fileType),
		Content: base64.StdEncoding.EncodeToString(raw),
	}

	var resp uploadResponse
	if err := c.post(ctx, c.uploadURL(), req, &resp); err != nil {
		return "", fmt.Errorf("upload files: %w", err)
	}

	if resp.File.FileUID == "" {
		return "", fmt.Errorf("upload files: %w", domain.ErrNoUploadConfirmation)
	}
	return resp.File.FileUID, nil
}

// TriggerProcessing asks the catalog to process an uploaded file.
// A response without a process status for the file maps to
// domain.ErrNoProcessStatus.
func (c *Client) TriggerProcessing(ctx context.Context, fileUID string) (string, error) {
	var resp processResponse
	if err := c.post(ctx, c.processURL(), processRequest{FileUids: []string{fileUID}}, &resp); err != nil {
		return "", fmt.Errorf("process files: %w", err)
	}

	if len(resp.Files) == 0 || resp.Files[0].ProcessStatus == "" {
		return "", fmt.Errorf("process files: %w", domain.ErrNoProcessStatus)
	}
	return resp.Files[0].ProcessStatus, nil
}

// post sends an authorised JSON POST and decodes the response into out.
func (c *Client) post(ctx context.Context, url string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	token, err := c.tokens.GetToken(ctx)
	if err != nil {
		return fmt.Errorf("get token: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("catalog request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if resp.StatusCode == http.StatusUnauthorized {
			return domain.ErrAuthInvalid
		}
		return fmt.Errorf("catalog request failed with status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) uploadURL() string {
	return fmt.Sprintf("%s/v1alpha/namespaces/%s/catalogs/%s/files",
		c.cfg.BaseURL, c.cfg.NamespaceID, c.cfg.CatalogID)
}

func (c *Client) processURL() string {
	return c.cfg.BaseURL + "/v1alpha/catalogs/files/processAsync"
}
