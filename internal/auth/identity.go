package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// ExternalIdentity is what the OTP provider asserts about a caller.
type ExternalIdentity struct {
	ExternalID string `json:"external_id"`
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phone,omitempty"`
}

// IdentityVerifier exchanges an external credential assertion for a verified
// identity. The provider is an opaque collaborator.
type IdentityVerifier interface {
	VerifyAssertion(ctx context.Context, assertion string) (*ExternalIdentity, error)
}

// HTTPIdentityVerifier verifies assertions against a remote endpoint.
type HTTPIdentityVerifier struct {
	endpoint string
	client   *http.Client
}

// NewHTTPIdentityVerifier creates a verifier with a bounded request timeout.
func NewHTTPIdentityVerifier(endpoint string) *HTTPIdentityVerifier {
	return &HTTPIdentityVerifier{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// VerifyAssertion posts the assertion to the provider and decodes the identity.
func (v *HTTPIdentityVerifier) VerifyAssertion(ctx context.Context, assertion string) (*ExternalIdentity, error) {
	body, err := json.Marshal(map[string]string{"assertion": assertion})
	if err != nil {
		return nil, fmt.Errorf("marshal assertion: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build verify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("verify assertion: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("identity provider returned status %d", resp.StatusCode)
	}

	var identity ExternalIdentity
	if err := json.NewDecoder(resp.Body).Decode(&identity); err != nil {
		return nil, fmt.Errorf("decode identity: %w", err)
	}
	if identity.ExternalID == "" {
		return nil, fmt.Errorf("identity provider returned empty external id")
	}
	return &identity, nil
}
