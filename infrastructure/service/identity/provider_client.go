package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sefworks/partner-portal/application/port/outbound"
	"github.com/sefworks/partner-portal/domain/entity"
)

// ProviderClient talks to the hosted identity service's admin API with
// the service key, and verifies session tokens locally with the
// provider's JWT secret. It implements the IdentityProvider port.
type ProviderClient struct {
	baseURL    string
	serviceKey string
	jwtSecret  []byte
	logger     outbound.Logger
	httpClient *http.Client
}

func NewProviderClient(baseURL, serviceKey, jwtSecret string, timeout time.Duration, log outbound.Logger) *ProviderClient {
	return &ProviderClient{
		baseURL:    baseURL,
		serviceKey: serviceKey,
		jwtSecret:  []byte(jwtSecret),
		logger:     log,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type createUserRequest struct {
	Email        string            `json:"email"`
	Password     string            `json:"password"`
	EmailConfirm bool              `json:"email_confirm"`
	UserMetadata map[string]string `json:"user_metadata,omitempty"`
}

type createUserResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type generateLinkRequest struct {
	Type  string `json:"type"`
	Email string `json:"email"`
}

type generateLinkResponse struct {
	ActionLink string `json:"action_link"`
}

func (c *ProviderClient) CreateIdentity(ctx context.Context, email, tempCredential string, metadata map[string]string) (*entity.Identity, error) {
	body := createUserRequest{
		Email:        email,
		Password:     tempCredential,
		EmailConfirm: true,
		UserMetadata: metadata,
	}

	var result createUserResponse
	status, err := c.doJSON(ctx, http.MethodPost, "/admin/users", body, &result)
	if err != nil {
		return nil, err
	}
	if status == http.StatusConflict || status == http.StatusUnprocessableEntity {
		return nil, outbound.ErrEmailTaken
	}
	if status != http.StatusOK && status != http.StatusCreated {
		return nil, fmt.Errorf("identity provider returned status %d for create user", status)
	}

	c.logger.Info(ctx, "identity created at provider", map[string]interface{}{
		"identity_id": result.ID,
	})

	return entity.NewIdentity(result.ID, result.Email, metadata["full_name"]), nil
}

func (c *ProviderClient) DeleteIdentity(ctx context.Context, id string) error {
	status, err := c.doJSON(ctx, http.MethodDelete, "/admin/users/"+id, nil, nil)
	if err != nil {
		return err
	}
	if status == http.StatusNotFound {
		return outbound.ErrIdentityNotFound
	}
	if status != http.StatusOK && status != http.StatusNoContent {
		return fmt.Errorf("identity provider returned status %d for delete user", status)
	}
	return nil
}

func (c *ProviderClient) GenerateRecoveryLink(ctx context.Context, email string) (string, error) {
	body := generateLinkRequest{
		Type:  "recovery",
		Email: email,
	}

	var result generateLinkResponse
	status, err := c.doJSON(ctx, http.MethodPost, "/admin/generate_link", body, &result)
	if err != nil {
		return "", err
	}
	if status != http.StatusOK {
		return "", fmt.Errorf("identity provider returned status %d for generate link", status)
	}
	if result.ActionLink == "" {
		return "", fmt.Errorf("identity provider returned empty recovery link")
	}
	return result.ActionLink, nil
}

// GetCurrentIdentity verifies a session token against the provider's
// JWT secret. Verification is local, no network call. A token that
// fails verification means no session, not an error.
func (c *ProviderClient) GetCurrentIdentity(ctx context.Context, sessionToken string) (*entity.Identity, error) {
	if sessionToken == "" {
		return nil, nil
	}

	token, err := jwt.Parse(sessionToken, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return c.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		c.logger.Debug(ctx, "session token rejected", map[string]interface{}{})
		return nil, nil
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, nil
	}

	sub, _ := claims["sub"].(string)
	email, _ := claims["email"].(string)
	if sub == "" || email == "" {
		return nil, nil
	}

	displayName := ""
	if meta, ok := claims["user_metadata"].(map[string]interface{}); ok {
		if name, ok := meta["full_name"].(string); ok {
			displayName = name
		}
	}

	return entity.NewIdentity(sub, email, displayName), nil
}

// doJSON executes one admin API call and decodes the response into out
// when a body is expected. The returned status lets callers map
// provider semantics (conflict, not found) themselves.
func (c *ProviderClient) doJSON(ctx context.Context, method, path string, body interface{}, out interface{}) (int, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("failed to encode provider request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, fmt.Errorf("failed to create provider request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("identity provider unavailable: %w", err)
	}
	defer resp.Body.Close()

	if out != nil && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("failed to decode provider response: %w", err)
		}
	}
	return resp.StatusCode, nil
}
