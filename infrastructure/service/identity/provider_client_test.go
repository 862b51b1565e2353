package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"

	"github.com/sefworks/partner-portal/application/port/outbound"
)

const testSecret = "test-jwt-secret"

type nopLogger struct{}

func (n nopLogger) Info(context.Context, string, map[string]interface{})         {}
func (n nopLogger) Error(context.Context, string, error, map[string]interface{}) {}
func (n nopLogger) Warn(context.Context, string, map[string]interface{})         {}
func (n nopLogger) Debug(context.Context, string, map[string]interface{})        {}
func (n nopLogger) WithFields(map[string]interface{}) outbound.Logger            { return n }

func newTestClient(serverURL string) *ProviderClient {
	return NewProviderClient(serverURL, "service-key", testSecret, 5*time.Second, nopLogger{})
}

func signSessionToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	assert.NoError(t, err)
	return signed
}

func TestCreateIdentity_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/admin/users", r.URL.Path)
		assert.Equal(t, "Bearer service-key", r.Header.Get("Authorization"))

		var body createUserRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "a@x.com", body.Email)
		assert.True(t, body.EmailConfirm)
		assert.NotEmpty(t, body.Password)

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(createUserResponse{ID: "id-1", Email: body.Email})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	identity, err := client.CreateIdentity(context.Background(), "a@x.com", "Sef-temp", map[string]string{"full_name": "A"})

	assert.NoError(t, err)
	assert.Equal(t, "id-1", identity.ID)
	assert.Equal(t, "a@x.com", identity.Email)
	assert.Equal(t, "A", identity.DisplayName)
}

func TestCreateIdentity_ConflictMapsToEmailTaken(t *testing.T) {
	for _, status := range []int{http.StatusConflict, http.StatusUnprocessableEntity} {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))

		client := newTestClient(server.URL)
		_, err := client.CreateIdentity(context.Background(), "a@x.com", "Sef-temp", nil)

		assert.ErrorIs(t, err, outbound.ErrEmailTaken)
		server.Close()
	}
}

func TestCreateIdentity_ProviderDown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close()

	client := newTestClient(server.URL)
	_, err := client.CreateIdentity(context.Background(), "a@x.com", "Sef-temp", nil)

	assert.Error(t, err)
}

func TestDeleteIdentity_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/admin/users/id-1", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	assert.NoError(t, client.DeleteIdentity(context.Background(), "id-1"))
}

func TestDeleteIdentity_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	err := client.DeleteIdentity(context.Background(), "ghost")

	assert.ErrorIs(t, err, outbound.ErrIdentityNotFound)
}

func TestGenerateRecoveryLink_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/admin/generate_link", r.URL.Path)

		var body generateLinkRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "recovery", body.Type)
		assert.Equal(t, "a@x.com", body.Email)

		json.NewEncoder(w).Encode(generateLinkResponse{ActionLink: "https://id.example/recover?token=abc"})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	link, err := client.GenerateRecoveryLink(context.Background(), "a@x.com")

	assert.NoError(t, err)
	assert.Equal(t, "https://id.example/recover?token=abc", link)
}

func TestGenerateRecoveryLink_EmptyLinkIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(generateLinkResponse{})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.GenerateRecoveryLink(context.Background(), "a@x.com")

	assert.Error(t, err)
}

func TestGetCurrentIdentity_ValidToken(t *testing.T) {
	client := newTestClient("http://unused")
	token := signSessionToken(t, testSecret, jwt.MapClaims{
		"sub":   "id-1",
		"email": "a@x.com",
		"user_metadata": map[string]interface{}{
			"full_name": "A Person",
		},
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	identity, err := client.GetCurrentIdentity(context.Background(), token)

	assert.NoError(t, err)
	assert.Equal(t, "id-1", identity.ID)
	assert.Equal(t, "a@x.com", identity.Email)
	assert.Equal(t, "A Person", identity.DisplayName)
}

func TestGetCurrentIdentity_RejectedTokensMeanNoSession(t *testing.T) {
	client := newTestClient("http://unused")

	validClaims := jwt.MapClaims{
		"sub":   "id-1",
		"email": "a@x.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	}

	cases := map[string]string{
		"empty token":  "",
		"garbage":      "not.a.jwt",
		"wrong secret": signSessionToken(t, "other-secret", validClaims),
		"expired": signSessionToken(t, testSecret, jwt.MapClaims{
			"sub":   "id-1",
			"email": "a@x.com",
			"exp":   time.Now().Add(-time.Hour).Unix(),
		}),
		"missing subject": signSessionToken(t, testSecret, jwt.MapClaims{
			"email": "a@x.com",
			"exp":   time.Now().Add(time.Hour).Unix(),
		}),
	}

	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			identity, err := client.GetCurrentIdentity(context.Background(), token)
			assert.NoError(t, err)
			assert.Nil(t, identity)
		})
	}
}

func TestGetCurrentIdentity_RejectsNonHMACSignature(t *testing.T) {
	client := newTestClient("http://unused")

	// alg=none token, header and claims base64 encoded with an empty
	// signature.
	token := jwt.New(jwt.SigningMethodNone)
	token.Claims = jwt.MapClaims{"sub": "id-1", "email": "a@x.com"}
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	assert.NoError(t, err)

	identity, err := client.GetCurrentIdentity(context.Background(), signed)

	assert.NoError(t, err)
	assert.Nil(t, identity)
}
