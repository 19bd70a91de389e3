package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kochabx/rsalab/errors"
	"github.com/kochabx/rsalab/lab"
	"github.com/kochabx/rsalab/transport/http/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope[T any] struct {
	Code    int    `json:"code"`
	Data    T      `json:"data"`
	Message string `json:"message"`
}

func newRouter(t *testing.T, svcOpts []lab.Option, opts ...Option) *gin.Engine {
	t.Helper()
	svc, err := lab.NewService(lab.Settings{
		MinPrimeBitLength: 16,
		MaxPrimeBitLength: 512,
		DefaultBitLength:  64,
	}, svcOpts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Close(time.Second) })

	r := gin.New()
	NewHandler(svc, opts...).Register(r)
	return r
}

func call[T any](t *testing.T, r *gin.Engine, method, path string, body any) (int, envelope[T]) {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope[T]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

func TestKeyAndCryptoFlow(t *testing.T) {
	r := newRouter(t, nil)

	_, status := call[PrimesStatusResponse](t, r, http.MethodGet, "/api/v1/primes/current", nil)
	assert.Equal(t, "no_primes", status.Data.Status)

	_, primes := call[GeneratePrimesResponse](t, r, http.MethodPost, "/api/v1/primes/generate",
		GeneratePrimesRequest{BitLength: 128, MillerRabinRounds: 10})
	require.Equal(t, http.StatusOK, primes.Code, primes.Message)
	assert.NotEmpty(t, primes.Data.P)
	assert.NotEqual(t, primes.Data.P, primes.Data.Q)
	assert.Equal(t, 128, primes.Data.BitLength)
	assert.InDelta(t, 9.5367431640625e-07, primes.Data.ErrorProbability, 1e-18)

	_, status = call[PrimesStatusResponse](t, r, http.MethodGet, "/api/v1/primes/current", nil)
	assert.Equal(t, "primes_available", status.Data.Status)
	assert.Equal(t, 128, status.Data.PBitLength)

	_, keys := call[KeysResponse](t, r, http.MethodPost, "/api/v1/keys/generate", nil)
	require.Equal(t, http.StatusOK, keys.Code, keys.Message)
	assert.NotEmpty(t, keys.Data.PublicKey.E)
	assert.Equal(t, keys.Data.PublicKey.N, keys.Data.PrivateKey.N)
	assert.NotEmpty(t, keys.Data.Parameters.PhiN)
	assert.Equal(t, "Weak (Educational only)", keys.Data.KeyStrength)

	_, current := call[map[string]any](t, r, http.MethodGet, "/api/v1/keys/current", nil)
	assert.Equal(t, "keys_available", current.Data["status"])
	assert.NotContains(t, current.Data, "private_key")
	info := current.Data["key_info"].(map[string]any)
	assert.Equal(t, true, info["is_valid"])

	_, valid := call[ValidateKeysResponse](t, r, http.MethodPost, "/api/v1/keys/validate", nil)
	assert.True(t, valid.Data.IsValid)

	_, enc := call[EncryptResponse](t, r, http.MethodPost, "/api/v1/crypto/encrypt-with-stored-keys",
		EncryptStoredRequest{Message: "Hello RSA!"})
	require.Equal(t, http.StatusOK, enc.Code, enc.Message)
	assert.Equal(t, 10, enc.Data.MessageLength)
	assert.Equal(t, len(enc.Data.EncryptedBlocks), enc.Data.TotalBlocks)

	_, dec := call[DecryptResponse](t, r, http.MethodPost, "/api/v1/crypto/decrypt-with-stored-keys",
		DecryptStoredRequest{EncryptedBlocks: enc.Data.EncryptedBlocks})
	require.Equal(t, http.StatusOK, dec.Code, dec.Message)
	assert.Equal(t, "Hello RSA!", dec.Data.DecryptedMessage)
	assert.True(t, dec.Data.Success)

	_, cleared := call[MessageResponse](t, r, http.MethodDelete, "/api/v1/primes/clear", nil)
	assert.Equal(t, "Primes and keypairs cleared", cleared.Data.Message)
	_, current = call[map[string]any](t, r, http.MethodGet, "/api/v1/keys/current", nil)
	assert.Equal(t, "no_keys", current.Data["status"])
}

func TestExplicitKeyEncryptDecrypt(t *testing.T) {
	r := newRouter(t, nil)

	_, enc := call[EncryptResponse](t, r, http.MethodPost, "/api/v1/crypto/encrypt",
		EncryptRequest{Message: "A", N: "3233", E: "17"})
	require.Equal(t, http.StatusOK, enc.Code, enc.Message)
	assert.Equal(t, []string{"2790"}, enc.Data.EncryptedBlocks)
	assert.Equal(t, BlockInfo{
		BlockNumber:    1,
		OriginalValue:  "65",
		EncryptedValue: "2790",
		OriginalHex:    "0x41",
		EncryptedHex:   "0xae6",
	}, enc.Data.BlockInfo[0])

	_, dec := call[DecryptResponse](t, r, http.MethodPost, "/api/v1/crypto/decrypt",
		DecryptRequest{EncryptedBlocks: []string{"2790"}, N: "3233", D: "2753"})
	require.Equal(t, http.StatusOK, dec.Code, dec.Message)
	assert.Equal(t, "A", dec.Data.DecryptedMessage)
	assert.Equal(t, 1, dec.Data.BlockCount)
}

func TestErrorResponses(t *testing.T) {
	r := newRouter(t, nil)

	cases := []struct {
		name    string
		method  string
		path    string
		body    any
		code    int
		message string
	}{
		{"unaligned bit length", http.MethodPost, "/api/v1/primes/generate", GeneratePrimesRequest{BitLength: 100}, 400, "invalid parameters"},
		{"bit length out of range", http.MethodPost, "/api/v1/primes/generate", GeneratePrimesRequest{BitLength: 1024}, 400, "lab: invalid request"},
		{"keys without primes", http.MethodPost, "/api/v1/keys/generate", nil, 400, "no primes available, generate primes first"},
		{"validate without keys", http.MethodPost, "/api/v1/keys/validate", nil, 400, "no keys available, generate keys first"},
		{"stored encrypt without keys", http.MethodPost, "/api/v1/crypto/encrypt-with-stored-keys", EncryptStoredRequest{Message: "hi"}, 400, "no keys available, generate keys first"},
		{"malformed json", http.MethodPost, "/api/v1/crypto/encrypt", `{"message":`, 400, "invalid request body"},
		{"non-numeric modulus", http.MethodPost, "/api/v1/crypto/encrypt", EncryptRequest{Message: "A", N: "abc", E: "17"}, 400, "invalid parameters"},
		{"fractional modulus", http.MethodPost, "/api/v1/crypto/encrypt", EncryptRequest{Message: "A", N: "1.5", E: "17"}, 400, "invalid parameters"},
		{"empty message", http.MethodPost, "/api/v1/crypto/encrypt", EncryptRequest{N: "3233", E: "17"}, 400, "invalid parameters"},
		{"block overflow", http.MethodPost, "/api/v1/crypto/decrypt", DecryptRequest{EncryptedBlocks: []string{"3233"}, N: "3233", D: "2753"}, 400, "rsa: block value out of range for modulus"},
		{"no blocks", http.MethodPost, "/api/v1/crypto/decrypt", DecryptRequest{EncryptedBlocks: []string{}, N: "3233", D: "2753"}, 400, "invalid parameters"},
		{"bad limit", http.MethodGet, "/api/v1/operations?limit=ten", nil, 400, "invalid parameters"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, env := call[map[string]string](t, r, tc.method, tc.path, tc.body)
			assert.Equal(t, http.StatusOK, status)
			assert.Equal(t, tc.code, env.Code)
			assert.Equal(t, tc.message, env.Message)
		})
	}
}

func TestValidationMetadata(t *testing.T) {
	r := newRouter(t, nil)

	_, env := call[map[string]string](t, r, http.MethodPost, "/api/v1/crypto/encrypt",
		EncryptRequest{Message: "A", N: "1.5", E: "17"})
	assert.Equal(t, "must be a non-negative decimal integer", env.Data["n"])

	_, env = call[map[string]string](t, r, http.MethodPost, "/api/v1/primes/generate",
		GeneratePrimesRequest{BitLength: 1024})
	assert.Contains(t, env.Data, "bit_length")
}

func TestOperandDigitLimit(t *testing.T) {
	r := newRouter(t, nil)
	// primes of at most 512 bits give moduli of at most 1024 bits, 309 digits
	wide := "1" + strings.Repeat("0", 309)

	_, env := call[map[string]string](t, r, http.MethodPost, "/api/v1/crypto/encrypt",
		EncryptRequest{Message: "A", N: wide, E: "17"})
	assert.Equal(t, http.StatusBadRequest, env.Code)
	assert.Equal(t, "must be at most 309 digits", env.Data["n"])

	_, env = call[map[string]string](t, r, http.MethodPost, "/api/v1/crypto/decrypt",
		DecryptRequest{EncryptedBlocks: []string{"2790", wide}, N: "3233", D: "2753"})
	assert.Equal(t, http.StatusBadRequest, env.Code)
	assert.Equal(t, "must be at most 309 digits", env.Data["encrypted_blocks[1]"])

	_, env = call[map[string]string](t, r, http.MethodPost, "/api/v1/crypto/decrypt",
		DecryptRequest{EncryptedBlocks: []string{"2790"}, N: "3233", D: wide})
	assert.Equal(t, "must be at most 309 digits", env.Data["d"])
}

func TestGenerateLimiter(t *testing.T) {
	deny := func(c *gin.Context) {
		response.GinJSONE(c, errors.TooManyRequests("too many requests"))
	}
	r := newRouter(t, nil, WithGenerateLimiter(deny))

	_, env := call[any](t, r, http.MethodPost, "/api/v1/primes/generate", GeneratePrimesRequest{BitLength: 64})
	assert.Equal(t, http.StatusTooManyRequests, env.Code)

	// other endpoints are not limited
	_, status := call[PrimesStatusResponse](t, r, http.MethodGet, "/api/v1/primes/current", nil)
	assert.Equal(t, http.StatusOK, status.Code)
}

func TestOperations(t *testing.T) {
	r := newRouter(t, nil)

	call[any](t, r, http.MethodPost, "/api/v1/keys/generate", nil)

	// the journal is disabled by default
	_, env := call[map[string]any](t, r, http.MethodGet, "/api/v1/operations?limit=5", nil)
	assert.Equal(t, http.StatusOK, env.Code)
	assert.Equal(t, float64(0), env.Data["count"])
}

func TestHealthEndpoints(t *testing.T) {
	var probeErr error
	r := newRouter(t, []lab.Option{
		lab.WithVersion("test"),
		lab.WithProbe("redis", func(context.Context) error { return probeErr }),
	})

	_, health := call[lab.Health](t, r, http.MethodGet, "/api/v1/health", nil)
	assert.Equal(t, "healthy", health.Data.Status)
	assert.False(t, health.Data.PrimesAvailable)

	_, live := call[lab.Liveness](t, r, http.MethodGet, "/api/v1/health/live", nil)
	assert.Equal(t, "test", live.Data.Version)

	status, ready := call[lab.Readiness](t, r, http.MethodGet, "/api/v1/health/ready", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, ready.Data.Ready)

	probeErr = errors.ServiceUnavailable("redis down")
	status, ready = call[lab.Readiness](t, r, http.MethodGet, "/api/v1/health/ready", nil)
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, http.StatusServiceUnavailable, ready.Code)
	assert.Equal(t, "unavailable", ready.Data.Components["redis"])

	_, root := call[map[string]any](t, r, http.MethodGet, "/api/v1", nil)
	assert.Equal(t, "RSA Cryptography API", root.Data["message"])
}
