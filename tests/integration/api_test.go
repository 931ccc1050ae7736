package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"picpay-wallet/internal/adapter/authorizer"
	httpHandler "picpay-wallet/internal/adapter/http/handler"
	redisStorage "picpay-wallet/internal/adapter/storage/redis"
	"picpay-wallet/internal/service"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Authorizer modes for the fake authorization endpoint.
const (
	authApprove int32 = iota
	authDecline
	authFail
)

// testApp wires the real HTTP layer, services, redis wallet cache
// (miniredis) and authorizer client (httptest) over in-memory repos.
type testApp struct {
	server       *httptest.Server
	authMode     *int32
	walletRepo   *inMemoryWalletRepo
	transferRepo *inMemoryTransferRepo
	redis        *miniredis.Miniredis
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})

	var authMode int32
	authSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch atomic.LoadInt32(&authMode) {
		case authDecline:
			_, _ = w.Write([]byte(`{"authorized": false}`))
		case authFail:
			w.WriteHeader(http.StatusInternalServerError)
		default:
			_, _ = w.Write([]byte(`{"authorized": true}`))
		}
	}))
	t.Cleanup(authSrv.Close)

	walletRepo := newInMemoryWalletRepo()
	transferRepo := newInMemoryTransferRepo()
	transactor := newSerialTransactor()
	walletCache := redisStorage.NewWalletCache(rdb)
	authz := authorizer.NewClient(authSrv.Client(), authSrv.URL, zerolog.Nop())

	hashSvc := service.NewArgon2HashService()
	walletSvc := service.NewWalletService(walletRepo, walletCache, hashSvc, zerolog.Nop())
	transferSvc := service.NewTransferService(walletRepo, transferRepo, transactor, authz, walletCache, zerolog.Nop())

	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		WalletSvc:   walletSvc,
		TransferSvc: transferSvc,
		Logger:      zerolog.Nop(),
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &testApp{
		server:       srv,
		authMode:     &authMode,
		walletRepo:   walletRepo,
		transferRepo: transferRepo,
		redis:        mr,
	}
}

func (a *testApp) setAuthMode(mode int32) {
	atomic.StoreInt32(a.authMode, mode)
}

func (a *testApp) postJSON(t *testing.T, path string, body any) (*http.Response, map[string]any) {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(a.server.URL+path, "application/json", bytes.NewReader(raw))
	require.NoError(t, err)
	return resp, decodeBody(t, resp)
}

func (a *testApp) get(t *testing.T, path string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Get(a.server.URL + path)
	require.NoError(t, err)
	return resp, decodeBody(t, resp)
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

// createWallet registers a wallet through the API and returns its id.
func (a *testApp) createWallet(t *testing.T, fullName, doc, email string, walletType int64) int64 {
	t.Helper()
	resp, body := a.postJSON(t, "/api/v1/wallets", map[string]any{
		"full_name":   fullName,
		"cpf_cnpj":    doc,
		"email":       email,
		"password":    "s3cret-pass",
		"wallet_type": walletType,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, "body: %v", body)
	data := body["data"].(map[string]any)
	return int64(data["id"].(float64))
}

// fund sets a wallet balance directly in storage, bypassing the API, and
// drops any cached snapshot taken at creation time.
func (a *testApp) fund(t *testing.T, walletID, balance int64) {
	t.Helper()
	require.NoError(t, a.walletRepo.UpdateBalance(context.Background(), &noopTx{}, walletID, balance))
	a.redis.FlushAll()
}

func transferBody(payer, payee, value int64) map[string]any {
	return map[string]any{"payer": payer, "payee": payee, "value": value}
}

// --- Wallet API ---

func TestAPI_CreateWallet(t *testing.T) {
	app := newTestApp(t)

	resp, body := app.postJSON(t, "/api/v1/wallets", map[string]any{
		"full_name":   "Joana Silva",
		"cpf_cnpj":    "529.982.247-25",
		"email":       "joana@example.com",
		"password":    "s3cret-pass",
		"wallet_type": 1,
	})

	require.Equal(t, http.StatusCreated, resp.StatusCode)
	data := body["data"].(map[string]any)
	assert.Equal(t, "52998224725", data["cpf_cnpj"], "document is stored normalized")
	assert.Equal(t, "user", data["wallet_type"])
	assert.Equal(t, float64(0), data["balance"])
	_, hasPassword := data["password"]
	assert.False(t, hasPassword)
}

func TestAPI_CreateWallet_RejectsInvalidDocument(t *testing.T) {
	app := newTestApp(t)

	resp, body := app.postJSON(t, "/api/v1/wallets", map[string]any{
		"full_name":   "Joana Silva",
		"cpf_cnpj":    "529.982.247-26",
		"email":       "joana@example.com",
		"password":    "s3cret-pass",
		"wallet_type": 1,
	})

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "body: %v", body)
}

func TestAPI_CreateWallet_DuplicateDocument(t *testing.T) {
	app := newTestApp(t)
	app.createWallet(t, "Joana Silva", "52998224725", "joana@example.com", 1)

	// Same document behind a mask, different email.
	resp, body := app.postJSON(t, "/api/v1/wallets", map[string]any{
		"full_name":   "Joana Again",
		"cpf_cnpj":    "529.982.247-25",
		"email":       "other@example.com",
		"password":    "s3cret-pass",
		"wallet_type": 1,
	})

	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "WAL_002", body["error_code"])
}

func TestAPI_GetWallet(t *testing.T) {
	app := newTestApp(t)
	id := app.createWallet(t, "Joana Silva", "52998224725", "joana@example.com", 1)
	app.fund(t, id, 7500)

	resp, body := app.get(t, fmt.Sprintf("/api/v1/wallets/%d", id))

	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]any)
	assert.Equal(t, float64(7500), data["balance"])
}

func TestAPI_GetWallet_NotFound(t *testing.T) {
	app := newTestApp(t)

	resp, body := app.get(t, "/api/v1/wallets/999")

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "WAL_003", body["error_code"])
}

// --- Transfer API ---

func TestAPI_Transfer_Success(t *testing.T) {
	app := newTestApp(t)
	payer := app.createWallet(t, "Joana Silva", "52998224725", "joana@example.com", 1)
	payee := app.createWallet(t, "Loja do Centro", "11222333000181", "loja@example.com", 2)
	app.fund(t, payer, 10000)

	resp, body := app.postJSON(t, "/api/v1/transfer", transferBody(payer, payee, 6000))

	require.Equal(t, http.StatusCreated, resp.StatusCode, "body: %v", body)
	data := body["data"].(map[string]any)
	assert.Equal(t, float64(6000), data["value"])

	// Balances moved atomically.
	_, payerBody := app.get(t, fmt.Sprintf("/api/v1/wallets/%d", payer))
	_, payeeBody := app.get(t, fmt.Sprintf("/api/v1/wallets/%d", payee))
	assert.Equal(t, float64(4000), payerBody["data"].(map[string]any)["balance"])
	assert.Equal(t, float64(6000), payeeBody["data"].(map[string]any)["balance"])
}

func TestAPI_Transfer_InvalidatesCachedBalances(t *testing.T) {
	app := newTestApp(t)
	payer := app.createWallet(t, "Joana Silva", "52998224725", "joana@example.com", 1)
	payee := app.createWallet(t, "Maria Souza", "11144477735", "maria@example.com", 1)
	app.fund(t, payer, 10000)

	// Prime the cache with pre-transfer balances.
	app.get(t, fmt.Sprintf("/api/v1/wallets/%d", payer))
	app.get(t, fmt.Sprintf("/api/v1/wallets/%d", payee))

	resp, _ := app.postJSON(t, "/api/v1/transfer", transferBody(payer, payee, 2500))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	_, payerBody := app.get(t, fmt.Sprintf("/api/v1/wallets/%d", payer))
	_, payeeBody := app.get(t, fmt.Sprintf("/api/v1/wallets/%d", payee))
	assert.Equal(t, float64(7500), payerBody["data"].(map[string]any)["balance"], "stale cache must not survive a transfer")
	assert.Equal(t, float64(2500), payeeBody["data"].(map[string]any)["balance"])
}

func TestAPI_Transfer_InsufficientFunds(t *testing.T) {
	app := newTestApp(t)
	payer := app.createWallet(t, "Joana Silva", "52998224725", "joana@example.com", 1)
	payee := app.createWallet(t, "Maria Souza", "11144477735", "maria@example.com", 1)
	app.fund(t, payer, 100)

	resp, body := app.postJSON(t, "/api/v1/transfer", transferBody(payer, payee, 200))

	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "TRF_001", body["error_code"])
	assert.Equal(t, 0, app.transferRepo.count())
}

func TestAPI_Transfer_MerchantPayerForbidden(t *testing.T) {
	app := newTestApp(t)
	merchant := app.createWallet(t, "Loja do Centro", "11222333000181", "loja@example.com", 2)
	payee := app.createWallet(t, "Joana Silva", "52998224725", "joana@example.com", 1)
	app.fund(t, merchant, 100000)

	resp, body := app.postJSON(t, "/api/v1/transfer", transferBody(merchant, payee, 100))

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "TRF_003", body["error_code"])
}

func TestAPI_Transfer_SelfTransferRejected(t *testing.T) {
	app := newTestApp(t)
	payer := app.createWallet(t, "Joana Silva", "52998224725", "joana@example.com", 1)
	app.fund(t, payer, 10000)

	resp, body := app.postJSON(t, "/api/v1/transfer", transferBody(payer, payer, 100))

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "TRF_002", body["error_code"])
}

func TestAPI_Transfer_Declined(t *testing.T) {
	app := newTestApp(t)
	payer := app.createWallet(t, "Joana Silva", "52998224725", "joana@example.com", 1)
	payee := app.createWallet(t, "Maria Souza", "11144477735", "maria@example.com", 1)
	app.fund(t, payer, 10000)
	app.setAuthMode(authDecline)

	resp, body := app.postJSON(t, "/api/v1/transfer", transferBody(payer, payee, 100))

	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "TRF_004", body["error_code"])

	// Declined transfers leave balances untouched.
	_, payerBody := app.get(t, fmt.Sprintf("/api/v1/wallets/%d", payer))
	assert.Equal(t, float64(10000), payerBody["data"].(map[string]any)["balance"])
}

func TestAPI_Transfer_AuthorizerDown(t *testing.T) {
	app := newTestApp(t)
	payer := app.createWallet(t, "Joana Silva", "52998224725", "joana@example.com", 1)
	payee := app.createWallet(t, "Maria Souza", "11144477735", "maria@example.com", 1)
	app.fund(t, payer, 10000)
	app.setAuthMode(authFail)

	resp, body := app.postJSON(t, "/api/v1/transfer", transferBody(payer, payee, 100))

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "TRF_005", body["error_code"])
	assert.Equal(t, 0, app.transferRepo.count())
}

func TestAPI_Transfer_UnknownWallet(t *testing.T) {
	app := newTestApp(t)
	payer := app.createWallet(t, "Joana Silva", "52998224725", "joana@example.com", 1)
	app.fund(t, payer, 10000)

	resp, body := app.postJSON(t, "/api/v1/transfer", transferBody(payer, 999, 100))

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "WAL_003", body["error_code"])
}

// --- Transfer lookup API ---

func TestAPI_GetTransferAndHistory(t *testing.T) {
	app := newTestApp(t)
	payer := app.createWallet(t, "Joana Silva", "52998224725", "joana@example.com", 1)
	payee := app.createWallet(t, "Maria Souza", "11144477735", "maria@example.com", 1)
	app.fund(t, payer, 10000)

	resp, body := app.postJSON(t, "/api/v1/transfer", transferBody(payer, payee, 1500))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	transferID := body["data"].(map[string]any)["id"].(string)

	resp, body = app.get(t, "/api/v1/transfers/"+transferID)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, transferID, body["data"].(map[string]any)["id"])

	// History is visible from both sides.
	for _, id := range []int64{payer, payee} {
		resp, body = app.get(t, fmt.Sprintf("/api/v1/wallets/%d/transfers", id))
		require.Equal(t, http.StatusOK, resp.StatusCode)
		items := body["data"].(map[string]any)["items"].([]any)
		assert.Len(t, items, 1, "wallet %d", id)
	}
}

func TestAPI_GetTransfer_NotFound(t *testing.T) {
	app := newTestApp(t)

	resp, body := app.get(t, "/api/v1/transfers/6a2f9a0e-0b0a-4f2a-9a7e-3f4f6d8b1c2d")

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "TRF_006", body["error_code"])
}
