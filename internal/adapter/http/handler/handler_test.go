package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"digital-wallet-backend/internal/adapter/http/handler"
	"digital-wallet-backend/internal/core/domain"
	"digital-wallet-backend/internal/core/ports"
	"digital-wallet-backend/internal/core/ports/mocks"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type routerTestDeps struct {
	authSvc      *mocks.MockAuthService
	accountSvc   *mocks.MockAccountService
	transferSvc  *mocks.MockTransferService
	reconcileSvc *mocks.MockReconcileService
	reportingSvc *mocks.MockReportingService
	tokenSvc     *mocks.MockTokenService
	gateways     *mocks.MockGatewaySelector
	normalizer   *mocks.MockWebhookNormalizer
}

func setupRouter(t *testing.T) (http.Handler, routerTestDeps) {
	t.Helper()
	ctrl := gomock.NewController(t)
	deps := routerTestDeps{
		authSvc:      mocks.NewMockAuthService(ctrl),
		accountSvc:   mocks.NewMockAccountService(ctrl),
		transferSvc:  mocks.NewMockTransferService(ctrl),
		reconcileSvc: mocks.NewMockReconcileService(ctrl),
		reportingSvc: mocks.NewMockReportingService(ctrl),
		tokenSvc:     mocks.NewMockTokenService(ctrl),
		gateways:     mocks.NewMockGatewaySelector(ctrl),
		normalizer:   mocks.NewMockWebhookNormalizer(ctrl),
	}
	deps.normalizer.EXPECT().Provider().Return(domain.ProviderPaystack).AnyTimes()

	r := handler.SetupRouter(handler.RouterDeps{
		AuthSvc:      deps.authSvc,
		AccountSvc:   deps.accountSvc,
		TransferSvc:  deps.transferSvc,
		ReconcileSvc: deps.reconcileSvc,
		ReportingSvc: deps.reportingSvc,
		TokenSvc:     deps.tokenSvc,
		Gateways:     deps.gateways,
		Normalizers:  []ports.WebhookNormalizer{deps.normalizer},
		Logger:       zerolog.Nop(),
	})
	return r, deps
}

func authorize(deps routerTestDeps, userID uuid.UUID) {
	deps.tokenSvc.EXPECT().Validate("valid-token").
		Return(&ports.TokenClaims{UserID: userID, Email: "ada@example.com"}, nil)
}

func doJSON(r http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestLogin_Success(t *testing.T) {
	r, deps := setupRouter(t)

	expiry := time.Now().Add(24 * time.Hour)
	deps.authSvc.EXPECT().Login(gomock.Any(), "ada@example.com", "secretpass").
		Return("jwt-token", expiry, nil)

	w := doJSON(r, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "ada@example.com",
		"password": "secretpass",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "jwt-token")
}

func TestLogin_MissingFields(t *testing.T) {
	r, _ := setupRouter(t)

	w := doJSON(r, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": "ada@example.com",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VAL_001")
}

func TestCreateAccount_Success(t *testing.T) {
	r, deps := setupRouter(t)

	userID := uuid.New()
	authorize(deps, userID)
	deps.accountSvc.EXPECT().CreateAccount(gomock.Any(), userID, "NGN").
		Return(&domain.Account{
			ID:                     uuid.New(),
			UserID:                 userID,
			Currency:               "NGN",
			Balance:                decimal.Zero,
			Enabled:                true,
			Provider:               domain.ProviderPaystack,
			DedicatedAccountNumber: "9012345678",
			DedicatedBankName:      "Wema Bank",
			CreatedAt:              time.Now().UTC(),
		}, nil)

	w := doJSON(r, http.MethodPost, "/api/v1/accounts", "valid-token", map[string]string{
		"currency": "NGN",
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "9012345678")
}

func TestCreateAccount_Unauthenticated(t *testing.T) {
	r, _ := setupRouter(t)

	w := doJSON(r, http.MethodPost, "/api/v1/accounts", "", map[string]string{"currency": "NGN"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateAccount_BadCurrency(t *testing.T) {
	r, deps := setupRouter(t)

	authorize(deps, uuid.New())
	w := doJSON(r, http.MethodPost, "/api/v1/accounts", "valid-token", map[string]string{
		"currency": "naira",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestValidateTransfer_Success(t *testing.T) {
	r, deps := setupRouter(t)

	userID := uuid.New()
	senderID := uuid.New()
	authorize(deps, userID)
	deps.transferSvc.EXPECT().
		Validate(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, req ports.ValidateTransferRequest) (*ports.ValidateTransferResponse, error) {
			assert.Equal(t, userID, req.UserID)
			assert.Equal(t, senderID, req.SenderAccountID)
			assert.Equal(t, domain.TransferTypeExternal, req.Type)
			require.NotNil(t, req.Beneficiary)
			assert.Equal(t, "0123456789", req.Beneficiary.AccountNumber)
			return &ports.ValidateTransferResponse{
				ValidationCode: "ABCDEF123456",
				Fee:            decimal.RequireFromString("25"),
				ExpiresIn:      10 * time.Minute,
			}, nil
		})

	w := doJSON(r, http.MethodPost, "/api/v1/transfers/validate", "valid-token", map[string]any{
		"type":              "external",
		"amount":            "5000",
		"sender_account_id": senderID.String(),
		"beneficiary": map[string]string{
			"account_number": "0123456789",
			"bank_code":      "058",
		},
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ABCDEF123456")
	assert.Contains(t, w.Body.String(), `"expires_in":600`)
}

func TestTransfer_Success(t *testing.T) {
	r, deps := setupRouter(t)

	userID := uuid.New()
	authorize(deps, userID)
	deps.transferSvc.EXPECT().
		Transfer(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, req ports.TransferRequest) (*domain.LedgerEntry, error) {
			assert.Equal(t, "ABCDEF123456", req.ValidationCode)
			return &domain.LedgerEntry{
				ID:        uuid.New(),
				Reference: "TRF-OK",
				Amount:    req.Amount,
				Status:    domain.EntryStatusSuccessful,
				EntryType: domain.EntryTypeDebit,
				CreatedAt: time.Now().UTC(),
			}, nil
		})

	w := doJSON(r, http.MethodPost, "/api/v1/transfers", "valid-token", map[string]any{
		"validation_code": "ABCDEF123456",
		"type":            "internal",
		"amount":          "500",
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "TRF-OK")
}

func TestVerifyTransfer(t *testing.T) {
	r, deps := setupRouter(t)

	authorize(deps, uuid.New())
	deps.transferSvc.EXPECT().Verify(gomock.Any(), "TRF-PEND").
		Return(&domain.LedgerEntry{
			ID:        uuid.New(),
			Reference: "TRF-PEND",
			Status:    domain.EntryStatusSuccessful,
			EntryType: domain.EntryTypeDebit,
			CreatedAt: time.Now().UTC(),
		}, nil)

	w := doJSON(r, http.MethodPost, "/api/v1/transfers/TRF-PEND/verify", "valid-token", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "successful")
}

func TestListTransactions(t *testing.T) {
	r, deps := setupRouter(t)

	userID := uuid.New()
	authorize(deps, userID)
	deps.reportingSvc.EXPECT().
		ListEntries(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, params ports.LedgerListParams) ([]domain.LedgerEntry, int64, error) {
			require.NotNil(t, params.UserID)
			assert.Equal(t, userID, *params.UserID)
			return []domain.LedgerEntry{
				{ID: uuid.New(), Reference: "TRF-1", CreatedAt: time.Now().UTC()},
				{ID: uuid.New(), Reference: "TRF-2", CreatedAt: time.Now().UTC()},
			}, 2, nil
		})

	w := doJSON(r, http.MethodGet, "/api/v1/transactions?page=1&page_size=20", "valid-token", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "TRF-1")
	assert.Contains(t, w.Body.String(), `"total":2`)
}

func TestWebhook_Processed(t *testing.T) {
	r, deps := setupRouter(t)

	body := []byte(`{"event":"charge.success"}`)
	event := &domain.ProviderEvent{
		Provider:  domain.ProviderPaystack,
		Type:      domain.EventInboundCredit,
		Reference: "PSK-REF-1",
	}
	deps.normalizer.EXPECT().VerifySignature("sig-ok", body).Return(true)
	deps.normalizer.EXPECT().Normalize(body).Return(event, nil)
	deps.reconcileSvc.EXPECT().Reconcile(gomock.Any(), *event).
		Return(&domain.LedgerEntry{Reference: "PSK-REF-1"}, nil)

	req := httptest.NewRequest(http.MethodPost, "/webhooks/paystack", bytes.NewReader(body))
	req.Header.Set("x-paystack-signature", "sig-ok")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "PSK-REF-1")
}

func TestWebhook_InvalidSignature(t *testing.T) {
	r, deps := setupRouter(t)

	body := []byte(`{"event":"charge.success"}`)
	deps.normalizer.EXPECT().VerifySignature("bad-sig", body).Return(false)

	req := httptest.NewRequest(http.MethodPost, "/webhooks/paystack", bytes.NewReader(body))
	req.Header.Set("x-paystack-signature", "bad-sig")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "PRV_003")
}

func TestWebhook_UnknownProvider(t *testing.T) {
	r, _ := setupRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/webhooks/stripe", bytes.NewReader([]byte(`{}`)))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	// A 404, not a 500: an unroutable webhook URL must not trigger retries.
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "TRF_008")
}

func TestHealthCheck_AllHealthy(t *testing.T) {
	r, _ := setupRouter(t)

	w := doJSON(r, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}
