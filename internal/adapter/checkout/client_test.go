package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/punterhub/wallet/internal/config"
	domainErrors "github.com/punterhub/wallet/internal/domain/errors"
	"github.com/punterhub/wallet/internal/domain/model"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *HTTPClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client, err := NewHTTPClient(srv.URL, "pk_test", "sk_test", time.Second, testLogger())
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	return client
}

func TestNewHTTPClientValidatesURL(t *testing.T) {
	if _, err := NewHTTPClient("://bad", "pk", "sk", time.Second, testLogger()); err == nil {
		t.Fatal("expected error for invalid url")
	}
	if _, err := NewHTTPClient("relative", "pk", "sk", time.Second, testLogger()); err == nil {
		t.Fatal("expected error for relative url")
	}
}

func TestInitializeOpensCheckout(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/transaction/initialize" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk_test" {
			t.Fatalf("unexpected authorization %q", got)
		}
		var body initializeRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body.Amount != 500000 || body.Currency != "NGN" || body.Reference != "ref-1" {
			t.Fatalf("unexpected body %+v", body)
		}
		_, _ = io.WriteString(w, `{"status":true,"message":"ok","data":{"authorization_url":"https://checkout/abc","access_code":"abc","reference":"ref-1"}}`)
	})

	checkout, err := client.Initialize(context.Background(), model.Charge{
		Reference: "ref-1",
		Email:     "a@b.c",
		Amount:    500000,
		Currency:  model.Currency,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if checkout.AccessCode != "abc" || checkout.PublicKey != "pk_test" || checkout.Amount != 500000 {
		t.Fatalf("unexpected checkout %+v", checkout)
	}
}

func TestVerifyMapsOutcomes(t *testing.T) {
	cases := []struct {
		status string
		want   model.CheckoutOutcome
	}{
		{status: "success", want: model.OutcomeSuccess},
		{status: "abandoned", want: model.OutcomeCancelled},
		{status: "failed", want: model.OutcomeFailed},
		{status: "reversed", want: model.OutcomeFailed},
	}

	for _, tc := range cases {
		t.Run(tc.status, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/transaction/verify/ref-1" {
					t.Fatalf("unexpected path %s", r.URL.Path)
				}
				_, _ = io.WriteString(w, `{"status":true,"data":{"status":"`+tc.status+`","reference":"ref-1","amount":500000}}`)
			})
			result, err := client.Verify(context.Background(), "ref-1")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.Outcome != tc.want || result.Amount != 500000 {
				t.Fatalf("unexpected result %+v", result)
			}
		})
	}
}

func TestVerifyRejectsMalformedPayload(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"status":true,"data":{"reference":"ref-1"}}`)
	})

	_, err := client.Verify(context.Background(), "ref-1")
	var malformed *domainErrors.MalformedResponseError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected malformed response error, got %v", err)
	}
}

func TestBanksSkipsInactive(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/bank" || r.URL.Query().Get("country") != "nigeria" {
			t.Fatalf("unexpected request %s", r.URL.String())
		}
		_, _ = io.WriteString(w, `{"status":true,"data":[{"name":"GTBank","code":"058","active":true},{"name":"Old Bank","code":"001","active":false}]}`)
	})

	banks, err := client.Banks(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(banks) != 1 || banks[0].Code != "058" {
		t.Fatalf("unexpected banks %+v", banks)
	}
}

func TestProviderErrorCarriesMessage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"status":false,"message":"Invalid amount"}`)
	})

	_, err := client.Initialize(context.Background(), model.Charge{Reference: "r", Amount: 1})
	var pe *domainErrors.ProviderError
	if !errors.As(err, &pe) || pe.Message != "Invalid amount" || pe.Status != http.StatusBadRequest {
		t.Fatalf("expected provider error with message, got %v", err)
	}
}

func TestProviderUnauthorizedIsNotASessionError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"status":false,"message":"Invalid key"}`)
	})

	_, err := client.Verify(context.Background(), "ref-1")
	var pe *domainErrors.ProviderError
	if !errors.As(err, &pe) || pe.Status != http.StatusUnauthorized {
		t.Fatalf("expected provider error, got %v", err)
	}
	if errors.Is(err, domainErrors.ErrUnauthenticated) {
		t.Fatal("a rejected provider key must not end the user's session")
	}
	var be *domainErrors.BackendError
	if errors.As(err, &be) {
		t.Fatalf("provider failures must not look like backend failures: %v", err)
	}
}

func TestOversizedProviderResponseIsTruncated(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"status":true,"data":{"status":"success","reference":"ref-1","amount":1,"log":"`+strings.Repeat("x", 2*maxResponseBytes)+`"}}`)
	})

	_, err := client.Verify(context.Background(), "ref-1")
	var malformed *domainErrors.MalformedResponseError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected malformed response error, got %v", err)
	}
}

func TestNewGatewayUsesConfig(t *testing.T) {
	cfg := &config.Config{CheckoutAddress: "https://api.example.com", CheckoutPublicKey: "pk"}
	gw, err := newGateway(gatewayParams{Config: cfg, Logger: testLogger()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gw == nil {
		t.Fatal("expected gateway")
	}
}
