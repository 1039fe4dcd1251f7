package backend

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

	"github.com/shopspring/decimal"

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
	client, err := NewHTTPClient(srv.URL, time.Second, testLogger())
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	return client
}

func TestNewHTTPClientValidatesURL(t *testing.T) {
	if _, err := NewHTTPClient("://bad-url", time.Second, testLogger()); err == nil {
		t.Fatal("expected error for invalid url")
	}
	if _, err := NewHTTPClient("/relative", time.Second, testLogger()); err == nil {
		t.Fatal("expected error for relative url")
	}
}

func TestGetUserDecodesSnapshot(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/client/getUser" || r.Method != http.MethodPost {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Fatalf("unexpected authorization header %q", got)
		}
		var body tokenRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Token != "tok" {
			t.Fatalf("unexpected body %+v: %v", body, err)
		}
		_, _ = io.WriteString(w, `{"data":{"_id":"u1","email":"a@b.c","balance":"120.5","isVerified":true,"countryCode":"NG","role":"punter"}}`)
	})

	user, err := client.GetUser(context.Background(), "tok")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID != "u1" || !user.Verified || user.Role != model.RolePunter {
		t.Fatalf("unexpected user %+v", user)
	}
	if !user.Balance.Equal(decimal.RequireFromString("120.5")) {
		t.Fatalf("unexpected balance %s", user.Balance)
	}
}

func TestGetUserRejectsMissingBalance(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"data":{"_id":"u1"}}`)
	})

	_, err := client.GetUser(context.Background(), "tok")
	var malformed *domainErrors.MalformedResponseError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected malformed response error, got %v", err)
	}
}

func TestResolveAccountReturnsName(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body resolveRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body.BankCode != "058" || body.AccountNumber != "0123456789" {
			t.Fatalf("unexpected body %+v", body)
		}
		_, _ = io.WriteString(w, `{"data":{"account_name":"JANE DOE","account_number":"0123456789"}}`)
	})

	name, err := client.ResolveAccount(context.Background(), "tok", "058", "0123456789")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name != "JANE DOE" {
		t.Fatalf("expected JANE DOE, got %q", name)
	}
}

func TestResolveAccountSurfacesBackendMessage(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{name: "message field", body: `{"message":"Could not resolve account"}`, want: "Could not resolve account"},
		{name: "error field", body: `{"error":"Invalid bank"}`, want: "Invalid bank"},
		{name: "no message", body: `oops`, want: ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnprocessableEntity)
				_, _ = io.WriteString(w, tc.body)
			})
			_, err := client.ResolveAccount(context.Background(), "tok", "058", "0123456789")
			var be *domainErrors.BackendError
			if !errors.As(err, &be) {
				t.Fatalf("expected backend error, got %v", err)
			}
			if be.Status != http.StatusUnprocessableEntity || be.Message != tc.want {
				t.Fatalf("unexpected backend error %+v", be)
			}
		})
	}
}

func TestResolveAccountMissingNameIsMalformed(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"data":{}}`)
	})

	_, err := client.ResolveAccount(context.Background(), "tok", "058", "0123456789")
	var malformed *domainErrors.MalformedResponseError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected malformed response error, got %v", err)
	}
}

func TestUnauthorizedMapsToUnauthenticated(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	err := client.Deposit(context.Background(), "tok", "u1", 10)
	if !errors.Is(err, domainErrors.ErrUnauthenticated) {
		t.Fatalf("expected unauthenticated, got %v", err)
	}
}

func TestOversizedResponseIsTruncated(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"data":{"_id":"u1","balance":"10","note":"`+strings.Repeat("x", 2*maxResponseBytes)+`"}}`)
	})

	_, err := client.GetUser(context.Background(), "tok")
	var malformed *domainErrors.MalformedResponseError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected malformed response error, got %v", err)
	}
}

func TestUnreachableBackend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	addr := srv.URL
	srv.Close()

	client, err := NewHTTPClient(addr, time.Second, testLogger())
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	err = client.Deposit(context.Background(), "tok", "u1", 10)
	if !errors.Is(err, domainErrors.ErrBackendUnreachable) {
		t.Fatalf("expected unreachable error, got %v", err)
	}
}

func TestWithdrawSendsFullPayload(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/client/withdrawal" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		for _, key := range []string{"userId", "amount", "bankCode", "bankName", "accountNumber", "accountName", "currency", "conversionRate"} {
			if _, ok := body[key]; !ok {
				t.Fatalf("missing %s in payload %v", key, body)
			}
		}
		if body["amount"].(float64) != 50 {
			t.Fatalf("unexpected amount %v", body["amount"])
		}
		_, _ = io.WriteString(w, `{"newBalance":70}`)
	})

	balance, err := client.Withdraw(context.Background(), "tok", model.WithdrawalRequest{
		UserID:         "u1",
		CoinAmount:     50,
		BankCode:       "058",
		BankName:       "GTBank",
		AccountNumber:  "0123456789",
		AccountName:    "JANE DOE",
		Currency:       model.Currency,
		ConversionRate: model.CoinRate,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !balance.Equal(decimal.NewFromInt(70)) {
		t.Fatalf("expected balance 70, got %s", balance)
	}
}

func TestWithdrawWithoutBalanceIsMalformed(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"status":"ok"}`)
	})

	_, err := client.Withdraw(context.Background(), "tok", model.WithdrawalRequest{UserID: "u1", CoinAmount: 10})
	var malformed *domainErrors.MalformedResponseError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected malformed response error, got %v", err)
	}
}

func TestListEndpointsAcceptBothShapes(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{name: "bare array", body: `[{"_id":"p1","username":"ace","winRate":"0.61"}]`},
		{name: "envelope", body: `{"data":[{"_id":"p1","username":"ace","winRate":"0.61"}]}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodGet || r.URL.Path != "/client/getPunters" {
					t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
				}
				_, _ = io.WriteString(w, tc.body)
			})
			punters, err := client.Punters(context.Background(), "tok")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(punters) != 1 || punters[0].Username != "ace" {
				t.Fatalf("unexpected punters %+v", punters)
			}
		})
	}
}

func TestListEndpointsValidateItems(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[{"_id":"t1","title":"ok"},{"title":"missing id"}]`)
	})

	_, err := client.Daily(context.Background(), "tok")
	var malformed *domainErrors.MalformedResponseError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected malformed response error, got %v", err)
	}
}

func TestCreateSignalMarksKind(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/client/createSignal" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		_, _ = io.WriteString(w, `{"data":{"_id":"s1","title":"BTC long","pair":"BTC/USDT"}}`)
	})

	tip, err := client.CreateSignal(context.Background(), "tok", model.Tip{Title: "BTC long", Pair: "BTC/USDT"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tip.Kind != model.TipKindSignal || tip.Pair != "BTC/USDT" {
		t.Fatalf("unexpected tip %+v", tip)
	}
}

func TestChangeRoleDiscardsBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body changeRoleRequest
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.Role != "punter" {
			t.Fatalf("unexpected role %q", body.Role)
		}
		_, _ = io.WriteString(w, `not json`)
	})

	if err := client.ChangeRole(context.Background(), "tok", model.RolePunter); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestExtractMessage(t *testing.T) {
	if got := extractMessage([]byte(`{"message":"","error":"bad"}`)); got != "bad" {
		t.Fatalf("expected fallback to error field, got %q", got)
	}
	if got := extractMessage([]byte(`{"message":{"nested":true}}`)); got != "" {
		t.Fatalf("expected empty message for non-string, got %q", got)
	}
}
