package oauth2

import (
	"context"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"wiz-graphql-proxy/internal/common/errors"
	"wiz-graphql-proxy/internal/common/logging"
	"wiz-graphql-proxy/internal/testutil"
)

func TestMain(m *testing.M) {
	logger, err := logging.NewLogger(logging.LogConfig{Level: logging.ErrorLevel, Output: io.Discard})
	if err == nil {
		logging.SetGlobalLogger(logger)
	}
	os.Exit(m.Run())
}

func testCredentials(authURL string) Credentials {
	return Credentials{
		AuthURL:      authURL,
		ClientID:     "test-client",
		ClientSecret: "test-secret",
		Audience:     "wiz-api",
	}
}

func TestManager_TokenIssuesAndCaches(t *testing.T) {
	idp := testutil.NewIdentityProvider()
	defer idp.Close()

	manager := NewManager(testCredentials(idp.URL()), nil)

	first, err := manager.Token(context.Background())
	if err != nil {
		t.Fatalf("Token() error = %v", err)
	}
	if first == "" {
		t.Fatal("Token() returned an empty token")
	}

	second, err := manager.Token(context.Background())
	if err != nil {
		t.Fatalf("Token() error = %v", err)
	}
	if second != first {
		t.Errorf("Token() = %q, want cached %q", second, first)
	}

	if grants := idp.Grants(); grants != 1 {
		t.Errorf("Grants() = %d, want 1", grants)
	}
}

func TestManager_RefreshAfterExpiry(t *testing.T) {
	idp := testutil.NewIdentityProvider()
	defer idp.Close()

	manager := NewManager(testCredentials(idp.URL()), nil)
	clock := newFakeClock()
	manager.cache.now = clock.Now

	if _, err := manager.Token(context.Background()); err != nil {
		t.Fatalf("Token() error = %v", err)
	}

	clock.Advance(3000 * time.Second)
	if _, err := manager.Token(context.Background()); err != nil {
		t.Fatalf("Token() error = %v", err)
	}
	if grants := idp.Grants(); grants != 1 {
		t.Fatalf("Grants() after 3000s = %d, want 1", grants)
	}

	clock.Advance(540 * time.Second)
	if _, err := manager.Token(context.Background()); err != nil {
		t.Fatalf("Token() error = %v", err)
	}
	if grants := idp.Grants(); grants != 2 {
		t.Errorf("Grants() after 3540s = %d, want 2", grants)
	}
}

func TestManager_SingleAcquisitionUnderLoad(t *testing.T) {
	idp := testutil.NewIdentityProvider()
	defer idp.Close()

	manager := NewManager(testCredentials(idp.URL()), nil)

	const callers = 10
	tokens := make([]string, callers)
	errs := make([]error, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tokens[i], errs[i] = manager.Token(context.Background())
		}(i)
	}
	wg.Wait()

	for i := 0; i < callers; i++ {
		if errs[i] != nil {
			t.Fatalf("caller %d Token() error = %v", i, errs[i])
		}
		if tokens[i] != tokens[0] {
			t.Errorf("caller %d got token %q, want %q", i, tokens[i], tokens[0])
		}
	}

	if grants := idp.Grants(); grants != 1 {
		t.Errorf("Grants() = %d, want 1", grants)
	}
}

func TestManager_DefaultLifetime(t *testing.T) {
	idp := testutil.NewIdentityProvider()
	defer idp.Close()
	idp.ExpiresIn = 0

	manager := NewManager(testCredentials(idp.URL()), nil)
	clock := newFakeClock()
	manager.cache.now = clock.Now

	if _, err := manager.Token(context.Background()); err != nil {
		t.Fatalf("Token() error = %v", err)
	}

	want := clock.Now().Add(3540 * time.Second)
	if got := manager.cache.ExpiresAt(); !got.Equal(want) {
		t.Errorf("ExpiresAt() = %v, want %v", got, want)
	}
}

func TestManager_LifetimeShorterThanMargin(t *testing.T) {
	idp := testutil.NewIdentityProvider()
	defer idp.Close()
	idp.ExpiresIn = 45

	manager := NewManager(testCredentials(idp.URL()), nil)

	_, err := manager.Token(context.Background())
	if err == nil {
		t.Fatal("Token() error = nil, want auth error")
	}
	if !errors.IsType(err, errors.ErrTypeAuth) {
		t.Errorf("error type = %v, want %v", errors.GetType(err), errors.ErrTypeAuth)
	}
}

func TestManager_Invalidate(t *testing.T) {
	idp := testutil.NewIdentityProvider()
	defer idp.Close()

	manager := NewManager(testCredentials(idp.URL()), nil)

	if _, err := manager.Token(context.Background()); err != nil {
		t.Fatalf("Token() error = %v", err)
	}

	manager.Invalidate()

	if _, err := manager.Token(context.Background()); err != nil {
		t.Fatalf("Token() error = %v", err)
	}

	if grants := idp.Grants(); grants != 2 {
		t.Errorf("Grants() = %d, want 2", grants)
	}
}

func TestManager_ErrorCases(t *testing.T) {
	tests := []struct {
		name      string
		configure func(*testutil.IdentityProvider)
		wantInMsg string
	}{
		{
			name: "invalid credentials",
			configure: func(idp *testutil.IdentityProvider) {
				idp.FailStatus = http.StatusUnauthorized
				idp.FailBody = `{"error":"invalid_client"}`
			},
			wantInMsg: "invalid_client",
		},
		{
			name: "server error",
			configure: func(idp *testutil.IdentityProvider) {
				idp.FailStatus = http.StatusInternalServerError
				idp.FailBody = "internal error"
			},
			wantInMsg: "status=500",
		},
		{
			name: "malformed response",
			configure: func(idp *testutil.IdentityProvider) {
				idp.RawBody = "not json"
			},
			wantInMsg: "failed to decode token response",
		},
		{
			name: "missing access token",
			configure: func(idp *testutil.IdentityProvider) {
				idp.RawBody = `{"token_type":"Bearer","expires_in":3600}`
			},
			wantInMsg: "no access token in response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idp := testutil.NewIdentityProvider()
			defer idp.Close()
			tt.configure(idp)

			manager := NewManager(testCredentials(idp.URL()), nil)

			_, err := manager.Token(context.Background())
			if err == nil {
				t.Fatal("Token() error = nil, want auth error")
			}
			if !errors.IsType(err, errors.ErrTypeAuth) {
				t.Errorf("error type = %v, want %v", errors.GetType(err), errors.ErrTypeAuth)
			}
			if !strings.Contains(err.Error(), tt.wantInMsg) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.wantInMsg)
			}
		})
	}
}

func TestManager_TruncatesLongErrorBodies(t *testing.T) {
	idp := testutil.NewIdentityProvider()
	defer idp.Close()
	idp.FailStatus = http.StatusBadGateway
	idp.FailBody = strings.Repeat("x", 2048)

	manager := NewManager(testCredentials(idp.URL()), nil)

	_, err := manager.Token(context.Background())
	if err == nil {
		t.Fatal("Token() error = nil, want auth error")
	}
	if len(err.Error()) > 1024 {
		t.Errorf("error length = %d, want the rejection body truncated", len(err.Error()))
	}
}

func TestManager_EndpointUnreachable(t *testing.T) {
	idp := testutil.NewIdentityProvider()
	idp.Close()

	manager := NewManager(testCredentials(idp.URL()), nil)

	_, err := manager.Token(context.Background())
	if err == nil {
		t.Fatal("Token() error = nil, want auth error")
	}
	if !errors.IsType(err, errors.ErrTypeAuth) {
		t.Errorf("error type = %v, want %v", errors.GetType(err), errors.ErrTypeAuth)
	}
}

func TestManager_ErrorsOmitSecret(t *testing.T) {
	idp := testutil.NewIdentityProvider()
	defer idp.Close()
	idp.FailStatus = http.StatusUnauthorized
	idp.FailBody = `{"error":"invalid_client"}`

	manager := NewManager(testCredentials(idp.URL()), nil)

	_, err := manager.Token(context.Background())
	if err == nil {
		t.Fatal("Token() error = nil, want auth error")
	}
	if strings.Contains(err.Error(), "test-secret") {
		t.Errorf("error %q leaks the client secret", err.Error())
	}
}
