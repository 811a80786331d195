package apiclient_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/storefront/pkg/apiclient"
)

func newClient(t *testing.T, handler http.Handler) *apiclient.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return apiclient.New(apiclient.Config{BaseURL: srv.URL})
}

func TestClient_Login(t *testing.T) {
	t.Parallel()

	client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/login", r.URL.Path)
		require.NoError(t, r.ParseForm())
		require.Equal(t, "u@test.com", r.PostFormValue("email"))
		require.Equal(t, "longenough1", r.PostFormValue("password"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok1","user":{"id":1,"email":"u@test.com","is_admin":false}}`))
	}))

	result, err := client.Login(context.Background(), "u@test.com", "longenough1")
	require.NoError(t, err)
	assert.Equal(t, "tok1", result.AccessToken)
	assert.Equal(t, int64(1), result.User.ID)
	assert.Equal(t, "u@test.com", result.User.Email)
	assert.False(t, result.User.IsAdmin)
}

func TestClient_LoginBadCredentials(t *testing.T) {
	t.Parallel()

	client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"Email ou senha incorretos"}`))
	}))

	_, err := client.Login(context.Background(), "u@test.com", "wrongpass1")
	assert.ErrorIs(t, err, apiclient.ErrUnauthorized)
	assert.Contains(t, err.Error(), "Email ou senha incorretos")
}

func TestClient_LoginMissingToken(t *testing.T) {
	t.Parallel()

	client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"user":{"id":1,"email":"u@test.com"}}`))
	}))

	_, err := client.Login(context.Background(), "u@test.com", "longenough1")
	assert.ErrorIs(t, err, apiclient.ErrServer)
}

func TestClient_VerifyToken(t *testing.T) {
	t.Parallel()

	t.Run("valid", func(t *testing.T) {
		t.Parallel()
		client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/api/license/check", r.URL.Path)
			require.Equal(t, "Bearer tok1", r.Header.Get("Authorization"))
			_, _ = w.Write([]byte(`{"valid":true,"user":{"id":1,"email":"u@test.com","is_admin":true}}`))
		}))

		result, err := client.VerifyToken(context.Background(), "tok1")
		require.NoError(t, err)
		assert.True(t, result.Valid)
		require.NotNil(t, result.User)
		assert.True(t, result.User.IsAdmin)
	})

	t.Run("expired", func(t *testing.T) {
		t.Parallel()
		client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))

		_, err := client.VerifyToken(context.Background(), "stale")
		assert.ErrorIs(t, err, apiclient.ErrUnauthorized)
	})

	t.Run("server fault", func(t *testing.T) {
		t.Parallel()
		client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))

		_, err := client.VerifyToken(context.Background(), "tok1")
		assert.ErrorIs(t, err, apiclient.ErrServer)
		assert.NotErrorIs(t, err, apiclient.ErrUnauthorized)
	})
}

func TestClient_VerifyTokenUnreachable(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // connection refused from here on

	client := apiclient.New(apiclient.Config{BaseURL: srv.URL})
	_, err := client.VerifyToken(context.Background(), "tok1")
	assert.ErrorIs(t, err, apiclient.ErrUnreachable)
}

func TestClient_PublicKey(t *testing.T) {
	t.Parallel()

	t.Run("present", func(t *testing.T) {
		t.Parallel()
		client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/api/mercadopago/public-key", r.URL.Path)
			_, _ = w.Write([]byte(`{"public_key":"APP_USR-abc123"}`))
		}))

		key, err := client.PublicKey(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "APP_USR-abc123", key)
	})

	t.Run("missing field", func(t *testing.T) {
		t.Parallel()
		client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{}`))
		}))

		_, err := client.PublicKey(context.Background())
		assert.ErrorIs(t, err, apiclient.ErrMissingPublicKey)
	})
}

func TestClient_CreateCheckout(t *testing.T) {
	t.Parallel()

	t.Run("init point", func(t *testing.T) {
		t.Parallel()
		client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/api/criar-checkout", r.URL.Path)
			require.Equal(t, "Bearer tok1", r.Header.Get("Authorization"))
			_, _ = w.Write([]byte(`{"init_point":"https://pay.example/123"}`))
		}))

		session, err := client.CreateCheckout(context.Background(), "tok1", 7, "mensal")
		require.NoError(t, err)
		assert.Equal(t, "https://pay.example/123", session.RedirectURL())
	})

	t.Run("sandbox fallback", func(t *testing.T) {
		t.Parallel()
		client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"sandbox_init_point":"https://sandbox.example/123"}`))
		}))

		session, err := client.CreateCheckout(context.Background(), "tok1", 7, "mensal")
		require.NoError(t, err)
		assert.Equal(t, "https://sandbox.example/123", session.RedirectURL())
	})

	t.Run("missing url", func(t *testing.T) {
		t.Parallel()
		client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{}`))
		}))

		_, err := client.CreateCheckout(context.Background(), "tok1", 7, "mensal")
		assert.ErrorIs(t, err, apiclient.ErrMissingCheckoutURL)
	})
}

func TestClient_Products(t *testing.T) {
	t.Parallel()

	client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/products", r.URL.Path)
		_, _ = w.Write([]byte(`[{"id":1,"name":"Basic","price":29.9,"duration_days":30,"is_active":true}]`))
	}))

	products, err := client.Products(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Basic", products[0].Name)
	assert.Equal(t, 29.9, products[0].Price)
}
