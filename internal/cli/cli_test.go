package cli

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	color.NoColor = true
}

// backend is a canteen API stand-in that signs in any account and keeps
// one cart line
type backend struct {
	mu       sync.Mutex
	userType string
	cart     string
	placed   int
}

func newBackend(userType string) *backend {
	return &backend{
		userType: userType,
		cart:     `[{"id":7,"product_id":3,"quantity":2,"product":{"id":3,"name":"Nasi Goreng","price":15000,"stock":4}}]`,
	}
}

func (b *backend) orders() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.placed
}

func (b *backend) authorized(w http.ResponseWriter, r *http.Request) bool {
	if r.Header.Get("Authorization") != "Bearer tok-1" {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"Unauthenticated."}`))
		return false
	}
	return true
}

func (b *backend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/login", func(w http.ResponseWriter, r *http.Request) {
		var body bytes.Buffer
		body.ReadFrom(r.Body)
		if !strings.Contains(body.String(), `"password":"secret"`) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			w.Write([]byte(`{"message":"These credentials do not match our records.","errors":{"email":["These credentials do not match our records."]}}`))
			return
		}
		w.Write([]byte(`{"user":{"id":"01HU","name":"Ani","email":"ani@example.com","type":"` + b.userType + `"},"token":"tok-1"}`))
	})
	mux.HandleFunc("/api/user", func(w http.ResponseWriter, r *http.Request) {
		if b.authorized(w, r) {
			w.Write([]byte(`{"id":"01HU","name":"Ani","email":"ani@example.com","type":"` + b.userType + `"}`))
		}
	})
	mux.HandleFunc("/api/logout", func(w http.ResponseWriter, r *http.Request) {
		if b.authorized(w, r) {
			w.Write([]byte(`{"message":"Logged out"}`))
		}
	})
	mux.HandleFunc("/api/categories", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":1,"name":"Makanan","slug":"makanan"},{"id":2,"name":"Minuman","slug":"minuman"}]`))
	})
	mux.HandleFunc("/api/products", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[{"id":3,"name":"Nasi Goreng","price":15000,"stock":4},{"id":4,"name":"Es Teh","price":5000,"stock":0}],"meta":{"current_page":1,"last_page":2,"total":12}}`))
	})
	mux.HandleFunc("/api/cart", func(w http.ResponseWriter, r *http.Request) {
		if !b.authorized(w, r) {
			return
		}
		b.mu.Lock()
		defer b.mu.Unlock()
		w.Write([]byte(b.cart))
	})
	mux.HandleFunc("/api/orders", func(w http.ResponseWriter, r *http.Request) {
		if !b.authorized(w, r) {
			return
		}
		if r.Method == http.MethodPost {
			b.mu.Lock()
			b.placed++
			b.cart = `[]`
			b.mu.Unlock()
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"id":"01HORDER","total_price":30000,"payment_method":"qris","payment_status":"pending"}`))
			return
		}
		w.Write([]byte(`{"data":[],"meta":{"current_page":1,"last_page":1,"total":0}}`))
	})
	return mux
}

type harness struct {
	t       *testing.T
	api     *backend
	baseURL string
	file    string
}

func newHarness(t *testing.T, userType string) *harness {
	api := newBackend(userType)
	srv := httptest.NewServer(api.handler())
	t.Cleanup(srv.Close)

	return &harness{
		t:       t,
		api:     api,
		baseURL: srv.URL + "/api",
		file:    filepath.Join(t.TempDir(), "session.json"),
	}
}

// run executes one canteenctl invocation with a fresh root command, the
// way a shell would
func (h *harness) run(args ...string) (string, error) {
	cmd := newRootCmd(viper.New())
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{
		"--api-url", h.baseURL,
		"--session-backend", "file",
		"--session-file", h.file,
	}, args...))

	err := cmd.Execute()
	return out.String(), err
}

func (h *harness) login() {
	out, err := h.run("login", "--email", "ani@example.com", "--password", "secret")
	require.NoError(h.t, err)
	require.Contains(h.t, out, "Login successful!")
}

func TestLogin_PersistsSessionAcrossInvocations(t *testing.T) {
	h := newHarness(t, "general")
	h.login()

	out, err := h.run("whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "Ani <ani@example.com>")
	assert.Contains(t, out, "Role:    general")
}

func TestLogin_BadCredentials(t *testing.T) {
	h := newHarness(t, "general")

	_, err := h.run("login", "--email", "ani@example.com", "--password", "wrong")
	require.Error(t, err)
	assert.Contains(t, displayError(err), "These credentials do not match our records.")

	_, err = h.run("whoami")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errNotLoggedIn))
}

func TestCorruptSessionFile_FallsBackToSignedOut(t *testing.T) {
	h := newHarness(t, "general")
	require.NoError(t, os.WriteFile(h.file, []byte("{not json"), 0o600))

	out, err := h.run("categories")
	require.NoError(t, err)
	assert.Contains(t, out, "Makanan")

	_, err = h.run("whoami")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errNotLoggedIn))

	h.login()
	out, err = h.run("whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "Ani <ani@example.com>")
}

func TestShopperCommands_RequireLogin(t *testing.T) {
	h := newHarness(t, "general")

	for _, args := range [][]string{{"cart"}, {"checkout"}, {"orders"}, {"logout"}} {
		_, err := h.run(args...)
		require.Error(t, err, args)
		assert.Equal(t, "You are not logged in\n  Sign in with `canteenctl login`.", displayError(err))
	}
}

func TestAdmin_DeniedForShopper(t *testing.T) {
	h := newHarness(t, "general")
	h.login()

	_, err := h.run("admin", "order", "delete", "01HORDER")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errAccessDenied))
	assert.Contains(t, displayError(err), "Signed in as general")
}

func TestCatalog_Listings(t *testing.T) {
	h := newHarness(t, "general")

	out, err := h.run("categories")
	require.NoError(t, err)
	assert.Contains(t, out, "Makanan")
	assert.Contains(t, out, "minuman")

	out, err = h.run("products", "--search", "nasi")
	require.NoError(t, err)
	assert.Contains(t, out, "Nasi Goreng")
	assert.Contains(t, out, "Rp 15.000")
	assert.Contains(t, out, "out of stock")
	assert.Contains(t, out, "Page 1 of 2 (12 total)")
}

func TestCheckout_PlacesOrderAndEmptiesCart(t *testing.T) {
	h := newHarness(t, "general")
	h.login()

	out, err := h.run("cart")
	require.NoError(t, err)
	assert.Contains(t, out, "subtotal Rp 30.000")

	out, err = h.run("checkout", "--payment-method", "qris")
	require.NoError(t, err)
	assert.Contains(t, out, "Order placed successfully!")
	assert.Contains(t, out, "Order 01HORDER, total Rp 30.000, paid by qris")
	assert.Equal(t, 1, h.api.orders())

	out, err = h.run("checkout")
	require.NoError(t, err)
	assert.Contains(t, out, "Your cart is empty.")
	assert.Equal(t, 1, h.api.orders())
}

func TestCheckout_RejectsUnknownPaymentMethod(t *testing.T) {
	h := newHarness(t, "general")
	h.login()

	_, err := h.run("checkout", "--payment-method", "cash")
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(displayError(err), "Checkout failed: "))
	assert.Equal(t, 0, h.api.orders())
}

func TestLogout_ClearsSession(t *testing.T) {
	h := newHarness(t, "general")
	h.login()

	out, err := h.run("logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged out successfully")

	_, err = h.run("cart")
	assert.True(t, errors.Is(err, errNotLoggedIn))
}

func TestFormatRupiah(t *testing.T) {
	tests := []struct {
		amount int64
		want   string
	}{
		{0, "Rp 0"},
		{500, "Rp 500"},
		{15000, "Rp 15.000"},
		{1250000, "Rp 1.250.000"},
		{-2000, "-Rp 2.000"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, formatRupiah(tt.amount))
	}
}

func TestDisplayError(t *testing.T) {
	assert.Equal(t, "Failed to update cart: Boom", displayError(notice(errors.New("boom"), "Failed to update cart: ", "")))
	assert.Equal(t, "Plain failure", displayError(errors.New("plain failure")))

	var buf bytes.Buffer
	printError(&buf, notice(errAccessDenied, "", "try again"))
	assert.Contains(t, buf.String(), "Access denied\n  try again")
}

func TestParseID(t *testing.T) {
	id, err := parseID("42")
	require.NoError(t, err)
	assert.Equal(t, 42, id)

	for _, raw := range []string{"0", "-1", "abc"} {
		_, err := parseID(raw)
		assert.Error(t, err, raw)
	}
}
