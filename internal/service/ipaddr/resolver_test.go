package ipaddr

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mr3x-notificacoes/internal/config"
	"mr3x-notificacoes/internal/domain"
)

func TestRequestResolver(t *testing.T) {
	ctx := WithClientIP(context.Background(), "203.0.113.7")

	ip, err := RequestResolver{}.Resolve(ctx)
	require.NoError(t, err)
	assert.Equal(t, "203.0.113.7", ip)
}

func TestRequestResolver_Missing(t *testing.T) {
	_, err := RequestResolver{}.Resolve(context.Background())
	assert.ErrorIs(t, err, domain.ErrIPLookupFailed)

	_, err = RequestResolver{}.Resolve(WithClientIP(context.Background(), "not-an-ip"))
	assert.ErrorIs(t, err, domain.ErrIPLookupFailed)
}

func TestIpifyResolver(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ip":"198.51.100.20"}`))
	}))
	defer srv.Close()

	ip, err := NewIpifyResolver(srv.URL, time.Second).Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "198.51.100.20", ip)
}

func TestIpifyResolver_Failure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewIpifyResolver(srv.URL, time.Second).Resolve(context.Background())
	assert.ErrorIs(t, err, domain.ErrIPLookupFailed)
}

func TestNewResolver(t *testing.T) {
	_, ok := NewResolver(&config.Config{IPLookupMode: "request"}).(RequestResolver)
	assert.True(t, ok)

	_, ok = NewResolver(&config.Config{IPLookupMode: "IPIFY", IPLookupURL: "http://x"}).(*IpifyResolver)
	assert.True(t, ok)
}
