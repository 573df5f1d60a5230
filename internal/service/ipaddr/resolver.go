// Package ipaddr resolves the public IP address recorded on notices.
package ipaddr

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"mr3x-notificacoes/internal/config"
	"mr3x-notificacoes/internal/domain"
)

const (
	ModeRequest = "request"
	ModeIpify   = "ipify"
)

type Resolver interface {
	Resolve(ctx context.Context) (string, error)
}

type clientIPKey struct{}

// WithClientIP stores the caller's address for RequestResolver.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey{}, ip)
}

func ClientIP(ctx context.Context) string {
	ip, _ := ctx.Value(clientIPKey{}).(string)
	return ip
}

// NewResolver picks the resolver configured by IP_LOOKUP_MODE.
func NewResolver(cfg *config.Config) Resolver {
	if strings.EqualFold(cfg.IPLookupMode, ModeIpify) {
		return NewIpifyResolver(cfg.IPLookupURL, cfg.HTTPClientTimeout)
	}
	return RequestResolver{}
}

// RequestResolver returns the client address captured by the request
// middleware.
type RequestResolver struct{}

func (RequestResolver) Resolve(ctx context.Context) (string, error) {
	ip := strings.TrimSpace(ClientIP(ctx))
	if ip == "" || net.ParseIP(ip) == nil {
		return "", domain.ErrIPLookupFailed
	}
	return ip, nil
}

// IpifyResolver asks an ipify-compatible endpoint for the server's own
// public address.
type IpifyResolver struct {
	url    string
	client *http.Client
}

func NewIpifyResolver(url string, timeout time.Duration) *IpifyResolver {
	return &IpifyResolver{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

func (r *IpifyResolver) Resolve(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.url, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrIPLookupFailed, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrIPLookupFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", domain.ErrIPLookupFailed, resp.StatusCode)
	}

	var body struct {
		IP string `json:"ip"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrIPLookupFailed, err)
	}
	if net.ParseIP(body.IP) == nil {
		return "", domain.ErrIPLookupFailed
	}
	return body.IP, nil
}
