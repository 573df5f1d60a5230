package middleware

import (
	"net"
	"strings"

	"github.com/gofiber/fiber/v2"

	"mr3x-notificacoes/internal/service/ipaddr"
)

const ClientIPContextKey = "client_ip"

// RequestInfo records the caller's address for the acceptance audit
// fields.
func RequestInfo() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ip := ClientIP(c)
		c.Locals(ClientIPContextKey, ip)
		c.SetUserContext(ipaddr.WithClientIP(c.UserContext(), ip))
		return c.Next()
	}
}

// ClientIP reads CF-Connecting-IP, X-Real-IP, then the first
// X-Forwarded-For entry, but only when the request comes from a trusted
// proxy (see fiber.Config.TrustedProxies). Anyone else gets the socket
// address so a client cannot pick the IP stored with its acceptance.
func ClientIP(c *fiber.Ctx) string {
	if !c.IsProxyTrusted() {
		return c.Context().RemoteIP().String()
	}
	for _, header := range []string{"CF-Connecting-IP", "X-Real-IP"} {
		if ip := validIP(c.Get(header)); ip != "" {
			return ip
		}
	}
	if forwarded := c.Get(fiber.HeaderXForwardedFor); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if ip := validIP(first); ip != "" {
			return ip
		}
	}
	return c.Context().RemoteIP().String()
}

func validIP(value string) string {
	value = strings.TrimSpace(value)
	if net.ParseIP(value) == nil {
		return ""
	}
	return value
}
