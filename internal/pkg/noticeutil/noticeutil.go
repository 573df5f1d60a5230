// Package noticeutil generates notice tokens and the audit hashes stamped
// on notices at creation and acceptance.
//
// The hashes are traceability records, not signatures: every input of the
// acceptance hash is stored next to it, so anyone able to write the row can
// recompute a matching value. Nothing in this service re-verifies them.
package noticeutil

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	TokenPrefix = "MR3X-NEJ"

	tokenMin   = 100000
	tokenRange = 900000

	// ISOLayout matches the millisecond ISO-8601 timestamps the hashes were
	// historically computed over.
	ISOLayout = "2006-01-02T15:04:05.000Z07:00"
)

var TokenPattern = regexp.MustCompile(`^MR3X-NEJ-\d{4}-\d{6}$`)

// Generator builds tokens from a clock and a random source.
type Generator struct {
	Now    func() time.Time
	Random io.Reader
}

func NewGenerator() *Generator {
	return &Generator{Now: time.Now, Random: rand.Reader}
}

// Token returns MR3X-NEJ-<year>-<R> with R uniform in [100000, 999999].
// Uniqueness is enforced by the store, not here.
func (g *Generator) Token() (string, error) {
	n, err := rand.Int(g.Random, big.NewInt(tokenRange))
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return fmt.Sprintf("%s-%d-%d", TokenPrefix, g.Now().Year(), n.Int64()+tokenMin), nil
}

func GenerateToken() (string, error) {
	return NewGenerator().Token()
}

// GenerateHash is the lowercase hex SHA-256 of the UTF-8 bytes of input.
func GenerateHash(input string) string {
	sum := sha256.Sum256([]byte(input))
	return hex.EncodeToString(sum[:])
}

func FormatISO(t time.Time) string {
	return t.UTC().Format(ISOLayout)
}

// CreatorHash is computed when the creditor confirms the disclaimer.
func CreatorHash(ip string, at time.Time) string {
	return GenerateHash(ip + "-" + FormatISO(at))
}

type acceptancePayload struct {
	Token          string `json:"token"`
	Timestamp      string `json:"timestamp"`
	NotificationID string `json:"notificationId"`
}

// AcceptancePayload is the exact JSON document hashed at acceptance.
func AcceptancePayload(token string, at time.Time, id uuid.UUID) string {
	b, _ := json.Marshal(acceptancePayload{
		Token:          token,
		Timestamp:      FormatISO(at),
		NotificationID: id.String(),
	})
	return string(b)
}

func AcceptanceHash(token string, at time.Time, id uuid.UUID) string {
	return GenerateHash(AcceptancePayload(token, at, id))
}

func NormalizeToken(token string) string {
	return strings.ToUpper(strings.TrimSpace(token))
}

func NormalizeHash(hash string) string {
	return strings.ToLower(strings.TrimSpace(hash))
}

func VerifyURL(baseURL, token string) string {
	return strings.TrimRight(baseURL, "/") + "/verify/" + token
}
