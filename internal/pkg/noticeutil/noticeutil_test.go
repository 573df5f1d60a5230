package noticeutil

import (
	"crypto/rand"
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var lowerHex = regexp.MustCompile(`^[0-9a-f]{64}$`)

func TestToken_Format(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("token carries the creation year and a six digit suffix", prop.ForAll(
		func(year int) bool {
			g := &Generator{
				Now:    func() time.Time { return time.Date(year, time.June, 1, 12, 0, 0, 0, time.UTC) },
				Random: rand.Reader,
			}
			token, err := g.Token()
			if err != nil || !TokenPattern.MatchString(token) {
				return false
			}
			parts := strings.Split(token, "-")
			suffix, err := strconv.Atoi(parts[3])
			return err == nil &&
				parts[2] == strconv.Itoa(year) &&
				suffix >= 100000 && suffix <= 999999
		},
		gen.IntRange(2000, 2999),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestGenerateToken(t *testing.T) {
	token, err := GenerateToken()
	require.NoError(t, err)
	assert.Regexp(t, TokenPattern, token)
	assert.True(t, strings.HasPrefix(token, "MR3X-NEJ-"+strconv.Itoa(time.Now().Year())+"-"))
}

func TestToken_RandomSourceFailure(t *testing.T) {
	g := &Generator{Now: time.Now, Random: strings.NewReader("")}
	_, err := g.Token()
	assert.Error(t, err)
}

func TestGenerateHash(t *testing.T) {
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", GenerateHash(""))
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", GenerateHash("abc"))

	properties := gopter.NewProperties(nil)
	properties.Property("hash is 64 lowercase hex chars and deterministic", prop.ForAll(
		func(input string) bool {
			h := GenerateHash(input)
			return lowerHex.MatchString(h) && h == GenerateHash(input)
		},
		gen.AnyString(),
	))
	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestAcceptancePayload(t *testing.T) {
	id := uuid.MustParse("0b7e3c1a-7f7e-4c8e-9c43-2f1b8a9d0e11")
	at := time.Date(2025, 1, 15, 10, 45, 30, 123000000, time.FixedZone("BRT", -3*60*60))

	payload := AcceptancePayload("MR3X-NEJ-2025-123456", at, id)
	assert.Equal(t,
		`{"token":"MR3X-NEJ-2025-123456","timestamp":"2025-01-15T13:45:30.123Z","notificationId":"0b7e3c1a-7f7e-4c8e-9c43-2f1b8a9d0e11"}`,
		payload)
	assert.Equal(t, GenerateHash(payload), AcceptanceHash("MR3X-NEJ-2025-123456", at, id))
}

func TestCreatorHash(t *testing.T) {
	at := time.Date(2025, 1, 15, 13, 45, 30, 0, time.UTC)
	assert.Equal(t, GenerateHash("203.0.113.7-2025-01-15T13:45:30.000Z"), CreatorHash("203.0.113.7", at))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "MR3X-NEJ-2025-123456", NormalizeToken("  mr3x-nej-2025-123456 "))
	assert.Equal(t, "abcdef", NormalizeHash(" ABCDEF"))
}

func TestVerifyURL(t *testing.T) {
	assert.Equal(t, "https://app.mr3x.com.br/verify/MR3X-NEJ-2025-123456",
		VerifyURL("https://app.mr3x.com.br/", "MR3X-NEJ-2025-123456"))
}

func TestDefaultTerms(t *testing.T) {
	assert.Contains(t, DefaultTerms(), "NOTIFICAÇÃO EXTRAJUDICIAL")
}
