package postal

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"mr3x-notificacoes/internal/config"
	"mr3x-notificacoes/internal/domain"
	"mr3x-notificacoes/internal/pkg/format"
)

const cacheTTL = 24 * time.Hour

type Service interface {
	Lookup(ctx context.Context, cep string) (*domain.Address, error)
}

type service struct {
	baseURL string
	client  *http.Client
	redis   *redis.Client
	log     *logrus.Entry
}

// NewService accepts a nil redis client; lookups are then never cached.
func NewService(cfg *config.Config, redis *redis.Client, log *logrus.Logger) Service {
	return &service{
		baseURL: strings.TrimRight(cfg.PostalLookupURL, "/"),
		client:  &http.Client{Timeout: cfg.HTTPClientTimeout},
		redis:   redis,
		log:     log.WithField("component", "postal"),
	}
}

type viaCEPResponse struct {
	CEP         string          `json:"cep"`
	Logradouro  string          `json:"logradouro"`
	Complemento string          `json:"complemento"`
	Bairro      string          `json:"bairro"`
	Localidade  string          `json:"localidade"`
	UF          string          `json:"uf"`
	Erro        json.RawMessage `json:"erro,omitempty"`
}

// notFound covers both spellings ViaCEP has used: true and "true".
func (r *viaCEPResponse) notFound() bool {
	v := strings.Trim(string(r.Erro), `"`)
	return v == "true"
}

func cacheKey(digits string) string {
	return "cep:" + digits
}

func (s *service) Lookup(ctx context.Context, cep string) (*domain.Address, error) {
	digits := format.OnlyDigits(cep)
	if len(digits) != 8 {
		return nil, domain.ErrInvalidCEP
	}

	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, cacheKey(digits)).Result(); err == nil {
			var addr domain.Address
			if json.Unmarshal([]byte(cached), &addr) == nil {
				return &addr, nil
			}
		}
	}

	addr, err := s.fetch(ctx, digits)
	if err != nil {
		return nil, err
	}

	if s.redis != nil {
		if data, err := json.Marshal(addr); err == nil {
			if err := s.redis.Set(ctx, cacheKey(digits), data, cacheTTL).Err(); err != nil {
				s.log.WithError(err).Warn("failed to cache CEP lookup")
			}
		}
	}

	return addr, nil
}

func (s *service) fetch(ctx context.Context, digits string) (*domain.Address, error) {
	url := fmt.Sprintf("%s/%s/json/", s.baseURL, digits)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPostalUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		s.log.WithError(err).WithField("cep", digits).Warn("CEP lookup failed")
		return nil, fmt.Errorf("%w: %v", domain.ErrPostalUnavailable, err)
	}
	defer resp.Body.Close()

	// ViaCEP answers 400 for malformed codes, which were rejected above.
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", domain.ErrPostalUnavailable, resp.StatusCode)
	}

	var body viaCEPResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPostalUnavailable, err)
	}
	if body.notFound() {
		return nil, domain.ErrCEPNotFound
	}

	return &domain.Address{
		CEP:          format.ZipCode(digits),
		Street:       body.Logradouro,
		Complement:   body.Complemento,
		Neighborhood: body.Bairro,
		City:         body.Localidade,
		State:        body.UF,
	}, nil
}
