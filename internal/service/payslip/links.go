package payslip

import (
	"errors"
	"fmt"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jws"
	"github.com/lestrrat-go/jwx/v2/jwt"

	"github.com/nuzum-sa/nuzum-backend-go/internal/config"
	"github.com/nuzum-sa/nuzum-backend-go/internal/pkg/validator"
)

const (
	linkIssuer   = "nuzum"
	linkAudience = "payslip-secure-link"
	linkValidity = 31 * 24 * time.Hour
)

var (
	ErrInvalidLink     = errors.New("payslip link is invalid")
	ErrExpiredLink     = errors.New("payslip link has expired")
	ErrChallengeFailed = errors.New("id number does not match")
)

// LinkClaims is the payload a secure payslip link carries.
type LinkClaims struct {
	EmployeeID int64
	Year       int
	Month      int
	IDTail     string
}

// LinkService signs and redeems time-limited payslip tokens. Rotating
// the secret or the key id invalidates every outstanding link.
type LinkService struct {
	secret  []byte
	keyID   string
	baseURL string
	now     func() time.Time
}

func NewLinkService(cfg config.LinkConfig, baseURL string) *LinkService {
	return &LinkService{
		secret:  []byte(cfg.Secret),
		keyID:   cfg.KeyID,
		baseURL: baseURL,
		now:     time.Now,
	}
}

// Issue signs a link token for the employee's (year, month) payslip.
// The token embeds the last four digits of the national id as the
// redemption challenge.
func (s *LinkService) Issue(employeeID int64, year, month int, nationalID string) (string, error) {
	now := s.now()
	tok, err := jwt.NewBuilder().
		Issuer(linkIssuer).
		Audience([]string{linkAudience}).
		IssuedAt(now).
		Expiration(now.Add(linkValidity)).
		Claim("employee_id", employeeID).
		Claim("year", year).
		Claim("month", month).
		Claim("id_tail", validator.IDTail(nationalID)).
		Build()
	if err != nil {
		return "", fmt.Errorf("build link token: %w", err)
	}

	hdrs := jws.NewHeaders()
	if err := hdrs.Set(jws.KeyIDKey, s.keyID); err != nil {
		return "", fmt.Errorf("set key id: %w", err)
	}
	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.HS256, s.secret, jws.WithProtectedHeaders(hdrs)))
	if err != nil {
		return "", fmt.Errorf("sign link token: %w", err)
	}
	return string(signed), nil
}

// URL renders the public redemption URL for a token.
func (s *LinkService) URL(token string) string {
	return fmt.Sprintf("%s/secure-payslip/%s", s.baseURL, token)
}

// Parse verifies signature, key id, issuer, audience and expiry, and
// extracts the claims. Tampering maps to ErrInvalidLink, expiry to
// ErrExpiredLink.
func (s *LinkService) Parse(token string) (LinkClaims, error) {
	msg, err := jws.Parse([]byte(token))
	if err != nil {
		return LinkClaims{}, ErrInvalidLink
	}
	sigs := msg.Signatures()
	if len(sigs) != 1 || sigs[0].ProtectedHeaders().KeyID() != s.keyID {
		return LinkClaims{}, ErrInvalidLink
	}

	tok, err := jwt.Parse([]byte(token),
		jwt.WithKey(jwa.HS256, s.secret),
		jwt.WithValidate(true),
		jwt.WithClock(jwt.ClockFunc(s.now)),
		jwt.WithIssuer(linkIssuer),
		jwt.WithAudience(linkAudience),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired()) {
			return LinkClaims{}, ErrExpiredLink
		}
		return LinkClaims{}, ErrInvalidLink
	}

	claims := LinkClaims{
		EmployeeID: intClaim(tok, "employee_id"),
		Year:       int(intClaim(tok, "year")),
		Month:      int(intClaim(tok, "month")),
	}
	if tail, ok := tok.Get("id_tail"); ok {
		claims.IDTail, _ = tail.(string)
	}
	if claims.EmployeeID == 0 || claims.Year == 0 || claims.Month == 0 {
		return LinkClaims{}, ErrInvalidLink
	}
	return claims, nil
}

// VerifyChallenge checks the presented id number against the stored one
// and the token's tail. Both sides are digit-normalized first, so
// Arabic-Indic input matches ASCII storage.
func (c LinkClaims) VerifyChallenge(presentedID, storedID string) error {
	presented := validator.NormalizeDigits(presentedID)
	stored := validator.NormalizeDigits(storedID)
	if presented == "" || presented != stored {
		return ErrChallengeFailed
	}
	if validator.IDTail(presented) != c.IDTail {
		return ErrChallengeFailed
	}
	return nil
}

// intClaim reads a numeric private claim; json numbers arrive as
// float64 after a parse round-trip.
func intClaim(tok jwt.Token, name string) int64 {
	v, ok := tok.Get(name)
	if !ok {
		return 0
	}
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case float64:
		return int64(n)
	default:
		return 0
	}
}
