package payslip

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nuzum-sa/nuzum-backend-go/internal/config"
)

func testLinkService() *LinkService {
	return NewLinkService(config.LinkConfig{Secret: "test-secret-at-least-32-bytes-long!!", KeyID: "v1"}, "https://payroll.example.sa")
}

func TestLink_IssueAndParseRoundTrip(t *testing.T) {
	svc := testLinkService()

	token, err := svc.Issue(42, 2025, 3, "1234567890")
	require.NoError(t, err)

	claims, err := svc.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.EmployeeID)
	assert.Equal(t, 2025, claims.Year)
	assert.Equal(t, 3, claims.Month)
	assert.Equal(t, "7890", claims.IDTail)
}

func TestLink_TamperedTokenIsInvalid(t *testing.T) {
	svc := testLinkService()
	token, err := svc.Issue(42, 2025, 3, "1234567890")
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	parts[1] = strings.Replace(parts[1], "a", "b", 1)
	_, err = svc.Parse(strings.Join(parts, "."))
	assert.ErrorIs(t, err, ErrInvalidLink)

	_, err = svc.Parse("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidLink)
}

func TestLink_ExpiresAfterThirtyOneDays(t *testing.T) {
	svc := testLinkService()
	issued := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return issued }

	token, err := svc.Issue(42, 2025, 3, "1234567890")
	require.NoError(t, err)

	svc.now = func() time.Time { return issued.Add(30 * 24 * time.Hour) }
	_, err = svc.Parse(token)
	assert.NoError(t, err)

	svc.now = func() time.Time { return issued.Add(31*24*time.Hour + time.Minute) }
	_, err = svc.Parse(token)
	assert.ErrorIs(t, err, ErrExpiredLink)
}

func TestLink_RotatedKeyInvalidatesOutstandingLinks(t *testing.T) {
	svc := testLinkService()
	token, err := svc.Issue(42, 2025, 3, "1234567890")
	require.NoError(t, err)

	rotatedSecret := NewLinkService(config.LinkConfig{Secret: "another-secret-also-32-bytes-long!!!", KeyID: "v1"}, "https://payroll.example.sa")
	_, err = rotatedSecret.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidLink)

	rotatedKeyID := NewLinkService(config.LinkConfig{Secret: "test-secret-at-least-32-bytes-long!!", KeyID: "v2"}, "https://payroll.example.sa")
	_, err = rotatedKeyID.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidLink)
}

func TestLink_URL(t *testing.T) {
	svc := testLinkService()
	assert.Equal(t, "https://payroll.example.sa/secure-payslip/abc", svc.URL("abc"))
}

func TestVerifyChallenge(t *testing.T) {
	claims := LinkClaims{EmployeeID: 42, Year: 2025, Month: 3, IDTail: "7890"}

	t.Run("exact match", func(t *testing.T) {
		assert.NoError(t, claims.VerifyChallenge("1234567890", "1234567890"))
	})

	t.Run("arabic-indic digits accepted", func(t *testing.T) {
		assert.NoError(t, claims.VerifyChallenge("١٢٣٤٥٦٧٨٩٠", "1234567890"))
	})

	t.Run("formatting ignored", func(t *testing.T) {
		assert.NoError(t, claims.VerifyChallenge("1234-567-890", "1234567890"))
	})

	t.Run("wrong id", func(t *testing.T) {
		assert.ErrorIs(t, claims.VerifyChallenge("9999999999", "1234567890"), ErrChallengeFailed)
	})

	t.Run("empty presented id", func(t *testing.T) {
		assert.ErrorIs(t, claims.VerifyChallenge("", "1234567890"), ErrChallengeFailed)
	})

	t.Run("tail mismatch", func(t *testing.T) {
		stale := LinkClaims{EmployeeID: 42, Year: 2025, Month: 3, IDTail: "0000"}
		assert.ErrorIs(t, stale.VerifyChallenge("1234567890", "1234567890"), ErrChallengeFailed)
	})
}
