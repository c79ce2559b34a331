package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const voucherTokenIssuer = "karting-voucher-service"

var ErrEmptySigningKey = errors.New("voucher signing key must not be empty")

// VoucherClaims is the signed, printable form of an issued voucher.
// Front desk staff can verify a printed voucher without recomputing it.
type VoucherClaims struct {
	BookingCode   int64   `json:"booking_code"`
	ClientRUT     string  `json:"client_rut"`
	FeeOption     string  `json:"fee_option"`
	Fee           int64   `json:"fee"`
	Discount      float64 `json:"discount"`
	Tax           int64   `json:"tax"`
	Total         int64   `json:"total"`
	ConfigVersion string  `json:"config_version"`
	Digest        string  `json:"digest"`
	jwt.RegisteredClaims
}

// VoucherSigner signs and verifies voucher tokens with HS256.
type VoucherSigner struct {
	key []byte
}

// NewVoucherSigner creates a signer. The key should come from configuration (VOUCHER_SIGNING_KEY).
func NewVoucherSigner(key string) (*VoucherSigner, error) {
	if key == "" {
		return nil, ErrEmptySigningKey
	}
	return &VoucherSigner{key: []byte(key)}, nil
}

// Sign creates a token for claims issued at issuedAt.
func (s *VoucherSigner) Sign(claims VoucherClaims, issuedAt time.Time) (string, error) {
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Subject:  fmt.Sprintf("booking:%d", claims.BookingCode),
		IssuedAt: jwt.NewNumericDate(issuedAt),
		Issuer:   voucherTokenIssuer,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign voucher token: %w", err)
	}
	return tokenString, nil
}

// Verify parses and validates a voucher token string.
// It returns the claims if the token is valid, otherwise an error.
func (s *VoucherSigner) Verify(tokenString string) (*VoucherClaims, error) {
	claims := &VoucherClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.key, nil
	}, jwt.WithIssuer(voucherTokenIssuer))

	if err != nil {
		return nil, fmt.Errorf("token validation failed: %w", err)
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}
