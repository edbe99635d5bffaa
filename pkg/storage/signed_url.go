package storage

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// SignedURLSigner mints time-limited download tokens so raw storage
// paths never appear in URLs. A token binds a document id to the path
// it was issued for; either changing invalidates the signature.
type SignedURLSigner struct {
	secret []byte
	ttl    time.Duration
}

type signedClaims struct {
	ID      string `json:"id"`
	Path    string `json:"path"`
	Expires int64  `json:"exp"`
}

// NewSignedURLSigner constructs a signer. TTL defaults to 30 minutes.
func NewSignedURLSigner(secret string, ttl time.Duration) *SignedURLSigner {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &SignedURLSigner{secret: []byte(secret), ttl: ttl}
}

// Generate returns a token of the form base64(claims).base64(hmac).
func (s *SignedURLSigner) Generate(id, relPath string) (string, time.Time, error) {
	if id == "" || relPath == "" {
		return "", time.Time{}, fmt.Errorf("id and relPath required")
	}
	if len(s.secret) == 0 {
		return "", time.Time{}, fmt.Errorf("signing secret missing")
	}

	expiresAt := time.Now().Add(s.ttl)
	payload, err := json.Marshal(signedClaims{ID: id, Path: relPath, Expires: expiresAt.Unix()})
	if err != nil {
		return "", time.Time{}, fmt.Errorf("encode token claims: %w", err)
	}

	body := base64.RawURLEncoding.EncodeToString(payload)
	token := body + "." + s.sign(body)
	return token, expiresAt, nil
}

// Parse verifies the signature and expiry and returns the embedded
// metadata. allowExpired skips only the expiry check, never the
// signature check.
func (s *SignedURLSigner) Parse(token string, allowExpired bool) (id, relPath string, expiresAt time.Time, err error) {
	body, sig, found := strings.Cut(token, ".")
	if !found || body == "" || sig == "" {
		return "", "", time.Time{}, fmt.Errorf("malformed token")
	}
	if !hmac.Equal([]byte(s.sign(body)), []byte(sig)) {
		return "", "", time.Time{}, fmt.Errorf("invalid token signature")
	}

	payload, err := base64.RawURLEncoding.DecodeString(body)
	if err != nil {
		return "", "", time.Time{}, fmt.Errorf("decode token: %w", err)
	}
	var claims signedClaims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return "", "", time.Time{}, fmt.Errorf("decode token claims: %w", err)
	}

	expiresAt = time.Unix(claims.Expires, 0)
	if !allowExpired && time.Now().After(expiresAt) {
		return "", "", time.Time{}, fmt.Errorf("token expired")
	}
	return claims.ID, claims.Path, expiresAt, nil
}

func (s *SignedURLSigner) sign(body string) string {
	mac := hmac.New(sha256.New, s.secret)
	_, _ = mac.Write([]byte(body))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
