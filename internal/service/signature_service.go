package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"

	"exchange-relay/internal/core/ports"
)

// Signature schemes accepted by NewSignatureService.
const (
	SchemeSHA256 = "sha256"
	SchemeHMAC   = "hmac"
)

// SignatureParam is the query parameter carrying the signature.
const SignatureParam = "signature"

// CanonicalQuery serialises params as k=v pairs joined by '&' in ascending
// key order with query-escaped values. The result is both the signed string
// and the transmitted query, so the two can never disagree. The signature is
// therefore computed over the escaped form: asset=SHIB,PEPE is signed as
// asset=SHIB%2CPEPE.
func CanonicalQuery(params url.Values) string {
	return params.Encode()
}

// SignedQuery returns the canonical query with the signature appended as the
// final parameter. Any signature already present in params is ignored.
func SignedQuery(sigSvc ports.SignatureService, secret string, params url.Values) string {
	unsigned := make(url.Values, len(params))
	for k, v := range params {
		if k == SignatureParam {
			continue
		}
		unsigned[k] = v
	}
	canonical := CanonicalQuery(unsigned)
	signature := sigSvc.Sign(secret, unsigned)
	if canonical == "" {
		return SignatureParam + "=" + signature
	}
	return canonical + "&" + SignatureParam + "=" + signature
}

// NewSignatureService returns the signer for scheme.
func NewSignatureService(scheme string) (ports.SignatureService, error) {
	switch scheme {
	case SchemeSHA256:
		return NewSHA256SignatureService(), nil
	case SchemeHMAC:
		return NewHMACSignatureService(), nil
	default:
		return nil, fmt.Errorf("unsupported signature scheme %q", scheme)
	}
}

// SHA256SignatureService signs sha256(canonical || secret).
type SHA256SignatureService struct{}

// NewSHA256SignatureService creates the concatenation signer.
func NewSHA256SignatureService() *SHA256SignatureService {
	return &SHA256SignatureService{}
}

// Sign returns the lowercase hex SHA-256 of the canonical query followed by
// the secret.
func (s *SHA256SignatureService) Sign(secret string, params url.Values) string {
	sum := sha256.Sum256([]byte(CanonicalQuery(params) + secret))
	return hex.EncodeToString(sum[:])
}

// Verify uses constant-time comparison.
func (s *SHA256SignatureService) Verify(secret string, params url.Values, signature string) bool {
	return hmac.Equal([]byte(s.Sign(secret, params)), []byte(signature))
}

func (s *SHA256SignatureService) Scheme() string { return SchemeSHA256 }

// HMACSignatureService signs HMAC-SHA256(secret, canonical).
type HMACSignatureService struct{}

// NewHMACSignatureService creates a new HMAC-SHA256 signature service.
func NewHMACSignatureService() *HMACSignatureService {
	return &HMACSignatureService{}
}

// Sign computes HMAC-SHA256 of the canonical query keyed by secret.
// Returns lowercase hex-encoded signature.
func (s *HMACSignatureService) Sign(secret string, params url.Values) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(CanonicalQuery(params)))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify checks if signature matches HMAC-SHA256(secret, canonical).
// Uses constant-time comparison to prevent timing attacks.
func (s *HMACSignatureService) Verify(secret string, params url.Values, signature string) bool {
	return hmac.Equal([]byte(s.Sign(secret, params)), []byte(signature))
}

func (s *HMACSignatureService) Scheme() string { return SchemeHMAC }
