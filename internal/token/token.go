package token

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"time"

	gojose "github.com/go-jose/go-jose/v4"
	gojwt "github.com/go-jose/go-jose/v4/jwt"

	"signflow/internal/config"
)

// Token purposes. Tokens are never interchangeable across purposes: a
// session token does not open a signing link and vice versa.
const (
	PurposeSigningLink = "signing_link"
	PurposeAccess      = "access"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
	ErrWrongPurpose = errors.New("wrong token purpose")
)

// Claims is the payload carried by a SignFlow token. A signing-link
// token is the sole record of its own grant: nothing about it is
// persisted by the issuer, and possession is authority until expiry.
type Claims struct {
	DocumentID  int64  `json:"document_id,omitempty"`
	SignerEmail string `json:"signer_email,omitempty"`
	UserID      int64  `json:"user_id,omitempty"`
	Email       string `json:"email,omitempty"`
	Name        string `json:"name,omitempty"`
	Purpose     string `json:"type"`
}

// Issuer mints and verifies self-contained bearer tokens. Verification
// is pure: it depends only on the secret and the clock, so a token
// still verifies after the signer record it was minted for has been
// replaced. Callers must re-check the signer row before honoring a
// token for a state-changing action.
type Issuer struct {
	secret []byte
	now    func() time.Time
}

func NewIssuer(cfg *config.Config) *Issuer {
	// HS256 requires a 256-bit key, so the configured secret is
	// stretched through SHA-256 regardless of its length.
	key := sha256.Sum256([]byte(cfg.Token.Secret))
	return &Issuer{
		secret: key[:],
		now:    time.Now,
	}
}

// MintSigningLink produces a signing-link token scoped to one signer
// on one document, expiring at now + ttl.
func (i *Issuer) MintSigningLink(documentID int64, signerEmail string, ttl time.Duration) (string, error) {
	return i.mint(Claims{
		DocumentID:  documentID,
		SignerEmail: signerEmail,
		Purpose:     PurposeSigningLink,
	}, ttl)
}

// MintAccess produces a session access token for an authenticated
// account. Login itself is handled outside this service.
func (i *Issuer) MintAccess(userID int64, email, name string, ttl time.Duration) (string, error) {
	return i.mint(Claims{
		UserID:  userID,
		Email:   email,
		Name:    name,
		Purpose: PurposeAccess,
	}, ttl)
}

func (i *Issuer) mint(claims Claims, ttl time.Duration) (string, error) {
	signer, err := gojose.NewSigner(
		gojose.SigningKey{Algorithm: gojose.HS256, Key: i.secret},
		(&gojose.SignerOptions{}).WithType("JWT"),
	)
	if err != nil {
		return "", fmt.Errorf("new signer: %w", err)
	}

	now := i.now().UTC()
	std := gojwt.Claims{
		IssuedAt: gojwt.NewNumericDate(now),
		Expiry:   gojwt.NewNumericDate(now.Add(ttl)),
	}

	raw, err := gojwt.Signed(signer).Claims(std).Claims(claims).Serialize()
	if err != nil {
		return "", fmt.Errorf("serialize token: %w", err)
	}

	return raw, nil
}

// VerifySigningLink decodes a signing-link token and returns its
// claims. Fails with ErrInvalidToken on a malformed token or bad
// signature, ErrWrongPurpose when the token was minted for something
// else, and ErrExpiredToken once the expiry has passed.
func (i *Issuer) VerifySigningLink(raw string) (*Claims, error) {
	return i.verify(raw, PurposeSigningLink)
}

// VerifyAccess decodes a session access token.
func (i *Issuer) VerifyAccess(raw string) (*Claims, error) {
	return i.verify(raw, PurposeAccess)
}

func (i *Issuer) verify(raw, purpose string) (*Claims, error) {
	parsed, err := gojwt.ParseSigned(raw, []gojose.SignatureAlgorithm{gojose.HS256})
	if err != nil {
		return nil, ErrInvalidToken
	}

	var std gojwt.Claims
	var claims Claims
	if err := parsed.Claims(i.secret, &std, &claims); err != nil {
		return nil, ErrInvalidToken
	}

	if claims.Purpose != purpose {
		return nil, ErrWrongPurpose
	}

	if std.Expiry == nil || !std.Expiry.Time().After(i.now()) {
		return nil, ErrExpiredToken
	}

	return &claims, nil
}
