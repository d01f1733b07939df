package token_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"signflow/internal/config"
	"signflow/internal/token"
)

func newIssuer() *token.Issuer {
	cfg := &config.Config{}
	cfg.Token.Secret = "test-secret-key-for-signing-links"
	return token.NewIssuer(cfg)
}

func TestSigningLinkRoundTrip(t *testing.T) {
	issuer := newIssuer()

	raw, err := issuer.MintSigningLink(42, "signer@example.com", 72*time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	claims, err := issuer.VerifySigningLink(raw)
	require.NoError(t, err)
	require.Equal(t, int64(42), claims.DocumentID)
	require.Equal(t, "signer@example.com", claims.SignerEmail)
	require.Equal(t, token.PurposeSigningLink, claims.Purpose)
}

func TestSigningLinkExpired(t *testing.T) {
	issuer := newIssuer()

	raw, err := issuer.MintSigningLink(42, "signer@example.com", -time.Minute)
	require.NoError(t, err)

	_, err = issuer.VerifySigningLink(raw)
	require.ErrorIs(t, err, token.ErrExpiredToken)
}

func TestSigningLinkTampered(t *testing.T) {
	issuer := newIssuer()

	raw, err := issuer.MintSigningLink(42, "signer@example.com", time.Hour)
	require.NoError(t, err)

	tampered := raw[:len(raw)-2] + "xx"
	_, err = issuer.VerifySigningLink(tampered)
	require.ErrorIs(t, err, token.ErrInvalidToken)

	_, err = issuer.VerifySigningLink("not-a-token")
	require.ErrorIs(t, err, token.ErrInvalidToken)
}

func TestPurposeNotInterchangeable(t *testing.T) {
	issuer := newIssuer()

	access, err := issuer.MintAccess(7, "owner@example.com", "Owner", time.Hour)
	require.NoError(t, err)

	_, err = issuer.VerifySigningLink(access)
	require.ErrorIs(t, err, token.ErrWrongPurpose)

	link, err := issuer.MintSigningLink(42, "signer@example.com", time.Hour)
	require.NoError(t, err)

	_, err = issuer.VerifyAccess(link)
	require.ErrorIs(t, err, token.ErrWrongPurpose)
}

func TestSecretMismatch(t *testing.T) {
	issuer := newIssuer()

	other := &config.Config{}
	other.Token.Secret = "a-different-secret-entirely"
	otherIssuer := token.NewIssuer(other)

	raw, err := otherIssuer.MintSigningLink(42, "signer@example.com", time.Hour)
	require.NoError(t, err)

	_, err = issuer.VerifySigningLink(raw)
	require.ErrorIs(t, err, token.ErrInvalidToken)
}

func TestShortSecretStillMints(t *testing.T) {
	// The issuer stretches the secret to a full HS256 key, so a
	// configured secret shorter than 32 bytes must still work.
	cfg := &config.Config{}
	cfg.Token.Secret = "short"
	issuer := token.NewIssuer(cfg)

	raw, err := issuer.MintSigningLink(7, "signer@example.com", time.Hour)
	require.NoError(t, err)

	claims, err := issuer.VerifySigningLink(raw)
	require.NoError(t, err)
	require.Equal(t, int64(7), claims.DocumentID)
}
