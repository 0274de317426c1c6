package jaas

import (
	"crypto/rsa"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	defaultTokenTTL = time.Minute
	// Clock skew between us and the provider; tokens are valid slightly
	// before their issue time.
	notBeforeSkew = 10 * time.Second
)

// Identity is the conference user a token is minted for. ID carries
// "<userId>/<membershipId>" so provider webhooks can be matched back to the
// admission row.
type Identity struct {
	ID    string
	Name  string
	Email string
}

type TokenMinter struct {
	appID      string
	apiKey     string
	privateKey *rsa.PrivateKey
	ttl        time.Duration
}

func NewTokenMinter(appID, apiKey string, privateKeyPEM []byte) (*TokenMinter, error) {
	key, err := jwt.ParseRSAPrivateKeyFromPEM(privateKeyPEM)
	if err != nil {
		return nil, fmt.Errorf("parse jaas private key: %w", err)
	}
	return &TokenMinter{
		appID:      appID,
		apiKey:     apiKey,
		privateKey: key,
		ttl:        defaultTokenTTL,
	}, nil
}

func (m *TokenMinter) AppID() string {
	return m.appID
}

// ConferenceToken mints a short-lived RS256 token scoped to one room. The
// client is expected to connect immediately; the token is not a session.
func (m *TokenMinter) ConferenceToken(user Identity, roomID string, moderator bool) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"aud":  "jitsi",
		"iss":  "chat",
		"sub":  m.appID,
		"room": roomID,
		"exp":  now.Add(m.ttl).Unix(),
		"nbf":  now.Add(-notBeforeSkew).Unix(),
		"context": map[string]any{
			"user": map[string]any{
				"id":        user.ID,
				"name":      user.Name,
				"email":     user.Email,
				"moderator": strconv.FormatBool(moderator),
			},
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = m.apiKey

	signed, err := token.SignedString(m.privateKey)
	if err != nil {
		return "", fmt.Errorf("sign conference token: %w", err)
	}
	return signed, nil
}
