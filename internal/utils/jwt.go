package utils // package utils provides helpers for token creation and password hashing

import (
    "errors"  // sentinel errors for token resolution
    "fmt"     // error wrapping
    "strings" // prefix handling for "Bearer " values
    "time"    // expirations

    "github.com/golang-jwt/jwt/v5" // JWT library for creating and parsing signed tokens
)

// BearerPrefix precedes the JWT inside the access_token cookie.
const BearerPrefix = "Bearer "

var (
    // ErrInvalidToken covers malformed, badly signed and subject-less tokens.
    ErrInvalidToken = errors.New("invalid token")
    // ErrTokenExpired is returned once exp has passed.
    ErrTokenExpired = errors.New("token expired")
)

// AccessToken represents a signed JWT access token along with its expiry.
type AccessToken struct {
    Token string    // the serialized JWT string
    Exp   time.Time // the UTC expiration time
}

// CookieValue is the string stored in the access_token cookie.
func (a AccessToken) CookieValue() string { return BearerPrefix + a.Token }

// TokenService issues and resolves HMAC-signed access tokens.  The subject
// claim carries the user's UUID.
type TokenService struct {
    secret []byte
    method jwt.SigningMethod
    ttl    time.Duration
    now    func() time.Time
}

// NewTokenService validates the algorithm name (HS256, HS384 or HS512).
func NewTokenService(secret, algorithm string, ttl time.Duration) (*TokenService, error) {
    method, ok := jwt.GetSigningMethod(strings.ToUpper(algorithm)).(*jwt.SigningMethodHMAC)
    if !ok {
        return nil, fmt.Errorf("unsupported jwt algorithm %q", algorithm)
    }
    if secret == "" {
        return nil, errors.New("jwt secret is empty")
    }
    return &TokenService{secret: []byte(secret), method: method, ttl: ttl, now: time.Now}, nil
}

// TTL is the lifetime given to issued tokens.
func (s *TokenService) TTL() time.Duration { return s.ttl }

// Issue builds and signs a token for subject with sub, iat and exp claims.
func (s *TokenService) Issue(subject string) (AccessToken, error) {
    now := s.now().UTC()
    exp := now.Add(s.ttl)
    claims := jwt.RegisteredClaims{
        Subject:   subject,
        IssuedAt:  jwt.NewNumericDate(now),
        ExpiresAt: jwt.NewNumericDate(exp),
    }
    signed, err := jwt.NewWithClaims(s.method, claims).SignedString(s.secret)
    if err != nil {
        return AccessToken{}, err
    }
    return AccessToken{Token: signed, Exp: exp}, nil
}

// Resolve verifies raw, which may still carry the "Bearer " prefix, and
// returns its claims and subject.
func (s *TokenService) Resolve(raw string) (*jwt.RegisteredClaims, string, error) {
    raw = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), BearerPrefix))
    if raw == "" {
        return nil, "", ErrInvalidToken
    }
    claims := &jwt.RegisteredClaims{}
    _, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
        return s.secret, nil
    },
        jwt.WithValidMethods([]string{s.method.Alg()}),
        jwt.WithExpirationRequired(),
        jwt.WithTimeFunc(s.now),
    )
    switch {
    case errors.Is(err, jwt.ErrTokenExpired):
        return nil, "", ErrTokenExpired
    case err != nil:
        return nil, "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
    }
    if claims.Subject == "" {
        return nil, "", ErrInvalidToken
    }
    return claims, claims.Subject, nil
}
