package utils // package utils provides helper functions for session token handling and hashing

import (
    "errors" // sentinel error for invalid tokens
    "time"   // expiry computation

    "github.com/golang-jwt/jwt/v5" // JWT library for creating and parsing signed tokens

    "github.com/docushield/document-portal/internal/model" // principal and role types
)

// ErrInvalidToken is returned by DecodeSessionToken for any token that does
// not verify: bad signature, wrong algorithm, expired, structurally broken
// or carrying an unknown role.  Callers never see partial claim data.
var ErrInvalidToken = errors.New("invalid session token")

// SessionToken holds a signed JWT and its absolute expiry.  The token is
// self-contained: it embeds a snapshot of the user identity at issuance
// time and is carried by the client in an HTTP-only cookie or in the
// Authorization header.
type SessionToken struct {
    Token string    // the serialized JWT string
    Exp   time.Time // the UTC expiration time
}

// sessionClaims are the claims embedded in a session token.  The subject
// carries the user ID; the remaining fields are display data snapshot at
// issuance.  Role is kept as a plain string on the wire and re-validated
// through model.ParseRole on decode.
type sessionClaims struct {
    Email     string `json:"email"`
    Role      string `json:"role"`
    FirstName string `json:"first_name"`
    LastName  string `json:"last_name"`
    jwt.RegisteredClaims
}

// NewSessionToken builds and signs an HS256 JWT for the given principal.
// ttlDays controls the validity window (7 days in the default config).
// The claims include sub, email, role, first/last name, exp and iat.
func NewSessionToken(secret string, p model.Principal, ttlDays int) (SessionToken, error) {
    now := time.Now().UTC()
    exp := now.Add(time.Duration(ttlDays) * 24 * time.Hour)
    claims := sessionClaims{
        Email:     p.Email,
        Role:      string(p.Role),
        FirstName: p.FirstName,
        LastName:  p.LastName,
        RegisteredClaims: jwt.RegisteredClaims{
            Subject:   p.ID,
            ExpiresAt: jwt.NewNumericDate(exp),
            IssuedAt:  jwt.NewNumericDate(now),
        },
    }
    t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    signed, err := t.SignedString([]byte(secret))
    if err != nil {
        return SessionToken{}, err
    }
    return SessionToken{Token: signed, Exp: exp}, nil
}

// DecodeSessionToken verifies signature and expiry and returns the embedded
// principal.  Only HMAC-signed tokens are accepted; a token signed with any
// other method is rejected before the key is even consulted.
func DecodeSessionToken(secret, raw string) (model.Principal, error) {
    var claims sessionClaims
    tok, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
        if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, ErrInvalidToken
        }
        return []byte(secret), nil
    })
    if err != nil || !tok.Valid {
        return model.Principal{}, ErrInvalidToken
    }
    role, err := model.ParseRole(claims.Role)
    if err != nil {
        return model.Principal{}, ErrInvalidToken
    }
    if claims.Subject == "" {
        return model.Principal{}, ErrInvalidToken
    }
    return model.Principal{
        ID:        claims.Subject,
        Email:     claims.Email,
        Role:      role,
        FirstName: claims.FirstName,
        LastName:  claims.LastName,
    }, nil
}
