package jwt

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

var (
	ErrMissingClaims   = errors.New("authentication claims not found")
	ErrCompanyRequired = errors.New("token is not bound to a company")
	ErrWrongTokenType  = errors.New("token type is not accepted here")
)

const (
	TokenTypeAccess = "access"
	TokenTypeSSE    = "sse"

	sseTokenTTL = 5 * time.Minute
)

// Claims is the subset of token claims the API relies on. Tokens minted by
// the hosted auth provider carry the user in "sub" and no "type".
type Claims struct {
	UserID    string
	CompanyID string
	Role      string
	Type      string
}

// IsAccess reports whether the token may call the REST API.
func (c Claims) IsAccess() bool {
	return c.Type == "" || c.Type == TokenTypeAccess
}

type Service interface {
	JWTAuth() *jwtauth.JWTAuth
	GenerateAccessToken(userID string, companyID string, role string, ttl time.Duration) (token string, expiresAt int64, err error)
	GenerateSSEToken(claims Claims) (token string, expiresIn int, err error)
	ValidateSSEToken(tokenString string) (Claims, error)
}

type JWTService struct {
	tokenAuth *jwtauth.JWTAuth
}

func NewJWTService(secretKey string, skew time.Duration) Service {
	return &JWTService{
		tokenAuth: jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(skew)),
	}
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

// GenerateAccessToken mints a token in the provider's shape. Used by tests and
// local tooling; production tokens come from the provider.
func (j *JWTService) GenerateAccessToken(userID string, companyID string, role string, ttl time.Duration) (token string, expiresAt int64, err error) {
	expiresAt = time.Now().Add(ttl).Unix()
	_, token, err = j.tokenAuth.Encode(map[string]interface{}{
		"sub":        userID,
		"user_id":    userID,
		"company_id": companyID,
		"role":       role,
		"type":       TokenTypeAccess,
		"exp":        expiresAt,
	})
	return token, expiresAt, err
}

// GenerateSSEToken issues a short-lived token for EventSource clients, which
// cannot send an Authorization header.
func (j *JWTService) GenerateSSEToken(claims Claims) (token string, expiresIn int, err error) {
	if claims.CompanyID == "" {
		return "", 0, ErrCompanyRequired
	}
	expiresIn = int(sseTokenTTL.Seconds())

	_, token, err = j.tokenAuth.Encode(map[string]interface{}{
		"user_id":    claims.UserID,
		"company_id": claims.CompanyID,
		"type":       TokenTypeSSE,
		"exp":        time.Now().Add(sseTokenTTL).Unix(),
	})
	if err != nil {
		return "", 0, err
	}
	return token, expiresIn, nil
}

func (j *JWTService) ValidateSSEToken(tokenString string) (Claims, error) {
	token, err := jwtauth.VerifyToken(j.tokenAuth, tokenString)
	if err != nil {
		return Claims{}, err
	}

	claims, err := token.AsMap(context.Background())
	if err != nil {
		return Claims{}, err
	}
	c := claimsFromMap(claims)
	if c.Type != TokenTypeSSE {
		return Claims{}, ErrWrongTokenType
	}
	if c.CompanyID == "" {
		return Claims{}, ErrCompanyRequired
	}
	return c, nil
}

// ClaimsFromContext reads the claims jwtauth.Verifier stored on the request.
func ClaimsFromContext(ctx context.Context) (Claims, error) {
	token, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return Claims{}, fmt.Errorf("failed to extract claims from context: %w", err)
	}
	if token == nil || claims == nil {
		return Claims{}, ErrMissingClaims
	}
	return claimsFromMap(claims), nil
}

// NewClaimsContext attaches unsigned claims to ctx the way jwtauth.Verifier
// does for requests. Background tooling uses it to act for a company.
func NewClaimsContext(ctx context.Context, c Claims) (context.Context, error) {
	token := jwt.New()
	for key, value := range map[string]string{
		"user_id":    c.UserID,
		"company_id": c.CompanyID,
		"role":       c.Role,
		"type":       c.Type,
	} {
		if value == "" {
			continue
		}
		if err := token.Set(key, value); err != nil {
			return nil, fmt.Errorf("failed to set claim %s: %w", key, err)
		}
	}
	return jwtauth.NewContext(ctx, token, nil), nil
}

// CompanyFromContext returns the company the caller acts for.
func CompanyFromContext(ctx context.Context) (Claims, error) {
	c, err := ClaimsFromContext(ctx)
	if err != nil {
		return Claims{}, err
	}
	if c.CompanyID == "" {
		return Claims{}, ErrCompanyRequired
	}
	return c, nil
}

func claimsFromMap(m map[string]interface{}) Claims {
	str := func(key string) string {
		v, _ := m[key].(string)
		return v
	}

	c := Claims{
		UserID:    str("user_id"),
		CompanyID: str("company_id"),
		Role:      str("role"),
		Type:      str("type"),
	}
	if c.UserID == "" {
		c.UserID = str("sub")
	}
	return c
}
