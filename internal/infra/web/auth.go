package web

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ===== Session/JWT primitives =====

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"

	customerCookie = "session"
	adminCookie    = "admin_session"
)

type AuthConfig struct {
	HMACSecret   []byte
	SecureCookie bool
	CustomerTTL  time.Duration
	AdminTTL     time.Duration
}

// AuthManager mints and validates the signed session cookies for both the
// storefront (long-lived customer sessions) and the admin panel (short-lived).
type AuthManager struct{ cfg AuthConfig }

func NewAuthManager(secret string, secure bool, customerTTL, adminTTL time.Duration) *AuthManager {
	return &AuthManager{cfg: AuthConfig{
		HMACSecret:   []byte(secret),
		SecureCookie: secure,
		CustomerTTL:  customerTTL,
		AdminTTL:     adminTTL,
	}}
}

type SessionClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// MintCustomer issues a customer session cookie whose subject is the user id.
func (a *AuthManager) MintCustomer(w http.ResponseWriter, userID string) (string, error) {
	return a.mint(w, customerCookie, RoleCustomer, userID, a.cfg.CustomerTTL)
}

// MintAdmin issues the admin panel cookie. The subject is the admin email.
func (a *AuthManager) MintAdmin(w http.ResponseWriter, adminEmail string) (string, error) {
	return a.mint(w, adminCookie, RoleAdmin, adminEmail, a.cfg.AdminTTL)
}

func (a *AuthManager) mint(w http.ResponseWriter, cookieName, role, subject string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Subject:   subject,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(a.cfg.HMACSecret)
	if err != nil {
		return "", err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    signed,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   a.cfg.SecureCookie,
		SameSite: http.SameSiteStrictMode,
	})
	return signed, nil
}

func (a *AuthManager) ClearCustomer(w http.ResponseWriter) { a.clear(w, customerCookie) }
func (a *AuthManager) ClearAdmin(w http.ResponseWriter)    { a.clear(w, adminCookie) }

func (a *AuthManager) clear(w http.ResponseWriter, cookieName string) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   a.cfg.SecureCookie,
		SameSite: http.SameSiteStrictMode,
	})
}

// ParseCustomer resolves the customer session from the Authorization header or
// the session cookie and returns the user id.
func (a *AuthManager) ParseCustomer(r *http.Request) (string, error) {
	claims, err := a.parseFromRequest(r, customerCookie)
	if err != nil {
		return "", err
	}
	if claims.Role != RoleCustomer || claims.Subject == "" {
		return "", errors.New("invalid token")
	}
	return claims.Subject, nil
}

// ParseAdmin resolves the admin session and returns the admin identity.
func (a *AuthManager) ParseAdmin(r *http.Request) (string, error) {
	claims, err := a.parseFromRequest(r, adminCookie)
	if err != nil {
		return "", err
	}
	if claims.Role != RoleAdmin {
		return "", errors.New("invalid token")
	}
	return claims.Subject, nil
}

func (a *AuthManager) parseFromRequest(r *http.Request, cookieName string) (*SessionClaims, error) {
	// Authorization: Bearer <jwt>
	if hdr := r.Header.Get("Authorization"); hdr != "" {
		if strings.HasPrefix(strings.ToLower(hdr), "bearer ") {
			return a.parse(strings.TrimSpace(hdr[7:]))
		}
	}
	// Cookie
	if c, err := r.Cookie(cookieName); err == nil {
		return a.parse(c.Value)
	}
	return nil, errors.New("missing token")
}

func (a *AuthManager) parse(tok string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	tkn, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (any, error) {
		return a.cfg.HMACSecret, nil
	})
	if err != nil || !tkn.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
