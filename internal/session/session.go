// Package session keeps the upstream session and role in a signed portal cookie
// and implements login forwarding and logout.
package session

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Cookie names.
const (
	CookieSession = "portal_session"
	CookieFlash   = "portal_flash"
)

// Roles issued by the upstream login.
const (
	RoleAdmin    = "admin"
	RoleTenant   = "tenant"
	RoleLandlord = "landlord"
	RoleDesk     = "desk"
)

const (
	issuer        = "tenant-exit-portal"
	audienceState = "session"
	audienceFlash = "flash"

	sessionTTL = 8 * time.Hour
	flashTTL   = time.Minute
)

// ErrNoSecret is returned when cookies are signed without a configured key.
var ErrNoSecret = errors.New("session secret is not configured")

// State is the session carried by a request.
type State struct {
	Token string
	Role  string
}

// LoggedIn reports whether the request carries an upstream session.
func (s State) LoggedIn() bool {
	return s.Token != "" && s.Role != ""
}

// HomePath is the landing page for a role.
func HomePath(role string) string {
	switch role {
	case RoleAdmin:
		return "/admin"
	case RoleLandlord:
		return "/landlord"
	case RoleTenant:
		return "/tenant"
	case RoleDesk:
		return "/desk"
	default:
		return "/login"
	}
}

// Flash is a one-shot message carried across a redirect.
type Flash struct {
	Level string `json:"l"`
	Title string `json:"t"`
	Text  string `json:"x"`
}

type stateClaims struct {
	Token string `json:"tok"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

type flashClaims struct {
	Flash
	jwt.RegisteredClaims
}

// Cookies signs, reads and expires the portal cookies. Values are HS256 JWTs
// keyed by Secret; anything that fails verification reads as absent.
type Cookies struct {
	Secret []byte
	Secure bool

	now func() time.Time
}

func (k Cookies) clock() time.Time {
	if k.now != nil {
		return k.now()
	}
	return time.Now()
}

func (k Cookies) sign(claims jwt.Claims) (string, error) {
	if len(k.Secret) == 0 {
		return "", ErrNoSecret
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(k.Secret)
}

func (k Cookies) verify(raw string, audience string, claims jwt.Claims) error {
	if len(k.Secret) == 0 {
		return ErrNoSecret
	}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return k.Secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithAudience(audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(k.clock),
	)
	return err
}

func (k Cookies) registered(audience string, ttl time.Duration) jwt.RegisteredClaims {
	now := k.clock()
	return jwt.RegisteredClaims{
		Issuer:    issuer,
		Audience:  jwt.ClaimStrings{audience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
}

// Encode returns the signed cookie value for st.
func (k Cookies) Encode(st State) (string, error) {
	return k.sign(&stateClaims{
		Token:            st.Token,
		Role:             st.Role,
		RegisteredClaims: k.registered(audienceState, sessionTTL),
	})
}

// Decode verifies a session cookie value.
func (k Cookies) Decode(raw string) (State, error) {
	var claims stateClaims
	if err := k.verify(raw, audienceState, &claims); err != nil {
		return State{}, err
	}
	return State{Token: claims.Token, Role: claims.Role}, nil
}

// Read returns the session of the request. A missing, expired or tampered
// cookie yields the zero State.
func (k Cookies) Read(c *gin.Context) State {
	raw, err := c.Cookie(CookieSession)
	if err != nil || raw == "" {
		return State{}
	}
	st, err := k.Decode(raw)
	if err != nil {
		return State{}
	}
	return st
}

// Set stores the upstream session and role.
func (k Cookies) Set(c *gin.Context, st State) error {
	v, err := k.Encode(st)
	if err != nil {
		return err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieSession, v, int(sessionTTL.Seconds()), "/", "", k.Secure, true)
	return nil
}

// Clear expires the session cookie.
func (k Cookies) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieSession, "", -1, "/", "", k.Secure, true)
}

// SetFlash stores a message for the next page view. Without a secret the
// message is dropped.
func (k Cookies) SetFlash(c *gin.Context, f Flash) {
	v, err := k.sign(&flashClaims{Flash: f, RegisteredClaims: k.registered(audienceFlash, flashTTL)})
	if err != nil {
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieFlash, v, int(flashTTL.Seconds()), "/", "", k.Secure, true)
}

// TakeFlash returns and expires the pending flash message, if any.
func (k Cookies) TakeFlash(c *gin.Context) *Flash {
	raw, err := c.Cookie(CookieFlash)
	if err != nil || raw == "" {
		return nil
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieFlash, "", -1, "/", "", k.Secure, true)

	var claims flashClaims
	if err := k.verify(raw, audienceFlash, &claims); err != nil {
		return nil
	}
	return &claims.Flash
}
