// Package authz models the authenticated principal and the role-to-route
// policy.
//
// A request is authenticated once at the boundary (PrincipalFromRequest) and
// the resulting Principal travels by context. Every route check consults one
// Policy table.
package authz

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
)

// CookieName is the cookie carrying the authenticated user.
const CookieName = "auth_user"

var (
	// ErrNoPrincipal is returned when a request carries no credentials.
	ErrNoPrincipal = errors.New("no principal")
	// ErrBadPrincipal is returned when credentials are present but malformed.
	ErrBadPrincipal = errors.New("bad principal")
)

// Role is a closed set of user roles.
type Role int

const (
	// RoleUnknown is the zero Role and is never allowed anywhere.
	RoleUnknown Role = iota
	// RoleAdmin manages the whole system.
	RoleAdmin
	// RoleAgency places employees with employers.
	RoleAgency
	// RoleEmployer hosts placed employees.
	RoleEmployer
	// RoleEmployee works shifts.
	RoleEmployee
)

var roleNames = map[Role]string{
	RoleAdmin:    "admin",
	RoleAgency:   "agency",
	RoleEmployer: "employer",
	RoleEmployee: "employee",
}

// String returns the lowercase role name.
func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return fmt.Sprintf("unknown(%d)", int(r))
}

// ParseRole parses a role name (case-insensitive).
func ParseRole(s string) (Role, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for role, n := range roleNames {
		if n == name {
			return role, nil
		}
	}
	return RoleUnknown, fmt.Errorf("unknown role %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (r Role) MarshalText() ([]byte, error) {
	if _, ok := roleNames[r]; !ok {
		return nil, fmt.Errorf("unknown role %d", int(r))
	}
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Role) UnmarshalText(text []byte) error {
	parsed, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Principal is the authenticated user of a request.
type Principal struct {
	ID   string `json:"id"`
	Role Role   `json:"role"`
}

type contextKey string

const principalContextKey contextKey = "principal"

// WithPrincipal returns a context carrying p.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalContextKey, p)
}

// FromContext returns the principal stored by WithPrincipal.
func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalContextKey).(Principal)
	return p, ok
}

// PrincipalFromRequest decodes the auth cookie: base64 (standard or URL
// alphabet) of a JSON object {"id": ..., "role": ...}.
func PrincipalFromRequest(r *http.Request) (Principal, error) {
	c, err := r.Cookie(CookieName)
	if errors.Is(err, http.ErrNoCookie) || (err == nil && c.Value == "") {
		return Principal{}, ErrNoPrincipal
	}
	if err != nil {
		return Principal{}, fmt.Errorf("%w: %v", ErrBadPrincipal, err)
	}
	return DecodePrincipal(c.Value)
}

// DecodePrincipal decodes a cookie value.
func DecodePrincipal(value string) (Principal, error) {
	raw, err := decodeBase64(value)
	if err != nil {
		return Principal{}, fmt.Errorf("%w: %v", ErrBadPrincipal, err)
	}

	var p Principal
	if err := json.Unmarshal(raw, &p); err != nil {
		return Principal{}, fmt.Errorf("%w: %v", ErrBadPrincipal, err)
	}
	if strings.TrimSpace(p.ID) == "" {
		return Principal{}, fmt.Errorf("%w: missing id", ErrBadPrincipal)
	}
	if p.Role == RoleUnknown {
		return Principal{}, fmt.Errorf("%w: missing role", ErrBadPrincipal)
	}
	return p, nil
}

// EncodePrincipal returns the cookie value for p.
func EncodePrincipal(p Principal) (string, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

func decodeBase64(value string) ([]byte, error) {
	for _, enc := range []*base64.Encoding{
		base64.StdEncoding,
		base64.URLEncoding,
		base64.RawStdEncoding,
		base64.RawURLEncoding,
	} {
		if raw, err := enc.DecodeString(value); err == nil {
			return raw, nil
		}
	}
	return nil, errors.New("cookie is not base64")
}

// Policy maps each role to the path prefixes it may access.
// Public paths are matched exactly and are reachable without a principal.
type Policy struct {
	Public []string
	Routes map[Role][]string
}

// DefaultPolicy returns the staffing route table.
func DefaultPolicy() Policy {
	return Policy{
		Public: []string{"/healthz"},
		Routes: map[Role][]string{
			RoleAdmin:    {"/"},
			RoleAgency:   {"/placements", "/assignments", "/timesheets", "/shifts"},
			RoleEmployer: {"/assignments", "/timesheets", "/shifts"},
			RoleEmployee: {"/shifts", "/timesheets"},
		},
	}
}

// IsPublic reports whether path needs no principal.
func (p Policy) IsPublic(path string) bool {
	return slices.Contains(p.Public, path)
}

// Allowed reports whether principal may access path.
// Public paths are allowed for every principal.
func (p Policy) Allowed(principal Principal, path string) bool {
	if p.IsPublic(path) {
		return true
	}
	return slices.ContainsFunc(p.Routes[principal.Role], func(prefix string) bool {
		return matchPrefix(prefix, path)
	})
}

// matchPrefix matches whole path segments: "/shifts" covers "/shifts" and
// "/shifts/columns" but not "/shiftsx". "/" covers every path.
func matchPrefix(prefix, path string) bool {
	prefix = strings.TrimSuffix(prefix, "/")
	if prefix == "" {
		return strings.HasPrefix(path, "/")
	}
	if !strings.HasPrefix(path, prefix) {
		return false
	}
	rest := path[len(prefix):]
	return rest == "" || rest[0] == '/'
}
