package authz

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		in   string
		want Role
	}{
		{"admin", RoleAdmin},
		{"Agency", RoleAgency},
		{" EMPLOYER ", RoleEmployer},
		{"employee", RoleEmployee},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRole(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseRole("owner")
	require.Error(t, err)
}

func TestRole_String(t *testing.T) {
	assert.Equal(t, "employer", RoleEmployer.String())
	assert.Equal(t, "unknown(0)", RoleUnknown.String())
}

func TestContext(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	p := Principal{ID: "u1", Role: RoleAgency}
	got, ok := FromContext(WithPrincipal(context.Background(), p))
	require.True(t, ok)
	assert.Equal(t, p, got)
}

func requestWithCookie(value string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/shifts", nil)
	if value != "" {
		r.AddCookie(&http.Cookie{Name: CookieName, Value: value})
	}
	return r
}

func TestPrincipalFromRequest(t *testing.T) {
	value, err := EncodePrincipal(Principal{ID: "emp-7", Role: RoleEmployee})
	require.NoError(t, err)

	p, err := PrincipalFromRequest(requestWithCookie(value))
	require.NoError(t, err)
	assert.Equal(t, Principal{ID: "emp-7", Role: RoleEmployee}, p)
}

func TestPrincipalFromRequest_URLAlphabet(t *testing.T) {
	value := base64.RawURLEncoding.EncodeToString([]byte(`{"id":"a?b>","role":"admin"}`))

	p, err := PrincipalFromRequest(requestWithCookie(value))
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, p.Role)
	assert.Equal(t, "a?b>", p.ID)
}

func TestPrincipalFromRequest_Errors(t *testing.T) {
	_, err := PrincipalFromRequest(requestWithCookie(""))
	require.ErrorIs(t, err, ErrNoPrincipal)

	enc := func(s string) string { return base64.StdEncoding.EncodeToString([]byte(s)) }
	for name, value := range map[string]string{
		"not base64":   "***",
		"not json":     enc("hello"),
		"missing id":   enc(`{"role":"admin"}`),
		"missing role": enc(`{"id":"u1"}`),
		"unknown role": enc(`{"id":"u1","role":"owner"}`),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := PrincipalFromRequest(requestWithCookie(value))
			require.ErrorIs(t, err, ErrBadPrincipal)
		})
	}
}

func TestPolicy_Allowed(t *testing.T) {
	policy := DefaultPolicy()
	admin := Principal{ID: "a", Role: RoleAdmin}
	agency := Principal{ID: "b", Role: RoleAgency}
	employer := Principal{ID: "c", Role: RoleEmployer}
	employee := Principal{ID: "d", Role: RoleEmployee}
	nobody := Principal{}

	tests := []struct {
		name      string
		principal Principal
		path      string
		want      bool
	}{
		{"admin everywhere", admin, "/placements/columns", true},
		{"agency placements", agency, "/placements", true},
		{"employer no placements", employer, "/placements", false},
		{"employee shifts subpath", employee, "/shifts/columns", true},
		{"employee no assignments", employee, "/assignments", false},
		{"segment aware", employee, "/shiftsx", false},
		{"public for everyone", nobody, "/healthz", true},
		{"public is exact", nobody, "/healthz/columns", false},
		{"unknown role denied", nobody, "/shifts", false},
		{"root denied for agency", agency, "/", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, policy.Allowed(tt.principal, tt.path))
		})
	}
}

func TestPolicy_IsPublic(t *testing.T) {
	policy := DefaultPolicy()
	assert.True(t, policy.IsPublic("/healthz"))
	assert.False(t, policy.IsPublic("/healthzz"))
	assert.False(t, policy.IsPublic("/healthz/columns"))
	assert.False(t, policy.IsPublic("/healthz/"))
	assert.False(t, policy.IsPublic("/shifts"))
}

func TestMatchPrefix(t *testing.T) {
	assert.True(t, matchPrefix("/", "/anything/at/all"))
	assert.True(t, matchPrefix("/shifts/", "/shifts"))
	assert.True(t, matchPrefix("/shifts", "/shifts/"))
	assert.False(t, matchPrefix("/shifts", "/shift"))
}
