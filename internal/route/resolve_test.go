package route

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestResolve_Table(t *testing.T) {
	tests := []struct {
		in   string
		want Resolution
	}{
		{"/", Resolution{Requested: "/", Path: PathAuth, Area: AreaAuth, AuthPage: AuthPageIndex, Redirected: true}},
		{"", Resolution{Requested: "", Path: PathAuth, Area: AreaAuth, AuthPage: AuthPageIndex, Redirected: true}},
		{"/unknown/path", Resolution{Requested: "/unknown/path", Path: PathAuth, Area: AreaAuth, AuthPage: AuthPageIndex, Redirected: true}},
		{"/auth", Resolution{Requested: "/auth", Path: PathAuth, Area: AreaAuth, AuthPage: AuthPageIndex}},
		{"/auth/", Resolution{Requested: "/auth/", Path: PathAuth, Area: AreaAuth, AuthPage: AuthPageIndex}},
		{"/auth/register", Resolution{Requested: "/auth/register", Path: PathRegister, Area: AreaAuth, AuthPage: AuthPageRegister}},
		{"auth/register?next=/chat", Resolution{Requested: "auth/register?next=/chat", Path: PathRegister, Area: AreaAuth, AuthPage: AuthPageRegister}},
		{"/auth/forgot", Resolution{Requested: "/auth/forgot", Path: PathAuth, Area: AreaAuth, AuthPage: AuthPageIndex, Redirected: true}},
		{"/auth/register/extra", Resolution{Requested: "/auth/register/extra", Path: PathAuth, Area: AreaAuth, AuthPage: AuthPageIndex, Redirected: true}},
		{"/authx", Resolution{Requested: "/authx", Path: PathAuth, Area: AreaAuth, AuthPage: AuthPageIndex, Redirected: true}},
		{"/chat", Resolution{Requested: "/chat", Path: PathChat, Area: AreaChat}},
		{"/chat#bottom", Resolution{Requested: "/chat#bottom", Path: PathChat, Area: AreaChat}},
		{"/auth/../chat", Resolution{Requested: "/auth/../chat", Path: PathChat, Area: AreaChat}},
		{"/chat/settings", Resolution{Requested: "/chat/settings", Path: PathAuth, Area: AreaAuth, AuthPage: AuthPageIndex, Redirected: true}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, Resolve(tt.in)); diff != "" {
				t.Errorf("Resolve(%q) mismatch (-want +got):\n%s", tt.in, diff)
			}
		})
	}
}

func TestResolve_NeverUnresolved(t *testing.T) {
	for _, p := range []string{"/", "//", "/a/b/c", "chat", " /chat ", "?"} {
		assert.NotEqual(t, AreaUnresolved, Resolve(p).Area, "path %q", p)
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "/", Normalize(""))
	assert.Equal(t, "/chat", Normalize("chat"))
	assert.Equal(t, "/chat", Normalize(" /chat/ "))
	assert.Equal(t, "/auth", Normalize("/auth?x=1#y"))
}

func TestStrings(t *testing.T) {
	assert.Equal(t, "auth", AreaAuth.String())
	assert.Equal(t, "chat", AreaChat.String())
	assert.Equal(t, "unresolved", AreaUnresolved.String())
	assert.Equal(t, "register", AuthPageRegister.String())
	assert.Equal(t, "index", AuthPageIndex.String())
	assert.Equal(t, "none", AuthPageNone.String())
}
