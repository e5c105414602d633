package hostenv

import (
	"errors"
	"net"
	"os/user"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeConn satisfies net.Conn with a canned local address.
type fakeConn struct {
	local net.Addr
}

func (c *fakeConn) Read([]byte) (int, error)         { return 0, nil }
func (c *fakeConn) Write([]byte) (int, error)        { return 0, nil }
func (c *fakeConn) Close() error                     { return nil }
func (c *fakeConn) LocalAddr() net.Addr              { return c.local }
func (c *fakeConn) RemoteAddr() net.Addr             { return nil }
func (c *fakeConn) SetDeadline(time.Time) error      { return nil }
func (c *fakeConn) SetReadDeadline(time.Time) error  { return nil }
func (c *fakeConn) SetWriteDeadline(time.Time) error { return nil }

func stubIdentityDeps(t *testing.T) {
	t.Helper()

	origGeteuid := geteuid
	origHostname := getHostname
	origGetenv := getenv
	origCurrent := currentUser
	origLookup := lookupUser
	origDial := dialOutbound
	t.Cleanup(func() {
		geteuid = origGeteuid
		getHostname = origHostname
		getenv = origGetenv
		currentUser = origCurrent
		lookupUser = origLookup
		dialOutbound = origDial
	})

	geteuid = func() int { return 0 }
	getHostname = func() (string, error) { return "node-01", nil }
	getenv = func(string) string { return "" }
	currentUser = func() (*user.User, error) {
		return &user.User{Username: "root", Uid: "0", Gid: "0", HomeDir: "/root"}, nil
	}
	lookupUser = func(name string) (*user.User, error) {
		if name == "operator" {
			return &user.User{Username: "operator", Uid: "1000", Gid: "1000", HomeDir: "/srv/operator"}, nil
		}
		return nil, errors.New("unknown user " + name)
	}
	dialOutbound = func(string, string) (net.Conn, error) {
		return &fakeConn{local: &net.UDPAddr{IP: net.ParseIP("10.0.0.100"), Port: 40000}}, nil
	}
}

func TestRequireRoot(t *testing.T) {
	stubIdentityDeps(t)

	t.Run("passes for euid 0", func(t *testing.T) {
		geteuid = func() int { return 0 }
		assert.NoError(t, RequireRoot())
	})

	t.Run("fails for non-root", func(t *testing.T) {
		geteuid = func() int { return 1000 }
		err := RequireRoot()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "root")
	})
}

func TestResolve(t *testing.T) {
	t.Run("recovers sudo user from environment", func(t *testing.T) {
		stubIdentityDeps(t)
		getenv = func(key string) string {
			if key == "SUDO_USER" {
				return "operator"
			}
			return ""
		}

		id, err := Resolve()
		require.NoError(t, err)

		assert.Equal(t, "node-01", id.Hostname)
		assert.Equal(t, "10.0.0.100", id.PrimaryIP)
		assert.Equal(t, "operator", id.User)
		assert.Equal(t, 1000, id.UID)
		assert.Equal(t, 1000, id.GID)
		// Home comes from the user database, not string concatenation.
		assert.Equal(t, "/srv/operator", id.Home)
	})

	t.Run("falls back to session owner", func(t *testing.T) {
		stubIdentityDeps(t)

		id, err := Resolve()
		require.NoError(t, err)
		assert.Equal(t, "root", id.User)
		assert.Equal(t, "/root", id.Home)
	})

	t.Run("unknown sudo user is an error", func(t *testing.T) {
		stubIdentityDeps(t)
		getenv = func(key string) string {
			if key == "SUDO_USER" {
				return "ghost"
			}
			return ""
		}

		_, err := Resolve()
		assert.Error(t, err)
	})

	t.Run("loopback default route is an error", func(t *testing.T) {
		stubIdentityDeps(t)
		dialOutbound = func(string, string) (net.Conn, error) {
			return &fakeConn{local: &net.UDPAddr{IP: net.ParseIP("127.0.0.1"), Port: 40000}}, nil
		}

		_, err := Resolve()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "loopback")
	})

	t.Run("no route is an error", func(t *testing.T) {
		stubIdentityDeps(t)
		dialOutbound = func(string, string) (net.Conn, error) {
			return nil, errors.New("network is unreachable")
		}

		_, err := Resolve()
		assert.Error(t, err)
	})
}
