// Package hostenv resolves the identity of the host and the invoking user.
//
// The resolved Identity is captured once at startup and passed to every
// bootstrap stage, so stages never re-read global process state.
package hostenv

import (
	"fmt"
	"net"
	"os"
	"os/user"
	"strconv"
)

// Identity describes the host and the non-privileged user that invoked the
// tool. It is immutable after resolution.
type Identity struct {
	Hostname  string
	PrimaryIP string

	// User is the invoking non-privileged user: the user behind sudo when
	// privilege was escalated, the session owner otherwise.
	User string
	UID  int
	GID  int
	Home string
}

// Function variables for dependency injection in tests.
var (
	geteuid      = os.Geteuid
	getHostname  = os.Hostname
	getenv       = os.Getenv
	currentUser  = user.Current
	lookupUser   = user.Lookup
	dialOutbound = net.Dial
)

// RequireRoot returns an error when the process does not hold root
// privileges. It must be called before any stage mutates the host.
func RequireRoot() error {
	if euid := geteuid(); euid != 0 {
		return fmt.Errorf("must be run as root (euid %d)", euid)
	}
	return nil
}

// Resolve captures the host identity: hostname, primary address, and the
// invoking user with a deterministic home directory lookup.
func Resolve() (*Identity, error) {
	hostname, err := getHostname()
	if err != nil {
		return nil, fmt.Errorf("failed to determine hostname: %w", err)
	}

	u, err := invokingUser()
	if err != nil {
		return nil, err
	}

	uid, err := strconv.Atoi(u.Uid)
	if err != nil {
		return nil, fmt.Errorf("non-numeric uid %q for user %s: %w", u.Uid, u.Username, err)
	}
	gid, err := strconv.Atoi(u.Gid)
	if err != nil {
		return nil, fmt.Errorf("non-numeric gid %q for user %s: %w", u.Gid, u.Username, err)
	}

	ip, err := primaryIP()
	if err != nil {
		return nil, err
	}

	return &Identity{
		Hostname:  hostname,
		PrimaryIP: ip,
		User:      u.Username,
		UID:       uid,
		GID:       gid,
		Home:      u.HomeDir,
	}, nil
}

// invokingUser recovers the user that escalated privileges via sudo, falling
// back to the current session owner. The home directory comes from the user
// database, never from string concatenation.
func invokingUser() (*user.User, error) {
	if name := getenv("SUDO_USER"); name != "" {
		u, err := lookupUser(name)
		if err != nil {
			return nil, fmt.Errorf("failed to look up sudo user %q: %w", name, err)
		}
		return u, nil
	}

	u, err := currentUser()
	if err != nil {
		return nil, fmt.Errorf("failed to determine current user: %w", err)
	}
	return u, nil
}

// primaryIP returns the local address of the interface used for default
// egress. A connected UDP socket never sends packets; it only asks the
// kernel which source address the default route would pick.
func primaryIP() (string, error) {
	conn, err := dialOutbound("udp4", "10.255.255.255:53")
	if err != nil {
		return "", fmt.Errorf("failed to determine primary address: %w", err)
	}
	defer conn.Close() //nolint:errcheck

	addr, ok := conn.LocalAddr().(*net.UDPAddr)
	if !ok || addr.IP == nil {
		return "", fmt.Errorf("unexpected local address %v", conn.LocalAddr())
	}
	if addr.IP.IsLoopback() {
		return "", fmt.Errorf("default route resolves to loopback address %s", addr.IP)
	}
	return addr.IP.String(), nil
}
