// Package hostsfile maintains the static name-resolution file.
//
// The only mutation is appending a missing address/hostname mapping.
// Entries that map the hostname to a stale address are left in place:
// resolvers read the file top to bottom and the appended correct line
// wins for lookups, while removal could break unrelated aliases.
package hostsfile

import (
	"fmt"
	"os"
	"strings"
)

// File wraps a hosts file at a fixed path.
type File struct {
	Path string
}

// New returns a File for the given path.
func New(path string) *File {
	return &File{Path: path}
}

// Ensure guarantees a line mapping ip to hostname exists. It returns true
// when a line was appended and false when the exact mapping was already
// present (idempotent re-run).
func (f *File) Ensure(ip, hostname string) (bool, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil && !os.IsNotExist(err) {
		return false, fmt.Errorf("failed to read %s: %w", f.Path, err)
	}

	if HasMapping(string(data), ip, hostname) {
		return false, nil
	}

	line := fmt.Sprintf("%s %s\n", ip, hostname)
	if len(data) > 0 && !strings.HasSuffix(string(data), "\n") {
		line = "\n" + line
	}

	fh, err := os.OpenFile(f.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return false, fmt.Errorf("failed to open %s for append: %w", f.Path, err)
	}
	defer fh.Close() //nolint:errcheck

	if _, err := fh.WriteString(line); err != nil {
		return false, fmt.Errorf("failed to append to %s: %w", f.Path, err)
	}
	return true, nil
}

// HasMapping reports whether content contains an uncommented line mapping
// ip to hostname.
func HasMapping(content, ip, hostname string) bool {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		// Strip trailing comments.
		if idx := strings.Index(line, "#"); idx >= 0 {
			line = strings.TrimSpace(line[:idx])
		}

		fields := strings.Fields(line)
		if len(fields) < 2 || fields[0] != ip {
			continue
		}
		for _, name := range fields[1:] {
			if name == hostname {
				return true
			}
		}
	}
	return false
}

// MappedAddresses returns every address the hostname currently resolves to
// in content, in file order. Used for diagnostics when a stale entry exists.
func MappedAddresses(content, hostname string) []string {
	var addrs []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if idx := strings.Index(line, "#"); idx >= 0 {
			line = strings.TrimSpace(line[:idx])
		}

		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		for _, name := range fields[1:] {
			if name == hostname {
				addrs = append(addrs, fields[0])
				break
			}
		}
	}
	return addrs
}
