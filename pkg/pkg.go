//nolint:gochecknoglobals
package pkg

import (
	_ "embed"
	"strings"
	"sync"

	"github.com/Masterminds/semver/v3"
)

// version is the contents of the VERSION file embedded at build time.
//
//go:embed VERSION
var version string

const (
	// Name is the canonical command identifier. It names the executable, the
	// configuration and cache directories, and the environment variable
	// prefix.
	Name = "ilang"
	// Description is a short, human-readable summary of the project used in
	// help output.
	Description = "Parser front end for the ilang functional language"
)

// Version returns the semantic version of the module. The embedded VERSION
// file is parsed once; an invalid file yields version 0.0.0 and an error
// wrapping [ErrInvalidVersion].
var Version = sync.OnceValues(
	func() (*semver.Version, error) {
		raw := strings.TrimSpace(version)

		v, err := semver.StrictNewVersion(strings.TrimPrefix(raw, "v"))
		if err != nil {
			return semver.New(0, 0, 0, "", ""), ErrInvalidVersion.Wrapf("%q: %w", raw, err)
		}

		return v, nil
	},
)

// AuthorInfo represents an individual author's name and email address.
type AuthorInfo struct {
	Name  string
	Email string
}

// Author lists the primary author(s) of the project for display in metadata.
var Author = []AuthorInfo{
	{"ardnew", "andrew@ardnew.com"},
}
