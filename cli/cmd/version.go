package cmd

import (
	"context"
	"fmt"
	"runtime"

	"github.com/ardnew/ilang/pkg"
)

// Version prints the version of the command.
type Version struct {
	Short bool `help:"Print only the version number." short:"s"`
}

// Run executes the version command.
func (v *Version) Run(ctx context.Context) error {
	ver, err := pkg.Version()
	if err != nil {
		return err
	}

	w := stdout(ctx)

	if v.Short {
		_, err = fmt.Fprintln(w, ver)

		return err
	}

	_, err = fmt.Fprintf(w, "%s %s (%s %s/%s)\n",
		pkg.Name, ver, runtime.Version(), runtime.GOOS, runtime.GOARCH)

	return err
}
