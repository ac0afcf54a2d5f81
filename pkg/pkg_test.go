package pkg

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func TestVersion(t *testing.T) {
	v, err := Version()
	if err != nil {
		t.Fatalf("Version() error: %v", err)
	}

	if want := strings.TrimSpace(version); v.String() != strings.TrimPrefix(want, "v") {
		t.Errorf("Version() = %q, want %q", v, want)
	}
}

func TestAuthor(t *testing.T) {
	for i, author := range Author {
		if author.Name == "" && author.Email == "" {
			t.Errorf("Author[%d] must define at least Name or Email", i)
		}
	}
}

func TestError_IsMatchesSentinel(t *testing.T) {
	err := ErrSourceNotFound.Wrapf("%s", "main.il")

	if !errors.Is(err, ErrSourceNotFound) {
		t.Error("wrapped chain should match its sentinel")
	}

	if errors.Is(err, ErrInvalidVersion) {
		t.Error("wrapped chain should not match an unrelated sentinel")
	}

	if got := err.Error(); got != "source file not found: main.il" {
		t.Errorf("Error() = %q", got)
	}

	if len(ErrSourceNotFound) != 1 {
		t.Error("Wrap should not modify the sentinel")
	}
}

func TestMakeError_FlattensChains(t *testing.T) {
	inner := MakeErrorf("inner")
	got := MakeError(nil, inner, errors.New("outer"))

	if len(got) != 2 || got.Error() != "inner: outer" {
		t.Errorf("MakeError = %v (%d)", got, len(got))
	}

	if MakeError() != nil {
		t.Error("MakeError() should be nil")
	}
}

func TestEnvKey(t *testing.T) {
	if got, want := EnvKey("path"), strings.ToUpper(Prefix())+"_PATH"; got != want {
		t.Errorf("EnvKey = %q, want %q", got, want)
	}
}

func TestSearchPath(t *testing.T) {
	a, b := t.TempDir(), t.TempDir()
	missing := filepath.Join(a, "missing")

	t.Setenv(EnvKey("path"), strings.Join([]string{b, missing, a}, string(os.PathListSeparator)))

	got := SearchPath(a, missing)

	if !slices.Equal(got, []string{a, b}) {
		t.Errorf("SearchPath = %v, want [%s %s]", got, a, b)
	}
}

func TestFindSource(t *testing.T) {
	dir := t.TempDir()
	lib := filepath.Join(dir, "lib.il")

	if err := os.WriteFile(lib, []byte("let x = 1\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	got, err := FindSource("lib.il", []string{t.TempDir(), dir})
	if err != nil || got != lib {
		t.Errorf("FindSource = %q, %v; want %q", got, err, lib)
	}

	if got, err := FindSource(lib, nil); err != nil || got != lib {
		t.Errorf("FindSource(abs) = %q, %v", got, err)
	}

	if _, err := FindSource("nope.il", []string{dir}); !errors.Is(err, ErrSourceNotFound) {
		t.Errorf("err = %v, want ErrSourceNotFound", err)
	}
}
