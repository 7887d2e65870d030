//go:build stave

package main

import (
	"cmp"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/yaklabco/stave/pkg/sh"
	"github.com/yaklabco/stave/pkg/st"
	"github.com/yaklabco/stave/pkg/target"
)

const binary = "bin/gomdlive"

// Default target runs build.
var Default = Build

// Aliases for common targets.
var Aliases = map[string]any{
	"b":   Build,
	"t":   Test.Default,
	"l":   Lint.Default,
	"c":   Check,
	"fmt": Lint.Fmt,
	"bt":  Bench.Transform,
	"fz":  Fuzz.Default,
	"pv":  Preview,
}

// Namespace types group related targets.
type (
	Test  st.Namespace
	Lint  st.Namespace
	CI    st.Namespace
	Bench st.Namespace
	Fuzz  st.Namespace
)

// Build compiles gomdlive with version info when sources changed.
func Build() error {
	rebuild, err := target.Dir(binary, "cmd/", "pkg/", "internal/", "go.mod")
	if err != nil {
		return err
	}
	if !rebuild {
		fmt.Println(binary + " is up to date")
		return nil
	}
	fmt.Println("Building gomdlive...")
	return sh.RunV("go", "build", "-ldflags", ldflags(), "-o", binary, "./cmd/gomdlive")
}

// Check runs format, lint and test in order.
func Check() {
	st.SerialDeps(Lint.Fmt, Lint.Default, Test.Default)
}

// Clean removes build and coverage output.
func Clean() error {
	for _, path := range []string{"bin", "coverage.out", "coverage.html"} {
		if err := sh.Rm(path); err != nil {
			return err
		}
	}
	return nil
}

// Install installs gomdlive to $GOBIN or $GOPATH/bin.
func Install() error {
	return sh.RunV("go", "install", "-ldflags", ldflags(), "./cmd/gomdlive")
}

// Preview builds gomdlive and renders the note at GOMDLIVE_NOTE with the
// caret at the start.
func Preview() error {
	st.Deps(Build)
	note := os.Getenv("GOMDLIVE_NOTE")
	if note == "" {
		return errors.New("set GOMDLIVE_NOTE to the note to render")
	}
	return sh.RunV(binary, "render", note, "--cursor", "0", "--summary")
}

// Vault builds gomdlive and checks the vault at GOMDLIVE_VAULT.
func Vault() error {
	st.Deps(Build)
	vault := os.Getenv("GOMDLIVE_VAULT")
	if vault == "" {
		return errors.New("set GOMDLIVE_VAULT to the vault to check")
	}
	return sh.RunV(binary, "check", "--vault", vault)
}

// Default runs all tests with race detection and coverage.
func (Test) Default() error {
	return gotestsum("pkgname-and-test-fails")
}

// Verbose runs all tests with verbose output.
func (Test) Verbose() error {
	return gotestsum("standard-verbose")
}

// Default runs golangci-lint with auto-fix.
func (Lint) Default() error {
	return sh.RunV("golangci-lint", "run", "--fix", "./...")
}

// Fmt formats all Go code.
func (Lint) Fmt() error {
	return sh.RunV("gofmt", "-w", ".")
}

// FmtCheck fails when a file is not gofmt clean.
func (Lint) FmtCheck() error {
	out, err := sh.Output("gofmt", "-l", ".")
	if err != nil {
		return fmt.Errorf("gofmt: %w", err)
	}
	if out != "" {
		return fmt.Errorf("unformatted files:\n%s", out)
	}
	return nil
}

// Vet runs go vet.
func (Lint) Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Gate runs every CI check.
func (CI) Gate() {
	st.SerialDeps(Lint.FmtCheck, Lint.Vet, Build, Test.Default, CI.Cross)
}

// Cross builds for the release platforms.
func (CI) Cross() error {
	for _, platform := range []string{
		"linux/amd64", "linux/arm64",
		"darwin/amd64", "darwin/arm64",
		"windows/amd64", "freebsd/amd64",
	} {
		goos, goarch, _ := strings.Cut(platform, "/")
		fmt.Printf("  %s\n", platform)
		env := map[string]string{"GOOS": goos, "GOARCH": goarch, "CGO_ENABLED": "0"}
		if err := sh.RunWith(env, "go", "build", "-o", os.DevNull, "./cmd/gomdlive"); err != nil {
			return fmt.Errorf("build %s: %w", platform, err)
		}
	}
	return nil
}

// Default runs every benchmark.
func (Bench) Default() error {
	return sh.RunV("go", "test", "-run=^$", "-bench=.", "-benchmem", "./...")
}

// Transform runs the parse and transform benchmarks.
func (Bench) Transform() error {
	return sh.RunV("go", "test", "-run=^$", "-bench=.", "-benchmem", "./pkg/transform/", "./pkg/parser/")
}

//nolint:gochecknoglobals // Read-only lookup table.
var fuzzTargets = []struct{ pkg, name string }{
	{"./pkg/lexer/", "FuzzTokenize"},
	{"./pkg/parser/", "FuzzParse"},
	{"./pkg/marker/", "FuzzApply"},
	{"./pkg/offsetmap/", "FuzzMapper"},
	{"./pkg/transform/", "FuzzTransform"},
}

// Default fuzzes each target for STAVE_FUZZ_TIME (default 10s).
func (Fuzz) Default() error {
	fuzzTime := cmp.Or(os.Getenv("STAVE_FUZZ_TIME"), "10s")
	for _, ft := range fuzzTargets {
		fmt.Printf("Fuzzing %s %s for %s...\n", ft.pkg, ft.name, fuzzTime)
		if err := sh.RunV("go", "test", "-run=^$", "-fuzz=^"+ft.name+"$", "-fuzztime="+fuzzTime, ft.pkg); err != nil {
			return fmt.Errorf("fuzz %s: %w", ft.name, err)
		}
	}
	return nil
}

func gotestsum(format string) error {
	procs := cmp.Or(os.Getenv("STAVE_NUM_PROCESSORS"), "4")
	return sh.RunV("go", "tool", "gotestsum", "-f", format, "--",
		"-race", "-p", procs, "-parallel", procs,
		"-coverprofile=coverage.out", "-covermode=atomic",
		"./...",
	)
}

// ldflags returns the linker flags for version injection.
func ldflags() string {
	version := cmp.Or(gitOutput("describe", "--tags", "--always", "--dirty"), "dev")
	commit := cmp.Or(gitOutput("rev-parse", "--short", "HEAD"), "none")
	date := time.Now().UTC().Format(time.RFC3339)
	return fmt.Sprintf("-X main.version=%s -X main.commit=%s -X main.date=%s", version, commit, date)
}

func gitOutput(args ...string) string {
	out, err := sh.Output("git", args...)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(out)
}
