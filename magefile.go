//go:build mage
// +build mage

package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Default target when running mage without arguments.
var Default = Build

// binaries maps output names to their main packages.
var binaries = map[string]string{
	"server":  "./cmd/server",
	"imgnorm": "./cmd/imgnorm",
}

// Build builds the server and imgnorm binaries into bin/.
func Build() error {
	mg.Deps(Wire)
	for name, pkg := range binaries {
		fmt.Printf("Building %s...\n", name)
		if err := sh.Run("go", "build", "-o", filepath.Join("bin", name), pkg); err != nil {
			return fmt.Errorf("build %s: %w", name, err)
		}
	}
	return nil
}

// Wire regenerates wire_gen.go for every package that has a wire.go.
func Wire() error {
	fmt.Println("Running wire...")

	dirs, err := findWireDirs()
	if err != nil {
		return fmt.Errorf("finding wire directories: %w", err)
	}
	for _, dir := range dirs {
		fmt.Printf("  %s\n", dir)
		if err := sh.Run("wire", dir); err != nil {
			return fmt.Errorf("wire %s: %w", dir, err)
		}
	}
	return nil
}

func findWireDirs() ([]string, error) {
	var dirs []string
	err := filepath.WalkDir(".", func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if path != "." && (name == "vendor" || strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")) {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Name() == "wire.go" {
			dirs = append(dirs, "./"+filepath.Dir(path))
		}
		return nil
	})
	return dirs, err
}

// Test groups the test targets.
type Test mg.Namespace

// Unit runs all tests that need no external services.
func (Test) Unit() error {
	fmt.Println("Running tests...")
	return sh.RunV("go", "test", "-race", "./...")
}

// Cover runs tests with a coverage profile in coverage.out.
func (Test) Cover() error {
	fmt.Println("Running tests with coverage...")
	return sh.RunV("go", "test", "-cover", "-coverprofile=coverage.out", "./...")
}

// Redis runs the Redis adapter tests against REDIS_ADDR
// (default localhost:6379).
func (Test) Redis() error {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	fmt.Printf("Running Redis tests against %s...\n", addr)
	env := map[string]string{"IMAGECODE_TEST_REDIS": addr}
	return sh.RunWithV(env, "go", "test", "-v", "./internal/adapter/outbound/redis/...")
}

// Lint runs golangci-lint and go vet.
func Lint() error {
	fmt.Println("Running linters...")
	if err := sh.RunV("go", "vet", "./..."); err != nil {
		return err
	}
	return sh.RunV("golangci-lint", "run", "./...")
}

// Tidy runs go mod tidy.
func Tidy() error {
	return sh.Run("go", "mod", "tidy")
}

// Clean removes build and coverage artifacts.
func Clean() error {
	fmt.Println("Cleaning...")
	_ = os.Remove("coverage.out")
	return os.RemoveAll("bin")
}

// CI runs tidy, wire, lint and tests with coverage.
func CI() {
	mg.SerialDeps(Tidy, Wire, Lint, Test.Cover)
}

// Dev builds and runs the server with the config file in
// IMAGECODE_CONFIG_FILE, if set.
func Dev() error {
	mg.Deps(Build)
	fmt.Println("Starting server...")
	cmd := exec.Command(filepath.Join("bin", "server"))
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = os.Environ()
	return cmd.Run()
}

// Normalize runs imgnorm on IMAGE and prints a YAML report with the palette.
func Normalize() error {
	mg.Deps(Build)
	image := os.Getenv("IMAGE")
	if image == "" {
		return fmt.Errorf("set IMAGE to the file to normalize")
	}
	return sh.RunV(filepath.Join("bin", "imgnorm"), image, "--format", "yaml", "--palette")
}

// Install installs development tools.
func Install() error {
	tools := []string{
		"github.com/google/wire/cmd/wire@latest",
		"github.com/golangci/golangci-lint/cmd/golangci-lint@latest",
	}
	for _, tool := range tools {
		fmt.Printf("  Installing %s\n", tool)
		if err := sh.Run("go", "install", tool); err != nil {
			return fmt.Errorf("installing %s: %w", tool, err)
		}
	}
	return nil
}
