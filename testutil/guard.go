// Package testutil holds import-boundary assertions shared by package tests.
package testutil

import (
	"go/parser"
	"go/token"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// AssertNoDirectImports parses every non-test source file in dir and fails
// when an import path matches the forbidden predicate.
func AssertNoDirectImports(t testing.TB, dir string, forbidden func(importPath string) bool, reason string) {
	t.Helper()
	files, err := filepath.Glob(filepath.Join(dir, "*.go"))
	if err != nil {
		t.Fatalf("glob sources in %s: %v", dir, err)
	}
	fset := token.NewFileSet()
	for _, file := range files {
		if strings.HasSuffix(file, "_test.go") {
			continue
		}
		parsed, err := parser.ParseFile(fset, file, nil, parser.ImportsOnly)
		if err != nil {
			t.Fatalf("parse %s: %v", file, err)
		}
		for _, imp := range parsed.Imports {
			importPath := strings.Trim(imp.Path.Value, `"`)
			if forbidden(importPath) {
				t.Errorf("%s imports %s: %s", filepath.Base(file), importPath, reason)
			}
		}
	}
}

// AssertNoTransitiveDependency fails when `go list -deps pattern` reports a
// dependency matching the forbidden predicate.
func AssertNoTransitiveDependency(t testing.TB, pattern string, forbidden func(depPath string) bool, reason string) {
	t.Helper()
	out, err := exec.Command("go", "list", "-deps", pattern).CombinedOutput()
	if err != nil {
		t.Fatalf("go list -deps %s: %v\n%s", pattern, err, out)
	}
	for _, dep := range strings.Fields(string(out)) {
		if forbidden(dep) {
			t.Errorf("transitive dependency %s: %s", dep, reason)
		}
	}
}

// InternalImportForbidden matches any path under an internal tree.
func InternalImportForbidden(path string) bool {
	return strings.Contains(path, "/internal/")
}

// InfraImportForbidden matches the storage and blob driver implementations.
func InfraImportForbidden(path string) bool {
	return strings.Contains(path, "/internal/infra/")
}
