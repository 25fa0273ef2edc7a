package service

import (
	"go/parser"
	"go/token"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

// The core and the infrastructure it uses must not reach into the HTTP
// adapter in internal/api.
func TestLayering_NoAPIImports(t *testing.T) {
	dirs := []string{
		".",
		"../domain",
		"../ports",
		"../state",
		"../../infrastructure/gateway",
		"../../infrastructure/metrics",
	}
	for _, dir := range dirs {
		files, err := filepath.Glob(filepath.Join(dir, "*.go"))
		if err != nil {
			t.Fatalf("glob %s: %v", dir, err)
		}
		if len(files) == 0 {
			t.Fatalf("no Go files in %s", dir)
		}
		for _, file := range files {
			f, err := parser.ParseFile(token.NewFileSet(), file, nil, parser.ImportsOnly)
			if err != nil {
				t.Fatalf("parse %s: %v", file, err)
			}
			for _, imp := range f.Imports {
				path, _ := strconv.Unquote(imp.Path.Value)
				if strings.Contains(path, "/portal/internal/api") {
					t.Errorf("%s imports %s", file, path)
				}
			}
		}
	}
}
