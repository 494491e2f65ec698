package architecture_test

import (
	"go/parser"
	"go/token"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"
)

const modulesPrefix = "brewlog/internal/modules/"

// importEdge is one in-repo import of a module package.
type importEdge struct {
	file   string
	target string
}

func collectModuleImports(t *testing.T, root string) []importEdge {
	t.Helper()
	fset := token.NewFileSet()
	var edges []importEdge
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		if !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}
		file, err := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
		if err != nil {
			return err
		}
		for _, imp := range file.Imports {
			target := strings.Trim(imp.Path.Value, `"`)
			if strings.HasPrefix(target, modulesPrefix) {
				edges = append(edges, importEdge{file: filepath.ToSlash(path), target: target})
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("walk %s: %v", root, err)
	}
	return edges
}

// split returns module and layer for a module file path or import path.
func split(path string) (string, string) {
	idx := strings.Index(path, "modules/")
	if idx < 0 {
		return "", ""
	}
	parts := strings.Split(path[idx+len("modules/"):], "/")
	if len(parts) < 2 {
		return parts[0], ""
	}
	layer := parts[1]
	if (layer == "port" || layer == "adapter") && len(parts) > 2 {
		layer += "/" + parts[2]
	}
	return parts[0], layer
}

var allowedLayers = map[string][]string{
	"domain":      {"domain"},
	"dto":         {"dto", "domain"},
	"port/in":     {"dto", "domain"},
	"port/out":    {"domain", "dto"},
	"service":     {"domain", "dto", "port/out"},
	"usecase":     {"domain", "dto", "port/in", "service"},
	"adapter/in":  {"port/in", "dto"},
	"adapter/out": {"domain", "port/out", "adapter/out"},
}

func allowed(fromModule, fromLayer, toModule, toLayer string) bool {
	// Timer works on the brew session aggregate, so domains are shared.
	if fromModule != toModule && toLayer != "domain" {
		return toLayer == "port/in" || toLayer == "dto"
	}
	for _, l := range allowedLayers[fromLayer] {
		if l == toLayer {
			return true
		}
	}
	return false
}

func TestModuleLayersImportInward(t *testing.T) {
	t.Parallel()
	for _, e := range collectModuleImports(t, filepath.Join("..", "modules")) {
		fromModule, fromLayer := split(e.file)
		toModule, toLayer := split(e.target)
		if _, known := allowedLayers[fromLayer]; !known {
			continue
		}
		if !allowed(fromModule, fromLayer, toModule, toLayer) {
			t.Errorf("%s (%s/%s) must not import %s", e.file, fromModule, fromLayer, e.target)
		}
	}
}

func TestUIOnlySeesInboundPorts(t *testing.T) {
	t.Parallel()
	for _, e := range collectModuleImports(t, filepath.Join("..", "ui")) {
		if _, layer := split(e.target); layer != "dto" && layer != "port/in" {
			t.Errorf("%s reaches past the inbound ports: %s", e.file, e.target)
		}
	}
}
