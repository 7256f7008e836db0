package ignoreset

import "testing"

func TestIgnoreSet_ExtensionMatch(t *testing.T) {
	ig := Build(nil, ".")
	ig.AddPattern("*.o")
	ig.Finalize()

	if !ig.PathIgnored("main.o", "main.o", "o", false) {
		t.Error("expected main.o to be ignored by *.o")
	}
	if ig.PathIgnored("main.go", "main.go", "go", false) {
		t.Error("did not expect main.go to be ignored")
	}
}

func TestIgnoreSet_BareName(t *testing.T) {
	ig := Build(nil, ".")
	ig.AddPattern("node_modules")
	ig.Finalize()

	if !ig.PathIgnored("node_modules", "node_modules", "", true) {
		t.Error("expected node_modules to be ignored")
	}
	if !ig.PathIgnored("src/node_modules", "node_modules", "", true) {
		t.Error("expected nested node_modules to be ignored (unanchored name)")
	}
}

func TestIgnoreSet_SlashAnchoredName(t *testing.T) {
	ig := Build(nil, ".")
	ig.AddPattern("/build")
	ig.Finalize()

	if !ig.PathIgnored("build", "build", "", true) {
		t.Error("expected top-level build/ to be ignored")
	}
}

func TestIgnoreSet_GlobPattern(t *testing.T) {
	ig := Build(nil, ".")
	ig.AddPattern("test_*.log")
	ig.Finalize()

	if !ig.PathIgnored("test_foo.log", "test_foo.log", "log", false) {
		t.Error("expected test_foo.log to match glob test_*.log")
	}
	if ig.PathIgnored("foo.log", "foo.log", "log", false) {
		t.Error("did not expect foo.log to match test_*.log")
	}
}

func TestIgnoreSet_SlashGlobPattern(t *testing.T) {
	ig := Build(nil, ".")
	ig.AddPattern("/vendor/*.go")
	ig.Finalize()

	if !ig.PathIgnored("vendor/foo.go", "foo.go", "go", false) {
		t.Error("expected vendor/foo.go to match /vendor/*.go")
	}
}

func TestIgnoreSet_ParentInheritance(t *testing.T) {
	root := Build(nil, ".")
	root.AddPattern("*.tmp")
	root.Finalize()

	child := Build(root, "sub")
	child.Finalize()

	if !child.PathIgnored("sub/file.tmp", "file.tmp", "tmp", false) {
		t.Error("expected child directory to inherit parent's *.tmp rule")
	}
}

func TestIgnoreSet_EmptyParentCompression(t *testing.T) {
	root := Build(nil, ".")
	root.AddPattern("*.tmp")
	root.Finalize()

	empty := Build(root, "mid")
	empty.Finalize()
	if !empty.IsEmpty() {
		t.Fatal("expected 'mid' layer to be empty")
	}

	child := Build(empty, "leaf")
	child.Finalize()

	if child.parent != root {
		t.Error("expected empty intermediate parent to be compressed away")
	}
}

func TestIgnoreSet_IsEmpty(t *testing.T) {
	ig := Build(nil, ".")
	if !ig.IsEmpty() {
		t.Error("expected fresh IgnoreSet to be empty")
	}
	ig.AddPattern("foo")
	if ig.IsEmpty() {
		t.Error("expected IgnoreSet with a pattern to be non-empty")
	}
}
