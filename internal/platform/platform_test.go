package platform

import "testing"

func TestNaming_PerPlatform(t *testing.T) {
	cases := []struct {
		goos   string
		prefix string
		suffix string
	}{
		{"windows", "", ".dll"},
		{"darwin", "lib", ".dylib"},
		{"linux", "lib", ".so"},
		{"freebsd", "lib", ".so"},
	}
	for _, c := range cases {
		prefix, suffix := Naming(c.goos)
		if prefix != c.prefix || suffix != c.suffix {
			t.Fatalf("Naming(%q) = (%q, %q), want (%q, %q)", c.goos, prefix, suffix, c.prefix, c.suffix)
		}
	}
}

func TestLibraryFileName(t *testing.T) {
	if got := LibraryFileName("linux", "ssl"); got != "libssl.so" {
		t.Fatalf("expected libssl.so, got %s", got)
	}
	if got := LibraryFileName("windows", "ssl"); got != "ssl.dll" {
		t.Fatalf("expected ssl.dll, got %s", got)
	}
	if got := LibraryFileName("darwin", "ssl"); got != "libssl.dylib" {
		t.Fatalf("expected libssl.dylib, got %s", got)
	}
}
