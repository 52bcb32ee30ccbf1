package platform

// Naming returns the dynamic-library file name prefix and suffix used on the
// given operating system. The mapping is fixed per platform family; it is not
// probed from the filesystem.
func Naming(goos string) (prefix, suffix string) {
	switch goos {
	case "windows":
		return "", ".dll"
	case "darwin":
		return "lib", ".dylib"
	default:
		return "lib", ".so"
	}
}

// LibraryFileName builds the platform file name for a library base name,
// e.g. "ssl" becomes "libssl.so" on Linux and "ssl.dll" on Windows.
func LibraryFileName(goos, name string) string {
	prefix, suffix := Naming(goos)
	return prefix + name + suffix
}
