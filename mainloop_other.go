//go:build linux

package gst

// RunMain invokes fn directly; only macOS needs a main-thread adapter.
func RunMain(fn func(args []string) int, args []string) int {
	return fn(args)
}
