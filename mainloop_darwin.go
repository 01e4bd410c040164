//go:build darwin

package gst

import (
	"runtime"
	"unsafe"

	"github.com/ebitengine/purego"
)

// gst_macos_main signature: int (*)(GstMainFunc, int, char**, gpointer)
var gstMacOSMain func(fn uintptr, argc int32, argv uintptr, userData uintptr) int32

// RunMain routes fn through the engine's macOS main-thread adapter, which
// keeps AppKit-backed video sinks on the process main thread. When the
// adapter is unavailable (engine missing or predates it), fn runs
// directly. Call from main before anything else touches the engine.
func RunMain(fn func(args []string) int, args []string) int {
	if loadCore() != nil {
		return fn(args)
	}
	sym, err := purego.Dlsym(gstCoreHandle, "gst_macos_main")
	if err != nil || sym == 0 {
		return fn(args)
	}
	purego.RegisterFunc(&gstMacOSMain, sym)

	ret := fn
	cb := purego.NewCallback(func(argc int32, argv uintptr, userData uintptr) int32 {
		return int32(ret(args))
	})

	if len(args) == 0 {
		return int(gstMacOSMain(cb, 0, 0, 0))
	}

	cstrs := make([][]byte, len(args))
	argv := make([]uintptr, len(args)+1)
	for i, a := range args {
		cstrs[i] = append([]byte(a), 0)
		argv[i] = uintptr(unsafe.Pointer(&cstrs[i][0]))
	}
	status := int(gstMacOSMain(cb, int32(len(args)), uintptr(unsafe.Pointer(&argv[0])), 0))
	runtime.KeepAlive(cstrs)
	runtime.KeepAlive(argv)
	return status
}
