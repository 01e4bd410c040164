//go:build darwin || linux

// Package gst binds the GStreamer core library via purego.
//
// The engine libraries are loaded dynamically at runtime with dlopen, so
// the package builds without GStreamer headers and without cgo.
//
// Library locations checked (in order):
//   - GST_CORE_LIB_PATH / GLIB_LIB_PATH environment variables (full path)
//   - GST_LIB_DIR environment variable (directory)
//   - System library paths

package gst

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
)

var (
	gstCoreOnce    sync.Once
	gstCoreHandle  uintptr
	glibHandle     uintptr
	gstCoreInitErr error
	gstCoreLoaded  bool
)

// libgstreamer-1.0 function pointers
var (
	gstInit              func(argc *int32, argv *uintptr)
	gstVersionString     func() uintptr
	gstParseLaunch       func(description string, gerror *uintptr) uintptr
	gstElementSetState   func(element uintptr, state int32) int32
	gstElementGetBus     func(element uintptr) uintptr
	gstBusTimedPopFilter func(bus uintptr, timeout uint64, types uint32) uintptr
	gstMessageParseError func(message uintptr, gerror, debug *uintptr)
	gstObjectGetName     func(object uintptr) uintptr
	gstObjectUnref       func(object uintptr)
	gstMiniObjectUnref   func(object uintptr)
	gstBinGetByName      func(bin uintptr, name string) uintptr
	gstElementGetState   func(element uintptr, state, pending *int32, timeout uint64) int32
	gstBusPost           func(bus uintptr, message uintptr) int32
	gstBusSetFlushing    func(bus uintptr, flushing int32)
	gstMessageNewApp     func(src uintptr, structure uintptr) uintptr
	gstStructureNewEmpty func(name string) uintptr
	gstStructureFree     func(structure uintptr)
)

// libglib-2.0 function pointers
var (
	gFree      func(mem uintptr)
	gErrorFree func(gerror uintptr)
)

// gError mirrors GError from glib. The layout is part of glib's stable ABI.
type gError struct {
	Domain  uint32
	Code    int32
	Message uintptr
}

// gstMiniObject mirrors GstMiniObject on LP64 platforms.
type gstMiniObject struct {
	Type      uintptr
	Refcount  int32
	Lockstate int32
	Flags     uint32
	_         uint32
	Copy      uintptr
	Dispose   uintptr
	Free      uintptr
	PrivUint  uint32
	_         uint32
	PrivPtr   uintptr
}

// gstMessage mirrors the public fields of GstMessage. Only Type and Src are
// read; both are part of GStreamer's documented ABI.
type gstMessage struct {
	Mini      gstMiniObject
	Type      uint32
	_         uint32
	Timestamp uint64
	Src       uintptr
	Seqnum    uint32
}

// loadCore loads libglib-2.0 and libgstreamer-1.0.
func loadCore() error {
	gstCoreOnce.Do(func() {
		gstCoreInitErr = loadCoreLibs()
		if gstCoreInitErr == nil {
			gstCoreLoaded = true
		}
	})
	return gstCoreInitErr
}

func loadCoreLibs() error {
	handle, err := dlopenFirst(glibLibPaths())
	if err != nil {
		return fmt.Errorf("failed to load libglib-2.0: %w", err)
	}
	glibHandle = handle

	handle, err = dlopenFirst(gstCoreLibPaths())
	if err != nil {
		return fmt.Errorf("failed to load libgstreamer-1.0: %w", err)
	}
	gstCoreHandle = handle

	loadCoreSymbols()
	return nil
}

func dlopenFirst(paths []string) (uintptr, error) {
	var lastErr error
	for _, path := range paths {
		handle, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
		if err == nil {
			return handle, nil
		}
		lastErr = err
	}
	if lastErr != nil {
		return 0, lastErr
	}
	return 0, errors.New("no candidate paths")
}

func glibLibPaths() []string {
	var paths []string

	if envPath := os.Getenv("GLIB_LIB_PATH"); envPath != "" {
		paths = append(paths, envPath)
	}

	switch runtime.GOOS {
	case "darwin":
		libName := "libglib-2.0.0.dylib"
		if envDir := os.Getenv("GST_LIB_DIR"); envDir != "" {
			paths = append(paths, filepath.Join(envDir, libName))
		}
		paths = append(paths,
			libName,
			"/opt/homebrew/lib/"+libName,
			"/usr/local/lib/"+libName,
			"/Library/Frameworks/GStreamer.framework/Versions/1.0/lib/"+libName,
		)
	case "linux":
		libName := "libglib-2.0.so.0"
		if envDir := os.Getenv("GST_LIB_DIR"); envDir != "" {
			paths = append(paths, filepath.Join(envDir, libName))
		}
		paths = append(paths,
			libName,
			"/usr/lib/x86_64-linux-gnu/"+libName,
			"/usr/lib/aarch64-linux-gnu/"+libName,
			"/usr/lib64/"+libName,
			"/usr/lib/"+libName,
			"/usr/local/lib/"+libName,
		)
	}

	return paths
}

func gstCoreLibPaths() []string {
	var paths []string

	if envPath := os.Getenv("GST_CORE_LIB_PATH"); envPath != "" {
		paths = append(paths, envPath)
	}

	switch runtime.GOOS {
	case "darwin":
		libName := "libgstreamer-1.0.0.dylib"
		if envDir := os.Getenv("GST_LIB_DIR"); envDir != "" {
			paths = append(paths, filepath.Join(envDir, libName))
		}
		paths = append(paths,
			libName,
			"/opt/homebrew/lib/"+libName,
			"/usr/local/lib/"+libName,
			"/Library/Frameworks/GStreamer.framework/Versions/1.0/lib/"+libName,
		)
	case "linux":
		libName := "libgstreamer-1.0.so.0"
		if envDir := os.Getenv("GST_LIB_DIR"); envDir != "" {
			paths = append(paths, filepath.Join(envDir, libName))
		}
		paths = append(paths,
			libName,
			"/usr/lib/x86_64-linux-gnu/"+libName,
			"/usr/lib/aarch64-linux-gnu/"+libName,
			"/usr/lib64/"+libName,
			"/usr/lib/"+libName,
			"/usr/local/lib/"+libName,
		)
	}

	return paths
}

func loadCoreSymbols() {
	purego.RegisterLibFunc(&gstInit, gstCoreHandle, "gst_init")
	purego.RegisterLibFunc(&gstVersionString, gstCoreHandle, "gst_version_string")
	purego.RegisterLibFunc(&gstParseLaunch, gstCoreHandle, "gst_parse_launch")
	purego.RegisterLibFunc(&gstElementSetState, gstCoreHandle, "gst_element_set_state")
	purego.RegisterLibFunc(&gstElementGetState, gstCoreHandle, "gst_element_get_state")
	purego.RegisterLibFunc(&gstElementGetBus, gstCoreHandle, "gst_element_get_bus")
	purego.RegisterLibFunc(&gstBusPost, gstCoreHandle, "gst_bus_post")
	purego.RegisterLibFunc(&gstBusSetFlushing, gstCoreHandle, "gst_bus_set_flushing")
	purego.RegisterLibFunc(&gstBusTimedPopFilter, gstCoreHandle, "gst_bus_timed_pop_filtered")
	purego.RegisterLibFunc(&gstMessageParseError, gstCoreHandle, "gst_message_parse_error")
	purego.RegisterLibFunc(&gstMessageNewApp, gstCoreHandle, "gst_message_new_application")
	purego.RegisterLibFunc(&gstStructureNewEmpty, gstCoreHandle, "gst_structure_new_empty")
	purego.RegisterLibFunc(&gstStructureFree, gstCoreHandle, "gst_structure_free")
	purego.RegisterLibFunc(&gstObjectGetName, gstCoreHandle, "gst_object_get_name")
	purego.RegisterLibFunc(&gstObjectUnref, gstCoreHandle, "gst_object_unref")
	purego.RegisterLibFunc(&gstMiniObjectUnref, gstCoreHandle, "gst_mini_object_unref")
	purego.RegisterLibFunc(&gstBinGetByName, gstCoreHandle, "gst_bin_get_by_name")

	purego.RegisterLibFunc(&gFree, glibHandle, "g_free")
	purego.RegisterLibFunc(&gErrorFree, glibHandle, "g_error_free")
}

// IsAvailable checks whether the GStreamer core library can be loaded.
func IsAvailable() bool {
	if err := loadCore(); err != nil {
		return false
	}
	return gstCoreLoaded
}

// Version returns the GStreamer version string, or "" if the engine is
// unavailable.
func Version() string {
	if !IsAvailable() {
		return ""
	}
	ptr := gstVersionString()
	if ptr == 0 {
		return ""
	}
	defer gFree(ptr)
	return goStringFromPtr(ptr)
}

var (
	initOnce      sync.Once
	initErr       error
	initRemaining []string
)

// Init performs the one-time, process-wide engine initialization. The
// argument vector is passed through to the engine, which may consume
// --gst-* options; the remaining arguments are returned. Repeated calls
// return the result of the first.
func Init(args []string) ([]string, error) {
	initOnce.Do(func() {
		initErr = loadCore()
		if initErr != nil {
			initRemaining = args
			return
		}
		initRemaining = callInit(args)
	})
	return initRemaining, initErr
}

// callInit builds a C argc/argv pair, lets gst_init consume options from
// it, and reads back what the engine left in place.
func callInit(args []string) []string {
	if len(args) == 0 {
		gstInit(nil, nil)
		return nil
	}

	cstrs := make([][]byte, len(args))
	argv := make([]uintptr, len(args)+1)
	for i, a := range args {
		cstrs[i] = append([]byte(a), 0)
		argv[i] = uintptr(unsafe.Pointer(&cstrs[i][0]))
	}

	argc := int32(len(args))
	argvPtr := uintptr(unsafe.Pointer(&argv[0]))
	gstInit(&argc, &argvPtr)

	remaining := make([]string, 0, argc)
	if argvPtr != 0 && argc > 0 {
		vec := unsafe.Slice((*uintptr)(unsafe.Pointer(argvPtr)), int(argc))
		for _, p := range vec {
			remaining = append(remaining, goStringFromPtr(p))
		}
	}
	runtime.KeepAlive(cstrs)
	runtime.KeepAlive(argv)
	return remaining
}

// goStringFromPtr converts a C string pointer to a Go string.
func goStringFromPtr(ptr uintptr) string {
	if ptr == 0 {
		return ""
	}
	p := unsafe.Pointer(ptr)
	var length int
	for {
		if *(*byte)(unsafe.Pointer(uintptr(p) + uintptr(length))) == 0 {
			break
		}
		length++
		if length > 1<<20 { // Safety limit
			break
		}
	}
	if length == 0 {
		return ""
	}
	return string(unsafe.Slice((*byte)(p), length))
}
