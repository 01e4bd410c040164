//go:build darwin || linux

// AppSink support binds libgstapp-1.0, loaded separately from the core
// so pipelines that never pull samples do not require it.

package gst

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
)

var (
	gstAppOnce    sync.Once
	gstAppHandle  uintptr
	gstAppInitErr error
	gstAppLoaded  bool
)

// libgstapp-1.0 function pointers
var (
	gstAppSinkPullSample func(sink uintptr) uintptr
	gstAppSinkIsEOS      func(sink uintptr) int32
	gstSampleGetBuffer   func(sample uintptr) uintptr
	gstBufferMap         func(buffer, info uintptr, flags uint32) int32
	gstBufferUnmap       func(buffer, info uintptr)
)

const gstMapRead = 1

// gstMapInfo mirrors GstMapInfo on LP64 platforms.
type gstMapInfo struct {
	Memory   uintptr
	Flags    int32
	_        int32
	Data     uintptr
	Size     uintptr
	Maxsize  uintptr
	UserData [4]uintptr
	Reserved [4]uintptr
}

func loadApp() error {
	gstAppOnce.Do(func() {
		gstAppInitErr = loadAppLib()
		if gstAppInitErr == nil {
			gstAppLoaded = true
		}
	})
	return gstAppInitErr
}

func loadAppLib() error {
	if err := loadCore(); err != nil {
		return err
	}

	handle, err := dlopenFirst(gstAppLibPaths())
	if err != nil {
		return fmt.Errorf("failed to load libgstapp-1.0: %w", err)
	}
	gstAppHandle = handle

	purego.RegisterLibFunc(&gstAppSinkPullSample, gstAppHandle, "gst_app_sink_pull_sample")
	purego.RegisterLibFunc(&gstAppSinkIsEOS, gstAppHandle, "gst_app_sink_is_eos")
	// gst_sample/gst_buffer live in the core library
	purego.RegisterLibFunc(&gstSampleGetBuffer, gstCoreHandle, "gst_sample_get_buffer")
	purego.RegisterLibFunc(&gstBufferMap, gstCoreHandle, "gst_buffer_map")
	purego.RegisterLibFunc(&gstBufferUnmap, gstCoreHandle, "gst_buffer_unmap")
	return nil
}

func gstAppLibPaths() []string {
	var paths []string

	if envPath := os.Getenv("GST_APP_LIB_PATH"); envPath != "" {
		paths = append(paths, envPath)
	}

	switch runtime.GOOS {
	case "darwin":
		libName := "libgstapp-1.0.0.dylib"
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
		libName := "libgstapp-1.0.so.0"
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

// IsAppSinkAvailable checks whether libgstapp-1.0 can be loaded.
func IsAppSinkAvailable() bool {
	if err := loadApp(); err != nil {
		return false
	}
	return gstAppLoaded
}

// AppSink pulls samples out of a pipeline's appsink element, the narrow
// boundary through which Go code consumes pipeline output.
type AppSink struct {
	el *Element
}

// AppSinkByName looks up an appsink child of the pipeline by name. The
// returned AppSink owns the child element reference.
func (e *Element) AppSinkByName(name string) (*AppSink, error) {
	if err := loadApp(); err != nil {
		return nil, err
	}
	child, err := e.ByName(name)
	if err != nil {
		return nil, err
	}
	return &AppSink{el: child}, nil
}

// PullSample blocks until the sink has a sample, then returns a copy of
// its buffer bytes. Returns io.EOF once the stream has ended.
func (s *AppSink) PullSample() ([]byte, error) {
	if s == nil || !s.el.IsValid() {
		return nil, ErrEmptyElement
	}

	samplePtr := gstAppSinkPullSample(s.el.ptr)
	if samplePtr == 0 {
		if gstAppSinkIsEOS(s.el.ptr) != 0 {
			return nil, io.EOF
		}
		return nil, errors.New("no sample received from appsink")
	}
	defer gstMiniObjectUnref(samplePtr)

	bufPtr := gstSampleGetBuffer(samplePtr)
	if bufPtr == 0 {
		return nil, errors.New("sample carries no buffer")
	}

	// Heap-allocated for purego on arm64
	info := new(gstMapInfo)
	if gstBufferMap(bufPtr, uintptr(unsafe.Pointer(info)), gstMapRead) == 0 {
		return nil, errors.New("unable to map sample buffer")
	}
	data := make([]byte, info.Size)
	if info.Size > 0 && info.Data != 0 {
		copy(data, unsafe.Slice((*byte)(unsafe.Pointer(info.Data)), info.Size))
	}
	gstBufferUnmap(bufPtr, uintptr(unsafe.Pointer(info)))
	runtime.KeepAlive(info)
	return data, nil
}

// Close releases the underlying appsink element reference.
func (s *AppSink) Close() error {
	if s == nil {
		return nil
	}
	return s.el.Close()
}
