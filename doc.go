// Package gst is a safety layer over the GStreamer C engine.
//
// The engine exposes pipelines as element graphs, reference-counted
// handles and an asynchronous message bus. Raw use means manual unref,
// manual state-transition checks and manual message filtering; this
// package wraps all of that:
//
//   - Ownership wrappers (Element, Bus, Message, GError) release their
//     handle exactly once, on every exit path.
//   - Facade calls (ParseLaunch, SetState, Bus, TimedPopFiltered) turn
//     the engine's out-parameter/null-sentinel convention into explicit
//     (value, error) returns.
//   - MessageType is a bitmask filter; Bus.TimedPopFiltered is a single
//     blocking wait that only ever yields matching messages.
//   - Run drives construct -> playing -> bus wait -> dispatch -> null
//     teardown with every failure point reported and teardown attempted
//     on every branch.
//
// # Native Libraries
//
// The engine is loaded at runtime with purego (no cgo): libglib-2.0 and
// libgstreamer-1.0 for the core, libgstapp-1.0 for AppSink pulls. Set
// GST_LIB_DIR to the directory containing them, or GST_CORE_LIB_PATH /
// GLIB_LIB_PATH / GST_APP_LIB_PATH to individual files. IsAvailable
// reports whether the core could be loaded.
//
// # Bootstrap
//
// Call Init once before any other operation; it forwards the process
// argument vector to the engine. On macOS wrap your logic in RunMain so
// it runs under the engine's main-thread adapter.
package gst
