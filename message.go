//go:build darwin || linux

package gst

import (
	"errors"
	"fmt"
	"strings"
	"unsafe"
)

// MessageType is a bitmask over the message categories the engine can
// post on a bus. OR combines categories into a filter, Has tests
// membership. Values match GstMessageType.
type MessageType uint32

const (
	MessageUnknown         MessageType = 0
	MessageEOS             MessageType = 1 << 0
	MessageError           MessageType = 1 << 1
	MessageWarning         MessageType = 1 << 2
	MessageInfo            MessageType = 1 << 3
	MessageTag             MessageType = 1 << 4
	MessageBuffering       MessageType = 1 << 5
	MessageStateChanged    MessageType = 1 << 6
	MessageStateDirty      MessageType = 1 << 7
	MessageStepDone        MessageType = 1 << 8
	MessageClockProvide    MessageType = 1 << 9
	MessageClockLost       MessageType = 1 << 10
	MessageNewClock        MessageType = 1 << 11
	MessageStructureChange MessageType = 1 << 12
	MessageStreamStatus    MessageType = 1 << 13
	MessageApplication     MessageType = 1 << 14
	MessageElement         MessageType = 1 << 15
	MessageSegmentStart    MessageType = 1 << 16
	MessageSegmentDone     MessageType = 1 << 17
	MessageDurationChanged MessageType = 1 << 18
	MessageLatency         MessageType = 1 << 19
	MessageAsyncStart      MessageType = 1 << 20
	MessageAsyncDone       MessageType = 1 << 21
	MessageRequestState    MessageType = 1 << 22
	MessageStepStart       MessageType = 1 << 23
	MessageQOS             MessageType = 1 << 24
	MessageProgress        MessageType = 1 << 25
	MessageTOC             MessageType = 1 << 26
	MessageResetTime       MessageType = 1 << 27
	MessageStreamStart     MessageType = 1 << 28
	MessageNeedContext     MessageType = 1 << 29
	MessageHaveContext     MessageType = 1 << 30
	MessageExtended        MessageType = 1 << 31
	MessageAny             MessageType = 0xffffffff
)

// Has reports whether any category in bits is present in t.
func (t MessageType) Has(bits MessageType) bool {
	return t&bits != 0
}

var messageTypeNames = []struct {
	bit  MessageType
	name string
}{
	{MessageEOS, "eos"},
	{MessageError, "error"},
	{MessageWarning, "warning"},
	{MessageInfo, "info"},
	{MessageTag, "tag"},
	{MessageBuffering, "buffering"},
	{MessageStateChanged, "state-changed"},
	{MessageStateDirty, "state-dirty"},
	{MessageStepDone, "step-done"},
	{MessageClockProvide, "clock-provide"},
	{MessageClockLost, "clock-lost"},
	{MessageNewClock, "new-clock"},
	{MessageStructureChange, "structure-change"},
	{MessageStreamStatus, "stream-status"},
	{MessageApplication, "application"},
	{MessageElement, "element"},
	{MessageSegmentStart, "segment-start"},
	{MessageSegmentDone, "segment-done"},
	{MessageDurationChanged, "duration-changed"},
	{MessageLatency, "latency"},
	{MessageAsyncStart, "async-start"},
	{MessageAsyncDone, "async-done"},
	{MessageRequestState, "request-state"},
	{MessageStepStart, "step-start"},
	{MessageQOS, "qos"},
	{MessageProgress, "progress"},
	{MessageTOC, "toc"},
	{MessageResetTime, "reset-time"},
	{MessageStreamStart, "stream-start"},
	{MessageNeedContext, "need-context"},
	{MessageHaveContext, "have-context"},
	{MessageExtended, "extended"},
}

func (t MessageType) String() string {
	if t == MessageUnknown {
		return "unknown"
	}
	if t == MessageAny {
		return "any"
	}
	var parts []string
	for _, n := range messageTypeNames {
		if t&n.bit != 0 {
			parts = append(parts, n.name)
		}
	}
	if len(parts) == 0 {
		return "unknown"
	}
	return strings.Join(parts, "|")
}

// Type returns the category of the message, MessageUnknown for an empty
// wrapper.
func (m *Message) Type() MessageType {
	if !m.IsValid() {
		return MessageUnknown
	}
	return MessageType((*gstMessage)(unsafe.Pointer(m.ptr)).Type)
}

// SourceName returns the name of the element that posted the message,
// or "" when the source is unset.
func (m *Message) SourceName() string {
	if !m.IsValid() {
		return ""
	}
	src := (*gstMessage)(unsafe.Pointer(m.ptr)).Src
	if src == 0 {
		return ""
	}
	namePtr := gstObjectGetName(src)
	if namePtr == 0 {
		return ""
	}
	defer gFree(namePtr)
	return goStringFromPtr(namePtr)
}

// ErrEmptyMessage is returned when an accessor needs a message payload
// but the wrapper holds no handle.
var ErrEmptyMessage = errors.New("message wrapper is empty")

// ParseError extracts the error text and debug text from an error
// message. The debug text is "" when the engine supplies none. Fails if
// the message carries no error payload, so passing the wrong message
// kind surfaces as an explicit error rather than a native assertion.
func (m *Message) ParseError() (errText, debugText string, err error) {
	if !m.IsValid() {
		return "", "", ErrEmptyMessage
	}
	if !m.Type().Has(MessageError) {
		return "", "", fmt.Errorf("message of type %s carries no error payload", m.Type())
	}

	var errPtr, dbgPtr uintptr
	gstMessageParseError(m.ptr, &errPtr, &dbgPtr)
	if errPtr == 0 {
		return "", "", errors.New("no error found in message")
	}

	gerr := GError{ptr: errPtr}
	defer gerr.Close()
	errText = gerr.Message()
	if dbgPtr != 0 {
		debugText = goStringFromPtr(dbgPtr)
		gFree(dbgPtr)
	}
	return errText, debugText, nil
}
