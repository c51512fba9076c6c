package rtcm

import (
	"fmt"
	"time"
)

// MessageHandler receives a decoded RTCM payload alongside the raw
// frame that produced it.
type MessageHandler func(msg *RTCMMessage, decoded interface{})

// Pipeline ties frame synchronization to decoding and dispatch in a
// single synchronous call path: every byte fed to ProcessData is fully
// decoded and routed to its handlers before ProcessData returns.
type Pipeline struct {
	parser   *RTCMParser
	messages []RTCMMessage
	handlers map[int][]MessageHandler // messages keyed 0 run for every type
}

// NewPipeline creates an empty, unstarted pipeline.
func NewPipeline() *Pipeline {
	return &Pipeline{
		parser:   NewRTCMParser(),
		handlers: make(map[int][]MessageHandler),
	}
}

// OnMessageType registers a handler invoked for every decoded message
// of the given type. Pass 0 to receive every message type.
func (p *Pipeline) OnMessageType(messageType int, handler MessageHandler) {
	p.handlers[messageType] = append(p.handlers[messageType], handler)
}

// ProcessData feeds a chunk of the byte stream through frame sync,
// decoding, and dispatch, returning the first decode error encountered.
// A decode error does not stop processing of subsequent frames: the
// caller's handlers already saw every frame that decoded cleanly.
func (p *Pipeline) ProcessData(data []byte) error {
	frames, _, err := p.parser.ParseRTCMMessage(data)
	if err != nil {
		return fmt.Errorf("synchronizing frames: %w", err)
	}

	var firstErr error
	for i := range frames {
		msg := frames[i]
		p.messages = append(p.messages, msg)

		decoded, err := DecodeRTCMMessage(&msg)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}

		for _, h := range p.handlers[msg.Type] {
			h(&msg, decoded)
		}
		for _, h := range p.handlers[0] {
			h(&msg, decoded)
		}
	}
	return firstErr
}

// GetStats returns per-message-type counters collected by the parser.
func (p *Pipeline) GetStats() map[int]*RTCMMessageStats {
	return p.parser.GetStats()
}

// Messages returns every frame synchronized so far, decoded or not.
func (p *Pipeline) Messages() []RTCMMessage {
	out := make([]RTCMMessage, len(p.messages))
	copy(out, p.messages)
	return out
}

// MessagesByType returns the subset of synchronized frames matching
// messageType.
func (p *Pipeline) MessagesByType(messageType int) []RTCMMessage {
	var out []RTCMMessage
	for _, msg := range p.messages {
		if msg.Type == messageType {
			out = append(out, msg)
		}
	}
	return out
}

// MessageFilter selects a subset of messages.
type MessageFilter func(msg *RTCMMessage) bool

// FilterMessages applies filter to messages and returns the matches.
func FilterMessages(messages []RTCMMessage, filter MessageFilter) []RTCMMessage {
	var out []RTCMMessage
	for i := range messages {
		if filter(&messages[i]) {
			out = append(out, messages[i])
		}
	}
	return out
}

// TypeFilter matches any of the given message types.
func TypeFilter(types ...int) MessageFilter {
	set := make(map[int]bool, len(types))
	for _, t := range types {
		set[t] = true
	}
	return func(msg *RTCMMessage) bool { return set[msg.Type] }
}

// TimeRangeFilter matches messages received within [start, end]; a zero
// start or end leaves that bound open.
func TimeRangeFilter(start, end time.Time) MessageFilter {
	return func(msg *RTCMMessage) bool {
		return (start.IsZero() || !msg.Timestamp.Before(start)) &&
			(end.IsZero() || !msg.Timestamp.After(end))
	}
}
