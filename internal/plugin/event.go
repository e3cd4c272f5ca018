// © 2024 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package plugin

// ContextType is the kind of an inbound message.
type ContextType int

// Inbound message kinds. Only Text is handled by this plugin.
const (
	Text ContextType = iota + 1
	Voice
	Image
	File
)

func (t ContextType) String() string {
	switch t {
	case Text:
		return "text"
	case Voice:
		return "voice"
	case Image:
		return "image"
	case File:
		return "file"
	default:
		return "unknown"
	}
}

// Context is an inbound message as delivered by the host.
type Context struct {
	Type    ContextType
	Content string
}

// ReplyType is the kind of a reply.
type ReplyType int

// Reply kinds.
const (
	// ReplyText carries the requested content.
	ReplyText ReplyType = iota + 1
	// ReplyError carries a user-facing failure message.
	ReplyError
)

func (t ReplyType) String() string {
	switch t {
	case ReplyText:
		return "text"
	case ReplyError:
		return "error"
	default:
		return "unknown"
	}
}

// Reply is what the host sends back to the user.
type Reply struct {
	Type    ReplyType
	Content string
}

// EventAction tells the host what to do after a plugin handled an event.
type EventAction int

// Event actions.
const (
	// Continue passes the event to the next plugin.
	Continue EventAction = iota
	// Break stops other plugins but lets the host run its default handling.
	Break
	// BreakPass stops other plugins and skips the host's default handling.
	BreakPass
)

func (a EventAction) String() string {
	switch a {
	case Continue:
		return "continue"
	case Break:
		return "break"
	case BreakPass:
		return "break_pass"
	default:
		return "unknown"
	}
}

// EventContext is passed by the host to each plugin in turn. Plugins set
// Reply and Action to take over the event.
type EventContext struct {
	Context Context
	Reply   *Reply
	Action  EventAction
	// Err is the reason a ReplyError reply was produced.
	Err error
}
