// Package gate routes reaction and message events to the component that
// owns the message the event is about. Components bind a handler to a
// message id (or watch a channel) instead of hooking the session's global
// event stream, which keeps unsubscription a single operation.
package gate

import "sync"

// Reaction is a user's reaction on a message.
type Reaction struct {
	MessageID string
	ChannelID string
	UserID    string
	Emoji     string
}

// Handler receives events for a single bound message id.
type Handler interface {
	OnReactionAdded(r Reaction)
	OnReactionRemoved(r Reaction)
	OnReactionsCleared(messageID string)
	OnMessageDeleted(messageID string)
}

// Watcher receives new-message notifications for a watched channel.
type Watcher interface {
	OnMessageCreated(channelID, messageID string)
}

// Gate is safe for concurrent use. At most one Handler per message id and
// one Watcher per channel id are held; binding again replaces the previous
// registration.
type Gate struct {
	mu       sync.RWMutex
	handlers map[string]Handler
	watchers map[string]Watcher
}

func New() *Gate {
	return &Gate{
		handlers: make(map[string]Handler),
		watchers: make(map[string]Watcher),
	}
}

// Bind routes events for messageID to h.
func (g *Gate) Bind(messageID string, h Handler) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.handlers[messageID] = h
}

// Unbind removes the handler for messageID, if any.
func (g *Gate) Unbind(messageID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.handlers, messageID)
}

// Watch routes new-message events in channelID to w.
func (g *Gate) Watch(channelID string, w Watcher) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.watchers[channelID] = w
}

// Unwatch removes w from channelID. A different registered watcher is
// left in place so a stale unsubscribe cannot evict its successor.
func (g *Gate) Unwatch(channelID string, w Watcher) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.watchers[channelID] == w {
		delete(g.watchers, channelID)
	}
}

func (g *Gate) handler(messageID string) (Handler, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	h, ok := g.handlers[messageID]
	return h, ok
}

// ReactionAdded dispatches a reaction-add event.
func (g *Gate) ReactionAdded(r Reaction) {
	if h, ok := g.handler(r.MessageID); ok {
		h.OnReactionAdded(r)
	}
}

// ReactionRemoved dispatches a reaction-remove event.
func (g *Gate) ReactionRemoved(r Reaction) {
	if h, ok := g.handler(r.MessageID); ok {
		h.OnReactionRemoved(r)
	}
}

// ReactionsCleared dispatches a reactions-cleared event.
func (g *Gate) ReactionsCleared(messageID string) {
	if h, ok := g.handler(messageID); ok {
		h.OnReactionsCleared(messageID)
	}
}

// MessageDeleted dispatches a message-delete event.
func (g *Gate) MessageDeleted(messageID string) {
	if h, ok := g.handler(messageID); ok {
		h.OnMessageDeleted(messageID)
	}
}

// MessageCreated dispatches a new-message event to the channel's watcher.
func (g *Gate) MessageCreated(channelID, messageID string) {
	g.mu.RLock()
	w, ok := g.watchers[channelID]
	g.mu.RUnlock()
	if ok {
		w.OnMessageCreated(channelID, messageID)
	}
}
