// Package bus is a small in-process message bus with retained messages and
// MQTT-style topic wildcards. Services talk to each other exclusively
// through it: the config service publishes retained configuration, the
// buttons service publishes debounced button events.
package bus

import (
	"strings"
	"sync"
)

// Wildcard tokens, usable in subscription patterns only.
const (
	WildOne = "+" // matches exactly one topic level
	WildAll = "#" // matches the rest of the topic, including nothing
)

// Topic is a slash-free token path, e.g. T("buttons", "event", "select").
type Topic []string

// T builds a Topic from its tokens.
func T(tokens ...string) Topic { return Topic(tokens) }

func (t Topic) String() string { return strings.Join(t, "/") }

// Equal reports whether two topics have identical tokens.
func (t Topic) Equal(o Topic) bool {
	if len(t) != len(o) {
		return false
	}
	for i := range t {
		if t[i] != o[i] {
			return false
		}
	}
	return true
}

type Message struct {
	Topic    Topic
	Payload  any
	Retained bool
	ReplyTo  Topic // optional topic for control replies
}

// Subscription is a pattern registration owned by one Connection. Its
// channel is bounded; when full, the oldest queued message is dropped in
// favour of the newest.
type Subscription struct {
	pattern Topic
	ch      chan *Message
	conn    *Connection
}

func (s *Subscription) Pattern() Topic           { return s.pattern }
func (s *Subscription) Channel() <-chan *Message { return s.ch }
func (s *Subscription) Unsubscribe()             { s.conn.Unsubscribe(s) }

type node struct {
	children map[string]*node
	subs     []*Subscription
	retained *Message
}

type Bus struct {
	mu   sync.Mutex
	root *node
	qLen int
}

// NewBus creates a bus whose subscription queues hold queueLen messages.
func NewBus(queueLen int) *Bus {
	if queueLen <= 0 {
		queueLen = 8
	}
	return &Bus{root: &node{}, qLen: queueLen}
}

// NewMessage is a convenience constructor.
func (b *Bus) NewMessage(topic Topic, payload any, retained bool) *Message {
	return &Message{Topic: topic, Payload: payload, Retained: retained}
}

// Publish delivers msg to every subscription whose pattern matches its
// topic. A retained message is additionally stored at its exact topic and
// replayed to later subscribers; publishing a retained message with a nil
// payload clears the slot.
func (b *Bus) Publish(msg *Message) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.deliver(b.root, msg.Topic, msg)

	if !msg.Retained {
		return
	}
	n := b.root
	for _, tok := range msg.Topic {
		if n.children == nil {
			n.children = make(map[string]*node)
		}
		child, ok := n.children[tok]
		if !ok {
			child = &node{}
			n.children[tok] = child
		}
		n = child
	}
	if msg.Payload == nil {
		n.retained = nil
	} else {
		n.retained = msg
	}
}

// deliver walks the subscription trie against a concrete topic, honouring
// wildcards in the stored patterns. Caller holds the lock.
func (b *Bus) deliver(n *node, rest Topic, msg *Message) {
	if len(rest) == 0 {
		for _, sub := range n.subs {
			send(sub.ch, msg)
		}
		// "#" also matches zero remaining levels.
		if tail, ok := n.children[WildAll]; ok {
			for _, sub := range tail.subs {
				send(sub.ch, msg)
			}
		}
		return
	}
	if n.children == nil {
		return
	}
	if child, ok := n.children[rest[0]]; ok {
		b.deliver(child, rest[1:], msg)
	}
	if child, ok := n.children[WildOne]; ok {
		b.deliver(child, rest[1:], msg)
	}
	if tail, ok := n.children[WildAll]; ok {
		for _, sub := range tail.subs {
			send(sub.ch, msg)
		}
	}
}

// replayRetained walks the retained store against a (possibly wildcarded)
// subscription pattern. Caller holds the lock.
func (b *Bus) replayRetained(n *node, pattern Topic, sub *Subscription) {
	if len(pattern) == 0 {
		if n.retained != nil {
			send(sub.ch, n.retained)
		}
		return
	}
	switch pattern[0] {
	case WildAll:
		b.replaySubtree(n, sub)
	case WildOne:
		for _, child := range n.children {
			b.replayRetained(child, pattern[1:], sub)
		}
	default:
		if child, ok := n.children[pattern[0]]; ok {
			b.replayRetained(child, pattern[1:], sub)
		}
	}
}

func (b *Bus) replaySubtree(n *node, sub *Subscription) {
	if n.retained != nil {
		send(sub.ch, n.retained)
	}
	for _, child := range n.children {
		b.replaySubtree(child, sub)
	}
}

func (b *Bus) addSubscription(sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := b.root
	for _, tok := range sub.pattern {
		if n.children == nil {
			n.children = make(map[string]*node)
		}
		child, ok := n.children[tok]
		if !ok {
			child = &node{}
			n.children[tok] = child
		}
		n = child
	}
	n.subs = append(n.subs, sub)

	b.replayRetained(b.root, sub.pattern, sub)
}

func (b *Bus) removeSubscription(sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := b.root
	stack := make([]*node, 0, len(sub.pattern))
	for _, tok := range sub.pattern {
		child, ok := n.children[tok]
		if !ok {
			return
		}
		stack = append(stack, n)
		n = child
	}
	for i, s := range n.subs {
		if s == sub {
			n.subs = append(n.subs[:i], n.subs[i+1:]...)
			break
		}
	}
	// Prune empty branches bottom-up.
	for i := len(sub.pattern) - 1; i >= 0; i-- {
		parent := stack[i]
		child := parent.children[sub.pattern[i]]
		if len(child.subs) == 0 && len(child.children) == 0 && child.retained == nil {
			delete(parent.children, sub.pattern[i])
		} else {
			break
		}
	}
}

// send enqueues without ever blocking the publisher: a full queue drops its
// oldest message.
func send(ch chan *Message, msg *Message) {
	for {
		select {
		case ch <- msg:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

// Connection groups subscriptions under one owner so they can be torn down
// together.
type Connection struct {
	bus  *Bus
	mu   sync.Mutex
	subs []*Subscription
	id   string
}

func (b *Bus) NewConnection(id string) *Connection {
	return &Connection{bus: b, id: id}
}

func (c *Connection) ID() string { return c.id }

func (c *Connection) Publish(msg *Message) { c.bus.Publish(msg) }

func (c *Connection) NewMessage(topic Topic, payload any, retained bool) *Message {
	return c.bus.NewMessage(topic, payload, retained)
}

func (c *Connection) Subscribe(pattern Topic) *Subscription {
	sub := &Subscription{
		pattern: pattern,
		ch:      make(chan *Message, c.bus.qLen),
		conn:    c,
	}
	c.mu.Lock()
	c.subs = append(c.subs, sub)
	c.mu.Unlock()
	c.bus.addSubscription(sub)
	return sub
}

func (c *Connection) Unsubscribe(sub *Subscription) {
	c.bus.removeSubscription(sub)
	c.mu.Lock()
	for i, s := range c.subs {
		if s == sub {
			c.subs = append(c.subs[:i], c.subs[i+1:]...)
			break
		}
	}
	c.mu.Unlock()
	close(sub.ch)
}

// Disconnect tears down every subscription owned by the connection.
func (c *Connection) Disconnect() {
	c.mu.Lock()
	subs := c.subs
	c.subs = nil
	c.mu.Unlock()
	for _, sub := range subs {
		c.bus.removeSubscription(sub)
		close(sub.ch)
	}
}
