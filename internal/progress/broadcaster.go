// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package progress

import (
	"sync"
	"time"
)

// Event types
const (
	EventExtracting          = "extracting"
	EventExtracted           = "extracted"
	EventGeneratingNotes     = "generating_notes"
	EventGeneratingQuestions = "generating_questions"
	EventComplete            = "complete"
	EventError               = "error"
)

// Event represents a progress step of one session's request
type Event struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
	Error     string    `json:"error,omitempty"`
}

// Broadcaster fans progress events out to the subscribers of each session
type Broadcaster struct {
	subscribers map[string]map[chan Event]bool
	mu          sync.RWMutex
}

// NewBroadcaster creates a new event broadcaster
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subscribers: make(map[string]map[chan Event]bool),
	}
}

// Subscribe registers a buffered channel for a session's events
func (b *Broadcaster) Subscribe(sessionID string) chan Event {
	ch := make(chan Event, 16)

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.subscribers[sessionID] == nil {
		b.subscribers[sessionID] = make(map[chan Event]bool)
	}
	b.subscribers[sessionID][ch] = true
	return ch
}

// Unsubscribe removes a subscriber and closes its channel
func (b *Broadcaster) Unsubscribe(sessionID string, ch chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.subscribers[sessionID]
	if !subs[ch] {
		return
	}
	delete(subs, ch)
	close(ch)
	if len(subs) == 0 {
		delete(b.subscribers, sessionID)
	}
}

// Publish sends an event to every subscriber of the session without blocking
func (b *Broadcaster) Publish(sessionID string, event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	for ch := range b.subscribers[sessionID] {
		select {
		case ch <- event:
		default:
			// Channel is full, skip this subscriber
		}
	}
}

// Notify publishes an event built from its type and message
func (b *Broadcaster) Notify(sessionID, eventType, message string) {
	b.Publish(sessionID, Event{Type: eventType, Message: message})
}

// Subscribers returns the number of subscribers for a session
func (b *Broadcaster) Subscribers(sessionID string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers[sessionID])
}
