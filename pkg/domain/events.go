package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventRequestStart    EventType = "request_start"
	EventRequestEnd      EventType = "request_end"
	EventRequestRejected EventType = "request_rejected"
)

// Outcome classifies how a request lifecycle ended.
type Outcome string

const (
	OutcomeSucceeded Outcome = "succeeded"
	OutcomeFailed    Outcome = "failed"
	OutcomeRejected  Outcome = "rejected"
	OutcomeDropped   Outcome = "dropped"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	RequestID string    `json:"request_id"`
}

// RequestEvent describes one pass through a workflow's request lifecycle.
type RequestEvent struct {
	EventBase
	Workflow string        `json:"workflow"`
	Outcome  Outcome       `json:"outcome,omitempty"`
	Duration time.Duration `json:"duration,omitempty"`
	Err      error         `json:"-"`
}

// LifecycleHooks defines callbacks for request observability.
type LifecycleHooks struct {
	OnRequestStart func(context.Context, *RequestEvent)
	OnRequestEnd   func(context.Context, *RequestEvent)
}
