// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package validate

import "strings"

// Errors collects one message per form field, in the order fields failed
type Errors struct {
	fields []string
	msgs   map[string]string
}

// Add records msg for field unless the field already has a message
func (e *Errors) Add(field, msg string) {
	if e.msgs == nil {
		e.msgs = make(map[string]string)
	}
	if _, ok := e.msgs[field]; ok {
		return
	}
	e.fields = append(e.fields, field)
	e.msgs[field] = msg
}

func (e *Errors) Has(field string) bool {
	_, ok := e.msgs[field]
	return ok
}

func (e *Errors) Get(field string) string {
	return e.msgs[field]
}

// Fields returns the failed fields in order
func (e *Errors) Fields() []string {
	return append([]string(nil), e.fields...)
}

func (e *Errors) Len() int {
	return len(e.fields)
}

// Map returns a copy of the field messages
func (e *Errors) Map() map[string]string {
	m := make(map[string]string, len(e.msgs))
	for k, v := range e.msgs {
		m[k] = v
	}
	return m
}

// Err returns e as an error, or nil when nothing failed
func (e *Errors) Err() error {
	if e == nil || len(e.fields) == 0 {
		return nil
	}
	return e
}

func (e *Errors) Error() string {
	parts := make([]string, 0, len(e.fields))
	for _, f := range e.fields {
		parts = append(parts, f+": "+e.msgs[f])
	}
	return strings.Join(parts, "; ")
}

// First returns the message of the first failed field
func (e *Errors) First() string {
	if len(e.fields) == 0 {
		return ""
	}
	return e.msgs[e.fields[0]]
}
