// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package otp

import "strings"

// CodeLength is the number of digits in a code
const CodeLength = 6

// Entry is the six-slot code input. Each slot holds one digit or nothing.
type Entry struct {
	slots [CodeLength]byte
	focus int
}

// Input sets slot i to s. Anything but a single digit clears the slot.
// Focus advances on a digit; complete is true when the last slot was just
// filled and every slot holds a digit, which is the submit trigger.
func (e *Entry) Input(i int, s string) (complete bool) {
	if i < 0 || i >= CodeLength {
		return false
	}
	if len(s) != 1 || s[0] < '0' || s[0] > '9' {
		e.slots[i] = 0
		e.focus = i
		return false
	}
	e.slots[i] = s[0]
	if i < CodeLength-1 {
		e.focus = i + 1
	} else {
		e.focus = i
	}
	return i == CodeLength-1 && e.Complete()
}

// Backspace on a filled slot clears it; on an empty slot it clears the
// previous one and moves focus back
func (e *Entry) Backspace(i int) {
	if i < 0 || i >= CodeLength {
		return
	}
	if e.slots[i] != 0 {
		e.slots[i] = 0
		e.focus = i
		return
	}
	if i > 0 {
		e.slots[i-1] = 0
		e.focus = i - 1
	}
}

// Paste fills every slot from the first six digits in text. Text with
// fewer than six digits is ignored and false returned.
func (e *Entry) Paste(text string) bool {
	var digits []byte
	for i := 0; i < len(text) && len(digits) < CodeLength; i++ {
		if c := text[i]; c >= '0' && c <= '9' {
			digits = append(digits, c)
		}
	}
	if len(digits) != CodeLength {
		return false
	}
	copy(e.slots[:], digits)
	e.focus = CodeLength - 1
	return true
}

// Code returns the filled digits in order; shorter than six while incomplete
func (e *Entry) Code() string {
	var b strings.Builder
	for _, c := range e.slots {
		if c != 0 {
			b.WriteByte(c)
		}
	}
	return b.String()
}

func (e *Entry) Complete() bool {
	for _, c := range e.slots {
		if c == 0 {
			return false
		}
	}
	return true
}

// Focus is the slot that would receive the next keystroke
func (e *Entry) Focus() int {
	return e.focus
}

func (e *Entry) Clear() {
	e.slots = [CodeLength]byte{}
	e.focus = 0
}

// ValidCode reports whether code is exactly six ASCII digits
func ValidCode(code string) bool {
	if len(code) != CodeLength {
		return false
	}
	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return false
		}
	}
	return true
}
