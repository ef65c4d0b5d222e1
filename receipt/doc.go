// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package receipt loads and renders the vote receipt shown after a
// successful vote, with the election summary alongside it.
package receipt
