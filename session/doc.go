// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package session stores the voter's credentials between commands.

There are two scopes. The persistent scope ("remember me") is a JSON file
in the state directory. The tab scope lasts for one terminal session
(MemoryStorage in tests, a per-shell file in the CLI). SetToken and
SetProfile always write one scope and delete the key from the other, so a
stale token never lingers. Token reads persistent first, then tab. Clear
removes everything from both.

IsAuthenticated is derived from the token: present and, if it parses as a
JWT, not expired. No separate flag is stored.

The OTP step's context (purpose, email, user id) is kept in the tab scope
via SetPending, so the verify step is told its purpose rather than
guessing it.

Store implements apiclient.TokenSource.
*/
package session
