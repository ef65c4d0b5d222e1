// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package diagnostics backs the error page: a fixed table of error kinds
and a concurrent health check of the backend services.

Lookup maps a Kind to its icon, title, default message and buttons.
Network and server errors offer a retry; auth errors turn the retry into
"Sign In", and session errors into "Sign In Again", which also clears
stored credentials. KindFor classifies an error from apiclient by kind,
error code and HTTP status.

CheckServices probes auth, voting and database health at the same time
and returns one ServiceStatus per service in a fixed order.
*/
package diagnostics
