// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package wizard is the three-step voting flow: constituency, candidate,
confirmation.

# State

State is a plain value. Local transitions are State methods and network
transitions are Wizard methods; both take the current State and return
the next. A rejected transition returns its input unchanged with an
error, so a caller can always keep showing what it has:

	s, err := w.Start(ctx)                 // status guard, load constituencies
	s, err = s.SelectConstituency(3)
	s, err = w.ToCandidates(ctx, s)        // ErrNoConstituency without a selection
	s, err = s.SelectCandidate(11)
	s, err = s.ToConfirm()
	s, err = s.Confirm(true)
	s, err = w.Submit(ctx, s)              // StepSubmitted, s.Receipt set

Going back from confirmation clears the candidate and the confirmation,
so SubmitEnabled is false again. Once submitted, CanEdit is false and
every transition returns ErrLocked.

# Errors

The server decides whether a vote may be cast. ALREADY_VOTED and
VOTING_CLOSED come back as ErrAlreadyVoted and ErrVotingClosed; other
failures are returned as they are.
*/
package wizard
