// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package diagnostics

import (
	"errors"
	"net/http"

	"github.com/VENUHARGI/OnlineVoting/apiclient"
	"github.com/VENUHARGI/OnlineVoting/models"
	"github.com/VENUHARGI/OnlineVoting/session"
)

// Kind is the category of error shown on the error page
type Kind string

const (
	KindNetwork    Kind = "network"
	KindServer     Kind = "server"
	KindAuth       Kind = "auth"
	KindPermission Kind = "permission"
	KindNotFound   Kind = "notFound"
	KindValidation Kind = "validation"
	KindSession    Kind = "session"
	KindGeneral    Kind = "general"
)

// ActionID names a button on the error page
type ActionID string

const (
	ActionRetry   ActionID = "retry"
	ActionBack    ActionID = "back"
	ActionHome    ActionID = "home"
	ActionSupport ActionID = "support"
)

// Action is a visible button. SignIn sends the voter to the login page
// and ClearSession drops stored credentials first.
type Action struct {
	ID           ActionID
	Label        string
	SignIn       bool
	ClearSession bool
}

// Page is what the error page shows for a Kind
type Page struct {
	Kind    Kind
	Icon    string
	Title   string
	Message string
	Code    string
	Actions []Action
}

var pages = map[Kind]Page{
	KindNetwork: {
		Icon:    "wifi",
		Title:   "Connection Problem",
		Message: "Unable to connect to the server. Please check your internet connection.",
	},
	KindServer: {
		Icon:    "server",
		Title:   "Server Error",
		Message: "The server is currently unavailable. Please try again later.",
	},
	KindAuth: {
		Icon:    "user-lock",
		Title:   "Authentication Required",
		Message: "You need to sign in to access this resource.",
	},
	KindPermission: {
		Icon:    "ban",
		Title:   "Access Denied",
		Message: "You do not have permission to access this resource.",
	},
	KindNotFound: {
		Icon:    "search",
		Title:   "Page Not Found",
		Message: "The page you are looking for could not be found.",
	},
	KindValidation: {
		Icon:    "exclamation-circle",
		Title:   "Invalid Input",
		Message: "The information provided is not valid.",
	},
	KindSession: {
		Icon:    "clock",
		Title:   "Session Expired",
		Message: "Your session has expired. Please sign in again.",
	},
	KindGeneral: {
		Icon:    "exclamation-triangle",
		Title:   "Something Went Wrong",
		Message: "An unexpected error occurred. Please try again.",
	},
}

// Lookup returns the page for kind; unknown kinds get the general page
func Lookup(kind Kind) Page {
	p, ok := pages[kind]
	if !ok {
		kind = KindGeneral
		p = pages[KindGeneral]
	}
	p.Kind = kind
	p.Actions = actionsFor(kind)
	return p
}

// Describe is Lookup with the caller's error code and message. An empty
// message keeps the default text.
func Describe(kind Kind, code, message string) Page {
	p := Lookup(kind)
	p.Code = code
	if message != "" {
		p.Message = message
	}
	return p
}

func actionsFor(kind Kind) []Action {
	var actions []Action
	switch kind {
	case KindNetwork, KindServer:
		actions = append(actions, Action{ID: ActionRetry, Label: "Try Again"})
	case KindAuth:
		actions = append(actions, Action{ID: ActionRetry, Label: "Sign In", SignIn: true})
	case KindSession:
		actions = append(actions, Action{ID: ActionRetry, Label: "Sign In Again", SignIn: true, ClearSession: true})
	}
	return append(actions,
		Action{ID: ActionBack, Label: "Go Back"},
		Action{ID: ActionHome, Label: "Home"},
		Action{ID: ActionSupport, Label: "Contact Support"},
	)
}

// KindFor classifies err for the error page
func KindFor(err error) Kind {
	if err == nil {
		return KindGeneral
	}
	if errors.Is(err, session.ErrExpired) {
		return KindSession
	}
	if errors.Is(err, session.ErrNoToken) {
		return KindAuth
	}

	var apiErr *apiclient.Error
	if !errors.As(err, &apiErr) {
		return KindGeneral
	}
	switch apiErr.Kind {
	case apiclient.KindTimeout, apiclient.KindNetwork:
		return KindNetwork
	case apiclient.KindInvalidResponse:
		return KindServer
	}

	switch apiErr.Code {
	case models.CodeValidation, models.CodeInvalidSelection:
		return KindValidation
	case models.CodeUnauthorized:
		if apiErr.Status == http.StatusForbidden {
			return KindPermission
		}
		return KindSession
	case models.CodeNotFound:
		return KindNotFound
	case models.CodeInternal:
		return KindServer
	}

	switch {
	case apiErr.Status == http.StatusUnauthorized:
		return KindSession
	case apiErr.Status == http.StatusForbidden:
		return KindPermission
	case apiErr.Status == http.StatusNotFound:
		return KindNotFound
	case apiErr.Status >= http.StatusInternalServerError:
		return KindServer
	case apiErr.Status >= http.StatusBadRequest:
		return KindValidation
	}
	return KindGeneral
}

// ForError builds the page for err, carrying its code and message
func ForError(err error) Page {
	kind := KindFor(err)
	var apiErr *apiclient.Error
	if errors.As(err, &apiErr) {
		msg := apiErr.Message
		if kind == KindNetwork {
			msg = ""
		}
		return Describe(kind, string(apiErr.Code), msg)
	}
	if kind == KindGeneral {
		return Describe(kind, "", err.Error())
	}
	return Lookup(kind)
}
