// SPDX-License-Identifier: MIT

package api

import (
	"net/http"
	"strconv"

	"github.com/ManuGH/ubusgw/internal/session"
)

// Outcome is the HTTP status and unframed text body of a response.
type Outcome struct {
	Status int
	Body   string
}

// MapLogin maps a login result to a response.
func MapLogin(o session.Outcome[session.Token]) Outcome {
	if !o.OK() {
		return Outcome{Status: http.StatusBadRequest, Body: o.Reason()}
	}
	return Outcome{
		Status: http.StatusOK,
		Body:   "Logged in successfully (session id: " + string(o.Value()) + ")",
	}
}

// MapUptime maps an uptime result to a response.
func MapUptime(o session.Outcome[uint64]) Outcome {
	if !o.OK() {
		return Outcome{Status: http.StatusBadRequest, Body: o.Reason()}
	}
	return Outcome{
		Status: http.StatusOK,
		Body:   "uptime = " + strconv.FormatUint(o.Value(), 10),
	}
}

// MapInvalid maps a rejected request to a response.
func MapInvalid(in InvalidIntent) Outcome {
	status := http.StatusBadRequest
	if in.Status == StatusUnauthorized {
		status = http.StatusUnauthorized
	}
	return Outcome{Status: status, Body: in.Reason}
}

// writeOutcome writes o as a plain-text body framed by newlines.
func writeOutcome(w http.ResponseWriter, o Outcome) {
	body := "\n" + o.Body + "\n"
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(o.Status)
	_, _ = w.Write([]byte(body))
}
