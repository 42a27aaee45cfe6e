// Package health provides liveness and readiness endpoints for the HTTP
// transports.
package health

import (
	"encoding/json"
	"net/http"
	"sync/atomic"
)

const (
	stateStarting int32 = iota
	stateReady
	stateDraining
)

// Checker tracks whether the server is accepting tool calls. It starts
// in the starting state, becomes ready once the transport is listening,
// and drains during shutdown. Safe for concurrent use.
type Checker struct {
	state atomic.Int32
}

// NewChecker creates a Checker in the starting state.
func NewChecker() *Checker {
	return &Checker{}
}

// SetReady marks the server as accepting traffic.
func (c *Checker) SetReady() {
	c.state.Store(stateReady)
}

// SetDraining marks the server as shutting down.
func (c *Checker) SetDraining() {
	c.state.Store(stateDraining)
}

// State returns the current state as a string: starting, ready, or
// draining.
func (c *Checker) State() string {
	switch c.state.Load() {
	case stateReady:
		return "ready"
	case stateDraining:
		return "draining"
	default:
		return "starting"
	}
}

type response struct {
	Status string `json:"status"`
}

// Liveness always reports 200; the process is up. Mount at /healthz.
func (*Checker) Liveness(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, response{Status: "ok"})
}

// Readiness reports 200 only while the server accepts tool calls, 503
// while starting or draining. Mount at /readyz.
func (c *Checker) Readiness(w http.ResponseWriter, _ *http.Request) {
	status := c.State()
	if c.state.Load() == stateReady {
		writeJSON(w, http.StatusOK, response{Status: status})
		return
	}
	writeJSON(w, http.StatusServiceUnavailable, response{Status: status})
}

func writeJSON(w http.ResponseWriter, code int, v response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
