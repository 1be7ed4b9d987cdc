// Package controller implements the prediction form controller: it
// validates a request, submits it to the prediction endpoint and renders
// the outcome as a Panel.
//
//   - controller.go: Controller, Submit flow and state transitions.
//   - trigger.go: the submit control that is disabled while a request is in flight.
//   - panel.go: success and error panels.
//   - metrics.go: Prometheus counters for outcomes and tiers.
//
// No error escapes Submit; every outcome is a Panel.
package controller
