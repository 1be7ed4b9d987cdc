package controller

import "sync"

const (
	DefaultLabel     = "Predict CO2 Emissions"
	DefaultBusyLabel = "Predicting..."
)

// TriggerState is a snapshot of the submit control.
type TriggerState struct {
	Enabled bool   `json:"enabled"`
	Label   string `json:"label"`
}

// Trigger is the submit control. It is disabled with a busy label while a
// submission is in flight and restored to its original label afterwards.
type Trigger struct {
	mu        sync.Mutex
	enabled   bool
	label     string
	original  string
	busyLabel string
}

// NewTrigger returns an enabled trigger. Empty labels use the defaults.
func NewTrigger(label, busyLabel string) *Trigger {
	if label == "" {
		label = DefaultLabel
	}
	if busyLabel == "" {
		busyLabel = DefaultBusyLabel
	}
	return &Trigger{enabled: true, label: label, original: label, busyLabel: busyLabel}
}

// Disable switches the trigger to its busy state. It returns false if the
// trigger was already disabled.
func (t *Trigger) Disable() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.enabled {
		return false
	}
	t.enabled = false
	t.label = t.busyLabel
	return true
}

// Restore re-enables the trigger with its original label.
func (t *Trigger) Restore() {
	t.mu.Lock()
	t.enabled = true
	t.label = t.original
	t.mu.Unlock()
}

// State returns the current enabled flag and label.
func (t *Trigger) State() TriggerState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return TriggerState{Enabled: t.enabled, Label: t.label}
}

func (t *Trigger) clone() *Trigger {
	t.mu.Lock()
	defer t.mu.Unlock()
	return NewTrigger(t.original, t.busyLabel)
}
