package controller

import (
	"co2form/internal/impact"
	"co2form/pkg/types"
)

// Kind classifies a rendered outcome.
type Kind string

const (
	KindSuccess    Kind = "success"
	KindValidation Kind = "validation"
	KindServer     Kind = "server"
	KindNetwork    Kind = "network"
	KindBusy       Kind = "busy"
)

// BusyMessage is shown when a submission arrives while one is in flight.
const BusyMessage = "A prediction is already in progress"

// ResultAnchor is the element a success panel scrolls into view.
const ResultAnchor = "result-container"

// Panel is what the result area shows after a submission.
type Panel struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
	// Set on success only.
	Result *types.PredictionResult `json:"result,omitempty"`
	Tier   *impact.Tier            `json:"-"`
	// Element to scroll into view; empty when the panel should not scroll.
	ScrollTo string `json:"scroll_to,omitempty"`
	// Status reported by the prediction endpoint for KindServer.
	UpstreamStatus int `json:"-"`
}

// OK reports whether the panel shows a prediction.
func (p Panel) OK() bool { return p.Kind == KindSuccess }

// RenderResult builds the success panel: the impact tier's advisory plus
// the echoed inputs and the predicted value.
func RenderResult(res types.PredictionResult) Panel {
	tier := impact.Classify(res.Prediction)
	r := res
	return Panel{
		Kind:     KindSuccess,
		Message:  tier.Message(res.Prediction),
		Result:   &r,
		Tier:     &tier,
		ScrollTo: ResultAnchor,
	}
}

// RenderError builds the uniform error panel.
func RenderError(kind Kind, msg string) Panel {
	return Panel{Kind: kind, Message: msg}
}
