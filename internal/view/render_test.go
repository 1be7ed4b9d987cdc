package view

import (
	"bytes"
	"strings"
	"testing"

	"co2form/internal/controller"
	"co2form/internal/registry"
	"co2form/pkg/types"
)

func newRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := New("en")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return r
}

func TestPage_EmptyForm(t *testing.T) {
	r := newRenderer(t)
	var buf bytes.Buffer
	err := r.Page(&buf, PageData{FuelTypes: registry.Builtin().List()})
	if err != nil {
		t.Fatalf("Page: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		`id="prediction-form"`,
		`<option value="E">Ethanol (E85) (Flex fuel - 85% ethanol)</option>`,
		controller.DefaultLabel,
		"typical range: 4-20 L/100km",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("page missing %q", want)
		}
	}
	if strings.Contains(out, "result-container show") {
		t.Fatalf("result area should be hidden before submission")
	}
}

func TestPage_SuccessPanel(t *testing.T) {
	r := newRenderer(t)
	p := controller.RenderResult(types.PredictionResult{
		Prediction:   1234.5,
		FuelTypeName: "Diesel",
		InputData:    types.InputEcho{FuelConsumption: 10, FuelEfficiency: 30},
	})
	var buf bytes.Buffer
	err := r.Page(&buf, PageData{
		Form:      FormValues{Consumption: "10", Efficiency: "30", FuelType: "D"},
		FuelTypes: registry.Builtin().List(),
		Panel:     &p,
	})
	if err != nil {
		t.Fatalf("Page: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"result-container show",
		`data-scroll-to="result-container"`,
		"1,234.5",
		"Prediction Complete",
		`<option value="D" selected>`,
		`value="10"`,
		"tier-very-high",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("page missing %q", want)
		}
	}
}

func TestPanelHTML_SanitisesServerMessage(t *testing.T) {
	r := newRenderer(t)
	p := controller.RenderError(controller.KindServer, `<script>alert(1)</script>Invalid fuel type`)
	out, err := r.PanelHTML(p)
	if err != nil {
		t.Fatalf("PanelHTML: %v", err)
	}
	if strings.Contains(out, "<script>") {
		t.Fatalf("script tag not stripped: %s", out)
	}
	if !strings.Contains(out, "Invalid fuel type") || !strings.Contains(out, "error-server") {
		t.Fatalf("unexpected panel: %s", out)
	}
}

func TestPanelHTML_ValidationMessageEscaped(t *testing.T) {
	r := newRenderer(t)
	out, err := r.PanelHTML(controller.RenderError(controller.KindValidation, "Fuel consumption seems too high (>50 L/100km)"))
	if err != nil {
		t.Fatalf("PanelHTML: %v", err)
	}
	if !strings.Contains(out, "(&gt;50 L/100km)") {
		t.Fatalf("expected escaped >: %s", out)
	}
}

func TestPanelText(t *testing.T) {
	r := newRenderer(t)
	ok := r.PanelText(controller.RenderResult(types.PredictionResult{
		Prediction:   120,
		FuelTypeName: "Regular <b>Gasoline</b>",
		InputData:    types.InputEcho{FuelConsumption: 10, FuelEfficiency: 30},
	}))
	if !strings.Contains(ok, "120 g/km") || !strings.Contains(ok, "Fuel Type:        Regular Gasoline") {
		t.Fatalf("unexpected text:\n%s", ok)
	}
	bad := r.PanelText(controller.RenderError(controller.KindNetwork, "Network error: Unable to connect to the server"))
	if bad != "Error: Network error: Unable to connect to the server\n" {
		t.Fatalf("unexpected error text: %q", bad)
	}
}

func TestPanel_AdvisoryMatchesEmission(t *testing.T) {
	p := controller.RenderResult(types.PredictionResult{Prediction: 231.456, FuelTypeName: "Diesel"})
	html, err := newRenderer(t).PanelHTML(p)
	if err != nil {
		t.Fatalf("PanelHTML: %v", err)
	}
	if strings.Contains(html, "231.456") || !strings.Contains(html, "high CO2 emissions (231.46 g/km)") {
		t.Fatalf("advisory should use the displayed emission:\n%s", html)
	}

	de, err := New("de")
	if err != nil {
		t.Fatalf("New(de): %v", err)
	}
	text := de.PanelText(p)
	if !strings.Contains(text, "231,46 g/km\n") || !strings.Contains(text, "(231,46 g/km)") {
		t.Fatalf("unexpected de text:\n%s", text)
	}
}

func TestFormatNumber(t *testing.T) {
	r := newRenderer(t)
	cases := map[float64]string{120: "120", 231.456: "231.46", 9.5: "9.5"}
	for in, want := range cases {
		if got := r.FormatNumber(in); got != want {
			t.Fatalf("FormatNumber(%v)=%q, want %q", in, got, want)
		}
	}
	de, err := New("de")
	if err != nil {
		t.Fatalf("New(de): %v", err)
	}
	if got := de.FormatNumber(9.5); got != "9,5" {
		t.Fatalf("de FormatNumber=%q", got)
	}
}
