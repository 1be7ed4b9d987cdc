// Package view renders the prediction page and its result panels.
package view

import (
	"embed"
	"fmt"
	"html"
	"io"
	"io/fs"
	"math"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"co2form/internal/controller"
	"co2form/internal/form"
	"co2form/pkg/types"
)

//go:embed templates/*.html
var templatesFS embed.FS

// FormValues are the raw values echoed back into the inputs.
type FormValues struct {
	Consumption string
	Efficiency  string
	FuelType    string
}

// PageData is everything the page template needs.
type PageData struct {
	Form      FormValues
	FuelTypes []types.FuelType
	Hints     map[string]types.Hint
	Trigger   controller.TriggerState
	BusyLabel string
	// Nil before the first submission.
	Panel *controller.Panel
}

// Renderer renders pages and panels. It is safe for concurrent use.
type Renderer struct {
	mu      sync.RWMutex
	set     *pongo2.TemplateSet
	cache   map[string]*pongo2.Template
	locale  string
	printer *message.Printer
	policy  *bluemonday.Policy
}

// New parses the embedded templates. locale selects number formatting; an
// unknown tag falls back to English.
func New(locale string) (*Renderer, error) {
	sub, err := fs.Sub(templatesFS, "templates")
	if err != nil {
		return nil, fmt.Errorf("view: templates: %w", err)
	}
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	r := &Renderer{
		set:     pongo2.NewSet("co2form", pongo2.NewFSLoader(sub)),
		cache:   make(map[string]*pongo2.Template),
		locale:  tag.String(),
		printer: message.NewPrinter(tag),
		policy:  bluemonday.StrictPolicy(),
	}
	for _, name := range []string{"page.html", "panel_success.html", "panel_error.html"} {
		if _, err := r.template(name); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Renderer) template(name string) (*pongo2.Template, error) {
	r.mu.RLock()
	if tpl, ok := r.cache[name]; ok {
		r.mu.RUnlock()
		return tpl, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if tpl, ok := r.cache[name]; ok {
		return tpl, nil
	}
	tpl, err := r.set.FromFile(name)
	if err != nil {
		return nil, fmt.Errorf("view: load template %q: %w", name, err)
	}
	r.cache[name] = tpl
	return tpl, nil
}

func (r *Renderer) execute(name string, ctx pongo2.Context, w io.Writer) error {
	tpl, err := r.template(name)
	if err != nil {
		return err
	}
	if err := tpl.ExecuteWriter(ctx, w); err != nil {
		return fmt.Errorf("view: execute %q: %w", name, err)
	}
	return nil
}

// Page writes the full page.
func (r *Renderer) Page(w io.Writer, d PageData) error {
	hints := d.Hints
	if hints == nil {
		hints = map[string]types.Hint{}
	}
	for _, f := range []string{form.FieldConsumption, form.FieldEfficiency} {
		if _, ok := hints[f]; !ok {
			hints[f] = types.Hint{Field: f, State: types.HintNeutral, Text: form.HelpText(f)}
		}
	}
	trigger := d.Trigger
	if trigger.Label == "" {
		trigger = controller.TriggerState{Enabled: true, Label: controller.DefaultLabel}
	}
	busy := d.BusyLabel
	if busy == "" {
		busy = controller.DefaultBusyLabel
	}

	var panel, scrollTo string
	if d.Panel != nil {
		frag, err := r.PanelHTML(*d.Panel)
		if err != nil {
			return err
		}
		panel = frag
		scrollTo = d.Panel.ScrollTo
	}
	return r.execute("page.html", pongo2.Context{
		"locale":     r.locale,
		"form":       d.Form,
		"fuel_types": d.FuelTypes,
		"hints":      hints,
		"trigger":    trigger,
		"busy_label": busy,
		"panel":      panel,
		"scroll_to":  scrollTo,
	}, w)
}

// PanelHTML renders a success or error panel fragment. Strings that came
// from the prediction endpoint are sanitised.
func (r *Renderer) PanelHTML(p controller.Panel) (string, error) {
	var b strings.Builder
	if p.OK() && p.Result != nil {
		tier := ""
		if p.Tier != nil {
			tier = p.Tier.Name
		}
		err := r.execute("panel_success.html", pongo2.Context{
			"emission":       r.FormatNumber(p.Result.Prediction),
			"consumption":    r.FormatNumber(p.Result.InputData.FuelConsumption),
			"efficiency":     r.FormatNumber(p.Result.InputData.FuelEfficiency),
			"fuel_type_name": r.policy.Sanitize(p.Result.FuelTypeName),
			"tier":           tier,
			"message":        r.advisory(p),
		}, &b)
		return b.String(), err
	}
	err := r.execute("panel_error.html", pongo2.Context{
		"kind":    string(p.Kind),
		"message": r.policy.Sanitize(p.Message),
	}, &b)
	return b.String(), err
}

// PanelText renders a panel for a terminal.
func (r *Renderer) PanelText(p controller.Panel) string {
	var b strings.Builder
	if p.OK() && p.Result != nil {
		fmt.Fprintf(&b, "Prediction Complete\n\n")
		fmt.Fprintf(&b, "  %s g/km\n\n", r.FormatNumber(p.Result.Prediction))
		fmt.Fprintf(&b, "Input Summary\n")
		fmt.Fprintf(&b, "  Fuel Consumption: %s L/100km\n", r.FormatNumber(p.Result.InputData.FuelConsumption))
		fmt.Fprintf(&b, "  Fuel Efficiency:  %s mpg\n", r.FormatNumber(p.Result.InputData.FuelEfficiency))
		fmt.Fprintf(&b, "  Fuel Type:        %s\n\n", r.plain(p.Result.FuelTypeName))
		fmt.Fprintf(&b, "Environmental Impact\n  %s\n", r.advisory(p))
		return b.String()
	}
	fmt.Fprintf(&b, "Error: %s\n", r.plain(p.Message))
	return b.String()
}

// advisory renders the tier message with the same number formatting as the
// emission value shown next to it.
func (r *Renderer) advisory(p controller.Panel) string {
	if p.Tier == nil || p.Result == nil {
		return p.Message
	}
	return p.Tier.Advisory(r.FormatNumber(p.Result.Prediction))
}

// FormatNumber formats v for the renderer's locale with at most two
// fraction digits.
func (r *Renderer) FormatNumber(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "-"
	}
	return r.printer.Sprint(number.Decimal(v, number.MaxFractionDigits(2)))
}

// plain strips markup for terminal output.
func (r *Renderer) plain(s string) string {
	return html.UnescapeString(r.policy.Sanitize(s))
}
