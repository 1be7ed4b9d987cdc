package form

import (
	"net/url"
	"testing"

	"co2form/pkg/types"
)

func TestCheckField(t *testing.T) {
	v := NewValidator(DefaultBounds())
	cases := []struct {
		field, raw string
		want       types.HintState
	}{
		{FieldConsumption, "8.5", types.HintNeutral},
		{FieldConsumption, "50", types.HintNeutral},
		{FieldConsumption, "50.1", types.HintOutOfRange},
		{FieldConsumption, "-2", types.HintOutOfRange},
		{FieldConsumption, "0", types.HintNeutral},
		{FieldConsumption, "", types.HintNeutral},
		{FieldConsumption, "abc", types.HintNeutral},
		{FieldEfficiency, "151", types.HintOutOfRange},
		{FieldEfficiency, "40", types.HintNeutral},
		{FieldFuelType, "999", types.HintNeutral},
	}
	for _, c := range cases {
		got := v.CheckField(c.field, c.raw)
		if got.State != c.want {
			t.Fatalf("CheckField(%s, %q) state=%s, want %s", c.field, c.raw, got.State, c.want)
		}
	}
}

func TestCheckField_Texts(t *testing.T) {
	v := NewValidator(DefaultBounds())
	if h := v.CheckField(FieldEfficiency, "200"); h.Text != "Fuel efficiency should be between 0 and 150 mpg" {
		t.Fatalf("out of range text=%q", h.Text)
	}
	if h := v.CheckField(FieldEfficiency, "20"); h.Text != HelpText(FieldEfficiency) {
		t.Fatalf("neutral text=%q", h.Text)
	}
}

func TestParse(t *testing.T) {
	vals := url.Values{}
	vals.Set(FieldConsumption, " 9.4 ")
	vals.Set(FieldEfficiency, "twenty")
	vals.Set(FieldFuelType, "D")
	got := Parse(vals)
	if got.FuelConsumption != 9.4 || got.FuelType != "D" {
		t.Fatalf("unexpected parse: %+v", got)
	}
	if got.FuelEfficiency == got.FuelEfficiency {
		t.Fatalf("expected NaN for unparseable efficiency, got %v", got.FuelEfficiency)
	}
}
