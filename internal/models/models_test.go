package models

import "testing"

func TestLastName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Josh Allen", "Allen"},
		{"Marvin Harrison Jr.", "Harrison"},
		{"Kenneth Walker III", "Walker"},
		{"Patrick Mahomes II", "Mahomes"},
		{"Bills", "Bills"},
		{"Jr.", "Jr."},
		{"A Jr.", "Jr."},
		{"", ""},
	}
	for _, tt := range tests {
		if got := LastName(tt.in); got != tt.want {
			t.Errorf("LastName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValue(t *testing.T) {
	p := PlayerRecord{Salary: 8200, BoomPct: 21.5, Leverage: -3.2}
	tests := []struct {
		field Field
		want  float64
	}{
		{FieldSalary, 8200},
		{FieldBoom, 21.5},
		{FieldLeverage, -3.2},
		{FieldCeiling, 0},
		{Field("unknown"), 0},
	}
	for _, tt := range tests {
		if got := p.Value(tt.field); got != tt.want {
			t.Errorf("Value(%q) = %v, want %v", tt.field, got, tt.want)
		}
	}
}

func TestFieldLabels(t *testing.T) {
	for _, f := range NumericFields {
		if !f.Valid() {
			t.Errorf("%q not valid", f)
		}
		if f.Label() == string(f) {
			t.Errorf("%q has no label", f)
		}
	}
	if Field("nope").Valid() {
		t.Error(`Field("nope").Valid() = true`)
	}
}

func TestTeams(t *testing.T) {
	if got := NormalizeTeam(" wsh "); got != "WAS" {
		t.Errorf("NormalizeTeam(wsh) = %q, want WAS", got)
	}
	if got := TeamColor("buf"); got != "#00338D" {
		t.Errorf("TeamColor(buf) = %q", got)
	}
	if got := TeamColor("XYZ"); got != defaultTeamColor {
		t.Errorf("TeamColor(XYZ) = %q, want default", got)
	}
	if !KnownTeam("KC") || KnownTeam("FA") {
		t.Error("KnownTeam mismatch")
	}
	if got := TeamLogoURL("kc"); got != "https://a.espncdn.com/i/teamlogos/nfl/500/KC.png" {
		t.Errorf("TeamLogoURL(kc) = %q", got)
	}
	if n := len(TeamColors()); n != 32 {
		t.Errorf("len(TeamColors()) = %d, want 32", n)
	}
}
