package domain

import (
	"encoding/json"
	"testing"
)

func TestParseClockTime(t *testing.T) {
	tests := []struct {
		in      string
		want    ClockTime
		wantErr bool
	}{
		{in: "13:20", want: ClockTime{Hour: 13, Minute: 20}},
		{in: "00:00", want: ClockTime{}},
		{in: "23:59", want: ClockTime{Hour: 23, Minute: 59}},
		{in: "13:20:10", wantErr: true},
		{in: "25:00", wantErr: true},
		{in: "1320", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tc := range tests {
		got, err := ParseClockTime(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("ParseClockTime(%q): expected error, got %v", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseClockTime(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseClockTime(%q)=%v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestClockTimeJSON(t *testing.T) {
	var parsed ClockTime
	if err := json.Unmarshal([]byte(`"09:05"`), &parsed); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	out, err := json.Marshal(parsed)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `"09:05"` {
		t.Fatalf("marshalled %s, want \"09:05\"", out)
	}

	if err := json.Unmarshal([]byte(`"09:05:30"`), &parsed); err == nil {
		t.Fatalf("expected rejection of a value carrying seconds")
	}
	if err := json.Unmarshal([]byte(`905`), &parsed); err == nil {
		t.Fatalf("expected rejection of a non-string value")
	}
}

func TestFlexBoolTokens(t *testing.T) {
	tests := []struct {
		in      string
		want    bool
		wantErr bool
	}{
		{in: `true`, want: true},
		{in: `false`, want: false},
		{in: `"1"`, want: true},
		{in: `"0"`, want: false},
		{in: `"t"`, want: true},
		{in: `"f"`, want: false},
		{in: `"TRUE"`, want: true},
		{in: `"False"`, want: false},
		{in: `"dd"`, wantErr: true},
		{in: `"yes"`, wantErr: true},
		{in: `1`, wantErr: true},
		{in: `null`, wantErr: true},
	}

	for _, tc := range tests {
		var b FlexBool
		err := b.UnmarshalJSON([]byte(tc.in))
		if tc.wantErr {
			if err == nil {
				t.Fatalf("FlexBool(%s): expected error, got %v", tc.in, b)
			}
			continue
		}
		if err != nil {
			t.Fatalf("FlexBool(%s): %v", tc.in, err)
		}
		if b.Bool() != tc.want {
			t.Fatalf("FlexBool(%s)=%v, want %v", tc.in, b.Bool(), tc.want)
		}
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2021-01-15")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if d.String() != "2021-01-15" {
		t.Fatalf("Date.String()=%q, want 2021-01-15", d.String())
	}

	if _, err := ParseDate("2021/01/15"); err == nil {
		t.Fatalf("expected rejection of slash-separated date")
	}
	if _, err := ParseDate("15-01-2021"); err == nil {
		t.Fatalf("expected rejection of day-first date")
	}
}
