package version

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRangeIncludes(t *testing.T) {
	tests := []struct {
		rng  string
		v    string
		want bool
	}{
		{rng: "[1.0,2.0)", v: "1.0.0", want: true},
		{rng: "[1.0,2.0)", v: "1.9.9.z", want: true},
		{rng: "[1.0,2.0)", v: "2.0.0", want: false},
		{rng: "[1.0,2.0]", v: "2.0.0", want: true},
		{rng: "(1.0,2.0]", v: "1.0.0", want: false},
		{rng: "(1.0,2.0]", v: "1.0.0.a", want: true},
		{rng: "(1.0,2.0)", v: "1.5", want: true},
		{rng: "(1.0,2.0)", v: "0.9", want: false},
		{rng: "1.5", v: "1.4.9", want: false},
		{rng: "1.5", v: "1.5.0", want: true},
		{rng: "1.5", v: "99.0.0", want: true},
		{rng: "[1.2.3,1.2.3]", v: "1.2.3", want: true},
	}
	for _, tt := range tests {
		t.Run(tt.rng+" "+tt.v, func(t *testing.T) {
			r, err := ParseRange(tt.rng)
			require.NoError(t, err)
			assert.Equal(t, tt.want, r.Includes(MustParse(tt.v)))
		})
	}
}

func TestParseRangeRejects(t *testing.T) {
	for _, raw := range []string{"", "[1.0,2.0", "[1.0]", "[2.0,1.0]", "(1.0,1.0)", "[1.0,1.0)", "[a,b]", "[1,2,3]"} {
		t.Run(raw, func(t *testing.T) {
			_, err := ParseRange(raw)
			require.Error(t, err)
		})
	}
}

func TestRangeStringRoundTrip(t *testing.T) {
	for _, raw := range []string{"[1.0.0,2.0.0)", "(1.0.0,2.0.0]", "[1.0.0,1.0.0]", "1.5.0", "(0.0.0,1.0.0.beta)"} {
		r := MustParseRange(raw)
		if diff := cmp.Diff(raw, r.String()); diff != "" {
			t.Fatalf("unexpected range string (-want +got):\n%s", diff)
		}
		again := MustParseRange(r.String())
		assert.Equal(t, r.String(), again.String())
	}
}

func TestRangeToFilter(t *testing.T) {
	tests := []struct {
		rng  string
		want string
	}{
		{rng: "1.0", want: "(version>=1.0.0)"},
		{rng: "[1.0,2.0)", want: "(&(version>=1.0.0)(version<=2.0.0)(!(version=2.0.0)))"},
		{rng: "(1.0,2.0]", want: "(&(version>=1.0.0)(!(version=1.0.0))(version<=2.0.0))"},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, MustParseRange(tt.rng).ToFilter("version")); diff != "" {
			t.Fatalf("unexpected filter for %s (-want +got):\n%s", tt.rng, diff)
		}
	}
}

func TestCleanup(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{raw: "1", want: "1.0.0"},
		{raw: "1.2-SNAPSHOT", want: "1.2.0.SNAPSHOT"},
		{raw: "01.002", want: "1.2.0"},
		{raw: "1.2.3.4.5", want: "1.2.3.5"},
		{raw: "1.2.3_beta!", want: "1.2.3.beta"},
		{raw: "[1.0 , 2)", want: "[1.0.0,2.0.0)"},
		{raw: "[1.0.0,2.0.0)", want: "[1.0.0,2.0.0)"},
		{raw: "not-a-version", want: "not-a-version"},
		{raw: "1234567890", want: "1234567890"},
		{raw: "0001234", want: "1234.0.0"},
		{raw: "1.2.34567890123-beta", want: "1.2.34567890123-beta"},
		{raw: "[1234567890,2)", want: "[1234567890,2)"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got := Cleanup(tt.raw)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("unexpected cleanup (-want +got):\n%s", diff)
			}
			if got == tt.raw {
				return
			}
			if got[0] == '[' || got[0] == '(' {
				_, err := ParseRange(got)
				require.NoError(t, err)
				return
			}
			_, err := Parse(got)
			require.NoError(t, err)
		})
	}
}
