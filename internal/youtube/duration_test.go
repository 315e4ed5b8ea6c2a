package youtube

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseISODuration(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"PT1H2M3S", time.Hour + 2*time.Minute + 3*time.Second},
		{"PT4M", 4 * time.Minute},
		{"PT59S", 59 * time.Second},
		{"PT10H", 10 * time.Hour},
		{"P1DT5M", 24*time.Hour + 5*time.Minute},
		{"P0D", 0},
		{"PT1.5S", 1500 * time.Millisecond},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseISODuration(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseISODuration_Invalid(t *testing.T) {
	for _, in := range []string{"", "P", "PT", "1H2M", "PT1X", "garbage"} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseISODuration(in)
			assert.Error(t, err)
		})
	}
}
