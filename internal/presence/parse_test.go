package presence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want Record
	}{
		{
			name: "four sub-fields with level",
			line: "skull: d_redskull : job : vocation : Name, 312",
			want: Record{
				Tier:     Red,
				Tag:      Some("d_redskull"),
				Vocation: Some("vocation"),
				Name:     "Name",
				Level:    Some("312"),
			},
		},
		{
			name: "emoji shaped line",
			line: ":d_blackskull: :knight: Bubble Gum, 420",
			want: Record{
				Tier:     Black,
				Tag:      Some("d_blackskull"),
				Vocation: Some("knight"),
				Name:     "Bubble Gum",
				Level:    Some("420"),
			},
		},
		{
			name: "no vocation and no level",
			line: ":d_greenskull: Lonely",
			want: Record{
				Tier: Green,
				Tag:  Some("d_greenskull"),
				Name: "Lonely",
			},
		},
		{
			name: "bare name",
			line: "  Someone  ",
			want: Record{Name: "Someone"},
		},
		{
			name: "blank level stays absent",
			line: ":d_whiteskull: :druid: Leaf,   ",
			want: Record{
				Tier:     White,
				Tag:      Some("d_whiteskull"),
				Vocation: Some("druid"),
				Name:     "Leaf",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseLine(tt.line)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseLine_NoName(t *testing.T) {
	for _, line := range []string{"", "   ", ":d_redskull:", ":d_redskull: :knight: , 100"} {
		_, ok := ParseLine(line)
		assert.False(t, ok, "line %q", line)
	}
}

func TestHasTierMarker(t *testing.T) {
	assert.True(t, HasTierMarker(":d_redskull: :knight: Bob, 100"))
	assert.True(t, HasTierMarker("x :d_greenskull: y"))
	assert.False(t, HasTierMarker(":skull: :knight: Bob, 100"))
	assert.False(t, HasTierMarker("d_redskull Bob"))
}

func TestTierFromTag(t *testing.T) {
	assert.Equal(t, Black, TierFromTag("dblackskull"))
	assert.Equal(t, Red, TierFromTag("D_REDSKULL"))
	assert.Equal(t, White, TierFromTag("d_whiteskull"))
	assert.Equal(t, Green, TierFromTag("d_greenskull"))
	assert.Equal(t, Unknown, TierFromTag("skull"))
}

func TestStatusLines(t *testing.T) {
	msg := "**Online** players (3)\n" +
		"____________\n" +
		":d_redskull: :knight: Bob, 100\n" +
		":d_greenskull: :paladin: Ann, 200\n" +
		"updated 12:00"
	assert.Equal(t, []string{
		":d_redskull: :knight: Bob, 100",
		":d_greenskull: :paladin: Ann, 200",
	}, StatusLines(msg))

	t.Run("no separator", func(t *testing.T) {
		assert.Nil(t, StatusLines("Online\n:d_redskull: Bob, 1\nfooter"))
	})
	t.Run("separator is last line", func(t *testing.T) {
		assert.Nil(t, StatusLines("Online\n____"))
	})
	t.Run("only trailer after separator", func(t *testing.T) {
		assert.Nil(t, StatusLines("Online\n____\nfooter"))
	})
}
