package valueobjects

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPosition(t *testing.T) {
	tests := []struct {
		name    string
		x, y    float64
		wantErr bool
	}{
		{name: "origin", x: 0, y: 0},
		{name: "canvas center", x: 400, y: 300},
		{name: "negative", x: -10.5, y: -20.25},
		{name: "NaN x", x: math.NaN(), y: 0, wantErr: true},
		{name: "NaN y", x: 0, y: math.NaN(), wantErr: true},
		{name: "infinite x", x: math.Inf(1), y: 0, wantErr: true},
		{name: "negative infinite y", x: 0, y: math.Inf(-1), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos, err := NewPosition(tt.x, tt.y)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "invalid coordinates")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.x, pos.X())
			assert.Equal(t, tt.y, pos.Y())
		})
	}
}

func TestPolarPosition(t *testing.T) {
	tests := []struct {
		name  string
		theta float64
		wantX float64
		wantY float64
	}{
		{"zero", 0, 600, 300},
		{"quarter", math.Pi / 2, 400, 500},
		{"half", math.Pi, 200, 300},
		{"three quarters", 3 * math.Pi / 2, 400, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos, err := PolarPosition(400, 300, 200, tt.theta)
			require.NoError(t, err)
			assert.InDelta(t, tt.wantX, pos.X(), 1e-9)
			assert.InDelta(t, tt.wantY, pos.Y(), 1e-9)
		})
	}

	_, err := PolarPosition(math.NaN(), 300, 200, 0)
	assert.Error(t, err)
}

func TestPosition_DistanceAndEquals(t *testing.T) {
	a, _ := NewPosition(0, 0)
	b, _ := NewPosition(3, 4)
	assert.Equal(t, 5.0, a.DistanceTo(b))
	assert.True(t, a.Equals(Position{}))
	assert.False(t, a.Equals(b))
}

func TestPosition_JSON(t *testing.T) {
	pos, _ := NewPosition(600, 300)
	data, err := json.Marshal(pos)
	require.NoError(t, err)
	assert.JSONEq(t, `{"x":600,"y":300}`, string(data))

	var decoded Position
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, decoded.Equals(pos))
}
