package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "integer", input: "100", want: "100"},
		{name: "decimal", input: "12.50", want: "12.5"},
		{name: "zero", input: "0", want: "0"},
		{name: "negative", input: "-5", wantErr: true},
		{name: "garbage", input: "ten pounds", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewMoney(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, m.String())
		})
	}
}

func TestMoneyArithmeticIsExact(t *testing.T) {
	// 0.1 + 0.2 is the classic binary float trap
	sum := MustMoney("0.1").Add(MustMoney("0.2"))
	assert.True(t, sum.Equal(MustMoney("0.3")), "got %s", sum)

	diff := MustMoney("110").Sub(MustMoney("100"))
	assert.True(t, diff.Equal(MustMoney("10")))
}

func TestMoneyOrdering(t *testing.T) {
	assert.True(t, MustMoney("100").LessEqual(MustMoney("100")))
	assert.True(t, MustMoney("99.99").LessEqual(MustMoney("100")))
	assert.False(t, MustMoney("100.01").LessEqual(MustMoney("100")))
	assert.True(t, MustMoney("501").GreaterThan(MustMoney("500")))
	assert.False(t, MustMoney("500").GreaterThan(MustMoney("500")))
	assert.Equal(t, 0, MustMoney("5.0").Cmp(MustMoney("5")))
}

func TestMoneyZeroValue(t *testing.T) {
	var zero Money
	assert.True(t, zero.IsZero())
	assert.True(t, zero.Equal(MustMoney("0")))
	assert.True(t, zero.LessEqual(MustMoney("500")))
}

func TestMoneyJSON(t *testing.T) {
	data, err := json.Marshal(MustMoney("42.75"))
	require.NoError(t, err)
	assert.Equal(t, `"42.75"`, string(data))

	var m Money
	require.NoError(t, json.Unmarshal([]byte(`"19.99"`), &m))
	assert.True(t, m.Equal(MustMoney("19.99")))

	assert.Error(t, json.Unmarshal([]byte(`"-3"`), &m))
}
