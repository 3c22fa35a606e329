package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap(t *testing.T) {
	assert.NoError(t, Wrap("repair", nil))

	err := Wrap("repair", context.DeadlineExceeded)
	assert.ErrorIs(t, err, ErrFailed)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.EqualError(t, err, "repair: context deadline exceeded")

	var se *Error
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "repair", se.Op)

	// already wrapped errors keep their operation
	assert.Same(t, err, Wrap("detect", err))
	assert.NotErrorIs(t, errors.New("plain"), ErrFailed)
}

func TestParseDetection(t *testing.T) {
	test := []struct {
		name string
		raw  string
		want string
		err  bool
	}{
		{"description", `{"description":"logo in corner","confidence":0.9}`, "logo in corner", false},
		{"padded", "  {\"description\":\"text\"}\n", "text", false},
		{"missing field", `{"location":"top"}`, "", false},
		{"wrong type", `{"description":3}`, "", false},
		{"not json", `watermark at bottom`, "", true},
		{"array", `["a"]`, "", true},
	}
	for _, tt := range test {
		t.Run(tt.name, func(t *testing.T) {
			d, err := ParseDetection(tt.raw)
			if tt.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Description)
			assert.Equal(t, tt.raw, d.Raw)
		})
	}
}
