package domain

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCustomer(t *testing.T) {
	tests := []struct {
		name    string
		args    [5]string
		wantErr bool
	}{
		{name: "valid", args: [5]string{"C-1", "Kim", "kim@example.com", "010-1234-5678", "Seoul"}},
		{name: "missing id", args: [5]string{" ", "Kim", "kim@example.com", "010", "Seoul"}, wantErr: true},
		{name: "missing name", args: [5]string{"C-1", "", "kim@example.com", "010", "Seoul"}, wantErr: true},
		{name: "email without at", args: [5]string{"C-1", "Kim", "kim.example.com", "010", "Seoul"}, wantErr: true},
		{name: "missing phone", args: [5]string{"C-1", "Kim", "kim@example.com", "", "Seoul"}, wantErr: true},
		{name: "missing address", args: [5]string{"C-1", "Kim", "kim@example.com", "010", ""}, wantErr: true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			c, err := NewCustomer(test.args[0], test.args[1], test.args[2], test.args[3], test.args[4])
			if test.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidCustomer))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Seoul", c.Address)
		})
	}
}
