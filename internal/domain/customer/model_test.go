package customer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"kitchenledger/internal/core/apperror"
)

func TestCustomer_NormalizeAndValidate(t *testing.T) {
	tests := []struct {
		name    string
		in      Customer
		wantErr bool
	}{
		{name: "valid", in: Customer{Name: " Ana ", Email: " Ana@Example.COM "}},
		{name: "missing name", in: Customer{Email: "a@b.c"}, wantErr: true},
		{name: "missing email", in: Customer{Name: "Ana"}, wantErr: true},
		{name: "bad email", in: Customer{Name: "Ana", Email: "not-an-email"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := tt.in
			c.Normalize()
			err := c.Validate()
			if tt.wantErr {
				assert.True(t, apperror.HasCode(err, apperror.CodeInvalidInput))
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, "Ana", c.Name)
			assert.Equal(t, "ana@example.com", c.Email)
		})
	}
}
