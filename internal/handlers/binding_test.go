package handlers

import (
	"bytes"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type bindTarget struct {
	Principal float64 `json:"principal"`
	Periods   int     `json:"periods_count"`
}

func TestBindNestedOrFlat(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name        string
		key         string
		body        string
		expected    bindTarget
		expectError bool
	}{
		{
			name:     "wrapped body",
			key:      "loan",
			body:     `{"loan": {"principal": 107000, "periods_count": 48}}`,
			expected: bindTarget{Principal: 107000, Periods: 48},
		},
		{
			name:     "flat body",
			key:      "loan",
			body:     `{"principal": 50000, "periods_count": 24}`,
			expected: bindTarget{Principal: 50000, Periods: 24},
		},
		{
			name:     "wrapper key absent falls back to flat",
			key:      "loan",
			body:     `{"other": true, "principal": 9000, "periods_count": 12}`,
			expected: bindTarget{Principal: 9000, Periods: 12},
		},
		{
			name:        "flat body with wrong types",
			key:         "loan",
			body:        `{"principal": "mucho", "periods_count": 12}`,
			expectError: true,
		},
		{
			name:        "wrapped body with wrong types",
			key:         "loan",
			body:        `{"loan": {"principal": 107000, "periods_count": "todos"}}`,
			expectError: true,
		},
		{
			name:        "wrapper key holds a scalar",
			key:         "loan",
			body:        `{"loan": "107000"}`,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest("POST", "/", bytes.NewBufferString(tt.body))
			c.Request.Header.Set("Content-Type", "application/json")

			var result bindTarget
			err := BindNestedOrFlat(c, tt.key, &result)

			if tt.expectError {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}
