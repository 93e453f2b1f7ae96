package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategory(t *testing.T) {
	tests := []struct {
		input   string
		want    Category
		wantErr bool
	}{
		{"blog", CategoryBlog, false},
		{"Art", CategoryArt, false},
		{" READING ", CategoryReading, false},
		{"news", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseCategory(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCategory_JSON(t *testing.T) {
	var payload struct {
		Category Category `json:"category"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"category":"ART"}`), &payload))
	assert.Equal(t, CategoryArt, payload.Category)

	out, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"category":"art"}`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`{"category":"poetry"}`), &payload))
	assert.Error(t, json.Unmarshal([]byte(`{"category":3}`), &payload))
}

func TestCategory_ScanAndValue(t *testing.T) {
	var c Category
	require.NoError(t, c.Scan([]byte("reading")))
	assert.Equal(t, CategoryReading, c)

	assert.Error(t, c.Scan("poetry"))
	assert.Error(t, c.Scan(42))

	v, err := CategoryBlog.Value()
	require.NoError(t, err)
	assert.Equal(t, "blog", v)

	_, err = Category("poetry").Value()
	assert.Error(t, err)
}
