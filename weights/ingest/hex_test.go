package ingest

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseHex(t *testing.T) {
	tests := []struct {
		in      string
		want    HexBytes
		wantErr bool
	}{
		{in: "0x01ff", want: HexBytes{0x01, 0xff}},
		{in: "01ff", want: HexBytes{0x01, 0xff}},
		{in: "0X01", want: HexBytes{0x01}},
		{in: "0x1", wantErr: true},
		{in: "zz", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseHex(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHexBytes_JSONAndYAML(t *testing.T) {
	h := HexBytes{0xde, 0xad}
	assert.Equal(t, "0xdead", h.String())

	js, err := json.Marshal(h)
	require.NoError(t, err)
	assert.Equal(t, `"0xdead"`, string(js))

	var fromYAML struct {
		Prefix HexBytes `yaml:"prefix"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("prefix: \"0xdead\"\n"), &fromYAML))
	assert.Equal(t, h, fromYAML.Prefix)

	err = yaml.Unmarshal([]byte("prefix: \"0xq\"\n"), &fromYAML)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 1")
}
