package sensor

import (
	"testing"

	"github.com/stretchr/testify/require"

	"prawn-diagnosis/internal/domain/entity"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		line    string
		want    entity.SensorReading
		wantErr bool
	}{
		{line: "8.1,1200,28.5", want: entity.SensorReading{PH: 8.1, TDS: 1200, Temperature: 28.5}},
		{line: " 7.0 , 950.5 , 27 \r", want: entity.SensorReading{PH: 7, TDS: 950.5, Temperature: 27}},
		{line: "8.1,1200", wantErr: true},
		{line: "8.1,1200,28.5,1", wantErr: true},
		{line: "abc,1200,28.5", wantErr: true},
		{line: "8.1,,28.5", wantErr: true},
		{line: "NaN,1200,28.5", wantErr: true},
		{line: "", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseLine(tt.line)
		if tt.wantErr {
			require.Error(t, err, "line %q", tt.line)
			continue
		}
		require.NoError(t, err, "line %q", tt.line)
		require.Equal(t, tt.want, got)
	}
}
