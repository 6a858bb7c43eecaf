package attendance

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarks_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		want    Marks
		wantErr bool
	}{
		{name: "null", data: `null`, want: nil},
		{name: "empty", data: `{}`, want: Marks{}},
		{
			name: "keeps key order",
			data: `{"z": {"present": true}, "a": {"justified": true, "observation": "x"}, "m": {}}`,
			want: Marks{
				{StudentID: "z", Mark: Mark{Present: true}},
				{StudentID: "a", Mark: Mark{Justified: true, Observation: "x"}},
				{StudentID: "m"},
			},
		},
		{
			name: "certificate",
			data: `{"a": {"certificate": {"url": "blob:1", "name": "at.pdf", "type": "application/pdf"}}}`,
			want: Marks{{StudentID: "a", Mark: Mark{Certificate: &Certificate{URL: "blob:1", Name: "at.pdf", Type: "application/pdf"}}}},
		},
		{
			name: "repeated key",
			data: `{"s1": {"present": true}, "s2": {}, "s1": {"justified": true}}`,
			want: Marks{
				{StudentID: "s1", Mark: Mark{Justified: true}},
				{StudentID: "s2"},
			},
		},
		{name: "array", data: `[]`, wantErr: true},
		{name: "bad mark", data: `{"a": 1}`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Marks
			err := json.Unmarshal([]byte(tt.data), &got)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMarks_MarshalJSON(t *testing.T) {
	marks := Marks{
		{StudentID: "z", Mark: Mark{Present: true}},
		{StudentID: "a"},
	}
	data, err := json.Marshal(marks)
	require.NoError(t, err)
	assert.Equal(t,
		`{"z":{"present":true,"justified":false,"observation":"","certificate":null},"a":{"present":false,"justified":false,"observation":"","certificate":null}}`,
		string(data))

	var back Marks
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, marks, back)

	data, err = json.Marshal(Submission{})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"attendanceData":null`)
}

func TestPresence_StatusLabel(t *testing.T) {
	assert.Equal(t, "Presente", Presence{Present: true}.StatusLabel())
	assert.Equal(t, "Presente", Presence{Present: true, Justified: true}.StatusLabel())
	assert.Equal(t, "Falta Justificada", Presence{Justified: true}.StatusLabel())
	assert.Equal(t, "Falta", Presence{}.StatusLabel())
}
