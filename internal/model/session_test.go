package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMode_Toggle(t *testing.T) {
	assert.Equal(t, ModeGlobal, ModeLocal.Toggle())
	assert.Equal(t, ModeLocal, ModeGlobal.Toggle())
	// Toggling twice always lands back where it started.
	assert.Equal(t, ModeLocal, ModeLocal.Toggle().Toggle())
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		input   string
		want    Mode
		wantErr bool
	}{
		{input: "local", want: ModeLocal},
		{input: "global", want: ModeGlobal},
		{input: "Local", wantErr: true},
		{input: "hybrid", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseMode(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestDetectDocType(t *testing.T) {
	tests := []struct {
		filename string
		want     DocType
	}{
		{"notes.txt", DocTypeTxt},
		{"Report.PDF", DocTypePDF},
		{"slides.Docx", DocTypeDocx},
		{"archive.tar.gz", DocType("gz")},
		{"noextension", DocType("")},
		{"data.csv", DocType("csv")},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectDocType(tt.filename))
		})
	}
}

func TestDocType_Supported(t *testing.T) {
	assert.True(t, DocTypeTxt.Supported())
	assert.True(t, DocTypePDF.Supported())
	assert.True(t, DocTypeDocx.Supported())
	assert.False(t, DocType("csv").Supported())
	assert.False(t, DocType("").Supported())
}
