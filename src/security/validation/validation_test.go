package validation

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateClientContentType(t *testing.T) {
	for _, ct := range []string{"", "text/csv", "TEXT/CSV", "text/plain; charset=utf-8", "application/vnd.ms-excel"} {
		assert.NoError(t, ValidateClientContentType(ct), ct)
	}
	for _, ct := range []string{"image/png", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"} {
		assert.ErrorIs(t, ValidateClientContentType(ct), ErrValidationFailed, ct)
	}
}

func TestValidateFilename(t *testing.T) {
	assert.NoError(t, ValidateFilename("allsportsbets(2025).csv"))
	assert.NoError(t, ValidateFilename("EXPORT.CSV"))
	assert.ErrorIs(t, ValidateFilename("bets.xlsx"), ErrValidationFailed)
	assert.ErrorIs(t, ValidateFilename("bets"), ErrValidationFailed)
}

func TestValidateUploadSize(t *testing.T) {
	assert.NoError(t, ValidateUploadSize(1024, 1024))
	err := ValidateUploadSize(11<<20, 10<<20)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidationFailed)
	assert.Contains(t, err.Error(), "11 MiB")
	assert.Contains(t, err.Error(), "10 MiB")
}

func TestValidateFileContentByMagicBytes(t *testing.T) {
	csv := bytes.NewReader([]byte("All Sports Bets;;\nDate;Bet\n01/01/2025;x\n"))
	detected, err := ValidateFileContentByMagicBytes(csv)
	require.NoError(t, err)
	assert.Equal(t, "text/plain", detected)

	rest, err := io.ReadAll(csv)
	require.NoError(t, err)
	assert.Equal(t, "All Sports Bets;;\nDate;Bet\n01/01/2025;x\n", string(rest), "reader is rewound")

	png := bytes.NewReader([]byte("\x89PNG\r\n\x1a\n0000000000000"))
	detected, err = ValidateFileContentByMagicBytes(png)
	assert.ErrorIs(t, err, ErrValidationFailed)
	assert.Equal(t, "image/png", detected)

	_, err = ValidateFileContentByMagicBytes(bytes.NewReader(nil))
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestSanitizeCell(t *testing.T) {
	tests := map[string]string{
		"Lakers ML":         "Lakers ML",
		"=HYPERLINK(\"x\")": "'=HYPERLINK(\"x\")",
		"+1.5 Spread":       "'+1.5 Spread",
		" @user":            "' @user",
		"Over\x00 2.5":      "Over 2.5",
		"":                  "",
	}
	for in, want := range tests {
		assert.Equal(t, want, SanitizeCell(in), in)
	}
}
