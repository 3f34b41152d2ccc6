package format

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPluralize_RegularForms(t *testing.T) {
	assert.Equal(t, "s", Pluralize(0, "", "s"))
	assert.Equal(t, "", Pluralize(1, "", "s"))
	assert.Equal(t, "s", Pluralize(5, "", "s"))
}

func TestPluralize_IrregularForms(t *testing.T) {
	assert.Equal(t, "ies", Pluralize(0, "y", "ies"))
	assert.Equal(t, "y", Pluralize(1, "y", "ies"))
	assert.Equal(t, "ies", Pluralize(3, "y", "ies"))
}

func TestPluralSuffix(t *testing.T) {
	assert.Equal(t, "s", PluralSuffix(0))
	assert.Equal(t, "", PluralSuffix(1))
	assert.Equal(t, "s", PluralSuffix(5))
}

func TestFileSize(t *testing.T) {
	tests := []struct {
		bytes uint64
		want  string
	}{
		{0, "0 B"},
		{1, "1 B"},
		{512, "512 B"},
		{1023, "1023 B"},
		{1024, "1 KB"},
		{1536, "1.5 KB"},
		{1048576, "1 MB"},
		{5242880, "5 MB"},
		{1073741824, "1 GB"},
		{2147483648, "2 GB"},
		{1099511627776, "1 TB"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FileSize(tt.bytes), "FileSize(%d)", tt.bytes)
	}
}

func TestFileSize_PromotesAtUnitBoundary(t *testing.T) {
	// Values just under a unit boundary must not render as "1024 <unit>".
	tests := []struct {
		bytes uint64
		want  string
	}{
		{1048575, "1 MB"},
		{1073741823, "1 GB"},
		{1099511627775, "1 TB"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FileSize(tt.bytes), "FileSize(%d)", tt.bytes)
	}
}

func TestFileSize_FractionalPrecision(t *testing.T) {
	// One decimal place, not more.
	assert.Equal(t, "1.2 KB", FileSize(1229))
	assert.Equal(t, "1.6 GB", FileSize(1717986918))
}

func TestDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0s"},
		{-5 * time.Second, "0s"},
		{42 * time.Second, "42s"},
		{5 * time.Minute, "5m 0s"},
		{90 * time.Second, "1m 30s"},
		{3 * time.Hour, "3h 0m 0s"},
		{74*time.Hour + 17*time.Minute + 5*time.Second, "3d 2h 17m 5s"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Duration(tt.d), "Duration(%s)", tt.d)
	}
}
