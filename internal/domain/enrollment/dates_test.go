package enrollment_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mari-machado/projeto-pre-matricula-jp-sub000/internal/domain/enrollment"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseDate_Formatos(t *testing.T) {
	cases := map[string]time.Time{
		"2015-02-10":           date(2015, time.February, 10),
		"2015/02/10":           date(2015, time.February, 10),
		"2015-02-10T13:45:00Z": date(2015, time.February, 10),
		"25/12/2020":           date(2020, time.December, 25),
		"12/25/2020":           date(2020, time.December, 25),
		" 31.01.2019 ":         date(2019, time.January, 31),
	}
	for in, want := range cases {
		got, ok := enrollment.ParseDate(in)
		require.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
}

// Quando dia e mês são ≤ 12 a leitura mês/dia é mantida.
func TestParseDate_AmbiguaAssumeMesDia(t *testing.T) {
	got, ok := enrollment.ParseDate("03/04/2020")
	require.True(t, ok)
	assert.Equal(t, date(2020, time.March, 4), got)
}

func TestParseDate_Invalidas(t *testing.T) {
	for _, in := range []string{"", "abc", "31/02/2020", "2020-13-01", "10/02/20", "1/2"} {
		_, ok := enrollment.ParseDate(in)
		assert.False(t, ok, in)
	}
}

func TestSameDate_IgnoraFormato(t *testing.T) {
	stored := date(2015, time.February, 10)
	assert.True(t, enrollment.SameDate(&stored, "2015-02-10"))
	assert.True(t, enrollment.SameDate(&stored, "10/02/2015"))
	assert.True(t, enrollment.SameDate(&stored, "02/10/2015"))
	assert.False(t, enrollment.SameDate(&stored, "11/02/2015"))
	assert.False(t, enrollment.SameDate(nil, "2015-02-10"))
}
