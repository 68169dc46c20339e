package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	require.NoError(t, Register())
	require.NoError(t, Register())
}

func TestPrinterTranslatesKeys(t *testing.T) {
	p := Printer("en-US")
	assert.Equal(t, "Skills advanced: 3", p.Sprintf("summary.skills_advanced", 3))
	assert.Equal(t, "No skills advanced this session.", p.Sprintf("summary.none_advanced"))
}

func TestPrinterFallsBackToBase(t *testing.T) {
	p := Printer("fr-FR")
	assert.Equal(t, "Marks used: 2", p.Sprintf("summary.marks_used", 2))
}

func TestHeroicPlural(t *testing.T) {
	p := Printer(BaseLocale)
	assert.Equal(t, "Gained 1 heroic ability", p.Sprintf(KeyHeroic, 1))
	assert.Equal(t, "Gained 2 heroic abilities", p.Sprintf(KeyHeroic, 2))
}
