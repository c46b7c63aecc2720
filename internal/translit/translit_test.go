package translit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripColors(t *testing.T) {
	assert.Equal(t, "Hello", StripColors("&aHello"))
	assert.Equal(t, "Hello", StripColors("§cHello"))
}

func TestStripPageSuffix(t *testing.T) {
	assert.Equal(t, "Items", StripPageSuffix("Items (2 of 5)"))
}

func TestRescueMojibake_FixesMisdecoded(t *testing.T) {
	// "Привет" encoded cp1251 then misdecoded as Latin-1.
	mis := "Ïðèâåò"
	assert.Equal(t, "Привет", RescueMojibake(mis))
}

func TestRescueMojibake_LeavesNativeCyrillicAlone(t *testing.T) {
	native := "Привет"
	assert.Equal(t, native, RescueMojibake(native))
}

func TestRescueMojibake_LeavesPlainAsciiAlone(t *testing.T) {
	assert.Equal(t, "hello", RescueMojibake("hello"))
}

func TestTranslit_CyrillicToAscii(t *testing.T) {
	assert.Equal(t, "privet", Translit("привет"))
}

func TestSnake_CollapsesAndTrims(t *testing.T) {
	assert.Equal(t, "give_item", Snake("  Give   Item!! "))
	assert.Equal(t, "unnamed", Snake("***"))
	assert.Equal(t, "a_1item", Snake("1item"))
}

func TestRusIdent_KeepsCyrillicCollapsesRest(t *testing.T) {
	assert.Equal(t, "дать_предмет", RusIdent("дать!!предмет"))
}

func TestEnglishishAlias_SubstitutesKnownTokens(t *testing.T) {
	assert.Equal(t, "give_item", EnglishishAlias("выдать предмет"))
}

func TestPreferredAlias_PrefersCyrillic(t *testing.T) {
	got := PreferredAlias([]string{"give_item", "дать_предмет"})
	assert.Equal(t, "дать_предмет", got)
}

func TestPreferredAlias_FallsBackToSnakeASCII(t *testing.T) {
	got := PreferredAlias([]string{"Give Item", "give_item"})
	assert.Equal(t, "give_item", got)
}

func TestPreferredAlias_ShortestThenLexWhenNoSnake(t *testing.T) {
	got := PreferredAlias([]string{"Zeta Thing", "Give Item"})
	assert.Equal(t, "Give Item", got)
}

func TestPreferredAlias_EmptyInput(t *testing.T) {
	assert.Equal(t, "", PreferredAlias(nil))
}
