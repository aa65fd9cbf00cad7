package descriptor

import (
	"testing"

	"skinpricer/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	raws := []domain.RawItem{
		{Wear: "FT", Quality: "Classified", Class: "item weapon", EncodedName: "AK-47%20%7C%20Redline"},
		{Wear: "", Quality: "Covert", Class: "item", EncodedName: "%20%20"},
		{Wear: "Factory New", Quality: "Covert", Class: "item knife-karambit StatTrak", EncodedName: "Karambit+%7C+Fade"},
		{Wear: "", Quality: "Master Agent", Class: "item agent", EncodedName: "Ground%20Rebel%20%7C%20Elite%20Crew"},
		{Wear: "mw", Quality: "Extraordinary", Class: "item gloves", EncodedName: "Sport%20Gloves%20%7C%20Vice"},
		{Wear: "", Quality: "", Class: "", EncodedName: "%zz"},
		{Wear: "Minimal Wear", Quality: "Restricted", Class: "item souvenir", EncodedName: "M4A1-S%20%7C%20Knight"},
	}

	got := Build(raws)
	require.Len(t, got, 5)

	for i, d := range got {
		assert.Equal(t, i, d.Ordinal, "ordinals must be dense")
	}

	assert.Equal(t, "AK-47 | Redline", got[0].Name)
	assert.Equal(t, "Field-Tested", got[0].Wear)
	assert.False(t, got[0].IsKnife || got[0].IsGloves || got[0].IsAgent)

	assert.Equal(t, "Karambit | Fade", got[1].Name)
	assert.True(t, got[1].IsKnife)
	assert.True(t, got[1].IsStatTrak())

	assert.True(t, got[2].IsAgent)
	assert.Equal(t, "Ground Rebel | Elite Crew", got[2].Name)

	assert.True(t, got[3].IsGloves)
	assert.Equal(t, "Minimal Wear", got[3].Wear)

	assert.True(t, got[4].IsSouvenir())
	assert.False(t, got[4].IsStatTrak())
}

func TestBuildEmpty(t *testing.T) {
	assert.Empty(t, Build(nil))
}

func TestNormalizeWear(t *testing.T) {
	cases := map[string]string{
		"FN":             "Factory New",
		" bs ":           "Battle-Scarred",
		"vanilla":        domain.WearVanilla,
		"":               "",
		"Field-Tested":   "Field-Tested",
		"Minimal   Wear": "Minimal Wear",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeWear(in), in)
	}
}

func TestIsAgentQuality(t *testing.T) {
	assert.True(t, IsAgentQuality("Superior Agent"))
	assert.True(t, IsAgentQuality(" distinguished  agent"))
	assert.False(t, IsAgentQuality("Covert"))
}
