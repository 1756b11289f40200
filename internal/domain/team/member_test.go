package team

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSalaryFormula(t *testing.T) {
	want := map[Rarity][]int{
		Common:    {100, 110, 120, 130, 140},
		Rare:      {250, 275, 300, 325, 350},
		Epic:      {500, 550, 600, 650, 700},
		Legendary: {1000, 1100, 1200, 1300, 1400},
	}
	for _, r := range Rarities {
		prev := -1
		for level := 1; level <= 5; level++ {
			got := Salary(r, level)
			assert.Equal(t, want[r][level-1], got, "%s level %d", r, level)
			assert.Greater(t, got, prev, "%s salary must grow with level", r)
			prev = got
		}
	}
	assert.Equal(t, 475, Salary(Rare, 10))
}

func TestLevelForExperience(t *testing.T) {
	cases := map[int]int{
		0:     1,
		99:    1,
		100:   2,
		449:   3,
		450:   4,
		3199:  9,
		3200:  10,
		99999: 10,
	}
	for exp, want := range cases {
		assert.Equal(t, want, LevelForExperience(exp), "exp %d", exp)
	}
}

func TestExpTableNonDecreasing(t *testing.T) {
	for i := 1; i < len(ExpPerLevel); i++ {
		assert.GreaterOrEqual(t, ExpPerLevel[i], ExpPerLevel[i-1])
	}
}

func TestRollRarityBoundaries(t *testing.T) {
	assert.Equal(t, Legendary, RollRarity(0))
	assert.Equal(t, Legendary, RollRarity(0.049))
	assert.Equal(t, Epic, RollRarity(0.05))
	assert.Equal(t, Rare, RollRarity(0.2))
	assert.Equal(t, Common, RollRarity(0.5))
	assert.Equal(t, Common, RollRarity(0.999))
}

func TestFireRefund(t *testing.T) {
	m := Member{HiringCost: 1201}
	assert.Equal(t, 360, m.FireRefund())
}

func TestCloneDetachesTraits(t *testing.T) {
	m := Member{Traits: []TraitType{TraitTester}}
	c := m.Clone()
	c.Traits[0] = TraitFrugal
	assert.Equal(t, TraitTester, m.Traits[0])
}

func TestSpecialsStayWithinTraitCap(t *testing.T) {
	for _, s := range Specials {
		assert.LessOrEqual(t, len(s.Traits), MaxSpecialTraits, s.Name)
	}
}

func TestEveryTraitHasConfig(t *testing.T) {
	for _, tr := range TraitTypes {
		_, ok := TraitConfigFor(tr)
		assert.True(t, ok, tr)
	}
}
