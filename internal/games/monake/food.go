package monake

import (
	"fmt"

	"github.com/vovakirdan/monake/internal/core"
)

// FoodType is an immutable catalog entry.
// Duration is a lifetime in ticks and is only meaningful for super food.
type FoodType struct {
	Name       string
	ScoreValue int
	IsSuper    bool
	Duration   int
}

// Catalog lists the food types a session can place.
// Ordinary food is always present; super food spawns by chance.
type Catalog struct {
	Ordinary []FoodType
	Super    []FoodType
}

// DefaultCatalog returns the stock food set.
func DefaultCatalog() Catalog {
	return Catalog{
		Ordinary: []FoodType{
			{Name: "mon", ScoreValue: 1},
		},
		Super: []FoodType{
			{Name: "golden mon", ScoreValue: 5, IsSuper: true, Duration: 50},
		},
	}
}

// Validate checks catalog consistency.
func (c Catalog) Validate() error {
	if len(c.Ordinary) == 0 {
		return fmt.Errorf("%w: catalog needs at least one ordinary food", ErrInvalidSettings)
	}
	for _, ft := range c.Ordinary {
		if ft.IsSuper {
			return fmt.Errorf("%w: %q is listed as ordinary but marked super", ErrInvalidSettings, ft.Name)
		}
		if ft.ScoreValue < 0 {
			return fmt.Errorf("%w: %q has negative score value", ErrInvalidSettings, ft.Name)
		}
	}
	for _, ft := range c.Super {
		if !ft.IsSuper {
			return fmt.Errorf("%w: %q is listed as super but not marked super", ErrInvalidSettings, ft.Name)
		}
		if ft.Duration <= 0 {
			return fmt.Errorf("%w: super food %q needs a positive duration", ErrInvalidSettings, ft.Name)
		}
		if ft.ScoreValue < 0 {
			return fmt.Errorf("%w: %q has negative score value", ErrInvalidSettings, ft.Name)
		}
	}
	return nil
}

// MaxScoreValue returns the largest score any single item can award.
func (c Catalog) MaxScoreValue() int {
	best := 0
	for _, ft := range c.Ordinary {
		best = max(best, ft.ScoreValue)
	}
	for _, ft := range c.Super {
		best = max(best, ft.ScoreValue)
	}
	return best
}

func (c Catalog) pickOrdinary(rng core.Rand) FoodType {
	if len(c.Ordinary) == 1 {
		return c.Ordinary[0]
	}
	return c.Ordinary[rng.Intn(len(c.Ordinary))]
}

func (c Catalog) pickSuper(rng core.Rand) FoodType {
	if len(c.Super) == 1 {
		return c.Super[0]
	}
	return c.Super[rng.Intn(len(c.Super))]
}

// FoodInstance is the ordinary food currently on the board.
type FoodInstance struct {
	Position core.Position
	Type     FoodType
}

// SuperFoodInstance is a time-limited super food on the board.
type SuperFoodInstance struct {
	Position       core.Position
	Type           FoodType
	RemainingTicks int
}

// Ratio returns the remaining lifetime as a fraction of the full duration.
func (s SuperFoodInstance) Ratio() float64 {
	if s.Type.Duration <= 0 {
		return 0
	}
	return core.ClampF(float64(s.RemainingTicks)/float64(s.Type.Duration), 0, 1)
}
