package observation

import (
	"github.com/mitchelldurbincs/genghis/internal/game/core"
	"gorgonia.org/tensor"
)

const (
	// Channel indices for the stacked tensor representation
	ChannelOwnArmies        = 0
	ChannelEnemyArmies      = 1
	ChannelOwnTerritory     = 2
	ChannelEnemyTerritory   = 3
	ChannelNeutralTerritory = 4
	ChannelCities           = 5
	ChannelMountains        = 6
	ChannelVisible          = 7
	ChannelFog              = 8
	ChannelGenerals         = 9
	NumChannels             = 10

	// Max army value for normalization
	MaxArmyValue = 1000.0
)

// Ownership classes reported by OwnershipTensor.
const (
	ClassNeutral  = 0
	ClassSelf     = 1
	ClassOpponent = 2
	ClassFog      = 3
)

// Observation is one player's view of the board at a turn. Slices are flat,
// row-major and W*H long. Observations are never authoritative state.
type Observation struct {
	Width    int
	Height   int
	Turn     int
	Player   int
	Priority bool // the observing player resolves first next turn

	Armies  []int
	Terrain []core.Terrain
	Owners  []int
	Visible []bool
}

// OwnedLand counts the visible cells owned by player.
func (o *Observation) OwnedLand(player int) int {
	n := 0
	for _, owner := range o.Owners {
		if owner == player {
			n++
		}
	}
	return n
}

// OwnedArmy sums the visible armies owned by player.
func (o *Observation) OwnedArmy(player int) int {
	total := 0
	for i, owner := range o.Owners {
		if owner == player {
			total += o.Armies[i]
		}
	}
	return total
}

// Class returns the ownership class of cell idx from the observer's side.
func (o *Observation) Class(idx int) int {
	switch owner := o.Owners[idx]; {
	case owner == OwnerFog:
		return ClassFog
	case owner == o.Player:
		return ClassSelf
	case owner >= 0:
		return ClassOpponent
	default:
		return ClassNeutral
	}
}

func (o *Observation) plane(fn func(i int) float32) *tensor.Dense {
	data := make([]float32, o.Width*o.Height)
	for i := range data {
		data[i] = fn(i)
	}
	return tensor.New(
		tensor.WithShape(o.Height, o.Width),
		tensor.Of(tensor.Float32),
		tensor.WithBacking(data),
	)
}

func boolf(b bool) float32 {
	if b {
		return 1
	}
	return 0
}

// ArmyTensor returns raw army counts as an [H,W] float32 tensor.
func (o *Observation) ArmyTensor() *tensor.Dense {
	return o.plane(func(i int) float32 { return float32(o.Armies[i]) })
}

// OwnershipTensor returns the ownership class of every cell as an [H,W]
// float32 tensor.
func (o *Observation) OwnershipTensor() *tensor.Dense {
	return o.plane(func(i int) float32 { return float32(o.Class(i)) })
}

// CityMask marks visible cities with 1
func (o *Observation) CityMask() *tensor.Dense {
	return o.plane(func(i int) float32 { return boolf(o.Terrain[i] == core.City) })
}

// GeneralMask marks visible generals with 1
func (o *Observation) GeneralMask() *tensor.Dense {
	return o.plane(func(i int) float32 { return boolf(o.Terrain[i] == core.General) })
}

// MountainMask includes obfuscated structures, exactly as the player sees them.
func (o *Observation) MountainMask() *tensor.Dense {
	return o.plane(func(i int) float32 { return boolf(o.Terrain[i] == core.Mountain) })
}

// FogMask marks cells outside the player's vision with 1
func (o *Observation) FogMask() *tensor.Dense {
	return o.plane(func(i int) float32 { return boolf(!o.Visible[i]) })
}

// Channels stacks the observation into a [NumChannels,H,W] float32 tensor
// with armies normalized by MaxArmyValue.
func (o *Observation) Channels() *tensor.Dense {
	size := o.Width * o.Height
	data := make([]float32, NumChannels*size)
	set := func(channel, i int, v float32) { data[channel*size+i] = v }

	for i := 0; i < size; i++ {
		if !o.Visible[i] {
			set(ChannelFog, i, 1)
			if o.Terrain[i] == core.Mountain {
				set(ChannelMountains, i, 1)
			}
			continue
		}
		set(ChannelVisible, i, 1)

		switch o.Terrain[i] {
		case core.Mountain:
			set(ChannelMountains, i, 1)
			continue
		case core.City:
			set(ChannelCities, i, 1)
		case core.General:
			set(ChannelGenerals, i, 1)
		}

		army := float32(o.Armies[i]) / MaxArmyValue
		if army > 1 {
			army = 1
		}
		switch o.Class(i) {
		case ClassSelf:
			set(ChannelOwnArmies, i, army)
			set(ChannelOwnTerritory, i, 1)
		case ClassOpponent:
			set(ChannelEnemyArmies, i, army)
			set(ChannelEnemyTerritory, i, 1)
		default:
			set(ChannelNeutralTerritory, i, 1)
		}
	}

	return tensor.New(
		tensor.WithShape(NumChannels, o.Height, o.Width),
		tensor.Of(tensor.Float32),
		tensor.WithBacking(data),
	)
}
