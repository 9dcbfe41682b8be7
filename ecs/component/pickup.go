package component

type LootKind int

const (
	LootNone LootKind = iota
	LootCoin
	LootHat
	LootPotion
)

func (k LootKind) String() string {
	switch k {
	case LootCoin:
		return "coin"
	case LootHat:
		return "hat"
	case LootPotion:
		return "potion"
	}
	return "none"
}

// Loot is a dropped item. Drops never expire; they leave only on pickup.
type Loot struct {
	Kind      LootKind
	BaseY     float64
	SpawnTime float64
	Phase     float64
	Spin      float64
	Active    bool
}

var LootComponent = NewComponent[Loot]()
