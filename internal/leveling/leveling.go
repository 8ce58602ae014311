// Package leveling maps cumulative XP to a level and to the set of cosmetic
// rewards that level unlocks. Everything here is a pure function over the
// compiled-in tables below; nothing is cached, so edits to the tables
// reclassify users on their next evaluation without rewriting history.
package leveling

// Slot is a cosmetic equip slot.
type Slot string

const (
	SlotAvatar Slot = "avatar"
	SlotBorder Slot = "border"
	SlotBadge  Slot = "badgeDisplay"
)

// Cosmetic is one entry of the static reward catalog. Not user-writable.
type Cosmetic struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Slot    Slot   `json:"slot"`
	Level   int    `json:"level"` // unlock threshold
	Rarity  string `json:"rarity"`
	Preview string `json:"preview"`
}

// xpThresholds is the ascending table of cumulative XP required to pass each
// level. Level(xp) = 1 + number of thresholds <= xp, so level 1 costs nothing
// and the table length bounds the maximum level at len+1.
var xpThresholds = []int{
	100,   // level 2
	250,   // level 3
	500,   // level 4
	850,   // level 5
	1300,  // level 6
	1900,  // level 7
	2650,  // level 8
	3550,  // level 9
	4600,  // level 10
	5800,  // level 11
	7150,  // level 12
	8650,  // level 13
	10300, // level 14
	12100, // level 15
	14050, // level 16
	16150, // level 17
	18400, // level 18
	20800, // level 19
	23350, // level 20
}

// catalog is the static cosmetic reward table keyed by unlock level.
var catalog = []Cosmetic{
	{ID: "sprout", Name: "Sprout", Slot: SlotAvatar, Level: 2, Rarity: "common", Preview: "avatars/sprout.png"},
	{ID: "leaf-ring", Name: "Leaf Ring", Slot: SlotBorder, Level: 2, Rarity: "common", Preview: "borders/leaf-ring.png"},
	{ID: "sapling", Name: "Sapling", Slot: SlotAvatar, Level: 4, Rarity: "common", Preview: "avatars/sapling.png"},
	{ID: "tin-can", Name: "Tin Can", Slot: SlotAvatar, Level: 5, Rarity: "uncommon", Preview: "avatars/tin-can.png"},
	{ID: "recycled-frame", Name: "Recycled Frame", Slot: SlotBorder, Level: 6, Rarity: "uncommon", Preview: "borders/recycled-frame.png"},
	{ID: "compost-heap", Name: "Compost Heap", Slot: SlotAvatar, Level: 7, Rarity: "uncommon", Preview: "avatars/compost-heap.png"},
	{ID: "solar-halo", Name: "Solar Halo", Slot: SlotBorder, Level: 8, Rarity: "rare", Preview: "borders/solar-halo.png"},
	{ID: "evergreen", Name: "Evergreen", Slot: SlotAvatar, Level: 9, Rarity: "rare", Preview: "avatars/evergreen.png"},
	{ID: "phoenix", Name: "Phoenix", Slot: SlotAvatar, Level: 10, Rarity: "epic", Preview: "avatars/phoenix.png"},
	{ID: "aurora-band", Name: "Aurora Band", Slot: SlotBorder, Level: 12, Rarity: "epic", Preview: "borders/aurora-band.png"},
	{ID: "gaia", Name: "Gaia", Slot: SlotAvatar, Level: 15, Rarity: "legendary", Preview: "avatars/gaia.png"},
	{ID: "emerald-crown", Name: "Emerald Crown", Slot: SlotBorder, Level: 18, Rarity: "legendary", Preview: "borders/emerald-crown.png"},
	{ID: "terra-guardian", Name: "Terra Guardian", Slot: SlotAvatar, Level: 20, Rarity: "legendary", Preview: "avatars/terra-guardian.png"},
}

// Level returns the level for a cumulative XP total. Total for all xp >= 0;
// negative input is treated as zero. Monotonically non-decreasing in xp.
func Level(xp int) int {
	level := 1
	for _, t := range xpThresholds {
		if xp < t {
			break
		}
		level++
	}
	return level
}

// XPForLevel returns the cumulative XP needed to reach the given level, or 0
// for level <= 1. Levels beyond the table return the last threshold.
func XPForLevel(level int) int {
	if level <= 1 {
		return 0
	}
	idx := level - 2
	if idx >= len(xpThresholds) {
		idx = len(xpThresholds) - 1
	}
	return xpThresholds[idx]
}

// MaxLevel is the highest level the threshold table can produce.
func MaxLevel() int {
	return len(xpThresholds) + 1
}

// Unlocked returns the ids of every cosmetic whose unlock level is at or
// below the given level.
func Unlocked(level int) []string {
	ids := make([]string, 0, len(catalog))
	for _, c := range catalog {
		if c.Level <= level {
			ids = append(ids, c.ID)
		}
	}
	return ids
}

// UnlockedAt returns the cosmetics newly unlocked at exactly this level.
// Used to describe what a level-up just granted.
func UnlockedAt(level int) []Cosmetic {
	var out []Cosmetic
	for _, c := range catalog {
		if c.Level == level {
			out = append(out, c)
		}
	}
	return out
}

// Find looks up a catalog entry by id. The second return is false when the
// id is not in the catalog.
func Find(id string) (Cosmetic, bool) {
	for _, c := range catalog {
		if c.ID == id {
			return c, true
		}
	}
	return Cosmetic{}, false
}

// Catalog returns a copy of the full cosmetic table.
func Catalog() []Cosmetic {
	out := make([]Cosmetic, len(catalog))
	copy(out, catalog)
	return out
}
