package collision

import "strings"

// Role tags a collidable volume. Roles are bit flags so a query can select
// several at once.
type Role uint

const (
	RoleGround Role = 1 << iota
	RoleStatic
	RoleMovable
	RoleVehicle
	RoleRoad
	RoleEnemy
)

const (
	// Obstacles block walking actors.
	Obstacles = RoleStatic | RoleMovable | RoleVehicle
	// Surfaces can be stood or driven on.
	Surfaces = RoleGround | RoleRoad
	// LevelVolumes is every level volume, without actors.
	LevelVolumes = Surfaces | Obstacles
	RoleAll      = LevelVolumes | RoleEnemy
)

var roleNames = map[Role]string{
	RoleGround:  "ground",
	RoleStatic:  "static",
	RoleMovable: "movable",
	RoleVehicle: "vehicle",
	RoleRoad:    "road",
	RoleEnemy:   "enemy",
}

func (r Role) String() string {
	if n, ok := roleNames[r]; ok {
		return n
	}
	var parts []string
	for bit := RoleGround; bit <= RoleEnemy; bit <<= 1 {
		if r&bit != 0 {
			parts = append(parts, roleNames[bit])
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// ParseRole accepts a single role name as written in level files.
func ParseRole(name string) (Role, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for r, n := range roleNames {
		if n == name {
			return r, true
		}
	}
	return 0, false
}
