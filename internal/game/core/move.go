package core

import "fmt"

// Move sends armies from one tile to an orthogonal neighbor.
// Split sends half of the source army (rounded down); otherwise all but one
// army is sent.
type Move struct {
	PlayerID int
	From     Coordinate
	To       Coordinate
	Split    bool
}

// NewMove creates a move for player from (fromX, fromY) to (toX, toY)
func NewMove(player, fromX, fromY, toX, toY int, split bool) Move {
	return Move{
		PlayerID: player,
		From:     Coordinate{X: fromX, Y: fromY},
		To:       Coordinate{X: toX, Y: toY},
		Split:    split,
	}
}

func (m Move) String() string {
	kind := "all"
	if m.Split {
		kind = "half"
	}
	return fmt.Sprintf("p%d %s->%s %s", m.PlayerID, m.From, m.To, kind)
}

// AttackArmy is the number of armies that leave a source tile holding army.
func (m Move) AttackArmy(army int) int {
	if m.Split {
		return army / 2
	}
	return army - 1
}

// ValidateMove checks m against the board as it currently stands. The first
// failing rule is returned as one of the package's sentinel errors.
func ValidateMove(b *Board, adj *AdjacencyTable, m Move) error {
	if !m.From.IsValid(b.W, b.H) || !m.To.IsValid(b.W, b.H) {
		return ErrInvalidCoordinates
	}
	if m.From == m.To {
		return ErrMoveToSelf
	}
	from := m.From.ToIndex(b.W)
	to := m.To.ToIndex(b.W)
	if adj != nil {
		if !adj.Contains(from, to) {
			return ErrNotAdjacent
		}
	} else if !m.From.IsAdjacentTo(m.To) {
		return ErrNotAdjacent
	}

	src := &b.T[from]
	if src.Owner != m.PlayerID {
		return ErrNotOwned
	}
	if src.Army < 2 {
		return ErrInsufficientArmy
	}
	if b.T[to].IsMountain() {
		return ErrTargetIsMountain
	}
	return nil
}

// CombatKind classifies what happened on the destination tile.
type CombatKind int

const (
	Reinforced CombatKind = iota
	Captured
	Repelled
	Stalemate
)

func (k CombatKind) String() string {
	switch k {
	case Reinforced:
		return "reinforced"
	case Captured:
		return "captured"
	case Repelled:
		return "repelled"
	case Stalemate:
		return "stalemate"
	}
	return "unknown"
}

// MoveResult describes one applied move.
type MoveResult struct {
	Move      Move
	FromIdx   int
	ToIdx     int
	Attack    int
	Defend    int
	Kind      CombatKind
	PrevOwner int
	Capture   *CaptureDetails // set when the destination changed hands to the mover
}

// CaptureDetails describes a tile taken by the mover.
type CaptureDetails struct {
	X, Y              int
	TileType          Terrain // terrain before the capture
	CapturingPlayerID int
	PreviousOwnerID   int
	PreviousArmyCount int
	// TransferredTiles is the number of tiles taken over from the
	// defeated player when a General falls.
	TransferredTiles int
}

// EliminationOrder records that a player lost their General.
type EliminationOrder struct {
	EliminatedPlayerID int
	NewOwnerID         int
}

// ApplyMove validates m and resolves it against b. changed, when non-nil,
// collects every tile index the move touched.
func ApplyMove(b *Board, adj *AdjacencyTable, m Move, changed map[int]struct{}) (*MoveResult, error) {
	if err := ValidateMove(b, adj, m); err != nil {
		return nil, err
	}
	res := resolveMove(b, m, changed)
	return &res, nil
}

func resolveMove(b *Board, m Move, changed map[int]struct{}) MoveResult {
	from := m.From.ToIndex(b.W)
	to := m.To.ToIndex(b.W)
	src := &b.T[from]
	dst := &b.T[to]

	attack := m.AttackArmy(src.Army)
	res := MoveResult{
		Move:      m,
		FromIdx:   from,
		ToIdx:     to,
		Attack:    attack,
		Defend:    dst.Army,
		PrevOwner: dst.Owner,
	}

	switch {
	case dst.Owner == m.PlayerID:
		dst.Army += attack
		res.Kind = Reinforced
	case attack > dst.Army:
		details := &CaptureDetails{
			X:                 m.To.X,
			Y:                 m.To.Y,
			TileType:          dst.Type,
			CapturingPlayerID: m.PlayerID,
			PreviousOwnerID:   dst.Owner,
			PreviousArmyCount: dst.Army,
		}
		dst.Owner = m.PlayerID
		dst.Army = attack - dst.Army
		if dst.Type == General {
			dst.Type = City
			if details.PreviousOwnerID != NeutralID {
				details.TransferredTiles = TransferEmpire(b, details.PreviousOwnerID, m.PlayerID, changed)
			}
		}
		res.Kind = Captured
		res.Capture = details
	case attack < dst.Army:
		dst.Army -= attack
		res.Kind = Repelled
	default:
		dst.Army = 0
		dst.Owner = NeutralID
		res.Kind = Stalemate
	}
	src.Army -= attack

	if changed != nil {
		changed[from] = struct{}{}
		changed[to] = struct{}{}
	}
	return res
}

// TransferEmpire hands every tile of the defeated player to the victor,
// halving each army rounded up. It returns the number of tiles moved.
func TransferEmpire(b *Board, defeated, victor int, changed map[int]struct{}) int {
	n := 0
	for i := range b.T {
		t := &b.T[i]
		if t.Owner != defeated {
			continue
		}
		t.Owner = victor
		t.Army = (t.Army + 1) / 2
		if changed != nil {
			changed[i] = struct{}{}
		}
		n++
	}
	return n
}

// EliminationOrders extracts the General captures from a list of captures.
func EliminationOrders(captures []CaptureDetails) []EliminationOrder {
	var orders []EliminationOrder
	for _, c := range captures {
		if c.TileType == General && c.PreviousOwnerID != NeutralID {
			orders = append(orders, EliminationOrder{
				EliminatedPlayerID: c.PreviousOwnerID,
				NewOwnerID:         c.CapturingPlayerID,
			})
		}
	}
	return orders
}
