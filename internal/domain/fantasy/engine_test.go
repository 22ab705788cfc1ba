package fantasy

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/fantasy-squad/internal/domain/player"
)

func emptySquad() Squad {
	return NewSquad("squad-1", "user-1", "idn-liga-1-2025", "Garuda XI", DefaultRules())
}

func squadWith(t *testing.T, picks ...SquadPick) Squad {
	t.Helper()

	squad := emptySquad()
	for _, pick := range picks {
		var decision Decision
		squad, decision = Add(squad, pick, DefaultRules())
		require.True(t, decision.Allowed, "seed pick %s rejected: %s", pick.PlayerID, decision.Message)
	}
	return squad
}

func TestAddAcceptsAndRejectsDuplicate(t *testing.T) {
	rules := DefaultRules()
	gk := SquadPick{PlayerID: "gk1", TeamID: "t1", Position: player.PositionGoalkeeper, Price: 50}

	squad, decision := Add(emptySquad(), gk, rules)
	require.True(t, decision.Allowed)
	require.Equal(t, int64(50), squad.Spent())
	require.Equal(t, int64(950), squad.Remaining())

	again, decision := Add(squad, gk, rules)
	require.False(t, decision.Allowed)
	require.Equal(t, ReasonDuplicatePlayer, decision.Reason)
	require.Equal(t, squad, again)
}

func TestCanAddRejections(t *testing.T) {
	rules := DefaultRules()

	tests := []struct {
		name   string
		squad  func(t *testing.T) Squad
		pick   SquadPick
		reason ReasonCode
	}{
		{
			name: "third goalkeeper",
			squad: func(t *testing.T) Squad {
				return squadWith(t,
					SquadPick{PlayerID: "gk1", TeamID: "t1", Position: player.PositionGoalkeeper, Price: 45},
					SquadPick{PlayerID: "gk2", TeamID: "t2", Position: player.PositionGoalkeeper, Price: 45},
				)
			},
			pick:   SquadPick{PlayerID: "gk3", TeamID: "t3", Position: player.PositionGoalkeeper, Price: 40},
			reason: ReasonPositionFull,
		},
		{
			name: "budget nearly spent",
			squad: func(*testing.T) Squad {
				squad := emptySquad()
				squad.Picks = []SquadPick{
					{PlayerID: "a", TeamID: "t1", Position: player.PositionMidfielder, Price: 490},
					{PlayerID: "b", TeamID: "t2", Position: player.PositionMidfielder, Price: 490},
				}
				return squad
			},
			pick:   SquadPick{PlayerID: "c", TeamID: "t3", Position: player.PositionForward, Price: 30},
			reason: ReasonInsufficientBudget,
		},
		{
			name: "fourth player from one club",
			squad: func(t *testing.T) Squad {
				return squadWith(t,
					SquadPick{PlayerID: "d1", TeamID: "dynamos", Position: player.PositionDefender, Price: 45},
					SquadPick{PlayerID: "d2", TeamID: "dynamos", Position: player.PositionMidfielder, Price: 55},
					SquadPick{PlayerID: "d3", TeamID: "dynamos", Position: player.PositionForward, Price: 65},
				)
			},
			pick:   SquadPick{PlayerID: "d4", TeamID: "dynamos", Position: player.PositionGoalkeeper, Price: 45},
			reason: ReasonClubLimitExceeded,
		},
		{
			name: "full squad",
			squad: func(t *testing.T) Squad {
				return squadWith(t, fullSquadPicks()...)
			},
			pick:   SquadPick{PlayerID: "extra", TeamID: "t9", Position: player.PositionForward, Price: 40},
			reason: ReasonSquadFull,
		},
		{
			name: "duplicate wins over full",
			squad: func(t *testing.T) Squad {
				return squadWith(t, fullSquadPicks()...)
			},
			pick:   fullSquadPicks()[0],
			reason: ReasonDuplicatePlayer,
		},
		{
			name: "budget wins over position",
			squad: func(t *testing.T) Squad {
				return squadWith(t,
					SquadPick{PlayerID: "gk1", TeamID: "t1", Position: player.PositionGoalkeeper, Price: 45},
					SquadPick{PlayerID: "gk2", TeamID: "t2", Position: player.PositionGoalkeeper, Price: 45},
				)
			},
			pick:   SquadPick{PlayerID: "gk3", TeamID: "t3", Position: player.PositionGoalkeeper, Price: 950},
			reason: ReasonInsufficientBudget,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			squad := tt.squad(t)
			spent := squad.Spent()

			decision := CanAdd(squad, tt.pick, rules)
			require.False(t, decision.Allowed)
			require.Equal(t, tt.reason, decision.Reason)
			require.NotEmpty(t, decision.Message)

			after, _ := Add(squad, tt.pick, rules)
			require.Equal(t, spent, after.Spent())
			require.Equal(t, squad, after)
		})
	}
}

func TestAddDoesNotMutateInput(t *testing.T) {
	squad := squadWith(t, fullSquadPicks()[:3]...)
	before := squad.Clone()

	next, decision := Add(squad, fullSquadPicks()[3], DefaultRules())
	require.True(t, decision.Allowed)
	require.Len(t, next.Picks, 4)
	require.Equal(t, before, squad)
}

func TestRemove(t *testing.T) {
	squad := squadWith(t, fullSquadPicks()...)
	squad, _ = SetCaptain(squad, "mid1")
	squad, _ = SetViceCaptain(squad, "fwd1")

	next := Remove(squad, "mid1")
	require.False(t, next.Has("mid1"))
	require.Empty(t, next.CaptainID)
	require.Equal(t, "fwd1", next.ViceCaptainID)
	require.Equal(t, squad.Spent()-100, next.Spent())

	next = Remove(next, "fwd1")
	require.Empty(t, next.ViceCaptainID)

	require.Equal(t, squad, Remove(squad, "nobody"))
}

func TestCaptaincy(t *testing.T) {
	squad := squadWith(t, fullSquadPicks()...)

	_, decision := SetCaptain(squad, "ghost")
	require.Equal(t, ReasonNotInSquad, decision.Reason)
	_, decision = SetViceCaptain(squad, "ghost")
	require.Equal(t, ReasonNotInSquad, decision.Reason)

	squad, decision = SetCaptain(squad, "mid1")
	require.True(t, decision.Allowed)
	squad, decision = SetViceCaptain(squad, "fwd1")
	require.True(t, decision.Allowed)

	swapped, decision := SetCaptain(squad, "fwd1")
	require.True(t, decision.Allowed)
	require.Equal(t, "fwd1", swapped.CaptainID)
	require.Equal(t, "mid1", swapped.ViceCaptainID)

	swapped, _ = SetViceCaptain(swapped, "fwd1")
	require.Equal(t, "mid1", swapped.CaptainID)
	require.Equal(t, "fwd1", swapped.ViceCaptainID)

	// Vice-captain promoted with no captain set leaves the vice slot empty.
	solo := squadWith(t, fullSquadPicks()...)
	solo, _ = SetViceCaptain(solo, "gk1")
	solo, _ = SetCaptain(solo, "gk1")
	require.Equal(t, "gk1", solo.CaptainID)
	require.Empty(t, solo.ViceCaptainID)
}

func TestCompleteness(t *testing.T) {
	rules := DefaultRules()

	partial := squadWith(t, fullSquadPicks()[:14]...)
	require.False(t, CompositionComplete(partial, rules))

	full := squadWith(t, fullSquadPicks()...)
	require.True(t, CompositionComplete(full, rules))
	require.False(t, IsComplete(full, rules))

	status := Evaluate(full, rules)
	require.True(t, status.CompositionComplete)
	require.False(t, status.Complete)
	require.Equal(t, []string{WarningCaptainMissing, WarningViceCaptainMissing}, status.Warnings)
	require.Equal(t, int64(950), status.Spent)
	require.Equal(t, int64(50), status.Remaining)

	full, _ = SetCaptain(full, "mid1")
	full, _ = SetViceCaptain(full, "mid2")
	require.True(t, IsComplete(full, rules))
	require.Empty(t, Evaluate(full, rules).Warnings)
}

// TestRandomMutationsKeepInvariants drives the engine with random adds,
// removals and captaincy changes and checks the squad after every step.
func TestRandomMutationsKeepInvariants(t *testing.T) {
	rules := DefaultRules()
	rng := rand.New(rand.NewSource(7))

	pool := make([]SquadPick, 0, 60)
	for i := range 60 {
		pool = append(pool, SquadPick{
			PlayerID: "p" + string(rune('A'+i%26)) + string(rune('a'+i/26)),
			TeamID:   "club" + string(rune('0'+i%7)),
			Position: player.OrderedPositions[i%len(player.OrderedPositions)],
			Price:    int64(35 + rng.Intn(100)),
		})
	}

	squad := emptySquad()
	for step := 0; step < 2000; step++ {
		pick := pool[rng.Intn(len(pool))]
		switch rng.Intn(4) {
		case 0, 1:
			squad, _ = Add(squad, pick, rules)
		case 2:
			squad = Remove(squad, pick.PlayerID)
		default:
			if rng.Intn(2) == 0 {
				squad, _ = SetCaptain(squad, pick.PlayerID)
			} else {
				squad, _ = SetViceCaptain(squad, pick.PlayerID)
			}
		}

		require.NoError(t, ValidatePicksPartial(squad.Picks, rules), "step %d", step)
		require.LessOrEqual(t, squad.Spent(), squad.BudgetCap)
		if squad.CaptainID != "" && squad.ViceCaptainID != "" {
			require.NotEqual(t, squad.CaptainID, squad.ViceCaptainID, "step %d", step)
		}
		require.NoError(t, squad.ValidateBasic(), "step %d", step)
	}
}

func TestRolloverFreeTransfers(t *testing.T) {
	rules := DefaultRules()
	squad := emptySquad()
	require.Equal(t, 1, squad.FreeTransfers)

	squad = RolloverFreeTransfers(squad, rules)
	require.Equal(t, 2, squad.FreeTransfers)

	squad = RolloverFreeTransfers(squad, rules)
	squad = RolloverFreeTransfers(squad, rules)
	require.Equal(t, 2, squad.FreeTransfers)

	squad.FreeTransfers = 0
	require.Equal(t, 1, RolloverFreeTransfers(squad, rules).FreeTransfers)
}

func TestDecisionErr(t *testing.T) {
	require.NoError(t, Accept().Err())

	err := Reject(ReasonPositionFull, "position %s already has %d players", player.PositionGoalkeeper, 2).Err()
	require.ErrorIs(t, err, ErrPositionFull)
	require.Contains(t, err.Error(), "GK")
}
