package memory

import (
	"github.com/riskibarqy/fantasy-squad/internal/domain/league"
	"github.com/riskibarqy/fantasy-squad/internal/domain/player"
	"github.com/riskibarqy/fantasy-squad/internal/domain/team"
)

const (
	LeagueIDLiga1Indonesia = "idn-liga-1-2025"
	LeagueIDPremierLeague  = "eng-premier-league-2025"
)

// DemoSquadPlayerIDs is a legal 15-player Liga 1 squad costing 91.5.
var DemoSquadPlayerIDs = []string{
	"idn-gk-02", "idn-gk-03",
	"idn-def-01", "idn-def-04", "idn-def-06", "idn-def-07", "idn-def-09",
	"idn-mid-02", "idn-mid-03", "idn-mid-05", "idn-mid-08", "idn-mid-10",
	"idn-fwd-01", "idn-fwd-05", "idn-fwd-07",
}

func SeedLeagues() []league.League {
	return []league.League{
		{
			ID:          LeagueIDLiga1Indonesia,
			Name:        "Liga 1 Indonesia",
			CountryCode: "ID",
			Season:      "2025/2026",
			IsDefault:   true,
		},
		{
			ID:          LeagueIDPremierLeague,
			Name:        "Premier League",
			CountryCode: "GB",
			Season:      "2025/2026",
			IsDefault:   false,
		},
	}
}

func SeedTeams() []team.Team {
	return []team.Team{
		{ID: "idn-persija", LeagueID: LeagueIDLiga1Indonesia, Name: "Persija Jakarta", Short: "PSJ"},
		{ID: "idn-persib", LeagueID: LeagueIDLiga1Indonesia, Name: "Persib Bandung", Short: "PSB"},
		{ID: "idn-persebaya", LeagueID: LeagueIDLiga1Indonesia, Name: "Persebaya Surabaya", Short: "PRB"},
		{ID: "idn-baliutd", LeagueID: LeagueIDLiga1Indonesia, Name: "Bali United", Short: "BU"},
		{ID: "idn-arema", LeagueID: LeagueIDLiga1Indonesia, Name: "Arema FC", Short: "ARM"},
		{ID: "idn-psm", LeagueID: LeagueIDLiga1Indonesia, Name: "PSM Makassar", Short: "PSM"},
		{ID: "idn-borneo", LeagueID: LeagueIDLiga1Indonesia, Name: "Borneo FC", Short: "BOR"},
		{ID: "idn-persik", LeagueID: LeagueIDLiga1Indonesia, Name: "Persik Kediri", Short: "PSK"},
		{ID: "eng-ars", LeagueID: LeagueIDPremierLeague, Name: "Arsenal", Short: "ARS"},
		{ID: "eng-liv", LeagueID: LeagueIDPremierLeague, Name: "Liverpool", Short: "LIV"},
	}
}

func SeedPlayers() []player.Player {
	return []player.Player{
		{ID: "idn-gk-01", LeagueID: LeagueIDLiga1Indonesia, TeamID: "idn-persija", Name: "Andritany Ardhiyasa", Position: player.PositionGoalkeeper, Price: 50, Form: 2.0, TotalPoints: 10, OwnershipPct: 0.5},
		{ID: "idn-def-01", LeagueID: LeagueIDLiga1Indonesia, TeamID: "idn-persija", Name: "Hansamu Yama", Position: player.PositionDefender, Price: 55, Form: 5.7, TotalPoints: 63, OwnershipPct: 3.4},
		{ID: "idn-mid-01", LeagueID: LeagueIDLiga1Indonesia, TeamID: "idn-persija", Name: "Maciej Gajos", Position: player.PositionMidfielder, Price: 75, Form: 3.4, TotalPoints: 26, OwnershipPct: 6.3},
		{ID: "idn-fwd-01", LeagueID: LeagueIDLiga1Indonesia, TeamID: "idn-persija", Name: "Gustavo Almeida", Position: player.PositionForward, Price: 95, Form: 7.1, TotalPoints: 79, OwnershipPct: 9.2},
		{ID: "idn-gk-02", LeagueID: LeagueIDLiga1Indonesia, TeamID: "idn-persib", Name: "Teja Paku Alam", Position: player.PositionGoalkeeper, Price: 55, Form: 4.8, TotalPoints: 42, OwnershipPct: 12.1},
		{ID: "idn-def-02", LeagueID: LeagueIDLiga1Indonesia, TeamID: "idn-persib", Name: "Nick Kuipers", Position: player.PositionDefender, Price: 60, Form: 2.5, TotalPoints: 95, OwnershipPct: 15.0},
		{ID: "idn-mid-02", LeagueID: LeagueIDLiga1Indonesia, TeamID: "idn-persib", Name: "Marc Klok", Position: player.PositionMidfielder, Price: 80, Form: 6.2, TotalPoints: 58, OwnershipPct: 17.9},
		{ID: "idn-mid-06", LeagueID: LeagueIDLiga1Indonesia, TeamID: "idn-persib", Name: "Dedi Kusnandar", Position: player.PositionMidfielder, Price: 50, Form: 3.9, TotalPoints: 21, OwnershipPct: 20.8},
		{ID: "idn-fwd-02", LeagueID: LeagueIDLiga1Indonesia, TeamID: "idn-persib", Name: "David da Silva", Position: player.PositionForward, Price: 100, Form: 7.6, TotalPoints: 74, OwnershipPct: 23.7},
		{ID: "idn-gk-03", LeagueID: LeagueIDLiga1Indonesia, TeamID: "idn-persebaya", Name: "Ernando Ari", Position: player.PositionGoalkeeper, Price: 45, Form: 5.3, TotalPoints: 37, OwnershipPct: 26.6},
		{ID: "idn-def-03", LeagueID: LeagueIDLiga1Indonesia, TeamID: "idn-persebaya", Name: "Dusan Stevanovic", Position: player.PositionDefender, Price: 50, Form: 3.0, TotalPoints: 90, OwnershipPct: 29.5},
		{ID: "idn-def-05", LeagueID: LeagueIDLiga1Indonesia, TeamID: "idn-persebaya", Name: "Arief Catur", Position: player.PositionDefender, Price: 45, Form: 6.7, TotalPoints: 53, OwnershipPct: 32.4},
		{ID: "idn-mid-03", LeagueID: LeagueIDLiga1Indonesia, TeamID: "idn-persebaya", Name: "Bruno Moreira", Position: player.PositionMidfielder, Price: 70, Form: 4.4, TotalPoints: 16, OwnershipPct: 35.3},
		{ID: "idn-fwd-03", LeagueID: LeagueIDLiga1Indonesia, TeamID: "idn-persebaya", Name: "Paulo Henrique", Position: player.PositionForward, Price: 75, Form: 2.1, TotalPoints: 69, OwnershipPct: 38.2},
		{ID: "idn-gk-04", LeagueID: LeagueIDLiga1Indonesia, TeamID: "idn-baliutd", Name: "Adilson Maringa", Position: player.PositionGoalkeeper, Price: 50, Form: 5.8, TotalPoints: 32, OwnershipPct: 1.1},
		{ID: "idn-def-04", LeagueID: LeagueIDLiga1Indonesia, TeamID: "idn-baliutd", Name: "Ricky Fajrin", Position: player.PositionDefender, Price: 50, Form: 3.5, TotalPoints: 85, OwnershipPct: 4.0},
		{ID: "idn-mid-04", LeagueID: LeagueIDLiga1Indonesia, TeamID: "idn-baliutd", Name: "Eber Bessa", Position: player.PositionMidfielder, Price: 70, Form: 7.2, TotalPoints: 48, OwnershipPct: 6.9},
		{ID: "idn-mid-05", LeagueID: LeagueIDLiga1Indonesia, TeamID: "idn-baliutd", Name: "Mitsuru Maruoka", Position: player.PositionMidfielder, Price: 55, Form: 4.9, TotalPoints: 11, OwnershipPct: 9.8},
		{ID: "idn-fwd-04", LeagueID: LeagueIDLiga1Indonesia, TeamID: "idn-baliutd", Name: "Privat Mbarga", Position: player.PositionForward, Price: 80, Form: 2.6, TotalPoints: 64, OwnershipPct: 12.7},
		{ID: "idn-gk-05", LeagueID: LeagueIDLiga1Indonesia, TeamID: "idn-arema", Name: "Lucas Frigeri", Position: player.PositionGoalkeeper, Price: 45, Form: 6.3, TotalPoints: 27, OwnershipPct: 15.6},
		{ID: "idn-def-06", LeagueID: LeagueIDLiga1Indonesia, TeamID: "idn-arema", Name: "Julian Guevara", Position: player.PositionDefender, Price: 45, Form: 4.0, TotalPoints: 80, OwnershipPct: 18.5},
		{ID: "idn-mid-07", LeagueID: LeagueIDLiga1Indonesia, TeamID: "idn-arema", Name: "Arkhan Fikri", Position: player.PositionMidfielder, Price: 60, Form: 7.7, TotalPoints: 43, OwnershipPct: 21.4},
		{ID: "idn-fwd-05", LeagueID: LeagueIDLiga1Indonesia, TeamID: "idn-arema", Name: "Dalberto", Position: player.PositionForward, Price: 70, Form: 5.4, TotalPoints: 96, OwnershipPct: 24.3},
		{ID: "idn-gk-06", LeagueID: LeagueIDLiga1Indonesia, TeamID: "idn-psm", Name: "Reza Arya", Position: player.PositionGoalkeeper, Price: 45, Form: 3.1, TotalPoints: 59, OwnershipPct: 27.2},
		{ID: "idn-def-07", LeagueID: LeagueIDLiga1Indonesia, TeamID: "idn-psm", Name: "Yuran Fernandes", Position: player.PositionDefender, Price: 55, Form: 6.8, TotalPoints: 22, OwnershipPct: 30.1},
		{ID: "idn-mid-08", LeagueID: LeagueIDLiga1Indonesia, TeamID: "idn-psm", Name: "Ananda Raehan", Position: player.PositionMidfielder, Price: 55, Form: 4.5, TotalPoints: 75, OwnershipPct: 33.0},
		{ID: "idn-fwd-06", LeagueID: LeagueIDLiga1Indonesia, TeamID: "idn-psm", Name: "Victor Dethan", Position: player.PositionForward, Price: 65, Form: 2.2, TotalPoints: 38, OwnershipPct: 35.9},
		{ID: "idn-gk-07", LeagueID: LeagueIDLiga1Indonesia, TeamID: "idn-borneo", Name: "Nadeo Argawinata", Position: player.PositionGoalkeeper, Price: 50, Form: 5.9, TotalPoints: 91, OwnershipPct: 38.8},
		{ID: "idn-def-08", LeagueID: LeagueIDLiga1Indonesia, TeamID: "idn-borneo", Name: "Leo Guntara", Position: player.PositionDefender, Price: 50, Form: 3.6, TotalPoints: 54, OwnershipPct: 1.7},
		{ID: "idn-mid-09", LeagueID: LeagueIDLiga1Indonesia, TeamID: "idn-borneo", Name: "Kei Hirose", Position: player.PositionMidfielder, Price: 65, Form: 7.3, TotalPoints: 17, OwnershipPct: 4.6},
		{ID: "idn-fwd-07", LeagueID: LeagueIDLiga1Indonesia, TeamID: "idn-borneo", Name: "Mariano Peralta", Position: player.PositionForward, Price: 85, Form: 5.0, TotalPoints: 70, OwnershipPct: 7.5},
		{ID: "idn-gk-08", LeagueID: LeagueIDLiga1Indonesia, TeamID: "idn-persik", Name: "Kurniawan Kartika", Position: player.PositionGoalkeeper, Price: 40, Form: 2.7, TotalPoints: 33, OwnershipPct: 10.4},
		{ID: "idn-def-09", LeagueID: LeagueIDLiga1Indonesia, TeamID: "idn-persik", Name: "Anri Okita", Position: player.PositionDefender, Price: 40, Form: 6.4, TotalPoints: 86, OwnershipPct: 13.3},
		{ID: "idn-mid-10", LeagueID: LeagueIDLiga1Indonesia, TeamID: "idn-persik", Name: "Ze Valente", Position: player.PositionMidfielder, Price: 60, Form: 4.1, TotalPoints: 49, OwnershipPct: 16.2},
		{ID: "idn-fwd-08", LeagueID: LeagueIDLiga1Indonesia, TeamID: "idn-persik", Name: "Flavio Silva", Position: player.PositionForward, Price: 70, Form: 7.8, TotalPoints: 12, OwnershipPct: 19.1},
		{ID: "eng-gk-01", LeagueID: LeagueIDPremierLeague, TeamID: "eng-ars", Name: "David Raya", Position: player.PositionGoalkeeper, Price: 55},
		{ID: "eng-def-01", LeagueID: LeagueIDPremierLeague, TeamID: "eng-ars", Name: "William Saliba", Position: player.PositionDefender, Price: 60},
		{ID: "eng-mid-01", LeagueID: LeagueIDPremierLeague, TeamID: "eng-liv", Name: "Dominik Szoboszlai", Position: player.PositionMidfielder, Price: 65},
		{ID: "eng-fwd-01", LeagueID: LeagueIDPremierLeague, TeamID: "eng-liv", Name: "Darwin Nunez", Position: player.PositionForward, Price: 75},
	}
}
