package fantasy

// RolloverFreeTransfers grants one free transfer for a new gameweek, capped at
// rules.MaxFreeTransfers. Unused transfers never reset.
func RolloverFreeTransfers(squad Squad, rules Rules) Squad {
	next := squad.Clone()
	next.FreeTransfers = min(squad.FreeTransfers+1, rules.MaxFreeTransfers)
	return next
}
