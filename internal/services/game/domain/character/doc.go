// Package character models a player character's vital stats.
//
// Health and sanity live in [MinStat, MaxStat]. A character is alive while both
// stats are above zero and it has not been marked dead; death is a soft delete
// recorded as DeletedAt and is never undone.
package character
