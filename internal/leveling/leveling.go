// Package leveling converts cumulative dungeon experience into fractional
// levels over the catacombs experience table.
package leveling

// perLevelXP[i] is the experience needed to go from level i to level i+1.
// Past the end of the table every further level costs a flat overflowLevelXP.
var perLevelXP = []float64{
	50, 75, 110, 160, 230, 330, 470, 670, 950, 1340,
	1890, 2665, 3760, 5260, 7380, 10300, 14400, 20000, 27600, 38000,
	52500, 71500, 97000, 132000, 180000, 243000, 328000, 445000, 600000, 800000,
	1065000, 1410000, 1900000, 2500000, 3300000, 4300000, 5600000, 7200000, 9200000, 12000000,
	15000000, 19000000, 24000000, 30000000, 38000000, 48000000, 60000000, 75000000, 93000000, 116250000,
}

const overflowLevelXP = 200_000_000

// LevelFor returns the fractional level for a cumulative experience total.
// Monotonically non-decreasing, LevelFor(0) == 0. Negative input is a
// programming error; callers must not pass it.
func LevelFor(experience float64) float64 {
	remaining := experience
	for i, cost := range perLevelXP {
		if remaining < cost {
			return float64(i) + remaining/cost
		}
		remaining -= cost
	}
	return float64(len(perLevelXP)) + remaining/overflowLevelXP
}
