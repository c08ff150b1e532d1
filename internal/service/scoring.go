package service

// PointsPerVerifiedReport is the flat award for a verified report. Points are
// only ever awarded on verify; a reject touches reputation, never points.
const PointsPerVerifiedReport = 10

// ComputeReputation returns the verified-to-total ratio as a percentage,
// clamped to [0,100]. A user with no reports scores zero rather than
// dividing by zero.
func ComputeReputation(verifiedCount, totalCount int) float64 {
	if totalCount < 1 {
		totalCount = 1
	}
	reputation := float64(verifiedCount) / float64(totalCount) * 100
	if reputation < 0 {
		return 0
	}
	if reputation > 100 {
		return 100
	}
	return reputation
}
