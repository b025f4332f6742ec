package jobs

// Accuracy scores a review as the fraction of keys left unedited. Inputs
// outside the expected range clamp to the nearest valid score: more edits
// than keys scores 0, and an empty key set scores 1 unless edits were
// somehow recorded against it.
func Accuracy(total, edited int) float64 {
	if total <= 0 {
		if edited > 0 {
			return 0
		}
		return 1
	}
	if edited < 0 {
		edited = 0
	}
	if edited > total {
		return 0
	}
	return 1 - float64(edited)/float64(total)
}
