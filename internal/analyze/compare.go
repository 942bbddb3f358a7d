package analyze

// Comparison relates a run to a baseline. Positive improvements mean the run
// did less work than the baseline.
type Comparison struct {
	Baseline string `json:"baseline" yaml:"baseline"`

	SkippedShareBefore float64 `json:"skippedShareBefore" yaml:"skippedShareBefore"`
	SkippedShareAfter  float64 `json:"skippedShareAfter" yaml:"skippedShareAfter"`
	UploadBefore       float64 `json:"avgUploadBefore" yaml:"avgUploadBefore"`
	UploadAfter        float64 `json:"avgUploadAfter" yaml:"avgUploadAfter"`
	PaintBefore        float64 `json:"avgPaintBefore" yaml:"avgPaintBefore"`
	PaintAfter         float64 `json:"avgPaintAfter" yaml:"avgPaintAfter"`

	UploadImprovement float64 `json:"uploadImprovementPct" yaml:"uploadImprovementPct"`
	PaintImprovement  float64 `json:"paintImprovementPct" yaml:"paintImprovementPct"`
}

func Compare(name string, before, after Stats) Comparison {
	return Comparison{
		Baseline:           name,
		SkippedShareBefore: before.SkippedShare(),
		SkippedShareAfter:  after.SkippedShare(),
		UploadBefore:       before.AvgUploadBytes,
		UploadAfter:        after.AvgUploadBytes,
		PaintBefore:        before.AvgPaintFibers,
		PaintAfter:         after.AvgPaintFibers,
		UploadImprovement:  Improvement(before.AvgUploadBytes, after.AvgUploadBytes),
		PaintImprovement:   Improvement(before.AvgPaintFibers, after.AvgPaintFibers),
	}
}

// Improvement is the relative reduction from before to after, in percent.
// It is 0 when before is not positive.
func Improvement(before, after float64) float64 {
	if before <= 0 {
		return 0
	}
	return (before - after) / before * 100
}
