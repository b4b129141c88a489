package intervals

import (
	"fmt"
	"slices"

	"pixfx/patterns"
	"pixfx/pixbuf"
	"pixfx/types"
)

/// run finding + in-place run sorting
/// a seam is a full scanline (see patterns), a run is a stretch of it that
/// passes the threshold and gets sorted

// InRun reports whether a pixel passes the threshold.
//
// Above compares the brightness against value*765 but below compares against
// value*255. The two scales differ on purpose: existing output depends on it.
func InRun(px types.Pixel, threshold types.ThresholdConfig) bool {
	brightness := float64(px.Brightness())
	if threshold.Above {
		return brightness > threshold.Value*types.MaxBrightness
	}
	return brightness < threshold.Value*255
}

// FindSeamRuns returns the runs of one scanline in increasing start order.
// Runs are at least two pixels long: a lone passing pixel is dropped.
func FindSeamRuns(seam []types.Pixel, threshold types.ThresholdConfig) []types.Run {
	runs := make([]types.Run, 0)
	seamLen := len(seam)

	for j := 0; j < seamLen; j++ {
		if !InRun(seam[j], threshold) {
			continue
		}
		/// look ahead for the end of the run
		endIdx := j
		for endIdx+1 < seamLen && InRun(seam[endIdx+1], threshold) {
			endIdx++
		}
		if endIdx > j {
			runs = append(runs, types.Run{Start: j, End: endIdx})
		}
		/// jump past the run, endIdx+1 is known to fail
		j = endIdx + 1
	}
	return runs
}

// FindRuns scans every scanline along axis and returns one RunSet per
// scanline in scanline order, empty ones included.
func FindRuns(b *pixbuf.Buffer, axis types.Axis, threshold types.ThresholdConfig) []types.RunSet {
	count := patterns.Count(b, axis)
	length := patterns.Length(b, axis)
	sets := make([]types.RunSet, count)
	for i := 0; i < count; i++ {
		seam := patterns.LoadSeam(b, axis, i, 0, length-1)
		sets[i] = types.RunSet{Index: i, Runs: FindSeamRuns(seam, threshold)}
	}
	return sets
}

// ByBrightness orders pixels by R+G+B.
func ByBrightness(a, b types.Pixel) int {
	return a.Brightness() - b.Brightness()
}

// SortSeam stably sorts pixels by brightness, brightest first when reverse.
// Ties keep their original order in both directions.
func SortSeam(pixels []types.Pixel, reverse bool) {
	if reverse {
		slices.SortStableFunc(pixels, func(a, b types.Pixel) int {
			return ByBrightness(b, a)
		})
		return
	}
	slices.SortStableFunc(pixels, ByBrightness)
}

// SortRun sorts the pixels of run on the given scanline in place.
func SortRun(b *pixbuf.Buffer, axis types.Axis, scanline int, run types.Run, reverse bool) {
	length := patterns.Length(b, axis)
	if run.Start < 0 || run.End >= length || run.Start > run.End {
		panic(fmt.Sprintf("intervals: run %s out of range for %s length %d", run, axis, length))
	}
	/// grab the pixels we want
	pixels := patterns.LoadSeam(b, axis, scanline, run.Start, run.End)
	SortSeam(pixels, reverse)
	patterns.SaveSeam(b, axis, scanline, run.Start, pixels)
}

// SortRunSet sorts every run of one scanline.
func SortRunSet(b *pixbuf.Buffer, axis types.Axis, set types.RunSet, reverse bool) {
	for _, run := range set.Runs {
		SortRun(b, axis, set.Index, run, reverse)
	}
}
