package keyword

// expectedCTRByRank is the organic click-through curve by rank position.
// Positions 11-20 share one tail value; anything deeper gets a floor.
// Changing any value here changes difficulty scoring and needs sign-off.
var expectedCTRByRank = map[int]float64{
	1:  0.316,
	2:  0.158,
	3:  0.108,
	4:  0.072,
	5:  0.061,
	6:  0.044,
	7:  0.037,
	8:  0.031,
	9:  0.026,
	10: 0.029,
}

const (
	ctrTail  = 0.01  // ranks 11-20
	ctrFloor = 0.001 // beyond page two
)

// ExpectedCTR returns the modeled organic CTR for a rank position.
func ExpectedCTR(position int) float64 {
	if ctr, ok := expectedCTRByRank[position]; ok {
		return ctr
	}
	if position <= 20 {
		return ctrTail
	}
	return ctrFloor
}

// authorityDomains are hosts whose presence in a results page signals a
// contested keyword. Matched by host suffix so subdomains count.
var authorityDomains = []string{
	"wikipedia.org",
	"youtube.com",
	"facebook.com",
	"amazon.com",
	"tiktok.com",
	"shopee.vn",
	"lazada.vn",
	"tiki.vn",
}

// bucketVolume maps a numeric monthly-search estimate onto the five labels.
func bucketVolume(estimate float64) VolumeBucket {
	switch {
	case estimate < 100:
		return VolumeVeryLow
	case estimate < 1000:
		return VolumeLow
	case estimate < 5000:
		return VolumeMedium
	case estimate < 10000:
		return VolumeMediumHigh
	default:
		return VolumeHigh
	}
}

func clampScore(v float64) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return int(v)
}
