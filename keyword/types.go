package keyword

import "time"

// Source identifies which resolution stage produced a result.
type Source string

const (
	SourceAuto      Source = "auto" // query preference only, never set on a result
	SourceExternal  Source = "external"
	SourceInternal  Source = "internal"
	SourceEstimated Source = "estimated"
)

// Confidence grades how much a result should be trusted.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Competition grades how contested a keyword's results page is.
type Competition string

const (
	CompetitionLow    Competition = "low"
	CompetitionMedium Competition = "medium"
	CompetitionHigh   Competition = "high"
)

// Trend describes recent ranking movement for a keyword.
type Trend string

const (
	TrendRising    Trend = "rising"
	TrendStable    Trend = "stable"
	TrendDeclining Trend = "declining"
)

// VolumeBucket is a labeled search-volume range.
type VolumeBucket string

const (
	VolumeVeryLow    VolumeBucket = "very-low"    // < 100
	VolumeLow        VolumeBucket = "low"         // 100 - 1K
	VolumeMedium     VolumeBucket = "medium"      // 1K - 5K
	VolumeMediumHigh VolumeBucket = "medium-high" // 5K - 10K
	VolumeHigh       VolumeBucket = "high"        // 10K+
)

// Query asks for market data on a single keyword.
type Query struct {
	Keyword         string `json:"keyword" binding:"required"`
	PreferredSource Source `json:"preferredSource"`
}

// RankingSample is one historical observation of a keyword's organic rank.
// Samples are recorded by the tracking pipeline and never modified.
type RankingSample struct {
	Position    float64   `json:"position"`
	Impressions float64   `json:"impressions"`
	CTR         float64   `json:"ctr"`
	ObservedAt  time.Time `json:"observedAt"`
}

// Competitor is one organic result occupying a rank for the keyword.
type Competitor struct {
	Rank   int    `json:"rank"`
	Domain string `json:"domain"`
	URL    string `json:"url"`
	Title  string `json:"title"`
}

// Result is resolved market data for a keyword. Source and Confidence are
// always set together so callers can convey data quality honestly.
type Result struct {
	Keyword         string       `json:"keyword"`
	SearchVolume    VolumeBucket `json:"searchVolumeEstimate"`
	Difficulty      int          `json:"difficulty"`
	Competition     Competition  `json:"competition"`
	Trend           Trend        `json:"trend"`
	TopCompetitors  []Competitor `json:"topCompetitors"`
	RelatedKeywords []string     `json:"relatedKeywords"`
	Source          Source       `json:"source"`
	Confidence      Confidence   `json:"confidence"`
	ResolvedAt      time.Time    `json:"resolvedAt"`
}
