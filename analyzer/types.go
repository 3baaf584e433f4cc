package analyzer

// Category identifies which analysis produced a suggestion.
type Category string

const (
	CategoryLength      Category = "length"
	CategoryKeyword     Category = "keyword"
	CategoryReadability Category = "readability"
	CategoryStructure   Category = "structure"
	CategoryLinks       Category = "links"
)

// Priority ranks how urgently a suggestion should be acted on.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Suggestion is one actionable optimization finding. Message and
// Recommendation are always non-empty.
type Suggestion struct {
	Category       Category `json:"category"`
	Priority       Priority `json:"priority"`
	Field          string   `json:"field"`
	Message        string   `json:"message"`
	Recommendation string   `json:"recommendation"`
	CurrentValue   any      `json:"currentValue,omitempty"`
	TargetValue    any      `json:"targetValue,omitempty"`
}

// HeadingStructure describes the document's heading shape.
type HeadingStructure struct {
	H1Count int      `json:"h1Count"`
	H2Count int      `json:"h2Count"`
	H3Count int      `json:"h3Count"`
	HasH1   bool     `json:"hasH1"`
	Issues  []string `json:"issues"`
}

// ParagraphStructure describes the document's paragraph shape. Paragraphs
// are delimited by blank lines after block tags are normalized.
type ParagraphStructure struct {
	Count    int      `json:"count"`
	AvgWords int      `json:"avgWords"`
	TooLong  int      `json:"tooLong"`
	TooShort int      `json:"tooShort"`
	Issues   []string `json:"issues"`
}

// StructureReport is the structural shape of a content document.
type StructureReport struct {
	Headings        HeadingStructure   `json:"headingStructure"`
	Paragraphs      ParagraphStructure `json:"paragraphStructure"`
	HasIntroduction bool               `json:"hasIntroduction"`
	HasConclusion   bool               `json:"hasConclusion"`
	UsesLists       bool               `json:"usesLists"`
	ListSuggestion  string             `json:"listSuggestion"`
	WordCount       int                `json:"wordCount"`
}

// PlacementCheck records the outcome of one keyword-placement check.
type PlacementCheck struct {
	Check  string `json:"check"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail,omitempty"`
}

// Options tunes a single optimization run. Keyword and ReadabilityScore are
// both optional; their analyses only run when supplied.
type Options struct {
	Keyword          string
	ReadabilityScore *float64
}

// OptimizationReport is the combined output of all content analyses. The
// suggestion list is flat and unordered; callers sort by priority as needed.
type OptimizationReport struct {
	Suggestions      []Suggestion     `json:"suggestions"`
	Structure        StructureReport  `json:"structure"`
	KeywordPlacement []PlacementCheck `json:"keywordPlacement"`
}
