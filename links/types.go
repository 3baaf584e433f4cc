package links

// Kind classifies a linkable catalog entity.
type Kind string

const (
	KindProduct Kind = "product"
	KindPost    Kind = "post"
	KindPage    Kind = "page"
)

// Priority ranks a proposed link opportunity.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Candidate is a catalog entry eligible as an internal link target. Slug is
// unique per kind; the catalog owner enforces that.
type Candidate struct {
	Kind     Kind     `json:"kind"`
	Title    string   `json:"title"`
	Slug     string   `json:"slug"`
	Keywords []string `json:"keywords"`
	Category string   `json:"category,omitempty"`
}

// Opportunity is a proposed new internal link: a text span in the document
// that could anchor a link to the target candidate.
type Opportunity struct {
	MatchedText string    `json:"matchedText"`
	Position    int       `json:"position"`
	Context     string    `json:"context"`
	Target      Candidate `json:"target"`
	Relevance   int       `json:"relevance"`
	Priority    Priority  `json:"priority"`
}

// ExistingLink is a hyperlink already present in the document. IsInternal is
// computed from the URL shape at extraction time.
type ExistingLink struct {
	URL        string `json:"url"`
	AnchorText string `json:"anchorText"`
	Position   int    `json:"position"`
	IsInternal bool   `json:"isInternal"`
}

// FrequencyEntry is one row of a frequency table, sorted descending by count.
type FrequencyEntry struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// DistributionReport is the aggregate audit of a document's existing links.
type DistributionReport struct {
	InternalCount   int              `json:"internalCount"`
	ExternalCount   int              `json:"externalCount"`
	InternalByKind  map[Kind]int     `json:"internalByKind"`
	AnchorTexts     []FrequencyEntry `json:"anchorTexts"`
	ExternalDomains []FrequencyEntry `json:"externalDomains"`
	Issues          []string         `json:"issues"`
}

// BrokenStatus describes why a known-dead URL is dead.
type BrokenStatus string

const (
	Broken404     BrokenStatus = "404"
	BrokenTimeout BrokenStatus = "timeout"
	BrokenError   BrokenStatus = "error"
)

// BlockedURL is one entry of a caller-supplied block-list, produced by an
// external link checker. An empty status defaults to error.
type BlockedURL struct {
	URL    string       `json:"url"`
	Status BrokenStatus `json:"status,omitempty"`
}

// BrokenLink is an existing link whose URL appears on the block-list.
type BrokenLink struct {
	URL        string       `json:"url"`
	AnchorText string       `json:"anchorText"`
	Position   int          `json:"position"`
	Context    string       `json:"context"`
	Status     BrokenStatus `json:"status"`
}

// AnchorReport is the quality assessment of one anchor text / target pair.
type AnchorReport struct {
	Issues      []string `json:"issues"`
	Suggestions []string `json:"suggestions"`
}
