package entity

// MatchType grades how confidently a candidate resolved to a lead.
type MatchType string

const (
	// MatchUnique means exactly one lead matched.
	MatchUnique MatchType = "unique"
	// MatchNarrowed means several matched and company/domain evidence broke
	// the tie.
	MatchNarrowed MatchType = "narrowed"
	// MatchAmbiguous means several survive with no tie-break; never write.
	MatchAmbiguous MatchType = "ambiguous"
	// MatchNone means no candidates.
	MatchNone MatchType = "none"
)

// Candidate is the identity evidence extracted from a payload.
type Candidate struct {
	Email          string
	Name           string
	FirstName      string
	Company        string
	// Domain carries domain evidence that arrived without a full address,
	// such as a recap titled by the counterparty's domain.
	Domain         string
	AlternateNames []string
}

// Resolution is the resolver's answer for one candidate.
type Resolution struct {
	Lead       *Lead
	AllMatches []*Lead
	MatchType  MatchType
}
