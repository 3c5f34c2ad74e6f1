package service

import (
	"context"
	"sort"
	"strings"

	"lead-inbox-be/internal/entity"
	"lead-inbox-be/internal/repository/contract"
	"lead-inbox-be/pkg/mailaddr"
)

type IResolverService interface {
	// ResolveByEmail is the strongest rung: an exact, case-insensitive email
	// lookup in the tenant's lead table.
	ResolveByEmail(ctx context.Context, tenant *entity.Tenant, email string) (*entity.Resolution, error)
	// Resolve walks the full ladder for a candidate: email, then name with
	// company narrowing, then first name plus mail domain, then domain alone.
	Resolve(ctx context.Context, tenant *entity.Tenant, candidate *entity.Candidate) (*entity.Resolution, error)
}

type resolverService struct {
	leadRepository contract.LeadRepository
}

func NewResolverService(leadRepository contract.LeadRepository) IResolverService {
	return &resolverService{leadRepository: leadRepository}
}

func (s *resolverService) ResolveByEmail(ctx context.Context, tenant *entity.Tenant, email string) (*entity.Resolution, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return &entity.Resolution{MatchType: entity.MatchNone}, nil
	}
	lead, err := s.leadRepository.FindByEmail(ctx, tenant, email)
	if err != nil {
		return nil, err
	}
	if lead == nil {
		return &entity.Resolution{MatchType: entity.MatchNone}, nil
	}
	return &entity.Resolution{Lead: lead, AllMatches: []*entity.Lead{lead}, MatchType: entity.MatchUnique}, nil
}

func (s *resolverService) Resolve(ctx context.Context, tenant *entity.Tenant, candidate *entity.Candidate) (*entity.Resolution, error) {
	// 1. Email wins outright when present.
	if candidate.Email != "" {
		res, err := s.ResolveByEmail(ctx, tenant, candidate.Email)
		if err != nil {
			return nil, err
		}
		if res.MatchType == entity.MatchUnique {
			return res, nil
		}
	}

	leads, err := s.leadRepository.FindAll(ctx, tenant)
	if err != nil {
		return nil, err
	}

	domain := candidate.Domain
	if domain == "" {
		domain = mailaddr.Domain(candidate.Email)
	}

	// 2. Name match, with company evidence breaking ties. Every alternate
	// gets a try before an ambiguous primary hit settles the answer.
	names := append([]string{candidate.Name}, candidate.AlternateNames...)
	hadName := false
	var ambiguous *entity.Resolution
	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			continue
		}
		hadName = true
		res := resolveByName(leads, name, candidate.Company, domain)
		switch res.MatchType {
		case entity.MatchUnique, entity.MatchNarrowed:
			return res, nil
		case entity.MatchAmbiguous:
			if ambiguous == nil {
				ambiguous = res
			}
		}
	}
	if ambiguous != nil {
		return ambiguous, nil
	}

	// 3. First name plus the counterparty's mail domain stem.
	if candidate.FirstName != "" && domain != "" && !mailaddr.IsPublicMailDomain(domain) {
		res := resolveByFirstNameDomain(leads, candidate.FirstName, domain)
		if res.MatchType != entity.MatchNone {
			return res, nil
		}
	}

	// 4. Domain alone, and only when no name was extractable. A candidate
	// whose name matched nobody must not fall through to a colleague at the
	// same company. Disabled for public mail providers, where a shared
	// domain says nothing about identity.
	if !hadName && domain != "" && !mailaddr.IsPublicMailDomain(domain) {
		res := resolveByDomain(leads, domain)
		if res.MatchType != entity.MatchNone {
			return res, nil
		}
	}

	return &entity.Resolution{MatchType: entity.MatchNone}, nil
}

// normalizeName folds the separator variants people use in surnames so
// "Van-Driel" and "O'Brien" compare equal to their spaced spellings.
func normalizeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.ReplaceAll(name, "-", " ")
	name = strings.ReplaceAll(name, "'", " ")
	name = strings.ReplaceAll(name, "’", " ")
	return strings.Join(strings.Fields(name), " ")
}

// squashName drops separators entirely, so "O'Brien" also equals "OBrien".
func squashName(name string) string {
	return strings.ReplaceAll(normalizeName(name), " ", "")
}

func leadFullNameMatches(lead *entity.Lead, name string) bool {
	full := lead.FullName()
	if normalizeName(full) == normalizeName(name) {
		return true
	}
	return squashName(full) == squashName(name)
}

func resolveByName(leads []*entity.Lead, name, company, domain string) *entity.Resolution {
	var matches []*entity.Lead
	fields := strings.Fields(normalizeName(name))

	if len(fields) == 1 {
		// A bare single word can be either column.
		word := fields[0]
		for _, lead := range leads {
			if normalizeName(lead.FirstName) == word || normalizeName(lead.LastName) == word {
				matches = append(matches, lead)
			}
		}
	} else {
		for _, lead := range leads {
			if leadFullNameMatches(lead, name) {
				matches = append(matches, lead)
			}
		}
		if len(matches) == 0 {
			// Exact first name plus last name contained in the stored
			// surname covers double-barrelled and married-name rows.
			first, last := fields[0], fields[len(fields)-1]
			for _, lead := range leads {
				if normalizeName(lead.FirstName) == first &&
					strings.Contains(normalizeName(lead.LastName), last) {
					matches = append(matches, lead)
				}
			}
		}
	}

	switch len(matches) {
	case 0:
		return &entity.Resolution{MatchType: entity.MatchNone}
	case 1:
		return &entity.Resolution{Lead: matches[0], AllMatches: matches, MatchType: entity.MatchUnique}
	}

	if narrowed := narrowByCompany(matches, company, domain); len(narrowed) == 1 {
		return &entity.Resolution{Lead: narrowed[0], AllMatches: matches, MatchType: entity.MatchNarrowed}
	}
	sortLeads(matches)
	return &entity.Resolution{AllMatches: matches, MatchType: entity.MatchAmbiguous}
}

// narrowByCompany keeps the leads whose company, linkedin URL or email
// mentions the company or sender domain evidence.
func narrowByCompany(matches []*entity.Lead, company, domain string) []*entity.Lead {
	company = strings.ToLower(strings.TrimSpace(company))
	stem := mailaddr.DomainStem(domain)
	if company == "" && stem == "" {
		return matches
	}
	var kept []*entity.Lead
	for _, lead := range matches {
		haystack := strings.ToLower(lead.Company + " " + lead.LinkedinUrl + " " + lead.Email)
		if company != "" && strings.Contains(haystack, company) {
			kept = append(kept, lead)
			continue
		}
		if stem != "" && strings.Contains(haystack, stem) {
			kept = append(kept, lead)
		}
	}
	if len(kept) == 0 {
		return matches
	}
	return kept
}

func resolveByFirstNameDomain(leads []*entity.Lead, firstName, domain string) *entity.Resolution {
	first := normalizeName(firstName)
	stem := mailaddr.DomainStem(domain)
	var matches []*entity.Lead
	for _, lead := range leads {
		if normalizeName(lead.FirstName) != first {
			continue
		}
		haystack := strings.ToLower(lead.Company + " " + lead.LinkedinUrl + " " + lead.Email)
		if strings.Contains(haystack, stem) {
			matches = append(matches, lead)
		}
	}
	switch len(matches) {
	case 0:
		return &entity.Resolution{MatchType: entity.MatchNone}
	case 1:
		return &entity.Resolution{Lead: matches[0], AllMatches: matches, MatchType: entity.MatchUnique}
	}
	sortLeads(matches)
	return &entity.Resolution{AllMatches: matches, MatchType: entity.MatchAmbiguous}
}

func resolveByDomain(leads []*entity.Lead, domain string) *entity.Resolution {
	domain = strings.ToLower(domain)
	var matches []*entity.Lead
	for _, lead := range leads {
		if mailaddr.Domain(lead.Email) == domain {
			matches = append(matches, lead)
		}
	}
	switch len(matches) {
	case 0:
		return &entity.Resolution{MatchType: entity.MatchNone}
	case 1:
		return &entity.Resolution{Lead: matches[0], AllMatches: matches, MatchType: entity.MatchUnique}
	}
	sortLeads(matches)
	return &entity.Resolution{AllMatches: matches, MatchType: entity.MatchAmbiguous}
}

// sortLeads keeps ambiguous candidate lists deterministic across calls.
func sortLeads(leads []*entity.Lead) {
	sort.Slice(leads, func(i, j int) bool { return leads[i].Id < leads[j].Id })
}
