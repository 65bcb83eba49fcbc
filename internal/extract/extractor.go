// internal/extract/extractor.go

package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/dacionxo/leadharvest/internal/utils"
)

// Result is the outcome of extracting one document. Blocked and NoResults
// both leave Fields empty but mean different things: a blocked page should
// be retried by the fetch layer, a no-results page should not.
type Result struct {
	Fields    map[string]string
	Blocked   bool
	NoResults bool
}

// Empty reports whether extraction produced no fields at all.
func (r Result) Empty() bool {
	return len(r.Fields) == 0
}

// Extractor runs strategy chains over fetched documents.
type Extractor struct {
	logger    utils.Logger
	blacklist PhoneBlacklist
}

// NewExtractor creates an extractor. The blacklist may be nil.
func NewExtractor(logger utils.Logger, blacklist PhoneBlacklist) *Extractor {
	if logger == nil {
		logger = utils.NewLogger()
	}
	return &Extractor{logger: logger, blacklist: blacklist}
}

// ExtractEnrichment reads resident and property fields from a people-search
// result page. The target address disambiguates between result cards.
func (e *Extractor) ExtractEnrichment(doc *Document, targetAddress string) Result {
	if doc == nil {
		return Result{Fields: map[string]string{}}
	}
	if doc.Blocked() {
		e.logger.Warn("blocking detected in response, discarding document")
		return Result{Fields: map[string]string{}, Blocked: true}
	}
	if doc.NoResults() {
		e.logger.Debug("search returned no results")
		return Result{Fields: map[string]string{}, NoResults: true}
	}

	fields := make(map[string]string)

	card := matchCard(doc, targetAddress)
	if card == nil {
		e.logger.WithField("address", targetAddress).Warn("no person cards found")
	} else {
		for k, v := range extractResident(card, e.blacklist) {
			fields[k] = v
		}
	}

	if e.hasPropertySection(doc) {
		for k, v := range e.extractTargets(doc, nil, PropertyTargets()) {
			fields[k] = v
		}
	}

	return Result{Fields: fields}
}

// ExtractListing reads listing fields from a property listing page.
func (e *Extractor) ExtractListing(doc *Document) Result {
	if doc == nil {
		return Result{Fields: map[string]string{}}
	}
	if doc.Blocked() {
		e.logger.Warn("blocking detected in response, discarding document")
		return Result{Fields: map[string]string{}, Blocked: true}
	}
	if doc.NoResults() {
		return Result{Fields: map[string]string{}, NoResults: true}
	}

	fields := e.extractTargets(doc, nil, ListingTargets())

	if phone, ok := fields["agent_phone"]; ok && e.blacklist.Contains(phone) {
		e.logger.WithField("phone", phone).Info("excluding blacklisted phone number")
		delete(fields, "agent_phone")
	}

	return Result{Fields: fields}
}

// extractTargets runs each target's strategy chain. A value is accepted
// only when it is not a placeholder and survives the target's clean rule;
// otherwise the next strategy gets a turn.
func (e *Extractor) extractTargets(doc *Document, scope *goquery.Selection, targets []FieldTarget) map[string]string {
	fields := make(map[string]string)
	for _, target := range targets {
		for _, strategy := range target.Strategies {
			raw := strategy.Apply(doc, scope)
			if IsPlaceholder(raw) {
				continue
			}
			cleaned := strings.TrimSpace(applyRule(target.Rule, raw))
			if cleaned == "" || IsPlaceholder(cleaned) {
				continue
			}
			fields[target.Name] = cleaned
			break
		}
	}
	return fields
}

// hasPropertySection checks that the page actually carries a property
// detail card before positional selectors run against it.
func (e *Extractor) hasPropertySection(doc *Document) bool {
	if doc.Find("div.card.card-body, div.shadow-form, div.card-body").Length() > 0 {
		return true
	}
	return strings.Contains(doc.LowerText(), "estimated value")
}
