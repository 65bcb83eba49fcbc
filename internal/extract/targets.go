// internal/extract/targets.go

package extract

// CleanRule names the typed cleanup applied to a raw extracted value.
type CleanRule int

const (
	RuleNone CleanRule = iota
	RuleCurrency
	RuleYear
	RulePhone
	RuleZip
	RulePrice
)

// applyRule cleans a raw value. An empty return means the value did not
// survive validation and the field stays unset.
func applyRule(rule CleanRule, v string) string {
	switch rule {
	case RuleCurrency:
		return CleanCurrency(v)
	case RuleYear:
		return CleanYear(v)
	case RulePhone:
		return FormatPhone(v)
	case RuleZip:
		return NormalizeZip(v)
	case RulePrice:
		return CleanPriceText(v)
	default:
		return v
	}
}

// FieldTarget names one output field and the ordered strategies that can
// produce it.
type FieldTarget struct {
	Name       string
	Rule       CleanRule
	Strategies []Strategy
}

// propertyTarget builds the standard strategy chain for a property detail
// field: a positional selector into the detail card, then a label search.
func propertyTarget(name, label, positional string, rule CleanRule) FieldTarget {
	return FieldTarget{
		Name: name,
		Rule: rule,
		Strategies: []Strategy{
			{Kind: PositionalPath, Expr: positional},
			{Kind: LabelSearch, Expr: label},
		},
	}
}

// PropertyTargets describes the property detail fields on an enrichment
// result page.
func PropertyTargets() []FieldTarget {
	return []FieldTarget{
		propertyTarget("estimated_value", "Estimated Value",
			"div.shadow-form > div:nth-child(2) > div:nth-child(1) > b", RuleCurrency),
		propertyTarget("estimated_equity", "Estimated Equity",
			"div.shadow-form > div:nth-child(2) > div:nth-child(2) > b", RuleCurrency),
		propertyTarget("last_sale_amount", "Last Sale Amount",
			"div.shadow-form > div:nth-child(2) > div:nth-child(3) > b", RuleCurrency),
		propertyTarget("last_sale_date", "Last Sale Date",
			"div.shadow-form > div:nth-child(2) > div:nth-child(4) > b", RuleNone),
		propertyTarget("year_built", "Year Built",
			"div.shadow-form > div:nth-child(1) > div:nth-child(4) > b", RuleYear),
		propertyTarget("occupancy_type", "Occupancy Type",
			"div.shadow-form > div:nth-child(3) > div:nth-child(1) > b", RuleNone),
		propertyTarget("ownership_type", "Ownership Type",
			"div.shadow-form > div:nth-child(3) > div:nth-child(2) > b", RuleNone),
		propertyTarget("land_use", "Land Use",
			"div.shadow-form > div:nth-child(3) > div:nth-child(3) > b", RuleNone),
		propertyTarget("property_class", "Property Class",
			"div.shadow-form > div:nth-child(3) > div:nth-child(4) > b", RuleNone),
	}
}

// ListingTargets describes the fields scraped from a listing page itself,
// preferring the embedded JSON state over DOM selectors.
func ListingTargets() []FieldTarget {
	return []FieldTarget{
		{
			Name: "street",
			Rule: RuleNone,
			Strategies: []Strategy{
				{Kind: JSONPath, Keys: []string{"payload", "propertyData", "address", "streetLine"}},
				{Kind: JSONPath, Keys: []string{"propertyData", "address", "streetLine"}},
				{Kind: JSONPath, Keys: []string{"address", "streetLine"}},
				{Kind: Selector, Expr: "h1.streetAddress, .streetAddress, .address h1"},
				{Kind: Selector, Expr: `[data-rf-test-name="address-value"]`},
			},
		},
		{
			Name: "city",
			Rule: RuleNone,
			Strategies: []Strategy{
				{Kind: JSONPath, Keys: []string{"payload", "propertyData", "address", "city"}},
				{Kind: JSONPath, Keys: []string{"propertyData", "address", "city"}},
				{Kind: JSONPath, Keys: []string{"address", "city"}},
				{Kind: Selector, Expr: `.cityStateZip, .address-city, [data-rf-test-name="city-value"]`},
			},
		},
		{
			Name: "zip_code",
			Rule: RuleZip,
			Strategies: []Strategy{
				{Kind: JSONPath, Keys: []string{"payload", "propertyData", "address", "zipcode"}},
				{Kind: JSONPath, Keys: []string{"propertyData", "address", "zipcode"}},
				{Kind: JSONPath, Keys: []string{"address", "zipcode"}},
				{Kind: JSONPath, Keys: []string{"zipCode"}},
			},
		},
		{
			Name: "list_price",
			Rule: RulePrice,
			Strategies: []Strategy{
				{Kind: Selector, Expr: `div[data-rf-test-id="abp-price"]`},
				{Kind: LabelSearch, Expr: "Price"},
			},
		},
		{
			Name: "beds",
			Rule: RuleNone,
			Strategies: []Strategy{
				{Kind: Selector, Expr: `div[data-rf-test-id="abp-beds"]`},
			},
		},
		{
			Name: "full_baths",
			Rule: RuleNone,
			Strategies: []Strategy{
				{Kind: Selector, Expr: `div[data-rf-test-id="abp-baths"]`},
			},
		},
		{
			Name: "sqft",
			Rule: RuleNone,
			Strategies: []Strategy{
				{Kind: Selector, Expr: `div[data-rf-test-id="abp-sqFt"]`},
			},
		},
		{
			Name: "description",
			Rule: RuleNone,
			Strategies: []Strategy{
				{Kind: Selector, Expr: "div.remarks"},
			},
		},
		{
			Name: "agent_email",
			Rule: RuleNone,
			Strategies: []Strategy{
				{Kind: Selector, Expr: `a[href^="mailto:"]`},
				{Kind: RegexFallback, Expr: `[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`},
			},
		},
		{
			Name: "agent_phone",
			Rule: RulePhone,
			Strategies: []Strategy{
				{Kind: Selector, Expr: `a[href^="tel:"]`},
				{Kind: RegexFallback, Expr: `\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`},
			},
		},
	}
}
