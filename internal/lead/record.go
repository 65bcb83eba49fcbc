// internal/lead/record.go

package lead

// ColumnMapping binds one canonical store column to the source keys that
// can feed it, in priority order.
type ColumnMapping struct {
	Column  string
	Sources []string
}

// fieldMappings is the canonical column set. Order is preserved so exports
// lay columns out the same way every run. The capitalized names are
// enrichment columns, matching the store schema.
var fieldMappings = []ColumnMapping{
	{"listing_id", []string{"listing_id", "property_id"}},
	{"property_url", []string{"property_url"}},
	{"permalink", []string{"permalink"}},
	{"street", []string{"address", "street"}},
	{"unit", []string{"unit"}},
	{"city", []string{"city"}},
	{"state", []string{"state"}},
	{"zip_code", []string{"zip_code"}},
	{"beds", []string{"beds"}},
	{"full_baths", []string{"full_baths"}},
	{"half_baths", []string{"half_baths"}},
	{"sqft", []string{"sqft"}},
	{"year_built", []string{"year_built"}},
	{"list_price", []string{"list_price"}},
	{"list_price_min", []string{"list_price_min"}},
	{"list_price_max", []string{"list_price_max"}},
	{"status", []string{"status", "mls_status"}},
	{"mls", []string{"mls", "mls_id"}},
	{"agent_name", []string{"agent_name"}},
	{"agent_email", []string{"agent_email", "listing_agent_email"}},
	{"agent_phone", []string{"agent_phone", "agent_phone_1", "listing_agent_phone"}},
	{"photos", []string{"photos"}},
	{"price_per_sqft", []string{"price_per_sqft"}},
	{"listing_source_name", []string{"listing_source_name", "listing_source"}},
	{"listing_source_id", []string{"listing_source_id"}},
	{"monthly_payment_estimate", []string{"monthly_payment_estimate"}},
	{"ai_investment_score", []string{"ai_investment_score"}},
	{"time_listed", []string{"time_listed"}},
	{"agent_phone_2", []string{"agent_phone_2"}},
	{"estimated_value", []string{"estimated_value"}},
	{"Estimated_Equity", []string{"estimated_equity"}},
	{"Last_Sale_Date", []string{"last_sale_date"}},
	{"Last_Sale_Amount", []string{"last_sale_amount"}},
	{"Year_Built", []string{"year_built_enriched"}},
	{"Ownership_Type", []string{"ownership_type"}},
	{"Occupancy_Type", []string{"occupancy_type"}},
	{"Property_Class", []string{"property_class"}},
	{"Land_Use", []string{"land_use"}},
	{"Full_Name", []string{"full_name"}},
	{"Age", []string{"age"}},
	{"Other_Observed_Names", []string{"other_observed_names"}},
	{"Relatives", []string{"relatives"}},
	{"Resident_Phone_Number", []string{"resident_phone_number"}},
	{"Resident_Phone_Number_Type", []string{"resident_phone_number_type"}},
	{"Other_Resident_Phone_Number", []string{"other_resident_phone_number"}},
}

// Columns returns the canonical column names in schema order.
func Columns() []string {
	out := make([]string, 0, len(fieldMappings))
	for _, m := range fieldMappings {
		out = append(out, m.Column)
	}
	return out
}

// mappedSourceKeys is the lowercased set of every source key a mapping can
// consume; anything else lands in the "other" bag.
var mappedSourceKeys = func() map[string]bool {
	set := make(map[string]bool)
	for _, m := range fieldMappings {
		for _, s := range m.Sources {
			set[lower(s)] = true
		}
	}
	return set
}()

// LeadRecord is the canonical, store-ready form of one lead. Columns holds
// typed values for schema columns; Other carries every unclaimed input key.
type LeadRecord struct {
	Columns map[string]interface{}
	Other   map[string]interface{}
}

// PropertyURL returns the record's natural key, or "" when unset.
func (r LeadRecord) PropertyURL() string {
	if v, ok := r.Columns["property_url"].(string); ok {
		return v
	}
	return ""
}
