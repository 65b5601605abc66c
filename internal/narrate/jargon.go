package narrate

import "strings"

// replacement is one row of the jargon-simplification table.
type replacement struct {
	technical string
	plain     string
}

// jargonTable maps technical phrasing to plain language. Rows are applied
// in order with simple substring replacement; the table is not
// overlapping-aware, so longer phrases must appear before their parts.
var jargonTable = []replacement{
	{"type 1 diabetes mellitus", "Type 1 Diabetes"},
	{"T1DM", "Type 1 Diabetes"},
	{"insulin-dependent diabetes", "Type 1 Diabetes"},
	{"beta cells", "insulin-producing cells"},
	{"β-cells", "insulin-producing cells"},
	{"pancreatic beta cells", "insulin-producing cells in the pancreas"},
	{"autoimmune", "immune system"},
	{"immune-mediated", "immune system"},
	{"glucose", "blood sugar"},
	{"glycemic control", "blood sugar control"},
	{"glycaemic", "blood sugar"},
	{"clinical trial", "research study"},
	{"randomized controlled trial", "research study"},
	{"efficacy", "effectiveness"},
	{"subcutaneous", "under the skin"},
	{"administration", "given"},
	{"cytotoxic T lymphocyte", "immune cell"},
	{"infiltration", "attack"},
	{"characterized by", "marked by"},
	{"supplementation of exogenous", "taking external"},
	{"endogenous", "natural"},
	{"pharmacokinetics", "how the body processes medicine"},
	{"pharmacodynamics", "how medicine affects the body"},
	{"pathophysiology", "how the disease works"},
	{"etiology", "causes"},
	{"pathogenesis", "disease development"},
	{"comorbidities", "other health conditions"},
	{"morbidity", "illness"},
	{"mortality", "death rates"},
	{"incidence", "new cases"},
	{"prevalence", "total cases"},
	{"prognosis", "outlook"},
	{"remission", "disease-free period"},
	{"exacerbation", "worsening"},
	{"contraindication", "reason not to use"},
	{"adverse effects", "side effects"},
	{"placebo-controlled", "compared to inactive treatment"},
	{"double-blind", "neither patients nor doctors know which treatment"},
	{"multicenter", "conducted at multiple locations"},
	{"prospective", "forward-looking"},
	{"retrospective", "looking back at past data"},
	{"cohort", "group of people"},
	{"longitudinal", "over time"},
	{"cross-sectional", "at one point in time"},
}

// simplifyJargon rewrites technical terms into family-friendly language.
func simplifyJargon(text string) string {
	for _, r := range jargonTable {
		text = strings.ReplaceAll(text, r.technical, r.plain)
	}
	return text
}
