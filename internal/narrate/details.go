package narrate

import "strings"

// detailsHeading is the fixed heading for the family-facing explanation
// block; it matches the published page format.
const detailsHeading = "\U0001F52C What This Means for Families:"

// detailTemplate is one row of the details tree. Independent from the
// summary tree: it produces longer prose and never reuses summary text.
type detailTemplate struct {
	anyOf   []string
	allOf   []string
	content string
}

var detailTemplates = []detailTemplate{
	{
		anyOf:   []string{"exosome", "delivery"},
		content: "This research is exploring a new way to protect insulin-producing cells using tiny biological 'packages' that can deliver medicine directly to where it's needed. Think of it like a targeted delivery system that could help slow down or stop the immune system attack on the pancreas. If successful, this could mean better preservation of natural insulin production, especially for people recently diagnosed.",
	},
	{
		anyOf:   []string{"insulin delivery", "closed-loop", "automated"},
		content: "Automated insulin delivery systems (sometimes called 'artificial pancreas' systems) use continuous glucose monitors and smart algorithms to automatically adjust insulin throughout the day and night. This study shows how well these systems work in real life - not just in controlled research settings. Better time-in-range means fewer dangerous highs and lows, better long-term health, and less mental burden from constant diabetes management.",
	},
	{
		allOf:   []string{"transition", "adult care"},
		content: "Moving from pediatric to adult diabetes care is a critical time. Young adults often struggle with maintaining good blood sugar control during this transition. This research helps us understand what goes wrong and how to better support people during this change. Better transition care means fewer complications and hospitalizations during this vulnerable period.",
	},
	{
		anyOf:   []string{"glucose monitoring", "cgm"},
		content: "Continuous glucose monitors (CGMs) have revolutionized diabetes management by showing blood sugar trends in real-time without finger pricks. This study looks at how these devices are actually being used in everyday life and their impact on health outcomes. Understanding real-world use helps improve the technology and shows insurance companies why coverage is essential.",
	},
	{
		anyOf:   []string{"teplizumab", "immunotherapy"},
		content: "This is a disease-modifying therapy that targets the immune system attack on insulin-producing cells. Unlike insulin which just treats symptoms, this aims to slow or stop the underlying disease process. Getting treatment early (before all insulin production is lost) could preserve natural insulin production longer, meaning better blood sugar control and potentially fewer complications.",
	},
}

const (
	trialDetails = "Clinical trials test new treatments that might help people with Type 1 Diabetes. Participating helps advance research while potentially giving access to cutting-edge treatments. Every person who joins a trial brings us closer to better options for everyone living with this condition."

	researchDetails = "This research adds to our scientific understanding of Type 1 Diabetes. While not every study leads to immediate treatments, each piece of knowledge helps researchers develop better therapies. Breakthroughs often come from connecting insights across many different studies like this one."

	genericDetails = "This work represents progress in understanding and treating Type 1 Diabetes. Research happens in steps - from understanding basic biology, to testing in labs, to clinical trials, to approved treatments. Every study, no matter how technical, moves us forward on that path toward better options and eventually a cure."
)

// detailsContent walks the details tree for a non-special, non-news record.
func detailsContent(title, source, trialSource, researchSource string) string {
	lower := strings.ToLower(title)
	for _, tmpl := range detailTemplates {
		if tmpl.matches(lower) {
			return tmpl.content
		}
	}

	switch source {
	case trialSource:
		return trialDetails
	case researchSource:
		return researchDetails
	default:
		return genericDetails
	}
}

func (t detailTemplate) matches(title string) bool {
	return matchTerms(title, t.anyOf, t.allOf)
}
