package narrate

import (
	"fmt"
	"strings"

	"t1ddigest/internal/domain"
)

// phasePhrases maps registry phase enums to the human phrase used inside
// trial summaries.
var phasePhrases = map[string]string{
	"PHASE1": "early safety testing",
	"PHASE2": "effectiveness testing",
	"PHASE3": "large-scale testing before approval",
	"PHASE4": "post-approval monitoring",
}

const defaultPhasePhrase = "research study"

// drugTemplate is one row of the trial-summary table: the first row whose
// terms all/any appear in the lowercased title wins.
type drugTemplate struct {
	anyOf   []string
	allOf   []string
	summary func(phaseDesc string) string
}

var drugTemplates = []drugTemplate{
	{
		anyOf: []string{"teplizumab"},
		summary: func(phaseDesc string) string {
			return fmt.Sprintf("Teplizumab is an FDA-approved medication that can delay Type 1 Diabetes in people at high risk. This %s is testing its effectiveness in a new population to see if it can preserve natural insulin production longer.", phaseDesc)
		},
	},
	{
		anyOf: []string{"frexalimab", "cd40l"},
		summary: func(phaseDesc string) string {
			return fmt.Sprintf("This %s is testing a new immune-modulating drug designed to protect insulin-producing cells from attack. If successful, it could help people keep their natural insulin production longer after diagnosis.", phaseDesc)
		},
	},
	{
		anyOf: []string{"diamyd"},
		summary: func(phaseDesc string) string {
			return "Diamyd is investigating whether a vaccine-like treatment can help preserve insulin production in people with specific genetics (HLA DR3-DQ2). This personalized approach targets only those most likely to benefit."
		},
	},
	{
		allOf: []string{"tirzepatide", "type 1"},
		summary: func(phaseDesc string) string {
			return fmt.Sprintf("This %s is testing whether Tirzepatide (a medication approved for Type 2 Diabetes and weight loss) can help people with Type 1 Diabetes who are also managing weight issues. It could be a dual-benefit treatment.", phaseDesc)
		},
	},
	{
		anyOf: []string{"weight", "obesity"},
		summary: func(phaseDesc string) string {
			return fmt.Sprintf("This %s focuses on weight management for people with Type 1 Diabetes. Managing weight can improve insulin sensitivity and overall health outcomes.", phaseDesc)
		},
	},
	{
		anyOf: []string{"stem cell", "regeneration"},
		summary: func(phaseDesc string) string {
			return fmt.Sprintf("This %s is exploring stem cell therapy to regenerate insulin-producing cells. This approach aims to restore the body's natural ability to produce insulin.", phaseDesc)
		},
	},
	{
		anyOf: []string{"immunotherapy", "immune"},
		summary: func(phaseDesc string) string {
			return fmt.Sprintf("This %s is testing immunotherapy approaches to modify the immune system's attack on insulin-producing cells. The goal is to slow or stop the disease process.", phaseDesc)
		},
	},
}

// trialSummary renders the phase-aware summary for a registry record.
func trialSummary(title, phase string, priority domain.Priority) string {
	phaseDesc, ok := phasePhrases[phase]
	if !ok {
		phaseDesc = defaultPhasePhrase
	}

	lower := strings.ToLower(title)
	for _, tmpl := range drugTemplates {
		if tmpl.matches(lower) {
			return tmpl.summary(phaseDesc)
		}
	}

	urgency := "interesting"
	if priority == domain.PriorityHigh {
		urgency = "promising"
	}
	return fmt.Sprintf("This %s %s is testing a new treatment approach for Type 1 Diabetes. Clinical trials are how we discover better treatments and move closer to a cure.", urgency, phaseDesc)
}

func (t drugTemplate) matches(title string) bool {
	return matchTerms(title, t.anyOf, t.allOf)
}

// matchTerms reports whether title contains every allOf term and, when
// anyOf is non-empty, at least one anyOf term.
func matchTerms(title string, anyOf, allOf []string) bool {
	for _, term := range allOf {
		if !strings.Contains(title, term) {
			return false
		}
	}
	if len(anyOf) == 0 {
		return len(allOf) > 0
	}
	for _, term := range anyOf {
		if strings.Contains(title, term) {
			return true
		}
	}
	return false
}

// topicTemplate is one row of the research-summary tree. Rows are mutually
// exclusive and evaluated in order.
type topicTemplate struct {
	anyOf   []string
	allOf   []string
	summary string
}

var researchTemplates = []topicTemplate{
	{
		anyOf:   []string{"exosome", "delivery", "nanoparticle", "monocyte backpack"},
		summary: "Researchers are testing a new way to deliver medicine that could protect insulin-producing cells. They're using tiny 'packages' that can carry healing treatments directly where they're needed most.",
	},
	{
		anyOf:   []string{"insulin delivery", "closed-loop", "automated", "artificial pancreas"},
		summary: "This study looked at automatic insulin delivery systems - like an 'artificial pancreas' that adjusts insulin automatically without manual input. These systems can help keep blood sugar levels more stable with less effort.",
	},
	{
		anyOf:   []string{"glucose monitoring", "cgm", "continuous glucose"},
		summary: "This study examined continuous glucose monitoring systems and how they're being used in real-world settings. These devices help track blood sugar levels 24/7 without finger pricks.",
	},
	{
		allOf:   []string{"transition", "adult care"},
		summary: "This research focuses on what happens when young people with Type 1 Diabetes move from pediatric care to adult care. It's studying how to make this transition smoother and keep people healthy during this important life change.",
	},
	{
		anyOf:   []string{"pediatric", "children", "adolescent"},
		summary: "This study specifically looked at how Type 1 Diabetes affects children and teenagers, and what treatments work best for this age group. Understanding pediatric diabetes helps improve care for young people.",
	},
	{
		anyOf:   []string{"quality of life", "mental health", "depression", "anxiety", "distress"},
		summary: "This research examined the emotional and psychological impact of living with Type 1 Diabetes. Understanding these challenges helps improve overall care and support for patients and families.",
	},
	{
		anyOf:   []string{"care processes", "comorbid", "healthcare", "adherence"},
		summary: "Researchers looked at how well diabetes care is being delivered in the real world, including what other health conditions people with Type 1 Diabetes might face and how doctors can provide better comprehensive care.",
	},
	{
		anyOf:   []string{"prevention", "prediction", "risk", "screening", "early detection"},
		summary: "This study explored ways to identify people at risk for Type 1 Diabetes before symptoms appear, and potential strategies to prevent or delay the disease. Early intervention could change the course of the disease.",
	},
	{
		anyOf:   []string{"genetic", "hla", "mutation", "variant", "polymorphism"},
		summary: "This research examined the genetic factors that influence Type 1 Diabetes risk and progression. Understanding genetics helps identify who might benefit most from specific treatments.",
	},
}

const genericResearchSummary = "This research contributes to our understanding of Type 1 Diabetes and potential new treatment approaches."

// researchSummary renders the topic-tree summary for a research paper.
func researchSummary(title, abstract string) string {
	lower := strings.ToLower(title)
	for _, tmpl := range researchTemplates {
		if tmpl.matches(lower) {
			return tmpl.summary
		}
	}

	if len(abstract) > 50 {
		return fmt.Sprintf("This research %s in Type 1 Diabetes. The findings could contribute to better understanding and treatment of the disease.", keyConcept(abstract))
	}
	return genericResearchSummary
}

func (t topicTemplate) matches(title string) bool {
	return matchTerms(title, t.anyOf, t.allOf)
}

// conceptCue is one row of the key-concept extractor used by the final
// research fallback.
type conceptCue struct {
	anyOf  []string
	phrase string
}

var conceptCues = []conceptCue{
	{[]string{"improved", "better"}, "explored ways to improve treatment outcomes"},
	{[]string{"reduced", "decreased"}, "investigated ways to reduce complications"},
	{[]string{"increased", "enhanced"}, "studied methods to enhance quality of life"},
	{[]string{"novel", "new"}, "tested new treatment approaches"},
	{[]string{"mechanism", "pathway"}, "investigated disease mechanisms"},
}

func keyConcept(abstract string) string {
	lower := strings.ToLower(abstract)
	for _, cue := range conceptCues {
		for _, term := range cue.anyOf {
			if strings.Contains(lower, term) {
				return cue.phrase
			}
		}
	}
	return "examined important aspects of the disease"
}
