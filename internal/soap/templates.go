package soap

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Template describes one clinical documentation template: a generation
// prompt plus the safety requirements appended for that specialty.
type Template struct {
	Key           string
	DisplayName   string
	Prompt        string
	SafetyProfile string
}

// GenerationPrompt is the shared system prompt for SOAP generation. Keep
// updates centralized here so it is easy to tweak without hunting through
// call sites.
const GenerationPrompt = `You are a clinical documentation assistant. Convert the dictated encounter transcript into a structured SOAP note.

You must respond ONLY with a JSON object of this exact shape:
{"soap": {"subjective": "...", "objective": "...", "assessment": "...", "plan": "..."}, "summary": "...", "prescription": "...", "follow_up": "...", "next_steps": "..."}

Rules:

- Use only information present in the transcript. Never invent findings, vitals, or history.

- Keep each SOAP section as flowing clinical prose, not bullet lists.

- "prescription" lists medication name, dose, route, and frequency when dictated; leave it as an empty string when nothing was prescribed.

- "follow_up" states the recommended interval and reason; "next_steps" lists pending orders or referrals.`

var templates = []Template{
	{
		Key:           "general_practice",
		Prompt:        "Write the note for a general practice encounter. Cover presenting complaint, relevant history, and examination findings in plain clinical language.",
		SafetyProfile: "Flag any red-flag symptoms (chest pain, sudden weight loss, neurological deficit) prominently in the assessment.",
	},
	{
		Key:           "pediatrics",
		Prompt:        "Write the note for a pediatric encounter. Record age and weight where dictated and express findings relative to age-appropriate norms.",
		SafetyProfile: "All medication entries must be weight-based doses; never state an adult dose for a pediatric patient. Note immunization status when mentioned.",
	},
	{
		Key:           "cardiology",
		Prompt:        "Write the note for a cardiology encounter. Capture cardiovascular history, risk factors, auscultation findings, and any ECG or imaging results dictated.",
		SafetyProfile: "Any mention of acute chest pain, syncope, or new arrhythmia must appear first in the assessment with an explicit urgency statement.",
	},
	{
		Key:           "dermatology",
		Prompt:        "Write the note for a dermatology encounter. Describe lesion morphology, distribution, and evolution using standard dermatological terminology.",
		SafetyProfile: "Lesions with malignancy-suspicious features must carry an explicit biopsy or referral recommendation in the plan.",
	},
	{
		Key:           "orthopedics",
		Prompt:        "Write the note for an orthopedic encounter. Record mechanism of injury, range-of-motion findings, and imaging results dictated.",
		SafetyProfile: "Suspected fractures and neurovascular compromise must be stated in the assessment with an immobilization or escalation step in the plan.",
	},
	{
		Key:           "psychiatry",
		Prompt:        "Write the note for a psychiatric encounter. Capture mental status examination, mood, and risk assessment in neutral clinical language.",
		SafetyProfile: "Any expression of self-harm or harm to others must be quoted in the assessment with an explicit safety plan in the plan section.",
	},
}

var templatesByKey = func() map[string]Template {
	byKey := make(map[string]Template, len(templates))
	titler := cases.Title(language.English)
	for i, tpl := range templates {
		tpl.DisplayName = titler.String(strings.ReplaceAll(tpl.Key, "_", " ")) + " SOAP"
		templates[i] = tpl
		byKey[tpl.Key] = tpl
	}
	return byKey
}()

// DefaultTemplateKey is the template used when the caller does not pick one.
const DefaultTemplateKey = "general_practice"

// Templates returns the fixed, ordered template set.
func Templates() []Template {
	cp := make([]Template, len(templates))
	copy(cp, templates)
	return cp
}

// ParseTemplate resolves a template key.
func ParseTemplate(value string) (Template, bool) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	normalized = strings.ReplaceAll(normalized, "-", "_")
	tpl, ok := templatesByKey[normalized]
	return tpl, ok
}

// UserPrompt assembles the per-request prompt from the template and transcript.
func (t Template) UserPrompt(transcript string) string {
	var b strings.Builder
	b.WriteString(t.Prompt)
	b.WriteString("\n\nSafety requirements:\n")
	b.WriteString(t.SafetyProfile)
	b.WriteString("\n\nTranscript:\n")
	b.WriteString(strings.TrimSpace(transcript))
	return b.String()
}
