package intent

import (
	"regexp"
	"strings"
	"time"

	"github.com/swasthyasaathi/bot/internal/models"
)

// Kind discriminates the classified meaning of one inbound event.
type Kind int

const (
	Greeting Kind = iota
	ConsentAffirm
	ConsentDecline
	SetLanguage
	CapturePincode
	MenuRequest
	VaccinationMenuRequest
	CaptureChildDOB
	TopicRequest
	AlertsRequest
	SafetyRedirect
	Fallback
)

func (k Kind) String() string {
	switch k {
	case Greeting:
		return "greeting"
	case ConsentAffirm:
		return "consent_affirm"
	case ConsentDecline:
		return "consent_decline"
	case SetLanguage:
		return "set_language"
	case CapturePincode:
		return "capture_pincode"
	case MenuRequest:
		return "menu_request"
	case VaccinationMenuRequest:
		return "vaccination_menu_request"
	case CaptureChildDOB:
		return "capture_child_dob"
	case TopicRequest:
		return "topic_request"
	case AlertsRequest:
		return "alerts_request"
	case SafetyRedirect:
		return "safety_redirect"
	default:
		return "fallback"
	}
}

// Intent is the classified meaning of one inbound event plus any
// structured value captured from the text.
type Intent struct {
	Kind     Kind
	Language models.Language // SetLanguage
	Pincode  string          // CapturePincode
	DOB      time.Time       // CaptureChildDOB
	Topic    string          // TopicRequest content seed key
}

// Bilingual token sets. Inbound text is matched after trimming and
// case-folding; button-reply ids arrive as plain tokens too.
var (
	greetingTokens = tokenSet("hi", "hello", "नमस्ते", "start")
	affirmTokens   = tokenSet("consent_yes", "y", "yes", "हाँ", "haan")
	declineTokens  = tokenSet("consent_no", "no", "नहीं")
	hindiTokens    = tokenSet("lang_hi", "हिंदी")
	englishTokens  = tokenSet("lang_en", "english")
	menuTokens     = tokenSet("menu", "help", "मदद")
	vaccineTokens  = tokenSet("vaccination", "टीकाकरण रिमाइंडर", "vaccination_reminder")
	alertsTokens   = tokenSet("alerts", "local", "स्थानीय")

	topicTokens = map[string]map[string]struct{}{
		"dengue_prevention":    tokenSet("seasonal", "मौसमी", "dengue", "डेंगू"),
		"diarrhea_prevention":  tokenSet("diarrhea", "डायरिया", "जलजनित"),
		"maternal_iron_folate": tokenSet("maternal", "मातृ", "iron", "folate"),
	}

	// Substring match, intentionally looser than every rule above it.
	symptomKeywords = []string{"fever", "pain", "vomit", "खून", "बुखार", "सरदर्द"}

	pincodeRe = regexp.MustCompile(`^[1-9][0-9]{5}$`)
	dobRe     = regexp.MustCompile(`^(\d{2})[-/](\d{2})[-/](\d{4})$`)
)

func tokenSet(tokens ...string) map[string]struct{} {
	s := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		s[t] = struct{}{}
	}
	return s
}

// rule is one matcher in the precedence table. Rules are evaluated in
// order and the first match wins; the ordering is a contract, because
// the token sets overlap across conversation phases.
type rule func(text string, phase models.Phase) (Intent, bool)

var rules = []rule{
	matchGreeting,
	matchConsent,
	matchLanguage,
	matchPincode,
	matchMenu,
	matchVaccinationMenu,
	matchChildDOB,
	matchTopic,
	matchAlerts,
	matchSafety,
}

// Classify maps one inbound text (or button-reply id) to an Intent.
// Pure: identical (text, phase) inputs always yield the same result.
// Every input maps to some Intent; Fallback is the universal catch-all.
func Classify(raw string, phase models.Phase) Intent {
	text := strings.ToLower(strings.TrimSpace(raw))
	for _, r := range rules {
		if in, ok := r(text, phase); ok {
			return in
		}
	}
	return Intent{Kind: Fallback}
}

// matchGreeting fires on greeting tokens, and additionally forces a
// greeting for any non-consent text while consent has not been given,
// so an unconsented user can only ever greet or answer the consent
// prompt.
func matchGreeting(text string, phase models.Phase) (Intent, bool) {
	if _, ok := greetingTokens[text]; ok {
		return Intent{Kind: Greeting}, true
	}
	if phase == models.PhaseNew {
		if _, yes := affirmTokens[text]; yes {
			return Intent{}, false
		}
		if _, no := declineTokens[text]; no {
			return Intent{}, false
		}
		return Intent{Kind: Greeting}, true
	}
	return Intent{}, false
}

func matchConsent(text string, _ models.Phase) (Intent, bool) {
	if _, ok := affirmTokens[text]; ok {
		return Intent{Kind: ConsentAffirm}, true
	}
	if _, ok := declineTokens[text]; ok {
		return Intent{Kind: ConsentDecline}, true
	}
	return Intent{}, false
}

func matchLanguage(text string, _ models.Phase) (Intent, bool) {
	if _, ok := hindiTokens[text]; ok {
		return Intent{Kind: SetLanguage, Language: models.Hindi}, true
	}
	if _, ok := englishTokens[text]; ok {
		return Intent{Kind: SetLanguage, Language: models.English}, true
	}
	return Intent{}, false
}

func matchPincode(text string, _ models.Phase) (Intent, bool) {
	if pincodeRe.MatchString(text) {
		return Intent{Kind: CapturePincode, Pincode: text}, true
	}
	return Intent{}, false
}

func matchMenu(text string, _ models.Phase) (Intent, bool) {
	if _, ok := menuTokens[text]; ok {
		return Intent{Kind: MenuRequest}, true
	}
	return Intent{}, false
}

func matchVaccinationMenu(text string, _ models.Phase) (Intent, bool) {
	if _, ok := vaccineTokens[text]; ok {
		return Intent{Kind: VaccinationMenuRequest}, true
	}
	return Intent{}, false
}

// matchChildDOB captures a DD-MM-YYYY (or DD/MM/YYYY) date. A string
// that matches the pattern but is not a real calendar date is not a
// match; it falls through to later rules rather than erroring.
func matchChildDOB(text string, _ models.Phase) (Intent, bool) {
	m := dobRe.FindStringSubmatch(text)
	if m == nil {
		return Intent{}, false
	}
	dob, ok := parseCalendarDate(m[1], m[2], m[3])
	if !ok {
		return Intent{}, false
	}
	return Intent{Kind: CaptureChildDOB, DOB: dob}, true
}

func parseCalendarDate(dd, mm, yyyy string) (time.Time, bool) {
	day := atoi(dd)
	month := atoi(mm)
	year := atoi(yyyy)
	if month < 1 || month > 12 || day < 1 {
		return time.Time{}, false
	}
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes out-of-range components (31-02 becomes
	// 02-03); reject anything that moved.
	if d.Year() != year || d.Month() != time.Month(month) || d.Day() != day {
		return time.Time{}, false
	}
	return d, true
}

func atoi(s string) int {
	n := 0
	for _, c := range s {
		n = n*10 + int(c-'0')
	}
	return n
}

func matchTopic(text string, _ models.Phase) (Intent, bool) {
	for topic, tokens := range topicTokens {
		if _, ok := tokens[text]; ok {
			return Intent{Kind: TopicRequest, Topic: topic}, true
		}
	}
	return Intent{}, false
}

func matchAlerts(text string, _ models.Phase) (Intent, bool) {
	if _, ok := alertsTokens[text]; ok {
		return Intent{Kind: AlertsRequest}, true
	}
	return Intent{}, false
}

// matchSafety is checked last of the keyword rules: a substring hit
// must never pre-empt an exact-token command. Whether a legitimate
// command containing a stray symptom substring should still redirect
// is unresolved; the current order reproduces the shipped behavior.
func matchSafety(text string, _ models.Phase) (Intent, bool) {
	for _, k := range symptomKeywords {
		if strings.Contains(text, k) {
			return Intent{Kind: SafetyRedirect}, true
		}
	}
	return Intent{}, false
}
