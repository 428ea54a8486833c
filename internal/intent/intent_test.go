package intent

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swasthyasaathi/bot/internal/models"
)

func TestClassify_GreetingTokens(t *testing.T) {
	for _, text := range []string{"hi", "Hello", "  START  ", "नमस्ते"} {
		in := Classify(text, models.PhaseReady)
		assert.Equal(t, Greeting, in.Kind, "text %q", text)
	}
}

func TestClassify_ForcedGreetingWhileUnconsented(t *testing.T) {
	// Anything but a consent answer classifies as a greeting until
	// consent is given, even text that matches a later rule.
	for _, text := range []string{"560001", "menu", "vaccination", "01-01-2024", "dengue", "random words"} {
		in := Classify(text, models.PhaseNew)
		assert.Equal(t, Greeting, in.Kind, "text %q", text)
	}
}

func TestClassify_ConsentAnswersReachableWhileUnconsented(t *testing.T) {
	assert.Equal(t, ConsentAffirm, Classify("consent_yes", models.PhaseNew).Kind)
	assert.Equal(t, ConsentAffirm, Classify("yes", models.PhaseNew).Kind)
	assert.Equal(t, ConsentAffirm, Classify("haan", models.PhaseNew).Kind)
	assert.Equal(t, ConsentDecline, Classify("consent_no", models.PhaseNew).Kind)
	assert.Equal(t, ConsentDecline, Classify("no", models.PhaseNew).Kind)
}

func TestClassify_SetLanguage(t *testing.T) {
	in := Classify("lang_en", models.PhaseLanguageUnset)
	require.Equal(t, SetLanguage, in.Kind)
	assert.Equal(t, models.English, in.Language)

	in = Classify("हिंदी", models.PhaseLanguageUnset)
	require.Equal(t, SetLanguage, in.Kind)
	assert.Equal(t, models.Hindi, in.Language)
}

func TestClassify_Pincode(t *testing.T) {
	in := Classify("560001", models.PhaseLocationUnset)
	require.Equal(t, CapturePincode, in.Kind)
	assert.Equal(t, "560001", in.Pincode)

	// Leading zero, too short, too long: not a pincode.
	for _, text := range []string{"012345", "12345", "1234567"} {
		in := Classify(text, models.PhaseLocationUnset)
		assert.NotEqual(t, CapturePincode, in.Kind, "text %q", text)
		assert.Equal(t, Fallback, in.Kind, "text %q", text)
	}
}

func TestClassify_ChildDOB(t *testing.T) {
	in := Classify("01-01-2024", models.PhaseReady)
	require.Equal(t, CaptureChildDOB, in.Kind)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), in.DOB)

	in = Classify("29/02/2024", models.PhaseReady)
	require.Equal(t, CaptureChildDOB, in.Kind, "2024 is a leap year")
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), in.DOB)
}

func TestClassify_InvalidCalendarDateFallsThrough(t *testing.T) {
	// Pattern matches but the date does not exist; never an error,
	// just the next matching rule (here: fallback).
	for _, text := range []string{"31-02-2024", "29-02-2023", "00-01-2024", "15-13-2024"} {
		in := Classify(text, models.PhaseReady)
		assert.Equal(t, Fallback, in.Kind, "text %q", text)
	}
}

func TestClassify_MenuAndVaccination(t *testing.T) {
	assert.Equal(t, MenuRequest, Classify("menu", models.PhaseReady).Kind)
	assert.Equal(t, MenuRequest, Classify("मदद", models.PhaseReady).Kind)
	assert.Equal(t, VaccinationMenuRequest, Classify("vaccination", models.PhaseReady).Kind)
	assert.Equal(t, VaccinationMenuRequest, Classify("vaccination_reminder", models.PhaseReady).Kind)
}

func TestClassify_Topics(t *testing.T) {
	cases := map[string]string{
		"dengue":   "dengue_prevention",
		"seasonal": "dengue_prevention",
		"डेंगू":    "dengue_prevention",
		"diarrhea": "diarrhea_prevention",
		"जलजनित":   "diarrhea_prevention",
		"maternal": "maternal_iron_folate",
		"iron":     "maternal_iron_folate",
		"folate":   "maternal_iron_folate",
	}
	for text, topic := range cases {
		in := Classify(text, models.PhaseReady)
		require.Equal(t, TopicRequest, in.Kind, "text %q", text)
		assert.Equal(t, topic, in.Topic, "text %q", text)
	}
}

func TestClassify_Alerts(t *testing.T) {
	assert.Equal(t, AlertsRequest, Classify("alerts", models.PhaseReady).Kind)
	assert.Equal(t, AlertsRequest, Classify("local", models.PhaseReady).Kind)
}

func TestClassify_SafetyRedirect(t *testing.T) {
	// Substring match, unlike every exact-token rule above it.
	for _, text := range []string{"i have fever since morning", "stomach pain", "बुखार है", "vomiting all night"} {
		in := Classify(text, models.PhaseReady)
		assert.Equal(t, SafetyRedirect, in.Kind, "text %q", text)
	}
}

func TestClassify_ExactTokenBeatsSymptomSubstring(t *testing.T) {
	// "menu" is an exact-token rule and wins even though checking
	// symptoms first would also be a miss here; the pinned order is
	// the contract.
	assert.Equal(t, MenuRequest, Classify("menu", models.PhaseReady).Kind)
}

func TestClassify_Fallback(t *testing.T) {
	assert.Equal(t, Fallback, Classify("what is this", models.PhaseReady).Kind)
	assert.Equal(t, Fallback, Classify("", models.PhaseReady).Kind)
}

func TestClassify_Pure(t *testing.T) {
	first := Classify("dengue", models.PhaseReady)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Classify("dengue", models.PhaseReady))
	}
}
