package router

import (
	"fmt"
	"strings"

	"github.com/swasthyasaathi/bot/internal/content"
	"github.com/swasthyasaathi/bot/internal/models"
)

// Disclaimer is appended verbatim to every content-bearing reply. Pure
// navigation prompts (menus, button prompts) go out without it.
func Disclaimer(lang models.Language) string {
	if lang == models.English {
		return "Awareness info only. Not medical advice."
	}
	return "केवल जागरूकता हेतु जानकारी। यह चिकित्सा सलाह नहीं है।"
}

func consentPrompt(to string) models.Reply {
	return models.Reply{
		To:   to,
		Body: "👋 SwasthyaSaathi — रोकथाम स्वास्थ्य जानकारी (Gov/WHO)। यह चिकित्सा सलाह नहीं है। जारी रखें?",
		Buttons: []models.Button{
			{ID: "consent_yes", Title: "हाँ / Yes"},
			{ID: "consent_no", Title: "नहीं / No"},
		},
	}
}

func languagePrompt(to string) models.Reply {
	return models.Reply{
		To:   to,
		Body: "भाषा चुनें / Choose language",
		Buttons: []models.Button{
			{ID: "lang_hi", Title: "हिंदी"},
			{ID: "lang_en", Title: "English"},
		},
	}
}

func optOutAck(to string) models.Reply {
	return models.Reply{To: to, Body: "ठीक है। आप 'hi' भेजकर फिर शुरू कर सकते हैं।"}
}

func languageSetReply(to string, lang models.Language) models.Reply {
	var body string
	if lang == models.English {
		body = "✅ Language set: English. Please send your pincode (e.g., 560001). "
	} else {
		body = "✅ भाषा सेट: हिंदी। अपना पिनकोड भेजें (उदा: 560001)। "
	}
	return models.Reply{To: to, Body: body + Disclaimer(lang)}
}

func mainMenu(to string, lang models.Language) models.Reply {
	if lang == models.English {
		return models.Reply{
			To:   to,
			Body: "What would you like?",
			Buttons: []models.Button{
				{ID: "vaccination", Title: "Vaccination reminders"},
				{ID: "seasonal", Title: "Seasonal prevention"},
				{ID: "alerts", Title: "Local alerts (demo)"},
			},
		}
	}
	return models.Reply{
		To:   to,
		Body: "आप क्या जानना चाहेंगे?",
		Buttons: []models.Button{
			{ID: "vaccination", Title: "टीकाकरण रिमाइंडर"},
			{ID: "seasonal", Title: "मौसमी बचाव"},
			{ID: "alerts", Title: "स्थानीय अलर्ट (डेमो)"},
		},
	}
}

func dobPrompt(to string, lang models.Language) models.Reply {
	var body string
	if lang == models.English {
		body = "Send child's DOB (DD-MM-YYYY). Awareness only."
	} else {
		body = "बच्चे की जन्म-तिथि भेजें (DD-MM-YYYY). केवल जागरूकता हेतु।"
	}
	return models.Reply{To: to, Body: body + " " + Disclaimer(lang)}
}

func windowsReply(to string, lang models.Language, windows []models.AwarenessWindow) models.Reply {
	lines := make([]string, len(windows))
	for i, w := range windows {
		lines[i] = fmt.Sprintf("• %s: %s → %s",
			w.Vaccine, w.Start.Format("02-Jan-2006"), w.End.Format("02-Jan-2006"))
	}

	title := "आगामी जागरूकता विंडो:\n"
	src := "स्रोत: Govt UIP (जागरूकता)। "
	if lang == models.English {
		title = "Upcoming awareness windows:\n"
		src = "Source: Govt UIP (awareness). "
	}

	return models.Reply{
		To:   to,
		Body: title + strings.Join(lines, "\n") + "\n" + src + Disclaimer(lang),
	}
}

func topicReply(to string, lang models.Language, seed content.Seed) models.Reply {
	bullets := make([]string, len(seed.Bullets))
	for i, b := range seed.Bullets {
		bullets[i] = "• " + b
	}

	body := ""
	if seed.Title != "" {
		body = seed.Title + "\n"
	}
	body += strings.Join(bullets, "\n") + "\n" + seed.Source + " " + Disclaimer(lang)

	return models.Reply{To: to, Body: body}
}

func alertsDemoReply(to string, lang models.Language) models.Reply {
	var body string
	if lang == models.English {
		body = "Local alert: (demo) No new alerts. You can trigger a mock alert via /alerts/mock."
	} else {
		body = "स्थानीय अलर्ट: (डेमो) कोई नया अलर्ट नहीं। आप /alerts/mock से मॉक अलर्ट भेज सकते हैं।"
	}
	return models.Reply{To: to, Body: body + " " + Disclaimer(lang)}
}

func safetyRedirectReply(to string, lang models.Language) models.Reply {
	var body string
	if lang == models.English {
		body = "For symptoms or emergencies, contact nearest PHC or dial 108. "
	} else {
		body = "लक्षण/आपात स्थिति में नज़दीकी PHC से संपर्क करें या 108 डायल करें। "
	}
	return models.Reply{To: to, Body: body + Disclaimer(lang)}
}

func broadcastAlertReply(to string, lang models.Language, seed content.Seed) models.Reply {
	bullets := seed.Bullets
	if len(bullets) > 3 {
		bullets = bullets[:3]
	}
	lines := make([]string, len(bullets))
	for i, b := range bullets {
		lines[i] = "• " + b
	}

	header := "🔔 स्थानीय अलर्ट (डेमो): आपके क्षेत्र में डेंगू मामलों में वृद्धि।\n"
	src := "स्रोत: राज्य स्वास्थ्य बुलेटिन (डेमो)।"
	if lang == models.English {
		header = "🔔 Local alert (demo): Recent dengue uptick in your area.\n"
		src = "Source: State health bulletin (demo)."
	}

	return models.Reply{
		To:   to,
		Body: header + strings.Join(lines, "\n") + "\n" + src + " " + Disclaimer(lang),
	}
}

func genericAlertReply(to string, lang models.Language) models.Reply {
	return models.Reply{To: to, Body: "Alert (demo). " + Disclaimer(lang)}
}
