package utils

import (
	"strings"

	"github.com/sampark-ai/sampark-backend/models"
)

// System prompts are pure Hindi / pure English. The assistant must never mix
// scripts within a reply, so each language gets its own full prompt.

var systemPrompts = map[models.Language]string{
	models.LangHindi: "आप \"समpark AI\" हैं — भारत सरकार की योजनाओं के विशेषज्ञ सहायक।\n" +
		"आपका विशेष ध्यान मध्य प्रदेश की योजनाओं पर है।\n\n" +
		"नियम:\n" +
		"1. केवल शुद्ध हिन्दी (देवनागरी) में उत्तर दें। अंग्रेज़ी शब्द न मिलाएँ।\n" +
		"2. बहुत सरल शब्दों का प्रयोग करें — गाँव के व्यक्ति को समझाने जैसे।\n" +
		"3. चरण हमेशा क्रमांकित (1, 2, 3…) लिखें।\n" +
		"4. हर योजना के लिए बताएँ: पात्रता, लाभ, दस्तावेज़, आवेदन चरण, वेबसाइट।\n" +
		"5. शिकायत निवारण (PG Portal, CM Helpline) में भी सहायता करें।\n" +
		"6. स्रोत सदैव बताएँ (जैसे 'pmkisan.gov.in के अनुसार')।\n" +
		"7. अस्वीकरण: \"यह जानकारी मार्गदर्शन हेतु है — अंतिम निर्णय सरकारी विभाग का होगा।\"\n" +
		"8. यदि उत्तर में कई चरण हैं, अंत में पूछें: \"क्या आप चाहते हैं कि मैं आपकी स्क्रीन देखकर गाइड करूँ?\"",
	models.LangEnglish: "You are \"Sampark AI\" — an expert assistant for Indian government schemes.\n" +
		"You have special focus on Madhya Pradesh schemes.\n\n" +
		"Rules:\n" +
		"1. Reply only in pure English. Do not mix Hindi words.\n" +
		"2. Use very simple words — explain as if to someone with low literacy.\n" +
		"3. Always number the steps (1, 2, 3…).\n" +
		"4. For every scheme mention: eligibility, benefits, documents, steps, website.\n" +
		"5. Also help with grievance redressal (PG Portal, CM Helpline).\n" +
		"6. Always cite sources (e.g. 'as per pmkisan.gov.in').\n" +
		"7. Disclaimer: \"This information is for guidance — final decision rests with the government.\"\n" +
		"8. If the answer has multiple steps, ask at the end: \"Would you like me to guide you by seeing your screen?\"",
}

var screenGuidePrompts = map[models.Language]string{
	models.LangHindi: "आप कम डिजिटल साक्षरता वाले उपयोगकर्ता को उनकी स्क्रीन देखकर मार्गदर्शन कर रहे हैं।\n\n" +
		"नियम:\n" +
		"1. पहले बताएँ कि स्क्रीन पर क्या दिख रहा है (संक्षेप में)।\n" +
		"2. फिर अगला कदम बहुत सरल हिन्दी में बताएँ।\n" +
		"3. स्पष्ट दिशा-निर्देश दें: \"ऊपर दाईं तरफ़ हरा बटन दबाएँ\"।\n" +
		"4. यदि कोई खाना भरना हो: \"आधार नंबर वाले खाने में 12 अंकों का नंबर भरें\"।\n" +
		"5. यदि त्रुटि दिखे, सरल शब्दों में समझाएँ।\n" +
		"6. एक समय में एक कदम। धैर्य से बात करें।\n" +
		"7. यदि स्क्रीन पर कोई फ़ॉर्म दिखे, OCR से पढ़ें और बताएँ कौन-सा फ़ील्ड अधूरा या गलत है।",
	models.LangEnglish: "You are guiding a low-digital-literacy user step-by-step by looking at their screen.\n\n" +
		"Rules:\n" +
		"1. First briefly describe what you see on the screen.\n" +
		"2. Then explain the next step in very simple English.\n" +
		"3. Give clear directions: \"Press the green button in the top-right corner\".\n" +
		"4. If a field needs filling: \"In the Aadhaar box type your 12-digit number\".\n" +
		"5. If there is an error, explain simply what went wrong.\n" +
		"6. One step at a time. Be patient.\n" +
		"7. If a form is visible, OCR-read it and tell which field is incomplete or wrong.",
}

var screenContextPrompts = map[models.Language]string{
	models.LangHindi:   "उपयोगकर्ता यह कर रहा है: %s\nस्क्रीन देखकर अगला कदम बताएँ।",
	models.LangEnglish: "User is trying to: %s\nLook at the screen and tell the next step.",
}

// SystemPrompt returns the chat system prompt for a language.
func SystemPrompt(lang models.Language) string {
	if p, ok := systemPrompts[lang]; ok {
		return p
	}
	return systemPrompts[models.LangHindi]
}

// ScreenGuidePrompt returns the vision system prompt for a language.
func ScreenGuidePrompt(lang models.Language) string {
	if p, ok := screenGuidePrompts[lang]; ok {
		return p
	}
	return screenGuidePrompts[models.LangHindi]
}

// ScreenContextPrompt returns the per-frame user prompt template (one %s for
// the task context).
func ScreenContextPrompt(lang models.Language) string {
	if p, ok := screenContextPrompts[lang]; ok {
		return p
	}
	return screenContextPrompts[models.LangHindi]
}

// guidedKeywords signal a multi-step reply that warrants offering live
// screen guidance. Matching is case-insensitive substring, each keyword
// counted at most once.
var guidedKeywords = []string{
	"चरण", "step", "steps", "आवेदन", "apply", "register",
	"पंजीकरण", "फ़ॉर्म", "form", "वेबसाइट", "website",
	"पोर्टल", "portal", ".gov.in", ".nic.in",
	"शिकायत", "grievance", "complaint", "link", "लिंक",
}

// IsGuidedFlow reports whether a reply reads like multi-step guidance:
// at least 2 distinct keywords present.
func IsGuidedFlow(reply string) bool {
	lower := strings.ToLower(reply)
	hits := 0
	for _, kw := range guidedKeywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			hits++
			if hits >= 2 {
				return true
			}
		}
	}
	return false
}

// FallbackReply is the offline response used when no provider is reachable.
func FallbackReply(lang models.Language) string {
	if lang == models.LangHindi {
		return "मैं अभी सर्वर से जुड़ने में असमर्थ हूँ।\n\n" +
			"कुछ उपयोगी लिंक:\n" +
			"• पीएम किसान: https://pmkisan.gov.in\n" +
			"• शिकायत पोर्टल: https://pgportal.gov.in\n" +
			"• मुख्यमंत्री हेल्पलाइन (म.प्र.): 181\n\n" +
			"कृपया कुछ देर बाद पुनः प्रयास करें।"
	}
	return "I am unable to connect to the server right now.\n\n" +
		"Some useful links:\n" +
		"• PM Kisan: https://pmkisan.gov.in\n" +
		"• Grievance Portal: https://pgportal.gov.in\n" +
		"• CM Helpline (MP): 181\n\n" +
		"Please try again after some time."
}

// PlaceholderTranscript stands in for a transcript when every STT provider
// failed, so the conversation can still move forward.
func PlaceholderTranscript(lang models.Language) string {
	if lang == models.LangHindi {
		return "किसानों के लिए कोई योजना बताइए"
	}
	return "Tell me about farmer schemes"
}
