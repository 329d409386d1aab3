package l10n

import (
	"strings"

	"github.com/FaisalHanif12/PrimeForm-sub003/internal/domain"
)

// Message is a resolved notification title/body pair.
type Message struct {
	Title string
	Body  string
}

// Params are the named values substituted into {{placeholder}} slots.
type Params map[string]string

const fallbackLang = "en"

// Resolve returns the localized title and body for a notification kind.
// Resolution is pure and deterministic: exact language, then the base subtag
// ("en-GB" -> "en"), then English, and for a kind with no catalog row at all
// the general entry. Placeholders with no matching param resolve to the
// empty string; params without a placeholder are ignored.
func Resolve(kind domain.Kind, lang string, params Params) Message {
	entries, ok := catalog[kind]
	if !ok {
		entries = catalog[domain.KindGeneral]
	}
	m, ok := entries[normalize(lang)]
	if !ok {
		m = entries[fallbackLang]
	}
	return Message{
		Title: substitute(m.Title, params),
		Body:  substitute(m.Body, params),
	}
}

// Languages returns the language tags the catalog carries for every kind.
func Languages() []string {
	return []string{"en", "ur"}
}

// normalize lowercases a BCP 47 tag and strips everything after the base
// subtag, so "en-GB" and "ur_PK" match their catalog rows.
func normalize(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if i := strings.IndexAny(lang, "-_"); i > 0 {
		lang = lang[:i]
	}
	if lang == "" {
		return fallbackLang
	}
	return lang
}

// substitute replaces every {{name}} slot with its param value.
func substitute(s string, params Params) string {
	var b strings.Builder
	for {
		start := strings.Index(s, "{{")
		if start < 0 {
			b.WriteString(s)
			return b.String()
		}
		end := strings.Index(s[start:], "}}")
		if end < 0 {
			b.WriteString(s)
			return b.String()
		}
		end += start
		b.WriteString(s[:start])
		key := strings.TrimSpace(s[start+2 : end])
		b.WriteString(params[key])
		s = s[end+2:]
	}
}

var catalog = map[domain.Kind]map[string]Message{
	domain.KindWelcome: {
		"en": {
			Title: "Welcome to PrimeForm!",
			Body:  "Hi {{name}}, your fitness journey starts now. Let's set up your first plan.",
		},
		"ur": {
			Title: "پرائم فارم میں خوش آمدید!",
			Body:  "سلام {{name}}، آپ کا فٹنس سفر اب شروع ہوتا ہے۔ آئیے اپنا پہلا پلان ترتیب دیں۔",
		},
	},
	domain.KindDietPlanCreated: {
		"en": {
			Title: "Your diet plan is ready",
			Body:  "{{name}}, your personalized diet plan has been created. Open the app to see today's meals.",
		},
		"ur": {
			Title: "آپ کا ڈائیٹ پلان تیار ہے",
			Body:  "{{name}}، آپ کا ذاتی ڈائیٹ پلان بن چکا ہے۔ آج کے کھانے دیکھنے کے لیے ایپ کھولیں۔",
		},
	},
	domain.KindWorkoutPlanCreated: {
		"en": {
			Title: "Your workout plan is ready",
			Body:  "{{name}}, your personalized workout plan has been created. Time for your first session.",
		},
		"ur": {
			Title: "آپ کا ورزش پلان تیار ہے",
			Body:  "{{name}}، آپ کا ذاتی ورزش پلان بن چکا ہے۔ اپنے پہلے سیشن کی تیاری کریں۔",
		},
	},
	domain.KindGeneral: {
		"en": {
			Title: "PrimeForm",
			Body:  "You have a new notification from PrimeForm.",
		},
		"ur": {
			Title: "پرائم فارم",
			Body:  "پرائم فارم کی طرف سے آپ کے لیے ایک نئی اطلاع ہے۔",
		},
	},
	domain.KindBadgeEarned: {
		"en": {
			Title: "Achievement unlocked!",
			Body:  "Congratulations {{name}}! You earned the {{badge_type}} badge. Keep it up!",
		},
		"ur": {
			Title: "کامیابی حاصل ہوئی!",
			Body:  "مبارک ہو {{name}}! آپ نے {{badge_type}} بیج حاصل کیا۔ اسی طرح جاری رکھیں!",
		},
	},
	domain.KindDietReminder: {
		"en": {
			Title: "Diet check-in",
			Body:  "{{name}}, don't forget to log today's meals and stay on track with your diet plan.",
		},
		"ur": {
			Title: "ڈائیٹ یاد دہانی",
			Body:  "{{name}}، آج کے کھانے لاگ کرنا نہ بھولیں اور اپنے ڈائیٹ پلان پر قائم رہیں۔",
		},
	},
	domain.KindWorkoutReminder: {
		"en": {
			Title: "Workout time",
			Body:  "{{name}}, your workout for today is waiting. A short session still counts.",
		},
		"ur": {
			Title: "ورزش کا وقت",
			Body:  "{{name}}، آج کی ورزش آپ کا انتظار کر رہی ہے۔ مختصر سیشن بھی شمار ہوتا ہے۔",
		},
	},
	domain.KindGymReminder: {
		"en": {
			Title: "Gym session",
			Body:  "Time to hit the gym, {{name}}! Your schedule has a session today.",
		},
		"ur": {
			Title: "جم سیشن",
			Body:  "{{name}}، جم جانے کا وقت ہو گیا! آج آپ کے شیڈول میں ایک سیشن ہے۔",
		},
	},
	domain.KindStreakBrokenReminder: {
		"en": {
			Title: "Your streak needs you",
			Body:  "{{name}}, your {{streak}}-day streak just broke. Log one activity today to start a new one.",
		},
		"ur": {
			Title: "آپ کی اسٹریک ٹوٹ گئی",
			Body:  "{{name}}، آپ کی {{streak}} دن کی اسٹریک ٹوٹ گئی۔ نئی شروعات کے لیے آج ایک سرگرمی لاگ کریں۔",
		},
	},
}
