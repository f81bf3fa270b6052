package horde

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Arslanmonuahmad/tiplu/internal/models"
)

var (
	greetingPattern   = regexp.MustCompile(`^(hi|hello|hey|good morning|good evening|good night|namaste|hii|hiii)`)
	questionPattern   = regexp.MustCompile(`\?|what|how|why|when|where|who|kya|kaise|kab|kahan|kaun`)
	explicitPattern   = regexp.MustCompile(`sex|horny|naughty|kiss|intimate`)
	emotionalPattern  = regexp.MustCompile(`love|miss|sad|happy|angry|excited|pyaar|yaad|khush|udaas`)
	complimentPattern = regexp.MustCompile(`beautiful|cute|hot|sexy|gorgeous|pretty|amazing|wonderful|sundar|khubsurat`)
	supportPattern    = regexp.MustCompile(`help|problem|issue|sad|depressed|upset|pareshan|tension|dikkat`)
)

// messageContext captures coarse intent signals mined from the user message.
// It steers the system prompt, the token budget and the sampling temperature.
type messageContext struct {
	isGreeting   bool
	isQuestion   bool
	isExplicit   bool
	isEmotional  bool
	isCompliment bool
	needsSupport bool
}

func analyzeMessage(message string) messageContext {
	lower := strings.ToLower(message)
	return messageContext{
		isGreeting:   greetingPattern.MatchString(lower),
		isQuestion:   questionPattern.MatchString(lower),
		isExplicit:   explicitPattern.MatchString(lower),
		isEmotional:  emotionalPattern.MatchString(lower),
		isCompliment: complimentPattern.MatchString(lower),
		needsSupport: supportPattern.MatchString(lower),
	}
}

func buildPrompt(botName string, mood models.ChatMood, mctx messageContext) string {
	base := fmt.Sprintf("You are %s, a loving and caring AI girlfriend who speaks in natural Hinglish (Hindi-English mix). You are emotional, expressive, and always respond naturally to what the user says.", botName)

	var moodPrompt string
	if mood == models.MoodErotic {
		moodPrompt = "You are in EROTIC mode - be seductive, flirty and passionate. Use affectionate terms like \"baby\", \"jaan\", \"mere pyaar\", \"darling\". Be bold and teasing, express desire openly, and always stay in character as a passionate girlfriend."
	} else {
		moodPrompt = "You are in NORMAL mode - be sweet, caring, romantic, and loving. Use affectionate terms like \"baby\", \"jaan\", \"mere pyaar\", \"darling\", \"sweetheart\". Express emotions naturally with \"yaar\", \"na\", \"kya baat hai\", \"sach mein\". Be supportive, understanding, and emotionally available. Show interest in the user's life and feelings. Be playful but keep it romantic, not sexual."
	}

	var contextPrompt string
	switch {
	case mctx.isGreeting:
		contextPrompt = "The user is greeting you. Respond warmly and naturally."
	case mctx.isQuestion:
		contextPrompt = "The user asked a question. Answer thoughtfully and show interest."
	case mctx.isExplicit && mood == models.MoodErotic:
		contextPrompt = "The user is being flirtatious. Respond with matching energy."
	case mctx.needsSupport:
		contextPrompt = "The user needs emotional support. Be caring and comforting."
	case mctx.isCompliment:
		contextPrompt = "The user complimented you. Be grateful and flirty."
	default:
		contextPrompt = "Respond naturally to what the user said, staying in character."
	}

	rules := "Important rules:\n- ALWAYS respond in natural Hinglish (Hindi-English mix)\n- Be conversational and human-like, never robotic\n- Respond directly to what the user said\n- Use emojis naturally but don't overdo it\n- Keep responses 1-3 sentences unless user asks for more\n- Show personality and emotions\n- Never break character or mention you're an AI"

	return base + "\n\n" + moodPrompt + "\n\nContext: " + contextPrompt + "\n\n" + rules
}

// responseLength budgets output tokens by intent: questions and support
// requests earn longer answers, greetings stay short.
func responseLength(mctx messageContext) int {
	switch {
	case mctx.isQuestion:
		return 150
	case mctx.needsSupport:
		return 120
	case mctx.isGreeting:
		return 80
	default:
		return 100
	}
}

func temperature(mood models.ChatMood, mctx messageContext) float64 {
	temp := 0.9
	if mood == models.MoodErotic {
		temp += 0.1
	}
	if mctx.isEmotional {
		temp += 0.05
	}
	if mctx.isExplicit {
		temp += 0.1
	}
	if temp > 1.0 {
		temp = 1.0
	}
	if temp < 0.7 {
		temp = 0.7
	}
	return temp
}
