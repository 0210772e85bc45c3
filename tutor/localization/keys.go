package localization

// Key names one translatable UI string.
type Key string

const (
	HeaderTitle       Key = "header.title"
	HeaderSubtitle    Key = "header.subtitle"
	HeaderByLitParlor Key = "header.byLitParlor"
	HeaderSignIn      Key = "header.signIn"
	HeaderSignOut     Key = "header.signOut"
	HeaderEchoBase    Key = "header.echoBase"
	HeaderCredits     Key = "header.credits"
	HeaderNewChat     Key = "header.newChat"
	HeaderUser        Key = "header.user"

	ChatPlaceholder       Key = "chat.placeholder"
	ChatSend              Key = "chat.send"
	ChatSending           Key = "chat.sending"
	ChatThinking          Key = "chat.thinking"
	ChatYou               Key = "chat.you"
	ChatTutor             Key = "chat.tutor"
	ChatStartConversation Key = "chat.startConversation"
	ChatError             Key = "chat.error"

	SuggestionsTitle    Key = "suggestions.title"
	SuggestionsSubtitle Key = "suggestions.subtitle"

	SignInTitle         Key = "signIn.title"
	SignInDescription   Key = "signIn.description"
	SignInButton        Key = "signIn.button"
	SignInNoAccount     Key = "signIn.noAccount"
	SignInCreateAccount Key = "signIn.createAccount"

	WelcomeGreeting     Key = "welcome.greeting"
	WelcomeBullet1      Key = "welcome.bullet1"
	WelcomeBullet2      Key = "welcome.bullet2"
	WelcomeBullet3      Key = "welcome.bullet3"
	WelcomeBullet4      Key = "welcome.bullet4"
	WelcomeBullet5      Key = "welcome.bullet5"
	WelcomeCallToAction Key = "welcome.callToAction"

	SuggestionDefault1 Key = "suggestion.default1"
	SuggestionDefault2 Key = "suggestion.default2"
	SuggestionDefault3 Key = "suggestion.default3"
	SuggestionDefault4 Key = "suggestion.default4"
	SuggestionDefault5 Key = "suggestion.default5"
	SuggestionDefault6 Key = "suggestion.default6"
)

// AllKeys lists every key each language table must define.
var AllKeys = []Key{
	HeaderTitle, HeaderSubtitle, HeaderByLitParlor, HeaderSignIn, HeaderSignOut,
	HeaderEchoBase, HeaderCredits, HeaderNewChat, HeaderUser,
	ChatPlaceholder, ChatSend, ChatSending, ChatThinking, ChatYou, ChatTutor,
	ChatStartConversation, ChatError,
	SuggestionsTitle, SuggestionsSubtitle,
	SignInTitle, SignInDescription, SignInButton, SignInNoAccount, SignInCreateAccount,
	WelcomeGreeting, WelcomeBullet1, WelcomeBullet2, WelcomeBullet3, WelcomeBullet4,
	WelcomeBullet5, WelcomeCallToAction,
	SuggestionDefault1, SuggestionDefault2, SuggestionDefault3,
	SuggestionDefault4, SuggestionDefault5, SuggestionDefault6,
}

// WelcomeBullets are the welcome list entries in display order.
var WelcomeBullets = []Key{WelcomeBullet1, WelcomeBullet2, WelcomeBullet3, WelcomeBullet4, WelcomeBullet5}

// DefaultSuggestionKeys hold the opening suggestion set in display order.
var DefaultSuggestionKeys = [6]Key{
	SuggestionDefault1, SuggestionDefault2, SuggestionDefault3,
	SuggestionDefault4, SuggestionDefault5, SuggestionDefault6,
}

var knownKeys = func() map[Key]bool {
	m := make(map[Key]bool, len(AllKeys))
	for _, k := range AllKeys {
		m[k] = true
	}
	return m
}()
