package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"historytutor/tutor/localization"
	"historytutor/tutor/orchestrator"
	"historytutor/tutor/prompts"
	"historytutor/tutor/session"
	"historytutor/tutor/utils/color"
	"historytutor/tutor/utils/currency"
	"historytutor/tutor/utils/logging"
	"historytutor/tutor/utils/types"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	markdown     bool
	openBrowsers bool
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive history conversation",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		r, err := newREPL(ctx, strings.TrimRight(serverURL, "/"), os.Stdin, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		return r.run(ctx)
	},
}

func init() {
	chatCmd.Flags().BoolVar(&markdown, "markdown", true, "Render replies as markdown once complete instead of streaming raw text")
	chatCmd.Flags().BoolVar(&openBrowsers, "browser", true, "Try to open the sign-in page in a browser")
	rootCmd.AddCommand(chatCmd)
}

type repl struct {
	out         io.Writer
	in          *bufio.Scanner
	facade      *session.Facade
	store       *localization.Store
	chat        *orchestrator.Chat
	suggestions *orchestrator.Suggestions
	render      *renderer
	streamRaw   bool
	printed     int
}

func newREPL(ctx context.Context, baseURL string, in io.Reader, out io.Writer) (*repl, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client := &http.Client{Jar: jar}

	r := &repl{out: out, in: bufio.NewScanner(in), streamRaw: !markdown}

	var launch func(string) error
	if openBrowsers {
		launch = openBrowser
	}
	r.facade = session.NewFacade(baseURL,
		session.WithHTTPClient(client),
		session.WithOpener(redirectOpener(withoutRedirects(client), out, launch)),
		session.WithCompletion(pastedCallback(withoutRedirects(client), baseURL, r.prompt)),
	)

	defaults := types.DefaultPreferences()
	defaults.Language = localization.NegotiateLanguage(envLanguage())
	r.store, err = localization.NewStore(localization.NewHTTPPersister(baseURL, client), localization.WithDefaults(defaults))
	if err != nil {
		return nil, err
	}
	if err := r.store.ApplyOverlays(ctx, localization.NewHTTPBundleSource(baseURL, client)); err != nil {
		logging.AppLogger.Warn("locale overlays unavailable", zap.Error(err))
	}
	if err := r.store.Load(ctx); err != nil {
		logging.AppLogger.Warn("stored preferences unavailable", zap.Error(err))
	}

	tutor, err := prompts.Load(cfg.PropertiesPath)
	if err != nil {
		return nil, err
	}
	r.suggestions = orchestrator.NewSuggestions(
		orchestrator.NewHTTPSuggestionSource(baseURL, client),
		r.store.DefaultSuggestions(),
		tutor.FallbackSuggestions,
	)
	r.chat = orchestrator.NewChat(orchestrator.NewHTTPChatStreamer(baseURL, client), r.suggestions)
	r.chat.OnChange(r.onChatChange)

	r.render, err = newRenderer(markdown, r.store.Preferences().FontSize)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// envLanguage turns LANG style values such as "es_ES.UTF-8" into a tag.
func envLanguage() string {
	for _, key := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		v := os.Getenv(key)
		if v == "" || v == "C" || v == "POSIX" {
			continue
		}
		if i := strings.IndexAny(v, ".@"); i >= 0 {
			v = v[:i]
		}
		return strings.ReplaceAll(v, "_", "-")
	}
	return ""
}

func (r *repl) t(k localization.Key) string { return r.store.T(k) }

func (r *repl) prompt(label string) (string, error) {
	fmt.Fprint(r.out, color.ColorPrompt(label))
	if !r.in.Scan() {
		if err := r.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return r.in.Text(), nil
}

func (r *repl) run(ctx context.Context) error {
	r.facade.CheckAuth(ctx)
	r.printHeader()
	if r.facade.Current().IsAuthenticated {
		r.printWelcome()
	} else {
		r.printSignInHint()
	}

	for {
		line, err := r.prompt("> ")
		if err == io.EOF || ctx.Err() != nil {
			fmt.Fprintln(r.out)
			return nil
		}
		if err != nil {
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if name, arg, ok := parseCommand(line); ok {
			if quit := r.command(ctx, name, arg); quit {
				return nil
			}
			continue
		}
		r.ask(ctx, line)
	}
}

// parseCommand splits "/name arg" input. Anything else is a question.
func parseCommand(line string) (name, arg string, ok bool) {
	if !strings.HasPrefix(line, "/") || len(line) < 2 {
		return "", "", false
	}
	name, arg, _ = strings.Cut(line[1:], " ")
	return strings.ToLower(name), strings.TrimSpace(arg), true
}

func (r *repl) command(ctx context.Context, name, arg string) (quit bool) {
	if n, err := strconv.Atoi(name); err == nil {
		r.pickSuggestion(ctx, n)
		return false
	}
	switch name {
	case "exit", "quit":
		return true
	case "help":
		r.printHelp()
	case "new":
		if r.chat.Reset() {
			r.suggestions.Reset()
			r.printWelcome()
		}
	case "signin":
		r.signIn(ctx)
	case "signout":
		r.facade.SignOut(ctx)
		r.printHeader()
		r.printSignInHint()
	case "balance":
		r.printBalance(ctx)
	case "lang":
		if err := r.store.SetLanguage(ctx, types.Language(arg)); err != nil {
			r.reportPreference(err)
		}
		r.suggestions.SetDefaults(r.store.DefaultSuggestions())
		r.printHeader()
	case "font":
		if err := r.store.SetFontSize(ctx, types.FontSize(arg)); err != nil {
			r.reportPreference(err)
		}
		if err := r.render.resize(r.store.Preferences().FontSize); err != nil {
			logging.ErrorLogger.Error("markdown renderer", zap.Error(err))
		}
		r.printPreferences()
	case "family":
		if err := r.store.SetFontFamily(ctx, types.FontFamily(arg)); err != nil {
			r.reportPreference(err)
		}
		r.printPreferences()
	case "prefs":
		r.printPreferences()
	default:
		fmt.Fprintln(r.out, color.ColorWarning("Unknown command /"+name+", try /help"))
	}
	return false
}

func (r *repl) reportPreference(err error) {
	switch {
	case errors.Is(err, localization.ErrUnsupportedLanguage),
		errors.Is(err, localization.ErrUnsupportedFontSize),
		errors.Is(err, localization.ErrUnsupportedFontFamily):
		fmt.Fprintln(r.out, color.ColorWarning(err.Error()))
	default:
		// The value is applied for this run even when saving fails.
		fmt.Fprintln(r.out, color.ColorWarning("Preference not saved: "+err.Error()))
	}
}

func (r *repl) signIn(ctx context.Context) {
	if r.facade.Current().IsAuthenticated {
		r.printBalance(ctx)
		return
	}
	waitCtx, cancel := context.WithTimeout(ctx, 10*time.Minute)
	defer cancel()
	s, err := r.facade.SignIn(waitCtx).Wait(waitCtx)
	if err != nil {
		fmt.Fprintln(r.out, color.ColorError("Sign in failed: "+err.Error()))
		return
	}
	r.printHeader()
	if s.IsAuthenticated {
		r.printWelcome()
	} else {
		r.printSignInHint()
	}
}

func (r *repl) pickSuggestion(ctx context.Context, n int) {
	set := r.suggestions.Current()
	if n < 1 || n > len(set) {
		fmt.Fprintln(r.out, color.ColorWarning(fmt.Sprintf("Pick a suggestion between 1 and %d", len(set))))
		return
	}
	fmt.Fprintln(r.out, color.ColorStudent(r.t(localization.ChatYou)+": ")+set[n-1])
	r.ask(ctx, set[n-1])
}

func (r *repl) ask(ctx context.Context, text string) {
	if !r.facade.Current().IsAuthenticated {
		r.printSignInHint()
		return
	}
	fmt.Fprintln(r.out, color.ColorTutor(r.t(localization.ChatTutor)+":"))
	if !r.streamRaw {
		fmt.Fprintln(r.out, color.ColorFaint(r.t(localization.ChatThinking)))
	}
	r.printed = 0

	ok, err := r.chat.Submit(ctx, text, r.store.Language())
	if !ok {
		fmt.Fprintln(r.out, color.ColorWarning(r.t(localization.ChatSending)))
		return
	}
	if r.streamRaw {
		fmt.Fprintln(r.out)
	} else if reply := r.lastReply(); reply != "" {
		fmt.Fprint(r.out, r.render.Markdown(reply))
	}
	if err != nil {
		logging.ErrorLogger.Error("chat request failed", zap.Error(err))
		fmt.Fprintln(r.out, color.ColorError(r.t(localization.ChatError)))
	}
	r.printSuggestions()
}

func (r *repl) lastReply() string {
	msgs := r.chat.Messages()
	if len(msgs) == 0 || msgs[len(msgs)-1].Role != types.RoleAssistant {
		return ""
	}
	return msgs[len(msgs)-1].Text()
}

// onChatChange prints whatever part of the reply is new since last time.
func (r *repl) onChatChange() {
	if !r.streamRaw || r.chat.Status() != orchestrator.StatusStreaming {
		return
	}
	text := r.lastReply()
	if len(text) > r.printed {
		fmt.Fprint(r.out, text[r.printed:])
		r.printed = len(text)
	}
}

func (r *repl) printHeader() {
	lines := []string{
		color.ColorTitle(r.t(localization.HeaderTitle)),
		r.t(localization.HeaderSubtitle),
		color.ColorFaint(r.t(localization.HeaderByLitParlor)),
	}
	s := r.facade.Current()
	if s.IsAuthenticated && s.User != nil {
		name := s.User.Name
		if name == "" {
			name = r.t(localization.HeaderUser)
		}
		lines = append(lines, fmt.Sprintf("%s <%s> · %s", name, s.User.Email, color.ColorCredits(r.balanceText(s.Balance))))
	} else {
		lines = append(lines, color.ColorPrompt("/signin")+"  "+r.t(localization.HeaderSignIn))
	}
	fmt.Fprintln(r.out, box(lines...))
}

func (r *repl) balanceText(b *types.Balance) string {
	if b == nil {
		return currency.Credits(0, r.t(localization.HeaderCredits))
	}
	return currency.Credits(b.Amount, r.t(localization.HeaderCredits))
}

func (r *repl) printBalance(ctx context.Context) {
	s := r.facade.CheckAuth(ctx)
	if !s.IsAuthenticated {
		r.printSignInHint()
		return
	}
	line := r.t(localization.HeaderEchoBase) + ": " + r.balanceText(s.Balance)
	if s.Balance != nil {
		line += " (" + currency.Format(s.Balance.Amount) + ")"
		if s.Balance.Description != "" {
			line += " " + s.Balance.Description
		}
	}
	fmt.Fprintln(r.out, color.ColorCredits(line))
}

func (r *repl) printSignInHint() {
	fmt.Fprintln(r.out, color.ColorTitle(r.t(localization.SignInTitle)))
	fmt.Fprintln(r.out, r.t(localization.SignInDescription))
	fmt.Fprintln(r.out, color.ColorPrompt("/signin")+"  "+r.t(localization.SignInButton))
	fmt.Fprintln(r.out, color.ColorFaint(r.t(localization.SignInNoAccount)+" "+r.t(localization.SignInCreateAccount)+": https://echo.merit.systems"))
}

func (r *repl) printWelcome() {
	fmt.Fprintln(r.out, r.t(localization.WelcomeGreeting))
	for _, k := range localization.WelcomeBullets {
		fmt.Fprintln(r.out, "  • "+r.t(k))
	}
	fmt.Fprintln(r.out, r.t(localization.WelcomeCallToAction))
	r.printSuggestions()
}

func (r *repl) printSuggestions() {
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, color.ColorTitle(r.t(localization.SuggestionsTitle)))
	for i, q := range r.suggestions.Current() {
		fmt.Fprintf(r.out, "  %s %s\n", color.ColorPrompt(fmt.Sprintf("/%d", i+1)), color.ColorSuggestion(q))
	}
	fmt.Fprintln(r.out)
}

func (r *repl) printPreferences() {
	p := r.store.Preferences()
	fmt.Fprintf(r.out, "language=%s fontSize=%s fontFamily=%s\n", p.Language, p.FontSize, p.FontFamily)
}

func (r *repl) printHelp() {
	fmt.Fprintln(r.out, strings.Join([]string{
		"/1 … /6              ask a suggested question",
		"/new                 " + r.t(localization.HeaderNewChat),
		"/lang en|es|ht       switch language",
		"/font small|medium|large",
		"/family garamond|sans|dyslexic",
		"/prefs               show preferences",
		"/balance             show remaining credits",
		"/signin, /signout",
		"/exit",
	}, "\n"))
}
