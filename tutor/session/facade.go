// historytutor/tutor/session/facade.go
package session

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"

	httputils "historytutor/tutor/utils/http"
	"historytutor/tutor/utils/logging"
	"historytutor/tutor/utils/types"

	"go.uber.org/zap"
)

const (
	checkAuthPath = "/api/echo/check-auth"
	signInPath    = "/api/echo/signin"
	signOutPath   = "/api/echo/signout"
)

var ErrNoOpener = errors.New("session: no opener configured")

// Opener starts the browser leg of sign-in at url.
type Opener interface {
	Open(ctx context.Context, url string) error
}

type OpenerFunc func(ctx context.Context, url string) error

func (f OpenerFunc) Open(ctx context.Context, url string) error { return f(ctx, url) }

// Completion blocks until the provider redirect has been delivered back.
type Completion interface {
	Wait(ctx context.Context) error
}

type CompletionFunc func(ctx context.Context) error

func (f CompletionFunc) Wait(ctx context.Context) error { return f(ctx) }

// Facade is the client view of the Echo session kept by the server in cookies.
type Facade struct {
	baseURL    string
	httpClient httputils.Doer
	opener     Opener
	completion Completion

	mu      sync.RWMutex
	current types.Session
}

type Option func(*Facade)

// WithHTTPClient should carry a cookie jar so the session cookies survive
// between calls.
func WithHTTPClient(c httputils.Doer) Option {
	return func(f *Facade) { f.httpClient = c }
}

func WithOpener(o Opener) Option {
	return func(f *Facade) { f.opener = o }
}

func WithCompletion(c Completion) Option {
	return func(f *Facade) { f.completion = c }
}

func NewFacade(baseURL string, opts ...Option) *Facade {
	f := &Facade{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Facade) Current() types.Session {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.current
}

func (f *Facade) set(s types.Session) {
	f.mu.Lock()
	f.current = s
	f.mu.Unlock()
}

// CheckAuth refreshes the session. Any failure yields a signed-out session.
func (f *Facade) CheckAuth(ctx context.Context) types.Session {
	defer logging.LogDuration(ctx, "session.CheckAuth")()

	var resp types.CheckAuthResponse
	err := httputils.DoJSON(ctx, f.httpClient, http.MethodGet, f.baseURL+checkAuthPath, "", nil, &resp)
	if err != nil {
		logging.AppLogger.Warn("check auth failed", zap.Error(err))
		f.set(types.SignedOut())
		return types.SignedOut()
	}

	s := types.SignedOut()
	if resp.IsSignedIn && resp.User != nil && resp.User.User.Complete() {
		u := resp.User.User
		s = types.Session{IsAuthenticated: true, User: &u, Balance: resp.User.Balance}
	}
	f.set(s)
	return s
}

// SignInResult resolves once the redirect flow has completed and the
// session has been re-checked.
type SignInResult struct {
	done    chan struct{}
	session types.Session
	err     error
}

func (r *SignInResult) Done() <-chan struct{} { return r.done }

func (r *SignInResult) Wait(ctx context.Context) (types.Session, error) {
	select {
	case <-r.done:
		return r.session, r.err
	case <-ctx.Done():
		return types.SignedOut(), ctx.Err()
	}
}

// SignIn opens the sign-in redirect and returns immediately. The session is
// re-checked after the completion signal fires.
func (f *Facade) SignIn(ctx context.Context) *SignInResult {
	res := &SignInResult{done: make(chan struct{})}
	go func() {
		defer close(res.done)
		if f.opener == nil {
			res.session, res.err = f.Current(), ErrNoOpener
			return
		}
		if err := f.opener.Open(ctx, f.baseURL+signInPath); err != nil {
			logging.ErrorLogger.Error("sign in open failed", zap.Error(err))
			res.session, res.err = f.Current(), err
			return
		}
		if f.completion != nil {
			if err := f.completion.Wait(ctx); err != nil {
				logging.ErrorLogger.Error("sign in not completed", zap.Error(err))
				res.session, res.err = f.Current(), err
				return
			}
		}
		res.session = f.CheckAuth(ctx)
	}()
	return res
}

// SignOut asks the server to drop the session cookies. Local state is
// cleared whatever the outcome.
func (f *Facade) SignOut(ctx context.Context) {
	defer f.set(types.SignedOut())

	var resp struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	if err := httputils.DoJSON(ctx, f.httpClient, http.MethodPost, f.baseURL+signOutPath, "", nil, &resp); err != nil {
		logging.AppLogger.Warn("sign out failed", zap.Error(err))
		return
	}
	if !resp.Success {
		logging.AppLogger.Warn("sign out rejected", zap.String("error", resp.Error))
	}
}
