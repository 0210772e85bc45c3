package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os/exec"
	"runtime"
	"strings"

	"historytutor/tutor/session"
	"historytutor/tutor/utils/color"
	"historytutor/tutor/utils/logging"

	"go.uber.org/zap"
)

const callbackPath = "/api/echo/callback"

var errEmptyCallback = errors.New("no callback URL entered")

// withoutRedirects shares jar with the main client but stops at the first
// response, so the cookies set alongside a 302 land in the jar.
func withoutRedirects(c *http.Client) *http.Client {
	return &http.Client{
		Jar:       c.Jar,
		Transport: c.Transport,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

// redirectOpener asks the server to start the PKCE flow, keeps the verifier
// cookie, then shows the provider URL and tries to open a browser on it.
func redirectOpener(client *http.Client, out io.Writer, launch func(string) error) session.OpenerFunc {
	return func(ctx context.Context, signInURL string) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, signInURL, nil)
		if err != nil {
			return err
		}
		resp, err := client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusFound {
			return fmt.Errorf("sign in: expected redirect, got status %d", resp.StatusCode)
		}
		target := resp.Header.Get("Location")
		if target == "" {
			return errors.New("sign in: redirect without location")
		}

		fmt.Fprintln(out, color.ColorInfo("Open this link to sign in with Echo:"))
		fmt.Fprintln(out, "  "+target)
		if launch != nil {
			if err := launch(target); err != nil {
				logging.AppLogger.Info("browser not opened", zap.Error(err))
			}
		}
		return nil
	}
}

// pastedCallback waits for the user to paste the address the browser landed
// on and replays its query against the server callback.
func pastedCallback(client *http.Client, baseURL string, prompt func(string) (string, error)) session.CompletionFunc {
	return func(ctx context.Context) error {
		raw, err := prompt("Paste the address your browser ended on: ")
		if err != nil {
			return err
		}
		raw = strings.TrimSpace(raw)
		if raw == "" {
			return errEmptyCallback
		}
		landed, err := url.Parse(raw)
		if err != nil {
			return fmt.Errorf("callback URL: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+callbackPath+"?"+landed.RawQuery, nil)
		if err != nil {
			return err
		}
		resp, err := client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusFound {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			return fmt.Errorf("sign in callback: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
		}
		return nil
	}
}

func openBrowser(target string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", target).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", target).Start()
	default:
		return exec.Command("xdg-open", target).Start()
	}
}
