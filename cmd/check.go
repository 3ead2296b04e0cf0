// ABOUTME: Check command for the catalog console
// ABOUTME: Asks the catalog API whether the stored terminal session is still accepted

package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/storeops/catalog-console/config"
	"github.com/storeops/catalog-console/logger"
	"github.com/storeops/catalog-console/models"
	"github.com/storeops/catalog-console/services"
	"github.com/storeops/catalog-console/tokenstore"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check whether the stored session is still signed in",
	Long: `Check calls the catalog API's login check with the token saved by browse.
It never signs in or out.

Exit codes:
  0 - Signed in
  1 - Not signed in (no token, expired, or rejected)
  2 - Error (configuration, connectivity)`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		logger.InitWriter(os.Stderr)

		exitCode := runCheck(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

// checkResult is the outcome of one login check
type checkResult struct {
	SignedIn  bool      `json:"signed_in"`
	UID       string    `json:"uid,omitempty"`
	Message   string    `json:"message,omitempty"`
	ExpiresAt time.Time `json:"expires_at,omitzero"`
	TokenFile string    `json:"token_file"`
}

// runCheck performs the login check and returns the exit code
func runCheck(ctx context.Context, w io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
	return checkSession(ctx, w, cfg, time.Now())
}

func checkSession(ctx context.Context, w io.Writer, cfg *config.Config, now time.Time) int {
	tokens := tokenstore.NewFileStore(cfg.TokenFile)
	result := checkResult{TokenFile: tokens.Path()}

	session, err := tokens.Load(ctx)
	switch {
	case errors.Is(err, tokenstore.ErrNoSession):
		result.Message = "no stored session; run browse to sign in"
		return writeCheck(w, result, 1)
	case err != nil:
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
	result.ExpiresAt = session.ExpiresAt

	if session.Expired(now) {
		result.Message = "stored session expired"
		return writeCheck(w, result, 1)
	}

	views := services.NewMemoryViewStore()
	defer views.Close()

	resp, err := newSessionManager(cfg, views).CheckLogin(ctx, tokens)
	if err != nil {
		var apiErr *models.APIError
		if !errors.As(err, &apiErr) {
			fmt.Fprintf(w, "Error: %v\n", err)
			return 2
		}
		result.Message = apiErr.Message
		if result.Message == "" {
			result.Message = apiErr.Error()
		}
		return writeCheck(w, result, 1)
	}

	result.SignedIn = true
	result.UID = resp.UID
	result.Message = resp.Message
	return writeCheck(w, result, 0)
}

func writeCheck(w io.Writer, result checkResult, code int) int {
	if IsJSONOutput() {
		fmt.Fprintln(w, formatCheckJSON(result))
	} else {
		fmt.Fprintln(w, formatCheckHuman(result))
	}
	return code
}

// formatCheckHuman formats the check result for human readability
func formatCheckHuman(r checkResult) string {
	var output string
	if r.SignedIn {
		output = "✓ Signed in"
		if r.UID != "" {
			output += fmt.Sprintf(" (uid: %s)", r.UID)
		}
	} else {
		output = "✗ Not signed in"
		if r.Message != "" {
			output += ": " + r.Message
		}
	}
	if !r.ExpiresAt.IsZero() {
		output += fmt.Sprintf("\n  Token expires: %s", r.ExpiresAt.Local().Format(time.RFC1123))
	}
	output += fmt.Sprintf("\n  Token file: %s", r.TokenFile)
	return output
}

// formatCheckJSON formats the check result as JSON
func formatCheckJSON(r checkResult) string {
	data, _ := json.MarshalIndent(r, "", "  ")
	return string(data)
}

// apiHost returns the host part of the API base for display
func apiHost(base string) string {
	u, err := url.Parse(base)
	if err != nil || u.Host == "" {
		return base
	}
	return u.Host
}
