// Package cli is an interactive terminal client for the auth service.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/soupauth/internal/client/client"
	"github.com/dmitrijs2005/soupauth/internal/client/config"
	"github.com/dmitrijs2005/soupauth/internal/common"
)

type App struct {
	config   *config.Config
	client   client.Client
	reader   *bufio.Reader
	out      io.Writer
	userName string
}

func NewApp(c *config.Config) (*App, error) {
	cl, err := client.NewHTTPClient(c.ServerURL, c.RequestTimeout)
	if err != nil {
		return nil, err
	}
	return newApp(c, cl, os.Stdin, os.Stdout), nil
}

func newApp(c *config.Config, cl client.Client, in io.Reader, out io.Writer) *App {
	return &App{config: c, client: cl, reader: bufio.NewReader(in), out: out}
}

// Run starts the REPL and returns when input ends or the user quits.
func (a *App) Run(ctx context.Context) {
	fmt.Fprintf(a.out, "Connected to %s (type 'help' for commands)\n", a.config.ServerURL)
	runREPL(ctx, a, a.getStatus, a.reader, a.out)
}

func (a *App) isLoggedIn() bool {
	return a.client.HasSession()
}

func (a *App) getStatus() string {
	if a.userName != "" && a.isLoggedIn() {
		return "(" + a.userName + ")"
	}
	return ""
}

// askCredentials prompts for a user name and a password. The password slice
// is wiped once copied into a string.
func (a *App) askCredentials() (string, string, error) {
	userName, err := GetSimpleText(a.reader, "Enter user name", a.out)
	if err != nil {
		return "", "", err
	}
	pw, err := GetPassword(a.out)
	if err != nil {
		return "", "", err
	}
	defer common.WipeByteArray(pw)
	return userName, string(pw), nil
}

func (a *App) SignUp(ctx context.Context) error {
	userName, password, err := a.askCredentials()
	if err != nil {
		return a.report(err)
	}
	if err := a.client.Register(ctx, userName, password); err != nil {
		return a.report(err)
	}
	fmt.Fprintln(a.out, "Registered. Use 'login' to start a session.")
	return nil
}

func (a *App) Login(ctx context.Context) error {
	userName, password, err := a.askCredentials()
	if err != nil {
		return a.report(err)
	}
	if err := a.client.Login(ctx, userName, password); err != nil {
		return a.report(err)
	}
	a.userName = userName
	fmt.Fprintln(a.out, "Login successful")
	return nil
}

func (a *App) Refresh(ctx context.Context) error {
	if err := a.client.Refresh(ctx); err != nil {
		return a.report(err)
	}
	fmt.Fprintln(a.out, "Session refreshed")
	return nil
}

func (a *App) Me(ctx context.Context) error {
	id, err := a.client.Me(ctx)
	if err != nil {
		return a.report(err)
	}
	a.userName = id.Username
	fmt.Fprintf(a.out, "%s (id %s)\n", id.Username, id.ID)
	return nil
}

func (a *App) report(err error) error {
	switch {
	case errors.Is(err, client.ErrUnavailable):
		fmt.Fprintln(a.out, "Server unavailable:", err)
	case errors.Is(err, client.ErrUnauthorized):
		fmt.Fprintln(a.out, "Not logged in or session expired:", err)
	default:
		fmt.Fprintln(a.out, "Error:", err)
	}
	return err
}
