// Package cli is the terminal front end: a small REPL whose command set
// switches between the welcome and authenticated shells based on the
// navigation gate.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"

	"github.com/tasktrack-io/tasktrack/internal/client/api"
	"github.com/tasktrack-io/tasktrack/internal/client/auth"
	"github.com/tasktrack-io/tasktrack/internal/client/nav"
	"github.com/tasktrack-io/tasktrack/internal/client/session"
	"github.com/tasktrack-io/tasktrack/internal/task"
)

type App struct {
	api     *api.Client
	auth    *auth.Facade
	session *session.Store
	reader  *bufio.Reader
	out     io.Writer
}

// NewApp wires the client: durable session storage, the session store
// hydrated from it, the API client drawing tokens from the store, and
// the auth facade on top.
func NewApp(serverURL, sessionDBPath string) (*App, error) {
	storage, err := session.NewSQLiteStorage(sessionDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open session storage: %w", err)
	}

	store := session.NewStore(storage)
	if err := store.Hydrate(); err != nil {
		return nil, fmt.Errorf("failed to restore session: %w", err)
	}

	apiClient := api.New(serverURL, store)

	return &App{
		api:     apiClient,
		auth:    auth.NewFacade(apiClient, store),
		session: store,
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
	}, nil
}

// shell reports which command set is active
func (a *App) shell() nav.Shell {
	return nav.SelectRoot(a.session.Get())
}

func (a *App) login(ctx context.Context) error {
	email, err := promptLine(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	password, err := promptPassword("Password", a.out)
	if err != nil {
		return err
	}

	if err := a.auth.Login(ctx, email, password); err != nil {
		fmt.Fprintln(a.out, "Login failed:", reason(err))
		return err
	}

	fmt.Fprintf(a.out, "Logged in as %s\n", a.session.Get().User.Name)
	return nil
}

func (a *App) signup(ctx context.Context) error {
	name, err := promptLine(a.reader, "Name", a.out)
	if err != nil {
		return err
	}
	email, err := promptLine(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	password, err := promptPassword("Password", a.out)
	if err != nil {
		return err
	}

	if err := a.auth.Signup(ctx, name, email, password); err != nil {
		fmt.Fprintln(a.out, "Signup failed:", reason(err))
		return err
	}

	fmt.Fprintf(a.out, "Account created, logged in as %s\n", a.session.Get().User.Name)
	return nil
}

func (a *App) logout(ctx context.Context) error {
	if err := a.auth.Logout(ctx); err != nil {
		fmt.Fprintln(a.out, "Logout failed:", reason(err))
		return err
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

func (a *App) whoami() {
	state := a.session.Get()
	if !state.Authenticated() {
		fmt.Fprintln(a.out, "Not logged in")
		return
	}
	fmt.Fprintf(a.out, "%s <%s>\n", state.User.Name, state.User.Email)
}

func (a *App) changePassword(ctx context.Context) error {
	oldPw, err := promptPassword("Old password", a.out)
	if err != nil {
		return err
	}
	newPw, err := promptPassword("New password", a.out)
	if err != nil {
		return err
	}

	if err := a.auth.ChangePassword(ctx, oldPw, newPw); err != nil {
		fmt.Fprintln(a.out, "Change password failed:", reason(err))
		return err
	}
	fmt.Fprintln(a.out, "Password changed")
	return nil
}

func (a *App) listTasks(ctx context.Context) error {
	tasks, err := a.api.ListTasks(ctx)
	if err != nil {
		fmt.Fprintln(a.out, "Failed to fetch tasks:", reason(err))
		return err
	}

	if len(tasks) == 0 {
		fmt.Fprintln(a.out, "No tasks")
		return nil
	}
	for _, t := range tasks {
		mark := " "
		if t.Completed {
			mark = "x"
		}
		fmt.Fprintf(a.out, "[%s] %s  %s - %s\n", mark, t.ID, t.Title, t.Description)
	}
	return nil
}

func (a *App) addTask(ctx context.Context) error {
	title, err := promptLine(a.reader, "Title", a.out)
	if err != nil {
		return err
	}
	description, err := promptLine(a.reader, "Description", a.out)
	if err != nil {
		return err
	}

	created, err := a.api.CreateTask(ctx, title, description, false)
	if err != nil {
		fmt.Fprintln(a.out, "Failed to create task:", reason(err))
		return err
	}
	fmt.Fprintln(a.out, "Created", created.ID)
	return nil
}

func (a *App) completeTask(ctx context.Context, arg string) error {
	id, err := uuid.Parse(arg)
	if err != nil {
		fmt.Fprintln(a.out, "Invalid task id")
		return err
	}

	done := true
	if _, err := a.api.UpdateTask(ctx, id, task.Update{Completed: &done}); err != nil {
		fmt.Fprintln(a.out, "Failed to update task:", reason(err))
		return err
	}
	fmt.Fprintln(a.out, "Done")
	return nil
}

func (a *App) removeTask(ctx context.Context, arg string) error {
	id, err := uuid.Parse(arg)
	if err != nil {
		fmt.Fprintln(a.out, "Invalid task id")
		return err
	}

	if err := a.api.DeleteTask(ctx, id); err != nil {
		fmt.Fprintln(a.out, "Failed to delete task:", reason(err))
		return err
	}
	fmt.Fprintln(a.out, "Deleted")
	return nil
}

// reason extracts the server's message from an API error chain so the
// user sees why the call failed, not just that it did.
func reason(err error) string {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}
