package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/tasktrack-io/tasktrack/internal/client/nav"
)

// RunREPL reads commands until EOF or "exit". The available command set
// follows the shell selected by the navigation gate: the welcome shell
// offers login and signup, the authenticated shell the task commands.
// Handler errors are printed by the handlers themselves; the loop keeps
// going.
func (a *App) RunREPL(ctx context.Context, scanner *bufio.Scanner) {
	for {
		fmt.Fprintf(a.out, "tasktrack (%s)> ", a.shell())
		if !scanner.Scan() {
			return
		}

		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			a.printHelp()

		case "exit", "quit":
			fmt.Fprintln(a.out, "Bye!")
			return

		case "whoami":
			a.whoami()

		case "login":
			if a.shell() == nav.ShellWelcome {
				_ = a.login(ctx)
			} else {
				fmt.Fprintln(a.out, "Already logged in")
			}

		case "signup":
			if a.shell() == nav.ShellWelcome {
				_ = a.signup(ctx)
			} else {
				fmt.Fprintln(a.out, "Already logged in")
			}

		case "logout":
			if a.requireAuth() {
				_ = a.logout(ctx)
			}

		case "passwd":
			if a.requireAuth() {
				_ = a.changePassword(ctx)
			}

		case "tasks", "ls":
			if a.requireAuth() {
				_ = a.listTasks(ctx)
			}

		case "add":
			if a.requireAuth() {
				_ = a.addTask(ctx)
			}

		case "done":
			if a.requireAuth() {
				if len(args) != 1 {
					fmt.Fprintln(a.out, "Usage: done <task-id>")
					continue
				}
				_ = a.completeTask(ctx, args[0])
			}

		case "rm":
			if a.requireAuth() {
				if len(args) != 1 {
					fmt.Fprintln(a.out, "Usage: rm <task-id>")
					continue
				}
				_ = a.removeTask(ctx, args[0])
			}

		default:
			fmt.Fprintln(a.out, "Unknown command:", cmd)
		}
	}
}

func (a *App) requireAuth() bool {
	if a.shell() != nav.ShellAuthenticated {
		fmt.Fprintln(a.out, "Please login first")
		return false
	}
	return true
}

func (a *App) printHelp() {
	if a.shell() == nav.ShellAuthenticated {
		fmt.Fprintln(a.out, "Available commands: tasks, add, done <id>, rm <id>, passwd, whoami, logout, exit")
	} else {
		fmt.Fprintln(a.out, "Available commands: login, signup, whoami, exit")
	}
}
