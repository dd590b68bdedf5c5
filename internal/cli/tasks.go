package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"tudu/internal/task"
)

// withList loads the list, runs fn, and saves the list when fn reports a change.
func withList(app *App, fn func(l *task.List) (bool, error)) error {
	s, err := open(app)
	if err != nil {
		return err
	}
	defer s.Close()

	l := task.NewList(s.store.Load())
	changed, err := fn(l)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}
	return s.store.Save(l.Tasks())
}

// parseIndex turns a 1-based position into a list index.
func parseIndex(arg string, n int) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil {
		return 0, fmt.Errorf("invalid task number %q", arg)
	}
	if v < 1 || v > n {
		return 0, fmt.Errorf("task %d does not exist (have %d)", v, n)
	}
	return v - 1, nil
}

func printList(w io.Writer, l *task.List) {
	for i, t := range l.Tasks() {
		mark := "[ ]"
		if t.Completed {
			mark = "[x]"
		}
		tag := ""
		if t.Category != "" {
			tag = "[" + t.Category + "] "
		}
		fmt.Fprintf(w, "%d. %s %s%s\n", i+1, mark, tag, t.Text)
	}
	fmt.Fprintln(w, task.StatsLine(l.Stats()))
}

func newListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print the tasks and the completion count",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withList(app, func(l *task.List) (bool, error) {
				printList(cmd.OutOrStdout(), l)
				return false, nil
			})
		},
	}
}

func newAddCmd(app *App) *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:   "add <text>",
		Short: "Append a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			return withList(app, func(l *task.List) (bool, error) {
				if !l.Add(text, category) {
					return false, errors.New("task text is empty")
				}
				fmt.Fprintf(cmd.OutOrStdout(), "added %d. %s\n", l.Len(), strings.TrimSpace(text))
				return true, nil
			})
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "Category label")
	return cmd
}

func newDoneCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "done <n>",
		Short: "Toggle completion of task n",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withList(app, func(l *task.List) (bool, error) {
				i, err := parseIndex(args[0], l.Len())
				if err != nil {
					return false, err
				}
				return l.Toggle(i), nil
			})
		},
	}
}

func newRmCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <n>",
		Short: "Delete task n",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withList(app, func(l *task.List) (bool, error) {
				i, err := parseIndex(args[0], l.Len())
				if err != nil {
					return false, err
				}
				return l.Remove(i), nil
			})
		},
	}
}

func newMvCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "mv <from> <to>",
		Short: "Move task from one position to another",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withList(app, func(l *task.List) (bool, error) {
				from, err := parseIndex(args[0], l.Len())
				if err != nil {
					return false, err
				}
				to, err := parseIndex(args[1], l.Len())
				if err != nil {
					return false, err
				}
				return l.Move(from, to), nil
			})
		},
	}
}

func newClearCmd(app *App) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("refusing to clear without --yes")
			}
			return withList(app, func(l *task.List) (bool, error) {
				l.Clear()
				return true, nil
			})
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm deleting every task")
	return cmd
}
