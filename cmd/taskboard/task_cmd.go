package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/phrazzld/taskboard/internal/client"
	"github.com/phrazzld/taskboard/internal/domain"
	"github.com/phrazzld/taskboard/internal/query"
	"github.com/spf13/cobra"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage tasks through the API",
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	Args:  cobra.NoArgs,
	RunE:  runTaskList,
}

var taskShowCmd = &cobra.Command{
	Use:   "show [task-id]",
	Short: "Show task details",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskShow,
}

var taskAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a new task",
	Args:  cobra.NoArgs,
	RunE:  runTaskAdd,
}

var taskEditCmd = &cobra.Command{
	Use:   "edit [task-id]",
	Short: "Change fields of a task",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskEdit,
}

var taskDoneCmd = &cobra.Command{
	Use:   "done [task-id]",
	Short: "Mark a task completed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setTaskStatus(cmd, args[0], domain.StatusCompleted)
	},
}

var taskReopenCmd = &cobra.Command{
	Use:   "reopen [task-id]",
	Short: "Mark a task pending",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setTaskStatus(cmd, args[0], domain.StatusPending)
	},
}

var taskToggleCmd = &cobra.Command{
	Use:   "toggle [task-id]",
	Short: "Flip a task between pending and completed",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskToggle,
}

var taskRemoveCmd = &cobra.Command{
	Use:     "rm [task-id]",
	Aliases: []string{"delete"},
	Short:   "Delete a task",
	Args:    cobra.ExactArgs(1),
	RunE:    runTaskRemove,
}

var taskStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show task counts by status",
	Args:  cobra.NoArgs,
	RunE:  runTaskStats,
}

var (
	listQuery    string
	listStatus   string
	listPriority string
	listSort     string
	listOrder    string

	taskTitle    string
	taskDesc     string
	taskPriority string
	taskStatus   string
	taskDue      string
	taskTags     []string
	taskNoTags   bool
)

func init() {
	taskCmd.AddCommand(taskListCmd, taskShowCmd, taskAddCmd, taskEditCmd,
		taskDoneCmd, taskReopenCmd, taskToggleCmd, taskRemoveCmd, taskStatsCmd)

	taskListCmd.Flags().StringVar(&listQuery, "q", "", "Text to search for in title and description")
	taskListCmd.Flags().StringVar(&listStatus, "status", "", "Filter by status (pending, completed)")
	taskListCmd.Flags().StringVar(&listPriority, "priority", "", "Filter by priority (low, medium, high)")
	taskListCmd.Flags().StringVar(&listSort, "sort", "", "Sort by createdAt, priority or title")
	taskListCmd.Flags().StringVar(&listOrder, "order", "", "Sort order (asc, desc)")

	for _, c := range []*cobra.Command{taskAddCmd, taskEditCmd} {
		c.Flags().StringVar(&taskTitle, "title", "", "Task title")
		c.Flags().StringVar(&taskDesc, "desc", "", "Task description")
		c.Flags().StringVar(&taskPriority, "priority", "", "Priority (low, medium, high)")
		c.Flags().StringVar(&taskStatus, "status", "", "Status (pending, completed)")
		c.Flags().StringVar(&taskDue, "due", "", "Due date (YYYY-MM-DD or RFC 3339)")
		c.Flags().StringSliceVar(&taskTags, "tag", nil, "Tag (repeatable)")
	}
	taskEditCmd.Flags().BoolVar(&taskNoTags, "clear-tags", false, "Remove all tags")
	taskEditCmd.MarkFlagsMutuallyExclusive("tag", "clear-tags")
	_ = taskAddCmd.MarkFlagRequired("title")
	_ = taskAddCmd.MarkFlagRequired("priority")
}

func newClient() *client.Client {
	return client.New(apiAddr)
}

func runTaskList(cmd *cobra.Command, args []string) error {
	result, err := newClient().ListTasks(cmd.Context(), query.Criteria{
		Text:     listQuery,
		Status:   domain.Status(listStatus),
		Priority: domain.Priority(listPriority),
		Sort:     query.SortField(listSort),
		Order:    query.Order(listOrder),
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(result.Tasks) == 0 {
		fmt.Fprintln(out, "No tasks found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tPRIORITY\tSTATUS\tDUE")
	for _, t := range result.Tasks {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			t.ID, truncate(t.Title, 40), t.Priority, t.Status, t.DueDate)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(out, "%d task(s)\n", result.Total)
	return nil
}

func runTaskShow(cmd *cobra.Command, args []string) error {
	task, err := newClient().GetTask(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	printTask(cmd.OutOrStdout(), task)
	return nil
}

func runTaskAdd(cmd *cobra.Command, args []string) error {
	task, err := newClient().CreateTask(cmd.Context(), client.TaskCreate{
		Title:       taskTitle,
		Description: taskDesc,
		Priority:    taskPriority,
		Status:      taskStatus,
		DueDate:     taskDue,
		Tags:        taskTags,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created task: %s\n", task.ID)
	return nil
}

func runTaskEdit(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	changed := func(name string, value string) *string {
		if !flags.Changed(name) {
			return nil
		}
		return &value
	}

	update := client.TaskUpdate{
		Title:       changed("title", taskTitle),
		Description: changed("desc", taskDesc),
		Priority:    changed("priority", taskPriority),
		Status:      changed("status", taskStatus),
		DueDate:     changed("due", taskDue),
	}
	switch {
	case taskNoTags:
		update.Tags = &[]string{}
	case flags.Changed("tag"):
		tags := taskTags
		update.Tags = &tags
	}

	task, err := newClient().UpdateTask(cmd.Context(), args[0], update)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Updated task: %s\n", task.ID)
	return nil
}

func setTaskStatus(cmd *cobra.Command, id string, status domain.Status) error {
	task, err := newClient().SetStatus(cmd.Context(), id, status)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Task %s is now %s\n", task.ID, task.Status)
	return nil
}

func runTaskToggle(cmd *cobra.Command, args []string) error {
	task, err := newClient().GetTask(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	return setTaskStatus(cmd, task.ID, task.Status.Toggle())
}

func runTaskRemove(cmd *cobra.Command, args []string) error {
	if err := newClient().DeleteTask(cmd.Context(), args[0]); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Deleted task: %s\n", args[0])
	return nil
}

func runTaskStats(cmd *cobra.Command, args []string) error {
	stats, err := newClient().Stats(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Total:     %d\n", stats.Total)
	fmt.Fprintf(out, "Pending:   %d\n", stats.Pending)
	fmt.Fprintf(out, "Completed: %d\n", stats.Completed)
	return nil
}

func printTask(out io.Writer, task domain.Task) {
	fmt.Fprintf(out, "ID:          %s\n", task.ID)
	fmt.Fprintf(out, "Title:       %s\n", task.Title)
	if task.Description != "" {
		fmt.Fprintf(out, "Description: %s\n", task.Description)
	}
	fmt.Fprintf(out, "Priority:    %s\n", task.Priority)
	fmt.Fprintf(out, "Status:      %s\n", task.Status)
	if task.DueDate != "" {
		fmt.Fprintf(out, "Due:         %s\n", task.DueDate)
	}
	if len(task.Tags) > 0 {
		fmt.Fprintf(out, "Tags:        %s\n", strings.Join(task.Tags, ", "))
	}
	fmt.Fprintf(out, "Created:     %s\n", task.CreatedAt.Format(time.RFC3339))
	fmt.Fprintf(out, "Updated:     %s\n", task.UpdatedAt.Format(time.RFC3339))
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
