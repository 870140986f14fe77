package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/lox/pushfold/internal/profile"
)

// ProfilesCmd groups the profile subcommands.
type ProfilesCmd struct {
	List     ProfilesListCmd     `cmd:"" help:"List available profiles"`
	Validate ProfilesValidateCmd `cmd:"" help:"Check every profile has the template's structure"`
}

// ProfilesListCmd prints the profile names in a directory.
type ProfilesListCmd struct {
	Dir string `kong:"default='data/profiles',help='Profiles directory'"`
}

func (c *ProfilesListCmd) Run() error {
	return c.run(os.Stdout)
}

func (c *ProfilesListCmd) run(out io.Writer) error {
	names, err := profile.NewStore(c.Dir).List()
	if err != nil {
		return err
	}
	if len(names) == 0 {
		_, err := fmt.Fprintf(out, "No profiles in %s\n", c.Dir)
		return err
	}
	fmt.Fprintln(out, "Available profiles:")
	for _, name := range names {
		fmt.Fprintf(out, " - %s\n", name)
	}
	return nil
}

// ErrProfileIssues is returned when at least one profile differs from the
// template.
var ErrProfileIssues = errors.New("profiles differ from template")

// ProfilesValidateCmd diffs every profile against a template table.
type ProfilesValidateCmd struct {
	Template string `kong:"default='data/ranges.json',type='existingfile',help='Template strategy table'"`
	Dir      string `kong:"default='data/profiles',help='Profiles directory'"`
}

func (c *ProfilesValidateCmd) Run() error {
	return c.run(context.Background(), os.Stdout)
}

func (c *ProfilesValidateCmd) run(ctx context.Context, out io.Writer) error {
	template, err := os.ReadFile(c.Template)
	if err != nil {
		return fmt.Errorf("read template: %w", err)
	}
	reports, err := profile.NewStore(c.Dir).ValidateAll(ctx, template)
	if err != nil {
		return err
	}
	if len(reports) == 0 {
		_, err := fmt.Fprintf(out, "No profiles in %s\n", c.Dir)
		return err
	}

	failed := 0
	for _, r := range reports {
		switch {
		case r.Err != nil:
			failed++
			fmt.Fprintf(out, "Failed to read profile %s: %v\n", r.Name, r.Err)
		case len(r.Issues) > 0:
			failed++
			fmt.Fprintf(out, "Issues for %s:\n", r.Name)
			for _, issue := range r.Issues {
				fmt.Fprintf(out, "  - %s\n", issue)
			}
		default:
			fmt.Fprintf(out, "OK: %s\n", r.Name)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", ErrProfileIssues, failed, len(reports))
	}
	fmt.Fprintln(out, "All profiles match the template.")
	return nil
}
