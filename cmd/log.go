package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/rtandon/gfg/internal/codec"
	"github.com/rtandon/gfg/internal/gfgerrors"
	"github.com/rtandon/gfg/internal/objects"
	"github.com/spf13/cobra"
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Show commit history starting from HEAD",
	Long: `log walks parent commits starting from HEAD and renders each one.
It stops and warns the moment a parent object can't be read, since this
implementation does not support packfiles.`,
	SilenceUsage: true,
	Args:         exactArgs(0),
	RunE:         runLog,
}

var logNoColor bool

func init() {
	rootCmd.AddCommand(logCmd)
	logCmd.Flags().BoolVar(&logNoColor, "no-color", false, "Disable colored commit headers")
}

func runLog(cmd *cobra.Command, args []string) error {
	repo, err := currentRepository()
	if err != nil {
		return err
	}
	objectStore := repo.Store()

	headHex, ok, err := repo.HeadCommit()
	if err != nil {
		return fmt.Errorf("failed to resolve HEAD: %w", err)
	}
	if !ok {
		return nil
	}

	out := cmd.OutOrStdout()
	shaHeader := color.New(color.FgYellow)
	shaHeader.EnableColor()
	if logNoColor || !isTerminalWriter(out) {
		shaHeader.DisableColor()
	}

	currentHex := headHex
	first := true
	for {
		sha, err := codec.HexToSha(currentHex)
		if err != nil {
			return fmt.Errorf("malformed commit sha %s: %w", currentHex, err)
		}

		obj, err := objectStore.Read(sha)
		if err != nil {
			if errors.Is(err, gfgerrors.ErrObjectNotFound) {
				fmt.Fprintln(out, "GFG: The next parent object might be a packfile. Packfiles are not supported.")
				return nil
			}
			return err
		}
		commit, ok := obj.(*objects.Commit)
		if !ok {
			return fmt.Errorf("object %s is a %s, not a commit", currentHex, obj.Type())
		}

		if !first {
			fmt.Fprintln(out)
		}
		first = false
		renderCommit(out, shaHeader, currentHex, commit)

		parents := commit.ParentShas()
		if len(parents) == 0 {
			return nil
		}
		currentHex = codec.ShaToHex(parents[0])
	}
}

func renderCommit(out io.Writer, shaHeader *color.Color, sha string, commit *objects.Commit) {
	shaHeader.Fprintf(out, "commit %s\n", sha)
	fmt.Fprintf(out, "Author: %s\n", commit.Author().String())
	fmt.Fprintf(out, "Date:   %s\n", commit.Author().Timestamp.Format("Mon Jan 2 15:04:05 2006 -0700"))
	fmt.Fprintln(out)
	for _, line := range splitLines(commit.Message()) {
		if line == "" {
			fmt.Fprintln(out)
		} else {
			fmt.Fprintf(out, "    %s\n", line)
		}
	}
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}

func isTerminalWriter(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
