package cmd

import (
	"fmt"
	"io"

	"github.com/rtandon/gfg/internal/objects"
	"github.com/spf13/cobra"
)

var catFileCmd = &cobra.Command{
	Use:   "cat-file (-t | -p | <type>) <object>",
	Short: "Show object type, raw content or pretty-printed content",
	Long: `cat-file looks up <object> (a full or short sha) and either prints its
type (-t), pretty-prints its content (-p), or asserts it is of the given
<type> and prints its raw payload. <type> may be given as a flag
(--assert-type) or, matching plain git, as the first of two positional
arguments: "gfg cat-file blob <object>".`,
	SilenceUsage: true,
	Args:         catFileArgs,
	RunE:         runCatFile,
}

var catFileShowType bool
var catFilePrettyPrint bool
var catFileAssertType string

func init() {
	rootCmd.AddCommand(catFileCmd)
	catFileCmd.Flags().BoolVarP(&catFileShowType, "type", "t", false, "Print the object's type")
	catFileCmd.Flags().BoolVarP(&catFilePrettyPrint, "pretty-print", "p", false, "Pretty-print the object's content")
	catFileCmd.Flags().StringVar(&catFileAssertType, "assert-type", "", "Assert the object is of this type")
}

// catFileArgs accepts either one positional argument (<object>, combined with
// -t/-p/--assert-type) or two (<type> <object>, matching plain git's
// "cat-file <type> <object>" form).
func catFileArgs(cmd *cobra.Command, args []string) error {
	if len(args) == 1 || len(args) == 2 {
		return nil
	}
	cmd.SilenceUsage = false
	return fmt.Errorf("cat-file command requires 1 or 2 argument(s), received %d", len(args))
}

func runCatFile(cmd *cobra.Command, args []string) error {
	repo, err := currentRepository()
	if err != nil {
		return err
	}

	objectArg := args[0]
	assertType := catFileAssertType
	if len(args) == 2 {
		objectArg = args[1]
		assertType = args[0]
	}

	obj, err := objects.Load(repo.Store(), objectArg)
	if err != nil {
		return fmt.Errorf("not a valid object name %s: %w", objectArg, err)
	}

	switch {
	case catFileShowType:
		fmt.Fprintln(cmd.OutOrStdout(), obj.Type())
		return nil
	case catFilePrettyPrint:
		return prettyPrint(cmd, obj)
	case assertType != "":
		if string(obj.Type()) != assertType {
			return fmt.Errorf("object %s is a %s, not a %s", objectArg, obj.Type(), assertType)
		}
		_, err := cmd.OutOrStdout().Write(obj.Payload())
		return err
	default:
		return prettyPrint(cmd, obj)
	}
}

// prettyPrinter is implemented by every object variant; it's the common
// contract cat-file -p dispatches through regardless of concrete type.
type prettyPrinter interface {
	PrettyPrint(w io.Writer) error
}

func prettyPrint(cmd *cobra.Command, obj objects.Object) error {
	p, ok := obj.(prettyPrinter)
	if !ok {
		_, err := cmd.OutOrStdout().Write(obj.Payload())
		return err
	}
	return p.PrettyPrint(cmd.OutOrStdout())
}
