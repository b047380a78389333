package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentflare-ai/go-jsonpatch"
	"github.com/agentflare-ai/go-jsonpatch/internal/docio"
)

func (a *app) newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get DOC POINTER",
		Short: "Print the value a JSON pointer addresses",
		Example: `  jsonpatch get deploy.yaml /spec/containers/0/image
  echo '{"a/b":1}' | jsonpatch get - /a~1b`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := docio.ReadDocument(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			v, err := jsonpatch.Get(doc, args[1])
			if err != nil {
				return err
			}
			a.logger(cmd).Debug("resolved pointer", "pointer", args[1])
			return a.encode(cmd, v)
		},
	}
}

func (a *app) newApplyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "apply DOC PATCH",
		Short: "Apply an RFC 6902 patch and print the resulting document",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := a.apply(cmd, args[0], args[1])
			if err != nil {
				return err
			}
			return a.encode(cmd, result)
		},
	}
}

func (a *app) newTestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "test DOC PATCH",
		Short: "Check that a patch applies cleanly without printing the result",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.apply(cmd, args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		},
	}
}

func (a *app) apply(cmd *cobra.Command, docPath, patchPath string) (any, error) {
	if err := oneStdin(docPath, patchPath); err != nil {
		return nil, err
	}
	doc, err := docio.ReadDocument(docPath, cmd.InOrStdin())
	if err != nil {
		return nil, err
	}
	patch, err := docio.ReadPatch(patchPath, cmd.InOrStdin())
	if err != nil {
		return nil, err
	}

	logger := a.logger(cmd)
	logger.Debug("applying patch", "operations", len(patch))
	result, err := jsonpatch.ApplyInPlace(doc, patch)
	if err != nil {
		logger.Error("patch failed", "document", docPath, "patch", patchPath, "error", err)
		return nil, err
	}
	return result, nil
}

func (a *app) newDiffCmd() *cobra.Command {
	var exitCode bool
	cmd := &cobra.Command{
		Use:   "diff BEFORE AFTER",
		Short: "Print a patch that turns BEFORE into AFTER",
		Long: `Print a patch that turns BEFORE into AFTER.

Arrays are compared position by position by default; --arrays lcs emits the
insertions and removals of a longest common subsequence instead. With
--output text a line diff of both documents is printed instead of a patch.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := oneStdin(args...); err != nil {
				return err
			}
			before, err := docio.ReadDocument(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			after, err := docio.ReadDocument(args[1], cmd.InOrStdin())
			if err != nil {
				return err
			}
			mode, err := jsonpatch.ParseArrayMode(a.cfg.Diff.Arrays)
			if err != nil {
				return err
			}

			patch := jsonpatch.Diff(before, after, jsonpatch.OptionArrayMode(mode))
			a.logger(cmd).Debug("computed diff", "arrays", mode, "operations", len(patch))

			if a.cfg.Output.Format == "text" {
				err = docio.TextDiff(cmd.OutOrStdout(), before, after, a.cfg.Output.Color)
			} else {
				err = a.encode(cmd, patch)
			}
			if err != nil {
				return err
			}
			if exitCode && len(patch) > 0 {
				return ErrDifferent
			}
			return nil
		},
	}
	cmd.Flags().String("arrays", "", "array comparison: index or lcs (default index)")
	cmd.Flags().BoolVar(&exitCode, "exit-code", false, "exit with status 1 when the documents differ")
	return cmd
}
