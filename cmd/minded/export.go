package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	input "github.com/tcnksm/go-input"

	"github.com/go-go-golems/minded/pkg/conversation"
	"github.com/go-go-golems/minded/pkg/transcript"
)

var exportCmd = &cobra.Command{
	Use:   "export <snapshot.json>",
	Short: "Render a session snapshot to another format",
	Long: `Render an exported session snapshot to json, yaml, markdown or html.

The input is a snapshot file as written by /export in the chat UI or by
autosave. Without --output the result goes to stdout.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		output, _ := cmd.Flags().GetString("output")
		force, _ := cmd.Flags().GetBool("force")

		snapshot, err := conversation.LoadSnapshotFromFile(args[0])
		if err != nil {
			return errors.Wrapf(err, "failed to load snapshot from %s", args[0])
		}

		var rendered []byte
		switch format {
		case "json":
			rendered, err = json.MarshalIndent(snapshot, "", "  ")
		case "yaml":
			rendered, err = transcript.YAML(snapshot)
		case "markdown", "md":
			rendered = []byte(transcript.Markdown(snapshot))
		case "html":
			rendered, err = transcript.HTML(snapshot)
		default:
			return errors.Errorf("unknown format %q (json, yaml, markdown, html)", format)
		}
		if err != nil {
			return err
		}

		if output == "" {
			_, err = os.Stdout.Write(rendered)
			return err
		}

		if _, err := os.Stat(output); err == nil && !force {
			ok, err := confirmOverwrite(output)
			if err != nil {
				return err
			}
			if !ok {
				return errors.New("not overwriting, aborting")
			}
		}

		return os.WriteFile(output, rendered, 0644)
	},
}

func confirmOverwrite(path string) (bool, error) {
	ui := &input.UI{
		Writer: os.Stderr,
		Reader: os.Stdin,
	}

	answer, err := ui.Ask(fmt.Sprintf("%s exists, overwrite? (y/n)", path), &input.Options{
		Default:  "n",
		Required: true,
		Loop:     true,
		ValidateFunc: func(s string) error {
			if s != "y" && s != "n" {
				return errors.New("answer y or n")
			}
			return nil
		},
	})
	if err != nil {
		return false, err
	}

	return answer == "y", nil
}

func init() {
	exportCmd.Flags().StringP("format", "f", "markdown", "Output format (json, yaml, markdown, html)")
	exportCmd.Flags().StringP("output", "o", "", "Output file (default stdout)")
	exportCmd.Flags().Bool("force", false, "Overwrite the output file without asking")
}
