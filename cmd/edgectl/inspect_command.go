package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"edgectl/internal/config"
	"edgectl/internal/i18n"
	"edgectl/internal/payload"
)

type inspectOutput struct {
	Size      int    `json:"size"`
	HumanSize string `json:"human_size"`
	Type      string `json:"type,omitempty"`
	MIMEType  string `json:"mime_type,omitempty"`
	Hex       string `json:"hex"`
	Truncated bool   `json:"truncated"`
	SavedTo   string `json:"saved_to,omitempty"`
}

func newInspectCommand(ctx *commandContext) *cobra.Command {
	var inputFile string
	var saveAs string
	var preview int

	cmd := &cobra.Command{
		Use:   "inspect [BASE64|-]",
		Short: "Decode a base64 device payload, sniff its type, and optionally save it",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			encoded, err := readPayloadInput(cmd, args, inputFile)
			if err != nil {
				return err
			}
			buf, err := payload.DecodeBase64(encoded)
			if err != nil {
				return err
			}

			if preview <= 0 {
				preview = cfg.UI.HexPreviewBytes
			}
			report := payload.Inspect(buf, preview)
			out := inspectOutput{
				Size:      report.Size,
				HumanSize: report.HumanSize,
				Hex:       report.Hex,
				Truncated: report.Truncated,
			}
			if report.Type != nil {
				out.Type = report.Type.DisplayName
				out.MIMEType = report.Type.MIMEType
			}
			if cmd.Flags().Changed("save") {
				path, err := saveDownload(cfg, buf, saveAs)
				if err != nil {
					return err
				}
				out.SavedTo = path
			}

			if ctx.jsonOutput() {
				return writeJSON(cmd, out)
			}
			printInspect(cmd, out, ctx.language(cfg))
			return nil
		},
	}

	cmd.Flags().StringVarP(&inputFile, "file", "f", "", "Read the base64 text from a file")
	cmd.Flags().StringVarP(&saveAs, "save", "o", "", "Save the decoded bytes under this name in the download directory")
	cmd.Flags().IntVar(&preview, "preview", 0, "Number of bytes shown in the hex preview")
	return cmd
}

func readPayloadInput(cmd *cobra.Command, args []string, inputFile string) (string, error) {
	switch {
	case inputFile != "" && len(args) > 0:
		return "", errors.New("pass either a payload argument or --file, not both")
	case inputFile != "":
		data, err := os.ReadFile(inputFile)
		if err != nil {
			return "", fmt.Errorf("read payload file: %w", err)
		}
		return string(data), nil
	case len(args) == 1 && args[0] != "-":
		return args[0], nil
	default:
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read payload from stdin: %w", err)
		}
		return string(data), nil
	}
}

func saveDownload(cfg *config.Config, buf []byte, name string) (string, error) {
	name = payload.SuggestFilename(strings.TrimSpace(name), buf)
	return payload.NewDownloader(cfg.UI.DownloadDir).Save(buf, name)
}

func printInspect(cmd *cobra.Command, out inspectOutput, lang i18n.Lang) {
	kind := "unknown"
	if out.Type != "" {
		kind = fmt.Sprintf("%s (%s)", out.Type, out.MIMEType)
	}
	hex := out.Hex
	if out.Truncated {
		hex += " …"
	}
	rows := [][]string{
		{"Size", fmt.Sprintf("%s (%d bytes)", out.HumanSize, out.Size)},
		{"Type", kind},
		{"Hex", hex},
	}
	w := cmd.OutOrStdout()
	fmt.Fprintln(w, renderTable(i18n.T(lang, i18n.TitlePayloadInspect), nil, rows, nil))
	if out.SavedTo != "" {
		fmt.Fprintf(w, "%s: %s\n", i18n.T(lang, i18n.MsgDownloadSaved), out.SavedTo)
	}
}
