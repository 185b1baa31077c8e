package commands

// Command to render a single figure without starting the server
// Writes a PNG file with -o, otherwise prints the base64 payload to stdout

import (
	"fmt"
	"strings"

	"survival-dashboard/internal/features/charts"
	storage "survival-dashboard/internal/infra/fs"
	logging "survival-dashboard/internal/infra/log"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var renderOutput string

var renderCmd = &cobra.Command{
	Use:   "render <figureN>",
	Short: "Render one figure to a PNG file or base64",
	Long:  `Render a figure (figure1 .. figure7). With -o the PNG is written to a file; otherwise the base64 PNG is printed.`,
	Args:  cobra.ExactArgs(1),
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		ids := make([]string, 0, len(charts.Kinds()))
		for _, k := range charts.Kinds() {
			ids = append(ids, k.String())
		}
		return ids, cobra.ShellCompDirectiveNoFileComp
	},
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "write the PNG to this file")
}

func runRender(cmd *cobra.Command, args []string) error {
	kind, ok := charts.ParseKind(args[0])
	if !ok {
		return fmt.Errorf("unknown figure %q", args[0])
	}

	table, err := loadDataset(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}

	img, err := charts.NewRenderer(table).Draw(kind)
	if err != nil {
		logging.LogError("Figure rendering failed", zap.String("figure", kind.String()), zap.Error(err))
		return err
	}

	if renderOutput == "" {
		encoded, err := charts.Encode(img)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), encoded)
		return err
	}

	data, err := charts.EncodePNG(img)
	if err != nil {
		return err
	}
	if !strings.HasSuffix(strings.ToLower(renderOutput), ".png") {
		logging.LogWarn("Output file has no .png extension", zap.String("path", renderOutput))
	}
	if err := storage.SaveFile(renderOutput, data); err != nil {
		return err
	}
	logging.LogSuccess("Figure written",
		zap.String("figure", kind.String()),
		zap.String("path", renderOutput),
		zap.Int("bytes", len(data)))
	return nil
}
