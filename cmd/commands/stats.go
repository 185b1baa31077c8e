package commands

// Command to print the embarkation port vs ticket class contingency table
// and its chi-square test of independence

import (
	"fmt"

	"survival-dashboard/internal/features/charts"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print the Embarked x Pclass chi-square test",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	table, err := loadDataset(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}

	ct, err := charts.Contingency(table)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, ct.String())

	res, err := charts.LogChiSquare(ct)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "chi2 = %.4f\np = %.4g\ndof = %d\n", res.Statistic, res.PValue, res.DOF)
	return nil
}
