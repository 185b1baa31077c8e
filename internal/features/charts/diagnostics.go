package charts

import (
	"survival-dashboard/internal/dataset"
	logging "survival-dashboard/internal/infra/log"
	"survival-dashboard/internal/stats"

	"go.uber.org/zap"
)

// Contingency returns figure7's Embarked x Pclass table.
func Contingency(t *dataset.Table) (*stats.Contingency, error) {
	rec, _ := recipeFor(Figure7)
	return rec.(heatmapRecipe).table(t)
}

// LogChiSquare logs the contingency table and its chi-square test.
// The result is diagnostic only and never drawn on the figure.
func LogChiSquare(ct *stats.Contingency) (stats.ChiSquareResult, error) {
	logging.LogBlock("Contingency table", ct.String())

	res, err := stats.ChiSquare(ct)
	if err != nil {
		logging.LogWarn("Chi-square test skipped", zap.Error(err))
		return res, err
	}
	logging.LogInfo("Chi-square test results",
		zap.Float64("chi2", res.Statistic),
		zap.Float64("p", res.PValue),
		zap.Int("dof", res.DOF))
	return res, nil
}
