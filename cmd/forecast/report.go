package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"StockPulse/internal/domain/models"
)

// printReport writes the fitted formula and the test-set scores.
func printReport(w io.Writer, res *models.ForecastResult) {
	fmt.Fprintf(w, "\n--- Model Results for %s ---\n", res.Company)
	if res.Model != nil {
		fmt.Fprintf(w, "The intercept (b) is: %.4f\n", res.Model.Intercept)
		fmt.Fprintln(w, "\nModel Coefficients (Formula):")
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
		fmt.Fprintln(tw, "Feature\tCoefficient\t")
		for i, name := range models.FeatureNames {
			if i < len(res.Model.Coefficients) {
				fmt.Fprintf(tw, "%s\t%.6f\t\n", name, res.Model.Coefficients[i])
			}
		}
		_ = tw.Flush()
	}

	fmt.Fprintf(w, "\nModel Performance on Test Set (%d train / %d test rows):\n", res.TrainSize, res.TestSize)
	fmt.Fprintf(w, "Test RMSE (Average $ Error): $%.2f\n", res.RMSE)
	if res.MAPE != nil {
		fmt.Fprintf(w, "Test MAPE (Average %% Error): %.2f%%\n", *res.MAPE*100)
	} else {
		fmt.Fprintln(w, "Test MAPE (Average % Error): undefined (zero close in test set)")
	}
	fmt.Fprintf(w, "Test R-squared (Model Fit): %.4f\n", res.R2)
}

func printCompanies(w io.Writer, companies []models.Company) {
	for _, co := range companies {
		fmt.Fprintf(w, "  %d: %s (%s)\n", co.Choice, co.Name, co.Symbol)
	}
}
