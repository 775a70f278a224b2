package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"StockPulse/internal/domain/models"
	"StockPulse/internal/usecase"
)

// runMenu prompts for a company until the user quits or input ends.
func runMenu(ctx context.Context, uc *usecase.ForecastUseCase, in io.Reader, out io.Writer) error {
	companies := uc.Companies()
	choices := make([]string, 0, len(companies))
	for _, co := range companies {
		choices = append(choices, strconv.Itoa(co.Choice))
	}
	options := strings.Join(choices, ", ")

	sc := bufio.NewScanner(in)
	for {
		fmt.Fprintln(out, "\n--- Stock Prediction Model Menu ---")
		fmt.Fprintln(out, "Which company would you like to analyze?")
		printCompanies(out, companies)
		fmt.Fprintln(out, "  q: Quit")
		fmt.Fprintf(out, "Enter your choice (%s or q): ", options)

		if !sc.Scan() {
			return sc.Err()
		}
		answer := strings.ToLower(strings.TrimSpace(sc.Text()))
		if answer == "q" {
			fmt.Fprintln(out, "Exiting program. Goodbye!")
			return nil
		}

		choice, err := strconv.Atoi(answer)
		if err != nil {
			fmt.Fprintf(out, "Invalid choice. Please enter %s or q.\n", options)
			continue
		}
		res, err := uc.ByChoice(ctx, choice, models.TriggerCLI)
		if err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
			continue
		}
		printReport(out, res)
	}
}
