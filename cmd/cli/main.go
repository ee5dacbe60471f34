package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL string
	org     string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ledgerbook-cli",
		Short: "Ledgerbook CLI tool",
		Long:  `A command line interface for interacting with the ledgerbook API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the ledgerbook API")
	rootCmd.PersistentFlags().StringVar(&org, "org", "", "Organization ID (required)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(accountsCmd())
	rootCmd.AddCommand(transactionsCmd())
	rootCmd.AddCommand(ratesCmd())
	rootCmd.AddCommand(periodsCmd())
	rootCmd.AddCommand(reportsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func accountsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Account operations",
	}

	var code, name, accType, currency string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return doRequest(http.MethodPost, "/api/v1/accounts", map[string]any{
				"code":     code,
				"name":     name,
				"type":     accType,
				"currency": currency,
			})
		},
	}
	createCmd.Flags().StringVar(&code, "code", "", "Account code")
	createCmd.Flags().StringVar(&name, "name", "", "Account name")
	createCmd.Flags().StringVar(&accType, "type", "", "Account type (asset, liability, equity, revenue, expense)")
	createCmd.Flags().StringVar(&currency, "currency", "USD", "Account currency")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return doRequest(http.MethodGet, "/api/v1/accounts", nil)
		},
	}

	var asOf string
	balanceCmd := &cobra.Command{
		Use:   "balance [id]",
		Short: "Show an account balance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/accounts/" + args[0] + "/balance"
			if asOf != "" {
				path += "?as_of=" + asOf
			}
			return doRequest(http.MethodGet, path, nil)
		},
	}
	balanceCmd.Flags().StringVar(&asOf, "as-of", "", "Balance as of date (YYYY-MM-DD)")

	cmd.AddCommand(createCmd, listCmd, balanceCmd)
	return cmd
}

func transactionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transactions",
		Short: "Transaction lifecycle operations",
	}

	var file string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a draft transaction from a JSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(file)
			if err != nil {
				return err
			}
			var body map[string]any
			if err := json.Unmarshal(raw, &body); err != nil {
				return fmt.Errorf("parsing %s: %w", file, err)
			}
			return doRequest(http.MethodPost, "/api/v1/transactions", body)
		},
	}
	createCmd.Flags().StringVar(&file, "file", "", "Path to a JSON transaction definition")

	for _, action := range []string{"submit", "approve", "reject", "post", "void"} {
		action := action
		cmd.AddCommand(&cobra.Command{
			Use:   action + " [id]",
			Short: capitalize(action) + " a transaction",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return doRequest(http.MethodPost, "/api/v1/transactions/"+args[0]+"/"+action, nil)
			},
		})
	}

	historyCmd := &cobra.Command{
		Use:   "history [id]",
		Short: "Show the audit trail of a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return doRequest(http.MethodGet, "/api/v1/transactions/"+args[0]+"/history", nil)
		},
	}

	bulkApproveCmd := &cobra.Command{
		Use:   "bulk-approve [id...]",
		Short: "Approve several pending transactions",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return doRequest(http.MethodPost, "/api/v1/transactions/bulk-approve", map[string]any{
				"transaction_ids": args,
			})
		},
	}

	cmd.AddCommand(createCmd, historyCmd, bulkApproveCmd)
	return cmd
}

func ratesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rates",
		Short: "Exchange rate operations",
	}

	var from, to, rate, effective string
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Register an exchange rate",
		RunE: func(cmd *cobra.Command, args []string) error {
			return doRequest(http.MethodPost, "/api/v1/rates", map[string]any{
				"from_currency":  from,
				"to_currency":    to,
				"rate":           rate,
				"effective_date": effective,
			})
		},
	}
	addCmd.Flags().StringVar(&from, "from", "", "Source currency")
	addCmd.Flags().StringVar(&to, "to", "", "Target currency")
	addCmd.Flags().StringVar(&rate, "rate", "", "Exchange rate")
	addCmd.Flags().StringVar(&effective, "effective", "", "Effective date (YYYY-MM-DD)")

	cmd.AddCommand(addCmd)
	return cmd
}

func periodsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "periods",
		Short: "Fiscal period operations",
	}

	var name, start string
	var adjustment bool
	createCmd := &cobra.Command{
		Use:   "create-year",
		Short: "Generate the monthly periods of a fiscal year",
		RunE: func(cmd *cobra.Command, args []string) error {
			return doRequest(http.MethodPost, "/api/v1/periods/fiscal-year", map[string]any{
				"name":                      name,
				"start":                     start,
				"include_adjustment_period": adjustment,
			})
		},
	}
	createCmd.Flags().StringVar(&name, "name", "", "Fiscal year name")
	createCmd.Flags().StringVar(&start, "start", "", "First day of the year (YYYY-MM-DD)")
	createCmd.Flags().BoolVar(&adjustment, "adjustment", false, "Append a year-end adjustment period")

	var status string
	var adminReopen bool
	statusCmd := &cobra.Command{
		Use:   "set-status [id]",
		Short: "Transition a period between open, closed and locked",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return doRequest(http.MethodPut, "/api/v1/periods/"+args[0]+"/status", map[string]any{
				"status":       status,
				"admin_reopen": adminReopen,
			})
		},
	}
	statusCmd.Flags().StringVar(&status, "status", "", "Target status (open, closed, locked)")
	statusCmd.Flags().BoolVar(&adminReopen, "admin-reopen", false, "Allow reopening a locked period")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List fiscal periods",
		RunE: func(cmd *cobra.Command, args []string) error {
			return doRequest(http.MethodGet, "/api/v1/periods", nil)
		},
	}

	cmd.AddCommand(createCmd, statusCmd, listCmd)
	return cmd
}

func reportsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reports",
		Short: "Reporting operations",
	}

	var from, to string
	trialBalanceCmd := &cobra.Command{
		Use:   "trial-balance",
		Short: "Show the trial balance",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/reports/trial-balance"
			if from != "" && to != "" {
				path += "?from=" + from + "&to=" + to
			}
			return doRequest(http.MethodGet, path, nil)
		},
	}
	trialBalanceCmd.Flags().StringVar(&from, "from", "", "Range start (YYYY-MM-DD)")
	trialBalanceCmd.Flags().StringVar(&to, "to", "", "Range end (YYYY-MM-DD)")

	variancesCmd := &cobra.Command{
		Use:   "budget-variances",
		Short: "Compare budget lines against actual spend",
		RunE: func(cmd *cobra.Command, args []string) error {
			return doRequest(http.MethodGet, "/api/v1/reports/budget-variances", nil)
		},
	}

	cmd.AddCommand(trialBalanceCmd, variancesCmd)
	return cmd
}

// doRequest sends a JSON request to the API and prints the response body.
func doRequest(method, path string, body map[string]any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if org != "" {
		req.Header.Set("X-Org-ID", org)
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= 400 {
		return fmt.Errorf("request failed (status %d): %s", resp.StatusCode, truncate(string(raw), 500))
	}

	var pretty any
	if err := json.Unmarshal(raw, &pretty); err != nil {
		fmt.Println(string(raw))
		return nil
	}
	printJSON(pretty)

	return nil
}

// printJSON prints a value as indented JSON.
func printJSON(v any) {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Println(v)
		return
	}
	fmt.Println(string(raw))
}

// truncate shortens s to at most n runes, with an ellipsis.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
