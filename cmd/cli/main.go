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
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "treasury",
		Short: "Treasury CLI tool",
		Long:  `A command line interface for interacting with the treasury API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the treasury API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	ledgerCmd := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger operations",
	}

	ledgerCmd.AddCommand(&cobra.Command{
		Use:   "consistency",
		Short: "Check ledger consistency",
		Run: func(cmd *cobra.Command, args []string) {
			checkConsistency()
		},
	})

	accountsCmd := &cobra.Command{
		Use:   "accounts",
		Short: "Account operations",
	}

	accountsCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List accounts",
		Run: func(cmd *cobra.Command, args []string) {
			listAccounts()
		},
	})

	reconcileCmd := &cobra.Command{
		Use:   "reconcile <account-id> <real-balance>",
		Short: "Reconcile an account against a counted balance",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			reconcile(args[0], args[1])
		},
	}

	rootCmd.AddCommand(ledgerCmd, accountsCmd, reconcileCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func checkConsistency() {
	body := get("/api/v1/ledger/consistency")

	var result struct {
		Consistent bool `json:"consistent"`
		Drifts     []struct {
			AccountID  string `json:"account_id"`
			Cached     string `json:"cached"`
			Derived    string `json:"derived"`
			Difference string `json:"difference"`
		} `json:"drifts"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	if result.Consistent {
		fmt.Println("Consistency check PASSED")
		return
	}

	fmt.Println("Consistency check FAILED")
	for _, d := range result.Drifts {
		fmt.Printf("  account %s: cached=%s derived=%s diff=%s\n",
			d.AccountID, d.Cached, d.Derived, d.Difference)
	}
	os.Exit(1)
}

func listAccounts() {
	body := get("/api/v1/accounts?include_inactive=true")

	var result struct {
		Accounts []struct {
			ID       string `json:"id"`
			Name     string `json:"name"`
			Type     string `json:"type"`
			Balance  string `json:"balance"`
			IsActive bool   `json:"is_active"`
		} `json:"accounts"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	for _, a := range result.Accounts {
		status := "active"
		if !a.IsActive {
			status = "inactive"
		}
		fmt.Printf("%s  %-24s %-10s %12s  %s\n", a.ID, a.Name, a.Type, a.Balance, status)
	}
}

func reconcile(accountID, realBalance string) {
	payload, _ := json.Marshal(map[string]string{"real_balance": realBalance})

	client := &http.Client{Timeout: timeout}
	resp, err := client.Post(
		baseURL+"/api/v1/accounts/"+accountID+"/reconcile",
		"application/json",
		bytes.NewReader(payload),
	)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Reconcile FAILED (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	var result struct {
		PreviousBalance string          `json:"previous_balance"`
		RealBalance     string          `json:"real_balance"`
		Delta           string          `json:"delta"`
		Entry           json.RawMessage `json:"entry"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Reconciled %s: %s -> %s (delta %s)\n",
		accountID, result.PreviousBalance, result.RealBalance, result.Delta)
	if result.Entry == nil {
		fmt.Println("Balances already matched; no entry posted")
	}
}

func get(path string) []byte {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(baseURL + path)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Request failed (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	return body
}
