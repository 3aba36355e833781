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
		Use:   "divvy-cli",
		Short: "Divvy CLI tool",
		Long:  `A command line interface for interacting with the Divvy API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the Divvy API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	groupCmd := &cobra.Command{
		Use:   "group",
		Short: "Group operations",
	}

	groupCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List groups",
		Run: func(cmd *cobra.Command, args []string) {
			doGet("/api/v1/groups")
		},
	})

	groupCmd.AddCommand(&cobra.Command{
		Use:   "get <group-id>",
		Short: "Show a group and its roster",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			doGet("/api/v1/groups/" + args[0])
		},
	})

	groupCmd.AddCommand(&cobra.Command{
		Use:   "summary <group-id>",
		Short: "Show a group's spend summary",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			doGet("/api/v1/groups/" + args[0] + "/summary")
		},
	})

	balancesCmd := &cobra.Command{
		Use:   "balances <group-id>",
		Short: "Show a group's net balances",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			doGet("/api/v1/groups/" + args[0] + "/balances")
		},
	}

	settlementCmd := &cobra.Command{
		Use:   "settlement",
		Short: "Settlement operations",
	}

	settlementCmd.AddCommand(&cobra.Command{
		Use:   "suggestions <group-id>",
		Short: "Show the group's pending settlement suggestions",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			doGet("/api/v1/groups/" + args[0] + "/settlements?status=pending")
		},
	})

	settlementCmd.AddCommand(&cobra.Command{
		Use:   "confirm <settlement-id>",
		Short: "Confirm a pending settlement",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			doPost("/api/v1/settlements/"+args[0]+"/confirm", nil)
		},
	})

	settlementCmd.AddCommand(&cobra.Command{
		Use:   "recompute <group-id>",
		Short: "Recompute the group's settlement suggestions",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			doPost("/api/v1/groups/"+args[0]+"/settlements/recompute", nil)
		},
	})

	consistencyCmd := &cobra.Command{
		Use:   "consistency <group-id>",
		Short: "Check a group's zero-sum consistency",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			checkConsistency(args[0])
		},
	}

	rootCmd.AddCommand(groupCmd, balancesCmd, settlementCmd, consistencyCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func doGet(path string) {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(baseURL + path)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	printResponse(resp)
}

func doPost(path string, body any) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			fmt.Printf("Error encoding request: %v\n", err)
			os.Exit(1)
		}
		reader = bytes.NewReader(data)
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Post(baseURL+path, "application/json", reader)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	printResponse(resp)
}

func printResponse(resp *http.Response) {
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		fmt.Printf("Request FAILED (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		fmt.Println(string(body))
		return
	}
	printJSON(v)
}

func checkConsistency(groupID string) {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(baseURL + "/api/v1/groups/" + groupID + "/consistency")
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Consistency check FAILED (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	var result map[string]any
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	if consistent, ok := result["consistent"].(bool); ok && consistent {
		fmt.Println("Consistency check PASSED")
	} else {
		fmt.Println("Consistency check FAILED")
	}
	printJSON(result)
}

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("Failed to encode output: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(data))
}
