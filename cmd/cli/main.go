package main

import (
	"bytes"
	"encoding/csv"
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
		Use:   "tenderledger-cli",
		Short: "TenderLedger CLI tool",
		Long:  `A command line interface for interacting with the TenderLedger API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the TenderLedger API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Request timeout")

	// Import commands
	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Import CSV exports into the ledger",
	}

	importCmd.AddCommand(&cobra.Command{
		Use:   "tenders <file.csv>",
		Short: "Import a tenders CSV export",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			importCSV(args[0], "/api/v1/ingest/tenders")
		},
	})

	importCmd.AddCommand(&cobra.Command{
		Use:   "orders <file.csv>",
		Short: "Import a purchase orders CSV export",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			importCSV(args[0], "/api/v1/ingest/orders")
		},
	})

	rootCmd.AddCommand(importCmd)

	// Certify command
	certifyCmd := &cobra.Command{
		Use:   "certify <order-id>",
		Short: "Certify a purchase order",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			operationType, _ := cmd.Flags().GetString("operation")
			issuerName, _ := cmd.Flags().GetString("issuer")
			issuerRole, _ := cmd.Flags().GetString("role")
			notes, _ := cmd.Flags().GetString("notes")
			certify(args[0], operationType, issuerName, issuerRole, notes)
		},
	}
	certifyCmd.Flags().String("operation", "", "Operation type, e.g. recepcion conforme")
	certifyCmd.Flags().String("issuer", "", "Name of the person issuing the certificate")
	certifyCmd.Flags().String("role", "", "Role of the issuer")
	certifyCmd.Flags().String("notes", "", "Optional notes")
	rootCmd.AddCommand(certifyCmd)

	// Tender commands
	rootCmd.AddCommand(&cobra.Command{
		Use:   "tender <tender-id>",
		Short: "Show a tender's recomputed summary",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			getJSON("/api/v1/tenders/" + args[0])
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "ledger <tender-id>",
		Short: "Show a tender's movement history",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			getJSON("/api/v1/tenders/" + args[0] + "/ledger")
		},
	})

	// Reporting commands
	rootCmd.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "Show global balance aggregates",
		Run: func(cmd *cobra.Command, args []string) {
			getJSON("/api/v1/stats")
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "integrity",
		Short: "Cross-check orders against the certificate log",
		Run: func(cmd *cobra.Command, args []string) {
			checkIntegrity()
		},
	})

	// Reset command
	resetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Clear all certification state after taking a backup",
		Run: func(cmd *cobra.Command, args []string) {
			reason, _ := cmd.Flags().GetString("reason")
			reset(reason)
		},
	}
	resetCmd.Flags().String("reason", "", "Reason recorded with the backup snapshot")
	rootCmd.AddCommand(resetCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// importCSV reads a CSV export and posts its rows as header-keyed records.
func importCSV(path, endpoint string) {
	file, err := os.Open(path)
	if err != nil {
		fmt.Printf("Error opening file: %v\n", err)
		os.Exit(1)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		fmt.Printf("Error reading CSV: %v\n", err)
		os.Exit(1)
	}

	if len(rows) < 2 {
		fmt.Println("CSV has no data rows")
		os.Exit(1)
	}

	result := postJSON(endpoint, map[string]any{"records": csvToRecords(rows)})

	fmt.Printf("Ingested: %v\n", result["ingested"])
	fmt.Printf("Skipped:  %v\n", result["skipped"])
	if errs, ok := result["errors"].([]any); ok {
		for _, e := range errs {
			fmt.Printf("  %v\n", e)
		}
	}
}

// csvToRecords keys each data row by the header row. Short rows leave
// their trailing columns out of the record.
func csvToRecords(rows [][]string) []map[string]string {
	header := rows[0]
	records := make([]map[string]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		record := make(map[string]string, len(header))
		for i, name := range header {
			if i < len(row) {
				record[name] = row[i]
			}
		}
		records = append(records, record)
	}
	return records
}

func certify(orderID, operationType, issuerName, issuerRole, notes string) {
	result := postJSON("/api/v1/certifications", map[string]any{
		"order_id":       orderID,
		"operation_type": operationType,
		"issuer_name":    issuerName,
		"issuer_role":    issuerRole,
		"notes":          notes,
	})

	pretty, _ := json.MarshalIndent(result, "", "  ")
	fmt.Println(string(pretty))
}

func checkIntegrity() {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(baseURL + "/api/v1/integrity")
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Integrity check FAILED (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	var result map[string]any
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	if consistent, ok := result["consistent"].(bool); ok && consistent {
		fmt.Println("Integrity check PASSED")
	} else {
		fmt.Println("Integrity check FOUND DIVERGENCES")
	}

	pretty, _ := json.MarshalIndent(result, "", "  ")
	fmt.Println(string(pretty))

	if consistent, ok := result["consistent"].(bool); !ok || !consistent {
		os.Exit(1)
	}
}

func reset(reason string) {
	if reason == "" {
		fmt.Println("--reason is required")
		os.Exit(1)
	}

	result := postJSON("/api/v1/admin/reset", map[string]any{"reason": reason})

	fmt.Printf("Reset complete. Backup %v saved with %v orders and %v certificates.\n",
		result["id"], result["order_count"], result["certificate_count"])
}

func getJSON(endpoint string) {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(baseURL + endpoint)
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

	var result any
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	pretty, _ := json.MarshalIndent(result, "", "  ")
	fmt.Println(string(pretty))
}

func postJSON(endpoint string, payload map[string]any) map[string]any {
	body, err := json.Marshal(payload)
	if err != nil {
		fmt.Printf("Failed to encode request: %v\n", err)
		os.Exit(1)
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Post(baseURL+endpoint, "application/json", bytes.NewReader(body))
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		fmt.Printf("Request failed (Status: %d)\nResponse: %s\n", resp.StatusCode, string(respBody))
		os.Exit(1)
	}

	var result map[string]any
	if err := json.Unmarshal(respBody, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	return result
}
