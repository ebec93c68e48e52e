package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var (
	serverURL   string
	noAutoStart bool
	rootCmd     = &cobra.Command{
		Use:   "social-fetch",
		Short: "Social-Fetch CLI - Download media from YouTube, Facebook, Instagram and Spotify",
		Long:  `A command-line interface for downloading videos, audio and photos from social platforms.`,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8080", "Server URL")
	rootCmd.PersistentFlags().BoolVar(&noAutoStart, "no-auto-start", false, "Don't auto-start server if not running")

	rootCmd.AddCommand(downloadCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(deleteCmd)
}

// ensureServer checks if server is running and starts it if needed (unless --no-auto-start)
func ensureServer() {
	if noAutoStart {
		return
	}
	if err := ensureServerRunning(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
}

var downloadCmd = &cobra.Command{
	Use:   "download [platform] [url]",
	Short: "Download media from a platform URL",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		ensureServer()

		platform := args[0]
		url := args[1]
		format, _ := cmd.Flags().GetString("format")
		quality, _ := cmd.Flags().GetString("quality")
		index, _ := cmd.Flags().GetInt("index")
		output, _ := cmd.Flags().GetString("output")

		payload := map[string]interface{}{
			"url": url,
		}
		if format != "" {
			payload["format_type"] = format
		}
		if quality != "" {
			payload["quality"] = quality
		}
		if cmd.Flags().Changed("index") {
			payload["carousel_index"] = index
		}

		data, _ := json.Marshal(payload)
		resp, err := http.Post(serverURL+"/api/v1/download/"+platform, "application/json", bytes.NewBuffer(data))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(resp.Body)
			fmt.Fprintf(os.Stderr, "Error: %s\n", string(body))
			os.Exit(1)
		}

		// Carousel posts answer with a JSON manifest instead of media bytes
		if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
			body, _ := io.ReadAll(resp.Body)
			var manifest map[string]interface{}
			json.Unmarshal(body, &manifest)
			pretty, _ := json.MarshalIndent(manifest, "", "  ")
			fmt.Println(string(pretty))
			fmt.Fprintln(os.Stderr, "This post is a carousel; re-run with --index to pick an item.")
			return
		}

		filename := output
		if filename == "" {
			filename = filenameFromDisposition(resp.Header.Get("Content-Disposition"))
		}
		if filename == "" {
			filename = "download.bin"
		}

		file, err := os.Create(filename)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer file.Close()

		written, err := io.Copy(file, resp.Body)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: download interrupted after %d bytes: %v\n", written, err)
			os.Exit(1)
		}

		fmt.Printf("Saved %s (%d bytes)\n", filename, written)
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List download history",
	Run: func(cmd *cobra.Command, args []string) {
		ensureServer()
		status, _ := cmd.Flags().GetString("status")
		platform, _ := cmd.Flags().GetString("platform")

		url := serverURL + "/api/v1/history"
		params := []string{}
		if status != "" {
			params = append(params, "status="+status)
		}
		if platform != "" {
			params = append(params, "platform="+platform)
		}
		if len(params) > 0 {
			url += "?" + strings.Join(params, "&")
		}

		resp, err := http.Get(url)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer resp.Body.Close()

		body, _ := io.ReadAll(resp.Body)
		var records []map[string]interface{}
		json.Unmarshal(body, &records)

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tURL\tPLATFORM\tSTATUS\tCREATED")
		for _, r := range records {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				truncate(r["id"].(string), 8),
				truncate(r["url"].(string), 40),
				r["platform"],
				r["status"],
				r["created_at"])
		}
		w.Flush()
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show download statistics",
	Run: func(cmd *cobra.Command, args []string) {
		ensureServer()
		resp, err := http.Get(serverURL + "/api/v1/history/stats")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer resp.Body.Close()

		body, _ := io.ReadAll(resp.Body)
		var stats map[string]interface{}
		json.Unmarshal(body, &stats)

		fmt.Println("Download Statistics:")
		fmt.Printf("  Total:       %v\n", stats["total"])
		fmt.Printf("  Completed:   %v\n", stats["completed"])
		fmt.Printf("  Failed:      %v\n", stats["failed"])
		fmt.Printf("  Total bytes: %v\n", stats["total_bytes"])
	},
}

var getCmd = &cobra.Command{
	Use:   "get [id]",
	Short: "Get download record details",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ensureServer()
		id := args[0]
		resp, err := http.Get(serverURL + "/api/v1/history/" + id)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer resp.Body.Close()

		body, _ := io.ReadAll(resp.Body)
		if resp.StatusCode != http.StatusOK {
			fmt.Fprintf(os.Stderr, "Error: %s\n", string(body))
			os.Exit(1)
		}

		var record map[string]interface{}
		json.Unmarshal(body, &record)

		fmt.Printf("Download Record:\n")
		fmt.Printf("  ID:       %s\n", record["id"])
		fmt.Printf("  URL:      %s\n", record["url"])
		fmt.Printf("  Platform: %s\n", record["platform"])
		fmt.Printf("  Status:   %s\n", record["status"])
		fmt.Printf("  Format:   %s\n", record["format_type"])
		fmt.Printf("  Created:  %s\n", record["created_at"])
		if record["filename"] != nil {
			fmt.Printf("  Filename: %s\n", record["filename"])
		}
		if record["error_message"] != nil {
			fmt.Printf("  Error:    %s\n", record["error_message"])
		}
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a download record",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ensureServer()
		id := args[0]
		req, err := http.NewRequest(http.MethodDelete, serverURL+"/api/v1/history/"+id, nil)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(resp.Body)
			fmt.Fprintf(os.Stderr, "Error: %s\n", string(body))
			os.Exit(1)
		}
		fmt.Println("Record deleted successfully")
	},
}

func init() {
	downloadCmd.Flags().StringP("format", "f", "", "Format type (video, audio)")
	downloadCmd.Flags().StringP("quality", "q", "", "Quality (best, 1080p, or audio bitrate like 192k)")
	downloadCmd.Flags().IntP("index", "i", 0, "Carousel item index")
	downloadCmd.Flags().StringP("output", "o", "", "Output file path")
	historyCmd.Flags().StringP("status", "s", "", "Filter by status")
	historyCmd.Flags().StringP("platform", "p", "", "Filter by platform")
}

// filenameFromDisposition extracts the filename from a Content-Disposition
// header, preferring the RFC 5987 filename* parameter
func filenameFromDisposition(header string) string {
	if header == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(header)
	if err != nil {
		return ""
	}
	if name := params["filename"]; name != "" {
		return name
	}
	return ""
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
