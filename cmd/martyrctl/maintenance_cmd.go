// cmd/martyrctl/maintenance_cmd.go
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/WAJoseph/christian-martyrs-honor/internal/maintenance"
)

// opsClient talks to the server's ops listener.
type opsClient struct {
	host  string
	token string
	http  *http.Client
}

type apiError struct {
	Status  int
	Message string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("ops api: %d %s", e.Status, e.Message)
}

func (c *opsClient) do(ctx context.Context, method string, body any) (maintenance.Window, error) {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return maintenance.Window{}, err
		}
		rdr = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, strings.TrimRight(c.host, "/")+"/maintenance", rdr)
	if err != nil {
		return maintenance.Window{}, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return maintenance.Window{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&e)
		return maintenance.Window{}, &apiError{Status: resp.StatusCode, Message: e.Error}
	}
	var w maintenance.Window
	if err := json.NewDecoder(resp.Body).Decode(&w); err != nil {
		return maintenance.Window{}, fmt.Errorf("decode response: %w", err)
	}
	return w, nil
}

func printWindow(out io.Writer, w maintenance.Window) {
	if !w.Active {
		_, _ = fmt.Fprintln(out, "maintenance: inactive")
		return
	}
	_, _ = fmt.Fprintln(out, "maintenance: active")
	if w.Start != nil {
		_, _ = fmt.Fprintf(out, "  start: %s\n", w.Start.UTC().Format(time.RFC3339))
	}
	if w.End != nil {
		_, _ = fmt.Fprintf(out, "  end:   %s\n", w.End.UTC().Format(time.RFC3339))
	}
}

func newMaintenanceCmd() *cobra.Command {
	c := &opsClient{http: &http.Client{Timeout: 10 * time.Second}}

	cmd := &cobra.Command{
		Use:   "maintenance",
		Short: "Show or change the maintenance window",
	}
	cmd.PersistentFlags().StringVar(&c.host, "host", envDefault("http://127.0.0.1:9090", "MARTYRS_OPS_HOST"), "Ops listener URL (env MARTYRS_OPS_HOST)")
	cmd.PersistentFlags().StringVar(&c.token, "token", envDefault("", "MARTYRS_TOKEN"), "Admin bearer token (env MARTYRS_TOKEN)")

	status := &cobra.Command{
		Use:   "status",
		Short: "Print the current maintenance window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w, err := c.do(cmd.Context(), http.MethodGet, nil)
			if err != nil {
				return err
			}
			printWindow(cmd.OutOrStdout(), w)
			return nil
		},
	}

	var (
		end      string
		start    string
		duration time.Duration
	)
	enable := &cobra.Command{
		Use:   "enable",
		Short: "Start a maintenance window",
		Long:  "Start a maintenance window. It stays active until disabled, even after --end passes.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := enableRequest(time.Now(), start, end, duration)
			if err != nil {
				return err
			}
			w, err := c.do(cmd.Context(), http.MethodPost, req)
			if err != nil {
				return err
			}
			printWindow(cmd.OutOrStdout(), w)
			return nil
		},
	}
	enable.Flags().StringVar(&end, "end", "", "Announced end time (RFC 3339)")
	enable.Flags().StringVar(&start, "start", "", "Start time (RFC 3339); defaults to now on the server")
	enable.Flags().DurationVar(&duration, "for", 0, "Announced duration from now, instead of --end")

	disable := &cobra.Command{
		Use:   "disable",
		Short: "End the maintenance window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w, err := c.do(cmd.Context(), http.MethodDelete, nil)
			if err != nil {
				return err
			}
			printWindow(cmd.OutOrStdout(), w)
			return nil
		},
	}

	cmd.AddCommand(status, enable, disable)
	return cmd
}

func enableRequest(now time.Time, start, end string, d time.Duration) (maintenance.EnableRequest, error) {
	var req maintenance.EnableRequest
	switch {
	case end != "" && d != 0:
		return req, fmt.Errorf("use either --end or --for, not both")
	case end != "":
		t, err := time.Parse(time.RFC3339, end)
		if err != nil {
			return req, fmt.Errorf("invalid --end: %w", err)
		}
		req.End = &t
	case d > 0:
		t := now.Add(d)
		req.End = &t
	default:
		return req, fmt.Errorf("--end or --for is required")
	}
	if start != "" {
		t, err := time.Parse(time.RFC3339, start)
		if err != nil {
			return req, fmt.Errorf("invalid --start: %w", err)
		}
		req.Start = &t
	}
	return req, nil
}
