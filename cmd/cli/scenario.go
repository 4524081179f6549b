package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/iho/goamort/internal/adapter/http/dto"
)

const scenariosPath = "/api/v1/scenarios"

func scenarioCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scenario",
		Short: "Saved scenario operations",
	}

	cmd.AddCommand(scenarioSaveCmd())
	cmd.AddCommand(scenarioListCmd())
	cmd.AddCommand(scenarioGetCmd())
	cmd.AddCommand(scenarioCompareCmd())
	cmd.AddCommand(scenarioExportCmd())
	cmd.AddCommand(scenarioDeleteCmd())

	return cmd
}

func scenarioSaveCmd() *cobra.Command {
	var (
		loan           loanFlags
		name           string
		idempotencyKey string
	)

	cmd := &cobra.Command{
		Use:   "save",
		Short: "Save a loan as a named scenario",
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := loan.request()
			if err != nil {
				return err
			}

			headers := map[string]string{}
			if idempotencyKey != "" {
				headers["Idempotency-Key"] = idempotencyKey
			}

			body, err := newAPIClient().do(cmd.Context(), http.MethodPost, scenariosPath, dto.SaveScenarioRequest{Name: name, Loan: req}, headers)
			if err != nil {
				return err
			}

			var detail dto.ScenarioDetailResponse
			if err := json.Unmarshal(body, &detail); err != nil {
				return fmt.Errorf("failed to parse response: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved %s (%s)\n", detail.Scenario.ID, detail.Scenario.Name)
			return nil
		},
	}

	loan.bind(cmd)
	cmd.Flags().StringVar(&name, "name", "", "Scenario name")
	cmd.Flags().StringVar(&idempotencyKey, "idempotency-key", "", "Idempotency key for safe retries")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func scenarioListCmd() *cobra.Command {
	var limit, offset int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved scenarios",
		RunE: func(cmd *cobra.Command, args []string) error {
			query := url.Values{}
			query.Set("limit", strconv.Itoa(limit))
			query.Set("offset", strconv.Itoa(offset))

			body, err := newAPIClient().do(cmd.Context(), http.MethodGet, scenariosPath+"?"+query.Encode(), nil, nil)
			if err != nil {
				return err
			}

			var page dto.ListScenariosResponse
			if err := json.Unmarshal(body, &page); err != nil {
				return fmt.Errorf("failed to parse response: %w", err)
			}

			return printScenarioTable(cmd.OutOrStdout(), page.Scenarios)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of scenarios")
	cmd.Flags().IntVar(&offset, "offset", 0, "Number of scenarios to skip")

	return cmd
}

func scenarioGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a scenario with its schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := newAPIClient().do(cmd.Context(), http.MethodGet, scenariosPath+"/"+url.PathEscape(args[0]), nil, nil)
			if err != nil {
				return err
			}
			return printRawJSON(cmd.OutOrStdout(), body)
		},
	}
}

func scenarioCompareCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compare <base-id> <alternative-id>",
		Short: "Compare two saved scenarios (alternative minus base)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := url.Values{}
			query.Set("base", args[0])
			query.Set("alternative", args[1])

			body, err := newAPIClient().do(cmd.Context(), http.MethodGet, scenariosPath+"/compare?"+query.Encode(), nil, nil)
			if err != nil {
				return err
			}
			return printRawJSON(cmd.OutOrStdout(), body)
		},
	}
}

func scenarioExportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export <id>",
		Short: "Download a scenario schedule as CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := newAPIClient().do(cmd.Context(), http.MethodGet, scenariosPath+"/"+url.PathEscape(args[0])+"/export", nil, nil)
			if err != nil {
				return err
			}

			return withOutput(cmd, output, func(w io.Writer) error {
				_, err := w.Write(body)
				return err
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to file instead of stdout")

	return cmd
}

func scenarioDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a saved scenario",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := newAPIClient().do(cmd.Context(), http.MethodDelete, scenariosPath+"/"+url.PathEscape(args[0]), nil, nil); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	}
}

func printScenarioTable(w io.Writer, scenarios []*dto.ScenarioResponse) error {
	if len(scenarios) == 0 {
		fmt.Fprintln(w, "no scenarios")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tPRINCIPAL\tRATE\tTERM\tCREATED")
	for _, s := range scenarios {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s%%\t%d\t%s\n",
			s.ID,
			truncate(s.Name, 30),
			s.Loan.Principal.String(),
			s.Loan.AnnualInterestRate.String(),
			s.Loan.TermMonths,
			s.CreatedAt.Format(dto.DateLayout),
		)
	}

	return tw.Flush()
}

func printRawJSON(w io.Writer, body []byte) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, body, "", "  "); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	buf.WriteByte('\n')
	_, err := buf.WriteTo(w)
	return err
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}

type apiClient struct {
	baseURL string
	client  *http.Client
}

func newAPIClient() *apiClient {
	return &apiClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// do sends a request and returns the body of a 2xx response.
func (c *apiClient) do(ctx context.Context, method, path string, payload any, headers map[string]string) ([]byte, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr dto.ErrorResponse
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
			return nil, fmt.Errorf("request failed (status %d): %s", resp.StatusCode, apiErr.Error)
		}
		return nil, fmt.Errorf("request failed (status %d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return body, nil
}
