package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"routing-service/internal/api/dto"
	"routing-service/internal/app"
	"routing-service/internal/services"
)

func newSolveCmd() *cobra.Command {
	var (
		file     string
		strategy string
	)

	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Plan routes for a request file and print the result as JSON",
		Long: "solve reads an /optimize request body from --file (or stdin with -)\n" +
			"and prints the routing result. Nothing is archived or published.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			req, err := readRequest(cmd.InOrStdin(), file)
			if err != nil {
				return err
			}
			if strategy == "" {
				strategy = req.Strategy
			}
			st, err := services.ParseStrategy(strategy)
			if err != nil {
				return err
			}
			in, err := req.ToInput()
			if err != nil {
				return err
			}

			svc, err := app.NewRoutingService(cfg, nil)
			if err != nil {
				return err
			}
			res, err := svc.Solve(cmd.Context(), in, st)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "request JSON file, - for stdin")
	cmd.Flags().StringVarP(&strategy, "strategy", "s", "", "exact or greedy (overrides the file)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func readRequest(stdin io.Reader, path string) (dto.OptimizeRequest, error) {
	var req dto.OptimizeRequest

	r := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return req, fmt.Errorf("read request: %w", err)
		}
		defer f.Close()
		r = f
	}

	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return req, fmt.Errorf("read request %q: %w", path, err)
	}
	return req, nil
}
